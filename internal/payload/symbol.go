// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package payload

import (
	"sync"

	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/value"
)

// KindSymbol is the payload-kind string persisted for a Symbol.
const KindSymbol = "symbol"

// Symbol names an object by a string and optionally resolves to a bound
// value, the way the original C runtime's rps_symbol payload lets
// identifiers be looked up and rebound at the top level (SPEC_FULL.md's
// supplemental features; spec.md's distilled text doesn't mention
// symbols by name but carries the generic payload mechanism they use).
type Symbol struct {
	Base

	mu      sync.RWMutex
	name    string
	bound   value.Value
	isBound bool
}

// NewSymbol returns a Symbol payload named name, initially unbound.
func NewSymbol(name string) *Symbol {
	return &Symbol{name: name}
}

// Kind implements object.Payload.
func (*Symbol) Kind() string { return KindSymbol }

// Name returns the symbol's textual name.
func (s *Symbol) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Resolve returns the symbol's current binding, and whether it is bound
// at all (an unbound symbol resolves to (nil, false), distinct from a
// symbol explicitly bound to a null value, which cannot happen since
// value.Value null is represented by a nil interface itself — Rebind
// with a nil value unbinds instead).
func (s *Symbol) Resolve() (value.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bound, s.isBound
}

// Rebind sets the symbol's binding. A nil v unbinds the symbol.
func (s *Symbol) Rebind(v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil {
		s.bound = nil
		s.isBound = false
		return
	}
	s.bound = v
	s.isBound = true
}

// Scan implements object.Payload: a symbol's binding may reference
// another object, which the dumper must also reach.
func (s *Symbol) Scan() []oid.Oid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref, ok := s.bound.(value.ObjectRef); ok {
		return []oid.Oid{ref.OidOf()}
	}
	return nil
}

// Serialize implements object.Payload. The "bound" field, when present,
// is the raw value.Value binding itself: package persistence's generic
// value encoder walks a payload's serialized fields and encodes any
// value.Value it finds, so payload kinds hand back live values rather
// than pre-encoding them (which would need importing package
// persistence and so would cycle).
func (s *Symbol) Serialize() (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]any{"name": s.name}
	if s.isBound {
		out["bound"] = s.bound
	}
	return out, nil
}
