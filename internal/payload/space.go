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

// KindSpace is the payload-kind string persisted for a Space.
const KindSpace = "space"

// Space is the payload attached to a space object: it carries exactly
// one value, the data the persistence layer writes to that space's own
// JSON file (spec.md §4.7's per-space data file; SPEC_FULL.md's
// supplemental features note the original's "space-data" record shape).
type Space struct {
	Base

	mu   sync.RWMutex
	data value.Value
}

// NewSpace returns a Space payload carrying no data yet.
func NewSpace() *Space {
	return &Space{}
}

// Kind implements object.Payload.
func (*Space) Kind() string { return KindSpace }

// Data returns the space's carried value.
func (s *Space) Data() value.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// SetData replaces the space's carried value.
func (s *Space) SetData(v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = v
}

// Scan implements object.Payload.
func (s *Space) Scan() []oid.Oid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref, ok := s.data.(value.ObjectRef); ok {
		return []oid.Oid{ref.OidOf()}
	}
	return nil
}

// Serialize implements object.Payload.
func (s *Space) Serialize() (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return map[string]any{}, nil
	}
	return map[string]any{"data": s.data}, nil
}
