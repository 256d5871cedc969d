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
)

// KindAgenda and KindTasklet are persisted but this runtime treats their
// contents as opaque: the original C implementation's task scheduler and
// agenda live outside this core's scope (spec.md §1's non-goals), but
// spec.md §4.7's dump/load round trip still needs to carry objects of
// these kinds without dropping them. Opaque here means: whatever
// free-form JSON a loaded record carries for this payload is held
// unexamined and handed back byte-for-byte at dump time.
const (
	KindAgenda  = "agenda"
	KindTasklet = "tasklet"
)

// Opaque is a round-trip-only payload: it remembers nothing about its
// kind beyond the tag it was constructed with and the raw JSON tree
// recorded alongside it, and it contributes nothing to a dump's
// reachability scan (an opaque payload's own fields, by construction,
// are never object.Payload-typed, so Scan legitimately has nothing to
// report).
type Opaque struct {
	Base

	mu   sync.RWMutex
	kind string
	raw  map[string]any
}

// NewOpaque returns an Opaque payload tagged kind (KindAgenda or
// KindTasklet), carrying raw as its persisted fields.
func NewOpaque(kind string, raw map[string]any) *Opaque {
	return &Opaque{kind: kind, raw: raw}
}

// Kind implements object.Payload.
func (o *Opaque) Kind() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.kind
}

// Raw returns the payload's carried JSON fields, unexamined.
func (o *Opaque) Raw() map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.raw
}

// Scan implements object.Payload: an opaque payload reports no
// reachable oids.
func (o *Opaque) Scan() []oid.Oid { return nil }

// Serialize implements object.Payload: it hands back exactly what it was
// constructed with.
func (o *Opaque) Serialize() (map[string]any, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.raw, nil
}
