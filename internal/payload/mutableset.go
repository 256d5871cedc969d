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
	"sort"
	"sync"

	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/object"
)

// KindMutableSet is the payload-kind string persisted for a MutableSet.
const KindMutableSet = "mutable-set"

// MutableSet is an in-place-growable, oid-ordered set of object members
// (spec.md §4.6's mutable-set payload kind, the mutable counterpart to
// value.Set's immutable one). spec.md's original describes this as a
// balanced tree; a Go slice kept sorted by oid gives the same ordered-
// membership and O(log n) lookup behavior with far less code, at the
// cost of O(n) insert/remove — an acceptable trade for the object
// counts this runtime targets. Documented as a simplification.
type MutableSet struct {
	Base

	mu      sync.RWMutex
	members []*object.Object
}

// NewMutableSet returns an empty MutableSet.
func NewMutableSet() *MutableSet {
	return &MutableSet{}
}

// Kind implements object.Payload.
func (*MutableSet) Kind() string { return KindMutableSet }

func (s *MutableSet) search(o *object.Object) (int, bool) {
	id := o.OidOf()
	n := len(s.members)
	idx := sort.Search(n, func(i int) bool {
		return !s.members[i].OidOf().Less(id)
	})
	if idx < n && s.members[idx].OidOf() == id {
		return idx, true
	}
	return idx, false
}

// Add inserts o, returning false if it was already a member.
func (s *MutableSet) Add(o *object.Object) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, found := s.search(o)
	if found {
		return false
	}
	s.members = append(s.members, nil)
	copy(s.members[idx+1:], s.members[idx:])
	s.members[idx] = o
	return true
}

// Remove deletes o, returning false if it was not a member.
func (s *MutableSet) Remove(o *object.Object) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, found := s.search(o)
	if !found {
		return false
	}
	s.members = append(s.members[:idx], s.members[idx+1:]...)
	return true
}

// Contains reports whether o is a member.
func (s *MutableSet) Contains(o *object.Object) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, found := s.search(o)
	return found
}

// Size returns the current cardinality.
func (s *MutableSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Members returns a defensive copy of the members, in ascending oid
// order.
func (s *MutableSet) Members() []*object.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*object.Object, len(s.members))
	copy(out, s.members)
	return out
}

// Scan implements object.Payload.
func (s *MutableSet) Scan() []oid.Oid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]oid.Oid, len(s.members))
	for i, m := range s.members {
		out[i] = m.OidOf()
	}
	return out
}

// Serialize implements object.Payload. "members" carries the live
// *object.Object slice as []any; package persistence's generic encoder
// flattens each entry (see Symbol.Serialize's comment).
func (s *MutableSet) Serialize() (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]any, len(s.members))
	for i, m := range s.members {
		members[i] = m
	}
	return map[string]any{"members": members}, nil
}
