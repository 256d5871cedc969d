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

package object

import (
	"sync"

	"github.com/refpersys/rpscore/internal/oid"
)

// RootSet is the process-wide set of root objects (spec.md §4.7): the
// dumper's scanning phase starts reachability from these, and nothing
// reachable only through a non-root may be dropped as garbage by a
// future collector.
type RootSet struct {
	mu    sync.RWMutex
	roots map[oid.Oid]*Object
}

// NewRootSet returns an empty RootSet.
func NewRootSet() *RootSet {
	return &RootSet{roots: make(map[oid.Oid]*Object)}
}

// Add marks o as a root.
func (r *RootSet) Add(o *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[o.OidOf()] = o
}

// Remove unmarks o as a root.
func (r *RootSet) Remove(o *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roots, o.OidOf())
}

// IsRoot reports whether o is currently a root.
func (r *RootSet) IsRoot(o *Object) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.roots[o.OidOf()]
	return ok
}

// Each calls fn once per root object, in unspecified order, over a
// snapshot taken under the read lock.
func (r *RootSet) Each(fn func(*Object)) {
	r.mu.RLock()
	snapshot := make([]*Object, 0, len(r.roots))
	for _, o := range r.roots {
		snapshot = append(snapshot, o)
	}
	r.mu.RUnlock()
	for _, o := range snapshot {
		fn(o)
	}
}

// Size returns the number of roots currently registered.
func (r *RootSet) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roots)
}
