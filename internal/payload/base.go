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

// Package payload implements the payload kinds of spec.md §4.6: the
// variable-shaped extra state an Object may carry beyond its attribute
// table and component vector (symbols, classes, mutable collections,
// dictionaries, spaces, and the opaque agenda/tasklet stubs of
// SPEC_FULL.md's supplemental features).
//
// Every concrete kind embeds Base, which supplies the owner
// back-reference bookkeeping object.Payload requires; each kind overrides
// Kind, Scan and Serialize for its own shape, and Remove when detaching
// needs more than dropping the owner pointer.
package payload

import (
	"sync"

	"github.com/refpersys/rpscore/internal/object"
)

// Base is embedded by every payload kind to satisfy the parts of
// object.Payload common to all of them.
type Base struct {
	mu    sync.Mutex
	owner *object.Object
}

// SetOwner implements object.Payload.
func (b *Base) SetOwner(o *object.Object) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.owner = o
}

// Owner implements object.Payload.
func (b *Base) Owner() *object.Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner
}

// Remove is the default detach callback: a no-op. Kinds that hold onto
// resources needing explicit release (none currently do) would override
// it.
func (b *Base) Remove() {}
