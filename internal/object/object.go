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

// Package object implements the RefPerSys object core (spec.md §3, §4.5,
// §4.6): the mutable Object type with its lock, attribute table,
// component vector and payload slot, the 620-bucket global registry, the
// global roots set, and method dispatch across the class chain.
//
// spec.md describes the per-object lock as recursive. This
// implementation uses github.com/jacobsa/syncutil's InvariantMutex in
// place of a hand-rolled recursive mutex: every exported method acquires
// the lock once and does its work through unexported *locked helpers
// that never re-enter it, the same non-reentrant, check-on-unlock
// discipline the teacher's fs/inode.DirInode applies to its own mutex.
// Nothing in this package's API lets a caller observe the difference
// from true recursion — no operation here calls back into the same
// object's exported surface while holding its own lock. See DESIGN.md
// for the corresponding Open Question.
package object

import (
	"fmt"

	"github.com/jacobsa/syncutil"

	"github.com/refpersys/rpscore/internal/clock"
	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/value"
)

// MaxComponents bounds Object.ReserveComponents (spec.md §4.5).
const MaxComponents = 1_000_000

// Payload is the interface every payload kind (spec.md §4.6) implements.
// Concrete kinds live in package payload; Object only needs this much of
// their surface to manage attachment, detachment and dump traversal.
type Payload interface {
	// Kind names the payload variant, e.g. "symbol" or "mutable-set". It
	// is also the string persisted in a space-file record's "payload"
	// field (spec.md §4.7).
	Kind() string

	// SetOwner installs the back-reference to the owning object. Called
	// exactly once, by (*Object).PutPayload.
	SetOwner(owner *Object)

	// Owner returns the object this payload is attached to, or nil.
	Owner() *Object

	// Remove is the detach callback: invoked when a payload is replaced
	// or explicitly cleared (spec.md §3 "Payload ownership").
	Remove()

	// Scan returns the oids this payload's own state makes reachable,
	// extending a dump's reachability set (spec.md §4.7).
	Scan() []oid.Oid

	// Serialize renders the payload-specific fields that go alongside
	// {oid, class, mtime, attrs, comps} in a space-file object record
	// (spec.md §4.7).
	Serialize() (map[string]any, error)
}

// Object is the mutable entity keyed by oid (spec.md §3).
type Object struct {
	id oid.Oid

	// A mutex that must be held when touching the fields below. See
	// documentation for each method.
	mu syncutil.InvariantMutex

	class     *Object        // GUARDED_BY(mu)
	space     *Object        // GUARDED_BY(mu)
	mtimeUnix int64          // GUARDED_BY(mu)
	attrs     AttributeTable // GUARDED_BY(mu)
	comps     []value.Value  // GUARDED_BY(mu); len is size, cap is capacity
	payload   Payload        // GUARDED_BY(mu)
}

// checkInvariants panics if the object's state has drifted from what
// spec.md §3/§4.5 guarantee: a component vector size never exceeding its
// capacity, and a payload whose back-reference (when set) points at this
// very object. Only InvariantMutex's own Lock/Unlock call this; it is
// never invoked directly.
func (o *Object) checkInvariants() {
	if len(o.comps) > cap(o.comps) {
		panic(fmt.Sprintf("object %s: component size %d exceeds capacity %d", o.id, len(o.comps), cap(o.comps)))
	}
	if o.payload != nil && o.payload.Owner() != nil && o.payload.Owner() != o {
		panic(fmt.Sprintf("object %s: payload owned by a different object", o.id))
	}
}

// newObject constructs an Object with no class, no attributes, and no
// components: the state the loader's pass 1 hands back before pass 2
// fills it in (spec.md §3 "Object" lifecycle).
func newObject(id oid.Oid) *Object {
	o := &Object{id: id}
	o.mu = syncutil.NewInvariantMutex(o.checkInvariants)
	return o
}

// Kind makes *Object satisfy value.Value: objects are first-class values
// (spec.md §3's zone-kind list includes "object").
func (o *Object) Kind() value.Kind { return value.KindObject }

// Hash is an object value's hash: its oid's structural hash. Identity and
// value-hash coincide for objects, unlike every other first-class kind.
func (o *Object) Hash() uint32 { return o.id.Hash() }

// OidOf makes *Object satisfy value.ObjectRef.
func (o *Object) OidOf() oid.Oid { return o.id }

// ID is a more conventional alias for OidOf, for code that isn't talking
// to package value.
func (o *Object) ID() oid.Oid { return o.id }

func (o *Object) touch(clk clock.Clock) {
	o.mtimeUnix = clk.Now().Unix()
}

// Mtime returns the wall-clock second of the object's last mutation.
func (o *Object) Mtime() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mtimeUnix
}

// SetMtime restores a persisted mtime verbatim, without the touch
// semantics SetClass/SetSpace/PutAttribute use. Only the loader's
// fill-objects pass calls this: every other mutator's touch() bump to
// "now" is exactly wrong when what's being restored is a value that was
// already true at dump time.
func (o *Object) SetMtime(unixSec int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mtimeUnix = unixSec
}

// Class returns the object's class object.
func (o *Object) Class() *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.class
}

// SetClass installs cls as the object's class and updates mtime.
func (o *Object) SetClass(clk clock.Clock, cls *Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.class = cls
	o.touch(clk)
}

// Space returns the object's space object, or nil.
func (o *Object) Space() *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.space
}

// SetSpace installs sp as the object's space (nil clears it).
func (o *Object) SetSpace(clk clock.Clock, sp *Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.space = sp
	o.touch(clk)
}

// GetAttribute looks up attr in the object's attribute table, special
// casing the distinguished class/space attribute objects (spec.md §4.5).
func (o *Object) GetAttribute(rt *Runtime, attr *Object) value.Value {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.getAttributeLocked(rt, attr)
}

func (o *Object) getAttributeLocked(rt *Runtime, attr *Object) value.Value {
	switch attr {
	case rt.ClassAttr:
		if o.class == nil {
			return nil
		}
		return o.class
	case rt.SpaceAttr:
		if o.space == nil {
			return nil
		}
		return o.space
	default:
		return o.attrs.Find(attr)
	}
}

// PutAttribute binds attr to val, special-casing class/space the way
// GetAttribute does. Only object-typed values are accepted for class and
// space; a null val is ignored entirely (spec.md §4.5, §7).
func (o *Object) PutAttribute(rt *Runtime, clk clock.Clock, attr *Object, val value.Value) {
	if val == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	switch attr {
	case rt.ClassAttr:
		if obj, ok := val.(*Object); ok {
			o.class = obj
			o.touch(clk)
		}
	case rt.SpaceAttr:
		if obj, ok := val.(*Object); ok {
			o.space = obj
			o.touch(clk)
		}
	default:
		o.attrs = o.attrs.Put(attr, val)
		o.touch(clk)
	}
}

// RemoveAttribute unbinds attr, if present.
func (o *Object) RemoveAttribute(clk clock.Clock, attr *Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attrs = o.attrs.Remove(attr)
	o.touch(clk)
}

// Attributes returns a snapshot slice of (attribute, value) pairs, sorted
// by attribute oid. Used by the dumper and by tests; the returned slice
// is a fresh copy, safe to range over without the lock held.
func (o *Object) Attributes() []AttrBinding {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attrs.Bindings()
}

// NumComponents returns the component vector's current size.
func (o *Object) NumComponents() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.comps)
}

// GetComponent returns the i-th component; negative i counts from the
// end. Out-of-range returns nil.
func (o *Object) GetComponent(i int) value.Value {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := len(o.comps)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil
	}
	return o.comps[i]
}

// PutComponent overwrites the i-th component (negative i counts from the
// end). i must fall within the current size; reserved but unused
// capacity does not count, and an out-of-range i returns false.
func (o *Object) PutComponent(clk clock.Clock, i int, v value.Value) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := len(o.comps)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return false
	}
	o.comps[i] = v
	o.touch(clk)
	return true
}

// AppendComponent grows the component vector by one, reserving capacity
// first if needed.
func (o *Object) AppendComponent(clk clock.Clock, v value.Value) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.comps) >= MaxComponents {
		return false
	}
	if len(o.comps) == cap(o.comps) {
		o.reserveComponentsLocked(len(o.comps) + 1)
	}
	o.comps = append(o.comps, v)
	o.touch(clk)
	return true
}

// ReserveComponents ensures the component vector can hold at least n
// entries without reallocating, growing by
// n + oldN/3 + n/8 + 3 (spec.md §4.5), capped at MaxComponents.
func (o *Object) ReserveComponents(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reserveComponentsLocked(n)
}

func (o *Object) reserveComponentsLocked(n int) {
	if n > MaxComponents {
		n = MaxComponents
	}
	if cap(o.comps) >= n {
		return
	}
	oldN := len(o.comps)
	grown := n + oldN/3 + n/8 + 3
	if grown > MaxComponents {
		grown = MaxComponents
	}
	if grown < n {
		grown = n
	}
	next := make([]value.Value, len(o.comps), grown)
	copy(next, o.comps)
	o.comps = next
}

// SetComponents replaces the whole component vector. Used by the loader
// when filling an object from a persisted record.
func (o *Object) SetComponents(clk clock.Clock, comps []value.Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.comps = append([]value.Value(nil), comps...)
	o.touch(clk)
}

// Components returns a copy of the component vector.
func (o *Object) Components() []value.Value {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]value.Value(nil), o.comps...)
}

// PutPayload detaches any existing payload (invoking its Remove
// callback) and attaches p, wiring its owner back-reference (spec.md §3
// "Payload ownership").
func (o *Object) PutPayload(p Payload) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.payload != nil {
		o.payload.Remove()
	}
	if p != nil {
		p.SetOwner(o)
	}
	o.payload = p
}

// GetPayloadOfType returns the object's payload if its kind matches, else
// nil (spec.md §4.5).
func (o *Object) GetPayloadOfType(kind string) Payload {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.payload != nil && o.payload.Kind() == kind {
		return o.payload
	}
	return nil
}

// Payload returns the object's payload, whatever its kind, or nil.
func (o *Object) Payload() Payload {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.payload
}
