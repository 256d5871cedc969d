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
	"sort"

	"github.com/refpersys/rpscore/internal/primes"
	"github.com/refpersys/rpscore/internal/value"
)

// AttrBinding is one (attribute, value) pair as exposed by
// AttributeTable.Bindings and Object.Attributes.
type AttrBinding struct {
	Attr *Object
	Val  value.Value
}

// AttributeTable is a copy-on-write, oid-sorted array of bindings
// (spec.md §4.5 "Attribute table"). Every mutating method returns a new
// table and leaves the receiver untouched, the same lease-style contract
// the teacher's mutable_content.go uses for inode content.
type AttributeTable struct {
	entries []AttrBinding
}

func (t AttributeTable) find(attr *Object) (idx int, found bool) {
	n := len(t.entries)
	if n == 0 {
		return 0, false
	}
	lo, hi := 0, n
	for hi-lo > 4 {
		mid := (lo + hi) / 2
		if t.entries[mid].Attr.OidOf().Less(attr.OidOf()) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	for i := lo; i < hi; i++ {
		c := t.entries[i].Attr.OidOf().Compare(attr.OidOf())
		if c == 0 {
			return i, true
		}
		if c > 0 {
			return i, false
		}
	}
	return hi, false
}

// Find returns the value bound to attr, or nil if unbound.
func (t AttributeTable) Find(attr *Object) value.Value {
	idx, found := t.find(attr)
	if !found {
		return nil
	}
	return t.entries[idx].Val
}

// Count is the number of bound attributes.
func (t AttributeTable) Count() int { return len(t.entries) }

// growth computes the new backing capacity for a table that is about to
// hold n entries (Put passes the length after insertion), following spec.md §4.5's
// tblsiz + 2 + tblsiz/5 formula.
func growth(n int) int {
	return n + 2 + n/5
}

// Put returns a new table with attr bound to val, preserving oid order.
// val must not be nil; callers (Object.PutAttribute) are expected to
// filter null values before calling this.
func (t AttributeTable) Put(attr *Object, val value.Value) AttributeTable {
	idx, found := t.find(attr)
	if found {
		next := make([]AttrBinding, len(t.entries))
		copy(next, t.entries)
		next[idx].Val = val
		return AttributeTable{entries: next}
	}

	n := len(t.entries)
	next := make([]AttrBinding, n+1, growth(n+1))
	copy(next, t.entries[:idx])
	next[idx] = AttrBinding{Attr: attr, Val: val}
	copy(next[idx+1:], t.entries[idx:])
	return AttributeTable{entries: next}
}

// Remove returns a new table with attr unbound. If attr was not bound,
// the returned table is a shallow copy equal to t.
func (t AttributeTable) Remove(attr *Object) AttributeTable {
	idx, found := t.find(attr)
	if !found {
		return t
	}
	n := len(t.entries)
	next := make([]AttrBinding, 0, n-1)
	next = append(next, t.entries[:idx]...)
	next = append(next, t.entries[idx+1:]...)

	// Shrink the backing store once occupancy drops under half of a
	// prime-ladder rung, mirroring the growth policy's use of the same
	// ladder for registries (spec.md §4.5).
	if cap(next) > 16 {
		if floor, _ := primes.Below(uint32(cap(next))); int(floor) > 2*len(next) {
			shrunk := make([]AttrBinding, len(next))
			copy(shrunk, next)
			next = shrunk
		}
	}
	return AttributeTable{entries: next}
}

// Bindings returns a defensive copy of every (attribute, value) pair, in
// oid order.
func (t AttributeTable) Bindings() []AttrBinding {
	out := make([]AttrBinding, len(t.entries))
	copy(out, t.entries)
	return out
}

// sortBindings sorts entries by attribute oid in place, for entries
// assembled out of order. Nothing in the repository calls it at present.
func sortBindings(entries []AttrBinding) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Attr.OidOf().Less(entries[j].Attr.OidOf())
	})
}
