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

package value

import "sort"

// Tuple is an immutable, order-preserving vector of object references
// (spec.md §3, §4.4). Null slots (a nil ObjectRef) are allowed.
type Tuple struct {
	elems []ObjectRef
	hash  uint32
}

// NewTuple copies obs (so later mutation of the caller's slice can't
// reach back into the tuple) and computes the tuple's hash.
func NewTuple(obs []ObjectRef) Tuple {
	elems := make([]ObjectRef, len(obs))
	copy(elems, obs)
	return Tuple{elems: elems, hash: mixOrdered(elems)}
}

func (Tuple) Kind() Kind     { return KindTuple }
func (t Tuple) Hash() uint32 { return t.hash }
func (t Tuple) Size() int    { return len(t.elems) }

// Nth returns the k-th component. Negative k counts from the end
// (k + arity); an out-of-range k returns nil (spec.md §8).
func (t Tuple) Nth(k int) ObjectRef {
	n := len(t.elems)
	if k < 0 {
		k += n
	}
	if k < 0 || k >= n {
		return nil
	}
	return t.elems[k]
}

// Set is an immutable, ascending-by-oid, duplicate-free vector of object
// references (spec.md §3, §4.4).
type Set struct {
	elems []ObjectRef
	hash  uint32
}

// NewSet filters nulls, sorts by oid, removes duplicates, and computes
// the exact-cardinality set (spec.md §4.4, §8 scenario 1).
func NewSet(obs []ObjectRef) Set {
	filtered := make([]ObjectRef, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].OidOf().Less(filtered[j].OidOf())
	})
	deduped := filtered[:0]
	for i, o := range filtered {
		if i == 0 || !equalRefs(deduped[len(deduped)-1], o) {
			deduped = append(deduped, o)
		}
	}
	// deduped aliases filtered's backing array but that's fine: nothing
	// else references the pre-dedup slice after this point.
	elems := make([]ObjectRef, len(deduped))
	copy(elems, deduped)
	return Set{elems: elems, hash: mixCommutative(elems)}
}

func (Set) Kind() Kind     { return KindSet }
func (s Set) Hash() uint32 { return s.hash }
func (s Set) Size() int    { return len(s.elems) }

// Nth returns the k-th member in ascending order; O(1).
func (s Set) Nth(k int) ObjectRef {
	if k < 0 || k >= len(s.elems) {
		return nil
	}
	return s.elems[k]
}

// IndexOf returns the position of target, and false if absent. It
// narrows with binary search down to a four-element window, then
// finishes with a linear sweep, per spec.md §4.4 and the Open Question
// in spec.md §9 about the narrowing/window interaction.
func (s Set) IndexOf(target ObjectRef) (int, bool) {
	if target == nil {
		return 0, false
	}
	lo, hi := 0, len(s.elems)
	for hi-lo > 4 {
		mid := lo + (hi-lo)/2
		if s.elems[mid].OidOf().Less(target.OidOf()) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	for i := lo; i < hi; i++ {
		if equalRefs(s.elems[i], target) {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether target is a member.
func (s Set) Contains(target ObjectRef) bool {
	_, ok := s.IndexOf(target)
	return ok
}

// Closure wraps a connective object, optional metadata value, and an
// ordered vector of captured values (spec.md §3, §4.4). Applying a
// closure requires locking the connective object and so lives in package
// object, not here; Closure itself is inert data.
type Closure struct {
	connective ObjectRef
	meta       Value
	captures   []Value
	hash       uint32
}

// NewClosure copies captures into storage of exactly len(captures) and
// records that length as Size; the capacity is not rounded up to a
// prime.
func NewClosure(connective ObjectRef, meta Value, captures []Value) Closure {
	cs := make([]Value, len(captures))
	copy(cs, captures)
	return Closure{
		connective: connective,
		meta:       meta,
		captures:   cs,
		hash:       mixClosure(connective, meta, cs),
	}
}

func (Closure) Kind() Kind        { return KindClosure }
func (c Closure) Hash() uint32    { return c.hash }
func (c Closure) Size() int       { return len(c.captures) }
func (c Closure) Connective() ObjectRef { return c.connective }
func (c Closure) Metadata() Value { return c.meta }

// Nth returns the i-th captured value, or nil if i is out of range.
func (c Closure) Nth(i int) Value {
	if i < 0 || i >= len(c.captures) {
		return nil
	}
	return c.captures[i]
}

// Captures returns a copy of the closure's captured-value vector, for
// callers (package object's Apply) that need every capture rather than
// one at a time.
func (c Closure) Captures() []Value {
	out := make([]Value, len(c.captures))
	copy(out, c.captures)
	return out
}
