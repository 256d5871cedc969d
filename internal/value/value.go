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

// Package value implements the zoned-value taxonomy and the immutable
// value constructors of spec.md §3-§4 (C3, C4): the tagged union that
// backs every slot in a RefPerSys heap (attribute values, tuple and set
// members, closure captures), plus hashing rules for each variant.
//
// A RefPerSys null is represented by the nil Value interface value, which
// mirrors the source's "zero word" case without needing a sentinel type.
package value

import "github.com/refpersys/rpscore/internal/oid"

// Kind is the variant tag of a Value (spec.md §3's zone kinds, restricted
// to the first-class-value subset; payload kinds live in package payload).
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindDouble
	KindString
	KindJSON
	KindTuple
	KindSet
	KindClosure
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindJSON:
		return "json"
	case KindTuple:
		return "tuple"
	case KindSet:
		return "set"
	case KindClosure:
		return "closure"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the tagged union described by spec.md §3. Every concrete kind
// except the nil null has a non-zero hash. The boxed kinds compute it at
// construction time and memoize it; Int, which has no box, derives it
// from its value on each call.
type Value interface {
	Kind() Kind
	Hash() uint32
}

// ObjectRef is the subset of object.Object's surface that package value
// needs to hold object references inside tuples, sets and closures,
// without importing package object (which in turn depends on package
// value for attribute values). Package object's *Object satisfies this.
type ObjectRef interface {
	Value
	OidOf() oid.Oid
}

// KindOf returns v's variant, treating a nil Value as KindNull the way
// type-of(value) does for the zero word (spec.md §4.3).
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// HashOf returns v's hash, or 0 for null. Null is never stored as a zone
// and never itself hashed into a composite; this is only for callers that
// want a uniform accessor.
func HashOf(v Value) uint32 {
	if v == nil {
		return 0
	}
	return v.Hash()
}

// equalRefs reports whether two object references name the same object. It
// is used by Set construction to de-duplicate and by Set.IndexOf; it is not
// a general Value equality (the spec defines no value equality beyond
// hash-consing candidates, which this module does not implement).
func equalRefs(a, b ObjectRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.OidOf() == b.OidOf()
}
