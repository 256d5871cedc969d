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

// mixOrdered combines member hashes order-sensitively (spec.md §4.3:
// "tuple, set, closure: mix the member/component oid hashes with a
// commutative-or-not rule matching their order semantics" — tuples are
// order-sensitive).
func mixOrdered(elems []ObjectRef) uint32 {
	h := uint32(0x9e3779b9)
	for _, e := range elems {
		h = (h*31 + refHash(e)) ^ (h >> 5)
	}
	return nonZero(h, 0x7475706c) // "tupl"
}

// mixCommutative combines member hashes order-insensitively, matching a
// set's unordered membership semantics.
func mixCommutative(elems []ObjectRef) uint32 {
	var h uint32
	for _, e := range elems {
		h ^= scramble(refHash(e))
	}
	return nonZero(h, 0x73657431) // "set1"
}

// mixClosure combines the connective, optional metadata, and ordered
// captures; order-sensitive, like a tuple, since application is
// positional.
func mixClosure(connective ObjectRef, meta Value, captures []Value) uint32 {
	h := uint32(0x27220a95)
	h = (h*31 + refHash(connective)) ^ (h >> 5)
	h = (h*31 + HashOf(meta)) ^ (h >> 5)
	for _, c := range captures {
		h = (h*31 + HashOf(c)) ^ (h >> 5)
	}
	return nonZero(h, 0x636c6f31) // "clo1"
}

func refHash(r ObjectRef) uint32 {
	if r == nil {
		return 0
	}
	return r.Hash()
}

// scramble avalanches a hash before xor-folding it into a commutative
// accumulator, so that e.g. {a, a^b} and {b, a} don't collide as often as
// a plain xor would produce.
func scramble(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

func nonZero(h, fallback uint32) uint32 {
	if h == 0 {
		return fallback
	}
	return h
}
