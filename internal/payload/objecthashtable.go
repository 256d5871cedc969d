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
	"github.com/refpersys/rpscore/internal/object"
	"github.com/refpersys/rpscore/internal/primes"
	"github.com/refpersys/rpscore/internal/value"
)

// KindObjectHashtable is the payload-kind string persisted for an
// ObjectHashtable.
const KindObjectHashtable = "object-hashtable"

type ohtEntry struct {
	key   *object.Object
	val   value.Value
	isTomb bool
}

// ObjectHashtable maps object keys to values using a prime-sized bucket
// array of chunk-lists with tombstone deletion (spec.md §4.6's
// object-hashtable payload kind; spec.md §8 scenario 6 exercises the
// rehash-bound behavior). Each bucket is a small slice (the "chunk-list")
// rather than a single slot, absorbing collisions without probing into a
// neighboring bucket.
type ObjectHashtable struct {
	Base

	mu      sync.RWMutex
	buckets [][]ohtEntry
	card    int
}

// NewObjectHashtable returns an empty ObjectHashtable sized to the
// smallest prime-ladder rung.
func NewObjectHashtable() *ObjectHashtable {
	size := primes.OfIndex(0)
	return &ObjectHashtable{buckets: make([][]ohtEntry, size)}
}

// Kind implements object.Payload.
func (*ObjectHashtable) Kind() string { return KindObjectHashtable }

func (h *ObjectHashtable) bucketIndex(key *object.Object) int {
	return int(key.OidOf().Hash() % uint32(len(h.buckets)))
}

func (h *ObjectHashtable) findLocked(key *object.Object) (bucket, slot int, found bool) {
	b := h.bucketIndex(key)
	for i, e := range h.buckets[b] {
		if !e.isTomb && e.key.OidOf() == key.OidOf() {
			return b, i, true
		}
	}
	return b, -1, false
}

// needsRehash triggers once the live entries reach 7/8 of the bucket
// count. Tombstones are not counted; rehash drops them. The growth target
// in rehash uses the same formula as the object registry's buckets.
func (h *ObjectHashtable) needsRehash() bool {
	return h.card*8 >= len(h.buckets)*7
}

func (h *ObjectHashtable) rehash() {
	target := 3*h.card/2 + len(h.buckets)/8 + 6
	newSize, _ := primes.Above(uint32(target))
	next := make([][]ohtEntry, newSize)
	for _, bucket := range h.buckets {
		for _, e := range bucket {
			if e.isTomb {
				continue
			}
			idx := int(e.key.OidOf().Hash() % uint32(len(next)))
			next[idx] = append(next[idx], e)
		}
	}
	h.buckets = next
}

// Put binds key to val, rehashing first if the table has grown too
// dense.
func (h *ObjectHashtable) Put(key *object.Object, val value.Value) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.needsRehash() {
		h.rehash()
	}
	b, slot, found := h.findLocked(key)
	if found {
		h.buckets[b][slot].val = val
		return
	}
	h.buckets[b] = append(h.buckets[b], ohtEntry{key: key, val: val})
	h.card++
}

// Get returns the value bound to key, and whether it was present.
func (h *ObjectHashtable) Get(key *object.Object) (value.Value, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, slot, found := h.findLocked(key)
	if !found {
		return nil, false
	}
	return h.buckets[b][slot].val, true
}

// Remove unbinds key, leaving a tombstone in its chunk-list slot.
func (h *ObjectHashtable) Remove(key *object.Object) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, slot, found := h.findLocked(key)
	if !found {
		return false
	}
	h.buckets[b][slot].isTomb = true
	h.buckets[b][slot].key = nil
	h.buckets[b][slot].val = nil
	h.card--
	return true
}

// Size returns the number of live (non-tombstoned) bindings.
func (h *ObjectHashtable) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.card
}

// NumBuckets exposes the current bucket-array length, mainly for tests
// exercising the rehash-bound scenario.
func (h *ObjectHashtable) NumBuckets() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.buckets)
}

// Scan implements object.Payload.
func (h *ObjectHashtable) Scan() []oid.Oid {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []oid.Oid
	for _, bucket := range h.buckets {
		for _, e := range bucket {
			if e.isTomb {
				continue
			}
			out = append(out, e.key.OidOf())
			if ref, ok := e.val.(value.ObjectRef); ok {
				out = append(out, ref.OidOf())
			}
		}
	}
	return out
}

// Serialize implements object.Payload.
func (h *ObjectHashtable) Serialize() (map[string]any, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var entries []map[string]any
	for _, bucket := range h.buckets {
		for _, e := range bucket {
			if e.isTomb {
				continue
			}
			entries = append(entries, map[string]any{"key": e.key, "value": e.val})
		}
	}
	return map[string]any{"entries": entries}, nil
}
