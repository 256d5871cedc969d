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
	"github.com/refpersys/rpscore/internal/primes"
)

// tombstone marks a deleted open-addressing slot. It is never a real
// object (no oid ever resolves to it), so pointer identity alone
// distinguishes "empty", "occupied" and "tombstone" slots.
var tombstone = &Object{}

type slotState int

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type slot struct {
	obj *Object
}

func (s slot) state() slotState {
	switch s.obj {
	case nil:
		return slotEmpty
	case tombstone:
		return slotTombstone
	default:
		return slotOccupied
	}
}

// bucket is one of the registry's 620 outer shards (spec.md §4.5 "global
// registry"): an independently locked open-addressing table.
type bucket struct {
	mu       sync.Mutex
	slots    []slot
	card     int // occupied, excluding tombstones
	occupied int // occupied + tombstones, for load-factor accounting
}

func newBucket() *bucket {
	size := primes.OfIndex(0)
	return &bucket{slots: make([]slot, size)}
}

func probeIndex(id oid.Oid, cap int, i int) int {
	h := uint64(id.Hi ^ id.Lo)
	return int((h%uint64(cap) + uint64(i)) % uint64(cap))
}

// find returns the slot index holding id, if occupied, scanning the
// probe sequence until an empty slot (definite miss) or a match.
func (b *bucket) find(id oid.Oid) (idx int, found bool) {
	cap := len(b.slots)
	if cap == 0 {
		return 0, false
	}
	for i := 0; i < cap; i++ {
		idx := probeIndex(id, cap, i)
		switch b.slots[idx].state() {
		case slotEmpty:
			return 0, false
		case slotOccupied:
			if b.slots[idx].obj.OidOf() == id {
				return idx, true
			}
		case slotTombstone:
			// keep probing past tombstones
		}
	}
	return 0, false
}

// insertSlot returns the index to write a new entry for id into,
// preferring the first tombstone seen over the terminating empty slot so
// repeated insert/delete cycles reclaim space.
func (b *bucket) insertSlot(id oid.Oid) int {
	cap := len(b.slots)
	firstTomb := -1
	for i := 0; i < cap; i++ {
		idx := probeIndex(id, cap, i)
		switch b.slots[idx].state() {
		case slotEmpty:
			if firstTomb >= 0 {
				return firstTomb
			}
			return idx
		case slotTombstone:
			if firstTomb < 0 {
				firstTomb = idx
			}
		case slotOccupied:
			if b.slots[idx].obj.OidOf() == id {
				return idx
			}
		}
	}
	if firstTomb >= 0 {
		return firstTomb
	}
	// Table is pathologically full; caller is expected to have rehashed
	// before this can happen.
	return probeIndex(id, cap, 0)
}

// needsRehash applies spec.md §4.5's growth trigger: rehash once the
// bucket is nearly full, i.e. card+2 exceeds the capacity or fewer than
// a quarter of the slots are free (tombstones count as used).
func (b *bucket) needsRehash() bool {
	cap := len(b.slots)
	if cap == 0 {
		return true
	}
	margin := cap - b.occupied
	return b.card+2 > cap || margin < cap/4
}

func (b *bucket) rehash() {
	target := 3*b.card/2 + len(b.slots)/8 + 6
	newSize, _ := primes.Above(uint32(target))
	next := make([]slot, newSize)
	old := b.slots
	b.slots = next
	b.occupied = 0
	b.card = 0
	for _, s := range old {
		if s.state() != slotOccupied {
			continue
		}
		idx := b.insertSlot(s.obj.OidOf())
		b.slots[idx] = s
		b.card++
		b.occupied++
	}
}

func (b *bucket) put(o *Object) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.needsRehash() {
		b.rehash()
	}
	idx, found := b.find(o.OidOf())
	if found {
		b.slots[idx].obj = o
		return
	}
	idx = b.insertSlot(o.OidOf())
	wasTomb := b.slots[idx].state() == slotTombstone
	b.slots[idx] = slot{obj: o}
	b.card++
	if !wasTomb {
		b.occupied++
	}
}

func (b *bucket) get(id oid.Oid) *Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx, found := b.find(id)
	if !found {
		return nil
	}
	return b.slots[idx].obj
}

func (b *bucket) remove(id oid.Oid) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx, found := b.find(id)
	if !found {
		return false
	}
	b.slots[idx] = slot{obj: tombstone}
	b.card--
	return true
}

func (b *bucket) each(fn func(*Object)) {
	b.mu.Lock()
	snapshot := make([]*Object, 0, b.card)
	for _, s := range b.slots {
		if s.state() == slotOccupied {
			snapshot = append(snapshot, s.obj)
		}
	}
	b.mu.Unlock()
	for _, o := range snapshot {
		fn(o)
	}
}

func (b *bucket) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.card
}

// Registry is the global oid-keyed object table: oid.NbBuckets
// independently-locked shards, each an open-addressing table with
// tombstone deletion (spec.md §4.5 "global registry"). Sharding by
// oid.Bucket lets unrelated objects be created, looked up and removed
// concurrently without a single global lock.
type Registry struct {
	buckets [oid.NbBuckets]*bucket
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.buckets {
		r.buckets[i] = newBucket()
	}
	return r
}

func (r *Registry) bucketFor(id oid.Oid) *bucket {
	return r.buckets[id.Bucket()]
}

// Create allocates and registers a fresh Object for id. It panics if id
// is already registered; callers (the loader's pass 1, Runtime.NewObject)
// are expected to have checked Lookup first.
func (r *Registry) Create(id oid.Oid) *Object {
	b := r.bucketFor(id)
	if existing := b.get(id); existing != nil {
		panic("object: oid already registered: " + id.String())
	}
	o := newObject(id)
	b.put(o)
	return o
}

// Lookup returns the registered object for id, or nil.
func (r *Registry) Lookup(id oid.Oid) *Object {
	return r.bucketFor(id).get(id)
}

// Register inserts an already-constructed object, overwriting whatever
// was registered for its oid. Used by the loader when it needs to
// pre-create objects before filling them in.
func (r *Registry) Register(o *Object) {
	r.bucketFor(o.OidOf()).put(o)
}

// Forget removes id's registration, returning whether it had been
// present.
func (r *Registry) Forget(id oid.Oid) bool {
	return r.bucketFor(id).remove(id)
}

// Each calls fn once per registered object, in unspecified order. fn
// must not call back into the Registry for the same bucket its argument
// belongs to while holding any lock of its own.
func (r *Registry) Each(fn func(*Object)) {
	for _, b := range r.buckets {
		b.each(fn)
	}
}

// Size returns the total number of registered objects across every
// bucket.
func (r *Registry) Size() int {
	n := 0
	for _, b := range r.buckets {
		n += b.size()
	}
	return n
}
