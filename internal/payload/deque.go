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
	"github.com/refpersys/rpscore/internal/value"
)

// KindDeque is the payload-kind string persisted for a Deque.
const KindDeque = "deque"

// DequeChunkSize is the fixed size of each internal chunk (spec.md §8
// scenario 5's "chunked deque" growth behavior).
const DequeChunkSize = 8

// deque chunk: a fixed-size ring-free array plus the occupied [start,
// end) window within it, so Push{Front,Back} can grow on either side
// without shifting the rest of the chunk.
type dequeChunk struct {
	items      [DequeChunkSize]value.Value
	start, end int // occupied slice is items[start:end]
}

func newDequeChunk() *dequeChunk {
	return &dequeChunk{start: DequeChunkSize / 2, end: DequeChunkSize / 2}
}

func (c *dequeChunk) len() int { return c.end - c.start }

// Deque is a double-ended queue of values, internally organized as a
// list of fixed-size chunks (spec.md §4.6's deque payload kind; spec.md
// §8 scenario 5 exercises the chunk-boundary growth behavior directly).
type Deque struct {
	Base

	mu     sync.Mutex
	chunks []*dequeChunk
}

// NewDeque returns an empty Deque.
func NewDeque() *Deque {
	return &Deque{}
}

// Kind implements object.Payload.
func (*Deque) Kind() string { return KindDeque }

// PushBack appends v to the back of the deque.
func (d *Deque) PushBack(v value.Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.chunks) == 0 || d.chunks[len(d.chunks)-1].end == DequeChunkSize {
		d.chunks = append(d.chunks, newDequeChunk())
		last := d.chunks[len(d.chunks)-1]
		last.start, last.end = 0, 0
	}
	last := d.chunks[len(d.chunks)-1]
	last.items[last.end] = v
	last.end++
}

// PushFront prepends v to the front of the deque.
func (d *Deque) PushFront(v value.Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.chunks) == 0 || d.chunks[0].start == 0 {
		d.chunks = append([]*dequeChunk{newDequeChunk()}, d.chunks...)
		first := d.chunks[0]
		first.start, first.end = DequeChunkSize, DequeChunkSize
	}
	first := d.chunks[0]
	first.start--
	first.items[first.start] = v
}

// PopBack removes and returns the back value, and whether the deque was
// non-empty.
func (d *Deque) PopBack() (value.Value, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.chunks) > 0 && d.chunks[len(d.chunks)-1].len() == 0 {
		d.chunks = d.chunks[:len(d.chunks)-1]
	}
	if len(d.chunks) == 0 {
		return nil, false
	}
	last := d.chunks[len(d.chunks)-1]
	last.end--
	v := last.items[last.end]
	last.items[last.end] = nil
	if last.len() == 0 {
		d.chunks = d.chunks[:len(d.chunks)-1]
	}
	return v, true
}

// PopFront removes and returns the front value, and whether the deque
// was non-empty.
func (d *Deque) PopFront() (value.Value, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.chunks) > 0 && d.chunks[0].len() == 0 {
		d.chunks = d.chunks[1:]
	}
	if len(d.chunks) == 0 {
		return nil, false
	}
	first := d.chunks[0]
	v := first.items[first.start]
	first.items[first.start] = nil
	first.start++
	if first.len() == 0 {
		d.chunks = d.chunks[1:]
	}
	return v, true
}

// Len returns the total number of values currently held.
func (d *Deque) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.chunks {
		n += c.len()
	}
	return n
}

// NumChunks returns the current chunk count, exposed mainly for tests
// exercising the chunk-boundary growth behavior.
func (d *Deque) NumChunks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.chunks)
}

// Values returns every held value, front to back.
func (d *Deque) Values() []value.Value {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []value.Value
	for _, c := range d.chunks {
		out = append(out, c.items[c.start:c.end]...)
	}
	return out
}

// Scan implements object.Payload.
func (d *Deque) Scan() []oid.Oid {
	var out []oid.Oid
	for _, v := range d.Values() {
		if ref, ok := v.(value.ObjectRef); ok {
			out = append(out, ref.OidOf())
		}
	}
	return out
}

// Serialize implements object.Payload. "values" carries the live,
// front-to-back value.Value slice; package persistence's generic
// encoder flattens each entry (see Symbol.Serialize's comment).
func (d *Deque) Serialize() (map[string]any, error) {
	return map[string]any{"values": d.Values()}, nil
}
