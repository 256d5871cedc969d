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

// Package alloc models the allocator-striping contract of spec.md §5: a
// fixed array of chain mutexes that allocation requests hash into, and a
// process-wide pause flag that the dump scanner (or any future GC pass)
// can raise to get a quiescent view of allocation activity.
//
// Go's own allocator and garbage collector do the actual memory
// management; this package exists only to give callers the same
// striping/pause-for-scanning contract the source relies on, so the dump
// protocol's "scanning" phase has a well-defined synchronization point.
package alloc

import (
	"sync"
	"sync/atomic"
	"time"
)

// NumChains is the number of allocation chains (spec.md §5: "a small
// prime, e.g. 61").
const NumChains = 61

// RetryCeiling bounds how long a waiter sleeps between checks of the
// pause flag (spec.md §5).
const RetryCeiling = 25 * time.Millisecond

// Allocator stripes allocation requests across NumChains chain mutexes
// and supports a process-wide pause for GC-style scanning.
type Allocator struct {
	chains [NumChains]sync.Mutex
	paused atomic.Bool
}

// New returns a ready Allocator.
func New() *Allocator {
	return &Allocator{}
}

// chainFor hashes a stripe key (typically an oid hash) onto a chain.
func (a *Allocator) chainFor(key uint32) *sync.Mutex {
	return &a.chains[int(key)%NumChains]
}

// Acquire blocks until allocation is not paused, then locks the chain
// that key hashes to, and returns an unlock function. No I/O or
// other-lock acquisition may happen while the chain is held (spec.md
// §5's lock-ordering rule puts allocator-chain last).
func (a *Allocator) Acquire(key uint32) (unlock func()) {
	for a.paused.Load() {
		time.Sleep(RetryCeiling)
	}
	m := a.chainFor(key)
	m.Lock()
	return m.Unlock
}

// Pause raises the pause flag; subsequent Acquire calls block until
// Resume is called. Pause does not itself wait for in-flight Acquire
// holders to release their chain — callers that need a quiescent view
// must also fence on every chain, which WaitQuiescent does.
func (a *Allocator) Pause() {
	a.paused.Store(true)
}

// Resume clears the pause flag.
func (a *Allocator) Resume() {
	a.paused.Store(false)
}

// Paused reports the current state of the pause flag.
func (a *Allocator) Paused() bool {
	return a.paused.Load()
}

// WaitQuiescent blocks until every chain is momentarily uncontended. It
// must be called after Pause, while new Acquire calls are blocked from
// entering, so once every chain has been locked and unlocked once no
// allocation is in flight.
func (a *Allocator) WaitQuiescent() {
	for i := range a.chains {
		a.chains[i].Lock()
		a.chains[i].Unlock()
	}
}
