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

package alloc

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireReleaseDistinctChainsConcurrently(t *testing.T) {
	a := New()
	var wg sync.WaitGroup
	var counter int64
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := a.Acquire(uint32(i))
			atomic.AddInt64(&counter, 1)
			unlock()
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, 200, counter)
}

func TestPauseBlocksAcquire(t *testing.T) {
	a := New()
	a.Pause()
	require.True(t, a.Paused())

	done := make(chan struct{})
	go func() {
		unlock := a.Acquire(7)
		unlock()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Acquire should have blocked while paused")
	case <-time.After(60 * time.Millisecond):
	}

	a.Resume()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Acquire did not unblock after Resume")
	}
}

func TestWaitQuiescentAfterPauseSeesNoHolders(t *testing.T) {
	a := New()
	unlock := a.Acquire(3)
	unlock()

	a.Pause()
	defer a.Resume()
	a.WaitQuiescent()
}
