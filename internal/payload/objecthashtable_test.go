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
	"testing"

	"github.com/refpersys/rpscore/internal/clock"
	"github.com/refpersys/rpscore/internal/object"
	"github.com/refpersys/rpscore/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T) *object.Runtime {
	t.Helper()
	rt, err := object.NewRuntime(clock.RealClock{})
	require.NoError(t, err)
	return rt
}

func TestObjectHashtablePutGetRemove(t *testing.T) {
	rt := newTestRuntime(t)
	h := NewObjectHashtable()

	k1, err := rt.NewObject()
	require.NoError(t, err)
	k2, err := rt.NewObject()
	require.NoError(t, err)

	_, ok := h.Get(k1)
	assert.False(t, ok)

	h.Put(k1, value.Int(1))
	h.Put(k2, value.Int(2))
	assert.Equal(t, 2, h.Size())

	v, ok := h.Get(k1)
	require.True(t, ok)
	assert.Equal(t, value.Int(1), v)

	assert.True(t, h.Remove(k1))
	_, ok = h.Get(k1)
	assert.False(t, ok)
	assert.Equal(t, 1, h.Size())
	assert.False(t, h.Remove(k1))
}

func TestObjectHashtableRehashesAsItGrows(t *testing.T) {
	rt := newTestRuntime(t)
	h := NewObjectHashtable()
	startBuckets := h.NumBuckets()

	var keys []*object.Object
	for i := 0; i < 500; i++ {
		k, err := rt.NewObject()
		require.NoError(t, err)
		keys = append(keys, k)
		h.Put(k, value.Int(int64(i)))
	}

	assert.Equal(t, 500, h.Size())
	assert.Greater(t, h.NumBuckets(), startBuckets)

	for i, k := range keys {
		v, ok := h.Get(k)
		require.True(t, ok)
		assert.Equal(t, value.Int(int64(i)), v)
	}
}
