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

	"github.com/refpersys/rpscore/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDequePushBackGrowsChunkAtBoundary(t *testing.T) {
	d := NewDeque()
	for i := 0; i < DequeChunkSize; i++ {
		d.PushBack(value.Int(int64(i)))
	}
	assert.Equal(t, 1, d.NumChunks())
	assert.Equal(t, DequeChunkSize, d.Len())

	d.PushBack(value.Int(99))
	assert.Equal(t, 2, d.NumChunks())
	assert.Equal(t, DequeChunkSize+1, d.Len())

	vals := d.Values()
	require.Len(t, vals, DequeChunkSize+1)
	for i := 0; i < DequeChunkSize; i++ {
		assert.Equal(t, value.Int(int64(i)), vals[i])
	}
	assert.Equal(t, value.Int(99), vals[DequeChunkSize])
}

func TestDequePushFrontAndPopBothEnds(t *testing.T) {
	d := NewDeque()
	d.PushBack(value.Int(1))
	d.PushBack(value.Int(2))
	d.PushFront(value.Int(0))

	vals := d.Values()
	require.Len(t, vals, 3)
	assert.Equal(t, []value.Value{value.Int(0), value.Int(1), value.Int(2)}, vals)

	front, ok := d.PopFront()
	require.True(t, ok)
	assert.Equal(t, value.Int(0), front)

	back, ok := d.PopBack()
	require.True(t, ok)
	assert.Equal(t, value.Int(2), back)

	assert.Equal(t, 1, d.Len())
}

func TestDequePopEmptyReturnsFalse(t *testing.T) {
	d := NewDeque()
	_, ok := d.PopBack()
	assert.False(t, ok)
	_, ok = d.PopFront()
	assert.False(t, ok)
}

func TestDequeManyPushesAcrossMultipleChunkBoundaries(t *testing.T) {
	d := NewDeque()
	const n = DequeChunkSize*3 + 2
	for i := 0; i < n; i++ {
		d.PushBack(value.Int(int64(i)))
	}
	assert.Equal(t, 4, d.NumChunks())
	assert.Equal(t, n, d.Len())

	for i := 0; i < n; i++ {
		v, ok := d.PopFront()
		require.True(t, ok)
		assert.Equal(t, value.Int(int64(i)), v)
	}
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0, d.NumChunks())
}
