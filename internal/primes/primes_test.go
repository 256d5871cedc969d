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

package primes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLadderIsMonotoneAndGrowsByAtLeastTenPercent(t *testing.T) {
	for i := 1; i < Count(); i++ {
		prev := float64(ladder[i-1])
		cur := ladder[i]
		assert.Greater(t, cur, ladder[i-1])
		assert.GreaterOrEqualf(t, float64(cur), prev*1.1-1e-9, "index %d: %d is not >= 1.1x %d", i, cur, ladder[i-1])
	}
}

func TestOfIndexIndexOfRoundTrip(t *testing.T) {
	for i := 0; i < Count(); i++ {
		p := OfIndex(i)
		j, ok := IndexOf(p)
		assert.True(t, ok)
		assert.Equal(t, i, j)
	}
}

func TestIndexOfRejectsNonLadderValue(t *testing.T) {
	_, ok := IndexOf(4)
	assert.False(t, ok)
}

func TestAboveAndBelow(t *testing.T) {
	p, i := Above(100)
	assert.Equal(t, uint32(101), p)
	assert.Equal(t, ladder[i], p)

	p, i = Below(100)
	assert.Equal(t, uint32(89), p)
	assert.Equal(t, ladder[i], p)

	// Out of range on both ends clamps to the nearest end of the ladder.
	p, _ = Above(100_000_000)
	assert.Equal(t, ladder[len(ladder)-1], p)

	p, _ = Below(0)
	assert.Equal(t, ladder[0], p)
}
