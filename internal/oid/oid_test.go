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

package oid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

////////////////////////////////////////////////////////////////////////
// Tests
////////////////////////////////////////////////////////////////////////

func TestRoundTripRandom(t *testing.T) {
	for i := 0; i < 2000; i++ {
		o, err := Random()
		require.NoError(t, err)
		require.True(t, o.Valid())

		text := o.String()
		assert.Len(t, text, TextLen)
		assert.Equal(t, byte('_'), text[0])

		decoded, n, err := Decode(text)
		require.NoError(t, err)
		assert.Equal(t, TextLen, n)
		assert.Equal(t, o, decoded)
	}
}

func TestStringAlphabet(t *testing.T) {
	o := Oid{Hi: minHi, Lo: minLo}
	text := o.String()
	for _, c := range text[1:] {
		assert.Contains(t, alphabet, string(c))
	}
}

func TestDecodeRejectsBadCharacter(t *testing.T) {
	o, err := Random()
	require.NoError(t, err)
	text := []byte(o.String())
	text[5] = '#'

	_, _, err = Decode(string(text))
	require.Error(t, err)
}

func TestDecodeRejectsMissingUnderscore(t *testing.T) {
	o, err := Random()
	require.NoError(t, err)
	text := []byte(o.String())
	text[0] = 'x'

	_, _, err = Decode(string(text))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeRejectsTooShort(t *testing.T) {
	_, _, err := Decode("_0abc")
	require.Error(t, err)
}

func TestDecodeConsumesOnlyPrefix(t *testing.T) {
	o, err := Random()
	require.NoError(t, err)
	text := o.String() + "trailing garbage"

	decoded, n, err := Decode(text)
	require.NoError(t, err)
	assert.Equal(t, TextLen, n)
	assert.Equal(t, o, decoded)
}

func TestCompareOrdersByHiThenLo(t *testing.T) {
	a := Oid{Hi: minHi, Lo: minLo}
	b := Oid{Hi: minHi, Lo: minLo + 1}
	c := Oid{Hi: minHi + 1, Lo: minLo}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Less(b))
}

func TestBucketInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		o, err := Random()
		require.NoError(t, err)
		b := o.Bucket()
		assert.GreaterOrEqual(t, b, 0)
		assert.Less(t, b, NbBuckets)
	}
}

func TestHashNeverZero(t *testing.T) {
	for i := 0; i < 500; i++ {
		o, err := Random()
		require.NoError(t, err)
		assert.NotZero(t, o.Hash())
	}
	// An oid whose hi/lo happen to be multiples of both primes would hash
	// to zero before the fallback kicks in.
	o := Oid{Hi: hashP1, Lo: hashP2}
	assert.NotZero(t, o.Hash())
}

func TestLooksLikeOid(t *testing.T) {
	o, err := Random()
	require.NoError(t, err)
	assert.True(t, LooksLikeOid(o.String()))
	assert.False(t, LooksLikeOid("hello world"))
	assert.False(t, LooksLikeOid("_"))
	assert.False(t, LooksLikeOid(""))
}
