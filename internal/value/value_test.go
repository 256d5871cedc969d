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

import (
	"math"
	"testing"

	"github.com/refpersys/rpscore/internal/oid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRef is a minimal ObjectRef stand-in so this package's tests don't
// need to import package object (which itself depends on package value).
type fakeRef struct {
	o oid.Oid
}

func (f fakeRef) Kind() Kind     { return KindObject }
func (f fakeRef) Hash() uint32   { return f.o.Hash() }
func (f fakeRef) OidOf() oid.Oid { return f.o }

func ref(hi, lo uint64) fakeRef {
	return fakeRef{o: oid.Oid{Hi: hi, Lo: lo}}
}

////////////////////////////////////////////////////////////////////////
// Scalars
////////////////////////////////////////////////////////////////////////

func TestKindOfNullIsNilValue(t *testing.T) {
	var v Value
	assert.Equal(t, KindNull, KindOf(v))
	assert.Equal(t, uint32(0), HashOf(v))
}

func TestIntHash(t *testing.T) {
	assert.Equal(t, KindInt, Int(0).Kind())
	assert.NotZero(t, Int(0).Hash())
	assert.NotEqual(t, Int(1).Hash(), Int(2).Hash())
}

func TestDoubleRejectsNaN(t *testing.T) {
	_, err := NewDouble(math.NaN())
	require.ErrorIs(t, err, ErrNaN)

	d, err := NewDouble(3.5)
	require.NoError(t, err)
	assert.Equal(t, KindDouble, d.Kind())
	assert.NotZero(t, d.Hash())
	assert.Equal(t, 3.5, d.Float64())
}

func TestStringValidatesUTF8(t *testing.T) {
	_, err := NewString(string([]byte{0xff, 0xfe}))
	require.ErrorIs(t, err, ErrInvalidUTF8)

	s, err := NewString("héllo")
	require.NoError(t, err)
	assert.Equal(t, KindString, s.Kind())
	assert.NotZero(t, s.Hash())
	assert.Equal(t, 5, s.Len())
}

func TestJSONHashIgnoresKeyOrder(t *testing.T) {
	a := NewJSON(map[string]any{"a": float64(1), "b": "x"})
	b := NewJSON(map[string]any{"b": "x", "a": float64(1)})
	assert.Equal(t, a.Hash(), b.Hash())

	arr1 := NewJSON([]any{float64(1), float64(2)})
	arr2 := NewJSON([]any{float64(2), float64(1)})
	assert.NotEqual(t, arr1.Hash(), arr2.Hash())

	// A numeric leaf and the "same" string must not collide.
	num := NewJSON(float64(1))
	str := NewJSON("1")
	assert.NotEqual(t, num.Hash(), str.Hash())
}

////////////////////////////////////////////////////////////////////////
// Tuple
////////////////////////////////////////////////////////////////////////

func TestTupleNthPositiveNegativeAndOutOfRange(t *testing.T) {
	a := ref(1000000, 1000000)
	b := ref(2000000, 2000000)
	tup := NewTuple([]ObjectRef{a, nil, b})

	assert.Equal(t, 3, tup.Size())
	assert.Equal(t, a, tup.Nth(0))
	assert.Nil(t, tup.Nth(1))
	assert.Equal(t, b, tup.Nth(2))
	assert.Equal(t, a, tup.Nth(-3))
	assert.Equal(t, b, tup.Nth(-1))
	assert.Nil(t, tup.Nth(3))
	assert.Nil(t, tup.Nth(-4))
}

////////////////////////////////////////////////////////////////////////
// Set
////////////////////////////////////////////////////////////////////////

func TestSetSortsDedupsAndFiltersNulls(t *testing.T) {
	a := ref(1000000, 1000000)
	b := ref(2000000, 2000000)

	s := NewSet([]ObjectRef{b, nil, a, b, a})
	require.Equal(t, 2, s.Size())
	assert.Equal(t, a, s.Nth(0))
	assert.Equal(t, b, s.Nth(1))

	idx, ok := s.IndexOf(b)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.True(t, s.Contains(a))
	assert.False(t, s.Contains(ref(9000000, 9000000)))
}

func TestSetIndexOfOnLargerSet(t *testing.T) {
	var refs []ObjectRef
	for i := uint64(0); i < 40; i++ {
		refs = append(refs, ref(1000000+i, 1000000))
	}
	s := NewSet(refs)
	require.Equal(t, 40, s.Size())

	for i, r := range refs {
		idx, ok := s.IndexOf(r)
		assert.True(t, ok)
		assert.Equal(t, i, idx)
	}
	_, ok := s.IndexOf(ref(99999999, 1))
	assert.False(t, ok)
}

////////////////////////////////////////////////////////////////////////
// Closure
////////////////////////////////////////////////////////////////////////

func TestClosureSizeAndNth(t *testing.T) {
	conn := ref(3000000, 3000000)
	captures := []Value{Int(42), mustString(t, "x")}
	c := NewClosure(conn, nil, captures)

	assert.Equal(t, KindClosure, c.Kind())
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, Int(42), c.Nth(0))
	assert.Equal(t, mustString(t, "x"), c.Nth(1))
	assert.Nil(t, c.Nth(2))
	assert.Equal(t, conn, c.Connective())
}

func mustString(t *testing.T, s string) String {
	t.Helper()
	v, err := NewString(s)
	require.NoError(t, err)
	return v
}
