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

func TestSymbolResolveRebind(t *testing.T) {
	s := NewSymbol("foo")
	assert.Equal(t, "foo", s.Name())

	_, ok := s.Resolve()
	assert.False(t, ok)

	s.Rebind(value.Int(7))
	v, ok := s.Resolve()
	require.True(t, ok)
	assert.Equal(t, value.Int(7), v)

	s.Rebind(nil)
	_, ok = s.Resolve()
	assert.False(t, ok)
}

func TestMutableSetAddRemoveContains(t *testing.T) {
	rt := newTestRuntime(t)
	s := NewMutableSet()
	a, err := rt.NewObject()
	require.NoError(t, err)
	b, err := rt.NewObject()
	require.NoError(t, err)

	assert.True(t, s.Add(a))
	assert.False(t, s.Add(a))
	assert.True(t, s.Add(b))
	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Contains(a))

	assert.True(t, s.Remove(a))
	assert.False(t, s.Contains(a))
	assert.Equal(t, 1, s.Size())

	members := s.Members()
	require.Len(t, members, 1)
	assert.Equal(t, b.OidOf(), members[0].OidOf())
}

func TestStringDictPutGetRemove(t *testing.T) {
	d := NewStringDict()
	_, ok := d.Get("a")
	assert.False(t, ok)

	d.Put("b", value.Int(2))
	d.Put("a", value.Int(1))
	assert.Equal(t, []string{"a", "b"}, d.Keys())

	v, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, value.Int(1), v)

	assert.True(t, d.Remove("a"))
	assert.Equal(t, 1, d.Size())
}

func TestClassInfoLookupOwnAndSuper(t *testing.T) {
	rt := newTestRuntime(t)
	super, err := rt.NewObject()
	require.NoError(t, err)
	selector, err := rt.NewObject()
	require.NoError(t, err)
	conn, err := rt.NewObject()
	require.NoError(t, err)

	ci := NewClassInfo(super)
	assert.Equal(t, super, ci.SuperOf())

	_, ok := ci.LookupOwn(selector)
	assert.False(t, ok)

	clo := value.NewClosure(conn, nil, nil)
	ci.PutMethod(selector, clo)
	got, ok := ci.LookupOwn(selector)
	require.True(t, ok)
	assert.Equal(t, clo.Hash(), got.Hash())

	ci.RemoveMethod(selector)
	_, ok = ci.LookupOwn(selector)
	assert.False(t, ok)
}

func TestSpaceData(t *testing.T) {
	sp := NewSpace()
	assert.Nil(t, sp.Data())
	sp.SetData(value.Int(5))
	assert.Equal(t, value.Int(5), sp.Data())
}

func TestOpaqueRoundTrip(t *testing.T) {
	raw := map[string]any{"x": float64(1)}
	o := NewOpaque(KindAgenda, raw)
	assert.Equal(t, KindAgenda, o.Kind())
	got, err := o.Serialize()
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Nil(t, o.Scan())
}
