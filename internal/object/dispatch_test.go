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
	"testing"

	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMethodTable is a minimal MethodTable-satisfying payload, standing
// in for package payload's real class-info kind so this package's tests
// don't need to import it (and wouldn't anyway: payload depends on
// object, not the reverse).
type stubMethodTable struct {
	owner   *Object
	super   *Object
	methods map[*Object]value.Closure
}

func (m *stubMethodTable) Kind() string         { return "class-info" }
func (m *stubMethodTable) SetOwner(o *Object)   { m.owner = o }
func (m *stubMethodTable) Owner() *Object       { return m.owner }
func (m *stubMethodTable) Remove()              {}
func (m *stubMethodTable) Scan() []oid.Oid      { return nil }
func (m *stubMethodTable) Serialize() (map[string]any, error) {
	return map[string]any{}, nil
}
func (m *stubMethodTable) SuperOf() *Object { return m.super }
func (m *stubMethodTable) LookupOwn(selector *Object) (value.Closure, bool) {
	clo, ok := m.methods[selector]
	return clo, ok
}

func TestDispatchWalksSuperclassChain(t *testing.T) {
	rt := testRuntime(t)

	base, err := rt.NewObject()
	require.NoError(t, err)
	mid, err := rt.NewObject()
	require.NoError(t, err)
	leaf, err := rt.NewObject()
	require.NoError(t, err)
	mid.PutPayload(&stubMethodTable{super: base})
	leaf.SetClass(rt.Clock, mid)

	selector, err := rt.NewObject()
	require.NoError(t, err)
	conn, err := rt.NewObject()
	require.NoError(t, err)
	wanted := value.NewClosure(conn, nil, nil)

	base.PutPayload(&stubMethodTable{methods: map[*Object]value.Closure{selector: wanted}})

	got, ok := rt.Dispatch(leaf, selector)
	assert.True(t, ok)
	assert.Equal(t, wanted.Hash(), got.Hash())
}

func TestDispatchMissReturnsFalse(t *testing.T) {
	rt := testRuntime(t)
	leaf, err := rt.NewObject()
	require.NoError(t, err)
	selector, err := rt.NewObject()
	require.NoError(t, err)

	_, ok := rt.Dispatch(leaf, selector)
	assert.False(t, ok)
}

func TestClassOfScalarKinds(t *testing.T) {
	rt := testRuntime(t)
	assert.Equal(t, rt.IntClass, rt.ClassOf(value.Int(1)))
	s, err := value.NewString("x")
	require.NoError(t, err)
	assert.Equal(t, rt.StringClass, rt.ClassOf(s))
}
