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

	"github.com/refpersys/rpscore/internal/clock"
	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := NewRuntime(clock.RealClock{})
	require.NoError(t, err)
	return rt
}

func TestAttributePutFindRemove(t *testing.T) {
	rt := testRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)
	attr, err := rt.NewObject()
	require.NoError(t, err)

	assert.Nil(t, obj.GetAttribute(rt, attr))

	obj.PutAttribute(rt, rt.Clock, attr, value.Int(42))
	assert.Equal(t, value.Int(42), obj.GetAttribute(rt, attr))

	obj.PutAttribute(rt, rt.Clock, attr, value.Int(43))
	assert.Equal(t, value.Int(43), obj.GetAttribute(rt, attr))

	obj.RemoveAttribute(rt.Clock, attr)
	assert.Nil(t, obj.GetAttribute(rt, attr))
}

func TestAttributePutNullIsNoOp(t *testing.T) {
	rt := testRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)
	attr, err := rt.NewObject()
	require.NoError(t, err)

	obj.PutAttribute(rt, rt.Clock, attr, nil)
	assert.Nil(t, obj.GetAttribute(rt, attr))
}

func TestManyAttributesStayOrderedAndFindable(t *testing.T) {
	rt := testRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)

	var attrs []*Object
	for i := 0; i < 50; i++ {
		a, err := rt.NewObject()
		require.NoError(t, err)
		attrs = append(attrs, a)
		obj.PutAttribute(rt, rt.Clock, a, value.Int(int64(i)))
	}

	for i, a := range attrs {
		assert.Equal(t, value.Int(int64(i)), obj.GetAttribute(rt, a))
	}
	assert.Len(t, obj.Attributes(), 50)
}

func TestClassAndSpaceAttributeSpecialCasing(t *testing.T) {
	rt := testRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)

	assert.Equal(t, rt.ObjectClass.Class(), rt.ObjectClass.GetAttribute(rt, rt.ClassAttr))

	obj.PutAttribute(rt, rt.Clock, rt.ClassAttr, rt.IntClass)
	assert.Equal(t, rt.IntClass, obj.Class())
	assert.Equal(t, value.Value(rt.IntClass), obj.GetAttribute(rt, rt.ClassAttr))

	obj.PutAttribute(rt, rt.Clock, rt.SpaceAttr, rt.ObjectClass)
	assert.Equal(t, rt.ObjectClass, obj.Space())
}

func TestComponentGetPutNegativeIndexing(t *testing.T) {
	rt := testRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)

	obj.SetComponents(rt.Clock, []value.Value{value.Int(1), value.Int(2), value.Int(3)})
	assert.Equal(t, 3, obj.NumComponents())
	assert.Equal(t, value.Int(1), obj.GetComponent(0))
	assert.Equal(t, value.Int(3), obj.GetComponent(-1))
	assert.Nil(t, obj.GetComponent(3))
	assert.Nil(t, obj.GetComponent(-4))

	assert.True(t, obj.PutComponent(rt.Clock, -1, value.Int(99)))
	assert.Equal(t, value.Int(99), obj.GetComponent(2))
	assert.False(t, obj.PutComponent(rt.Clock, 5, value.Int(0)))
}

func TestAppendComponentGrowsPastCapacity(t *testing.T) {
	rt := testRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.True(t, obj.AppendComponent(rt.Clock, value.Int(int64(i))))
	}
	assert.Equal(t, 20, obj.NumComponents())
	for i := 0; i < 20; i++ {
		assert.Equal(t, value.Int(int64(i)), obj.GetComponent(i))
	}
}

type stubPayload struct {
	owner   *Object
	kind    string
	removed bool
}

func (p *stubPayload) Kind() string                        { return p.kind }
func (p *stubPayload) SetOwner(o *Object)                   { p.owner = o }
func (p *stubPayload) Owner() *Object                       { return p.owner }
func (p *stubPayload) Remove()                              { p.removed = true }
func (p *stubPayload) Scan() []oid.Oid                       { return nil }
func (p *stubPayload) Serialize() (map[string]any, error)    { return map[string]any{}, nil }

func TestPutPayloadDetachesPrevious(t *testing.T) {
	rt := testRuntime(t)
	obj, err := rt.NewObject()
	require.NoError(t, err)

	first := &stubPayload{kind: "symbol"}
	obj.PutPayload(first)
	assert.Equal(t, obj, first.Owner())
	assert.Equal(t, first, obj.GetPayloadOfType("symbol"))

	second := &stubPayload{kind: "class-info"}
	obj.PutPayload(second)
	assert.True(t, first.removed)
	assert.Nil(t, obj.GetPayloadOfType("symbol"))
	assert.Equal(t, second, obj.GetPayloadOfType("class-info"))
}
