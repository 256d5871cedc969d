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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateLookupForget(t *testing.T) {
	r := NewRegistry()
	id, err := oid.Random()
	require.NoError(t, err)

	assert.Nil(t, r.Lookup(id))
	o := r.Create(id)
	assert.Equal(t, id, r.Lookup(id).OidOf())
	assert.Equal(t, o, r.Lookup(id))

	assert.True(t, r.Forget(id))
	assert.Nil(t, r.Lookup(id))
	assert.False(t, r.Forget(id))
}

func TestRegistryCreateDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	id, err := oid.Random()
	require.NoError(t, err)
	r.Create(id)
	assert.Panics(t, func() { r.Create(id) })
}

func TestRegistrySurvivesManyInsertionsAcrossBuckets(t *testing.T) {
	r := NewRegistry()
	var ids []oid.Oid
	for i := 0; i < 2000; i++ {
		id, err := oid.Random()
		require.NoError(t, err)
		if r.Lookup(id) != nil {
			continue
		}
		ids = append(ids, id)
		r.Create(id)
	}
	assert.Equal(t, len(ids), r.Size())
	for _, id := range ids {
		require.NotNil(t, r.Lookup(id))
		assert.Equal(t, id, r.Lookup(id).OidOf())
	}

	seen := 0
	r.Each(func(o *Object) { seen++ })
	assert.Equal(t, len(ids), seen)
}

func TestRegistryReinsertAfterForgetReusesSlot(t *testing.T) {
	r := NewRegistry()
	var ids []oid.Oid
	for i := 0; i < 100; i++ {
		id, err := oid.Random()
		require.NoError(t, err)
		ids = append(ids, id)
		r.Create(id)
	}
	for _, id := range ids[:50] {
		require.True(t, r.Forget(id))
	}
	assert.Equal(t, 50, r.Size())

	for _, id := range ids[:50] {
		r.Create(id)
	}
	assert.Equal(t, 100, r.Size())
	for _, id := range ids {
		assert.NotNil(t, r.Lookup(id))
	}
}

func TestRootSetAddRemoveIsRoot(t *testing.T) {
	r := NewRegistry()
	roots := NewRootSet()

	id, err := oid.Random()
	require.NoError(t, err)
	o := r.Create(id)

	assert.False(t, roots.IsRoot(o))
	roots.Add(o)
	assert.True(t, roots.IsRoot(o))
	assert.Equal(t, 1, roots.Size())

	roots.Remove(o)
	assert.False(t, roots.IsRoot(o))
	assert.Equal(t, 0, roots.Size())
}
