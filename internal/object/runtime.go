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
	"fmt"

	"github.com/refpersys/rpscore/internal/alloc"
	"github.com/refpersys/rpscore/internal/clock"
	"github.com/refpersys/rpscore/internal/oid"
)

// Runtime is the handle every component of a running RefPerSys process
// holds: the object registry, the root set, the striped allocator, the
// injected clock, and the small set of bootstrap objects spec.md §3
// calls out by name (the class-attribute and space-attribute objects,
// and one class object per built-in value kind).
//
// Runtime plays the role the teacher's fs.FileSystem struct plays for
// inodes: one long-lived object that every request-handling goroutine is
// handed a pointer to, never copied.
type Runtime struct {
	Registry  *Registry
	Roots     *RootSet
	Allocator *alloc.Allocator
	Clock     clock.Clock

	// ClassAttr and SpaceAttr are the two distinguished attribute
	// objects Object.GetAttribute/PutAttribute special-case (spec.md
	// §4.5).
	ClassAttr *Object
	SpaceAttr *Object

	// ObjectClass is the root of the class hierarchy: every other class
	// object's superclass chain terminates here.
	ObjectClass *Object
	ClassClass  *Object // the class of class objects themselves

	// One class object per built-in scalar/composite value kind, used by
	// ClassOf to answer dispatch queries about non-Object values.
	IntClass     *Object
	DoubleClass  *Object
	StringClass  *Object
	JSONClass    *Object
	TupleClass   *Object
	SetClass     *Object
	ClosureClass *Object
}

// NewRuntime builds a Runtime with a fresh registry and root set, and
// creates and roots the bootstrap objects. The bootstrap objects get
// freshly-allocated random oids. A loader restoring a persisted heap
// does not call NewRuntime: package persistence builds the Runtime
// itself and points these fields at the objects the manifest's
// constants name.
func NewRuntime(clk clock.Clock) (*Runtime, error) {
	rt := &Runtime{
		Registry:  NewRegistry(),
		Roots:     NewRootSet(),
		Allocator: alloc.New(),
		Clock:     clk,
	}

	bootstrap := []**Object{
		&rt.ClassAttr, &rt.SpaceAttr,
		&rt.ObjectClass, &rt.ClassClass,
		&rt.IntClass, &rt.DoubleClass, &rt.StringClass, &rt.JSONClass,
		&rt.TupleClass, &rt.SetClass, &rt.ClosureClass,
	}
	for _, slot := range bootstrap {
		o, err := rt.NewObject()
		if err != nil {
			return nil, fmt.Errorf("object: bootstrapping runtime: %w", err)
		}
		*slot = o
		rt.Roots.Add(o)
	}

	for _, cls := range []*Object{
		rt.ObjectClass, rt.ClassClass, rt.IntClass, rt.DoubleClass,
		rt.StringClass, rt.JSONClass, rt.TupleClass, rt.SetClass, rt.ClosureClass,
	} {
		cls.SetClass(clk, rt.ClassClass)
	}
	rt.ObjectClass.PutAttribute(rt, clk, rt.ClassAttr, rt.ClassClass)

	return rt, nil
}

// NewObject allocates a fresh random oid via rejection sampling (spec.md
// §3 "oid"), retrying on the vanishingly unlikely collision with an
// already-registered oid, and registers an empty Object under it.
func (rt *Runtime) NewObject() (*Object, error) {
	for attempt := 0; attempt < 8; attempt++ {
		id, err := oid.Random()
		if err != nil {
			return nil, fmt.Errorf("object: generating oid: %w", err)
		}
		if rt.Registry.Lookup(id) != nil {
			continue
		}
		return rt.Registry.Create(id), nil
	}
	return nil, fmt.Errorf("object: could not allocate a fresh oid after 8 attempts")
}

// NewObjectWithID registers a fresh Object under an explicit, already
// decoded oid. Used by the loader's create-objects pass, where the oid
// comes from a persisted manifest rather than being freshly minted.
func (rt *Runtime) NewObjectWithID(id oid.Oid) (*Object, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("object: %s is not a valid oid", id.String())
	}
	if existing := rt.Registry.Lookup(id); existing != nil {
		return existing, nil
	}
	return rt.Registry.Create(id), nil
}
