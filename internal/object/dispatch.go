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

import "github.com/refpersys/rpscore/internal/value"

// MaxDispatchDepth bounds the class-chain walk Dispatch performs,
// guarding against a cyclic superclass graph (spec.md §4.8).
const MaxDispatchDepth = 100

// MethodTable is implemented by the class-info payload kind (package
// payload). Defining it here, rather than in package payload, lets
// Dispatch type-assert a class object's Payload() without object ever
// importing payload.
type MethodTable interface {
	// SuperOf returns the superclass object, or nil at the root of the
	// hierarchy.
	SuperOf() *Object

	// LookupOwn returns the closure bound to selector directly in this
	// class's own method dictionary, without consulting superclasses.
	LookupOwn(selector *Object) (value.Closure, bool)
}

// ClassOf returns v's class object: v.Class() if v is an *Object, or one
// of Runtime's built-in scalar/composite class objects otherwise
// (spec.md §4.8).
func (rt *Runtime) ClassOf(v value.Value) *Object {
	if o, ok := v.(*Object); ok {
		return o.Class()
	}
	switch value.KindOf(v) {
	case value.KindInt:
		return rt.IntClass
	case value.KindDouble:
		return rt.DoubleClass
	case value.KindString:
		return rt.StringClass
	case value.KindJSON:
		return rt.JSONClass
	case value.KindTuple:
		return rt.TupleClass
	case value.KindSet:
		return rt.SetClass
	case value.KindClosure:
		return rt.ClosureClass
	default:
		return nil
	}
}

// Dispatch resolves selector against recv's class chain, walking
// superclass links up to MaxDispatchDepth levels before giving up
// (spec.md §4.8). The second return value is false both when no class
// in the chain binds selector and when the chain is longer than
// MaxDispatchDepth.
func (rt *Runtime) Dispatch(recv value.Value, selector *Object) (value.Closure, bool) {
	cls := rt.ClassOf(recv)
	for depth := 0; cls != nil && depth < MaxDispatchDepth; depth++ {
		mt, ok := cls.Payload().(MethodTable)
		if ok {
			if clo, found := mt.LookupOwn(selector); found {
				return clo, true
			}
			cls = mt.SuperOf()
			continue
		}
		cls = cls.Class()
	}
	return value.Closure{}, false
}
