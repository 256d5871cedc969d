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

package persistence

import "github.com/refpersys/rpscore/internal/object"

// constantSlot names one of a Runtime's fixed bootstrap-object fields and
// how to get or set it, so dump and load can share a single table instead
// of hand-writing eleven near-identical cases twice.
type constantSlot struct {
	name string
	get  func(rt *object.Runtime) *object.Object
	set  func(rt *object.Runtime, o *object.Object)
}

var constantSlots = []constantSlot{
	{"class-attr", func(rt *object.Runtime) *object.Object { return rt.ClassAttr }, func(rt *object.Runtime, o *object.Object) { rt.ClassAttr = o }},
	{"space-attr", func(rt *object.Runtime) *object.Object { return rt.SpaceAttr }, func(rt *object.Runtime, o *object.Object) { rt.SpaceAttr = o }},
	{"object-class", func(rt *object.Runtime) *object.Object { return rt.ObjectClass }, func(rt *object.Runtime, o *object.Object) { rt.ObjectClass = o }},
	{"class-class", func(rt *object.Runtime) *object.Object { return rt.ClassClass }, func(rt *object.Runtime, o *object.Object) { rt.ClassClass = o }},
	{"int-class", func(rt *object.Runtime) *object.Object { return rt.IntClass }, func(rt *object.Runtime, o *object.Object) { rt.IntClass = o }},
	{"double-class", func(rt *object.Runtime) *object.Object { return rt.DoubleClass }, func(rt *object.Runtime, o *object.Object) { rt.DoubleClass = o }},
	{"string-class", func(rt *object.Runtime) *object.Object { return rt.StringClass }, func(rt *object.Runtime, o *object.Object) { rt.StringClass = o }},
	{"json-class", func(rt *object.Runtime) *object.Object { return rt.JSONClass }, func(rt *object.Runtime, o *object.Object) { rt.JSONClass = o }},
	{"tuple-class", func(rt *object.Runtime) *object.Object { return rt.TupleClass }, func(rt *object.Runtime, o *object.Object) { rt.TupleClass = o }},
	{"set-class", func(rt *object.Runtime) *object.Object { return rt.SetClass }, func(rt *object.Runtime, o *object.Object) { rt.SetClass = o }},
	{"closure-class", func(rt *object.Runtime) *object.Object { return rt.ClosureClass }, func(rt *object.Runtime, o *object.Object) { rt.ClosureClass = o }},
}

// constantsOf renders rt's bootstrap-object fields as a manifest's
// Constants map.
func constantsOf(rt *object.Runtime) map[string]string {
	out := make(map[string]string, len(constantSlots))
	for _, slot := range constantSlots {
		if o := slot.get(rt); o != nil {
			out[slot.name] = o.OidOf().String()
		}
	}
	return out
}
