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
	"sync"

	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/object"
	"github.com/refpersys/rpscore/internal/value"
)

// KindClassInfo is the payload-kind string persisted for a ClassInfo.
const KindClassInfo = "class-info"

// ClassInfo is the payload attached to a class object: its superclass
// link, an optional naming symbol, and its own method dictionary (spec.md
// §4.8's class-chain dispatch reads this through object.MethodTable).
type ClassInfo struct {
	Base

	mu      sync.RWMutex
	super   *object.Object
	symbol  *object.Object
	methods object.AttributeTable // keyed by selector object, value.Closure values
}

// NewClassInfo returns a ClassInfo payload rooted at super (nil for the
// top of the hierarchy).
func NewClassInfo(super *object.Object) *ClassInfo {
	return &ClassInfo{super: super}
}

// Kind implements object.Payload.
func (*ClassInfo) Kind() string { return KindClassInfo }

// SuperOf implements object.MethodTable.
func (c *ClassInfo) SuperOf() *object.Object {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.super
}

// SetSuper changes the class's superclass link.
func (c *ClassInfo) SetSuper(super *object.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.super = super
}

// Symbol returns the naming symbol object for this class, or nil.
func (c *ClassInfo) Symbol() *object.Object {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbol
}

// SetSymbol installs the naming symbol object for this class.
func (c *ClassInfo) SetSymbol(sym *object.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.symbol = sym
}

// LookupOwn implements object.MethodTable: it looks only at this class's
// own method dictionary, never the superclass chain (Dispatch walks the
// chain itself).
func (c *ClassInfo) LookupOwn(selector *object.Object) (value.Closure, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v := c.methods.Find(selector)
	if v == nil {
		return value.Closure{}, false
	}
	clo, ok := v.(value.Closure)
	return clo, ok
}

// PutMethod binds selector to clo in this class's own method dictionary.
func (c *ClassInfo) PutMethod(selector *object.Object, clo value.Closure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.methods = c.methods.Put(selector, clo)
}

// RemoveMethod unbinds selector from this class's own method dictionary.
func (c *ClassInfo) RemoveMethod(selector *object.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.methods = c.methods.Remove(selector)
}

// Scan implements object.Payload: the superclass, the naming symbol, and
// every method selector and closure connective are all reachable.
func (c *ClassInfo) Scan() []oid.Oid {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []oid.Oid
	if c.super != nil {
		out = append(out, c.super.OidOf())
	}
	if c.symbol != nil {
		out = append(out, c.symbol.OidOf())
	}
	for _, b := range c.methods.Bindings() {
		out = append(out, b.Attr.OidOf())
		if clo, ok := b.Val.(value.Closure); ok {
			if conn := clo.Connective(); conn != nil {
				out = append(out, conn.OidOf())
			}
		}
	}
	return out
}

// Serialize implements object.Payload. Methods are serialized as an
// array of {selector, closure} pairs; see Symbol.Serialize's comment on
// why raw value.Value/ *object.Object fields are left for package
// persistence's generic encoder to flatten.
func (c *ClassInfo) Serialize() (map[string]any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := map[string]any{}
	if c.super != nil {
		out["super"] = c.super
	}
	if c.symbol != nil {
		out["symbol"] = c.symbol
	}
	var methods []map[string]any
	for _, b := range c.methods.Bindings() {
		methods = append(methods, map[string]any{"selector": b.Attr, "closure": b.Val})
	}
	out["methods"] = methods
	return out, nil
}
