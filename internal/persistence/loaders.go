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

import (
	"fmt"
	"sync"

	"github.com/refpersys/rpscore/internal/object"
	"github.com/refpersys/rpscore/internal/payload"
	"github.com/refpersys/rpscore/internal/value"
)

// PayloadLoader resolves a payload record's kind-specific fields (every
// key in a space-file object record alongside "oid", "class", "mtime",
// "attrs", "comps" and "payload") into a concrete object.Payload,
// attaching it to obj itself (spec.md §4.7: "The payload name is
// resolved to a registered payload loader function").
type PayloadLoader func(obj *object.Object, extra map[string]any, reg resolver) error

// LoaderRegistry is the process-wide (kind -> loader) table spec.md
// §4.5 calls the "payload-registry", guarded by a single lock held only
// while registering or looking up, never while a loader itself runs
// (spec.md §5's lock-ordering rule puts payload-registry first, ahead of
// bucket/object/allocator-chain locks it never needs to hold
// concurrently with).
type LoaderRegistry struct {
	mu      sync.Mutex
	loaders map[string]PayloadLoader
}

// NewLoaderRegistry returns an empty LoaderRegistry.
func NewLoaderRegistry() *LoaderRegistry {
	return &LoaderRegistry{loaders: make(map[string]PayloadLoader)}
}

// Register installs fn as the loader for kind, overwriting any previous
// registration.
func (r *LoaderRegistry) Register(kind string, fn PayloadLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[kind] = fn
}

func (r *LoaderRegistry) lookup(kind string) (PayloadLoader, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.loaders[kind]
	return fn, ok
}

// DefaultLoaders returns a LoaderRegistry with a loader registered for
// every built-in payload kind package payload defines.
func DefaultLoaders() *LoaderRegistry {
	r := NewLoaderRegistry()
	r.Register(payload.KindSymbol, loadSymbol)
	r.Register(payload.KindClassInfo, loadClassInfo)
	r.Register(payload.KindMutableSet, loadMutableSet)
	r.Register(payload.KindDeque, loadDeque)
	r.Register(payload.KindObjectHashtable, loadObjectHashtable)
	r.Register(payload.KindStringDict, loadStringDict)
	r.Register(payload.KindSpace, loadSpace)
	r.Register(payload.KindAgenda, loadOpaque(payload.KindAgenda))
	r.Register(payload.KindTasklet, loadOpaque(payload.KindTasklet))
	return r
}

func refObject(raw any, reg resolver) (*object.Object, error) {
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("persistence: expected an oid string, got %T", raw)
	}
	v, err := decodeStringOrRef(s, reg)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*object.Object)
	if !ok {
		return nil, fmt.Errorf("persistence: %q did not resolve to an object", s)
	}
	return obj, nil
}

func loadSymbol(obj *object.Object, extra map[string]any, reg resolver) error {
	name, _ := extra["name"].(string)
	sym := payload.NewSymbol(name)
	if bound, ok := extra["bound"]; ok {
		v, err := decodeValue(bound, reg)
		if err != nil {
			return err
		}
		sym.Rebind(v)
	}
	obj.PutPayload(sym)
	return nil
}

func loadClassInfo(obj *object.Object, extra map[string]any, reg resolver) error {
	super, err := refObject(extra["super"], reg)
	if err != nil {
		return err
	}
	ci := payload.NewClassInfo(super)
	if sym, err := refObject(extra["symbol"], reg); err != nil {
		return err
	} else if sym != nil {
		ci.SetSymbol(sym)
	}
	methods, _ := extra["methods"].([]any)
	for _, raw := range methods {
		m, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("persistence: malformed class-info method entry")
		}
		selector, err := refObject(m["selector"], reg)
		if err != nil {
			return err
		}
		closureVal, err := decodeValue(m["closure"], reg)
		if err != nil {
			return err
		}
		if closure, ok := closureVal.(value.Closure); ok && selector != nil {
			ci.PutMethod(selector, closure)
		}
	}
	obj.PutPayload(ci)
	return nil
}

func loadMutableSet(obj *object.Object, extra map[string]any, reg resolver) error {
	ms := payload.NewMutableSet()
	members, _ := extra["members"].([]any)
	for _, raw := range members {
		o, err := refObject(raw, reg)
		if err != nil {
			return err
		}
		if o != nil {
			ms.Add(o)
		}
	}
	obj.PutPayload(ms)
	return nil
}

func loadDeque(obj *object.Object, extra map[string]any, reg resolver) error {
	dq := payload.NewDeque()
	values, _ := extra["values"].([]any)
	for _, raw := range values {
		v, err := decodeValue(raw, reg)
		if err != nil {
			return err
		}
		dq.PushBack(v)
	}
	obj.PutPayload(dq)
	return nil
}

func loadObjectHashtable(obj *object.Object, extra map[string]any, reg resolver) error {
	h := payload.NewObjectHashtable()
	entries, _ := extra["entries"].([]any)
	for _, raw := range entries {
		m, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("persistence: malformed object-hashtable entry")
		}
		key, err := refObject(m["key"], reg)
		if err != nil {
			return err
		}
		val, err := decodeValue(m["value"], reg)
		if err != nil {
			return err
		}
		if key != nil {
			h.Put(key, val)
		}
	}
	obj.PutPayload(h)
	return nil
}

func loadStringDict(obj *object.Object, extra map[string]any, reg resolver) error {
	sd := payload.NewStringDict()
	entries, _ := extra["entries"].([]any)
	for _, raw := range entries {
		m, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("persistence: malformed string-dict entry")
		}
		key, _ := m["key"].(string)
		val, err := decodeValue(m["value"], reg)
		if err != nil {
			return err
		}
		sd.Put(key, val)
	}
	obj.PutPayload(sd)
	return nil
}

func loadSpace(obj *object.Object, extra map[string]any, reg resolver) error {
	sp := payload.NewSpace()
	if raw, ok := extra["data"]; ok {
		v, err := decodeValue(raw, reg)
		if err != nil {
			return err
		}
		sp.SetData(v)
	}
	obj.PutPayload(sp)
	return nil
}

func loadOpaque(kind string) PayloadLoader {
	return func(obj *object.Object, extra map[string]any, _ resolver) error {
		obj.PutPayload(payload.NewOpaque(kind, extra))
		return nil
	}
}
