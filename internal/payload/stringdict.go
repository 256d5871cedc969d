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
	"sort"
	"sync"

	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/value"
)

// KindStringDict is the payload-kind string persisted for a StringDict.
const KindStringDict = "string-dict"

type stringDictEntry struct {
	key string
	val value.Value
}

// StringDict maps string keys to values, keeping entries sorted by key
// bytes (spec.md §4.6's string-dict payload kind, described there as a
// balanced tree; see MutableSet's doc comment for why a sorted slice is
// used instead).
type StringDict struct {
	Base

	mu      sync.RWMutex
	entries []stringDictEntry
}

// NewStringDict returns an empty StringDict.
func NewStringDict() *StringDict {
	return &StringDict{}
}

// Kind implements object.Payload.
func (*StringDict) Kind() string { return KindStringDict }

func (d *StringDict) search(key string) (int, bool) {
	n := len(d.entries)
	idx := sort.Search(n, func(i int) bool { return d.entries[i].key >= key })
	if idx < n && d.entries[idx].key == key {
		return idx, true
	}
	return idx, false
}

// Put binds key to val, overwriting any existing binding.
func (d *StringDict) Put(key string, val value.Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx, found := d.search(key)
	if found {
		d.entries[idx].val = val
		return
	}
	d.entries = append(d.entries, stringDictEntry{})
	copy(d.entries[idx+1:], d.entries[idx:])
	d.entries[idx] = stringDictEntry{key: key, val: val}
}

// Get returns the value bound to key, and whether it was present.
func (d *StringDict) Get(key string) (value.Value, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	idx, found := d.search(key)
	if !found {
		return nil, false
	}
	return d.entries[idx].val, true
}

// Remove unbinds key.
func (d *StringDict) Remove(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx, found := d.search(key)
	if !found {
		return false
	}
	d.entries = append(d.entries[:idx], d.entries[idx+1:]...)
	return true
}

// Size returns the number of bindings.
func (d *StringDict) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Keys returns every key, in sorted order.
func (d *StringDict) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.key
	}
	return out
}

// Scan implements object.Payload.
func (d *StringDict) Scan() []oid.Oid {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []oid.Oid
	for _, e := range d.entries {
		if ref, ok := e.val.(value.ObjectRef); ok {
			out = append(out, ref.OidOf())
		}
	}
	return out
}

// Serialize implements object.Payload.
func (d *StringDict) Serialize() (map[string]any, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entries := make([]map[string]any, len(d.entries))
	for i, e := range d.entries {
		entries[i] = map[string]any{"key": e.key, "value": e.val}
	}
	return map[string]any{"entries": entries}, nil
}
