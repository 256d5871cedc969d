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

package value

import (
	"math"
	"sort"
)

// JSON is a boxed, arbitrary JSON tree (spec.md §4.4). The tree is stored
// as the usual encoding/json decode shape: map[string]interface{},
// []interface{}, string, float64, bool, or nil.
type JSON struct {
	tree any
	hash uint32
}

func NewJSON(tree any) JSON {
	return JSON{tree: tree, hash: hashJSON(tree)}
}

func (JSON) Kind() Kind     { return KindJSON }
func (j JSON) Hash() uint32 { return j.hash }
func (j JSON) Tree() any    { return j.tree }

// hashJSON computes the structural hash described by spec.md §4.3: object
// keys are sorted before hashing so permuting them doesn't change the
// hash, arrays are order-sensitive, and numeric/boolean/null leaves
// contribute typed constants so "1" (string) and 1 (number) don't collide.
func hashJSON(tree any) uint32 {
	h := hashJSONInto(2166136261, tree)
	if h == 0 {
		h = 0x6a736f6e // "json"
	}
	return h
}

func hashJSONInto(seed uint32, tree any) uint32 {
	const prime = 16777619
	mix := func(h uint32, b byte) uint32 { return (h ^ uint32(b)) * prime }

	switch v := tree.(type) {
	case nil:
		return mix(seed, 0x01)
	case bool:
		tag := byte(0x02)
		if v {
			tag = 0x03
		}
		return mix(seed, tag)
	case float64:
		h := mix(seed, 0x04)
		bits := math.Float64bits(v)
		for i := 0; i < 8; i++ {
			h = mix(h, byte(bits>>(8*i)))
		}
		return h
	case string:
		h := mix(seed, 0x05)
		for i := 0; i < len(v); i++ {
			h = mix(h, v[i])
		}
		return h
	case []any:
		h := mix(seed, 0x06)
		for _, e := range v {
			h = hashJSONInto(h, e)
		}
		return h
	case map[string]any:
		h := mix(seed, 0x07)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for i := 0; i < len(k); i++ {
				h = mix(h, k[i])
			}
			h = hashJSONInto(h, v[k])
		}
		return h
	default:
		return mix(seed, 0xff)
	}
}
