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

// Package persistence implements spec.md §4.7: the manifest and
// per-space JSON files, the two-pass loader, the three-phase dumper, and
// the strict-inverse value encoding the ambiguity note requires.
package persistence

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/refpersys/rpscore/internal/object"
	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/value"
)

// encodeValue renders v in the JSON shape a space file's "attrs"/"comps"
// entries use. A nil v encodes as JSON null. Object references encode as
// their bare oid text, Int as a bare JSON integer and Double as a bare
// JSON real; every other kind is tagged with "vtype" so the decoder never
// has to guess — except String, which is left as a bare JSON string
// UNLESS its content itself looks like an oid, per spec.md §4.7's
// ambiguity note.
func encodeValue(v value.Value) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case *object.Object:
		return x.OidOf().String(), nil
	case value.Int:
		return int64(x), nil
	case value.Double:
		return encodeDouble(x.Float64()), nil
	case value.String:
		s := x.String()
		if oid.LooksLikeOid(s) {
			return map[string]any{"vtype": "string", "string": s}, nil
		}
		return s, nil
	case value.JSON:
		return map[string]any{"vtype": "json", "json": x.Tree()}, nil
	case value.Tuple:
		comps, err := encodeRefs(tupleRefs(x))
		if err != nil {
			return nil, err
		}
		return map[string]any{"vtype": "tuple", "comps": comps}, nil
	case value.Set:
		elems, err := encodeRefs(setRefs(x))
		if err != nil {
			return nil, err
		}
		return map[string]any{"vtype": "set", "elems": elems}, nil
	case value.Closure:
		captures := make([]any, x.Size())
		for i := 0; i < x.Size(); i++ {
			enc, err := encodeValue(x.Nth(i))
			if err != nil {
				return nil, err
			}
			captures[i] = enc
		}
		meta, err := encodeValue(x.Metadata())
		if err != nil {
			return nil, err
		}
		out := map[string]any{"vtype": "closure", "captures": captures, "meta": meta}
		if conn := x.Connective(); conn != nil {
			out["connective"] = conn.OidOf().String()
		} else {
			out["connective"] = nil
		}
		return out, nil
	default:
		return nil, fmt.Errorf("persistence: no encoding for value kind %v", v.Kind())
	}
}

// encodeAny walks a payload's Serialize() result, which may hand back
// live value.Value (or *object.Object) leaves alongside plain
// JSON-native data, and encodes every value.Value leaf it finds using
// encodeValue. This is what lets payload kinds return their own state
// directly instead of duplicating encodeValue's tagging logic on the
// far side of a package boundary they can't import across.
func encodeAny(raw any) (any, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case value.Value:
		return encodeValue(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, v := range x {
			enc, err := encodeAny(v)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(x))
		for i, v := range x {
			enc, err := encodeAny(v)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, v := range x {
			enc, err := encodeAny(v)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case []value.Value:
		out := make([]any, len(x))
		for i, v := range x {
			enc, err := encodeAny(v)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	default:
		return raw, nil
	}
}

// encodeDouble renders f as a JSON real, per spec.md §4.7 ("boxed doubles
// -> JSON real"). strconv's shortest round-tripping form already includes
// a decimal point or exponent for any fractional value, but an integral
// double (2.0) would otherwise print as a bare "2" — indistinguishable
// from a JSON integer once it reaches the wire. Appending ".0" when the
// formatted token has neither a '.' nor an 'e'/'E' keeps the token a real,
// so decodeValue can key off the token shape alone rather than needing a
// "vtype" tag.
func encodeDouble(f float64) json.RawMessage {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return json.RawMessage(s)
}

func tupleRefs(t value.Tuple) []value.ObjectRef {
	out := make([]value.ObjectRef, t.Size())
	for i := range out {
		out[i] = t.Nth(i)
	}
	return out
}

func setRefs(s value.Set) []value.ObjectRef {
	out := make([]value.ObjectRef, s.Size())
	for i := range out {
		out[i] = s.Nth(i)
	}
	return out
}

func encodeRefs(refs []value.ObjectRef) ([]any, error) {
	out := make([]any, len(refs))
	for i, r := range refs {
		if r == nil {
			out[i] = nil
			continue
		}
		out[i] = r.OidOf().String()
	}
	return out, nil
}

// resolver looks up an already-created object by oid during decode.
// package object's Registry satisfies this directly.
type resolver interface {
	Lookup(id oid.Oid) *object.Object
}

// decodeValue is encodeValue's inverse. Every oid reference it encounters
// must already be registered (pass 1 of the loader creates every object
// any record mentions before pass 2 fills any of them in), or decodeValue
// reports a load-corruption error.
func decodeValue(raw any, reg resolver) (value.Value, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return decodeStringOrRef(x, reg)
	case json.Number:
		return decodeNumber(x)
	case map[string]any:
		return decodeTagged(x, reg)
	default:
		return nil, fmt.Errorf("persistence: unexpected JSON shape %T for value", raw)
	}
}

// denumberJSON converts the json.Number leaves readSpaceFile's
// UseNumber-enabled decoder produces back into plain float64, the numeric
// shape value.JSON's structural hash (internal/value's hashJSON) expects.
// A boxed-JSON tree isn't subject to spec.md §4.7's integer-vs-real
// distinction the way a bare attribute/component value is — it carries
// its own arbitrary JSON data verbatim — so it must decode to the exact
// same in-memory shape a freshly constructed value.JSON would use,
// regardless of whether UseNumber was involved in parsing it.
func denumberJSON(raw any) any {
	switch x := raw.(type) {
	case json.Number:
		f, _ := x.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[k] = denumberJSON(v)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = denumberJSON(v)
		}
		return out
	default:
		return raw
	}
}

// decodeNumber is encodeValue's inverse for value.Int and value.Double:
// spec.md §4.7 distinguishes them by JSON token shape ("Integers -> JSON
// integer; boxed doubles -> JSON real"), so the decision is made on the
// number's literal text rather than a "vtype" tag — a token with a '.' or
// an exponent is a real, everything else is an integer.
func decodeNumber(n json.Number) (value.Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("persistence: malformed integer literal %q: %w", s, err)
		}
		return value.Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("persistence: malformed real literal %q: %w", s, err)
	}
	return value.NewDouble(f)
}

func decodeStringOrRef(s string, reg resolver) (value.Value, error) {
	if oid.LooksLikeOid(s) {
		id, _, err := oid.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("persistence: decoding oid reference %q: %w", s, err)
		}
		obj := reg.Lookup(id)
		if obj == nil {
			return nil, fmt.Errorf("persistence: reference to unknown oid %s", s)
		}
		return obj, nil
	}
	return value.NewString(s)
}

func decodeTagged(m map[string]any, reg resolver) (value.Value, error) {
	vtype, _ := m["vtype"].(string)
	switch vtype {
	case "string":
		s, ok := m["string"].(string)
		if !ok {
			return nil, fmt.Errorf("persistence: malformed string value record")
		}
		return value.NewString(s)
	case "json":
		return value.NewJSON(denumberJSON(m["json"])), nil
	case "tuple":
		refs, err := decodeRefs(m["comps"], reg)
		if err != nil {
			return nil, err
		}
		return value.NewTuple(refs), nil
	case "set":
		refs, err := decodeRefs(m["elems"], reg)
		if err != nil {
			return nil, err
		}
		return value.NewSet(refs), nil
	case "closure":
		return decodeClosure(m, reg)
	default:
		return nil, fmt.Errorf("persistence: unknown vtype %q", vtype)
	}
}

func decodeRefs(raw any, reg resolver) ([]value.ObjectRef, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("persistence: malformed reference array")
	}
	out := make([]value.ObjectRef, len(items))
	for i, it := range items {
		if it == nil {
			continue
		}
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("persistence: reference entry %d is not an oid string", i)
		}
		v, err := decodeStringOrRef(s, reg)
		if err != nil {
			return nil, err
		}
		ref, ok := v.(value.ObjectRef)
		if !ok {
			return nil, fmt.Errorf("persistence: reference entry %d did not resolve to an object", i)
		}
		out[i] = ref
	}
	return out, nil
}

func decodeClosure(m map[string]any, reg resolver) (value.Value, error) {
	var conn value.ObjectRef
	if s, ok := m["connective"].(string); ok {
		v, err := decodeStringOrRef(s, reg)
		if err != nil {
			return nil, err
		}
		ref, ok := v.(value.ObjectRef)
		if !ok {
			return nil, fmt.Errorf("persistence: closure connective did not resolve to an object")
		}
		conn = ref
	}
	meta, err := decodeValue(m["meta"], reg)
	if err != nil {
		return nil, err
	}
	rawCaptures, _ := m["captures"].([]any)
	captures := make([]value.Value, len(rawCaptures))
	for i, rc := range rawCaptures {
		cv, err := decodeValue(rc, reg)
		if err != nil {
			return nil, err
		}
		captures[i] = cv
	}
	return value.NewClosure(conn, meta, captures), nil
}
