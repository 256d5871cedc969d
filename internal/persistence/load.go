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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/refpersys/rpscore/internal/alloc"
	"github.com/refpersys/rpscore/internal/clock"
	"github.com/refpersys/rpscore/internal/object"
	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/value"
	"golang.org/x/sync/errgroup"
)

// attrEntry is the decoded shape of one "attrs" array element; mapping it
// with mitchellh/mapstructure rather than indexing the map by hand keeps
// the type check (an "at" that is not a string) in one place instead of
// scattered across each field access. A missing "at" key decodes as ""
// and is rejected afterwards, when it fails to parse as an oid.
type attrEntry struct {
	At string `mapstructure:"at"`
	Va any    `mapstructure:"va"`
}

// unmarshalNumberPreserving decodes data like json.Unmarshal, except JSON
// numbers land as json.Number rather than float64: decodeValue (encode.go)
// needs the original token text to tell a bare JSON integer apart from a
// JSON real per spec.md §4.7, a distinction plain json.Unmarshal's float64
// conversion erases.
func unmarshalNumberPreserving(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func decodeAttrEntry(raw any) (attrEntry, error) {
	var e attrEntry
	if err := mapstructure.Decode(raw, &e); err != nil {
		return attrEntry{}, fmt.Errorf("persistence: malformed attribute entry: %w", err)
	}
	return e, nil
}

// wellKnownRecordKeys are the object-record fields every kind of object
// carries, as opposed to the payload-kind-specific fields a space-file
// record may also carry alongside them.
var wellKnownRecordKeys = map[string]bool{
	"oid": true, "class": true, "mtime": true,
	"attrs": true, "comps": true, "payload": true,
}

// Load rebuilds a Runtime from a heap directory written by Dumper.Dump,
// following spec.md §4.7's four states: parse-manifest, create-objects,
// fill-objects, epilogue. Any corruption — an unparseable file, a
// reference to an oid nothing ever defines, a malformed record — is
// reported as an error rather than partially applied; per spec.md §8 a
// load is all-or-nothing, so Load never returns a half-filled Runtime
// alongside a non-nil error.
func Load(dir string, clk clock.Clock) (*object.Runtime, error) {
	return LoadConcurrent(dir, clk, DefaultLoaders(), 1)
}

// LoadWithLoaders is Load with an explicit LoaderRegistry, for callers
// that have registered additional payload kinds beyond the built-in set.
func LoadWithLoaders(dir string, clk clock.Clock, loaders *LoaderRegistry) (*object.Runtime, error) {
	return LoadConcurrent(dir, clk, loaders, 1)
}

type loadedSpace struct {
	id      string
	records []map[string]any
}

// LoadConcurrent is LoadWithLoaders with the space files read in
// parallel, bounded by nbThreads (spec.md §6's --nb-threads, clamped via
// rpsconfig.ClampNbThreads by callers): the create-objects and
// fill-objects passes still run single-threaded over the result in
// manifest order, since those mutate the shared Registry and must stay
// deterministic, but the per-space JSON parsing that precedes them is
// pure, independent I/O per file and is exactly where golang.org/x/sync's
// errgroup earns its keep.
func LoadConcurrent(dir string, clk clock.Clock, loaders *LoaderRegistry, nbThreads int) (*object.Runtime, error) {
	manifest, err := readManifest(dir)
	if err != nil {
		return nil, err
	}
	if manifest.Format != FormatMagic {
		return nil, fmt.Errorf("persistence: manifest format %q does not match %q", manifest.Format, FormatMagic)
	}

	if nbThreads < 1 {
		nbThreads = 1
	}
	spaces := make([]loadedSpace, len(manifest.Spaces))
	var g errgroup.Group
	g.SetLimit(nbThreads)
	for i, id := range manifest.Spaces {
		i, id := i, id
		g.Go(func() error {
			path := filepath.Join(dir, SpaceFileDir, SpaceFileName(id))
			_, records, err := readSpaceFile(path)
			if err != nil {
				return fmt.Errorf("persistence: reading space %q: %w", id, err)
			}
			spaces[i] = loadedSpace{id: id, records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalRecords := 0
	for _, sp := range spaces {
		totalRecords += len(sp.records)
	}
	if totalRecords != manifest.NbObjects {
		return nil, fmt.Errorf(
			"persistence: manifest declares %d objects, space files contain %d",
			manifest.NbObjects, totalRecords)
	}

	rt := &object.Runtime{
		Registry:  object.NewRegistry(),
		Roots:     object.NewRootSet(),
		Allocator: alloc.New(),
		Clock:     clk,
	}

	// create-objects: every record defines exactly one object; register
	// all of them before any record is filled in, so forward references
	// between objects (the ordinary case — a class referencing its own
	// metaclass, a set referencing members dumped later in the same
	// file) always resolve.
	for _, sp := range spaces {
		for _, rec := range sp.records {
			idText, _ := rec["oid"].(string)
			id, _, err := oid.Decode(idText)
			if err != nil {
				return nil, fmt.Errorf("persistence: space %q: corrupt oid %q: %w", sp.id, idText, err)
			}
			if _, err := rt.NewObjectWithID(id); err != nil {
				return nil, fmt.Errorf("persistence: space %q: creating object %s: %w", sp.id, idText, err)
			}
		}
	}

	// fill-objects
	for _, sp := range spaces {
		var spaceObj *object.Object
		if sp.id != kernelSpaceID {
			sid, _, err := oid.Decode(sp.id)
			if err != nil {
				return nil, fmt.Errorf("persistence: corrupt space id %q: %w", sp.id, err)
			}
			spaceObj = rt.Registry.Lookup(sid)
			if spaceObj == nil {
				return nil, fmt.Errorf("persistence: space %q references an object never defined in any space file", sp.id)
			}
		}
		for _, rec := range sp.records {
			if err := fillObject(rt, loaders, rec, spaceObj, clk); err != nil {
				return nil, err
			}
		}
	}

	// epilogue: re-root the objects the manifest names as global roots,
	// and re-point the runtime's bootstrap-constant fields at the
	// objects a previous process minted for them.
	for _, rootText := range manifest.Roots {
		id, _, err := oid.Decode(rootText)
		if err != nil {
			return nil, fmt.Errorf("persistence: corrupt root oid %q: %w", rootText, err)
		}
		obj := rt.Registry.Lookup(id)
		if obj == nil {
			return nil, fmt.Errorf("persistence: root %q references an object never defined in any space file", rootText)
		}
		rt.Roots.Add(obj)
	}

	for _, slot := range constantSlots {
		text, ok := manifest.Constants[slot.name]
		if !ok {
			continue
		}
		id, _, err := oid.Decode(text)
		if err != nil {
			return nil, fmt.Errorf("persistence: constant %q: corrupt oid %q: %w", slot.name, text, err)
		}
		obj := rt.Registry.Lookup(id)
		if obj == nil {
			return nil, fmt.Errorf("persistence: constant %q references an object never defined in any space file", slot.name)
		}
		slot.set(rt, obj)
	}

	return rt, nil
}

func fillObject(rt *object.Runtime, loaders *LoaderRegistry, rec map[string]any, spaceObj *object.Object, clk clock.Clock) error {
	idText, _ := rec["oid"].(string)
	id, _, err := oid.Decode(idText)
	if err != nil {
		return fmt.Errorf("persistence: corrupt oid %q: %w", idText, err)
	}
	obj := rt.Registry.Lookup(id)
	if obj == nil {
		return fmt.Errorf("persistence: object %s vanished between the create and fill passes", idText)
	}

	if spaceObj != nil {
		obj.SetSpace(clk, spaceObj)
	}

	if mtimeRaw, ok := rec["mtime"].(json.Number); ok {
		mtime, err := mtimeRaw.Int64()
		if err != nil {
			return fmt.Errorf("persistence: object %s: malformed mtime %q: %w", idText, mtimeRaw, err)
		}
		obj.SetMtime(mtime)
	}

	if classRaw, ok := rec["class"]; ok && classRaw != nil {
		classText, ok := classRaw.(string)
		if !ok {
			return fmt.Errorf("persistence: object %s has a non-string class reference", idText)
		}
		classID, _, err := oid.Decode(classText)
		if err != nil {
			return fmt.Errorf("persistence: object %s: corrupt class oid %q: %w", idText, classText, err)
		}
		cls := rt.Registry.Lookup(classID)
		if cls == nil {
			return fmt.Errorf("persistence: object %s references unknown class %q", idText, classText)
		}
		obj.SetClass(clk, cls)
	}

	attrsRaw, _ := rec["attrs"].([]any)
	for _, a := range attrsRaw {
		entry, err := decodeAttrEntry(a)
		if err != nil {
			return fmt.Errorf("persistence: object %s: %w", idText, err)
		}
		attrID, _, err := oid.Decode(entry.At)
		if err != nil {
			return fmt.Errorf("persistence: object %s: corrupt attribute oid %q: %w", idText, entry.At, err)
		}
		attrObj := rt.Registry.Lookup(attrID)
		if attrObj == nil {
			return fmt.Errorf("persistence: object %s references unknown attribute %q", idText, entry.At)
		}
		val, err := decodeValue(entry.Va, rt.Registry)
		if err != nil {
			return fmt.Errorf("persistence: object %s attribute %q: %w", idText, entry.At, err)
		}
		obj.PutAttribute(rt, clk, attrObj, val)
	}

	if compsRaw, ok := rec["comps"].([]any); ok {
		comps := make([]value.Value, len(compsRaw))
		for i, c := range compsRaw {
			v, err := decodeValue(c, rt.Registry)
			if err != nil {
				return fmt.Errorf("persistence: object %s component %d: %w", idText, i, err)
			}
			comps[i] = v
		}
		obj.SetComponents(clk, comps)
	}

	if kind, ok := rec["payload"].(string); ok {
		loader, ok := loaders.lookup(kind)
		if !ok {
			return fmt.Errorf("persistence: object %s has unregistered payload kind %q", idText, kind)
		}
		extra := make(map[string]any, len(rec))
		for k, v := range rec {
			if !wellKnownRecordKeys[k] {
				extra[k] = v
			}
		}
		if err := loader(obj, extra, rt.Registry); err != nil {
			return fmt.Errorf("persistence: object %s payload: %w", idText, err)
		}
	}

	return nil
}

func readManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return Manifest{}, fmt.Errorf("persistence: reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("persistence: decoding manifest: %w", err)
	}
	return m, nil
}

// readSpaceFile parses the comment-line / JSON-prologue / repeated
// //+ob_<id> JSON //-ob_<id> block layout writeSpaceFile produces.
func readSpaceFile(path string) (spacePrologue, []map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return spacePrologue{}, nil, fmt.Errorf("persistence: reading %s: %w", path, err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		return spacePrologue{}, nil, fmt.Errorf("persistence: %s is too short to contain a prologue", path)
	}

	var prologue spacePrologue
	if err := json.Unmarshal([]byte(lines[1]), &prologue); err != nil {
		return spacePrologue{}, nil, fmt.Errorf("persistence: %s: decoding prologue: %w", path, err)
	}

	var records []map[string]any
	for i := 2; i < len(lines); {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}
		if !strings.HasPrefix(line, "//+ob_") {
			return spacePrologue{}, nil, fmt.Errorf("persistence: %s: expected an object marker at line %d, got %q", path, i+1, line)
		}
		if i+2 >= len(lines) {
			return spacePrologue{}, nil, fmt.Errorf("persistence: %s: truncated object block starting at line %d", path, i+1)
		}
		var rec map[string]any
		if err := unmarshalNumberPreserving([]byte(lines[i+1]), &rec); err != nil {
			return spacePrologue{}, nil, fmt.Errorf("persistence: %s: decoding object body at line %d: %w", path, i+2, err)
		}
		records = append(records, rec)
		i += 3
	}
	if len(records) != prologue.NbObjects {
		return spacePrologue{}, nil, fmt.Errorf(
			"persistence: %s: prologue declares %d objects, found %d",
			path, prologue.NbObjects, len(records))
	}
	return prologue, records, nil
}
