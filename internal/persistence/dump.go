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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/refpersys/rpscore/internal/object"
	"github.com/refpersys/rpscore/internal/oid"
	"github.com/refpersys/rpscore/internal/value"
	"golang.org/x/sync/errgroup"
)

// kernelSpaceID is the synthetic space id dumped objects with no Space()
// are filed under. spec.md §4.7 doesn't say what happens to a spaceless
// object; grouping them into one well-known file rather than erroring
// keeps dump total, matching the rest of the spec's "no silent
// degradation, but also no unnecessary fatal" balance for runtime (as
// opposed to load-time) operations.
const kernelSpaceID = "kernel"

// CodeGenHook, if non-nil, is invoked once per Dump call during the
// emitting-code phase spec.md §4.7 names. The core has nothing of its
// own to emit there — C-code generation is an external collaborator
// (spec.md §1 non-goals) — so by default this phase is a no-op.
type CodeGenHook func(rt *object.Runtime, reachable []*object.Object) error

// Dumper drives spec.md §4.7's three-phase dump: scanning,
// dumping-data, emitting-code.
type Dumper struct {
	rt      *object.Runtime
	CodeGen CodeGenHook
	gate    dumpGate

	// NbThreads bounds how many space files are serialized concurrently
	// during the dumping-data phase (spec.md §6's --nb-threads). Zero or
	// negative means sequential.
	NbThreads int
}

// NewDumper returns a Dumper bound to rt.
func NewDumper(rt *object.Runtime) *Dumper {
	return &Dumper{rt: rt, NbThreads: 1}
}

// Dump writes a complete heap directory at dir: a manifest file and one
// space file per reachable space, each written atomically (temp file
// then rename), with the manifest written last so a crash mid-dump
// never leaves a manifest pointing at partial space files.
func (d *Dumper) Dump(dir string) error {
	return d.gate.withLock(func() error { return d.dumpLocked(dir) })
}

func (d *Dumper) dumpLocked(dir string) error {
	reachable := d.scan()

	bySpace := make(map[string][]*object.Object)
	for _, o := range reachable {
		spaceID := kernelSpaceID
		if sp := o.Space(); sp != nil {
			spaceID = sp.OidOf().String()
		}
		bySpace[spaceID] = append(bySpace[spaceID], o)
	}

	if err := os.MkdirAll(filepath.Join(dir, SpaceFileDir), 0o755); err != nil {
		return fmt.Errorf("persistence: creating space directory: %w", err)
	}

	lock, err := AcquireProcessLock(dir)
	if err != nil {
		return err
	}
	defer lock.Release()

	spaceIDs := make([]string, 0, len(bySpace))
	for id := range bySpace {
		spaceIDs = append(spaceIDs, id)
	}
	sort.Strings(spaceIDs)

	nbThreads := d.NbThreads
	if nbThreads < 1 {
		nbThreads = 1
	}
	var g errgroup.Group
	g.SetLimit(nbThreads)
	for _, id := range spaceIDs {
		id := id
		objs := bySpace[id]
		sort.Slice(objs, func(i, j int) bool {
			return objs[i].OidOf().Less(objs[j].OidOf())
		})
		g.Go(func() error { return d.writeSpaceFile(dir, id, objs) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if d.CodeGen != nil {
		if err := d.CodeGen(d.rt, reachable); err != nil {
			return fmt.Errorf("persistence: emitting-code phase: %w", err)
		}
	}

	manifest := Manifest{
		Format:    FormatMagic,
		NbObjects: len(reachable),
		Roots:     oidStrings(rootOids(d.rt)),
		Constants: constantsOf(d.rt),
		Spaces:    spaceIDs,
	}
	return writeJSONAtomic(filepath.Join(dir, ManifestFileName), manifest)
}

func rootOids(rt *object.Runtime) []oid.Oid {
	var out []oid.Oid
	rt.Roots.Each(func(o *object.Object) { out = append(out, o.OidOf()) })
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func oidStrings(ids []oid.Oid) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// scan computes the set of objects reachable from the global roots
// (spec.md §4.7's scanning phase): it follows class, space, attribute
// keys and values, components, and each payload kind's own Scan.
func (d *Dumper) scan() []*object.Object {
	visited := make(map[oid.Oid]*object.Object)
	var stack []*object.Object

	push := func(o *object.Object) {
		if o == nil {
			return
		}
		if _, ok := visited[o.OidOf()]; ok {
			return
		}
		visited[o.OidOf()] = o
		stack = append(stack, o)
	}

	d.rt.Roots.Each(push)

	for len(stack) > 0 {
		o := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		push(o.Class())
		push(o.Space())
		for _, b := range o.Attributes() {
			push(b.Attr)
			pushValueRefs(b.Val, push)
		}
		for _, c := range o.Components() {
			pushValueRefs(c, push)
		}
		if p := o.Payload(); p != nil {
			for _, id := range p.Scan() {
				push(d.rt.Registry.Lookup(id))
			}
		}
	}

	out := make([]*object.Object, 0, len(visited))
	for _, o := range visited {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OidOf().Less(out[j].OidOf()) })
	return out
}

func pushValueRefs(v value.Value, push func(*object.Object)) {
	switch x := v.(type) {
	case *object.Object:
		push(x)
	case value.Tuple:
		for i := 0; i < x.Size(); i++ {
			if o, ok := x.Nth(i).(*object.Object); ok {
				push(o)
			}
		}
	case value.Set:
		for i := 0; i < x.Size(); i++ {
			if o, ok := x.Nth(i).(*object.Object); ok {
				push(o)
			}
		}
	case value.Closure:
		if conn, ok := x.Connective().(*object.Object); ok {
			push(conn)
		}
		pushValueRefs(x.Metadata(), push)
		for i := 0; i < x.Size(); i++ {
			pushValueRefs(x.Nth(i), push)
		}
	}
}

func (d *Dumper) writeSpaceFile(dir, spaceID string, objs []*object.Object) error {
	path := filepath.Join(dir, SpaceFileDir, SpaceFileName(spaceID))

	var buf []byte
	buf = append(buf, "// generated by refpersys-core; do not edit by hand\n"...)

	prologue, err := json.Marshal(spacePrologue{
		Format:    FormatMagic,
		NbObjects: len(objs),
		SpaceID:   spaceID,
	})
	if err != nil {
		return fmt.Errorf("persistence: encoding space prologue: %w", err)
	}
	buf = append(buf, prologue...)
	buf = append(buf, '\n')

	for _, o := range objs {
		rec, err := encodeObjectRecord(o)
		if err != nil {
			return fmt.Errorf("persistence: encoding object %s: %w", o.OidOf().String(), err)
		}
		body, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("persistence: marshaling object %s: %w", o.OidOf().String(), err)
		}
		idText := o.OidOf().String()[1:] // elide the leading underscore, per spec.md §4.7
		buf = append(buf, fmt.Sprintf("//+ob_%s\n", idText)...)
		buf = append(buf, body...)
		buf = append(buf, '\n')
		buf = append(buf, fmt.Sprintf("//-ob_%s\n", idText)...)
	}

	return writeFileAtomic(path, buf)
}

func encodeObjectRecord(o *object.Object) (map[string]any, error) {
	rec := map[string]any{
		"oid":   o.OidOf().String(),
		"mtime": o.Mtime(),
	}
	if cls := o.Class(); cls != nil {
		rec["class"] = cls.OidOf().String()
	} else {
		rec["class"] = nil
	}

	var attrs []map[string]any
	for _, b := range o.Attributes() {
		enc, err := encodeValue(b.Val)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, map[string]any{"at": b.Attr.OidOf().String(), "va": enc})
	}
	if attrs == nil {
		attrs = []map[string]any{}
	}
	rec["attrs"] = attrs

	comps := make([]any, 0, o.NumComponents())
	for _, c := range o.Components() {
		enc, err := encodeValue(c)
		if err != nil {
			return nil, err
		}
		comps = append(comps, enc)
	}
	rec["comps"] = comps

	if p := o.Payload(); p != nil {
		rec["payload"] = p.Kind()
		fields, err := p.Serialize()
		if err != nil {
			return nil, err
		}
		for k, v := range fields {
			enc, err := encodeAny(v)
			if err != nil {
				return nil, err
			}
			rec[k] = enc
		}
	}
	return rec, nil
}
