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

// FormatMagic is the single compile-time format constant spec.md §6
// describes: a mismatch between a loaded manifest's Format and this
// constant is fatal at load.
const FormatMagic = "refpersys-core-format-1"

// ManifestFileName is the fixed name of the manifest file at the root of
// a heap directory (spec.md §4.7).
const ManifestFileName = "rps_manifest.json"

// SpaceFileDir is the subdirectory under a heap directory holding one
// file per space (spec.md §4.7: "persistore/sp<OID>-rps.json").
const SpaceFileDir = "persistore"

// Manifest is the root file of a heap directory (spec.md §4.7). Constants
// maps the fixed bootstrap-object names (see constantSlots in constants.go) to
// their persisted oids, so a loaded Runtime's ClassAttr/SpaceAttr/
// ObjectClass/etc. fields can be re-pointed at the objects a previous
// process minted for them instead of a freshly booted runtime's own
// random ones — spec.md §4.7 names a "constants" manifest entry but
// leaves its shape to the implementation.
type Manifest struct {
	Format    string            `json:"format"`
	NbObjects int               `json:"nbobjects"`
	Roots     []string          `json:"roots"`
	Constants map[string]string `json:"constants"`
	Spaces    []string          `json:"spaces"`
}

// spacePrologue is the first JSON object in a space file (spec.md §4.7).
type spacePrologue struct {
	Format    string `json:"format"`
	NbObjects int    `json:"nbobjects"`
	SpaceID   string `json:"spaceid"`
}

// SpaceFileName returns the file name (relative to SpaceFileDir) for the
// space whose oid text is spaceOid.
func SpaceFileName(spaceOid string) string {
	// spaceOid is rendered with its leading underscore elided after the
	// "ob_" part is not applicable here: spec.md's "sp<OID>-rps.json"
	// keeps the oid's own leading underscore as-is.
	return "sp" + spaceOid + "-rps.json"
}
