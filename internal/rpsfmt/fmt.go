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

// Package rpsfmt replaces the original C runtime's custom printf format
// specifiers (spec.md's Design Notes: "Replace with a dedicated
// formatter trait/interface taking a formatter sink") with a small Go
// interface that values, objects and payload kinds implement directly,
// and that the CLI's --show-types/--debug-* surface drives (SPEC_FULL.md
// §4.9).
package rpsfmt

import "strings"

// Sink is the minimal write surface a Formatter needs. *strings.Builder,
// *bufio.Writer and os.Stdout all satisfy it.
type Sink interface {
	WriteString(string) (int, error)
}

// Formatter is implemented by anything the debug/trace surface can print:
// value.Value's concrete kinds, *object.Object, and the payload kinds in
// package payload (via payload.Base's default, overridden where a kind
// has more to say than its Kind() name and owner oid).
type Formatter interface {
	// FormatRps writes a human-readable rendering of the receiver to
	// sink. When verbose is false the output is a single short token
	// suitable for embedding inline (an oid, a kind name); when true it
	// may span multiple lines or include nested structure.
	FormatRps(sink Sink, verbose bool)
}

// Describe renders f the way FormatRps would, but returns a string
// instead of requiring the caller to supply a Sink — the common case for
// tests and one-off debug logging.
func Describe(f Formatter, verbose bool) string {
	var b strings.Builder
	f.FormatRps(&b, verbose)
	return b.String()
}
