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
	"fmt"

	"github.com/refpersys/rpscore/internal/rpsfmt"
)

// FormatRps implements rpsfmt.Formatter for a tagged integer.
func (i Int) FormatRps(sink rpsfmt.Sink, verbose bool) {
	fmt.Fprintf(sinkWriter{sink}, "%d", int64(i))
}

// FormatRps implements rpsfmt.Formatter for a boxed double.
func (d Double) FormatRps(sink rpsfmt.Sink, verbose bool) {
	fmt.Fprintf(sinkWriter{sink}, "%g", d.Float64())
}

// FormatRps implements rpsfmt.Formatter for an immutable string. Verbose
// mode quotes it; terse mode writes the bytes as-is.
func (s String) FormatRps(sink rpsfmt.Sink, verbose bool) {
	if verbose {
		fmt.Fprintf(sinkWriter{sink}, "%q", s.s)
		return
	}
	sink.WriteString(s.s)
}

// FormatRps implements rpsfmt.Formatter for a boxed JSON tree.
func (j JSON) FormatRps(sink rpsfmt.Sink, verbose bool) {
	if verbose {
		fmt.Fprintf(sinkWriter{sink}, "json<%#v>", j.tree)
		return
	}
	sink.WriteString("json")
}

// FormatRps implements rpsfmt.Formatter for a tuple: terse mode names its
// arity, verbose mode lists each member's oid (or "null").
func (t Tuple) FormatRps(sink rpsfmt.Sink, verbose bool) {
	if !verbose {
		fmt.Fprintf(sinkWriter{sink}, "tuple[%d]", len(t.elems))
		return
	}
	sink.WriteString("tuple(")
	for i, e := range t.elems {
		if i > 0 {
			sink.WriteString(", ")
		}
		if e == nil {
			sink.WriteString("null")
			continue
		}
		sink.WriteString(e.OidOf().String())
	}
	sink.WriteString(")")
}

// FormatRps implements rpsfmt.Formatter for a set, same shape as Tuple.
func (s Set) FormatRps(sink rpsfmt.Sink, verbose bool) {
	if !verbose {
		fmt.Fprintf(sinkWriter{sink}, "set[%d]", len(s.elems))
		return
	}
	sink.WriteString("set(")
	for i, e := range s.elems {
		if i > 0 {
			sink.WriteString(", ")
		}
		sink.WriteString(e.OidOf().String())
	}
	sink.WriteString(")")
}

// FormatRps implements rpsfmt.Formatter for a closure: terse mode names
// its connective, verbose mode adds the capture count.
func (c Closure) FormatRps(sink rpsfmt.Sink, verbose bool) {
	conn := "null"
	if c.connective != nil {
		conn = c.connective.OidOf().String()
	}
	if !verbose {
		fmt.Fprintf(sinkWriter{sink}, "closure(%s)", conn)
		return
	}
	fmt.Fprintf(sinkWriter{sink}, "closure(connective=%s, captures=%d)", conn, len(c.captures))
}

// sinkWriter adapts an rpsfmt.Sink (WriteString-only) to io.Writer so
// fmt.Fprintf can target it.
type sinkWriter struct{ rpsfmt.Sink }

func (w sinkWriter) Write(p []byte) (int, error) {
	return w.WriteString(string(p))
}
