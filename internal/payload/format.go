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
	"fmt"

	"github.com/refpersys/rpscore/internal/rpsfmt"
)

// kinder is satisfied by every concrete payload kind, each of which
// defines its own Kind() string method overriding nothing here — Base
// has no Kind of its own, so FormatRps is written against the embedding
// type via this narrow interface rather than against Base directly.
type kinder interface{ Kind() string }

// FormatRps implements rpsfmt.Formatter for any payload kind embedding
// Base: terse mode is the kind name, verbose mode adds the owner's oid
// when attached.
func (b *Base) formatRps(self kinder, sink rpsfmt.Sink, verbose bool) {
	if !verbose {
		sink.WriteString(self.Kind())
		return
	}
	owner := "detached"
	if o := b.Owner(); o != nil {
		owner = o.OidOf().String()
	}
	fmt.Fprintf(sinkWriter{sink}, "%s-payload[owner=%s]", self.Kind(), owner)
}

type sinkWriter struct{ rpsfmt.Sink }

func (w sinkWriter) Write(p []byte) (int, error) {
	return w.WriteString(string(p))
}

func (s *Symbol) FormatRps(sink rpsfmt.Sink, verbose bool)          { s.Base.formatRps(s, sink, verbose) }
func (c *ClassInfo) FormatRps(sink rpsfmt.Sink, verbose bool)       { c.Base.formatRps(c, sink, verbose) }
func (m *MutableSet) FormatRps(sink rpsfmt.Sink, verbose bool)      { m.Base.formatRps(m, sink, verbose) }
func (d *Deque) FormatRps(sink rpsfmt.Sink, verbose bool)           { d.Base.formatRps(d, sink, verbose) }
func (h *ObjectHashtable) FormatRps(sink rpsfmt.Sink, verbose bool) { h.Base.formatRps(h, sink, verbose) }
func (s *StringDict) FormatRps(sink rpsfmt.Sink, verbose bool)      { s.Base.formatRps(s, sink, verbose) }
func (s *Space) FormatRps(sink rpsfmt.Sink, verbose bool)           { s.Base.formatRps(s, sink, verbose) }
func (o *Opaque) FormatRps(sink rpsfmt.Sink, verbose bool)          { o.Base.formatRps(o, sink, verbose) }
