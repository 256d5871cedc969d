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

package object

import (
	"fmt"

	"github.com/refpersys/rpscore/internal/rpsfmt"
)

// FormatRps implements rpsfmt.Formatter. Terse mode is just the oid;
// verbose mode adds the class oid, attribute count and component count,
// matching the level of detail the CLI's --show-types surface wants
// without taking o's lock twice (Class/Attributes/NumComponents each
// take it once internally).
func (o *Object) FormatRps(sink rpsfmt.Sink, verbose bool) {
	if !verbose {
		sink.WriteString(o.id.String())
		return
	}
	classOid := "null"
	if cls := o.Class(); cls != nil {
		classOid = cls.id.String()
	}
	fmt.Fprintf(sinkWriter{sink}, "%s[class=%s, attrs=%d, comps=%d]",
		o.id.String(), classOid, len(o.Attributes()), o.NumComponents())
}

type sinkWriter struct{ rpsfmt.Sink }

func (w sinkWriter) Write(p []byte) (int, error) {
	return w.WriteString(string(p))
}
