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

import "github.com/refpersys/rpscore/internal/object"

var (
	_ object.Payload = (*Symbol)(nil)
	_ object.Payload = (*ClassInfo)(nil)
	_ object.Payload = (*MutableSet)(nil)
	_ object.Payload = (*Deque)(nil)
	_ object.Payload = (*ObjectHashtable)(nil)
	_ object.Payload = (*StringDict)(nil)
	_ object.Payload = (*Space)(nil)
	_ object.Payload = (*Opaque)(nil)

	_ object.MethodTable = (*ClassInfo)(nil)
)
