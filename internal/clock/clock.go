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

// Package clock gives the object core and persistence layer an
// injectable notion of wall-clock time, exactly the role
// github.com/jacobsa/timeutil.Clock plays for the teacher's inodes: an
// object's mtime (spec.md §3) is "wall-clock seconds at last mutation",
// and tests want to control that without sleeping.
package clock

import "time"

// Clock is the interface object.Runtime and internal/persistence depend
// on instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

var (
	_ Clock = RealClock{}
	_ Clock = &SimulatedClock{}
)
