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

import "sync"

// dumpGate serializes Dump calls against a single Dumper: spec.md §1's
// non-goals explicitly exclude concurrent multi-writer dumps. This mutex
// covers goroutines of one process only; a second process dumping into
// the same heap directory is stopped by the lock file AcquireProcessLock
// creates (processlock.go).
type dumpGate struct {
	mu sync.Mutex
}

func (g *dumpGate) withLock(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
