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
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// processLockFile is the advisory lock file spec.md §1's "no concurrent
// multi-writer dumps" non-goal is enforced by at the process level: the
// in-process dumpGate mutex only protects against two goroutines of the
// same process racing a dump; this file stops a second process from
// writing into the same heap directory concurrently.
const processLockFile = ".rpscore-dump.lock"

// ProcessLock is a held advisory lock on a heap directory.
type ProcessLock struct {
	path string
}

// AcquireProcessLock creates dir's lock file atomically (O_EXCL), writing
// a fresh session id (github.com/google/uuid) and this process's pid so
// a stuck lock can be diagnosed and removed by hand. It fails if another
// process already holds the lock.
func AcquireProcessLock(dir string) (*ProcessLock, error) {
	path := filepath.Join(dir, processLockFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("persistence: heap directory %s is already locked for dumping (%s); remove it by hand if the owning process is gone", dir, path)
		}
		return nil, fmt.Errorf("persistence: creating lock file: %w", err)
	}
	defer f.Close()

	session := uuid.New()
	if _, err := fmt.Fprintf(f, "session=%s\npid=%d\n", session, os.Getpid()); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("persistence: writing lock file: %w", err)
	}
	return &ProcessLock{path: path}, nil
}

// Release removes the lock file, permitting another process to dump the
// same heap directory.
func (l *ProcessLock) Release() error {
	if l == nil {
		return nil
	}
	return os.Remove(l.path)
}
