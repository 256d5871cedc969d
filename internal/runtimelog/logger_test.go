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

package runtimelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rpscore.log")
	l := New(Options{FilePath: path, JSON: true})
	defer l.Close()

	l.Infof("heap loaded: %d objects", 42)
	l.Errorf("load failed: %v", "boom")

	require.NoError(t, l.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "heap loaded: 42")
	require.Contains(t, string(data), "load failed: boom")
	require.Contains(t, string(data), "\"severity\":\"INFO\"")
	require.Contains(t, string(data), "\"severity\":\"ERROR\"")
}

func TestSeverityString(t *testing.T) {
	require.Equal(t, "TRACE", Trace.String())
	require.Equal(t, "DEBUG", Debug.String())
	require.Equal(t, "INFO", Info.String())
	require.Equal(t, "WARNING", Warning.String())
	require.Equal(t, "ERROR", Error.String())
}
