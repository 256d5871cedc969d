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

package rpsconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestClampNbThreads(t *testing.T) {
	require.Equal(t, DefaultWorkers, ClampNbThreads(0))
	require.Equal(t, MinWorkers, ClampNbThreads(-5))
	require.Equal(t, MaxWorkers, ClampNbThreads(100000))
	require.Equal(t, 8, ClampNbThreads(8))
}

func TestBindFlagsAndLoad(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("refpersys", pflag.ContinueOnError)
	require.NoError(t, BindFlags(fs))
	require.NoError(t, v.BindPFlags(fs))
	require.NoError(t, fs.Parse([]string{"-L", "/tmp/heap", "-T", "16", "--debug-load", "3"}))

	cfg, err := Load("", v)
	require.NoError(t, err)
	require.Equal(t, "/tmp/heap", cfg.LoadDirectory)
	require.Equal(t, 16, cfg.Runtime.NbThreads)
	require.Equal(t, uint32(3), cfg.Debug.LoadFlags)
}

func TestLoadMergesYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refpersys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch: true\ndump-directory: /tmp/out\n"), 0o644))

	v := viper.New()
	fs := pflag.NewFlagSet("refpersys", pflag.ContinueOnError)
	require.NoError(t, BindFlags(fs))
	require.NoError(t, v.BindPFlags(fs))
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(path, v)
	require.NoError(t, err)
	require.True(t, cfg.Batch)
	require.Equal(t, "/tmp/out", cfg.DumpDirectory)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("refpersys", pflag.ContinueOnError)
	require.NoError(t, BindFlags(fs))
	require.NoError(t, v.BindPFlags(fs))
	require.NoError(t, fs.Parse(nil))

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), v)
	require.NoError(t, err)
}
