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

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/refpersys/rpscore/internal/clock"
	"github.com/refpersys/rpscore/internal/metrics"
	"github.com/refpersys/rpscore/internal/object"
	"github.com/refpersys/rpscore/internal/persistence"
	"github.com/refpersys/rpscore/internal/rpsconfig"
	"github.com/refpersys/rpscore/internal/rpsfmt"
	"github.com/refpersys/rpscore/internal/runtimelog"
	"github.com/refpersys/rpscore/internal/value"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at link time via -ldflags, the closest idiomatic
// Go equivalent of spec.md §7's "git id" banner field; the default
// below is what a plain `go build` without -ldflags produces.
var version = "dev"

// metricsAddr is the fixed address the optional Prometheus endpoint
// binds to; spec.md's CLI surface names no flag for it, so it stays an
// internal constant rather than another user-facing knob.
const metricsAddr = "127.0.0.1:9090"

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "refpersys",
	Short: "Run the RefPerSys reflexive, persistent object system core.",
	Long: `refpersys loads a heap directory (or starts an empty heap),
runs until asked to stop, and optionally dumps its heap back to disk
before exiting.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Version = version
	if err := rpsconfig.BindFlags(rootCmd.Flags()); err != nil {
		panic(fmt.Sprintf("refpersys: binding flags: %v", err))
	}
	if err := v.BindPFlags(rootCmd.Flags()); err != nil {
		panic(fmt.Sprintf("refpersys: binding viper: %v", err))
	}
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Optional YAML config file overlaying the flags above.")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := rpsconfig.Load(cfgFile, v)
	if err != nil {
		return err
	}

	log := runtimelog.New(runtimelog.Options{})
	defer log.Close()

	if cfg.Debug.ShowTypes {
		printShowTypes()
		return nil
	}
	if cfg.Debug.Help {
		cmd.Println(cmd.Flags().FlagUsages())
		return nil
	}

	clk := clock.RealClock{}
	reg := metrics.New()

	var rt *object.Runtime
	if cfg.LoadDirectory != "" {
		log.Infof("loading heap from %s", cfg.LoadDirectory)
		start := time.Now()
		rt, err = persistence.LoadConcurrent(cfg.LoadDirectory, clk, persistence.DefaultLoaders(), cfg.Runtime.NbThreads)
		if err != nil {
			return fmt.Errorf("refpersys: loading %s: %w", cfg.LoadDirectory, err)
		}
		reg.LoadDuration.Observe(time.Since(start).Seconds())
	} else {
		rt, err = object.NewRuntime(clk)
		if err != nil {
			return fmt.Errorf("refpersys: starting an empty heap: %w", err)
		}
	}
	log.Infof("heap ready: %d objects registered", rt.Registry.Size())

	reg.ObjectCount.Set(float64(rt.Registry.Size()))
	go serveMetrics(log, reg)

	if cfg.GUI && !cfg.Batch {
		if err := runGUI(log, cfg); err != nil {
			return fmt.Errorf("refpersys: starting gui: %w", err)
		}
	}

	if cfg.DumpDirectory != "" {
		start := time.Now()
		dumper := persistence.NewDumper(rt)
		dumper.NbThreads = cfg.Runtime.NbThreads
		if err := dumper.Dump(cfg.DumpDirectory); err != nil {
			return fmt.Errorf("refpersys: dumping to %s: %w", cfg.DumpDirectory, err)
		}
		reg.DumpDuration.Observe(time.Since(start).Seconds())
		log.Infof("dumped heap to %s in %s", cfg.DumpDirectory, time.Since(start))
	}

	return nil
}

func serveMetrics(log *runtimelog.Logger, reg *metrics.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	if err := http.ListenAndServe(metricsAddr, mux); err != nil {
		log.Warningf("metrics endpoint exited: %v", err)
	}
}

// printShowTypes implements --show-types: printing the name of every
// value kind of spec.md §3, then package rpsfmt's terse Formatter output
// for a single sample value (an Int).
func printShowTypes() {
	for k := value.KindNull; k <= value.KindObject; k++ {
		fmt.Println(k.String())
	}
	fmt.Println()
	fmt.Println("formatter: " + rpsfmt.Describe(sampleInt, false))
}

var sampleInt = value.Int(0)
