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

// Package metrics exposes a Prometheus /metrics endpoint for a running
// RefPerSys process: object counts, registry bucket load factors, and
// dump/load duration histograms. The teacher exposes metrics the same
// way (an optional side-channel HTTP endpoint alongside its primary
// interface) though it routes through an OpenTelemetry exporter; this
// core talks to github.com/prometheus/client_golang directly, since
// there is no FUSE op-latency surface here to justify OTel's tracing
// machinery, just gauges and histograms a bare Prometheus registry
// already covers (see DESIGN.md for the dropped-dependency rationale).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every collector this process exposes, so callers
// thread one handle through object/persistence code instead of reaching
// for prometheus's global default registry.
type Registry struct {
	reg *prometheus.Registry

	ObjectCount      prometheus.Gauge
	BucketLoadFactor *prometheus.GaugeVec
	DumpDuration     prometheus.Histogram
	LoadDuration     prometheus.Histogram
	GCPauseTotal     prometheus.Counter
}

// New builds a Registry with every collector registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	m := &Registry{
		reg: reg,
		ObjectCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "refpersys",
			Name:      "object_count",
			Help:      "Number of objects currently registered in the heap.",
		}),
		BucketLoadFactor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "refpersys",
			Name:      "bucket_load_factor",
			Help:      "Occupancy ratio (card/capacity) of one object-registry bucket.",
		}, []string{"bucket"}),
		DumpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "refpersys",
			Name:      "dump_duration_seconds",
			Help:      "Wall-clock duration of a full heap dump.",
			Buckets:   prometheus.DefBuckets,
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "refpersys",
			Name:      "load_duration_seconds",
			Help:      "Wall-clock duration of a full heap load.",
			Buckets:   prometheus.DefBuckets,
		}),
		GCPauseTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "refpersys",
			Name:      "allocator_pause_total",
			Help:      "Number of times the striped allocator's pause flag was raised.",
		}),
	}
	reg.MustRegister(m.ObjectCount, m.BucketLoadFactor, m.DumpDuration, m.LoadDuration, m.GCPauseTotal)
	return m
}

// Handler returns the http.Handler serving this Registry's collectors in
// the Prometheus exposition format, to be mounted at "/metrics".
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
