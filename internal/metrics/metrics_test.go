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

package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryExportsExpectedSeries(t *testing.T) {
	m := New()
	m.ObjectCount.Set(42)
	m.BucketLoadFactor.WithLabelValues("17").Set(0.5)
	m.DumpDuration.Observe(0.25)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "refpersys_object_count 42")
	require.Contains(t, body, `refpersys_bucket_load_factor{bucket="17"} 0.5`)
	require.Contains(t, body, "refpersys_dump_duration_seconds")
}
