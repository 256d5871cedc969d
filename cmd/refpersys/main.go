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

// Command refpersys is the thin CLI shell spec.md §6 describes: it never
// implements GTK GUI rendering, libcurl HTTP, the agenda scheduler, the
// backtrace printer or the C-code generator itself (those stay external
// collaborators per spec.md §1) — it only parses arguments, loads or
// starts a heap, optionally dumps it, and exits with the documented
// codes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
