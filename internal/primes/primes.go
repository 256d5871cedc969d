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

// Package primes holds the monotone prime ladder (spec.md §4.2) that
// every hash-indexed table in this module uses to pick its capacity.
// Storing the index of a prime rather than the raw capacity lets a single
// small integer be persisted and later recover the exact table size.
package primes

import "sort"

// ladder is ascending, and each entry is at least 1.1x the previous one.
// It tops out comfortably above MaxComponents (object.MaxComponents),
// which is the largest capacity this module ever needs to size.
var ladder = [...]uint32{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 37, 41, 47, 53, 59, 67, 79, 89, 101,
	113, 127, 149, 167, 191, 211, 233, 257, 283, 313, 347, 383, 431, 479,
	541, 599, 659, 727, 809, 907, 1009, 1117, 1229, 1361, 1499, 1657, 1823,
	2011, 2213, 2437, 2683, 2953, 3251, 3581, 3943, 4339, 4783, 5273, 5801,
	6389, 7039, 7753, 8537, 9391, 10331, 11369, 12511, 13763, 15149, 16673,
	18341, 20177, 22229, 24469, 26921, 29629, 32603, 35869, 39461, 43411,
	47777, 52561, 57829, 63617, 69991, 76991, 84691, 93169, 102497, 112757,
	124067, 136481, 150131, 165161, 181693, 199873, 219871, 241861, 266051,
	292661, 321947, 354143, 389561, 428531, 471389, 518533, 570389, 627433,
	690187, 759223, 835207, 918733, 1010617, 1111687, 1222889, 1345207,
	1479733, 1627723, 1790501, 1969567, 2166529, 2383219, 2621551, 2883733,
	3172123, 3489347, 3838283, 4222117, 4644329, 5108767,
}

// Count returns the number of entries in the ladder.
func Count() int { return len(ladder) }

// OfIndex returns the prime at ladder position i. Panics if i is out of
// range; callers store indices they got from this package, not arbitrary
// integers.
func OfIndex(i int) uint32 {
	return ladder[i]
}

// IndexOf returns the ladder position of p, and false if p isn't in the
// ladder (e.g. it wasn't produced by Above/Below).
func IndexOf(p uint32) (int, bool) {
	i := sort.Search(len(ladder), func(i int) bool { return ladder[i] >= p })
	if i < len(ladder) && ladder[i] == p {
		return i, true
	}
	return 0, false
}

// Above returns the smallest ladder prime that is >= n, and its index. If
// n exceeds every entry, the largest entry is returned.
func Above(n uint32) (uint32, int) {
	i := sort.Search(len(ladder), func(i int) bool { return ladder[i] >= n })
	if i == len(ladder) {
		i = len(ladder) - 1
	}
	return ladder[i], i
}

// Below returns the largest ladder prime that is <= n, and its index. If n
// is smaller than every entry, the smallest entry is returned.
func Below(n uint32) (uint32, int) {
	i := sort.Search(len(ladder), func(i int) bool { return ladder[i] > n })
	if i == 0 {
		return ladder[0], 0
	}
	return ladder[i-1], i - 1
}
