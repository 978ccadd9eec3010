/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package fibseq computes terms of the generalized Fibonacci sequence
// a(n) = a(n-1) + a(n-4) used to size the allocator's ladder cells.
package fibseq

// Seed is the first four terms of the sequence: a(0)..a(3). a(0) is the
// architecture's minimum block size; a(1..3) are the platform-specific
// seed values that precede the general recurrence.
type Seed [4]int

// Append computes the next term after terms (which must already hold a
// valid prefix of the sequence, len(terms) >= 4) and returns terms with
// the new term appended.
//
// a(n) = a(n-1) + a(n-4), so the new term only needs the last four
// existing entries.
func Append(terms []int) []int {
	n := len(terms)
	if n < 4 {
		panic("fibseq: need at least 4 terms to extend")
	}
	next := terms[n-1] + terms[n-4]
	return append(terms, next)
}

// Generate returns the first count terms of the sequence starting from seed.
// count must be >= 4.
func Generate(seed Seed, count int) []int {
	if count < 4 {
		panic("fibseq: count must be >= 4")
	}
	terms := make([]int, 4, count)
	copy(terms, seed[:])
	for len(terms) < count {
		terms = Append(terms)
	}
	return terms
}
