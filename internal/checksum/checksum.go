/*
 * Copyright 2025 CloudWeGo Authors
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

// Package checksum gives allocator tests a cheap way to detect block
// overlap: Fill stamps a buffer with content deterministically derived
// from a seed, and Verify recomputes that content and compares. Two live
// allocations that alias the same memory will, with overwhelming
// probability, fail Verify on at least one of them after both are
// written.
package checksum

import "github.com/fibtree/fibmalloc/hash/xfnv"

// Fill stamps every byte of b with a value derived from seed and the
// byte's offset, using a cheap splitmix-style mix so adjacent seeds don't
// produce adjacent content.
func Fill(b []byte, seed uint64) {
	for i := range b {
		x := seed + uint64(i)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x = x ^ (x >> 31)
		b[i] = byte(x)
	}
}

// Verify reports whether every byte of b still matches what Fill(b, seed)
// would have written.
func Verify(b []byte, seed uint64) bool {
	for i, v := range b {
		x := seed + uint64(i)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x = x ^ (x >> 31)
		if v != byte(x) {
			return false
		}
	}
	return true
}

// Hash returns a fast, non-cryptographic, non-cross-platform-stable
// fingerprint of b's contents. It is for in-process comparisons only
// (e.g. "did this region change between two points in a test"), not for
// storage.
func Hash(b []byte) uint64 {
	return xfnv.Hash(b)
}
