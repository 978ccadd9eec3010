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

// Package host provides fibmalloc.Host implementations: a Go-heap-backed
// provider for tests and general use, and (on Unix) an mmap-backed
// provider for processes that want the engine's chunks off the Go heap
// entirely.
package host

import (
	"math/bits"
	"sync"
)

const (
	minClassSize = 4 << 10   // 4KB
	maxClassSize = 256 << 20 // 256MB; Acquire falls back to a bare make() above this
)

// heapHost draws chunks from a ladder of sync.Pools, one per power-of-two
// size class, exactly like a bucketed allocator caches fixed-size buffers.
// Unlike a general-purpose byte-slice pool it never needs a magic footer
// to validate Release's argument: every chunk it ever returns was already
// tracked as a []byte by the caller's own chunkNode, so there is no
// "did this come from us" question to answer.
type heapHost struct {
	classes []*sync.Pool
}

// NewHeap returns a Host that serves chunks from the Go heap, recycling
// same-size-class buffers via sync.Pool instead of allocating fresh on
// every Acquire.
func NewHeap() *heapHost {
	h := &heapHost{}
	for sz := minClassSize; sz <= maxClassSize; sz <<= 1 {
		size := sz
		h.classes = append(h.classes, &sync.Pool{
			New: func() interface{} {
				b := make([]byte, size)
				return &b
			},
		})
	}
	return h
}

func classIndex(n int) int {
	if n <= minClassSize {
		return 0
	}
	i := bits.Len(uint(n)) - bits.Len(uint(minClassSize))
	if n&(n-1) != 0 {
		i++
	}
	return i
}

// Acquire returns a zeroed region of at least n bytes.
func (h *heapHost) Acquire(n int) []byte {
	if n <= 0 {
		n = minClassSize
	}
	i := classIndex(n)
	if i >= len(h.classes) {
		return make([]byte, n)
	}
	p := h.classes[i].Get().(*[]byte)
	b := *p
	for j := range b {
		b[j] = 0
	}
	return b
}

// Release returns b to its size class pool. Regions larger than the
// largest pooled class, or whose length doesn't match a class exactly
// (meaning Acquire fell back to a bare make), are simply dropped for the
// garbage collector to reclaim.
func (h *heapHost) Release(b []byte) {
	n := len(b)
	if n == 0 {
		return
	}
	i := classIndex(n)
	if i >= len(h.classes) || h.classes[i] == nil {
		return
	}
	if n&(n-1) != 0 || n < minClassSize {
		return
	}
	h.classes[i].Put(&b)
}
