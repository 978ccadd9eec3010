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

//go:build unix

package host

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// mmapHost serves every Acquire as its own anonymous private mapping, and
// Release as the matching munmap. There is no pooling: each chunk is a
// kernel-backed allocation, for callers who need fibmalloc's chunks to sit
// entirely outside the Go heap (no GC scanning, predictable RSS).
type mmapHost struct {
	pageSize int

	mu          sync.Mutex
	outstanding map[uintptr]int // base address -> mapped length, for sanity checking Release
}

// NewMmap returns a Host backed by anonymous mmap regions. It is only
// built on Unix platforms.
func NewMmap() *mmapHost {
	return &mmapHost{
		pageSize:    unix.Getpagesize(),
		outstanding: make(map[uintptr]int),
	}
}

func roundUpPage(n, pageSize int) int {
	return (n + pageSize - 1) &^ (pageSize - 1)
}

// Acquire maps a new anonymous, private region of at least n bytes,
// rounded up to a whole number of pages.
func (h *mmapHost) Acquire(n int) []byte {
	if n <= 0 {
		n = h.pageSize
	}
	size := roundUpPage(n, h.pageSize)

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		panic("fibmalloc/host: mmap failed: " + err.Error())
	}

	h.mu.Lock()
	h.outstanding[addrOf(data)] = len(data)
	h.mu.Unlock()

	return data
}

// Release unmaps a region previously returned by Acquire. Passing
// anything else is a programming error and panics rather than silently
// unmapping the wrong pages.
func (h *mmapHost) Release(b []byte) {
	if len(b) == 0 {
		return
	}
	addr := addrOf(b)

	h.mu.Lock()
	size, ok := h.outstanding[addr]
	if ok {
		delete(h.outstanding, addr)
	}
	h.mu.Unlock()

	if !ok || size != len(b) {
		panic("fibmalloc/host: Release called with a region this host never mapped")
	}
	if err := unix.Munmap(b); err != nil {
		panic("fibmalloc/host: munmap failed: " + err.Error())
	}
}
