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

// Package fibmalloc is a sub-allocation engine over host-provided memory
// chunks, partitioned by a generalized Fibonacci sequence
// a(n) = a(n-1) + a(n-4) instead of the usual powers of two. Requests are
// satisfied by splitting a free block into two unequal buddies whose
// sizes are two consecutive-by-recurrence Fibonacci terms; freed blocks
// are recursively merged with their buddy when it is free and whole.
//
// The engine is single-threaded and synchronous: see package fibsync for
// a concurrency-safe wrapper, and package host for Host implementations.
package fibmalloc

import (
	"unsafe"

	"github.com/fibtree/fibmalloc/internal/raw"
)

// Allocator is a Fibonacci buddy sub-allocator over chunks drawn from a
// Host. The zero value is not usable; construct with New or NewWithArch.
type Allocator struct {
	host   Host
	arch   ArchProfile
	ladder ladder
	chunks *chunkNode
	sink   EventSink
}

// New creates an allocator backed by host, using the architecture profile
// matching this process's native pointer width.
func New(host Host) *Allocator {
	return NewWithArch(host, DefaultArch())
}

// NewWithArch creates an allocator pinned to an explicit architecture
// profile, regardless of the host process's actual pointer width. Mainly
// useful for exercising the 32-bit ladder geometry from a 64-bit test
// binary; the storage math for bootstrap/growth still reflects the real
// platform's pointer size (see cellSlotSize).
func NewWithArch(host Host, arch ArchProfile) *Allocator {
	a := &Allocator{host: host, arch: arch}
	a.bootstrapLadder()
	return a
}

// blocksFor returns the number of blocks needed to hold userBytes of
// usable space behind a header, i.e. ceil((userBytes+HEADER_SIZE)/BLOCK_SIZE).
// alloc(0) is treated as alloc(1), per the specification's recommended
// resolution of that open question.
func blocksFor(userBytes int) int {
	if userBytes <= 0 {
		userBytes = 1
	}
	total := userBytes + raw.WordSize
	return (total + blockSize - 1) / blockSize
}

// allocBlock finds, extending the ladder and/or drawing a fresh chunk if
// necessary, splits, and returns a free block covering at least n blocks.
// The returned block is not yet marked in_use.
func (a *Allocator) allocBlock(n int) (int, unsafe.Pointer) {
	if i := a.findCell(n); i != -1 {
		block := a.ladder.takeFirst(i)
		return a.split(i, block, n)
	}
	i := a.smallestCellAtLeast(n)
	block := a.acquireChunk(a.ladder.cells[i].size)
	return a.split(i, block, n)
}

// freeBlock returns block to its ladder cell and coalesces it with its
// buddy chain. It returns the index of the cell the block was inserted
// into, before any merge.
func (a *Allocator) freeBlock(block unsafe.Pointer) int {
	h := headerAt(block)
	sz := h.size()

	i := -1
	for idx, c := range a.ladder.cells {
		if c.size == sz {
			i = idx
			break
		}
	}
	if i == -1 {
		panic(&CorruptionError{Reason: "freed block size matches no ladder cell", Size: sz})
	}

	h.setInUse(false)
	a.ladder.insert(i, block)
	a.coalesce(i)
	return i
}

// Alloc returns a slice of at least x uninitialized bytes, stable until
// its matching Free. x <= 0 is treated as x == 1.
func (a *Allocator) Alloc(x int) []byte {
	if x <= 0 {
		x = 1
	}
	n := blocksFor(x)
	i, block := a.allocBlock(n)
	headerAt(block).setInUse(true)
	a.record(EventAlloc, i, headerAt(block).size())

	usable := headerAt(block).size()*blockSize - raw.WordSize
	return unsafe.Slice((*byte)(areaOf(block)), usable)[:x]
}

// Free returns b, which must be the exact slice (not a re-sliced view of
// it) previously returned by Alloc, to the allocator. Double-free and
// foreign slices are undefined behavior. The only check made is that the
// block's header size matches a ladder cell; Free panics with a
// CorruptionError when it does not.
func (a *Allocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	block := blockOf(raw.BaseOf(b))
	sz := headerAt(block).size()
	i := a.freeBlock(block)
	a.record(EventFree, i, sz)
}

// Close releases every chunk this allocator ever acquired back to the
// host. After Close, no further Alloc/Free is valid until New is called
// again; every outstanding slice becomes invalid.
func (a *Allocator) Close() error {
	a.releaseAll()
	a.ladder = ladder{}
	return nil
}
