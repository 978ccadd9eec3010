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

package fibmalloc

import (
	"unsafe"

	"github.com/fibtree/fibmalloc/internal/raw"
)

// Host is the host-level bulk allocator the engine draws large chunks
// from and eventually returns them to. It makes no alignment guarantee
// beyond pointer-size alignment, and Acquire is assumed to succeed or not
// return at all; a region shorter than requested makes the engine panic
// with a HostError.
type Host interface {
	// Acquire returns a new raw region of at least n bytes.
	Acquire(n int) []byte
	// Release returns a region previously obtained from Acquire. The
	// engine never calls Release with anything else.
	Release(b []byte)
}

// sentinelSize is the fixed size, in blocks, of a chunk's fake-right
// sentinel: always zero, so it never matches a real ladder cell size.
const sentinelSize = 0

// chunkNode anchors one chunk's backing byte slice on the Go heap so the
// garbage collector keeps it alive for as long as any block inside it is
// reachable through the ladder's free lists, and lets Close walk every
// chunk ever acquired.
//
// The raw region still reserves its leading machine word for the
// next-chunk link the data model specifies, for layout fidelity with the
// rest of the header math (the block always starts at offset WordSize).
// That word is set to zero and never read; the link itself lives in
// chunkNode.next, because a Go-level linked list is already the GC-safe
// way to keep chunk memory alive, and following an untyped pointer stored
// in raw bytes would not be.
type chunkNode struct {
	data []byte
	next *chunkNode
}

// acquireChunk asks the host for a region sized to hold exactly one
// Fibonacci-sized block of n blocks, links it onto the chunk list, and
// writes the initial block header and the trailing fake-right sentinel.
// It returns a pointer to the usable block, not the chunk header.
func (a *Allocator) acquireChunk(n int) unsafe.Pointer {
	total := raw.WordSize + n*blockSize + raw.WordSize
	data := a.host.Acquire(total)
	if len(data) < total {
		panic(&HostError{Requested: total, Got: len(data)})
	}

	node := &chunkNode{data: data, next: a.chunks}
	a.chunks = node

	base := raw.BaseOf(data)
	*raw.HeaderWordAt(base) = 0

	block := raw.From(base, raw.WordSize)
	headerAt(block).set(n, false, left, left)

	sentinel := raw.From(block, n*blockSize)
	headerAt(sentinel).set(sentinelSize, true, right, left)

	a.record(EventChunkAcquire, -1, n)
	return block
}

// releaseAll returns every chunk ever acquired back to the host and
// empties the chunk list.
func (a *Allocator) releaseAll() {
	for node := a.chunks; node != nil; {
		next := node.next
		a.host.Release(node.data)
		node = next
	}
	a.chunks = nil
}
