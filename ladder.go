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

	"github.com/fibtree/fibmalloc/internal/fibseq"
)

// cellSlot is one entry of the ladder: a Fibonacci term and the head of
// the free list of blocks of exactly that size.
type cellSlot struct {
	size int
	head unsafe.Pointer
}

// cellSlotSize depends on the host's actual pointer width, which governs
// how many cells fit in a given number of blocks during bootstrap and
// growth. It is independent of which ArchProfile (64/32/16-bit) the
// caller asked the ladder to model; see arch.go.
var cellSlotSize = int(unsafe.Sizeof(cellSlot{}))

// ladder is the dynamic cell array. Its own backing storage lives inside a
// block the allocator allocated from itself (see bootstrapLadder and
// growLadder) rather than a plain Go-managed slice, per the
// self-hosting design in the specification's design notes.
type ladder struct {
	cells    []cellSlot
	storage  unsafe.Pointer // the block backing `cells`; freed on growth/Close
	capacity int
}

// bootstrapLadder places the very first ladder storage inside a block
// acquired directly from the chunk source, bypassing the normal
// find/extend/split search (which has no ladder to search yet). This
// works because, for every supported architecture profile, the initial
// seed terms already contain one large enough to hold InitialCapacity
// cells -- the "smallest self-referential Fibonacci term" the design
// notes describe.
func (a *Allocator) bootstrapLadder() {
	capacity := a.arch.InitialCapacity
	needBlocks := blocksFor(capacity * cellSlotSize)

	seedTerms := fibseq.Generate(a.arch.Seed, a.arch.InitialTerms)
	idx := -1
	for i, sz := range seedTerms {
		if sz >= needBlocks {
			idx = i
			break
		}
	}
	if idx == -1 {
		panic("fibmalloc: architecture profile cannot self-host its own ladder")
	}

	block := a.acquireChunk(seedTerms[idx])
	headerAt(block).setInUse(true)

	cells := unsafe.Slice((*cellSlot)(areaOf(block)), capacity)
	for i := range cells {
		cells[i] = cellSlot{}
	}
	for i, sz := range seedTerms {
		cells[i].size = sz
	}

	a.ladder = ladder{cells: cells[:len(seedTerms)], storage: block, capacity: capacity}
}

// extendLadder appends one new term (doubling capacity and relocating
// through the normal engine allocation path first, if the array is full).
func (a *Allocator) extendLadder() {
	if len(a.ladder.cells) == a.ladder.capacity {
		a.growLadder()
	}
	n := len(a.ladder.cells)
	next := a.ladder.cells[n-1].size + a.ladder.cells[n-4].size
	a.ladder.cells = a.ladder.cells[:n+1]
	a.ladder.cells[n] = cellSlot{size: next}
}

// growLadder doubles the ladder's capacity. The new cell array is
// obtained through the ordinary allocation path (find/extend/split), so
// ladder growth can itself recurse into another round of ladder growth if
// the current cell table is too small to describe a block that large --
// exactly the "growth may itself allocate from the engine" behavior the
// specification calls out.
func (a *Allocator) growLadder() {
	newCap := a.ladder.capacity * 2
	needBlocks := blocksFor(newCap * cellSlotSize)

	_, newBlock := a.allocBlock(needBlocks)
	headerAt(newBlock).setInUse(true)

	newCells := unsafe.Slice((*cellSlot)(areaOf(newBlock)), newCap)
	n := copy(newCells, a.ladder.cells)
	for i := n; i < newCap; i++ {
		newCells[i] = cellSlot{}
	}

	oldStorage := a.ladder.storage
	a.ladder.cells = newCells[:n]
	a.ladder.storage = newBlock
	a.ladder.capacity = newCap

	a.freeBlock(oldStorage)
}

// findCell returns the smallest cell index whose size is >= n and whose
// free list is non-empty, or -1 if none exists.
func (a *Allocator) findCell(n int) int {
	for i, c := range a.ladder.cells {
		if c.size >= n && c.head != nil {
			return i
		}
	}
	return -1
}

// smallestCellAtLeast extends the ladder, if necessary, until some cell's
// size is >= n, then returns the smallest such cell's index.
func (a *Allocator) smallestCellAtLeast(n int) int {
	for a.ladder.cells[len(a.ladder.cells)-1].size < n {
		a.extendLadder()
	}
	for i, c := range a.ladder.cells {
		if c.size >= n {
			return i
		}
	}
	panic("fibmalloc: unreachable: ladder extended but no cell covers n")
}
