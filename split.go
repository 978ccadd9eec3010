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

// split carves the block at ladder index i down toward covering n blocks.
// At each step the left child (index i-4, at the block's start) and right
// child (index i-1, immediately after the left) are two Fibonacci terms
// summing to the parent's size; whichever child still covers n is kept
// and the other is enqueued free. It stops once neither child would still
// cover n, or the ladder has no split defined below index 4.
//
// The inheritance bits recorded here are exactly what the coalescer reads
// back to reconstruct the parent's lr/inh without any external index.
func (a *Allocator) split(i int, block unsafe.Pointer, n int) (int, unsafe.Pointer) {
	for i > 4 && a.ladder.cells[i-1].size >= n {
		szl := a.ladder.cells[i-4].size
		szr := a.ladder.cells[i-1].size

		h := headerAt(block)
		curLR, curInh := h.lr(), h.inh()

		leftBlock := block
		rightBlock := raw.From(block, szl*blockSize)

		headerAt(leftBlock).set(szl, false, left, curLR)
		headerAt(rightBlock).set(szr, false, right, curInh)

		if szl >= n {
			a.ladder.insert(i-1, rightBlock)
			a.record(EventSplit, i-1, szr)
			i, block = i-4, leftBlock
		} else {
			a.ladder.insert(i-4, leftBlock)
			a.record(EventSplit, i-4, szl)
			i, block = i-1, rightBlock
		}
	}
	return i, block
}
