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

// coalesce starts from the block most recently inserted at cell i (its
// free list's head) and walks the buddy chain upward, merging for as long
// as the buddy is free and whole. It stops no later than a chunk's fake
// right sentinel, which is permanently in_use.
func (a *Allocator) coalesce(i int) {
	b := a.ladder.cells[i].head
	for {
		h := headerAt(b)

		var j int
		var buddy unsafe.Pointer
		if h.lr() == left {
			j = i + 3
			buddy = raw.From(b, h.size()*blockSize)
		} else {
			j = i - 3
			buddy = raw.From(b, -a.ladder.cells[j].size*blockSize)
		}

		if j < 0 || j >= len(a.ladder.cells) {
			return
		}
		bh := headerAt(buddy)
		if bh.inUse() || bh.size() != a.ladder.cells[j].size {
			return
		}

		a.ladder.delete(i, b)
		a.ladder.delete(j, buddy)

		var leftB, rightB unsafe.Pointer
		var newIdx int
		if h.lr() == left {
			leftB, rightB = b, buddy
			newIdx = i + 4
		} else {
			leftB, rightB = buddy, b
			newIdx = i + 1
		}

		leftInh := headerAt(leftB).inh()
		rightInh := headerAt(rightB).inh()
		mergedSize := a.ladder.cells[newIdx].size
		headerAt(leftB).set(mergedSize, false, leftInh, rightInh)

		a.ladder.insert(newIdx, leftB)
		a.record(EventCoalesce, newIdx, mergedSize)

		b, i = leftB, newIdx
	}
}
