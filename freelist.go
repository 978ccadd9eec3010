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

// Free blocks store their list links in the first two machine words of
// their user area: word 0 is prev, word 1 is next. A nil link means "no
// neighbor" (as opposed to the cell's own head pointer, which nil means
// "list is empty").

func prevSlot(block unsafe.Pointer) *unsafe.Pointer {
	return raw.PointerWordAt(areaOf(block), 0)
}

func nextSlot(block unsafe.Pointer) *unsafe.Pointer {
	return raw.PointerWordAt(areaOf(block), 1)
}

func blockPrev(block unsafe.Pointer) unsafe.Pointer { return *prevSlot(block) }
func blockNext(block unsafe.Pointer) unsafe.Pointer { return *nextSlot(block) }

func setBlockPrev(block, v unsafe.Pointer) { *prevSlot(block) = v }
func setBlockNext(block, v unsafe.Pointer) { *nextSlot(block) = v }

// takeFirst detaches and returns the head of cell i's free list, or nil if
// the list is empty.
func (l *ladder) takeFirst(i int) unsafe.Pointer {
	c := &l.cells[i]
	b := c.head
	if b == nil {
		return nil
	}
	next := blockNext(b)
	c.head = next
	if next != nil {
		setBlockPrev(next, nil)
	}
	return b
}

// insert pushes b onto the head of cell i's free list. It does not touch
// b's in_use bit; callers decide that independently.
func (l *ladder) insert(i int, b unsafe.Pointer) {
	c := &l.cells[i]
	setBlockPrev(b, nil)
	setBlockNext(b, c.head)
	if c.head != nil {
		setBlockPrev(c.head, b)
	}
	c.head = b
}

// delete removes b from cell i's free list by pointer identity, scanning
// from the head. Acceptable because repeated coalescing keeps cell lists
// short in practice; if that stops holding, switch to an O(1) unlink using
// b's own prev/next (the node is already known by identity).
func (l *ladder) delete(i int, b unsafe.Pointer) {
	c := &l.cells[i]
	cur := c.head
	for cur != nil {
		if cur == b {
			prev := blockPrev(cur)
			next := blockNext(cur)
			if prev != nil {
				setBlockNext(prev, next)
			} else {
				c.head = next
			}
			if next != nil {
				setBlockPrev(next, prev)
			}
			return
		}
		cur = blockNext(cur)
	}
}
