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

package fibmalloc

// CellInfo is a read-only snapshot of one ladder cell, for external
// introspection (see package trace). It copies out of the live ladder, so
// it stays valid across further Alloc/Free calls.
type CellInfo struct {
	Index   int
	Size    int
	FreeLen int
}

// DebugCells returns a snapshot of every ladder cell, in ascending size
// order. It walks each cell's free list, so it is O(total free blocks),
// not meant for the hot path.
func (a *Allocator) DebugCells() []CellInfo {
	out := make([]CellInfo, len(a.ladder.cells))
	for i, c := range a.ladder.cells {
		n := 0
		for b := c.head; b != nil; b = blockNext(b) {
			n++
		}
		out[i] = CellInfo{Index: i, Size: c.size, FreeLen: n}
	}
	return out
}
