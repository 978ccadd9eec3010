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

package trace

import (
	"strconv"

	"github.com/fibtree/fibmalloc"
	"github.com/fibtree/fibmalloc/bufiox"
)

// Ladder is the minimal view DumpLadder needs from an allocator; satisfied
// by *fibmalloc.Allocator via DebugCells.
type Ladder interface {
	DebugCells() []fibmalloc.CellInfo
}

// DumpLadder renders one line per cell as "index<TAB>size<TAB>free=N",
// writing through a bufiox.BytesWriter, stores the result in *out and
// returns it. The lines are appended after whatever *out already holds,
// so a second call with the same *[]byte yields both dumps, one after the
// other.
func DumpLadder(l Ladder, out *[]byte) []byte {
	w := bufiox.NewBytesWriter(out)
	for _, c := range l.DebugCells() {
		line := strconv.Itoa(c.Index) + "\t" + strconv.Itoa(c.Size) + "\tfree=" + strconv.Itoa(c.FreeLen) + "\n"
		_, _ = w.WriteBinary([]byte(line))
	}
	_ = w.Flush()
	return *out
}
