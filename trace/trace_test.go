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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibtree/fibmalloc"
	"github.com/fibtree/fibmalloc/host"
)

func TestRecorderWrapsAtCapacity(t *testing.T) {
	r := NewRecorder(4)
	for i := 0; i < 10; i++ {
		r.Record(EventAlloc, i, i*8)
	}
	require.Equal(t, 4, r.Len())

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, EventAlloc, last.Kind)
	assert.Equal(t, 9, last.CellIndex)

	var seqs []uint64
	r.Do(func(e Event) { seqs = append(seqs, e.Seq) })
	require.Equal(t, []uint64{6, 7, 8, 9}, seqs)
}

func TestRecorderEmpty(t *testing.T) {
	r := NewRecorder(8)
	_, ok := r.Last()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "alloc", EventAlloc.String())
	assert.Equal(t, "coalesce", EventCoalesce.String())
}

func TestDumpLadderProducesOneLinePerCell(t *testing.T) {
	a := fibmalloc.New(host.NewHeap())
	defer a.Close()

	a.Alloc(100)

	var out []byte
	out = DumpLadder(a, &out)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Equal(t, len(a.DebugCells()), len(lines))
}
