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

package host

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeapAcquireReturnsEnough(t *testing.T) {
	h := NewHeap()
	for i := 127; i < 1<<20; i += 100003 {
		b := h.Acquire(i)
		require.GreaterOrEqual(t, len(b), i, "n=%d", i)
		h.Release(b)
	}
}

func TestHeapAcquireZeroed(t *testing.T) {
	h := NewHeap()
	b := h.Acquire(4096)
	for i := range b {
		b[i] = 0xAA
	}
	h.Release(b)

	b2 := h.Acquire(4096)
	for i, v := range b2 {
		require.Zero(t, v, "byte %d not zeroed on reuse", i)
	}
	h.Release(b2)
}

func TestHeapAcquireAboveLargestClassFallsBack(t *testing.T) {
	h := NewHeap()
	b := h.Acquire(maxClassSize + 1)
	require.GreaterOrEqual(t, len(b), maxClassSize+1)
	h.Release(b) // must not panic even though it's outside any pool class
}

func TestClassIndexMatchesClassSize(t *testing.T) {
	h := NewHeap()
	for i, pool := range h.classes {
		size := minClassSize << i
		idx := classIndex(size)
		require.Equal(t, i, idx, "size=%d", size)
		_ = pool
	}
}
