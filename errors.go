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

import "fmt"

// CorruptionError indicates an internal allocator invariant was violated.
// Free raises it when the block's header size matches no ladder cell, as
// with a corrupted header or a slice this allocator never produced. A
// double free of an intact block is not detected. It is always
// fatal in the sense the specification describes: by the time it's
// detected, the allocator may already have mutated state that assumed
// the invariant held.
type CorruptionError struct {
	Reason string
	Size   int
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("fibmalloc: corruption detected: %s (size=%d)", e.Reason, e.Size)
}

// HostError indicates the Host failed to honor an Acquire request. There
// is no retry path: the caller already committed to using the chunk.
type HostError struct {
	Requested int
	Got       int
}

func (e *HostError) Error() string {
	return fmt.Sprintf("fibmalloc: host acquire failed: requested %d bytes, got %d", e.Requested, e.Got)
}
