/*
 * Copyright 2026 CloudWeGo Authors
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

// EventKind identifies what happened to a block, for EventSink consumers.
type EventKind uint8

const (
	EventAlloc EventKind = iota
	EventFree
	EventSplit
	EventCoalesce
	EventChunkAcquire
)

func (k EventKind) String() string {
	switch k {
	case EventAlloc:
		return "alloc"
	case EventFree:
		return "free"
	case EventSplit:
		return "split"
	case EventCoalesce:
		return "coalesce"
	case EventChunkAcquire:
		return "chunk_acquire"
	default:
		return "unknown"
	}
}

// EventSink receives a notification for every real split, coalesce, chunk
// acquisition, and top-level Alloc/Free the allocator performs. cellIndex
// is the ladder index the event concerns (-1 when there isn't one, e.g.
// a chunk acquisition that hasn't been split yet); size is the block size
// in blocks.
//
// An Allocator with no sink installed pays nothing beyond a nil check at
// each call site; see package trace for a ring-buffer implementation.
type EventSink interface {
	Record(kind EventKind, cellIndex, size int)
}

// SetEventSink installs sink as the allocator's event sink. Pass nil to
// disable recording.
func (a *Allocator) SetEventSink(sink EventSink) {
	a.sink = sink
}

func (a *Allocator) record(kind EventKind, cellIndex, size int) {
	if a.sink != nil {
		a.sink.Record(kind, cellIndex, size)
	}
}
