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

// Package trace provides optional debug instrumentation for fibmalloc:
// a fixed-capacity event recorder callers can wire into an allocator's
// hot path via Allocator.SetEventSink, and a ladder state dumper for
// post-mortem inspection.
package trace

import "github.com/fibtree/fibmalloc"

// Kind identifies what happened to a block. It is fibmalloc.EventKind
// itself, not a parallel copy of it: Recorder.Record's signature has to
// match fibmalloc.EventSink exactly for *Recorder to satisfy it, and
// duplicating the enum would just be two sources of truth for the same
// five event kinds.
type Kind = fibmalloc.EventKind

const (
	EventAlloc        = fibmalloc.EventAlloc
	EventFree         = fibmalloc.EventFree
	EventSplit        = fibmalloc.EventSplit
	EventCoalesce     = fibmalloc.EventCoalesce
	EventChunkAcquire = fibmalloc.EventChunkAcquire
)

// Event is one recorded occurrence. Seq is assigned by the Recorder and is
// monotonic for as long as the recorder doesn't wrap; once it wraps, Seq
// still increases but the lowest-numbered live events are gone.
type Event struct {
	Seq       uint64
	Kind      Kind
	CellIndex int
	Size      int
}

// Recorder is a fixed-size ring of the most recent events. It allocates
// once, at construction, and never again: recording an event never grows
// the backing array, only overwrites the oldest slot.
//
// *Recorder satisfies fibmalloc.EventSink, so it can be installed directly
// via Allocator.SetEventSink to capture real split/coalesce/chunk-acquire/
// alloc/free history instead of only the synthetic events in this
// package's own tests.
//
// It is not safe for concurrent use by multiple goroutines; callers
// sharing an allocator across goroutines should serialize through the
// same lock that protects the allocator itself (see package fibsync).
type Recorder struct {
	items []Event
	head  int // index the next Record call writes to
	count int // number of valid entries, caps at len(items)
	next  uint64
}

// NewRecorder returns a Recorder holding up to capacity events. capacity
// <= 0 is treated as 1.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 1
	}
	return &Recorder{items: make([]Event, capacity)}
}

// Record appends one event, overwriting the oldest if the recorder is
// full.
func (r *Recorder) Record(kind Kind, cellIndex, size int) {
	r.items[r.head] = Event{Seq: r.next, Kind: kind, CellIndex: cellIndex, Size: size}
	r.head = (r.head + 1) % len(r.items)
	r.next++
	if r.count < len(r.items) {
		r.count++
	}
}

// Len returns the number of events currently retained.
func (r *Recorder) Len() int {
	return r.count
}

// Do calls f once per retained event, oldest first.
func (r *Recorder) Do(f func(Event)) {
	start := (r.head - r.count + len(r.items)) % len(r.items)
	for i := 0; i < r.count; i++ {
		f(r.items[(start+i)%len(r.items)])
	}
}

// Last returns the most recently recorded event and true, or the zero
// Event and false if nothing has been recorded yet.
func (r *Recorder) Last() (Event, bool) {
	if r.count == 0 {
		return Event{}, false
	}
	idx := (r.head - 1 + len(r.items)) % len(r.items)
	return r.items[idx], true
}
