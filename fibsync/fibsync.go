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

// Package fibsync wraps fibmalloc.Allocator, which assumes single-threaded
// use, with the locking a concurrent caller needs. The allocator itself
// stays free of any synchronization so single-threaded callers pay nothing
// for it.
package fibsync

import (
	"sync"

	"github.com/fibtree/fibmalloc"
	"github.com/fibtree/fibmalloc/concurrency/gopool"
)

// Allocator serializes every Alloc/Free/Close against a single mutex. It
// is a thin facade: all allocator semantics, including panics on
// corruption or host failure, pass through unchanged.
type Allocator struct {
	mu    sync.Mutex
	inner *fibmalloc.Allocator
}

// New wraps alloc for concurrent use. alloc must not be used directly (or
// by any other wrapper) afterward.
func New(alloc *fibmalloc.Allocator) *Allocator {
	return &Allocator{inner: alloc}
}

func (a *Allocator) Alloc(n int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.Alloc(n)
}

func (a *Allocator) Free(b []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inner.Free(b)
}

func (a *Allocator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.Close()
}

// SetEventSink installs sink on the wrapped allocator; see
// fibmalloc.Allocator.SetEventSink.
func (a *Allocator) SetEventSink(sink fibmalloc.EventSink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inner.SetEventSink(sink)
}

// FreeAsync hands b to a background worker and returns immediately,
// useful for callers on a latency-sensitive path who don't want to wait
// on lock contention from other goroutines' Frees. Order between
// concurrent FreeAsync calls is not guaranteed, only that each one
// eventually runs.
func (a *Allocator) FreeAsync(b []byte) {
	gopool.Go(func() { a.Free(b) })
}
