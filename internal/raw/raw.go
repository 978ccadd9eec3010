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

// Package raw is the narrow unsafe boundary the allocator engine is built
// over. Every pointer-arithmetic operation the engine needs funnels through
// these few functions so the rest of the engine does no pointer arithmetic
// of its own.
package raw

import "unsafe"

// WordSize is the size in bytes of the machine word used for block headers
// and free-list links: the natural width of a pointer on this platform.
const WordSize = int(unsafe.Sizeof(uintptr(0)))

// From returns the address `offset` bytes past p. offset may be negative.
func From(p unsafe.Pointer, offset int) unsafe.Pointer {
	return unsafe.Add(p, offset)
}

// HeaderWordAt reinterprets the machine word at p as a header cell.
func HeaderWordAt(p unsafe.Pointer) *uintptr {
	return (*uintptr)(p)
}

// PointerWordAt reinterprets the i-th machine word (0-based) after p as a
// pointer-sized slot, used to store the free list's prev/next links inside
// a free block's own user area.
func PointerWordAt(p unsafe.Pointer, i int) *unsafe.Pointer {
	return (*unsafe.Pointer)(unsafe.Add(p, i*WordSize))
}

// BaseOf returns the address of the first byte of b as an unsafe.Pointer.
// Panics if b is empty: callers must never hand an empty region to the
// engine.
func BaseOf(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}

// Offset returns the signed byte distance from base to p.
func Offset(base, p unsafe.Pointer) int {
	return int(uintptr(p) - uintptr(base))
}
