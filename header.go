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

// side identifies which child of a split a block is (the `lr` header bit),
// and doubles as the value stored in the `inh` bit (see header comment).
type side uint8

const (
	left  side = 0
	right side = 1
)

func (s side) String() string {
	if s == right {
		return "right"
	}
	return "left"
}

// Header bit layout, in the first machine word of every block:
//
//	bits [3..W)  size, in blocks
//	bit  2       inUse
//	bit  1       lr   (0=left, 1=right)
//	bit  0       inh  (inheritance bit, see design notes)
const (
	bitInh    = uintptr(1) << 0
	bitLR     = uintptr(1) << 1
	bitInUse  = uintptr(1) << 2
	sizeShift = 3
)

// header is a handle onto the first machine word of a block. It never
// allocates and never touches anything but that one word.
type header struct {
	word *uintptr
}

// headerAt returns the header handle for the block starting at p.
func headerAt(p unsafe.Pointer) header {
	return header{word: raw.HeaderWordAt(p)}
}

func (h header) size() int {
	return int(*h.word >> sizeShift)
}

func (h header) inUse() bool {
	return *h.word&bitInUse != 0
}

func (h header) lr() side {
	if *h.word&bitLR != 0 {
		return right
	}
	return left
}

func (h header) inh() side {
	if *h.word&bitInh != 0 {
		return right
	}
	return left
}

// set writes every field of the header in one shot. This is the only
// mutator the rest of the engine uses; splitting and coalescing always
// know the full new state of a header at the point they write it.
func (h header) set(size int, inUse bool, lr, inh side) {
	w := uintptr(size) << sizeShift
	if inUse {
		w |= bitInUse
	}
	if lr == right {
		w |= bitLR
	}
	if inh == right {
		w |= bitInh
	}
	*h.word = w
}

func (h header) setInUse(v bool) {
	if v {
		*h.word |= bitInUse
	} else {
		*h.word &^= bitInUse
	}
}

// areaOf returns the user area of the block at p: the bytes immediately
// following the header word.
func areaOf(p unsafe.Pointer) unsafe.Pointer {
	return raw.From(p, raw.WordSize)
}

// blockOf is the inverse of areaOf: given a user area pointer, returns the
// block's header address.
func blockOf(area unsafe.Pointer) unsafe.Pointer {
	return raw.From(area, -raw.WordSize)
}
