// This file is part of nodeBCPL - https://github.com/dagfinndybvig/nodeBCPL
//
// Copyright 2024 The nodeBCPL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import "encoding/binary"

// Cell is the raw type stored in a memory word.
type Cell int16

// Memory sizing.
const (
	// DefaultWords is the default memory size in words.
	DefaultWords = 19900
	// ProgStart is the address of the first word of the code segment. Words
	// below ProgStart form the global vector. Calls to addresses below
	// ProgStart are system calls.
	ProgStart = 401
	// BytesPerWord is the number of bytes in a Cell.
	BytesPerWord = 2
)

// Image is the VM memory: a single buffer of bytes that can be addressed
// either as 16 bits words or as bytes. Word i occupies bytes 2i (low byte)
// and 2i+1 (high byte), regardless of the host byte order.
type Image []byte

// NewImage returns a zeroed Image of the given size in words.
func NewImage(words int) Image {
	return make(Image, words*BytesPerWord)
}

// Addr converts a Cell to a memory address. Address arithmetic on the
// emulated machine is unsigned 16 bits.
func Addr(c Cell) int {
	return int(uint16(c))
}

// Words returns the size of the image in words.
func (m Image) Words() int {
	return len(m) / BytesPerWord
}

func (m Image) check(b, n int) {
	if b < 0 || b+n > len(m) {
		panic(addrError(b / BytesPerWord))
	}
}

// Word returns the word at address addr.
func (m Image) Word(addr int) Cell {
	b := addr * BytesPerWord
	m.check(b, BytesPerWord)
	return Cell(binary.LittleEndian.Uint16(m[b:]))
}

// SetWord sets the word at address addr.
func (m Image) SetWord(addr int, v Cell) {
	b := addr * BytesPerWord
	m.check(b, BytesPerWord)
	binary.LittleEndian.PutUint16(m[b:], uint16(v))
}

// Byte returns the byte at byte address b.
func (m Image) Byte(b int) byte {
	m.check(b, 1)
	return m[b]
}

// SetByte sets the byte at byte address b.
func (m Image) SetByte(b int, v byte) {
	m.check(b, 1)
	m[b] = v
}

// String returns the packed string starting at word address addr. Packed
// strings store their length in the first byte, followed by the characters.
func (m Image) String(addr int) []byte {
	b := addr * BytesPerWord
	n := int(m.Byte(b))
	m.check(b+1, n)
	s := make([]byte, n)
	copy(s, m[b+1:])
	return s
}

// SetString stores s as a packed string at word address addr. The string
// is truncated to 255 bytes and the unused bytes of its last word are zeroed.
func (m Image) SetString(addr int, s []byte) {
	if len(s) > 255 {
		s = s[:255]
	}
	b := addr * BytesPerWord
	last := addr + len(s)/BytesPerWord
	m.SetWord(last, 0)
	m.SetByte(b, byte(len(s)))
	for k, c := range s {
		m.SetByte(b+1+k, c)
	}
}
