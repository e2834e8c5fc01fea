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

import "strconv"

const digits = "0123456789ABCDEF"

// Writes writes the packed string at word address s to the current output.
func (i *Instance) Writes(s int) error {
	for _, c := range i.Image.String(s) {
		if err := i.Wrch(c); err != nil {
			return err
		}
	}
	return nil
}

// Writed writes n in decimal, right justified in a field of width d.
func (i *Instance) Writed(n Cell, d int) error {
	s := strconv.Itoa(int(n))
	for k := len(s); k < d; k++ {
		if err := i.Wrch(' '); err != nil {
			return err
		}
	}
	for k := 0; k < len(s); k++ {
		if err := i.Wrch(s[k]); err != nil {
			return err
		}
	}
	return nil
}

// Writen writes n in decimal.
func (i *Instance) Writen(n Cell) error {
	return i.Writed(n, 0)
}

// writeDigits writes the d low order digits of n in base 1<<shift, high
// order digit first. At least one digit is always written.
func (i *Instance) writeDigits(n uint16, d int, shift uint) error {
	if d > 1 {
		if err := i.writeDigits(n>>shift, d-1, shift); err != nil {
			return err
		}
	}
	return i.Wrch(digits[n&(1<<shift-1)])
}

// WriteOct writes the d low order octal digits of n.
func (i *Instance) WriteOct(n Cell, d int) error {
	return i.writeDigits(uint16(n), d, 3)
}

// WriteHex writes the d low order hexadecimal digits of n.
func (i *Instance) WriteHex(n Cell, d int) error {
	return i.writeDigits(uint16(n), d, 4)
}

// digitValue returns the value of a field width character: 0-9, then A-Z
// for 10 and up. Other characters have value 0.
func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 0
}

// Writef writes formatted output. The word at address args holds the
// address of the packed format string; the following words are the
// arguments consumed by the format directives:
//
//	%s	packed string
//	%c	character
//	%oW	octal on W digits
//	%xW	hexadecimal on W digits
//	%iW	decimal right justified in a field of width W
//	%n	decimal
//
// Any other character following a % is written as is.
func (i *Instance) Writef(args int) error {
	m := i.Image
	f := m.String(Addr(m.Word(args)))
	v := args + 1
	next := func() Cell {
		c := m.Word(v)
		v++
		return c
	}
	var err error
	for k := 0; k < len(f) && err == nil; k++ {
		c := f[k]
		if c != '%' {
			err = i.Wrch(c)
			continue
		}
		if k++; k >= len(f) {
			break
		}
		width := func() int {
			if k+1 < len(f) {
				k++
				return digitValue(f[k])
			}
			return 0
		}
		switch c = f[k]; c {
		case 's':
			err = i.Writes(Addr(next()))
		case 'c':
			err = i.Wrch(byte(next()))
		case 'o':
			err = i.WriteOct(next(), width())
		case 'x':
			err = i.WriteHex(next(), width())
		case 'i':
			err = i.Writed(next(), width())
		case 'n':
			err = i.Writen(next())
		default:
			err = i.Wrch(c)
		}
	}
	return err
}

// Readn reads a decimal number from the current input. Leading spaces, tabs
// and newlines are skipped and an optional sign is accepted. The character
// that ends the number is stored in the global KTerminator.
func (i *Instance) Readn() Cell {
	c := i.Rdch()
	for c == ' ' || c == '\t' || c == '\n' {
		c = i.Rdch()
	}
	neg := c == '-'
	if neg || c == '+' {
		c = i.Rdch()
	}
	var sum Cell
	for c >= '0' && c <= '9' {
		sum = sum*10 + c - '0'
		c = i.Rdch()
	}
	i.Image.SetWord(int(KTerminator), c)
	if neg {
		return -sum
	}
	return sum
}

// PackString packs the unpacked string at word address v (one character per
// word, the length in the first word) into a packed string at word address
// s. It returns the offset of the last word of the packed string.
func (i *Instance) PackString(v, s int) Cell {
	m := i.Image
	l := int(byte(m.Word(v)))
	n := l / BytesPerWord
	m.SetWord(s+n, 0)
	for k := 0; k <= l; k++ {
		m.SetByte(s*BytesPerWord+k, byte(m.Word(v+k)))
	}
	return Cell(n)
}

// UnpackString unpacks the packed string at word address s into one
// character per word at word address v, the length going in the first word.
func (i *Instance) UnpackString(s, v int) {
	m := i.Image
	l := int(m.Byte(s * BytesPerWord))
	for k := 0; k <= l; k++ {
		m.SetWord(v+k, Cell(m.Byte(s*BytesPerWord+k)))
	}
}
