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

package asm

import (
	"bufio"
	"io"
	"strconv"

	"github.com/dagfinndybvig/nodeBCPL/internal/ici"
	"github.com/dagfinndybvig/nodeBCPL/vm"
	"github.com/pkg/errors"
)

// Assembler assembles INTCODE text into a memory image.
type Assembler struct {
	m      vm.Image
	lomem  int
	cp     int // next byte in the last word for C directives, 0 for a new word
	labels *Labels
}

// New returns a new Assembler that stores code in m starting at address
// lomem. The top LabelCount words of m are reserved: code never grows there.
func New(m vm.Image, lomem int) *Assembler {
	return &Assembler{
		m:      m,
		lomem:  lomem,
		labels: NewLabels(m),
	}
}

// Lomem returns the address of the first word following the assembled code.
func (a *Assembler) Lomem() int {
	return a.lomem
}

// Labels returns the label table of the assembler.
func (a *Assembler) Labels() *Labels {
	return a.labels
}

// Assemble assembles the INTCODE read from r and appends it to the code
// already assembled. Labels are local to r: the label table is cleared
// before reading, and after every Z directive.
//
// Errors in the source are returned as a *vm.Error. The assembled code is
// left in an undefined state if an error occurs.
func (a *Assembler) Assemble(r io.Reader) (err error) {
	defer func() {
		if e := recover(); e != nil {
			if ae, ok := e.(error); ok {
				err = errors.Wrap(vm.NewError(vm.ErrBadCode, a.lomem), ae.Error())
				return
			}
			panic(e)
		}
	}()
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	p := parser{Assembler: a, r: br}
	return p.parse()
}

// stw appends a word.
func (a *Assembler) stw(w vm.Cell) error {
	if a.lomem >= a.m.Words()-LabelCount {
		return vm.NewError(vm.ErrBadCode, a.lomem)
	}
	a.m.SetWord(a.lomem, w)
	a.lomem++
	a.cp = 0
	return nil
}

// stc appends a byte. Bytes are packed in the last word written, starting
// a new word when needed.
func (a *Assembler) stc(c byte) error {
	if a.cp == 0 {
		if err := a.stw(0); err != nil {
			return err
		}
	}
	a.m.SetByte((a.lomem-1)*vm.BytesPerWord+a.cp, c)
	if a.cp++; a.cp == vm.BytesPerWord {
		a.cp = 0
	}
	return nil
}

// Disassemble writes a disassembly of the instruction at position pc in
// the given image to the specified io.Writer and returns the position of
// the next instruction and any write error.
//
// The output can be assembled back: an instruction whose operand is in the
// following word is written with its operand value, which assembles back to
// the same code unless the value fits in an immediate operand.
func Disassemble(m vm.Image, pc int, w io.Writer) (next int, err error) {
	ew := ici.NewWriter(w)
	iw := m.Word(pc)
	pc++
	b := make([]byte, 0, 16)
	b = append(b, vm.Mnemonics[iw&vm.FnMask])
	if iw&vm.FlagI != 0 {
		b = append(b, 'I')
	}
	if iw&vm.FlagP != 0 {
		b = append(b, 'P')
	}
	var d vm.Cell
	if iw&vm.FlagD != 0 {
		if pc >= m.Words() {
			b = append(b, "???"...)
			ew.Write(b)
			return pc, ew.Err
		}
		d = m.Word(pc)
		pc++
	} else {
		d = vm.Cell(uint16(iw) >> vm.ImmShift)
	}
	b = strconv.AppendInt(b, int64(d), 10)
	if iw&vm.FnMask == vm.OpX && iw&(vm.FlagI|vm.FlagP) == 0 {
		if n := vm.XName(d); n != "" {
			b = append(b, " / "...)
			b = append(b, n...)
		}
	}
	ew.Write(b)
	return pc, ew.Err
}

// DisassembleAll writes a disassembly of the words in the range [from, to)
// of the given image to the specified io.Writer. It will return any write
// error.
func DisassembleAll(m vm.Image, from, to int, w io.Writer) error {
	ew := ici.NewWriter(w)
	for pc := from; pc < to; {
		ew.Int(int64(pc), 10)
		ew.WriteByte('\t')
		pc, _ = Disassemble(m, pc, ew)
		if ew.WriteByte('\n') != nil {
			return ew.Err
		}
	}
	return nil
}
