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

	"github.com/dagfinndybvig/nodeBCPL/vm"
	"github.com/pkg/errors"
)

const eof = -1

func isDigit(ch int) bool {
	return ch >= '0' && ch <= '9'
}

// function returns the function code for mnemonic ch, or -1.
func function(ch int) vm.Cell {
	for k, c := range vm.Mnemonics {
		if int(c) == ch {
			return vm.Cell(k)
		}
	}
	return -1
}

type parser struct {
	*Assembler
	r   *bufio.Reader
	ch  int
	err error
}

// next reads the next character. Carriage returns read as line feeds.
func (p *parser) next() {
	c, err := p.r.ReadByte()
	if err != nil {
		if err != io.EOF {
			p.err = errors.Wrap(err, "read failed")
		}
		p.ch = eof
		return
	}
	if c == '\r' {
		c = '\n'
	}
	p.ch = int(c)
}

// rch reads the next significant character, skipping comments: a slash
// starts a comment that runs up to the end of the line.
func (p *parser) rch() {
	for p.next(); p.ch == '/'; {
		for p.next(); p.ch != '\n' && p.ch != eof; p.next() {
		}
		for p.ch == '\n' {
			p.next()
		}
	}
}

// rdn reads a decimal number with an optional minus sign.
func (p *parser) rdn() vm.Cell {
	var sum vm.Cell
	neg := p.ch == '-'
	if neg {
		p.rch()
	}
	for isDigit(p.ch) {
		sum = sum*10 + vm.Cell(p.ch-'0')
		p.rch()
	}
	if neg {
		return -sum
	}
	return sum
}

// parse assembles the whole stream. It runs with a fresh label table.
func (p *parser) parse() error {
	p.labels.Reset()
	p.cp = 0
	p.rch()
	for {
		if p.err != nil {
			return p.err
		}
		if isDigit(p.ch) {
			if err := p.labels.Define(int(p.rdn()), p.lomem); err != nil {
				return err
			}
			p.cp = 0
			continue
		}
		switch p.ch {
		case eof:
			return p.err
		case '$', ' ', '\n':
			p.rch()
			continue
		case 'C':
			p.rch()
			if err := p.stc(byte(p.rdn())); err != nil {
				return err
			}
			continue
		case 'D':
			p.rch()
			var err error
			if p.ch == 'L' {
				p.rch()
				if err = p.stw(0); err == nil {
					err = p.labels.Reference(int(p.rdn()), p.lomem-1)
				}
			} else {
				err = p.stw(p.rdn())
			}
			if err != nil {
				return err
			}
			continue
		case 'G':
			p.rch()
			n := vm.Addr(p.rdn())
			if p.ch != 'L' {
				return vm.NewError(vm.ErrBadCode, p.lomem)
			}
			p.rch()
			if n >= p.m.Words() {
				return vm.NewError(vm.ErrBadCode, p.lomem)
			}
			p.m.SetWord(n, 0)
			if err := p.labels.Reference(int(p.rdn()), n); err != nil {
				return err
			}
			continue
		case 'Z':
			if err := p.labels.CheckResolved(); err != nil {
				return err
			}
			p.labels.Reset()
			p.cp = 0
			p.rch()
			continue
		}
		fn := function(p.ch)
		if fn < 0 {
			return vm.NewError(vm.ErrBadCh, p.ch)
		}
		if err := p.instruction(fn); err != nil {
			return err
		}
	}
}

// instruction assembles an instruction with function code fn.
func (p *parser) instruction(fn vm.Cell) error {
	p.rch()
	if p.ch == 'I' {
		fn |= vm.FlagI
		p.rch()
	}
	if p.ch == 'P' {
		fn |= vm.FlagP
		p.rch()
	}
	if p.ch == 'G' {
		p.rch()
	}
	if p.ch == 'L' {
		p.rch()
		if err := p.stw(fn | vm.FlagD); err != nil {
			return err
		}
		if err := p.stw(0); err != nil {
			return err
		}
		return p.labels.Reference(int(p.rdn()), p.lomem-1)
	}
	d := p.rdn()
	if d&vm.ImmMask == d {
		return p.stw(fn | d<<vm.ImmShift)
	}
	if err := p.stw(fn | vm.FlagD); err != nil {
		return err
	}
	return p.stw(d)
}
