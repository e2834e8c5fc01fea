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

// Instr is a decoded instruction.
type Instr struct {
	Op   Cell // function code
	Word Cell // raw instruction word
	D    Cell // effective operand
	Next int  // address of the next instruction
}

// Decode decodes the instruction at address pc with frame base sp.
//
// The operand is the following word if FlagD is set, or the immediate
// operand. Then the frame base is added if FlagP is set, and only then is the
// operand dereferenced if FlagI is set: an indirect frame relative operand
// reads a pointer stored in the current frame.
func Decode(m Image, pc int, sp Cell) Instr {
	w := m.Word(pc)
	pc++
	var d Cell
	if w&FlagD != 0 {
		d = m.Word(pc)
		pc++
	} else {
		d = Cell(uint16(w) >> ImmShift)
	}
	if w&FlagP != 0 {
		d += sp
	}
	if w&FlagI != 0 {
		d = m.Word(Addr(d))
	}
	return Instr{Op: w & FnMask, Word: w, D: d, Next: pc}
}

// Case is an entry of a Switch table.
type Case struct {
	Value Cell
	Addr  Cell
}

// Switch is the inline jump table following a SWITCHON instruction:
//
//	count default value1 addr1 value2 addr2 ...
type Switch struct {
	Default Cell
	Cases   []Case
}

// ReadSwitch parses the jump table stored at address at.
func ReadSwitch(m Image, at int) Switch {
	n := int(m.Word(at))
	s := Switch{Default: m.Word(at + 1)}
	if n > 0 {
		s.Cases = make([]Case, n)
		for k := range s.Cases {
			p := at + 2 + 2*k
			s.Cases[k] = Case{m.Word(p), m.Word(p + 1)}
		}
	}
	return s
}

// Lookup returns the jump address for value v and the index of the matching
// case, or the default address and -1 if no case matches.
func (s Switch) Lookup(v Cell) (addr Cell, idx int) {
	for k, c := range s.Cases {
		if c.Value == v {
			return c.Addr, k
		}
	}
	return s.Default, -1
}
