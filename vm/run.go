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

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Run starts execution of the VM at ProgStart, with the frame base at
// Lomem, and runs until the program finishes, calls STOP, or an error
// occurs.
//
// The result is 0 when the program finishes, or the argument of STOP.
//
// Fatal conditions raised by the program are returned as an *Error (possibly
// wrapped, use errors.Cause). If an error occurs, the PC will point to the
// instruction that triggered the error.
func (i *Instance) Run() (result Cell, err error) {
	m := i.Image
	var pc int
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case addrError:
				i.PC = pc
				err = errors.Wrapf(NewError(ErrIntcode, pc), "%v", e)
			default:
				panic(e)
			}
		}
		if ferr := i.Flush(); err == nil {
			err = ferr
		}
		i.log.Debug("run finished", zap.Int16("result", int16(result)), zap.Int64("instructions", i.insCount), zap.Error(err))
	}()

	i.PC = ProgStart
	i.SP = Cell(i.Lomem)
	i.A, i.B = 0, 0
	i.insCount = 0
	i.stopped = false
	trace := i.log.Core().Enabled(zapcore.DebugLevel)
	i.log.Debug("run", zap.Int("lomem", i.Lomem), zap.Int("words", m.Words()))

	for {
		pc = i.PC
		in := Decode(m, pc, i.SP)
		if trace {
			i.trace(pc, in)
		}
		i.PC = in.Next
		d := in.D
		switch in.Op {
		case OpL:
			i.B, i.A = i.A, d
		case OpS:
			m.SetWord(Addr(d), i.A)
		case OpA:
			i.A += d
		case OpJ:
			i.PC = Addr(d)
		case OpT:
			if i.A != 0 {
				i.PC = Addr(d)
			}
		case OpF:
			if i.A == 0 {
				i.PC = Addr(d)
			}
		case OpK:
			d += i.SP
			if i.A < ProgStart {
				if err = i.syscall(i.A, Addr(d)+2); err != nil {
					i.PC = pc
					return 0, err
				}
				if i.stopped {
					i.insCount++
					return i.result, nil
				}
			} else {
				f := Addr(d)
				m.SetWord(f, i.SP)
				m.SetWord(f+1, Cell(i.PC))
				i.SP, i.PC = d, Addr(i.A)
			}
		case OpX:
			if err = i.exec(d); err != nil {
				i.PC = pc
				return 0, err
			}
			if i.stopped {
				i.insCount++
				return i.result, nil
			}
		}
		i.insCount++
	}
}

func truth(b bool) Cell {
	if b {
		return -1
	}
	return 0
}

// exec executes extended operation x.
func (i *Instance) exec(x Cell) error {
	m := i.Image
	a, b := i.A, i.B
	switch x {
	case XRv:
		a = m.Word(Addr(a))
	case XNeg:
		a = -a
	case XNot:
		a = ^a
	case XRtrn:
		i.PC = Addr(m.Word(Addr(i.SP + 1)))
		i.SP = m.Word(Addr(i.SP))
	case XMult:
		a = b * a
	case XDiv:
		if a != 0 {
			a = b / a
		}
	case XRem:
		if a != 0 {
			a = b % a
		}
	case XPlus:
		a = b + a
	case XMinus:
		a = b - a
	case XEq:
		a = truth(b == a)
	case XNe:
		a = truth(b != a)
	case XLs:
		a = truth(b < a)
	case XGe:
		a = truth(b >= a)
	case XGr:
		a = truth(b > a)
	case XLe:
		a = truth(b <= a)
	case XLsh:
		a = b << uint16(a)
	case XRsh:
		a = Cell(uint16(b) >> uint16(a))
	case XAnd:
		a = b & a
	case XOr:
		a = b | a
	case XXor:
		a = b ^ a
	case XEqv:
		a = b ^ ^a
	case XFinish:
		i.Stop(0)
	case XSwitch:
		s := ReadSwitch(m, i.PC)
		addr, k := s.Lookup(a)
		// B ends up as the remaining case count, as if the table had been
		// scanned with a post-decremented counter.
		if k < 0 {
			i.B = -1
		} else {
			i.B = Cell(len(s.Cases) - k - 1)
		}
		i.PC = Addr(addr)
		return nil
	default:
		return NewError(ErrUnknownExec, int(x))
	}
	i.A = a
	return nil
}

func (i *Instance) trace(pc int, in Instr) {
	var op [3]byte
	n := 0
	op[n] = Mnemonics[in.Op]
	n++
	if in.Word&FlagI != 0 {
		op[n] = 'I'
		n++
	}
	if in.Word&FlagP != 0 {
		op[n] = 'P'
		n++
	}
	fields := []zap.Field{
		zap.Int("pc", pc),
		zap.ByteString("op", op[:n]),
		zap.Int16("d", int16(in.D)),
		zap.Int16("a", int16(i.A)),
		zap.Int16("b", int16(i.B)),
		zap.Int16("sp", int16(i.SP)),
	}
	switch {
	case in.Op == OpK && i.A < ProgStart:
		fields = append(fields, zap.String("call", KName(i.A)))
	case in.Op == OpX:
		fields = append(fields, zap.String("exec", XName(in.D)))
	}
	i.log.Debug("step", fields...)
}
