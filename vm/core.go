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

func nop(*Instance, int) error { return nil }

// arg returns the k-th argument of a system call.
func (i *Instance) arg(args, k int) Cell {
	return i.Image.Word(args + k)
}

// coreCalls maps system call codes to their built-in handlers. Codes below
// ProgStart that are not listed here are unknown calls.
var coreCalls = map[Cell]CallHandler{
	KStart:     nop,
	KAbort:     nop,
	KBacktrace: nop,
	KSelectInput: func(i *Instance, args int) error {
		i.SelectInput(i.arg(args, 0))
		return nil
	},
	KSelectOutput: func(i *Instance, args int) error {
		i.SelectOutput(i.arg(args, 0))
		return nil
	},
	KRdch: func(i *Instance, _ int) error {
		i.A = i.Rdch()
		return nil
	},
	KWrch: func(i *Instance, args int) error {
		return i.Wrch(byte(i.arg(args, 0)))
	},
	KInput: func(i *Instance, _ int) error {
		i.A = i.cis
		return nil
	},
	KOutput: func(i *Instance, _ int) error {
		i.A = i.cos
		return nil
	},
	KStop: func(i *Instance, args int) error {
		i.Stop(i.arg(args, 0))
		return nil
	},
	KLevel: func(i *Instance, _ int) error {
		i.A = i.SP
		return nil
	},
	KLongJump: func(i *Instance, args int) error {
		i.SP, i.PC = i.arg(args, 0), Addr(i.arg(args, 1))
		return nil
	},
	KAptovec: aptovec,
	KFindOutput: func(i *Instance, args int) error {
		i.A = i.FindOutput(string(i.Image.String(Addr(i.arg(args, 0)))))
		return nil
	},
	KFindInput: func(i *Instance, args int) error {
		i.A = i.FindInput(string(i.Image.String(Addr(i.arg(args, 0)))))
		return nil
	},
	KEndRead:  func(i *Instance, _ int) error { return i.EndRead() },
	KEndWrite: func(i *Instance, _ int) error { return i.EndWrite() },
	KWrites: func(i *Instance, args int) error {
		return i.Writes(Addr(i.arg(args, 0)))
	},
	KWriten: func(i *Instance, args int) error {
		return i.Writen(i.arg(args, 0))
	},
	KNewline: func(i *Instance, _ int) error { return i.Newline() },
	KNewpage: func(i *Instance, _ int) error { return i.Wrch('\f') },
	KPackString: func(i *Instance, args int) error {
		i.A = i.PackString(Addr(i.arg(args, 0)), Addr(i.arg(args, 1)))
		return nil
	},
	KUnpackString: func(i *Instance, args int) error {
		i.UnpackString(Addr(i.arg(args, 0)), Addr(i.arg(args, 1)))
		return nil
	},
	KWrited: func(i *Instance, args int) error {
		return i.Writed(i.arg(args, 0), int(i.arg(args, 1)))
	},
	KReadn: func(i *Instance, _ int) error {
		i.A = i.Readn()
		return nil
	},
	KWriteHex: func(i *Instance, args int) error {
		return i.WriteHex(i.arg(args, 0), int(i.arg(args, 1)))
	},
	KWritef: func(i *Instance, args int) error { return i.Writef(args) },
	KWriteOct: func(i *Instance, args int) error {
		return i.WriteOct(i.arg(args, 0), int(i.arg(args, 1)))
	},
	KGetByte: func(i *Instance, args int) error {
		i.A = Cell(i.Image.Byte(Addr(i.arg(args, 0))*BytesPerWord + int(i.arg(args, 1))))
		return nil
	},
	KPutByte: func(i *Instance, args int) error {
		i.Image.SetByte(Addr(i.arg(args, 0))*BytesPerWord+int(i.arg(args, 1)), byte(i.arg(args, 2)))
		return nil
	},
}

// aptovec calls the routine f = arg 0 with a fresh vector of upper bound
// n = arg 1 allocated on the stack right above the caller's frame. The
// routine gets its own frame just past the vector, with the vector address
// and n as arguments.
func aptovec(i *Instance, args int) error {
	d := Cell(args - 2)
	n := i.arg(args, 1)
	b := d + n + 1
	m, f := i.Image, Addr(b)
	m.SetWord(f, i.SP)
	m.SetWord(f+1, Cell(i.PC))
	m.SetWord(f+2, d)
	m.SetWord(f+3, n)
	i.SP, i.PC = b, Addr(i.arg(args, 0))
	return nil
}

// syscall dispatches system call code a with arguments at address args.
func (i *Instance) syscall(a Cell, args int) error {
	h := i.calls[a]
	if h == nil {
		h = coreCalls[a]
	}
	if h == nil {
		return NewError(ErrUnknownCall, int(a))
	}
	return h(i, args)
}
