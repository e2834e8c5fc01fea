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

// Function codes. They occupy the low 3 bits of an instruction word.
const (
	OpL Cell = iota // load
	OpS             // store
	OpA             // add
	OpJ             // jump
	OpT             // jump if true
	OpF             // jump if false
	OpK             // call
	OpX             // execute extended operation
)

// Instruction word layout.
const (
	FnMask   = 7      // function code
	FlagI    = 1 << 3 // indirect
	FlagP    = 1 << 4 // add the frame base
	FlagD    = 1 << 5 // operand in the following word
	ImmShift = 8      // immediate operand position
	ImmMask  = 0xFF   // largest immediate operand
)

// Extended operations, selected by the operand of an X instruction.
const (
	XRv     Cell = iota + 1 // a = m[a]
	XNeg                    // a = -a
	XNot                    // a = ^a
	XRtrn                   // return from the current frame
	XMult                   // a = b * a
	XDiv                    // a = b / a
	XRem                    // a = b % a
	XPlus                   // a = b + a
	XMinus                  // a = b - a
	XEq                     // a = b == a
	XNe                     // a = b != a
	XLs                     // a = b < a
	XGe                     // a = b >= a
	XGr                     // a = b > a
	XLe                     // a = b <= a
	XLsh                    // a = b << a
	XRsh                    // a = b >> a (unsigned)
	XAnd                    // a = b & a
	XOr                     // a = b | a
	XXor                    // a = b ^ a
	XEqv                    // a = b ^ ^a
	XFinish                 // stop the run with result 0
	XSwitch                 // dispatch on a through the inline table at pc
)

// System calls (K codes), numbered after the BCPL library header.
const (
	KStart        Cell = 1
	KSetPM        Cell = 2
	KAbort        Cell = 3
	KBacktrace    Cell = 4
	KSelectInput  Cell = 11
	KSelectOutput Cell = 12
	KRdch         Cell = 13
	KWrch         Cell = 14
	KUnrdch       Cell = 15
	KInput        Cell = 16
	KOutput       Cell = 17
	KStop         Cell = 30
	KLevel        Cell = 31
	KLongJump     Cell = 32
	KBinWrch      Cell = 34
	KRewind       Cell = 35
	KAptovec      Cell = 40
	KFindOutput   Cell = 41
	KFindInput    Cell = 42
	KEndRead      Cell = 46
	KEndWrite     Cell = 47
	KWrites       Cell = 60
	KWriten       Cell = 62
	KNewline      Cell = 63
	KNewpage      Cell = 64
	KWriteo       Cell = 65
	KPackString   Cell = 66
	KUnpackString Cell = 67
	KWrited       Cell = 68
	KWriteArg     Cell = 69
	KReadn        Cell = 70
	KTerminator   Cell = 71 // global cell receiving the character that ended READN
	KWritex       Cell = 74
	KWriteHex     Cell = 75
	KWritef       Cell = 76
	KWriteOct     Cell = 77
	KMapStore     Cell = 78
	KGetByte      Cell = 85
	KPutByte      Cell = 86
	KGetVec       Cell = 87
	KFreeVec      Cell = 88
	KRandom       Cell = 89
	KMulDiv       Cell = 90
	KResult2      Cell = 91
)

// Mnemonics of function codes, in function code order.
var Mnemonics = [...]byte{'L', 'S', 'A', 'J', 'T', 'F', 'K', 'X'}

var xNames = [...]string{
	XRv:     "rv",
	XNeg:    "neg",
	XNot:    "not",
	XRtrn:   "rtrn",
	XMult:   "mult",
	XDiv:    "div",
	XRem:    "rem",
	XPlus:   "plus",
	XMinus:  "minus",
	XEq:     "eq",
	XNe:     "ne",
	XLs:     "ls",
	XGe:     "ge",
	XGr:     "gr",
	XLe:     "le",
	XLsh:    "lsh",
	XRsh:    "rsh",
	XAnd:    "and",
	XOr:     "or",
	XXor:    "xor",
	XEqv:    "eqv",
	XFinish: "finish",
	XSwitch: "switchon",
}

var kNames = map[Cell]string{
	KStart:        "start",
	KSetPM:        "setpm",
	KAbort:        "abort",
	KBacktrace:    "backtrace",
	KSelectInput:  "selectinput",
	KSelectOutput: "selectoutput",
	KRdch:         "rdch",
	KWrch:         "wrch",
	KUnrdch:       "unrdch",
	KInput:        "input",
	KOutput:       "output",
	KStop:         "stop",
	KLevel:        "level",
	KLongJump:     "longjump",
	KBinWrch:      "binwrch",
	KRewind:       "rewind",
	KAptovec:      "aptovec",
	KFindOutput:   "findoutput",
	KFindInput:    "findinput",
	KEndRead:      "endread",
	KEndWrite:     "endwrite",
	KWrites:       "writes",
	KWriten:       "writen",
	KNewline:      "newline",
	KNewpage:      "newpage",
	KWriteo:       "writeo",
	KPackString:   "packstring",
	KUnpackString: "unpackstring",
	KWrited:       "writed",
	KWriteArg:     "writearg",
	KReadn:        "readn",
	KWritex:       "writex",
	KWriteHex:     "writehex",
	KWritef:       "writef",
	KWriteOct:     "writeoct",
	KMapStore:     "mapstore",
	KGetByte:      "getbyte",
	KPutByte:      "putbyte",
	KGetVec:       "getvec",
	KFreeVec:      "freevec",
	KRandom:       "random",
	KMulDiv:       "muldiv",
	KResult2:      "result2",
}

// XName returns the name of extended operation x, or "" if x is not a valid
// extended operation.
func XName(x Cell) string {
	if x <= 0 || int(x) >= len(xNames) {
		return ""
	}
	return xNames[x]
}

// KName returns the library name of system call k, or "" if k has no name.
func KName(k Cell) string {
	return kNames[k]
}
