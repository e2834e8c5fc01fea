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

// Package vm implements the INTCODE virtual machine.
//
// INTCODE is the intermediate code of the classic BCPL compiler: a small
// accumulator machine with 16 bits words, designed as a portable target that
// is trivial to interpret. Text INTCODE is assembled into memory by package
// asm; this package executes it.
//
// Memory is a single array of words that can also be addressed as bytes, low
// byte first. Words below ProgStart form the global vector. Code and static
// data are loaded from ProgStart up to Lomem, and the runtime stack grows
// from Lomem up.
//
// An instruction is one word, optionally followed by an operand word:
//
//	bits 0-2	function code: L S A J T F K X
//	bit 3		I: indirect
//	bit 4		P: add the frame base (SP)
//	bit 5		D: the operand is the following word
//	bits 8-15	immediate operand if D is not set
//
// Calls (K) to addresses below ProgStart are system calls that give access to
// the host streams and to formatting primitives. Custom system calls can be
// bound with BindCall.
//
// All arithmetic is done on 16 bits and wraps around.
package vm
