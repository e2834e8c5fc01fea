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

// Package asm provides utility functions to assemble and disassemble INTCODE.
//
// INTCODE text is a sequence of directives. Spaces, newlines and $ signs
// separate directives, and a / starts a comment that runs up to the end of
// the line. Numbers are decimal.
//
//	directive	meaning
//	---------	--------------------------------------------------------------
//	n		define label n at the current position
//	fn		assemble an instruction with operand n (see below)
//	fLn		assemble an instruction whose operand is the address of label n
//	Cn		append the byte n, packing bytes two per word
//	Dn		append the word n
//	DLn		append the address of label n
//	GnLm		set global n to the address of label m
//	Z		end of segment: all referenced labels must be defined. Labels
//			are cleared.
//
// An instruction starts with a function letter, optionally followed by I
// (indirect), P (add the frame base) and G (ignored):
//
//	L	load		B = A; A = operand
//	S	store		m[operand] = A
//	A	add		A = A + operand
//	J	jump		PC = operand
//	T	jump if true	if A != 0 { PC = operand }
//	F	jump if false	if A == 0 { PC = operand }
//	K	call		call A with a new frame at SP + operand
//	X	execute		extended operation number operand
//
// Operands in the range 0-255 are packed into the instruction word; others,
// and label operands, take an extra word.
//
// Labels are numbered from 0 to LabelCount-1 and can be referenced before
// they are defined. They are resolved in a single pass: pending references
// are chained through the words that will receive the label's address.
//
// Example, a program that prints A:
//
//	1 L65 SP5 L14 K3 X4   / wrch('A') and return
//	G1L1 Z                 / global 1 (START) is label 1
package asm
