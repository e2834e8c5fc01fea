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

package asm_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/dagfinndybvig/nodeBCPL/asm"
	"github.com/dagfinndybvig/nodeBCPL/vm"
)

func ExampleAssembler_Assemble() {
	const src = `
/ f(x) = x * x
2 LIP2 LIP2 X5 X4
G150L2 Z
`
	m := vm.NewImage(vm.DefaultWords)
	a := asm.New(m, vm.ProgStart)
	if err := a.Assemble(strings.NewReader(src)); err != nil {
		panic(err)
	}
	fmt.Println("lomem:", a.Lomem())
	fmt.Println("global 150:", m.Word(150))

	// Output:
	// lomem: 405
	// global 150: 401
}

func ExampleDisassemble() {
	const src = "1 LIP2 L1000 X8 SP5 L14 K3 JL1"

	m := vm.NewImage(vm.DefaultWords)
	a := asm.New(m, vm.ProgStart)
	if err := a.Assemble(strings.NewReader(src)); err != nil {
		panic(err)
	}
	for pc := vm.ProgStart; pc < a.Lomem(); {
		fmt.Printf("%d: ", pc)
		pc, _ = asm.Disassemble(m, pc, os.Stdout)
		fmt.Println()
	}

	// Output:
	// 401: LIP2
	// 402: L1000
	// 404: X8 / plus
	// 405: SP5
	// 406: L14
	// 407: K3
	// 408: J401
}
