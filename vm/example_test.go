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

package vm_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/dagfinndybvig/nodeBCPL/asm"
	"github.com/dagfinndybvig/nodeBCPL/vm"
)

// Shows how to assemble a program into a new instance and run it.
func ExampleInstance_Run() {
	// writes("Hello*N")
	const hello = `1 LL9 SP5 L60 K3 X4
9 C6 C72 C101 C108 C108 C111 C10
G1L1 Z
`
	i, err := vm.New(vm.Output(os.Stdout))
	if err != nil {
		panic(err)
	}
	a := asm.New(i.Image, i.Lomem)
	if err = a.Assemble(strings.NewReader(hello)); err != nil {
		panic(err)
	}
	i.Lomem = a.Lomem()

	res, err := i.Run()
	if err != nil {
		panic(err)
	}
	fmt.Println("result:", res)

	// Output:
	// Hello
	// result: 0
}

// Shows how to add a system call.
func ExampleBindCall() {
	// the handler returns twice its argument in A.
	double := func(i *vm.Instance, args int) error {
		i.A = 2 * i.Image.Word(args)
		return nil
	}
	// stop(double(21))
	const src = "1 L21 SP5 L100 K3 SP6 L30 K4 G1L1 Z"

	i, err := vm.New(vm.BindCall(100, double))
	if err != nil {
		panic(err)
	}
	a := asm.New(i.Image, i.Lomem)
	if err = a.Assemble(strings.NewReader(src)); err != nil {
		panic(err)
	}
	i.Lomem = a.Lomem()

	res, err := i.Run()
	if err != nil {
		panic(err)
	}
	fmt.Println(res)

	// Output:
	// 42
}
