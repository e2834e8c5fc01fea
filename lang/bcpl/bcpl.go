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

// Package bcpl provides utility functions and types to run BCPL programs
// compiled to INTCODE on the INTCODE Virtual Machine.
package bcpl

import (
	"io"

	"github.com/dagfinndybvig/nodeBCPL/asm"
	"github.com/dagfinndybvig/nodeBCPL/vm"
	"github.com/pkg/errors"
)

// Global numbers of the BCPL library header that the VM relies on.
const (
	GlobalStart      = 1  // the program's entry routine
	GlobalTerminator = 71 // the character that ended the last readn()
)

// Load assembles the INTCODE read from r into the instance, right after the
// code already loaded. The name is only used in error messages.
func Load(i *vm.Instance, name string, r io.Reader) error {
	a := asm.New(i.Image, i.Lomem)
	err := a.Assemble(r)
	i.Lomem = a.Lomem()
	return errors.Wrap(err, name)
}

// LoadFile opens the named INTCODE file with the instance's file system and
// loads it. Files that cannot be opened are reported as a vm.ErrNoICFile
// error.
func LoadFile(i *vm.Instance, name string) error {
	f, err := i.FileSystem().Open(name)
	if err != nil {
		return errors.Wrap(&vm.Error{Errno: vm.ErrNoICFile, Err: err}, name)
	}
	defer f.Close()
	return Load(i, name, f)
}

// String returns the packed BCPL string at word address addr.
func String(i *vm.Instance, addr vm.Cell) string {
	return string(i.Image.String(vm.Addr(addr)))
}

// SetString stores s as a packed BCPL string at word address addr. Strings
// are limited to 255 bytes; longer strings are truncated.
func SetString(i *vm.Instance, addr vm.Cell, s string) {
	i.Image.SetString(vm.Addr(addr), []byte(s))
}

// Global returns the value of global n.
func Global(i *vm.Instance, n int) vm.Cell {
	return i.Image.Word(n)
}
