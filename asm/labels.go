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

import "github.com/dagfinndybvig/nodeBCPL/vm"

// LabelCount is the number of labels available in a segment. Labels are
// numbered from 0 to LabelCount-1.
const LabelCount = 500

// Labels resolves numbered labels in a single pass.
//
// Each table entry is either 0 (never referenced), a positive address
// (unresolved: the last word referencing the label), or a negative address
// (resolved: the negated address of the label).
//
// Unresolved references form a chain threaded through the referencing words
// themselves: each one holds the address of the previous reference, the
// first one holds 0. Defining the label walks the chain and stores the
// label's address in every word of it.
type Labels struct {
	m   vm.Image
	tab [LabelCount]vm.Cell
}

// NewLabels returns a new, empty label table patching words of m.
func NewLabels(m vm.Image) *Labels {
	return &Labels{m: m}
}

func (l *Labels) valid(n int) bool {
	return n >= 0 && n < LabelCount
}

// Define sets the address of label n to addr and patches all the pending
// references to it.
func (l *Labels) Define(n, addr int) error {
	if !l.valid(n) {
		return vm.NewError(vm.ErrBadCode, addr)
	}
	k := l.tab[n]
	if k < 0 {
		return vm.NewError(vm.ErrDuplicateLabel, n)
	}
	for k > 0 {
		next := l.m.Word(int(k))
		l.m.SetWord(int(k), vm.Cell(addr))
		k = next
	}
	l.tab[n] = -vm.Cell(addr)
	return nil
}

// Reference registers a reference to label n from the word at address
// patch. If the label is already defined, its address is added to the word.
// Otherwise the word is linked in the label's chain of pending references:
// it must hold 0 at this point.
func (l *Labels) Reference(n, patch int) error {
	if !l.valid(n) {
		return vm.NewError(vm.ErrBadCode, patch)
	}
	k := l.tab[n]
	if k < 0 {
		k = -k
	} else {
		l.tab[n] = vm.Cell(patch)
	}
	l.m.SetWord(patch, l.m.Word(patch)+k)
	return nil
}

// Pending returns the number of the first label that has been referenced
// but not defined, or -1 if there is none.
func (l *Labels) Pending() int {
	for n, k := range l.tab {
		if k > 0 {
			return n
		}
	}
	return -1
}

// CheckResolved returns an error if a label has been referenced but not
// defined.
func (l *Labels) CheckResolved() error {
	if n := l.Pending(); n >= 0 {
		return vm.NewError(vm.ErrUnsetLabel, n)
	}
	return nil
}

// Reset clears all labels.
func (l *Labels) Reset() {
	l.tab = [LabelCount]vm.Cell{}
}
