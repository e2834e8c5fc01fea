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

package bcpl

import (
	"io"

	"github.com/dagfinndybvig/nodeBCPL/internal/ici"
	"github.com/dagfinndybvig/nodeBCPL/vm"
)

func dumpSlice(w *ici.Writer, prefix string, m vm.Image, from, to int) {
	w.WriteString(prefix)
	for a := from; a < to; a++ {
		if a > from {
			w.WriteByte(' ')
		}
		w.Int(int64(m.Word(a)), 0)
	}
	w.WriteByte('\n')
}

// DumpVM dumps the virtual machine registers, the global vector and the
// code segment to the specified io.Writer, one line each.
func DumpVM(i *vm.Instance, w io.Writer) error {
	ew := ici.NewWriter(w)
	for _, r := range [...]struct {
		n string
		v int
	}{
		{"pc=", i.PC},
		{" sp=", int(i.SP)},
		{" a=", int(i.A)},
		{" b=", int(i.B)},
		{" lomem=", i.Lomem},
	} {
		ew.WriteString(r.n)
		ew.Int(int64(r.v), 0)
	}
	ew.WriteByte('\n')
	dumpSlice(ew, "globals: ", i.Image, 0, vm.ProgStart)
	dumpSlice(ew, "code: ", i.Image, vm.ProgStart, i.Lomem)
	return ew.Err
}
