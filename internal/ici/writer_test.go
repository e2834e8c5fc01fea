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

package ici_test

import (
	"bytes"
	"testing"

	"github.com/dagfinndybvig/nodeBCPL/internal/ici"
	"github.com/pkg/errors"
)

type failWriter int

func (f *failWriter) Write(p []byte) (int, error) {
	if *f == 0 {
		return 0, errors.New("full")
	}
	*f--
	return len(p), nil
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := ici.NewWriter(&buf)
	if ici.NewWriter(w) != w {
		t.Fatal("NewWriter did not reuse *Writer")
	}
	w.WriteString("pc=")
	w.Int(401, 0)
	w.WriteByte('\t')
	w.Int(-7, 5)
	w.Int(123456, 3)
	if w.Err != nil {
		t.Fatal(w.Err)
	}
	if got, exp := buf.String(), "pc=401\t   -7123456"; got != exp {
		t.Errorf("got %q, expected %q", got, exp)
	}
}

func TestWriter_err(t *testing.T) {
	f := failWriter(1)
	w := ici.NewWriter(&f)
	if err := w.WriteByte('a'); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteByte('b'); err == nil {
		t.Fatal("expected error")
	}
	f = 10
	if _, err := w.WriteString("c"); err == nil || errors.Cause(err).Error() != "full" {
		t.Fatalf("expected sticky error, got %v", err)
	}
}
