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

// Package ici holds helpers shared by the icint packages.
package ici

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Writer wraps an io.Writer and keeps the first write error. Once an error
// has occurred, writes do nothing and return that error.
type Writer struct {
	w   io.Writer
	b   []byte
	Err error
}

// NewWriter returns a new Writer writing to w. If w is already a *Writer, it
// is returned as is.
func NewWriter(w io.Writer) *Writer {
	if ew, ok := w.(*Writer); ok {
		return ew
	}
	return &Writer{w: w}
}

func (w *Writer) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// WriteString writes s.
func (w *Writer) WriteString(s string) (n int, err error) {
	w.b = append(w.b[:0], s...)
	return w.Write(w.b)
}

// WriteByte writes c.
func (w *Writer) WriteByte(c byte) error {
	w.b = append(w.b[:0], c)
	_, err := w.Write(w.b)
	return err
}

// Int writes v in decimal, right justified in a field of the given width.
func (w *Writer) Int(v int64, width int) error {
	w.b = strconv.AppendInt(w.b[:0], v, 10)
	if pad := width - len(w.b); pad > 0 {
		w.b = append(w.b, make([]byte, pad)...)
		copy(w.b[pad:], w.b)
		for k := 0; k < pad; k++ {
			w.b[k] = ' '
		}
	}
	_, err := w.Write(w.b)
	return err
}
