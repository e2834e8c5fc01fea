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

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Stream handles. Handles of streams opened by programs start at firstFile; 0
// is never a valid handle.
const (
	SysIn     Cell = 1
	SysPrint  Cell = 2
	firstFile Cell = 3
)

// EndStreamCh is the character returned by RDCH at the end of a stream.
const EndStreamCh Cell = -1

// FileSystem is the interface to the host file system used by FINDINPUT and
// FINDOUTPUT. Files must be opened in binary mode: the VM does its own
// line-end translation.
type FileSystem interface {
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)
}

// OSFileSystem implements FileSystem with the os package.
type OSFileSystem struct{}

// Open opens the named file for reading.
func (OSFileSystem) Open(name string) (io.ReadCloser, error) { return os.Open(name) }

// Create creates or truncates the named file for writing.
func (OSFileSystem) Create(name string) (io.WriteCloser, error) { return os.Create(name) }

type stream struct {
	r *bufio.Reader
	w *bufio.Writer
	c io.Closer
}

func newInputStream(r io.Reader, c io.Closer) *stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &stream{r: br, c: c}
}

func newOutputStream(w io.Writer, c io.Closer) *stream {
	return &stream{w: bufio.NewWriter(w), c: c}
}

func (s *stream) flush() error {
	if s.w == nil {
		return nil
	}
	return s.w.Flush()
}

func (s *stream) close() error {
	err := s.flush()
	if s.c != nil {
		if e := s.c.Close(); err == nil {
			err = e
		}
		s.c = nil
	}
	return err
}

// isDefault reports whether name is one of the reserved stream names that
// stand for the default input and output.
func isDefault(name, reserved string) bool {
	return strings.EqualFold(name, reserved)
}

func (i *Instance) addStream(s *stream) Cell {
	h := i.fid
	for i.streams[h] != nil || h < firstFile {
		h++
		if h < firstFile {
			h = firstFile
		}
	}
	i.fid = h + 1
	i.streams[h] = s
	return h
}

// FindInput opens the named file for reading and returns its stream handle,
// or 0 if it cannot be opened. If the name cannot be opened as is, its lower
// case version is tried.
func (i *Instance) FindInput(name string) Cell {
	if isDefault(name, "SYSIN") {
		return SysIn
	}
	f, err := i.fs.Open(name)
	if err != nil {
		if lc := strings.ToLower(name); lc != name {
			f, err = i.fs.Open(lc)
		}
		if err != nil {
			i.log.Debug("findinput failed", zap.String("name", name), zap.Error(err))
			return 0
		}
	}
	return i.addStream(newInputStream(f, f))
}

// FindOutput creates the named file and returns its stream handle, or 0 if
// it cannot be created.
func (i *Instance) FindOutput(name string) Cell {
	if isDefault(name, "SYSPRINT") {
		return SysPrint
	}
	f, err := i.fs.Create(name)
	if err != nil {
		i.log.Debug("findoutput failed", zap.String("name", name), zap.Error(err))
		return 0
	}
	return i.addStream(newOutputStream(f, f))
}

// SelectInput makes h the current input stream.
func (i *Instance) SelectInput(h Cell) { i.cis = h }

// SelectOutput makes h the current output stream.
func (i *Instance) SelectOutput(h Cell) { i.cos = h }

// EndRead closes the current input stream unless it is the default input,
// then selects the default input.
func (i *Instance) EndRead() error {
	err := i.endStream(i.cis)
	i.cis = SysIn
	return err
}

// EndWrite closes the current output stream unless it is the default
// output, then selects the default output.
func (i *Instance) EndWrite() error {
	err := i.endStream(i.cos)
	i.cos = SysPrint
	return err
}

func (i *Instance) endStream(h Cell) error {
	if h == SysIn || h == SysPrint {
		return nil
	}
	s := i.streams[h]
	if s == nil {
		return nil
	}
	delete(i.streams, h)
	return errors.Wrap(s.close(), "close failed")
}

// Rdch reads a character from the current input stream. Carriage returns
// read as line feeds. It returns EndStreamCh at the end of the stream, or
// if the current input is not a readable stream.
func (i *Instance) Rdch() Cell {
	s := i.streams[i.cis]
	if s == nil || s.r == nil {
		return EndStreamCh
	}
	if s.r.Buffered() == 0 {
		// about to block: make prompts visible
		if err := i.streams[SysPrint].flush(); err != nil {
			i.log.Debug("flush failed", zap.Error(err))
		}
	}
	c, err := s.r.ReadByte()
	if err != nil {
		if err != io.EOF {
			i.log.Debug("rdch failed", zap.Int16("stream", int16(i.cis)), zap.Error(err))
		}
		return EndStreamCh
	}
	if c == '\r' {
		c = '\n'
	}
	return Cell(c)
}

// Wrch writes a character to the current output stream. A line feed is
// written as a host newline.
func (i *Instance) Wrch(c byte) error {
	if c == '\n' {
		return i.Newline()
	}
	s := i.streams[i.cos]
	if s == nil || s.w == nil {
		return nil
	}
	return errors.Wrap(s.w.WriteByte(c), "wrch failed")
}

// Newline writes a host newline to the current output stream. The default
// output is flushed.
func (i *Instance) Newline() error {
	s := i.streams[i.cos]
	if s == nil || s.w == nil {
		return nil
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "newline failed")
	}
	if i.cos == SysPrint {
		return errors.Wrap(s.flush(), "newline failed")
	}
	return nil
}

// Flush flushes the default output.
func (i *Instance) Flush() error {
	return errors.Wrap(i.streams[SysPrint].flush(), "flush failed")
}
