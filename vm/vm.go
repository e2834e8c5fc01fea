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
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Instance represents an INTCODE VM instance.
type Instance struct {
	PC       int   // Program Counter
	SP       Cell  // frame base
	A        Cell  // accumulator
	B        Cell  // receives the previous value of A on every load
	Lomem    int   // first free word after the code segment
	Image    Image // memory
	words    int
	insCount int64
	calls    map[Cell]CallHandler
	fs       FileSystem
	input    io.Reader
	output   io.Writer
	streams  map[Cell]*stream
	fid      Cell
	cis      Cell
	cos      Cell
	log      *zap.Logger
	stopped  bool
	result   Cell
}

// Option interface
type Option func(*Instance) error

// Words sets the memory size in words. The default is DefaultWords. It has
// no effect once the instance is created.
func Words(n int) Option {
	return func(i *Instance) error {
		if n <= ProgStart+3 || n > 1<<15 {
			return errors.Errorf("invalid memory size %d", n)
		}
		i.words = n
		return nil
	}
}

// Input sets the reader used as the default input stream (SYSIN). The
// default is os.Stdin.
func Input(r io.Reader) Option {
	return func(i *Instance) error { i.input = r; return nil }
}

// Output sets the writer used as the default output stream (SYSPRINT). The
// default is os.Stdout.
func Output(w io.Writer) Option {
	return func(i *Instance) error { i.output = w; return nil }
}

// Files sets the file system used by FINDINPUT and FINDOUTPUT. The default
// is OSFileSystem.
func Files(fs FileSystem) Option {
	return func(i *Instance) error { i.fs = fs; return nil }
}

// Logger sets the logger. Every executed instruction is logged at debug
// level, so tracing is enabled simply by passing a logger with debug level
// enabled.
func Logger(l *zap.Logger) Option {
	return func(i *Instance) error {
		if l == nil {
			l = zap.NewNop()
		}
		i.log = l
		return nil
	}
}

// CallHandler is the function prototype for system call handlers. The args
// parameter is the address of the first argument of the call.
type CallHandler func(i *Instance, args int) error

// BindCall binds the provided handler to the system call code. Codes must be
// in the range [0, ProgStart); built-in calls can be overridden.
//
// Handlers can freely modify the registers of the instance. A handler that
// wants the run to stop should call the Stop method.
func BindCall(code Cell, handler CallHandler) Option {
	return func(i *Instance) error {
		if code < 0 || code >= ProgStart {
			return errors.Errorf("system call code %d out of range", code)
		}
		i.calls[code] = handler
		return nil
	}
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new INTCODE Virtual Machine instance.
//
// The memory is initialized as expected by programs: the words of the global
// vector hold their own address, and the three words at ProgStart hold the
// entry code that calls the routine in global 1 (START) and finishes the run
// when it returns. Programs are then assembled starting at Lomem.
func New(opts ...Option) (*Instance, error) {
	i := &Instance{
		words:   DefaultWords,
		calls:   make(map[Cell]CallHandler),
		streams: make(map[Cell]*stream),
		fid:     firstFile,
		log:     zap.NewNop(),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	if i.fs == nil {
		i.fs = OSFileSystem{}
	}
	if i.input == nil {
		i.input = os.Stdin
	}
	if i.output == nil {
		i.output = os.Stdout
	}
	i.streams[SysIn] = newInputStream(i.input, nil)
	i.streams[SysPrint] = newOutputStream(i.output, nil)
	i.cis, i.cos = SysIn, SysPrint

	i.Image = NewImage(i.words)
	for a := 0; a < ProgStart; a++ {
		i.Image.SetWord(a, Cell(a))
	}
	i.Lomem = ProgStart
	for _, w := range [...]Cell{
		OpL | FlagI | KStart<<ImmShift,
		OpK | 2<<ImmShift,
		OpX | XFinish<<ImmShift,
	} {
		i.Image.SetWord(i.Lomem, w)
		i.Lomem++
	}
	return i, nil
}

// FileSystem returns the file system used by the instance.
func (i *Instance) FileSystem() FileSystem {
	return i.fs
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Stop stops the run after the current instruction. Run will return the
// given result.
func (i *Instance) Stop(result Cell) {
	i.stopped = true
	i.result = result
}

// Close flushes the default output and closes all streams opened by the
// running program.
func (i *Instance) Close() error {
	var err error
	for h, s := range i.streams {
		if e := s.close(); e != nil && err == nil {
			err = e
		}
		if h != SysIn && h != SysPrint {
			delete(i.streams, h)
		}
	}
	i.cis, i.cos = SysIn, SysPrint
	return errors.Wrap(err, "close failed")
}
