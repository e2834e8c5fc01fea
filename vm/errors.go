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

import "strconv"

// Errno identifies the nature of a fatal condition. The assembler, the
// execution engine and the command line driver all report fatal conditions
// with one of these values.
type Errno int

// Fatal conditions.
const (
	ErrNoInput Errno = iota + 1
	ErrNoOutput
	ErrNoICFile
	ErrInvalidOption
	ErrDuplicateLabel
	ErrBadCode
	ErrUnsetLabel
	ErrBadCh
	ErrUnknownCall
	ErrUnknownExec
	ErrIntcode
	ErrUsage
)

var errnoText = [...]string{
	ErrNoInput:        "NO INPUT",
	ErrNoOutput:       "NO OUTPUT",
	ErrNoICFile:       "NO ICFILE",
	ErrInvalidOption:  "INVALID OPTION",
	ErrDuplicateLabel: "DUPLICATE LABEL",
	ErrBadCode:        "BAD CODE AT P",
	ErrUnsetLabel:     "UNSET LABEL",
	ErrBadCh:          "BAD CH",
	ErrUnknownCall:    "UNKNOWN CALL",
	ErrUnknownExec:    "UNKNOWN EXEC",
	ErrIntcode:        "INTCODE ERROR AT PC",
	ErrUsage:          "USAGE: icint ICFILE [...] [-iINPUT] [-oOUTPUT]",
}

func (e Errno) String() string {
	if e <= 0 || int(e) >= len(errnoText) {
		return "ERROR " + strconv.Itoa(int(e))
	}
	return errnoText[e]
}

// Error describes a fatal condition and its numeric context.
//
// Error() returns the fixed diagnostic, followed by " #" and Arg when Arg is
// not zero, which is exactly what the driver prints before exiting.
type Error struct {
	Errno Errno // nature of the error
	Arg   int   // context value: label number, call code, character, address...
	Err   error // underlying host error, if any
}

func (e *Error) Error() string {
	s := e.Errno.String()
	if e.Arg != 0 {
		s += " #" + strconv.Itoa(e.Arg)
	}
	return s
}

// Unwrap returns the underlying host error if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError returns a new *Error for the given errno and context value.
func NewError(errno Errno, arg int) *Error {
	return &Error{Errno: errno, Arg: arg}
}

// addrError is the panic value raised by out of range memory accesses.
type addrError int

func (e addrError) Error() string {
	return "address out of range: " + strconv.Itoa(int(e))
}
