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

package main

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// setRawIO switches the console to raw input and returns a function to
// restore its previous mode. Unlike on unix systems, input is not echoed.
func setRawIO() (func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a console")
	}
	st, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "MakeRaw failed")
	}
	return func() { term.Restore(fd, st) }, nil
}
