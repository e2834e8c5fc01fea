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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dagfinndybvig/nodeBCPL/asm"
	"github.com/dagfinndybvig/nodeBCPL/lang/bcpl"
	"github.com/dagfinndybvig/nodeBCPL/vm"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
)

// exitFatal is the exit status after a fatal error.
const exitFatal = 255

var (
	inFileName  string
	outFileName string
	trace       bool
	rawIO       bool
	dump        bool
	disasm      bool
	words       int

	// default output. Fatal error messages go there too.
	stdout  io.Writer = os.Stdout
	outFile *os.File

	exitCode int

	// command line arguments, for error reporting
	cmdArgs []string
)

// envOr returns the parsed value of the environment variable key, or backup
// if it is not set. Invalid values are reported by enve.
func envOr[T any](parse func(string) (T, error), key string, backup T) T {
	if _, ok := os.LookupEnv(key); !ok {
		return backup
	}
	return enve.Or(parse, key, backup)
}

// rawRdch replaces RDCH when the terminal is in raw mode: CTRL-D must be
// handled here.
func rawRdch(i *vm.Instance, _ int) error {
	if i.A = i.Rdch(); i.A == 4 {
		i.A = vm.EndStreamCh
	}
	return nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icint ICFILE [...] [-iINPUT] [-oOUTPUT]",
		Short: "Assemble and run INTCODE programs",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return vm.NewError(vm.ErrUsage, 0)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	f := cmd.Flags()
	f.StringVarP(&inFileName, "input", "i", "", "read the default input from `file`")
	f.StringVarP(&outFileName, "output", "o", "", "write the default output to `file`")
	f.BoolVarP(&trace, "trace", "t", envOr(strconv.ParseBool, "ICINT_TRACE", false), "trace every executed instruction on stderr")
	f.BoolVar(&rawIO, "raw", envOr(strconv.ParseBool, "ICINT_RAW", false), "switch the terminal to raw input")
	f.BoolVar(&dump, "dump", false, "dump registers, globals and code on stderr upon exit")
	f.BoolVar(&disasm, "disasm", false, "disassemble the loaded code instead of running it")
	f.IntVar(&words, "words", envOr(strconv.Atoi, "ICINT_WORDS", vm.DefaultWords), "memory size in words")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &vm.Error{Errno: vm.ErrInvalidOption, Arg: argIndex(err), Err: err}
	})
	return cmd
}

func run(_ *cobra.Command, args []string) error {
	log := newLogger(trace).With(zap.String("run", uuid.New().String()))
	defer log.Sync()

	var input io.Reader = os.Stdin
	if inFileName != "" {
		f, err := os.Open(inFileName)
		if err != nil {
			return errors.Wrap(&vm.Error{Errno: vm.ErrNoInput, Err: err}, inFileName)
		}
		defer f.Close()
		input = f
	}
	if outFileName != "" {
		f, err := os.Create(outFileName)
		if err != nil {
			return errors.Wrap(&vm.Error{Errno: vm.ErrNoOutput, Err: err}, outFileName)
		}
		outFile, stdout = f, f
	}

	opts := []vm.Option{
		vm.Words(words),
		vm.Input(input),
		vm.Output(stdout),
		vm.Logger(log),
	}
	if rawIO && inFileName == "" {
		tearDown, err := setRawIO()
		if err != nil {
			log.Warn("raw terminal input unavailable", zap.Error(err))
		} else {
			defer tearDown()
			opts = append(opts, vm.BindCall(vm.KRdch, rawRdch))
		}
	}

	i, err := vm.New(opts...)
	if err != nil {
		return &vm.Error{Errno: vm.ErrInvalidOption, Err: err}
	}
	defer i.Close()

	for _, name := range args {
		if err = bcpl.LoadFile(i, name); err != nil {
			return err
		}
	}
	log.Debug("loaded", zap.Strings("files", args), zap.Int("lomem", i.Lomem))

	if disasm {
		return asm.DisassembleAll(i.Image, vm.ProgStart, i.Lomem, stdout)
	}

	result, err := i.Run()
	if dump {
		if derr := bcpl.DumpVM(i, os.Stderr); err == nil {
			err = derr
		}
	}
	exitCode = int(result)
	return err
}

// argIndex returns the position of the command line argument that err
// complains about, counting from 1 like argv, or 0 if it cannot be found.
func argIndex(err error) int {
	for _, f := range strings.Fields(err.Error()) {
		f = strings.Trim(f, "\"'")
		if len(f) < 2 || f[0] != '-' {
			continue
		}
		for k, a := range cmdArgs {
			if a == f {
				return k + 1
			}
		}
	}
	return 0
}

// fixArgs rewrites the single dash -trace spelling, which pflag would read
// as a group of shorthand flags.
func fixArgs(args []string) []string {
	out := make([]string, len(args))
	for k, a := range args {
		if a == "-trace" {
			a = "--trace"
		}
		out[k] = a
	}
	return out
}

// atExit reports a fatal error on the default output and returns the exit
// status.
func atExit(err error) int {
	msg := err.Error()
	if e, ok := errors.Cause(err).(*vm.Error); ok {
		msg = e.Error()
	}
	fmt.Fprintln(stdout, msg)
	if trace {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	return exitFatal
}

// realMain runs the command with the given arguments and returns the exit
// status.
func realMain(args []string) int {
	stdout, outFile, exitCode = os.Stdout, nil, 0
	cmdArgs = args
	cmd := newRootCmd()
	cmd.SetArgs(fixArgs(args))
	if err := cmd.Execute(); err != nil {
		exitCode = atExit(err)
	}
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
	return exitCode
}

func main() {
	os.Exit(realMain(os.Args[1:]))
}
