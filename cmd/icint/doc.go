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

// The icint command assembles INTCODE files, as produced by the BCPL
// compiler, and runs them on the INTCODE virtual machine from the package
// github.com/dagfinndybvig/nodeBCPL/vm.
//
// Usage:
//
//	icint ICFILE [...] [-iINPUT] [-oOUTPUT] [flags]
//
//	-i, --input file
//		  read the default input (SYSIN) from file
//	-o, --output file
//		  write the default output (SYSPRINT) to file
//	-t, --trace
//		  trace every executed instruction on stderr
//	    --raw
//		  switch the terminal to raw input
//	    --dump
//		  dump registers, globals and code on stderr upon exit
//	    --disasm
//		  disassemble the loaded code instead of running it
//	    --words int
//		  memory size in words (default 19900)
//
// All files are assembled one after the other into the same memory, then the
// program is started by calling global 1. The usual setup is to load the
// library first, then the program:
//
//	icint blib.int prog.int -idata.txt
//
// The exit status is the argument of the stop() call that ended the
// program, 0 when the program returns from start, and 255 after a fatal
// error. Fatal errors such as BAD CH #45 or UNKNOWN CALL #2 are written to
// the default output. An invalid option is reported with its position on
// the command line, as in INVALID OPTION #3.
//
// --trace: logs every instruction with the registers before it executes. It
// also prints a stack trace of the Go code on fatal errors. The single dash
// spelling -trace is accepted too.
//
// --raw: only effective when stdin is a terminal that is not redirected with
// -i. Characters are passed to the program as they are typed instead of line
// by line. CTRL-D then reads as end of stream.
//
// The environment variables ICINT_WORDS, ICINT_TRACE and ICINT_RAW set the
// defaults of --words, --trace and --raw.
package main
