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

package vm_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/dagfinndybvig/nodeBCPL/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memFile struct {
	*bytes.Buffer
	closed bool
}

func (f *memFile) Close() error { f.closed = true; return nil }

// memFS is an in-memory vm.FileSystem.
type memFS map[string]*memFile

func (fs memFS) Open(name string) (io.ReadCloser, error) {
	f, ok := fs[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &memFile{Buffer: bytes.NewBuffer(f.Bytes())}, nil
}

func (fs memFS) Create(name string) (io.WriteCloser, error) {
	if strings.HasPrefix(name, "/") {
		return nil, os.ErrPermission
	}
	f := &memFile{Buffer: new(bytes.Buffer)}
	fs[name] = f
	return f, nil
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func newInstance(t *testing.T, input string, out *bytes.Buffer, opts ...vm.Option) *vm.Instance {
	opts = append([]vm.Option{vm.Input(strings.NewReader(input)), vm.Output(out)}, opts...)
	i, err := vm.New(opts...)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return i
}

func TestImage(t *testing.T) {
	m := vm.NewImage(1000)
	m.SetWord(500, 0x4241)
	if m.Byte(1000) != 0x41 || m.Byte(1001) != 0x42 {
		t.Errorf("bad byte order: %x %x", m.Byte(1000), m.Byte(1001))
	}
	m.SetByte(1001, 0x43)
	if w := m.Word(500); w != 0x4341 {
		t.Errorf("expected %x, got %x", 0x4341, w)
	}
	m.SetWord(501, -2)
	if m.Byte(1002) != 0xFE || m.Byte(1003) != 0xFF {
		t.Errorf("bad encoding of -2: %x %x", m.Byte(1002), m.Byte(1003))
	}
	if vm.Addr(-1) != 65535 {
		t.Errorf("Addr(-1) = %d", vm.Addr(-1))
	}

	m.SetString(600, []byte("hello"))
	if s := string(m.String(600)); s != "hello" {
		t.Errorf("String: got %q", s)
	}
	if m.Byte(1200) != 5 || m.Word(602) != 'l'|'o'<<8 {
		t.Errorf("bad packed string layout: %d %x", m.Byte(1200), m.Word(602))
	}
}

func TestImage_outOfRange(t *testing.T) {
	m := vm.NewImage(10)
	defer func() {
		if e := recover(); e == nil {
			t.Error("expected a panic")
		}
	}()
	m.Word(10)
}

func TestPackString(t *testing.T) {
	i := newInstance(t, "", new(bytes.Buffer))
	m := i.Image
	const v, s, u = 1000, 2000, 3000
	for l := 0; l < 256; l++ {
		m.SetWord(v, vm.Cell(l))
		for k := 1; k <= l; k++ {
			m.SetWord(v+k, vm.Cell('a'+k%26))
		}
		n := i.PackString(v, s)
		if int(n) != l/2 {
			t.Errorf("length %d: packstring returned %d", l, n)
		}
		if p := m.String(s); len(p) != l {
			t.Errorf("length %d: packed string has length %d", l, len(p))
		}
		i.UnpackString(s, u)
		for k := 0; k <= l; k++ {
			if m.Word(u+k) != m.Word(v+k) {
				t.Fatalf("length %d: character %d: expected %d, got %d", l, k, m.Word(v+k), m.Word(u+k))
			}
		}
	}
}

func TestRdch(t *testing.T) {
	i := newInstance(t, "a\rb\n", new(bytes.Buffer))
	for n, exp := range []vm.Cell{'a', '\n', 'b', '\n', vm.EndStreamCh, vm.EndStreamCh} {
		if c := i.Rdch(); c != exp {
			t.Errorf("%d: expected %d, got %d", n, exp, c)
		}
	}
}

func TestReadn(t *testing.T) {
	i := newInstance(t, "  -42,\t17\n+3x", new(bytes.Buffer))
	for _, exp := range []struct {
		n    vm.Cell
		term vm.Cell
	}{
		{-42, ','},
		{17, '\n'},
		{3, 'x'},
		{0, vm.EndStreamCh},
	} {
		n := i.Readn()
		term := i.Image.Word(int(vm.KTerminator))
		if n != exp.n || term != exp.term {
			t.Errorf("expected %d (%d), got %d (%d)", exp.n, exp.term, n, term)
		}
	}
}

func TestWrite(t *testing.T) {
	var out bytes.Buffer
	i := newInstance(t, "", &out)
	i.Writed(-32768, 0)
	i.Wrch(' ')
	i.Writed(42, 5)
	i.Wrch(' ')
	i.Writen(-7)
	i.Newline()
	i.WriteHex(-1, 4)
	i.Wrch(' ')
	i.WriteOct(8, 4)
	i.Wrch(' ')
	i.WriteHex(0x1234, 2)
	i.Wrch('\n')
	if err := i.Flush(); err != nil {
		t.Fatal(err)
	}
	exp := "-32768    42 -7\nFFFF 0010 34\n"
	if out.String() != exp {
		t.Errorf("expected %q, got %q", exp, out.String())
	}
}

func TestWritef(t *testing.T) {
	const fmtAddr, strAddr, args = 1000, 1200, 2000
	data := []struct {
		format string
		args   []vm.Cell
		out    string
	}{
		{"X=%i2\n", []vm.Cell{7}, "X= 7\n"},
		{"%x4", []vm.Cell{255}, "00FF"},
		{"%o3", []vm.Cell{8}, "010"},
		{"%n!", []vm.Cell{-12}, "-12!"},
		{"%c%c", []vm.Cell{'h', 'i'}, "hi"},
		{"<%s>", []vm.Cell{strAddr}, "<abc>"},
		{"100%%", nil, "100%"},
		{"%z", nil, "z"},
		{"%iA|", []vm.Cell{5}, "         5|"},
		{"%i0", []vm.Cell{-5}, "-5"},
		{"end%", nil, "end"},
		{"", nil, ""},
	}
	for _, test := range data {
		var out bytes.Buffer
		i := newInstance(t, "", &out)
		i.Image.SetString(fmtAddr, []byte(test.format))
		i.Image.SetString(strAddr, []byte("abc"))
		i.Image.SetWord(args, fmtAddr)
		for k, a := range test.args {
			i.Image.SetWord(args+1+k, a)
		}
		if err := i.Writef(args); err != nil {
			t.Errorf("%q: %+v", test.format, err)
			continue
		}
		i.Flush()
		if out.String() != test.out {
			t.Errorf("%q: expected %q, got %q", test.format, test.out, out.String())
		}
	}
}

func TestStreams(t *testing.T) {
	fs := memFS{"data": {Buffer: bytes.NewBufferString("xy")}}
	var out bytes.Buffer
	i := newInstance(t, "in", &out, vm.Files(fs))

	if h := i.FindInput("SysIn"); h != vm.SysIn {
		t.Errorf("FindInput(SysIn) = %d", h)
	}
	if h := i.FindOutput("sysprint"); h != vm.SysPrint {
		t.Errorf("FindOutput(sysprint) = %d", h)
	}
	if h := i.FindInput("missing"); h != 0 {
		t.Errorf("FindInput(missing) = %d", h)
	}
	if h := i.FindOutput("/denied"); h != 0 {
		t.Errorf("FindOutput(/denied) = %d", h)
	}

	// upper case names fall back to lower case
	in := i.FindInput("DATA")
	if in < 3 {
		t.Fatalf("FindInput(DATA) = %d", in)
	}
	o := i.FindOutput("result")
	if o < 3 || o == in {
		t.Fatalf("FindOutput(result) = %d", o)
	}

	i.SelectInput(in)
	i.SelectOutput(o)
	for c := i.Rdch(); c != vm.EndStreamCh; c = i.Rdch() {
		i.Wrch(byte(c) - 'a' + 'A')
	}
	i.Wrch('\n')
	if err := i.EndWrite(); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := i.EndRead(); err != nil {
		t.Fatalf("%+v", err)
	}
	if f := fs["result"]; f.String() != "XY\n" || !f.closed {
		t.Errorf("bad result file %q, closed: %v", f.String(), f.closed)
	}

	// back to defaults
	if c := i.Rdch(); c != 'i' {
		t.Errorf("expected to read from sysin, got %d", c)
	}
	i.Wrch('!')
	i.Flush()
	if out.String() != "!" {
		t.Errorf("expected output on sysprint, got %q", out.String())
	}

	// unopened handles read end of stream and discard output
	i.SelectInput(42)
	if c := i.Rdch(); c != vm.EndStreamCh {
		t.Errorf("expected end of stream, got %d", c)
	}
	i.SelectOutput(42)
	if err := i.Wrch('?'); err != nil {
		t.Errorf("%+v", err)
	}
	if err := i.Close(); err != nil {
		t.Errorf("%+v", err)
	}
}

func TestRun_files(t *testing.T) {
	// copy the file "in" to "out" with findinput/findoutput and an rdch loop.
	const src = `1 LL10 SP6 L42 K4 SP9 LL11 SP6 L41 K4 SP10
LIP9 SP5 L11 K3 LIP10 SP5 L12 K3
2 L13 K3 SP11 L-1 LIP11 X10 TL3
LIP11 SP5 L14 K3 JL2
3 L47 K3 L46 K3 X4
10 C2 C105 C110
11 C3 C111 C117 C116
G1L1 Z
`
	fs := memFS{"in": {Buffer: bytes.NewBufferString("hello\r\nworld\n")}}
	_, out, res, err := run(t, src, "", vm.Files(fs))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if res != 0 || out != "" {
		t.Errorf("unexpected result %d, output %q", res, out)
	}
	if f, ok := fs["out"]; !ok || f.String() != "hello\n\nworld\n" {
		t.Errorf("bad output file: %v", f)
	}
}

func TestRun_getbyte(t *testing.T) {
	const src = `1 LL9 SP6 L1 SP7 L85 K4 SP9
LL9 SP6 L2 SP7 L90 SP8 L86 K4
LL9 SP6 L2 SP7 L85 K4 LIP9 X8 SP6 L30 K4
9 C3 C65 C66 C67
G1L1 Z
`
	_, _, res, err := run(t, src, "")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if res != 65+90 {
		t.Errorf("expected %d, got %d", 65+90, res)
	}
}

func TestRun_readWrite(t *testing.T) {
	// read two numbers, write their sum with writef.
	const src = `1 L70 K3 SP9 L70 K3 LIP9 X8 SP6 LL9 SP5 L76 K3 X4
9 C5 C37 C105 C52 C33 C10
G1L1 Z
`
	_, out, _, err := run(t, src, "12\n30 ")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if out != "  42!\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestStreams_log(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	i, err := vm.New(
		vm.Input(strings.NewReader("x")),
		vm.Output(brokenWriter{}),
		vm.Files(memFS{}),
		vm.Logger(zap.New(core)))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err = i.Wrch('>'); err != nil {
		t.Fatalf("%+v", err)
	}
	// the pending prompt cannot be flushed, the read goes on
	if c := i.Rdch(); c != 'x' {
		t.Errorf("expected 'x', got %d", c)
	}
	if n := logs.FilterMessage("flush failed").Len(); n != 1 {
		t.Errorf("expected 1 flush failure, got %d", n)
	}

	if h := i.FindInput("missing"); h != 0 {
		t.Errorf("FindInput: expected 0, got %d", h)
	}
	if n := logs.FilterMessage("findinput failed").FilterField(zap.String("name", "missing")).Len(); n != 1 {
		t.Errorf("expected 1 findinput failure for %q, got %d", "missing", n)
	}
	if h := i.FindOutput("/out"); h != 0 {
		t.Errorf("FindOutput: expected 0, got %d", h)
	}
	if n := logs.FilterMessage("findoutput failed").FilterField(zap.String("name", "/out")).Len(); n != 1 {
		t.Errorf("expected 1 findoutput failure for %q, got %d", "/out", n)
	}
}
