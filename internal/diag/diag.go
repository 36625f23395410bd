/*
 * avrdbg - Diagnostic sink and verbose mask
 *
 * Copyright 2026, The avrdbg authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package diag implements the Mcu's diagnostic sink: a bitmask-gated
// verbose channel (spec §4.2/§7) that prints to standard output and offers
// the text to any registered Filter child process.
//
// The gating idiom is lifted from the teacher's util/debug/debug.go
// (module name + bitmask + level all folded into one gate check before a
// Fprintf); the Filter plumbing is grounded on
// _examples/original_source/source/filter.cpp, reworked from raw fork/pipe
// into os/exec.
package diag

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Type is a bitmask of diagnostic categories (spec §7's error taxonomy).
type Type uint32

const (
	ProgError Type = 1 << iota
	DataError
	Eeprom
	NotImplemented
	All = ProgError | DataError | Eeprom | NotImplemented
)

func (t Type) String() string {
	switch t {
	case ProgError:
		return "prog"
	case DataError:
		return "data"
	case Eeprom:
		return "eeprom"
	case NotImplemented:
		return "unimpl"
	default:
		return "diag"
	}
}

// Filter pipes diagnostic text through an external child process and
// prints whatever comes back, prefixed with "=>". Scoped to one Mcu;
// Close terminates the child.
type Filter struct {
	mask Type
	cmd  *exec.Cmd
	in   io.WriteCloser
	out  *bufio.Reader
}

// NewFilter starts command (via "sh -c") and subscribes it to diagnostics
// whose type intersects mask.
func NewFilter(command string, mask Type) (*Filter, error) {
	cmd := exec.Command("sh", "-c", command)
	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &Filter{mask: mask, cmd: cmd, in: in, out: bufio.NewReader(out)}, nil
}

// Send writes text to the filter and returns its (newline-trimmed) reply.
func (f *Filter) Send(text string) (string, bool) {
	if _, err := fmt.Fprintln(f.in, text); err != nil {
		return "", false
	}
	line, err := f.out.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// Close terminates the filter's child process.
func (f *Filter) Close() {
	_ = f.in.Close()
	if f.cmd.Process != nil {
		_ = f.cmd.Process.Kill()
	}
	_ = f.cmd.Wait()
}

// Sink gates and fans out diagnostic text: standard output always, plus
// every registered Filter whose mask intersects the message's type.
type Sink struct {
	Mask    Type // categories enabled for printing at all
	out     io.Writer
	filters []*Filter
}

// NewSink builds a Sink writing to out (nil falls back to os.Stdout via
// the caller, matching util/debug/debug.go's plain *os.File target).
func NewSink(out io.Writer, mask Type) *Sink {
	return &Sink{Mask: mask, out: out}
}

// AddFilter registers a filter to receive diagnostics matching its mask.
func (s *Sink) AddFilter(f *Filter) {
	s.filters = append(s.filters, f)
}

// Verbose emits text if typ is enabled in the sink's mask, then offers it
// to every subscribed filter.
func (s *Sink) Verbose(typ Type, text string) {
	if s.Mask&typ == 0 {
		return
	}
	fmt.Fprintf(s.out, "%s: %s\n", typ, text)
	for _, f := range s.filters {
		if f.mask&typ == 0 {
			continue
		}
		if reply, ok := f.Send(text); ok && reply != "" {
			fmt.Fprintf(s.out, "=> %s\n", reply)
		}
	}
}

// Close terminates every registered filter.
func (s *Sink) Close() {
	for _, f := range s.filters {
		f.Close()
	}
	s.filters = nil
}
