/*
 * avrdbg - Call/return trace log
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

// Package trace implements the optional call/return log of spec §4.5: an
// append-only file tracking the current call depth, collapsing repeated
// identical edges, and auto-closing at a configured stop PC.
//
// The teacher has no direct analogue for a sequential trace file (S/370's
// nearest relative, emu/event's event log, is an in-memory ring, not a
// file sink) — this stays on plain stdlib bufio/os, matching how the
// teacher itself reaches for stdlib io when wrapping a writer in
// util/logger rather than pulling in a logging framework for one file.
package trace

import (
	"bufio"
	"fmt"
	"os"
)

// Trace is owned by exactly one Mcu; Close releases its file handle.
type Trace struct {
	file  *os.File
	w     *bufio.Writer
	stopPC uint32
	haveStop bool

	depth int

	lastSrc, lastDst uint32
	haveLast         bool
	lastIsCall       bool
	lastIsReturn     bool
	lastIndent       string
	repeat           int
}

// Open starts a trace writing to path, truncating any existing file.
func Open(path string) (*Trace, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Trace{file: f, w: bufio.NewWriter(f)}, nil
}

// SetStopPC arms the trace to auto-close once Record observes dst == pc.
func (t *Trace) SetStopPC(pc uint32) {
	t.stopPC = pc
	t.haveStop = true
}

// Record appends one taken-branch edge. Adjacent identical (src,dst,
// isCall, isReturn) edges collapse into a single line with a repeat
// count; a call edge increments the indentation, a return edge
// decrements it (floored at zero — an imbalance is tolerated, not
// repaired, per spec §4.5/§8).
func (t *Trace) Record(src, dst uint32, isCall, isReturn bool, label, description string) {
	if t == nil {
		return
	}
	if t.haveLast && t.lastSrc == src && t.lastDst == dst &&
		t.lastIsCall == isCall && t.lastIsReturn == isReturn {
		t.repeat++
	} else {
		t.flushRepeat()
		t.lastSrc, t.lastDst = src, dst
		t.lastIsCall, t.lastIsReturn = isCall, isReturn
		t.lastIndent = t.indent()
		t.repeat = 1
		t.haveLast = true
		t.writeEdge(label, description)
	}

	if isReturn {
		if t.depth > 0 {
			t.depth--
		}
	}
	if isCall {
		t.depth++
	}

	if t.haveStop && dst == t.stopPC {
		t.Close()
	}
}

func (t *Trace) indent() string {
	s := make([]byte, t.depth*2)
	for i := range s {
		s[i] = ' '
	}
	return string(s)
}

func (t *Trace) writeEdge(label, description string) {
	fmt.Fprintf(t.w, "%s%05x -> %05x\n", t.indent(), t.lastSrc, t.lastDst)
	if t.lastIsCall && label != "" {
		if description != "" {
			fmt.Fprintf(t.w, "%s  ; %s %s\n", t.indent(), label, description)
		} else {
			fmt.Fprintf(t.w, "%s  ; %s\n", t.indent(), label)
		}
	}
}

// flushRepeat appends a single "(repeats xN)" line summarizing every
// repetition of the just-finished edge, if it repeated at all. Called
// right before a new, distinct edge is written (and from Close, for the
// final edge) so adjacent identical edges collapse into exactly one
// trailing line instead of one line per repetition -- the writer stays
// append-only (no seeking back into an already-written line), it just
// defers the summary line until the repeat count is final.
func (t *Trace) flushRepeat() {
	if t.repeat > 1 {
		fmt.Fprintf(t.w, "%s  (repeats x%d)\n", t.lastIndent, t.repeat)
	}
}

// Depth returns the current call-depth indentation level.
func (t *Trace) Depth() int {
	if t == nil {
		return 0
	}
	return t.depth
}

// Close flushes and releases the trace file. Safe to call more than once.
func (t *Trace) Close() {
	if t == nil || t.file == nil {
		return
	}
	t.flushRepeat()
	t.haveLast = false
	_ = t.w.Flush()
	_ = t.file.Close()
	t.file = nil
}

// IsOpen reports whether the trace still owns a live file handle.
func (t *Trace) IsOpen() bool {
	return t != nil && t.file != nil
}
