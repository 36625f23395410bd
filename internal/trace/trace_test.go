/*
 * avrdbg - Trace log tests
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

package trace

import (
	"os"
	"path/filepath"
	"testing"
)

func tracePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "trace.log")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestRecordWritesOneEdgeLine(t *testing.T) {
	path := tracePath(t)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tr.Record(0, 0x10, true, false, "sub", "do the thing")
	tr.Close()

	want := "00000 -> 00010\n  ; sub do the thing\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("trace = %q, want %q", got, want)
	}
}

func TestRepeatedIdenticalEdgesCollapseToOneLine(t *testing.T) {
	path := tracePath(t)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 5; i++ {
		tr.Record(0x10, 0x20, false, false, "", "")
	}
	tr.Close()

	want := "00010 -> 00020\n  (repeats x5)\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("trace = %q, want exactly one collapsed repeat line: %q", got, want)
	}
}

func TestDistinctEdgeFlushesPriorRepeatBeforeWritingItsOwn(t *testing.T) {
	path := tracePath(t)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tr.Record(0x10, 0x20, false, false, "", "")
	tr.Record(0x10, 0x20, false, false, "", "")
	tr.Record(0x30, 0x40, false, false, "", "")
	tr.Close()

	want := "00010 -> 00020\n  (repeats x2)\n00030 -> 00040\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("trace = %q, want %q", got, want)
	}
}

func TestCallIndentsAndReturnDedents(t *testing.T) {
	path := tracePath(t)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tr.Record(0, 0x10, true, false, "sub", "")  // CALL: depth 0 -> 1
	tr.Record(0x11, 0x01, false, true, "", "")  // RET: depth 1 -> 0
	tr.Close()

	want := "00000 -> 00010\n  ; sub\n  00011 -> 00001\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("trace = %q, want %q", got, want)
	}
}

func TestDepthNeverGoesNegative(t *testing.T) {
	path := tracePath(t)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tr.Record(0, 0x10, false, true, "", "") // a RET with no matching CALL
	if tr.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0 (floored, not negative)", tr.Depth())
	}
	tr.Close()
}

func TestStopPCAutoClosesTrace(t *testing.T) {
	path := tracePath(t)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tr.SetStopPC(0x20)
	if !tr.IsOpen() {
		t.Fatal("trace should be open before the stop PC is reached")
	}
	tr.Record(0x10, 0x20, false, false, "", "")
	if tr.IsOpen() {
		t.Fatal("trace should auto-close once Record observes dst == stopPC")
	}

	want := "00010 -> 00020\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("trace = %q, want %q", got, want)
	}
}

func TestRecordOnNilTraceIsANoop(t *testing.T) {
	var tr *Trace
	tr.Record(0, 1, false, false, "", "") // must not panic
	if tr.Depth() != 0 {
		t.Fatalf("Depth() on a nil *Trace = %d, want 0", tr.Depth())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	path := tracePath(t)
	tr, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tr.Record(0, 1, false, false, "", "")
	tr.Close()
	tr.Close() // must not panic or double-flush
	if tr.IsOpen() {
		t.Fatal("trace should report closed after Close")
	}
}
