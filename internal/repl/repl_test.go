/*
 * avrdbg - REPL command tests
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

package repl

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/avrdbg/avrem/internal/chip"
	"github.com/avrdbg/avrem/internal/diag"
	"github.com/avrdbg/avrem/internal/xref"
)

func newSession(t *testing.T) (*Session, *strings.Builder) {
	t.Helper()
	var diagBuf strings.Builder
	sink := diag.NewSink(&diagBuf, diag.All)
	m := chip.NewATmega328P(sink)
	var out strings.Builder
	return &Session{Mcu: m, Out: &out}, &out
}

func TestStepInAdvancesPC(t *testing.T) {
	s, out := newSession(t)
	s.Mcu.SetFlash(0, []uint16{0xE005, 0xE010, 0x0F01, 0x940C, 0x0000, 0x0000})

	quit, err := s.Process("s")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if quit {
		t.Fatal("step should not quit")
	}
	if s.Mcu.PC != 1 {
		t.Errorf("PC = %d, want 1", s.Mcu.PC)
	}
	if !strings.Contains(out.String(), "PC=") {
		t.Errorf("expected status line, got %q", out.String())
	}
}

func TestStepInWithCount(t *testing.T) {
	s, _ := newSession(t)
	s.Mcu.SetFlash(0, []uint16{0xE005, 0xE010, 0x0F01, 0x940C, 0x0000, 0x0000})

	if _, err := s.Process("s 2"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.PC != 2 {
		t.Errorf("PC = %d, want 2", s.Mcu.PC)
	}
}

func TestStepOverSkipsCallBody(t *testing.T) {
	// RCALL +1 (skip the next word), then NOP at the fall-through address.
	// desc.IsCall must be true for RCALL so "n 1" runs the call to
	// completion rather than single-stepping into it.
	s, _ := newSession(t)
	s.Mcu.SetFlash(0, []uint16{0xD001, 0x0000, 0x9508, 0x0000})

	if _, err := s.Process("n 1"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.PC != 1 {
		t.Errorf("PC = %05x, want 1 (fall-through after the call returns)", s.Mcu.PC)
	}
}

func TestEmptyLineRepeatsLastCommand(t *testing.T) {
	s, _ := newSession(t)
	s.Mcu.SetFlash(0, []uint16{0xE005, 0xE010, 0x0F01, 0x940C, 0x0000, 0x0000})

	if _, err := s.Process("s"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := s.Process(""); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.PC != 2 {
		t.Errorf("PC = %d, want 2 after step then repeat", s.Mcu.PC)
	}
}

func TestEmptyLineWithNoPriorCommandDoesNothing(t *testing.T) {
	s, _ := newSession(t)
	quit, err := s.Process("")
	if err != nil || quit {
		t.Fatalf("Process(\"\") with no history: quit=%v err=%v", quit, err)
	}
}

func TestGotoNumericAddress(t *testing.T) {
	s, _ := newSession(t)
	if _, err := s.Process("g 0x10"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.PC != 0x10 {
		t.Errorf("PC = %#x, want 0x10", s.Mcu.PC)
	}
}

func TestGotoLabel(t *testing.T) {
	s, _ := newSession(t)
	if err := s.Mcu.Xrefs().Seed(0x20, xref.Jmp, "loop", "main loop"); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if _, err := s.Process("g loop"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.PC != 0x20 {
		t.Errorf("PC = %#x, want 0x20", s.Mcu.PC)
	}
}

func TestGotoUnknownLabelReportsIllegalValue(t *testing.T) {
	s, out := newSession(t)
	quit, err := s.Process("g nosuch")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if quit {
		t.Fatal("should not quit")
	}
	if !strings.Contains(out.String(), "illegal value") {
		t.Errorf("expected illegal value message, got %q", out.String())
	}
}

func TestAssignRegister(t *testing.T) {
	s, _ := newSession(t)
	if _, err := s.Process("r16=0x2a"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.Regs()[16] != 0x2a {
		t.Errorf("r16 = %#x, want 0x2a", s.Mcu.Regs()[16])
	}
}

func TestAssignRegisterOutOfRangeRejected(t *testing.T) {
	s, out := newSession(t)
	if _, err := s.Process("r16=0x100"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.Regs()[16] != 0 {
		t.Errorf("r16 should be unchanged, got %#x", s.Mcu.Regs()[16])
	}
	if !strings.Contains(out.String(), "illegal value") {
		t.Errorf("expected illegal value message, got %q", out.String())
	}
}

func TestAssignDataMemory(t *testing.T) {
	s, _ := newSession(t)
	if _, err := s.Process("d0x100=0x55"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := s.Mcu.Data(0x100); got != 0x55 {
		t.Errorf("data[0x100] = %#x, want 0x55", got)
	}
}

func TestAssignProgramWord(t *testing.T) {
	s, _ := newSession(t)
	s.Mcu.SetFlash(0, []uint16{0x0000, 0x0000})
	if _, err := s.Process("p0=0x940c"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := s.Mcu.Program(0); got != 0x940c {
		t.Errorf("program[0] = %#x, want 0x940c", got)
	}
}

func TestListDisassemblyDoesNotMovePC(t *testing.T) {
	s, _ := newSession(t)
	s.Mcu.SetFlash(0, []uint16{0xE005, 0xE010, 0x0F01, 0x940C, 0x0000, 0x0000})
	s.Mcu.PC = 1

	quit, err := s.Process("l 0 2")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if quit {
		t.Fatal("list should not quit")
	}
	if s.Mcu.PC != 1 {
		t.Errorf("PC = %d, want unchanged 1", s.Mcu.PC)
	}
}

func TestListLabelsPrintsSeededEntries(t *testing.T) {
	s, out := newSession(t)
	if err := s.Mcu.Xrefs().Seed(0x40, xref.Data, "counter", "running total"); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if _, err := s.Process("ll"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(out.String(), "counter") || !strings.Contains(out.String(), "running total") {
		t.Errorf("expected listed label/description, got %q", out.String())
	}
}

func TestQuitSetsQuit(t *testing.T) {
	s, _ := newSession(t)
	quit, err := s.Process("q")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !quit {
		t.Error("expected quit to be true")
	}
}

func TestHelpListsCommands(t *testing.T) {
	s, out := newSession(t)
	if _, err := s.Process("?"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(out.String(), "repeat last command") {
		t.Errorf("expected help text, got %q", out.String())
	}
}

func TestUnknownCommandReportsAndClearsLast(t *testing.T) {
	s, out := newSession(t)
	s.Mcu.SetFlash(0, []uint16{0xE005, 0x0000})

	if _, err := s.Process("s"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := s.Process("bogus"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(out.String(), `unknown command`) {
		t.Errorf("expected unknown command message, got %q", out.String())
	}

	pc := s.Mcu.PC
	if _, err := s.Process(""); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.PC != pc {
		t.Errorf("empty line after an unknown command should do nothing, PC moved from %d to %d", pc, s.Mcu.PC)
	}
}

func TestTraceOpenThenCloseReportsBothMessages(t *testing.T) {
	s, out := newSession(t)
	path := filepath.Join(t.TempDir(), "trace.log")

	quit, err := s.Process("t " + path)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if quit {
		t.Fatal("opening a trace should not quit")
	}
	if s.Mcu.Trace() == nil || !s.Mcu.Trace().IsOpen() {
		t.Fatal("trace should be open after \"t <file>\"")
	}

	if _, err := s.Process("t"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.Trace().IsOpen() {
		t.Fatal("trace should be closed after \"t\" with no argument")
	}
	if got := out.String(); !strings.Contains(got, "trace file closed") {
		t.Errorf("output = %q, want a \"trace file closed\" line", got)
	}
}

func TestTraceOpenTwiceReportsAlreadyOpen(t *testing.T) {
	s, out := newSession(t)
	path := filepath.Join(t.TempDir(), "trace.log")

	if _, err := s.Process("t " + path); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := s.Process("t " + path); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "trace file already open") {
		t.Errorf("output = %q, want a \"trace file already open\" line", got)
	}
}

func TestTraceCloseWithNoneOpenReportsNotOpen(t *testing.T) {
	s, out := newSession(t)

	if _, err := s.Process("t"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "trace file not open") {
		t.Errorf("output = %q, want a \"trace file not open\" line", got)
	}
}

func TestTraceWithStopAddrClosesOnceReached(t *testing.T) {
	s, _ := newSession(t)
	path := filepath.Join(t.TempDir(), "trace.log")
	// RJMP +1 (0xC001) at 0, NOP at 2: PC goes 0 -> 2, a taken non-fallthrough
	// edge that Mcu.Execute records and then auto-closes on, since the
	// stop address (2) matches the jump's destination.
	s.Mcu.SetFlash(0, []uint16{0xC001, 0x0000, 0x0000})

	if _, err := s.Process("t " + path + " 2"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	s.Mcu.Execute()

	if s.Mcu.Trace().IsOpen() {
		t.Error("trace should have auto-closed once PC reached the stop address")
	}
}

func TestInterruptStopsStepOverLoop(t *testing.T) {
	// A long-running step-over count should stop as soon as Interrupt is
	// called, mirroring execute.cpp's SigInt-checked loop.
	s, _ := newSession(t)
	s.Mcu.SetFlash(0, []uint16{0x0000, 0x0000, 0x0000, 0x0000})
	s.Interrupt()

	if _, err := s.Process("n 1000"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if s.Mcu.PC >= 1000 {
		t.Errorf("PC = %d, expected the interrupt to cut the loop short", s.Mcu.PC)
	}
}
