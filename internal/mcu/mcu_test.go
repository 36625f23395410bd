/*
 * avrdbg - Mcu core tests
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

package mcu

import (
	"testing"

	"github.com/avrdbg/avrem/internal/diag"
)

func newTestMcu(t *testing.T) *Mcu {
	t.Helper()
	sink := diag.NewSink(&discard{}, diag.All)
	return New(Config{FlashWords: 64, IOBytes: 64, RAMBytes: 0x1a0, EepromSize: 16, InitialSP: 0x1ff}, sink)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestAddFlags(t *testing.T) {
	m := newTestMcu(t)
	m.Reset(0x1ff)
	m.regs[16] = 0x80
	m.regs[17] = 0x80
	// ADD r16,r17, encoded from the 0000 11rd dddd rrrr pattern.
	cmd := uint16(0x0c00) | uint16(16)<<4 | uint16(17)&0x10<<5 | uint16(17)&0xf
	m.SetFlash(0, []uint16{cmd})
	m.Execute()

	if m.regs[16] != 0 {
		t.Fatalf("r16 = %#x, want 0", m.regs[16])
	}
	if m.sreg&flagZ == 0 {
		t.Fatalf("Z flag not set")
	}
	if m.sreg&flagC == 0 {
		t.Fatalf("C flag not set")
	}
	if m.sreg&flagV == 0 {
		t.Fatalf("V flag not set")
	}
	if m.sreg&flagN != 0 {
		t.Fatalf("N flag should be clear")
	}
	if m.sreg&flagH != 0 {
		t.Fatalf("H flag should be clear")
	}
	wantS := (m.sreg&flagN != 0) != (m.sreg&flagV != 0)
	gotS := m.sreg&flagS != 0
	if gotS != wantS {
		t.Fatalf("S flag = %v, want N xor V = %v", gotS, wantS)
	}
}

func TestCallReturnSymmetry(t *testing.T) {
	m := newTestMcu(t)
	m.Reset(0x1ff)
	// CALL 0x10 ; NOP ; ... ; at 0x10: NOP ; RET
	callLo := uint16(0x10)
	cmd1 := uint16(0x940e) // CALL, bits for absolute addr split across two words; lo bits of hi word stay 0 for a small target
	flash := make([]uint16, 20)
	flash[0] = cmd1
	flash[1] = callLo
	flash[2] = 0x0000 // NOP (fallthrough target)
	flash[0x10] = 0x0000
	flash[0x11] = 0x9508 // RET
	m.SetFlash(0, flash)

	spBefore := m.sp
	m.Execute() // CALL
	if m.PC != 0x10 {
		t.Fatalf("PC after CALL = %#x, want 0x10", m.PC)
	}
	if len(m.stackFrames) != 1 {
		t.Fatalf("expected 1 stack frame after CALL, got %d", len(m.stackFrames))
	}
	m.Execute() // NOP at 0x10
	m.Execute() // RET at 0x11
	if m.PC != 2 {
		t.Fatalf("PC after RET = %#x, want 2 (fall-through NOP)", m.PC)
	}
	if m.sp != spBefore {
		t.Fatalf("SP after RET = %#x, want %#x", m.sp, spBefore)
	}
	if len(m.stackFrames) != 0 {
		t.Fatalf("expected 0 stack frames after RET, got %d", len(m.stackFrames))
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	m := newTestMcu(t)
	m.Reset(0x1ff)
	spBefore := m.sp
	m.Push(0x42)
	v := m.Pop()
	if v != 0x42 {
		t.Fatalf("Pop() = %#x, want 0x42", v)
	}
	if m.sp != spBefore {
		t.Fatalf("SP after PUSH+POP = %#x, want %#x", m.sp, spBefore)
	}
}

func TestPushPopPCRoundTrip16Bit(t *testing.T) {
	m := newTestMcu(t)
	m.Reset(0x1ff)
	spBefore := m.sp
	m.PushPC(0x1234)
	pc := m.PopPC()
	if pc != 0x1234 {
		t.Fatalf("PopPC() = %#x, want 0x1234", pc)
	}
	if m.sp != spBefore {
		t.Fatalf("SP after PushPC+PopPC = %#x, want %#x", m.sp, spBefore)
	}
}

func TestPushPopPCRoundTrip22Bit(t *testing.T) {
	sink := diag.NewSink(&discard{}, diag.All)
	m := New(Config{FlashWords: 1 << 18, IOBytes: 64, RAMBytes: 0x1a0, EepromSize: 16, InitialSP: 0x1ff, Wide: true}, sink)
	spBefore := m.sp
	m.PushPC(0x2abcd)
	pc := m.PopPC()
	if pc != 0x2abcd {
		t.Fatalf("PopPC() = %#x, want 0x2abcd", pc)
	}
	if m.sp != spBefore {
		t.Fatalf("SP mismatch after 22-bit PushPC+PopPC")
	}
}

func TestDispatchTableCompleteness(t *testing.T) {
	descs := AllDescriptors()
	table := BuildTable(descs)
	for _, d := range descs {
		found := false
		free := ^d.Mask
		for m := free; ; m = (m - 1) & free {
			cmd := d.Pattern | m
			if table[cmd] == d {
				found = true
				break
			}
			if m == 0 {
				break
			}
		}
		if !found {
			t.Errorf("descriptor %s: no opcode in its (pattern,mask) range resolves to it", d.Mnemonic)
		}
	}
}

func TestOverlappingEncodingRegistrationOrder(t *testing.T) {
	descs := AllDescriptors()
	table := BuildTable(descs)
	// LD r0,Z (q=0) must resolve to the plain-Z descriptor, not LDD.
	cmd := uint16(0x8000)
	d := table[cmd]
	if d == nil || d.Mnemonic != "LD" {
		t.Fatalf("opcode %#x resolved to %v, want the zero-displacement LD Z form", cmd, d)
	}
}

func TestRJMPWraparound(t *testing.T) {
	m := newTestMcu(t)
	m.Reset(0x1ff)
	// RJMP with k12 == -2048 from PC 0.
	cmd := uint16(0xc000) | uint16(int32(-2048)&0xfff)
	m.SetFlash(0, []uint16{cmd})
	m.Execute()
	want := wrapPC(m, int64(1)+int64(-2048))
	if m.PC != want {
		t.Fatalf("PC after RJMP -2048 = %#x, want %#x", m.PC, want)
	}
}
