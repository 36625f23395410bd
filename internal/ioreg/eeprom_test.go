/*
 * avrdbg - EEPROM peripheral register tests
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

package ioreg

import "testing"

type hostStub struct {
	ticks  uint64
	eeprom []uint8
	sreg   uint8
	sp     uint16
	eind   uint8
	rampz  uint8
	diags  []string
}

func newHostStub(size int) *hostStub {
	return &hostStub{eeprom: make([]uint8, size)}
}

func (h *hostStub) Ticks() uint64             { return h.ticks }
func (h *hostStub) EepromSize() int           { return len(h.eeprom) }
func (h *hostStub) EepromRead(a uint16) uint8 { return h.eeprom[a] }
func (h *hostStub) EepromWrite(a uint16, v uint8) { h.eeprom[a] = v }
func (h *hostStub) SREG() uint8               { return h.sreg }
func (h *hostStub) SetSREG(v uint8)           { h.sreg = v }
func (h *hostStub) SP() uint16                { return h.sp }
func (h *hostStub) SetSP(v uint16)            { h.sp = v }
func (h *hostStub) EIND() uint8               { return h.eind }
func (h *hostStub) SetEIND(v uint8)           { h.eind = v }
func (h *hostStub) RAMPZ() uint8              { return h.rampz }
func (h *hostStub) SetRAMPZ(v uint8)          { h.rampz = v }
func (h *hostStub) Diag(text string)          { h.diags = append(h.diags, text) }
func (h *hostStub) EepromTrace(read bool, addr uint16, v uint8) {}

func TestEepromWriteCommitsAfterMpeThenPe(t *testing.T) {
	h := newHostStub(16)
	earh, earl, edr, ecr := EepromRegisters()

	earh.Set(h, 0)
	earl.Set(h, 3)
	edr.Set(h, 0x42)

	ecr.Set(h, eempe)         // arm
	ecr.Set(h, eepe)          // commit, EEPM=00 (erase+write)

	if got := h.eeprom[3]; got != 0x42 {
		t.Fatalf("eeprom[3] = %#x, want 0x42", got)
	}
	if ecr.Get(h)&eepe == 0 {
		t.Fatalf("EEPE should read busy immediately after a write")
	}

	h.ticks += eraseWriteTicks
	if ecr.Get(h)&eepe != 0 {
		t.Fatalf("EEPE should clear once the busy window elapses")
	}
}

func TestEepromWriteWithoutArmingIsIgnored(t *testing.T) {
	h := newHostStub(16)
	earh, earl, edr, ecr := EepromRegisters()

	earh.Set(h, 0)
	earl.Set(h, 5)
	edr.Set(h, 0x99)
	ecr.Set(h, eepe) // EEPE without a prior EEMPE write

	if got := h.eeprom[5]; got != 0 {
		t.Fatalf("eeprom[5] = %#x, want 0 (write should not have committed)", got)
	}
}

func TestEepromReadLoadsDataRegister(t *testing.T) {
	h := newHostStub(16)
	h.eeprom[7] = 0xab
	earh, earl, edr, ecr := EepromRegisters()

	earh.Set(h, 0)
	earl.Set(h, 7)
	ecr.Set(h, eere)

	if got := edr.Get(h); got != 0xab {
		t.Fatalf("EEDR = %#x, want 0xab", got)
	}
}

func TestEepromWritesDroppedWhileBusy(t *testing.T) {
	h := newHostStub(16)
	_, earl, edr, ecr := EepromRegisters()

	earl.Set(h, 1)
	edr.Set(h, 0x11)
	ecr.Set(h, eempe)
	ecr.Set(h, eepe) // starts a 34-tick busy window

	edr.Set(h, 0x22) // should be dropped: still busy
	if got := edr.Get(h); got != 0x11 {
		t.Fatalf("EEDR = %#x, want 0x11 (write during busy window should be dropped)", got)
	}
}
