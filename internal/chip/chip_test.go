/*
 * avrdbg - Chip factory tests
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

package chip

import (
	"bytes"
	"strings"
	"testing"

	"github.com/avrdbg/avrem/internal/diag"
	"github.com/avrdbg/avrem/internal/ioreg"
	"github.com/avrdbg/avrem/internal/mcu"
)

func newTestSink() (*diag.Sink, *bytes.Buffer) {
	var buf bytes.Buffer
	return diag.NewSink(&buf, diag.All), &buf
}

// factories lists every constructor a debugger session can select by
// name; exercised table-driven so adding a part later only means adding
// a row here.
func factories() map[string]func(*diag.Sink) *mcu.Mcu {
	return map[string]func(*diag.Sink) *mcu.Mcu{
		"ATmega328P":    NewATmega328P,
		"ATmega168PA":   NewATmega168PA,
		"ATmega88PA":    NewATmega88PA,
		"ATmega48PA":    NewATmega48PA,
		"ATmega2560":    NewATmega2560,
		"ATtiny85":      NewATtiny85,
		"ATtiny45":      NewATtiny45,
		"ATtiny25":      NewATtiny25,
		"ATxmega128A4U": NewATxmega128A4U,
		"ATxmega64A4U":  NewATxmega64A4U,
		"ATxmega32A4U":  NewATxmega32A4U,
	}
}

func TestFactoriesBuildWithoutPanic(t *testing.T) {
	for name, newChip := range factories() {
		t.Run(name, func(t *testing.T) {
			sink, _ := newTestSink()
			m := newChip(sink)
			if m == nil {
				t.Fatal("constructor returned nil *Mcu")
			}
		})
	}
}

func TestSregRegisterInstalled(t *testing.T) {
	// SREG lives at 0x3F above the I/O base on every core this package
	// builds; a byte written through Data must read back unchanged since
	// SregRegister is a plain passthrough.
	for name, newChip := range factories() {
		t.Run(name, func(t *testing.T) {
			sink, _ := newTestSink()
			m := newChip(sink)
			var sregAddr uint16 = 0x20 + 0x3F
			if strings.HasPrefix(name, "ATxmega") {
				sregAddr = 0x3F
			}
			m.SetData(sregAddr, 0x81)
			if got := m.Data(sregAddr); got != 0x81 {
				t.Errorf("SREG readback = %#x, want 0x81", got)
			}
			if m.SREG() != 0x81 {
				t.Errorf("SREG() = %#x, want 0x81", m.SREG())
			}
		})
	}
}

func TestExcludedMnemonicIsUndecodable(t *testing.T) {
	// DES (pattern 0x940B) is excluded on every classic ATmega/ATtiny part
	// this package builds, so executing its opcode there must fall through
	// to the "undecodable opcode" diagnostic rather than dispatching. The
	// ATxmega parts carry the full instruction set, so DES dispatches there.
	for name, newChip := range factories() {
		t.Run(name, func(t *testing.T) {
			sink, buf := newTestSink()
			m := newChip(sink)
			m.SetFlash(0, []uint16{0x940B})
			m.Execute()
			undecodable := strings.Contains(buf.String(), "undecodable opcode")
			if xmega := strings.HasPrefix(name, "ATxmega"); xmega == undecodable {
				t.Errorf("DES on %s: undecodable-opcode diagnostic = %v, want %v; got: %s", name, undecodable, !xmega, buf.String())
			}
		})
	}
}

func TestReducedCoreRejectsJMP(t *testing.T) {
	// ATmega88PA/48PA and every ATtinyX5 have no JMP/CALL (their flash
	// fits RJMP/RCALL's ±2Ki-word reach); JMP's opcode (0x940C) must be
	// undecodable on these parts.
	reduced := map[string]func(*diag.Sink) *mcu.Mcu{
		"ATmega88PA": NewATmega88PA,
		"ATmega48PA": NewATmega48PA,
		"ATtiny85":   NewATtiny85,
		"ATtiny45":   NewATtiny45,
		"ATtiny25":   NewATtiny25,
	}
	for name, newChip := range reduced {
		t.Run(name, func(t *testing.T) {
			sink, buf := newTestSink()
			m := newChip(sink)
			m.SetFlash(0, []uint16{0x940C, 0x0000})
			m.Execute()
			if !strings.Contains(buf.String(), "undecodable opcode") {
				t.Errorf("expected JMP to be undecodable on %s, got: %s", name, buf.String())
			}
		})
	}
}

func TestFullCoreAcceptsJMP(t *testing.T) {
	// ATmega328P/168PA/2560/XMEGA parts all support JMP; the same opcode
	// must dispatch cleanly (PC lands on the literal target word, here 0).
	full := map[string]func(*diag.Sink) *mcu.Mcu{
		"ATmega328P":    NewATmega328P,
		"ATmega168PA":   NewATmega168PA,
		"ATmega2560":    NewATmega2560,
		"ATxmega128A4U": NewATxmega128A4U,
	}
	for name, newChip := range full {
		t.Run(name, func(t *testing.T) {
			sink, buf := newTestSink()
			m := newChip(sink)
			m.SetFlash(0, []uint16{0x940C, 0x0000}) // JMP 0
			m.Execute()
			if strings.Contains(buf.String(), "undecodable opcode") {
				t.Errorf("JMP should be decodable on %s, got: %s", name, buf.String())
			}
		})
	}
}

func TestKnownVectorsSeedXrefTable(t *testing.T) {
	for name, newChip := range factories() {
		t.Run(name, func(t *testing.T) {
			sink, _ := newTestSink()
			m := newChip(sink)
			m.SetFlash(0, []uint16{0x0000}) // triggers RunXrefAnalyzer
			entry, ok := m.Xrefs().ByAddr(0)
			if !ok {
				t.Fatalf("reset vector (addr 0) missing from xref table on %s", name)
			}
			if entry.Label != "RESET" {
				t.Errorf("reset vector label = %q, want RESET", entry.Label)
			}
		})
	}
}

func TestEepromRegistersShareOneController(t *testing.T) {
	// NewATmega328P wires EEARL/EEDR/EECR from a single EepromRegisters()
	// call; driving the EEMPE-then-EEPE write sequence through Mcu.Data
	// must commit to the same backing byte Mcu.EepromRead reports,
	// proving the three registers address one controller instance.
	sink, _ := newTestSink()
	m := NewATmega328P(sink)

	const eearl, eedr, eecr = 0x20 + 0x21, 0x20 + 0x20, 0x20 + 0x1F
	m.SetData(eearl, 0x05)
	m.SetData(eedr, 0x42)
	m.SetData(eecr, 0x04) // EEMPE: arm
	m.SetData(eecr, 0x06) // EEMPE|EEPE: commit

	if got := m.EepromRead(0x05); got != 0x42 {
		t.Errorf("eeprom[5] = %#x, want 0x42", got)
	}
}

func TestEindRampzOnlyOnWideParts(t *testing.T) {
	// EIND/RAMPZ back EIJMP/EICALL/ELPM's extended addressing and are
	// only meaningful (and only installed as IO registers) on the
	// 22-bit-PC ATmega2560 and on XMEGA parts.
	sink, _ := newTestSink()
	m := NewATmega2560(sink)
	const eindAddr, rampzAddr = 0x20 + 0x3C, 0x20 + 0x3B
	m.SetData(eindAddr, 0x01)
	if m.EIND() != 0x01 {
		t.Errorf("EIND() = %#x, want 0x01", m.EIND())
	}
	m.SetData(rampzAddr, 0x02)
	if m.RAMPZ() != 0x02 {
		t.Errorf("RAMPZ() = %#x, want 0x02", m.RAMPZ())
	}
}

func TestNotImplementedRegisterWarnsOnAccess(t *testing.T) {
	sink, buf := newTestSink()
	m := NewATmega328P(sink)
	m.SetData(0x20+0x2C, 0x00) // SPCR, stubbed NotImplemented on this family
	if !strings.Contains(buf.String(), "SPCR") {
		t.Errorf("expected a diagnostic naming SPCR, got: %s", buf.String())
	}
}

func TestNotImplementedHelperBuildsInstallableRegs(t *testing.T) {
	regs := notImplemented(map[int]string{0x10: "FOO"})
	if len(regs) != 1 || regs[0].offset != 0x10 {
		t.Fatalf("notImplemented returned %+v, want one entry at offset 0x10", regs)
	}
	if _, ok := regs[0].reg.(ioreg.Register); !ok {
		t.Fatalf("notImplemented entry does not satisfy ioreg.Register")
	}
}
