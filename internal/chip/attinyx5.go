/*
 * avrdbg - ATtiny25/45/85 chip factory
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
	"github.com/avrdbg/avrem/internal/diag"
	"github.com/avrdbg/avrem/internal/ioreg"
	"github.com/avrdbg/avrem/internal/mcu"
)

// attinyX5Vectors is the reduced-core interrupt table shared by
// ATtiny25/45/85, grounded on attinyX5.cpp's one-word-per-vector table
// (no JMP/CALL on this core, so vectors are a single RJMP each).
func attinyX5Vectors() []mcu.KnownVector {
	names := []struct{ label, desc string }{
		{"RESET", "External Pin, Power-on Reset, Brown-out Reset, Watchdog Reset"},
		{"IRQ_INT0", "External Interrupt Request 0"},
		{"IRQ_PCINT0", "Pin Change Interrupt Request 0"},
		{"IRQ_TIMER1_COMPA", "Timer/Counter1 Compare Match A"},
		{"IRQ_TIMER1_OVF", "Timer/Counter1 Overflow"},
		{"IRQ_TIMER0_OVF", "Timer/Counter0 Overflow"},
		{"IRQ_EE_RDY", "EEPROM Ready"},
		{"IRQ_ANA_COMP", "Analog Comparator"},
		{"IRQ_ADC", "ADC Conversion Complete"},
		{"IRQ_TIMER1_COMPB", "Timer/Counter1 Compare Match B"},
		{"IRQ_TIMER0_COMPA", "Timer/Counter0 Compare Match A"},
		{"IRQ_TIMER0_COMPB", "Timer/Counter0 Compare Match B"},
		{"IRQ_WDT", "Watchdog Time-out"},
		{"IRQ_USI_START", "USI START"},
		{"IRQ_USI_OVF", "USI Overflow"},
	}
	vecs := make([]mcu.KnownVector, len(names))
	for i, n := range names {
		vecs[i] = mcu.KnownVector{Addr: uint32(i), Label: n.label, Description: n.desc}
	}
	return vecs
}

// newATtinyX5 builds the ATtiny25/45/85 shared core: reduced instruction
// set (no hardware multiplier, no JMP/CALL/EIJMP/EICALL/ELPM -- this
// core's whole flash fits in RJMP/RCALL's ±2Ki-word reach), 64-byte I/O
// window, and the common non-EEPROM peripheral set. Grounded on
// attinyX5.cpp's ATtinyX5 base constructor.
func newATtinyX5(sink *diag.Sink, flashWords, ramBytes, eepromSize int) *mcu.Mcu {
	cfg := mcu.Config{
		FlashWords: flashWords,
		IOBytes:    0x40,
		RAMBytes:   ramBytes,
		EepromSize: eepromSize,
		InitialSP:  uint16(0x20 + 0x40 + ramBytes - 1),
		Descriptors: excludeMnemonics(
			"MUL", "MULS", "MULSU", "FMUL", "FMULS", "FMULSU", "DES",
			"EIJMP", "EICALL", "JMP", "CALL", "ELPM", "XCH", "LAS", "LAC", "LAT"),
	}
	m := mcu.New(cfg, sink)

	installAll(m, []namedReg{
		{0x3F, ioreg.SregRegister{}},
		{0x3E, ioreg.SphRegister{}},
		{0x3D, ioreg.SplRegister{}},
	})

	installAll(m, notImplemented(map[int]string{
		0x3B: "GIMSK", 0x3A: "GIFR", 0x39: "TIMSK", 0x38: "TIFR", 0x37: "SPMCSR",
		0x35: "MCUCR", 0x34: "MCUSR", 0x33: "TCCR0B", 0x32: "TCNT0", 0x31: "OSCCAL",
		0x30: "TCCR1", 0x2F: "TCNT1", 0x2E: "OCR1A", 0x2D: "OCR1C", 0x2C: "GTCCR", 0x2B: "OCR1B",
		0x2A: "TCCR0A", 0x29: "OCR0A", 0x28: "OCR0B", 0x27: "PLLCSR", 0x26: "CLKPR",
		0x25: "DT1A", 0x24: "DT1B", 0x23: "DTPS1", 0x22: "DWDR", 0x21: "WDTCR", 0x20: "PRR",
		0x18: "PORTB", 0x17: "DDRB", 0x16: "PINB", 0x15: "PCMSK", 0x14: "DIDR0",
		0x13: "GPIOR2", 0x12: "GPIOR1", 0x11: "GPIOR0",
		0x10: "USIBR", 0x0F: "USIDR", 0x0E: "USISR", 0x0D: "USICR",
		0x08: "ACSR", 0x07: "ADMUX", 0x06: "ADCSRA", 0x05: "ADCH", 0x04: "ADCL", 0x03: "ADCSRB",
	}))

	m.SetKnownVectors(attinyX5Vectors())
	return m
}

// NewATtiny85 builds the 8Ki-flash/512-RAM/512-EEPROM part, the only one
// of the three with a 16-bit EEPROM address (EEARH present).
func NewATtiny85(sink *diag.Sink) *mcu.Mcu {
	m := newATtinyX5(sink, 0x2000/2, 0x200, 0x200)
	eearh, eearl, eedr, eecr := ioreg.EepromRegisters()
	installAll(m, []namedReg{
		{0x1F, eearh},
		{0x1E, eearl},
		{0x1D, eedr},
		{0x1C, eecr},
	})
	return m
}

// NewATtiny45 builds the 4Ki-flash/256-RAM/256-EEPROM part.
func NewATtiny45(sink *diag.Sink) *mcu.Mcu {
	m := newATtinyX5(sink, 0x1000/2, 0x100, 0x100)
	_, eearl, eedr, eecr := ioreg.EepromRegisters()
	installAll(m, []namedReg{
		{0x1E, eearl},
		{0x1D, eedr},
		{0x1C, eecr},
	})
	return m
}

// NewATtiny25 builds the 2Ki-flash/128-RAM/128-EEPROM part.
func NewATtiny25(sink *diag.Sink) *mcu.Mcu {
	m := newATtinyX5(sink, 0x800/2, 0x80, 0x80)
	_, eearl, eedr, eecr := ioreg.EepromRegisters()
	installAll(m, []namedReg{
		{0x1E, eearl},
		{0x1D, eedr},
		{0x1C, eecr},
	})
	return m
}
