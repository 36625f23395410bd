/*
 * avrdbg - ATmega48/88/168/328 family chip factory
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

// atmegaXX8Vectors is the 328P/168PA reset/interrupt vector table, two
// words per vector (ignoring the BOOTRST/IVSEL fuse, as the original
// does). 88PA/48PA share the same interrupt sources but one word apart,
// since they have no JMP/CALL and so start from a one-word RESET vector.
// The reset vector is labelled RESET; every other vector uses its
// description text as its label.
func atmegaXX8Vectors(step uint32) []mcu.KnownVector {
	names := []string{
		"External Pin, Power-on Reset, Brown-out Reset and Watchdog System Reset",
		"External Interrupt Request 0",
		"External Interrupt Request 1",
		"Pin Change Interrupt Request 0",
		"Pin Change Interrupt Request 1",
		"Pin Change Interrupt Request 2",
		"Watchdog Time-out Interrupt",
		"Timer/Counter2 Compare Match A",
		"Timer/Counter2 Compare Match B",
		"Timer/Counter2 Overflow",
		"Timer/Counter1 Capture Event",
		"Timer/Counter1 Compare Match A",
		"Timer/Counter1 Compare Match B",
		"Timer/Counter1 Overflow",
		"Timer/Counter0 Compare Match A",
		"Timer/Counter0 Compare Match B",
		"Timer/Counter0 Overflow",
		"SPI Serial Transfer Complete",
		"USART Rx Complete",
		"USART, Data Register Empty",
		"USART, Tx Complete",
		"ADC Conversion Complete",
		"EEPROM Ready",
		"Analog Comparator",
		"2-wire Serial Interface",
		"Store Program Memory Ready",
	}
	vecs := make([]mcu.KnownVector, 0, len(names))
	for i, desc := range names {
		label := desc
		if i == 0 {
			label = "RESET"
		}
		vecs = append(vecs, mcu.KnownVector{Addr: uint32(i) * step, Label: label, Description: desc})
	}
	return vecs
}

// newATmegaXX8 builds the shared ATmega48PA/88PA/168PA/328P core: common
// instruction subset, common peripheral registers, and the per-part
// flash/RAM/EEPROM sizes and known-vector spacing. Grounded on
// atmegaXX8.cpp's ATmegaXX8 base constructor plus each subclass's
// AddInstruction/vector-table overrides.
func newATmegaXX8(sink *diag.Sink, flashWords, ramBytes, eepromSize int, hasJmpCall, hasEearh bool) *mcu.Mcu {
	exclude := []string{"DES", "EIJMP", "EICALL", "XCH", "LAS", "LAC", "LAT", "ELPM"}
	if !hasJmpCall {
		exclude = append(exclude, "JMP", "CALL")
	}
	cfg := mcu.Config{
		FlashWords:  flashWords,
		IOBytes:     0x00e0,
		RAMBytes:    ramBytes,
		EepromSize:  eepromSize,
		InitialSP:   uint16(0x20 + 0x00e0 + ramBytes - 1),
		Descriptors: excludeMnemonics(exclude...),
	}
	m := mcu.New(cfg, sink)

	// The register tables below list datasheet data-space addresses;
	// SetIO takes offsets relative to the 0x20 I/O window base.
	toIO := func(regs []namedReg) []namedReg {
		for i := range regs {
			regs[i].offset -= 0x20
		}
		return regs
	}

	eearh, eearl, eedr, eecr := ioreg.EepromRegisters()

	regs := []namedReg{
		{0x5F, ioreg.SregRegister{}},
		{0x5E, ioreg.SphRegister{}},
		{0x5D, ioreg.SplRegister{}},
		{0x41, eearl},
		{0x40, eedr},
		{0x3F, eecr},
	}
	if hasEearh {
		regs = append(regs, namedReg{0x42, eearh})
	}
	installAll(m, toIO(regs))

	// The classic core's UART predates the XMEGA Data/Status/CtrlA-C
	// register shape internal/ioreg.Usart models (atmegaXX8.cpp itself
	// leaves USART0 as IoRegisterNotImplemented; only the XMEGA-style
	// parts wire up a live ioreg.Usart).
	installAll(m, toIO(notImplemented(map[int]string{
		0xC5: "UBRR0H", 0xC4: "UBRR0L", 0xC2: "UCSR0C", 0xC1: "UCSR0B", 0xC0: "UCSR0A",
		0xBD: "TWAMR", 0xBC: "TWCR", 0xBB: "TWDR", 0xBA: "TWAR", 0xB9: "TWSR", 0xB8: "TWBR",
		0xB6: "ASSR", 0xB4: "OCR2B", 0xB3: "OCR2A", 0xB2: "TCNT2", 0xB1: "TCCR2B", 0xB0: "TCCR2A",
		0x8B: "OCR1BH", 0x8A: "OCR1BL", 0x89: "OCR1AH", 0x88: "OCR1AL", 0x87: "ICR1H", 0x86: "ICR1L",
		0x85: "TCNT1H", 0x84: "TCNT1L", 0x82: "TCCR1C", 0x81: "TCCR1B", 0x80: "TCCR1A",
		0x7F: "DIDR1", 0x7E: "DIDR0", 0x7C: "ADMUX", 0x7B: "ADCSRB", 0x7A: "ADCSRA", 0x79: "ADCH", 0x78: "ADCL",
		0x70: "TIMSK2", 0x6F: "TIMSK1", 0x6E: "TIMSK0", 0x6D: "PCMSK2", 0x6C: "PCMSK1", 0x6B: "PCMSK0",
		0x69: "EICRA", 0x68: "PCICR", 0x66: "OSCCAL", 0x64: "PRR", 0x61: "CLKPR", 0x60: "WDTCSR",
		0x57: "SPMCSR", 0x55: "MCUCR", 0x54: "MCUSR", 0x53: "SMCR", 0x50: "ACSR",
		0x4E: "SPDR", 0x4D: "SPSR", 0x4C: "SPCR", 0x4B: "GPIOR2", 0x4A: "GPIOR1",
		0x48: "OCR0B", 0x47: "OCR0A", 0x46: "TCNT0", 0x45: "TCCR0B", 0x44: "TCCR0A", 0x43: "GTCCR",
		0x3E: "GPIOR0", 0x3D: "EIMSK", 0x3C: "EIFR", 0x3B: "PCIFR",
		0x37: "TIFR2", 0x36: "TIFR1", 0x35: "TIFR0",
		0x2B: "PORTD", 0x2A: "DDRD", 0x29: "PIND",
		0x28: "PORTC", 0x27: "DDRC", 0x26: "PINC",
		0x25: "PORTB", 0x24: "DDRB", 0x23: "PINB",
	})))

	step := uint32(1)
	if hasJmpCall {
		step = 2
	}
	m.SetKnownVectors(atmegaXX8Vectors(step))
	return m
}

// NewATmega328P builds a 32Ki-flash/2Ki-RAM/1Ki-EEPROM part with JMP/CALL
// and a 16-bit EEPROM address (EEARH present).
func NewATmega328P(sink *diag.Sink) *mcu.Mcu {
	return newATmegaXX8(sink, 0x8000/2, 0x0800, 0x0400, true, true)
}

// NewATmega168PA builds a 16Ki-flash/1Ki-RAM/512-EEPROM part with JMP/CALL
// and a 16-bit EEPROM address (EEARH present).
func NewATmega168PA(sink *diag.Sink) *mcu.Mcu {
	return newATmegaXX8(sink, 0x4000/2, 0x0400, 0x0200, true, true)
}

// NewATmega88PA builds an 8Ki-flash/1Ki-RAM/512-EEPROM part without
// JMP/CALL and with a 16-bit EEPROM address (EEARH present), since 512
// bytes need a ninth address bit.
func NewATmega88PA(sink *diag.Sink) *mcu.Mcu {
	return newATmegaXX8(sink, 0x2000/2, 0x0400, 0x0200, false, true)
}

// NewATmega48PA builds a 4Ki-flash/512-RAM/256-EEPROM part without
// JMP/CALL; its EEPROM fits in EEARL alone.
func NewATmega48PA(sink *diag.Sink) *mcu.Mcu {
	return newATmegaXX8(sink, 0x1000/2, 0x0200, 0x0100, false, false)
}
