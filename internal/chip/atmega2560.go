/*
 * avrdbg - ATmega2560 chip factory
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
	"fmt"

	"github.com/avrdbg/avrem/internal/diag"
	"github.com/avrdbg/avrem/internal/ioreg"
	"github.com/avrdbg/avrem/internal/mcu"
)

// atmega2560Vectors mirrors the ATmega328P table's shape but the 2560 has
// far more peripherals and interrupt sources; only the reset vector and
// the ones worth naming for a debugger session are called out, matching
// the teacher's practice of a partial, hand-curated vector-name table
// rather than transcribing the entire datasheet appendix.
func atmega2560Vectors() []mcu.KnownVector {
	return []mcu.KnownVector{
		{Addr: 0x00, Label: "RESET", Description: "External Pin, Power-on Reset, Brown-out Reset and Watchdog System Reset"},
		{Addr: 0x02, Label: "INT0", Description: "External Interrupt Request 0"},
		{Addr: 0x04, Label: "INT1", Description: "External Interrupt Request 1"},
		{Addr: 0x22, Label: "TIMER1_COMPA", Description: "Timer/Counter1 Compare Match A"},
		{Addr: 0x38, Label: "USART0_RX", Description: "USART0 Rx Complete"},
		{Addr: 0x3C, Label: "USART0_TX", Description: "USART0 Tx Complete"},
		{Addr: 0x4C, Label: "TWI", Description: "2-wire Serial Interface"},
		{Addr: 0x4E, Label: "SPM_READY", Description: "Store Program Memory Ready"},
	}
}

// usartGroup installs a USART at the four classic register addresses a
// 2560-family part exposes it at: UDRn, UCSRnA, plus two stub registers
// (UCSRnB/C and UBRRnL/H) for the configuration state this emulator does
// not model behaviorally. Grounded on atmega2560.cpp's IoUsart::UDRn /
// IoUsart::UCSRnA wiring, adapted onto internal/ioreg.Usart's Data/Status
// pair since that class's own source isn't part of the retrieved pack.
func usartGroup(name string, udr, ucsrA, ucsrB, ucsrC, ubrrL, ubrrH int) []namedReg {
	_, data, status, _, _, _, _, _ := ioreg.UsartRegisters(name)
	return []namedReg{
		{udr, data},
		{ucsrA, status},
		{ucsrB, ioreg.NewNotImplemented(fmt.Sprintf("UCSR%sB", name))},
		{ucsrC, ioreg.NewNotImplemented(fmt.Sprintf("UCSR%sC", name))},
		{ubrrL, ioreg.NewNotImplemented(fmt.Sprintf("UBRR%sL", name))},
		{ubrrH, ioreg.NewNotImplemented(fmt.Sprintf("UBRR%sH", name))},
	}
}

// NewATmega2560 builds the 256Ki-flash/8Ki-RAM/4Ki-EEPROM part: 22-bit PC
// (EIJMP/EICALL, 3-byte return addresses), JMP/CALL, ELPM, and four
// classic-shaped USARTs. Grounded on atmega2560.cpp's constructor.
func NewATmega2560(sink *diag.Sink) *mcu.Mcu {
	cfg := mcu.Config{
		FlashWords:  0x40000 / 2,
		IOBytes:     0x200,
		RAMBytes:    0x2000,
		EepromSize:  0x1000,
		InitialSP:   uint16(0x20 + 0x200 + 0x2000 - 1),
		Wide:        true,
		Descriptors: excludeMnemonics("DES", "XCH", "LAS", "LAC", "LAT"),
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
		{0x42, eearh},
		{0x41, eearl},
		{0x40, eedr},
		{0x3F, eecr},
		{0x5C, ioreg.EindRegister{}},
		{0x5B, ioreg.RampzRegister{}},
	}
	regs = append(regs, usartGroup("0", 0xC6, 0xC0, 0xC1, 0xC2, 0xC4, 0xC5)...)
	regs = append(regs, usartGroup("1", 0xCE, 0xC8, 0xC9, 0xCA, 0xCC, 0xCD)...)
	regs = append(regs, usartGroup("2", 0xD6, 0xD0, 0xD1, 0xD2, 0xD4, 0xD5)...)
	regs = append(regs, usartGroup("3", 0x136, 0x130, 0x131, 0x132, 0x134, 0x135)...)
	installAll(m, toIO(regs))

	installAll(m, toIO(notImplemented(map[int]string{
		0x55: "MCUCR", 0x54: "MCUSR", 0x53: "SMCR", 0x57: "SPMCSR",
		0x4E: "SPDR", 0x4D: "SPSR", 0x4C: "SPCR",
		0x78: "ADCL", 0x79: "ADCH", 0x7A: "ADCSRA", 0x7B: "ADCSRB", 0x7C: "ADMUX", 0x7E: "DIDR0", 0x7F: "DIDR1",
		0x80: "TCCR1A", 0x81: "TCCR1B", 0x82: "TCCR1C", 0x84: "TCNT1L", 0x85: "TCNT1H",
		0x86: "ICR1L", 0x87: "ICR1H", 0x88: "OCR1AL", 0x89: "OCR1AH", 0x8A: "OCR1BL", 0x8B: "OCR1BH",
		0xB0: "TCCR2A", 0xB1: "TCCR2B", 0xB2: "TCNT2", 0xB3: "OCR2A", 0xB4: "OCR2B", 0xB6: "ASSR",
		0xB8: "TWBR", 0xB9: "TWSR", 0xBA: "TWAR", 0xBB: "TWDR", 0xBC: "TWCR", 0xBD: "TWAMR",
		0x23: "PINB", 0x24: "DDRB", 0x25: "PORTB", 0x26: "PINC", 0x27: "DDRC", 0x28: "PORTC",
		0x29: "PIND", 0x2A: "DDRD", 0x2B: "PORTD",
		0x35: "TIFR0", 0x36: "TIFR1", 0x37: "TIFR2", 0x60: "WDTCSR", 0x61: "CLKPR", 0x64: "PRR0", 0x66: "OSCCAL",
		0x68: "PCICR", 0x69: "EICRA", 0x6B: "PCMSK0", 0x6C: "PCMSK1", 0x6D: "PCMSK2",
		0x6E: "TIMSK0", 0x6F: "TIMSK1", 0x70: "TIMSK2",
	})))

	m.SetKnownVectors(atmega2560Vectors())
	return m
}
