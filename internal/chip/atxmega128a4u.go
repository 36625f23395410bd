/*
 * avrdbg - ATxmega128A4U/64A4U/32A4U chip factory
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

// atxmegaVectors is a curated subset of the full interrupt table
// atxmegaAU.cpp lists (over 80 sources); only the ones worth naming in a
// disassembly's xref block are kept, same curation call as atmega2560.go.
func atxmegaVectors() []mcu.KnownVector {
	return []mcu.KnownVector{
		{Addr: 0x000, Label: "RESET", Description: "RESET"},
		{Addr: 0x002, Label: "OSCF_INT", Description: "Crystal oscillator failure interrupt (NMI)"},
		{Addr: 0x014, Label: "RTC_INT_OVF", Description: "Real time counter overflow interrupt"},
		{Addr: 0x032, Label: "USARTC0_INT_RXC", Description: "USART 0 on port C receive complete interrupt"},
		{Addr: 0x036, Label: "USARTC0_INT_TXC", Description: "USART 0 on port C transmit complete interrupt"},
		{Addr: 0x040, Label: "NVM_INT_EE", Description: "Nonvolatile Memory EEPROM interrupt"},
		{Addr: 0x042, Label: "NVM_INT_SPM", Description: "Nonvolatile Memory SPM interrupt"},
	}
}

// xmegaUsart installs one XMEGA USART's seven Data/Status/CtrlA-C/
// BaudCtrlA-B registers at base+0, base+1 and base+3..base+7 (base+2 is
// left unassigned), the shape internal/ioreg.Usart was built for
// (IoXmegaUsart in the original source).
func xmegaUsart(name string, base int) []namedReg {
	_, data, status, ctrlA, ctrlB, ctrlC, baudA, baudB := ioreg.UsartRegisters(name)
	return []namedReg{
		{base + 0, data},
		{base + 1, status},
		{base + 3, ctrlA},
		{base + 4, ctrlB},
		{base + 5, ctrlC},
		{base + 6, baudA},
		{base + 7, baudB},
	}
}

// NewATxmega128A4U builds the 64Ki-word-flash/8Ki-RAM/2Ki-EEPROM XMEGA
// part: flat zero-based I/O window, RAM at 0x2000, EEPROM directly
// memory-mapped at 0x1000 (spec §3's XMEGA data-space layout) rather
// than routed through EECR bit-twiddling, and the full instruction set
// (DES, XCH/LAS/LAC/LAT, EIJMP/EICALL, ELPM, second-form SPM). Grounded
// on atxmegaAU.cpp's ATxmegaAU constructor and ATxmega128A4U subclass.
func NewATxmega128A4U(sink *diag.Sink) *mcu.Mcu {
	cfg := mcu.Config{
		FlashWords: 0x20000 / 2,
		IOBytes:    0x1000,
		RAMBytes:   0x2000,
		EepromSize: 0x0800,
		InitialSP:  uint16(0x2000 + 0x2000 - 1),
		Xmega:      true,
		EepromMap:  true,
	}
	m := mcu.New(cfg, sink)

	regs := []namedReg{
		{0x38, ioreg.NewPlain("RAMPD", 0)},
		{0x39, ioreg.NewPlain("RAMPX", 0)},
		{0x3A, ioreg.NewPlain("RAMPY", 0)},
		{0x3B, ioreg.RampzRegister{}},
		{0x3C, ioreg.EindRegister{}},
		{0x3D, ioreg.SplRegister{}},
		{0x3E, ioreg.SphRegister{}},
		{0x3F, ioreg.SregRegister{}},
	}
	regs = append(regs, xmegaUsart("USARTC0", 0x08A0)...)
	regs = append(regs, xmegaUsart("USARTC1", 0x08B0)...)
	regs = append(regs, xmegaUsart("USARTD0", 0x0BA0)...)
	regs = append(regs, xmegaUsart("USARTE0", 0x08E0)...)
	installAll(m, regs)

	// The NVM controller's command/address/data registers drive erase
	// and flash-SPM sequencing; this emulator reads/writes EEPROM as
	// flat memory-mapped bytes instead (spec §3), so the command state
	// machine itself is left unimplemented rather than half-modeled.
	installAll(m, notImplemented(map[int]string{
		0x01C0: "NVM_ADDR0", 0x01C1: "NVM_ADDR1", 0x01C2: "NVM_ADDR2",
		0x01C4: "NVM_DATA0", 0x01C5: "NVM_DATA1", 0x01C6: "NVM_DATA2",
		0x01CA: "NVM_CMD", 0x01CB: "NVM_CTRLA", 0x01CC: "NVM_CTRLB",
		0x01CD: "NVM_INTCTRL", 0x01CF: "NVM_STATUS", 0x01D0: "NVM_LOCKBITS",
		0x0040: "CLK_CTRL", 0x0048: "SLEEP_CTRL", 0x0078: "RST_STATUS", 0x0079: "RST_CTRL",
		0x0080: "WDT_CTRL", 0x0081: "WDT_WINCTRL", 0x0082: "WDT_STATUS",
		0x0034: "CPU_CCP",
		0x00A0: "PMIC_STATUS", 0x00A1: "PMIC_INTPRI", 0x00A2: "PMIC_CTRL",
		0x0600: "PORTC_DIR", 0x0601: "PORTC_OUT", 0x0608: "PORTC_IN",
		0x0640: "PORTD_DIR", 0x0641: "PORTD_OUT", 0x0648: "PORTD_IN",
		0x08C0: "SPIC_CTRL", 0x08C2: "SPIC_STATUS", 0x08C3: "SPIC_DATA",
	}))

	m.SetKnownVectors(atxmegaVectors())
	return m
}

// NewATxmega64A4U builds the 32Ki-word-flash/4Ki-RAM/2Ki-EEPROM part with
// the 128A4U's data-space layout and instruction set; of the 128A4U's
// I/O registers it installs only RAMP/EIND/SP/SREG and USARTC0, with no
// other USARTs and no not-implemented NVM/CLK/PORT placeholders.
func NewATxmega64A4U(sink *diag.Sink) *mcu.Mcu {
	return newATxmegaSized(sink, 0x10000/2, 0x1000, 0x0800)
}

// NewATxmega32A4U builds the 16Ki-word-flash/2Ki-RAM/1Ki-EEPROM part.
func NewATxmega32A4U(sink *diag.Sink) *mcu.Mcu {
	return newATxmegaSized(sink, 0x8000/2, 0x0800, 0x0400)
}

// newATxmegaSized factors out the size-only variants so NewATxmega128A4U
// stays the single place the full register/vector wiring is written.
func newATxmegaSized(sink *diag.Sink, flashWords, ramBytes, eepromSize int) *mcu.Mcu {
	cfg := mcu.Config{
		FlashWords: flashWords,
		IOBytes:    0x1000,
		RAMBytes:   ramBytes,
		EepromSize: eepromSize,
		InitialSP:  uint16(0x2000 + ramBytes - 1),
		Xmega:      true,
		EepromMap:  true,
	}
	m := mcu.New(cfg, sink)
	regs := []namedReg{
		{0x38, ioreg.NewPlain("RAMPD", 0)},
		{0x39, ioreg.NewPlain("RAMPX", 0)},
		{0x3A, ioreg.NewPlain("RAMPY", 0)},
		{0x3B, ioreg.RampzRegister{}},
		{0x3C, ioreg.EindRegister{}},
		{0x3D, ioreg.SplRegister{}},
		{0x3E, ioreg.SphRegister{}},
		{0x3F, ioreg.SregRegister{}},
	}
	regs = append(regs, xmegaUsart("USARTC0", 0x08A0)...)
	installAll(m, regs)
	m.SetKnownVectors(atxmegaVectors())
	return m
}
