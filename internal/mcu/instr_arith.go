/*
 * avrdbg - Arithmetic instruction descriptors
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

import "fmt"

// Flag equations throughout this file and instr_bits.go follow the AVR
// instruction-set manual's boolean forms literally (bit7/bit3 carry/half-
// carry terms built from Rd, Rr, and R rather than derived from a host
// ALU flag), since the spec requires flags be "derived from the boolean
// equations of the inputs and result ... the emulator is portable."

func bit(v uint8, n uint) bool { return v&(1<<n) != 0 }

func setFlag(sreg *uint8, mask uint8, v bool) {
	if v {
		*sreg |= mask
	} else {
		*sreg &^= mask
	}
}

const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagN uint8 = 1 << 2
	flagV uint8 = 1 << 3
	flagS uint8 = 1 << 4
	flagH uint8 = 1 << 5
	flagT uint8 = 1 << 6
	flagI uint8 = 1 << 7
)

func addSubCommon(m *Mcu, r, rd, rr uint8, h, v, c bool) {
	s := m.sreg
	setFlag(&s, flagH, h)
	setFlag(&s, flagV, v)
	n := bit(r, 7)
	setFlag(&s, flagN, n)
	setFlag(&s, flagS, n != v)
	setFlag(&s, flagZ, r == 0)
	setFlag(&s, flagC, c)
	m.sreg = s
}

func execADD(m *Mcu, s Step) {
	d, rIdx := rd5(s.Cmd), rr5(s.Cmd)
	rd, rr := m.regs[d], m.regs[rIdx]
	r := rd + rr
	h := bit(rd, 3) && bit(rr, 3) || bit(rr, 3) && !bit(r, 3) || !bit(r, 3) && bit(rd, 3)
	v := bit(rd, 7) && bit(rr, 7) && !bit(r, 7) || !bit(rd, 7) && !bit(rr, 7) && bit(r, 7)
	c := bit(rd, 7) && bit(rr, 7) || bit(rr, 7) && !bit(r, 7) || !bit(r, 7) && bit(rd, 7)
	m.regs[d] = r
	addSubCommon(m, r, rd, rr, h, v, c)
}

func execADC(m *Mcu, s Step) {
	d, rIdx := rd5(s.Cmd), rr5(s.Cmd)
	rd, rr := m.regs[d], m.regs[rIdx]
	carryIn := uint8(0)
	if m.sreg&flagC != 0 {
		carryIn = 1
	}
	r := rd + rr + carryIn
	h := bit(rd, 3) && bit(rr, 3) || bit(rr, 3) && !bit(r, 3) || !bit(r, 3) && bit(rd, 3)
	v := bit(rd, 7) && bit(rr, 7) && !bit(r, 7) || !bit(rd, 7) && !bit(rr, 7) && bit(r, 7)
	c := bit(rd, 7) && bit(rr, 7) || bit(rr, 7) && !bit(r, 7) || !bit(r, 7) && bit(rd, 7)
	m.regs[d] = r
	addSubCommon(m, r, rd, rr, h, v, c)
}

func subFlags(m *Mcu, r, rd, rr uint8, keepZOnZero bool) {
	s := m.sreg
	h := !bit(rd, 3) && bit(rr, 3) || bit(rr, 3) && bit(r, 3) || bit(r, 3) && !bit(rd, 3)
	v := bit(rd, 7) && !bit(rr, 7) && !bit(r, 7) || !bit(rd, 7) && bit(rr, 7) && bit(r, 7)
	n := bit(r, 7)
	c := !bit(rd, 7) && bit(rr, 7) || bit(rr, 7) && bit(r, 7) || bit(r, 7) && !bit(rd, 7)
	setFlag(&s, flagH, h)
	setFlag(&s, flagV, v)
	setFlag(&s, flagN, n)
	setFlag(&s, flagS, n != v)
	if keepZOnZero {
		setFlag(&s, flagZ, r == 0 && s&flagZ != 0)
	} else {
		setFlag(&s, flagZ, r == 0)
	}
	setFlag(&s, flagC, c)
	m.sreg = s
}

func execSUB(m *Mcu, s Step) {
	d, rIdx := rd5(s.Cmd), rr5(s.Cmd)
	rd, rr := m.regs[d], m.regs[rIdx]
	r := rd - rr
	m.regs[d] = r
	subFlags(m, r, rd, rr, false)
}

func execSUBI(m *Mcu, s Step) {
	d := rdHigh(s.Cmd)
	rd, k := m.regs[d], k8(s.Cmd)
	r := rd - k
	m.regs[d] = r
	subFlags(m, r, rd, k, false)
}

func execSBC(m *Mcu, s Step) {
	d, rIdx := rd5(s.Cmd), rr5(s.Cmd)
	rd, rr := m.regs[d], m.regs[rIdx]
	carryIn := uint8(0)
	if m.sreg&flagC != 0 {
		carryIn = 1
	}
	r := rd - rr - carryIn
	m.regs[d] = r
	subFlags(m, r, rd, rr, true)
}

func execSBCI(m *Mcu, s Step) {
	d := rdHigh(s.Cmd)
	rd, k := m.regs[d], k8(s.Cmd)
	carryIn := uint8(0)
	if m.sreg&flagC != 0 {
		carryIn = 1
	}
	r := rd - k - carryIn
	m.regs[d] = r
	subFlags(m, r, rd, k, true)
}

func execCP(m *Mcu, s Step) {
	rd, rr := m.regs[rd5(s.Cmd)], m.regs[rr5(s.Cmd)]
	subFlags(m, rd-rr, rd, rr, false)
}

func execCPC(m *Mcu, s Step) {
	rd, rr := m.regs[rd5(s.Cmd)], m.regs[rr5(s.Cmd)]
	carryIn := uint8(0)
	if m.sreg&flagC != 0 {
		carryIn = 1
	}
	subFlags(m, rd-rr-carryIn, rd, rr, true)
}

func execCPI(m *Mcu, s Step) {
	rd, k := m.regs[rdHigh(s.Cmd)], k8(s.Cmd)
	subFlags(m, rd-k, rd, k, false)
}

func logicFlags(m *Mcu, r uint8) {
	s := m.sreg
	setFlag(&s, flagV, false)
	n := bit(r, 7)
	setFlag(&s, flagN, n)
	setFlag(&s, flagS, n)
	setFlag(&s, flagZ, r == 0)
	m.sreg = s
}

func execAND(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	r := m.regs[d] & m.regs[rr5(s.Cmd)]
	m.regs[d] = r
	logicFlags(m, r)
}

func execANDI(m *Mcu, s Step) {
	d := rdHigh(s.Cmd)
	r := m.regs[d] & k8(s.Cmd)
	m.regs[d] = r
	logicFlags(m, r)
}

func execOR(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	r := m.regs[d] | m.regs[rr5(s.Cmd)]
	m.regs[d] = r
	logicFlags(m, r)
}

func execORI(m *Mcu, s Step) {
	d := rdHigh(s.Cmd)
	r := m.regs[d] | k8(s.Cmd)
	m.regs[d] = r
	logicFlags(m, r)
}

func execEOR(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	r := m.regs[d] ^ m.regs[rr5(s.Cmd)]
	m.regs[d] = r
	logicFlags(m, r)
}

func execCOM(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	r := ^m.regs[d]
	m.regs[d] = r
	sr := m.sreg
	setFlag(&sr, flagC, true)
	setFlag(&sr, flagV, false)
	n := bit(r, 7)
	setFlag(&sr, flagN, n)
	setFlag(&sr, flagS, n)
	setFlag(&sr, flagZ, r == 0)
	m.sreg = sr
}

func execNEG(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	rd := m.regs[d]
	r := uint8(0) - rd
	m.regs[d] = r
	sr := m.sreg
	setFlag(&sr, flagH, bit(r, 3) || bit(rd, 3))
	setFlag(&sr, flagV, r == 0x80)
	n := bit(r, 7)
	setFlag(&sr, flagN, n)
	setFlag(&sr, flagS, n != (r == 0x80))
	setFlag(&sr, flagZ, r == 0)
	setFlag(&sr, flagC, r != 0)
	m.sreg = sr
}

func execINC(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	rd := m.regs[d]
	r := rd + 1
	m.regs[d] = r
	sr := m.sreg
	v := rd == 0x7f
	setFlag(&sr, flagV, v)
	n := bit(r, 7)
	setFlag(&sr, flagN, n)
	setFlag(&sr, flagS, n != v)
	setFlag(&sr, flagZ, r == 0)
	m.sreg = sr
}

func execDEC(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	rd := m.regs[d]
	r := rd - 1
	m.regs[d] = r
	sr := m.sreg
	v := rd == 0x80
	setFlag(&sr, flagV, v)
	n := bit(r, 7)
	setFlag(&sr, flagN, n)
	setFlag(&sr, flagS, n != v)
	setFlag(&sr, flagZ, r == 0)
	m.sreg = sr
}

func execADIW(m *Mcu, s Step) {
	d := 24 + int(s.Cmd>>4)&0x3*2
	lo, hi := m.regs[d], m.regs[d+1]
	rd := uint16(hi)<<8 | uint16(lo)
	r := rd + uint16(k6(s.Cmd))
	m.regs[d] = uint8(r)
	m.regs[d+1] = uint8(r >> 8)
	sr := m.sreg
	v := !bit(hi, 7) && bit(uint8(r>>8), 7)
	c := !bit(uint8(r>>8), 7) && bit(hi, 7)
	n := bit(uint8(r>>8), 7)
	setFlag(&sr, flagV, v)
	setFlag(&sr, flagN, n)
	setFlag(&sr, flagS, n != v)
	setFlag(&sr, flagZ, r == 0)
	setFlag(&sr, flagC, c)
	m.sreg = sr
}

func execSBIW(m *Mcu, s Step) {
	d := 24 + int(s.Cmd>>4)&0x3*2
	lo, hi := m.regs[d], m.regs[d+1]
	rd := uint16(hi)<<8 | uint16(lo)
	r := rd - uint16(k6(s.Cmd))
	m.regs[d] = uint8(r)
	m.regs[d+1] = uint8(r >> 8)
	sr := m.sreg
	rh7 := bit(uint8(r>>8), 7)
	v := bit(hi, 7) && !rh7
	c := rh7 && !bit(hi, 7)
	setFlag(&sr, flagV, v)
	setFlag(&sr, flagN, rh7)
	setFlag(&sr, flagS, rh7 != v)
	setFlag(&sr, flagZ, r == 0)
	setFlag(&sr, flagC, c)
	m.sreg = sr
}

func arithDescriptors() []*Descriptor {
	return []*Descriptor{
		{Pattern: 0x0c00, Mask: 0xfc00, Mnemonic: "ADD", Description: "add without carry", Size: 1,
			Ticks: one, Execute: execADD,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ADD r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x1c00, Mask: 0xfc00, Mnemonic: "ADC", Description: "add with carry", Size: 1,
			Ticks: one, Execute: execADC,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ADC r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x1800, Mask: 0xfc00, Mnemonic: "SUB", Description: "subtract without carry", Size: 1,
			Ticks: one, Execute: execSUB,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SUB r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x5000, Mask: 0xf000, Mnemonic: "SUBI", Description: "subtract immediate", Size: 1,
			Ticks: one, Execute: execSUBI,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SUBI r%d,%d", rdHigh(c), k8(c)) }},
		{Pattern: 0x0800, Mask: 0xfc00, Mnemonic: "SBC", Description: "subtract with carry", Size: 1,
			Ticks: one, Execute: execSBC,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SBC r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x4000, Mask: 0xf000, Mnemonic: "SBCI", Description: "subtract immediate with carry", Size: 1,
			Ticks: one, Execute: execSBCI,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SBCI r%d,%d", rdHigh(c), k8(c)) }},
		{Pattern: 0x1400, Mask: 0xfc00, Mnemonic: "CP", Description: "compare", Size: 1,
			Ticks: one, Execute: execCP,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("CP r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x0400, Mask: 0xfc00, Mnemonic: "CPC", Description: "compare with carry", Size: 1,
			Ticks: one, Execute: execCPC,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("CPC r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x3000, Mask: 0xf000, Mnemonic: "CPI", Description: "compare immediate", Size: 1,
			Ticks: one, Execute: execCPI,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("CPI r%d,%d", rdHigh(c), k8(c)) }},
		{Pattern: 0x2000, Mask: 0xfc00, Mnemonic: "AND", Description: "logical and", Size: 1,
			Ticks: one, Execute: execAND,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("AND r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x7000, Mask: 0xf000, Mnemonic: "ANDI", Description: "logical and with immediate", Size: 1,
			Ticks: one, Execute: execANDI,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ANDI r%d,%d", rdHigh(c), k8(c)) }},
		{Pattern: 0x2800, Mask: 0xfc00, Mnemonic: "OR", Description: "logical or", Size: 1,
			Ticks: one, Execute: execOR,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("OR r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x6000, Mask: 0xf000, Mnemonic: "ORI", Description: "logical or with immediate", Size: 1,
			Ticks: one, Execute: execORI,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ORI r%d,%d", rdHigh(c), k8(c)) }},
		{Pattern: 0x2400, Mask: 0xfc00, Mnemonic: "EOR", Description: "exclusive or", Size: 1,
			Ticks: one, Execute: execEOR,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("EOR r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x9400, Mask: 0xfe0f, Mnemonic: "COM", Description: "one's complement", Size: 1,
			Ticks: one, Execute: execCOM,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("COM r%d", rd5(c)) }},
		{Pattern: 0x9401, Mask: 0xfe0f, Mnemonic: "NEG", Description: "two's complement", Size: 1,
			Ticks: one, Execute: execNEG,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("NEG r%d", rd5(c)) }},
		{Pattern: 0x9403, Mask: 0xfe0f, Mnemonic: "INC", Description: "increment", Size: 1,
			Ticks: one, Execute: execINC,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("INC r%d", rd5(c)) }},
		{Pattern: 0x940a, Mask: 0xfe0f, Mnemonic: "DEC", Description: "decrement", Size: 1,
			Ticks: one, Execute: execDEC,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("DEC r%d", rd5(c)) }},
		{Pattern: 0x9600, Mask: 0xff00, Mnemonic: "ADIW", Description: "add immediate to word", Size: 1,
			Ticks: two, Execute: execADIW,
			Disasm: func(c uint16, pc uint32) string {
				return fmt.Sprintf("ADIW r%d,%d", 24+int(c>>4)&0x3*2, k6(c))
			}},
		{Pattern: 0x9700, Mask: 0xff00, Mnemonic: "SBIW", Description: "subtract immediate from word", Size: 1,
			Ticks: two, Execute: execSBIW,
			Disasm: func(c uint16, pc uint32) string {
				return fmt.Sprintf("SBIW r%d,%d", 24+int(c>>4)&0x3*2, k6(c))
			}},
	}
}

func one(uint16) int { return 1 }
func two(uint16) int { return 2 }
