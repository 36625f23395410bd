/*
 * avrdbg - Bit and I/O instruction descriptors
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

func shiftFlags(m *Mcu, r, carryOut bool, result uint8) {
	sr := m.sreg
	setFlag(&sr, flagC, carryOut)
	n := bit(result, 7)
	setFlag(&sr, flagN, n)
	setFlag(&sr, flagZ, result == 0)
	v := n != (sr&flagC != 0)
	setFlag(&sr, flagV, v)
	setFlag(&sr, flagS, n != v)
	m.sreg = sr
}

func execLSR(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	rd := m.regs[d]
	c := bit(rd, 0)
	r := rd >> 1
	m.regs[d] = r
	sr := m.sreg
	setFlag(&sr, flagC, c)
	setFlag(&sr, flagN, false)
	setFlag(&sr, flagZ, r == 0)
	v := c // N(0) xor C
	setFlag(&sr, flagV, v)
	setFlag(&sr, flagS, v)
	m.sreg = sr
}

func execROR(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	rd := m.regs[d]
	carryIn := uint8(0)
	if m.sreg&flagC != 0 {
		carryIn = 0x80
	}
	c := bit(rd, 0)
	r := rd>>1 | carryIn
	m.regs[d] = r
	shiftFlags(m, false, c, r)
}

func execASR(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	rd := m.regs[d]
	c := bit(rd, 0)
	r := rd>>1 | rd&0x80
	m.regs[d] = r
	shiftFlags(m, false, c, r)
}

func execSWAP(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	rd := m.regs[d]
	m.regs[d] = rd<<4 | rd>>4
}

func execBSET(m *Mcu, s Step) { m.sreg |= 1 << sregBit(s.Cmd) }
func execBCLR(m *Mcu, s Step) { m.sreg &^= 1 << sregBit(s.Cmd) }

func execBLD(m *Mcu, s Step) {
	d, b := rd5(s.Cmd), bitIdx(s.Cmd)
	if m.sreg&flagT != 0 {
		m.regs[d] |= 1 << b
	} else {
		m.regs[d] &^= 1 << b
	}
}

func execBST(m *Mcu, s Step) {
	d, b := rd5(s.Cmd), bitIdx(s.Cmd)
	setFlag(&m.sreg, flagT, bit(m.regs[d], uint(b)))
}

func execSBI(m *Mcu, s Step) {
	a, b := ioAddr5(s.Cmd), bitIdx(s.Cmd)
	addr := uint16(0x20) + uint16(a)
	m.SetData(addr, m.Data(addr)|1<<b)
}

func execCBI(m *Mcu, s Step) {
	a, b := ioAddr5(s.Cmd), bitIdx(s.Cmd)
	addr := uint16(0x20) + uint16(a)
	m.SetData(addr, m.Data(addr)&^(1<<b))
}

func execSBIC(m *Mcu, s Step) {
	a, b := ioAddr5(s.Cmd), bitIdx(s.Cmd)
	if !bit(m.Data(uint16(0x20)+uint16(a)), uint(b)) {
		m.Skip()
	}
}

func execSBIS(m *Mcu, s Step) {
	a, b := ioAddr5(s.Cmd), bitIdx(s.Cmd)
	if bit(m.Data(uint16(0x20)+uint16(a)), uint(b)) {
		m.Skip()
	}
}

func execSBRC(m *Mcu, s Step) {
	r, b := rd5(s.Cmd), bitIdx(s.Cmd)
	if !bit(m.regs[r], uint(b)) {
		m.Skip()
	}
}

func execSBRS(m *Mcu, s Step) {
	r, b := rd5(s.Cmd), bitIdx(s.Cmd)
	if bit(m.regs[r], uint(b)) {
		m.Skip()
	}
}

func execCPSE(m *Mcu, s Step) {
	rd, rr := m.regs[rd5(s.Cmd)], m.regs[rr5(s.Cmd)]
	if rd == rr {
		m.Skip()
	}
}

var sregBitName = [8]string{"C", "Z", "N", "V", "S", "H", "T", "I"}

func bitDescriptors() []*Descriptor {
	return []*Descriptor{
		{Pattern: 0x9406, Mask: 0xfe0f, Mnemonic: "LSR", Description: "logical shift right", Size: 1,
			Ticks: one, Execute: execLSR,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LSR r%d", rd5(c)) }},
		{Pattern: 0x9407, Mask: 0xfe0f, Mnemonic: "ROR", Description: "rotate right through carry", Size: 1,
			Ticks: one, Execute: execROR,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ROR r%d", rd5(c)) }},
		{Pattern: 0x9405, Mask: 0xfe0f, Mnemonic: "ASR", Description: "arithmetic shift right", Size: 1,
			Ticks: one, Execute: execASR,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ASR r%d", rd5(c)) }},
		{Pattern: 0x9402, Mask: 0xfe0f, Mnemonic: "SWAP", Description: "swap nibbles", Size: 1,
			Ticks: one, Execute: execSWAP,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SWAP r%d", rd5(c)) }},
		{Pattern: 0x9408, Mask: 0xff8f, Mnemonic: "BSET", Description: "set flag", Size: 1,
			Ticks: one, Execute: execBSET,
			Disasm: func(c uint16, pc uint32) string { return "SE" + sregBitName[sregBit(c)] }},
		{Pattern: 0x9488, Mask: 0xff8f, Mnemonic: "BCLR", Description: "clear flag", Size: 1,
			Ticks: one, Execute: execBCLR,
			Disasm: func(c uint16, pc uint32) string { return "CL" + sregBitName[sregBit(c)] }},
		{Pattern: 0xf800, Mask: 0xfe08, Mnemonic: "BLD", Description: "bit load from T", Size: 1,
			Ticks: one, Execute: execBLD,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("BLD r%d,%d", rd5(c), bitIdx(c)) }},
		{Pattern: 0xfa00, Mask: 0xfe08, Mnemonic: "BST", Description: "bit store to T", Size: 1,
			Ticks: one, Execute: execBST,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("BST r%d,%d", rd5(c), bitIdx(c)) }},
		{Pattern: 0x9a00, Mask: 0xff00, Mnemonic: "SBI", Description: "set bit in I/O register", Size: 1,
			Ticks: two, Execute: execSBI,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SBI %#x,%d", ioAddr5(c), bitIdx(c)) }},
		{Pattern: 0x9800, Mask: 0xff00, Mnemonic: "CBI", Description: "clear bit in I/O register", Size: 1,
			Ticks: two, Execute: execCBI,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("CBI %#x,%d", ioAddr5(c), bitIdx(c)) }},
		{Pattern: 0x9900, Mask: 0xff00, Mnemonic: "SBIC", Description: "skip if bit in I/O register clear", Size: 1,
			Ticks: one, Execute: execSBIC,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SBIC %#x,%d", ioAddr5(c), bitIdx(c)) }},
		{Pattern: 0x9b00, Mask: 0xff00, Mnemonic: "SBIS", Description: "skip if bit in I/O register set", Size: 1,
			Ticks: one, Execute: execSBIS,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SBIS %#x,%d", ioAddr5(c), bitIdx(c)) }},
		{Pattern: 0xfc00, Mask: 0xfe08, Mnemonic: "SBRC", Description: "skip if bit in register clear", Size: 1,
			Ticks: one, Execute: execSBRC,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SBRC r%d,%d", rd5(c), bitIdx(c)) }},
		{Pattern: 0xfe00, Mask: 0xfe08, Mnemonic: "SBRS", Description: "skip if bit in register set", Size: 1,
			Ticks: one, Execute: execSBRS,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("SBRS r%d,%d", rd5(c), bitIdx(c)) }},
		{Pattern: 0x1000, Mask: 0xfc00, Mnemonic: "CPSE", Description: "compare, skip if equal", Size: 1,
			Ticks: one, Execute: execCPSE,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("CPSE r%d,r%d", rd5(c), rr5(c)) }},
	}
}
