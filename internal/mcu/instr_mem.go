/*
 * avrdbg - Load/store instruction descriptors
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

// Pointer-register pairs X=26/27, Y=28/29, Z=30/31 address data space for
// the LD/ST family; the three addressing-mode shapes (plain, post-
// increment, pre-decrement) and the Y/Z-only displacement form are each
// implemented once here and reused by every concrete descriptor below.

func execLDplain(base int) func(*Mcu, Step) {
	return func(m *Mcu, s Step) {
		d := rd5(s.Cmd)
		m.regs[d] = m.Data(m.regPair(base))
	}
}

func execLDpostinc(base int) func(*Mcu, Step) {
	return func(m *Mcu, s Step) {
		d := rd5(s.Cmd)
		addr := m.regPair(base)
		m.regs[d] = m.Data(addr)
		m.setRegPair(base, addr+1)
	}
}

func execLDpredec(base int) func(*Mcu, Step) {
	return func(m *Mcu, s Step) {
		d := rd5(s.Cmd)
		addr := m.regPair(base) - 1
		m.setRegPair(base, addr)
		m.regs[d] = m.Data(addr)
	}
}

func execLDdisp(base int) func(*Mcu, Step) {
	return func(m *Mcu, s Step) {
		d := rd5(s.Cmd)
		addr := m.regPair(base) + uint16(qDisp(s.Cmd))
		m.regs[d] = m.Data(addr)
	}
}

func execSTplain(base int) func(*Mcu, Step) {
	return func(m *Mcu, s Step) {
		r := rd5(s.Cmd)
		m.SetData(m.regPair(base), m.regs[r])
	}
}

func execSTpostinc(base int) func(*Mcu, Step) {
	return func(m *Mcu, s Step) {
		r := rd5(s.Cmd)
		addr := m.regPair(base)
		m.SetData(addr, m.regs[r])
		m.setRegPair(base, addr+1)
	}
}

func execSTpredec(base int) func(*Mcu, Step) {
	return func(m *Mcu, s Step) {
		r := rd5(s.Cmd)
		addr := m.regPair(base) - 1
		m.setRegPair(base, addr)
		m.SetData(addr, m.regs[r])
	}
}

func execSTdisp(base int) func(*Mcu, Step) {
	return func(m *Mcu, s Step) {
		r := rd5(s.Cmd)
		addr := m.regPair(base) + uint16(qDisp(s.Cmd))
		m.SetData(addr, m.regs[r])
	}
}

func execLDI(m *Mcu, s Step) { m.regs[rdHigh(s.Cmd)] = k8(s.Cmd) }

func execLDS(m *Mcu, s Step) {
	addr := m.ProgramNext()
	m.regs[rd5(s.Cmd)] = m.Data(addr)
}

func execSTS(m *Mcu, s Step) {
	addr := m.ProgramNext()
	m.SetData(addr, m.regs[rd5(s.Cmd)])
}

func execLPM0(m *Mcu, s Step)  { m.regs[0] = m.flashByte(m.regPair(30)) }
func execLPMz(m *Mcu, s Step)  { m.regs[rd5(s.Cmd)] = m.flashByte(m.regPair(30)) }
func execLPMzi(m *Mcu, s Step) {
	z := m.regPair(30)
	m.regs[rd5(s.Cmd)] = m.flashByte(z)
	m.setRegPair(30, z+1)
}

func execELPM0(m *Mcu, s Step) { m.regs[0] = m.flashByteExt(m.rampz, m.regPair(30)) }
func execELPMz(m *Mcu, s Step) { m.regs[rd5(s.Cmd)] = m.flashByteExt(m.rampz, m.regPair(30)) }
func execELPMzi(m *Mcu, s Step) {
	z := m.regPair(30)
	m.regs[rd5(s.Cmd)] = m.flashByteExt(m.rampz, z)
	m.setRegPair(30, z+1)
	if z == 0xffff {
		m.rampz++
	}
}

func execSPM(m *Mcu, s Step) {
	z := m.regPair(30)
	word := uint16(m.regs[1])<<8 | uint16(m.regs[0])
	m.SetProgram(uint32(z)>>1, word)
}

func execSPMzi(m *Mcu, s Step) {
	execSPM(m, s)
	m.setRegPair(30, m.regPair(30)+2)
}

func execIN(m *Mcu, s Step) { m.regs[rd5(s.Cmd)] = m.Data(0x20 + uint16(ioAddr6(s.Cmd))) }
func execOUT(m *Mcu, s Step) { m.SetData(0x20+uint16(ioAddr6(s.Cmd)), m.regs[rd5(s.Cmd)]) }

func execPUSH(m *Mcu, s Step) { m.Push(m.regs[rd5(s.Cmd)]) }
func execPOP(m *Mcu, s Step)  { m.regs[rd5(s.Cmd)] = m.Pop() }

func execXCH(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	z := m.regPair(30)
	old := m.Data(z)
	m.SetData(z, m.regs[d])
	m.regs[d] = old
}

func execLAS(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	z := m.regPair(30)
	old := m.Data(z)
	m.SetData(z, old|m.regs[d])
	m.regs[d] = old
}

func execLAC(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	z := m.regPair(30)
	old := m.Data(z)
	m.SetData(z, old&^m.regs[d])
	m.regs[d] = old
}

func execLAT(m *Mcu, s Step) {
	d := rd5(s.Cmd)
	z := m.regPair(30)
	old := m.Data(z)
	m.SetData(z, old^m.regs[d])
	m.regs[d] = old
}

func execMOV(m *Mcu, s Step) { m.regs[rd5(s.Cmd)] = m.regs[rr5(s.Cmd)] }

func execMOVW(m *Mcu, s Step) {
	d := int(s.Cmd>>4) & 0xf * 2
	r := int(s.Cmd&0xf) * 2
	m.regs[d], m.regs[d+1] = m.regs[r], m.regs[r+1]
}

func memDescriptors() []*Descriptor {
	ds := []*Descriptor{
		{Pattern: 0x900c, Mask: 0xfe0f, Mnemonic: "LD", Description: "load indirect via X", Size: 1,
			Ticks: two, Execute: execLDplain(26),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LD r%d,X", rd5(c)) }},
		{Pattern: 0x900d, Mask: 0xfe0f, Mnemonic: "LD", Description: "load indirect via X, post-increment", Size: 1,
			Ticks: two, Execute: execLDpostinc(26),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LD r%d,X+", rd5(c)) }},
		{Pattern: 0x900e, Mask: 0xfe0f, Mnemonic: "LD", Description: "load indirect via X, pre-decrement", Size: 1,
			Ticks: two, Execute: execLDpredec(26),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LD r%d,-X", rd5(c)) }},
		{Pattern: 0x8008, Mask: 0xfe0f, Mnemonic: "LD", Description: "load indirect via Y", Size: 1,
			Ticks: two, Execute: execLDplain(28),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LD r%d,Y", rd5(c)) }},
		{Pattern: 0x9009, Mask: 0xfe0f, Mnemonic: "LD", Description: "load indirect via Y, post-increment", Size: 1,
			Ticks: two, Execute: execLDpostinc(28),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LD r%d,Y+", rd5(c)) }},
		{Pattern: 0x900a, Mask: 0xfe0f, Mnemonic: "LD", Description: "load indirect via Y, pre-decrement", Size: 1,
			Ticks: two, Execute: execLDpredec(28),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LD r%d,-Y", rd5(c)) }},
		{Pattern: 0x8008, Mask: 0xd208, Mnemonic: "LDD", Description: "load indirect via Y with displacement", Size: 1,
			Ticks: two, Execute: execLDdisp(28),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LDD r%d,Y+%d", rd5(c), qDisp(c)) }},
		{Pattern: 0x8000, Mask: 0xfe0f, Mnemonic: "LD", Description: "load indirect via Z", Size: 1,
			Ticks: two, Execute: execLDplain(30),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LD r%d,Z", rd5(c)) }},
		{Pattern: 0x9001, Mask: 0xfe0f, Mnemonic: "LD", Description: "load indirect via Z, post-increment", Size: 1,
			Ticks: two, Execute: execLDpostinc(30),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LD r%d,Z+", rd5(c)) }},
		{Pattern: 0x9002, Mask: 0xfe0f, Mnemonic: "LD", Description: "load indirect via Z, pre-decrement", Size: 1,
			Ticks: two, Execute: execLDpredec(30),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LD r%d,-Z", rd5(c)) }},
		{Pattern: 0x8000, Mask: 0xd208, Mnemonic: "LDD", Description: "load indirect via Z with displacement", Size: 1,
			Ticks: two, Execute: execLDdisp(30),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LDD r%d,Z+%d", rd5(c), qDisp(c)) }},

		{Pattern: 0x920c, Mask: 0xfe0f, Mnemonic: "ST", Description: "store indirect via X", Size: 1,
			Ticks: two, Execute: execSTplain(26),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ST X,r%d", rd5(c)) }},
		{Pattern: 0x920d, Mask: 0xfe0f, Mnemonic: "ST", Description: "store indirect via X, post-increment", Size: 1,
			Ticks: two, Execute: execSTpostinc(26),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ST X+,r%d", rd5(c)) }},
		{Pattern: 0x920e, Mask: 0xfe0f, Mnemonic: "ST", Description: "store indirect via X, pre-decrement", Size: 1,
			Ticks: two, Execute: execSTpredec(26),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ST -X,r%d", rd5(c)) }},
		{Pattern: 0x8208, Mask: 0xfe0f, Mnemonic: "ST", Description: "store indirect via Y", Size: 1,
			Ticks: two, Execute: execSTplain(28),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ST Y,r%d", rd5(c)) }},
		{Pattern: 0x9209, Mask: 0xfe0f, Mnemonic: "ST", Description: "store indirect via Y, post-increment", Size: 1,
			Ticks: two, Execute: execSTpostinc(28),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ST Y+,r%d", rd5(c)) }},
		{Pattern: 0x920a, Mask: 0xfe0f, Mnemonic: "ST", Description: "store indirect via Y, pre-decrement", Size: 1,
			Ticks: two, Execute: execSTpredec(28),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ST -Y,r%d", rd5(c)) }},
		{Pattern: 0x8208, Mask: 0xd208, Mnemonic: "STD", Description: "store indirect via Y with displacement", Size: 1,
			Ticks: two, Execute: execSTdisp(28),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("STD Y+%d,r%d", qDisp(c), rd5(c)) }},
		{Pattern: 0x8200, Mask: 0xfe0f, Mnemonic: "ST", Description: "store indirect via Z", Size: 1,
			Ticks: two, Execute: execSTplain(30),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ST Z,r%d", rd5(c)) }},
		{Pattern: 0x9201, Mask: 0xfe0f, Mnemonic: "ST", Description: "store indirect via Z, post-increment", Size: 1,
			Ticks: two, Execute: execSTpostinc(30),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ST Z+,r%d", rd5(c)) }},
		{Pattern: 0x9202, Mask: 0xfe0f, Mnemonic: "ST", Description: "store indirect via Z, pre-decrement", Size: 1,
			Ticks: two, Execute: execSTpredec(30),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ST -Z,r%d", rd5(c)) }},
		{Pattern: 0x8200, Mask: 0xd208, Mnemonic: "STD", Description: "store indirect via Z with displacement", Size: 1,
			Ticks: two, Execute: execSTdisp(30),
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("STD Z+%d,r%d", qDisp(c), rd5(c)) }},

		{Pattern: 0xe000, Mask: 0xf000, Mnemonic: "LDI", Description: "load immediate", Size: 1,
			Ticks: one, Execute: execLDI,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LDI r%d,%d", rdHigh(c), k8(c)) }},
		{Pattern: 0x9000, Mask: 0xfe0f, Mnemonic: "LDS", Description: "load direct from data space", Size: 2,
			Ticks: two, Execute: execLDS,
			// Target spans both words; the XrefAnalyzer special-cases
			// LDS/STS directly (internal/mcu/xref.go), per the design
			// notes' documented-intent resolution for this instruction.
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LDS r%d,k", rd5(c)) }},
		{Pattern: 0x9200, Mask: 0xfe0f, Mnemonic: "STS", Description: "store direct to data space", Size: 2,
			Ticks: two, Execute: execSTS,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("STS k,r%d", rd5(c)) }},

		{Pattern: 0x95c8, Mask: 0xffff, Mnemonic: "LPM", Description: "load program memory into r0", Size: 1,
			Ticks: three, Execute: execLPM0,
			Disasm: func(c uint16, pc uint32) string { return "LPM" }},
		{Pattern: 0x9004, Mask: 0xfe0f, Mnemonic: "LPM", Description: "load program memory", Size: 1,
			Ticks: three, Execute: execLPMz,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LPM r%d,Z", rd5(c)) }},
		{Pattern: 0x9005, Mask: 0xfe0f, Mnemonic: "LPM", Description: "load program memory, post-increment", Size: 1,
			Ticks: three, Execute: execLPMzi,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LPM r%d,Z+", rd5(c)) }},
		{Pattern: 0x95d8, Mask: 0xffff, Mnemonic: "ELPM", Description: "extended load program memory into r0", Size: 1,
			Ticks: three, Execute: execELPM0,
			Disasm: func(c uint16, pc uint32) string { return "ELPM" }},
		{Pattern: 0x9006, Mask: 0xfe0f, Mnemonic: "ELPM", Description: "extended load program memory", Size: 1,
			Ticks: three, Execute: execELPMz,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ELPM r%d,Z", rd5(c)) }},
		{Pattern: 0x9007, Mask: 0xfe0f, Mnemonic: "ELPM", Description: "extended load program memory, post-increment", Size: 1,
			Ticks: three, Execute: execELPMzi,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("ELPM r%d,Z+", rd5(c)) }},
		{Pattern: 0x95e8, Mask: 0xffff, Mnemonic: "SPM", Description: "store program memory", Size: 1,
			Ticks: four, Execute: execSPM,
			Disasm: func(c uint16, pc uint32) string { return "SPM" }},
		{Pattern: 0x95f8, Mask: 0xffff, Mnemonic: "SPM", Description: "store program memory, post-increment Z", Size: 1,
			Ticks: four, Execute: execSPMzi,
			Disasm: func(c uint16, pc uint32) string { return "SPM Z+" }},

		{Pattern: 0xb000, Mask: 0xf800, Mnemonic: "IN", Description: "read I/O register", Size: 1,
			Ticks: one, Execute: execIN,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("IN r%d,%#x", rd5(c), ioAddr6(c)) }},
		{Pattern: 0xb800, Mask: 0xf800, Mnemonic: "OUT", Description: "write I/O register", Size: 1,
			Ticks: one, Execute: execOUT,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("OUT %#x,r%d", ioAddr6(c), rd5(c)) }},

		{Pattern: 0x920f, Mask: 0xfe0f, Mnemonic: "PUSH", Description: "push register onto stack", Size: 1,
			Ticks: two, Execute: execPUSH,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("PUSH r%d", rd5(c)) }},
		{Pattern: 0x900f, Mask: 0xfe0f, Mnemonic: "POP", Description: "pop register from stack", Size: 1,
			Ticks: two, Execute: execPOP,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("POP r%d", rd5(c)) }},

		{Pattern: 0x9204, Mask: 0xfe0f, Mnemonic: "XCH", Description: "exchange with Z", Size: 1,
			Ticks: two, Execute: execXCH,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("XCH Z,r%d", rd5(c)) }},
		{Pattern: 0x9205, Mask: 0xfe0f, Mnemonic: "LAS", Description: "load and set via Z", Size: 1,
			Ticks: two, Execute: execLAS,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LAS Z,r%d", rd5(c)) }},
		{Pattern: 0x9206, Mask: 0xfe0f, Mnemonic: "LAC", Description: "load and clear via Z", Size: 1,
			Ticks: two, Execute: execLAC,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LAC Z,r%d", rd5(c)) }},
		{Pattern: 0x9207, Mask: 0xfe0f, Mnemonic: "LAT", Description: "load and toggle via Z", Size: 1,
			Ticks: two, Execute: execLAT,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("LAT Z,r%d", rd5(c)) }},

		{Pattern: 0x2c00, Mask: 0xfc00, Mnemonic: "MOV", Description: "copy register", Size: 1,
			Ticks: one, Execute: execMOV,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("MOV r%d,r%d", rd5(c), rr5(c)) }},
		{Pattern: 0x0100, Mask: 0xff00, Mnemonic: "MOVW", Description: "copy register pair", Size: 1,
			Ticks: one, Execute: execMOVW,
			Disasm: func(c uint16, pc uint32) string {
				return fmt.Sprintf("MOVW r%d,r%d", int(c>>4)&0xf*2, int(c&0xf)*2)
			}},
	}
	return ds
}
