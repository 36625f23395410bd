/*
 * avrdbg - Branch and jump instruction descriptors
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
	"fmt"

	"github.com/avrdbg/avrem/internal/xref"
)

func wrapPC(m *Mcu, pc int64) uint32 {
	words := int64(m.flashWords)
	pc %= words
	if pc < 0 {
		pc += words
	}
	return uint32(pc)
}

func execRJMP(m *Mcu, s Step) {
	m.PC = wrapPC(m, int64(s.Fallthrough)+int64(k12(s.Cmd)))
}

func execRCALL(m *Mcu, s Step) {
	m.PushPC(s.Fallthrough)
	m.PC = wrapPC(m, int64(s.Fallthrough)+int64(k12(s.Cmd)))
}

func execJMP(m *Mcu, s Step) {
	cmd2 := m.ProgramNext()
	m.PC = k22(s.Cmd, cmd2)
}

func execCALL(m *Mcu, s Step) {
	cmd2 := m.ProgramNext()
	target := k22(s.Cmd, cmd2)
	m.PushPC(s.Fallthrough)
	m.PC = target
}

func execIJMP(m *Mcu, s Step) { m.PC = uint32(m.regPair(30)) }
func execICALL(m *Mcu, s Step) {
	m.PushPC(s.Fallthrough)
	m.PC = uint32(m.regPair(30))
}

func execEIJMP(m *Mcu, s Step) { m.PC = uint32(m.eind)<<16 | uint32(m.regPair(30)) }
func execEICALL(m *Mcu, s Step) {
	m.PushPC(s.Fallthrough)
	m.PC = uint32(m.eind)<<16 | uint32(m.regPair(30))
}

func execBRBS(m *Mcu, s Step) {
	b := s.Cmd & 0x7
	if m.sreg&(1<<b) != 0 {
		m.PC = wrapPC(m, int64(s.Fallthrough)+int64(k7(s.Cmd)))
	}
}

func execBRBC(m *Mcu, s Step) {
	b := s.Cmd & 0x7
	if m.sreg&(1<<b) == 0 {
		m.PC = wrapPC(m, int64(s.Fallthrough)+int64(k7(s.Cmd)))
	}
}

func execRET(m *Mcu, s Step)  { m.PC = m.PopPC() }
func execRETI(m *Mcu, s Step) {
	m.PC = m.PopPC()
	m.sreg |= flagI
}

func xrefRJMP(c uint16, pc uint32) (xref.Kind, uint32, bool) {
	return xref.Jmp, uint32(int64(pc+1) + int64(k12(c))), true
}

func xrefRCALL(c uint16, pc uint32) (xref.Kind, uint32, bool) {
	return xref.Call, uint32(int64(pc+1) + int64(k12(c))), true
}

func xrefBRB(c uint16, pc uint32) (xref.Kind, uint32, bool) {
	return xref.Jmp, uint32(int64(pc+1) + int64(k7(c))), true
}

func branchDescriptors() []*Descriptor {
	return []*Descriptor{
		{Pattern: 0xc000, Mask: 0xf000, Mnemonic: "RJMP", Description: "relative jump", Size: 1,
			IsJump: true, Ticks: two, Execute: execRJMP, Xref: xrefRJMP,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("RJMP .%+d", k12(c)) }},
		{Pattern: 0xd000, Mask: 0xf000, Mnemonic: "RCALL", Description: "relative call", Size: 1,
			IsCall: true, Ticks: three, Execute: execRCALL, Xref: xrefRCALL,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("RCALL .%+d", k12(c)) }},
		{Pattern: 0x940c, Mask: 0xfe0e, Mnemonic: "JMP", Description: "absolute jump", Size: 2,
			IsJump: true, Ticks: three,
			Execute: execJMP,
			// Target spans both words; the XrefAnalyzer special-cases
			// JMP/CALL directly rather than going through Xref (see
			// internal/mcu/xref.go).
			Disasm: func(c uint16, pc uint32) string { return "JMP" }},
		{Pattern: 0x940e, Mask: 0xfe0e, Mnemonic: "CALL", Description: "absolute call", Size: 2,
			IsCall: true, Ticks: four,
			Execute: execCALL,
			Disasm: func(c uint16, pc uint32) string { return "CALL" }},
		{Pattern: 0x9409, Mask: 0xffff, Mnemonic: "IJMP", Description: "indirect jump via Z", Size: 1,
			IsJump: true, Ticks: two, Execute: execIJMP,
			Disasm: func(c uint16, pc uint32) string { return "IJMP" }},
		{Pattern: 0x9509, Mask: 0xffff, Mnemonic: "ICALL", Description: "indirect call via Z", Size: 1,
			IsCall: true, Ticks: three, Execute: execICALL,
			Disasm: func(c uint16, pc uint32) string { return "ICALL" }},
		{Pattern: 0x9419, Mask: 0xffff, Mnemonic: "EIJMP", Description: "extended indirect jump via Z:EIND", Size: 1,
			IsJump: true, Ticks: two, Execute: execEIJMP,
			Disasm: func(c uint16, pc uint32) string { return "EIJMP" }},
		{Pattern: 0x9519, Mask: 0xffff, Mnemonic: "EICALL", Description: "extended indirect call via Z:EIND", Size: 1,
			IsCall: true, Ticks: three, Execute: execEICALL,
			Disasm: func(c uint16, pc uint32) string { return "EICALL" }},
		{Pattern: 0xf400, Mask: 0xfc00, Mnemonic: "BRBS", Description: "branch if flag set", Size: 1,
			IsBranch: true, Ticks: one, Execute: execBRBS, Xref: xrefBRB,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("BRBS %d,.%+d", c&0x7, k7(c)) }},
		{Pattern: 0xf000, Mask: 0xfc00, Mnemonic: "BRBC", Description: "branch if flag clear", Size: 1,
			IsBranch: true, Ticks: one, Execute: execBRBC, Xref: xrefBRB,
			Disasm: func(c uint16, pc uint32) string { return fmt.Sprintf("BRBC %d,.%+d", c&0x7, k7(c)) }},
		{Pattern: 0x9508, Mask: 0xffff, Mnemonic: "RET", Description: "return from subroutine", Size: 1,
			IsReturn: true, Ticks: four, Execute: execRET,
			Disasm: func(c uint16, pc uint32) string { return "RET" }},
		{Pattern: 0x9518, Mask: 0xffff, Mnemonic: "RETI", Description: "return from interrupt", Size: 1,
			IsReturn: true, Ticks: four, Execute: execRETI,
			Disasm: func(c uint16, pc uint32) string { return "RETI" }},
	}
}

func three(uint16) int { return 3 }
func four(uint16) int  { return 4 }
