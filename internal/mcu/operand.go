/*
 * avrdbg - Instruction operand decoding helpers
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

// Bit-extraction helpers for the handful of operand micro-patterns reused
// across instruction families (spec §4.1/GLOSSARY). Each takes the raw
// command word(s) and returns the operand value already in its natural
// (possibly sign-extended) form.

// rd5 extracts a 5-bit destination register index from bits 8:4.
func rd5(cmd uint16) int { return int(cmd>>4) & 0x1f }

// rdHigh extracts a 4-bit destination register index (16..31) from bits 7:4,
// used by immediate-operand instructions (ANDI, ORI, SUBI, SBCI, CPI, LDI).
func rdHigh(cmd uint16) int { return int(cmd>>4)&0xf + 16 }

// rr5 extracts a 5-bit source register index split across bit 9 and bits 3:0.
func rr5(cmd uint16) int { return int(cmd>>5)&0x10 | int(cmd&0xf) }

// k8 extracts an 8-bit immediate split across bits 11:8 and 3:0.
func k8(cmd uint16) uint8 { return uint8(cmd>>4)&0xf0 | uint8(cmd&0xf) }

// k6 extracts a 6-bit unsigned immediate (ADIW/SBIW) split across bits 7:6
// and 3:0.
func k6(cmd uint16) uint8 { return uint8(cmd>>2)&0x30 | uint8(cmd&0xf) }

// k12 extracts a signed 12-bit word offset (RJMP/RCALL) from bits 11:0.
func k12(cmd uint16) int32 { return signExtend(int32(cmd&0x0fff), 12) }

// k7 extracts a signed 7-bit word offset (BRBS/BRBC) from bits 9:3.
func k7(cmd uint16) int32 { return signExtend(int32(cmd>>3)&0x7f, 7) }

// k22 combines a two-word JMP/CALL target: bits 8:4 and 0 of the first
// word (skipping the reserved bit 1) give the high 6 bits, the second
// word gives the low 16.
func k22(cmd1, cmd2 uint16) uint32 {
	hi := uint32(cmd1>>3)&0x3e | uint32(cmd1&0x1)
	return hi<<16 | uint32(cmd2)
}

// Rd5 exports rd5 for the disassembler's two-word LDS/STS rendering
// (spec §6), which needs the destination register alongside the literal
// address carried in the instruction's second word.
func Rd5(cmd uint16) int { return rd5(cmd) }

// Word22 exports k22 for the disassembler's JMP/CALL rendering, which
// needs the real two-word target rather than the placeholder a
// single-cmd Descriptor.Disasm can produce.
func Word22(cmd1, cmd2 uint16) uint32 { return k22(cmd1, cmd2) }

// qDisp extracts the 6-bit unsigned displacement used by LDD/STD, split
// across bits 13, 11:10, and 2:0.
func qDisp(cmd uint16) uint8 {
	return uint8(cmd>>8)&0x20 | uint8(cmd>>7)&0x18 | uint8(cmd&0x7)
}

// ioAddr6 extracts the 6-bit I/O address used by IN/OUT, split across bits
// 10:9 and 3:0.
func ioAddr6(cmd uint16) uint8 { return uint8(cmd>>5)&0x30 | uint8(cmd&0xf) }

// ioAddr5 extracts the 5-bit I/O address used by SBI/CBI/SBIC/SBIS, bits
// 7:3.
func ioAddr5(cmd uint16) uint8 { return uint8(cmd>>3) & 0x1f }

// bitIdx extracts a 3-bit bit-in-register index from bits 2:0.
func bitIdx(cmd uint16) uint8 { return uint8(cmd & 0x7) }

// sregBit extracts a 3-bit SREG flag index used by BSET/BCLR from bits 6:4.
func sregBit(cmd uint16) uint8 { return uint8(cmd>>4) & 0x7 }

func signExtend(v int32, bits uint) int32 {
	shift := 32 - bits
	return (v << shift) >> shift
}
