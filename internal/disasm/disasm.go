/*
 * avrdbg - Flash disassembler
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

// Package disasm renders one disassembly line per instruction, per spec
// §6's "disassembly line shape": a blank-line-preceded label block when
// the address is a known xref target, then a 5-hex-digit address, an
// ASCII preview of the instruction word(s), the raw hex, the
// mnemonic-operand text, and a trailing `;`-introduced description.
//
// Grounded on _examples/original_source/source/avr.cpp's Mcu::Disasm()
// (address/preview/hex layout, label-block shape) and
// emu/disassemble/disassemble.go (opcode-driven operand text, one
// rendering function per instruction kind) -- JMP/CALL/LDS/STS need their
// literal second word, which a single-cmd Descriptor.Disasm can't supply,
// so they're special-cased here the same way internal/mcu/xref.go
// special-cases them for cross-reference targets.
package disasm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/avrdbg/avrem/internal/mcu"
	"github.com/avrdbg/avrem/internal/xref"
)

// Line is one rendered disassembly entry: an optional label block
// (already blank-line-prefixed) followed by the instruction text itself.
type Line struct {
	Addr  uint32
	Label []string
	Text  string
}

// String joins the label block and instruction text into the final
// printable form, one line per slice element plus the instruction line.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Label {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	b.WriteString(l.Text)
	return b.String()
}

func asciiByte(v uint8) byte {
	if v >= ' ' && v <= '~' {
		return v
	}
	return '.'
}

func asciiWord(cmd uint16) string {
	return string([]byte{asciiByte(uint8(cmd)), asciiByte(uint8(cmd >> 8))})
}

// Render disassembles the instruction at pc and returns its line plus the
// address of the next instruction. An undecodable opcode renders as "???"
// with size 1, matching Execute's own undecodable-opcode fallback (it
// resets PC rather than advancing, but a listing just needs to keep
// moving forward one word at a time).
func Render(m *mcu.Mcu, pc uint32) (Line, uint32) {
	cmd := m.Program(pc)
	desc := m.Decode(cmd)

	size := 1
	if desc != nil {
		size = desc.Size
	}

	words := []uint16{cmd}
	if size == 2 {
		words = append(words, m.Program(pc+1))
	}

	ascii := make([]string, len(words))
	hexWords := make([]string, len(words))
	for i, w := range words {
		ascii[i] = asciiWord(w)
		hexWords[i] = fmt.Sprintf("%04x", w)
	}

	text, description := "???", ""
	if desc != nil {
		text = operandText(desc, pc, words)
		description = desc.Description
	}

	line := Line{
		Addr: pc,
		Text: fmt.Sprintf("%05x:   %-4s  %-10s %-28s; %s",
			pc, strings.Join(ascii, ""), strings.Join(hexWords, " "), text, description),
	}
	if e, ok := m.Xrefs().ByAddr(pc); ok {
		line.Label = labelBlock(m, e)
	}
	return line, pc + uint32(size)
}

// operandText renders the mnemonic-operand text for one instruction.
// JMP/CALL/LDS/STS carry their real operand in a second flash word a
// single-cmd Descriptor.Disasm has no way to see, so they're rendered
// directly here instead of through desc.Disasm.
func operandText(desc *mcu.Descriptor, pc uint32, words []uint16) string {
	cmd := words[0]
	switch desc.Mnemonic {
	case "JMP":
		return fmt.Sprintf("JMP 0x%05x", mcu.Word22(cmd, words[1]))
	case "CALL":
		return fmt.Sprintf("CALL 0x%05x", mcu.Word22(cmd, words[1]))
	case "LDS":
		return fmt.Sprintf("LDS r%d,0x%04x", mcu.Rd5(cmd), words[1])
	case "STS":
		return fmt.Sprintf("STS 0x%04x,r%d", words[1], mcu.Rd5(cmd))
	default:
		return desc.Disasm(cmd, pc)
	}
}

// labelBlock renders the blank-line-preceded label text preceding a known
// xref target: "<label>: <source1>, <source2>, ..." followed by the
// entry's description if it has one. A source that is itself a labelled
// address is named rather than shown as a raw hex address, matching
// avr.cpp's ProgAddrName lookup.
func labelBlock(m *mcu.Mcu, e *xref.Entry) []string {
	srcs := make([]uint32, 0, len(e.Sources))
	for s := range e.Sources {
		srcs = append(srcs, s)
	}
	sort.Slice(srcs, func(i, j int) bool { return srcs[i] < srcs[j] })

	names := make([]string, 0, len(srcs))
	for _, s := range srcs {
		if se, ok := m.Xrefs().ByAddr(s); ok {
			names = append(names, se.Label)
			continue
		}
		names = append(names, fmt.Sprintf("%05x", s))
	}

	header := e.Label + ":"
	if len(names) > 0 {
		header = fmt.Sprintf("%s: %s", e.Label, strings.Join(names, ", "))
	}
	lines := []string{"", header}
	if e.Description != "" {
		lines = append(lines, e.Description)
	}
	return lines
}

// Listing renders every instruction from address 0 through the last
// loaded flash word, for the `-d` CLI flag (spec §6).
func Listing(m *mcu.Mcu) []Line {
	var lines []Line
	for pc := uint32(0); pc < m.LoadedWords(); {
		line, next := Render(m, pc)
		lines = append(lines, line)
		pc = next
	}
	return lines
}
