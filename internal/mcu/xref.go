/*
 * avrdbg - Cross-reference index
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

import "github.com/avrdbg/avrem/internal/xref"

// KnownVector is a chip-supplied reset/interrupt vector entry, seeded into
// the xref table on every analyzer pass (spec §4.4 step 1).
type KnownVector struct {
	Addr        uint32
	Label       string
	Description string
}

// SetKnownVectors installs the chip's known-vector table; a chip factory
// calls this once during construction (spec §4.7 step 4). RunXrefAnalyzer
// reseeds from this list every time it clears and rebuilds the table.
func (m *Mcu) SetKnownVectors(vectors []KnownVector) {
	m.knownVectors = vectors
}

// RunXrefAnalyzer implements spec §4.4: clear the table, seed known
// vectors, then walk flash once classifying every decoded instruction's
// control-flow/data target. Called automatically by SetFlash.
func (m *Mcu) RunXrefAnalyzer() {
	m.xrefs.Clear()
	for _, v := range m.knownVectors {
		_ = m.xrefs.Seed(v.Addr, xref.Jmp, v.Label, v.Description)
	}

	for pc := uint32(0); pc < m.loadedWords; {
		cmd := m.flash[pc]
		desc := m.table[cmd]
		if desc == nil {
			pc++
			continue
		}
		fallthroughAddr := pc + uint32(desc.Size)
		switch desc.Mnemonic {
		case "LDS", "STS":
			// Two-word data instructions: the target is the literal
			// second word, not something desc.Xref's single-word
			// signature can report.
			if pc+1 < m.loadedWords {
				if target := uint32(m.flash[pc+1]); target != fallthroughAddr {
					m.xrefs.Mark(target, xref.Data, pc)
				}
			}
		case "JMP", "CALL":
			if pc+1 < m.loadedWords {
				target := k22(cmd, m.flash[pc+1])
				if target != fallthroughAddr {
					kind := xref.Jmp
					if desc.Mnemonic == "CALL" {
						kind = xref.Call
					}
					m.xrefs.Mark(target, kind, pc)
				}
			}
		default:
			if desc.Xref != nil {
				if kind, target, ok := desc.Xref(cmd, pc); ok && target != fallthroughAddr {
					m.xrefs.Mark(target, kind, pc)
				}
			}
		}
		pc += uint32(desc.Size)
	}
}
