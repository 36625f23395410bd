/*
 * avrdbg - Instruction descriptor and dispatch table
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

// Step carries the per-instruction addressing context a Descriptor's
// Execute needs: the address of its first word and the fall-through
// address (pc0 + Size), computed once by the fetch loop so no Execute
// body has to re-derive it. This plays the role the teacher's
// fetch/execute loop gives a *stepInfo value passed into each function in
// cpu.table (emu/cpu/cpu.go) -- a cheap plain-data record, no subtyping.
type Step struct {
	PC0         uint32
	Fallthrough uint32
	Cmd         uint16
}

// Descriptor is the immutable record spec §3/§4.1 describes: pattern and
// mask select which commands it owns; the four function fields know how
// to time, execute, render, and cross-reference any matching command.
// One Go struct literal replaces the source's one-subtype-per-instruction
// hierarchy (design notes §9, "dynamic descriptor dispatch").
type Descriptor struct {
	Pattern, Mask uint16
	Mnemonic      string
	Description   string
	Size          int // words
	IsJump        bool
	IsBranch      bool
	IsCall        bool
	IsReturn      bool

	Ticks   func(cmd uint16) int
	Execute func(m *Mcu, s Step)
	Disasm  func(cmd uint16, pc uint32) string
	// Xref reports a statically recoverable control-flow/data target for
	// cmd fetched at pc, if any.
	Xref func(cmd uint16, pc uint32) (kind xref.Kind, target uint32, ok bool)
}

func (d *Descriptor) matches(cmd uint16) bool { return cmd&d.Mask == d.Pattern }

// BuildTable assembles the 65,536-entry dispatch array from descs, in
// order. For each descriptor, every command consistent with its
// (pattern, mask) is claimed unless an earlier descriptor already claimed
// it -- first-wins, which is how overlapping y/z-displacement encodings
// are disambiguated (spec §4.1/§9): register the zero-displacement forms
// before the general displacement forms.
func BuildTable(descs []*Descriptor) *[65536]*Descriptor {
	var table [65536]*Descriptor
	for _, d := range descs {
		free := ^d.Mask
		// Enumerate every submask of `free` (Knuth's classic subset-of-mask
		// trick) and OR it onto the pattern to get every command this
		// descriptor can match.
		for m := free; ; m = (m - 1) & free {
			cmd := d.Pattern | m
			if table[cmd] == nil {
				table[cmd] = d
			}
			if m == 0 {
				break
			}
		}
	}
	return &table
}
