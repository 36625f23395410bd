/*
 * avrdbg - Shared chip-factory helpers
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

// Package chip provides the per-variant factories of spec §4.7: one
// constructor per supported part, each building an mcu.Config with the
// right memory sizes, installing that part's I/O registers at their real
// offsets, and seeding the known reset/interrupt vector table. Mirrors
// the teacher's per-model packages (emu/model1403, emu/model2703, ...),
// one constructor per device variant, registered against a shared base.
package chip

import (
	"github.com/avrdbg/avrem/internal/ioreg"
	"github.com/avrdbg/avrem/internal/mcu"
)

// namedReg is one (offset, register) pair to install with Mcu.SetIO.
type namedReg struct {
	offset int
	reg    ioreg.Register
}

func installAll(m *mcu.Mcu, regs []namedReg) {
	for _, r := range regs {
		m.SetIO(r.offset, r.reg)
	}
}

// notImplemented builds a run of placeholder registers from an
// offset/name table, the shape every *.cpp chip file uses for the long
// tail of timer/ADC/comparator peripherals this emulator does not model.
func notImplemented(pairs map[int]string) []namedReg {
	regs := make([]namedReg, 0, len(pairs))
	for off, name := range pairs {
		regs = append(regs, namedReg{off, ioreg.NewNotImplemented(name)})
	}
	return regs
}

// excludeMnemonics returns mcu.AllDescriptors() with every descriptor
// whose Mnemonic appears in drop removed, preserving registration order.
// A blocklist rather than an allowlist, because several mnemonics (LD,
// ST, LDD, STD, LPM, ELPM, SPM) cover many descriptors apiece -- exactly
// the shape the *.cpp chip files use themselves, commenting out single
// &instrXxx lines from a shared base list rather than rebuilding it.
func excludeMnemonics(drop ...string) []*mcu.Descriptor {
	blocked := make(map[string]bool, len(drop))
	for _, m := range drop {
		blocked[m] = true
	}
	all := mcu.AllDescriptors()
	out := make([]*mcu.Descriptor, 0, len(all))
	for _, d := range all {
		if !blocked[d.Mnemonic] {
			out = append(out, d)
		}
	}
	return out
}
