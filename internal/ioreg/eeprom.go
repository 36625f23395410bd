/*
 * avrdbg - EEPROM peripheral register
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

package ioreg

// EEPROM control bits, named exactly as the datasheet and as
// _examples/original_source/source/io.cpp's IoEeprom (kEEPM/kEERIE/
// kEEMPE/kEEPE/kEERE).
const (
	eepmMask = 0b00110000
	eerie    = 0b00001000
	eempe    = 0b00000100
	eepe     = 0b00000010
	eere     = 0b00000001
)

// Busy windows in ticks, taken from the same source: an erase+write cycle
// runs 34 ticks, an erase-only or write-only cycle runs 18.
const (
	eraseWriteTicks = 34
	eraseOnlyTicks  = 18
	writeOnlyTicks  = 18
)

// EepromController is the shared state behind the four EEPROM address
// registers (EEARH, EEARL, EEDR, EECR); each register below is a thin
// address-bound view onto one EepromController.
type EepromController struct {
	addr    uint16
	data    uint8
	control uint8

	empeArmed      bool   // set by the first EEMPE write
	empeArmedUntil uint64 // tick deadline; EEMPE stays set through this tick
	busyUntil      uint64 // tick deadline; reads of EECR.EEPE report busy until this
}

// NewEepromController returns a controller with address 0, data 0, and no
// operation in flight.
func NewEepromController() *EepromController {
	return &EepromController{}
}

func (e *EepromController) busy(h Host) bool {
	return h.Ticks() < e.busyUntil
}

// SetControl applies a write to EECR. Setting EEMPE arms a four-tick
// window during which a subsequent EEPE write commits the operation
// selected by EEPM; EERE loads EEDR from EEPROM immediately. Writes
// arriving while an operation is still busy are dropped, matching the
// source's guard in IoEeprom::SetData/SetControl.
func (e *EepromController) SetControl(h Host, v uint8) {
	if e.busy(h) {
		return
	}
	if v&eempe != 0 {
		e.empeArmed = true
		e.empeArmedUntil = h.Ticks() + 4
	}
	if v&eepe != 0 && e.empeArmed && h.Ticks() <= e.empeArmedUntil {
		switch v & eepmMask {
		case 0b00000000: // erase then write
			e.commit(h, true, true)
			e.busyUntil = h.Ticks() + eraseWriteTicks
		case 0b00010000: // erase only
			e.commit(h, true, false)
			e.busyUntil = h.Ticks() + eraseOnlyTicks
		case 0b00100000: // write only
			e.commit(h, false, true)
			e.busyUntil = h.Ticks() + writeOnlyTicks
		default:
			// reserved EEPM encoding; no operation performed
		}
	}
	if v&eere != 0 {
		if int(e.addr) < h.EepromSize() {
			e.data = h.EepromRead(e.addr)
			h.EepromTrace(true, e.addr, e.data)
		}
	}
	e.control = v & (eepmMask | eerie | eempe)
}

func (e *EepromController) commit(h Host, erase, write bool) {
	if int(e.addr) >= h.EepromSize() {
		return
	}
	v := e.data
	if erase && !write {
		v = 0xff
	}
	h.EepromWrite(e.addr, v)
	h.EepromTrace(false, e.addr, v)
}

// GetControl reads EECR back: EEPE is set (busy) while an operation is in
// flight, clear once it completes.
func (e *EepromController) GetControl(h Host) uint8 {
	v := e.control
	if e.busy(h) {
		v |= eepe
	}
	return v
}

// eearh/eearl/eedr/eecr are the four address-bound register wrappers a
// chip factory installs at the appropriate I/O offsets, all sharing one
// *EepromController.

type eearh struct{ c *EepromController }

func (r eearh) Name() string { return "EEARH" }
func (r eearh) Get(Host) uint8 { return uint8(r.c.addr >> 8) }
func (r eearh) Set(h Host, v uint8) {
	if r.c.busy(h) {
		return
	}
	r.c.addr = uint16(v)<<8 | r.c.addr&0xff
}
func (r eearh) Init() uint8 { return 0 }

type eearl struct{ c *EepromController }

func (r eearl) Name() string { return "EEARL" }
func (r eearl) Get(Host) uint8 { return uint8(r.c.addr) }
func (r eearl) Set(h Host, v uint8) {
	if r.c.busy(h) {
		return
	}
	r.c.addr = r.c.addr&0xff00 | uint16(v)
}
func (r eearl) Init() uint8 { return 0 }

type eedr struct{ c *EepromController }

func (r eedr) Name() string     { return "EEDR" }
func (r eedr) Get(Host) uint8   { return r.c.data }
func (r eedr) Set(h Host, v uint8) {
	if r.c.busy(h) {
		return
	}
	r.c.data = v
}
func (r eedr) Init() uint8 { return 0 }

type eecr struct{ c *EepromController }

func (r eecr) Name() string       { return "EECR" }
func (r eecr) Get(h Host) uint8   { return r.c.GetControl(h) }
func (r eecr) Set(h Host, v uint8) { r.c.SetControl(h, v) }
func (r eecr) Init() uint8        { return 0 }

// EepromRegisters returns the four EEARH/EEARL/EEDR/EECR registers backed
// by a fresh EepromController, in that order, for a chip factory to
// install at its own address offsets.
func EepromRegisters() (ear_h, ear_l, edr, ecr Register) {
	c := NewEepromController()
	return eearh{c}, eearl{c}, eedr{c}, eecr{c}
}
