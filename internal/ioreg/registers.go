/*
 * avrdbg - Inert and bit-backed I/O registers
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

import "fmt"

// Plain holds a byte with no side effects: a simple read/write cell with
// no state machine behind it. The XMEGA factories use it for the RAMPD,
// RAMPX and RAMPY registers.
type Plain struct {
	name string
	init uint8
	v    uint8
}

// NewPlain returns a named, plain read/write register reset to init.
func NewPlain(name string, init uint8) *Plain {
	return &Plain{name: name, init: init, v: init}
}

func (r *Plain) Name() string       { return r.name }
func (r *Plain) Get(Host) uint8     { return r.v }
func (r *Plain) Set(_ Host, v uint8) { r.v = v }
func (r *Plain) Init() uint8        { return r.init }

// SregRegister mirrors the Mcu's status register through the I/O window,
// so SBI/CBI/IN/OUT on SREG observe and mutate the same flags the ALU
// instructions do.
type SregRegister struct{}

func (SregRegister) Name() string        { return "SREG" }
func (SregRegister) Get(h Host) uint8     { return h.SREG() }
func (SregRegister) Set(h Host, v uint8)  { h.SetSREG(v) }
func (SregRegister) Init() uint8          { return 0 }

// SplRegister and SphRegister mirror the low/high bytes of the stack
// pointer through the I/O window, as classic-core AVRs expose it at
// SPL/SPH.
type SplRegister struct{}

func (SplRegister) Name() string { return "SPL" }
func (SplRegister) Get(h Host) uint8 { return uint8(h.SP()) }
func (SplRegister) Set(h Host, v uint8) {
	h.SetSP(h.SP()&0xff00 | uint16(v))
}
func (SplRegister) Init() uint8 { return 0 }

type SphRegister struct{}

func (SphRegister) Name() string { return "SPH" }
func (SphRegister) Get(h Host) uint8 { return uint8(h.SP() >> 8) }
func (SphRegister) Set(h Host, v uint8) {
	h.SetSP(uint16(v)<<8 | h.SP()&0xff)
}
func (SphRegister) Init() uint8 { return 0 }

// EindRegister and RampzRegister expose the extended-addressing bytes
// used by EICALL/EIJMP and ELPM/ESPM respectively on parts with more than
// 64Ki words (or more than 64Ki bytes of data/program space).
type EindRegister struct{}

func (EindRegister) Name() string        { return "EIND" }
func (EindRegister) Get(h Host) uint8     { return h.EIND() }
func (EindRegister) Set(h Host, v uint8)  { h.SetEIND(v) }
func (EindRegister) Init() uint8          { return 0 }

type RampzRegister struct{}

func (RampzRegister) Name() string        { return "RAMPZ" }
func (RampzRegister) Get(h Host) uint8     { return h.RAMPZ() }
func (RampzRegister) Set(h Host, v uint8)  { h.SetRAMPZ(v) }
func (RampzRegister) Init() uint8          { return 0 }

// NotImplemented is a placeholder for addresses in the I/O window that
// exist on real silicon but have no modeled behavior here. It reports a
// one-shot diagnostic on first access and then behaves as a plain byte
// cell (spec §4.3). This differs from
// _examples/original_source/source/io.cpp's IoRegisterNotImplemented,
// whose _errorMsgIssued flag is set up but never actually assigned true
// -- so the original warns on every access, not just the first. Taken as
// a bug in the original rather than intended behavior; the spec's
// "one-shot" wording is implemented literally here.
type NotImplemented struct {
	name    string
	v       uint8
	warned  bool
}

// NewNotImplemented returns a placeholder register named name (used only
// in its one diagnostic message).
func NewNotImplemented(name string) *NotImplemented {
	return &NotImplemented{name: name}
}

func (r *NotImplemented) Name() string { return r.name }

func (r *NotImplemented) Get(h Host) uint8 {
	r.warn(h, false)
	return r.v
}

func (r *NotImplemented) Set(h Host, v uint8) {
	r.warn(h, true)
	r.v = v
}

func (r *NotImplemented) Init() uint8 { return 0 }

func (r *NotImplemented) warn(h Host, write bool) {
	if r.warned {
		return
	}
	r.warned = true
	verb := "read"
	if write {
		verb = "write"
	}
	h.Diag(fmt.Sprintf("%s: not implemented (%s)", r.name, verb))
}
