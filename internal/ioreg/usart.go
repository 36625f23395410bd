/*
 * avrdbg - USART peripheral registers
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

import (
	"fmt"
	"io"
	"os"
)

// Usart is an XMEGA-style USART with Data/Status/CtrlA/CtrlB/CtrlC/
// BaudCtrlA/BaudCtrlB sub-registers, grounded on
// _examples/original_source/source/io.cpp's IoXmegaUsart. Received bytes
// are pushed in externally via Add (the loader/REPL's way of feeding
// simulated serial input) and drained one at a time by a Data register
// read; transmitted bytes are written straight to out as hex plus their
// printable form, unconditionally -- IoXmegaUsart::Rx/Tx do an
// unprefixed fprintf(stdout, ...) with no severity gate, and this is
// live documented USART I/O (spec §4.3), not a diagnostic, so it does
// not go through Host.Diag/diag.Sink at all.
type Usart struct {
	name string
	out  io.Writer
	rx   []uint8
	ctrlA, ctrlB, ctrlC uint8
	baudA, baudB        uint8
}

// NewUsart returns a USART named name (used in its Tx/Rx output text,
// e.g. "USARTC0"), writing Tx/Rx bytes to os.Stdout.
func NewUsart(name string) *Usart {
	return &Usart{name: name, out: os.Stdout}
}

// Add enqueues data to be read back through the Data register, one byte
// per Rx.
func (u *Usart) Add(data []uint8) {
	u.rx = append(u.rx, data...)
}

// SetOutput redirects Tx/Rx byte logging away from os.Stdout; tests use
// this to capture the output instead of writing to the real stdout.
func (u *Usart) SetOutput(w io.Writer) {
	u.out = w
}

func (u *Usart) rxAvail() bool { return len(u.rx) > 0 }

func (u *Usart) rx1(Host) uint8 {
	if len(u.rx) == 0 {
		return 0
	}
	v := u.rx[0]
	u.rx = u.rx[1:]
	fmt.Fprintf(u.out, "%s Rx %02x %s\n", u.name, v, printable(v))
	return v
}

func (u *Usart) tx(v uint8) {
	fmt.Fprintf(u.out, "%s Tx %02x %s\n", u.name, v, printable(v))
}

func printable(v uint8) string {
	if v >= 0x20 && v < 0x7f {
		return string(rune(v))
	}
	return " "
}

type usartData struct{ u *Usart }

func (r usartData) Name() string      { return r.u.name + "_DATA" }
func (r usartData) Get(h Host) uint8  { return r.u.rx1(h) }
func (r usartData) Set(_ Host, v uint8) { r.u.tx(v) }
func (r usartData) Init() uint8       { return 0 }

// Status bit 7 is RXCIF (receive complete); bits 6 and 5 (DREIF/TXCIF)
// read as always set, matching the source's unconditional "|0x40|0x20".
type usartStatus struct{ u *Usart }

func (r usartStatus) Name() string { return r.u.name + "_STATUS" }
func (r usartStatus) Get(Host) uint8 {
	v := uint8(0x60)
	if r.u.rxAvail() {
		v |= 0x80
	}
	return v
}
func (r usartStatus) Set(Host, uint8) {} // read-only/clear-on-write bits not modeled
func (r usartStatus) Init() uint8      { return 0x20 }

type usartCtrlA struct{ u *Usart }

func (r usartCtrlA) Name() string        { return r.u.name + "_CTRLA" }
func (r usartCtrlA) Get(Host) uint8       { return r.u.ctrlA }
func (r usartCtrlA) Set(_ Host, v uint8)  { r.u.ctrlA = v }
func (r usartCtrlA) Init() uint8          { return 0 }

type usartCtrlB struct{ u *Usart }

func (r usartCtrlB) Name() string       { return r.u.name + "_CTRLB" }
func (r usartCtrlB) Get(Host) uint8      { return r.u.ctrlB }
func (r usartCtrlB) Set(_ Host, v uint8) { r.u.ctrlB = v }
func (r usartCtrlB) Init() uint8         { return 0 }

type usartCtrlC struct{ u *Usart }

func (r usartCtrlC) Name() string       { return r.u.name + "_CTRLC" }
func (r usartCtrlC) Get(Host) uint8      { return r.u.ctrlC }
func (r usartCtrlC) Set(_ Host, v uint8) { r.u.ctrlC = v }
func (r usartCtrlC) Init() uint8         { return 0b00000011 } // 8N1 default

type usartBaudA struct{ u *Usart }

func (r usartBaudA) Name() string       { return r.u.name + "_BAUDCTRLA" }
func (r usartBaudA) Get(Host) uint8      { return r.u.baudA }
func (r usartBaudA) Set(_ Host, v uint8) { r.u.baudA = v }
func (r usartBaudA) Init() uint8         { return 0 }

type usartBaudB struct{ u *Usart }

func (r usartBaudB) Name() string       { return r.u.name + "_BAUDCTRLB" }
func (r usartBaudB) Get(Host) uint8      { return r.u.baudB }
func (r usartBaudB) Set(_ Host, v uint8) { r.u.baudB = v }
func (r usartBaudB) Init() uint8         { return 0 }

// UsartRegisters returns a fresh Usart plus its seven registers in
// Data/Status/CtrlA/CtrlB/CtrlC/BaudCtrlA/BaudCtrlB order, for a chip
// factory to install at its own I/O offsets.
func UsartRegisters(name string) (u *Usart, data, status, ctrlA, ctrlB, ctrlC, baudA, baudB Register) {
	u = NewUsart(name)
	return u, usartData{u}, usartStatus{u}, usartCtrlA{u}, usartCtrlB{u}, usartCtrlC{u}, usartBaudA{u}, usartBaudB{u}
}
