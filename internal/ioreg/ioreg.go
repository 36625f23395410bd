/*
 * avrdbg - I/O register window
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

// Package ioreg implements the I/O register protocol of spec §4.3: each
// slot in the data-space I/O window is either reserved or bound to a
// Register implementing Get/Set/Init.
//
// Grounded on _examples/original_source/source/io.h/io.cpp. The spec's
// design notes (§9) flag a cyclic-borrow problem between the Mcu and its
// I/O registers in a borrow-checked language; Go sidesteps it entirely —
// a Register is handed a Host interface (satisfied by *mcu.Mcu) on every
// call instead of holding a back-reference, which is both how the
// teacher's own device.Device interface (emu/device/device.go) is
// threaded through the channel subsystem and exactly the "pass a mutable
// reference in explicitly" alternative the design note calls for.
package ioreg

// Host is the slice of Mcu state an I/O register needs to read or mutate.
// Mcu implements it; defining it here (not importing package mcu) keeps
// ioreg free of the mcu->ioreg->mcu import cycle the design notes warn
// about.
type Host interface {
	Ticks() uint64
	EepromSize() int
	EepromRead(addr uint16) uint8
	EepromWrite(addr uint16, v uint8)
	SREG() uint8
	SetSREG(uint8)
	SP() uint16
	SetSP(uint16)
	EIND() uint8
	SetEIND(uint8)
	RAMPZ() uint8
	SetRAMPZ(uint8)
	Diag(text string)
	EepromTrace(read bool, addr uint16, v uint8)
}

// Register is one byte-wide I/O cell.
type Register interface {
	Name() string
	Get(h Host) uint8
	Set(h Host, v uint8)
	Init() uint8
}
