/*
 * avrdbg - Mcu core: registers, memory, execution loop
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

// Package mcu implements the architectural state and fetch-execute loop
// of spec §4.2, plus the instruction descriptors of §4.1 in the same
// package (instr_*.go) so the dispatch table can call methods on *Mcu
// directly -- mirroring how the teacher's emu/cpu package keeps its
// createTable() dispatch array and the cpuState methods it calls in one
// package (emu/cpu/cpu.go), and sidestepping the import cycle a separate
// "instr" package would create (instr needs *Mcu, mcu needs the
// descriptor table).
package mcu

import (
	"fmt"

	"github.com/avrdbg/avrem/internal/diag"
	"github.com/avrdbg/avrem/internal/ioreg"
	"github.com/avrdbg/avrem/internal/trace"
	"github.com/avrdbg/avrem/internal/xref"
)

// StackFrame records one outstanding call, per spec §3: the SP observed
// just before the call and the return address that was pushed.
type StackFrame struct {
	SPBeforeCall uint16
	ReturnPC     uint32
}

// Mcu is a single target device: its register file, flash, RAM, EEPROM,
// I/O window, and the bookkeeping (ticks, stack frames, trace, xrefs)
// layered over them. One Mcu owns all of its memory outright -- no
// locking, per spec §5's single-threaded, fully synchronous model.
type Mcu struct {
	regs [32]uint8
	sreg uint8
	sp   uint16
	PC   uint32

	eind  uint8
	rampz uint8

	flash       []uint16
	flashWords  uint32
	loadedWords uint32

	ram     []uint8
	ramBase uint16

	io     []ioreg.Register
	ioBase uint16

	eeprom []uint8

	xmega        bool
	eepromMapped bool
	eepromBase   uint16
	pcBytes      int // 2 for 16-bit PC, 3 for 22-bit PC

	ticks uint64

	diagSink *diag.Sink
	trace    *trace.Trace
	xrefs    *xref.Table

	stackFrames  []StackFrame
	knownVectors []KnownVector

	table *[65536]*Descriptor
}

// Config collects the per-chip construction parameters spec §4.7's
// factories supply: flash/IO/RAM/EEPROM sizes and the initial SP.
type Config struct {
	FlashWords int
	IOBytes    int
	RAMBytes   int
	EepromSize int
	InitialSP  uint16
	Xmega      bool
	EepromMap  bool // XMEGA-only: map EEPROM into data space at 0x1000
	Wide       bool // 22-bit PC / 3-byte return address

	// Descriptors is the instruction subset this chip supports (spec
	// §4.1's "per-variant subset"/§4.7); nil defaults to every known
	// descriptor. Unsupported opcodes stay null in the dispatch table and
	// executing one is a fatal decode error (§7).
	Descriptors []*Descriptor
}

// New constructs an Mcu with empty flash/RAM/EEPROM and a fully reserved
// I/O window; a chip factory installs registers afterward via SetIO.
func New(cfg Config, sink *diag.Sink) *Mcu {
	m := &Mcu{
		flash:        make([]uint16, cfg.FlashWords),
		flashWords:   uint32(cfg.FlashWords),
		ram:          make([]uint8, cfg.RAMBytes),
		io:           make([]ioreg.Register, cfg.IOBytes),
		eeprom:       make([]uint8, cfg.EepromSize),
		xmega:        cfg.Xmega,
		eepromMapped: cfg.EepromMap,
		diagSink:     sink,
		xrefs:        xref.New(),
		sp:           cfg.InitialSP,
	}
	for i := range m.eeprom {
		m.eeprom[i] = 0xff
	}
	if cfg.Wide {
		m.pcBytes = 3
	} else {
		m.pcBytes = 2
	}
	if cfg.Xmega {
		m.ioBase = 0
		m.ramBase = 0x2000
		m.eepromBase = 0x1000
	} else {
		m.ioBase = 0x20
		m.ramBase = 0x20 + uint16(cfg.IOBytes)
	}
	descs := cfg.Descriptors
	if descs == nil {
		descs = AllDescriptors()
	}
	m.table = BuildTable(descs)
	return m
}

// SetIO installs register at offset (relative to the I/O window base) in
// the I/O array; called by a chip factory once per peripheral register.
func (m *Mcu) SetIO(offset int, reg ioreg.Register) {
	m.io[offset] = reg
}

// Xrefs exposes the cross-reference table populated by SetFlash, for the
// disassembler and REPL to consult.
func (m *Mcu) Xrefs() *xref.Table { return m.xrefs }

// Decode returns the descriptor this chip's dispatch table maps cmd to, or
// nil if cmd is undecodable on this chip. Exposed so the disassembler can
// render instruction text using the same per-chip table Execute dispatches
// through, rather than re-deriving it -- mirroring avr.cpp's
// Mcu::Disasm(), which indexes the same `_instructions[cmd]` table the
// fetch loop uses.
func (m *Mcu) Decode(cmd uint16) *Descriptor { return m.table[cmd] }

// FlashWords returns the chip's total flash size in words.
func (m *Mcu) FlashWords() uint32 { return m.flashWords }

// LoadedWords returns the number of flash words actually loaded by
// SetFlash, for a disassembly listing to know where to stop.
func (m *Mcu) LoadedWords() uint32 { return m.loadedWords }

// SetTrace attaches (or detaches, with nil) a trace sink.
func (m *Mcu) SetTrace(t *trace.Trace) { m.trace = t }

// Trace returns the currently attached trace, or nil.
func (m *Mcu) Trace() *trace.Trace { return m.trace }

// Reset restores PC and SP to their power-on values and clears the
// approximate stack-frame count, per spec §3's "trimmed on a reset".
func (m *Mcu) Reset(initialSP uint16) {
	m.PC = 0
	m.sp = initialSP
	m.stackFrames = nil
}

// Regs exposes the 32 general-purpose registers for direct REPL
// inspection/mutation.
func (m *Mcu) Regs() *[32]uint8 { return &m.regs }

func (m *Mcu) regPair(base int) uint16 {
	return uint16(m.regs[base+1])<<8 | uint16(m.regs[base])
}

func (m *Mcu) setRegPair(base int, v uint16) {
	m.regs[base] = uint8(v)
	m.regs[base+1] = uint8(v >> 8)
}

// Ticks returns the cumulative tick count, satisfying ioreg.Host.
func (m *Mcu) Ticks() uint64 { return m.ticks }

func (m *Mcu) EepromSize() int                { return len(m.eeprom) }
func (m *Mcu) EepromRead(addr uint16) uint8   { return m.eeprom[addr] }
func (m *Mcu) EepromWrite(addr uint16, v uint8) { m.eeprom[addr] = v }
func (m *Mcu) SREG() uint8                    { return m.sreg }
func (m *Mcu) SetSREG(v uint8)                { m.sreg = v }
func (m *Mcu) SP() uint16                     { return m.sp }
func (m *Mcu) SetSP(v uint16)                 { m.sp = v }
func (m *Mcu) EIND() uint8                    { return m.eind }
func (m *Mcu) SetEIND(v uint8)                { m.eind = v }
func (m *Mcu) RAMPZ() uint8                   { return m.rampz }
func (m *Mcu) SetRAMPZ(v uint8)               { m.rampz = v }

func (m *Mcu) Diag(text string) { m.diagSink.Verbose(diag.NotImplemented, text) }

func (m *Mcu) EepromTrace(read bool, addr uint16, v uint8) {
	verb := "write"
	if read {
		verb = "read"
	}
	m.diagSink.Verbose(diag.Eeprom, fmt.Sprintf("eeprom %s [%04x] = %02x", verb, addr, v))
}

// Data reads one byte of data space, routing to the register file, the
// I/O window, optionally-mapped EEPROM (XMEGA only), or RAM by address
// range (spec §4.2/§3). Out-of-range or reserved access reports
// DataError and returns 0xff.
func (m *Mcu) Data(addr uint16) uint8 {
	if addr < 0x20 && !m.xmega {
		return m.regs[addr]
	}
	if addr >= m.ioBase && addr < m.ioBase+uint16(len(m.io)) {
		reg := m.io[addr-m.ioBase]
		if reg == nil {
			m.diagSink.Verbose(diag.DataError, fmt.Sprintf("read of reserved I/O cell %#x", addr))
			return 0xff
		}
		return reg.Get(m)
	}
	if m.eepromMapped && addr >= m.eepromBase && addr < m.eepromBase+uint16(len(m.eeprom)) {
		return m.eeprom[addr-m.eepromBase]
	}
	if addr >= m.ramBase && int(addr-m.ramBase) < len(m.ram) {
		return m.ram[addr-m.ramBase]
	}
	m.diagSink.Verbose(diag.DataError, fmt.Sprintf("data address %#x out of range", addr))
	return 0xff
}

// SetData writes one byte of data space; out-of-range or reserved writes
// are dropped after a diagnostic.
func (m *Mcu) SetData(addr uint16, v uint8) {
	if addr < 0x20 && !m.xmega {
		m.regs[addr] = v
		return
	}
	if addr >= m.ioBase && addr < m.ioBase+uint16(len(m.io)) {
		reg := m.io[addr-m.ioBase]
		if reg == nil {
			m.diagSink.Verbose(diag.DataError, fmt.Sprintf("write of reserved I/O cell %#x", addr))
			return
		}
		reg.Set(m, v)
		return
	}
	if m.eepromMapped && addr >= m.eepromBase && addr < m.eepromBase+uint16(len(m.eeprom)) {
		m.eeprom[addr-m.eepromBase] = v
		return
	}
	if addr >= m.ramBase && int(addr-m.ramBase) < len(m.ram) {
		m.ram[addr-m.ramBase] = v
		return
	}
	m.diagSink.Verbose(diag.DataError, fmt.Sprintf("data address %#x out of range", addr))
}

// Program reads one flash word. An address past the loaded image but
// within flashSize returns a defined sentinel (0x9508 == RET) plus a
// diagnostic so a runaway PC reliably unwinds; an address past flashSize
// is fatal and resets PC.
func (m *Mcu) Program(addr uint32) uint16 {
	if addr >= m.flashWords {
		m.diagSink.Verbose(diag.ProgError, fmt.Sprintf("program read %#x past flash end, resetting", addr))
		m.PC = 0
		return 0xffff
	}
	if addr >= m.loadedWords {
		m.diagSink.Verbose(diag.ProgError, fmt.Sprintf("read of uninitialised flash at %05x", addr))
		return 0x9508
	}
	return m.flash[addr]
}

// SetProgram writes one flash word (used by SPM); writes past flashSize
// are dropped after a diagnostic.
func (m *Mcu) SetProgram(addr uint32, cmd uint16) {
	if addr >= m.flashWords {
		m.diagSink.Verbose(diag.ProgError, fmt.Sprintf("program write %#x out of range", addr))
		return
	}
	m.flash[addr] = cmd
}

// ProgramNext reads flash[PC] and advances PC, for the second word of a
// two-word instruction.
func (m *Mcu) ProgramNext() uint16 {
	v := m.Program(m.PC)
	m.PC++
	return v
}

func (m *Mcu) flashByte(byteAddr uint16) uint8 {
	word := m.Program(uint32(byteAddr) >> 1)
	if byteAddr&1 == 0 {
		return uint8(word)
	}
	return uint8(word >> 8)
}

func (m *Mcu) flashByteExt(rampz uint8, byteAddr uint16) uint8 {
	full := uint32(rampz)<<16 | uint32(byteAddr)
	word := m.Program(full >> 1)
	if full&1 == 0 {
		return uint8(word)
	}
	return uint8(word >> 8)
}

// Push writes v at SP and decrements SP. Pushing when SP leaves the RAM
// range is a fatal condition: diagnostic, returns as a no-op otherwise.
func (m *Mcu) Push(v uint8) {
	if int(m.sp-m.ramBase) >= len(m.ram) || m.sp < m.ramBase {
		m.diagSink.Verbose(diag.ProgError, fmt.Sprintf("stack overflow at sp=%#x", m.sp))
		return
	}
	m.ram[m.sp-m.ramBase] = v
	m.sp--
}

// Pop increments SP then reads. Popping when SP is already at the top of
// RAM is a fatal condition.
func (m *Mcu) Pop() uint8 {
	m.sp++
	if int(m.sp-m.ramBase) >= len(m.ram) || m.sp < m.ramBase {
		m.diagSink.Verbose(diag.ProgError, fmt.Sprintf("stack underflow at sp=%#x", m.sp))
		return 0xff
	}
	return m.ram[m.sp-m.ramBase]
}

// PushPC pushes a 2- or 3-byte return address (per pcBytes), MSB first.
func (m *Mcu) PushPC(addr uint32) {
	if m.pcBytes == 3 {
		m.Push(uint8(addr >> 16))
	}
	m.Push(uint8(addr >> 8))
	m.Push(uint8(addr))
}

// PopPC pops a 2- or 3-byte return address in the reverse order PushPC
// wrote it.
func (m *Mcu) PopPC() uint32 {
	lo := m.Pop()
	hi := m.Pop()
	addr := uint32(hi)<<8 | uint32(lo)
	if m.pcBytes == 3 {
		top := m.Pop()
		addr |= uint32(top) << 16
	}
	return addr
}

// Skip advances PC by the size of the instruction at the current PC
// without executing it, for CPSE/SBRC/SBRS/SBIC/SBIS.
func (m *Mcu) Skip() {
	cmd := m.Program(m.PC)
	desc := m.table[cmd]
	size := uint32(1)
	if desc != nil {
		size = uint32(desc.Size)
	}
	m.PC += size
}

// SetFlash loads cmds into flash starting at start, truncating at
// flashSize, records the loaded extent, and runs the XrefAnalyzer.
func (m *Mcu) SetFlash(start uint32, cmds []uint16) {
	for i, c := range cmds {
		addr := start + uint32(i)
		if addr >= m.flashWords {
			break
		}
		m.flash[addr] = c
	}
	end := start + uint32(len(cmds))
	if end > m.flashWords {
		end = m.flashWords
	}
	if end > m.loadedWords {
		m.loadedWords = end
	}
	m.RunXrefAnalyzer()
}

// SetEeprom loads raw EEPROM bytes, leaving any tail 0xff-initialised --
// New already fills the backing slice with 0xff, and a short data slice
// simply leaves that tail untouched (spec §6's "short files leave the
// tail 0xff-initialised").
func (m *Mcu) SetEeprom(data []uint8) {
	copy(m.eeprom, data)
}

// Execute fetches one instruction, ticks the clock, updates PC and the
// stack-frame list, and appends a trace record if PC took a
// non-sequential path (spec §4.2's execution-loop invariants).
func (m *Mcu) Execute() {
	pc0 := m.PC
	if pc0 >= m.flashWords {
		m.diagSink.Verbose(diag.ProgError, fmt.Sprintf("pc %05x out of range, resetting", pc0))
		m.PC = 0
		return
	}
	cmd := m.Program(pc0)
	if pc0 >= m.flashWords {
		return // Program() already reset PC and reported the error
	}
	desc := m.table[cmd]
	if desc == nil {
		m.diagSink.Verbose(diag.ProgError, fmt.Sprintf("undecodable opcode %04x at %05x", cmd, pc0))
		m.PC = 0
		return
	}

	m.PC = pc0 + 1
	step := Step{PC0: pc0, Fallthrough: pc0 + uint32(desc.Size), Cmd: cmd}
	sp0 := m.sp

	desc.Execute(m, step)
	m.ticks += uint64(desc.Ticks(cmd))

	if desc.IsCall {
		m.stackFrames = append(m.stackFrames, StackFrame{SPBeforeCall: sp0, ReturnPC: step.Fallthrough})
	}
	if desc.IsReturn && len(m.stackFrames) > 0 {
		m.stackFrames = m.stackFrames[:len(m.stackFrames)-1]
	}

	if m.trace != nil && m.trace.IsOpen() && m.PC != step.Fallthrough {
		label, description := "", ""
		if e, ok := m.xrefs.ByAddr(m.PC); ok {
			label, description = e.Label, e.Description
		}
		m.trace.Record(pc0, m.PC, desc.IsCall, desc.IsReturn, label, description)
	}
}

// StackFrames returns the current (approximate) call stack, per spec §3.
func (m *Mcu) StackFrames() []StackFrame { return m.stackFrames }
