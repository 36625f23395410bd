/*
 * avrdbg - REPL command grammar
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

// Package repl implements the command grammar spec §4.6 describes:
// empty-line-repeats-last, step-in/step-over, goto address-or-label,
// assign register/data/program word, list disassembly, list labels,
// help, quit.
//
// Grounded directly on _examples/original_source/source/execute.cpp's
// Execute() loop: an ordered list of Command objects, each matched by
// its own regex in turn (first match wins), with a dedicated "repeat"
// command first in the list and an "unknown command" catch-all last.
// That file's CommandStep/CommandGoto/CommandAssign/CommandList/
// CommandListLabels/CommandQuit/CommandHelp classes map directly onto
// this package's command functions and supply the exact command
// vocabulary ("s [count]", "n [count]", "g <addr>|<label>",
// "r/d/p<idx>=<val>", "l [<addr>] [<count>]", "ll", "t [<file>
// [<stopaddr>]]", "q", "?"/"h"). The trace verb and its "trace file
// closed"/"already open"/"not open" replies are grounded on
// avr.cpp's Mcu::Trace::Open/Close.
package repl

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/avrdbg/avrem/internal/disasm"
	"github.com/avrdbg/avrem/internal/mcu"
	"github.com/avrdbg/avrem/internal/trace"
)

// Session drives one REPL conversation against one Mcu. Output goes to
// Out rather than directly to stdout so tests can capture it.
type Session struct {
	Mcu *mcu.Mcu
	Out io.Writer

	last      *command
	lastLine  string
	quit      bool
	interrupt int32 // set by Interrupt(), polled by the step-over loop
}

// Interrupt requests that any step-over currently in progress stop after
// its next instruction (spec §5's SIGINT cancellation model). Safe to
// call from a signal handler running on another goroutine.
func (s *Session) Interrupt() { atomic.StoreInt32(&s.interrupt, 1) }

func (s *Session) interrupted() bool { return atomic.LoadInt32(&s.interrupt) == 1 }

type command struct {
	re   *regexp.Regexp
	help []string
	// run executes the matched command and reports whether it succeeded
	// (selecting it as the repeatable "last" command on an empty line).
	// Quitting is signaled separately via Session.quit, not this bool.
	run func(s *Session, m []string) (bool, error)
}

var repeatRe = regexp.MustCompile(`^\s*$`)

var commands = []command{
	{
		re:   regexp.MustCompile(`^\s*([sn])\s*(?:(\d+)\s*)?$`),
		help: []string{"s [count]            -- step in count instructions", "n [count]            -- step over count instructions"},
		run:  cmdStep,
	},
	{
		re:   regexp.MustCompile(`^\s*g\s*(?:(0x[0-9a-fA-F]+|[0-9]+)|([-_:*.a-zA-Z0-9]+))\s*$`),
		help: []string{"g <addr>|<label>     -- goto address/label"},
		run:  cmdGoto,
	},
	{
		re:   regexp.MustCompile(`^\s*([rdp])\s*(0x[0-9a-fA-F]+|[0-9]+)\s*=\s*(0x[0-9a-fA-F]+|[0-9]+)\s*$`),
		help: []string{"r<n>=val             -- set register n", "d<addr>=val          -- set data memory", "p<addr>=val          -- set program word"},
		run:  cmdAssign,
	},
	{
		re:   regexp.MustCompile(`^\s*ll\s*$`),
		help: []string{"ll                   -- list labels"},
		run:  cmdListLabels,
	},
	{
		re:   regexp.MustCompile(`^\s*l\s*(?:(0x[0-9a-fA-F]+|[0-9]+)\s*(?:(0x[0-9a-fA-F]+|[0-9]+)\s*)?)?$`),
		help: []string{"l [<addr>] [<count>] -- list disassembly"},
		run:  cmdList,
	},
	{
		re:   regexp.MustCompile(`^\s*t\s*(?:(\S+)\s*(?:(0x[0-9a-fA-F]+|[0-9]+)\s*)?)?$`),
		help: []string{"t [<file> [<stopaddr>]] -- open trace log (t alone closes it)"},
		run:  cmdTrace,
	},
	{
		re:   regexp.MustCompile(`^\s*q\s*$`),
		help: []string{"q                    -- quit"},
		run:  cmdQuit,
	},
	{
		re:   regexp.MustCompile(`^\s*[?h]\s*$`),
		help: []string{"?                    -- help"},
		run:  cmdHelp,
	},
}

// Process runs one command line, returning true when the session should
// quit. An empty line repeats the previously matched command, mirroring
// execute.cpp's CommandRepeat (must always run first).
func (s *Session) Process(line string) (bool, error) {
	if repeatRe.MatchString(line) {
		if s.last == nil {
			return false, nil
		}
		return s.runMatched(s.last, s.last.re.FindStringSubmatch(s.lastLine))
	}
	for i := range commands {
		c := &commands[i]
		if m := c.re.FindStringSubmatch(line); m != nil {
			s.lastLine = line
			return s.runMatched(c, m)
		}
	}
	fmt.Fprintf(s.Out, "unknown command %q\n", line)
	s.last = nil
	return false, nil
}

func (s *Session) runMatched(c *command, m []string) (bool, error) {
	ok, err := c.run(s, m)
	if err != nil {
		fmt.Fprintln(s.Out, "error:", err)
	}
	if ok {
		s.last = c
	} else {
		s.last = nil
	}
	return s.quit, nil
}

func parseNum(tok string) (uint32, error) {
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		v, err := strconv.ParseUint(tok[2:], 16, 32)
		return uint32(v), err
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	return uint32(v), err
}

func cmdStep(s *Session, m []string) (bool, error) {
	count := uint32(1)
	if m[2] != "" {
		n, err := strconv.ParseUint(m[2], 10, 32)
		if err != nil {
			return false, err
		}
		count = uint32(n)
	}
	atomic.StoreInt32(&s.interrupt, 0)
	switch m[1] {
	case "s":
		for i := uint32(0); i < count && !s.interrupted(); i++ {
			s.Mcu.Execute()
		}
	case "n":
		for i := uint32(0); i < count && !s.interrupted(); i++ {
			stepOver(s)
		}
	}
	fmt.Fprintf(s.Out, "PC=%05x SREG=%02x SP=%04x\n", s.Mcu.PC, s.Mcu.SREG(), s.Mcu.SP())
	return true, nil
}

// stepOver executes one call as a single visible step, running the Mcu
// loop until PC returns to the static fall-through address or an
// Interrupt arrives -- the same technique as execute.cpp's CommandStep
// 'n' case.
func stepOver(s *Session) {
	pc := s.Mcu.PC
	cmd := s.Mcu.Program(pc)
	desc := s.Mcu.Decode(cmd)
	if desc == nil || !desc.IsCall {
		s.Mcu.Execute()
		return
	}
	target := pc + uint32(desc.Size)
	for s.Mcu.PC != target && !s.interrupted() {
		s.Mcu.Execute()
	}
}

func cmdGoto(s *Session, m []string) (bool, error) {
	if m[2] != "" {
		e, ok := s.Mcu.Xrefs().ByLabel(m[2])
		if !ok {
			fmt.Fprintln(s.Out, "illegal value")
			return false, nil
		}
		s.Mcu.PC = e.Addr
		return true, nil
	}
	addr, err := parseNum(m[1])
	if err != nil {
		return false, err
	}
	s.Mcu.PC = addr
	return true, nil
}

func cmdAssign(s *Session, m []string) (bool, error) {
	idx, err := parseNum(m[2])
	if err != nil {
		return false, err
	}
	val, err := parseNum(m[3])
	if err != nil {
		return false, err
	}
	switch m[1] {
	case "r":
		if idx > 0x1f || val > 0xff {
			fmt.Fprintln(s.Out, "illegal value")
			return false, nil
		}
		s.Mcu.Regs()[idx] = uint8(val)
	case "d":
		if val > 0xff {
			fmt.Fprintln(s.Out, "illegal value")
			return false, nil
		}
		s.Mcu.SetData(uint16(idx), uint8(val))
	case "p":
		if val > 0xffff {
			fmt.Fprintln(s.Out, "illegal value")
			return false, nil
		}
		s.Mcu.SetProgram(idx, uint16(val))
	}
	return true, nil
}

func cmdList(s *Session, m []string) (bool, error) {
	pc0 := s.Mcu.PC
	addr := pc0
	count := uint32(20)
	if m[2] != "" {
		a, err := parseNum(m[1])
		if err != nil {
			return false, err
		}
		c, err := parseNum(m[2])
		if err != nil {
			return false, err
		}
		addr, count = a, c
	} else if m[1] != "" {
		c, err := parseNum(m[1])
		if err != nil {
			return false, err
		}
		count = c
	}

	for pc := addr; pc < addr+count; {
		line, next := disasm.Render(s.Mcu, pc)
		fmt.Fprintln(s.Out, line.String())
		pc = next
	}
	fmt.Fprintln(s.Out)
	s.Mcu.PC = pc0
	return true, nil
}

func cmdListLabels(s *Session, _ []string) (bool, error) {
	entries := s.Mcu.Xrefs().All()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Addr < entries[j].Addr })
	for _, e := range entries {
		line := fmt.Sprintf("[%05x] %s", e.Addr, e.Label)
		if e.Description != "" {
			line += " -- " + e.Description
		}
		fmt.Fprintln(s.Out, line)
	}
	fmt.Fprintln(s.Out)
	return true, nil
}

// cmdTrace opens or closes the Mcu's trace log. "t" alone closes a trace
// that is open; "t <file> [<stopaddr>]" opens one, optionally armed to
// auto-close once PC reaches stopaddr. Messages mirror
// Mcu::Trace::Open/Close's "trace file already open"/"not open"/"open
// failed"/"closed" replies.
func cmdTrace(s *Session, m []string) (bool, error) {
	open := s.Mcu.Trace() != nil && s.Mcu.Trace().IsOpen()

	if m[1] == "" {
		if !open {
			fmt.Fprintln(s.Out, "trace file not open")
			return false, nil
		}
		s.Mcu.Trace().Close()
		fmt.Fprintln(s.Out, "trace file closed")
		return true, nil
	}

	if open {
		fmt.Fprintln(s.Out, "trace file already open")
		return false, nil
	}
	tr, err := trace.Open(m[1])
	if err != nil {
		fmt.Fprintln(s.Out, "trace file open failed")
		return false, nil
	}
	if m[2] != "" {
		addr, err := parseNum(m[2])
		if err != nil {
			return false, err
		}
		tr.SetStopPC(addr)
	}
	s.Mcu.SetTrace(tr)
	return true, nil
}

func cmdQuit(s *Session, _ []string) (bool, error) {
	s.quit = true
	return true, nil
}

func cmdHelp(s *Session, _ []string) (bool, error) {
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "<empty line>         -- repeat last command")
	for _, c := range commands {
		for _, h := range c.help {
			fmt.Fprintln(s.Out, h)
		}
	}
	fmt.Fprintln(s.Out)
	return true, nil
}
