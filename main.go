/*
 * avrdbg - avrdbg command-line entry point
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

// avrdbg - disassembler / interpreter / interactive debugger for AVR 8-bit
// flash images.
//
// Grounded on _examples/original_source/source/main.cpp's argv scan (the
// <prog> [-d] [-e] [-ee <macro>] [-m <mcu>] [-x <xref>] [-p <eeprom>]
// [-t <trace>] <avr-bin> grammar, the mcuFactory name table, and the
// disasm-unless-execute-only dispatch) and on the teacher's root main.go
// for the surrounding Go idiom: getopt/v2 flag parsing, a slog default
// logger built once at startup, os.Exit on error paths. Like -ee, -t
// implies -e -- a trace is pointless without instructions running to
// record.
package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/avrdbg/avrem/internal/chip"
	"github.com/avrdbg/avrem/internal/diag"
	"github.com/avrdbg/avrem/internal/disasm"
	"github.com/avrdbg/avrem/internal/loader"
	"github.com/avrdbg/avrem/internal/logger"
	"github.com/avrdbg/avrem/internal/mcu"
	"github.com/avrdbg/avrem/internal/repl"
	"github.com/avrdbg/avrem/internal/trace"
)

// mcuFactory mirrors main.cpp's std::map<std::string, ...> of chip
// constructors, restricted to the variants internal/chip implements.
var mcuFactory = map[string]func(*diag.Sink) *mcu.Mcu{
	"ATmega328P":    chip.NewATmega328P,
	"ATmega168PA":   chip.NewATmega168PA,
	"ATmega88PA":    chip.NewATmega88PA,
	"ATmega48PA":    chip.NewATmega48PA,
	"ATmega2560":    chip.NewATmega2560,
	"ATtiny85":      chip.NewATtiny85,
	"ATtiny45":      chip.NewATtiny45,
	"ATtiny25":      chip.NewATtiny25,
	"ATxmega128A4U": chip.NewATxmega128A4U,
	"ATxmega64A4U":  chip.NewATxmega64A4U,
	"ATxmega32A4U":  chip.NewATxmega32A4U,
}

func main() {
	os.Exit(run())
}

func run() int {
	optDisasm := getopt.BoolLong("disasm", 'd', "render disassembly to standard output")
	optExecute := getopt.BoolLong("execute", 'e', "enter the REPL after loading")
	optMacro := getopt.StringLong("ee", 0, "", "run REPL commands from <macro> before the REPL (implies -e)")
	optMcu := getopt.StringLong("mcu", 'm', "ATmega328P", "MCU variant")
	optXref := getopt.StringLong("xref", 'x', "", "cross-reference file")
	optEeprom := getopt.StringLong("eeprom", 'p', "", "binary EEPROM image")
	optTrace := getopt.StringLong("trace", 't', "", "open a call/return trace log at <file> (implies -e)")
	optLog := getopt.StringLong("log", 0, "", "log file")
	optHelp := getopt.BoolLong("help", 'h', "usage")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		fmt.Fprint(os.Stderr, "Supported MCU types:")
		for name := range mcuFactory {
			fmt.Fprintf(os.Stderr, " %s", name)
		}
		fmt.Fprintln(os.Stderr)
		return 0
	}

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		return 1
	}

	var logFile *os.File
	if *optLog != "" {
		f, err := os.Create(*optLog)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		logFile = f
		defer logFile.Close()
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	log := slog.New(logger.New(logFile, programLevel, false))
	slog.SetDefault(log)

	newChip, ok := mcuFactory[*optMcu]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown MCU type %q\n", *optMcu)
		return 1
	}

	sink := diag.NewSink(os.Stdout, diag.All)
	m := newChip(sink)

	words, err := loader.Flash(args[0])
	if err != nil {
		log.Error(err.Error())
		return 1
	}
	m.SetFlash(0, words)
	log.Info("loaded flash image", "file", args[0], "words", len(words))

	if *optEeprom != "" {
		data, err := loader.Eeprom(*optEeprom)
		if err != nil {
			log.Error(err.Error())
			return 1
		}
		m.SetEeprom(data)
		log.Info("loaded eeprom image", "file", *optEeprom, "bytes", len(data))
	}

	if *optXref != "" {
		if err := loader.Xref(*optXref, m.Xrefs()); err != nil {
			log.Error(err.Error())
			return 1
		}
	}

	wantDisasm := *optDisasm
	execute := *optExecute
	if *optMacro != "" {
		execute = true
	}
	if *optTrace != "" {
		execute = true
	}

	if wantDisasm || !execute {
		printDisassembly(m)
	}

	if execute {
		if *optTrace != "" {
			tr, err := trace.Open(*optTrace)
			if err != nil {
				log.Error(err.Error())
				return 1
			}
			m.SetTrace(tr)
			defer tr.Close()
		}
		session := &repl.Session{Mcu: m, Out: os.Stdout}
		if *optMacro != "" {
			cmds, err := loader.Macro(*optMacro)
			if err != nil {
				log.Error(err.Error())
				return 1
			}
			for _, cmd := range cmds {
				if quit, err := session.Process(cmd); err != nil || quit {
					if err != nil {
						fmt.Fprintln(os.Stdout, "error:", err)
					}
					return 0
				}
			}
		}
		if err := session.Run("> "); err != nil {
			log.Error(err.Error())
			return 1
		}
	}

	return 0
}

// printDisassembly renders one line per loaded instruction, matching
// main.cpp's disasm loop (mcu->Disasm() printed until PC reaches the
// loaded extent).
func printDisassembly(m *mcu.Mcu) {
	for _, line := range disasm.Listing(m) {
		fmt.Println(line.String())
	}
}
