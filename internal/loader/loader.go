/*
 * avrdbg - Flash, EEPROM, xref, and macro file loaders
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

// Package loader reads the flat file formats the core consumes (spec §6):
// raw flash/EEPROM binaries, the xref text format, and REPL macro files.
//
// Grounded on config/configparser/configparser.go's line-scanner idiom
// (a per-line cursor struct, skipSpace/isEOL, `#`-comment handling,
// bufio.Reader.ReadString('\n') driving the read loop) -- the
// device-registration machinery that idiom originally served has no AVR
// analogue and is dropped (see DESIGN.md), but the scanning shape is
// reused directly for the xref file.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/avrdbg/avrem/internal/xref"
)

// Flash reads a raw little-endian flash image from path. Short files
// leave the tail zero-initialised by returning fewer words than
// flashWords; the caller (Mcu.SetFlash) truncates/pads on its own.
func Flash(path string) ([]uint16, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	words := make([]uint16, (len(raw)+1)/2)
	for i := range words {
		lo := uint16(raw[i*2])
		var hi uint16
		if i*2+1 < len(raw) {
			hi = uint16(raw[i*2+1])
		}
		words[i] = lo | hi<<8
	}
	return words, nil
}

// Eeprom reads a raw EEPROM image from path. The caller is responsible
// for 0xff-padding any remainder past what's returned (Mcu.SetEeprom
// leaves bytes beyond the supplied slice at their existing 0xff default).
func Eeprom(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Macro reads a macro file: one REPL command per line, consumed in order
// before control returns to the interactive prompt (spec §6). Each line
// has its leading and trailing whitespace trimmed; blank lines and
// `#`-comment lines are then dropped, and everything else is returned
// with its interior content unchanged.
func Macro(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cmds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmds = append(cmds, line)
	}
	return cmds, scanner.Err()
}

// xrefLine is one line's parse cursor, mirroring configparser's
// optionLine: a line of text plus a scan position, advanced by
// skipSpace/token rather than a regexp.
type xrefLine struct {
	line string
	pos  int
	num  int
}

func (l *xrefLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *xrefLine) isEOL() bool {
	return l.pos >= len(l.line) || l.line[l.pos] == '#'
}

// token reads the next run of non-space characters starting at pos.
func (l *xrefLine) token() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) && l.line[l.pos] != '#' {
		l.pos++
	}
	return l.line[start:l.pos]
}

// rest returns everything remaining on the line, trimmed, with any
// trailing comment removed.
func (l *xrefLine) rest() string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	text := l.line[l.pos:]
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

var labelPattern = func() func(string) bool {
	ok := func(r rune) bool {
		return r == '-' || r == '_' || r == ':' || r == '*' || r == '.' ||
			unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return func(s string) bool {
		if s == "" {
			return false
		}
		for _, r := range s {
			if !ok(r) {
				return false
			}
		}
		return true
	}
}()

func kindFromLetter(letter string) (xref.Kind, error) {
	switch letter {
	case "j":
		return xref.Jmp, nil
	case "c":
		return xref.Call, nil
	case "d":
		return xref.Data, nil
	default:
		return 0, fmt.Errorf("xref file: unknown type %q, want j, c, or d", letter)
	}
}

func parseAddr(tok string) (uint32, error) {
	base := 10
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		tok = tok[2:]
		base = 16
	}
	v, err := strconv.ParseUint(tok, base, 32)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", tok, err)
	}
	return uint32(v), nil
}

// Xref reads a cross-reference text file and seeds t with its entries
// (spec §6 xref file format: "<type> <addr> <label> [<description>]",
// `#` comments, blank lines ignored).
func Xref(path string, t *xref.Table) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	num := 0
	for {
		text, err := reader.ReadString('\n')
		num++
		if len(text) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		l := &xrefLine{line: text, num: num}
		l.skipSpace()
		if l.isEOL() {
			continue
		}
		if parseErr := parseXrefLine(l, t); parseErr != nil {
			return fmt.Errorf("xref file line %d: %w", num, parseErr)
		}
	}
}

func parseXrefLine(l *xrefLine, t *xref.Table) error {
	kind, err := kindFromLetter(l.token())
	if err != nil {
		return err
	}
	addr, err := parseAddr(l.token())
	if err != nil {
		return err
	}
	label := l.token()
	if !labelPattern(label) {
		return fmt.Errorf("bad label %q", label)
	}
	description := l.rest()
	return t.Seed(addr, kind, label, description)
}
