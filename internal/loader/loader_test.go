/*
 * avrdbg - Loader tests
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

package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avrdbg/avrem/internal/xref"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestFlashDecodesLittleEndianWords(t *testing.T) {
	path := writeTemp(t, "flash.bin", []byte{0x05, 0xE0, 0x0C, 0x94})
	words, err := Flash(path)
	if err != nil {
		t.Fatalf("Flash: %v", err)
	}
	want := []uint16{0xE005, 0x940C}
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d", len(words), len(want))
	}
	for i, w := range want {
		if words[i] != w {
			t.Errorf("word %d = %#04x, want %#04x", i, words[i], w)
		}
	}
}

func TestFlashOddLengthTrailsLowByteOnly(t *testing.T) {
	path := writeTemp(t, "flash.bin", []byte{0x05, 0xE0, 0x0C})
	words, err := Flash(path)
	if err != nil {
		t.Fatalf("Flash: %v", err)
	}
	if len(words) != 2 || words[1] != 0x000C {
		t.Fatalf("got %#v, want [0xe005 0x000c]", words)
	}
}

func TestEepromReturnsRawBytes(t *testing.T) {
	path := writeTemp(t, "eeprom.bin", []byte{0x2A, 0x00, 0xFF})
	data, err := Eeprom(path)
	if err != nil {
		t.Fatalf("Eeprom: %v", err)
	}
	want := []byte{0x2A, 0x00, 0xFF}
	if string(data) != string(want) {
		t.Errorf("got %v, want %v", data, want)
	}
}

func TestMacroSkipsBlankAndCommentLines(t *testing.T) {
	path := writeTemp(t, "macro.txt", []byte("s 1\n\n# a comment\nn 1\n"))
	cmds, err := Macro(path)
	if err != nil {
		t.Fatalf("Macro: %v", err)
	}
	want := []string{"s 1", "n 1"}
	if len(cmds) != len(want) {
		t.Fatalf("got %v, want %v", cmds, want)
	}
	for i, w := range want {
		if cmds[i] != w {
			t.Errorf("cmd %d = %q, want %q", i, cmds[i], w)
		}
	}
}

func TestXrefParsesTypeAddrLabelDescription(t *testing.T) {
	path := writeTemp(t, "xref.txt", []byte(
		"# comment line\n"+
			"j 0x10 loop_start top of the main loop\n"+
			"c 32 setup\n"+
			"\n"+
			"d 0x200 counter running total\n"))

	table := xref.New()
	if err := Xref(path, table); err != nil {
		t.Fatalf("Xref: %v", err)
	}

	e, ok := table.ByAddr(0x10)
	if !ok {
		t.Fatal("expected an entry at 0x10")
	}
	if e.Label != "loop_start" || e.Description != "top of the main loop" {
		t.Errorf("entry at 0x10 = %+v", e)
	}
	if !e.HasKind(xref.Jmp) {
		t.Errorf("entry at 0x10 should be kind Jmp")
	}

	e, ok = table.ByAddr(32)
	if !ok || e.Label != "setup" || e.Description != "" {
		t.Errorf("entry at 32 = %+v ok=%v", e, ok)
	}

	e, ok = table.ByAddr(0x200)
	if !ok || !e.HasKind(xref.Data) {
		t.Errorf("entry at 0x200 should exist and be kind Data, got %+v ok=%v", e, ok)
	}
}

func TestXrefRejectsUnknownType(t *testing.T) {
	path := writeTemp(t, "xref.txt", []byte("z 0x10 bad\n"))
	if err := Xref(path, xref.New()); err == nil {
		t.Fatal("expected an error for an unknown xref type")
	}
}

func TestXrefRejectsMalformedLabel(t *testing.T) {
	path := writeTemp(t, "xref.txt", []byte("j 0x10 bad/label\n"))
	if err := Xref(path, xref.New()); err == nil {
		t.Fatal("expected an error for a label with disallowed characters")
	}
}
