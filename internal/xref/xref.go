/*
 * avrdbg - Cross-reference table and label lookup
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

// Package xref implements the label graph described in spec §3/§4.4: a
// dual address/label map of cross-reference entries, kept transactionally
// in sync, plus the auto-labelling rule for unnamed targets.
//
// Grounded on spec §4.4 and the label-map shape sketched in
// _examples/original_source/source/avr.h (the xref container the
// analyzer and the disassembler both consult). No third-party map/graph
// library in the pack fits a map this small and structurally simple
// (two maps, one invariant) — a hand-rolled pair of maps is the idiomatic
// choice here, matching how the teacher itself (emu/sys_channel,
// emu/memory) reaches for plain built-in maps/slices over a container
// library whenever stdlib suffices.
package xref

import "fmt"

// Kind classifies why an address is a cross-reference target. An entry's
// Kinds field is a non-empty subset, since RJMP and BRBS etc. can all
// target the same address as different instructions.
type Kind int

const (
	Jmp Kind = iota
	Call
	Data
)

func (k Kind) prefix() string {
	switch k {
	case Jmp:
		return "Lbl"
	case Call:
		return "Fct"
	case Data:
		return "Dat"
	default:
		return "Lbl"
	}
}

// Entry is one cross-reference: a target address, its label, the set of
// kinds it has been reached as, an optional human description, and the
// PCs that reference it.
type Entry struct {
	Addr        uint32
	Label       string
	Description string
	Kinds       map[Kind]bool
	Sources     map[uint32]bool
}

func newEntry(addr uint32, label, description string, kind Kind) *Entry {
	return &Entry{
		Addr:        addr,
		Label:       label,
		Description: description,
		Kinds:       map[Kind]bool{kind: true},
		Sources:     map[uint32]bool{},
	}
}

// HasKind reports whether the entry was ever reached with classification k.
func (e *Entry) HasKind(k Kind) bool { return e.Kinds[k] }

// Table is the dual-keyed label graph: byAddr and byLabel must always
// agree (spec §8 invariant: XrefByAddr[a].Label == L iff XrefByLabel[L].Addr == a).
type Table struct {
	byAddr  map[uint32]*Entry
	byLabel map[string]*Entry
}

// New returns an empty table.
func New() *Table {
	return &Table{byAddr: map[uint32]*Entry{}, byLabel: map[string]*Entry{}}
}

// Clear empties the table, as XrefAnalyzer does at the start of each pass.
func (t *Table) Clear() {
	t.byAddr = map[uint32]*Entry{}
	t.byLabel = map[string]*Entry{}
}

// ByAddr looks up the entry targeting addr, if any.
func (t *Table) ByAddr(addr uint32) (*Entry, bool) {
	e, ok := t.byAddr[addr]
	return e, ok
}

// ByLabel looks up the entry named label, if any.
func (t *Table) ByLabel(label string) (*Entry, bool) {
	e, ok := t.byLabel[label]
	return e, ok
}

// All returns every entry, for listing commands.
func (t *Table) All() []*Entry {
	out := make([]*Entry, 0, len(t.byAddr))
	for _, e := range t.byAddr {
		out = append(out, e)
	}
	return out
}

// insert installs e into both maps atomically: either both receive it, or
// (on a label collision with a different address) neither does.
func (t *Table) insert(e *Entry) error {
	if existing, ok := t.byLabel[e.Label]; ok && existing.Addr != e.Addr {
		return fmt.Errorf("xref: label %q already targets %05x", e.Label, existing.Addr)
	}
	t.byAddr[e.Addr] = e
	t.byLabel[e.Label] = e
	return nil
}

// Seed adds a known-vector or user-supplied entry with an explicit label
// (spec §4.4 step 1). If addr already has an entry, kind is added to it
// and a non-empty description replaces its description, but its label is
// kept and label is ignored. Otherwise it fails if label already names a
// different address.
func (t *Table) Seed(addr uint32, kind Kind, label, description string) error {
	if existing, ok := t.byAddr[addr]; ok {
		existing.Kinds[kind] = true
		if description != "" {
			existing.Description = description
		}
		return nil
	}
	return t.insert(newEntry(addr, label, description, kind))
}

// Mark records that source targets addr as the given kind, creating an
// auto-labelled entry ("Fct_xxxxx"/"Lbl_xxxxx"/"Dat_xxxxx") if none
// exists yet for addr, and always adding source to its Sources set.
func (t *Table) Mark(addr uint32, kind Kind, source uint32) {
	e, ok := t.byAddr[addr]
	if !ok {
		e = newEntry(addr, autoLabel(kind, addr), "", kind)
		// Label collisions cannot happen for auto-labels: the address is
		// encoded in the label itself, and we already checked byAddr.
		_ = t.insert(e)
	} else {
		e.Kinds[kind] = true
	}
	e.Sources[source] = true
}

// Rename relabels the entry at addr to newLabel, erasing the old label
// entry before inserting the new one (spec §4.4 "Relabeling via
// XrefAdd(Xref) erases the old label entry").
func (t *Table) Rename(addr uint32, newLabel string) error {
	e, ok := t.byAddr[addr]
	if !ok {
		return fmt.Errorf("xref: no entry at %05x", addr)
	}
	if existing, ok := t.byLabel[newLabel]; ok && existing.Addr != addr {
		return fmt.Errorf("xref: label %q already targets %05x", newLabel, existing.Addr)
	}
	delete(t.byLabel, e.Label)
	e.Label = newLabel
	t.byLabel[newLabel] = e
	return nil
}

func autoLabel(kind Kind, addr uint32) string {
	return fmt.Sprintf("%s_%05x", kind.prefix(), addr)
}
