/*
 * avrdbg - Instruction descriptor catalogue
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

package mcu

// AllDescriptors returns the full catalogue of instruction descriptors in
// registration order. Order matters for the overlapping y/z-displacement
// encodings (spec §4.1/§9): memDescriptors() registers each zero-
// displacement LD/ST form before its general-displacement counterpart,
// so BuildTable's first-wins rule resolves the collision correctly
// regardless of which subset a chip factory later filters this list down
// to.
//
// Built once per process (design notes §9, "global instruction
// instances" -> a static table referenced by index instead of one
// singleton object per instruction); every Mcu's dispatch table is
// derived from (a subset of) this same slice.
func AllDescriptors() []*Descriptor {
	var all []*Descriptor
	all = append(all, arithDescriptors()...)
	all = append(all, bitDescriptors()...)
	all = append(all, branchDescriptors()...)
	all = append(all, memDescriptors()...)
	all = append(all, miscDescriptors()...)
	return all
}
