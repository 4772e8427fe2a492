// Package arm provides the aarch64 target: its register table and the assembler text of the instructions the
// location planner and function driver emit.
package arm

import (
	"lowc/src/backend/regfile"
	"lowc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Arch is the aarch64 Mac OS target. The zero value is ready to use.
type Arch struct{}

// ---------------------
// ----- Constants -----
// ---------------------

// name is the full name of the architecture.
const name = "aarch64-mac-os"

const (
	bitSize64  = 64 // Number of bits in 64-bit architecture.
	wordSize64 = 8  // Word size in bytes for 64-bit architecture.
)

// paramReg defines the maximum number of arguments that can go in parameters.
const paramReg = 8

// maxPairOffset is the largest offset a 64-bit stp can encode: a signed 7-bit immediate scaled by 8.
const maxPairOffset = 504

// Integer general purpose registers.
const (
	r0 = iota
	r1
	r2
	r3
	r4
	r5
	r6
	r7
	r8
	r9
	r10
	r11
	r12
	r13
	r14
	r15
	r16
	r17
	r18
	r19
	r20
	r21
	r22
	r23
	r24
	r25
	r26
	r27
	r28
	r29
	r30
)

// From: https://documentation-service.arm.com/static/5fa43415b1a7c5445f292563?token=
//
// General purpose integer registers.
//
// r19-28	Callee saved registers.
// r18		Platform register, do not use.
// r9-r17	Temporary registers (caller saved).
// r8		Indirect result location register. Used as scratch.
// r0-r7	Parameter and result registers.

const (
	lr = r30     // Link register.
	fp = r29     // Frame pointer (top of stack frame).
	sp = r30 + 1 // Stack pointer (bottom of stack frame).
)

const (
	load  = "ldr"
	store = "str"
)

// -------------------
// ----- Globals -----
// -------------------

// regi defines print friendly string representations of the general purpose integer registers.
var regi = [...]string{
	"x0",
	"x1",
	"x2",
	"x3",
	"x4",
	"x5",
	"x6",
	"x7",
	"x8",
	"x9",
	"x10",
	"x11",
	"x12",
	"x13",
	"x14",
	"x15",
	"x16",
	"x17",
	"x18",
	"x19",
	"x20",
	"x21",
	"x22",
	"x23",
	"x24",
	"x25",
	"x26",
	"x27",
	"x28",
	"fp",
	"lr",
	"sp",
}

// table is the register table of the architecture, built once.
var table = createRegisterTable()

// ---------------------
// ----- Functions -----
// ---------------------

// New returns the aarch64 Mac OS target.
func New() Arch {
	return Arch{}
}

// createRegisterTable builds the aarch64 register table per the procedure call standard.
func createRegisterTable() regfile.Table {
	t := make(regfile.Table, 0, len(regi))
	for i1, e1 := range regi {
		r := regfile.Register{
			Name: e1,
			Bits: bitSize64,
		}
		switch {
		case i1 < paramReg:
			r.Saver = regfile.Caller
			r.Tags = []regfile.Tag{regfile.ArgumentTag(i1), regfile.Role(regfile.GeneralPurpose)}
		case i1 == r8:
			r.Saver = regfile.None
			r.Tags = []regfile.Tag{regfile.Role(regfile.Scratch)}
		case i1 <= r17:
			r.Saver = regfile.Caller
			r.Tags = []regfile.Tag{regfile.Role(regfile.GeneralPurpose)}
		case i1 == r18:
			r.Saver = regfile.OS
			r.Tags = []regfile.Tag{regfile.Role(regfile.NoModify)}
		case i1 <= r28:
			r.Saver = regfile.Callee
			r.Tags = []regfile.Tag{regfile.Role(regfile.GeneralPurpose)}
		case i1 == fp:
			r.Saver = regfile.Callee
			r.Tags = []regfile.Tag{regfile.Role(regfile.FramePointer)}
		case i1 == lr:
			r.Saver = regfile.Callee
			r.Tags = []regfile.Tag{regfile.Role(regfile.NoModify)}
		case i1 == sp:
			r.Saver = regfile.Callee
			r.Tags = []regfile.Tag{regfile.Role(regfile.StackPointer)}
		}
		t = append(t, r)
	}
	return t
}

// ------------------------
// ----- Arch methods -----
// ------------------------

// Name returns the full name of the architecture.
func (Arch) Name() string {
	return name
}

// Bits returns the width of the largest register.
func (Arch) Bits() uint8 {
	return bitSize64
}

// Registers returns a copy of the register table.
func (Arch) Registers() regfile.Table {
	res := make(regfile.Table, len(table))
	copy(res, table)
	return res
}

// Preamble writes the assembler directives heading the output file.
func (Arch) Preamble(w *util.Writer) {
	w.Write("\t.arch\tarmv8-a\n")
	w.Write("\t.text\n")
	w.Write("\t.align\t2\n")
}

// Store writes src to the stack at offset.
func (Arch) Store(w *util.Writer, src string, offset uint64) {
	w.Write("\t%s\t%s, [%s, #%d]\n", store, src, regi[sp], offset)
}

// StorePair writes first to the stack at offset and second at the next word. It returns false if offset is out of
// range of the stp immediate.
func (Arch) StorePair(w *util.Writer, first, second string, offset uint64) bool {
	if offset > maxPairOffset {
		return false
	}
	w.Write("\tstp\t%s, %s, [%s, #%d]\n", first, second, regi[sp], offset)
	return true
}

// Move copies register src into dst.
func (Arch) Move(w *util.Writer, dst, src string) {
	w.Ins2("mov", dst, src)
}

// Load reads dst from the stack at offset.
func (Arch) Load(w *util.Writer, dst string, offset uint64) {
	w.Write("\t%s\t%s, [%s, #%d]\n", load, dst, regi[sp], offset)
}

// LoadIndirect reads dst from the address held in base.
func (Arch) LoadIndirect(w *util.Writer, dst, base string) {
	w.Write("\t%s\t%s, [%s]\n", load, dst, base)
}
