// Package riscv provides the 64-bit RISC-V Linux target: its register table and the assembler text of the
// instructions the location planner and function driver emit.
//
// RISV-V has a downward growing stack that is always 16-bytes aligned.
package riscv

import (
	"lowc/src/backend/regfile"
	"lowc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Arch is the riscv64 Linux target. The zero value is ready to use.
type Arch struct{}

// ---------------------
// ----- Constants -----
// ---------------------

// name is the full name of the architecture.
const name = "riscv64-linux"

// Base registers (integer).
const (
	x0  = iota // Zero register, RO.
	x1         // Return address (caller save).
	x2         // Stack pointer (callee save).
	x3         // Global pointer.
	x4         // Thread pointer.
	x5         // Temp register (caller saved).
	x6         // Temp register (caller saved).
	x7         // Temp register (caller saved).
	x8         // Frame pointer (callee saved).
	x9         // Saved (callee saved).
	x10        // Function args and return (caller saved).
	x11        // Function args and return (caller saved).
	x12        // Function arguments (caller saved).
	x13        // Function arguments (caller saved).
	x14        // Function arguments (caller saved).
	x15        // Function arguments (caller saved).
	x16        // Function arguments (caller saved).
	x17        // Function arguments (caller saved).
	x18        // Saved (callee saved).
	x19        // Saved (callee saved).
	x20        // Saved (callee saved).
	x21        // Saved (callee saved).
	x22        // Saved (callee saved).
	x23        // Saved (callee saved).
	x24        // Saved (callee saved).
	x25        // Saved (callee saved).
	x26        // Saved (callee saved).
	x27        // Saved (callee saved).
	x28        // Temp (caller saved).
	x29        // Temp (caller saved).
	x30        // Temp (caller saved).
	x31        // Temp (caller saved). Used as scratch.
)

// Aliases.
const (
	zero = x0 // Zero.
	ra   = x1 // Return address.
	sp   = x2 // Stack pointer.
	gp   = x3 // Global pointer.
	tp   = x4 // Thread pointer.
	fp   = x8 // Frame pointer.
)

// Integer argument register aliases.
const (
	a0 = iota + x10
	a7 = a0 + argsReg - 1
)

const word64 = 8     // word64 defines the length of a 64-bit architecture word.
const argsReg = 8    // argsReg defines the number of arguments put directly in registers.
const bitSize64 = 64 // Number of bits in a 64-bit register.

const (
	load  = "ld"
	store = "sd"
)

// -------------------
// ----- Globals -----
// -------------------

// regi contains the ABI string literals for the base integer registers.
var regi = [...]string{
	"zero",
	"ra",
	"sp",
	"gp",
	"tp",
	"t0",
	"t1",
	"t2",
	"s0",
	"s1",
	"a0",
	"a1",
	"a2",
	"a3",
	"a4",
	"a5",
	"a6",
	"a7",
	"s2",
	"s3",
	"s4",
	"s5",
	"s6",
	"s7",
	"s8",
	"s9",
	"s10",
	"s11",
	"t3",
	"t4",
	"t5",
	"t6",
}

// table is the register table of the architecture, built once.
var table = createRegisterTable()

// ---------------------
// ----- Functions -----
// ---------------------

// New returns the riscv64 Linux target.
func New() Arch {
	return Arch{}
}

// createRegisterTable builds the riscv64 register table per the standard calling convention.
func createRegisterTable() regfile.Table {
	t := make(regfile.Table, 0, len(regi))
	for i1, e1 := range regi {
		r := regfile.Register{
			Name: e1,
			Bits: bitSize64,
		}
		switch {
		case i1 == zero, i1 == gp, i1 == tp:
			r.Saver = regfile.OS
			r.Tags = []regfile.Tag{regfile.Role(regfile.NoModify)}
		case i1 == ra:
			r.Saver = regfile.Caller
			r.Tags = []regfile.Tag{regfile.Role(regfile.NoModify)}
		case i1 == sp:
			r.Saver = regfile.Callee
			r.Tags = []regfile.Tag{regfile.Role(regfile.StackPointer)}
		case i1 == fp:
			r.Saver = regfile.Callee
			r.Tags = []regfile.Tag{regfile.Role(regfile.FramePointer)}
		case i1 >= a0 && i1 <= a7:
			r.Saver = regfile.Caller
			r.Tags = []regfile.Tag{regfile.ArgumentTag(i1 - a0), regfile.Role(regfile.GeneralPurpose)}
		case i1 == x9, i1 >= x18 && i1 <= x27:
			r.Saver = regfile.Callee
			r.Tags = []regfile.Tag{regfile.Role(regfile.GeneralPurpose)}
		case i1 == x31:
			r.Saver = regfile.None
			r.Tags = []regfile.Tag{regfile.Role(regfile.Scratch)}
		default:
			r.Saver = regfile.Caller
			r.Tags = []regfile.Tag{regfile.Role(regfile.GeneralPurpose)}
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
	w.Write("\t.option\tnopic\n")
	w.Write("\t.text\n")
	w.Write("\t.align\t2\n")
}

// Store writes src to the stack at offset.
func (Arch) Store(w *util.Writer, src string, offset uint64) {
	w.Write("\t%s\t%s, %d(%s)\n", store, src, offset, regi[sp])
}

// StorePair always returns false, the base ISA has no paired store.
func (Arch) StorePair(*util.Writer, string, string, uint64) bool {
	return false
}

// Move copies register src into dst.
func (Arch) Move(w *util.Writer, dst, src string) {
	w.Ins2("mv", dst, src)
}

// Load reads dst from the stack at offset.
func (Arch) Load(w *util.Writer, dst string, offset uint64) {
	w.Write("\t%s\t%s, %d(%s)\n", load, dst, offset, regi[sp])
}

// LoadIndirect reads dst from the address held in base.
func (Arch) LoadIndirect(w *util.Writer, dst, base string) {
	w.Write("\t%s\t%s, 0(%s)\n", load, dst, base)
}
