// Package regfile provides type definitions for physical register files and the architecture descriptions
// that supply them.
package regfile

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Saver defines which side of a call is responsible for preserving a register's value.
type Saver uint8

// TagKind defines a role a register can play.
type TagKind uint8

// Tag is a register role. N holds the argument index for Argument tags and is zero otherwise.
type Tag struct {
	Kind TagKind // Role of the register.
	N    int     // The n-th argument, only meaningful for Argument.
}

// Register defines a physical register. Registers are immutable once a Table has been built.
type Register struct {
	Name  string // Assembler name of the register.
	Bits  uint8  // Width of the register in bits.
	Saver Saver  // Save discipline of the register.
	Tags  []Tag  // Roles of the register.
}

// Table is the register list of one architecture.
type Table []Register

// Arch defines the capability interface every target architecture implements.
type Arch interface {
	Name() string     // Full name of the architecture, like "aarch64-mac-os".
	Bits() uint8      // Width of the largest register in bits.
	Registers() Table // The register table of the architecture.
}

// BitUnit defines a data width.
type BitUnit uint8

// ---------------------
// ----- Constants -----
// ---------------------

const (
	Caller Saver = iota // Caller-saved register.
	Callee              // Callee-saved register.
	OS                  // Reserved by the operating system, don't modify.
	None                // Scratch register without preservation obligations.
)

const (
	Argument       TagKind = iota // Carries the N-th call argument.
	GeneralPurpose                // May hold any variable.
	Scratch                       // Temporary relay during register shuffling.
	StackPointer                  // The stack pointer.
	FramePointer                  // The frame pointer.
	NoModify                      // Must never be written.
)

const (
	Byte            BitUnit = iota // Byte is 8 bits.
	Word                           // Word is 16 bits.
	DoubleWord                     // DoubleWord is 32 bits.
	QuadWord                       // QuadWord is 64 bits.
	ArchitectureMax                // ArchitectureMax is the widest register of the architecture.
)

// -------------------
// ----- Globals -----
// -------------------

// ErrInvalidWidth is returned when an architecture reports a register width outside {8, 16, 32, 64}.
var ErrInvalidWidth = errors.New("invalid maximum register width")

// ErrInvalidTable is returned by Table.Validate for inconsistent register tables.
var ErrInvalidTable = errors.New("invalid register table")

// sTyp provides string literals for Saver constants.
var sTyp = [...]string{
	"caller",
	"callee",
	"os",
	"none",
}

// tTyp provides string literals for TagKind constants.
var tTyp = [...]string{
	"argument",
	"general-purpose",
	"scratch",
	"stack-pointer",
	"frame-pointer",
	"no-modify",
}

// bTyp provides string literals for BitUnit constants.
var bTyp = [...]string{
	"byte",
	"word",
	"double-word",
	"quad-word",
	"architecture-max",
}

// ---------------------
// ----- Functions -----
// ---------------------

// ArgumentTag returns the tag for the n-th argument register.
func ArgumentTag(n int) Tag {
	return Tag{Kind: Argument, N: n}
}

// Role returns a tag without argument index.
func Role(kind TagKind) Tag {
	return Tag{Kind: kind}
}

// String provides a print friendly string representation of the Saver.
func (s Saver) String() string {
	return sTyp[s]
}

// String provides a print friendly string representation of the TagKind.
func (k TagKind) String() string {
	return tTyp[k]
}

// String provides a print friendly string representation of the BitUnit.
func (u BitUnit) String() string {
	return bTyp[u]
}

// String provides a print friendly string representation of the Tag.
func (t Tag) String() string {
	if t.Kind == Argument {
		return fmt.Sprintf("%s(%d)", t.Kind, t.N)
	}
	return t.Kind.String()
}

// Resolve returns the concrete unit of u. ArchitectureMax is resolved to the widest register of arch.
func (u BitUnit) Resolve(arch Arch) (BitUnit, error) {
	if u != ArchitectureMax {
		return u, nil
	}
	switch arch.Bits() {
	case 8:
		return Byte, nil
	case 16:
		return Word, nil
	case 32:
		return DoubleWord, nil
	case 64:
		return QuadWord, nil
	default:
		return u, errors.Wrapf(ErrInvalidWidth,
			"architecture %q set %d as the max amount of bits a register can store (valid: 8, 16, 32, 64)",
			arch.Name(), arch.Bits())
	}
}

// ----------------------------
// ----- Register methods -----
// ----------------------------

// IsArgument returns true if the register carries the n-th call argument.
func (r Register) IsArgument(n int) bool {
	for _, e1 := range r.Tags {
		if e1.Kind == Argument && e1.N == n {
			return true
		}
	}
	return false
}

// Has returns true if the register has a tag of the given kind.
func (r Register) Has(kind TagKind) bool {
	for _, e1 := range r.Tags {
		if e1.Kind == kind {
			return true
		}
	}
	return false
}

// String returns the assembler string of the register.
func (r Register) String() string {
	return r.Name
}

// -------------------------
// ----- Table methods -----
// -------------------------

// Get returns the register with the given name.
func (t Table) Get(name string) (Register, bool) {
	for _, e1 := range t {
		if e1.Name == name {
			return e1, true
		}
	}
	return Register{}, false
}

// ArgumentRegister returns the register carrying the n-th call argument, if the architecture has one.
func (t Table) ArgumentRegister(n int) (Register, bool) {
	for _, e1 := range t {
		if e1.IsArgument(n) {
			return e1, true
		}
	}
	return Register{}, false
}

// WithRole returns all registers tagged with kind, in table order.
func (t Table) WithRole(kind TagKind) []Register {
	res := make([]Register, 0, len(t))
	for _, e1 := range t {
		if e1.Has(kind) {
			res = append(res, e1)
		}
	}
	return res
}

// GeneralPurpose returns all general purpose registers in table order.
func (t Table) GeneralPurpose() []Register {
	return t.WithRole(GeneralPurpose)
}

// BySaver returns all registers with the save discipline s, in table order.
func (t Table) BySaver(s Saver) []Register {
	res := make([]Register, 0, len(t))
	for _, e1 := range t {
		if e1.Saver == s {
			res = append(res, e1)
		}
	}
	return res
}

// Scratch returns the scratch register.
func (t Table) Scratch() (Register, bool) {
	return t.unique(Scratch)
}

// StackPointer returns the stack pointer register.
func (t Table) StackPointer() (Register, bool) {
	return t.unique(StackPointer)
}

// FramePointer returns the frame pointer register.
func (t Table) FramePointer() (Register, bool) {
	return t.unique(FramePointer)
}

// unique returns the first register tagged with kind.
func (t Table) unique(kind TagKind) (Register, bool) {
	for _, e1 := range t {
		if e1.Has(kind) {
			return e1, true
		}
	}
	return Register{}, false
}

// Validate verifies the table invariants: register names are unique, at most one stack pointer and frame
// pointer, argument indices are claimed by one register each and exactly one scratch register exists.
func (t Table) Validate() error {
	names := mapset.NewThreadUnsafeSet[string]()
	args := mapset.NewThreadUnsafeSet[int]()
	for _, e1 := range t {
		if !names.Add(e1.Name) {
			return errors.Wrapf(ErrInvalidTable, "register %s defined twice", e1.Name)
		}
		for _, e2 := range e1.Tags {
			if e2.Kind == Argument && !args.Add(e2.N) {
				return errors.Wrapf(ErrInvalidTable, "argument %d claimed by more than one register", e2.N)
			}
		}
	}
	if n := len(t.WithRole(StackPointer)); n > 1 {
		return errors.Wrapf(ErrInvalidTable, "%d stack pointers", n)
	}
	if n := len(t.WithRole(FramePointer)); n > 1 {
		return errors.Wrapf(ErrInvalidTable, "%d frame pointers", n)
	}
	if n := len(t.WithRole(Scratch)); n != 1 {
		return errors.Wrapf(ErrInvalidTable, "expected exactly one scratch register, got %d", n)
	}
	return nil
}
