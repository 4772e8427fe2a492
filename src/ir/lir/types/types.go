// Package types defines LIR location types and macro-instruction types.
package types

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// LocationType defines the different places a value can live.
type LocationType uint

// InstructionType defines different type of LIR macro-instructions.
type InstructionType uint

// ---------------------
// ----- Constants -----
// ---------------------

const (
	Register                  LocationType = iota // Register identifies a value held in a named register.
	StackOffset                                   // StackOffset identifies a value at an immediate stack offset.
	StackOffsetAt                                 // StackOffsetAt identifies a value whose address is held at another location.
	Heap                                          // Heap identifies a heap allocation whose address is held at another location.
	AnyGeneralPurposeRegister                     // AnyGeneralPurposeRegister is a request for any general purpose register.
)

const (
	DeclareVariable       InstructionType = iota // DeclareVariable introduces a variable without a location.
	DestroyVariable                              // DestroyVariable ends the life of a variable.
	UseVariableAsArgument                        // UseVariableAsArgument passes a variable as the n-th call argument.
	CallFunction                                 // CallFunction calls a function with n arguments.
	GetArgument                                  // GetArgument binds a variable to the n-th incoming argument.
)

// -------------------
// ----- Globals -----
// -------------------

// lTyp provides string literals for LocationType constants.
var lTyp = [...]string{
	"Register",
	"StackOffset",
	"StackOffsetAt",
	"Heap",
	"AnyGeneralPurposeRegister",
}

// iTyp provides string literals for InstructionType constants.
var iTyp = [...]string{
	"DeclareVariable",
	"DestroyVariable",
	"UseVariableAsArgument",
	"CallFunction",
	"GetArgument",
}

// ---------------------
// ----- Functions -----
// ---------------------

// String provides a print friendly string representation of the LocationType.
func (typ LocationType) String() string {
	return lTyp[typ]
}

// String provides a print friendly string representation of the InstructionType.
func (inst InstructionType) String() string {
	return iTyp[inst]
}
