package lir

import (
	"fmt"
	"lowc/src/ir/lir/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Instruction is a macro-instruction of the stream consumed by the location planner. The stream is only ever
// replayed by forward scan; the position of an instruction in the stream is its distance.
type Instruction struct {
	Type     types.InstructionType // Kind of macro-instruction.
	Variable string                // Full name of the referenced variable, if any.
	Function string                // Name of the called function, for types.CallFunction.
	N        int                   // Argument slot, or argument count for types.CallFunction.
}

// ---------------------
// ----- Functions -----
// ---------------------

// DeclareVariable returns an instruction declaring the named variable.
func DeclareVariable(name string) Instruction {
	return Instruction{Type: types.DeclareVariable, Variable: name}
}

// DestroyVariable returns an instruction ending the life of the named variable.
func DestroyVariable(name string) Instruction {
	return Instruction{Type: types.DestroyVariable, Variable: name}
}

// UseVariableAsArgument returns an instruction passing the named variable as argument slot.
func UseVariableAsArgument(name string, slot int) Instruction {
	return Instruction{Type: types.UseVariableAsArgument, Variable: name, N: slot}
}

// CallFunction returns an instruction calling function name with argc arguments.
func CallFunction(name string, argc int) Instruction {
	return Instruction{Type: types.CallFunction, Function: name, N: argc}
}

// GetArgument returns an instruction binding the named variable to incoming argument slot.
func GetArgument(name string, slot int) Instruction {
	return Instruction{Type: types.GetArgument, Variable: name, N: slot}
}

// -------------------------------
// ----- Instruction methods -----
// -------------------------------

// References returns true if the instruction refers to the named variable.
func (inst Instruction) References(name string) bool {
	return inst.Type != types.CallFunction && inst.Variable == name
}

// String returns the textual representation of the instruction, as accepted by the listing parser.
func (inst Instruction) String() string {
	switch inst.Type {
	case types.DeclareVariable:
		return fmt.Sprintf("declare %s", inst.Variable)
	case types.DestroyVariable:
		return fmt.Sprintf("destroy %s", inst.Variable)
	case types.UseVariableAsArgument:
		return fmt.Sprintf("use %s %d", inst.Variable, inst.N)
	case types.CallFunction:
		return fmt.Sprintf("call %s %d", inst.Function, inst.N)
	case types.GetArgument:
		return fmt.Sprintf("argument %s %d", inst.Variable, inst.N)
	default:
		return fmt.Sprintf("unknown instruction %d", inst.Type)
	}
}
