package lir

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Frame is the planning context of one function body: its live variables, the number of bytes allocated
// on the stack since the start of the function and the arguments already placed for the next call. The offset
// only ever grows.
type Frame struct {
	Variables *VariableSet  // Live variables, mutated in place by the planner.
	Offset    uint64        // Cumulative stack frame offset in bytes.
	Arguments []Instruction // UseVariableAsArgument instructions executed since the last call.
}

// Function is one function body: its name, the planning context at entry and its macro-instruction stream.
type Function struct {
	Name         string        // Assembler label of the function.
	Frame        Frame         // Planning context.
	Instructions []Instruction // Macro-instruction stream.
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewFunction returns a Function with an empty frame.
func NewFunction(name string, instructions ...Instruction) *Function {
	return &Function{
		Name:         name,
		Frame:        Frame{Variables: NewVariableSet()},
		Instructions: instructions,
	}
}

// ----------------------------
// ----- Function methods -----
// ----------------------------

// String returns the textual LIR representation of Function f.
func (f *Function) String() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("function %s (stack %d)\n", f.Name, f.Frame.Offset))
	for _, e1 := range f.Frame.Variables.Variables() {
		sb.WriteString(fmt.Sprintf("\tvar %s\n", e1.String()))
	}
	for i1, e1 := range f.Instructions {
		sb.WriteString(fmt.Sprintf("\t%03d %s\n", i1, e1.String()))
	}
	return sb.String()
}
