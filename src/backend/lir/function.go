package lir

import (
	"lowc/src/backend/regfile"
	"lowc/src/ir/lir"
	"lowc/src/ir/lir/types"
	"lowc/src/util"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// ---------------------
// ----- Constants -----
// ---------------------

// savedPrefix prefixes the placeholder variables holding the entry values of callee-saved registers.
const savedPrefix = "saved-register-"

// frameRecord is the size of the saved frame pointer and link register pair.
const frameRecord = 16

// stackAlign is the required alignment of the stack pointer at call boundaries.
const stackAlign = 16

// -------------------
// ----- Globals -----
// -------------------

// ErrArgumentOnStack is returned for function parameters passed beyond the argument registers.
var ErrArgumentOnStack = errors.New("stack passed parameters are not supported")

// ErrFrameTooLarge is returned for stack frames the target can't address with immediate offsets.
var ErrFrameTooLarge = errors.New("stack frame too large")

// ---------------------
// ----- Functions -----
// ---------------------

// GenFunction generates the assembler text of Function fn. Parameters are bound to their argument registers and
// the entry value of every callee-saved general purpose register is tracked as a variable of its own, so the
// planner spills it when the register is needed and the epilogue restores it. The location planner runs
// before every instruction on the remaining instruction window, with the arguments placed since the last call
// kept in place until that call.
func GenFunction(fn *lir.Function, regs regfile.Table, asm Assembler) (string, error) {
	frame := &fn.Frame
	if frame.Variables == nil {
		frame.Variables = lir.NewVariableSet()
	}

	// Parameters.
	for _, e1 := range fn.Instructions {
		if e1.Type != types.GetArgument {
			continue
		}
		r, ok := regs.ArgumentRegister(e1.N)
		if !ok {
			return "", errors.Wrapf(ErrArgumentOnStack, "function %s: parameter %s is argument %d", fn.Name, e1.Variable, e1.N)
		}
		frame.Variables.Add(lir.NewVariable(e1.Variable, lir.Register(r.Name)))
	}

	// Callee-saved registers.
	saved := make([]string, 0, 16)
	for _, e1 := range regs.BySaver(regfile.Callee) {
		if !e1.Has(regfile.GeneralPurpose) {
			continue
		}
		frame.Variables.Add(lir.NewVariable(savedPrefix+e1.Name, lir.Register(e1.Name)))
		saved = append(saved, e1.Name)
	}

	body := util.Writer{}
	for i1, e1 := range fn.Instructions {
		s, err := PlanFrame(frame, regs, asm, fn.Instructions[i1:])
		if err != nil {
			return "", errors.Wrapf(err, "function %s: instruction %d (%s)", fn.Name, i1, e1)
		}
		body.Write("%s", s)
		switch e1.Type {
		case types.DeclareVariable:
			frame.Variables.Add(lir.NewVariable(e1.Variable))
		case types.UseVariableAsArgument:
			frame.Arguments = append(frame.Arguments, e1)
		case types.CallFunction:
			asm.Call(&body, e1.Function)
			frame.Arguments = nil
		}
	}
	if err := restore(&body, asm, regs, frame.Variables, saved); err != nil {
		return "", errors.Wrapf(err, "function %s: restore callee-saved registers", fn.Name)
	}

	size := FrameSize(frame.Offset)
	if limit := asm.MaxFrame(); size > limit {
		return "", errors.Wrapf(ErrFrameTooLarge, "function %s: frame of %d bytes, at most %d", fn.Name, size, limit)
	}
	wr := util.Writer{}
	wr.Label(fn.Name)
	asm.Prologue(&wr, size)
	wr.Write("%s", body.String())
	asm.Epilogue(&wr, size)
	return wr.String(), nil
}

// FrameSize returns the stack frame size of a function whose spill slots end at offset.
func FrameSize(offset uint64) uint64 {
	size := offset + frameRecord
	if rem := size % stackAlign; rem != 0 {
		size += stackAlign - rem
	}
	return size
}

// restore moves the entry value of every displaced callee-saved register back into place.
func restore(w *util.Writer, asm Assembler, regs regfile.Table, vars *lir.VariableSet, saved []string) error {
	moves := make([]move, 0, len(saved))
	loads := make([]load, 0, len(saved))
	for _, e1 := range saved {
		v := vars.Get(savedPrefix + e1)
		if v == nil || v.HasRegister(e1) {
			continue
		}
		l, ok := v.CheapestLocation()
		if !ok {
			continue
		}
		if src, ok := l.RegisterName(); ok {
			moves = append(moves, move{dst: e1, src: src})
		} else {
			loads = append(loads, load{dst: e1, src: l})
		}
	}
	return realise(w, asm, regs, mapset.NewThreadUnsafeSet[string](saved...), moves, loads)
}
