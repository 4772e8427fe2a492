package riscv

import "lowc/src/util"

// maxImmediate is the largest value of a signed 12-bit I-type or S-type immediate.
const maxImmediate = 1<<11 - 1

// Prologue grows the stack by n bytes and saves the return address and the old frame pointer at its top.
func (Arch) Prologue(w *util.Writer, n uint64) {
	N := int(n)
	// Grow stack downwards.
	w.Write("\taddi\t%s, %s, %d\n", regi[sp], regi[sp], -N)

	// Store old return address and frame pointer.
	w.Write("\t%s\t%s, %d(%s)\n", store, regi[ra], N-word64, regi[sp])
	w.Write("\t%s\t%s, %d(%s)\n", store, regi[fp], N-(word64<<1), regi[sp])

	// Set fp to be frame pointer of this function's stack.
	w.Write("\taddi\t%s, %s, %d\n", regi[fp], regi[sp], N)
}

// Epilogue restores the return address and frame pointer, shrinks the stack by n bytes and returns.
func (Arch) Epilogue(w *util.Writer, n uint64) {
	N := int(n)
	w.Write("\t%s\t%s, %d(%s)\n", load, regi[ra], N-word64, regi[sp])
	w.Write("\t%s\t%s, %d(%s)\n", load, regi[fp], N-(word64<<1), regi[sp])
	w.Write("\taddi\t%s, %s, %d\n", regi[sp], regi[sp], N)
	w.Write("\tret\n")
}

// MaxFrame returns the largest frame whose size and offsets fit the 12-bit immediates of addi, sd and ld.
func (Arch) MaxFrame() uint64 {
	return maxImmediate
}

// Call calls function name.
func (Arch) Call(w *util.Writer, name string) {
	w.Ins1("call", name)
}
