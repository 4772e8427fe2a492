package arm

import "lowc/src/util"

// Prologue allocates a stack frame of sa bytes and saves the frame pointer and link register at its top.
func (Arch) Prologue(w *util.Writer, sa uint64) {
	// Allocate stack frame.
	w.Write("\tsub\t%s, %s, #%d\n", regi[sp], regi[sp], sa)

	// Save frame pointer and link register.
	w.Write("\tstp\t%s, %s, [%s, #%d]\n", regi[fp], regi[lr], regi[sp], sa-(wordSize64<<1))

	// Set new frame pointer.
	w.Write("\tadd\t%s, %s, #%d\n", regi[fp], regi[sp], sa)
}

// Epilogue restores the frame pointer and link register, releases the stack frame of sa bytes and returns.
func (Arch) Epilogue(w *util.Writer, sa uint64) {
	w.Write("\tldp\t%s, %s, [%s, #%d]\n", regi[fp], regi[lr], regi[sp], sa-(wordSize64<<1))
	w.Write("\tadd\t%s, %s, #%d\n", regi[sp], regi[sp], sa)
	w.Write("\tret\n")
}

// MaxFrame returns the largest frame the prologue can address: the frame record is saved with stp at the top
// of the frame, and stp takes offsets up to maxPairOffset.
func (Arch) MaxFrame() uint64 {
	return maxPairOffset + wordSize64<<1
}

// Call branches to function name and links.
func (Arch) Call(w *util.Writer, name string) {
	w.Ins1("bl", name)
}
