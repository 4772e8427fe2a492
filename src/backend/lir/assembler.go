package lir

import "lowc/src/util"

// Assembler emits the target text of the handful of instructions the location planner and the function
// driver need. Implementations are stateless.
type Assembler interface {
	Store(w *util.Writer, src string, offset uint64)                     // Store register src at stack offset.
	StorePair(w *util.Writer, first, second string, offset uint64) bool // Store first at offset and second at offset+8. Returns false if the target can't encode the pair.
	Move(w *util.Writer, dst, src string)                                // Copy register src into dst.
	Load(w *util.Writer, dst string, offset uint64)                      // Load dst from stack offset.
	LoadIndirect(w *util.Writer, dst, base string)                       // Load dst from the address held by base.
	Call(w *util.Writer, name string)                                    // Call function name.
	Prologue(w *util.Writer, frame uint64)                               // Allocate a stack frame of frame bytes.
	Epilogue(w *util.Writer, frame uint64)                               // Release the stack frame and return.
	MaxFrame() uint64                                                    // Largest frame whose offsets the target encodes as immediates.
}
