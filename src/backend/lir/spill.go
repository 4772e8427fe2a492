package lir

import "lowc/src/util"

// emitSpills runs phase three: it stores every spilled variable that was held in a register into its new stack
// slot. Two spills to adjacent slots are written with one paired store when the target can encode it.
func emitSpills(w *util.Writer, asm Assembler, spills []*demand) {
	var buf *demand
	for _, e1 := range spills {
		if _, ok := e1.prior.RegisterName(); !ok {
			continue
		}
		if buf == nil {
			buf = e1
			continue
		}
		if !storePair(w, asm, buf, e1) {
			store(w, asm, buf)
			store(w, asm, e1)
		}
		buf = nil
	}
	if buf != nil {
		store(w, asm, buf)
	}
}

// storePair emits a paired store of a and b if their slots are adjacent. The lower slot is always written by
// the first operand.
func storePair(w *util.Writer, asm Assembler, a, b *demand) bool {
	ra, _ := a.prior.RegisterName()
	rb, _ := b.prior.RegisterName()
	switch {
	case a.slot > b.slot && a.slot-b.slot == slotSize:
		return asm.StorePair(w, rb, ra, b.slot)
	case b.slot > a.slot && b.slot-a.slot == slotSize:
		return asm.StorePair(w, ra, rb, a.slot)
	default:
		return false
	}
}

// store emits a single store of d into its slot.
func store(w *util.Writer, asm Assembler, d *demand) {
	r, _ := d.prior.RegisterName()
	asm.Store(w, r, d.slot)
}
