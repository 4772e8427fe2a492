package lir

import (
	"lowc/src/backend/regfile"
	"lowc/src/ir/lir"
	"lowc/src/ir/lir/types"
	"lowc/src/util"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// move is a pending register to register copy.
type move struct {
	dst string // Destination register.
	src string // Source register.
}

// load is a pending materialisation of a memory resident value into a register.
type load struct {
	dst string       // Destination register.
	src lir.Location // Non-register location holding the value.
}

// -------------------
// ----- Globals -----
// -------------------

// ErrScratchUnavailable is returned when a register cycle must be broken but the scratch register is missing
// or in use.
var ErrScratchUnavailable = errors.New("scratch register unavailable")

// ---------------------
// ----- Functions -----
// ---------------------

// reconcile runs phase four: every variable assigned a register it isn't held in is moved or loaded there.
// Moves and loads are collected in variable order.
func reconcile(w *util.Writer, asm Assembler, regs regfile.Table, claimed mapset.Set[string], demands []*demand) error {
	moves := make([]move, 0, len(demands))
	loads := make([]load, 0, len(demands))
	for _, e1 := range demands {
		if !e1.relocates() {
			continue
		}
		if src, ok := e1.prior.RegisterName(); ok {
			moves = append(moves, move{dst: e1.assigned, src: src})
		} else {
			loads = append(loads, load{dst: e1.assigned, src: e1.prior})
		}
	}
	return realise(w, asm, regs, claimed, moves, loads)
}

// realise emits moves before loads, so a load never overwrites the source of a pending move.
func realise(w *util.Writer, asm Assembler, regs regfile.Table, claimed mapset.Set[string], moves []move, loads []load) error {
	if err := shuffle(w, asm, regs, claimed, moves); err != nil {
		return err
	}
	for _, e1 := range loads {
		materialise(w, asm, e1.dst, e1.src)
	}
	return nil
}

// shuffle emits the register moves so that no source is overwritten before it is read. Moves that don't
// write a pending source are emitted first, in list order, each one unblocking the move writing its source.
// What remains are disjoint cycles, and each one is broken with a single hand-off through the scratch register.
func shuffle(w *util.Writer, asm Assembler, regs regfile.Table, claimed mapset.Set[string], moves []move) error {
	sources := make(map[string]int, len(moves)) // Pending reads per register.
	byDst := make(map[string]int, len(moves))
	for i1, e1 := range moves {
		sources[e1.src]++
		byDst[e1.dst] = i1
	}
	done := make([]bool, len(moves))

	ready := util.Stack[int]{}
	for i1 := len(moves) - 1; i1 >= 0; i1-- {
		if sources[moves[i1].dst] == 0 {
			ready.Push(i1)
		}
	}
	for k, ok := ready.Pop(); ok; k, ok = ready.Pop() {
		if done[k] {
			continue
		}
		asm.Move(w, moves[k].dst, moves[k].src)
		done[k] = true
		if sources[moves[k].src]--; sources[moves[k].src] == 0 {
			if j, ok := byDst[moves[k].src]; ok && !done[j] {
				ready.Push(j)
			}
		}
	}

	for k := range moves {
		if done[k] {
			continue
		}
		scratch, ok := regs.Scratch()
		if !ok {
			return errors.Wrap(ErrScratchUnavailable, "register table has no scratch register")
		}
		if claimed.Contains(scratch.Name) || sources[scratch.Name] > 0 {
			return errors.Wrapf(ErrScratchUnavailable, "scratch register %s holds a live variable", scratch.Name)
		}
		logrus.WithFields(logrus.Fields{
			"from":    moves[k].src,
			"to":      moves[k].dst,
			"scratch": scratch.Name,
		}).Debug("break cycle")

		// Park the source of k, then walk the cycle backwards writing each freed register.
		asm.Move(w, scratch.Name, moves[k].src)
		for j, ok := byDst[moves[k].src]; ok && j != k; j, ok = byDst[moves[j].src] {
			asm.Move(w, moves[j].dst, moves[j].src)
			done[j] = true
		}
		asm.Move(w, moves[k].dst, scratch.Name)
		done[k] = true
	}
	return nil
}

// materialise loads the value at location l into register dst. Indirect locations load their address into dst
// first and then load through it.
func materialise(w *util.Writer, asm Assembler, dst string, l lir.Location) {
	switch l.Type() {
	case types.Register:
		if src, _ := l.RegisterName(); src != dst {
			asm.Move(w, dst, src)
		}
	case types.StackOffset:
		off, _ := l.ImmediateStackOffset()
		asm.Load(w, dst, off)
	case types.StackOffsetAt, types.Heap:
		at, _ := l.Inner()
		materialise(w, asm, dst, at)
		asm.LoadIndirect(w, dst, dst)
	}
}
