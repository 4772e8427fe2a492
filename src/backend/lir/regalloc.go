// Package lir provides the location planner, which decides where the variables of one LIR function body live
// and emits the assembly moving them there.
package lir

import (
	"lowc/src/backend/regfile"
	"lowc/src/ir/lir"
	"lowc/src/ir/lir/types"
	"lowc/src/util"
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// demandKind classifies the nearest demand on a variable.
type demandKind uint8

// demand is the phase one result for one live variable, extended with the phase two decision.
type demand struct {
	v        *lir.Variable // The live variable.
	kind     demandKind    // What v needs.
	reg      string        // Wanted register, for wantRegister.
	distance int           // Position of the instruction imposing the demand.
	prior    lir.Location  // Cheapest location of v before planning.
	located  bool          // Set true if v had any location before planning.

	assigned  string // Register claimed in phase two.
	spilled   bool   // Set true if v got a new stack slot.
	slot      uint64 // New stack slot of a spilled variable.
	collapsed bool   // Set true if v falls back to its existing stack location.
}

// ---------------------
// ----- Constants -----
// ---------------------

const (
	keep            demandKind = iota // Nothing to do, v stays at its cheapest non-register location.
	wantRegister                      // v wants one specific register.
	wantAnyRegister                   // v wants any general purpose register.
	wantStack                         // v must be on the stack right away.
	stray                             // v has neither a target nor a location.
)

const (
	never    = math.MaxInt - 1 // Distance of a variable nothing constrains.
	unwanted = math.MaxInt     // Occupancy cost of a register no variable wants.
)

// slotSize is the size of one spill slot in bytes.
const slotSize = 8

// -------------------
// ----- Globals -----
// -------------------

// ErrUnknownRegister is returned when a variable is held in a register the register table doesn't define.
var ErrUnknownRegister = errors.New("variable held in unknown register")

// dTyp provides string literals for demandKind constants.
var dTyp = [...]string{
	"keep",
	"register",
	"any-register",
	"stack",
	"stray",
}

// ---------------------
// ----- Functions -----
// ---------------------

// PlanFrame runs Plan on the variables and stack offset of frame. The arguments frame.Arguments already placed
// for the next call keep their locations as if their use was the first instruction of the window.
func PlanFrame(frame *lir.Frame, regs regfile.Table, asm Assembler, instructions []lir.Instruction) (string, error) {
	return plan(frame.Variables, regs, asm, frame.Arguments, instructions, &frame.Offset)
}

// Plan decides the location of every variable in vars for the instruction window instructions, and returns the
// assembler text that moves the variables from their current locations to the decided ones. Variables destroyed
// by the first instruction of the window are removed from vars. Every new stack slot advances offset by 8
// bytes. Neither vars nor offset are modified if an error is returned.
func Plan(vars *lir.VariableSet, regs regfile.Table, asm Assembler, instructions []lir.Instruction, offset *uint64) (string, error) {
	return plan(vars, regs, asm, nil, instructions, offset)
}

// plan is Plan with the pending arguments of the next call.
func plan(vars *lir.VariableSet, regs regfile.Table, asm Assembler, pending, instructions []lir.Instruction, offset *uint64) (string, error) {
	demands, dead, err := infer(vars, regs, pending, instructions)
	if err != nil {
		return "", err
	}
	for _, e1 := range dead {
		logrus.WithField("variable", e1).Debug("destroyed")
	}

	// Soonest needed first.
	order := make([]*demand, len(demands))
	copy(order, demands)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].distance < order[j].distance
	})
	for _, e1 := range order {
		logrus.WithFields(logrus.Fields{
			"variable": e1.v.FullName,
			"location": e1.prior.String(),
			"demand":   e1.kind.String(),
			"register": e1.reg,
			"distance": e1.distance,
		}).Debug("demand")
	}

	off := *offset
	claimed, spills := assign(order, regs, &off)

	wr := util.Writer{}
	emitSpills(&wr, asm, spills)
	if err := reconcile(&wr, asm, regs, claimed, demands); err != nil {
		return "", err
	}

	// Commit.
	for _, e1 := range dead {
		vars.Remove(e1)
	}
	written := overwritten(regs, demands)
	for _, e1 := range demands {
		e1.commit(written)
	}
	*offset = off
	return wr.String(), nil
}

// infer runs phase one: it derives the nearest demand of every live variable. Variables destroyed by the first
// instruction are returned by name rather than as demands. A variable in pending was already placed as an
// argument of the next call and is treated as used by the first instruction.
func infer(vars *lir.VariableSet, regs regfile.Table, pending, instructions []lir.Instruction) ([]*demand, []string, error) {
	res := make([]*demand, 0, vars.Len())
	dead := make([]string, 0, 2)
	for _, e1 := range vars.Variables() {
		d := &demand{v: e1, distance: never}
		d.prior, d.located = e1.CheapestLocation()
		if name, ok := d.prior.RegisterName(); ok {
			if _, ok := regs.Get(name); !ok {
				return nil, nil, errors.Wrapf(ErrUnknownRegister, "variable %s is held in %s", e1.FullName, name)
			}
		}
		if d.scan(regs, pending, instructions) {
			dead = append(dead, e1.FullName)
			continue
		}
		res = append(res, d)
	}
	return res, dead, nil
}

// assign runs phase two over the demands in priority order. It returns the set of claimed registers and the
// variables given a new stack slot, in slot order.
func assign(order []*demand, regs regfile.Table, offset *uint64) (mapset.Set[string], []*demand) {
	claimed := mapset.NewThreadUnsafeSet[string]()
	gp := regs.GeneralPurpose()
	spills := make([]*demand, 0, 4)
	for i1, e1 := range order {
		switch e1.kind {
		case wantStack:
		case wantRegister:
			if claimed.Add(e1.reg) {
				e1.assigned = e1.reg
				continue
			}
			fallthrough
		case wantAnyRegister:
			if r, ok := pick(order[i1+1:], gp, claimed); ok {
				claimed.Add(r)
				e1.assigned = r
				continue
			}
		default:
			continue
		}

		// Stack.
		if e1.v.HasStackLocation() {
			e1.collapsed = true
			continue
		}
		e1.spilled = true
		e1.slot = *offset
		*offset += slotSize
		spills = append(spills, e1)
		logrus.WithFields(logrus.Fields{
			"variable": e1.v.FullName,
			"offset":   e1.slot,
		}).Debug("spill")
	}
	return claimed, spills
}

// pick returns the unclaimed general purpose register the remaining demands rest want the least. Ties are won
// by the register first in table order.
func pick(rest []*demand, gp []regfile.Register, claimed mapset.Set[string]) (string, bool) {
	best, cost := "", -1
	for _, e1 := range gp {
		if claimed.Contains(e1.Name) {
			continue
		}
		if c := occupancy(rest, e1.Name); c > cost {
			best, cost = e1.Name, c
		}
	}
	return best, cost >= 0
}

// occupancy returns the smallest distance of the demands in rest that want register reg. The demands are
// ordered by distance, so the first match is the smallest.
func occupancy(rest []*demand, reg string) int {
	for _, e1 := range rest {
		if e1.kind == wantRegister && e1.reg == reg {
			return e1.distance
		}
	}
	return unwanted
}

// overwritten returns the registers phase four writes: the destination of every relocated variable, and the
// scratch register if any register moves.
func overwritten(regs regfile.Table, demands []*demand) mapset.Set[string] {
	res := mapset.NewThreadUnsafeSet[string]()
	for _, e1 := range demands {
		if e1.relocates() {
			res.Add(e1.assigned)
		}
	}
	if res.Cardinality() > 0 {
		if r, ok := regs.Scratch(); ok {
			res.Add(r.Name)
		}
	}
	return res
}

// String provides a print friendly string representation of the demandKind.
func (k demandKind) String() string {
	return dTyp[k]
}

// --------------------------
// ----- demand methods -----
// --------------------------

// scan walks the instruction window until the first instruction that constrains d.v. It returns true if d.v is
// destroyed by the very first instruction.
func (d *demand) scan(regs regfile.Table, pending, instructions []lir.Instruction) bool {
	name := d.v.FullName
	if len(instructions) > 0 && instructions[0].Type == types.DestroyVariable && instructions[0].References(name) {
		return true
	}
	for _, e1 := range pending {
		if e1.References(name) {
			d.use(regs, e1, 0, true)
			return false
		}
	}
	crossed := false // Set true once the window passes a call.
	for i1, e1 := range instructions {
		if e1.Type == types.CallFunction {
			crossed = true
			continue
		}
		if !e1.References(name) {
			continue
		}
		switch e1.Type {
		case types.DestroyVariable:
			d.unconstrained()
			return false
		case types.UseVariableAsArgument:
			d.use(regs, e1, i1, !crossed)
			return false
		}
	}
	d.unconstrained()
	return false
}

// use sets the demand of d.v passed as argument by inst at position pos. A variable already held in its argument
// register is needed right away if the use feeds the first call of the window.
func (d *demand) use(regs regfile.Table, inst lir.Instruction, pos int, first bool) {
	d.distance = pos
	if r, ok := regs.ArgumentRegister(inst.N); ok {
		d.kind = wantRegister
		d.reg = r.Name
		if first && d.v.HasRegister(r.Name) {
			d.distance = 0
		}
		return
	}
	switch {
	case pos == 0:
		d.kind = wantStack
	case !d.located:
		d.kind = wantAnyRegister
	default:
		d.stay()
	}
}

// unconstrained sets the demand of a variable nothing needs before it dies or the window ends.
func (d *demand) unconstrained() {
	d.distance = never
	if !d.located {
		d.kind = stray
		return
	}
	d.stay()
}

// stay asks for the current cheapest location.
func (d *demand) stay() {
	if name, ok := d.prior.RegisterName(); ok {
		d.kind = wantRegister
		d.reg = name
		return
	}
	d.kind = keep
}

// relocates returns true if phase four moves or loads d.v into its assigned register.
func (d *demand) relocates() bool {
	return len(d.assigned) > 0 && d.located && !d.v.HasRegister(d.assigned)
}

// commit writes the decided location back to the variable. Indirect and heap locations whose address register is
// in written no longer hold a valid address and are dropped.
func (d *demand) commit(written mapset.Set[string]) {
	if d.spilled {
		d.v.Locations = []lir.Location{lir.StackOffset(d.slot)}
		return
	}
	locs := make([]lir.Location, 0, len(d.v.Locations)+1)
	if len(d.assigned) > 0 {
		locs = append(locs, lir.Register(d.assigned))
	}
	for _, e1 := range d.v.Locations {
		if _, ok := e1.RegisterName(); ok && len(d.assigned) > 0 {
			continue
		}
		if r, ok := e1.AddressRegister(); ok && written.Contains(r) {
			logrus.WithFields(logrus.Fields{
				"variable": d.v.FullName,
				"location": e1.String(),
			}).Debug("drop stale address")
			continue
		}
		locs = append(locs, e1)
	}
	d.v.Locations = locs
	if d.collapsed {
		d.v.CollapseToStack()
	}
}
