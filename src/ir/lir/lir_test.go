package lir

import (
	"lowc/src/ir/lir/types"
	"testing"

	"gotest.tools/v3/assert"
)

func TestLocationCost(t *testing.T) {
	assert.Equal(t, Register("x0").Cost(), 0)
	assert.Equal(t, StackOffset(8).Cost(), 1)
	assert.Equal(t, StackOffsetAt(StackOffset(8)).Cost(), 2)
	assert.Equal(t, StackOffsetAt(Register("x3")).Cost(), 1)
	assert.Equal(t, Heap(Register("x3"), 32).Cost(), 2)
	assert.Equal(t, Heap(StackOffsetAt(StackOffset(0)), 32).Cost(), 4)
}

func TestLocationQueries(t *testing.T) {
	r := Register("x4")
	assert.Assert(t, r.IsRegister("x4"))
	assert.Assert(t, !r.IsRegister("x5"))
	name, ok := r.RegisterName()
	assert.Assert(t, ok)
	assert.Equal(t, name, "x4")
	_, ok = r.ImmediateStackOffset()
	assert.Assert(t, !ok)

	off, ok := StackOffset(24).ImmediateStackOffset()
	assert.Assert(t, ok)
	assert.Equal(t, off, uint64(24))
	_, ok = StackOffsetAt(StackOffset(24)).ImmediateStackOffset()
	assert.Assert(t, !ok)
	_, ok = Heap(StackOffset(24), 8).ImmediateStackOffset()
	assert.Assert(t, !ok)

	h := Heap(StackOffset(16), 32)
	in, ok := h.Inner()
	assert.Assert(t, ok)
	assert.Assert(t, in.Equal(StackOffset(16)))
	assert.Equal(t, h.Size(), uint64(32))
	assert.Equal(t, h.Type(), types.Heap)
	assert.Assert(t, !h.IsStack())
	assert.Assert(t, StackOffsetAt(r).IsStack())

	assert.Assert(t, StackOffsetAt(StackOffset(8)).Equal(StackOffsetAt(StackOffset(8))))
	assert.Assert(t, !StackOffsetAt(StackOffset(8)).Equal(StackOffsetAt(StackOffset(16))))
	assert.Assert(t, !StackOffsetAt(StackOffset(8)).Equal(StackOffset(8)))

	assert.Equal(t, Heap(StackOffsetAt(Register("x1")), 16).String(), "heap(stack_at(x1), 16)")
	assert.Equal(t, AnyGeneralPurposeRegister().String(), "any")
}

func TestAddressRegister(t *testing.T) {
	for _, e1 := range []struct {
		l    Location
		want string
	}{
		{Register("x0"), ""},
		{StackOffset(8), ""},
		{StackOffsetAt(StackOffset(8)), ""},
		{StackOffsetAt(Register("x3")), "x3"},
		{Heap(StackOffsetAt(Register("x1")), 16), "x1"},
		{Heap(StackOffsetAt(StackOffset(0)), 16), ""},
	} {
		r, ok := e1.l.AddressRegister()
		assert.Equal(t, ok, len(e1.want) > 0, e1.l.String())
		assert.Equal(t, r, e1.want, e1.l.String())
	}
}

func TestCheapestLocation(t *testing.T) {
	_, ok := NewVariable("v").CheapestLocation()
	assert.Assert(t, !ok)

	// Register beats stack, whatever the order.
	l, _ := NewVariable("v", StackOffset(8), Register("x2")).CheapestLocation()
	assert.Assert(t, l.IsRegister("x2"))

	// Direct beats indirect.
	l, _ = NewVariable("v", StackOffsetAt(StackOffset(0)), StackOffset(8)).CheapestLocation()
	assert.Assert(t, l.Equal(StackOffset(8)))

	// First wins ties.
	l, _ = NewVariable("v", StackOffset(16), StackOffset(8)).CheapestLocation()
	assert.Assert(t, l.Equal(StackOffset(16)))
}

func TestCollapseToStack(t *testing.T) {
	v := NewVariable("v", Register("x1"), StackOffsetAt(StackOffset(0)), StackOffset(32))
	assert.Assert(t, v.HasStackLocation())
	v.CollapseToStack()
	assert.Equal(t, v.String(), "v [stack(32)]")
	off, ok := v.StackOffset()
	assert.Assert(t, ok)
	assert.Equal(t, off, uint64(32))

	v = NewVariable("v", Register("x1"), StackOffsetAt(StackOffsetAt(StackOffset(0))), StackOffsetAt(Register("x3")))
	v.CollapseToStack()
	assert.Equal(t, v.String(), "v [stack_at(x3)]")
	_, ok = v.StackOffset()
	assert.Assert(t, !ok)

	v = NewVariable("v", Register("x1"), Heap(Register("x2"), 8))
	assert.Assert(t, !v.HasStackLocation())
	v.CollapseToStack()
	assert.Equal(t, len(v.Locations), 0)
}

func TestVariableSet(t *testing.T) {
	s := NewVariableSet(NewVariable("a"), NewVariable("b"), NewVariable("c"))
	assert.Equal(t, s.Len(), 3)
	assert.Assert(t, s.Remove("b"))
	assert.Assert(t, !s.Remove("b"))
	assert.Equal(t, s.Get("c").FullName, "c")

	s.Add(NewVariable("a", Register("x0")))
	assert.Equal(t, s.Len(), 2)
	assert.Assert(t, s.Get("a").HasRegister("x0"))

	s.Add(NewVariable("d"))
	names := make([]string, 0, s.Len())
	for _, e1 := range s.Variables() {
		names = append(names, e1.FullName)
	}
	assert.DeepEqual(t, names, []string{"a", "c", "d"})
	assert.Assert(t, s.Get("b") == nil)
}

func TestInstructionString(t *testing.T) {
	for _, e1 := range []struct {
		in   Instruction
		want string
	}{
		{DeclareVariable("v"), "declare v"},
		{DestroyVariable("v"), "destroy v"},
		{UseVariableAsArgument("v", 2), "use v 2"},
		{CallFunction("_malloc", 2), "call _malloc 2"},
		{GetArgument("v", 0), "argument v 0"},
	} {
		assert.Equal(t, e1.in.String(), e1.want)
	}
	assert.Assert(t, UseVariableAsArgument("v", 0).References("v"))
	assert.Assert(t, !CallFunction("v", 0).References("v"))
}

func TestFunctionString(t *testing.T) {
	fn := NewFunction("main", UseVariableAsArgument("v", 0), CallFunction("f", 1))
	fn.Frame.Variables.Add(NewVariable("v", Register("x3")))
	fn.Frame.Offset = 8
	assert.Equal(t, fn.String(), "function main (stack 8)\n\tvar v [x3]\n\t000 use v 0\n\t001 call f 1\n")
}
