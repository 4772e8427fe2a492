package frontend

import (
	"lowc/src/ir/lir"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

func TestParseLocation(t *testing.T) {
	for _, e1 := range []struct {
		src  string
		want lir.Location
	}{
		{"x0", lir.Register("x0")},
		{"stack(8)", lir.StackOffset(8)},
		{"  stack ( 8 ) ", lir.StackOffset(8)},
		{"stack_at(stack(16))", lir.StackOffsetAt(lir.StackOffset(16))},
		{"heap(x3, 32)", lir.Heap(lir.Register("x3"), 32)},
		{"heap(stack_at(x1), 16)", lir.Heap(lir.StackOffsetAt(lir.Register("x1")), 16)},
		{"any", lir.AnyGeneralPurposeRegister()},
	} {
		l, err := ParseLocation(e1.src)
		assert.NilError(t, err, e1.src)
		assert.Assert(t, l.Equal(e1.want), "%s: got %s", e1.src, l)
	}
}

func TestParseLocationErrors(t *testing.T) {
	for _, e1 := range []struct {
		src  string
		want string
	}{
		{"", "expected location, got end of input"},
		{"stack(x0)", "expected integer"},
		{"stack(8", "expected ')'"},
		{"heap(x3)", "expected ','"},
		{"x0 x1", "expected end of input"},
		{"stack(-8)", "unexpected character '-'"},
		{"stack(99999999999999999999)", "out of range"},
		{"12abc", "malformed integer"},
	} {
		_, err := ParseLocation(e1.src)
		assert.Equal(t, errors.Cause(err), ErrSyntax, e1.src)
		assert.ErrorContains(t, err, e1.want, e1.src)
	}
}

func TestParseInstruction(t *testing.T) {
	for _, e1 := range []struct {
		src  string
		want lir.Instruction
	}{
		{"declare my_app:main:v", lir.DeclareVariable("my_app:main:v")},
		{"destroy v", lir.DestroyVariable("v")},
		{"use v 3", lir.UseVariableAsArgument("v", 3)},
		{"call _malloc 2", lir.CallFunction("_malloc", 2)},
		{"argument n 0", lir.GetArgument("n", 0)},
		{"use stack 1", lir.UseVariableAsArgument("stack", 1)},
	} {
		inst, err := ParseInstruction(e1.src)
		assert.NilError(t, err, e1.src)
		assert.DeepEqual(t, inst, e1.want)
		assert.Equal(t, inst.String(), e1.want.String())
	}
}

func TestParseInstructionErrors(t *testing.T) {
	for _, e1 := range []struct {
		src  string
		want string
	}{
		{"jump v", "expected instruction"},
		{"use v", "expected integer"},
		{"use 3 v", "expected name"},
		{"destroy v 3", "expected end of input"},
		{"call f 70000", "out of range"},
	} {
		_, err := ParseInstruction(e1.src)
		assert.Equal(t, errors.Cause(err), ErrSyntax, e1.src)
		assert.ErrorContains(t, err, e1.want, e1.src)
	}
}
