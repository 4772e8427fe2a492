package backend

import (
	"context"
	"fmt"
	"lowc/src/backend/regfile"
	"lowc/src/ir/lir"
	"lowc/src/util"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

// wideArch reports an impossible register width.
type wideArch struct {
	Target
}

func (wideArch) Bits() uint8 {
	return 128
}

func TestLookup(t *testing.T) {
	assert.DeepEqual(t, Targets(), []string{"aarch64-mac-os", "riscv64-linux"})
	for _, e1 := range Targets() {
		tg, err := Lookup(e1)
		assert.NilError(t, err)
		assert.Equal(t, tg.Name(), e1)
	}
	_, err := Lookup("x86_64")
	assert.Equal(t, errors.Cause(err), ErrUnknownTarget)
	assert.ErrorContains(t, err, "x86_64")
}

// functions returns n independent copies of a function swapping two arguments.
func functions(n int) []*lir.Function {
	res := make([]*lir.Function, n)
	for i1 := range res {
		fn := lir.NewFunction(fmt.Sprintf("f%d", i1),
			lir.UseVariableAsArgument("b", 0),
			lir.UseVariableAsArgument("a", 1),
			lir.CallFunction("g", 2),
			lir.DestroyVariable("a"),
			lir.DestroyVariable("b"),
		)
		fn.Frame.Variables.Add(lir.NewVariable("a", lir.Register("x0")))
		fn.Frame.Variables.Add(lir.NewVariable("b", lir.Register("x1")))
		res[i1] = fn
	}
	return res
}

func TestGenerateAssembler(t *testing.T) {
	tg, err := Lookup("aarch64-mac-os")
	assert.NilError(t, err)

	seq, err := GenerateAssembler(context.Background(), util.Options{Threads: 1}, tg, functions(8))
	assert.NilError(t, err)
	par, err := GenerateAssembler(context.Background(), util.Options{Threads: 4}, tg, functions(8))
	assert.NilError(t, err)
	assert.Equal(t, seq, par)

	assert.Assert(t, strings.HasPrefix(seq, "\t.arch\tarmv8-a\n\t.text\n\t.align\t2\n\t.global\tf0\n"))
	for i1 := 1; i1 < 8; i1++ {
		assert.Assert(t, strings.Index(seq, fmt.Sprintf("\nf%d:\n", i1-1)) < strings.Index(seq, fmt.Sprintf("\nf%d:\n", i1)))
	}
	assert.Equal(t, strings.Count(seq, "\tmov\tx8, x0\n"), 8)
}

func TestGenerateAssemblerErrors(t *testing.T) {
	tg, _ := Lookup("aarch64-mac-os")
	_, err := GenerateAssembler(context.Background(), util.Options{Threads: 1}, wideArch{tg}, nil)
	assert.Equal(t, errors.Cause(err), regfile.ErrInvalidWidth)

	fns := functions(3)
	fns[1].Frame.Variables.Add(lir.NewVariable("c", lir.Register("x99")))
	_, err = GenerateAssembler(context.Background(), util.Options{Threads: 2}, tg, fns)
	assert.ErrorContains(t, err, "function f1")
}
