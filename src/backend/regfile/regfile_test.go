package regfile

import (
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

// arch is a minimal Arch over a hand-built table.
type arch struct {
	bits  uint8
	table Table
}

func (a arch) Name() string     { return "test-arch" }
func (a arch) Bits() uint8      { return a.bits }
func (a arch) Registers() Table { return a.table }

func table() Table {
	return Table{
		{Name: "r0", Bits: 64, Saver: Caller, Tags: []Tag{ArgumentTag(0), Role(GeneralPurpose)}},
		{Name: "r1", Bits: 64, Saver: Caller, Tags: []Tag{ArgumentTag(1), Role(GeneralPurpose)}},
		{Name: "r2", Bits: 64, Saver: Callee, Tags: []Tag{Role(GeneralPurpose)}},
		{Name: "r3", Bits: 64, Saver: None, Tags: []Tag{Role(Scratch)}},
		{Name: "fp", Bits: 64, Saver: Callee, Tags: []Tag{Role(FramePointer)}},
		{Name: "sp", Bits: 64, Saver: Callee, Tags: []Tag{Role(StackPointer)}},
	}
}

func TestTableQueries(t *testing.T) {
	tb := table()
	assert.NilError(t, tb.Validate())

	r, ok := tb.ArgumentRegister(1)
	assert.Assert(t, ok)
	assert.Equal(t, r.Name, "r1")
	assert.Assert(t, r.IsArgument(1))
	assert.Assert(t, !r.IsArgument(0))
	_, ok = tb.ArgumentRegister(2)
	assert.Assert(t, !ok)

	names := func(regs []Register) []string {
		res := make([]string, len(regs))
		for i1, e1 := range regs {
			res[i1] = e1.String()
		}
		return res
	}
	assert.DeepEqual(t, names(tb.GeneralPurpose()), []string{"r0", "r1", "r2"})
	assert.DeepEqual(t, names(tb.BySaver(Callee)), []string{"r2", "fp", "sp"})

	s, ok := tb.Scratch()
	assert.Assert(t, ok)
	assert.Equal(t, s.Name, "r3")
	f, ok := tb.FramePointer()
	assert.Assert(t, ok)
	assert.Equal(t, f.Name, "fp")
	p, ok := tb.StackPointer()
	assert.Assert(t, ok)
	assert.Equal(t, p.Name, "sp")

	_, ok = tb.Get("r9")
	assert.Assert(t, !ok)
}

func TestValidate(t *testing.T) {
	tb := append(table(), Register{Name: "r0"})
	assert.ErrorContains(t, tb.Validate(), "register r0 defined twice")

	tb = append(table(), Register{Name: "r4", Tags: []Tag{ArgumentTag(0)}})
	assert.ErrorContains(t, tb.Validate(), "argument 0 claimed by more than one register")

	tb = append(table(), Register{Name: "sp2", Tags: []Tag{Role(StackPointer)}})
	assert.Equal(t, errors.Cause(tb.Validate()), ErrInvalidTable)

	tb = append(table(), Register{Name: "fp2", Tags: []Tag{Role(FramePointer)}})
	assert.Equal(t, errors.Cause(tb.Validate()), ErrInvalidTable)

	tb = append(table(), Register{Name: "r5", Tags: []Tag{Role(Scratch)}})
	assert.ErrorContains(t, tb.Validate(), "exactly one scratch register, got 2")

	tb = table()[:3]
	assert.ErrorContains(t, tb.Validate(), "got 0")
}

func TestResolve(t *testing.T) {
	for _, e1 := range []struct {
		bits uint8
		want BitUnit
	}{
		{8, Byte},
		{16, Word},
		{32, DoubleWord},
		{64, QuadWord},
	} {
		u, err := ArchitectureMax.Resolve(arch{bits: e1.bits})
		assert.NilError(t, err)
		assert.Equal(t, u, e1.want)
	}

	u, err := Word.Resolve(arch{bits: 128})
	assert.NilError(t, err)
	assert.Equal(t, u, Word)

	_, err = ArchitectureMax.Resolve(arch{bits: 128})
	assert.Equal(t, errors.Cause(err), ErrInvalidWidth)
	assert.ErrorContains(t, err, `architecture "test-arch" set 128`)
}

func TestString(t *testing.T) {
	assert.Equal(t, ArgumentTag(3).String(), "argument(3)")
	assert.Equal(t, Role(Scratch).String(), "scratch")
	assert.Equal(t, Callee.String(), "callee")
	assert.Equal(t, QuadWord.String(), "quad-word")
}
