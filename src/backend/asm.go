// Package backend provides the closed set of output targets and generates assembler for a listing of functions.
package backend

import (
	"context"
	"lowc/src/backend/arm"
	"lowc/src/backend/lir"
	"lowc/src/backend/regfile"
	"lowc/src/backend/riscv"
	ir "lowc/src/ir/lir"
	"lowc/src/util"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Target is an output architecture: its register table and the assembler text of its instructions.
type Target interface {
	regfile.Arch
	lir.Assembler
	Preamble(w *util.Writer) // Write the directives heading the output file.
}

// -------------------
// ----- Globals -----
// -------------------

// ErrUnknownTarget is returned by Lookup for architecture names no target implements.
var ErrUnknownTarget = errors.New("unsupported output architecture")

// targets holds every supported target by name.
var targets = map[string]Target{}

// ---------------------
// ----- Functions -----
// ---------------------

func init() {
	for _, e1 := range []Target{arm.New(), riscv.New()} {
		targets[e1.Name()] = e1
	}
}

// Lookup returns the target with the given full name.
func Lookup(name string) (Target, error) {
	if t, ok := targets[name]; ok {
		return t, nil
	}
	return nil, errors.Wrapf(ErrUnknownTarget, "%q (supported: %v)", name, Targets())
}

// Targets returns the names of all supported targets in sorted order.
func Targets() []string {
	res := make([]string, 0, len(targets))
	for k := range targets {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// GenerateAssembler generates the assembler of every function in fns for target t. Up to opt.Threads function
// bodies are planned in parallel, without limit if opt.Threads isn't positive. The output keeps the order of
// fns. The register table of t is validated first.
func GenerateAssembler(ctx context.Context, opt util.Options, t Target, fns []*ir.Function) (string, error) {
	if _, err := regfile.ArchitectureMax.Resolve(t); err != nil {
		return "", err
	}
	regs := t.Registers()
	if err := regs.Validate(); err != nil {
		return "", errors.Wrapf(err, "architecture %s", t.Name())
	}

	res := make([]string, len(fns))
	g, ctx := errgroup.WithContext(ctx)
	if opt.Threads > 0 {
		g.SetLimit(opt.Threads)
	}
	for i1, e1 := range fns {
		i1, e1 := i1, e1
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := lir.GenFunction(e1, regs, t)
			if err != nil {
				return err
			}
			res[i1] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	wr := util.Writer{}
	t.Preamble(&wr)
	for _, e1 := range fns {
		wr.Write("\t.global\t%s\n", e1.Name)
	}
	for _, e1 := range res {
		wr.Write("%s", e1)
	}
	return wr.String(), nil
}
