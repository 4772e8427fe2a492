package frontend

import (
	"lowc/src/ir/lir"
	"lowc/src/ir/lir/types"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// listing is the TOML document holding every function to generate.
type listing struct {
	Functions []listingFunction `toml:"function"`
}

// listingFunction is one [[function]] table.
type listingFunction struct {
	Name         string            `toml:"name"`         // Assembler label.
	StackOffset  int64             `toml:"stack_offset"` // Stack bytes in use at entry.
	Instructions []string          `toml:"instructions"` // Textual macro-instructions.
	Variables    []listingVariable `toml:"variable"`     // Variables live at entry.
}

// listingVariable is one [[function.variable]] table.
type listingVariable struct {
	Name      string   `toml:"name"`      // Full name.
	Locations []string `toml:"locations"` // Textual locations.
}

// -------------------
// ----- Globals -----
// -------------------

// ErrListing is returned for listings that are valid TOML but don't describe valid functions.
var ErrListing = errors.New("invalid listing")

// ---------------------
// ----- Functions -----
// ---------------------

// ParseListing parses a TOML function listing, in listing order.
func ParseListing(src string) ([]*lir.Function, error) {
	doc := listing{}
	if err := toml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, errors.Wrap(err, "could not parse listing")
	}
	res := make([]*lir.Function, 0, len(doc.Functions))
	names := mapset.NewThreadUnsafeSet[string]()
	for i1, e1 := range doc.Functions {
		if len(e1.Name) == 0 {
			return nil, errors.Wrapf(ErrListing, "function %d has no name", i1)
		}
		if !names.Add(e1.Name) {
			return nil, errors.Wrapf(ErrListing, "function %s defined twice", e1.Name)
		}
		fn, err := e1.function()
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", e1.Name)
		}
		res = append(res, fn)
	}
	return res, nil
}

// -----------------------------------
// ----- listingFunction methods -----
// -----------------------------------

// function converts the listing entry into a Function.
func (lf listingFunction) function() (*lir.Function, error) {
	if lf.StackOffset < 0 {
		return nil, errors.Wrapf(ErrListing, "negative stack offset %d", lf.StackOffset)
	}
	fn := lir.NewFunction(lf.Name)
	fn.Frame.Offset = uint64(lf.StackOffset)
	for _, e1 := range lf.Variables {
		if len(e1.Name) == 0 {
			return nil, errors.Wrap(ErrListing, "variable without name")
		}
		if fn.Frame.Variables.Get(e1.Name) != nil {
			return nil, errors.Wrapf(ErrListing, "variable %s defined twice", e1.Name)
		}
		v := lir.NewVariable(e1.Name)
		for _, e2 := range e1.Locations {
			l, err := ParseLocation(e2)
			if err != nil {
				return nil, errors.Wrapf(err, "variable %s", e1.Name)
			}
			if l.Type() == types.AnyGeneralPurposeRegister {
				return nil, errors.Wrapf(ErrListing, "variable %s: %s is a request, not a location", e1.Name, e2)
			}
			v.Locations = append(v.Locations, l)
		}
		fn.Frame.Variables.Add(v)
	}
	fn.Instructions = make([]lir.Instruction, 0, len(lf.Instructions))
	for _, e1 := range lf.Instructions {
		inst, err := ParseInstruction(e1)
		if err != nil {
			return nil, err
		}
		fn.Instructions = append(fn.Instructions, inst)
	}
	return fn, nil
}
