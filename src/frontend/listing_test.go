package frontend

import (
	"lowc/src/util"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
)

func TestParseListing(t *testing.T) {
	src, err := util.ReadSource(util.Options{Src: "testdata/listing.toml"}, nil)
	assert.NilError(t, err)
	fns, err := ParseListing(src)
	assert.NilError(t, err)
	assert.Equal(t, len(fns), 2)

	assert.Equal(t, fns[0].String(), "function call_malloc (stack 0)\n"+
		"\tvar var_1 [x0]\n"+
		"\tvar var_2 [x1, stack(8)]\n"+
		"\t000 use var_2 0\n"+
		"\t001 use var_1 1\n"+
		"\t002 call _malloc 2\n"+
		"\t003 destroy var_1\n"+
		"\t004 destroy var_2\n")
	assert.Equal(t, fns[1].Name, "forward")
	assert.Equal(t, fns[1].Frame.Variables.Len(), 0)
	assert.Equal(t, len(fns[1].Instructions), 7)
}

func TestParseListingErrors(t *testing.T) {
	for _, e1 := range []struct {
		src  string
		want string
	}{
		{"[[function]\n", "could not parse listing"},
		{"[[function]]\nstack_offset = 8\n", "function 0 has no name"},
		{"[[function]]\nname = \"f\"\n[[function]]\nname = \"f\"\n", "function f defined twice"},
		{"[[function]]\nname = \"f\"\nstack_offset = -8\n", "negative stack offset"},
		{"[[function]]\nname = \"f\"\n[[function.variable]]\nname = \"v\"\n[[function.variable]]\nname = \"v\"\n", "variable v defined twice"},
		{"[[function]]\nname = \"f\"\n[[function.variable]]\nname = \"v\"\nlocations = [\"any\"]\n", "is a request"},
		{"[[function]]\nname = \"f\"\n[[function.variable]]\nname = \"v\"\nlocations = [\"stack(\"]\n", "variable v"},
		{"[[function]]\nname = \"f\"\ninstructions = [\"jump\"]\n", "function f: instruction \"jump\""},
	} {
		_, err := ParseListing(e1.src)
		assert.ErrorContains(t, err, e1.want, e1.src)
	}

	_, err := ParseListing("[[function]]\nname = \"f\"\n[[function.variable]]\n")
	assert.Equal(t, errors.Cause(err), ErrListing)
}
