// Package frontend reads function listings: the macro-instruction stream of every function, the initial locations
// of its variables and its stack offset.
package frontend

import (
	"lowc/src/ir/lir"
	"strconv"

	"github.com/pkg/errors"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// parser is a recursive descent parser over the items of a lexer, with one item of look-ahead.
type parser struct {
	l   *lexer // Concurrent lexer.
	tok item   // Look-ahead item.
}

// ---------------------
// ----- Constants -----
// ---------------------

// maxIndex is the largest argument index or count accepted.
const maxIndex = 1<<16 - 1

// -------------------
// ----- Globals -----
// -------------------

// ErrSyntax is returned for malformed locations and instructions.
var ErrSyntax = errors.New("syntax error")

// ---------------------
// ----- Functions -----
// ---------------------

// ParseLocation parses the textual form of a location, like x0, stack(8), stack_at(stack(8)), heap(x3, 32) or any.
func ParseLocation(src string) (lir.Location, error) {
	p := newParser(src)
	defer p.close()
	l, err := p.location()
	if err != nil {
		return lir.Location{}, errors.Wrapf(err, "location %q", src)
	}
	if err := p.end(); err != nil {
		return lir.Location{}, errors.Wrapf(err, "location %q", src)
	}
	return l, nil
}

// ParseInstruction parses the textual form of a macro-instruction: declare N, destroy N, use N slot, call F argc or
// argument N slot.
func ParseInstruction(src string) (lir.Instruction, error) {
	p := newParser(src)
	defer p.close()
	inst, err := p.instruction()
	if err != nil {
		return lir.Instruction{}, errors.Wrapf(err, "instruction %q", src)
	}
	if err := p.end(); err != nil {
		return lir.Instruction{}, errors.Wrapf(err, "instruction %q", src)
	}
	return inst, nil
}

// newParser starts a lexer on src and reads the first look-ahead item.
func newParser(src string) *parser {
	l := newLexer(src, lexGlobal)
	go l.run()
	p := &parser{l: l}
	p.advance()
	return p
}

// --------------------------
// ----- parser methods -----
// --------------------------

// close stops the lexer.
func (p *parser) close() {
	p.l.drain()
}

// advance reads the next look-ahead item.
func (p *parser) advance() {
	p.tok = p.l.nextItem()
}

// errorf returns a syntax error at the look-ahead item.
func (p *parser) errorf(expected string) error {
	if p.tok.typ == itemError {
		return errors.Wrap(ErrSyntax, p.tok.val)
	}
	got := p.tok.String()
	if p.tok.typ == itemEOF {
		got = "end of input"
	}
	return errors.Wrapf(ErrSyntax, "expected %s, got %s", expected, got)
}

// expect consumes the look-ahead item if it has type typ.
func (p *parser) expect(typ itemType, expected string) (item, error) {
	if p.tok.typ != typ {
		return item{}, p.errorf(expected)
	}
	i := p.tok
	p.advance()
	return i, nil
}

// end verifies that the whole input was consumed.
func (p *parser) end() error {
	_, err := p.expect(itemEOF, "end of input")
	return err
}

// name consumes an identifier. Keywords are accepted as names.
func (p *parser) name() (string, error) {
	if !isName(p.tok.typ) {
		return "", p.errorf("name")
	}
	s := p.tok.val
	p.advance()
	return s, nil
}

// integer consumes an unsigned integer.
func (p *parser) integer() (uint64, error) {
	i, err := p.expect(itemInteger, "integer")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(i.val, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrSyntax, "integer %s out of range", i.val)
	}
	return n, nil
}

// index consumes an argument index or count.
func (p *parser) index() (int, error) {
	n, err := p.integer()
	if err != nil {
		return 0, err
	}
	if n > uint64(maxIndex) {
		return 0, errors.Wrapf(ErrSyntax, "index %d out of range [0, %d]", n, maxIndex)
	}
	return int(n), nil
}

// location parses one location.
func (p *parser) location() (lir.Location, error) {
	switch p.tok.typ {
	case itemIdentifier:
		r := p.tok.val
		p.advance()
		return lir.Register(r), nil
	case itemAny:
		p.advance()
		return lir.AnyGeneralPurposeRegister(), nil
	case itemStack:
		p.advance()
		if _, err := p.expect('(', "'('"); err != nil {
			return lir.Location{}, err
		}
		off, err := p.integer()
		if err != nil {
			return lir.Location{}, err
		}
		if _, err := p.expect(')', "')'"); err != nil {
			return lir.Location{}, err
		}
		return lir.StackOffset(off), nil
	case itemStackAt, itemHeap:
		typ := p.tok.typ
		p.advance()
		if _, err := p.expect('(', "'('"); err != nil {
			return lir.Location{}, err
		}
		at, err := p.location()
		if err != nil {
			return lir.Location{}, err
		}
		var size uint64
		if typ == itemHeap {
			if _, err := p.expect(',', "','"); err != nil {
				return lir.Location{}, err
			}
			if size, err = p.integer(); err != nil {
				return lir.Location{}, err
			}
		}
		if _, err := p.expect(')', "')'"); err != nil {
			return lir.Location{}, err
		}
		if typ == itemHeap {
			return lir.Heap(at, size), nil
		}
		return lir.StackOffsetAt(at), nil
	default:
		return lir.Location{}, p.errorf("location")
	}
}

// instruction parses one macro-instruction.
func (p *parser) instruction() (lir.Instruction, error) {
	typ := p.tok.typ
	switch typ {
	case itemDeclare, itemDestroy, itemUse, itemCall, itemArgument:
		p.advance()
	default:
		return lir.Instruction{}, p.errorf("instruction")
	}
	name, err := p.name()
	if err != nil {
		return lir.Instruction{}, err
	}
	switch typ {
	case itemDeclare:
		return lir.DeclareVariable(name), nil
	case itemDestroy:
		return lir.DestroyVariable(name), nil
	}
	n, err := p.index()
	if err != nil {
		return lir.Instruction{}, err
	}
	switch typ {
	case itemUse:
		return lir.UseVariableAsArgument(name, n), nil
	case itemCall:
		return lir.CallFunction(name, n), nil
	default:
		return lir.GetArgument(name, n), nil
	}
}
