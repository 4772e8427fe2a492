package lir

import (
	"fmt"
	"lowc/src/ir/lir/types"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Location is a place a value can live during the runtime of the compiled program. Locations are immutable
// values; a Variable may be held at several locations simultaneously.
type Location struct {
	typ    types.LocationType // Kind of location.
	name   string             // Register name, for types.Register.
	offset uint64             // Byte offset, for types.StackOffset.
	at     *Location          // Location holding the address, for types.StackOffsetAt and types.Heap.
	size   uint64             // Allocation size in bytes, for types.Heap.
}

// ---------------------
// ----- Constants -----
// ---------------------

const (
	costRegister = 0 // Reading a register is free.
	costStack    = 1 // One memory access.
	costHeap     = 2 // Heap data is assumed to be colder than the stack.
)

// ---------------------
// ----- Functions -----
// ---------------------

// Register returns the location of a value held in the named register.
func Register(name string) Location {
	return Location{typ: types.Register, name: name}
}

// StackOffset returns the location of a value stored at the given byte offset in the stack frame.
func StackOffset(offset uint64) Location {
	return Location{typ: types.StackOffset, offset: offset}
}

// StackOffsetAt returns the location of a stack value whose address is itself stored at location at.
func StackOffsetAt(at Location) Location {
	return Location{typ: types.StackOffsetAt, at: &at}
}

// Heap returns the location of a heap allocation of size bytes whose address is stored at location at.
func Heap(at Location, size uint64) Location {
	return Location{typ: types.Heap, at: &at, size: size}
}

// AnyGeneralPurposeRegister returns the placeholder location requesting any general purpose register.
// It is never a resolved location.
func AnyGeneralPurposeRegister() Location {
	return Location{typ: types.AnyGeneralPurposeRegister}
}

// ----------------------------
// ----- Location methods -----
// ----------------------------

// Type returns the kind of Location l.
func (l Location) Type() types.LocationType {
	return l.typ
}

// Cost returns the time cost of getting the value at Location l. Lower is cheaper.
func (l Location) Cost() int {
	switch l.typ {
	case types.StackOffset:
		return costStack
	case types.StackOffsetAt:
		return costStack + l.at.Cost()
	case types.Heap:
		return costHeap + l.at.Cost()
	default:
		return costRegister
	}
}

// IsRegister returns true if l is the register with the given name.
func (l Location) IsRegister(name string) bool {
	return l.typ == types.Register && l.name == name
}

// RegisterName returns the register name of l, if l is a register.
func (l Location) RegisterName() (string, bool) {
	if l.typ != types.Register {
		return "", false
	}
	return l.name, true
}

// ImmediateStackOffset returns the stack offset of l. Only direct stack offsets are immediately addressable;
// indirect and heap locations need another memory access and return false.
func (l Location) ImmediateStackOffset() (uint64, bool) {
	if l.typ != types.StackOffset {
		return 0, false
	}
	return l.offset, true
}

// IsStack returns true for direct and indirect stack locations.
func (l Location) IsStack() bool {
	return l.typ == types.StackOffset || l.typ == types.StackOffsetAt
}

// Inner returns the location holding the address of an indirect or heap location.
func (l Location) Inner() (Location, bool) {
	if l.at == nil {
		return Location{}, false
	}
	return *l.at, true
}

// AddressRegister returns the register the address chain of an indirect or heap location starts from.
func (l Location) AddressRegister() (string, bool) {
	if l.at == nil {
		return "", false
	}
	if l.at.typ == types.Register {
		return l.at.name, true
	}
	return l.at.AddressRegister()
}

// Size returns the allocation size of a heap location.
func (l Location) Size() uint64 {
	return l.size
}

// Equal returns true if l and o describe the same place.
func (l Location) Equal(o Location) bool {
	if l.typ != o.typ || l.name != o.name || l.offset != o.offset || l.size != o.size {
		return false
	}
	if l.at == nil || o.at == nil {
		return l.at == o.at
	}
	return l.at.Equal(*o.at)
}

// String returns the textual representation of Location l, as accepted by the listing parser.
func (l Location) String() string {
	switch l.typ {
	case types.Register:
		return l.name
	case types.StackOffset:
		return fmt.Sprintf("stack(%d)", l.offset)
	case types.StackOffsetAt:
		return fmt.Sprintf("stack_at(%s)", l.at.String())
	case types.Heap:
		return fmt.Sprintf("heap(%s, %d)", l.at.String(), l.size)
	default:
		return "any"
	}
}
