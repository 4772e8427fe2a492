package lir

import (
	"fmt"
	"lowc/src/ir/lir/types"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Variable is a symbolic value and the set of locations currently holding it. A value might be in a register
// and on the stack at the same time.
type Variable struct {
	FullName  string     // Unique name of the variable, like my_app:main:loop1:myVar.
	Locations []Location // All locations currently holding the value.
}

// VariableSet holds the live variables of one function body, keyed by full name. Iteration follows
// insertion order.
type VariableSet struct {
	vars []*Variable
	idx  map[string]int
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewVariable returns a new Variable held at the given locations.
func NewVariable(name string, locations ...Location) *Variable {
	return &Variable{
		FullName:  name,
		Locations: locations,
	}
}

// NewVariableSet returns a VariableSet holding vars.
func NewVariableSet(vars ...*Variable) *VariableSet {
	s := &VariableSet{
		vars: make([]*Variable, 0, len(vars)),
		idx:  make(map[string]int, len(vars)),
	}
	for _, e1 := range vars {
		s.Add(e1)
	}
	return s
}

// ----------------------------
// ----- Variable methods -----
// ----------------------------

// CheapestLocation returns the lowest cost location of v. The first location wins ties.
func (v *Variable) CheapestLocation() (Location, bool) {
	if len(v.Locations) == 0 {
		return Location{}, false
	}
	cheapest := v.Locations[0]
	for _, e1 := range v.Locations[1:] {
		if e1.Cost() < cheapest.Cost() {
			cheapest = e1
		}
	}
	return cheapest, true
}

// HasStackLocation returns true if v is held at a direct or indirect stack location.
func (v *Variable) HasStackLocation() bool {
	for _, e1 := range v.Locations {
		if e1.IsStack() {
			return true
		}
	}
	return false
}

// HasRegister returns true if v is held in the named register.
func (v *Variable) HasRegister(name string) bool {
	for _, e1 := range v.Locations {
		if e1.IsRegister(name) {
			return true
		}
	}
	return false
}

// stackLocation picks the most direct stack location of v: the first direct offset, else the indirect
// location with the cheapest address.
func (v *Variable) stackLocation() (Location, bool) {
	var res Location
	found := false
	for _, e1 := range v.Locations {
		switch e1.Type() {
		case types.StackOffset:
			return e1, true
		case types.StackOffsetAt:
			if !found || e1.Cost() < res.Cost() {
				res = e1
				found = true
			}
		}
	}
	return res, found
}

// CollapseToStack removes every location of v except its most direct stack location. If v has no stack
// location, v is left without any location.
func (v *Variable) CollapseToStack() {
	if l, ok := v.stackLocation(); ok {
		v.Locations = []Location{l}
	} else {
		v.Locations = nil
	}
}

// StackOffset returns the immediate offset of the most direct stack location of v. It returns false if v has
// no stack location or only indirect ones.
func (v *Variable) StackOffset() (uint64, bool) {
	l, ok := v.stackLocation()
	if !ok {
		return 0, false
	}
	return l.ImmediateStackOffset()
}

// String returns a print friendly representation of v and its locations.
func (v *Variable) String() string {
	locs := make([]string, len(v.Locations))
	for i1, e1 := range v.Locations {
		locs[i1] = e1.String()
	}
	return fmt.Sprintf("%s [%s]", v.FullName, strings.Join(locs, ", "))
}

// -------------------------------
// ----- VariableSet methods -----
// -------------------------------

// Add inserts v into the set. A variable with the same full name is replaced in place.
func (s *VariableSet) Add(v *Variable) {
	if i, ok := s.idx[v.FullName]; ok {
		s.vars[i] = v
		return
	}
	s.idx[v.FullName] = len(s.vars)
	s.vars = append(s.vars, v)
}

// Get returns the variable with the given full name, or nil.
func (s *VariableSet) Get(name string) *Variable {
	if i, ok := s.idx[name]; ok {
		return s.vars[i]
	}
	return nil
}

// Remove deletes the variable with the given full name. It returns false if no such variable exists.
func (s *VariableSet) Remove(name string) bool {
	i, ok := s.idx[name]
	if !ok {
		return false
	}
	s.vars = append(s.vars[:i], s.vars[i+1:]...)
	delete(s.idx, name)
	for i1, e1 := range s.vars[i:] {
		s.idx[e1.FullName] = i + i1
	}
	return true
}

// Len returns the number of variables in the set.
func (s *VariableSet) Len() int {
	return len(s.vars)
}

// Variables returns the variables of the set in insertion order. The returned slice may be modified freely.
func (s *VariableSet) Variables() []*Variable {
	res := make([]*Variable, len(s.vars))
	copy(res, s.vars)
	return res
}
