// Package core provides the adduct reference table
package core

import (
	"errors"
	"fmt"
)

// ErrAdductNotFound is returned when a notation is in neither polarity of a table.
var ErrAdductNotFound = errors.New("adduct not found")

// AdductEntry is a notation and its mass shift as stored in reference files.
type AdductEntry struct {
	Notation string  `toml:"notation"`
	Shift    float64 `toml:"shift"`
}

// AdductTable holds the positive and negative adduct mass shifts.
// Entries keep their insertion order, which is the priority order used
// when searching for an adduct. A table is immutable once built.
type AdductTable struct {
	positive []Adduct
	negative []Adduct
	posIndex map[string]int
	negIndex map[string]int
}

// NewAdductTable builds a table from ordered positive and negative entries.
// Duplicate notations within one polarity are rejected.
func NewAdductTable(positive, negative []AdductEntry) (*AdductTable, error) {
	t := &AdductTable{
		posIndex: make(map[string]int, len(positive)),
		negIndex: make(map[string]int, len(negative)),
	}

	for _, e := range positive {
		if _, dup := t.posIndex[e.Notation]; dup {
			return nil, fmt.Errorf("duplicate positive adduct '%s'", e.Notation)
		}
		t.posIndex[e.Notation] = len(t.positive)
		t.positive = append(t.positive, NewAdduct(e.Notation, e.Shift))
	}

	for _, e := range negative {
		if _, dup := t.negIndex[e.Notation]; dup {
			return nil, fmt.Errorf("duplicate negative adduct '%s'", e.Notation)
		}
		t.negIndex[e.Notation] = len(t.negative)
		t.negative = append(t.negative, NewAdduct(e.Notation, e.Shift))
	}

	return t, nil
}

// Shift returns the mass shift for a notation, looking in the positive
// adducts first and then the negative ones.
func (t *AdductTable) Shift(notation string) (float64, error) {
	adduct, err := t.Resolve(notation)
	if err != nil {
		return 0, err
	}
	return adduct.Shift, nil
}

// Resolve returns the full adduct hypothesis for a notation.
func (t *AdductTable) Resolve(notation string) (Adduct, error) {
	if i, ok := t.posIndex[notation]; ok {
		return t.positive[i], nil
	}
	if i, ok := t.negIndex[notation]; ok {
		return t.negative[i], nil
	}
	return Adduct{}, fmt.Errorf("%w: %s", ErrAdductNotFound, notation)
}

// Adducts returns the adducts of one polarity in priority order.
func (t *AdductTable) Adducts(p Polarity) []Adduct {
	src := t.positive
	if p == Negative {
		src = t.negative
	}
	out := make([]Adduct, len(src))
	copy(out, src)
	return out
}

// All returns every adduct, positive ones first, in priority order.
func (t *AdductTable) All() []Adduct {
	out := make([]Adduct, 0, t.Len())
	out = append(out, t.positive...)
	return append(out, t.negative...)
}

// Len returns the total number of adducts in the table.
func (t *AdductTable) Len() int {
	return len(t.positive) + len(t.negative)
}

// Validate strictly parses every notation and checks that its polarity sign
// matches the side of the table it was loaded into.
func (t *AdductTable) Validate() error {
	var errs []error

	check := func(adducts []Adduct, want Polarity) {
		for _, a := range adducts {
			n, err := ParseNotation(a.Notation)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if n.Polarity != want {
				errs = append(errs, fmt.Errorf("adduct '%s' is listed as %s but ends in '%s'", a.Notation, want, n.Polarity.Sign()))
			}
		}
	}

	check(t.positive, Positive)
	check(t.negative, Negative)

	return errors.Join(errs...)
}

// DefaultAdductTable returns the built-in lipidomics adduct table.
func DefaultAdductTable() *AdductTable {
	t, err := NewAdductTable(defaultPositive, defaultNegative)
	if err != nil {
		panic(err)
	}
	return t
}

// Common ESI adducts; shifts are in Da per charge
var defaultPositive = []AdductEntry{
	{"[M+H]+", -1.007276},
	{"[2M+H]+", -1.007276},
	{"[M+2H]2+", -1.007276},
	{"[M+3H]3+", -1.007276},
	{"[M+Na]+", -22.989218},
	{"[2M+Na]+", -22.989218},
	{"[M+K]+", -38.963158},
	{"[M+NH4]+", -18.033823},
	{"[2M+NH4]+", -18.033823},
	{"[M+Li]+", -7.015455},
	{"[M+H-H2O]+", 17.003289},
	{"[M+H-2H2O]+", 35.013854},
	{"[M+H+NH4]2+", -9.520550},
	{"[M+Na+H]2+", -11.998247},
	{"[M+H+K]2+", -19.985217},
	{"[M+2Na]2+", -22.989218},
}

var defaultNegative = []AdductEntry{
	{"[M-H]-", 1.007276},
	{"[2M-H]-", 1.007276},
	{"[M-2H]2-", 1.007276},
	{"[M-3H]3-", 1.007276},
	{"[M+Cl]-", -34.969402},
	{"[M+HCOOH-H]-", -44.998201},
	{"[M+CH3COOH-H]-", -59.013851},
	{"[M-H-H2O]-", 19.017841},
	{"[M+Na-2H]-", -20.974666},
	{"[M+K-2H]-", -36.948606},
	{"[2M+HCOOH-H]-", -44.998201},
}
