package core

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	// Digits before the molecule symbol in the first bracket, e.g. "[2M"
	multimerPattern = regexp.MustCompile(`\[([0-9]*)M`)

	// Digits before the terminal polarity sign, e.g. "]2+" or "2-]"
	chargePattern = regexp.MustCompile(`([0-9]*)([+-])\]?$`)

	// Full grammar accepted by ParseNotation
	notationPattern = regexp.MustCompile(`^\[([0-9]*)M((?:[+-][0-9]*[A-Z][A-Za-z0-9]*)*)\]([0-9]*)([+-])$`)
)

// ExtractMultimer returns the number of molecules in the adduct notation.
// Notations without an explicit count, or that do not parse, yield 1.
func ExtractMultimer(notation string) int {
	m := multimerPattern.FindStringSubmatch(notation)
	if m == nil {
		return 1
	}
	return countOrOne(m[1])
}

// ExtractCharge returns the absolute charge of the adduct notation.
// Notations without an explicit charge, or that do not parse, yield 1.
func ExtractCharge(notation string) int {
	m := chargePattern.FindStringSubmatch(notation)
	if m == nil {
		return 1
	}
	return countOrOne(m[1])
}

func countOrOne(digits string) int {
	if digits == "" {
		return 1
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 1
	}
	return n
}

// ParseError reports a notation that does not follow the adduct grammar.
type ParseError struct {
	Notation string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid adduct notation %q: %s", e.Notation, e.Reason)
}

// Notation is the strict decomposition of an adduct notation such as "[2M+Na]+".
type Notation struct {
	Multimer  int
	Charge    int
	Polarity  Polarity
	Modifiers string // e.g. "+H-H2O"
}

// ParseNotation validates notation against the full adduct grammar.
// Unlike ExtractMultimer and ExtractCharge it fails on malformed input
// and on explicit zero counts.
func ParseNotation(notation string) (Notation, error) {
	m := notationPattern.FindStringSubmatch(notation)
	if m == nil {
		return Notation{}, &ParseError{Notation: notation, Reason: "expected [nM(+|-species)...]z(+|-)"}
	}

	if m[1] == "0" || m[3] == "0" || hasLeadingZero(m[1]) || hasLeadingZero(m[3]) {
		return Notation{}, &ParseError{Notation: notation, Reason: "counts must be positive integers"}
	}

	n := Notation{
		Multimer:  countOrOne(m[1]),
		Charge:    countOrOne(m[3]),
		Polarity:  Positive,
		Modifiers: m[2],
	}
	if m[4] == "-" {
		n.Polarity = Negative
	}

	return n, nil
}

func hasLeadingZero(digits string) bool {
	return len(digits) > 1 && digits[0] == '0'
}
