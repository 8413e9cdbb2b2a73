package core

import (
	"fmt"
	"strings"
)

// Polarity is the ionization mode of an observation or an adduct table.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	switch p {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return fmt.Sprintf("Polarity(%d)", int(p))
	}
}

// Sign returns "+" or "-".
func (p Polarity) Sign() string {
	if p == Negative {
		return "-"
	}
	return "+"
}

// ParsePolarity accepts the spellings found in feature tables and MSP files
// ("positive", "pos", "p", "+", and their negative counterparts).
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "pos", "p", "+":
		return Positive, nil
	case "negative", "neg", "n", "-":
		return Negative, nil
	default:
		return Positive, fmt.Errorf("unknown polarity '%s'", s)
	}
}
