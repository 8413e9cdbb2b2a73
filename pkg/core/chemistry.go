// Package core provides mass calculations and adduct handling for lipid annotation
package core

import "math"

// DefaultTolerancePPM is the window used to corroborate an adduct against grouped peaks.
const DefaultTolerancePPM = 10.0

// Adduct is an adduct hypothesis resolved from its notation.
//
// Shift is added to an observed m/z to obtain the neutral mass of a single
// charge, so protonated species carry a negative shift and deprotonated
// species a positive one.
type Adduct struct {
	Notation string
	Multimer int
	Charge   int
	Shift    float64
}

// NewAdduct resolves multimer and charge from the notation's lexical form.
func NewAdduct(notation string, shift float64) Adduct {
	return Adduct{
		Notation: notation,
		Multimer: ExtractMultimer(notation),
		Charge:   ExtractCharge(notation),
		Shift:    shift,
	}
}

// MassFromMz computes the neutral monoisotopic mass of an ion observed at mz.
func (a Adduct) MassFromMz(mz float64) float64 {
	charge := float64(a.Charge)
	multimer := float64(a.Multimer)

	switch {
	case a.Charge == 1 && a.Multimer == 1:
		return mz + a.Shift
	case a.Charge > 1 && a.Multimer == 1:
		return (mz + a.Shift) * charge
	case a.Charge == 1 && a.Multimer > 1:
		return (mz + a.Shift) / multimer
	default:
		return ((mz + a.Shift) * charge) / multimer
	}
}

// MzFromMass computes the m/z at which a neutral mass is observed as this adduct.
func (a Adduct) MzFromMass(mass float64) float64 {
	charge := float64(a.Charge)
	multimer := float64(a.Multimer)

	switch {
	case a.Charge == 1 && a.Multimer == 1:
		return mass - a.Shift
	case a.Charge > 1 && a.Multimer == 1:
		return mass/charge - a.Shift
	case a.Charge == 1 && a.Multimer > 1:
		return mass*multimer - a.Shift
	default:
		return (mass*multimer)/charge - a.Shift
	}
}

// MassFromMz resolves notation against the table and returns the neutral mass for mz.
func (t *AdductTable) MassFromMz(mz float64, notation string) (float64, error) {
	adduct, err := t.Resolve(notation)
	if err != nil {
		return 0, err
	}
	return adduct.MassFromMz(mz), nil
}

// MzFromMass resolves notation against the table and returns the m/z for mass.
func (t *AdductTable) MzFromMass(mass float64, notation string) (float64, error) {
	adduct, err := t.Resolve(notation)
	if err != nil {
		return 0, err
	}
	return adduct.MzFromMass(mass), nil
}

// PPMError returns the difference between an experimental and a theoretical
// mass in parts per million, rounded to the nearest integer.
func PPMError(experimental, theoretical float64) int {
	return int(math.Round(math.Abs((experimental - theoretical) * 1e6 / theoretical)))
}

// PPMToDelta converts a ppm tolerance into an absolute mass window at mass.
func PPMToDelta(mass, ppm float64) float64 {
	return math.Abs(mass * ppm / 1e6)
}
