// Package match infers the adduct of an annotation from its grouped peaks
package match

import (
	"log"
	"math"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

// State is the outcome of an adduct search.
type State int

const (
	// Unresolved means no search has run yet.
	Unresolved State = iota
	// Matched means an adduct was corroborated by a grouped peak.
	Matched
	// Exhausted means every candidate was tried without corroboration.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Matched:
		return "matched"
	case Exhausted:
		return "exhausted"
	default:
		return "unresolved"
	}
}

// Result describes the pairing that corroborated an adduct.
type Result struct {
	Adduct     core.Adduct // adduct assigned to the annotation
	Mass       float64     // neutral mass of the annotation under Adduct
	Peak       core.Peak   // grouped peak that agreed
	PeakAdduct core.Adduct // adduct hypothesis for Peak
	PeakMass   float64     // neutral mass of Peak under PeakAdduct
	Delta      float64     // |Mass - PeakMass|
	Window     float64     // absolute tolerance at Mass
}

// PPMError returns the rounded ppm difference between the two neutral masses.
func (r Result) PPMError() int {
	return core.PPMError(r.PeakMass, r.Mass)
}

// Matcher searches an adduct table for the adduct of an annotation.
// It holds no per-search state and may be shared between goroutines.
type Matcher struct {
	table        *core.AdductTable
	tolerancePPM float64
	excludeSelf  bool
	logger       *log.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithTolerancePPM sets the corroboration window in ppm.
func WithTolerancePPM(ppm float64) Option {
	return func(m *Matcher) {
		m.tolerancePPM = ppm
	}
}

// WithExcludeSelf skips grouped peaks whose m/z equals the annotation's own m/z.
func WithExcludeSelf(exclude bool) Option {
	return func(m *Matcher) {
		m.excludeSelf = exclude
	}
}

// WithLogger reports every successful pairing to logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// New creates a Matcher over table. A nil table uses the built-in adducts.
func New(table *core.AdductTable, opts ...Option) *Matcher {
	if table == nil {
		table = core.DefaultAdductTable()
	}

	m := &Matcher{
		table:        table,
		tolerancePPM: core.DefaultTolerancePPM,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Table returns the adduct table the matcher searches.
func (m *Matcher) Table() *core.AdductTable {
	return m.table
}

// TolerancePPM returns the corroboration window in ppm.
func (m *Matcher) TolerancePPM() float64 {
	return m.tolerancePPM
}

// Detect finds the adduct of an ion observed at mz.
//
// Positive adducts are tried before negative ones, each in table order. A
// candidate is accepted as soon as any peak, under any adduct of either
// polarity, implies the same neutral mass within the tolerance. Peaks are
// scanned in ascending m/z order; an unsorted slice is sorted on a copy.
// The returned state is Matched or Exhausted.
func (m *Matcher) Detect(mz float64, peaks []core.Peak) (Result, State) {
	if !core.ArePeaksSorted(peaks) {
		peaks = append([]core.Peak(nil), peaks...)
		core.SortPeaks(peaks)
	}

	for _, polarity := range []core.Polarity{core.Positive, core.Negative} {
		for _, candidate := range m.table.Adducts(polarity) {
			mass := candidate.MassFromMz(mz)

			if res, ok := m.corroborate(mz, mass, peaks); ok {
				res.Adduct = candidate
				if m.logger != nil {
					m.logger.Printf("adduct match: annotation %.6f as %s, peak %.6f as %s, masses %.6f ~ %.6f (delta %.6f <= %.6f)",
						mz, candidate.Notation, res.Peak.MZ, res.PeakAdduct.Notation, res.Mass, res.PeakMass, res.Delta, res.Window)
				}
				return res, Matched
			}
		}
	}

	return Result{}, Exhausted
}

// corroborate looks for a peak whose neutral mass under some adduct agrees
// with mass within the ppm window taken at mass.
func (m *Matcher) corroborate(mz, mass float64, peaks []core.Peak) (Result, bool) {
	window := core.PPMToDelta(mass, m.tolerancePPM)
	all := m.table.All()

	for _, peak := range peaks {
		if m.excludeSelf && peak.MZ == mz {
			continue
		}

		for _, peakAdduct := range all {
			peakMass := peakAdduct.MassFromMz(peak.MZ)

			if delta := math.Abs(mass - peakMass); delta <= window {
				return Result{
					Mass:       mass,
					Peak:       peak,
					PeakAdduct: peakAdduct,
					PeakMass:   peakMass,
					Delta:      delta,
					Window:     window,
				}, true
			}
		}
	}

	return Result{}, false
}
