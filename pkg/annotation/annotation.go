// Package annotation represents candidate lipid identifications and the
// adduct evidence found for them in their grouped peaks.
package annotation

import (
	"fmt"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
	"github.com/ChrisMcGann/LipidKey/pkg/match"
)

// Lipid identifies the molecule an annotation proposes. It is opaque to
// adduct detection and only takes part in equality.
type Lipid struct {
	Name string
	ID   string // external identifier such as a LIPID MAPS id, optional
}

func (l Lipid) String() string {
	return l.Name
}

// Key is the identity of an annotation.
type Key struct {
	Lipid         Lipid
	MZ            float64
	RetentionTime float64
}

// Rule is a scoring rule; it returns the signed delta to apply.
type Rule func(*Annotation) int

// Annotation is one candidate identification of a lipid at a retention time.
//
// The adduct is detected from the grouped peaks when the annotation is
// created. An Annotation must not be shared between goroutines while it is
// being scored.
type Annotation struct {
	lipid        Lipid
	mz           float64
	intensity    float64
	rtMin        float64
	mode         core.Polarity
	peaks        *core.PeakSet
	adduct       string
	expected     string
	result       match.Result
	state        match.State
	score        int
	timesApplied int
}

// New creates an annotation and detects its adduct with m. A nil matcher
// uses the built-in adduct table at the default tolerance.
func New(m *match.Matcher, lipid Lipid, mz, intensity, retentionTime float64, mode core.Polarity, peaks ...core.Peak) *Annotation {
	a := &Annotation{
		lipid:     lipid,
		mz:        mz,
		intensity: intensity,
		rtMin:     retentionTime,
		mode:      mode,
		peaks:     core.NewPeakSet(peaks...),
	}

	if m == nil {
		m = match.New(nil)
	}
	a.detectAdduct(m)

	return a
}

func (a *Annotation) detectAdduct(m *match.Matcher) {
	a.result, a.state = m.Detect(a.mz, a.peaks.Peaks())
	if a.state == match.Matched {
		a.adduct = a.result.Adduct.Notation
	}
}

// Lipid returns the proposed lipid.
func (a *Annotation) Lipid() Lipid {
	return a.lipid
}

// MZ returns the observed m/z of the annotated ion.
func (a *Annotation) MZ() float64 {
	return a.mz
}

// Intensity returns the intensity of the annotated ion.
func (a *Annotation) Intensity() float64 {
	return a.intensity
}

// RetentionTime returns the retention time in minutes.
func (a *Annotation) RetentionTime() float64 {
	return a.rtMin
}

// IonizationMode returns the polarity the ion was acquired in.
func (a *Annotation) IonizationMode() core.Polarity {
	return a.mode
}

// Adduct returns the detected adduct; ok is false when none could be inferred.
func (a *Annotation) Adduct() (adduct string, ok bool) {
	return a.adduct, a.adduct != ""
}

// SetAdduct overrides the adduct label.
func (a *Annotation) SetAdduct(adduct string) {
	a.adduct = adduct
}

// State reports whether detection matched an adduct or exhausted the table.
func (a *Annotation) State() match.State {
	return a.state
}

// Match returns the pairing that corroborated the detected adduct.
func (a *Annotation) Match() (match.Result, bool) {
	return a.result, a.state == match.Matched
}

// NeutralMass returns the neutral mass implied by the detected adduct.
func (a *Annotation) NeutralMass() (float64, bool) {
	if a.state != match.Matched {
		return 0, false
	}
	return a.result.Mass, true
}

// ExpectedAdduct is the adduct declared by the input source, if any.
func (a *Annotation) ExpectedAdduct() string {
	return a.expected
}

// SetExpectedAdduct records the adduct declared by the input source.
func (a *Annotation) SetExpectedAdduct(adduct string) {
	a.expected = adduct
}

// GroupedPeaks returns the grouped peaks in ascending m/z order.
func (a *Annotation) GroupedPeaks() []core.Peak {
	return a.peaks.Peaks()
}

// DroppedPeaks returns how many grouped peaks were discarded for sharing an m/z.
func (a *Annotation) DroppedPeaks() int {
	return a.peaks.Dropped()
}

// Score returns the sum of all applied scoring deltas.
func (a *Annotation) Score() int {
	return a.score
}

// TimesScored returns how many scoring deltas have been applied.
func (a *Annotation) TimesScored() int {
	return a.timesApplied
}

// ApplyScore adds delta to the score and counts one application.
func (a *Annotation) ApplyScore(delta int) {
	a.score += delta
	a.timesApplied++
}

// Apply runs each rule and applies its delta.
func (a *Annotation) Apply(rules ...Rule) {
	for _, rule := range rules {
		a.ApplyScore(rule(a))
	}
}

// NormalizedScore returns the score divided by the number of applications.
// ok is false when no score has been applied.
func (a *Annotation) NormalizedScore() (score float64, ok bool) {
	if a.timesApplied == 0 {
		return 0, false
	}
	return float64(a.score) / float64(a.timesApplied), true
}

// Key returns the identity of the annotation: lipid, m/z and retention time.
func (a *Annotation) Key() Key {
	return Key{Lipid: a.lipid, MZ: a.mz, RetentionTime: a.rtMin}
}

// Equal reports whether both annotations have the same identity. The adduct
// and score are not compared.
func (a *Annotation) Equal(other *Annotation) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Key() == other.Key()
}

func (a *Annotation) String() string {
	adduct := a.adduct
	if adduct == "" {
		adduct = "null"
	}
	return fmt.Sprintf("Annotation(%s, mz=%.4f, RT=%.2f, adduct=%s, intensity=%.1f, score=%d)",
		a.lipid.Name, a.mz, a.rtMin, adduct, a.intensity, a.score)
}
