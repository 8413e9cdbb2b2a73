package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Peak represents a single detected m/z, intensity pair.
type Peak struct {
	MZ        float64
	Intensity float64
}

// PeakSet is a set of peaks ordered by ascending m/z with at most one peak
// per m/z value. When two peaks share an m/z the first one added is kept and
// the later one is counted as dropped, whatever its intensity.
type PeakSet struct {
	peaks   []Peak
	dropped int
}

// NewPeakSet creates a set from peaks in the given order.
func NewPeakSet(peaks ...Peak) *PeakSet {
	s := &PeakSet{peaks: make([]Peak, 0, len(peaks))}
	for _, p := range peaks {
		s.Add(p)
	}
	return s
}

// Add inserts p in m/z order and reports whether it was kept.
// Peaks with a NaN m/z cannot be ordered and are dropped.
func (s *PeakSet) Add(p Peak) bool {
	if math.IsNaN(p.MZ) {
		s.dropped++
		return false
	}

	i := sort.Search(len(s.peaks), func(i int) bool { return s.peaks[i].MZ >= p.MZ })
	if i < len(s.peaks) && s.peaks[i].MZ == p.MZ {
		s.dropped++
		return false
	}

	s.peaks = append(s.peaks, Peak{})
	copy(s.peaks[i+1:], s.peaks[i:])
	s.peaks[i] = p
	return true
}

// Peaks returns a copy of the peaks in ascending m/z order.
func (s *PeakSet) Peaks() []Peak {
	out := make([]Peak, len(s.peaks))
	copy(out, s.peaks)
	return out
}

// Len returns the number of peaks kept.
func (s *PeakSet) Len() int {
	return len(s.peaks)
}

// Dropped returns how many peaks were discarded as m/z duplicates.
func (s *PeakSet) Dropped() int {
	return s.dropped
}

// BasePeak returns the most intense peak; ok is false when peaks is empty.
// Ties keep the first peak.
func BasePeak(peaks []Peak) (p Peak, ok bool) {
	for i, peak := range peaks {
		if i == 0 || peak.Intensity > p.Intensity {
			p = peak
		}
	}
	return p, len(peaks) > 0
}

// ValidationError represents an error found during validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// ValidatePeaks checks that every peak has a finite positive m/z and a finite
// non-negative intensity.
func ValidatePeaks(peaks []Peak) error {
	var errs []string

	for i, peak := range peaks {
		if math.IsNaN(peak.MZ) || math.IsInf(peak.MZ, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid m/z", i))
		} else if peak.MZ <= 0 {
			errs = append(errs, fmt.Sprintf("peak %d m/z must be positive", i))
		}
		if math.IsNaN(peak.Intensity) || math.IsInf(peak.Intensity, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid intensity", i))
		} else if peak.Intensity < 0 {
			errs = append(errs, fmt.Sprintf("peak %d intensity must be non-negative", i))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Peaks",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// ArePeaksSorted checks if peaks are sorted by m/z in ascending order.
func ArePeaksSorted(peaks []Peak) bool {
	for i := 1; i < len(peaks); i++ {
		if peaks[i].MZ < peaks[i-1].MZ {
			return false
		}
	}
	return true
}

// SortPeaks sorts peaks by m/z in ascending order.
func SortPeaks(peaks []Peak) {
	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].MZ < peaks[j].MZ
	})
}
