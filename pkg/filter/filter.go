// Package filter provides peak filtering for grouped peak clusters
package filter

import (
	"sort"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	TopN            int     // Keep only top N most intense peaks (0 = no limit)
	IntensityCutoff float64 // Keep only peaks above this % of base peak (0 = no cutoff)
	MinIntensity    float64 // Keep only peaks at or above this absolute intensity (0 = no minimum)
}

// IsZero reports whether the config filters nothing beyond zero-intensity peaks.
func (c *Config) IsZero() bool {
	return c == nil || (c.TopN <= 0 && c.IntensityCutoff <= 0 && c.MinIntensity <= 0)
}

// Apply returns the peaks that pass every configured filter, sorted by m/z.
// The input slice is not modified.
func (c *Config) Apply(peaks []core.Peak) []core.Peak {
	filtered := RemoveZeroIntensityPeaks(peaks)
	if c == nil {
		core.SortPeaks(filtered)
		return filtered
	}

	// Apply absolute minimum first
	if c.MinIntensity > 0 {
		filtered = c.filterByMinimum(filtered)
	}

	// Apply intensity filters
	if c.IntensityCutoff > 0 {
		filtered = c.filterByIntensity(filtered)
	}

	// Apply top-N filter
	if c.TopN > 0 {
		filtered = c.filterTopN(filtered)
	}

	// Ensure peaks are sorted after all filtering
	core.SortPeaks(filtered)

	return filtered
}

// filterByMinimum removes peaks below the absolute intensity minimum
func (c *Config) filterByMinimum(peaks []core.Peak) []core.Peak {
	var filtered []core.Peak
	for _, peak := range peaks {
		if peak.Intensity >= c.MinIntensity {
			filtered = append(filtered, peak)
		}
	}
	return filtered
}

// filterByIntensity removes peaks below the intensity cutoff percentage
func (c *Config) filterByIntensity(peaks []core.Peak) []core.Peak {
	base, ok := core.BasePeak(peaks)
	if !ok {
		return peaks
	}

	// Calculate threshold
	threshold := (c.IntensityCutoff / 100.0) * base.Intensity

	var filtered []core.Peak
	for _, peak := range peaks {
		if peak.Intensity >= threshold {
			filtered = append(filtered, peak)
		}
	}
	return filtered
}

// filterTopN keeps only the N most intense peaks
func (c *Config) filterTopN(peaks []core.Peak) []core.Peak {
	if len(peaks) <= c.TopN {
		return peaks
	}

	// Stable so equal intensities keep their m/z order
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Intensity > peaks[j].Intensity
	})

	return peaks[:c.TopN]
}

// RemoveZeroIntensityPeaks returns a copy of peaks without zero or negative intensities
func RemoveZeroIntensityPeaks(peaks []core.Peak) []core.Peak {
	filtered := make([]core.Peak, 0, len(peaks))
	for _, peak := range peaks {
		if peak.Intensity > 0 {
			filtered = append(filtered, peak)
		}
	}
	return filtered
}
