package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

func mzs(peaks []core.Peak) []float64 {
	out := make([]float64, len(peaks))
	for i, p := range peaks {
		out[i] = p.MZ
	}
	return out
}

func TestApply(t *testing.T) {
	peaks := []core.Peak{
		{MZ: 782.567, Intensity: 300},
		{MZ: 760.585, Intensity: 1000},
		{MZ: 761.588, Intensity: 420},
		{MZ: 762.590, Intensity: 90},
		{MZ: 798.541, Intensity: 0},
	}

	tests := []struct {
		name   string
		config *Config
		want   []float64
	}{
		{"nil config drops zero intensity", nil, []float64{760.585, 761.588, 762.590, 782.567}},
		{"empty config", &Config{}, []float64{760.585, 761.588, 762.590, 782.567}},
		{"top 2", &Config{TopN: 2}, []float64{760.585, 761.588}},
		{"10% cutoff", &Config{IntensityCutoff: 10}, []float64{760.585, 761.588, 782.567}},
		{"absolute minimum", &Config{MinIntensity: 400}, []float64{760.585, 761.588}},
		{"combined", &Config{IntensityCutoff: 5, TopN: 3, MinIntensity: 100}, []float64{760.585, 761.588, 782.567}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.Apply(peaks)
			assert.Equal(t, tt.want, mzs(got))
			assert.True(t, core.ArePeaksSorted(got))
		})
	}

	// input untouched
	assert.Equal(t, 782.567, peaks[0].MZ)
	assert.Len(t, peaks, 5)
}

func TestIsZero(t *testing.T) {
	var nilConfig *Config
	assert.True(t, nilConfig.IsZero())
	assert.True(t, (&Config{}).IsZero())
	assert.False(t, (&Config{TopN: 1}).IsZero())
}

func TestRemoveZeroIntensityPeaks(t *testing.T) {
	got := RemoveZeroIntensityPeaks([]core.Peak{{MZ: 1, Intensity: 0}, {MZ: 2, Intensity: -1}, {MZ: 3, Intensity: 1}})
	assert.Equal(t, []float64{3}, mzs(got))
}
