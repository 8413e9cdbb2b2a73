package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeakSetOrdering(t *testing.T) {
	set := NewPeakSet(
		Peak{MZ: 300.0, Intensity: 100.0},
		Peak{MZ: 100.0, Intensity: 200.0},
		Peak{MZ: 200.0, Intensity: 150.0},
	)

	peaks := set.Peaks()
	require.Len(t, peaks, 3)
	assert.Equal(t, []float64{100.0, 200.0, 300.0}, []float64{peaks[0].MZ, peaks[1].MZ, peaks[2].MZ})
	assert.True(t, ArePeaksSorted(peaks))
}

func TestPeakSetFirstWriteWins(t *testing.T) {
	set := NewPeakSet(
		Peak{MZ: 700.5, Intensity: 1000.0},
		Peak{MZ: 722.48, Intensity: 50.0},
		Peak{MZ: 700.5, Intensity: 9999.0},
	)

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 1, set.Dropped())
	assert.Equal(t, 1000.0, set.Peaks()[0].Intensity)

	assert.False(t, set.Add(Peak{MZ: 722.48, Intensity: 1.0}))
	assert.True(t, set.Add(Peak{MZ: 650.0, Intensity: 1.0}))
	assert.Equal(t, 650.0, set.Peaks()[0].MZ)
	assert.Equal(t, 2, set.Dropped())
}

func TestPeakSetDropsNaN(t *testing.T) {
	set := NewPeakSet(Peak{MZ: math.NaN(), Intensity: 1.0}, Peak{MZ: 100.0, Intensity: 1.0})
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 1, set.Dropped())
}

func TestPeakSetCopies(t *testing.T) {
	set := NewPeakSet(Peak{MZ: 100.0, Intensity: 1.0})
	peaks := set.Peaks()
	peaks[0].MZ = 5.0
	assert.Equal(t, 100.0, set.Peaks()[0].MZ)
}

func TestBasePeak(t *testing.T) {
	_, ok := BasePeak(nil)
	assert.False(t, ok)

	base, ok := BasePeak([]Peak{
		{MZ: 100.0, Intensity: 10.0},
		{MZ: 200.0, Intensity: 30.0},
		{MZ: 300.0, Intensity: 20.0},
		{MZ: 400.0, Intensity: 30.0},
	})
	require.True(t, ok)
	assert.Equal(t, 200.0, base.MZ)
}

func TestValidatePeaks(t *testing.T) {
	tests := []struct {
		name    string
		peaks   []Peak
		wantErr bool
	}{
		{"valid", []Peak{{MZ: 100.0, Intensity: 1000.0}, {MZ: 200.0, Intensity: 0}}, false},
		{"empty", nil, false},
		{"NaN m/z", []Peak{{MZ: math.NaN(), Intensity: 1000.0}}, true},
		{"infinite intensity", []Peak{{MZ: 100.0, Intensity: math.Inf(1)}}, true},
		{"zero m/z", []Peak{{MZ: 0, Intensity: 1000.0}}, true},
		{"negative intensity", []Peak{{MZ: 100.0, Intensity: -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeaks(tt.peaks)
			if tt.wantErr {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSortPeaks(t *testing.T) {
	peaks := []Peak{{MZ: 3}, {MZ: 1}, {MZ: 2}}
	assert.False(t, ArePeaksSorted(peaks))
	SortPeaks(peaks)
	assert.True(t, ArePeaksSorted(peaks))
}

func TestParsePolarity(t *testing.T) {
	for _, s := range []string{"positive", "POS", " p ", "+"} {
		p, err := ParsePolarity(s)
		require.NoError(t, err, s)
		assert.Equal(t, Positive, p)
	}
	for _, s := range []string{"Negative", "neg", "N", "-"} {
		p, err := ParsePolarity(s)
		require.NoError(t, err, s)
		assert.Equal(t, Negative, p)
	}
	_, err := ParsePolarity("both")
	assert.Error(t, err)
	assert.Equal(t, "negative", Negative.String())
	assert.Equal(t, "-", Negative.Sign())
}
