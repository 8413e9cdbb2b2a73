package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMzFromMass(t *testing.T) {
	table := DefaultAdductTable()

	tests := []struct {
		name   string
		mass   float64
		adduct string
		wantMZ float64
	}{
		{
			name:   "protonated single charge",
			mass:   700.0,
			adduct: "[M+H]+",
			wantMZ: 701.007276,
		},
		{
			name:   "doubly protonated",
			mass:   700.0,
			adduct: "[M+2H]2+",
			wantMZ: 351.007276,
		},
		{
			name:   "sodiated dimer",
			mass:   700.0,
			adduct: "[2M+Na]+",
			wantMZ: 1422.989218,
		},
		{
			name:   "deprotonated",
			mass:   700.0,
			adduct: "[M-H]-",
			wantMZ: 698.992724,
		},
		{
			name:   "water loss",
			mass:   700.0,
			adduct: "[M+H-H2O]+",
			wantMZ: 682.996711,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMZ, err := table.MzFromMass(tt.mass, tt.adduct)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMZ, gotMZ, 1e-6)

			gotMass, err := table.MassFromMz(tt.wantMZ, tt.adduct)
			require.NoError(t, err)
			assert.InDelta(t, tt.mass, gotMass, 1e-6)
		})
	}
}

func TestAdductBranches(t *testing.T) {
	tests := []struct {
		name   string
		adduct Adduct
		mass   float64
		wantMZ float64
	}{
		{"charge 1 multimer 1", NewAdduct("[M+H]+", -1.007276), 700.0, 701.007276},
		{"charge 2 multimer 1", NewAdduct("[M+2H]2+", -1.007276), 700.0, 351.007276},
		{"charge 1 multimer 2", NewAdduct("[2M+H]+", -1.007276), 700.0, 1401.007276},
		{"charge 2 multimer 2", NewAdduct("[2M+2H]2+", -1.007276), 700.0, 701.007276},
		{"charge 2 multimer 3", NewAdduct("[3M+2H]2+", -1.007276), 700.0, 1051.007276},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantMZ, tt.adduct.MzFromMass(tt.mass), 1e-9)
			assert.InDelta(t, tt.mass, tt.adduct.MassFromMz(tt.wantMZ), 1e-9)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	masses := []float64{120.5, 500.25, 700.0, 885.5499, 1234.5678, 2000.0}

	for _, adduct := range DefaultAdductTable().All() {
		t.Run(adduct.Notation, func(t *testing.T) {
			for _, m := range masses {
				mz := adduct.MzFromMass(m)
				assert.InDelta(t, m, adduct.MassFromMz(mz), 1e-9, "mass %.4f", m)
				assert.InDelta(t, mz, adduct.MzFromMass(adduct.MassFromMz(mz)), 1e-9, "mass %.4f", m)
			}
		})
	}
}

func TestCalculatorUnknownAdduct(t *testing.T) {
	table := DefaultAdductTable()

	mass, err := table.MassFromMz(700.0, "[M+Xe]+")
	assert.ErrorIs(t, err, ErrAdductNotFound)
	assert.Zero(t, mass)

	mz, err := table.MzFromMass(700.0, "[M+Xe]+")
	assert.ErrorIs(t, err, ErrAdductNotFound)
	assert.Zero(t, mz)
}

func TestPPMError(t *testing.T) {
	tests := []struct {
		name         string
		experimental float64
		theoretical  float64
		want         int
	}{
		{"exact", 700.0, 700.0, 0},
		{"10 ppm above", 700.007, 700.0, 10},
		{"10 ppm below", 699.993, 700.0, 10},
		{"rounds down", 500.0012, 500.0, 2},
		{"rounds up", 500.0013, 500.0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PPMError(tt.experimental, tt.theoretical))
		})
	}
}

func TestPPMToDelta(t *testing.T) {
	assert.InDelta(t, 0.007, PPMToDelta(700.0, 10), 1e-12)
	assert.InDelta(t, 0.007, PPMToDelta(-700.0, 10), 1e-12)
	assert.Zero(t, PPMToDelta(700.0, 0))

	// non-decreasing in both mass and ppm
	prev := 0.0
	for mass := 100.0; mass <= 2000.0; mass += 100.0 {
		for ppm := 1.0; ppm <= 20.0; ppm++ {
			assert.GreaterOrEqual(t, PPMToDelta(mass, ppm), PPMToDelta(mass, ppm-1))
		}
		d := PPMToDelta(mass, 10)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}
