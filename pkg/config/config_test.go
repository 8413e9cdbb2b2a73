package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	c, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultTolerancePPM, c.TolerancePPM)
	assert.Empty(t, c.Adducts)
	assert.False(t, c.ExcludeSelf)
	assert.True(t, c.PeakFilter().IsZero())
}

func TestFromViperSettingsFile(t *testing.T) {
	settings := `
tolerance-ppm = 5.0
exclude-self = true

[filter]
top-n = 50
cutoff = 1.5
min-intensity = 100.0
`
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(settings)))

	c, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 5.0, c.TolerancePPM)
	assert.True(t, c.ExcludeSelf)
	assert.Equal(t, FilterConfig{TopN: 50, Cutoff: 1.5, MinIntensity: 100}, c.Filter)

	f := c.PeakFilter()
	assert.Equal(t, 50, f.TopN)
	assert.Equal(t, 1.5, f.IntensityCutoff)
	assert.Equal(t, 100.0, f.MinIntensity)
}

func TestFromViperInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"zero tolerance", "tolerance-ppm", 0.0},
		{"negative top-n", "filter.top-n", -1},
		{"cutoff above 100", "filter.cutoff", 150.0},
		{"negative minimum", "filter.min-intensity", -5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestAdductTable(t *testing.T) {
	c := Config{TolerancePPM: 10}
	table, err := c.AdductTable()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultAdductTable().Len(), table.Len())

	path := filepath.Join(t.TempDir(), "adducts.csv")
	require.NoError(t, os.WriteFile(path, []byte("notation,shift,polarity\n[M+H]+,-1.007276,positive\n[M-H]-,1.007276,negative\n"), 0o644))

	c.Adducts = path
	table, err = c.AdductTable()
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	c.Adducts = filepath.Join(t.TempDir(), "missing.toml")
	_, err = c.AdductTable()
	assert.Error(t, err)
}

func TestMatcher(t *testing.T) {
	var out bytes.Buffer
	c := Config{TolerancePPM: 5, Verbose: true}

	m := c.matcher(core.DefaultAdductTable(), &out)
	assert.Equal(t, 5.0, m.TolerancePPM())

	_, _ = m.Detect(701.007276, []core.Peak{{MZ: 701.007276, Intensity: 1}})
	assert.Contains(t, out.String(), "adduct match")

	out.Reset()
	c.Verbose = false
	m = c.matcher(nil, &out)
	_, _ = m.Detect(701.007276, []core.Peak{{MZ: 701.007276, Intensity: 1}})
	assert.Empty(t, out.String())
}
