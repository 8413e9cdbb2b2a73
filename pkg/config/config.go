// Package config is for run wide settings that are unmarshalled
// from Viper (see: /cmd/lipidkey/cmd)
package config

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
	"github.com/ChrisMcGann/LipidKey/pkg/filter"
	"github.com/ChrisMcGann/LipidKey/pkg/match"
)

// FilterConfig is settings for grouped peak filtering
type FilterConfig struct {
	// keep only the N most intense peaks, 0 for no limit
	TopN int `mapstructure:"top-n"`

	// intensity cutoff as % of the base peak
	Cutoff float64 `mapstructure:"cutoff"`

	// absolute intensity floor
	MinIntensity float64 `mapstructure:"min-intensity"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// corroboration window in ppm
	TolerancePPM float64 `mapstructure:"tolerance-ppm"`

	// path to a TOML or CSV adduct table, empty for the built-in table
	Adducts string `mapstructure:"adducts"`

	// skip grouped peaks at the annotation's own m/z
	ExcludeSelf bool `mapstructure:"exclude-self"`

	// log every adduct match
	Verbose bool `mapstructure:"verbose"`

	// Peak filter settings
	Filter FilterConfig `mapstructure:"filter"`
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tolerance-ppm", core.DefaultTolerancePPM)
	v.SetDefault("adducts", "")
	v.SetDefault("exclude-self", false)
	v.SetDefault("verbose", false)
	v.SetDefault("filter.top-n", 0)
	v.SetDefault("filter.cutoff", 0.0)
	v.SetDefault("filter.min-intensity", 0.0)
}

// FromViper decodes and checks the settings held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode settings: %w", err)
	}

	if c.TolerancePPM <= 0 {
		return Config{}, fmt.Errorf("tolerance-ppm must be positive, got %g", c.TolerancePPM)
	}
	if c.Filter.TopN < 0 {
		return Config{}, fmt.Errorf("filter.top-n must not be negative, got %d", c.Filter.TopN)
	}
	if c.Filter.Cutoff < 0 || c.Filter.Cutoff > 100 {
		return Config{}, fmt.Errorf("filter.cutoff must be within [0, 100], got %g", c.Filter.Cutoff)
	}
	if c.Filter.MinIntensity < 0 {
		return Config{}, fmt.Errorf("filter.min-intensity must not be negative, got %g", c.Filter.MinIntensity)
	}

	return c, nil
}

// New returns a Config populated by the global Viper settings
// (either from a settings file and/or command line arguments)
func New() (Config, error) {
	return FromViper(viper.GetViper())
}

// AdductTable loads the configured adduct table, or the built-in one
// when no file is set.
func (c Config) AdductTable() (*core.AdductTable, error) {
	if c.Adducts == "" {
		return core.DefaultAdductTable(), nil
	}
	return core.LoadAdductsFile(c.Adducts)
}

// Matcher builds a matcher over table with the configured tolerance.
// Matches are logged to stderr when Verbose is set.
func (c Config) Matcher(table *core.AdductTable) *match.Matcher {
	return c.matcher(table, os.Stderr)
}

func (c Config) matcher(table *core.AdductTable, out io.Writer) *match.Matcher {
	opts := []match.Option{
		match.WithTolerancePPM(c.TolerancePPM),
		match.WithExcludeSelf(c.ExcludeSelf),
	}
	if c.Verbose {
		opts = append(opts, match.WithLogger(log.New(out, "", 0)))
	}
	return match.New(table, opts...)
}

// PeakFilter returns the grouped peak filter.
func (c Config) PeakFilter() *filter.Config {
	return &filter.Config{
		TopN:            c.Filter.TopN,
		IntensityCutoff: c.Filter.Cutoff,
		MinIntensity:    c.Filter.MinIntensity,
	}
}
