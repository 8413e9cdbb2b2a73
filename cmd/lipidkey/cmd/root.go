// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/LipidKey/pkg/config"
	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

var rootCmd = &cobra.Command{
	Use:   "lipidkey",
	Short: "LipidKey - Lipid adduct detection tool",
	Long: `LipidKey detects the ionization adduct of lipid annotations from the peaks
grouped with them, and stores the annotated run in a SQLite database.

An annotation is resolved when another peak in its group implies the same
neutral mass under some adduct, within a ppm tolerance. Supports:
- Grouped feature tables (CSV/TSV) and lipid MSP libraries
- Custom adduct tables (TOML or CSV)
- Peak filtering (top-N, intensity cutoff, minimum intensity)
- Mass, m/z and ppm calculations`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.SetDefaults(viper.GetViper())

	// settings is an optional settings file (any format viper reads) that
	// provides defaults for the flags below
	rootCmd.PersistentFlags().StringP("settings", "s", "", "settings file")
	rootCmd.PersistentFlags().String("adducts", "", "adduct table file, .toml or .csv (default: built-in table)")
	rootCmd.PersistentFlags().Float64("tolerance-ppm", core.DefaultTolerancePPM, "corroboration window in ppm")
	rootCmd.PersistentFlags().Bool("exclude-self", false, "ignore grouped peaks at the annotation's own m/z")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every adduct match to stderr")

	viper.BindPFlag("settings", rootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("adducts", rootCmd.PersistentFlags().Lookup("adducts"))
	viper.BindPFlag("tolerance-ppm", rootCmd.PersistentFlags().Lookup("tolerance-ppm"))
	viper.BindPFlag("exclude-self", rootCmd.PersistentFlags().Lookup("exclude-self"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(massCmd)
	rootCmd.AddCommand(mzCmd)
	rootCmd.AddCommand(ppmCmd)
	rootCmd.AddCommand(adductsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(summarizeCmd)
}

// loadSettings reads the settings file, if one was given.
func loadSettings(cmd *cobra.Command, args []string) error {
	settings := viper.GetString("settings")
	if settings == "" {
		return nil
	}

	viper.SetConfigFile(settings)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	return nil
}

// loadConfig returns the run settings and the adduct table they name.
func loadConfig() (config.Config, *core.AdductTable, error) {
	cfg, err := config.New()
	if err != nil {
		return config.Config{}, nil, err
	}

	table, err := cfg.AdductTable()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load adduct table: %w", err)
	}

	return cfg, table, nil
}
