package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

var (
	// Flags for mass, mz and ppm commands
	mzValue      float64
	massValue    float64
	adductName   string
	experimental float64
	theoretical  float64
)

func init() {
	massCmd.Flags().Float64Var(&mzValue, "mz", 0, "Observed m/z (required)")
	massCmd.Flags().StringVarP(&adductName, "adduct", "a", "", "Adduct notation, e.g. '[M+H]+' (required)")
	massCmd.MarkFlagRequired("mz")
	massCmd.MarkFlagRequired("adduct")

	mzCmd.Flags().Float64Var(&massValue, "mass", 0, "Neutral mass (required)")
	mzCmd.Flags().StringVarP(&adductName, "adduct", "a", "", "Adduct notation, e.g. '[M-H]-' (required)")
	mzCmd.MarkFlagRequired("mass")
	mzCmd.MarkFlagRequired("adduct")

	ppmCmd.Flags().Float64Var(&experimental, "experimental", 0, "Experimental mass (required)")
	ppmCmd.Flags().Float64Var(&theoretical, "theoretical", 0, "Theoretical mass (required)")
	ppmCmd.MarkFlagRequired("experimental")
	ppmCmd.MarkFlagRequired("theoretical")
}

var massCmd = &cobra.Command{
	Use:   "mass",
	Short: "Neutral mass of an ion",
	Long: `Compute the neutral mass of an ion observed at an m/z under an adduct.

Examples:
  lipidkey mass --mz 701.007276 --adduct "[M+H]+"
  lipidkey mass --mz 1422.989218 --adduct "[2M+Na]+"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, table, err := loadConfig()
		if err != nil {
			return err
		}

		mass, err := table.MassFromMz(mzValue, adductName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", mass)
		return nil
	},
}

var mzCmd = &cobra.Command{
	Use:   "mz",
	Short: "m/z of a neutral mass",
	Long: `Compute the m/z at which a neutral mass is observed under an adduct.

Examples:
  lipidkey mz --mass 700 --adduct "[M+2H]2+"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, table, err := loadConfig()
		if err != nil {
			return err
		}

		mz, err := table.MzFromMass(massValue, adductName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", mz)
		return nil
	},
}

var ppmCmd = &cobra.Command{
	Use:   "ppm",
	Short: "Mass error in ppm",
	Long:  `Compute the mass error between an experimental and a theoretical mass, rounded to whole ppm.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if theoretical == 0 {
			return fmt.Errorf("theoretical mass must not be zero")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", core.PPMError(experimental, theoretical))
		return nil
	},
}
