package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

var adductsCmd = &cobra.Command{
	Use:   "adducts",
	Short: "List the adduct table",
	Long: `List the adducts in the order they are tried during detection: positive
adducts first, then negative ones, each in table order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, table, err := loadConfig()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NOTATION\tPOLARITY\tMULTIMER\tCHARGE\tSHIFT")
		for _, p := range []core.Polarity{core.Positive, core.Negative} {
			for _, a := range table.Adducts(p) {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.6f\n", a.Notation, p, a.Multimer, a.Charge, a.Shift)
			}
		}
		return w.Flush()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an adduct table",
	Long: `Validate that every notation of an adduct table follows the adduct grammar
and that its charge sign matches the polarity it is listed under. Without a
file argument the configured table (--adducts or built-in) is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var table *core.AdductTable
		var err error
		if len(args) == 1 {
			table, err = core.LoadAdductsFile(args[0])
		} else {
			_, table, err = loadConfig()
		}
		if err != nil {
			return err
		}

		if err := table.Validate(); err != nil {
			return fmt.Errorf("adduct table is invalid:\n%w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d adducts (%d positive, %d negative)\n",
			table.Len(), len(table.Adducts(core.Positive)), len(table.Adducts(core.Negative)))
		return nil
	},
}
