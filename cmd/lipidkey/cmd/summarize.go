package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/LipidKey/pkg/writer/sqlite"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize an annotation run",
	Long: `Print summary statistics about an annotation run database: annotation count,
resolved ratio, adduct histogram, agreement with declared adducts, and score
and ppm error statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sqlite.Open(args[0])
		if err != nil {
			return err
		}
		defer store.Close()

		header, err := store.Header()
		if err != nil {
			return err
		}
		rows, err := store.Annotations()
		if err != nil {
			return err
		}

		return printSummary(cmd.OutOrStdout(), header, rows)
	},
}

type adductCount struct {
	adduct string
	count  int
}

func printSummary(out io.Writer, header sqlite.Header, rows []sqlite.AnnotationRow) error {
	var (
		resolved  int
		declared  int
		agreeing  int
		scores    stats.Float64Data
		ppmErrors stats.Float64Data
	)
	histogram := make(map[string]int)

	for _, row := range rows {
		if row.ExpectedAdduct != "" {
			declared++
		}
		if row.NormalizedScore.Valid {
			scores = append(scores, row.NormalizedScore.Float64)
		}
		if !row.Adduct.Valid {
			continue
		}

		resolved++
		histogram[row.Adduct.String]++
		if row.Adduct.String == row.ExpectedAdduct {
			agreeing++
		}
		if row.MatchPPM.Valid {
			ppmErrors = append(ppmErrors, float64(row.MatchPPM.Int64))
		}
	}

	fmt.Fprintf(out, "Run: %s (%s)\n", header.RunID, header.CreationDate)
	if header.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", header.Description)
	}
	fmt.Fprintf(out, "Tolerance: %g ppm, %d adducts\n", header.TolerancePPM, header.AdductCount)
	fmt.Fprintf(out, "Annotations: %d\n", len(rows))
	if len(rows) > 0 {
		fmt.Fprintf(out, "Resolved: %d (%.1f%%)\n", resolved, 100*float64(resolved)/float64(len(rows)))
	} else {
		fmt.Fprintf(out, "Resolved: 0\n")
	}
	if declared > 0 {
		fmt.Fprintf(out, "Declared adduct agreement: %d of %d\n", agreeing, declared)
	}

	// Most frequent adducts first
	counts := make([]adductCount, 0, len(histogram))
	for adduct, n := range histogram {
		counts = append(counts, adductCount{adduct, n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].adduct < counts[j].adduct
	})

	if len(counts) > 0 {
		fmt.Fprintf(out, "\nAdducts:\n")
		for _, c := range counts {
			fmt.Fprintf(out, "  %-20s %d\n", c.adduct, c.count)
		}
	}

	fmt.Fprintf(out, "\n")
	if err := printStats(out, "Normalized score", scores); err != nil {
		return err
	}
	return printStats(out, "Match error (ppm)", ppmErrors)
}

func printStats(out io.Writer, label string, data stats.Float64Data) error {
	if data.Len() < 1 {
		fmt.Fprintf(out, "%s: N/A\n", label)
		return nil
	}

	mean, err := data.Mean()
	if err != nil {
		return err
	}
	median, err := data.Median()
	if err != nil {
		return err
	}
	sd, err := data.StandardDeviation()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: mean %.3f, median %.3f, sd %.3f\n", label, mean, median, sd)
	return nil
}
