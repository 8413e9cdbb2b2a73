package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/LipidKey/pkg/annotation"
	"github.com/ChrisMcGann/LipidKey/pkg/config"
	"github.com/ChrisMcGann/LipidKey/pkg/core"
	"github.com/ChrisMcGann/LipidKey/pkg/filter"
	"github.com/ChrisMcGann/LipidKey/pkg/match"
	"github.com/ChrisMcGann/LipidKey/pkg/writer/sqlite"
)

var (
	// Flags for annotate command
	inputFile   string
	inputFormat string
	outputFile  string
	description string
)

func init() {
	annotateCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input file path (required)")
	annotateCmd.Flags().StringVarP(&inputFormat, "from", "f", "", "Input format: csv, tsv, msp (auto-detect if not specified)")
	annotateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output database file (required)")
	annotateCmd.Flags().StringVar(&description, "description", "", "Description stored with the run")
	annotateCmd.Flags().Int("top-n", 0, "Keep only top N most intense peaks per group (0 = no limit)")
	annotateCmd.Flags().Float64("cutoff", 0, "Intensity cutoff as % of base peak (0 = no cutoff)")
	annotateCmd.Flags().Float64("min-intensity", 0, "Minimum absolute peak intensity (0 = no minimum)")

	viper.BindPFlag("filter.top-n", annotateCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("filter.cutoff", annotateCmd.Flags().Lookup("cutoff"))
	viper.BindPFlag("filter.min-intensity", annotateCmd.Flags().Lookup("min-intensity"))

	annotateCmd.MarkFlagRequired("in")
	annotateCmd.MarkFlagRequired("out")
}

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Detect the adducts of lipid annotations",
	Long: `Detect the adduct of every lipid annotation in a grouped feature table or a
lipid MSP library, and write the annotated run to a SQLite database.

Feature tables have the columns group,lipid,lipid_id,mz,intensity,rt,polarity.
Rows sharing a group form one cluster of co-eluting peaks; rows naming a lipid
are the annotations of that cluster. MSP records are annotated against their
own peaks, and the declared Precursor_type is kept as the expected adduct.

Examples:
  # Annotate a feature table with the built-in adducts
  lipidkey annotate --in features.csv --out run.db

  # Custom adducts, tighter tolerance and filtered peaks
  lipidkey annotate --in library.msp --out run.db --adducts adducts.toml --tolerance-ppm 5 --top-n 50`,
	RunE: runAnnotate,
}

// annotateRun carries the shared state of one annotate invocation.
type annotateRun struct {
	cfg     config.Config
	table   *core.AdductTable
	matcher *match.Matcher
	filter  *filter.Config
	writer  *sqlite.Writer
	source  string
	out     io.Writer
	errOut  io.Writer

	count    int
	resolved int
	skipped  int
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	// Validate input file exists
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	format := strings.ToLower(inputFormat)
	if format == "" {
		ext := strings.ToLower(filepath.Ext(inputFile))
		switch ext {
		case ".msp":
			format = "msp"
		case ".csv":
			format = "csv"
		case ".tsv", ".txt":
			format = "tsv"
		default:
			return fmt.Errorf("cannot auto-detect format from extension '%s', please specify --from", ext)
		}
	}
	if format != "msp" && format != "csv" && format != "tsv" {
		return fmt.Errorf("invalid input format '%s', must be csv, tsv, or msp", format)
	}

	cfg, table, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Annotating %s to %s...\n", inputFile, outputFile)
	fmt.Fprintf(out, "Format: %s\n", format)
	fmt.Fprintf(out, "Adducts: %d\n", table.Len())
	fmt.Fprintf(out, "Tolerance: %g ppm\n", cfg.TolerancePPM)
	peakFilter := cfg.PeakFilter()
	if peakFilter.IsZero() {
		fmt.Fprintf(out, "Peak filter: none\n")
	}
	if peakFilter.TopN > 0 {
		fmt.Fprintf(out, "Top N filter: %d\n", peakFilter.TopN)
	}
	if peakFilter.IntensityCutoff > 0 {
		fmt.Fprintf(out, "Intensity cutoff: %.1f%%\n", peakFilter.IntensityCutoff)
	}
	if peakFilter.MinIntensity > 0 {
		fmt.Fprintf(out, "Minimum intensity: %g\n", peakFilter.MinIntensity)
	}

	inFile, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	writer, err := sqlite.NewWriter(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	run := &annotateRun{
		cfg:     cfg,
		table:   table,
		matcher: cfg.Matcher(table),
		filter:  peakFilter,
		writer:  writer,
		source:  filepath.Base(inputFile),
		out:     out,
		errOut:  cmd.ErrOrStderr(),
	}

	switch format {
	case "msp":
		err = run.annotateMSP(inFile)
	case "csv":
		err = run.annotateFeatures(inFile, ',')
	case "tsv":
		err = run.annotateFeatures(inFile, '\t')
	}
	if err != nil {
		return err
	}

	// Finalize database
	info := sqlite.RunInfo{
		TolerancePPM: cfg.TolerancePPM,
		AdductCount:  table.Len(),
		Description:  description,
	}
	if err := writer.Finalize(info); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}

	fmt.Fprintf(out, "\nAnnotation complete!\n")
	fmt.Fprintf(out, "Processed: %d annotations\n", run.count)
	fmt.Fprintf(out, "Resolved: %d\n", run.resolved)
	if run.skipped > 0 {
		fmt.Fprintf(out, "Skipped: %d (validation errors)\n", run.skipped)
	}
	fmt.Fprintf(out, "Run ID: %s\n", writer.RunID())
	fmt.Fprintf(out, "Output: %s\n", outputFile)

	return nil
}

// write stores one annotation and reports progress.
func (r *annotateRun) write(a *annotation.Annotation) error {
	if err := r.writer.WriteAnnotation(a, r.source); err != nil {
		return fmt.Errorf("failed to write annotation %s: %w", a.Lipid(), err)
	}

	r.count++
	if a.State() == match.Matched {
		r.resolved++
	}
	if r.count%1000 == 0 {
		fmt.Fprintf(r.out, "Processed %d annotations...\n", r.count)
	}
	return nil
}
