package cmd

import (
	"fmt"
	"io"

	"github.com/ChrisMcGann/LipidKey/pkg/annotation"
	"github.com/ChrisMcGann/LipidKey/pkg/core"
	"github.com/ChrisMcGann/LipidKey/pkg/reader/msp"
)

func (r *annotateRun) annotateMSP(in io.Reader) error {
	reader := msp.NewReader(in)

	for reader.Next() {
		rec := reader.Record()

		// Validate peaks
		if err := core.ValidatePeaks(rec.Peaks); err != nil {
			fmt.Fprintf(r.errOut, "Warning: invalid record %s: %v\n", rec.Name, err)
			r.skipped++
			continue
		}
		if rec.PrecursorMZ <= 0 {
			fmt.Fprintf(r.errOut, "Warning: record %s has no precursor m/z\n", rec.Name)
			r.skipped++
			continue
		}

		peaks := r.filter.Apply(rec.Peaks)

		a := annotation.New(r.matcher, annotation.Lipid{Name: rec.Name, ID: rec.ID},
			rec.PrecursorMZ, precursorIntensity(rec.PrecursorMZ, peaks, r.cfg.TolerancePPM),
			rec.RetentionTime, rec.IonMode, peaks...)

		if rec.PrecursorType != "" {
			a.SetExpectedAdduct(rec.PrecursorType)
			a.Apply(expectedAdductRule)
		}

		if err := r.write(a); err != nil {
			return err
		}
	}

	if err := reader.Err(); err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}
	return nil
}

// precursorIntensity returns the intensity of the most intense peak within
// the ppm window of mz, or 0 when the precursor is not among the peaks.
func precursorIntensity(mz float64, peaks []core.Peak, ppm float64) float64 {
	window := core.PPMToDelta(mz, ppm)

	var near []core.Peak
	for _, p := range peaks {
		if p.MZ >= mz-window && p.MZ <= mz+window {
			near = append(near, p)
		}
	}

	base, ok := core.BasePeak(near)
	if !ok {
		return 0
	}
	return base.Intensity
}

// expectedAdductRule scores +1 when the detected adduct agrees with the
// declared one, -1 when it disagrees and 0 when none was detected.
func expectedAdductRule(a *annotation.Annotation) int {
	adduct, ok := a.Adduct()
	switch {
	case !ok:
		return 0
	case adduct == a.ExpectedAdduct():
		return 1
	default:
		return -1
	}
}
