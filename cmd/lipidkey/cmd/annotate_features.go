package cmd

import (
	"fmt"
	"io"

	"github.com/ChrisMcGann/LipidKey/pkg/annotation"
	"github.com/ChrisMcGann/LipidKey/pkg/reader/features"
)

func (r *annotateRun) annotateFeatures(in io.Reader, comma rune) error {
	clusters, err := features.Read(in, comma)
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	for _, c := range clusters {
		if len(c.Annotations) == 0 {
			continue
		}

		peaks := r.filter.Apply(c.Peaks)
		if len(peaks) == 0 {
			fmt.Fprintf(r.errOut, "Warning: group %s has no peaks left after filtering\n", c.Group)
		}

		for _, cand := range c.Annotations {
			a := annotation.New(r.matcher, annotation.Lipid{Name: cand.Lipid, ID: cand.LipidID},
				cand.MZ, cand.Intensity, cand.RetentionTime, cand.Polarity, peaks...)

			if err := r.write(a); err != nil {
				return err
			}
		}
	}

	return nil
}
