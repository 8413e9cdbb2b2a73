// Package features reads grouped feature tables: one row per detected peak,
// rows sharing a group id forming one cluster of co-eluting peaks.
package features

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

// Row is one line of a feature table. Rows with a lipid name are annotations
// of their group; every row contributes a peak to its group.
type Row struct {
	Group     string  `csv:"group"`
	Lipid     string  `csv:"lipid"`
	LipidID   string  `csv:"lipid_id"`
	MZ        float64 `csv:"mz"`
	Intensity float64 `csv:"intensity"`
	RT        float64 `csv:"rt"`
	Polarity  string  `csv:"polarity"`
}

// Candidate is an annotated row of a cluster.
type Candidate struct {
	Lipid         string
	LipidID       string
	MZ            float64
	Intensity     float64
	RetentionTime float64
	Polarity      core.Polarity
}

// Cluster is a group of co-eluting peaks and the annotations proposed for it.
type Cluster struct {
	Group       string
	Peaks       []core.Peak
	Annotations []Candidate
}

// Read parses a feature table with the given field delimiter (',' or '\t')
// and returns its clusters in order of first appearance.
func Read(r io.Reader, comma rune) ([]Cluster, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.LazyQuotes = true

	var rows []*Row
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, fmt.Errorf("error reading feature table: %w", err)
	}

	var clusters []Cluster
	index := make(map[string]int)

	for i, row := range rows {
		lineNum := i + 2

		group := strings.TrimSpace(row.Group)
		if group == "" {
			return nil, fmt.Errorf("line %d: group is required", lineNum)
		}

		peak := core.Peak{MZ: row.MZ, Intensity: row.Intensity}
		if err := core.ValidatePeaks([]core.Peak{peak}); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		ci, ok := index[group]
		if !ok {
			ci = len(clusters)
			index[group] = ci
			clusters = append(clusters, Cluster{Group: group})
		}
		c := &clusters[ci]
		c.Peaks = append(c.Peaks, peak)

		lipid := strings.TrimSpace(row.Lipid)
		if lipid == "" {
			continue
		}

		polarity, err := core.ParsePolarity(row.Polarity)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		c.Annotations = append(c.Annotations, Candidate{
			Lipid:         lipid,
			LipidID:       strings.TrimSpace(row.LipidID),
			MZ:            row.MZ,
			Intensity:     row.Intensity,
			RetentionTime: row.RT,
			Polarity:      polarity,
		})
	}

	return clusters, nil
}
