package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pelletier/go-toml/v2"
)

// adductFile is the TOML layout of an adduct reference file:
//
//	[[positive]]
//	notation = "[M+H]+"
//	shift = -1.007276
type adductFile struct {
	Positive []AdductEntry `toml:"positive"`
	Negative []AdductEntry `toml:"negative"`
}

// adductRow is one line of a CSV adduct reference file (notation,shift,polarity).
type adductRow struct {
	Notation string  `csv:"notation"`
	Shift    float64 `csv:"shift"`
	Polarity string  `csv:"polarity"`
}

// LoadAdductsTOML reads an adduct table from TOML. Array order is kept as priority order.
func LoadAdductsTOML(r io.Reader) (*AdductTable, error) {
	var doc adductFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&doc); err != nil {
		return nil, fmt.Errorf("error reading TOML: %w", err)
	}
	return NewAdductTable(doc.Positive, doc.Negative)
}

// LoadAdductsCSV reads an adduct table from CSV with a notation,shift,polarity header.
// Row order within each polarity is kept as priority order.
func LoadAdductsCSV(r io.Reader) (*AdductTable, error) {
	var rows []*adductRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	var positive, negative []AdductEntry
	for i, row := range rows {
		notation := strings.TrimSpace(row.Notation)
		if notation == "" {
			return nil, fmt.Errorf("line %d: empty notation", i+2)
		}

		polarity, err := ParsePolarity(row.Polarity)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}

		entry := AdductEntry{Notation: notation, Shift: row.Shift}
		if polarity == Negative {
			negative = append(negative, entry)
		} else {
			positive = append(positive, entry)
		}
	}

	return NewAdductTable(positive, negative)
}

// LoadAdductsFile loads a table from a .toml or .csv file.
func LoadAdductsFile(path string) (*AdductTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open adduct file: %w", err)
	}
	defer f.Close()

	var table *AdductTable
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		table, err = LoadAdductsTOML(f)
	case ".csv":
		table, err = LoadAdductsCSV(f)
	default:
		return nil, fmt.Errorf("cannot detect adduct file format from extension '%s', expected .toml or .csv", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return table, nil
}
