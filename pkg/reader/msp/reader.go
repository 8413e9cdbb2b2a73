// Package msp provides streaming readers for MSP format lipid spectral libraries
package msp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

// Record is one MSP entry: a lipid precursor and its peaks.
type Record struct {
	Name          string
	ID            string // LIPID MAPS or other identifier, if present
	PrecursorMZ   float64
	PrecursorType string // declared adduct, e.g. "[M+H]+"
	RetentionTime float64
	IonMode       core.Polarity
	Peaks         []core.Peak

	// IonModeDeclared is false when the record had no Ion_mode line. IonMode
	// is then taken from the charge sign of PrecursorType, or Positive when
	// that does not parse.
	IonModeDeclared bool
}

// Reader provides streaming access to MSP format files
type Reader struct {
	scanner *bufio.Scanner
	lineNum int
	current *Record
	err     error
}

// NewReader creates a new MSP reader
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Reader{
		scanner: scanner,
	}
}

// Next advances to the next record. Returns false when no more records or error.
func (r *Reader) Next() bool {
	r.current = nil
	if r.err != nil {
		return false
	}

	rec, err := r.readRecord()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	if !rec.IonModeDeclared {
		rec.IonMode = inferIonMode(rec.PrecursorType)
	}

	r.current = rec
	return true
}

// inferIonMode reads the polarity off a declared adduct such as "[M-H]-".
func inferIonMode(precursorType string) core.Polarity {
	n, err := core.ParseNotation(precursorType)
	if err != nil {
		return core.Positive
	}
	return n.Polarity
}

// Record returns the current record
func (r *Reader) Record() *Record {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readRecord reads a single entry. Entries end after their declared number
// of peaks or at a blank line, whichever comes first.
func (r *Reader) readRecord() (*Record, error) {
	rec := &Record{}
	started := false
	inPeaks := false
	numPeaks := 0

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		if line == "" {
			if !started {
				continue
			}
			if inPeaks && len(rec.Peaks) < numPeaks {
				return nil, truncated(r.lineNum, rec, numPeaks)
			}
			return rec, nil
		}
		started = true

		if inPeaks {
			peak, err := parsePeak(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			rec.Peaks = append(rec.Peaks, peak)

			if len(rec.Peaks) >= numPeaks {
				return rec, nil
			}
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: expected 'key: value', got '%s'", r.lineNum, line)
		}
		value = strings.TrimSpace(value)

		switch normalizeKey(key) {
		case "name":
			rec.Name = value
		case "lipidmapsid", "id", "dbnumber":
			rec.ID = value
		case "precursormz", "parent":
			mz, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid precursor m/z: %w", r.lineNum, err)
			}
			rec.PrecursorMZ = mz
		case "precursortype", "adduct":
			rec.PrecursorType = value
		case "retentiontime", "rt":
			rt, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid retention time: %w", r.lineNum, err)
			}
			rec.RetentionTime = rt
		case "ionmode":
			mode, err := core.ParsePolarity(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			rec.IonMode = mode
			rec.IonModeDeclared = true
		case "numpeaks":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid num peaks: %w", r.lineNum, err)
			}
			numPeaks = n
			inPeaks = n > 0
			if !inPeaks {
				return rec, nil
			}
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if inPeaks && len(rec.Peaks) < numPeaks {
		return nil, truncated(r.lineNum, rec, numPeaks)
	}

	// If we have a partially read record, return it
	if started {
		return rec, nil
	}

	return nil, io.EOF
}

func truncated(lineNum int, rec *Record, numPeaks int) error {
	return fmt.Errorf("line %d: record '%s' ended after %d of %d peaks", lineNum, rec.Name, len(rec.Peaks), numPeaks)
}

// normalizeKey folds "Num Peaks", "PRECURSORMZ" and "Precursor_type" style keys
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "")
	return strings.ReplaceAll(key, "_", "")
}

// parsePeak parses a single peak line (format: "mz\tintensity\t\"annotation\"")
func parsePeak(line string) (core.Peak, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return core.Peak{}, fmt.Errorf("invalid peak format, expected at least 2 fields")
	}

	mz, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid m/z value: %w", err)
	}

	intensity, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid intensity value: %w", err)
	}

	return core.Peak{MZ: mz, Intensity: intensity}, nil
}
