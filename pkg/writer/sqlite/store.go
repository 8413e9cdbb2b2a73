package sqlite

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
)

// AnnotationRow is one row of AnnotationTable as read back from a run.
type AnnotationRow struct {
	ID              int64           `db:"AnnotationId"`
	LipidName       string          `db:"LipidName"`
	LipidID         string          `db:"LipidId"`
	MZ              float64         `db:"Mz"`
	RetentionTime   float64         `db:"RetentionTime"`
	Intensity       float64         `db:"Intensity"`
	Polarity        string          `db:"Polarity"`
	Adduct          sql.NullString  `db:"Adduct"`
	ExpectedAdduct  string          `db:"ExpectedAdduct"`
	NeutralMass     sql.NullFloat64 `db:"NeutralMass"`
	PeakMZ          sql.NullFloat64 `db:"PeakMz"`
	PeakAdduct      sql.NullString  `db:"PeakAdduct"`
	MatchPPM        sql.NullInt64   `db:"MatchPPM"`
	Score           int             `db:"Score"`
	TimesScored     int             `db:"TimesScored"`
	NormalizedScore sql.NullFloat64 `db:"NormalizedScore"`
	PeakCount       int             `db:"PeakCount"`
	DroppedPeaks    int             `db:"DroppedPeaks"`
	BlobMass        []byte          `db:"blobMass"`
	BlobIntensity   []byte          `db:"blobIntensity"`
	Source          string          `db:"Source"`
}

// PeakMZs decodes the grouped peak m/z values.
func (r AnnotationRow) PeakMZs() []float64 {
	return decodePeaksFloat64(r.BlobMass)
}

// PeakIntensities decodes the grouped peak intensities.
func (r AnnotationRow) PeakIntensities() []float64 {
	return decodePeaksFloat64(r.BlobIntensity)
}

// Header is the HeaderTable row of a run.
type Header struct {
	Version      int     `db:"version"`
	RunID        string  `db:"RunId"`
	CreationDate string  `db:"CreationDate"`
	TolerancePPM float64 `db:"TolerancePPM"`
	AdductCount  int     `db:"AdductCount"`
	Description  string  `db:"Description"`
}

// Store reads annotation runs written by Writer.
type Store struct {
	db *sqlx.DB
}

// Open opens an existing run database for reading.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database does not exist: %w", err)
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{db: db}, nil
}

// Annotations returns every annotation in insertion order.
func (s *Store) Annotations() ([]AnnotationRow, error) {
	var rows []AnnotationRow
	err := s.db.Select(&rows, `SELECT * FROM AnnotationTable ORDER BY AnnotationId`)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}
	return rows, nil
}

// Header returns the run header; it fails for runs that were never finalized.
func (s *Store) Header() (Header, error) {
	var h Header
	err := s.db.Get(&h, `SELECT version, RunId, CreationDate, TolerancePPM, AdductCount, Description FROM HeaderTable LIMIT 1`)
	if err != nil {
		return Header{}, fmt.Errorf("failed to read header: %w", err)
	}
	return h, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
