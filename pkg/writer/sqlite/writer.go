// Package sqlite provides SQLite storage for annotation runs
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/LipidKey/pkg/annotation"
	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Date format for MaintenanceTable
	maintenanceDateFormat = "2006 01 02"

	schemaVersion = 1
)

// RunInfo describes the settings an annotation run was produced with.
type RunInfo struct {
	TolerancePPM float64
	AdductCount  int
	Description  string
}

// Writer handles writing annotations to SQLite database files
type Writer struct {
	db             *sql.DB
	outputPath     string
	annotationStmt *sql.Stmt
	annotationID   int
	resolved       int
	runID          string
	finalized      bool
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:           db,
		outputPath:   outputPath,
		annotationID: 1,
		runID:        uuid.NewString(),
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// RunID returns the identifier recorded in the HeaderTable for this run.
func (w *Writer) RunID() string {
	return w.runID
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS AnnotationTable (
		AnnotationId INTEGER PRIMARY KEY,
		LipidName TEXT,
		LipidId TEXT,
		Mz DOUBLE,
		RetentionTime DOUBLE,
		Intensity DOUBLE,
		Polarity TEXT,
		Adduct TEXT,
		ExpectedAdduct TEXT,
		NeutralMass DOUBLE,
		PeakMz DOUBLE,
		PeakAdduct TEXT,
		MatchPPM INTEGER,
		Score INTEGER,
		TimesScored INTEGER,
		NormalizedScore DOUBLE,
		PeakCount INTEGER,
		DroppedPeaks INTEGER,
		blobMass BLOB,
		blobIntensity BLOB,
		Source TEXT
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		RunId TEXT,
		CreationDate TEXT,
		TolerancePPM DOUBLE,
		AdductCount INTEGER,
		Description TEXT
	);

	CREATE TABLE IF NOT EXISTS MaintenanceTable (
		CreationDate TEXT,
		NoofAnnotations INTEGER,
		NoofResolved INTEGER,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.annotationStmt, err = w.db.Prepare(`
		INSERT INTO AnnotationTable (
			AnnotationId, LipidName, LipidId, Mz, RetentionTime, Intensity,
			Polarity, Adduct, ExpectedAdduct, NeutralMass, PeakMz, PeakAdduct,
			MatchPPM, Score, TimesScored, NormalizedScore, PeakCount,
			DroppedPeaks, blobMass, blobIntensity, Source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare annotation statement: %w", err)
	}

	return nil
}

// WriteAnnotation writes a single annotation to the database
func (w *Writer) WriteAnnotation(a *annotation.Annotation, source string) error {
	if w.finalized {
		return fmt.Errorf("writer for %s is already finalized", w.outputPath)
	}

	peaks := a.GroupedPeaks()

	// Encode peaks as binary blobs (little-endian float64)
	mzBlob := encodePeaksFloat64(peaks, true)   // m/z values
	intBlob := encodePeaksFloat64(peaks, false) // intensity values

	// Unresolved annotations store NULL match columns
	var adduct, neutralMass, peakMZ, peakAdduct, matchPPM interface{}
	res, matched := a.Match()
	if matched {
		neutralMass = res.Mass
		peakMZ = res.Peak.MZ
		peakAdduct = res.PeakAdduct.Notation
		matchPPM = res.PPMError()
	}
	if label, ok := a.Adduct(); ok {
		adduct = label
	}

	var normalized interface{}
	if score, ok := a.NormalizedScore(); ok {
		normalized = score
	}

	_, err := w.annotationStmt.Exec(
		w.annotationID,            // AnnotationId
		a.Lipid().Name,            // LipidName
		a.Lipid().ID,              // LipidId
		a.MZ(),                    // Mz
		a.RetentionTime(),         // RetentionTime
		a.Intensity(),             // Intensity
		a.IonizationMode().Sign(), // Polarity
		adduct,                    // Adduct
		a.ExpectedAdduct(),        // ExpectedAdduct
		neutralMass,               // NeutralMass
		peakMZ,                    // PeakMz
		peakAdduct,                // PeakAdduct
		matchPPM,                  // MatchPPM
		a.Score(),                 // Score
		a.TimesScored(),           // TimesScored
		normalized,                // NormalizedScore
		len(peaks),                // PeakCount
		a.DroppedPeaks(),          // DroppedPeaks
		mzBlob,                    // blobMass
		intBlob,                   // blobIntensity
		source,                    // Source
	)
	if err != nil {
		return fmt.Errorf("failed to insert annotation: %w", err)
	}

	w.annotationID++
	if matched {
		w.resolved++
	}
	return nil
}

// encodePeaksFloat64 encodes peak data as little-endian float64 blob
func encodePeaksFloat64(peaks []core.Peak, useMZ bool) []byte {
	buf := make([]byte, len(peaks)*8)
	for i, peak := range peaks {
		var value float64
		if useMZ {
			value = peak.MZ
		} else {
			value = peak.Intensity
		}
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(value))
	}
	return buf
}

// decodePeaksFloat64 is the inverse of encodePeaksFloat64
func decodePeaksFloat64(buf []byte) []float64 {
	values := make([]float64, len(buf)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return values
}

// Finalize writes the header and maintenance tables and closes the database
func (w *Writer) Finalize(info RunInfo) error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	now := time.Now()

	// Write HeaderTable
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, RunId, CreationDate, TolerancePPM, AdductCount, Description)
		VALUES (?, ?, ?, ?, ?, ?)
	`, schemaVersion, w.runID, now.Format(headerDateFormat), info.TolerancePPM, info.AdductCount, info.Description)
	if err != nil {
		w.close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Write MaintenanceTable
	_, err = w.db.Exec(`
		INSERT INTO MaintenanceTable (CreationDate, NoofAnnotations, NoofResolved, Description)
		VALUES (?, ?, ?, ?)
	`, now.Format(maintenanceDateFormat), w.annotationID-1, w.resolved, "")
	if err != nil {
		w.close()
		return fmt.Errorf("failed to insert maintenance: %w", err)
	}

	return w.close()
}

// Close closes the database without writing run metadata. It is a no-op
// after Finalize.
func (w *Writer) Close() error {
	if w.finalized {
		return nil
	}
	w.finalized = true
	return w.close()
}

func (w *Writer) close() error {
	// Close prepared statements
	if w.annotationStmt != nil {
		w.annotationStmt.Close()
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
