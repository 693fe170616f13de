// internal/store/csv.go
package store

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/valpere/SolarArchiver/internal/catalog"
)

// CSVWriter writes the catalog in its primary persisted format. Row
// identity is positional: a session's obs_id is its row number at save time.
type CSVWriter struct {
	filename string
	file     *os.File
	writer   *csv.Writer
}

// NewCSVWriter creates a CSV catalog writer, truncating any existing file.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{
		filename: filename,
		file:     file,
		writer:   csv.NewWriter(file),
	}, nil
}

// Write writes the header plus one row per session.
func (w *CSVWriter) Write(sessions []catalog.Session) error {
	if err := w.writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, s := range sessions {
		if err := w.writer.Write(flatten(s)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the underlying file.
func (w *CSVWriter) Close() error {
	if w.writer != nil {
		w.writer.Flush()
		w.writer = nil
	}
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

// LoadCSV reads a persisted catalog back into sessions, reconstructing
// list-valued and null-valued fields. A missing file is the first-run case,
// not an error: it loads as an empty catalog.
func LoadCSV(filename string) ([]catalog.Session, error) {
	file, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// First row is the header.
	sessions := make([]catalog.Session, 0, len(rows)-1)
	for i, row := range rows[1:] {
		s, err := unflatten(row)
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: %w", i+1, err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
