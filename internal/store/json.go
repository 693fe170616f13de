// internal/store/json.go
package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/valpere/SolarArchiver/internal/catalog"
)

// jsonSession is the JSON export shape of one catalog row.
type jsonSession struct {
	ObsID       int      `json:"obs_id"`
	DateTime    string   `json:"date_time"`
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	Day         int      `json:"day"`
	Time        string   `json:"time"`
	Instruments []string `json:"instruments"`
	Target      *string  `json:"target"`
	Comments    *string  `json:"comments"`
	VideoLinks  []string `json:"video_links"`
	ImageLinks  []string `json:"image_links"`
	Links       []string `json:"links"`
	NumLinks    int      `json:"num_links"`
	Polarimetry *bool    `json:"polarimetry"`
}

// JSONWriter exports the catalog as a JSON array.
type JSONWriter struct {
	filename string
	file     *os.File
}

// NewJSONWriter creates the JSON export writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{filename: filename, file: file}, nil
}

// Write encodes all sessions with indentation for manual review.
func (w *JSONWriter) Write(sessions []catalog.Session) error {
	rows := make([]jsonSession, len(sessions))
	for i, s := range sessions {
		rows[i] = jsonSession{
			ObsID:       i,
			DateTime:    s.DateTime.Format(DateTimeLayout),
			Year:        s.Year,
			Month:       s.Month,
			Day:         s.Day,
			Time:        s.TimeOfDay,
			Instruments: s.Instruments,
			Target:      s.Target,
			Comments:    s.Comments,
			VideoLinks:  s.VideoLinks,
			ImageLinks:  s.ImageLinks,
			Links:       s.Links,
			NumLinks:    s.NumLinks,
			Polarimetry: s.Polarimetry,
		}
	}

	encoder := json.NewEncoder(w.file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return nil
}

// Close closes the output file.
func (w *JSONWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
