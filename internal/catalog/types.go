// internal/catalog/types.go
package catalog

import (
	"time"
)

// Session is the catalog's unit of record: one physical observation,
// identified by a canonical timestamp, bundling every media file captured
// for it. Year/Month/Day/TimeOfDay are redundant with DateTime and kept for
// query convenience. Target and Comments are nil until curated by hand;
// Polarimetry is nil when undetermined.
type Session struct {
	DateTime    time.Time
	Year        int
	Month       int
	Day         int
	TimeOfDay   string
	Instruments []string
	Target      *string
	Comments    *string
	VideoLinks  []string
	ImageLinks  []string
	Links       []string
	NumLinks    int
	Polarimetry *bool
}

// Catalog is the collection of sessions. Row order carries no meaning; the
// positional obs_id assigned at save time must not be treated as a stable
// key across rebuilds. After the proximity merge no two sessions sit closer
// than the tolerance window.
type Catalog struct {
	Sessions []Session
}

// Len returns the number of sessions.
func (c *Catalog) Len() int { return len(c.Sessions) }

// deriveFields fills the decomposed date/time columns from DateTime.
func (s *Session) deriveFields() {
	s.Year = s.DateTime.Year()
	s.Month = int(s.DateTime.Month())
	s.Day = s.DateTime.Day()
	s.TimeOfDay = s.DateTime.Format("15:04:05")
	s.NumLinks = len(s.Links)
}
