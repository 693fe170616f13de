// internal/store/store.go
package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valpere/SolarArchiver/internal/catalog"
)

// Columns is the persisted catalog schema, in column order. Every backend
// honors this contract. obs_id is positional, assigned at save time, and
// carries no meaning across rebuilds.
var Columns = []string{
	"date_time", "year", "month", "day", "time",
	"instruments", "target", "comments",
	"video_links", "image_links", "links", "num_links", "polarimetry",
}

// DateTimeLayout is the ISO-like timestamp serialization for date_time.
const DateTimeLayout = "2006-01-02 15:04:05"

// listSep joins list-valued columns; an empty list serializes to an empty
// field.
const listSep = ";"

// Writer persists a catalog. Backends differ only in medium; the row
// contract is shared.
type Writer interface {
	Write(sessions []catalog.Session) error
	Close() error
}

// joinList serializes a list-valued column.
func joinList(items []string) string {
	return strings.Join(items, listSep)
}

// splitList parses a list-valued column; an empty field is an empty list.
func splitList(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Split(field, listSep)
}

// nullableString serializes a nullable scalar; nil becomes the empty field.
func nullableString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseNullable parses a nullable scalar; the empty field becomes nil.
func parseNullable(field string) *string {
	if field == "" {
		return nil
	}
	s := field
	return &s
}

// boolString serializes polarimetry as the literal strings "True"/"False"
// (strings, not booleans, for compatibility with older catalog revisions) or
// the empty field for unknown.
func boolString(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "True"
	default:
		return "False"
	}
}

// parseBool parses the "True"/"False"/empty polarimetry field.
func parseBool(field string) (*bool, error) {
	switch field {
	case "":
		return nil, nil
	case "True":
		t := true
		return &t, nil
	case "False":
		f := false
		return &f, nil
	default:
		return nil, fmt.Errorf("unrecognized polarimetry value %q", field)
	}
}

// flatten serializes a session into the Columns order.
func flatten(s catalog.Session) []string {
	return []string{
		s.DateTime.Format(DateTimeLayout),
		strconv.Itoa(s.Year),
		strconv.Itoa(s.Month),
		strconv.Itoa(s.Day),
		s.TimeOfDay,
		joinList(s.Instruments),
		nullableString(s.Target),
		nullableString(s.Comments),
		joinList(s.VideoLinks),
		joinList(s.ImageLinks),
		joinList(s.Links),
		strconv.Itoa(s.NumLinks),
		boolString(s.Polarimetry),
	}
}

// unflatten parses one row in Columns order back into a session.
func unflatten(row []string) (catalog.Session, error) {
	if len(row) != len(Columns) {
		return catalog.Session{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(row))
	}

	dt, err := time.Parse(DateTimeLayout, row[0])
	if err != nil {
		return catalog.Session{}, fmt.Errorf("parsing date_time %q: %w", row[0], err)
	}
	year, err := strconv.Atoi(row[1])
	if err != nil {
		return catalog.Session{}, fmt.Errorf("parsing year %q: %w", row[1], err)
	}
	month, err := strconv.Atoi(row[2])
	if err != nil {
		return catalog.Session{}, fmt.Errorf("parsing month %q: %w", row[2], err)
	}
	day, err := strconv.Atoi(row[3])
	if err != nil {
		return catalog.Session{}, fmt.Errorf("parsing day %q: %w", row[3], err)
	}
	numLinks, err := strconv.Atoi(row[11])
	if err != nil {
		return catalog.Session{}, fmt.Errorf("parsing num_links %q: %w", row[11], err)
	}
	pol, err := parseBool(row[12])
	if err != nil {
		return catalog.Session{}, err
	}

	return catalog.Session{
		DateTime:    dt,
		Year:        year,
		Month:       month,
		Day:         day,
		TimeOfDay:   row[4],
		Instruments: splitList(row[5]),
		Target:      parseNullable(row[6]),
		Comments:    parseNullable(row[7]),
		VideoLinks:  splitList(row[8]),
		ImageLinks:  splitList(row[9]),
		Links:       splitList(row[10]),
		NumLinks:    numLinks,
		Polarimetry: pol,
	}, nil
}
