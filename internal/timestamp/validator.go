// internal/timestamp/validator.go
package timestamp

import (
	"time"
)

// DefaultFormats returns the concrete layouts an extracted timestamp string
// is re-parsed against, in precedence order. The first layout that parses
// marks a string valid.
func DefaultFormats() []string {
	return []string{
		"2006-01-02_15:04:05",
		"02Jan2006_15:04:05",
		"2006.01.02_15:04:05",
		"2006-01-02 15:04:05.000000",
		"20060102_150405",
		"20060102_15:04:05",
	}
}

// parseAny returns the first successful parse against formats.
func parseAny(ts string, formats []string) (time.Time, bool) {
	for _, layout := range formats {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Invalid returns the subset of timestamps that parse under none of the
// given formats. Valid strings are implicitly the complement; the caller
// recomputes it against the original list.
func Invalid(timestamps []string, formats []string) []string {
	var invalid []string
	for _, ts := range timestamps {
		if _, ok := parseAny(ts, formats); !ok {
			invalid = append(invalid, ts)
		}
	}
	return invalid
}

// ToTimes converts timestamp strings to time values using the same format
// precedence as Invalid. Strings failing every format are silently skipped:
// validation reports failures, conversion swallows them.
func ToTimes(timestamps []string, formats []string) []time.Time {
	times := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		if t, ok := parseAny(ts, formats); ok {
			times = append(times, t)
		}
	}
	return times
}

// Extraction is the outcome of the joint extraction+validation pass.
// Times and URLs are index-aligned: Times[i] was extracted from URLs[i].
// Unmatched holds links no grammar matched; Invalid holds extracted strings
// that failed strict re-parse. Both side lists are kept for operator triage.
type Extraction struct {
	Times     []time.Time
	URLs      []string
	Unmatched []string
	Invalid   []string
}

// ExtractValidated runs extraction and validation as one pass over links,
// returning aligned (time, URL) pairs. Deriving both lists from a single
// walk is what rules out index drift between them.
func ExtractValidated(links []string, patterns []Pattern, formats []string) Extraction {
	var out Extraction
	for _, link := range links {
		ts, ok := ExtractWithFallback(link, patterns)
		if !ok {
			out.Unmatched = append(out.Unmatched, link)
			continue
		}
		t, ok := parseAny(ts, formats)
		if !ok {
			out.Invalid = append(out.Invalid, ts)
			continue
		}
		out.Times = append(out.Times, t)
		out.URLs = append(out.URLs, link)
	}
	return out
}
