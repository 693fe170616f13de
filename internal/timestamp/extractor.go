// internal/timestamp/extractor.go
package timestamp

import (
	"regexp"
)

// Canonical is the normalized timestamp layout produced by extraction,
// YYYY-MM-DD_HH:MM:SS in Go reference time notation.
const Canonical = "2006-01-02_15:04:05"

// Pattern is a single date/time grammar. The expression must contain exactly
// two capture groups: group 1 the date, group 2 the time.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// NewPattern compiles a grammar expression. It panics on an invalid
// expression, matching regexp.MustCompile semantics for the built-in table.
func NewPattern(name, expr string) Pattern {
	return Pattern{Name: name, re: regexp.MustCompile(expr)}
}

// DefaultPatterns returns the recognized grammars in their required
// precedence order. Extraction takes the FIRST grammar that matches, not the
// most specific one, so the order of this list is load-bearing.
//
// Go's regexp engine has no negative lookahead; the original (?!\d) boundary
// after a six-digit time run is rendered as a non-capturing (?:\D|$) trailer.
// Every grammar anchors the run to a preceding separator, so the two forms
// accept the same URLs.
func DefaultPatterns() []Pattern {
	return []Pattern{
		NewPattern("YYYY-MM-DD_HH:MM:SS", `(\d{4}-\d{2}-\d{2})_(\d{2}:\d{2}:\d{2})`),
		NewPattern("YYYY-MM-DD_HHMMSS", `(\d{4}-\d{2}-\d{2})_(\d{6})(?:\D|$)`),
		NewPattern("YYYY-MM-DDTHH:MM:SS", `(\d{4}-\d{2}-\d{2})T(\d{2}:\d{2}:\d{2})`),
		NewPattern("DDMonYY_HHMMSS", `(\d{2}[a-zA-Z]{3}\d{2})_(\d{6})(?:\D|$)`),
		NewPattern("DDMonYYYY_HHMMSS", `(\d{2}[a-zA-Z]{3}\d{4})_(\d{6})(?:\D|$)`),
		NewPattern("YYYY.MM.DD_HHMMSS", `(\d{4}\.\d{2}\.\d{2})_(\d{6})(?:\D|$)`),
		NewPattern("YYYYMMDD_HHMMSS", `(\d{8})_(\d{6})(?:\D|$)`),
	}
}

var sixDigits = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})$`)

// Extract applies one grammar to a URL. On a match it returns
// date + "_" + time with a six-digit time reformatted to HH:MM:SS and a
// colon-separated time taken verbatim; ok is false when the grammar does not
// match.
func Extract(url string, p Pattern) (string, bool) {
	m := p.re.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	date := m[1]
	clock := sixDigits.ReplaceAllString(m[2], "$1:$2:$3")
	return date + "_" + clock, true
}

// ExtractWithFallback tries each grammar in order and returns the result of
// the first one that matches. ok is false only when no grammar matches.
func ExtractWithFallback(url string, patterns []Pattern) (string, bool) {
	for _, p := range patterns {
		if ts, ok := Extract(url, p); ok {
			return ts, true
		}
	}
	return "", false
}

// ExtractAll partitions URLs into extracted timestamp strings and the URLs
// no grammar matched. Every input URL lands in exactly one of the two
// outputs; matched[i] was extracted from the i-th matching URL in input
// order.
func ExtractAll(urls []string, patterns []Pattern) (matched []string, unmatched []string) {
	for _, url := range urls {
		if ts, ok := ExtractWithFallback(url, patterns); ok {
			matched = append(matched, ts)
		} else {
			unmatched = append(unmatched, url)
		}
	}
	return matched, unmatched
}
