// internal/classify/classify.go
package classify

import (
	"sort"
	"strings"
)

// KeywordTable maps a tag name to the literal substrings that identify it in
// a link URL.
type KeywordTable map[string][]string

// Instrument tags known to the archive.
const (
	InstrumentCRISP   = "CRISP"
	InstrumentCHROMIS = "CHROMIS"
	InstrumentIRIS    = "IRIS"
)

// polarimetryTag is the single boolean category used by Polarimetry.
const polarimetryTag = "True"

// DefaultInstrumentKeywords returns the keyword table identifying the
// archive's instruments in file URLs.
func DefaultInstrumentKeywords() KeywordTable {
	return KeywordTable{
		InstrumentCRISP:   {"wb_6563", "ha", "Crisp", "6173", "8542", "6563", "crisp"},
		InstrumentCHROMIS: {"Chromis", "cak", "4846"},
		InstrumentIRIS:    {"sji"},
	}
}

// DefaultPolarimetryKeywords returns the keyword table identifying
// polarimetric data products.
func DefaultPolarimetryKeywords() KeywordTable {
	return KeywordTable{
		polarimetryTag: {"Bz+Bh", "blos", "Blos"},
	}
}

// Instruments collects the tags whose keywords occur as literal substrings
// anywhere in links. The first matching keyword settles a tag for a given
// link. When nothing matches across all links, the caller-supplied
// defaultTags is returned instead of an empty set; empty-means-none-found is
// an explicit policy, not an accident. The result is sorted for stable
// downstream serialization.
func Instruments(links []string, table KeywordTable, defaultTags []string) []string {
	found := make(map[string]bool)
	for _, link := range links {
		for tag, keywords := range table {
			for _, kw := range keywords {
				if strings.Contains(link, kw) {
					found[tag] = true
					break
				}
			}
		}
	}
	if len(found) == 0 {
		return defaultTags
	}
	tags := make([]string, 0, len(found))
	for tag := range found {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Polarimetry treats the keyword table as one boolean category. It returns
// a true value when the category matched and nil when it did not: absence of
// a polarimetry keyword means unknown, never false.
func Polarimetry(links []string, table KeywordTable) *bool {
	tags := Instruments(links, table, nil)
	for _, tag := range tags {
		if tag == polarimetryTag {
			t := true
			return &t
		}
	}
	return nil
}

// FilterLinksContaining returns every link containing at least one of the
// given substrings. A link appears once per matching substring; matches are
// deliberately not deduplicated, reproducing the archive's historical
// behavior.
func FilterLinksContaining(links []string, substrings []string) []string {
	var result []string
	for _, link := range links {
		for _, s := range substrings {
			if strings.Contains(link, s) {
				result = append(result, link)
			}
		}
	}
	return result
}
