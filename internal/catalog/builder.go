// internal/catalog/builder.go
package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/valpere/SolarArchiver/internal/classify"
)

// DefaultToleranceSeconds is the proximity-merge window: consecutive
// timestamp groups closer than this belong to the same observation session.
const DefaultToleranceSeconds = 60

// BuilderConfig configures catalog building.
type BuilderConfig struct {
	InstrumentKeywords  classify.KeywordTable
	PolarimetryKeywords classify.KeywordTable
	Tolerance           time.Duration
	VideoSubstrings     []string
	ImageSubstrings     []string
}

// DefaultBuilderConfig returns the archive's standard build configuration.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		InstrumentKeywords:  classify.DefaultInstrumentKeywords(),
		PolarimetryKeywords: classify.DefaultPolarimetryKeywords(),
		Tolerance:           DefaultToleranceSeconds * time.Second,
		VideoSubstrings:     []string{".mp4", ".mov"},
		ImageSubstrings:     []string{".jpg", ".png"},
	}
}

// Build groups index-aligned (time, URL) pairs into observation sessions.
// times and urls must be the aligned outputs of a single joint
// extraction/validation pass; a length mismatch is a caller bug and is
// rejected outright rather than silently zipped short.
//
// Groups sharing an exact instant become one candidate session, classified
// and partitioned into video/image links. Candidates are then merged by
// temporal proximity: walking the time-sorted groups, a gap above the
// tolerance opens a new session, anything closer folds into the open one.
// The gap is measured pairwise between consecutive entries, not against the
// open session's anchor, so chains within tolerance merge transitively.
func Build(times []time.Time, urls []string, cfg BuilderConfig) ([]Session, error) {
	if len(times) != len(urls) {
		return nil, fmt.Errorf("misaligned inputs: %d timestamps vs %d urls", len(times), len(urls))
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultToleranceSeconds * time.Second
	}

	// Group links by exact instant.
	groups := make(map[time.Time][]string, len(times))
	for i, t := range times {
		groups[t] = append(groups[t], urls[i])
	}

	instants := make([]time.Time, 0, len(groups))
	for t := range groups {
		instants = append(instants, t)
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

	var sessions []Session
	var last time.Time
	for i, t := range instants {
		links := groups[t]
		if i > 0 && t.Sub(last) <= cfg.Tolerance {
			fold(&sessions[len(sessions)-1], links, cfg)
		} else {
			sessions = append(sessions, newSession(t, links, cfg))
		}
		last = t
	}
	return sessions, nil
}

// newSession opens a session from one exact-timestamp group.
func newSession(t time.Time, links []string, cfg BuilderConfig) Session {
	s := Session{
		DateTime:    t,
		Instruments: classify.Instruments(links, cfg.InstrumentKeywords, nil),
		Polarimetry: classify.Polarimetry(links, cfg.PolarimetryKeywords),
		VideoLinks:  classify.FilterLinksContaining(links, cfg.VideoSubstrings),
		ImageLinks:  classify.FilterLinksContaining(links, cfg.ImageSubstrings),
		Links:       append([]string(nil), links...),
	}
	s.deriveFields()
	return s
}

// fold merges a temporally-adjacent group into the open session: instrument
// tags are unioned as a set, link lists are concatenated without
// deduplication, scalar fields keep their first value, and polarimetry
// becomes true if any folded group reports true. The session keeps the
// earliest timestamp.
func fold(s *Session, links []string, cfg BuilderConfig) {
	s.Instruments = unionTags(s.Instruments, classify.Instruments(links, cfg.InstrumentKeywords, nil))
	s.VideoLinks = append(s.VideoLinks, classify.FilterLinksContaining(links, cfg.VideoSubstrings)...)
	s.ImageLinks = append(s.ImageLinks, classify.FilterLinksContaining(links, cfg.ImageSubstrings)...)
	s.Links = append(s.Links, links...)
	if pol := classify.Polarimetry(links, cfg.PolarimetryKeywords); pol != nil && *pol {
		s.Polarimetry = pol
	}
	s.deriveFields()
}

// unionTags merges two sorted tag sets, dropping duplicates.
func unionTags(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, tag := range a {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	for _, tag := range b {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}
