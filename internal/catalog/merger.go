// internal/catalog/merger.go
package catalog

import (
	"time"
)

// Merge reconciles freshly built sessions against a previously persisted
// catalog. Existing rows are concatenated before new ones and duplicates are
// dropped by exact timestamp equality keeping the FIRST occurrence, so a row
// already in the catalog always wins over a rebuilt row with the same
// timestamp. Manual edits to target/comments made between runs survive any
// rebuild; this is a keep-first merge, not latest-wins.
//
// An empty or nil existing catalog is the first-run case and yields the new
// sessions verbatim.
func Merge(existing []Session, fresh []Session) []Session {
	if len(existing) == 0 {
		return fresh
	}
	seen := make(map[time.Time]bool, len(existing)+len(fresh))
	merged := make([]Session, 0, len(existing)+len(fresh))
	for _, s := range existing {
		if !seen[s.DateTime] {
			seen[s.DateTime] = true
			merged = append(merged, s)
		}
	}
	for _, s := range fresh {
		if !seen[s.DateTime] {
			seen[s.DateTime] = true
			merged = append(merged, s)
		}
	}
	return merged
}
