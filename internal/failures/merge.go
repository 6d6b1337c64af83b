package failures

import (
	"sort"

	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/index"
)

// recentWindow is how many trailing entries count as "recent" for
// incremental dedup. Older duplicates are handled by Compact.
const recentWindow = 5

// Merge folds a session's failure examples for one category into the
// existing histogram entries. An incoming failure whose command prefix
// matches an entry in the recent window increments that entry's count
// and bumps its date forward; otherwise it is appended as a fresh
// occurrence. The result keeps at most limits.MaxPatternEntries rows,
// dropping the oldest-appended.
func Merge(existing []index.FailureEntry, incoming []index.PatternExample, sessionID, date string, limits config.Limits) []index.FailureEntry {
	prefixLen := limits.DedupPrefixLen

	recent := map[string]bool{}
	start := len(existing) - recentWindow
	if start < 0 {
		start = 0
	}
	for _, e := range existing[start:] {
		recent[prefix(e.Command, prefixLen)] = true
	}

	for _, f := range incoming {
		p := prefix(f.Command, prefixLen)
		if recent[p] {
			// Increment the most recent matching entry.
			for i := len(existing) - 1; i >= 0; i-- {
				if prefix(existing[i].Command, prefixLen) == p {
					existing[i].Count++
					existing[i].Date = date
					break
				}
			}
			continue
		}
		existing = append(existing, index.FailureEntry{
			Command:   f.Command,
			Error:     f.Error,
			SessionID: sessionID,
			Date:      date,
			Count:     1,
		})
		recent[p] = true
	}

	if limits.MaxPatternEntries > 0 && len(existing) > limits.MaxPatternEntries {
		existing = existing[len(existing)-limits.MaxPatternEntries:]
	}
	return existing
}

// Compact merges entries with identical command prefixes within each
// category regardless of recency, summing counts and keeping the
// latest date. Pre-count entries carry a zero and stand for one
// occurrence each. Used by periodic cleanup rather than incremental
// merge.
func Compact(patterns map[string][]index.FailureEntry, prefixLen int) int {
	merged := 0
	for cat, entries := range patterns {
		byPrefix := map[string]int{} // prefix -> position in out
		out := entries[:0]
		for _, e := range entries {
			if e.Count < 1 {
				e.Count = 1
			}
			p := prefix(e.Command, prefixLen)
			if pos, ok := byPrefix[p]; ok {
				out[pos].Count += e.Count
				if e.Date > out[pos].Date {
					out[pos].Date = e.Date
					out[pos].SessionID = e.SessionID
				}
				merged++
				continue
			}
			byPrefix[p] = len(out)
			out = append(out, e)
		}
		patterns[cat] = out
	}
	return merged
}

// RankedCategory is a failure category ordered for display.
type RankedCategory struct {
	Category    string
	Occurrences int
	Entries     []index.FailureEntry
}

// Rank orders categories by total occurrence count, descending.
func Rank(patterns map[string][]index.FailureEntry) []RankedCategory {
	out := make([]RankedCategory, 0, len(patterns))
	for cat, entries := range patterns {
		total := 0
		for _, e := range entries {
			n := e.Count
			if n < 1 {
				n = 1
			}
			total += n
		}
		out = append(out, RankedCategory{Category: cat, Occurrences: total, Entries: entries})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func prefix(s string, n int) string {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
