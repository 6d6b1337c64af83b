package index

import (
	"encoding/json"

	"github.com/recall-dev/recall/internal/config"
)

// Prune drops the oldest-by-date session summaries until the index is
// within both the session-count cap and the serialized byte budget.
// Detail files are never touched, so pruning loses nothing that cannot
// be recovered from the satellite tier. The byte check re-serializes
// the whole document per eviction round, which is fine at tens to low
// hundreds of sessions; revisit before pointing this at materially
// larger histories.
func Prune(idx *Index, limits config.Limits) {
	if len(idx.Sessions) == 0 {
		return
	}

	ids := SortedSessionIDs(idx) // newest first

	// First pass: session-count cap.
	if limits.MaxSessionsInIndex > 0 && len(ids) > limits.MaxSessionsInIndex {
		for _, id := range ids[limits.MaxSessionsInIndex:] {
			delete(idx.Sessions, id)
		}
		ids = ids[:limits.MaxSessionsInIndex]
	}

	// Second pass: serialized-size budget, never going below the floor.
	target := limits.MaxIndexKB * 1024
	if target <= 0 {
		return
	}
	size := serializedSize(idx)
	for size > target && len(ids) > limits.MinSessionsFloor {
		oldest := ids[len(ids)-1]
		delete(idx.Sessions, oldest)
		ids = ids[:len(ids)-1]
		size = serializedSize(idx)
	}
}

func serializedSize(idx *Index) int {
	data, err := json.Marshal(idx)
	if err != nil {
		return 0
	}
	return len(data)
}
