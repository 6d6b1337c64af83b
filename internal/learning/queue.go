// Package learning manages the two-stage learning queue (pending
// proposals await review, approved items feed the knowledge surfaced
// at session start) and the heuristics that populate proposals from
// summarized sessions.
package learning

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recall-dev/recall/internal/index"
)

// Propose inserts l into the pending queue unless an item with the
// same title already exists in pending or approved. Returns true when
// the proposal was added. Missing ids, scopes, and timestamps are
// filled in.
func Propose(idx *index.Index, l index.Learning) bool {
	if l.Title == "" {
		return false
	}
	for _, existing := range idx.PendingLearnings {
		if existing.Title == l.Title {
			return false
		}
	}
	for _, existing := range idx.Learnings {
		if existing.Title == l.Title {
			return false
		}
	}

	if l.ID == "" {
		l.ID = NewID()
	}
	if l.SuggestedScope == "" {
		l.SuggestedScope = "project"
	}
	if l.Timestamp == "" {
		l.Timestamp = time.Now().Format(time.RFC3339)
	}

	idx.PendingLearnings = append(idx.PendingLearnings, l)
	return true
}

// Approve moves the referenced pending item to the approved list.
// ref is either an item id (or unique id prefix) or a 1-based position
// in the pending queue. Returns false when no item matches; an already
// approved item can never be approved or rejected again because it is
// no longer pending.
func Approve(idx *index.Index, ref string) (index.Learning, bool) {
	pos, ok := resolve(idx, ref)
	if !ok {
		return index.Learning{}, false
	}
	l := idx.PendingLearnings[pos]
	idx.PendingLearnings = append(idx.PendingLearnings[:pos], idx.PendingLearnings[pos+1:]...)
	idx.Learnings = append(idx.Learnings, l)
	return l, true
}

// Reject removes the referenced pending item permanently.
func Reject(idx *index.Index, ref string) (index.Learning, bool) {
	pos, ok := resolve(idx, ref)
	if !ok {
		return index.Learning{}, false
	}
	l := idx.PendingLearnings[pos]
	idx.PendingLearnings = append(idx.PendingLearnings[:pos], idx.PendingLearnings[pos+1:]...)
	return l, true
}

// ApproveAll moves the whole pending queue to approved and returns the
// number of items moved.
func ApproveAll(idx *index.Index) int {
	n := len(idx.PendingLearnings)
	idx.Learnings = append(idx.Learnings, idx.PendingLearnings...)
	idx.PendingLearnings = nil
	return n
}

// NewID returns a short random learning id.
func NewID() string {
	return uuid.NewString()[:8]
}

// KnowledgeItem renders an approved learning as a single knowledge
// bullet.
func KnowledgeItem(l index.Learning) string {
	switch {
	case l.Solution != "":
		return l.Title + ": " + l.Solution
	case l.Description != "":
		return l.Title + ": " + l.Description
	default:
		return l.Title
	}
}

// resolve maps an id, unique id prefix, or 1-based position to a
// pending-queue index.
func resolve(idx *index.Index, ref string) (int, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, false
	}

	// Exact id, then unique prefix.
	match, count := -1, 0
	for i, l := range idx.PendingLearnings {
		if l.ID == ref {
			return i, true
		}
		if strings.HasPrefix(l.ID, ref) {
			match, count = i, count+1
		}
	}
	if count == 1 {
		return match, true
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(idx.PendingLearnings) {
		return n - 1, true
	}
	return 0, false
}
