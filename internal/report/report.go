// Package report renders every read surface as markdown: session
// lists, the previous session, failure and learning reports, usage
// stats, search results, and the session-start context block. All
// output is consumed by the host assistant, so formatting favors
// compactness over decoration.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/recall-dev/recall/internal/failures"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/knowledge"
	"github.com/recall-dev/recall/internal/transcript"
)

// Reporter renders reports for one project.
type Reporter struct {
	store *index.Store
}

// New builds a Reporter over the given store.
func New(store *index.Store) *Reporter {
	return &Reporter{store: store}
}

// Sessions lists the most recent sessions with summaries. Falls back
// to scanning raw transcripts when no index exists.
func (r *Reporter) Sessions(projectFolder string) string {
	var sb strings.Builder
	sb.WriteString("## Recent Sessions\n\n")

	if r.store.Exists(projectFolder) {
		idx := r.store.Load(projectFolder)
		ids := index.SortedSessionIDs(idx)
		if len(ids) == 0 {
			sb.WriteString("No sessions indexed yet.\n")
			return sb.String()
		}
		for i, id := range ids {
			if i >= 7 {
				break
			}
			sess := idx.Sessions[id]
			current := ""
			if i == 0 {
				current = " (current)"
			}
			summary := sess.Summary
			if summary == "" {
				summary = "No summary"
			}
			sb.WriteString(fmt.Sprintf("**%s**%s [%d msgs, %d fails]\n",
				formatDate(sess.Date), current, sess.MessageCount, sess.FailureCount))
			sb.WriteString(fmt.Sprintf("  %s\n\n", truncate(summary, 150)))
		}
		return sb.String()
	}

	// Raw-transcript fallback.
	logs := transcript.FindSessionLogs(r.store.Paths().ProjectDir(projectFolder))
	if len(logs) == 0 {
		sb.WriteString("No sessions found for this project.\n")
		return sb.String()
	}
	for i, f := range logs {
		if i >= 7 {
			break
		}
		raw := transcript.Scan(f, "")
		summary := "No user messages found"
		for _, m := range raw.Messages {
			if len(m) > 20 {
				summary = truncate(m, 150)
				break
			}
		}
		current := ""
		if i == 0 {
			current = " (current)"
		}
		sb.WriteString(fmt.Sprintf("**%s**%s\n  %s\n\n", f.ModTime.Format("2006-01-02 15:04"), current, summary))
	}
	return sb.String()
}

// LastSession shows the previous session (the current one is skipped)
// with messages and failures pulled from its satellite file.
func (r *Reporter) LastSession(projectFolder string) string {
	idx := r.store.Load(projectFolder)
	ids := index.SortedSessionIDs(idx)

	if len(ids) >= 2 {
		id := ids[1]
		sess := idx.Sessions[id]

		var sb strings.Builder
		sb.WriteString("## Previous Session\n")
		sb.WriteString(fmt.Sprintf("**Date:** %s\n", formatDate(sess.Date)))
		sb.WriteString(fmt.Sprintf("**Session:** %s\n", shortID(id)))
		sb.WriteString(fmt.Sprintf("**Stats:** %d messages, %d commands, %d failures\n\n",
			sess.MessageCount, sess.CommandCount, sess.FailureCount))

		if detail, ok := r.store.LoadDetail(projectFolder, id); ok {
			sb.WriteString("### User Messages:\n")
			for i, m := range detail.UserMessages {
				if i >= 15 {
					break
				}
				clean := strings.TrimSpace(strings.ReplaceAll(m.Content, "\n", " "))
				if clean != "" {
					sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, truncate(clean, 200)))
				}
			}
			if len(detail.Failures) > 0 {
				sb.WriteString("\n### Failures:\n")
				for i, f := range detail.Failures {
					if i >= 5 {
						break
					}
					sb.WriteString(fmt.Sprintf("  - `%s`\n    %s\n", truncate(f.Command, 60), truncate(f.Error, 100)))
				}
			}
		}
		return sb.String()
	}

	// Raw-transcript fallback: second-newest log.
	logs := transcript.FindSessionLogs(r.store.Paths().ProjectDir(projectFolder))
	if len(logs) < 2 {
		return "No previous session found (only current session exists)\n"
	}
	raw := transcript.Scan(logs[1], "")

	var sb strings.Builder
	sb.WriteString("## Previous Session\n")
	sb.WriteString(fmt.Sprintf("**Date:** %s\n\n", raw.Date.Format("2006-01-02 15:04")))
	sb.WriteString("### User Messages:\n")
	for i, m := range raw.Messages {
		if i >= 15 {
			break
		}
		clean := strings.TrimSpace(strings.ReplaceAll(m, "\n", " "))
		if clean != "" {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, truncate(clean, 200)))
		}
	}
	return sb.String()
}

// Failures renders approved learnings followed by failure categories
// ranked by occurrence count. Displayed learnings bump their shown
// counters (saved best-effort).
func (r *Reporter) Failures(projectFolder string) string {
	idx := r.store.Load(projectFolder)

	var sb strings.Builder
	sb.WriteString("## Failure Patterns Across Sessions\n\n")

	if len(idx.Learnings) > 0 {
		sb.WriteString("## Learnings & Best Practices\n\n")
		now := time.Now().Format(time.RFC3339)
		for _, l := range idx.Learnings {
			cat := l.Category
			if cat == "" {
				cat = "general"
			}
			sb.WriteString(fmt.Sprintf("### [%s] %s\n", cat, l.Title))
			if l.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", l.Description))
			}
			if l.Solution != "" {
				sb.WriteString(fmt.Sprintf("  **Fix:** %s\n", l.Solution))
			}
			sb.WriteString("\n")
			idx.RecordLearningShown(learningKey(l), now)
		}
		_ = r.store.Save(projectFolder, idx)
	}

	if len(idx.FailurePatterns) == 0 {
		if len(idx.Learnings) == 0 {
			sb.WriteString("No failure patterns or learnings recorded yet.\n")
		}
		return sb.String()
	}

	for _, ranked := range failures.Rank(idx.FailurePatterns) {
		sb.WriteString(fmt.Sprintf("### %s (%d occurrences)\n\n", titleCase(ranked.Category), ranked.Occurrences))
		entries := ranked.Entries
		if len(entries) > 5 {
			entries = entries[len(entries)-5:]
		}
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("  **%s**: `%s`\n", dateOnly(e.Date), truncate(e.Command, 60)))
			if e.Error != "" {
				sb.WriteString(fmt.Sprintf("    Error: %s...\n", truncate(e.Error, 100)))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Usage renders skill and learning usage counters.
func (r *Reporter) Usage(projectFolder string) string {
	idx := r.store.Load(projectFolder)

	var sb strings.Builder
	sb.WriteString("## Usage Statistics\n\n")

	if len(idx.Usage.Skills) == 0 && len(idx.Usage.LearningsShown) == 0 {
		sb.WriteString("No usage recorded yet.\n")
		return sb.String()
	}

	if len(idx.Usage.Skills) > 0 {
		sb.WriteString("### Skills\n")
		names := make([]string, 0, len(idx.Usage.Skills))
		for name := range idx.Usage.Skills {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			ui, uj := idx.Usage.Skills[names[i]], idx.Usage.Skills[names[j]]
			if ui.Count != uj.Count {
				return ui.Count > uj.Count
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			u := idx.Usage.Skills[name]
			sb.WriteString(fmt.Sprintf("  - %s: %dx (last: %s)\n", name, u.Count, dateOnly(u.LastUsed)))
		}
		sb.WriteString("\n")
	}

	if len(idx.Usage.LearningsShown) > 0 {
		sb.WriteString("### Learnings Shown\n")
		keys := make([]string, 0, len(idx.Usage.LearningsShown))
		for k := range idx.Usage.LearningsShown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s := idx.Usage.LearningsShown[k]
			sb.WriteString(fmt.Sprintf("  - %s: %dx\n", k, s.Count))
		}
	}
	return sb.String()
}

// Search looks for term in indexed sessions (via their satellite
// files) and failure patterns, falling back to scanning recent raw
// transcripts when the index has no hits.
func (r *Reporter) Search(projectFolder, term string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Searching for: %q\n\n", term))

	lower := strings.ToLower(term)
	found := false

	idx := r.store.Load(projectFolder)
	for _, id := range index.SortedSessionIDs(idx) {
		sess := idx.Sessions[id]
		var matches []string

		if strings.Contains(strings.ToLower(sess.Summary), lower) {
			matches = append(matches, sess.Summary)
		}
		if detail, ok := r.store.LoadDetail(projectFolder, id); ok {
			for _, m := range detail.UserMessages {
				if strings.Contains(strings.ToLower(m.Content), lower) {
					matches = append(matches, m.Content)
				}
			}
		}

		if len(matches) > 0 {
			found = true
			sb.WriteString(fmt.Sprintf("### %s (%s)\n", formatDate(sess.Date), shortID(id)))
			for i, m := range matches {
				if i >= 3 {
					break
				}
				sb.WriteString(fmt.Sprintf("  > %s...\n", truncate(m, 200)))
			}
			sb.WriteString("\n")
		}
	}

	patternHeader := false
	for cat, entries := range idx.FailurePatterns {
		for _, e := range entries {
			if !strings.Contains(strings.ToLower(e.Command), lower) &&
				!strings.Contains(strings.ToLower(e.Error), lower) {
				continue
			}
			if !patternHeader {
				sb.WriteString("### In Failure Patterns:\n")
				patternHeader = true
			}
			found = true
			sb.WriteString(fmt.Sprintf("  > [%s] `%s`\n", cat, truncate(e.Command, 60)))
		}
	}

	if found {
		return sb.String()
	}

	// Raw-transcript fallback over the ten newest logs.
	logs := transcript.FindSessionLogs(r.store.Paths().ProjectDir(projectFolder))
	for i, f := range logs {
		if i >= 10 {
			break
		}
		raw := transcript.Scan(f, term)
		if len(raw.Matches) == 0 {
			continue
		}
		found = true
		sb.WriteString(fmt.Sprintf("### %s (%s)\n", raw.Date.Format("2006-01-02 15:04"), shortID(raw.SessionID)))
		for j, m := range raw.Matches {
			if j >= 3 {
				break
			}
			sb.WriteString(fmt.Sprintf("  > %s...\n", truncate(m, 200)))
		}
		sb.WriteString("\n")
	}

	if !found {
		sb.WriteString(fmt.Sprintf("No matches found for %q in recent sessions.\n", term))
	}
	return sb.String()
}

// Context renders the session-start block: last session, history
// totals, loaded knowledge, pending hint, recurring failure
// categories, and a possible-continuation hint. Empty string when
// there is no history, so session start stays silent for new projects.
func (r *Reporter) Context(projectFolder string, know knowledge.Set) string {
	idx := r.store.Load(projectFolder)
	ids := index.SortedSessionIDs(idx)
	if len(ids) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Session Context from recall\n\n")

	last := idx.Sessions[ids[0]]
	summary := last.Summary
	if summary == "" {
		summary = "No summary"
	}
	sb.WriteString(fmt.Sprintf("**Last session** (%s): %s\n", timeAgo(last.Date), truncate(summary, 150)))

	if len(ids) > 1 {
		totalFailures := 0
		for _, s := range idx.Sessions {
			totalFailures += s.FailureCount
		}
		sb.WriteString(fmt.Sprintf("**History**: %d sessions, %d total failures\n", len(ids), totalFailures))
	}

	hasKnowledge := false
	for _, items := range know {
		if len(items) > 0 {
			hasKnowledge = true
			break
		}
	}
	if hasKnowledge {
		sb.WriteString("\n**Knowledge loaded:**\n")
		sb.WriteString(knowledge.Summary(know))
		sb.WriteString("\n")
	}

	if n := len(idx.PendingLearnings); n > 0 {
		sb.WriteString(fmt.Sprintf("\n**Pending:** %d learnings awaiting review (`recall learn`)\n", n))
	}

	type recurring struct {
		category string
		count    int
		last     index.FailureEntry
	}
	var significant []recurring
	for cat, entries := range idx.FailurePatterns {
		total := 0
		for _, e := range entries {
			n := e.Count
			if n < 1 {
				n = 1
			}
			total += n
		}
		if total >= 2 && len(entries) > 0 {
			significant = append(significant, recurring{cat, total, entries[len(entries)-1]})
		}
	}
	sort.Slice(significant, func(i, j int) bool {
		if significant[i].count != significant[j].count {
			return significant[i].count > significant[j].count
		}
		return significant[i].category < significant[j].category
	})
	if len(significant) > 0 {
		sb.WriteString("\n**Recurring issues** (use `recall failures` for details):\n")
		for i, rec := range significant {
			if i >= 3 {
				break
			}
			sb.WriteString(fmt.Sprintf("  - %s: %dx (last: `%s...`)\n",
				titleCase(rec.category), rec.count, truncate(rec.last.Command, 50)))
		}
	}

	if detail, ok := r.store.LoadDetail(projectFolder, ids[0]); ok {
		if hint, ok := transcript.ContinuationHint(detail.UserMessages); ok {
			sb.WriteString(fmt.Sprintf("\n**Possible continuation**: %q\n", truncate(hint, 100)+"..."))
		}
	}

	sb.WriteString("\n_Use `recall search` for past sessions, `recall last` for the full previous session_\n")
	return sb.String()
}

// PendingReview renders the pending queue for review.
func (r *Reporter) PendingReview(projectFolder string) string {
	idx := r.store.Load(projectFolder)
	pending := idx.PendingLearnings

	if len(pending) == 0 {
		return "## No Pending Learnings\n\n" +
			"Knowledge extraction happens automatically at session end.\n" +
			"Proposals will appear here for your review.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Pending Learnings (%d items)\n\n", len(pending)))
	for i, l := range pending {
		opposite := "global"
		if l.SuggestedScope == "global" {
			opposite = "project"
		}
		sb.WriteString(fmt.Sprintf("### %d. [%s] %s (id %s)\n", i+1, l.Category, l.Title, l.ID))
		if l.SessionSummary != "" {
			sb.WriteString(fmt.Sprintf("From: %s (%s)\n", l.SessionSummary, dateOnly(l.Timestamp)))
		}
		if l.Description != "" {
			sb.WriteString(fmt.Sprintf("\n  %s\n", l.Description))
		}
		if l.Solution != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", l.Solution))
		}
		sb.WriteString(fmt.Sprintf("\n  Suggested: %s (approve with the opposite flag for %s)\n\n", l.SuggestedScope, opposite))
	}
	sb.WriteString("---\n")
	sb.WriteString("Approve: `recall learn approve <n|id>`, reject: `recall learn reject <n|id>`, all at once: `recall learn --batch`\n")
	return sb.String()
}

// learningKey identifies a learning in the usage map.
func learningKey(l index.Learning) string {
	if l.ID != "" {
		return l.ID
	}
	return l.Title
}

// timeAgo formats an RFC3339 date as a relative age.
func timeAgo(dateStr string) string {
	t, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return dateOnly(dateStr)
	}
	diff := time.Since(t)
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	case diff >= time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff >= time.Minute:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	default:
		return "just now"
	}
}

func formatDate(dateStr string) string {
	t, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		if len(dateStr) > 16 {
			return dateStr[:16]
		}
		return dateStr
	}
	return t.Format("2006-01-02 15:04")
}

func dateOnly(dateStr string) string {
	if len(dateStr) > 10 {
		return dateStr[:10]
	}
	return dateStr
}

// titleCase renders a category name ("not_found" → "Not Found").
func titleCase(cat string) string {
	words := strings.Split(cat, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
