package cleanup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/transcript"
)

// Analysis classifies a project's indexed sessions and sizes its raw
// transcript footprint, without changing anything.
type Analysis struct {
	TotalSessions     int
	UsefulSessions    []string
	NoiseSessions     []string
	SensitiveSessions []string
	PatternCategories int
	PatternEntries    int
	Learnings         int
	Pending           int
	TranscriptFiles   int
	TranscriptBytes   int64
}

// Analyze builds an Analysis for the project.
func Analyze(store *index.Store, projectFolder string, patterns []string) *Analysis {
	if len(patterns) == 0 {
		patterns = DefaultSensitivePatterns()
	}

	idx := store.Load(projectFolder)
	a := &Analysis{
		TotalSessions:     len(idx.Sessions),
		PatternCategories: len(idx.FailurePatterns),
		Learnings:         len(idx.Learnings),
		Pending:           len(idx.PendingLearnings),
	}

	for _, entries := range idx.FailurePatterns {
		a.PatternEntries += len(entries)
	}

	floor := store.Limits().NoiseMessageFloor
	for id, sess := range idx.Sessions {
		switch {
		case sessionSensitive(store, projectFolder, id, sess, patterns):
			a.SensitiveSessions = append(a.SensitiveSessions, id)
		case sess.MessageCount < floor:
			a.NoiseSessions = append(a.NoiseSessions, id)
		default:
			a.UsefulSessions = append(a.UsefulSessions, id)
		}
	}
	sort.Strings(a.UsefulSessions)
	sort.Strings(a.NoiseSessions)
	sort.Strings(a.SensitiveSessions)

	dir := store.Paths().ProjectDir(projectFolder)
	for _, f := range transcript.FindSessionLogs(dir) {
		a.TranscriptFiles++
		a.TranscriptBytes += f.Size
	}
	for _, f := range transcript.FindAgentLogs(dir) {
		a.TranscriptFiles++
		a.TranscriptBytes += f.Size
	}

	return a
}

// Render formats the analysis as the markdown cleanup report.
func (a *Analysis) Render(indexPath string) string {
	var sb strings.Builder
	sb.WriteString("## Recall Cleanup Analysis\n\n")
	sb.WriteString(fmt.Sprintf("**Index:** `%s`\n\n", indexPath))

	sb.WriteString(fmt.Sprintf("### Sessions: %d total\n", a.TotalSessions))
	sb.WriteString(fmt.Sprintf("  - Useful: %d\n", len(a.UsefulSessions)))
	sb.WriteString(fmt.Sprintf("  - Low-value: %d\n", len(a.NoiseSessions)))
	warn := ""
	if len(a.SensitiveSessions) > 0 {
		warn = " (run `recall cleanup sensitive`)"
	}
	sb.WriteString(fmt.Sprintf("  - Contains sensitive data: %d%s\n\n", len(a.SensitiveSessions), warn))

	if len(a.SensitiveSessions) > 0 {
		sb.WriteString("### Sessions with sensitive data:\n")
		for _, id := range a.SensitiveSessions {
			sb.WriteString(fmt.Sprintf("  - `%s`\n", shortID(id)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("### Failure Patterns: %d categories, %d entries\n", a.PatternCategories, a.PatternEntries))
	if a.PatternEntries > 20 {
		sb.WriteString("  Consider `recall cleanup dedup` to compact recurring entries\n")
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("### Learnings: %d approved, %d pending\n\n", a.Learnings, a.Pending))

	sb.WriteString("### Disk Usage\n")
	sb.WriteString(fmt.Sprintf("  - %d transcript files\n", a.TranscriptFiles))
	sb.WriteString(fmt.Sprintf("  - %.1f MB total\n", float64(a.TranscriptBytes)/1024/1024))
	if a.TranscriptBytes > 50*1024*1024 {
		sb.WriteString("  Consider `recall cleanup jsonl` to remove old transcripts\n")
	}

	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
