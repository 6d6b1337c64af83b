// Package cleanup implements the maintenance passes over a project's
// recall data: satellite-file pruning, raw-transcript aging, noise and
// sensitive-session removal, and failure-pattern compaction. Every
// action supports dry-run and degrades silently on unreadable files.
package cleanup

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/failures"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/transcript"
)

// DefaultSensitivePatterns flags sessions whose content should not
// linger in a local cache. Matching is case-insensitive substring.
func DefaultSensitivePatterns() []string {
	return []string{
		"BEGIN OPENSSH", "BEGIN RSA", "API_KEY=", "SECRET=", "TOKEN=", "password",
	}
}

// Noise removes indexed sessions with fewer than limits.NoiseMessageFloor
// messages, deleting their detail files too. Returns removed ids.
func Noise(store *index.Store, projectFolder string, dryRun bool) ([]string, error) {
	idx := store.Load(projectFolder)
	floor := store.Limits().NoiseMessageFloor

	var removed []string
	for id, sess := range idx.Sessions {
		if sess.MessageCount >= floor {
			continue
		}
		removed = append(removed, id)
		if dryRun {
			continue
		}
		delete(idx.Sessions, id)
		store.DeleteDetail(projectFolder, id)
	}
	sort.Strings(removed)

	if dryRun || len(removed) == 0 {
		return removed, nil
	}
	return removed, store.Save(projectFolder, idx)
}

// Sensitive removes sessions whose summary, topics, or detail content
// matches any of the given patterns (DefaultSensitivePatterns when
// empty). Returns removed ids.
func Sensitive(store *index.Store, projectFolder string, patterns []string, dryRun bool) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultSensitivePatterns()
	}
	idx := store.Load(projectFolder)

	var removed []string
	for id, sess := range idx.Sessions {
		if !sessionSensitive(store, projectFolder, id, sess, patterns) {
			continue
		}
		removed = append(removed, id)
		if dryRun {
			continue
		}
		delete(idx.Sessions, id)
		store.DeleteDetail(projectFolder, id)
	}
	sort.Strings(removed)

	if dryRun || len(removed) == 0 {
		return removed, nil
	}
	return removed, store.Save(projectFolder, idx)
}

func sessionSensitive(store *index.Store, projectFolder, id string, sess index.SessionSummary, patterns []string) bool {
	if matchesAny(sess.Summary, patterns) {
		return true
	}
	for _, t := range sess.Topics {
		if matchesAny(t, patterns) {
			return true
		}
	}

	detail, ok := store.LoadDetail(projectFolder, id)
	if !ok {
		return false
	}
	for _, m := range detail.UserMessages {
		if matchesAny(m.Content, patterns) {
			return true
		}
	}
	for _, c := range detail.Commands {
		if matchesAny(c.Command, patterns) {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []string) bool {
	lower := strings.ToLower(s)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// Dedup runs the failure-pattern compaction pass and saves the index.
// Returns the number of entries merged away.
func Dedup(store *index.Store, projectFolder string, dryRun bool) (int, error) {
	idx := store.Load(projectFolder)
	merged := failures.Compact(idx.FailurePatterns, store.Limits().DedupPrefixLen)
	if dryRun || merged == 0 {
		return merged, nil
	}
	return merged, store.Save(projectFolder, idx)
}

// PruneDetails removes the oldest satellite files beyond the
// retained-count cap. Returns the number removed.
func PruneDetails(paths config.Paths, projectFolder string, keep int, dryRun bool) int {
	dir := paths.DetailsDir(projectFolder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	type detailFile struct {
		path    string
		modTime time.Time
	}
	var files []detailFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, detailFile{path: filepath.Join(dir, e.Name()), modTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.After(files[j].modTime) })

	removed := 0
	for _, f := range files[min(keep, len(files)):] {
		if !dryRun {
			if err := os.Remove(f.path); err != nil {
				continue
			}
		}
		removed++
	}
	return removed
}

// JSONL removes old raw transcripts: primary session logs older than
// SessionLogMaxAge (the newest SessionLogKeep are kept regardless of
// age) and subordinate agent logs older than AgentLogMaxAge. Returns
// bytes freed and files removed.
func JSONL(paths config.Paths, projectFolder string, limits config.Limits, dryRun bool) (int64, int) {
	dir := paths.ProjectDir(projectFolder)
	now := time.Now()

	var freed int64
	removed := 0

	sessions := transcript.FindSessionLogs(dir) // newest first
	for i, f := range sessions {
		if i < limits.SessionLogKeep {
			continue
		}
		if now.Sub(f.ModTime) <= limits.SessionLogMaxAge {
			continue
		}
		if !dryRun {
			if err := os.Remove(f.Path); err != nil {
				continue
			}
		}
		freed += f.Size
		removed++
	}

	for _, f := range transcript.FindAgentLogs(dir) {
		if now.Sub(f.ModTime) <= limits.AgentLogMaxAge {
			continue
		}
		if !dryRun {
			if err := os.Remove(f.Path); err != nil {
				continue
			}
		}
		freed += f.Size
		removed++
	}

	return freed, removed
}
