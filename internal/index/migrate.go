package index

import (
	"encoding/json"
	"os"
)

// migrate brings a loaded document forward to CurrentVersion. All
// steps are best-effort: a failed satellite write leaves that session
// in its old shape rather than failing the load.
//
// v1 → v2: the flat schema embedded full message/command/failure lists
// in each session summary. Tiering moves that content into satellite
// detail files and slims the summary down.
//
// v2 → v3: pending learnings move from a shared cross-project file
// into the per-project index. A leftover global file is folded in;
// Load removes it once the migrated index has been written, so the
// items survive even when the caller never saves.
func (s *Store) migrate(projectFolder string, idx *Index) {
	if idx.Version < 2 {
		s.migrateTiered(projectFolder, idx)
		idx.Version = 2
	}
	if idx.Version < 3 {
		s.migratePending(idx)
		idx.Version = 3
	}
}

func (s *Store) migrateTiered(projectFolder string, idx *Index) {
	for id, sess := range idx.Sessions {
		if sess.HasDetails {
			continue
		}
		if len(sess.UserMessages) == 0 && len(sess.Failures) == 0 {
			continue
		}

		detail := &Detail{
			SessionID:    id,
			Date:         sess.Date,
			Summary:      sess.Summary,
			Topics:       sess.Topics,
			UserMessages: sess.UserMessages,
			Commands:     sess.Commands,
			Failures:     sess.Failures,
			SkillsUsed:   sess.SkillsUsed,
		}
		if err := s.SaveDetail(projectFolder, detail); err != nil {
			continue
		}

		summary := sess.Summary
		if summary == "" {
			summary = flatSummary(sess.UserMessages)
		}
		if len(summary) > s.limits.MaxSummaryLen {
			summary = summary[:s.limits.MaxSummaryLen]
		}

		slim := SessionSummary{
			Date:         sess.Date,
			Summary:      summary,
			MessageCount: sess.MessageCount,
			CommandCount: sess.CommandCount,
			FailureCount: sess.FailureCount,
			SkillCount:   sess.SkillCount,
			Topics:       sess.Topics,
			HasDetails:   true,
		}
		if slim.MessageCount == 0 {
			slim.MessageCount = len(sess.UserMessages)
		}
		if slim.CommandCount == 0 {
			slim.CommandCount = len(sess.Commands)
		}
		if slim.FailureCount == 0 {
			slim.FailureCount = len(sess.Failures)
		}
		if slim.SkillCount == 0 {
			slim.SkillCount = len(sess.SkillsUsed)
		}
		if len(slim.Topics) > 10 {
			slim.Topics = slim.Topics[:10]
		}
		idx.Sessions[id] = slim
	}
}

// legacyPendingFile is the old global pending-learnings document.
type legacyPendingFile struct {
	Pending []Learning `json:"pending"`
}

func (s *Store) migratePending(idx *Index) {
	path := s.paths.LegacyPendingPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var legacy legacyPendingFile
	if err := json.Unmarshal(data, &legacy); err != nil {
		_ = os.Remove(path)
		return
	}

	have := map[string]bool{}
	for _, l := range idx.PendingLearnings {
		have[l.Title] = true
	}
	for _, l := range idx.Learnings {
		have[l.Title] = true
	}
	for _, l := range legacy.Pending {
		if l.Title == "" || have[l.Title] {
			continue
		}
		idx.PendingLearnings = append(idx.PendingLearnings, l)
		have[l.Title] = true
	}
}

// flatSummary rebuilds a summary line from embedded flat-schema
// messages, the way pre-tiered documents displayed sessions.
func flatSummary(msgs []Message) string {
	out := ""
	for i, m := range msgs {
		if i >= 3 {
			break
		}
		c := m.Content
		if len(c) > 80 {
			c = c[:80]
		}
		if out != "" {
			out += " | "
		}
		out += c
	}
	return out
}
