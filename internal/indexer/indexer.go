// Package indexer is the tiered persistence manager: it turns a raw
// session transcript into a satellite detail file plus a lightweight
// index entry, folds the session's failures into the project
// histogram, queues learning proposals, and occasionally runs
// maintenance over the satellite and transcript tiers.
package indexer

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/recall-dev/recall/internal/cleanup"
	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/failures"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/learning"
	"github.com/recall-dev/recall/internal/transcript"
)

// maintenanceRoll is a package var so tests can force or suppress the
// probabilistic maintenance pass.
var maintenanceRoll = rand.Float64

// Indexer orchestrates one indexing pass.
type Indexer struct {
	store      *index.Store
	cfg        config.Config
	summarizer *transcript.Summarizer
	extractor  *learning.Extractor
}

// Result reports what one indexing pass recorded.
type Result struct {
	SessionID      string
	Messages       int
	Commands       int
	Failures       int
	Skills         int
	Proposals      int
	MaintenanceRan bool
	FreedBytes     int64
	RemovedFiles   int
}

// Line is the one-line summary printed after indexing.
func (r *Result) Line() string {
	skills := ""
	if r.Skills > 0 {
		skills = fmt.Sprintf(", %d skills", r.Skills)
	}
	return fmt.Sprintf("Indexed session %s (%d messages, %d commands, %d failures%s)",
		shortID(r.SessionID), r.Messages, r.Commands, r.Failures, skills)
}

// New builds an indexer over a store and configuration.
func New(store *index.Store, cfg config.Config) *Indexer {
	errClass := failures.NewClassifier(cfg.ErrorRules)
	learnClass := failures.NewLearningClassifier(cfg.LearningRules)
	return &Indexer{
		store:      store,
		cfg:        cfg,
		summarizer: transcript.NewSummarizer(cfg.Limits, errClass),
		extractor:  learning.NewExtractor(learnClass, cfg.Limits.ExtractionTimeout),
	}
}

// IndexProject summarizes and indexes the project's most recent
// session transcript. Returns nil (no error) when the project has no
// transcripts at all; nothing to index is not a failure.
func (ix *Indexer) IndexProject(cwd string) (*Result, error) {
	return ix.IndexFolder(config.ProjectFolder(cwd))
}

// IndexFolder is IndexProject for an already-flattened folder name.
func (ix *Indexer) IndexFolder(projectFolder string) (*Result, error) {
	logs := transcript.FindSessionLogs(ix.store.Paths().ProjectDir(projectFolder))
	if len(logs) == 0 {
		return nil, nil
	}

	res := ix.summarizer.File(logs[0].Path)
	return ix.IndexResult(projectFolder, res)
}

// IndexResult persists a summarized session: detail file first, then
// the index upsert, failure merge, usage counters, proposals, prune,
// and save. Re-indexing a session id overwrites its entry.
func (ix *Indexer) IndexResult(projectFolder string, res *transcript.Result) (*Result, error) {
	lim := ix.cfg.Limits

	detail := buildDetail(res, lim)
	if err := ix.store.SaveDetail(projectFolder, detail); err != nil {
		return nil, fmt.Errorf("writing session detail: %w", err)
	}

	idx := ix.store.Load(projectFolder)

	idx.Sessions[res.SessionID] = buildSummary(res, lim)

	for _, use := range res.SkillsUsed {
		idx.RecordSkillUse(use.Skill, res.SessionID, res.Date, lim.SkillSessionsCap)
	}

	for cat, examples := range res.FailurePatterns {
		idx.FailurePatterns[cat] = failures.Merge(
			idx.FailurePatterns[cat], examples, res.SessionID, res.Date, lim)
	}

	proposals := 0
	for _, l := range ix.extractor.Run(res) {
		if learning.Propose(idx, l) {
			proposals++
		}
	}

	if err := ix.store.Save(projectFolder, idx); err != nil {
		return nil, fmt.Errorf("saving index: %w", err)
	}

	out := &Result{
		SessionID: res.SessionID,
		Messages:  len(res.UserMessages),
		Commands:  len(res.Commands),
		Failures:  len(res.Failures),
		Skills:    len(res.SkillsUsed),
		Proposals: proposals,
	}

	if maintenanceRoll() < lim.MaintenanceChance {
		out.MaintenanceRan = true
		out.RemovedFiles = cleanup.PruneDetails(ix.store.Paths(), projectFolder, lim.DetailKeepCount, false)
		freed, removed := cleanup.JSONL(ix.store.Paths(), projectFolder, lim, false)
		out.FreedBytes = freed
		out.RemovedFiles += removed
	}

	return out, nil
}

// buildDetail caps the summarizer output into the satellite record.
func buildDetail(res *transcript.Result, lim config.Limits) *index.Detail {
	return &index.Detail{
		SessionID:       res.SessionID,
		Date:            res.Date,
		Summary:         res.Summary,
		Topics:          res.Topics,
		UserMessages:    capMessages(res.UserMessages, lim.MaxDetailMessages),
		Commands:        capCommands(res.Commands, lim.MaxDetailCommands),
		Failures:        capFailures(res.Failures, lim.MaxDetailFailures),
		FailurePatterns: res.FailurePatterns,
		SkillsUsed:      capSkills(res.SkillsUsed, lim.MaxDetailSkills),
	}
}

// buildSummary derives the lightweight index entry.
func buildSummary(res *transcript.Result, lim config.Limits) index.SessionSummary {
	summary := res.Summary
	if summary == "" {
		var parts []string
		for i, m := range res.UserMessages {
			if i >= 3 {
				break
			}
			c := m.Content
			if len(c) > 80 {
				c = c[:80]
			}
			parts = append(parts, c)
		}
		summary = strings.Join(parts, " | ")
	}
	if len(summary) > lim.MaxSummaryLen {
		summary = summary[:lim.MaxSummaryLen]
	}

	topics := res.Topics
	if len(topics) > 10 {
		topics = topics[:10]
	}

	return index.SessionSummary{
		Date:         res.Date,
		Summary:      summary,
		MessageCount: len(res.UserMessages),
		CommandCount: len(res.Commands),
		FailureCount: len(res.Failures),
		SkillCount:   len(res.SkillsUsed),
		Topics:       topics,
		HasDetails:   true,
	}
}

func capMessages(in []index.Message, n int) []index.Message {
	if n > 0 && len(in) > n {
		return in[:n]
	}
	return in
}

func capCommands(in []index.Command, n int) []index.Command {
	if n > 0 && len(in) > n {
		return in[:n]
	}
	return in
}

func capFailures(in []index.Failure, n int) []index.Failure {
	if n > 0 && len(in) > n {
		return in[:n]
	}
	return in
}

func capSkills(in []index.SkillUse, n int) []index.SkillUse {
	if n > 0 && len(in) > n {
		return in[:n]
	}
	return in
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
