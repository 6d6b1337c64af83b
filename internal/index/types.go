// Package index defines the per-project session index: a single JSON
// document of lightweight session summaries, failure histograms, and
// learnings, plus satellite detail files keyed by session id.
//
// The index is a best-effort local cache. There is no locking and no
// transaction: every operation is load → mutate → save, whole-file
// rewrites only, and concurrent writers race with last-writer-wins.
// Callers that need strict consistency must serialize externally.
package index

// CurrentVersion is the schema version written by Save. Documents with
// older versions are migrated forward on load.
const CurrentVersion = 3

// Index is the root aggregate, one per project.
type Index struct {
	Version          int                       `json:"version"`
	Project          string                    `json:"project"`
	Sessions         map[string]SessionSummary `json:"sessions"`
	FailurePatterns  map[string][]FailureEntry `json:"failure_patterns"`
	Learnings        []Learning                `json:"learnings"`
	PendingLearnings []Learning                `json:"pending_learnings"`
	Usage            Usage                     `json:"usage"`
}

// New returns an empty index for the given project folder.
func New(projectFolder string) *Index {
	return &Index{
		Version:         CurrentVersion,
		Project:         projectFolder,
		Sessions:        map[string]SessionSummary{},
		FailurePatterns: map[string][]FailureEntry{},
		Usage: Usage{
			Skills:         map[string]SkillUsage{},
			LearningsShown: map[string]ShownStat{},
		},
	}
}

// SessionSummary is the lightweight per-session record kept in the
// index. Full content lives in the satellite detail file when
// HasDetails is set.
type SessionSummary struct {
	Date         string   `json:"date"`
	Summary      string   `json:"summary"`
	MessageCount int      `json:"message_count"`
	CommandCount int      `json:"command_count"`
	FailureCount int      `json:"failure_count"`
	SkillCount   int      `json:"skill_count"`
	Topics       []string `json:"topics,omitempty"`
	HasDetails   bool     `json:"has_details"`

	// Flat-schema leftovers. Pre-tiered documents embedded full
	// content per session; migration moves it into satellite files
	// and clears these.
	UserMessages []Message  `json:"user_messages,omitempty"`
	Commands     []Command  `json:"commands,omitempty"`
	Failures     []Failure  `json:"failures,omitempty"`
	SkillsUsed   []SkillUse `json:"skills_used,omitempty"`
}

// Detail is the full-fidelity satellite record for one session.
// Created once at indexing time and never mutated afterwards, except
// by cleanup deletion.
type Detail struct {
	SessionID       string                      `json:"session_id"`
	Date            string                      `json:"date"`
	Summary         string                      `json:"summary"`
	Topics          []string                    `json:"topics"`
	UserMessages    []Message                   `json:"user_messages"`
	Commands        []Command                   `json:"commands"`
	Failures        []Failure                   `json:"failures"`
	FailurePatterns map[string][]PatternExample `json:"failure_patterns"`
	SkillsUsed      []SkillUse                  `json:"skills_used"`
}

// Message is one recorded user message.
type Message struct {
	Index     int    `json:"index"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Command is one recorded shell invocation.
type Command struct {
	Index   int    `json:"index"`
	ToolID  string `json:"tool_id"`
	Command string `json:"command"`
}

// Failure ties a failed command to its error text and the event index
// it originated from.
type Failure struct {
	Command string `json:"command"`
	Error   string `json:"error"`
	Index   int    `json:"index"`
}

// PatternExample is a session-local failure example under a category.
type PatternExample struct {
	Command string `json:"command"`
	Error   string `json:"error"`
}

// FailureEntry is one row of the global per-project failure histogram.
// Count tracks recurrences deduplicated by command prefix.
type FailureEntry struct {
	Command   string `json:"command"`
	Error     string `json:"error"`
	SessionID string `json:"session_id"`
	Date      string `json:"date"`
	Count     int    `json:"count"`
}

// SkillUse is one invocation of a named skill.
type SkillUse struct {
	Skill     string `json:"skill"`
	Timestamp string `json:"timestamp"`
}

// Learning provenance tags.
const (
	SourceFailureResolution = "failure_resolution"
	SourceRepeatedPattern   = "repeated_pattern"
	SourceHeuristic         = "heuristic"
	SourceManual            = "manual"
)

// Learning is a proposed or approved reusable fact. It lives in
// PendingLearnings until approved (moved to Learnings) or rejected
// (deleted); approval is one-way.
type Learning struct {
	ID             string `json:"id"`
	Category       string `json:"category"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Solution       string `json:"solution,omitempty"`
	Source         string `json:"source"`
	SessionID      string `json:"session_id,omitempty"`
	SessionSummary string `json:"session_summary,omitempty"`
	SuggestedScope string `json:"suggested_scope"`
	Timestamp      string `json:"timestamp"`
}

// Usage tracks per-skill and per-learning counters, kept in the main
// index so start-of-session reports never open satellite files.
type Usage struct {
	Skills         map[string]SkillUsage `json:"skills"`
	LearningsShown map[string]ShownStat  `json:"learnings_shown"`
}

// SkillUsage is the running record for one skill.
type SkillUsage struct {
	Count     int      `json:"count"`
	Sessions  []string `json:"sessions"`
	FirstUsed string   `json:"first_used"`
	LastUsed  string   `json:"last_used"`
}

// ShownStat counts how often a learning has been surfaced.
type ShownStat struct {
	Count     int    `json:"count"`
	LastShown string `json:"last_shown"`
}

// ensureMaps backfills nil maps on documents loaded from older or
// hand-edited files so callers never nil-check.
func (idx *Index) ensureMaps() {
	if idx.Sessions == nil {
		idx.Sessions = map[string]SessionSummary{}
	}
	if idx.FailurePatterns == nil {
		idx.FailurePatterns = map[string][]FailureEntry{}
	}
	if idx.Usage.Skills == nil {
		idx.Usage.Skills = map[string]SkillUsage{}
	}
	if idx.Usage.LearningsShown == nil {
		idx.Usage.LearningsShown = map[string]ShownStat{}
	}
}
