package transcript

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/failures"
	"github.com/recall-dev/recall/internal/index"
)

var (
	// Capitalized-word runs (FooBar, Foo) and snake_case identifiers.
	topicWordRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z]+)*\b|\b[a-z]+(?:_[a-z]+)+\b`)
	// Filesystem-path-like tokens ending in a known extension.
	topicPathRe = regexp.MustCompile(`[\w./~-]+\.(?:py|js|ts|go|rs|json|sh|md|env|yml|yaml)\b`)
)

// Result is the full summarizer output for one session: everything a
// Detail holds, uncapped, plus an Err field for a whole-parse failure.
type Result struct {
	SessionID       string
	Date            string
	Summary         string
	Topics          []string
	UserMessages    []index.Message
	Commands        []index.Command
	Failures        []index.Failure
	FailurePatterns map[string][]index.PatternExample
	SkillsUsed      []index.SkillUse
	Err             string
}

// Summarizer walks a session event log and produces a Result.
type Summarizer struct {
	limits     config.Limits
	classifier *failures.Classifier
}

// NewSummarizer builds a summarizer with the given limits and error
// classifier.
func NewSummarizer(limits config.Limits, classifier *failures.Classifier) *Summarizer {
	return &Summarizer{limits: limits, classifier: classifier}
}

// File summarizes the transcript at path, using its modification time
// as the session's nominal date and its stem as the session id.
func (s *Summarizer) File(path string) *Result {
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	res := s.newResult(id, time.Now())
	f, err := os.Open(path)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		res.Date = info.ModTime().Format(time.RFC3339)
	}

	s.run(res, f)
	return res
}

// Reader summarizes an event log from r. Used by tests and by callers
// that already hold the log content.
func (s *Summarizer) Reader(sessionID string, date time.Time, r io.Reader) *Result {
	res := s.newResult(sessionID, date)
	s.run(res, r)
	return res
}

func (s *Summarizer) newResult(id string, date time.Time) *Result {
	return &Result{
		SessionID:       id,
		Date:            date.Format(time.RFC3339),
		FailurePatterns: map[string][]index.PatternExample{},
	}
}

func (s *Summarizer) run(res *Result, r io.Reader) {
	topics := map[string]bool{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	i := -1
	for scanner.Scan() {
		i++
		var ev event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}

		switch ev.Type {
		case roleUser:
			s.userTurn(res, &ev, i, topics)
		case roleAssistant:
			s.assistantTurn(res, &ev, i)
		}
	}
	if err := scanner.Err(); err != nil {
		res.Err = err.Error()
	}

	res.Topics = sortedTopics(topics)
	res.Summary = s.buildSummary(res)
}

// userTurn records plain-string user messages (and their topics) and
// scans block content for failing tool results.
func (s *Summarizer) userTurn(res *Result, ev *event, i int, topics map[string]bool) {
	if text := ev.Message.text(); text != "" && !strings.HasPrefix(text, "<") {
		res.UserMessages = append(res.UserMessages, index.Message{
			Index:     i,
			Content:   truncate(text, s.limits.MaxMessageLen),
			Timestamp: ev.Timestamp,
		})
		collectTopics(text, topics)
		return
	}

	for _, b := range ev.Message.blocks() {
		if b.Type != "tool_result" {
			continue
		}
		text := b.resultText()
		if !b.IsError && !looksLikeError(text) {
			continue
		}

		cmd, ok := findCommand(res.Commands, b.ToolUseID)
		if !ok {
			continue
		}

		errText := truncate(text, s.limits.MaxErrorLen)
		res.Failures = append(res.Failures, index.Failure{
			Command: cmd.Command,
			Error:   errText,
			Index:   i,
		})

		cat := s.classifier.Classify(errText)
		res.FailurePatterns[cat] = append(res.FailurePatterns[cat], index.PatternExample{
			Command: truncate(cmd.Command, s.limits.MaxPatternCommandLen),
			Error:   errText,
		})
	}
}

// assistantTurn records shell commands and skill invocations.
func (s *Summarizer) assistantTurn(res *Result, ev *event, i int) {
	for _, b := range ev.Message.blocks() {
		if b.Type != "tool_use" {
			continue
		}
		switch b.Name {
		case toolShell:
			if b.Input.Command == "" {
				continue
			}
			res.Commands = append(res.Commands, index.Command{
				Index:   i,
				ToolID:  b.ID,
				Command: truncate(b.Input.Command, s.limits.MaxCommandLen),
			})
		case toolSkill:
			if b.Input.Skill == "" {
				continue
			}
			res.SkillsUsed = append(res.SkillsUsed, index.SkillUse{
				Skill:     b.Input.Skill,
				Timestamp: ev.Timestamp,
			})
		}
	}
}

// buildSummary produces the one-line session summary: the first
// non-trivial user message, tagged with the first skill used, with a
// second message appended when there is room.
func (s *Summarizer) buildSummary(res *Result) string {
	if len(res.UserMessages) == 0 {
		return ""
	}

	var meaningful []string
	for _, m := range res.UserMessages {
		trimmed := strings.TrimSpace(m.Content)
		if trivialMessages[strings.ToLower(trimmed)] {
			continue
		}
		if strings.HasPrefix(m.Content, "/") {
			continue
		}
		if len(trimmed) <= 10 {
			continue
		}
		meaningful = append(meaningful, m.Content)
	}

	if len(meaningful) == 0 {
		// Fall back to the first three raw messages.
		var parts []string
		for i, m := range res.UserMessages {
			if i >= 3 {
				break
			}
			parts = append(parts, truncate(m.Content, 100))
		}
		return strings.Join(parts, " | ")
	}

	summary := truncate(meaningful[0], 150)
	if len(res.SkillsUsed) > 0 {
		tag := res.SkillsUsed[0].Skill
		if idx := strings.LastIndex(tag, ":"); idx >= 0 {
			tag = tag[idx+1:]
		}
		summary = "[" + tag + "] " + summary
	}
	if len(meaningful) > 1 && len(summary) < 120 {
		summary += " | " + truncate(meaningful[1], 60)
	}
	return summary
}

// ContinuationHint returns the last user message when it suggests
// unfinished work, for the session-start context block.
func ContinuationHint(messages []index.Message) (string, bool) {
	if len(messages) == 0 {
		return "", false
	}
	last := messages[len(messages)-1].Content
	lower := strings.ToLower(last)
	for _, w := range continuationWords {
		if strings.Contains(lower, w) {
			return last, true
		}
	}
	return "", false
}

func looksLikeError(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, ind := range errorIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

func findCommand(cmds []index.Command, toolID string) (index.Command, bool) {
	if toolID == "" {
		return index.Command{}, false
	}
	for _, c := range cmds {
		if c.ToolID == toolID {
			return c, true
		}
	}
	return index.Command{}, false
}

func collectTopics(text string, topics map[string]bool) {
	words := topicWordRe.FindAllString(text, -1)
	added := 0
	for _, w := range words {
		if topicStopWords[w] {
			continue
		}
		if added >= 10 {
			break
		}
		topics[w] = true
		added++
	}

	paths := topicPathRe.FindAllString(text, -1)
	for i, p := range paths {
		if i >= 5 {
			break
		}
		if idx := strings.LastIndex(p, "/"); idx >= 0 {
			p = p[idx+1:]
		}
		topics[p] = true
	}
}

// sortedTopics flattens the topic set deterministically, capped at 20.
func sortedTopics(topics map[string]bool) []string {
	out := make([]string, 0, len(topics))
	for t := range topics {
		out = append(out, t)
	}
	sort.Strings(out)
	if len(out) > 20 {
		out = out[:20]
	}
	return out
}

// truncate cuts s to at most n runes.
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
