// Package transcript parses session event logs (line-delimited JSON
// records of user and assistant turns) and summarizes them into the
// structured session records the index stores. Malformed lines are skipped; a whole-file failure is
// captured on the result rather than propagated.
package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Event roles in the log's type discriminator.
const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

// Tool names recognized by the summarizer.
const (
	toolShell = "Bash"
	toolSkill = "Skill"
)

// event is one line of the log.
type event struct {
	Type      string   `json:"type"`
	Timestamp string   `json:"timestamp"`
	Message   *message `json:"message"`
}

// message content is either a plain string or a list of typed blocks.
type message struct {
	Content json.RawMessage `json:"content"`
}

// text returns the content as a plain string, or "" if it is a block
// list.
func (m *message) text() string {
	if m == nil || len(m.Content) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m.Content, &s); err != nil {
		return ""
	}
	return s
}

// blocks returns the content as a block list, or nil if it is a plain
// string.
func (m *message) blocks() []block {
	if m == nil || len(m.Content) == 0 {
		return nil
	}
	var bs []block
	if err := json.Unmarshal(m.Content, &bs); err != nil {
		return nil
	}
	return bs
}

// block is one typed content block inside a turn.
type block struct {
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	ID        string          `json:"id"`
	Input     blockInput      `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
	IsError   bool            `json:"is_error"`
}

type blockInput struct {
	Command string `json:"command"`
	Skill   string `json:"skill"`
}

// resultText flattens a tool result's content to a string. Results
// carry either a plain string or structured blocks; for the latter the
// raw JSON stands in, which is enough for substring matching.
func (b *block) resultText() string {
	if len(b.Content) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Content, &s); err == nil {
		return s
	}
	return string(b.Content)
}

// LogFile is one raw transcript on disk.
type LogFile struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// SessionID is the log's filename without extension.
func (f LogFile) SessionID() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FindSessionLogs lists primary session transcripts in dir, newest
// first by modification time. Subordinate agent logs are excluded.
// A missing directory yields an empty list.
func FindSessionLogs(dir string) []LogFile {
	return findLogs(dir, false)
}

// FindAgentLogs lists subordinate agent transcripts in dir, newest
// first.
func FindAgentLogs(dir string) []LogFile {
	return findLogs(dir, true)
}

func findLogs(dir string, agents bool) []LogFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []LogFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		if strings.HasPrefix(e.Name(), "agent-") != agents {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, LogFile{
			Path:    filepath.Join(dir, e.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out
}
