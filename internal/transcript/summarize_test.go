package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/failures"
	"github.com/recall-dev/recall/internal/index"
)

func newTestSummarizer() *Summarizer {
	return NewSummarizer(config.DefaultLimits(), failures.NewClassifier(nil))
}

func summarize(t *testing.T, lines ...string) *Result {
	t.Helper()
	s := newTestSummarizer()
	return s.Reader("test-session", time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC), strings.NewReader(strings.Join(lines, "\n")))
}

func userLine(text string) string {
	return `{"type":"user","timestamp":"2026-08-27T10:00:00Z","message":{"content":` + jsonStr(text) + `}}`
}

func bashLine(toolID, cmd string) string {
	return `{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash","id":"` + toolID + `","input":{"command":` + jsonStr(cmd) + `}}]}}`
}

func resultLine(toolID, text string, isError bool) string {
	e := "false"
	if isError {
		e = "true"
	}
	return `{"type":"user","message":{"content":[{"type":"tool_result","tool_use_id":"` + toolID + `","content":` + jsonStr(text) + `,"is_error":` + e + `}]}}`
}

func skillLine(skill string) string {
	return `{"type":"assistant","timestamp":"2026-08-27T10:05:00Z","message":{"content":[{"type":"tool_use","name":"Skill","id":"sk1","input":{"skill":"` + skill + `"}}]}}`
}

func jsonStr(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func TestSummarizeRecordsMessagesAndCommands(t *testing.T) {
	res := summarize(t,
		userLine("please fix the flaky websocket reconnect logic"),
		bashLine("t1", "go test ./internal/ws/..."),
		userLine("looks better now"),
	)

	if len(res.UserMessages) != 2 {
		t.Fatalf("messages = %d, want 2", len(res.UserMessages))
	}
	if res.UserMessages[0].Index != 0 || res.UserMessages[1].Index != 2 {
		t.Errorf("message indices = %d, %d", res.UserMessages[0].Index, res.UserMessages[1].Index)
	}
	if len(res.Commands) != 1 || res.Commands[0].Command != "go test ./internal/ws/..." {
		t.Errorf("commands = %+v", res.Commands)
	}
	if res.Commands[0].ToolID != "t1" {
		t.Errorf("tool id = %q", res.Commands[0].ToolID)
	}
}

func TestSummarizeSkipsSystemInjectedMessages(t *testing.T) {
	res := summarize(t,
		userLine("<system-note>injected</system-note>"),
		userLine("real message from the user here"),
	)
	if len(res.UserMessages) != 1 {
		t.Fatalf("messages = %d, want 1", len(res.UserMessages))
	}
}

func TestSummarizeSkipsMalformedLines(t *testing.T) {
	res := summarize(t,
		"{this is not json",
		userLine("a perfectly valid message line"),
		"",
	)
	if len(res.UserMessages) != 1 {
		t.Errorf("messages = %d, want 1", len(res.UserMessages))
	}
	if res.Err != "" {
		t.Errorf("malformed lines should not set Err, got %q", res.Err)
	}
}

func TestSummarizePairsFailureWithCommand(t *testing.T) {
	res := summarize(t,
		bashLine("t1", "cat /etc/missing.conf"),
		resultLine("t1", "cat: /etc/missing.conf: No such file or directory", true),
	)

	if len(res.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(res.Failures))
	}
	f := res.Failures[0]
	if f.Command != "cat /etc/missing.conf" {
		t.Errorf("failure command = %q", f.Command)
	}
	if !strings.Contains(f.Error, "No such file") {
		t.Errorf("failure error = %q", f.Error)
	}

	examples := res.FailurePatterns["not_found"]
	if len(examples) != 1 {
		t.Fatalf("pattern examples = %+v", res.FailurePatterns)
	}
}

func TestSummarizeDetectsErrorByIndicator(t *testing.T) {
	// is_error false, but the output reads like a failure.
	res := summarize(t,
		bashLine("t1", "npm test"),
		resultLine("t1", "Error: 3 tests failed", false),
	)
	if len(res.Failures) != 1 {
		t.Errorf("indicator-matched failure not recorded: %+v", res.Failures)
	}
}

func TestSummarizeIgnoresSuccessfulResults(t *testing.T) {
	res := summarize(t,
		bashLine("t1", "ls"),
		resultLine("t1", "main.go  go.mod", false),
	)
	if len(res.Failures) != 0 {
		t.Errorf("failures = %+v, want none", res.Failures)
	}
}

func TestSummarizeUnmatchedResultIsDropped(t *testing.T) {
	res := summarize(t,
		resultLine("orphan", "permission denied", true),
	)
	if len(res.Failures) != 0 {
		t.Errorf("orphan result should not produce a failure: %+v", res.Failures)
	}
}

func TestSummarizeRecordsSkills(t *testing.T) {
	res := summarize(t,
		skillLine("tooling:commit-helper"),
		userLine("commit what we have so far please"),
	)
	if len(res.SkillsUsed) != 1 || res.SkillsUsed[0].Skill != "tooling:commit-helper" {
		t.Fatalf("skills = %+v", res.SkillsUsed)
	}
	if !strings.HasPrefix(res.Summary, "[commit-helper] ") {
		t.Errorf("summary = %q, want skill tag prefix", res.Summary)
	}
}

func TestSummaryPicksFirstMeaningfulMessage(t *testing.T) {
	res := summarize(t,
		userLine("ok"),
		userLine("/compact"),
		userLine("refactor the config loader to support env overrides"),
		userLine("yes"),
	)
	if !strings.HasPrefix(res.Summary, "refactor the config loader") {
		t.Errorf("summary = %q", res.Summary)
	}
}

func TestSummaryAppendsSecondMessageWhenShort(t *testing.T) {
	res := summarize(t,
		userLine("add retry logic to the fetcher"),
		userLine("also bump the timeout to thirty seconds"),
	)
	if !strings.Contains(res.Summary, " | also bump the timeout") {
		t.Errorf("summary = %q, want second message appended", res.Summary)
	}
}

func TestSummaryFallsBackToRawMessages(t *testing.T) {
	res := summarize(t,
		userLine("ok"),
		userLine("thanks"),
	)
	if res.Summary != "ok | thanks" {
		t.Errorf("summary = %q, want raw fallback", res.Summary)
	}
}

func TestTopicsExtractedAndSorted(t *testing.T) {
	res := summarize(t,
		userLine("the RateLimiter in rate_limit.go drops requests, check retry_policy too"),
	)

	want := map[string]bool{"RateLimiter": true, "rate_limit.go": true, "retry_policy": true}
	got := map[string]bool{}
	for _, topic := range res.Topics {
		got[topic] = true
	}
	for w := range want {
		if !got[w] {
			t.Errorf("topic %q missing from %v", w, res.Topics)
		}
	}

	for i := 1; i < len(res.Topics); i++ {
		if res.Topics[i-1] > res.Topics[i] {
			t.Fatalf("topics not sorted: %v", res.Topics)
		}
	}
}

func TestTopicsSkipStopWords(t *testing.T) {
	res := summarize(t,
		userLine("The This What should be ignored entirely"),
	)
	for _, topic := range res.Topics {
		if topic == "The" || topic == "This" || topic == "What" {
			t.Errorf("stop word %q leaked into topics", topic)
		}
	}
}

func TestMessageTruncation(t *testing.T) {
	limits := config.DefaultLimits()
	long := strings.Repeat("a", limits.MaxMessageLen+200)

	res := summarize(t, userLine(long))
	if got := len(res.UserMessages[0].Content); got != limits.MaxMessageLen {
		t.Errorf("message length = %d, want %d", got, limits.MaxMessageLen)
	}
}

func TestContinuationHint(t *testing.T) {
	msgs := []index.Message{
		{Content: "fix the parser"},
		{Content: "we can continue with the v2 endpoint tomorrow"},
	}
	hint, ok := ContinuationHint(msgs)
	if !ok || !strings.Contains(hint, "continue") {
		t.Errorf("hint = %q, ok = %v", hint, ok)
	}

	if _, ok := ContinuationHint([]index.Message{{Content: "all done, shipped it"}}); ok {
		t.Error("completed session should not hint continuation")
	}
	if _, ok := ContinuationHint(nil); ok {
		t.Error("empty messages should not hint")
	}
}

func TestFindSessionLogsOrderAndFiltering(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, age time.Duration) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		mt := time.Now().Add(-age)
		if err := os.Chtimes(path, mt, mt); err != nil {
			t.Fatal(err)
		}
	}
	write("older.jsonl", 2*time.Hour)
	write("newest.jsonl", 0)
	write("agent-sub.jsonl", time.Hour)
	write("notes.txt", 0)

	logs := FindSessionLogs(dir)
	if len(logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(logs))
	}
	if logs[0].SessionID() != "newest" || logs[1].SessionID() != "older" {
		t.Errorf("order = %s, %s", logs[0].SessionID(), logs[1].SessionID())
	}

	agents := FindAgentLogs(dir)
	if len(agents) != 1 || agents[0].SessionID() != "agent-sub" {
		t.Errorf("agent logs = %+v", agents)
	}
}

func TestFindSessionLogsMissingDir(t *testing.T) {
	if logs := FindSessionLogs(filepath.Join(t.TempDir(), "nope")); logs != nil {
		t.Errorf("missing dir should yield nil, got %v", logs)
	}
}

func TestScanCollectsMatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sess.jsonl")
	content := strings.Join([]string{
		userLine("set up the postgres connection pool"),
		userLine("unrelated chatter"),
		"{bad line",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	raw := Scan(LogFile{Path: path, ModTime: time.Now()}, "postgres")
	if raw.SessionID != "sess" {
		t.Errorf("session id = %q", raw.SessionID)
	}
	if len(raw.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(raw.Messages))
	}
	if len(raw.Matches) != 1 || !strings.Contains(raw.Matches[0], "postgres") {
		t.Errorf("matches = %v", raw.Matches)
	}
}
