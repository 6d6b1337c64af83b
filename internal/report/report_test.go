package report

import (
	"strings"
	"testing"

	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/knowledge"
)

const testFolder = "-home-user-myrepo"

func newTestReporter(t *testing.T) (*Reporter, *index.Store) {
	t.Helper()
	store := index.NewStore(config.Paths{Base: t.TempDir()}, config.DefaultLimits())
	return New(store), store
}

func addSession(t *testing.T, store *index.Store, id, date, summary string, msgs, fails int) {
	t.Helper()
	idx := store.Load(testFolder)
	idx.Sessions[id] = index.SessionSummary{
		Date:         date,
		Summary:      summary,
		MessageCount: msgs,
		FailureCount: fails,
	}
	if err := store.Save(testFolder, idx); err != nil {
		t.Fatal(err)
	}
}

func TestSessionsMarksNewestAsCurrent(t *testing.T) {
	r, store := newTestReporter(t)
	addSession(t, store, "older", "2026-08-01T10:00:00Z", "fix the parser", 4, 0)
	addSession(t, store, "newer", "2026-08-02T10:00:00Z", "add retry logic", 6, 1)

	out := r.Sessions(testFolder)
	lines := strings.Split(out, "\n")

	var currentLine string
	for _, l := range lines {
		if strings.Contains(l, "(current)") {
			currentLine = l
		}
	}
	if !strings.Contains(currentLine, "2026-08-02") {
		t.Errorf("newest session should carry the current marker:\n%s", out)
	}
	if !strings.Contains(out, "fix the parser") || !strings.Contains(out, "add retry logic") {
		t.Errorf("both summaries should appear:\n%s", out)
	}
}

func TestLastSessionSkipsCurrent(t *testing.T) {
	r, store := newTestReporter(t)
	addSession(t, store, "prev", "2026-08-01T10:00:00Z", "previous work", 2, 1)
	addSession(t, store, "cur", "2026-08-02T10:00:00Z", "current work", 3, 0)
	if err := store.SaveDetail(testFolder, &index.Detail{
		SessionID:    "prev",
		UserMessages: []index.Message{{Index: 0, Content: "please fix the login bug"}},
		Failures:     []index.Failure{{Command: "go test ./...", Error: "FAIL auth"}},
	}); err != nil {
		t.Fatal(err)
	}

	out := r.LastSession(testFolder)
	if !strings.Contains(out, "please fix the login bug") {
		t.Errorf("previous session messages missing:\n%s", out)
	}
	if !strings.Contains(out, "go test ./...") {
		t.Errorf("previous session failures missing:\n%s", out)
	}
	if strings.Contains(out, "current work") {
		t.Errorf("current session must be skipped:\n%s", out)
	}
}

func TestLastSessionSingleSession(t *testing.T) {
	r, store := newTestReporter(t)
	addSession(t, store, "only", "2026-08-01T10:00:00Z", "just this one", 2, 0)

	out := r.LastSession(testFolder)
	if !strings.Contains(out, "No previous session") {
		t.Errorf("expected the no-previous message, got:\n%s", out)
	}
}

func TestFailuresBumpsShownCounters(t *testing.T) {
	r, store := newTestReporter(t)
	idx := store.Load(testFolder)
	idx.Learnings = []index.Learning{{ID: "abcd1234", Category: "git", Title: "Rebase before push"}}
	idx.FailurePatterns["not_found"] = []index.FailureEntry{
		{Command: "cat gone.txt", Error: "No such file", Date: "2026-08-01T10:00:00Z", Count: 3},
	}
	if err := store.Save(testFolder, idx); err != nil {
		t.Fatal(err)
	}

	out := r.Failures(testFolder)
	if !strings.Contains(out, "Rebase before push") {
		t.Errorf("learnings section missing:\n%s", out)
	}
	if !strings.Contains(out, "Not Found (3 occurrences)") {
		t.Errorf("ranked category missing:\n%s", out)
	}

	reloaded := store.Load(testFolder)
	if got := reloaded.Usage.LearningsShown["abcd1234"].Count; got != 1 {
		t.Errorf("shown count = %d, want 1 after one render", got)
	}
}

func TestContextEmptyForNewProject(t *testing.T) {
	r, _ := newTestReporter(t)
	if out := r.Context(testFolder, knowledge.Set{}); out != "" {
		t.Errorf("new project context should be empty, got:\n%s", out)
	}
}

func TestContextRecurringIssuesRanked(t *testing.T) {
	r, store := newTestReporter(t)
	addSession(t, store, "s1", "2026-08-01T10:00:00Z", "work", 5, 2)
	idx := store.Load(testFolder)
	idx.FailurePatterns["not_found"] = []index.FailureEntry{
		{Command: "cat a", Count: 2}, {Command: "cat b", Count: 3},
	}
	idx.FailurePatterns["permission"] = []index.FailureEntry{
		{Command: "rm /etc/x", Count: 2},
	}
	idx.FailurePatterns["timeout"] = []index.FailureEntry{
		{Command: "curl slow", Count: 1},
	}
	if err := store.Save(testFolder, idx); err != nil {
		t.Fatal(err)
	}

	out := r.Context(testFolder, knowledge.Set{})
	nf := strings.Index(out, "Not Found: 5x")
	perm := strings.Index(out, "Permission: 2x")
	if nf == -1 || perm == -1 || nf > perm {
		t.Errorf("recurring issues should be ranked by count:\n%s", out)
	}
	if strings.Contains(out, "Timeout") {
		t.Errorf("single-occurrence categories should not appear:\n%s", out)
	}
}

func TestPendingReviewNumbersItems(t *testing.T) {
	r, store := newTestReporter(t)
	idx := store.Load(testFolder)
	idx.PendingLearnings = []index.Learning{
		{ID: "aaaa1111", Category: "shell", Title: "Quote globs", SuggestedScope: "project"},
		{ID: "bbbb2222", Category: "git", Title: "Fetch before rebase", SuggestedScope: "global"},
	}
	if err := store.Save(testFolder, idx); err != nil {
		t.Fatal(err)
	}

	out := r.PendingReview(testFolder)
	if !strings.Contains(out, "### 1. [shell] Quote globs (id aaaa1111)") {
		t.Errorf("first item missing or misnumbered:\n%s", out)
	}
	if !strings.Contains(out, "### 2. [git] Fetch before rebase (id bbbb2222)") {
		t.Errorf("second item missing or misnumbered:\n%s", out)
	}
}

func TestPendingReviewEmpty(t *testing.T) {
	r, _ := newTestReporter(t)
	out := r.PendingReview(testFolder)
	if !strings.Contains(out, "No Pending Learnings") {
		t.Errorf("empty queue message missing:\n%s", out)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"not_found":  "Not Found",
		"permission": "Permission",
		"":           "",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
