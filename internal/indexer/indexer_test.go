package indexer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/index"
)

const testFolder = "-home-user-myrepo"

func newTestIndexer(t *testing.T) (*Indexer, *index.Store) {
	t.Helper()
	cfg := config.DefaultConfig()
	store := index.NewStore(config.Paths{Base: t.TempDir()}, cfg.Limits)
	return New(store, cfg), store
}

// suppressMaintenance pins the probabilistic roll above the threshold
// for the duration of a test.
func suppressMaintenance(t *testing.T) {
	t.Helper()
	forceRoll(t, 1.0)
}

func forceRoll(t *testing.T, v float64) {
	t.Helper()
	prev := maintenanceRoll
	maintenanceRoll = func() float64 { return v }
	t.Cleanup(func() { maintenanceRoll = prev })
}

func writeTranscript(t *testing.T, store *index.Store, name string, lines ...string) {
	t.Helper()
	dir := store.Paths().ProjectDir(testFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexFolderEndToEnd(t *testing.T) {
	suppressMaintenance(t)
	ix, store := newTestIndexer(t)

	writeTranscript(t, store, "sess-1.jsonl",
		`{"type":"user","timestamp":"2026-08-01T10:00:00Z","message":{"content":"Fix the importer crash"}}`,
		`{"type":"assistant","timestamp":"2026-08-01T10:00:05Z","message":{"content":[{"type":"tool_use","name":"Bash","id":"t1","input":{"command":"cat missing.txt"}}]}}`,
		`{"type":"user","timestamp":"2026-08-01T10:00:06Z","message":{"content":[{"type":"tool_result","tool_use_id":"t1","content":"cat: missing.txt: No such file or directory","is_error":true}]}}`,
	)

	res, err := ix.IndexFolder(testFolder)
	if err != nil {
		t.Fatal(err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.SessionID != "sess-1" {
		t.Errorf("session id = %q", res.SessionID)
	}
	if res.Messages != 1 || res.Commands != 1 || res.Failures != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", res.Messages, res.Commands, res.Failures)
	}

	idx := store.Load(testFolder)
	sess, ok := idx.Sessions["sess-1"]
	if !ok {
		t.Fatal("session not indexed")
	}
	if !sess.HasDetails {
		t.Error("summary should point at a detail file")
	}
	if sess.MessageCount != 1 || sess.FailureCount != 1 {
		t.Errorf("summary counts = %d/%d", sess.MessageCount, sess.FailureCount)
	}
	if sess.Summary == "" {
		t.Error("summary text should not be empty")
	}

	detail, ok := store.LoadDetail(testFolder, "sess-1")
	if !ok {
		t.Fatal("detail file missing")
	}
	if detail.Commands[0].Command != "cat missing.txt" {
		t.Errorf("detail command = %q", detail.Commands[0].Command)
	}

	entries := idx.FailurePatterns["not_found"]
	if len(entries) != 1 || entries[0].SessionID != "sess-1" {
		t.Errorf("failure histogram = %+v", idx.FailurePatterns)
	}
}

func TestIndexFolderNoTranscripts(t *testing.T) {
	ix, _ := newTestIndexer(t)
	res, err := ix.IndexFolder(testFolder)
	if err != nil {
		t.Fatal(err)
	}
	if res != nil {
		t.Errorf("expected nil result for an empty project, got %+v", res)
	}
}

func TestReindexOverwritesSession(t *testing.T) {
	suppressMaintenance(t)
	ix, store := newTestIndexer(t)

	writeTranscript(t, store, "sess-1.jsonl",
		`{"type":"user","timestamp":"2026-08-01T10:00:00Z","message":{"content":"first pass"}}`,
	)
	if _, err := ix.IndexFolder(testFolder); err != nil {
		t.Fatal(err)
	}

	writeTranscript(t, store, "sess-1.jsonl",
		`{"type":"user","timestamp":"2026-08-01T10:00:00Z","message":{"content":"first pass"}}`,
		`{"type":"user","timestamp":"2026-08-01T10:05:00Z","message":{"content":"second pass"}}`,
	)
	if _, err := ix.IndexFolder(testFolder); err != nil {
		t.Fatal(err)
	}

	idx := store.Load(testFolder)
	if len(idx.Sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(idx.Sessions))
	}
	if got := idx.Sessions["sess-1"].MessageCount; got != 2 {
		t.Errorf("message count = %d, want 2 after re-index", got)
	}
}

func TestMaintenanceRunsOnLowRoll(t *testing.T) {
	forceRoll(t, 0.0)
	ix, store := newTestIndexer(t)

	writeTranscript(t, store, "sess-1.jsonl",
		`{"type":"user","timestamp":"2026-08-01T10:00:00Z","message":{"content":"hello there"}}`,
	)

	res, err := ix.IndexFolder(testFolder)
	if err != nil {
		t.Fatal(err)
	}
	if !res.MaintenanceRan {
		t.Error("maintenance should run when the roll is under the chance")
	}
}

func TestResultLine(t *testing.T) {
	r := &Result{SessionID: "0123456789ab", Messages: 3, Commands: 2, Failures: 1}
	want := "Indexed session 01234567... (3 messages, 2 commands, 1 failures)"
	if got := r.Line(); got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}

	r.Skills = 2
	if got := r.Line(); !strings.Contains(got, ", 2 skills)") {
		t.Errorf("Line() with skills = %q", got)
	}
}
