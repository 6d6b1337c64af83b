package recalltools

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/index"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

const toolFolder = "-home-user-myrepo"

// newToolStore creates an index.Store in a temp directory for testing.
func newToolStore(t *testing.T) *index.Store {
	t.Helper()
	return index.NewStore(config.Paths{Base: t.TempDir()}, config.DefaultLimits())
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func seedSession(t *testing.T, store *index.Store, id, summary string) {
	t.Helper()
	idx := store.Load(toolFolder)
	idx.Sessions[id] = index.SessionSummary{
		Date:         "2026-08-01T10:00:00Z",
		Summary:      summary,
		MessageCount: 5,
	}
	if err := store.Save(toolFolder, idx); err != nil {
		t.Fatal(err)
	}
}

func seedPending(t *testing.T, store *index.Store, ls ...index.Learning) {
	t.Helper()
	idx := store.Load(toolFolder)
	idx.PendingLearnings = append(idx.PendingLearnings, ls...)
	if err := store.Save(toolFolder, idx); err != nil {
		t.Fatal(err)
	}
}

// ─── SessionsTool tests ──────────────────────────────────────────────────────

func TestSessionsTool_Definition(t *testing.T) {
	def := NewSessionsTool(newToolStore(t)).Definition()

	if def.Name != "recall_sessions" {
		t.Errorf("tool name = %q, want %q", def.Name, "recall_sessions")
	}
	props := def.InputSchema.Properties
	if _, ok := props["cwd"]; !ok {
		t.Error("missing 'cwd' parameter")
	}
	if _, ok := props["project"]; !ok {
		t.Error("missing 'project' parameter")
	}
}

func TestSessionsTool_RequiresProjectArg(t *testing.T) {
	tool := NewSessionsTool(newToolStore(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected an error result without cwd or project")
	}
	if !strings.Contains(resultText(res), "'cwd' or 'project'") {
		t.Errorf("unexpected error text: %q", resultText(res))
	}
}

func TestSessionsTool_ListsIndexedSessions(t *testing.T) {
	store := newToolStore(t)
	seedSession(t, store, "s1", "refactor the importer")
	tool := NewSessionsTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "refactor the importer") {
		t.Errorf("output missing session summary: %q", resultText(res))
	}
}

func TestSessionsTool_AcceptsCwd(t *testing.T) {
	store := newToolStore(t)
	seedSession(t, store, "s1", "wire up websockets")
	tool := NewSessionsTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"cwd": "/home/user/myrepo",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(res), "wire up websockets") {
		t.Errorf("cwd should flatten to the same project: %q", resultText(res))
	}
}

// ─── SearchTool tests ────────────────────────────────────────────────────────

func TestSearchTool_RequiresTerm(t *testing.T) {
	tool := NewSearchTool(newToolStore(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected an error result without a term")
	}
}

func TestSearchTool_MatchesSessionSummary(t *testing.T) {
	store := newToolStore(t)
	seedSession(t, store, "s1", "postgres migration cleanup")
	tool := NewSearchTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
		"term":    "postgres",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(res), "postgres migration cleanup") {
		t.Errorf("search output = %q", resultText(res))
	}
}

// ─── ContextTool tests ───────────────────────────────────────────────────────

func TestContextTool_NoHistory(t *testing.T) {
	tool := NewContextTool(newToolStore(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(res); got != "No session history for this project yet." {
		t.Errorf("empty-project context = %q", got)
	}
}

func TestContextTool_IncludesLastSession(t *testing.T) {
	store := newToolStore(t)
	seedSession(t, store, "s1", "harden the login flow")
	tool := NewContextTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(res), "harden the login flow") {
		t.Errorf("context output = %q", resultText(res))
	}
}

// ─── Learning lifecycle tool tests ───────────────────────────────────────────

func TestLearnApproveTool_WritesGlobalKnowledge(t *testing.T) {
	store := newToolStore(t)
	seedPending(t, store, index.Learning{
		ID:             "abcd1234",
		Category:       "git",
		Title:          "Use --force-with-lease",
		Solution:       "git push --force-with-lease",
		Source:         index.SourceManual,
		SuggestedScope: "global",
	})
	tool := NewLearnApproveTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"cwd": "/home/user/myrepo",
		"ref": "abcd1234",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "Approved") {
		t.Errorf("result = %q", resultText(res))
	}

	idx := store.Load(toolFolder)
	if len(idx.PendingLearnings) != 0 || len(idx.Learnings) != 1 {
		t.Errorf("pending=%d approved=%d, want 0/1", len(idx.PendingLearnings), len(idx.Learnings))
	}

	data, err := os.ReadFile(store.Paths().GlobalKnowledgePath())
	if err != nil {
		t.Fatalf("global knowledge file not written: %v", err)
	}
	if !strings.Contains(string(data), "Use --force-with-lease: git push --force-with-lease") {
		t.Errorf("knowledge file content:\n%s", data)
	}
}

func TestLearnApproveTool_UnknownRef(t *testing.T) {
	tool := NewLearnApproveTool(newToolStore(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
		"ref":     "zzzz",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected an error result for an unknown ref")
	}
}

func TestLearnRejectTool_RemovesPending(t *testing.T) {
	store := newToolStore(t)
	seedPending(t, store, index.Learning{ID: "abcd1234", Title: "Bad idea", SuggestedScope: "project"})
	tool := NewLearnRejectTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
		"ref":     "1",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(res), "Rejected") {
		t.Errorf("result = %q", resultText(res))
	}

	idx := store.Load(toolFolder)
	if len(idx.PendingLearnings) != 0 || len(idx.Learnings) != 0 {
		t.Errorf("rejection must discard, not approve: pending=%d approved=%d",
			len(idx.PendingLearnings), len(idx.Learnings))
	}
}

func TestLearnApproveAllTool(t *testing.T) {
	store := newToolStore(t)
	seedPending(t, store,
		index.Learning{ID: "aaaa1111", Title: "First", SuggestedScope: "global"},
		index.Learning{ID: "bbbb2222", Title: "Second", SuggestedScope: "global"},
	)
	tool := NewLearnApproveAllTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(res); got != "Approved 2 learnings" {
		t.Errorf("result = %q", got)
	}

	idx := store.Load(toolFolder)
	if len(idx.PendingLearnings) != 0 || len(idx.Learnings) != 2 {
		t.Errorf("pending=%d approved=%d, want 0/2", len(idx.PendingLearnings), len(idx.Learnings))
	}
}

func TestLearnApproveAllTool_Empty(t *testing.T) {
	tool := NewLearnApproveAllTool(newToolStore(t))

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(res); got != "No pending learnings." {
		t.Errorf("result = %q", got)
	}
}

// ─── StatsTool tests ─────────────────────────────────────────────────────────

func TestStatsTool_ShowsSkillUsage(t *testing.T) {
	store := newToolStore(t)
	idx := store.Load(toolFolder)
	idx.RecordSkillUse("commit-helper", "s1", "2026-08-01T10:00:00Z", 10)
	if err := store.Save(toolFolder, idx); err != nil {
		t.Fatal(err)
	}
	tool := NewStatsTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project": toolFolder,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(res), "commit-helper") {
		t.Errorf("stats output = %q", resultText(res))
	}
}
