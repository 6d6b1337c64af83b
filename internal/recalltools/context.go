package recalltools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/knowledge"
	"github.com/recall-dev/recall/internal/report"
)

// ContextTool handles the recall_context MCP tool.
type ContextTool struct {
	store    *index.Store
	reporter *report.Reporter
}

// NewContextTool creates a ContextTool.
func NewContextTool(store *index.Store) *ContextTool {
	return &ContextTool{store: store, reporter: report.New(store)}
}

// Definition returns the MCP tool definition for recall_context.
func (t *ContextTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_context",
		withProjectArgs(
			mcp.WithDescription(
				"Build the session-start context block: last session summary, "+
					"history totals, loaded knowledge, pending learnings, and "+
					"recurring issues. Returns nothing for projects with no history.",
			),
		)...,
	)
}

// Handle processes the recall_context tool call.
func (t *ContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}

	// Project knowledge needs a real directory; without cwd only
	// global knowledge loads.
	cwd := req.GetString("cwd", "")
	know := knowledge.NewStore(t.store.Paths(), cwd).All()

	out := t.reporter.Context(folder, know)
	if out == "" {
		return mcp.NewToolResultText("No session history for this project yet."), nil
	}
	return mcp.NewToolResultText(out), nil
}
