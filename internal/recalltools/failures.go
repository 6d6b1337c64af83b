package recalltools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/report"
)

// FailuresTool handles the recall_failures MCP tool.
type FailuresTool struct {
	reporter *report.Reporter
}

// NewFailuresTool creates a FailuresTool.
func NewFailuresTool(store *index.Store) *FailuresTool {
	return &FailuresTool{reporter: report.New(store)}
}

// Definition returns the MCP tool definition for recall_failures.
func (t *FailuresTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_failures",
		withProjectArgs(
			mcp.WithDescription(
				"Show approved learnings and recurring command-failure patterns "+
					"for a project, ranked by occurrence count.",
			),
		)...,
	)
}

// Handle processes the recall_failures tool call.
func (t *FailuresTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}
	return mcp.NewToolResultText(t.reporter.Failures(folder)), nil
}

// ─── SearchTool ─────────────────────────────────────────────────────────────

// SearchTool handles the recall_search MCP tool.
type SearchTool struct {
	reporter *report.Reporter
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(store *index.Store) *SearchTool {
	return &SearchTool{reporter: report.New(store)}
}

// Definition returns the MCP tool definition for recall_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_search",
		withProjectArgs(
			mcp.WithDescription(
				"Search past sessions for a term. Looks through indexed session "+
					"messages and failure patterns, falling back to raw transcripts.",
			),
			mcp.WithString("term",
				mcp.Required(),
				mcp.Description("Text to search for (case-insensitive)"),
			),
		)...,
	)
}

// Handle processes the recall_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}
	term := req.GetString("term", "")
	if term == "" {
		return mcp.NewToolResultError("'term' is required"), nil
	}
	return mcp.NewToolResultText(t.reporter.Search(folder, term)), nil
}

// ─── StatsTool ──────────────────────────────────────────────────────────────

// StatsTool handles the recall_stats MCP tool.
type StatsTool struct {
	reporter *report.Reporter
}

// NewStatsTool creates a StatsTool.
func NewStatsTool(store *index.Store) *StatsTool {
	return &StatsTool{reporter: report.New(store)}
}

// Definition returns the MCP tool definition for recall_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_stats",
		withProjectArgs(
			mcp.WithDescription(
				"Show usage statistics: skill invocation counts and how often "+
					"each learning has been surfaced.",
			),
		)...,
	)
}

// Handle processes the recall_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}
	return mcp.NewToolResultText(t.reporter.Usage(folder)), nil
}
