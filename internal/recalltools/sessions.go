package recalltools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/report"
)

// SessionsTool handles the recall_sessions MCP tool.
type SessionsTool struct {
	reporter *report.Reporter
}

// NewSessionsTool creates a SessionsTool.
func NewSessionsTool(store *index.Store) *SessionsTool {
	return &SessionsTool{reporter: report.New(store)}
}

// Definition returns the MCP tool definition for recall_sessions.
func (t *SessionsTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_sessions",
		withProjectArgs(
			mcp.WithDescription(
				"List recent coding sessions for a project with their summaries "+
					"and message/failure counts.",
			),
		)...,
	)
}

// Handle processes the recall_sessions tool call.
func (t *SessionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}
	return mcp.NewToolResultText(t.reporter.Sessions(folder)), nil
}

// ─── LastTool ───────────────────────────────────────────────────────────────

// LastTool handles the recall_last MCP tool.
type LastTool struct {
	reporter *report.Reporter
}

// NewLastTool creates a LastTool.
func NewLastTool(store *index.Store) *LastTool {
	return &LastTool{reporter: report.New(store)}
}

// Definition returns the MCP tool definition for recall_last.
func (t *LastTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_last",
		withProjectArgs(
			mcp.WithDescription(
				"Show the previous coding session in full: user messages, stats, "+
					"and any command failures.",
			),
		)...,
	)
}

// Handle processes the recall_last tool call.
func (t *LastTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}
	return mcp.NewToolResultText(t.reporter.LastSession(folder)), nil
}
