package recalltools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/knowledge"
	"github.com/recall-dev/recall/internal/learning"
	"github.com/recall-dev/recall/internal/report"
)

// LearnListTool handles the recall_learn_list MCP tool.
type LearnListTool struct {
	reporter *report.Reporter
}

// NewLearnListTool creates a LearnListTool.
func NewLearnListTool(store *index.Store) *LearnListTool {
	return &LearnListTool{reporter: report.New(store)}
}

// Definition returns the MCP tool definition for recall_learn_list.
func (t *LearnListTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_learn_list",
		withProjectArgs(
			mcp.WithDescription(
				"List pending learnings extracted from past sessions, awaiting "+
					"approval or rejection.",
			),
		)...,
	)
}

// Handle processes the recall_learn_list tool call.
func (t *LearnListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}
	return mcp.NewToolResultText(t.reporter.PendingReview(folder)), nil
}

// ─── LearnApproveTool ───────────────────────────────────────────────────────

// LearnApproveTool handles the recall_learn_approve MCP tool.
type LearnApproveTool struct {
	store *index.Store
}

// NewLearnApproveTool creates a LearnApproveTool.
func NewLearnApproveTool(store *index.Store) *LearnApproveTool {
	return &LearnApproveTool{store: store}
}

// Definition returns the MCP tool definition for recall_learn_approve.
func (t *LearnApproveTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_learn_approve",
		withProjectArgs(
			mcp.WithDescription(
				"Approve a pending learning. The item moves to the approved list "+
					"and is written into the knowledge file for its scope.",
			),
			mcp.WithString("ref",
				mcp.Required(),
				mcp.Description("Learning id, unique id prefix, or 1-based position"),
			),
			mcp.WithString("scope",
				mcp.Description("Override scope: 'project' or 'global' (default: the learning's suggestion)"),
			),
		)...,
	)
}

// Handle processes the recall_learn_approve tool call.
func (t *LearnApproveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}
	ref := req.GetString("ref", "")
	if ref == "" {
		return mcp.NewToolResultError("'ref' is required"), nil
	}

	idx := t.store.Load(folder)
	l, ok := learning.Approve(idx, ref)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no pending learning matches %q", ref)), nil
	}
	if err := t.store.Save(folder, idx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save index: %v", err)), nil
	}

	scope := req.GetString("scope", l.SuggestedScope)
	know := knowledge.NewStore(t.store.Paths(), req.GetString("cwd", ""))
	if know.Add(learning.KnowledgeItem(l), knowledge.CategoryGotchas, scope) {
		return mcp.NewToolResultText(fmt.Sprintf("Approved %q (added to %s knowledge)", l.Title, scope)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Approved %q (knowledge file not updated; pass cwd for project scope)", l.Title)), nil
}

// ─── LearnRejectTool ────────────────────────────────────────────────────────

// LearnRejectTool handles the recall_learn_reject MCP tool.
type LearnRejectTool struct {
	store *index.Store
}

// NewLearnRejectTool creates a LearnRejectTool.
func NewLearnRejectTool(store *index.Store) *LearnRejectTool {
	return &LearnRejectTool{store: store}
}

// Definition returns the MCP tool definition for recall_learn_reject.
func (t *LearnRejectTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_learn_reject",
		withProjectArgs(
			mcp.WithDescription(
				"Reject and permanently discard a pending learning.",
			),
			mcp.WithString("ref",
				mcp.Required(),
				mcp.Description("Learning id, unique id prefix, or 1-based position"),
			),
		)...,
	)
}

// Handle processes the recall_learn_reject tool call.
func (t *LearnRejectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}
	ref := req.GetString("ref", "")
	if ref == "" {
		return mcp.NewToolResultError("'ref' is required"), nil
	}

	idx := t.store.Load(folder)
	l, ok := learning.Reject(idx, ref)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no pending learning matches %q", ref)), nil
	}
	if err := t.store.Save(folder, idx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save index: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Rejected %q", l.Title)), nil
}

// ─── LearnApproveAllTool ────────────────────────────────────────────────────

// LearnApproveAllTool handles the recall_learn_approve_all MCP tool.
type LearnApproveAllTool struct {
	store *index.Store
}

// NewLearnApproveAllTool creates a LearnApproveAllTool.
func NewLearnApproveAllTool(store *index.Store) *LearnApproveAllTool {
	return &LearnApproveAllTool{store: store}
}

// Definition returns the MCP tool definition for recall_learn_approve_all.
func (t *LearnApproveAllTool) Definition() mcp.Tool {
	return mcp.NewTool("recall_learn_approve_all",
		withProjectArgs(
			mcp.WithDescription(
				"Approve every pending learning at once. Each item is written "+
					"into the knowledge file for its suggested scope.",
			),
		)...,
	)
}

// Handle processes the recall_learn_approve_all tool call.
func (t *LearnApproveAllTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, errRes := projectFolder(req)
	if errRes != nil {
		return errRes, nil
	}

	idx := t.store.Load(folder)
	approved := append([]index.Learning(nil), idx.PendingLearnings...)
	n := learning.ApproveAll(idx)
	if n == 0 {
		return mcp.NewToolResultText("No pending learnings."), nil
	}
	if err := t.store.Save(folder, idx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save index: %v", err)), nil
	}

	know := knowledge.NewStore(t.store.Paths(), req.GetString("cwd", ""))
	for _, l := range approved {
		know.Add(learning.KnowledgeItem(l), knowledge.CategoryGotchas, l.SuggestedScope)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Approved %d learnings", n)), nil
}
