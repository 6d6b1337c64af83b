// Package server wires all MCP components and creates the server
// instance. This is the composition root: it builds the shared store
// and injects it into every tool. No business logic lives here.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/recalltools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all recall tools
// registered over the given base directory.
func New(paths config.Paths) *server.MCPServer {
	cfg := config.Load(paths.Base)
	store := index.NewStore(paths, cfg.Limits)

	s := server.NewMCPServer(
		"recall",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Session history ---

	sessions := recalltools.NewSessionsTool(store)
	s.AddTool(sessions.Definition(), sessions.Handle)

	last := recalltools.NewLastTool(store)
	s.AddTool(last.Definition(), last.Handle)

	search := recalltools.NewSearchTool(store)
	s.AddTool(search.Definition(), search.Handle)

	contextTool := recalltools.NewContextTool(store)
	s.AddTool(contextTool.Definition(), contextTool.Handle)

	// --- Failures & stats ---

	failures := recalltools.NewFailuresTool(store)
	s.AddTool(failures.Definition(), failures.Handle)

	stats := recalltools.NewStatsTool(store)
	s.AddTool(stats.Definition(), stats.Handle)

	// --- Learning lifecycle ---

	learnList := recalltools.NewLearnListTool(store)
	s.AddTool(learnList.Definition(), learnList.Handle)

	learnApprove := recalltools.NewLearnApproveTool(store)
	s.AddTool(learnApprove.Definition(), learnApprove.Handle)

	learnReject := recalltools.NewLearnRejectTool(store)
	s.AddTool(learnReject.Definition(), learnReject.Handle)

	learnApproveAll := recalltools.NewLearnApproveAllTool(store)
	s.AddTool(learnApproveAll.Definition(), learnApproveAll.Handle)

	return s
}

// ServeStdio runs the server over stdin/stdout until EOF.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// serverInstructions returns the system instructions that tell the AI
// how to use recall effectively.
func serverInstructions() string {
	return `You have access to recall, a session-memory MCP server for coding assistants.

recall indexes past coding sessions per project: what the user asked for,
which commands ran, which ones failed, and what was learned.

## When to use recall
- At session start, call recall_context with the project working directory to
  recover history, loaded knowledge, and recurring failure patterns.
- When the user references earlier work ("like we did last time", "that bug
  from yesterday"), use recall_search or recall_last.
- Before retrying a command that looks familiar, check recall_failures: the
  same command may have failed before, and an approved learning may name the fix.

## Learning review
Sessions are mined for proposed learnings (failure/resolution pairs and
repeated error categories). Proposals wait in a pending queue:
- recall_learn_list shows them
- recall_learn_approve / recall_learn_reject act on one (by id or position)
- recall_learn_approve_all accepts the whole queue
Approved learnings surface in recall_failures and are written to the
knowledge files that load at session start.

All tools take either cwd (the project working directory) or project (the
flattened folder name). Prefer cwd.`
}
