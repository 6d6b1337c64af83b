// Recall: session memory for coding assistants.
//
// Recall indexes coding-session transcripts into a compact per-project
// memory and serves it back through a CLI and an MCP server, so any
// MCP-capable assistant can recover what happened in earlier sessions.
//
// Usage:
//
//	recall index      # Index the newest transcript (session-end hook)
//	recall context    # Session-start context block
//	recall serve      # MCP server (stdio transport)
package main

import "github.com/recall-dev/recall/internal/cli"

func main() {
	cli.Execute()
}
