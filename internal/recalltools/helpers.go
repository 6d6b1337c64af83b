// Package recalltools implements the MCP tools exposed by the recall
// server. Each tool is a struct with a Definition and a Handle method;
// the server registers them all at startup.
package recalltools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/recall-dev/recall/internal/config"
)

// projectFolder resolves the project folder from a tool request. Tools
// accept either cwd (a working directory, flattened automatically) or
// project (an already-flattened folder name); cwd wins when both are
// given.
func projectFolder(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	if cwd := req.GetString("cwd", ""); cwd != "" {
		return config.ProjectFolder(cwd), nil
	}
	if project := req.GetString("project", ""); project != "" {
		return project, nil
	}
	return "", mcp.NewToolResultError("'cwd' or 'project' is required")
}

// withProjectArgs appends the shared cwd/project options to a tool
// definition.
func withProjectArgs(opts ...mcp.ToolOption) []mcp.ToolOption {
	shared := []mcp.ToolOption{
		mcp.WithString("cwd",
			mcp.Description("Project working directory (e.g. /home/user/myrepo)"),
		),
		mcp.WithString("project",
			mcp.Description("Flattened project folder name, if already known"),
		),
	}
	return append(shared, opts...)
}
