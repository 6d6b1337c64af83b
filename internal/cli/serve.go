// serve.go implements "recall serve", the MCP server over stdio.
package cli

import (
	"fmt"

	"github.com/recall-dev/recall/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recall MCP server over stdio",
	Long: `Expose every recall report and the learning lifecycle as MCP tools.
The server speaks the Model Context Protocol over stdin/stdout and is
meant to be launched by an MCP-capable client, not interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := server.New(basePaths())
		if err := server.ServeStdio(s); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}
