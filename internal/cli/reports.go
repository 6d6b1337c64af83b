// reports.go implements the read-only report commands: list, last,
// failures, search, usage, and the session-start context block.
package cli

import (
	"fmt"

	"github.com/recall-dev/recall/internal/knowledge"
	"github.com/recall-dev/recall/internal/report"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, folder, err := currentProject()
		if err != nil {
			return err
		}
		store, _ := openStore()
		fmt.Print(report.New(store).Sessions(folder))
		return nil
	},
}

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the previous session in full",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, folder, err := currentProject()
		if err != nil {
			return err
		}
		store, _ := openStore()
		fmt.Print(report.New(store).LastSession(folder))
		return nil
	},
}

var failuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "Show learnings and recurring failure patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, folder, err := currentProject()
		if err != nil {
			return err
		}
		store, _ := openStore()
		fmt.Print(report.New(store).Failures(folder))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search past sessions for a term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, folder, err := currentProject()
		if err != nil {
			return err
		}
		store, _ := openStore()
		fmt.Print(report.New(store).Search(folder, args[0]))
		return nil
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show skill and learning usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, folder, err := currentProject()
		if err != nil {
			return err
		}
		store, _ := openStore()
		fmt.Print(report.New(store).Usage(folder))
		return nil
	},
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the session-start context block",
	Long: `Print the context block injected at session start: last session
summary, history totals, loaded knowledge, pending learnings, and
recurring failure categories. Prints nothing when the project has no
history, so hooks can pipe the output straight through.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, folder, err := currentProject()
		if err != nil {
			return err
		}
		store, _ := openStore()
		know := knowledge.NewStore(store.Paths(), cwd).All()
		fmt.Print(report.New(store).Context(folder, know))
		return nil
	},
}
