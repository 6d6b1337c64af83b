// index.go implements "recall index", the session-end indexing entry
// point wired into the assistant's stop hook.
package cli

import (
	"fmt"

	"github.com/recall-dev/recall/internal/indexer"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the most recent session transcript",
	Long: `Summarize the project's newest transcript into the session index:
message and failure counts, topics, failure patterns, skill usage, and
any proposed learnings. Re-running on the same session overwrites its
entry, so indexing is safe to repeat.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	_, folder, err := currentProject()
	if err != nil {
		return err
	}

	store, cfg := openStore()
	ix := indexer.New(store, cfg)

	res, err := ix.IndexFolder(folder)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	if res == nil {
		fmt.Println("No transcripts found for this project.")
		return nil
	}

	fmt.Println(res.Line())
	if res.Proposals > 0 {
		fmt.Printf("Proposed %d learnings (review with 'recall learn')\n", res.Proposals)
	}
	if res.MaintenanceRan {
		fmt.Printf("Maintenance: removed %d old files (%d KB freed)\n", res.RemovedFiles, res.FreedBytes/1024)
	}
	return nil
}
