// cleanup.go implements "recall cleanup": the analysis report plus the
// noise, sensitive, jsonl, dedup, and all actions.
package cli

import (
	"fmt"

	"github.com/recall-dev/recall/internal/cleanup"
	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/index"
	"github.com/spf13/cobra"
)

var cleanupDryRun bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [noise|sensitive|jsonl|dedup|all]",
	Short: "Analyze or clean up stored session data",
	Long: `Without an action, print an analysis of the index: useful sessions,
low-value noise, sessions matching sensitive patterns, and transcript
disk usage.

Actions:
  noise      remove sessions with almost no user messages
  sensitive  remove sessions matching the sensitive-pattern table
  jsonl      remove old raw transcripts (age-based)
  dedup      compact duplicate failure-pattern entries
  all        run every action

Use --dry-run to preview what would be removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Preview what would be removed without deleting")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	_, folder, err := currentProject()
	if err != nil {
		return err
	}
	store, cfg := openStore()

	patterns := cfg.SensitivePatterns
	if len(patterns) == 0 {
		patterns = cleanup.DefaultSensitivePatterns()
	}

	if len(args) == 0 {
		analysis := cleanup.Analyze(store, folder, patterns)
		fmt.Print(analysis.Render(store.Paths().IndexPath(folder)))
		return nil
	}

	verb := "Removed"
	if cleanupDryRun {
		verb = "Would remove"
	}

	action := args[0]
	switch action {
	case "noise":
		return cleanupNoise(store, folder, verb)
	case "sensitive":
		return cleanupSensitive(store, folder, patterns, verb)
	case "jsonl":
		return cleanupJSONL(store, folder, cfg.Limits, verb)
	case "dedup":
		return cleanupDedup(store, folder)
	case "all":
		if err := cleanupNoise(store, folder, verb); err != nil {
			return err
		}
		if err := cleanupSensitive(store, folder, patterns, verb); err != nil {
			return err
		}
		if err := cleanupJSONL(store, folder, cfg.Limits, verb); err != nil {
			return err
		}
		return cleanupDedup(store, folder)
	default:
		return fmt.Errorf("unknown action %q (want noise, sensitive, jsonl, dedup, or all)", action)
	}
}

func cleanupNoise(store *index.Store, folder, verb string) error {
	removed, err := cleanup.Noise(store, folder, cleanupDryRun)
	if err != nil {
		return fmt.Errorf("noise cleanup: %w", err)
	}
	fmt.Printf("%s %d low-value sessions\n", verb, len(removed))
	return nil
}

func cleanupSensitive(store *index.Store, folder string, patterns []string, verb string) error {
	removed, err := cleanup.Sensitive(store, folder, patterns, cleanupDryRun)
	if err != nil {
		return fmt.Errorf("sensitive cleanup: %w", err)
	}
	fmt.Printf("%s %d sessions with sensitive content\n", verb, len(removed))
	return nil
}

func cleanupJSONL(store *index.Store, folder string, limits config.Limits, verb string) error {
	freed, removed := cleanup.JSONL(store.Paths(), folder, limits, cleanupDryRun)
	fmt.Printf("%s %d transcripts (%d KB)\n", verb, removed, freed/1024)
	return nil
}

func cleanupDedup(store *index.Store, folder string) error {
	merged, err := cleanup.Dedup(store, folder, cleanupDryRun)
	if err != nil {
		return fmt.Errorf("dedup: %w", err)
	}
	if cleanupDryRun {
		fmt.Printf("Would merge %d duplicate failure entries\n", merged)
	} else {
		fmt.Printf("Merged %d duplicate failure entries\n", merged)
	}
	return nil
}
