// Package cli defines Cobra command definitions for the recall CLI.
// This file contains the root command, shared flags, and the helpers
// that resolve paths and project identity for every subcommand.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recall-dev/recall/internal/config"
	"github.com/recall-dev/recall/internal/index"
)

var (
	baseDirFlag string
	projectFlag string
	version     = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Session memory for coding assistants",
	Long: `Recall indexes coding-session transcripts into a compact per-project
memory: what was worked on, which commands failed, and what was
learned. Reports are markdown, built either from the index or, when
none exists yet, straight from the raw transcripts.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// basePaths resolves the data directory: --base-dir when given,
// otherwise ~/.claude.
func basePaths() config.Paths {
	if baseDirFlag != "" {
		return config.Paths{Base: baseDirFlag}
	}
	return config.DefaultPaths()
}

// currentProject resolves the project folder. --project wins; without
// it the working directory is flattened. cwd is empty when --project
// was used, so project-scoped knowledge writes need a real directory.
func currentProject() (cwd, projectFolder string, err error) {
	if projectFlag != "" {
		return "", projectFlag, nil
	}
	cwd, err = os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, config.ProjectFolder(cwd), nil
}

// openStore loads config and builds the index store over basePaths.
func openStore() (*index.Store, config.Config) {
	p := basePaths()
	cfg := config.Load(p.Base)
	return index.NewStore(p, cfg.Limits), cfg
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "Data directory (default ~/.claude)")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Project folder name (default: derived from cwd)")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(lastCmd)
	rootCmd.AddCommand(failuresCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
}
