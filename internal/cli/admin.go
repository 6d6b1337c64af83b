// admin.go implements export, import, and reset.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the project index to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, folder, err := currentProject()
		if err != nil {
			return err
		}
		store, _ := openStore()
		if err := store.Export(folder, args[0]); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("Exported index to %s\n", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a project index from a JSON file",
	Long: `Replace the project's index with the contents of an exported file.
The file is validated and migrated to the current schema on the next
load, so older exports import cleanly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, folder, err := currentProject()
		if err != nil {
			return err
		}
		store, _ := openStore()
		if err := store.Import(folder, args[0]); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Printf("Imported index from %s\n", args[0])
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the project's index and session details",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, folder, err := currentProject()
		if err != nil {
			return err
		}
		store, _ := openStore()
		if err := store.Reset(folder); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		fmt.Println("Index and session details removed.")
		return nil
	},
}
