// learn.go implements the pending-learning review commands.
package cli

import (
	"fmt"

	"github.com/recall-dev/recall/internal/index"
	"github.com/recall-dev/recall/internal/knowledge"
	"github.com/recall-dev/recall/internal/learning"
	"github.com/recall-dev/recall/internal/report"
	"github.com/spf13/cobra"
)

var (
	learnBatchFlag bool
	learnScopeFlag string
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Review pending learnings",
	Long: `Without arguments, list the pending learnings extracted from past
sessions. Approve or reject individual items with the subcommands, or
approve everything at once with --batch.`,
	RunE: runLearn,
}

var learnApproveCmd = &cobra.Command{
	Use:   "approve <id|position>",
	Short: "Approve a pending learning",
	Args:  cobra.ExactArgs(1),
	RunE:  runLearnApprove,
}

var learnRejectCmd = &cobra.Command{
	Use:   "reject <id|position>",
	Short: "Reject a pending learning",
	Args:  cobra.ExactArgs(1),
	RunE:  runLearnReject,
}

func init() {
	learnCmd.Flags().BoolVar(&learnBatchFlag, "batch", false, "Approve all pending learnings")
	learnApproveCmd.Flags().StringVar(&learnScopeFlag, "scope", "", "Knowledge scope: 'project' or 'global' (default: the learning's suggestion)")

	learnCmd.AddCommand(learnApproveCmd)
	learnCmd.AddCommand(learnRejectCmd)
}

func runLearn(cmd *cobra.Command, args []string) error {
	cwd, folder, err := currentProject()
	if err != nil {
		return err
	}
	store, _ := openStore()

	if !learnBatchFlag {
		fmt.Print(report.New(store).PendingReview(folder))
		return nil
	}

	idx := store.Load(folder)
	approved := append([]index.Learning(nil), idx.PendingLearnings...)
	n := learning.ApproveAll(idx)
	if n == 0 {
		fmt.Println("No pending learnings.")
		return nil
	}
	if err := store.Save(folder, idx); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}

	know := knowledge.NewStore(store.Paths(), cwd)
	for _, l := range approved {
		know.Add(learning.KnowledgeItem(l), knowledge.CategoryGotchas, l.SuggestedScope)
	}
	fmt.Printf("Approved %d learnings\n", n)
	return nil
}

func runLearnApprove(cmd *cobra.Command, args []string) error {
	cwd, folder, err := currentProject()
	if err != nil {
		return err
	}
	store, _ := openStore()

	idx := store.Load(folder)
	l, ok := learning.Approve(idx, args[0])
	if !ok {
		return fmt.Errorf("no pending learning matches %q", args[0])
	}
	if err := store.Save(folder, idx); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}

	scope := learnScopeFlag
	if scope == "" {
		scope = l.SuggestedScope
	}
	know := knowledge.NewStore(store.Paths(), cwd)
	if know.Add(learning.KnowledgeItem(l), knowledge.CategoryGotchas, scope) {
		fmt.Printf("Approved %q (added to %s knowledge)\n", l.Title, scope)
	} else {
		fmt.Printf("Approved %q (knowledge file not updated)\n", l.Title)
	}
	return nil
}

func runLearnReject(cmd *cobra.Command, args []string) error {
	_, folder, err := currentProject()
	if err != nil {
		return err
	}
	store, _ := openStore()

	idx := store.Load(folder)
	l, ok := learning.Reject(idx, args[0])
	if !ok {
		return fmt.Errorf("no pending learning matches %q", args[0])
	}
	if err := store.Save(folder, idx); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	fmt.Printf("Rejected %q\n", l.Title)
	return nil
}
