package commands

import (
	"fmt"

	"snow/pkg/model"

	"github.com/spf13/cobra"
)

var branchDelete string

var branchCmd = &cobra.Command{
	Use:   "branch [name]",
	Short: "List, create, or delete references",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if branchDelete != "" {
			if err := repository.DeleteReference(branchDelete); err != nil {
				return fmt.Errorf("branch -d failed: %w", err)
			}
			fmt.Println("deleted", branchDelete)
			return nil
		}

		if len(args) == 1 {
			head := repository.Head()
			ref, err := repository.CreateNewReference(model.ReferenceBranch, args[0], head.Hash, nil)
			if err != nil {
				return fmt.Errorf("branch failed: %w", err)
			}
			fmt.Printf("created %s at %s\n", ref.Name, ref.Hash[:8])
			return nil
		}

		head := repository.Head()
		for name, ref := range repository.References() {
			marker := "  "
			if head.Attached() && head.Name == name {
				marker = "* "
			}
			fmt.Printf("%s%s\t%s\n", marker, name, ref.Hash[:8])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(branchCmd)
	branchCmd.Flags().StringVarP(&branchDelete, "delete", "d", "", "delete the named reference")
}
