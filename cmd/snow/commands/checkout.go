package commands

import (
	"context"
	"fmt"

	"snow/pkg/repo"

	"github.com/spf13/cobra"
)

var checkoutDetach bool

var checkoutCmd = &cobra.Command{
	Use:   "checkout <ref-or-hash>",
	Short: "Switch the working tree and HEAD to the given reference or commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reset := repo.DefaultReset
		if checkoutDetach {
			reset |= repo.Detach
		}

		if err := repository.Checkout(context.Background(), repo.TargetName(args[0]), reset); err != nil {
			return fmt.Errorf("checkout failed: %w", err)
		}

		fmt.Println("switched to", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
	checkoutCmd.Flags().BoolVar(&checkoutDetach, "detach", false, "leave HEAD detached even if the target resolves to a reference")
}
