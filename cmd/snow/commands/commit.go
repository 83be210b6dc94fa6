package commands

import (
	"context"
	"fmt"

	"snow/pkg/repo"

	"github.com/spf13/cobra"
)

var (
	commitMsg        string
	commitAllowEmpty bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record staged changes as a new commit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if commitMsg == "" {
			return fmt.Errorf("commit message cannot be empty (use -m)")
		}

		commit, err := repository.CreateCommit(context.Background(), repository.Index(), commitMsg, repo.CommitOptions{AllowEmpty: commitAllowEmpty}, nil, nil)
		if err != nil {
			return fmt.Errorf("commit failed: %w", err)
		}

		fmt.Printf("[%s] %s\n", commit.Hash[:8], commitMsg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVarP(&commitMsg, "message", "m", "", "commit message")
	commitCmd.Flags().BoolVar(&commitAllowEmpty, "allow-empty", false, "allow a commit with no staged changes")
}
