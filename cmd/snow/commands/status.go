package commands

import (
	"context"
	"fmt"

	"snow/pkg/repo"

	"github.com/spf13/cobra"
)

var statusAll bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree's drift from HEAD",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := repo.IncludeUntracked
		if statusAll {
			filter |= repo.IncludeUnmodified | repo.IncludeIgnored
		}

		entries, err := repository.GetStatus(context.Background(), filter, nil)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("working tree clean")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%-10s %s\n", statusLabel(e.Status), e.Path)
		}
		return nil
	},
}

func statusLabel(s repo.WorkingTreeStatus) string {
	switch {
	case s&repo.WTNew != 0:
		return "new"
	case s&repo.WTModified != 0:
		return "modified"
	case s&repo.WTDeleted != 0:
		return "deleted"
	case s&repo.WTIgnored != 0:
		return "ignored"
	case s&repo.WTUnmodified != 0:
		return "unmodified"
	default:
		return "unknown"
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusAll, "all", false, "also list unmodified and ignored paths")
}
