package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>...",
	Short: "Unstage paths so they are removed in the next commit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := repository.Index()
		for _, path := range args {
			if err := idx.Remove(repository.RelPath(path)); err != nil {
				return err
			}
			fmt.Println("unstaged", path)
		}
		return idx.Save()
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
