package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Stage files for the next commit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		idx := repository.Index()
		count := 0
		for _, target := range args {
			abs := target
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(wd, target)
			}
			err := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				rel := repository.RelPath(path)
				if err := idx.Add(rel); err != nil {
					return err
				}
				count++
				fmt.Println("staged", rel)
				return nil
			})
			if err != nil {
				return fmt.Errorf("add %s: %w", target, err)
			}
		}

		if err := idx.Save(); err != nil {
			return fmt.Errorf("failed to save index: %w", err)
		}
		fmt.Printf("staged %d file(s)\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
