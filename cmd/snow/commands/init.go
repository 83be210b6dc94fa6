package commands

import (
	"context"
	"fmt"
	"os"

	"snow/pkg/repo"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCommondir string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new repository in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		commondir := initCommondir
		if commondir == "" {
			commondir = viper.GetString("storage.path")
		}

		r, err := repo.InitExt(context.Background(), wd, repo.InitOptions{
			Commondir: commondir,
			Store:     storeConfigFromViper(),
		})
		if err != nil {
			return fmt.Errorf("init failed: %w", err)
		}
		defer r.Close()

		fmt.Printf("initialized empty repository in %s\n", r.Commondir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initCommondir, "separate-meta", "", "store repository metadata outside the working directory")
}
