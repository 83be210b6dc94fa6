package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log [ref]",
	Short: "Show commit history, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ref string
		if len(args) > 0 {
			ref = args[0]
		}

		commits, err := repository.Log(ref, logLimit)
		if err != nil {
			return err
		}

		for _, c := range commits {
			fmt.Printf("commit %s\n", c.Hash)
			fmt.Printf("Date:   %s\n\n", c.Date.Format("Mon Jan 2 15:04:05 2006 -0700"))
			fmt.Printf("    %s\n\n", c.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().IntVar(&logLimit, "limit", 0, "maximum number of commits to show (0 = unbounded)")
}
