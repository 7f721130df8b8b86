package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls <locator> [path]",
	Short: "List a directory in the repository",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, _, err := openFS(args[0])
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 2 {
			path = args[1]
		}

		entries, err := fs.ReadDir(cmd.Context(), path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir {
				fmt.Printf("%12s  %s/\n", "-", e.Name)
			} else {
				fmt.Printf("%12d  %s\n", e.Size, e.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
