package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <locator> <path>",
	Short: "Print a file from the repository",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, _, err := openFS(args[0])
		if err != nil {
			return err
		}

		content, err := fs.ReadFile(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(content)
		return err
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
