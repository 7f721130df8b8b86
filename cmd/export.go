package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SteadyHua/github1s/internal/snapshot"
)

var exportCmd = &cobra.Command{
	Use:   "export <locator> <output.db>",
	Short: "Export the whole repository snapshot to a SQLite file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, loc, err := openFS(args[0])
		if err != nil {
			return err
		}
		output := args[1]
		_ = os.Remove(output) // Overwrite

		start := time.Now()
		fmt.Printf("Exporting %s to %s...\n", loc, output)
		count, err := snapshot.Export(cmd.Context(), fs, output)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d nodes in %v.\n", count, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
