package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <locator> [path]",
	Short: "Show metadata for a path in the repository",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, loc, err := openFS(args[0])
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 2 {
			path = args[1]
		}

		info, err := fs.Stat(cmd.Context(), path)
		if err != nil {
			return err
		}

		kind := "file"
		if info.IsDir {
			kind = "dir"
		}
		name := info.Name
		if name == "" {
			name = "/"
		}
		fmt.Printf("repo:  %s\n", loc)
		fmt.Printf("name:  %s\n", name)
		fmt.Printf("kind:  %s\n", kind)
		if !info.IsDir {
			fmt.Printf("size:  %d\n", info.Size)
		}
		if info.OID != "" {
			fmt.Printf("oid:   %s\n", info.OID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statCmd)
}
