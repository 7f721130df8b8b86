package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/winfsp/cgofuse/fuse"

	"github.com/SteadyHua/github1s/internal/fusefs"
)

var mountCmd = &cobra.Command{
	Use:   "mount <locator> <mountpoint>",
	Short: "Mount the repository read-only via FUSE",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, loc, err := openFS(args[0])
		if err != nil {
			return err
		}
		mountPoint := args[1]

		host := fuse.NewFileSystemHost(fusefs.New(cmd.Context(), fs))

		fmt.Printf("Mounting %s at %s...\n", loc, mountPoint)

		// -o ro: the tree is read-only by design.
		// uid/gid: own the mount (matters for fuse-t/NFS on macOS).
		opts := []string{
			"-o", "ro",
			"-o", fmt.Sprintf("uid=%d", os.Getuid()),
			"-o", fmt.Sprintf("gid=%d", os.Getgid()),
		}

		if !host.Mount(mountPoint, opts) {
			return fmt.Errorf("mount failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mountCmd)
}
