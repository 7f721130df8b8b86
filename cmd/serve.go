package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SteadyHua/github1s/internal/billyfs"
	"github.com/SteadyHua/github1s/internal/nfsmount"
)

var serveMountpoint string

var serveCmd = &cobra.Command{
	Use:   "serve <locator>",
	Short: "Serve the repository over NFS",
	Long: `Starts an NFS server on an ephemeral port backed by the virtual
repository tree. With --mountpoint the server is also mounted via the
system mount command and unmounted on exit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, loc, err := openFS(args[0])
		if err != nil {
			return err
		}

		server, err := nfsmount.NewServer(billyfs.New(cmd.Context(), fs))
		if err != nil {
			return err
		}
		defer func() { _ = server.Close() }()

		fmt.Printf("Serving %s over NFS on localhost:%d\n", loc, server.Port())

		if serveMountpoint != "" {
			if err := nfsmount.Mount(server.Port(), serveMountpoint); err != nil {
				return err
			}
			fmt.Printf("Mounted at %s\n", serveMountpoint)
			defer func() {
				if err := nfsmount.Unmount(serveMountpoint); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			}()
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		fmt.Println("Shutting down.")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveMountpoint, "mountpoint", "", "also mount the NFS export here")
	rootCmd.AddCommand(serveCmd)
}
