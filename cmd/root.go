// Package cmd implements the gh1s command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SteadyHua/github1s/internal/gitfs"
	"github.com/SteadyHua/github1s/internal/gitremote"
	"github.com/SteadyHua/github1s/internal/logging"
)

var (
	token    string
	deep     bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "gh1s",
	Short: "Browse a GitHub repository as a read-only filesystem",
	Long: `gh1s exposes a GitHub repository snapshot as a lazily-populated,
read-only virtual filesystem. Directory listings and file contents are
fetched on demand and cached for the lifetime of the process.

Locators take the form owner/repo[@ref][/path], a github.com URL, or a
github1s:// URI.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitDefault()
		logging.SetLevel(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "GitHub API token (defaults to $GITHUB_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&deep, "deep", false, "fetch whole subtrees in one bulk query (requires a token)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

// openFS parses the locator argument and wires up a filesystem over
// the GitHub remote.
func openFS(arg string) (*gitfs.FileSystem, gitremote.Locator, error) {
	loc, err := gitremote.ParseLocator(arg)
	if err != nil {
		return nil, gitremote.Locator{}, err
	}

	tok := token
	if tok == "" {
		tok = os.Getenv("GITHUB_TOKEN")
	}
	if deep && tok == "" {
		return nil, gitremote.Locator{}, fmt.Errorf("--deep uses the GraphQL API and requires a token")
	}

	client := gitremote.NewClient(loc, gitremote.ClientOptions{Token: tok})
	fs := gitfs.New(client, gitfs.Options{DeepFetch: gitfs.StaticFlag(deep)})
	return fs, loc, nil
}

// Execute runs the root command.
func Execute() {
	defer func() { _ = logging.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
