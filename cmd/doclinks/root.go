package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/doclinks/internal/config"
)

// usageLine is printed when the check is not given exactly one directory.
const usageLine = "Usage: doclinks <dir-path>"

// errUsage is returned for a wrong number of positional arguments.
var errUsage = errors.New(usageLine)

// ErrDeadLinksFound is returned by the check when --fail-on-dead is set
// and at least one dead link was reported.
var ErrDeadLinksFound = errors.New("dead links found")

// NewRootCmd creates the root command for doclinks.
// The root command itself runs the check.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doclinks <dir-path>",
		Short: "Find dead links in documentation files",
		Long: `doclinks walks a directory tree and checks every link in its documentation.

Documentation files are files ending in .md or .rst, and any file with
README in its name (case-insensitive). Symbolic links are never followed.
Links are taken from [label](url) in Markdown and README files and from
` + "`label <url>`_" + ` in reStructuredText files.

All links of one file are requested at the same time. A link is dead when
the request fails before any response arrives. With --status-check, HTTP
status codes 400 and above are dead too.

Output:
  checking <path> ..                    one line per documentation file
  --- Dead link : <url>                 one line per dead link
  Can't read file <path> (because ...)  one line per unreadable file

Examples:
  # Check the docs of the current project
  doclinks .

  # Also report 404s and fail the build when anything is dead
  doclinks --status-check --fail-on-dead ./docs

  # Check through Tor and record the run for 'doclinks history'
  doclinks --proxy 127.0.0.1:9050 --record ./docs`,
		Version:       getVersion(),
		Args:          exactlyOneDir,
		RunE:          runCheckCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history database")

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each link request (0 disables it)")
	cmd.Flags().BoolP("status-check", "s", false,
		"Also treat HTTP status codes >= 400 as dead links")
	cmd.Flags().BoolP("fail-on-dead", "F", false,
		"Exit with status 1 when a dead link was found")
	cmd.Flags().StringP("proxy", "x", "",
		"Send requests through a SOCKS5 proxy (host:port)")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for link requests")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .doclinks in current or home directory)")
	cmd.Flags().BoolP("record", "r", false,
		"Save the run to the history database")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// exactlyOneDir accepts a single positional argument.
func exactlyOneDir(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
