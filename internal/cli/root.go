// Package cli provides the command-line interface for colourskim.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/colourskim/internal/logging"
	"github.com/jmylchreest/colourskim/internal/version"
)

// NewRootCmd builds the colourskim command tree. Every call returns fresh
// commands and flags, so tests can execute it more than once.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "colourskim",
		Short: "Extract colour palettes from images with k-means clustering",
		Long: `colourskim samples the pixels of an image, clusters them with k-means in a
perceptual colour space and prints the dominant colours, most prevalent first.

The palette size can be fixed or picked automatically from a range using the
elbow or silhouette criterion. Results are deterministic for a given image
unless a random seed is requested.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/colourskim/config.yaml)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newOptionsCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure. An interrupt
// cancels any clustering in progress.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// newLogger builds the logger for cmd from the global verbosity flags.
// Logs go to the command's error stream.
func newLogger(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return logging.New(verbose, quiet, cmd.ErrOrStderr())
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
