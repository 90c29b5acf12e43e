// Package cli implements the reader command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mrlokans/reader/internal/config"
	"github.com/mrlokans/reader/internal/entrypoint"
)

var flagNoColor bool

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the HTTP server.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	serve := func(cmd *cobra.Command, args []string) error {
		entrypoint.Run(cfg, version)
		return nil
	}

	root := &cobra.Command{
		Use:   "reader",
		Short: "A self-hosted EPUB reading library",
		Long: `reader keeps a personal library of EPUB books with reading progress,
bookmarks, highlights and folders, and serves it over HTTP.

Run 'reader' with no arguments to start the server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}

	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		initColor(flagNoColor)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE:  serve,
		},
		newIngestCmd(cfg),
		newBooksCmd(cfg),
		newSearchCmd(cfg),
		newExportCmd(cfg),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute(cfg *config.Config, version string) {
	if err := NewRootCommand(cfg, version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func initColor(noColor bool) {
	if noColor {
		color.NoColor = true
		return
	}
	if fi, err := os.Stdout.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		color.NoColor = true
	}
}

// ok prints a green success line.
func ok(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, color.YellowString("!"), fmt.Sprintf(format, a...))
}

func header(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, color.CyanString(fmt.Sprintf(format, a...)))
}
