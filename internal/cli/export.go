package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mrlokans/reader/internal/audit"
	"github.com/mrlokans/reader/internal/config"
	"github.com/mrlokans/reader/internal/entrypoint"
	"github.com/mrlokans/reader/internal/exporters"
	"github.com/mrlokans/reader/internal/settingsstore"
)

func newExportCmd(cfg *config.Config) *cobra.Command {
	var format, dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the library as markdown notes and a YAML catalog",
		Long: `Write one markdown note per book (bookmarks and highlights) and/or a
YAML catalog of books and folders.

Flags default to the export settings saved in the application.

Examples:
  reader export --dir ./notes
  reader export --format yaml --dir ./backup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := entrypoint.OpenLibrary(cfg, true)
			if err != nil {
				return err
			}
			defer db.Close()

			saved := settingsstore.New(db).GetExportConfig()
			if format == "" {
				format = saved.Format
			}
			if dir == "" {
				dir = saved.Dir
			}
			if dir == "" {
				return errors.New("no export directory: pass --dir or configure one")
			}

			auditService := audit.NewService(db.Audit())
			defer auditService.Flush()

			result, err := exporters.NewLibraryExporter(store).Export(format, dir)
			auditService.LogExport(format, "export from command line", result.BooksProcessed, err)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ok(out, "Exported %d books (%d highlights, %d bookmarks) to %s",
				result.BooksProcessed, result.HighlightsProcessed, result.BookmarksProcessed, dir)
			if result.BooksFailed > 0 {
				warn(out, "%d books failed to export", result.BooksFailed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Export format: markdown, yaml or all")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write into")
	return cmd
}
