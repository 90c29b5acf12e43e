package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mrlokans/reader/internal/audit"
	"github.com/mrlokans/reader/internal/config"
	"github.com/mrlokans/reader/internal/entrypoint"
	"github.com/mrlokans/reader/internal/services"
)

// FileIngester adds one EPUB to the library. Implemented by *services.IngestService.
type FileIngester interface {
	Ingest(data []byte, fileName, mediaType string) (*services.IngestResult, error)
}

func newIngestCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file.epub>...",
		Short: "Add EPUB files to the library",
		Long: `Parse one or more EPUB files and add them to the library.

A file that cannot be ingested is reported and skipped; the others are
still added.

Examples:
  reader ingest walden.epub
  reader ingest ~/Downloads/*.epub`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := entrypoint.OpenLibrary(cfg, true)
			if err != nil {
				return err
			}
			defer db.Close()

			auditService := audit.NewService(db.Audit())
			defer auditService.Flush()

			ingest := services.NewIngestService(store).
				WithAudit(auditService).
				WithReports(audit.NewAuditor(cfg.Audit.Dir))

			_, failed := IngestFiles(cmd.OutOrStdout(), ingest, args)
			if failed > 0 {
				return errors.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

// IngestFiles ingests each path in turn and reports the outcome per file.
func IngestFiles(w io.Writer, ingest FileIngester, paths []string) (ingested, failed int) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			warn(w, "%s: %v", path, err)
			failed++
			continue
		}

		result, err := ingest.Ingest(data, filepath.Base(path), "")
		if err != nil {
			warn(w, "%s: %v", path, err)
			failed++
			continue
		}

		ok(w, "%s by %s (%d pages)", result.Book.Title, result.Book.Author, result.Book.TotalPages)
		for _, d := range result.Skipped {
			warn(w, "  skipped %s", d)
		}
		ingested++
	}
	return ingested, failed
}
