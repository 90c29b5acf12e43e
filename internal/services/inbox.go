package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Inbox subdirectories that receive files after a scan.
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// InboxScanner ingests EPUB files dropped into a directory.
type InboxScanner struct {
	ingest *IngestService
}

func NewInboxScanner(ingest *IngestService) *InboxScanner {
	return &InboxScanner{ingest: ingest}
}

// Scan ingests every .epub file directly inside dir, one file at a time,
// then moves each into processed/ or failed/. A cancelled context stops
// the scan between files.
func (s *InboxScanner) Scan(ctx context.Context, dir string) (InboxResult, error) {
	result := InboxResult{Ingested: []string{}, Failed: []string{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result, errors.Wrapf(err, "read inbox %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".epub") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		path := filepath.Join(dir, name)
		target := ProcessedDir
		if _, err := s.ingest.IngestFile(path); err != nil {
			log.Printf("Inbox: failed to ingest %s: %v", name, err)
			result.Failed = append(result.Failed, name)
			target = FailedDir
		} else {
			result.Ingested = append(result.Ingested, name)
		}

		if err := moveInto(path, filepath.Join(dir, target)); err != nil {
			return result, err
		}
	}

	if len(files) > 0 {
		log.Printf("Inbox: ingested %d, failed %d", len(result.Ingested), len(result.Failed))
	}
	return result, nil
}

func moveInto(path, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	dest := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return errors.Wrapf(err, "move %s", path)
	}
	return nil
}
