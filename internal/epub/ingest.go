// Package epub turns an EPUB archive into plain readable text plus metadata.
//
// The pipeline runs strictly in sequence: archive, container, package
// document, spine text, cover. Only the cover stage is best-effort; every
// other failure is reported as an *IngestionError.
package epub

import (
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MediaType is the registered media type of EPUB publications.
	MediaType = "application/epub+zip"

	// UnknownAuthor is used when the package names no creator.
	UnknownAuthor = "Unknown Author"

	fileExtension = ".epub"
)

// Result is a fully ingested publication.
type Result struct {
	Title   string
	Author  string
	Content string
	// Cover is a data URI, empty when the publication has no usable cover.
	Cover string
	// Skipped lists spine items that produced no text.
	Skipped []Diagnostic
}

// Accepts reports whether an upload looks like an EPUB by declared media
// type or file name.
func Accepts(fileName, mediaType string) bool {
	if mediaType != "" {
		if mt, _, err := mime.ParseMediaType(mediaType); err == nil && strings.EqualFold(mt, MediaType) {
			return true
		}
	}
	return strings.HasSuffix(strings.ToLower(fileName), fileExtension)
}

// Ingest runs the full pipeline over an EPUB held in memory.
func Ingest(data []byte, fileName string) (*Result, error) {
	result, err := ingest(data, fileName)
	if err != nil {
		return nil, &IngestionError{FileName: fileName, Err: err}
	}
	return result, nil
}

// IngestFile reads path from disk and ingests it.
func IngestFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Ingest(data, filepath.Base(path))
}

func ingest(data []byte, fileName string) (*Result, error) {
	archive, err := OpenArchive(data)
	if err != nil {
		return nil, err
	}

	opfPath, err := ResolveContainer(archive)
	if err != nil {
		return nil, errors.Wrap(err, "resolve container")
	}

	pkg, err := LoadPackage(archive, opfPath)
	if err != nil {
		return nil, errors.Wrapf(err, "load package %s", opfPath)
	}

	extraction, err := ExtractContent(archive, pkg, opfPath)
	if err != nil {
		return nil, errors.Wrap(err, "extract content")
	}

	title := pkg.Metadata.Title
	if title == "" {
		title = TitleFromFileName(fileName)
	}
	author := pkg.Metadata.Author
	if author == "" {
		author = UnknownAuthor
	}

	return &Result{
		Title:   title,
		Author:  author,
		Content: extraction.Text,
		Cover:   ResolveCover(archive, pkg, opfPath),
		Skipped: extraction.Skipped,
	}, nil
}

// TitleFromFileName derives a display title from an upload name by dropping
// any directory and the .epub extension.
func TitleFromFileName(fileName string) string {
	name := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if strings.HasSuffix(strings.ToLower(name), fileExtension) {
		name = name[:len(name)-len(fileExtension)]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "Untitled"
	}
	return name
}
