package exporters

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/reader/internal/entities"
)

const CatalogFileName = "library.yaml"

// Catalog is the YAML snapshot of the library. Book content is omitted.
type Catalog struct {
	ExportedAt time.Time       `yaml:"exported_at"`
	Books      []CatalogBook   `yaml:"books"`
	Folders    []CatalogFolder `yaml:"folders"`
}

type CatalogBook struct {
	ID          string               `yaml:"id"`
	Title       string               `yaml:"title"`
	Author      string               `yaml:"author"`
	Tags        []string             `yaml:"tags,omitempty"`
	Progress    float64              `yaml:"progress"`
	CurrentPage int                  `yaml:"current_page"`
	TotalPages  int                  `yaml:"total_pages"`
	DateAdded   time.Time            `yaml:"date_added"`
	LastRead    *time.Time           `yaml:"last_read,omitempty"`
	Bookmarks   []entities.Bookmark  `yaml:"bookmarks,omitempty"`
	Highlights  []entities.Highlight `yaml:"highlights,omitempty"`
}

type CatalogFolder struct {
	ID          string               `yaml:"id"`
	Name    string   `yaml:"name"`
	BookIDs []string `yaml:"book_ids"`
}

func BuildCatalog(books []entities.Book, folders []entities.Folder, now time.Time) Catalog {
	c := Catalog{
		ExportedAt: now.UTC(),
		Books:      make([]CatalogBook, 0, len(books)),
		Folders:    make([]CatalogFolder, 0, len(folders)),
	}
	for _, b := range books {
		cb := CatalogBook{
			ID:          b.ID,
			Title:       b.Title,
			Author:      b.Author,
			Tags:        b.Tags,
			Progress:    b.Progress,
			CurrentPage: b.CurrentPage,
			TotalPages:  b.TotalPages,
			DateAdded:   b.DateAdded,
			Bookmarks:   b.Bookmarks,
			Highlights:  b.Highlights,
		}
		if !b.LastRead.IsZero() {
			lastRead := b.LastRead
			cb.LastRead = &lastRead
		}
		c.Books = append(c.Books, cb)
	}
	for _, f := range folders {
		c.Folders = append(c.Folders, CatalogFolder{ID: f.ID, Name: f.Name, BookIDs: f.BookIDs})
	}
	return c
}

// MarshalCatalog encodes a catalog with two-space indentation.
func MarshalCatalog(c Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "encode catalog")
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAMLExporter writes the whole library into a single catalog file.
type YAMLExporter struct {
	Dir string
	Now func() time.Time
}

func NewYAMLExporter(dir string) *YAMLExporter {
	return &YAMLExporter{Dir: dir, Now: time.Now}
}

func (exporter *YAMLExporter) Export(books []entities.Book, folders []entities.Folder) (ExportResult, error) {
	if err := os.MkdirAll(exporter.Dir, 0o755); err != nil {
		return ExportResult{}, errors.Wrap(err, "create export directory")
	}
	now := time.Now
	if exporter.Now != nil {
		now = exporter.Now
	}

	data, err := MarshalCatalog(BuildCatalog(books, folders, now()))
	if err != nil {
		return ExportResult{}, err
	}
	path := filepath.Join(exporter.Dir, CatalogFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ExportResult{}, errors.Wrapf(err, "write %s", path)
	}

	result := ExportResult{BooksProcessed: len(books), Files: []string{path}}
	for _, b := range books {
		result.HighlightsProcessed += len(b.Highlights)
		result.BookmarksProcessed += len(b.Bookmarks)
	}
	return result, nil
}
