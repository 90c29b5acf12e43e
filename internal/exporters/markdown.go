package exporters

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/utils"
)

// MarkdownExporter writes one note per book into Dir.
type MarkdownExporter struct {
	Dir string
	Now func() time.Time
}

func NewMarkdownExporter(dir string) *MarkdownExporter {
	return &MarkdownExporter{Dir: dir, Now: time.Now}
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Author      string   `yaml:"author"`
	ContentType string   `yaml:"content_type"`
	BookID      string   `yaml:"book_id"`
	Progress    string   `yaml:"progress"`
	Page        string   `yaml:"page"`
	Folders     []string `yaml:"folders,omitempty"`
	Tags        []string `yaml:"tags"`
	Added       string   `yaml:"added"`
	LastRead    string   `yaml:"last_read,omitempty"`
	ExportedAt  string   `yaml:"exported_at"`
}

// GenerateMarkdown renders a book's reading notes. Highlights become
// callouts colored after their highlight color.
func GenerateMarkdown(book entities.Book, folders []string, now time.Time) (string, error) {
	fm := frontMatter{
		Title:       book.Title,
		Author:      book.Author,
		ContentType: "book_notes",
		BookID:      book.ID,
		Progress:    fmt.Sprintf("%.0f%%", book.Progress*100),
		Page:        fmt.Sprintf("%d/%d", book.CurrentPage, book.TotalPages),
		Folders:     folders,
		Tags:        append([]string{"books"}, book.Tags...),
		Added:       book.DateAdded.Format("2006-01-02"),
		ExportedAt:  now.Format("2006-01-02"),
	}
	if !book.LastRead.IsZero() {
		fm.LastRead = book.LastRead.Format("2006-01-02")
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", errors.Wrap(err, "marshal front matter")
	}

	var builder strings.Builder
	builder.WriteString("---\n")
	builder.Write(header)
	builder.WriteString("---\n\n")
	fmt.Fprintf(&builder, "# %s\n\n", book.Title)

	if len(book.Bookmarks) > 0 {
		builder.WriteString("## Bookmarks\n\n")
		bookmarks := append([]entities.Bookmark(nil), book.Bookmarks...)
		sort.SliceStable(bookmarks, func(i, j int) bool { return bookmarks[i].Page < bookmarks[j].Page })
		for _, bm := range bookmarks {
			if bm.Note != "" {
				fmt.Fprintf(&builder, "- Page %d: %s\n", bm.Page, bm.Note)
			} else {
				fmt.Fprintf(&builder, "- Page %d\n", bm.Page)
			}
		}
		builder.WriteString("\n")
	}

	if len(book.Highlights) > 0 {
		builder.WriteString("## Highlights\n\n")
		for _, h := range book.Highlights {
			fmt.Fprintf(&builder, "> [!%s] Page %d\n", utils.ColorToCalloutType(h.Color), h.Page)
			fmt.Fprintf(&builder, "> %s\n", strings.ReplaceAll(h.Text, "\n", "\n> "))
			if h.Note != "" {
				fmt.Fprintf(&builder, ">\n> **Note:** %s\n", h.Note)
			}
			builder.WriteString("\n")
		}
	}

	return builder.String(), nil
}

func (exporter *MarkdownExporter) Export(books []entities.Book, folders []entities.Folder) (ExportResult, error) {
	result := ExportResult{}
	if err := os.MkdirAll(exporter.Dir, 0o755); err != nil {
		return result, errors.Wrap(err, "create export directory")
	}

	now := time.Now
	if exporter.Now != nil {
		now = exporter.Now
	}
	names := folderNames(folders)

	for _, book := range books {
		path, err := exporter.exportBook(book, names[book.ID], now())
		if err != nil {
			log.Printf("Failed to export book '%s': %v", book.Title, err)
			result.BooksFailed++
			continue
		}
		result.BooksProcessed++
		result.HighlightsProcessed += len(book.Highlights)
		result.BookmarksProcessed += len(book.Bookmarks)
		result.Files = append(result.Files, path)
	}
	return result, nil
}

func (exporter *MarkdownExporter) exportBook(book entities.Book, folders []string, now time.Time) (string, error) {
	content, err := GenerateMarkdown(book, folders, now)
	if err != nil {
		return "", err
	}
	path := filepath.Join(exporter.Dir, utils.NoteFilename(book.Title, book.Author))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}
