package exporters

import "github.com/mrlokans/reader/internal/entities"

// BookExporter writes a snapshot of the library somewhere.
type BookExporter interface {
	Export(books []entities.Book, folders []entities.Folder) (ExportResult, error)
}

// LibrarySource is the read side of the library store used by exports.
type LibrarySource interface {
	Books() []entities.Book
	Folders() []entities.Folder
}

type ExportResult struct {
	BooksProcessed      int      `json:"books_processed"`
	HighlightsProcessed int      `json:"highlights_processed"`
	BookmarksProcessed  int      `json:"bookmarks_processed"`
	BooksFailed         int      `json:"books_failed"`
	Files               []string `json:"files,omitempty"`
}

// folderNames maps book ids to the names of folders containing them.
func folderNames(folders []entities.Folder) map[string][]string {
	names := make(map[string][]string)
	for _, f := range folders {
		for _, id := range f.BookIDs {
			names[id] = append(names[id], f.Name)
		}
	}
	return names
}
