package http

import (
	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/library"
)

// Each controller depends on the slice of the library store it uses. All
// of them are implemented by *library.Store.

type BookStore interface {
	Books() []entities.Book
	GetBook(id string) (entities.Book, error)
	SearchBooks(query string) []entities.Book
	BooksInFolder(folderID string) ([]entities.Book, error)
	UpdateBook(id string, patch library.BookPatch) (entities.Book, error)
	DeleteBook(id string) error
	DeleteBooks(ids []string) (int, error)
	ResetProgress(ids []string) (int, error)
	RecentlyAdded(limit int) []entities.Book
	RecentlyRead(limit int) []entities.Book
	PageSize() int
}

type ReadingStore interface {
	GoToPage(id string, page int) (entities.Book, error)
	NextPage(id string) (entities.Book, error)
	PreviousPage(id string) (entities.Book, error)
	PageContent(id string, n int) (library.Page, error)
	ToggleBookmark(id string, page, position int, note string) (bool, entities.Book, error)
	AddHighlight(id string, in library.HighlightInput) (entities.Highlight, error)
	RemoveHighlight(bookID, highlightID string) error
}

type FolderStore interface {
	Folders() []entities.Folder
	Folder(id string) (entities.Folder, error)
	AddFolder(name string) (entities.Folder, error)
	UpdateFolder(id string, patch library.FolderPatch) (entities.Folder, error)
	DeleteFolder(id string) error
	AddBooksToFolder(ids []string, folderID string) (entities.Folder, error)
	RemoveBooksFromFolder(ids []string, folderID string) (entities.Folder, error)
	FolderBookCounts() map[string]int
}

type ReaderSettingsStore interface {
	Settings() entities.ReaderSettings
	UpdateSettings(patch library.SettingsPatch) (entities.ReaderSettings, error)
	SetTheme(name string) (entities.ReaderSettings, error)
}

// LibraryStore is everything the router needs from the library.
type LibraryStore interface {
	BookStore
	ReadingStore
	FolderStore
	ReaderSettingsStore
}
