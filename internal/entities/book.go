package entities

import "time"

// Book is one ingested or sample work together with its reading state.
// Folder membership is owned by Folder.BookIDs, not stored here.
type Book struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Cover       string      `json:"cover,omitempty"` // URL or data URI
	Content     string      `json:"content"`
	Progress    float64     `json:"progress"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	Tags        []string    `json:"tags"`
	Highlights  []Highlight `json:"highlights"`
	Bookmarks   []Bookmark  `json:"bookmarks"`
	LastRead    time.Time   `json:"lastRead"`
	DateAdded   time.Time   `json:"dateAdded"`
}

type Highlight struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Color     string    `json:"color" yaml:"color"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty"`
	Page      int       `json:"page" yaml:"page"`
	Position  int       `json:"position" yaml:"position"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

type Bookmark struct {
	ID        string    `json:"id" yaml:"id"`
	Page      int       `json:"page" yaml:"page"`
	Position  int       `json:"position" yaml:"position"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// BookSummary is a Book without its content, for listings.
type BookSummary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	Cover          string    `json:"cover,omitempty"`
	Progress       float64   `json:"progress"`
	CurrentPage    int       `json:"currentPage"`
	TotalPages     int       `json:"totalPages"`
	Tags           []string  `json:"tags"`
	HighlightCount int       `json:"highlightCount"`
	BookmarkCount  int       `json:"bookmarkCount"`
	LastRead       time.Time `json:"lastRead"`
	DateAdded      time.Time `json:"dateAdded"`
}

func (b Book) Summary() BookSummary {
	return BookSummary{
		ID:             b.ID,
		Title:          b.Title,
		Author:         b.Author,
		Cover:          b.Cover,
		Progress:       b.Progress,
		CurrentPage:    b.CurrentPage,
		TotalPages:     b.TotalPages,
		Tags:           b.Tags,
		HighlightCount: len(b.Highlights),
		BookmarkCount:  len(b.Bookmarks),
		LastRead:       b.LastRead,
		DateAdded:      b.DateAdded,
	}
}

// BookmarkAt returns the index of the bookmark on page, or -1.
func (b Book) BookmarkAt(page int) int {
	for i, bm := range b.Bookmarks {
		if bm.Page == page {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy safe to mutate independently.
func (b Book) Clone() Book {
	out := b
	out.Tags = cloneSlice(b.Tags)
	out.Highlights = cloneSlice(b.Highlights)
	out.Bookmarks = cloneSlice(b.Bookmarks)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
