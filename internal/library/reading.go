package library

import (
	"strings"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/pagination"
)

// DefaultHighlightColor is used when a highlight is added without a color.
const DefaultHighlightColor = "yellow"

// Page is one page of a book's text.
type Page struct {
	Number     int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Text       string `json:"text"`
}

// GoToPage moves the reader to page, clamped to the book's range.
func (s *Store) GoToPage(id string, page int) (entities.Book, error) {
	return s.move(id, func(b entities.Book) pagination.Position {
		return pagination.GoTo(page, b.TotalPages)
	})
}

func (s *Store) NextPage(id string) (entities.Book, error) {
	return s.move(id, func(b entities.Book) pagination.Position {
		return pagination.Next(b.CurrentPage, b.TotalPages)
	})
}

func (s *Store) PreviousPage(id string) (entities.Book, error) {
	return s.move(id, func(b entities.Book) pagination.Position {
		return pagination.Previous(b.CurrentPage, b.TotalPages)
	})
}

func (s *Store) move(id string, to func(entities.Book) pagination.Position) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated entities.Book
	err := s.update(func(st *libraryState) error {
		i := st.bookIndex(id)
		if i < 0 {
			return ErrBookNotFound
		}
		b := &st.books[i]
		setPosition(b, to(*b), s.now())
		updated = b.Clone()
		return nil
	})
	if err != nil {
		return entities.Book{}, err
	}
	return updated, nil
}

// PageContent returns the text of page n of a book. Out-of-range pages
// are clamped.
func (s *Store) PageContent(id string, n int) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.bookIndex(id)
	if i < 0 {
		return Page{}, ErrBookNotFound
	}
	b := s.state.books[i]
	n = pagination.Clamp(n, b.TotalPages)
	return Page{
		Number:     n,
		TotalPages: b.TotalPages,
		Text:       pagination.PageContent(b.Content, n, s.pageSize),
	}, nil
}

// ToggleBookmark removes the bookmark on page if there is one, otherwise
// adds one. A page holds at most one bookmark. It reports whether a
// bookmark was added.
func (s *Store) ToggleBookmark(id string, page, position int, note string) (bool, entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		added   bool
		updated entities.Book
	)
	err := s.update(func(st *libraryState) error {
		i := st.bookIndex(id)
		if i < 0 {
			return ErrBookNotFound
		}
		b := &st.books[i]
		page = pagination.Clamp(page, b.TotalPages)

		if j := b.BookmarkAt(page); j >= 0 {
			b.Bookmarks = append(b.Bookmarks[:j], b.Bookmarks[j+1:]...)
		} else {
			b.Bookmarks = append(b.Bookmarks, entities.Bookmark{
				ID:        s.newID(),
				Page:      page,
				Position:  max(position, 0),
				Note:      strings.TrimSpace(note),
				CreatedAt: s.now(),
			})
			added = true
		}
		updated = b.Clone()
		return nil
	})
	if err != nil {
		return false, entities.Book{}, err
	}
	return added, updated, nil
}

// HighlightInput carries the fields of a new highlight.
type HighlightInput struct {
	Text     string `json:"text"`
	Color    string `json:"color"`
	Note     string `json:"note"`
	Page     int    `json:"page"`
	Position int    `json:"position"`
}

func (s *Store) AddHighlight(id string, in HighlightInput) (entities.Highlight, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return entities.Highlight{}, ErrEmptyHighlight
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = DefaultHighlightColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var h entities.Highlight
	err := s.update(func(st *libraryState) error {
		i := st.bookIndex(id)
		if i < 0 {
			return ErrBookNotFound
		}
		b := &st.books[i]
		h = entities.Highlight{
			ID:        s.newID(),
			Text:      text,
			Color:     color,
			Note:      strings.TrimSpace(in.Note),
			Page:      pagination.Clamp(in.Page, b.TotalPages),
			Position:  max(in.Position, 0),
			CreatedAt: s.now(),
		}
		b.Highlights = append(b.Highlights, h)
		return nil
	})
	if err != nil {
		return entities.Highlight{}, err
	}
	return h, nil
}

func (s *Store) RemoveHighlight(bookID, highlightID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(func(st *libraryState) error {
		i := st.bookIndex(bookID)
		if i < 0 {
			return ErrBookNotFound
		}
		b := &st.books[i]
		for j, h := range b.Highlights {
			if h.ID == highlightID {
				b.Highlights = append(b.Highlights[:j], b.Highlights[j+1:]...)
				return nil
			}
		}
		return ErrHighlightNotFound
	})
}
