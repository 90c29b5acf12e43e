package library

import (
	"sort"
	"strings"
	"time"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/pagination"
)

// UnknownAuthor is stored when a book is added without an author.
const UnknownAuthor = "Unknown Author"

const (
	defaultRecentLimit = 4
	recentlyAddedSpan  = 7 * 24 * time.Hour
)

// BookInput carries the fields of a new book. Page count, position and
// timestamps are set by the store.
type BookInput struct {
	Title   string
	Author  string
	Cover   string
	Content string
	Tags    []string
}

// BookPatch is a partial update. Nil fields are left untouched.
type BookPatch struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Cover       *string  `json:"cover"`
	Tags        []string `json:"tags"`
	CurrentPage *int     `json:"currentPage"`
}

// AddBook appends a new book to the library.
func (s *Store) AddBook(in BookInput) (entities.Book, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return entities.Book{}, ErrEmptyTitle
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = UnknownAuthor
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	book := entities.Book{
		ID:         s.newID(),
		Title:      title,
		Author:     author,
		Cover:      in.Cover,
		Content:    in.Content,
		TotalPages: pagination.TotalPages(in.Content, s.pageSize),
		Tags:       append([]string(nil), tags...),
		Highlights: []entities.Highlight{},
		Bookmarks:  []entities.Bookmark{},
		LastRead:   now,
		DateAdded:  now,
	}

	err := s.update(func(st *libraryState) error {
		st.books = append(st.books, book)
		return nil
	})
	if err != nil {
		return entities.Book{}, err
	}
	return book.Clone(), nil
}

// UpdateBook merges patch into the book with the given id. Content is
// never patched; a new content means a new book.
func (s *Store) UpdateBook(id string, patch BookPatch) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated entities.Book
	err := s.update(func(st *libraryState) error {
		i := st.bookIndex(id)
		if i < 0 {
			return ErrBookNotFound
		}
		b := &st.books[i]
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return ErrEmptyTitle
			}
			b.Title = title
		}
		if patch.Author != nil {
			b.Author = strings.TrimSpace(*patch.Author)
			if b.Author == "" {
				b.Author = UnknownAuthor
			}
		}
		if patch.Cover != nil {
			b.Cover = *patch.Cover
		}
		if patch.Tags != nil {
			b.Tags = append([]string{}, patch.Tags...)
		}
		if patch.CurrentPage != nil {
			setPosition(b, pagination.GoTo(*patch.CurrentPage, b.TotalPages), s.now())
		}
		updated = b.Clone()
		return nil
	})
	if err != nil {
		return entities.Book{}, err
	}
	return updated, nil
}

// DeleteBook removes a book and drops it from every folder.
func (s *Store) DeleteBook(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(func(st *libraryState) error {
		if st.bookIndex(id) < 0 {
			return ErrBookNotFound
		}
		removeBooks(st, map[string]bool{id: true})
		return nil
	})
}

// DeleteBooks removes every listed book that exists and returns how many
// were removed. Unknown ids are ignored.
func (s *Store) DeleteBooks(ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	err := s.update(func(st *libraryState) error {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		removed = removeBooks(st, set)
		return nil
	})
	return removed, err
}

func removeBooks(st *libraryState, ids map[string]bool) int {
	kept := st.books[:0]
	for _, b := range st.books {
		if !ids[b.ID] {
			kept = append(kept, b)
		}
	}
	removed := len(st.books) - len(kept)
	st.books = kept

	for i := range st.folders {
		f := &st.folders[i]
		members := f.BookIDs[:0]
		for _, id := range f.BookIDs {
			if !ids[id] {
				members = append(members, id)
			}
		}
		f.BookIDs = members
	}
	return removed
}

// GetBook returns a copy of the book with the given id.
func (s *Store) GetBook(id string) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.bookIndex(id)
	if i < 0 {
		return entities.Book{}, ErrBookNotFound
	}
	return s.state.books[i].Clone(), nil
}

// Books returns every book in library order.
func (s *Store) Books() []entities.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booksLocked(nil)
}

func (s *Store) booksLocked(keep func(entities.Book) bool) []entities.Book {
	out := make([]entities.Book, 0, len(s.state.books))
	for _, b := range s.state.books {
		if keep == nil || keep(b) {
			out = append(out, b.Clone())
		}
	}
	return out
}

// SearchBooks matches query case-insensitively against title, author and
// tags. An empty query returns the whole library in order.
func (s *Store) SearchBooks(query string) []entities.Book {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	if q == "" {
		return s.booksLocked(nil)
	}
	return s.booksLocked(func(b entities.Book) bool {
		return matches(b, q)
	})
}

func matches(b entities.Book, q string) bool {
	if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
		return true
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// ResetProgress marks the listed books as unread. Unknown ids are ignored.
// Like any other progress change it stamps LastRead.
func (s *Store) ResetProgress(ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var reset int
	err := s.update(func(st *libraryState) error {
		for _, id := range ids {
			if i := st.bookIndex(id); i >= 0 {
				st.books[i].CurrentPage = 0
				st.books[i].Progress = 0
				st.books[i].LastRead = now
				reset++
			}
		}
		return nil
	})
	return reset, err
}

// RecentlyAdded returns books added in the last week, newest first.
func (s *Store) RecentlyAdded(limit int) []entities.Book {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	s.mu.Lock()
	cutoff := s.now().Add(-recentlyAddedSpan)
	books := s.booksLocked(func(b entities.Book) bool {
		return b.DateAdded.After(cutoff)
	})
	s.mu.Unlock()

	sort.SliceStable(books, func(i, j int) bool {
		return books[i].DateAdded.After(books[j].DateAdded)
	})
	return truncate(books, limit)
}

// RecentlyRead returns opened books ordered by last read, most recent first.
func (s *Store) RecentlyRead(limit int) []entities.Book {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	s.mu.Lock()
	books := s.booksLocked(func(b entities.Book) bool {
		return b.CurrentPage > 0
	})
	s.mu.Unlock()

	sort.SliceStable(books, func(i, j int) bool {
		return books[i].LastRead.After(books[j].LastRead)
	})
	return truncate(books, limit)
}

func truncate(books []entities.Book, limit int) []entities.Book {
	if len(books) > limit {
		return books[:limit]
	}
	return books
}

func setPosition(b *entities.Book, pos pagination.Position, now time.Time) {
	b.CurrentPage = pos.Page
	b.Progress = pos.Progress
	b.LastRead = now
}
