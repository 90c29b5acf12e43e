package library

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/reader/internal/pagination"
)

func TestAddBook(t *testing.T) {
	s, _ := openEmpty(t)

	t.Run("derives pages and defaults", func(t *testing.T) {
		content := strings.Repeat("é", pagination.DefaultPageSize+1)
		b, err := s.AddBook(BookInput{Title: "  Accents  ", Content: content, Tags: []string{"Uploaded"}})
		require.NoError(t, err)

		assert.Equal(t, "id-1", b.ID)
		assert.Equal(t, "Accents", b.Title)
		assert.Equal(t, UnknownAuthor, b.Author)
		assert.Equal(t, 2, b.TotalPages)
		assert.Equal(t, 0, b.CurrentPage)
		assert.Equal(t, 0.0, b.Progress)
		assert.Equal(t, testNow, b.DateAdded)
		assert.Equal(t, []string{"Uploaded"}, b.Tags)
		assert.NotNil(t, b.Highlights)
		assert.NotNil(t, b.Bookmarks)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := s.AddBook(BookInput{Title: " ", Content: "x"})
		assert.True(t, errors.Is(err, ErrEmptyTitle))
		assert.Len(t, s.Books(), 1)
	})

	t.Run("returned copy is independent", func(t *testing.T) {
		b, err := s.AddBook(BookInput{Title: "Copy", Content: "x", Tags: []string{"a"}})
		require.NoError(t, err)
		b.Tags[0] = "mutated"

		stored, err := s.GetBook(b.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, stored.Tags)
	})
}

func TestUpdateBook(t *testing.T) {
	s, _ := openEmpty(t)
	b, err := s.AddBook(BookInput{Title: "Old", Author: "Someone", Content: strings.Repeat("x", 10000)})
	require.NoError(t, err)

	title := "New"
	page := 3
	updated, err := s.UpdateBook(b.ID, BookPatch{Title: &title, Tags: []string{"Fav"}, CurrentPage: &page})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Someone", updated.Author)
	assert.Equal(t, []string{"Fav"}, updated.Tags)
	assert.Equal(t, 3, updated.CurrentPage)
	assert.InDelta(t, 3.0/5.0, updated.Progress, 1e-9)
	assert.Equal(t, b.Content, updated.Content)
	assert.Equal(t, b.DateAdded, updated.DateAdded)

	t.Run("missing id", func(t *testing.T) {
		_, err := s.UpdateBook("nope", BookPatch{Title: &title})
		assert.True(t, errors.Is(err, ErrBookNotFound))
	})

	t.Run("empty title", func(t *testing.T) {
		empty := ""
		_, err := s.UpdateBook(b.ID, BookPatch{Title: &empty})
		assert.True(t, errors.Is(err, ErrEmptyTitle))
	})
}

func TestDeleteBook_RemovesFromEveryFolder(t *testing.T) {
	s, err := Open(NewMemoryPersister(), testOptions(true))
	require.NoError(t, err)

	other, err := s.AddFolder("Other")
	require.NoError(t, err)
	_, err = s.AddBooksToFolder([]string{"1", "3"}, other.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteBook("1"))

	for _, f := range s.Folders() {
		assert.NotContains(t, f.BookIDs, "1", f.Name)
	}
	dystopian, err := s.Folder("2")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, dystopian.BookIDs)

	_, err = s.GetBook("1")
	assert.True(t, errors.Is(err, ErrBookNotFound))
	assert.True(t, errors.Is(s.DeleteBook("1"), ErrBookNotFound))
}

func TestDeleteBooks(t *testing.T) {
	s, err := Open(NewMemoryPersister(), testOptions(true))
	require.NoError(t, err)

	n, err := s.DeleteBooks([]string{"1", "3", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, s.Books(), 2)

	classics, _ := s.Folder("1")
	dystopian, _ := s.Folder("2")
	assert.Equal(t, []string{"2", "4"}, classics.BookIDs)
	assert.Empty(t, dystopian.BookIDs)
}

func TestSearchBooks(t *testing.T) {
	s, err := Open(NewMemoryPersister(), testOptions(true))
	require.NoError(t, err)

	t.Run("empty query returns all in order", func(t *testing.T) {
		assert.Equal(t, s.Books(), s.SearchBooks(""))
		assert.Equal(t, s.Books(), s.SearchBooks("   "))
	})

	tests := []struct {
		query string
		want  []string
	}{
		{"gatsby", []string{"1"}},
		{"HARPER", []string{"2"}},
		{"dystopian", []string{"3"}},
		{"classic", []string{"1", "2", "4"}},
		{"no such thing", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := s.SearchBooks(tt.query)
			require.NotNil(t, got)
			ids := []string{}
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestResetProgress(t *testing.T) {
	s, err := Open(NewMemoryPersister(), testOptions(true))
	require.NoError(t, err)

	n, err := s.ResetProgress([]string{"1", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	b, _ := s.GetBook("1")
	assert.Equal(t, 0, b.CurrentPage)
	assert.Equal(t, 0.0, b.Progress)
	assert.Equal(t, testNow, b.LastRead)

	untouched, _ := s.GetBook("2")
	assert.NotEqual(t, testNow, untouched.LastRead)

	for _, read := range s.RecentlyRead(0) {
		assert.NotEqual(t, "1", read.ID, "reset books are not listed as recently read")
	}
}

func TestRecentlyAddedAndRead(t *testing.T) {
	s, err := Open(NewMemoryPersister(), testOptions(true))
	require.NoError(t, err)

	assert.Empty(t, s.RecentlyAdded(0))

	fresh, err := s.AddBook(BookInput{Title: "Fresh", Content: "x"})
	require.NoError(t, err)

	added := s.RecentlyAdded(0)
	require.Len(t, added, 1)
	assert.Equal(t, fresh.ID, added[0].ID)

	read := s.RecentlyRead(0)
	require.Len(t, read, 4)
	assert.Equal(t, "2", read[0].ID)
	assert.Equal(t, "3", read[3].ID)

	assert.Len(t, s.RecentlyRead(2), 2)
}

func TestRecentlyAdded_NewestFirst(t *testing.T) {
	clock := testNow
	opts := testOptions(false)
	opts.Now = func() time.Time { return clock }
	s, err := Open(NewMemoryPersister(), opts)
	require.NoError(t, err)

	for i, title := range []string{"a", "b", "c"} {
		clock = testNow.Add(time.Duration(i) * time.Hour)
		_, err := s.AddBook(BookInput{Title: title, Content: "x"})
		require.NoError(t, err)
	}

	got := s.RecentlyAdded(2)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Title)
	assert.Equal(t, "b", got[1].Title)
}
