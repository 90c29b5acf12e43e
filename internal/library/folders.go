package library

import (
	"strings"

	"github.com/mrlokans/reader/internal/entities"
)

// FolderPatch is a partial folder update. BookIDs, when set, replaces the
// membership and must reference existing books.
type FolderPatch struct {
	Name    *string  `json:"name"`
	BookIDs []string `json:"bookIds"`
}

func (s *Store) AddFolder(name string) (entities.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.Folder{}, ErrEmptyFolderName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder := entities.Folder{
		ID:        s.newID(),
		Name:      name,
		BookIDs:   []string{},
		CreatedAt: s.now(),
	}
	err := s.update(func(st *libraryState) error {
		st.folders = append(st.folders, folder)
		return nil
	})
	if err != nil {
		return entities.Folder{}, err
	}
	return folder.Clone(), nil
}

func (s *Store) UpdateFolder(id string, patch FolderPatch) (entities.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated entities.Folder
	err := s.update(func(st *libraryState) error {
		i := st.folderIndex(id)
		if i < 0 {
			return ErrFolderNotFound
		}
		f := &st.folders[i]
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return ErrEmptyFolderName
			}
			f.Name = name
		}
		if patch.BookIDs != nil {
			if err := requireBooks(st, patch.BookIDs); err != nil {
				return err
			}
			f.BookIDs = dedupe(patch.BookIDs, allBooks(st))
		}
		updated = f.Clone()
		return nil
	})
	if err != nil {
		return entities.Folder{}, err
	}
	return updated, nil
}

// DeleteFolder removes the folder only. Its books stay in the library.
func (s *Store) DeleteFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(func(st *libraryState) error {
		i := st.folderIndex(id)
		if i < 0 {
			return ErrFolderNotFound
		}
		st.folders = append(st.folders[:i], st.folders[i+1:]...)
		return nil
	})
}

// AddBooksToFolder adds ids to the folder. Ids already present are kept once.
func (s *Store) AddBooksToFolder(ids []string, folderID string) (entities.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated entities.Folder
	err := s.update(func(st *libraryState) error {
		i := st.folderIndex(folderID)
		if i < 0 {
			return ErrFolderNotFound
		}
		if err := requireBooks(st, ids); err != nil {
			return err
		}
		f := &st.folders[i]
		f.BookIDs = dedupe(append(f.BookIDs, ids...), allBooks(st))
		updated = f.Clone()
		return nil
	})
	if err != nil {
		return entities.Folder{}, err
	}
	return updated, nil
}

// RemoveBooksFromFolder removes ids from the folder. Ids that are not
// members are ignored.
func (s *Store) RemoveBooksFromFolder(ids []string, folderID string) (entities.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated entities.Folder
	err := s.update(func(st *libraryState) error {
		i := st.folderIndex(folderID)
		if i < 0 {
			return ErrFolderNotFound
		}
		drop := make(map[string]bool, len(ids))
		for _, id := range ids {
			drop[id] = true
		}
		f := &st.folders[i]
		members := make([]string, 0, len(f.BookIDs))
		for _, id := range f.BookIDs {
			if !drop[id] {
				members = append(members, id)
			}
		}
		f.BookIDs = members
		updated = f.Clone()
		return nil
	})
	if err != nil {
		return entities.Folder{}, err
	}
	return updated, nil
}

func (s *Store) Folders() []entities.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.Folder, len(s.state.folders))
	for i, f := range s.state.folders {
		out[i] = f.Clone()
	}
	return out
}

func (s *Store) Folder(id string) (entities.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.folderIndex(id)
	if i < 0 {
		return entities.Folder{}, ErrFolderNotFound
	}
	return s.state.folders[i].Clone(), nil
}

// BooksInFolder returns the folder's books in library order.
func (s *Store) BooksInFolder(folderID string) ([]entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.folderIndex(folderID)
	if i < 0 {
		return nil, ErrFolderNotFound
	}
	folder := s.state.folders[i]
	return s.booksLocked(func(b entities.Book) bool {
		return folder.Contains(b.ID)
	}), nil
}

// FolderBookCounts maps folder id to the number of books it holds.
func (s *Store) FolderBookCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int, len(s.state.folders))
	for _, f := range s.state.folders {
		counts[f.ID] = len(f.BookIDs)
	}
	return counts
}

func requireBooks(st *libraryState, ids []string) error {
	for _, id := range ids {
		if st.bookIndex(id) < 0 {
			return ErrBookNotFound
		}
	}
	return nil
}

func allBooks(st *libraryState) map[string]bool {
	known := make(map[string]bool, len(st.books))
	for _, b := range st.books {
		known[b.ID] = true
	}
	return known
}
