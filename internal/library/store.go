// Package library owns the persisted reader state: books, folders and
// reader settings.
//
// Every mutation is applied to a copy of the state, written in full through
// the injected Persister, and only then made visible. A failed write leaves
// the store unchanged. Deleting books always removes their ids from every
// folder in the same step.
package library

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/pagination"
)

// Options configures a Store.
type Options struct {
	// PageSize is the number of characters per page.
	PageSize int
	// SeedSamples fills absent records with the built-in sample library.
	SeedSamples bool
	// Now and NewID are injectable for tests.
	Now   func() time.Time
	NewID func() string
}

// DefaultOptions returns the options used by the application.
func DefaultOptions() Options {
	return Options{
		PageSize:    pagination.DefaultPageSize,
		SeedSamples: true,
	}
}

// Store is the single writer of library state.
type Store struct {
	mu        sync.Mutex
	persister Persister
	pageSize  int
	now       func() time.Time
	newID     func() string
	state     libraryState
}

type libraryState struct {
	books    []entities.Book
	folders  []entities.Folder
	settings entities.ReaderSettings
}

func (st libraryState) clone() libraryState {
	out := libraryState{
		books:    make([]entities.Book, len(st.books)),
		folders:  make([]entities.Folder, len(st.folders)),
		settings: st.settings,
	}
	for i, b := range st.books {
		out.books[i] = b.Clone()
	}
	for i, f := range st.folders {
		out.folders[i] = f.Clone()
	}
	return out
}

func (st *libraryState) bookIndex(id string) int {
	for i := range st.books {
		if st.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *libraryState) folderIndex(id string) int {
	for i := range st.folders {
		if st.folders[i].ID == id {
			return i
		}
	}
	return -1
}

// Open loads the library from p. Records that are absent are seeded with
// the sample library (or left empty when seeding is disabled). Stored books
// are reconciled with the configured page size before the store is returned.
func Open(p Persister, opts Options) (*Store, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = pagination.DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	s := &Store{
		persister: p,
		pageSize:  opts.PageSize,
		now:       opts.Now,
		newID:     opts.NewID,
	}

	seeded, err := s.load(opts.SeedSamples)
	if err != nil {
		return nil, err
	}

	reconciled := reconcile(&s.state, s.pageSize)
	if seeded || reconciled {
		if err := s.persist(s.state); err != nil {
			return nil, err
		}
	}

	log.Printf("Library loaded: %d books, %d folders (page size %d)", len(s.state.books), len(s.state.folders), s.pageSize)
	return s, nil
}

// load reads each record, returning true if any record had to be seeded.
func (s *Store) load(seedSamples bool) (bool, error) {
	seeded := false

	found, err := s.loadRecord(KeyBooks, &s.state.books)
	if err != nil {
		return false, err
	}
	if !found {
		seeded = true
		if seedSamples {
			s.state.books = SampleBooks()
		}
	}

	found, err = s.loadRecord(KeyFolders, &s.state.folders)
	if err != nil {
		return false, err
	}
	if !found {
		seeded = true
		if seedSamples {
			s.state.folders = SampleFolders()
		}
	}

	s.state.settings = entities.DefaultReaderSettings()
	found, err = s.loadRecord(KeySettings, &s.state.settings)
	if err != nil {
		return false, err
	}
	if !found {
		seeded = true
	}

	if s.state.books == nil {
		s.state.books = []entities.Book{}
	}
	if s.state.folders == nil {
		s.state.folders = []entities.Folder{}
	}
	return seeded, nil
}

func (s *Store) loadRecord(key string, into any) (bool, error) {
	data, err := s.persister.Load(key)
	if errors.Is(err, ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "load %s", key)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return false, errors.Wrapf(err, "decode %s", key)
	}
	return true, nil
}

// reconcile restores the invariants on loaded data: page counts derived
// from content, positions consistent with page counts, folder members that
// exist. It reports whether anything changed.
func reconcile(st *libraryState, pageSize int) bool {
	changed := false

	known := make(map[string]bool, len(st.books))
	for i := range st.books {
		b := &st.books[i]
		known[b.ID] = true

		if b.Tags == nil {
			b.Tags = []string{}
		}
		if b.Highlights == nil {
			b.Highlights = []entities.Highlight{}
		}
		if b.Bookmarks == nil {
			b.Bookmarks = []entities.Bookmark{}
		}

		total := pagination.TotalPages(b.Content, pageSize)
		pos := pagination.Position{Page: b.CurrentPage, Progress: b.Progress}
		if total != b.TotalPages {
			pos = pagination.Rebase(pos, total)
		} else {
			pos = settle(pos, total)
		}
		if total != b.TotalPages || pos.Page != b.CurrentPage || pos.Progress != b.Progress {
			b.TotalPages = total
			b.CurrentPage = pos.Page
			b.Progress = pos.Progress
			changed = true
		}
	}

	for i := range st.folders {
		f := &st.folders[i]
		members := dedupe(f.BookIDs, known)
		if len(members) != len(f.BookIDs) || f.BookIDs == nil {
			changed = true
		}
		f.BookIDs = members
	}

	normalized := normalizeSettings(st.settings)
	if normalized != st.settings {
		st.settings = normalized
		changed = true
	}
	return changed
}

// settle makes a stored position consistent with total without moving a
// valid page.
func settle(pos pagination.Position, total int) pagination.Position {
	if pos.Page <= 0 {
		return pagination.Position{}
	}
	return pagination.GoTo(pos.Page, total)
}

// dedupe keeps the first occurrence of each id present in known.
func dedupe(ids []string, known map[string]bool) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] || !known[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// update applies fn to a copy of the state and commits it once persisted.
// Callers must hold s.mu.
func (s *Store) update(fn func(st *libraryState) error) error {
	next := s.state.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) persist(st libraryState) error {
	values := map[string]any{
		KeyBooks:    st.books,
		KeyFolders:  st.folders,
		KeySettings: st.settings,
	}
	records := make(map[string][]byte, len(values))
	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "encode %s", key)
		}
		records[key] = data
	}

	if batch, ok := s.persister.(BatchPersister); ok {
		return errors.Wrap(batch.SaveAll(records), "persist library")
	}
	for _, key := range recordKeys {
		if err := s.persister.Save(key, records[key]); err != nil {
			return errors.Wrapf(err, "persist %s", key)
		}
	}
	return nil
}

// PageSize returns the characters-per-page in effect.
func (s *Store) PageSize() int {
	return s.pageSize
}
