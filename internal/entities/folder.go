package entities

import "time"

// Folder is a named, non-owning grouping of books.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BookIDs   []string  `json:"bookIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contains reports whether bookID is a member.
func (f Folder) Contains(bookID string) bool {
	for _, id := range f.BookIDs {
		if id == bookID {
			return true
		}
	}
	return false
}

func (f Folder) Clone() Folder {
	out := f
	out.BookIDs = cloneSlice(f.BookIDs)
	return out
}
