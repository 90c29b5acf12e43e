package library

import "github.com/pkg/errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrFolderNotFound    = errors.New("folder not found")
	ErrHighlightNotFound = errors.New("highlight not found")
	ErrEmptyTitle        = errors.New("book title is required")
	ErrEmptyFolderName   = errors.New("folder name is required")
	ErrEmptyHighlight    = errors.New("highlight text is required")
	ErrInvalidSettings   = errors.New("invalid reader settings")
	ErrUnknownTheme      = errors.New("unknown theme")
)
