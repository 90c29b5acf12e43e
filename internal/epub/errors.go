package epub

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reasons carried by InvalidEpubError.
const (
	ReasonContainerNotFound = "container.xml not found"
	ReasonRootfileMissing   = "rootfile missing"
	ReasonOPFNotFound       = "OPF file not found"
	ReasonMalformedPackage  = "malformed package document"
	ReasonNoContent         = "no content"
)

// ArchiveError reports a buffer that is not a readable ZIP container.
type ArchiveError struct {
	Err error
}

func (e *ArchiveError) Error() string {
	return "archive error: " + e.Err.Error()
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// InvalidEpubError reports a readable archive that is not a usable EPUB.
type InvalidEpubError struct {
	Reason string
}

func (e *InvalidEpubError) Error() string {
	return "invalid epub: " + e.Reason
}

// IngestionError is the only error Ingest returns. It wraps the stage failure.
type IngestionError struct {
	FileName string
	Err      error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("failed to ingest %q: %v", e.FileName, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// Reason returns a short human-readable cause suitable for showing to a user.
func (e *IngestionError) Reason() string {
	var invalid *InvalidEpubError
	if errors.As(e.Err, &invalid) {
		return invalid.Reason
	}
	var archive *ArchiveError
	if errors.As(e.Err, &archive) {
		return "not a valid EPUB archive"
	}
	return errors.Cause(e.Err).Error()
}

// IsInvalid reports whether err is (or wraps) an InvalidEpubError with the given reason.
// An empty reason matches any InvalidEpubError.
func IsInvalid(err error, reason string) bool {
	var invalid *InvalidEpubError
	if !errors.As(err, &invalid) {
		return false
	}
	return reason == "" || invalid.Reason == reason
}

// IsArchiveError reports whether err is (or wraps) an ArchiveError.
func IsArchiveError(err error) bool {
	var archive *ArchiveError
	return errors.As(err, &archive)
}

func invalidEpub(reason string) error {
	return &InvalidEpubError{Reason: reason}
}
