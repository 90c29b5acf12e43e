package epub

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// maxEntrySize caps the decompressed size of a single entry.
const maxEntrySize = 256 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Archive gives named access to the entries of an EPUB container.
type Archive struct {
	entries map[string]*zip.File
}

// Entry is a single file stored in an Archive.
type Entry struct {
	file *zip.File
}

// OpenArchive reads the ZIP central directory from data.
func OpenArchive(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ArchiveError{Err: err}
	}

	a := &Archive{entries: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		// First occurrence wins for duplicated names.
		if _, dup := a.entries[f.Name]; dup {
			continue
		}
		a.entries[f.Name] = f
	}
	return a, nil
}

// Entry looks up name exactly as stored; lookups are case-sensitive.
func (a *Archive) Entry(name string) (*Entry, bool) {
	f, ok := a.entries[name]
	if !ok {
		return nil, false
	}
	return &Entry{file: f}, true
}

// Name returns the stored entry name.
func (e *Entry) Name() string {
	return e.file.Name
}

// Binary returns the decompressed entry bytes.
func (e *Entry) Binary() ([]byte, error) {
	if e.file.UncompressedSize64 > maxEntrySize {
		return nil, errors.Errorf("entry %s exceeds %d bytes", e.file.Name, maxEntrySize)
	}

	rc, err := e.file.Open()
	if err != nil {
		return nil, errors.Wrapf(corruptEntry(err), "open entry %s", e.file.Name)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, errors.Wrapf(corruptEntry(err), "read entry %s", e.file.Name)
	}
	if len(data) > maxEntrySize {
		return nil, errors.Errorf("entry %s exceeds %d bytes", e.file.Name, maxEntrySize)
	}
	return data, nil
}

// Text returns the entry decoded as UTF-8 with any byte order mark removed.
// Invalid byte sequences are replaced with U+FFFD.
func (e *Entry) Text() (string, error) {
	data, err := e.Binary()
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(bytes.TrimPrefix(data, utf8BOM)), "\uFFFD"), nil
}

// corruptEntry marks damaged entry data as an archive error: a bad local
// header, a truncated stream, a checksum mismatch or an unknown compression
// method.
func corruptEntry(err error) error {
	switch {
	case errors.Is(err, zip.ErrFormat),
		errors.Is(err, zip.ErrChecksum),
		errors.Is(err, zip.ErrAlgorithm),
		errors.Is(err, io.ErrUnexpectedEOF):
		return &ArchiveError{Err: err}
	}
	var corrupt flate.CorruptInputError
	if errors.As(err, &corrupt) {
		return &ArchiveError{Err: err}
	}
	return err
}
