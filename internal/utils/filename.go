package utils

import (
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	// Runs of whitespace to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

const maxFilenameLen = 200

// SanitizeFilename makes a book title safe to use as a file name in a
// notes vault. Path separators and reserved characters are removed,
// markdown link syntax is neutralised and the result is never empty.
func SanitizeFilename(filename string) string {
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	filename = strings.ReplaceAll(filename, "#", "")
	filename = strings.ReplaceAll(filename, "[", "(")
	filename = strings.ReplaceAll(filename, "]", ")")
	filename = strings.TrimLeft(filename, ".")

	if len(filename) > maxFilenameLen {
		cut := maxFilenameLen
		for cut > 0 && !isRuneStart(filename[cut]) {
			cut--
		}
		filename = strings.TrimSpace(filename[:cut])
	}

	if filename == "" {
		filename = "Untitled"
	}
	return filename
}

// NoteFilename returns the markdown file name used for a book.
func NoteFilename(title, author string) string {
	name := title
	if author != "" {
		name = title + " - " + author
	}
	return SanitizeFilename(name) + ".md"
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
