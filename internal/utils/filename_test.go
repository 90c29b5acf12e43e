package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes invalid characters",
			input:    `file<>:"/\|?*name`,
			expected: "filename",
		},
		{
			name:     "replaces newlines and tabs with spaces",
			input:    "file\nname\twith\rspaces",
			expected: "file name with spaces",
		},
		{
			name:     "collapses spaces left by removed characters",
			input:    "Dune : Messiah",
			expected: "Dune Messiah",
		},
		{
			name:     "removes hashtags and replaces brackets",
			input:    "#1984 [Annotated]",
			expected: "1984 (Annotated)",
		},
		{
			name:     "drops leading dots",
			input:    "..hidden",
			expected: "hidden",
		},
		{
			name:     "returns Untitled for only special chars",
			input:    "<>:?*",
			expected: "Untitled",
		},
		{
			name:     "truncates long names",
			input:    strings.Repeat("a", 250),
			expected: strings.Repeat("a", 200),
		},
		{
			name:     "handles unicode",
			input:    "Pamiętnik znaleziony w wannie",
			expected: "Pamiętnik znaleziony w wannie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_TruncatesOnRuneBoundary(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("ę", 150))
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 200)
}

func TestNoteFilename(t *testing.T) {
	assert.Equal(t, "The Great Gatsby - F. Scott Fitzgerald.md", NoteFilename("The Great Gatsby", "F. Scott Fitzgerald"))
	assert.Equal(t, "1984.md", NoteFilename("1984", ""))
	assert.Equal(t, "Untitled.md", NoteFilename("", ""))
}
