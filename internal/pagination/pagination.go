// Package pagination maps plain text onto fixed-size pages and keeps a
// reader's page and progress fraction in step.
package pagination

import (
	"math"
	"unicode/utf8"
)

const (
	// DefaultPageSize is the number of characters shown per page.
	DefaultPageSize = 2400

	// LegacyPageSize was used by libraries created before the page size grew.
	LegacyPageSize = 1200
)

// Position is a reading position. Page 0 means the book has not been opened.
type Position struct {
	Page     int     `json:"currentPage"`
	Progress float64 `json:"progress"`
}

// TotalPages returns the number of pages needed for content, never less than one.
// Length is measured in characters, not bytes.
func TotalPages(content string, pageSize int) int {
	pageSize = normalizePageSize(pageSize)
	n := utf8.RuneCountInString(content)
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PageContent returns the text of page n. Out-of-range pages are clamped.
func PageContent(content string, page, pageSize int) string {
	pageSize = normalizePageSize(pageSize)
	runes := []rune(content)
	page = Clamp(page, TotalPages(content, pageSize))

	start := (page - 1) * pageSize
	if start >= len(runes) {
		return ""
	}
	end := min(start+pageSize, len(runes))
	return string(runes[start:end])
}

// Clamp limits page to [1, total].
func Clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// GoTo moves to page, clamped, and derives the matching progress.
func GoTo(page, total int) Position {
	if total < 1 {
		total = 1
	}
	page = Clamp(page, total)
	return Position{Page: page, Progress: float64(page) / float64(total)}
}

// Next advances one page.
func Next(current, total int) Position {
	return GoTo(current+1, total)
}

// Previous goes back one page.
func Previous(current, total int) Position {
	return GoTo(current-1, total)
}

// Rebase carries a position over to a different page count. The progress
// fraction is kept, the nearest page is derived from it and progress is
// recomputed from that page. Unopened books stay unopened.
func Rebase(pos Position, newTotal int) Position {
	if pos.Page <= 0 {
		return Position{}
	}
	progress := pos.Progress
	if math.IsNaN(progress) || progress < 0 {
		progress = 0
	}
	return GoTo(int(math.Round(progress*float64(newTotal))), newTotal)
}

func normalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	return pageSize
}
