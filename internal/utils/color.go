package utils

import "strings"

// Highlight colors offered by the reader.
var highlightColors = map[string]struct {
	hex     string
	callout string
}{
	"yellow": {"#FFF3A3", "quote"},
	"green":  {"#B8F2B0", "note"},
	"blue":   {"#A8D8FF", "info"},
	"pink":   {"#FFB8D9", "warning"},
	"purple": {"#D9B8FF", "tip"},
}

// HighlightColorHex returns the RGB hex value of a named highlight color.
// Hex values pass through unchanged; unknown names map to yellow.
func HighlightColorHex(color string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	if strings.HasPrefix(color, "#") {
		return strings.ToUpper(color)
	}
	if c, ok := highlightColors[color]; ok {
		return c.hex
	}
	return highlightColors["yellow"].hex
}

// ColorToCalloutType maps a highlight color to an Obsidian callout type.
// Default return is "quote" for unknown colors.
func ColorToCalloutType(color string) string {
	if c, ok := highlightColors[strings.ToLower(strings.TrimSpace(color))]; ok {
		return c.callout
	}
	return "quote"
}
