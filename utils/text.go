package utils

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// NormaliseText strips leading/trailing whitespace and collapses internal whitespace.
func NormaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}

// Clip returns at most max runes of s, without an ellipsis.
func Clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// FitColumn truncates s to the given display width (with "...") and pads it
// on the right so console columns line up regardless of wide characters.
func FitColumn(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}
