// Package utils provides shared utility functions for the TUI.
package utils

import (
	"github.com/mattn/go-runewidth"
)

// TruncateString truncates a string to a given display width and adds an
// ellipsis if truncated. Wide runes count as two cells.
func TruncateString(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}

	if width <= 1 {
		return "…"
	}

	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to the given display width.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
