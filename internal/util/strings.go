// Package util provides shared utility functions used across the codebase.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Fit truncates s to width visual columns, ending it with "..." when cut.
// ANSI escape codes and wide characters are accounted for, so styled
// listing lines can be fitted to the terminal. A width of zero or less means
// no limit.
func Fit(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return "..."
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, width, "...")
}
