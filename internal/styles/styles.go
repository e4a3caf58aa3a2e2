// Package styles holds the colors and lipgloss styles msedit prints with.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/CornHusker89/MagicStorage/internal/il"
)

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BlueColor      = lipgloss.Color("#60A5FA") // Blue

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Listing styles
	Offset   = lipgloss.NewStyle().Foreground(MutedColor)
	Inserted = lipgloss.NewStyle().Bold(true).Foreground(SecondaryColor)
	Call     = lipgloss.NewStyle().Foreground(PrimaryColor)
	Branch   = lipgloss.NewStyle().Foreground(BlueColor)
	Return   = lipgloss.NewStyle().Foreground(WarningColor)

	// Status colors
	StatusPatched   = lipgloss.Color("#10B981") // Green
	StatusUnpatched = lipgloss.Color("#9CA3AF") // Gray
	StatusFailed    = lipgloss.Color("#F87171") // Red
	StatusDisabled  = lipgloss.Color("#6B7280") // Dim gray
)

// OpcodeStyle returns the listing style for op.
func OpcodeStyle(op il.Opcode) lipgloss.Style {
	switch {
	case op == il.OpCall:
		return Call
	case op.IsBranch():
		return Branch
	case op == il.OpRet:
		return Return
	default:
		return Text
	}
}

// StatusColor returns the color for an edit status
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "patched":
		return StatusPatched
	case "unpatched":
		return StatusUnpatched
	case "failed":
		return StatusFailed
	case "disabled":
		return StatusDisabled
	default:
		return MutedColor
	}
}

// StatusIcon returns an icon for an edit status
func StatusIcon(status string) string {
	switch status {
	case "patched":
		return "✓"
	case "unpatched":
		return "○"
	case "failed":
		return "✗"
	case "disabled":
		return "-"
	default:
		return "●"
	}
}

// Renderer applies styles, or passes text through unchanged when color is off.
type Renderer struct {
	color bool
}

// NewRenderer creates a Renderer. With color on, the lipgloss color profile
// is forced so output keeps its colors even when piped.
func NewRenderer(color bool) Renderer {
	if color {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
	return Renderer{color: color}
}

// Color reports whether r emits color.
func (r Renderer) Color() bool { return r.color }

// Render renders text with style.
func (r Renderer) Render(style lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return style.Render(text)
}
