package util

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "ret",
			width:    10,
			expected: "ret",
		},
		{
			name:     "exact width unchanged",
			input:    "ldarg.0",
			width:    7,
			expected: "ldarg.0",
		},
		{
			name:     "long string truncated",
			input:    "call Terraria.Player::useVoidBag",
			width:    12,
			expected: "call Terr...",
		},
		{
			name:     "zero width is unlimited",
			input:    "call Terraria.Player::useVoidBag",
			width:    0,
			expected: "call Terraria.Player::useVoidBag",
		},
		{
			name:     "tiny width returns ellipsis",
			input:    "brtrue",
			width:    2,
			expected: "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Fit(tt.input, tt.width)
			if result != tt.expected {
				t.Errorf("Fit(%q, %d) = %q, want %q", tt.input, tt.width, result, tt.expected)
			}
		})
	}
}

func TestFit_Styled(t *testing.T) {
	style := lipgloss.NewStyle().Bold(true)
	input := style.Render("mismatch for ret instructions detected")

	result := Fit(input, 15)
	if w := lipgloss.Width(result); w > 15 {
		t.Errorf("Fit() width = %d, want <= 15", w)
	}
	if !strings.Contains(result, "...") {
		t.Errorf("Fit() = %q, want ellipsis", result)
	}
}
