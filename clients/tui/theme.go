// Package tui provides a terminal user interface for the Antigravity task list.
package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors (light/dark terminal detection).
var (
	ColorHigh     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF6B6B"}
	ColorMedium   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorLow      = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#7EE2B8"}
	ColorDone     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorCursor   = lipgloss.AdaptiveColor{Light: "#0070F3", Dark: "#79C0FF"}
	ColorStatusBg = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}
	ColorStatusFg = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#D1D5DB"}
)

// Component styles.
var (
	HighStyle   = lipgloss.NewStyle().Foreground(ColorHigh).Bold(true)
	MediumStyle = lipgloss.NewStyle().Foreground(ColorMedium)
	LowStyle    = lipgloss.NewStyle().Foreground(ColorLow)

	DoneStyle = lipgloss.NewStyle().
			Foreground(ColorDone).
			Strikethrough(true)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ColorCursor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().Foreground(ColorDone)

	TitleStyle = lipgloss.NewStyle().Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorStatusBg).
			Foreground(ColorStatusFg).
			Padding(0, 1)
)

// priorityStyle picks the style for a priority label.
func priorityStyle(p string) lipgloss.Style {
	switch p {
	case "high":
		return HighStyle
	case "medium":
		return MediumStyle
	default:
		return LowStyle
	}
}
