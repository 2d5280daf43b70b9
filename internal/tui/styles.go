package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App         lipgloss.Style
	Title       lipgloss.Style
	Header      lipgloss.Style
	HeaderSort  lipgloss.Style
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	RowDeleted  lipgloss.Style
	RowStale    lipgloss.Style
	RowAging    lipgloss.Style
	Favorite    lipgloss.Style
	Handle      lipgloss.Style
	Date        lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Empty       lipgloss.Style
	Modal       lipgloss.Style
	HintKey     lipgloss.Style
	HintDesc    lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Grayscale with a single desaturated teal accent and an amber warning tone.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	warn := lipgloss.AdaptiveColor{Light: "#8A6D3B", Dark: "#B8860B"}
	danger := lipgloss.AdaptiveColor{Light: "#8B3A3A", Dark: "#A05252"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Header: lipgloss.NewStyle().
			Foreground(subtle),

		HeaderSort: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Row: lipgloss.NewStyle().
			Foreground(primary),

		RowSelected: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		RowDeleted: lipgloss.NewStyle().
			Foreground(subtle).
			Strikethrough(true),

		RowStale: lipgloss.NewStyle().
			Foreground(warn),

		RowAging: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6B6B45", Dark: "#9B9B62"}),

		Favorite: lipgloss.NewStyle().
			Foreground(accent),

		Handle: lipgloss.NewStyle().
			Foreground(subtle),

		Date: lipgloss.NewStyle().
			Foreground(subtle),

		Status: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(1, 0, 0, 0),

		Error: lipgloss.NewStyle().
			Foreground(danger),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
