package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string
	Desc string
}

// renderHints renders hints in horizontal format for the bottom bar:
// "j/k:move enter:open f:fav".
func (a App) renderHints(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints for modals: "Enter confirm  Esc cancel".
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// contextualHints returns the bottom-bar hints for the normal table.
func (a App) contextualHints() []Hint {
	return []Hint{
		{Key: "j/k", Desc: "move"},
		{Key: "enter", Desc: "open"},
		{Key: "f", Desc: "fav"},
		{Key: "d", Desc: "del"},
		{Key: "+/-", Desc: "amt"},
		{Key: "/", Desc: "search"},
		{Key: "L", Desc: "lists"},
		{Key: "c", Desc: "compare"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}
}
