package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Top           key.Binding
	Bottom        key.Binding
	Open          key.Binding
	Favorite      key.Binding
	Delete        key.Binding
	AmountUp      key.Binding
	AmountDown    key.Binding
	Yank          key.Binding
	YankURL       key.Binding
	Search        key.Binding
	FavoritesOnly key.Binding
	ShowDeleted   key.Binding
	ClearFilters  key.Binding
	Refresh       key.Binding
	Add           key.Binding
	BulkImport    key.Binding
	Lists         key.Binding
	Compare       key.Binding
	Check         key.Binding
	Export        key.Binding
	LoadMore      key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l", "o"),
			key.WithHelp("enter", "open profile"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle favorite"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle deleted"),
		),
		AmountUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "amount +1"),
		),
		AmountDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "amount -1"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank handle"),
		),
		YankURL: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "yank URL"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		FavoritesOnly: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "favorites only"),
		),
		ShowDeleted: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "show deleted"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear filters"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add account"),
		),
		BulkImport: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bulk import"),
		),
		Lists: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "lists"),
		),
		Compare: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compare"),
		),
		Check: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "check profiles"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
