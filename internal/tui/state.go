package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"followdeck/internal/checker"
	"followdeck/internal/compare"
	"followdeck/internal/importer"
	"followdeck/internal/model"
	"followdeck/internal/view"
)

// Mode identifies which surface currently owns the keyboard.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeAdd
	ModeBulkPreview
	ModeLists
	ModeListCreate
	ModeListConfirmDelete
	ModeCompare
	ModeCheckRunning
	ModeCheckResults
	ModeHelp
)

// SearchState holds the draft inputs of the search modal. Nothing here
// touches the derived view until the draft is committed.
type SearchState struct {
	Query    textinput.Model
	DateFrom textinput.Model
	DateTo   textinput.Model
	Field    view.SearchField
	UseDates bool
	FocusIdx int // 0=query, 1=from, 2=to
}

// NewSearchState creates a SearchState with initialized inputs.
func NewSearchState() SearchState {
	query := textinput.New()
	query.Placeholder = "Search..."
	query.CharLimit = 100
	query.Width = 40

	from := textinput.New()
	from.Placeholder = "YYYY/MM/DD"
	from.CharLimit = 10
	from.Width = 12

	to := textinput.New()
	to.Placeholder = "YYYY/MM/DD"
	to.CharLimit = 10
	to.Width = 12

	return SearchState{Query: query, DateFrom: from, DateTo: to}
}

// LoadFrom seeds the draft from the committed filter state.
func (s *SearchState) LoadFrom(f view.FilterState) {
	s.Query.SetValue(f.Query)
	s.DateFrom.SetValue(f.DateFrom)
	s.DateTo.SetValue(f.DateTo)
	s.Field = f.SearchField
	s.UseDates = f.DateEnabled
	s.FocusIdx = 0
	s.Query.Focus()
	s.DateFrom.Blur()
	s.DateTo.Blur()
}

// AddState holds the add-account form.
type AddState struct {
	Name     textinput.Model
	Handle   textinput.Model
	Amount   textinput.Model
	Favorite bool
	FocusIdx int // 0=name, 1=handle, 2=amount
}

// NewAddState creates an AddState with initialized inputs.
func NewAddState() AddState {
	name := textinput.New()
	name.Placeholder = "Display name"
	name.CharLimit = 100
	name.Width = 40

	handle := textinput.New()
	handle.Placeholder = "handle"
	handle.CharLimit = 100
	handle.Width = 40

	amount := textinput.New()
	amount.Placeholder = "0"
	amount.CharLimit = 6
	amount.Width = 8

	return AddState{Name: name, Handle: handle, Amount: amount}
}

// Reset clears the form for a new session.
func (a *AddState) Reset() {
	a.Name.Reset()
	a.Handle.Reset()
	a.Amount.Reset()
	a.Favorite = false
	a.FocusIdx = 0
	a.Name.Focus()
	a.Handle.Blur()
	a.Amount.Blur()
}

// BulkState holds a parsed bulk-import batch awaiting confirmation.
type BulkState struct {
	Candidates []importer.Candidate
	Plan       importer.Plan
}

// Reset clears the pending batch.
func (b *BulkState) Reset() {
	b.Candidates = nil
	b.Plan = importer.Plan{}
}

// ListsState holds the list picker with fuzzy filtering plus the
// create-list form.
type ListsState struct {
	Filter   textinput.Model
	All      []model.List
	Filtered []model.List
	Cursor   int

	NameInput textinput.Model
	DescInput textinput.Model
	CreateIdx int // 0=name, 1=description

	DeleteTarget string // list id pending delete confirmation
}

// NewListsState creates a ListsState with initialized inputs.
func NewListsState() ListsState {
	filter := textinput.New()
	filter.Placeholder = "Filter lists..."
	filter.CharLimit = 50
	filter.Width = 30

	name := textinput.New()
	name.Placeholder = "List name"
	name.CharLimit = 50
	name.Width = 30

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 100
	desc.Width = 40

	return ListsState{Filter: filter, NameInput: name, DescInput: desc}
}

// Reset clears the picker for a new session.
func (l *ListsState) Reset() {
	l.Filter.Reset()
	l.Filter.Focus()
	l.All = nil
	l.Filtered = nil
	l.Cursor = 0
	l.NameInput.Reset()
	l.DescInput.Reset()
	l.CreateIdx = 0
	l.DeleteTarget = ""
}

// Current returns the list under the cursor, or nil.
func (l *ListsState) Current() *model.List {
	if len(l.Filtered) == 0 || l.Cursor >= len(l.Filtered) {
		return nil
	}
	return &l.Filtered[l.Cursor]
}

// CompareState holds the comparison selection modal.
type CompareState struct {
	Lists          []model.List // candidates, active list excluded
	Cursor         int
	Selected       []string // selection in insertion order
	Mode           compare.Mode
	ExcludeDefault bool
}

// Reset clears the modal, seeding it from the session's active selection.
func (c *CompareState) Reset(mode compare.Mode, selected []string, excludeDefault bool) {
	c.Lists = nil
	c.Cursor = 0
	c.Selected = append([]string(nil), selected...)
	c.Mode = mode
	if c.Mode == compare.ModeNone {
		c.Mode = compare.ModeIntersection
	}
	c.ExcludeDefault = excludeDefault
}

// Toggle adds or removes a list from the selection, preserving
// insertion order.
func (c *CompareState) Toggle(id string) {
	for i, sel := range c.Selected {
		if sel == id {
			c.Selected = append(c.Selected[:i], c.Selected[i+1:]...)
			return
		}
	}
	c.Selected = append(c.Selected, id)
}

// IsSelected reports whether the list is in the selection.
func (c *CompareState) IsSelected(id string) bool {
	for _, sel := range c.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

// CheckState holds profile-check progress and results.
type CheckState struct {
	Results []checker.Result
	Total   int
	Cursor  int
}

// Reset clears previous results.
func (c *CheckState) Reset() {
	c.Results = nil
	c.Total = 0
	c.Cursor = 0
}

// Gone returns the results whose profiles look removed or renamed.
func (c *CheckState) Gone() []checker.Result {
	var out []checker.Result
	for _, r := range c.Results {
		if r.Status == checker.Gone {
			out = append(out, r)
		}
	}
	return out
}
