package tui

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"followdeck/internal/compare"
	"followdeck/internal/model"
	"followdeck/internal/view"
)

// --- search modal ---

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEnter:
		a.session.CommitSearch(
			a.search.Query.Value(),
			a.search.Field,
			a.search.DateFrom.Value(),
			a.search.DateTo.Value(),
			a.search.UseDates,
		)
		a.mode = ModeNormal
		a.cursor = 0
		a.syncRows()
		return a, nil

	case tea.KeyTab:
		a.search.FocusIdx = (a.search.FocusIdx + 1) % 3
		a.search.Query.Blur()
		a.search.DateFrom.Blur()
		a.search.DateTo.Blur()
		switch a.search.FocusIdx {
		case 0:
			a.search.Query.Focus()
		case 1:
			a.search.DateFrom.Focus()
		case 2:
			a.search.DateTo.Focus()
		}
		return a, nil

	case tea.KeyCtrlF:
		if a.search.Field == view.SearchByName {
			a.search.Field = view.SearchByHandle
		} else {
			a.search.Field = view.SearchByName
		}
		return a, nil

	case tea.KeyCtrlD:
		a.search.UseDates = !a.search.UseDates
		return a, nil
	}

	var cmd tea.Cmd
	switch a.search.FocusIdx {
	case 0:
		a.search.Query, cmd = a.search.Query.Update(msg)
	case 1:
		a.search.DateFrom, cmd = a.search.DateFrom.Update(msg)
	case 2:
		a.search.DateTo, cmd = a.search.DateTo.Update(msg)
	}
	return a, cmd
}

// --- add modal ---

func (a App) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEnter:
		params := model.NewAccountParams{
			DisplayName: a.add.Name.Value(),
			Handle:      a.add.Handle.Value(),
			Favorite:    a.add.Favorite,
		}
		if v := a.add.Amount.Value(); v != "" {
			params.Amount = strconv.Itoa(model.ClampAmount(model.ParseAmount(v)))
		}
		added, err := a.session.Add(context.Background(), params)
		if err != nil {
			a.errMsg = "add: " + err.Error()
			return a, nil
		}
		a.status = "added @" + added.Handle
		a.mode = ModeNormal
		a.syncRows()
		return a, nil

	case tea.KeyTab:
		a.add.FocusIdx = (a.add.FocusIdx + 1) % 3
		a.add.Name.Blur()
		a.add.Handle.Blur()
		a.add.Amount.Blur()
		switch a.add.FocusIdx {
		case 0:
			a.add.Name.Focus()
		case 1:
			a.add.Handle.Focus()
		case 2:
			a.add.Amount.Focus()
		}
		return a, nil

	case tea.KeyCtrlF:
		a.add.Favorite = !a.add.Favorite
		return a, nil
	}

	var cmd tea.Cmd
	switch a.add.FocusIdx {
	case 0:
		a.add.Name, cmd = a.add.Name.Update(msg)
	case 1:
		a.add.Handle, cmd = a.add.Handle.Update(msg)
	case 2:
		a.add.Amount, cmd = a.add.Amount.Update(msg)
	}
	return a, cmd
}

// --- bulk preview ---

func (a App) updateBulk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.bulk.Reset()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEnter:
		result, err := a.session.BulkAdd(context.Background(), a.bulk.Candidates)
		if err != nil {
			a.errMsg = "bulk import: " + err.Error()
		}
		a.status = "imported " + strconv.Itoa(result.Added) +
			", skipped " + strconv.Itoa(len(result.Skipped))
		a.bulk.Reset()
		a.mode = ModeNormal
		a.syncRows()
		return a, nil
	}
	return a, nil
}

// --- list picker ---

func (a App) openLists(ctx context.Context) (tea.Model, tea.Cmd) {
	lists, err := a.registry.Lists(ctx)
	if err != nil {
		a.errMsg = "lists: " + err.Error()
		return a, nil
	}
	a.lists.Reset()
	a.lists.All = lists
	a.lists.Filtered = lists
	a.mode = ModeLists
	return a, nil
}

// filterLists applies fuzzy matching over list names.
func (a *App) filterLists() {
	query := a.lists.Filter.Value()
	if query == "" {
		a.lists.Filtered = a.lists.All
	} else {
		names := make([]string, len(a.lists.All))
		for i, l := range a.lists.All {
			names[i] = l.Name
		}
		matches := fuzzy.Find(query, names)
		filtered := make([]model.List, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, a.lists.All[m.Index])
		}
		a.lists.Filtered = filtered
	}
	if a.lists.Cursor >= len(a.lists.Filtered) {
		a.lists.Cursor = 0
	}
}

func (a App) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		return a, nil

	case tea.KeyUp, tea.KeyCtrlP:
		if a.lists.Cursor > 0 {
			a.lists.Cursor--
		}
		return a, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if a.lists.Cursor < len(a.lists.Filtered)-1 {
			a.lists.Cursor++
		}
		return a, nil

	case tea.KeyCtrlA:
		a.lists.NameInput.Reset()
		a.lists.DescInput.Reset()
		a.lists.CreateIdx = 0
		a.lists.NameInput.Focus()
		a.lists.DescInput.Blur()
		a.mode = ModeListCreate
		return a, nil

	case tea.KeyCtrlX:
		if sel := a.lists.Current(); sel != nil {
			if sel.IsDefault() {
				a.errMsg = "the default list cannot be deleted"
				return a, nil
			}
			a.lists.DeleteTarget = sel.ID
			a.mode = ModeListConfirmDelete
		}
		return a, nil

	case tea.KeyEnter:
		sel := a.lists.Current()
		if sel == nil {
			return a, nil
		}
		if err := a.session.SwitchList(context.Background(), sel.ID); err != nil {
			a.errMsg = "switch: " + err.Error()
			return a, nil
		}
		a.mode = ModeNormal
		a.cursor = 0
		a.status = "switched to " + sel.Name
		a.syncRows()
		return a, nil
	}

	var cmd tea.Cmd
	a.lists.Filter, cmd = a.lists.Filter.Update(msg)
	a.filterLists()
	return a, cmd
}

func (a App) updateListCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeLists
		return a, nil

	case tea.KeyTab:
		a.lists.CreateIdx = (a.lists.CreateIdx + 1) % 2
		a.lists.NameInput.Blur()
		a.lists.DescInput.Blur()
		if a.lists.CreateIdx == 0 {
			a.lists.NameInput.Focus()
		} else {
			a.lists.DescInput.Focus()
		}
		return a, nil

	case tea.KeyEnter:
		created, err := a.registry.Create(ctx, a.lists.NameInput.Value(), a.lists.DescInput.Value())
		if err != nil {
			a.errMsg = "create list: " + err.Error()
			return a, nil
		}
		a.status = "created " + created.Name
		return a.openLists(ctx)
	}

	var cmd tea.Cmd
	if a.lists.CreateIdx == 0 {
		a.lists.NameInput, cmd = a.lists.NameInput.Update(msg)
	} else {
		a.lists.DescInput, cmd = a.lists.DescInput.Update(msg)
	}
	return a, cmd
}

func (a App) updateListConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case "y", "Y":
		target := a.lists.DeleteTarget
		if err := a.registry.Delete(ctx, target); err != nil {
			a.errMsg = "delete list: " + err.Error()
			a.mode = ModeLists
			return a, nil
		}
		a.status = "deleted " + target
		// Deleting the active list drops the session back to the default.
		if target == a.session.ListID() {
			if err := a.session.SwitchList(ctx, model.DefaultListID); err != nil {
				a.errMsg = "switch: " + err.Error()
			}
			a.cursor = 0
			a.syncRows()
		}
		return a.openLists(ctx)
	default:
		a.lists.DeleteTarget = ""
		a.mode = ModeLists
		return a, nil
	}
}

// --- comparison modal ---

func (a App) openCompare(ctx context.Context) (tea.Model, tea.Cmd) {
	lists, err := a.registry.Lists(ctx)
	if err != nil {
		a.errMsg = "lists: " + err.Error()
		return a, nil
	}

	a.comp.Reset(a.session.CompareMode(), a.session.CompareIDs(), a.session.ExcludeDefault())
	for _, l := range lists {
		if l.ID == a.session.ListID() {
			continue
		}
		a.comp.Lists = append(a.comp.Lists, l)
	}
	a.mode = ModeCompare
	return a, nil
}

func (a App) updateCompare(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = ModeNormal
		return a, nil

	case "j", "down":
		if a.comp.Cursor < len(a.comp.Lists)-1 {
			a.comp.Cursor++
		}
		return a, nil

	case "k", "up":
		if a.comp.Cursor > 0 {
			a.comp.Cursor--
		}
		return a, nil

	case " ":
		if len(a.comp.Lists) > 0 {
			a.comp.Toggle(a.comp.Lists[a.comp.Cursor].ID)
		}
		return a, nil

	case "m":
		if a.comp.Mode == compare.ModeIntersection {
			a.comp.Mode = compare.ModeDifference
		} else {
			a.comp.Mode = compare.ModeIntersection
		}
		return a, nil

	case "e":
		a.comp.ExcludeDefault = !a.comp.ExcludeDefault
		return a, nil

	case "c":
		a.session.ClearComparison()
		a.mode = ModeNormal
		a.cursor = 0
		a.status = "comparison cleared"
		a.syncRows()
		return a, nil

	case "enter":
		if len(a.comp.Selected) == 0 {
			a.session.ClearComparison()
			a.mode = ModeNormal
			a.syncRows()
			return a, nil
		}
		mode := a.comp.Mode
		ids := append([]string(nil), a.comp.Selected...)
		exclude := a.comp.ExcludeDefault
		a.mode = ModeNormal
		a.status = "comparing with " + strconv.Itoa(len(ids)) + " list(s)"
		return a, a.comparisonCmd(mode, ids, exclude)
	}
	return a, nil
}

// --- profile check ---

func (a App) updateCheck(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		a.mode = ModeNormal
		return a, nil

	case "j", "down":
		if gone := a.check.Gone(); a.check.Cursor < len(gone)-1 {
			a.check.Cursor++
		}
		return a, nil

	case "k", "up":
		if a.check.Cursor > 0 {
			a.check.Cursor--
		}
		return a, nil
	}
	return a, nil
}
