package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"followdeck/internal/checker"
	"followdeck/internal/compare"
	"followdeck/internal/model"
	"followdeck/internal/view"
)

// Age bands for the last-checked date: past agingAfter a row dims,
// past staleAfter (or never checked) it warns.
const (
	agingAfter = 7 * 24 * time.Hour
	staleAfter = 30 * 24 * time.Hour
)

func (a App) renderView() string {
	var body string
	switch a.mode {
	case ModeSearch:
		body = a.renderSearchModal()
	case ModeAdd:
		body = a.renderAddModal()
	case ModeBulkPreview:
		body = a.renderBulkModal()
	case ModeLists, ModeListCreate, ModeListConfirmDelete:
		body = a.renderListsModal()
	case ModeCompare:
		body = a.renderCompareModal()
	case ModeCheckRunning, ModeCheckResults:
		body = a.renderCheckModal()
	case ModeHelp:
		body = a.renderHelp()
	default:
		body = a.renderTable()
	}

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.renderTitleBar(),
			body,
			a.renderStatusBar(),
		),
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderTitleBar() string {
	title := a.styles.Title.Render("followdeck")
	list := a.styles.Handle.Render(" [" + a.session.ListID() + "]")

	var compareTag string
	if mode := a.session.CompareMode(); mode != compare.ModeNone {
		compareTag = a.styles.HeaderSort.Render(" (" + mode.String() + " with " +
			strings.Join(a.session.CompareIDs(), ", ") + ")")
	}
	return title + list + compareTag
}

var columnHeaders = []string{"ID", "Name", "Handle", "Checked", "Amt", "Fav", "Added", "Del"}

var columnWidths = []int{5, 24, 18, 11, 5, 4, 11, 4}

func (a App) renderTable() string {
	var b strings.Builder

	// Header row with sort indicator, number-key prefixes.
	sortState := a.session.Sort()
	headers := make([]string, len(columnHeaders))
	for i, h := range columnHeaders {
		label := fmt.Sprintf("%d:%s", i+1, h)
		if sortColumns[i] == sortState.Field {
			arrow := "↑"
			if sortState.Direction == view.Desc {
				arrow = "↓"
			}
			headers[i] = a.styles.HeaderSort.Render(pad(label+arrow, columnWidths[i]))
		} else {
			headers[i] = a.styles.Header.Render(pad(label, columnWidths[i]))
		}
	}
	b.WriteString(strings.Join(headers, " ") + "\n")

	if len(a.rows) == 0 {
		b.WriteString(a.styles.Empty.Render("(no accounts)") + "\n")
	}

	now := time.Now()
	for i, acc := range a.rows {
		line := a.renderRow(acc)
		switch {
		case i == a.cursor:
			line = a.styles.RowSelected.Render(line)
		case acc.Deleted:
			line = a.styles.RowDeleted.Render(line)
		default:
			line = a.ageStyle(acc, now).Render(line)
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

func (a App) renderRow(acc model.Account) string {
	fav := " "
	if acc.Favorite {
		fav = "★"
	}
	del := " "
	if acc.Deleted {
		del = "✗"
	}

	cells := []string{
		pad(acc.ID, columnWidths[0]),
		pad(truncate(acc.DisplayName, columnWidths[1]), columnWidths[1]),
		pad(truncate("@"+acc.Handle, columnWidths[2]), columnWidths[2]),
		pad(acc.LastCheckedDate, columnWidths[3]),
		pad(amountLabel(acc.Amount), columnWidths[4]),
		pad(fav, columnWidths[5]),
		pad(acc.AddedDate, columnWidths[6]),
		pad(del, columnWidths[7]),
	}
	return strings.Join(cells, " ")
}

// amountLabel renders the review counter, showing the ignore marker
// for the floor value.
func amountLabel(amount string) string {
	if model.ParseAmount(amount) == model.AmountFloor {
		return "ign"
	}
	return amount
}

func (a App) ageStyle(acc model.Account, now time.Time) lipgloss.Style {
	checked, ok := model.ParseDate(acc.LastCheckedDate)
	if !ok {
		return a.styles.RowStale
	}
	age := now.Sub(checked)
	switch {
	case age > staleAfter:
		return a.styles.RowStale
	case age > agingAfter:
		return a.styles.RowAging
	default:
		return a.styles.Row
	}
}

func (a App) renderStatusBar() string {
	stats := a.session.Statistics()
	current, total := a.session.Page()

	parts := []string{
		fmt.Sprintf("%d accounts", stats.Total),
		fmt.Sprintf("%d active", stats.Active),
		fmt.Sprintf("%d fav", stats.Favorites),
		fmt.Sprintf("page %d/%d", current, total),
	}
	if a.session.LoadingMore() {
		parts = append(parts, "loading...")
	}
	f := a.session.Filter()
	if f.Query != "" {
		parts = append(parts, "search:"+f.Query)
	}
	if f.FavoritesOnly {
		parts = append(parts, "favorites only")
	}
	if !f.ShowDeleted {
		parts = append(parts, "deleted hidden")
	}

	line := a.styles.Status.Render(strings.Join(parts, " · "))

	hints := a.renderHints(a.contextualHints())
	out := line + "\n" + hints
	if a.status != "" {
		out += "\n" + a.styles.Status.Render(a.status)
	}
	if a.errMsg != "" {
		out += "\n" + a.styles.Error.Render(a.errMsg+"  (esc to dismiss)")
	}
	return out
}

// --- modals ---

func (a App) renderSearchModal() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Search") + "\n\n")

	field := "name"
	if a.search.Field == view.SearchByHandle {
		field = "handle"
	}
	b.WriteString("Query (" + field + "): " + a.search.Query.View() + "\n")

	dates := "off"
	if a.search.UseDates {
		dates = "on"
	}
	b.WriteString("Added between (" + dates + "): " +
		a.search.DateFrom.View() + " - " + a.search.DateTo.View() + "\n\n")
	b.WriteString(a.renderHintsInline([]Hint{
		{Key: "Tab", Desc: "next field"},
		{Key: "C-f", Desc: "name/handle"},
		{Key: "C-d", Desc: "dates on/off"},
		{Key: "Enter", Desc: "apply"},
		{Key: "Esc", Desc: "cancel"},
	}))
	return a.styles.Modal.Render(b.String())
}

func (a App) renderAddModal() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Add account") + "\n\n")
	b.WriteString("Name:   " + a.add.Name.View() + "\n")
	b.WriteString("Handle: " + a.add.Handle.View() + "\n")
	b.WriteString("Amount: " + a.add.Amount.View() + "\n")

	fav := "no"
	if a.add.Favorite {
		fav = "yes"
	}
	b.WriteString("Favorite: " + fav + "\n\n")
	b.WriteString(a.renderHintsInline([]Hint{
		{Key: "Tab", Desc: "next field"},
		{Key: "C-f", Desc: "favorite"},
		{Key: "Enter", Desc: "add"},
		{Key: "Esc", Desc: "cancel"},
	}))
	return a.styles.Modal.Render(b.String())
}

func (a App) renderBulkModal() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Bulk import") + "\n\n")
	b.WriteString(fmt.Sprintf("%d new, %d skipped\n\n", len(a.bulk.Plan.New), len(a.bulk.Plan.Conflicts)))

	shown := a.bulk.Plan.New
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, c := range shown {
		b.WriteString("  + " + c.DisplayName + " @" + c.Handle + "\n")
	}
	if rest := len(a.bulk.Plan.New) - len(shown); rest > 0 {
		b.WriteString(a.styles.Empty.Render(fmt.Sprintf("  ... and %d more\n", rest)))
	}
	for _, c := range a.bulk.Plan.Conflicts {
		b.WriteString(a.styles.Empty.Render("  - @"+c.Handle+" ("+c.Reason+")") + "\n")
	}

	b.WriteString("\n" + a.renderHintsInline([]Hint{
		{Key: "Enter", Desc: "import"},
		{Key: "Esc", Desc: "cancel"},
	}))
	return a.styles.Modal.Render(b.String())
}

func (a App) renderListsModal() string {
	var b strings.Builder

	if a.mode == ModeListCreate {
		b.WriteString(a.styles.Title.Render("New list") + "\n\n")
		b.WriteString("Name:        " + a.lists.NameInput.View() + "\n")
		b.WriteString("Description: " + a.lists.DescInput.View() + "\n\n")
		b.WriteString(a.renderHintsInline([]Hint{
			{Key: "Tab", Desc: "next field"},
			{Key: "Enter", Desc: "create"},
			{Key: "Esc", Desc: "back"},
		}))
		return a.styles.Modal.Render(b.String())
	}

	if a.mode == ModeListConfirmDelete {
		b.WriteString(a.styles.Title.Render("Delete list") + "\n\n")
		b.WriteString("Delete " + a.lists.DeleteTarget + " and all of its accounts?\n\n")
		b.WriteString(a.renderHintsInline([]Hint{
			{Key: "y", Desc: "delete"},
			{Key: "any", Desc: "cancel"},
		}))
		return a.styles.Modal.Render(b.String())
	}

	b.WriteString(a.styles.Title.Render("Lists") + "\n\n")
	b.WriteString(a.lists.Filter.View() + "\n\n")
	for i, l := range a.lists.Filtered {
		marker := "  "
		if l.ID == a.session.ListID() {
			marker = "* "
		}
		line := fmt.Sprintf("%s%s (%d)", marker, l.Name, l.AccountCount)
		if l.Description != "" {
			line += "  " + l.Description
		}
		if i == a.lists.Cursor {
			line = a.styles.RowSelected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + a.renderHintsInline([]Hint{
		{Key: "↑/↓", Desc: "move"},
		{Key: "Enter", Desc: "switch"},
		{Key: "C-a", Desc: "new"},
		{Key: "C-x", Desc: "delete"},
		{Key: "Esc", Desc: "back"},
	}))
	return a.styles.Modal.Render(b.String())
}

func (a App) renderCompareModal() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Compare") + "\n\n")
	b.WriteString("Mode: " + a.comp.Mode.String())
	if a.comp.Mode == compare.ModeIntersection {
		excl := "off"
		if a.comp.ExcludeDefault {
			excl = "on"
		}
		b.WriteString("  exclude " + model.DefaultListID + ": " + excl)
	}
	b.WriteString("\n\n")

	if len(a.comp.Lists) == 0 {
		b.WriteString(a.styles.Empty.Render("(no other lists)") + "\n")
	}
	for i, l := range a.comp.Lists {
		mark := "[ ]"
		if a.comp.IsSelected(l.ID) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s (%d)", mark, l.Name, l.AccountCount)
		if i == a.comp.Cursor {
			line = a.styles.RowSelected.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + a.renderHintsInline([]Hint{
		{Key: "space", Desc: "select"},
		{Key: "m", Desc: "mode"},
		{Key: "e", Desc: "exclude"},
		{Key: "Enter", Desc: "apply"},
		{Key: "c", Desc: "clear"},
		{Key: "Esc", Desc: "cancel"},
	}))
	return a.styles.Modal.Render(b.String())
}

func (a App) renderCheckModal() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Profile check") + "\n\n")

	if a.mode == ModeCheckRunning {
		b.WriteString(fmt.Sprintf("Probing %d profiles...\n", a.check.Total))
		return a.styles.Modal.Render(b.String())
	}

	var alive, gone, unreachable int
	for _, r := range a.check.Results {
		switch r.Status {
		case checker.Alive:
			alive++
		case checker.Gone:
			gone++
		default:
			unreachable++
		}
	}
	b.WriteString(fmt.Sprintf("%d alive, %d gone, %d unreachable\n\n", alive, gone, unreachable))

	goneResults := a.check.Gone()
	if len(goneResults) == 0 {
		b.WriteString(a.styles.Empty.Render("(no removed profiles found)") + "\n")
	}
	for i, r := range goneResults {
		line := "@" + r.Account.Handle + "  " + r.Account.DisplayName +
			"  (" + strconv.Itoa(r.StatusCode) + ")"
		if i == a.check.Cursor {
			line = a.styles.RowSelected.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + a.renderHintsInline([]Hint{
		{Key: "j/k", Desc: "move"},
		{Key: "Esc", Desc: "close"},
	}))
	return a.styles.Modal.Render(b.String())
}

func (a App) renderHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help") + "\n\n")

	sections := []struct {
		title string
		hints []Hint
	}{
		{"Navigate", []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "gg/G", Desc: "top/bottom"},
			{Key: "m", Desc: "load more"},
			{Key: "1-8", Desc: "sort by column"},
		}},
		{"Account", []Hint{
			{Key: "enter", Desc: "open profile"},
			{Key: "f", Desc: "favorite"},
			{Key: "d", Desc: "delete/restore"},
			{Key: "+/-", Desc: "amount"},
			{Key: "y/Y", Desc: "yank handle/URL"},
		}},
		{"View", []Hint{
			{Key: "/", Desc: "search"},
			{Key: "v", Desc: "favorites only"},
			{Key: "x", Desc: "show deleted"},
			{Key: "X", Desc: "clear filters"},
			{Key: "r", Desc: "refresh"},
		}},
		{"Collections", []Hint{
			{Key: "a", Desc: "add"},
			{Key: "b", Desc: "bulk import"},
			{Key: "L", Desc: "lists"},
			{Key: "c", Desc: "compare"},
			{Key: "C", Desc: "check profiles"},
			{Key: "E", Desc: "export"},
		}},
	}

	for _, s := range sections {
		b.WriteString(a.styles.Header.Render(s.title) + "\n")
		for _, h := range s.hints {
			b.WriteString("  " + pad(h.Key, 8) + h.Desc + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Header.Render("Amount") + "\n")
	b.WriteString("  ign     -1, ignore this account\n")
	b.WriteString("  0       not reviewed yet\n")
	b.WriteString("  n       reviewed n times\n\n")

	b.WriteString(a.renderHintsInline([]Hint{{Key: "any", Desc: "close"}}))
	return a.styles.Modal.Render(b.String())
}

// --- text helpers ---

func pad(s string, width int) string {
	if len([]rune(s)) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len([]rune(s)))
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
