package tui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"followdeck/internal/checker"
	"followdeck/internal/compare"
	"followdeck/internal/exporter"
	"followdeck/internal/importer"
	"followdeck/internal/model"
	"followdeck/internal/registry"
	"followdeck/internal/session"
	"followdeck/internal/view"
)

// pageDelay is the artificial settle time before a pagination advance
// renders, so the busy indicator is visible and repeated presses
// cannot double-advance.
const pageDelay = 300 * time.Millisecond

// checkConcurrency bounds parallel profile probes.
const checkConcurrency = 8

// App is the main bubbletea model.
type App struct {
	session  *session.Session
	registry *registry.Registry
	log      *slog.Logger
	keys     KeyMap
	styles   Styles

	mode   Mode
	cursor int
	rows   []model.Account

	search  SearchState
	add     AddState
	bulk    BulkState
	lists   ListsState
	comp    CompareState
	check   CheckState

	status string // transient status line
	errMsg string // dismissible error line

	lastKeyWasG bool
	width       int
	height      int

	// Hooks replaced in tests.
	openURL   func(string)
	readClip  func() (string, error)
	writeClip func(string) error
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Session   *session.Session
	Registry  *registry.Registry
	Log       *slog.Logger
	OpenURL   func(string)           // optional, defaults to a no-op
	ReadClip  func() (string, error) // optional, defaults to the system clipboard
	WriteClip func(string) error     // optional, defaults to the system clipboard
	Keys      *KeyMap                // optional
	Styles    *Styles                // optional
}

// NewApp creates a new App. The session is expected to be refreshed
// (or about to be, via Init) before the first render.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}
	log := params.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	open := params.OpenURL
	if open == nil {
		open = func(string) {}
	}
	readClip := params.ReadClip
	if readClip == nil {
		readClip = clipboard.ReadAll
	}
	writeClip := params.WriteClip
	if writeClip == nil {
		writeClip = clipboard.WriteAll
	}

	app := App{
		session:   params.Session,
		registry:  params.Registry,
		log:       log,
		keys:      keys,
		styles:    styles,
		search:    NewSearchState(),
		add:       NewAddState(),
		lists:     NewListsState(),
		width:     100,
		height:    30,
		openURL:   open,
		readClip:  readClip,
		writeClip: writeClip,
	}
	app.syncRows()
	return app
}

// --- messages ---

type accountsLoadedMsg struct {
	token    string
	accounts []model.Account
	err      error
}

type comparisonFetchedMsg struct {
	mode           compare.Mode
	listIDs        []string
	excludeDefault bool
	fetched        map[string][]model.Account
}

type pageLoadedMsg struct{}

type checkDoneMsg struct {
	results []checker.Result
}

// --- commands ---

func (a *App) refreshCmd() tea.Cmd {
	token := a.session.BeginRefresh()
	sess := a.session
	return func() tea.Msg {
		accounts, err := sess.FetchAccounts(context.Background())
		return accountsLoadedMsg{token: token, accounts: accounts, err: err}
	}
}

func (a *App) comparisonCmd(mode compare.Mode, listIDs []string, excludeDefault bool) tea.Cmd {
	missing := a.session.MissingComparisonLists(listIDs, excludeDefault)
	sess := a.session
	return func() tea.Msg {
		fetched := sess.FetchComparisonLists(context.Background(), missing)
		return comparisonFetchedMsg{
			mode:           mode,
			listIDs:        listIDs,
			excludeDefault: excludeDefault,
			fetched:        fetched,
		}
	}
}

func pageDelayCmd() tea.Cmd {
	return tea.Tick(pageDelay, func(time.Time) tea.Msg {
		return pageLoadedMsg{}
	})
}

func (a *App) checkCmd() tea.Cmd {
	accounts := make([]model.Account, 0, len(a.session.Accounts()))
	for _, acc := range a.session.Accounts() {
		if !acc.Deleted {
			accounts = append(accounts, acc)
		}
	}
	template := a.session.ProfileURL("%s")
	return func() tea.Msg {
		results := checker.CheckProfiles(accounts, template, checkConcurrency, 10*time.Second, nil)
		return checkDoneMsg{results: results}
	}
}

// --- model plumbing ---

// syncRows re-derives the displayed page and clamps the cursor.
func (a *App) syncRows() {
	a.rows = a.session.Displayed()
	if a.cursor >= len(a.rows) {
		a.cursor = len(a.rows) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) selected() *model.Account {
	if len(a.rows) == 0 || a.cursor >= len(a.rows) {
		return nil
	}
	return &a.rows[a.cursor]
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// CurrentMode returns the current input mode.
func (a App) CurrentMode() Mode {
	return a.mode
}

// Rows returns the currently displayed accounts.
func (a App) Rows() []model.Account {
	return a.rows
}

// StatusLine returns the transient status message.
func (a App) StatusLine() string {
	return a.status
}

// ErrorLine returns the dismissible error message.
func (a App) ErrorLine() string {
	return a.errMsg
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.refreshCmd()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case accountsLoadedMsg:
		if msg.err != nil {
			a.errMsg = "load failed: " + msg.err.Error()
			a.log.Error("refresh failed", "list", a.session.ListID(), "error", msg.err)
			return a, nil
		}
		if a.session.ApplyRefresh(msg.token, msg.accounts) {
			a.cursor = 0
			a.syncRows()
		}
		return a, nil

	case comparisonFetchedMsg:
		a.session.SetComparison(msg.mode, msg.listIDs, msg.excludeDefault, msg.fetched)
		a.cursor = 0
		a.syncRows()
		return a, nil

	case pageLoadedMsg:
		a.session.FinishLoadMore()
		a.syncRows()
		return a, nil

	case checkDoneMsg:
		a.check.Results = msg.results
		a.mode = ModeCheckResults
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeSearch:
		return a.updateSearch(msg)
	case ModeAdd:
		return a.updateAdd(msg)
	case ModeBulkPreview:
		return a.updateBulk(msg)
	case ModeLists:
		return a.updateLists(msg)
	case ModeListCreate:
		return a.updateListCreate(msg)
	case ModeListConfirmDelete:
		return a.updateListConfirmDelete(msg)
	case ModeCompare:
		return a.updateCompare(msg)
	case ModeCheckRunning, ModeCheckResults:
		return a.updateCheck(msg)
	case ModeHelp:
		a.mode = ModeNormal
		return a, nil
	default:
		return a.updateNormal(msg)
	}
}

// sortColumns maps the number row to table columns, in display order.
var sortColumns = []view.Field{
	view.FieldID,
	view.FieldDisplayName,
	view.FieldHandle,
	view.FieldLastChecked,
	view.FieldAmount,
	view.FieldFavorite,
	view.FieldAdded,
	view.FieldDeleted,
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	// gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	// Number row sorts by column.
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '8' {
		a.session.ClickSort(sortColumns[s[0]-'1'])
		a.cursor = 0
		a.syncRows()
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case msg.Type == tea.KeyEsc:
		if a.errMsg != "" {
			a.errMsg = ""
			return a, nil
		}
		if a.session.CompareMode() != compare.ModeNone {
			a.session.ClearComparison()
			a.status = "comparison cleared"
			a.cursor = 0
			a.syncRows()
		}
		return a, nil

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.rows)-1 {
			a.cursor++
		}
		// Advance when the cursor closes in on the bottom of the page.
		if a.cursor >= len(a.rows)-2 && a.session.HasMore() {
			if a.session.AdvancePage() {
				return a, pageDelayCmd()
			}
		}
		return a, nil

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, a.keys.Bottom):
		if len(a.rows) > 0 {
			a.cursor = len(a.rows) - 1
		}
		return a, nil

	case key.Matches(msg, a.keys.LoadMore):
		if a.session.AdvancePage() {
			return a, pageDelayCmd()
		}
		return a, nil

	case key.Matches(msg, a.keys.Open):
		sel := a.selected()
		if sel == nil {
			return a, nil
		}
		url, err := a.session.Visit(ctx, sel.ID)
		if err != nil {
			a.errMsg = "visit: " + err.Error()
		}
		if url != "" {
			a.openURL(url)
			a.status = "opened @" + sel.Handle
		}
		a.syncRows()
		return a, nil

	case key.Matches(msg, a.keys.Favorite):
		if sel := a.selected(); sel != nil {
			if err := a.session.ToggleFavorite(ctx, sel.ID); err != nil {
				a.errMsg = "favorite: " + err.Error()
			}
			a.syncRows()
		}
		return a, nil

	case key.Matches(msg, a.keys.Delete):
		if sel := a.selected(); sel != nil {
			if err := a.session.ToggleDeleted(ctx, sel.ID); err != nil {
				a.errMsg = "delete: " + err.Error()
			}
			a.syncRows()
		}
		return a, nil

	case key.Matches(msg, a.keys.AmountUp):
		if sel := a.selected(); sel != nil {
			if err := a.session.AdjustAmount(ctx, sel.ID, 1); err != nil {
				a.errMsg = "amount: " + err.Error()
			}
			a.syncRows()
		}
		return a, nil

	case key.Matches(msg, a.keys.AmountDown):
		if sel := a.selected(); sel != nil {
			if err := a.session.AdjustAmount(ctx, sel.ID, -1); err != nil {
				a.errMsg = "amount: " + err.Error()
			}
			a.syncRows()
		}
		return a, nil

	case key.Matches(msg, a.keys.Yank):
		if sel := a.selected(); sel != nil {
			if err := a.writeClip(sel.Handle); err == nil {
				a.status = "yanked @" + sel.Handle
			}
		}
		return a, nil

	case key.Matches(msg, a.keys.YankURL):
		if sel := a.selected(); sel != nil {
			if err := a.writeClip(a.session.ProfileURL(sel.Handle)); err == nil {
				a.status = "yanked URL"
			}
		}
		return a, nil

	case key.Matches(msg, a.keys.Search):
		a.search.LoadFrom(a.session.Filter())
		a.mode = ModeSearch
		return a, nil

	case key.Matches(msg, a.keys.FavoritesOnly):
		a.session.SetFavoritesOnly(!a.session.Filter().FavoritesOnly)
		a.cursor = 0
		a.syncRows()
		return a, nil

	case key.Matches(msg, a.keys.ShowDeleted):
		a.session.SetShowDeleted(!a.session.Filter().ShowDeleted)
		a.cursor = 0
		a.syncRows()
		return a, nil

	case key.Matches(msg, a.keys.ClearFilters):
		a.session.ResetFilters()
		a.cursor = 0
		a.syncRows()
		return a, nil

	case key.Matches(msg, a.keys.Refresh):
		a.status = "refreshing..."
		return a, a.refreshCmd()

	case key.Matches(msg, a.keys.Add):
		a.add.Reset()
		a.mode = ModeAdd
		return a, nil

	case key.Matches(msg, a.keys.BulkImport):
		return a.startBulkImport()

	case key.Matches(msg, a.keys.Lists):
		return a.openLists(ctx)

	case key.Matches(msg, a.keys.Compare):
		return a.openCompare(ctx)

	case key.Matches(msg, a.keys.Check):
		a.check.Reset()
		for _, acc := range a.session.Accounts() {
			if !acc.Deleted {
				a.check.Total++
			}
		}
		a.mode = ModeCheckRunning
		return a, a.checkCmd()

	case key.Matches(msg, a.keys.Export):
		a.exportActiveList()
		return a, nil

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
		return a, nil
	}

	return a, nil
}

func (a App) startBulkImport() (tea.Model, tea.Cmd) {
	markup, err := a.readClip()
	if err != nil {
		a.errMsg = "clipboard: " + err.Error()
		return a, nil
	}

	candidates, err := importer.Parse(strings.NewReader(markup))
	if err != nil {
		a.errMsg = "parse: " + err.Error()
		return a, nil
	}
	if len(candidates) == 0 {
		a.status = "no accounts found in clipboard markup"
		return a, nil
	}

	a.bulk.Candidates = candidates
	a.bulk.Plan = importer.BuildPlan(candidates, a.session.Accounts())
	a.mode = ModeBulkPreview
	return a, nil
}

func (a *App) exportActiveList() {
	path, err := exporter.DefaultExportPath(a.session.ListID(), exporter.FormatJSON)
	if err != nil {
		a.errMsg = "export: " + err.Error()
		return
	}
	data, err := exporter.ExportJSON(a.session.Accounts())
	if err != nil {
		a.errMsg = "export: " + err.Error()
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		a.errMsg = "export: " + err.Error()
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.errMsg = "export: " + err.Error()
		return
	}
	a.status = "exported to " + path
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
