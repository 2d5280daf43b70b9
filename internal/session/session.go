// Package session owns the in-memory account collection for the active
// list and every piece of derived-view state. All mutations follow the
// same two-phase protocol: the store write is awaited first, and only
// on success is the identical change applied locally by replacing the
// matching account (matched by id, never by index), after which the
// derived pipeline is recomputed.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"followdeck/internal/compare"
	"followdeck/internal/model"
	"followdeck/internal/registry"
	"followdeck/internal/store"
	"followdeck/internal/view"
)

var (
	// ErrNameRequired rejects account creation with an empty display name.
	ErrNameRequired = errors.New("display name is required")

	// ErrHandleRequired rejects account creation with an empty handle.
	ErrHandleRequired = errors.New("handle is required")

	// ErrUnknownAccount is returned when a mutation targets an id that
	// is not in the local collection.
	ErrUnknownAccount = errors.New("unknown account id")
)

// Session is the active-list working state. It is owned by the UI
// goroutine: fetch helpers are safe to call from other goroutines, but
// everything that mutates the session runs on the owner.
type Session struct {
	store      store.Store
	registry   *registry.Registry
	log        *slog.Logger
	profileURL string // fmt template, %s = handle

	listID   string
	accounts []model.Account

	filter view.FilterState
	sort   view.SortState
	window view.Window

	compareMode    compare.Mode
	compareIDs     []string // selection insertion order
	excludeDefault bool
	compareCache   map[string][]model.Account

	// Generation token: results of a fetch started before the latest
	// BeginRefresh are dropped instead of applied last-write-wins.
	refreshToken string
}

// New creates a session positioned on the given list. Call Refresh (or
// the Begin/Apply pair) to load it.
func New(s store.Store, r *registry.Registry, log *slog.Logger, profileURLTemplate, listID string) *Session {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		store:        s,
		registry:     r,
		log:          log,
		profileURL:   profileURLTemplate,
		listID:       listID,
		filter:       view.NewFilterState(),
		sort:         view.NewSortState(),
		window:       view.NewWindow(),
		compareCache: make(map[string][]model.Account),
	}
}

// ListID returns the active list id.
func (s *Session) ListID() string {
	return s.listID
}

// Accounts returns the raw in-memory collection.
func (s *Session) Accounts() []model.Account {
	return s.accounts
}

// Statistics summarizes the raw collection.
func (s *Session) Statistics() model.Statistics {
	return model.ComputeStatistics(s.accounts)
}

// ProfileURL builds the external profile URL for a handle.
func (s *Session) ProfileURL(handle string) string {
	return fmt.Sprintf(s.profileURL, handle)
}

// --- loading ---

// FetchAccounts reads and normalizes the active list's collection.
// Read-only; safe to call from a background goroutine.
func (s *Session) FetchAccounts(ctx context.Context) ([]model.Account, error) {
	return s.fetchList(ctx, s.listID)
}

func (s *Session) fetchList(ctx context.Context, listID string) ([]model.Account, error) {
	records, err := s.store.ReadAll(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("fetch list %q: %w", listID, err)
	}

	accounts := make([]model.Account, 0, len(records))
	for id, bag := range records {
		a, ok := model.AccountFromRecord(id, bag)
		if !ok {
			continue
		}
		accounts = append(accounts, a)
	}
	// Map iteration order is random; normalize to id order so repeated
	// fetches of the same data produce the same collection.
	sort.Slice(accounts, func(i, j int) bool {
		ai, _ := strconv.Atoi(accounts[i].ID)
		aj, _ := strconv.Atoi(accounts[j].ID)
		if ai != aj {
			return ai < aj
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

// BeginRefresh stamps a new fetch generation and returns its token.
func (s *Session) BeginRefresh() string {
	s.refreshToken = uuid.NewString()
	return s.refreshToken
}

// ApplyRefresh replaces the collection wholesale if token is still the
// current generation; stale results are dropped. Resets the window.
func (s *Session) ApplyRefresh(token string, accounts []model.Account) bool {
	if token != s.refreshToken {
		s.log.Warn("dropping stale fetch result", "list", s.listID)
		return false
	}
	s.accounts = accounts
	s.window.Reset()
	return true
}

// Refresh synchronously reloads the active list.
func (s *Session) Refresh(ctx context.Context) error {
	token := s.BeginRefresh()
	accounts, err := s.FetchAccounts(ctx)
	if err != nil {
		return err
	}
	s.ApplyRefresh(token, accounts)
	return nil
}

// SwitchList moves the session to another list. An unknown id is
// logged and ignored. On success every piece of view state (filters,
// search, sort, pagination, comparison) resets to defaults and the new
// collection is loaded.
func (s *Session) SwitchList(ctx context.Context, id string) error {
	known, err := s.registry.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !known {
		s.log.Warn("ignoring switch to unknown list", "list", id)
		return nil
	}

	s.listID = id
	s.filter = view.NewFilterState()
	s.sort = view.NewSortState()
	s.window.Reset()
	s.ClearComparison()

	return s.Refresh(ctx)
}

// --- comparison ---

// FetchComparisonLists reads each listed collection in parallel.
// A failed fetch is logged and excluded from the result rather than
// aborting the others. Read-only; safe in a background goroutine.
func (s *Session) FetchComparisonLists(ctx context.Context, listIDs []string) map[string][]model.Account {
	results := make([][]model.Account, len(listIDs))
	errs := make([]error, len(listIDs))

	var wg sync.WaitGroup
	for i, id := range listIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i], errs[i] = s.fetchList(ctx, id)
		}(i, id)
	}
	wg.Wait()

	fetched := make(map[string][]model.Account, len(listIDs))
	for i, id := range listIDs {
		if errs[i] != nil {
			s.log.Warn("excluding comparison list after fetch failure", "list", id, "error", errs[i])
			continue
		}
		fetched[id] = results[i]
	}
	return fetched
}

// MissingComparisonLists returns the subset of the selection that is
// not yet cached (including the default list when the exclusion
// refinement needs it).
func (s *Session) MissingComparisonLists(listIDs []string, excludeDefault bool) []string {
	var missing []string
	for _, id := range listIDs {
		if _, ok := s.compareCache[id]; !ok {
			missing = append(missing, id)
		}
	}
	if excludeDefault {
		if _, ok := s.compareCache[model.DefaultListID]; !ok && s.listID != model.DefaultListID {
			missing = append(missing, model.DefaultListID)
		}
	}
	return missing
}

// SetComparison installs a comparison selection. fetched supplies any
// collections not already cached (from FetchComparisonLists); selected
// lists with no cache entry and no fetched data are excluded from the
// union. The exclusion refinement only applies in intersection mode.
func (s *Session) SetComparison(mode compare.Mode, listIDs []string, excludeDefault bool, fetched map[string][]model.Account) {
	for id, accounts := range fetched {
		s.compareCache[id] = accounts
	}

	s.compareMode = mode
	s.compareIDs = append([]string(nil), listIDs...)
	s.excludeDefault = excludeDefault && mode == compare.ModeIntersection
	s.window.Reset()
}

// ClearComparison drops the selection and the per-selection cache.
func (s *Session) ClearComparison() {
	s.compareMode = compare.ModeNone
	s.compareIDs = nil
	s.excludeDefault = false
	s.compareCache = make(map[string][]model.Account)
	s.window.Reset()
}

// CompareMode returns the active comparison mode.
func (s *Session) CompareMode() compare.Mode {
	return s.compareMode
}

// CompareIDs returns the selected comparison lists in selection order.
func (s *Session) CompareIDs() []string {
	return s.compareIDs
}

// ExcludeDefault reports whether the default-list exclusion refinement
// is active.
func (s *Session) ExcludeDefault() bool {
	return s.excludeDefault
}

// --- derived pipeline ---

// WorkingSet derives the full pipeline up to sorting: comparison
// filter, attribute filters, stable sort.
func (s *Session) WorkingSet() []model.Account {
	active := s.accounts

	if s.compareMode != compare.ModeNone && len(s.compareIDs) > 0 {
		collections := make([][]model.Account, 0, len(s.compareIDs))
		for _, id := range s.compareIDs {
			if accounts, ok := s.compareCache[id]; ok {
				collections = append(collections, accounts)
			}
		}
		union := compare.Union(collections)

		var exclude compare.HandleSet
		if s.excludeDefault {
			if s.listID == model.DefaultListID {
				exclude = compare.Handles(s.accounts)
			} else if def, ok := s.compareCache[model.DefaultListID]; ok {
				exclude = compare.Handles(def)
			}
		}

		active = compare.Apply(active, union, s.compareMode, exclude)
	}

	filtered := view.DeriveFiltered(active, s.filter)
	return view.DeriveSorted(filtered, s.sort)
}

// Displayed returns the paginated prefix of the working set.
func (s *Session) Displayed() []model.Account {
	return s.window.Slice(s.WorkingSet())
}

// HasMore reports whether the working set extends past the window.
func (s *Session) HasMore() bool {
	return s.window.HasMore(len(s.WorkingSet()))
}

// AdvancePage grows the window by one page, gated by the busy flag.
func (s *Session) AdvancePage() bool {
	return s.window.Advance(len(s.WorkingSet()))
}

// FinishLoadMore clears the pagination busy flag.
func (s *Session) FinishLoadMore() {
	s.window.FinishLoading()
}

// LoadingMore reports whether a page advance is pending.
func (s *Session) LoadingMore() bool {
	return s.window.Loading()
}

// Page returns the current page and total page count.
func (s *Session) Page() (current, total int) {
	total = s.window.TotalPages(len(s.WorkingSet()))
	current = s.window.Page()
	if current > total {
		current = total
	}
	return current, total
}

// Filter returns the committed filter state.
func (s *Session) Filter() view.FilterState {
	return s.filter
}

// Sort returns the sort state.
func (s *Session) Sort() view.SortState {
	return s.sort
}

// CommitSearch installs the committed search and date-range inputs.
// This is the explicit commit action: live input never reaches the
// pipeline directly.
func (s *Session) CommitSearch(query string, field view.SearchField, dateFrom, dateTo string, dateEnabled bool) {
	s.filter.Query = query
	s.filter.SearchField = field
	s.filter.DateFrom = dateFrom
	s.filter.DateTo = dateTo
	s.filter.DateEnabled = dateEnabled
	s.window.Reset()
}

// SetFavoritesOnly toggles the favorites-only stage.
func (s *Session) SetFavoritesOnly(on bool) {
	s.filter.FavoritesOnly = on
	s.window.Reset()
}

// SetShowDeleted toggles soft-deleted visibility.
func (s *Session) SetShowDeleted(on bool) {
	s.filter.ShowDeleted = on
	s.window.Reset()
}

// ResetFilters clears search, date range and the favorites toggle.
func (s *Session) ResetFilters() {
	show := s.filter.ShowDeleted
	s.filter = view.NewFilterState()
	s.filter.ShowDeleted = show
	s.window.Reset()
}

// ClickSort applies column-header sort semantics and resets pagination.
func (s *Session) ClickSort(field view.Field) {
	s.sort.Click(field)
	s.window.Reset()
}
