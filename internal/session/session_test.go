package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"followdeck/internal/compare"
	"followdeck/internal/importer"
	"followdeck/internal/model"
	"followdeck/internal/registry"
	"followdeck/internal/session"
	"followdeck/internal/store"
	"followdeck/internal/view"
)

const profileTemplate = "https://www.tiktok.com/@%s"

func newSession(t *testing.T) (*session.Session, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	r := registry.New(s, nil)
	return session.New(s, r, nil, profileTemplate, model.DefaultListID), s
}

func seed(t *testing.T, s store.Store, listID string, accounts ...model.Account) {
	t.Helper()
	for _, a := range accounts {
		if err := s.CreateOrReplace(context.Background(), listID, a.ID, a.Record()); err != nil {
			t.Fatalf("seed %s/%s: %v", listID, a.ID, err)
		}
	}
}

func account(id, name, handle string) model.Account {
	return model.Account{
		ID:          id,
		DisplayName: name,
		Handle:      handle,
		Amount:      "0",
		AddedDate:   "2024/01/15",
	}
}

func TestSession_Refresh(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	seed(t, st, model.DefaultListID,
		account("2", "Beta", "beta"),
		account("1", "Alpha", "alpha"),
	)
	// Legacy casings still load.
	st.CreateOrReplace(ctx, model.DefaultListID, "3", model.FieldBag{
		"accountName": "Gamma",
		"accountId":   "gamma",
		"favorite":    "true",
	})

	if err := sess.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	accounts := sess.Accounts()
	if len(accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(accounts))
	}
	if accounts[0].ID != "1" || accounts[1].ID != "2" || accounts[2].ID != "3" {
		t.Errorf("collection should be id-ordered: %v", ids(accounts))
	}
	if !accounts[2].Favorite || accounts[2].Handle != "gamma" {
		t.Errorf("legacy record not normalized: %+v", accounts[2])
	}
}

func TestSession_StaleRefreshDropped(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	seed(t, st, model.DefaultListID, account("1", "Alpha", "alpha"))

	stale := sess.BeginRefresh()
	staleResult, err := sess.FetchAccounts(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	// A second refresh starts before the first lands.
	fresh := sess.BeginRefresh()
	seed(t, st, model.DefaultListID, account("2", "Beta", "beta"))
	freshResult, err := sess.FetchAccounts(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if sess.ApplyRefresh(stale, staleResult) {
		t.Error("stale generation must not apply")
	}
	if !sess.ApplyRefresh(fresh, freshResult) {
		t.Error("current generation must apply")
	}
	if len(sess.Accounts()) != 2 {
		t.Errorf("expected the fresh result, got %d accounts", len(sess.Accounts()))
	}
}

func TestSession_DerivedPipeline(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	a := account("1", "Alice", "alice")
	a.Favorite = true
	b := account("2", "Bob", "bob")
	b.Deleted = true
	c := account("3", "Alicia", "alicia")
	c.Favorite = true
	d := account("4", "Dan", "dan")
	seed(t, st, model.DefaultListID, a, b, c, d)

	if err := sess.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Hide deleted, favorites only, search "ali" by name.
	sess.SetShowDeleted(false)
	sess.SetFavoritesOnly(true)
	sess.CommitSearch("ali", view.SearchByName, "", "", false)

	got := sess.WorkingSet()
	if len(got) != 2 {
		t.Fatalf("expected 2 survivors, got %v", ids(got))
	}
	for _, acc := range got {
		if !acc.Favorite || acc.Deleted {
			t.Errorf("pipeline let through %+v", acc)
		}
	}

	// Clearing filters restores everything visible.
	sess.ResetFilters()
	sess.SetShowDeleted(true)
	if n := len(sess.WorkingSet()); n != 4 {
		t.Errorf("after reset expected 4, got %d", n)
	}
}

func TestSession_AdjustAmount(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	a := account("1", "Alice", "alice")
	a.Amount = "2"
	seed(t, st, model.DefaultListID, a)
	if err := sess.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := sess.AdjustAmount(ctx, "1", 1); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	got := sess.Accounts()[0]
	if got.Amount != "3" {
		t.Errorf("local amount = %q, want 3", got.Amount)
	}
	if got.LastCheckedDate != model.Today() {
		t.Errorf("adjust must stamp today, got %q", got.LastCheckedDate)
	}

	// The write landed with the same fields.
	records, err := st.ReadAll(ctx, model.DefaultListID)
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	bag := records["1"]
	if bag["Amount"] != "3" || bag["LastCheckedDate"] != model.Today() {
		t.Errorf("persisted fields wrong: %v", bag)
	}
	// Untouched fields survive the partial update.
	if bag["AccountName"] != "Alice" {
		t.Errorf("partial update clobbered other fields: %v", bag)
	}
}

func TestSession_AdjustAmount_Floor(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	a := account("1", "Alice", "alice")
	a.Amount = "0"
	seed(t, st, model.DefaultListID, a)
	sess.Refresh(ctx)

	sess.AdjustAmount(ctx, "1", -1)
	sess.AdjustAmount(ctx, "1", -1)
	sess.AdjustAmount(ctx, "1", -1)

	if got := sess.Accounts()[0].Amount; got != "-1" {
		t.Errorf("amount floor violated: got %q, want -1", got)
	}
}

func TestSession_Toggles_Idempotent(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	seed(t, st, model.DefaultListID, account("1", "Alice", "alice"))
	sess.Refresh(ctx)
	before := sess.Accounts()[0]

	for _, toggle := range []func(context.Context, string) error{
		sess.ToggleFavorite, sess.ToggleDeleted,
	} {
		if err := toggle(ctx, "1"); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if err := toggle(ctx, "1"); err != nil {
			t.Fatalf("toggle back: %v", err)
		}
	}

	if after := sess.Accounts()[0]; after != before {
		t.Errorf("double toggle should restore the account: %+v vs %+v", after, before)
	}
}

func TestSession_ToggleDeleted_OnlyFlag(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	a := account("1", "Alice", "alice")
	a.Favorite = true
	a.Amount = "7"
	a.LastCheckedDate = "2024/06/01"
	seed(t, st, model.DefaultListID, a)
	sess.Refresh(ctx)

	if err := sess.ToggleDeleted(ctx, "1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got := sess.Accounts()[0]
	if !got.Deleted {
		t.Fatal("not deleted")
	}
	got.Deleted = false
	if got != a {
		t.Errorf("soft delete changed more than the flag: %+v", got)
	}
}

func TestSession_Visit(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	seed(t, st, model.DefaultListID, account("1", "Alice", "alice"))
	sess.Refresh(ctx)

	url, err := sess.Visit(ctx, "1")
	if err != nil {
		t.Fatalf("visit: %v", err)
	}
	if url != "https://www.tiktok.com/@alice" {
		t.Errorf("url = %q", url)
	}
	if got := sess.Accounts()[0].LastCheckedDate; got != model.Today() {
		t.Errorf("visit should stamp today, got %q", got)
	}
}

func TestSession_Add(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	seed(t, st, model.DefaultListID, account("4", "Alice", "alice"))
	sess.Refresh(ctx)

	_, err := sess.Add(ctx, model.NewAccountParams{Handle: "noname"})
	if !errors.Is(err, session.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
	_, err = sess.Add(ctx, model.NewAccountParams{DisplayName: "No Handle"})
	if !errors.Is(err, session.ErrHandleRequired) {
		t.Errorf("expected ErrHandleRequired, got %v", err)
	}

	// Whitespace-only input is no input.
	_, err = sess.Add(ctx, model.NewAccountParams{DisplayName: "   ", Handle: "bob"})
	if !errors.Is(err, session.ErrNameRequired) {
		t.Errorf("whitespace name: expected ErrNameRequired, got %v", err)
	}
	_, err = sess.Add(ctx, model.NewAccountParams{DisplayName: "Bob", Handle: "  \t"})
	if !errors.Is(err, session.ErrHandleRequired) {
		t.Errorf("whitespace handle: expected ErrHandleRequired, got %v", err)
	}
	if n, _ := st.Count(ctx, model.DefaultListID); n != 1 {
		t.Errorf("rejected input must not be persisted, store count = %d", n)
	}

	added, err := sess.Add(ctx, model.NewAccountParams{DisplayName: "  Bob ", Handle: " bob\n"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID != "5" {
		t.Errorf("new id = %q, want max+1 = 5", added.ID)
	}
	if added.Amount != "0" || added.AddedDate != model.Today() {
		t.Errorf("defaults wrong: %+v", added)
	}
	if added.DisplayName != "Bob" || added.Handle != "bob" {
		t.Errorf("padding should be trimmed, got %q / %q", added.DisplayName, added.Handle)
	}
	if len(sess.Accounts()) != 2 {
		t.Error("new account should be appended locally")
	}
	if n, _ := st.Count(ctx, model.DefaultListID); n != 2 {
		t.Errorf("store count = %d, want 2", n)
	}
}

func TestSession_BulkAdd(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	seed(t, st, model.DefaultListID, account("10", "Alice", "alice"))
	sess.Refresh(ctx)

	result, err := sess.BulkAdd(ctx, []importer.Candidate{
		{DisplayName: "Bob", Handle: "bob"},
		{DisplayName: "Alice Again", Handle: "alice"}, // exists
		{DisplayName: "Carol", Handle: "carol"},
		{DisplayName: "Carol Dupe", Handle: "carol"}, // intra-batch repeat
	})
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}
	if result.Added != 2 {
		t.Fatalf("added = %d, want 2", result.Added)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("skipped = %d, want 2", len(result.Skipped))
	}
	// Descending from max+N: first candidate in page order gets the
	// highest id.
	if result.Accounts[0].Handle != "bob" || result.Accounts[0].ID != "12" {
		t.Errorf("bob = %+v, want id 12", result.Accounts[0])
	}
	if result.Accounts[1].Handle != "carol" || result.Accounts[1].ID != "11" {
		t.Errorf("carol = %+v, want id 11", result.Accounts[1])
	}
}

func TestSession_SwitchList(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()
	r := registry.New(st, nil)

	seed(t, st, model.DefaultListID, account("1", "Alice", "alice"))
	if _, err := r.Create(ctx, "Work", ""); err != nil {
		t.Fatalf("create list: %v", err)
	}
	seed(t, st, "work", account("1", "Boss", "boss"), account("2", "Peer", "peer"))

	sess.Refresh(ctx)
	sess.CommitSearch("ali", view.SearchByName, "", "", false)
	sess.ClickSort(view.FieldAmount)

	// Unknown target: logged no-op, state intact.
	if err := sess.SwitchList(ctx, "nope"); err != nil {
		t.Fatalf("switch to unknown: %v", err)
	}
	if sess.ListID() != model.DefaultListID || sess.Filter().Query != "ali" {
		t.Error("unknown switch must not disturb the session")
	}

	if err := sess.SwitchList(ctx, "work"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if sess.ListID() != "work" || len(sess.Accounts()) != 2 {
		t.Errorf("switch did not load the target list")
	}
	if sess.Filter().Query != "" || sess.Sort() != view.NewSortState() {
		t.Error("switch must reset view state to defaults")
	}
	if sess.CompareMode() != compare.ModeNone {
		t.Error("switch must clear comparison state")
	}
}

func TestSession_Comparison(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()
	r := registry.New(st, nil)

	// Active {a,b,c}, other {b,c,d}.
	seed(t, st, model.DefaultListID,
		account("1", "A", "a"), account("2", "B", "b"), account("3", "C", "c"))
	if _, err := r.Create(ctx, "Other", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	seed(t, st, "other",
		account("1", "B", "b"), account("2", "C", "c"), account("3", "D", "d"))

	sess.Refresh(ctx)

	fetched := sess.FetchComparisonLists(ctx, sess.MissingComparisonLists([]string{"other"}, false))
	sess.SetComparison(compare.ModeIntersection, []string{"other"}, false, fetched)
	if got := handles(sess.WorkingSet()); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("intersection = %v, want [b c]", got)
	}

	sess.SetComparison(compare.ModeDifference, []string{"other"}, false, nil)
	if got := handles(sess.WorkingSet()); len(got) != 1 || got[0] != "a" {
		t.Errorf("difference = %v, want [a]", got)
	}

	sess.ClearComparison()
	if got := len(sess.WorkingSet()); got != 3 {
		t.Errorf("after clear expected full set, got %d", got)
	}
}

func TestSession_Comparison_FailedListExcluded(t *testing.T) {
	sess, _ := newSession(t)

	// A missing collection reads as empty rather than failing, so the
	// ghost list contributes an empty set and the selection installs.
	fetched := sess.FetchComparisonLists(context.Background(), []string{"ghost"})
	if accounts := fetched["ghost"]; len(accounts) != 0 {
		t.Fatalf("ghost list should be empty, got %v", accounts)
	}
	sess.SetComparison(compare.ModeIntersection, []string{"ghost"}, false, fetched)
	if sess.CompareMode() != compare.ModeIntersection {
		t.Error("selection should install even with nothing fetched")
	}
}

func TestSession_Pagination(t *testing.T) {
	sess, st := newSession(t)
	ctx := context.Background()

	var accounts []model.Account
	for i := 1; i <= 23; i++ {
		n := strconv.Itoa(i)
		a := account(n, "N"+n, "h"+n)
		accounts = append(accounts, a)
	}
	seed(t, st, model.DefaultListID, accounts...)
	sess.Refresh(ctx)

	if got := len(sess.Displayed()); got != view.PageSize {
		t.Fatalf("first page = %d rows, want %d", got, view.PageSize)
	}
	if !sess.HasMore() {
		t.Fatal("expected more pages")
	}

	if !sess.AdvancePage() {
		t.Fatal("advance should start")
	}
	// Re-entrancy: busy flag blocks a second advance.
	if sess.AdvancePage() {
		t.Error("advance while loading must be ignored")
	}
	sess.FinishLoadMore()
	if got := len(sess.Displayed()); got != 2*view.PageSize {
		t.Errorf("second page = %d rows, want %d", got, 2*view.PageSize)
	}

	sess.AdvancePage()
	sess.FinishLoadMore()
	if got := len(sess.Displayed()); got != 23 {
		t.Errorf("final page = %d rows, want 23", got)
	}
	if sess.HasMore() {
		t.Error("no more pages expected")
	}
	if cur, total := sess.Page(); cur != 3 || total != 3 {
		t.Errorf("page = %d/%d, want 3/3", cur, total)
	}
}

func TestSession_WriteFailureLeavesLocalUntouched(t *testing.T) {
	base, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { base.Close() })
	failing := &failingStore{Store: base}
	sess := session.New(failing, registry.New(base, nil), nil, profileTemplate, model.DefaultListID)
	ctx := context.Background()

	seed(t, base, model.DefaultListID, account("1", "Alice", "alice"))
	sess.Refresh(ctx)
	before := sess.Accounts()[0]

	failing.fail = true
	if err := sess.ToggleFavorite(ctx, "1"); err == nil {
		t.Fatal("expected write failure")
	}
	if _, err := sess.Add(ctx, model.NewAccountParams{DisplayName: "B", Handle: "b"}); err == nil {
		t.Fatal("expected create failure")
	}

	if got := sess.Accounts(); len(got) != 1 || got[0] != before {
		t.Errorf("failed writes must not change local state: %+v", got)
	}
}

type failingStore struct {
	store.Store
	fail bool
}

var errInjected = errors.New("injected write failure")

func (f *failingStore) CreateOrReplace(ctx context.Context, collection, id string, fields model.FieldBag) error {
	if f.fail {
		return errInjected
	}
	return f.Store.CreateOrReplace(ctx, collection, id, fields)
}

func (f *failingStore) PartialUpdate(ctx context.Context, collection, id string, fields model.FieldBag) error {
	if f.fail {
		return errInjected
	}
	return f.Store.PartialUpdate(ctx, collection, id, fields)
}

func ids(accounts []model.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.ID
	}
	return out
}

func handles(accounts []model.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.Handle
	}
	return out
}

