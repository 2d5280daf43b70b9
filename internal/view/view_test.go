package view_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"followdeck/internal/model"
	"followdeck/internal/view"
)

func ids(accounts []model.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.ID
	}
	return out
}

func TestDeriveFiltered_DeletedHiddenByDefaultToggle(t *testing.T) {
	accounts := []model.Account{
		{ID: "1", DisplayName: "a"},
		{ID: "2", DisplayName: "b", Deleted: true},
	}

	f := view.NewFilterState()
	assert.Equal(t, len(view.DeriveFiltered(accounts, f)), 2,
		"deleted rows are visible with the default state")

	f.ShowDeleted = false
	got := view.DeriveFiltered(accounts, f)
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].ID, "1")
}

func TestDeriveFiltered_Search(t *testing.T) {
	accounts := []model.Account{
		{ID: "1", DisplayName: "Cat Videos", Handle: "cats_daily"},
		{ID: "2", DisplayName: "Dog Videos", Handle: "dog_channel"},
		{ID: "3", DisplayName: "cooking cats", Handle: "kitchen"},
	}

	tests := []struct {
		name  string
		query string
		field view.SearchField
		want  []string
	}{
		{"by name case-insensitive", "CAT", view.SearchByName, []string{"1", "3"}},
		{"by handle", "cat", view.SearchByHandle, []string{"1"}},
		{"whitespace-only query matches all", "   ", view.SearchByName, []string{"1", "2", "3"}},
		{"no match", "zebra", view.SearchByName, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := view.NewFilterState()
			f.Query = tt.query
			f.SearchField = tt.field
			got := ids(view.DeriveFiltered(accounts, f))
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestDeriveFiltered_DateRange(t *testing.T) {
	accounts := []model.Account{
		{ID: "1", AddedDate: "2024/01/15"},
		{ID: "2", AddedDate: "2024/02/15"},
		{ID: "3", AddedDate: "2024/03/15"},
		{ID: "4", AddedDate: ""},          // never excluded from default view, dropped by range
		{ID: "5", AddedDate: "not-a-date"}, // unparseable, dropped by range
	}

	f := view.NewFilterState()
	f.DateEnabled = true
	f.DateFrom = "2024/02/01"
	f.DateTo = "2024/02/28"
	assert.DeepEqual(t, ids(view.DeriveFiltered(accounts, f)), []string{"2"})

	// Bounds are inclusive whole days
	f.DateFrom = "2024/02/15"
	f.DateTo = "2024/02/15"
	assert.DeepEqual(t, ids(view.DeriveFiltered(accounts, f)), []string{"2"})

	// Open-ended start
	f.DateFrom = ""
	f.DateTo = "2024/01/31"
	assert.DeepEqual(t, ids(view.DeriveFiltered(accounts, f)), []string{"1"})

	// Enabled but both bounds empty: stage is skipped entirely
	f.DateFrom = ""
	f.DateTo = ""
	assert.Equal(t, len(view.DeriveFiltered(accounts, f)), 5)

	// Disabled flag wins over bounds
	f.DateEnabled = false
	f.DateFrom = "2024/02/01"
	assert.Equal(t, len(view.DeriveFiltered(accounts, f)), 5)
}

func TestDeriveFiltered_FavoritesOnly(t *testing.T) {
	accounts := []model.Account{
		{ID: "1", Favorite: true},
		{ID: "2"},
		{ID: "3", Favorite: true, Deleted: true},
	}

	f := view.NewFilterState()
	f.FavoritesOnly = true
	assert.DeepEqual(t, ids(view.DeriveFiltered(accounts, f)), []string{"1", "3"})

	// Stages compose: deleted filter runs before favorites
	f.ShowDeleted = false
	assert.DeepEqual(t, ids(view.DeriveFiltered(accounts, f)), []string{"1"})
}

func TestDeriveSorted_NumericID(t *testing.T) {
	accounts := []model.Account{
		{ID: "10"}, {ID: "2"}, {ID: "1"}, {ID: "x"},
	}

	got := ids(view.DeriveSorted(accounts, view.SortState{Field: view.FieldID, Direction: view.Asc}))
	// "x" parses as 0 and sorts first
	assert.DeepEqual(t, got, []string{"x", "1", "2", "10"})

	got = ids(view.DeriveSorted(accounts, view.SortState{Field: view.FieldID, Direction: view.Desc}))
	assert.DeepEqual(t, got, []string{"10", "2", "1", "x"})
}

func TestDeriveSorted_DatesEmptyFirstAscending(t *testing.T) {
	accounts := []model.Account{
		{ID: "1", LastCheckedDate: "2024/05/01"},
		{ID: "2", LastCheckedDate: ""},
		{ID: "3", LastCheckedDate: "2024/01/01"},
	}

	got := ids(view.DeriveSorted(accounts, view.SortState{Field: view.FieldLastChecked, Direction: view.Asc}))
	assert.DeepEqual(t, got, []string{"2", "3", "1"})
}

func TestDeriveSorted_BooleanTrueFirstAscending(t *testing.T) {
	accounts := []model.Account{
		{ID: "1"},
		{ID: "2", Favorite: true},
		{ID: "3"},
		{ID: "4", Favorite: true},
	}

	got := ids(view.DeriveSorted(accounts, view.SortState{Field: view.FieldFavorite, Direction: view.Asc}))
	assert.DeepEqual(t, got, []string{"2", "4", "1", "3"})

	got = ids(view.DeriveSorted(accounts, view.SortState{Field: view.FieldFavorite, Direction: view.Desc}))
	assert.DeepEqual(t, got, []string{"1", "3", "2", "4"})
}

func TestDeriveSorted_Amount(t *testing.T) {
	accounts := []model.Account{
		{ID: "1", Amount: "2"},
		{ID: "2", Amount: "-1"},
		{ID: "3", Amount: ""},
		{ID: "4", Amount: "10"},
	}

	got := ids(view.DeriveSorted(accounts, view.SortState{Field: view.FieldAmount, Direction: view.Asc}))
	assert.DeepEqual(t, got, []string{"2", "3", "1", "4"})
}

func TestDeriveSorted_Stability(t *testing.T) {
	// Equal keys keep their relative order; sorting twice is identical,
	// and toggling direction twice restores the original ordering.
	accounts := []model.Account{
		{ID: "1", Amount: "1"},
		{ID: "2", Amount: "1"},
		{ID: "3", Amount: "0"},
		{ID: "4", Amount: "1"},
	}
	state := view.SortState{Field: view.FieldAmount, Direction: view.Asc}

	first := view.DeriveSorted(accounts, state)
	second := view.DeriveSorted(first, state)
	assert.DeepEqual(t, ids(first), ids(second))
	assert.DeepEqual(t, ids(first), []string{"3", "1", "2", "4"})

	state.Direction = view.Desc
	flipped := view.DeriveSorted(first, state)
	state.Direction = view.Asc
	restored := view.DeriveSorted(flipped, state)
	assert.DeepEqual(t, ids(restored), ids(first))
}

func TestSortState_Click(t *testing.T) {
	s := view.NewSortState()
	assert.Equal(t, s.Field, view.FieldID)
	assert.Equal(t, s.Direction, view.Asc)

	s.Click(view.FieldID)
	assert.Equal(t, s.Direction, view.Desc, "same field toggles direction")

	s.Click(view.FieldAmount)
	assert.Equal(t, s.Field, view.FieldAmount)
	assert.Equal(t, s.Direction, view.Asc, "new field resets to ascending")
}

func TestWindow_PrefixAndHasMore(t *testing.T) {
	accounts := make([]model.Account, 12)
	for i := range accounts {
		accounts[i] = model.Account{ID: string(rune('a' + i))}
	}

	w := view.NewWindow()
	displayed := w.Slice(accounts)
	assert.Equal(t, len(displayed), 10)
	assert.Assert(t, w.HasMore(len(accounts)))

	assert.Assert(t, w.Advance(len(accounts)))
	w.FinishLoading()
	displayed = w.Slice(accounts)
	assert.Equal(t, len(displayed), 12)
	assert.Assert(t, !w.HasMore(len(accounts)))
}

func TestWindow_MonotonicPrefix(t *testing.T) {
	accounts := make([]model.Account, 35)
	for i := range accounts {
		accounts[i] = model.Account{ID: string(rune(i))}
	}

	w := view.NewWindow()
	prev := w.Slice(accounts)
	for w.HasMore(len(accounts)) {
		w.Advance(len(accounts))
		w.FinishLoading()
		cur := w.Slice(accounts)
		assert.Assert(t, len(prev) <= len(cur), "window must only grow")
		for i := range prev {
			assert.Equal(t, prev[i].ID, cur[i].ID, "previous window must be a prefix")
		}
		prev = cur
	}
	assert.Equal(t, len(prev), 35)
}

func TestWindow_AdvanceGuards(t *testing.T) {
	w := view.NewWindow()

	// Nothing beyond the first page
	assert.Assert(t, !w.Advance(5))
	assert.Equal(t, w.Page(), 1)

	// A pending advance blocks re-entry until cleared
	assert.Assert(t, w.Advance(25))
	assert.Assert(t, w.Loading())
	assert.Assert(t, !w.Advance(25), "re-entrant advance must be rejected")
	w.FinishLoading()
	assert.Assert(t, w.Advance(25))
	assert.Equal(t, w.Page(), 3)

	w.Reset()
	assert.Equal(t, w.Page(), 1)
	assert.Assert(t, !w.Loading())
}

func TestWindow_TotalPages(t *testing.T) {
	w := view.NewWindow()
	assert.Equal(t, w.TotalPages(0), 1)
	assert.Equal(t, w.TotalPages(10), 1)
	assert.Equal(t, w.TotalPages(11), 2)
	assert.Equal(t, w.TotalPages(35), 4)
}
