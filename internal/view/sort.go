package view

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"followdeck/internal/model"
)

// Field is a sortable account column.
type Field int

const (
	FieldID Field = iota
	FieldDisplayName
	FieldHandle
	FieldLastChecked
	FieldAmount
	FieldFavorite
	FieldAdded
	FieldDeleted
)

// Direction is the sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// SortState holds the selected sort column and direction.
type SortState struct {
	Field     Field
	Direction Direction
}

// NewSortState returns the default ordering: id ascending.
func NewSortState() SortState {
	return SortState{Field: FieldID, Direction: Asc}
}

// Click applies the column-header semantics: selecting the current
// field toggles direction, selecting another field resets to ascending.
func (s *SortState) Click(field Field) {
	if s.Field == field {
		if s.Direction == Asc {
			s.Direction = Desc
		} else {
			s.Direction = Asc
		}
		return
	}
	s.Field = field
	s.Direction = Asc
}

// Display names are predominantly Japanese in the source data.
var collator = collate.New(language.Japanese)

// DeriveSorted returns a stably sorted copy of the working set.
func DeriveSorted(accounts []model.Account, s SortState) []model.Account {
	sorted := make([]model.Account, len(accounts))
	copy(sorted, accounts)

	sort.SliceStable(sorted, func(i, j int) bool {
		c := compareField(sorted[i], sorted[j], s.Field)
		if s.Direction == Desc {
			return c > 0
		}
		return c < 0
	})

	return sorted
}

// compareField orders two accounts ascending by the given field.
// Numeric fields parse with default 0, dates with empty/unparseable as
// epoch 0, and booleans sort true before false (so ascending shows
// favorites first).
func compareField(a, b model.Account, field Field) int {
	switch field {
	case FieldID:
		return cmpInt(numericID(a.ID), numericID(b.ID))
	case FieldLastChecked:
		return cmpInt64(model.DateEpoch(a.LastCheckedDate), model.DateEpoch(b.LastCheckedDate))
	case FieldAdded:
		return cmpInt64(model.DateEpoch(a.AddedDate), model.DateEpoch(b.AddedDate))
	case FieldAmount:
		return cmpInt(a.AmountValue(), b.AmountValue())
	case FieldFavorite:
		return cmpBoolTrueFirst(a.Favorite, b.Favorite)
	case FieldDeleted:
		return cmpBoolTrueFirst(a.Deleted, b.Deleted)
	case FieldHandle:
		return collator.CompareString(a.Handle, b.Handle)
	default:
		return collator.CompareString(a.DisplayName, b.DisplayName)
	}
}

func numericID(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	return n
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBoolTrueFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
