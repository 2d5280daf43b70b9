// Package view holds the pure derived-view pipeline: attribute filters,
// the sort engine, and the pagination window. Every function here is a
// pure transformation over an account slice; the session re-runs the
// pipeline after each state change.
package view

import (
	"strings"
	"time"

	"followdeck/internal/model"
)

// SearchField selects which account field the text search matches.
type SearchField int

const (
	SearchByName SearchField = iota
	SearchByHandle
)

// FilterState holds the committed filter inputs. Live text input is not
// part of this state: search and date range only take effect on an
// explicit commit action.
type FilterState struct {
	Query       string
	SearchField SearchField

	DateEnabled bool
	DateFrom    string // inclusive, start of day; "" = open
	DateTo      string // inclusive, end of day; "" = open

	FavoritesOnly bool
	ShowDeleted   bool
}

// NewFilterState returns the defaults for a freshly opened list:
// no filters, deleted rows visible.
func NewFilterState() FilterState {
	return FilterState{ShowDeleted: true}
}

// DeriveFiltered applies the attribute filter stages in fixed order:
// soft-delete, text search, date range, favorites. Each stage preserves
// the relative order of survivors.
func DeriveFiltered(accounts []model.Account, f FilterState) []model.Account {
	filtered := accounts

	if !f.ShowDeleted {
		filtered = keep(filtered, func(a model.Account) bool { return !a.Deleted })
	}

	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		filtered = keep(filtered, func(a model.Account) bool {
			field := a.DisplayName
			if f.SearchField == SearchByHandle {
				field = a.Handle
			}
			return strings.Contains(strings.ToLower(field), query)
		})
	}

	if f.DateEnabled && (f.DateFrom != "" || f.DateTo != "") {
		from, hasFrom := model.ParseDate(f.DateFrom)
		to, hasTo := model.ParseDate(f.DateTo)
		if hasTo {
			// Inclusive through the last second of the end day
			to = to.Add(24*time.Hour - time.Second)
		}

		filtered = keep(filtered, func(a model.Account) bool {
			added, ok := model.ParseDate(a.AddedDate)
			if !ok {
				return false
			}
			if hasFrom && added.Before(from) {
				return false
			}
			if hasTo && added.After(to) {
				return false
			}
			return true
		})
	}

	if f.FavoritesOnly {
		filtered = keep(filtered, func(a model.Account) bool { return a.Favorite })
	}

	return filtered
}

func keep(accounts []model.Account, pred func(model.Account) bool) []model.Account {
	out := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}
