// Package compare computes set-style views of the active list against
// other lists. Identity across lists is the account handle, never the
// per-list record id: the same profile carries different ids in
// different lists.
package compare

import "followdeck/internal/model"

// Mode selects how the comparison union is applied to the active list.
type Mode int

const (
	ModeNone         Mode = iota // pass-through
	ModeIntersection             // keep accounts whose handle is in the union
	ModeDifference               // keep accounts whose handle is NOT in the union
)

// String returns a short label for display.
func (m Mode) String() string {
	switch m {
	case ModeIntersection:
		return "intersection"
	case ModeDifference:
		return "difference"
	default:
		return "none"
	}
}

// HandleSet is a set of account handles.
type HandleSet map[string]struct{}

// Handles collects the handle set of one collection.
func Handles(accounts []model.Account) HandleSet {
	set := make(HandleSet, len(accounts))
	for _, a := range accounts {
		set[a.Handle] = struct{}{}
	}
	return set
}

// Union builds the de-duplicated handle union of the selected comparison
// collections. Collections are visited in selection insertion order; the
// first occurrence of a handle wins.
func Union(collections [][]model.Account) HandleSet {
	union := make(HandleSet)
	for _, accounts := range collections {
		for _, a := range accounts {
			if _, seen := union[a.Handle]; seen {
				continue
			}
			union[a.Handle] = struct{}{}
		}
	}
	return union
}

// Apply filters the active list against the union. An empty union (no
// comparison lists selected, or all selected lists empty) passes every
// account through unchanged regardless of mode. excludeHandles further
// drops matches in intersection mode only; pass nil to disable.
func Apply(active []model.Account, union HandleSet, mode Mode, excludeHandles HandleSet) []model.Account {
	if mode == ModeNone || len(union) == 0 {
		return active
	}

	result := make([]model.Account, 0, len(active))
	for _, a := range active {
		_, inUnion := union[a.Handle]

		switch mode {
		case ModeIntersection:
			if !inUnion {
				continue
			}
			if excludeHandles != nil {
				if _, excluded := excludeHandles[a.Handle]; excluded {
					continue
				}
			}
		case ModeDifference:
			if inUnion {
				continue
			}
		}
		result = append(result, a)
	}
	return result
}
