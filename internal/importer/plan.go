package importer

import (
	"fmt"

	"followdeck/internal/model"
)

// Conflict is a candidate that will be skipped, with the reason shown
// in the preview. Colliding candidates are always skipped, never
// overwritten.
type Conflict struct {
	Candidate
	Reason     string
	ExistingID string // set when the handle already exists in the list
}

// Plan is the import preview: what will be written and what will be
// skipped.
type Plan struct {
	New       []Candidate
	Conflicts []Conflict
}

// BuildPlan de-duplicates a candidate batch against the active list and
// against itself. A handle already present in the list is flagged on
// every occurrence; a handle repeated within the batch keeps its first
// occurrence and flags the rest.
func BuildPlan(candidates []Candidate, existing []model.Account) Plan {
	byHandle := make(map[string]string, len(existing)) // handle -> record id
	for _, a := range existing {
		if _, ok := byHandle[a.Handle]; !ok {
			byHandle[a.Handle] = a.ID
		}
	}

	var plan Plan
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if id, exists := byHandle[c.Handle]; exists {
			plan.Conflicts = append(plan.Conflicts, Conflict{
				Candidate:  c,
				Reason:     fmt.Sprintf("handle %q already exists (id %s)", c.Handle, id),
				ExistingID: id,
			})
			continue
		}
		if seen[c.Handle] {
			plan.Conflicts = append(plan.Conflicts, Conflict{
				Candidate: c,
				Reason:    fmt.Sprintf("handle %q repeated within this batch", c.Handle),
			})
			continue
		}
		seen[c.Handle] = true
		plan.New = append(plan.New, c)
	}

	return plan
}
