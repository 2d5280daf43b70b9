package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"followdeck/internal/importer"
	"followdeck/internal/model"
)

func (s *Session) find(id string) (model.Account, bool) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return model.Account{}, false
}

// replaceByID swaps the account with the matching id in place. The
// collection's order is untouched so the derived view stays stable.
func (s *Session) replaceByID(updated model.Account) {
	for i, a := range s.accounts {
		if a.ID == updated.ID {
			s.accounts[i] = updated
			return
		}
	}
}

// patch awaits the store write for the given fields and, only on
// success, applies the already-updated account locally.
func (s *Session) patch(ctx context.Context, updated model.Account, fields model.FieldBag) error {
	if err := s.store.PartialUpdate(ctx, s.listID, updated.ID, fields); err != nil {
		return fmt.Errorf("update account %s: %w", updated.ID, err)
	}
	s.replaceByID(updated)
	return nil
}

// Visit returns the account's profile URL and records today as the
// last-checked date. The URL is usable even when persisting the date
// fails; the caller decides whether to surface the error.
func (s *Session) Visit(ctx context.Context, id string) (string, error) {
	a, ok := s.find(id)
	if !ok {
		return "", ErrUnknownAccount
	}
	url := s.ProfileURL(a.Handle)

	a.LastCheckedDate = model.Today()
	if err := s.patch(ctx, a, model.FieldBag{"LastCheckedDate": a.LastCheckedDate}); err != nil {
		s.log.Warn("visit recorded locally only", "account", id, "error", err)
		return url, err
	}
	return url, nil
}

// AdjustAmount adds delta to the review counter, clamped to the floor,
// and stamps the last-checked date in the same write.
func (s *Session) AdjustAmount(ctx context.Context, id string, delta int) error {
	a, ok := s.find(id)
	if !ok {
		return ErrUnknownAccount
	}

	next := model.ClampAmount(model.ParseAmount(a.Amount) + delta)
	a.Amount = strconv.Itoa(next)
	a.LastCheckedDate = model.Today()

	return s.patch(ctx, a, model.FieldBag{
		"Amount":          a.Amount,
		"LastCheckedDate": a.LastCheckedDate,
	})
}

// ToggleFavorite flips the favorite flag.
func (s *Session) ToggleFavorite(ctx context.Context, id string) error {
	a, ok := s.find(id)
	if !ok {
		return ErrUnknownAccount
	}
	a.Favorite = !a.Favorite
	return s.patch(ctx, a, model.FieldBag{"Favorite": a.Favorite})
}

// ToggleDeleted flips the soft-delete flag. No other field changes;
// restoring an account brings back exactly what it had.
func (s *Session) ToggleDeleted(ctx context.Context, id string) error {
	a, ok := s.find(id)
	if !ok {
		return ErrUnknownAccount
	}
	a.Deleted = !a.Deleted
	return s.patch(ctx, a, model.FieldBag{"Deleted": a.Deleted})
}

// Add creates a single account with the next numeric id and appends it
// to the collection once the store write succeeds. Name and handle are
// trimmed before validation; whitespace-only input is rejected.
func (s *Session) Add(ctx context.Context, params model.NewAccountParams) (model.Account, error) {
	params.DisplayName = strings.TrimSpace(params.DisplayName)
	params.Handle = strings.TrimSpace(params.Handle)
	if params.DisplayName == "" {
		return model.Account{}, ErrNameRequired
	}
	if params.Handle == "" {
		return model.Account{}, ErrHandleRequired
	}

	id := model.MaxNumericID(s.accounts) + 1
	a := model.NewAccount(id, params, model.Today())

	if err := s.store.CreateOrReplace(ctx, s.listID, a.ID, a.Record()); err != nil {
		return model.Account{}, fmt.Errorf("create account: %w", err)
	}
	s.accounts = append(s.accounts, a)
	return a, nil
}

// BulkResult reports what a bulk import did.
type BulkResult struct {
	Added    int
	Skipped  []importer.Conflict
	Accounts []model.Account
}

// BulkAdd imports parsed candidates, skipping handles that already
// exist in the collection or repeat within the batch. New accounts get
// descending ids counted down from max+N so the first candidate in
// page order ends up with the highest id. A failed write stops the
// batch; accounts written before the failure stay.
func (s *Session) BulkAdd(ctx context.Context, candidates []importer.Candidate) (BulkResult, error) {
	plan := importer.BuildPlan(candidates, s.accounts)
	result := BulkResult{Skipped: plan.Conflicts}

	max := model.MaxNumericID(s.accounts)
	today := model.Today()
	for i, c := range plan.New {
		id := max + len(plan.New) - i
		a := model.NewAccount(id, model.NewAccountParams{
			DisplayName: c.DisplayName,
			Handle:      c.Handle,
		}, today)

		if err := s.store.CreateOrReplace(ctx, s.listID, a.ID, a.Record()); err != nil {
			return result, fmt.Errorf("bulk create %q: %w", c.Handle, err)
		}
		s.accounts = append(s.accounts, a)
		result.Accounts = append(result.Accounts, a)
		result.Added++
	}
	return result, nil
}
