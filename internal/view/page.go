package view

import "followdeck/internal/model"

// PageSize is the fixed pagination increment.
const PageSize = 10

// Window exposes a monotonically growing prefix of the sorted working
// set. Advancing is the only mutation; any upstream change resets the
// window to the first page.
type Window struct {
	page        int
	loadingMore bool
}

// NewWindow returns a window at the first page.
func NewWindow() Window {
	return Window{page: 1}
}

// Reset returns to the first page and clears the busy flag.
func (w *Window) Reset() {
	w.page = 1
	w.loadingMore = false
}

// Page returns the current page number (1-based).
func (w *Window) Page() int {
	return w.page
}

// Loading reports whether an advance is in flight. While set, further
// advances are rejected.
func (w *Window) Loading() bool {
	return w.loadingMore
}

// FinishLoading clears the busy flag once the advance has been shown.
func (w *Window) FinishLoading() {
	w.loadingMore = false
}

// HasMore reports whether the sorted set extends past the window.
func (w *Window) HasMore(total int) bool {
	return total > w.page*PageSize
}

// Advance grows the window by one page. It is gated by the busy flag
// and by HasMore, so both the proximity trigger and the manual action
// funnel through the same guard; returns false when nothing happened.
func (w *Window) Advance(total int) bool {
	if w.loadingMore || !w.HasMore(total) {
		return false
	}
	w.page++
	w.loadingMore = true
	return true
}

// Slice returns the displayed prefix of the sorted set.
func (w *Window) Slice(sorted []model.Account) []model.Account {
	end := w.page * PageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[:end]
}

// TotalPages returns the page count for the given set size.
func (w *Window) TotalPages(total int) int {
	if total == 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}
