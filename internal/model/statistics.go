package model

// Statistics summarizes the review state of a list.
type Statistics struct {
	Total     int
	Active    int
	Deleted   int
	Favorites int
	Checked   int // amount > 0
	Ignored   int // amount = -1
	Unchecked int // amount = 0
}

// ComputeStatistics tallies the collection in one pass.
func ComputeStatistics(accounts []Account) Statistics {
	var s Statistics
	s.Total = len(accounts)
	for _, a := range accounts {
		if a.Deleted {
			s.Deleted++
		} else {
			s.Active++
		}
		if a.Favorite {
			s.Favorites++
		}
		switch v := a.AmountValue(); {
		case v > 0:
			s.Checked++
		case v == AmountFloor:
			s.Ignored++
		default:
			s.Unchecked++
		}
	}
	return s
}
