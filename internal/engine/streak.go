package engine

import (
	"time"

	"mindpalace/internal/storage"
)

// updateStreak applies one day of activity. At most one change per calendar
// day: yesterday extends the run, a gap resets it to 1, a repeat within the
// same day is a no-op. Longest is a running maximum and never decreases.
func updateStreak(st *storage.StreakState, today string) {
	if st.LastActiveDate == "" {
		st.Current = 1
		st.LastActiveDate = today
		if st.Longest < 1 {
			st.Longest = 1
		}
		return
	}

	switch daysBetween(st.LastActiveDate, today) {
	case 0:
		return
	case 1:
		st.Current++
	default:
		st.Current = 1
	}

	st.LastActiveDate = today
	if st.Current > st.Longest {
		st.Longest = st.Current
	}
}

// daysBetween counts whole calendar days from a to b. Unparseable dates are
// treated as a gap so the streak recovers to a sane state instead of failing.
func daysBetween(a, b string) int {
	ta, errA := time.Parse(storage.DateLayout, a)
	tb, errB := time.Parse(storage.DateLayout, b)
	if errA != nil || errB != nil {
		return 2
	}
	return int(tb.Sub(ta).Hours() / 24)
}
