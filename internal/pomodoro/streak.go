package pomodoro

import (
	"sort"
	"time"
)

// dayOf returns UTC midnight of t's calendar day in t's own location, so a
// local "today" and a stored YYYY-MM-DD compare as the same day.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// Streak counts consecutive calendar days with at least one completed
// session, ending on the most recent such day. The streak is broken (0) when
// that day lies more than one day before ref.
func Streak(sessions []Session, ref time.Time) int {
	seen := make(map[string]bool)
	var days []time.Time
	for _, s := range sessions {
		if !s.IsCompleted || seen[s.Date] {
			continue
		}
		d, err := time.Parse(DateLayout, s.Date)
		if err != nil {
			continue
		}
		seen[s.Date] = true
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	last := days[len(days)-1]
	if daysBetween(last, dayOf(ref)) > 1 {
		return 0
	}

	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		if daysBetween(days[i-1], days[i]) != 1 {
			break
		}
		streak++
	}
	return streak
}
