package domain

import "time"

// Streak holds the per-user daily-activity counters. CurrentStreak counts
// consecutive calendar days with activity ending today or yesterday;
// LongestStreak never decreases and is always >= CurrentStreak;
// TotalActiveDays counts distinct active days and never decreases.
type Streak struct {
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	TotalActiveDays  int        `json:"total_active_days"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
}

// NextStreak computes the streak state that results from recording activity
// at the given instant. Days are compared at UTC calendar-day granularity,
// so repeated calls within one day are no-ops and the function is safe to
// invoke on every session start.
func NextStreak(prev Streak, now time.Time) Streak {
	today := startOfDay(now)

	if prev.LastActivityDate == nil {
		return Streak{
			CurrentStreak:    1,
			LongestStreak:    1,
			TotalActiveDays:  1,
			LastActivityDate: &today,
		}
	}

	lastDay := startOfDay(*prev.LastActivityDate)

	// Same day, or a clock that moved backwards: leave every counter alone.
	if !today.After(lastDay) {
		return prev
	}

	next := Streak{
		TotalActiveDays:  prev.TotalActiveDays + 1,
		LongestStreak:    prev.LongestStreak,
		LastActivityDate: &today,
	}

	if lastDay.AddDate(0, 0, 1).Equal(today) {
		next.CurrentStreak = prev.CurrentStreak + 1
		if next.CurrentStreak > next.LongestStreak {
			next.LongestStreak = next.CurrentStreak
		}
	} else {
		next.CurrentStreak = 1
	}

	return next
}

// SameDay reports whether both streak states refer to the same activity day.
// Two nil dates compare equal.
func (s Streak) SameDay(other Streak) bool {
	if s.LastActivityDate == nil || other.LastActivityDate == nil {
		return s.LastActivityDate == other.LastActivityDate
	}
	return startOfDay(*s.LastActivityDate).Equal(startOfDay(*other.LastActivityDate))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
