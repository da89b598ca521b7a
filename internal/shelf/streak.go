package shelf

import "fmt"

// AdvanceStreak applies one completion event on day today to s.
//
//   - last read today: unchanged (a second completion the same day does not count)
//   - last read the day before: current streak grows by one
//   - anything else, including no previous read: current streak restarts at 1
//
// The longest streak is raised to the current one when exceeded and the last
// read date becomes today. The second result reports whether s changed.
func AdvanceStreak(s ReadingStreak, today Date) (ReadingStreak, bool) {
	if s.LastReadDate != nil && s.LastReadDate.Equal(today) {
		return s, false
	}

	if s.LastReadDate != nil && s.LastReadDate.AddDays(1).Equal(today) {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	day := today
	s.LastReadDate = &day
	return s, true
}

// StreakTracker records completion events against the persisted streak.
type StreakTracker struct {
	store  *Store
	clock  Clock
	logger Logger
}

// NewStreakTracker creates a tracker that reads "today" from clock.
func NewStreakTracker(store *Store, clock Clock, logger Logger) *StreakTracker {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &StreakTracker{store: store, clock: clock, logger: logger}
}

// RecordCompletionToday counts a book completion on the clock's current
// calendar day and returns the resulting streak.
func (t *StreakTracker) RecordCompletionToday() (ReadingStreak, error) {
	today := Today(t.clock)

	streak, err := t.store.UpdateStreak(func(s ReadingStreak) (ReadingStreak, bool) {
		return AdvanceStreak(s, today)
	})
	if err != nil {
		return ReadingStreak{}, fmt.Errorf("recording completion for %s: %w", today, err)
	}

	t.logger.Debug("streak updated", "day", today.String(), "current", streak.CurrentStreak, "longest", streak.LongestStreak)
	return streak, nil
}
