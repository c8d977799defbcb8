package showdown

import "time"

// The showdown is a recurring XP-doubling window: Saturday evening from
// WindowStartHour until midnight, in the local time of the clock passed in.
// Everything here is a pure function of its arguments so tests inject fixed
// timestamps.
const (
	WindowDay       = time.Saturday
	WindowStartHour = 21

	// ResetDay is when the weekly XP counters roll over, used for the
	// off-window countdown display.
	ResetDay = time.Monday
)

// IsActive reports whether the XP multiplier window covers the given moment.
func IsActive(now time.Time) bool {
	return now.Weekday() == WindowDay && now.Hour() >= WindowStartHour
}

// TimeRemaining returns the time left in the active window (until midnight),
// or zero when the window is not active.
func TimeRemaining(now time.Time) time.Duration {
	if !IsActive(now) {
		return 0
	}
	return midnightAfter(now).Sub(now)
}

// UntilWeeklyReset returns the time until the next reset day at 00:00.
func UntilWeeklyReset(now time.Time) time.Duration {
	days := int(ResetDay) - int(now.Weekday())
	if days <= 0 {
		days += 7
	}
	y, m, d := now.Date()
	reset := time.Date(y, m, d+days, 0, 0, 0, 0, now.Location())
	return reset.Sub(now)
}

func midnightAfter(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
