package showdown

import (
	"testing"
	"time"
)

// 2026-08-29 is a Saturday.
func saturday(hour, min int) time.Time {
	return time.Date(2026, 8, 29, hour, min, 0, 0, time.UTC)
}

func TestIsActive(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"saturday 22:00", saturday(22, 0), true},
		{"saturday 21:00 exact start", saturday(21, 0), true},
		{"saturday 23:59", saturday(23, 59), true},
		{"saturday 20:59", saturday(20, 59), false},
		{"friday 22:00", saturday(22, 0).AddDate(0, 0, -1), false},
		{"sunday 22:00", saturday(22, 0).AddDate(0, 0, 1), false},
		{"sunday 00:00 just after window", saturday(0, 0).AddDate(0, 0, 1), false},
	}
	for _, c := range cases {
		if got := IsActive(c.now); got != c.want {
			t.Fatalf("%s: IsActive = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTimeRemaining(t *testing.T) {
	if got := TimeRemaining(saturday(22, 0)); got != 2*time.Hour {
		t.Fatalf("remaining at 22:00 = %v, want 2h", got)
	}
	if got := TimeRemaining(saturday(23, 59)); got != time.Minute {
		t.Fatalf("remaining at 23:59 = %v, want 1m", got)
	}
	if got := TimeRemaining(saturday(12, 0)); got != 0 {
		t.Fatalf("remaining outside window = %v, want 0", got)
	}
}

func TestUntilWeeklyReset(t *testing.T) {
	// Saturday 22:00 -> Monday 00:00 is 26h.
	if got := UntilWeeklyReset(saturday(22, 0)); got != 26*time.Hour {
		t.Fatalf("until reset from saturday 22:00 = %v, want 26h", got)
	}

	// From a Monday the next reset is the following Monday.
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if got := UntilWeeklyReset(monday); got != 7*24*time.Hour {
		t.Fatalf("until reset from monday 00:00 = %v, want 168h", got)
	}
	if got := UntilWeeklyReset(monday.Add(time.Hour)); got != 7*24*time.Hour-time.Hour {
		t.Fatalf("until reset from monday 01:00 = %v", got)
	}
}
