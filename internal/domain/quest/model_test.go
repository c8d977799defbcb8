package quest

import (
	"strings"
	"testing"
)

func TestCreateQuestInputTrim(t *testing.T) {
	in := CreateQuestInput{
		Title:       "  Friday Night Ramen Run  ",
		ScheduledAt: " 2026-08-28T19:00:00Z ",
		HubName:     "  Tokyo Tower Hub ",
		Vibe:        " chill ",
	}
	in.Trim()

	if in.Title != "Friday Night Ramen Run" {
		t.Errorf("title: got %q", in.Title)
	}
	if in.ScheduledAt != "2026-08-28T19:00:00Z" {
		t.Errorf("scheduledAt: got %q", in.ScheduledAt)
	}
	if in.HubName != "Tokyo Tower Hub" {
		t.Errorf("hubName: got %q", in.HubName)
	}
	if in.Vibe != "chill" {
		t.Errorf("vibe: got %q", in.Vibe)
	}
}

func TestCreateQuestInputTrimCapsTitle(t *testing.T) {
	in := CreateQuestInput{Title: strings.Repeat("x", 300)}
	in.Trim()
	if len(in.Title) != 120 {
		t.Errorf("title length: got %d, want 120", len(in.Title))
	}
}
