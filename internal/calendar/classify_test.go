package calendar

import (
	"testing"

	"github.com/villarosa-rentals/backend/internal/storage/models"
)

func TestClassifyDay_TwoNightStay(t *testing.T) {
	events := []models.CalendarEvent{
		{Title: "Reserved", StartDate: "2024-12-20", EndDate: "2024-12-22"},
	}

	tests := []struct {
		date string
		want DayType
	}{
		{"2024-12-19", DayNone},
		{"2024-12-20", DayCheckIn},
		{"2024-12-21", DayMiddle},
		{"2024-12-22", DayCheckOut},
		{"2024-12-23", DayNone},
	}

	for _, tt := range tests {
		got := ClassifyDay(tt.date, events)
		if got.DayType != tt.want {
			t.Errorf("ClassifyDay(%s) = %s, want %s", tt.date, got.DayType, tt.want)
		}
	}
}

func TestClassifyDay_SingleNightStay(t *testing.T) {
	events := []models.CalendarEvent{
		{Title: "One night", StartDate: "2024-12-20", EndDate: "2024-12-21"},
	}

	got := ClassifyDay("2024-12-20", events)
	if got.DayType != DaySingle {
		t.Errorf("single-night start day = %s, want %s", got.DayType, DaySingle)
	}
	if got.Event == nil || got.Event.Title != "One night" {
		t.Error("classification did not carry the driving event")
	}

	got = ClassifyDay("2024-12-21", events)
	if got.DayType != DayCheckOut {
		t.Errorf("single-night end day = %s, want %s", got.DayType, DayCheckOut)
	}
}

func TestClassifyDay_CheckoutBeatsOverlap(t *testing.T) {
	// A back-to-back turnover: one stay ends the day another begins.
	events := []models.CalendarEvent{
		{Title: "First stay", StartDate: "2024-12-18", EndDate: "2024-12-20"},
		{Title: "Second stay", StartDate: "2024-12-20", EndDate: "2024-12-23"},
	}

	got := ClassifyDay("2024-12-20", events)
	if got.DayType != DayCheckOut {
		t.Errorf("turnover day = %s, want %s", got.DayType, DayCheckOut)
	}
	if got.Event == nil || got.Event.Title != "First stay" {
		t.Error("checkout classification should reference the ending event")
	}
}

func TestClassifyDay_NoEvents(t *testing.T) {
	got := ClassifyDay("2024-12-20", nil)
	if got.DayType != DayNone {
		t.Errorf("empty calendar day = %s, want %s", got.DayType, DayNone)
	}
	if got.Event != nil {
		t.Error("expected no driving event")
	}
}

func TestNextDay(t *testing.T) {
	if got := nextDay("2024-12-31"); got != "2025-01-01" {
		t.Errorf("nextDay year rollover = %s", got)
	}
	if got := nextDay("not-a-date"); got != "" {
		t.Errorf("nextDay on garbage = %q, want empty", got)
	}
}
