package calendar

import (
	"time"

	"github.com/villarosa-rentals/backend/internal/storage/models"
)

// DayType classifies a calendar-grid day for rendering: check-in and
// check-out days get a diagonal split, middle and single-night days a
// full fill.
type DayType string

const (
	DayNone     DayType = "none"
	DayCheckIn  DayType = "checkin"
	DayMiddle   DayType = "middle"
	DayCheckOut DayType = "checkout"
	DaySingle   DayType = "single"
)

// DayClassification pairs a day's type with the event driving it.
type DayClassification struct {
	Event   *models.CalendarEvent `json:"event"`
	DayType DayType               `json:"day_type"`
}

// ClassifyDay determines how the given date (ISO YYYY-MM-DD) should
// render against the event list. Checkout-day equality wins over every
// other classification: checkout days must show as transitional even
// when another event is active on them. A one-night stay classifies as
// single, not checkin.
func ClassifyDay(date string, events []models.CalendarEvent) DayClassification {
	for i := range events {
		if events[i].EndDate == date {
			return DayClassification{Event: &events[i], DayType: DayCheckOut}
		}
	}

	var active *models.CalendarEvent
	for i := range events {
		if events[i].StartDate <= date && date < events[i].EndDate {
			active = &events[i]
			break
		}
	}
	if active == nil {
		return DayClassification{DayType: DayNone}
	}

	if nextDay(active.StartDate) == active.EndDate {
		return DayClassification{Event: active, DayType: DaySingle}
	}
	if date == active.StartDate {
		return DayClassification{Event: active, DayType: DayCheckIn}
	}
	return DayClassification{Event: active, DayType: DayMiddle}
}

// nextDay returns the ISO date one day after the given one, or "" when
// the input does not parse as a date.
func nextDay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02")
}
