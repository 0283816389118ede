package models

import (
	"time"
)

// Event source constants. The source of an event never changes after
// creation and determines which reconciliation pass may delete the row.
const (
	SourceAirbnb  = "airbnb"
	SourceManual  = "manual"
	SourceBooking = "booking"
)

// CalendarEvent represents a blocked date range for one property.
// StartDate and EndDate are civil dates in ISO YYYY-MM-DD form with
// half-open semantics: the night of EndDate itself is not blocked,
// so EndDate is the checkout day.
type CalendarEvent struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	Title      string     `json:"title"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Source     string     `json:"source"`
	ExternalID *string    `json:"external_id,omitempty"`
	SyncedAt   *time.Time `json:"synced_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SyncResult reports the outcome of one property's sync pass.
type SyncResult struct {
	PropertyID     string    `json:"property_id"`
	PropertySlug   string    `json:"property_slug"`
	Success        bool      `json:"success"`
	EventsImported int       `json:"eventsImported"`
	Error          string    `json:"error,omitempty"`
	SyncedAt       time.Time `json:"syncedAt"`
}
