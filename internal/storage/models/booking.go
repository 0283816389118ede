package models

import (
	"time"
)

// Booking status constants
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a confirmed guest reservation. A confirmed booking
// owns exactly one booking-sourced calendar event blocking its dates.
type Booking struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Status     string    `json:"status"`
	EventID    *string   `json:"event_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
