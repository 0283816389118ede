// Package models contains the domain models for the application.
package models

import (
	"time"
)

// Property represents a rental property listed on the site.
type Property struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	AirbnbURL    *string    `json:"airbnb_url,omitempty"`
	ICalURL      *string    `json:"ical_url,omitempty"`
	ICalLastSync *time.Time `json:"ical_last_sync,omitempty"`
	Featured     bool       `json:"featured"`
	Active       bool       `json:"active"`
	DisplayOrder int        `json:"display_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasFeed reports whether the property has an iCal feed configured.
func (p *Property) HasFeed() bool {
	return p.ICalURL != nil && *p.ICalURL != ""
}
