package models

import (
	"time"
)

// PropertyPhoto is one gallery image for a property listing.
type PropertyPhoto struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"property_id"`
	URL          string    `json:"url"`
	Caption      string    `json:"caption"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}
