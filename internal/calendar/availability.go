package calendar

import (
	"context"
	"fmt"

	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/storage/models"
)

// FindConflict returns the first event overlapping the half-open range
// [checkIn, checkOut), or nil when the range is free. An event ending
// exactly on checkIn, or starting exactly on checkOut, does not conflict:
// the checkout day is simultaneously the end of one stay and available
// as the start of the next. ISO dates compare correctly as strings.
func FindConflict(events []models.CalendarEvent, checkIn, checkOut string) *models.CalendarEvent {
	for i := range events {
		e := &events[i]
		if e.StartDate < checkOut && e.EndDate > checkIn {
			return e
		}
	}
	return nil
}

// AvailabilityService answers date-range availability queries for the
// booking widget.
type AvailabilityService struct {
	events *storage.EventRepository
}

// NewAvailabilityService creates a new availability service.
func NewAvailabilityService(events *storage.EventRepository) *AvailabilityService {
	return &AvailabilityService{events: events}
}

// IsRangeAvailable reports whether [checkIn, checkOut) is free of
// blocking events for the property. When it is not, reason carries a
// human-readable description of the conflict.
func (s *AvailabilityService) IsRangeAvailable(ctx context.Context, propertyID, checkIn, checkOut string) (available bool, reason string, err error) {
	events, err := s.events.ListEvents(ctx, propertyID, nil)
	if err != nil {
		return false, "", fmt.Errorf("loading events: %w", err)
	}

	if conflict := FindConflict(events, checkIn, checkOut); conflict != nil {
		return false, fmt.Sprintf("dates conflict with %q (%s to %s)",
			conflict.Title, conflict.StartDate, conflict.EndDate), nil
	}

	return true, "", nil
}
