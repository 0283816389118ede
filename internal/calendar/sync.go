package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/villarosa-rentals/backend/internal/metrics"
	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/storage/models"
)

// airbnbTitlePlaceholder labels synced events whose feed carried no SUMMARY.
const airbnbTitlePlaceholder = "Blocked (Airbnb)"

// SyncService reconciles external iCal feeds with stored calendar events.
// A sync pass wholesale replaces the property's airbnb-sourced partition
// and never touches manual or booking rows: third-party feeds offer no
// stable change tracking, so the partition is treated as a disposable
// cache rather than diffed event by event.
type SyncService struct {
	properties *storage.PropertyRepository
	events     *storage.EventRepository
	fetcher    *Fetcher
}

// NewSyncService creates a new calendar sync service.
func NewSyncService(properties *storage.PropertyRepository, events *storage.EventRepository, fetcher *Fetcher) *SyncService {
	return &SyncService{
		properties: properties,
		events:     events,
		fetcher:    fetcher,
	}
}

// SyncProperty runs one sync pass for the property identified by slug,
// falling back to an ID lookup. All failure modes come back inside the
// result, never as a panic or a thrown error.
func (s *SyncService) SyncProperty(ctx context.Context, slugOrID string) models.SyncResult {
	result := models.SyncResult{
		PropertySlug: slugOrID,
		SyncedAt:     time.Now().UTC(),
	}

	property, err := s.properties.GetBySlug(ctx, slugOrID)
	if err == nil && property == nil {
		property, err = s.properties.GetByID(ctx, slugOrID)
	}
	if err != nil {
		result.Error = fmt.Sprintf("resolving property: %v", err)
		metrics.RecordSync(false, 0)
		return result
	}
	if property == nil {
		result.Error = "Property not found"
		metrics.RecordSync(false, 0)
		return result
	}

	return s.syncResolved(ctx, property)
}

// SyncAll runs a sync pass for every property with a configured feed URL.
// Properties are processed sequentially; one property's failure never
// halts its siblings. An empty candidate set yields one informational
// success result.
func (s *SyncService) SyncAll(ctx context.Context) []models.SyncResult {
	properties, err := s.properties.ListWithFeed(ctx)
	if err != nil {
		return []models.SyncResult{{
			Error:    fmt.Sprintf("listing properties: %v", err),
			SyncedAt: time.Now().UTC(),
		}}
	}

	if len(properties) == 0 {
		return []models.SyncResult{{
			Success:  true,
			Error:    "No properties have an iCal URL configured",
			SyncedAt: time.Now().UTC(),
		}}
	}

	results := make([]models.SyncResult, 0, len(properties))
	for i := range properties {
		results = append(results, s.syncResolved(ctx, &properties[i]))
	}

	return results
}

func (s *SyncService) syncResolved(ctx context.Context, property *models.Property) models.SyncResult {
	result := models.SyncResult{
		PropertyID:   property.ID,
		PropertySlug: property.Slug,
		SyncedAt:     time.Now().UTC(),
	}

	// Absence of a feed URL is a successful no-op, not a failure:
	// the property simply has nothing to sync.
	if !property.HasFeed() {
		result.Success = true
		result.Error = "No iCal URL configured"
		return result
	}

	fetched := s.fetcher.Fetch(ctx, *property.ICalURL)
	if !fetched.Success {
		// Existing airbnb blocks stay in place: a bad fetch must
		// never wipe the partition.
		result.Error = fetched.Error
		metrics.RecordSync(false, 0)
		return result
	}

	newEvents := make([]models.CalendarEvent, 0, len(fetched.Events))
	for _, ev := range fetched.Events {
		title := ev.Summary
		if title == "" {
			title = airbnbTitlePlaceholder
		}
		uid := ev.UID
		if uid == "" {
			uid = fallbackUID()
		}
		syncedAt := result.SyncedAt
		newEvents = append(newEvents, models.CalendarEvent{
			Title:      title,
			StartDate:  ev.StartDate,
			EndDate:    ev.EndDate,
			ExternalID: &uid,
			SyncedAt:   &syncedAt,
		})
	}

	if err := s.events.ReplaceSourceEvents(ctx, property.ID, models.SourceAirbnb, newEvents); err != nil {
		var replaceErr *storage.ReplaceError
		if errors.As(err, &replaceErr) && replaceErr.Phase == storage.ReplacePhaseInsert {
			result.Error = fmt.Sprintf("previous synced events were cleared but the import failed: %v", replaceErr.Err)
		} else {
			result.Error = fmt.Sprintf("clearing previous synced events failed, existing blocks kept: %v", err)
		}
		metrics.RecordSync(false, 0)
		return result
	}

	result.EventsImported = len(newEvents)
	result.Success = true

	// Best effort: the events are already persisted, so a failed stamp
	// must not fail the sync.
	if err := s.properties.TouchLastSync(ctx, property.ID, result.SyncedAt); err != nil {
		log.Printf("Failed to stamp last sync for property %s: %v", property.ID, err)
	}

	metrics.RecordSync(true, result.EventsImported)
	return result
}

// fallbackUID synthesizes an identifier for feed events that carry no
// UID, combining the current time with a random component.
func fallbackUID() string {
	return fmt.Sprintf("sync-%d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
}
