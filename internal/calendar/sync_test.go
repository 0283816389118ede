package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/storage/models"
)

func newTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return db
}

type syncEnv struct {
	db         *storage.DB
	properties *storage.PropertyRepository
	events     *storage.EventRepository
	sync       *SyncService
}

func newSyncEnv(t *testing.T) *syncEnv {
	t.Helper()

	db := newTestDB(t)
	properties := storage.NewPropertyRepository(db)
	events := storage.NewEventRepository(db)

	return &syncEnv{
		db:         db,
		properties: properties,
		events:     events,
		sync:       NewSyncService(properties, events, NewFetcher(2*time.Second)),
	}
}

func (e *syncEnv) createProperty(t *testing.T, slug, icalURL string) *models.Property {
	t.Helper()

	p := &models.Property{Name: "Test " + slug, Slug: slug, Active: true}
	if icalURL != "" {
		p.ICalURL = &icalURL
	}
	if err := e.properties.Create(context.Background(), p); err != nil {
		t.Fatalf("creating property: %v", err)
	}
	return p
}

func feedServer(t *testing.T, feed *string, fail *bool) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail != nil && *fail {
			http.Error(w, "upstream broken", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(*feed))
	}))
	t.Cleanup(server.Close)
	return server
}

const syncTestFeed = `BEGIN:VCALENDAR
BEGIN:VEVENT
UID:a@airbnb.com
SUMMARY:Reserved
DTSTART;VALUE=DATE:20241220
DTEND;VALUE=DATE:20241225
END:VEVENT
BEGIN:VEVENT
UID:b@airbnb.com
SUMMARY:Reserved
DTSTART;VALUE=DATE:20250110
DTEND;VALUE=DATE:20250115
END:VEVENT
END:VCALENDAR`

func TestSyncProperty_NoFeedURLIsSuccessfulNoOp(t *testing.T) {
	env := newSyncEnv(t)
	env.createProperty(t, "villa-rosa", "")

	result := env.sync.SyncProperty(context.Background(), "villa-rosa")
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.EventsImported != 0 {
		t.Errorf("expected 0 events imported, got %d", result.EventsImported)
	}
	if result.Error == "" {
		t.Error("no-op result should carry an informational note")
	}
}

func TestSyncProperty_NotFound(t *testing.T) {
	env := newSyncEnv(t)

	result := env.sync.SyncProperty(context.Background(), "no-such-property")
	if result.Success {
		t.Fatal("expected failure for unknown property")
	}
	if result.Error != "Property not found" {
		t.Errorf("unexpected error: %q", result.Error)
	}
}

func TestSyncProperty_ImportsFeedAndStampsSync(t *testing.T) {
	env := newSyncEnv(t)
	feed := syncTestFeed
	server := feedServer(t, &feed, nil)
	property := env.createProperty(t, "villa-rosa", server.URL)

	result := env.sync.SyncProperty(context.Background(), "villa-rosa")
	if !result.Success {
		t.Fatalf("sync failed: %q", result.Error)
	}
	if result.EventsImported != 2 {
		t.Errorf("expected 2 events imported, got %d", result.EventsImported)
	}

	events, err := env.events.ListEvents(context.Background(), property.ID, nil)
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 stored events, got %d", len(events))
	}
	for _, e := range events {
		if e.Source != models.SourceAirbnb {
			t.Errorf("imported event has source %q", e.Source)
		}
		if e.SyncedAt == nil {
			t.Error("imported event missing synced_at")
		}
		if e.ExternalID == nil || *e.ExternalID == "" {
			t.Error("imported event missing external_id")
		}
	}

	refreshed, err := env.properties.GetByID(context.Background(), property.ID)
	if err != nil {
		t.Fatalf("reloading property: %v", err)
	}
	if refreshed.ICalLastSync == nil {
		t.Error("property last-sync timestamp not stamped")
	}
}

func TestSyncProperty_ResolvesByIDFallback(t *testing.T) {
	env := newSyncEnv(t)
	feed := syncTestFeed
	server := feedServer(t, &feed, nil)
	property := env.createProperty(t, "villa-rosa", server.URL)

	result := env.sync.SyncProperty(context.Background(), property.ID)
	if !result.Success {
		t.Fatalf("sync by ID failed: %q", result.Error)
	}
	if result.PropertySlug != "villa-rosa" {
		t.Errorf("result should carry the resolved slug, got %q", result.PropertySlug)
	}
}

func TestSyncProperty_Idempotent(t *testing.T) {
	env := newSyncEnv(t)
	feed := syncTestFeed
	server := feedServer(t, &feed, nil)
	property := env.createProperty(t, "villa-rosa", server.URL)

	ctx := context.Background()
	first := env.sync.SyncProperty(ctx, "villa-rosa")
	second := env.sync.SyncProperty(ctx, "villa-rosa")
	if !first.Success || !second.Success {
		t.Fatalf("syncs failed: %q / %q", first.Error, second.Error)
	}
	if first.EventsImported != second.EventsImported {
		t.Errorf("import counts differ: %d vs %d", first.EventsImported, second.EventsImported)
	}

	events, err := env.events.ListEvents(ctx, property.ID, nil)
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events after repeat sync, got %d", len(events))
	}
	if events[0].StartDate != "2024-12-20" || events[1].StartDate != "2025-01-10" {
		t.Errorf("date ranges changed across syncs: %s, %s", events[0].StartDate, events[1].StartDate)
	}
}

func TestSyncProperty_PartitionIsolation(t *testing.T) {
	env := newSyncEnv(t)
	feed := syncTestFeed
	server := feedServer(t, &feed, nil)
	property := env.createProperty(t, "villa-rosa", server.URL)

	ctx := context.Background()
	manual := &models.CalendarEvent{
		PropertyID: property.ID, Title: "Maintenance",
		StartDate: "2024-11-01", EndDate: "2024-11-05", Source: models.SourceManual,
	}
	booking := &models.CalendarEvent{
		PropertyID: property.ID, Title: "Booked: Smith",
		StartDate: "2024-11-10", EndDate: "2024-11-14", Source: models.SourceBooking,
	}
	if err := env.events.AddEvent(ctx, manual); err != nil {
		t.Fatalf("seeding manual event: %v", err)
	}
	if err := env.events.AddEvent(ctx, booking); err != nil {
		t.Fatalf("seeding booking event: %v", err)
	}

	other := env.createProperty(t, "casa-azul", "")
	otherManual := &models.CalendarEvent{
		PropertyID: other.ID, Title: "Blocked",
		StartDate: "2024-12-20", EndDate: "2024-12-25", Source: models.SourceManual,
	}
	if err := env.events.AddEvent(ctx, otherManual); err != nil {
		t.Fatalf("seeding other property's event: %v", err)
	}

	if result := env.sync.SyncProperty(ctx, "villa-rosa"); !result.Success {
		t.Fatalf("sync failed: %q", result.Error)
	}

	// Manual and booking rows must survive untouched, same identities.
	for _, id := range []string{manual.ID, booking.ID, otherManual.ID} {
		e, err := env.events.GetEvent(ctx, id)
		if err != nil {
			t.Fatalf("reloading event: %v", err)
		}
		if e == nil {
			t.Fatalf("event %s was deleted by sync", id)
		}
	}

	counts, err := env.events.CountBySource(ctx, property.ID)
	if err != nil {
		t.Fatalf("counting events: %v", err)
	}
	if counts[models.SourceAirbnb] != 2 || counts[models.SourceManual] != 1 || counts[models.SourceBooking] != 1 {
		t.Errorf("unexpected partition counts: %v", counts)
	}
}

func TestSyncProperty_FetchFailureKeepsExistingBlocks(t *testing.T) {
	env := newSyncEnv(t)
	feed := syncTestFeed
	fail := false
	server := feedServer(t, &feed, &fail)
	property := env.createProperty(t, "villa-rosa", server.URL)

	ctx := context.Background()
	if result := env.sync.SyncProperty(ctx, "villa-rosa"); !result.Success {
		t.Fatalf("initial sync failed: %q", result.Error)
	}

	fail = true
	result := env.sync.SyncProperty(ctx, "villa-rosa")
	if result.Success {
		t.Fatal("expected failure when feed returns 500")
	}

	events, err := env.events.ListEvents(ctx, property.ID, nil)
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("failed fetch wiped the partition: %d events left", len(events))
	}
}

func TestSyncProperty_InsertFailureReportsClearedPartition(t *testing.T) {
	env := newSyncEnv(t)
	feed := syncTestFeed
	server := feedServer(t, &feed, nil)
	property := env.createProperty(t, "villa-rosa", server.URL)

	ctx := context.Background()
	if result := env.sync.SyncProperty(ctx, "villa-rosa"); !result.Success {
		t.Fatalf("initial sync failed: %q", result.Error)
	}

	// Backwards dates pass the lenient parser but violate the store's
	// date-order constraint, failing the insert after the delete committed.
	feed = `BEGIN:VCALENDAR
BEGIN:VEVENT
UID:backwards@airbnb.com
SUMMARY:Reserved
DTSTART;VALUE=DATE:20250510
DTEND;VALUE=DATE:20250505
END:VEVENT
END:VCALENDAR`

	result := env.sync.SyncProperty(ctx, "villa-rosa")
	if result.Success {
		t.Fatal("expected failure when the import cannot be stored")
	}
	if !strings.Contains(result.Error, "cleared but the import failed") {
		t.Errorf("error does not report the cleared partition: %q", result.Error)
	}

	events, err := env.events.ListEvents(ctx, property.ID, nil)
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty partition after insert failure, got %d events", len(events))
	}
}

func TestSyncAll_PartialFailure(t *testing.T) {
	env := newSyncEnv(t)
	feed := syncTestFeed
	server := feedServer(t, &feed, nil)

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	env.createProperty(t, "villa-rosa", server.URL)
	env.createProperty(t, "casa-azul", dead.URL)
	env.createProperty(t, "finca-verde", server.URL)

	results := env.sync.SyncAll(context.Background())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	failures := 0
	for _, result := range results {
		if !result.Success {
			failures++
			if result.PropertySlug != "casa-azul" {
				t.Errorf("wrong property failed: %s", result.PropertySlug)
			}
			continue
		}
		if result.EventsImported != 2 {
			t.Errorf("property %s imported %d events, want 2", result.PropertySlug, result.EventsImported)
		}
	}
	if failures != 1 {
		t.Errorf("expected exactly 1 failure, got %d", failures)
	}
}

func TestSyncAll_NoCandidates(t *testing.T) {
	env := newSyncEnv(t)
	env.createProperty(t, "villa-rosa", "")

	results := env.sync.SyncAll(context.Background())
	if len(results) != 1 {
		t.Fatalf("expected a single informational result, got %d", len(results))
	}
	if !results[0].Success {
		t.Errorf("empty candidate set should not be an error: %q", results[0].Error)
	}
}

func TestAvailabilityService_ChecksStoredEvents(t *testing.T) {
	env := newSyncEnv(t)
	property := env.createProperty(t, "villa-rosa", "")

	ctx := context.Background()
	event := &models.CalendarEvent{
		PropertyID: property.ID, Title: "Reserved",
		StartDate: "2024-12-20", EndDate: "2024-12-25", Source: models.SourceAirbnb,
	}
	if err := env.events.AddEvent(ctx, event); err != nil {
		t.Fatalf("seeding event: %v", err)
	}

	availability := NewAvailabilityService(env.events)

	available, _, err := availability.IsRangeAvailable(ctx, property.ID, "2024-12-25", "2024-12-27")
	if err != nil {
		t.Fatalf("availability check: %v", err)
	}
	if !available {
		t.Error("range starting on checkout day should be available")
	}

	available, reason, err := availability.IsRangeAvailable(ctx, property.ID, "2024-12-24", "2024-12-26")
	if err != nil {
		t.Fatalf("availability check: %v", err)
	}
	if available {
		t.Error("overlapping range should not be available")
	}
	if reason == "" {
		t.Error("conflict should carry a reason")
	}
}
