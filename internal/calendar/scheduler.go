package calendar

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/villarosa-rentals/backend/internal/websocket"
)

// Scheduler runs the batch sync on a fixed interval.
type Scheduler struct {
	cron        *cron.Cron
	syncService *SyncService
	broadcaster *websocket.EventBroadcaster
	interval    time.Duration
}

// NewScheduler creates a scheduler syncing every intervalMin minutes.
func NewScheduler(syncService *SyncService, hub *websocket.Hub, intervalMin int) *Scheduler {
	if intervalMin <= 0 {
		intervalMin = 60
	}

	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Scheduler{
		cron:        cron.New(),
		syncService: syncService,
		broadcaster: broadcaster,
		interval:    time.Duration(intervalMin) * time.Minute,
	}
}

// Start begins the periodic batch sync.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.runBatch); err != nil {
		return fmt.Errorf("scheduling batch sync: %w", err)
	}

	s.cron.Start()
	log.Printf("Calendar sync scheduler started (every %s)", s.interval)
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running batch
// to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Calendar sync scheduler stopped")
}

// TriggerAll starts an immediate batch sync in the background.
func (s *Scheduler) TriggerAll() {
	go s.runBatch()
}

func (s *Scheduler) runBatch() {
	ctx := context.Background()
	results := s.syncService.SyncAll(ctx)

	imported, failed := 0, 0
	for _, result := range results {
		if result.Success {
			imported += result.EventsImported
		} else {
			failed++
			log.Printf("Sync failed for property %s: %s", result.PropertySlug, result.Error)
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastSyncResult(result)
		}
	}

	log.Printf("Batch sync complete: %d properties, %d events imported, %d failed",
		len(results), imported, failed)
}
