package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/villarosa-rentals/backend/internal/storage/models"
)

// EventRepository provides data access for calendar events.
type EventRepository struct {
	BaseRepository
}

// NewEventRepository creates a new calendar event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Replace phase names, used by ReplaceError.
const (
	ReplacePhaseDelete = "delete"
	ReplacePhaseInsert = "insert"
)

// ReplaceError reports which phase of a replace-by-source pass failed.
// After an insert-phase failure the partition has already been cleared,
// which operators need to know about.
type ReplaceError struct {
	Phase string
	Err   error
}

func (e *ReplaceError) Error() string {
	return fmt.Sprintf("replace %s phase: %v", e.Phase, e.Err)
}

func (e *ReplaceError) Unwrap() error {
	return e.Err
}

// DateRange is an inclusive calendar-date window (ISO YYYY-MM-DD).
type DateRange struct {
	Start string
	End   string
}

// ListEvents returns the property's events ordered by start date. A
// non-nil rng restricts the result to events overlapping the window.
func (r *EventRepository) ListEvents(ctx context.Context, propertyID string, rng *DateRange) ([]models.CalendarEvent, error) {
	query := `
		SELECT id, property_id, title, start_date, end_date, source, external_id, synced_at, created_at
		FROM calendar_events
		WHERE property_id = ?`
	args := []any{propertyID}

	if rng != nil {
		query += ` AND start_date <= ? AND end_date >= ?`
		args = append(args, rng.End, rng.Start)
	}
	query += ` ORDER BY start_date`

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		if err := rows.Scan(
			&e.ID, &e.PropertyID, &e.Title, &e.StartDate, &e.EndDate,
			&e.Source, &e.ExternalID, &e.SyncedAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// GetEvent retrieves a single event by ID. Returns nil without error when
// no event matches.
func (r *EventRepository) GetEvent(ctx context.Context, id string) (*models.CalendarEvent, error) {
	e := &models.CalendarEvent{}
	err := r.DB().QueryRowContext(ctx, `
		SELECT id, property_id, title, start_date, end_date, source, external_id, synced_at, created_at
		FROM calendar_events WHERE id = ?
	`, id).Scan(
		&e.ID, &e.PropertyID, &e.Title, &e.StartDate, &e.EndDate,
		&e.Source, &e.ExternalID, &e.SyncedAt, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}
	return e, nil
}

// ReplaceSourceEvents deletes every event of the given source for the
// property, then inserts newEvents in their place. The two phases are
// deliberately separate statements: a failure after the delete succeeded
// comes back as an insert-phase ReplaceError, telling the caller the
// partition was left empty. Rows of other sources are never touched.
func (r *EventRepository) ReplaceSourceEvents(ctx context.Context, propertyID, source string, newEvents []models.CalendarEvent) error {
	_, err := r.DB().ExecContext(ctx,
		"DELETE FROM calendar_events WHERE property_id = ? AND source = ?",
		propertyID, source,
	)
	if err != nil {
		return &ReplaceError{Phase: ReplacePhaseDelete, Err: err}
	}

	if len(newEvents) == 0 {
		return nil
	}

	err = r.Transaction(func(tx *sql.Tx) error {
		now := r.Now()
		for i := range newEvents {
			e := &newEvents[i]
			e.ID = GenerateID()
			e.PropertyID = propertyID
			e.Source = source
			e.CreatedAt = now

			_, err := tx.ExecContext(ctx, `
				INSERT INTO calendar_events (
					id, property_id, title, start_date, end_date, source, external_id, synced_at, created_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				e.ID, e.PropertyID, e.Title, e.StartDate, e.EndDate,
				e.Source, e.ExternalID, e.SyncedAt, e.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("inserting event %q: %w", e.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return &ReplaceError{Phase: ReplacePhaseInsert, Err: err}
	}

	return nil
}

// AddEvent inserts a single event. Used by the manual-block admin flow
// and the booking flow, never by the sync path.
func (r *EventRepository) AddEvent(ctx context.Context, e *models.CalendarEvent) error {
	return r.addEvent(ctx, r.DB(), e)
}

// AddEventTx is AddEvent within an existing transaction.
func (r *EventRepository) AddEventTx(ctx context.Context, tx *sql.Tx, e *models.CalendarEvent) error {
	return r.addEvent(ctx, tx, e)
}

func (r *EventRepository) addEvent(ctx context.Context, q Queryable, e *models.CalendarEvent) error {
	if e.ID == "" {
		e.ID = GenerateID()
	}
	e.CreatedAt = r.Now()

	_, err := q.ExecContext(ctx, `
		INSERT INTO calendar_events (
			id, property_id, title, start_date, end_date, source, external_id, synced_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID, e.PropertyID, e.Title, e.StartDate, e.EndDate,
		e.Source, e.ExternalID, e.SyncedAt, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	return nil
}

// RemoveEvent deletes a single event by ID.
func (r *EventRepository) RemoveEvent(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM calendar_events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("event not found: %s", id)
	}

	return nil
}

// CountBySource returns the number of events for a property partitioned
// by source tag.
func (r *EventRepository) CountBySource(ctx context.Context, propertyID string) (map[string]int, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT source, COUNT(*) FROM calendar_events WHERE property_id = ? GROUP BY source
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[source] = n
	}

	return counts, rows.Err()
}
