package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/villarosa-rentals/backend/internal/storage/models"
)

// BookingRepository provides data access for guest bookings.
type BookingRepository struct {
	BaseRepository
	events *EventRepository
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *DB, events *EventRepository) *BookingRepository {
	return &BookingRepository{
		BaseRepository: NewBaseRepository(db),
		events:         events,
	}
}

// Create inserts the booking together with its booking-sourced calendar
// event in one transaction, so a confirmed booking can never exist
// without its dates being blocked.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	b.ID = GenerateID()
	b.Status = models.BookingStatusConfirmed
	b.CreatedAt = r.Now()

	return r.Transaction(func(tx *sql.Tx) error {
		event := &models.CalendarEvent{
			PropertyID: b.PropertyID,
			Title:      "Booked: " + b.GuestName,
			StartDate:  b.CheckIn,
			EndDate:    b.CheckOut,
			Source:     models.SourceBooking,
		}
		if err := r.events.AddEventTx(ctx, tx, event); err != nil {
			return fmt.Errorf("blocking booked dates: %w", err)
		}
		b.EventID = &event.ID

		_, err := tx.ExecContext(ctx, `
			INSERT INTO bookings (
				id, property_id, guest_name, guest_email, check_in, check_out, status, event_id, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			b.ID, b.PropertyID, b.GuestName, b.GuestEmail,
			b.CheckIn, b.CheckOut, b.Status, b.EventID, b.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting booking: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a booking by ID. Returns nil without error when no
// booking matches.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b := &models.Booking{}
	err := r.DB().QueryRowContext(ctx, `
		SELECT id, property_id, guest_name, guest_email, check_in, check_out, status, event_id, created_at
		FROM bookings WHERE id = ?
	`, id).Scan(
		&b.ID, &b.PropertyID, &b.GuestName, &b.GuestEmail,
		&b.CheckIn, &b.CheckOut, &b.Status, &b.EventID, &b.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying booking: %w", err)
	}
	return b, nil
}

// List retrieves bookings, optionally restricted to one property,
// newest first.
func (r *BookingRepository) List(ctx context.Context, propertyID string) ([]models.Booking, error) {
	query := `
		SELECT id, property_id, guest_name, guest_email, check_in, check_out, status, event_id, created_at
		FROM bookings`
	var args []any
	if propertyID != "" {
		query += ` WHERE property_id = ?`
		args = append(args, propertyID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.PropertyID, &b.GuestName, &b.GuestEmail,
			&b.CheckIn, &b.CheckOut, &b.Status, &b.EventID, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// Cancel flips the booking to cancelled and removes its calendar event,
// freeing the dates, in one transaction.
func (r *BookingRepository) Cancel(ctx context.Context, id string) error {
	booking, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking not found: %s", id)
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil
	}

	return r.Transaction(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"UPDATE bookings SET status = ?, event_id = NULL WHERE id = ?",
			models.BookingStatusCancelled, id,
		)
		if err != nil {
			return fmt.Errorf("cancelling booking: %w", err)
		}

		if booking.EventID != nil {
			_, err = tx.ExecContext(ctx, "DELETE FROM calendar_events WHERE id = ?", *booking.EventID)
			if err != nil {
				return fmt.Errorf("removing booking event: %w", err)
			}
		}

		return nil
	})
}
