package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/villarosa-rentals/backend/internal/storage/models"
)

// PropertyRepository provides data access for rental properties.
type PropertyRepository struct {
	BaseRepository
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *DB) *PropertyRepository {
	return &PropertyRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const propertyColumns = `id, name, slug, description, location, airbnb_url,
	ical_url, ical_last_sync, featured, active, display_order, created_at, updated_at`

func scanProperty(row interface{ Scan(...any) error }) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Location, &p.AirbnbURL,
		&p.ICalURL, &p.ICalLastSync, &p.Featured, &p.Active, &p.DisplayOrder,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new property.
func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	p.ID = GenerateID()
	p.CreatedAt = r.Now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO properties (
			id, name, slug, description, location, airbnb_url, ical_url,
			featured, active, display_order, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Name, p.Slug, p.Description, p.Location, p.AirbnbURL, p.ICalURL,
		p.Featured, p.Active, p.DisplayOrder, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by its ID. Returns nil without error when
// no property matches.
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	p, err := scanProperty(r.DB().QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying property: %w", err)
	}
	return p, nil
}

// GetBySlug retrieves a property by its URL slug. Returns nil without
// error when no property matches.
func (r *PropertyRepository) GetBySlug(ctx context.Context, slug string) (*models.Property, error) {
	p, err := scanProperty(r.DB().QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE slug = ?`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying property: %w", err)
	}
	return p, nil
}

// List retrieves properties ordered for display. When activeOnly is set,
// inactive listings are excluded.
func (r *PropertyRepository) List(ctx context.Context, activeOnly bool) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY display_order, name`

	rows, err := r.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, *p)
	}

	return properties, rows.Err()
}

// ListWithFeed retrieves all properties with a non-empty iCal feed URL,
// the candidate set for a batch sync.
func (r *PropertyRepository) ListWithFeed(ctx context.Context) ([]models.Property, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE ical_url IS NOT NULL AND ical_url != ''
		ORDER BY display_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying feed properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, *p)
	}

	return properties, rows.Err()
}

// Update updates an existing property.
func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET
			name = ?, slug = ?, description = ?, location = ?, airbnb_url = ?,
			ical_url = ?, featured = ?, active = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Name, p.Slug, p.Description, p.Location, p.AirbnbURL,
		p.ICalURL, p.Featured, p.Active, p.DisplayOrder, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", p.ID)
	}

	return nil
}

// Delete removes a property by ID. Calendar events and bookings cascade.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", id)
	}

	return nil
}

// TouchLastSync stamps the time of the sync pass that last refreshed the
// property's feed. Callers treat failures here as non-fatal.
func (r *PropertyRepository) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET ical_last_sync = ?, updated_at = ? WHERE id = ?
	`, at, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating last sync: %w", err)
	}
	return nil
}
