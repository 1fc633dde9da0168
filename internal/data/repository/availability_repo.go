package repository

import (
	"context"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityRepository interface {
	// FindByVenueAndRange returns overrides with from <= date <= to, ordered by date.
	FindByVenueAndRange(ctx context.Context, venueID uuid.UUID, from, to time.Time) ([]*entity.VenueAvailability, error)
	Upsert(ctx context.Context, override *entity.VenueAvailability) error
	Delete(ctx context.Context, venueID uuid.UUID, date time.Time) error
}

type availabilityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRepository(db database.PgxIface, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

func (r *availabilityRepository) FindByVenueAndRange(ctx context.Context, venueID uuid.UUID, from, to time.Time) ([]*entity.VenueAvailability, error) {
	query := `
		SELECT id, venue_id, date, is_available, note, created_at, updated_at
		FROM venue_availability
		WHERE venue_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := r.db.Query(ctx, query, venueID, from, to)
	if err != nil {
		return nil, fmt.Errorf("find availability of venue %s: %w", venueID, err)
	}
	defer rows.Close()

	var overrides []*entity.VenueAvailability
	for rows.Next() {
		var o entity.VenueAvailability
		if err := rows.Scan(
			&o.ID,
			&o.VenueID,
			&o.Date,
			&o.IsAvailable,
			&o.Note,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan availability row: %w", err)
		}
		overrides = append(overrides, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability of venue %s: %w", venueID, err)
	}

	return overrides, nil
}

func (r *availabilityRepository) Upsert(ctx context.Context, override *entity.VenueAvailability) error {
	query := `
		INSERT INTO venue_availability (id, venue_id, date, is_available, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (venue_id, date)
		DO UPDATE SET is_available = EXCLUDED.is_available, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		override.ID,
		override.VenueID,
		override.Date,
		override.IsAvailable,
		override.Note,
		override.CreatedAt,
		override.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to upsert availability",
			zap.Error(err),
			zap.String("venue_id", override.VenueID.String()),
			zap.Time("date", override.Date),
		)
		return fmt.Errorf("upsert availability of venue %s: %w", override.VenueID, err)
	}

	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, venueID uuid.UUID, date time.Time) error {
	query := `DELETE FROM venue_availability WHERE venue_id = $1 AND date = $2`

	result, err := r.db.Exec(ctx, query, venueID, date)
	if err != nil {
		r.log.Error("Failed to delete availability",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
		)
		return fmt.Errorf("delete availability of venue %s: %w", venueID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("availability override for %s: %w", date.Format("2006-01-02"), ErrNotAffected)
	}

	return nil
}
