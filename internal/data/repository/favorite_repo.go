package repository

import (
	"context"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FavoriteRepository interface {
	// Add reports false when the venue was already a favorite.
	Add(ctx context.Context, favorite *entity.Favorite) (bool, error)
	Remove(ctx context.Context, userID, venueID uuid.UUID) error
	ListVenues(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Venue, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type favoriteRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFavoriteRepository(db database.PgxIface, log *zap.Logger) FavoriteRepository {
	return &favoriteRepository{
		db:  db,
		log: log.With(zap.String("repository", "favorite")),
	}
}

func (r *favoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) (bool, error) {
	query := `
		INSERT INTO favorites (id, user_id, venue_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, venue_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, favorite.ID, favorite.UserID, favorite.VenueID, favorite.CreatedAt)
	if err != nil {
		r.log.Error("Failed to add favorite",
			zap.Error(err),
			zap.String("user_id", favorite.UserID.String()),
			zap.String("venue_id", favorite.VenueID.String()),
		)
		return false, fmt.Errorf("add favorite %s: %w", favorite.VenueID, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, venueID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND venue_id = $2`, userID, venueID)
	if err != nil {
		r.log.Error("Failed to remove favorite",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("venue_id", venueID.String()),
		)
		return fmt.Errorf("remove favorite %s: %w", venueID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("favorite %s: %w", venueID, ErrNotAffected)
	}
	return nil
}

func (r *favoriteRepository) ListVenues(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Venue, error) {
	columns := make([]string, len(venueColumns))
	for i, c := range venueColumns {
		columns[i] = "v." + c
	}

	query, args, err := psql.Select(columns...).
		From("favorites f").
		Join("venues v ON v.id = f.venue_id").
		Where(sq.Eq{"f.user_id": userID.String()}).
		Where("v.deleted_at IS NULL").
		OrderBy("f.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list favorites query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list favorites", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list favorites of %s: %w", userID, err)
	}
	defer rows.Close()

	venues := make([]*entity.Venue, 0)
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite venue: %w", err)
		}
		venues = append(venues, venue)
	}

	return venues, rows.Err()
}

func (r *favoriteRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count favorites of %s: %w", userID, err)
	}
	return count, nil
}
