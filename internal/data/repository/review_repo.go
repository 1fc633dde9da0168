package repository

import (
	"context"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByVenueAndClient(ctx context.Context, venueID, clientID uuid.UUID) (*entity.Review, error)
	FindByVenueID(ctx context.Context, venueID uuid.UUID, limit, offset int) ([]*ReviewWithAuthor, error)
	CountByVenueID(ctx context.Context, venueID uuid.UUID) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewWithAuthor joins the reviewer's display name.
type ReviewWithAuthor struct {
	entity.Review
	AuthorName string
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, venue_id, client_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.VenueID,
		review.ClientID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create review for venue %s: %w", review.VenueID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("venue_id", review.VenueID.String()),
			zap.String("client_id", review.ClientID.String()),
		)
		return fmt.Errorf("create review for venue %s: %w", review.VenueID, err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, venue_id, client_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", id.String()))
		return nil, fmt.Errorf("find review %s: %w", id, err)
	}
	return review, nil
}

func (r *reviewRepository) FindByVenueAndClient(ctx context.Context, venueID, clientID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, venue_id, client_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE venue_id = $1 AND client_id = $2
	`

	review, err := scanReview(r.db.QueryRow(ctx, query, venueID, clientID))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by venue and client",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
			zap.String("client_id", clientID.String()),
		)
		return nil, fmt.Errorf("find review of %s on %s: %w", clientID, venueID, err)
	}
	return review, nil
}

func (r *reviewRepository) FindByVenueID(ctx context.Context, venueID uuid.UUID, limit, offset int) ([]*ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.venue_id, r.client_id, r.rating, r.comment, r.created_at, r.updated_at,
		       COALESCE(u.full_name, '')
		FROM reviews r
		LEFT JOIN users u ON u.id = r.client_id
		WHERE r.venue_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, venueID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by venue",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
		)
		return nil, fmt.Errorf("find reviews of venue %s: %w", venueID, err)
	}
	defer rows.Close()

	reviews := make([]*ReviewWithAuthor, 0)
	for rows.Next() {
		var rw ReviewWithAuthor
		if err := rows.Scan(
			&rw.ID,
			&rw.VenueID,
			&rw.ClientID,
			&rw.Rating,
			&rw.Comment,
			&rw.CreatedAt,
			&rw.UpdatedAt,
			&rw.AuthorName,
		); err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &rw)
	}

	return reviews, rows.Err()
}

func (r *reviewRepository) CountByVenueID(ctx context.Context, venueID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE venue_id = $1`, venueID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err), zap.String("venue_id", venueID.String()))
		return 0, fmt.Errorf("count reviews of venue %s: %w", venueID, err)
	}
	return count, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `UPDATE reviews SET rating = $2, comment = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, review.ID, review.Rating, review.Comment, review.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", review.ID.String()))
		return fmt.Errorf("update review %s: %w", review.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", review.ID, ErrNotAffected)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", id.String()))
		return fmt.Errorf("delete review %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id, ErrNotAffected)
	}
	return nil
}

func scanReview(row rowScanner) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.VenueID,
		&review.ClientID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
