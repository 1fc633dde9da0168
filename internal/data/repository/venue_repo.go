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

type VenueRepository interface {
	Create(ctx context.Context, venue *entity.Venue) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error)
	Search(ctx context.Context, filter VenueFilter) ([]*entity.Venue, int64, error)
	Update(ctx context.Context, venue *entity.Venue) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.VenueStatus) error

	// Counters
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	RefreshRating(ctx context.Context, id uuid.UUID) error
	RefreshFavoriteCount(ctx context.Context, id uuid.UUID) error
	StatsByProvider(ctx context.Context, providerID uuid.UUID) (*VenueStats, error)
}

// VenueFilter narrows Search. Nil fields are ignored.
type VenueFilter struct {
	ProviderID *uuid.UUID
	Statuses   []entity.VenueStatus
	Category   *entity.VenueCategory
	Zone       *string
	Search     *string
	MinPrice   *float64
	MaxPrice   *float64
	Guests     *int
	Sort       string // price_asc, price_desc, rating, popular, newest
	Limit      int
	Offset     int
}

type VenueStats struct {
	Venues        int64
	Views         int64
	Favorites     int64
	AverageRating float64
}

type venueRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVenueRepository(db database.PgxIface, log *zap.Logger) VenueRepository {
	return &venueRepository{
		db:  db,
		log: log.With(zap.String("repository", "venue")),
	}
}

var venueColumns = []string{
	"id", "provider_id", "name", "description", "category", "address", "zone",
	"base_price", "min_capacity", "max_capacity", "price_per_person",
	"images", "amenities", "payment_methods", "status",
	"rating", "review_count", "view_count", "favorite_count",
	"created_at", "updated_at", "deleted_at",
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	query, args, err := psql.Insert("venues").
		Columns(
			"id", "provider_id", "name", "description", "category", "address", "zone",
			"base_price", "min_capacity", "max_capacity", "price_per_person",
			"images", "amenities", "payment_methods", "status", "created_at", "updated_at",
		).
		Values(
			venue.ID, venue.ProviderID, venue.Name, venue.Description, venue.Category, venue.Address, venue.Zone,
			venue.BasePrice, venue.MinCapacity, venue.MaxCapacity, venue.PricePerPerson,
			nonNil(venue.Images), nonNil(venue.Amenities), paymentMethodStrings(venue.PaymentMethods),
			venue.Status, venue.CreatedAt, venue.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create venue query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		r.log.Error("Failed to create venue",
			zap.Error(err),
			zap.String("name", venue.Name),
			zap.String("provider_id", venue.ProviderID.String()),
		)
		return fmt.Errorf("create venue %s: %w", venue.Name, err)
	}

	return nil
}

func (r *venueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error) {
	query, args, err := psql.Select(venueColumns...).
		From("venues").
		Where(sq.Eq{"id": id.String()}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find venue query: %w", err)
	}

	venue, err := scanVenue(r.db.QueryRow(ctx, query, args...))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find venue by ID",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return nil, fmt.Errorf("find venue by ID %s: %w", id, err)
	}

	return venue, nil
}

func (r *venueRepository) Search(ctx context.Context, filter VenueFilter) ([]*entity.Venue, int64, error) {
	where := venueConditions(filter)

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("venues").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count venues query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.Error("Failed to count venues", zap.Error(err))
		return nil, 0, fmt.Errorf("count venues: %w", err)
	}

	query, args, err := searchVenuesQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build search venues query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search venues",
			zap.Error(err),
			zap.Int("limit", filter.Limit),
			zap.Int("offset", filter.Offset),
		)
		return nil, 0, fmt.Errorf("search venues: %w", err)
	}
	defer rows.Close()

	venues := make([]*entity.Venue, 0)
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			r.log.Error("Failed to scan venue row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan venue row: %w", err)
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate venues: %w", err)
	}

	return venues, total, nil
}

func (r *venueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	query, args, err := psql.Update("venues").
		SetMap(map[string]any{
			"name":             venue.Name,
			"description":      venue.Description,
			"category":         venue.Category,
			"address":          venue.Address,
			"zone":             venue.Zone,
			"base_price":       venue.BasePrice,
			"min_capacity":     venue.MinCapacity,
			"max_capacity":     venue.MaxCapacity,
			"price_per_person": venue.PricePerPerson,
			"images":           nonNil(venue.Images),
			"amenities":        nonNil(venue.Amenities),
			"payment_methods":  paymentMethodStrings(venue.PaymentMethods),
			"updated_at":       venue.UpdatedAt,
		}).
		Where(sq.Eq{"id": venue.ID.String()}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update venue query: %w", err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to update venue",
			zap.Error(err),
			zap.String("venue_id", venue.ID.String()),
		)
		return fmt.Errorf("update venue %s: %w", venue.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", venue.ID, ErrNotAffected)
	}

	return nil
}

// Delete removes the venue row; availability, bookings, reviews and favorites cascade.
func (r *venueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete venue",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return fmt.Errorf("delete venue %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", id, ErrNotAffected)
	}

	r.log.Info("Venue deleted", zap.String("venue_id", id.String()))
	return nil
}

func (r *venueRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.VenueStatus) error {
	query := `UPDATE venues SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update venue status",
			zap.Error(err),
			zap.String("venue_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update venue %s status to %s: %w", id, status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", id, ErrNotAffected)
	}

	return nil
}

func (r *venueRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE venues SET view_count = view_count + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment views of venue %s: %w", id, err)
	}
	return nil
}

func (r *venueRepository) RefreshRating(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE venues v
		SET rating = COALESCE(s.avg_rating, 0), review_count = COALESCE(s.cnt, 0), updated_at = NOW()
		FROM (
			SELECT AVG(rating)::NUMERIC(3, 2) AS avg_rating, COUNT(*) AS cnt
			FROM reviews
			WHERE venue_id = $1
		) s
		WHERE v.id = $1
	`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		r.log.Error("Failed to refresh venue rating",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return fmt.Errorf("refresh rating of venue %s: %w", id, err)
	}
	return nil
}

func (r *venueRepository) RefreshFavoriteCount(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE venues
		SET favorite_count = (SELECT COUNT(*) FROM favorites WHERE venue_id = $1)
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		r.log.Error("Failed to refresh favorite count",
			zap.Error(err),
			zap.String("venue_id", id.String()),
		)
		return fmt.Errorf("refresh favorites of venue %s: %w", id, err)
	}
	return nil
}

func (r *venueRepository) StatsByProvider(ctx context.Context, providerID uuid.UUID) (*VenueStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(view_count), 0),
		       COALESCE(SUM(favorite_count), 0),
		       COALESCE(AVG(rating) FILTER (WHERE review_count > 0), 0)::FLOAT8
		FROM venues
		WHERE provider_id = $1 AND deleted_at IS NULL
	`

	var stats VenueStats
	err := r.db.QueryRow(ctx, query, providerID).Scan(
		&stats.Venues,
		&stats.Views,
		&stats.Favorites,
		&stats.AverageRating,
	)
	if err != nil {
		r.log.Error("Failed to load venue stats",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return nil, fmt.Errorf("venue stats of provider %s: %w", providerID, err)
	}

	return &stats, nil
}

// ==================== HELPERS ====================

func searchVenuesQuery(f VenueFilter) sq.SelectBuilder {
	builder := psql.Select(venueColumns...).
		From("venues").
		Where(venueConditions(f)).
		OrderBy(venueOrdering(f.Sort)...)
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit)).Offset(uint64(max(f.Offset, 0)))
	}
	return builder
}

func venueConditions(f VenueFilter) sq.And {
	where := sq.And{sq.Expr("deleted_at IS NULL")}

	if f.ProviderID != nil {
		where = append(where, sq.Eq{"provider_id": f.ProviderID.String()})
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, sq.Eq{"status": statuses})
	}
	if f.Category != nil {
		where = append(where, sq.Eq{"category": string(*f.Category)})
	}
	if f.Zone != nil {
		where = append(where, sq.Expr("zone ILIKE ?", *f.Zone))
	}
	if f.Search != nil {
		pattern := "%" + *f.Search + "%"
		where = append(where, sq.Expr("(name ILIKE ? OR address ILIKE ? OR zone ILIKE ?)", pattern, pattern, pattern))
	}
	if f.MinPrice != nil {
		where = append(where, sq.GtOrEq{"base_price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		where = append(where, sq.LtOrEq{"base_price": *f.MaxPrice})
	}
	if f.Guests != nil {
		where = append(where,
			sq.LtOrEq{"min_capacity": *f.Guests},
			sq.GtOrEq{"max_capacity": *f.Guests},
		)
	}

	return where
}

func venueOrdering(sort string) []string {
	// featured venues float to the top of every listing
	order := []string{"CASE WHEN status = 'featured' THEN 0 ELSE 1 END"}

	switch sort {
	case "price_asc":
		order = append(order, "base_price ASC")
	case "price_desc":
		order = append(order, "base_price DESC")
	case "rating":
		order = append(order, "rating DESC", "review_count DESC")
	case "popular":
		order = append(order, "favorite_count DESC", "view_count DESC")
	default:
		order = append(order, "created_at DESC")
	}

	return append(order, "id")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(row rowScanner) (*entity.Venue, error) {
	var venue entity.Venue
	var methods []string

	err := row.Scan(
		&venue.ID,
		&venue.ProviderID,
		&venue.Name,
		&venue.Description,
		&venue.Category,
		&venue.Address,
		&venue.Zone,
		&venue.BasePrice,
		&venue.MinCapacity,
		&venue.MaxCapacity,
		&venue.PricePerPerson,
		&venue.Images,
		&venue.Amenities,
		&methods,
		&venue.Status,
		&venue.Rating,
		&venue.ReviewCount,
		&venue.ViewCount,
		&venue.FavoriteCount,
		&venue.CreatedAt,
		&venue.UpdatedAt,
		&venue.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	venue.PaymentMethods = make([]entity.PaymentMethod, len(methods))
	for i, m := range methods {
		venue.PaymentMethods[i] = entity.PaymentMethod(m)
	}
	return &venue, nil
}

func paymentMethodStrings(methods []entity.PaymentMethod) []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = string(m)
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
