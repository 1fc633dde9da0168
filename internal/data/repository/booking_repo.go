package repository

import (
	"context"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindActiveByVenueAndDate(ctx context.Context, venueID uuid.UUID, date time.Time) (*entity.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, int64, error)

	// TransitionStatus moves a booking from one status to another and fails
	// when the row is no longer in the expected status.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, at time.Time) error
	// DeletePending removes the booking only while it is still pending.
	DeletePending(ctx context.Context, id, clientID uuid.UUID) error

	StatsByProvider(ctx context.Context, providerID uuid.UUID) (*BookingStats, error)
}

type BookingFilter struct {
	ClientID   *uuid.UUID
	ProviderID *uuid.UUID
	VenueID    *uuid.UUID
	Status     *entity.BookingStatus
	Limit      int
	Offset     int
}

type BookingStats struct {
	Total     int64
	Pending   int64
	Confirmed int64
	Cancelled int64
	Completed int64
	Revenue   float64
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

var bookingColumns = []string{
	"id", "order_id", "venue_id", "client_id", "provider_id", "event_date", "guest_count",
	"total_price", "status", "payment_status", "start_time", "end_time", "special_requests",
	"has_security", "has_cleaning", "confirmed_at", "created_at", "updated_at",
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, order_id, venue_id, client_id, provider_id, event_date, guest_count,
		                      total_price, status, payment_status, start_time, end_time, special_requests,
		                      has_security, has_cleaning, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.VenueID,
		booking.ClientID,
		booking.ProviderID,
		booking.EventDate,
		booking.GuestCount,
		booking.TotalPrice,
		booking.Status,
		booking.PaymentStatus,
		booking.StartTime,
		booking.EndTime,
		booking.SpecialRequests,
		booking.HasSecurity,
		booking.HasCleaning,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if isUniqueViolation(err) {
		// uq_bookings_venue_date_active
		return fmt.Errorf("create booking %s: %w", booking.OrderID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("client_id", booking.ClientID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find booking query: %w", err)
	}

	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindActiveByVenueAndDate(ctx context.Context, venueID uuid.UUID, date time.Time) (*entity.Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{
			"venue_id":   venueID.String(),
			"event_date": date.Format("2006-01-02"),
			"status":     []string{string(entity.BookingStatusPending), string(entity.BookingStatusConfirmed)},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active booking query: %w", err)
	}

	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active booking",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
		)
		return nil, fmt.Errorf("find active booking of venue %s: %w", venueID, err)
	}

	return booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, int64, error) {
	where := sq.Eq{}
	if filter.ClientID != nil {
		where["client_id"] = filter.ClientID.String()
	}
	if filter.ProviderID != nil {
		where["provider_id"] = filter.ProviderID.String()
	}
	if filter.VenueID != nil {
		where["venue_id"] = filter.VenueID.String()
	}
	if filter.Status != nil {
		where["status"] = string(*filter.Status)
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("bookings").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count bookings query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	builder := psql.Select(bookingColumns...).
		From("bookings").
		Where(where).
		OrderBy("event_date DESC", "created_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(max(filter.Offset, 0)))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.Int("limit", filter.Limit),
			zap.Int("offset", filter.Offset),
		)
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*entity.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = $3,
		    confirmed_at = CASE WHEN $3 = 'confirmed' THEN $4 ELSE confirmed_at END,
		    updated_at = $4
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to, at)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id, to, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s is no longer %s: %w", id, from, ErrNotAffected)
	}

	return nil
}

func (r *bookingRepository) DeletePending(ctx context.Context, id, clientID uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1 AND client_id = $2 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query, id, clientID)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pending booking %s: %w", id, ErrNotAffected)
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

func (r *bookingRepository) StatsByProvider(ctx context.Context, providerID uuid.UUID) (*BookingStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'confirmed'),
		       COUNT(*) FILTER (WHERE status = 'cancelled'),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COALESCE(SUM(total_price) FILTER (WHERE status IN ('confirmed', 'completed')), 0)::FLOAT8
		FROM bookings
		WHERE provider_id = $1
	`

	var stats BookingStats
	err := r.db.QueryRow(ctx, query, providerID).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Confirmed,
		&stats.Cancelled,
		&stats.Completed,
		&stats.Revenue,
	)
	if err != nil {
		r.log.Error("Failed to load booking stats",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return nil, fmt.Errorf("booking stats of provider %s: %w", providerID, err)
	}

	return &stats, nil
}

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.VenueID,
		&booking.ClientID,
		&booking.ProviderID,
		&booking.EventDate,
		&booking.GuestCount,
		&booking.TotalPrice,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.StartTime,
		&booking.EndTime,
		&booking.SpecialRequests,
		&booking.HasSecurity,
		&booking.HasCleaning,
		&booking.ConfirmedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
