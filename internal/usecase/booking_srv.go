package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/events"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Client
	CreateBooking(ctx context.Context, clientID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetClientBookings(ctx context.Context, clientID uuid.UUID, query *request.BookingListQuery) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelPending(ctx context.Context, clientID, bookingID uuid.UUID) error

	// Provider
	GetProviderBookings(ctx context.Context, providerID uuid.UUID, query *request.BookingListQuery) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateStatus(ctx context.Context, providerID, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)

	// Either side of the booking
	GetBookingByID(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error)
}

type bookingService struct {
	repo         *repository.Repository
	availability AvailabilityService
	catalog      ExtrasCatalog
	defaultRate  float64
	publisher    events.Publisher
	notifier     *NotificationDispatcher
	metrics      *metrics.Metrics
	clock        Clock
	log          *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	availability AvailabilityService,
	catalog ExtrasCatalog,
	defaultRate float64,
	publisher events.Publisher,
	notifier *NotificationDispatcher,
	m *metrics.Metrics,
	clock Clock,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:         repo,
		availability: availability,
		catalog:      catalog,
		defaultRate:  defaultRate,
		publisher:    publisher,
		notifier:     notifier,
		metrics:      m,
		clock:        clock,
		log:          log.With(zap.String("service", "booking")),
	}
}

// ==================== CLIENT ====================

func (s *bookingService) CreateBooking(ctx context.Context, clientID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, validationError("invalid venue id")
	}

	eventDate, err := utils.ParseDate(req.EventDate)
	if err != nil {
		return nil, validationError("event_date must be YYYY-MM-DD")
	}
	if req.EventDate < s.clock.Now().Format(utils.DateLayout) {
		return nil, validationError("event_date must not be in the past")
	}

	if req.StartTime != nil && req.EndTime != nil && *req.EndTime <= *req.StartTime {
		return nil, validationError("end_time must be after start_time")
	}

	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		s.log.Error("Failed to find venue", zap.Error(err), zap.String("venue_id", req.VenueID))
		return nil, fmt.Errorf("find venue: %w", err)
	}
	if venue == nil || !venue.Status.IsListed() {
		return nil, notFound("venue")
	}
	if venue.ProviderID == clientID {
		return nil, newError(ErrForbidden, "providers cannot book their own venue")
	}

	if req.GuestCount < venue.MinCapacity || req.GuestCount > venue.MaxCapacity {
		return nil, validationError(guestRangeMessage(venue))
	}

	extras, err := s.catalog.Select(req.Extras)
	if err != nil {
		return nil, err
	}

	available, err := s.availability.IsAvailable(ctx, venueID, eventDate)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, newError(ErrConflict, "venue is not available on "+req.EventDate)
	}

	existing, err := s.repo.Booking.FindActiveByVenueAndDate(ctx, venueID, eventDate)
	if err != nil {
		s.log.Error("Failed to check existing bookings", zap.Error(err), zap.String("venue_id", req.VenueID))
		return nil, fmt.Errorf("check existing bookings: %w", err)
	}
	if existing != nil {
		return nil, newError(ErrConflict, "venue is already booked on "+req.EventDate)
	}

	rate := EffectivePricePerPerson(venue, s.defaultRate)
	now := s.clock.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:         utils.GenerateOrderID(now),
		VenueID:         venue.ID,
		ClientID:        clientID,
		ProviderID:      venue.ProviderID,
		EventDate:       eventDate,
		GuestCount:      req.GuestCount,
		TotalPrice:      ComputeTotal(venue.BasePrice, req.GuestCount, venue.MinCapacity, rate, extras),
		Status:          entity.BookingStatusPending,
		PaymentStatus:   entity.PaymentStatusPending,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SpecialRequests: trimmed(req.SpecialRequests),
		HasSecurity:     selected(extras, ExtraSecurity),
		HasCleaning:     selected(extras, ExtraCleaning),
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		// the unique index on active bookings catches a concurrent request
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "venue is already booked on "+req.EventDate)
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
			zap.String("venue_id", req.VenueID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.metrics.BookingsCreated.Inc()
	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("client_id", clientID.String()),
		zap.String("venue_id", req.VenueID),
		zap.Float64("total_price", booking.TotalPrice),
	)

	resp := response.BookingToResponse(booking)
	s.publish(ctx, events.TypeBookingCreated, booking.ID, resp)
	s.notifier.Notify(ctx, booking.ProviderID, NewNotification(NotificationInfo,
		"New booking request",
		fmt.Sprintf("%s requested %s for %s.", venue.Name, req.EventDate, pluralGuests(req.GuestCount)),
	))

	return &resp, nil
}

func (s *bookingService) GetClientBookings(ctx context.Context, clientID uuid.UUID, query *request.BookingListQuery) (*response.PaginatedResponse[response.BookingResponse], error) {
	return s.list(ctx, repository.BookingFilter{ClientID: &clientID}, query)
}

// CancelPending lets a client withdraw a booking the provider has not acted on yet.
func (s *bookingService) CancelPending(ctx context.Context, clientID, bookingID uuid.UUID) error {
	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.ClientID != clientID {
		return notFound("booking")
	}

	if err := s.repo.Booking.DeletePending(ctx, bookingID, clientID); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return newError(ErrConflict, "only pending bookings can be cancelled")
		}
		s.log.Error("Failed to delete pending booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return fmt.Errorf("delete booking: %w", err)
	}

	s.log.Info("Pending booking withdrawn",
		zap.String("booking_id", bookingID.String()),
		zap.String("client_id", clientID.String()))

	s.publish(ctx, events.TypeBookingDeleted, bookingID, response.BookingToResponse(booking))
	s.notifier.Notify(ctx, booking.ProviderID, NewNotification(NotificationWarning,
		"Booking withdrawn",
		"The client withdrew the request for "+booking.EventDate.Format(utils.DateLayout)+".",
	))
	return nil
}

// ==================== PROVIDER ====================

func (s *bookingService) GetProviderBookings(ctx context.Context, providerID uuid.UUID, query *request.BookingListQuery) (*response.PaginatedResponse[response.BookingResponse], error) {
	return s.list(ctx, repository.BookingFilter{ProviderID: &providerID}, query)
}

func (s *bookingService) UpdateStatus(ctx context.Context, providerID, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ProviderID != providerID {
		return nil, notFound("booking")
	}

	next := entity.BookingStatus(req.Status)
	if !booking.Status.CanTransitionTo(next) {
		return nil, newError(ErrConflict, fmt.Sprintf("cannot move booking from %s to %s", booking.Status, next))
	}

	now := s.clock.Now()
	if err := s.repo.Booking.TransitionStatus(ctx, bookingID, booking.Status, next, now); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return nil, newError(ErrConflict, "booking was changed by another request")
		}
		s.log.Error("Failed to update booking status", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	previous := booking.Status
	booking.Status = next
	booking.UpdatedAt = now
	if next == entity.BookingStatusConfirmed {
		booking.ConfirmedAt = &now
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", bookingID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)

	resp := response.BookingToResponse(booking)
	s.publish(ctx, events.TypeBookingStatusChanged, bookingID, resp)
	s.notifier.Notify(ctx, booking.ClientID, statusNotification(booking))

	return &resp, nil
}

// ==================== SHARED ====================

func (s *bookingService) GetBookingByID(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != userID && booking.ProviderID != userID {
		return nil, notFound("booking")
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) find(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, notFound("booking")
	}
	return booking, nil
}

func (s *bookingService) list(ctx context.Context, filter repository.BookingFilter, query *request.BookingListQuery) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}
	query.Normalize()

	if query.Status != nil {
		status := entity.BookingStatus(*query.Status)
		filter.Status = &status
	}
	filter.Limit = query.Limit()
	filter.Offset = query.Offset()

	bookings, total, err := s.repo.Booking.List(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	data := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, response.BookingToResponse(b))
	}
	return response.NewPaginatedResponse(data, query.Page, query.PerPage, total), nil
}

// publish never fails the request; the event stream is best effort.
func (s *bookingService) publish(ctx context.Context, eventType string, bookingID uuid.UUID, payload any) {
	result := "ok"
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, bookingID.String(), payload)); err != nil {
		result = "error"
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("type", eventType),
			zap.String("booking_id", bookingID.String()),
		)
	}
	s.metrics.EventsPublished.WithLabelValues(eventType, result).Inc()
}

func statusNotification(b *entity.Booking) Notification {
	date := b.EventDate.Format(utils.DateLayout)
	switch b.Status {
	case entity.BookingStatusConfirmed:
		return NewNotification(NotificationSuccess, "Booking confirmed", "Your booking for "+date+" was confirmed.")
	case entity.BookingStatusCancelled:
		return NewNotification(NotificationError, "Booking cancelled", "Your booking for "+date+" was cancelled.")
	default:
		return NewNotification(NotificationInfo, "Booking completed", "Thanks for celebrating with us on "+date+".")
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
