package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/payment"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway creates checkout preferences. *payment.Client satisfies it.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, pref *payment.PreferenceRequest) (*payment.Preference, error)
}

// ClientIdentity is the payer as seen by the checkout flow.
type ClientIdentity struct {
	UserID        uuid.UUID
	FullName      string
	Email         string
	Authenticated bool
}

// ReturnURLs builds the success/failure/pending routes under the app URL.
func ReturnURLs(baseURL string) payment.BackURLs {
	base := strings.TrimRight(baseURL, "/")
	return payment.BackURLs{
		Success: base + "/booking/success",
		Failure: base + "/booking/failure",
		Pending: base + "/booking/pending",
	}
}

// BuildBookingRequest packages a booking attempt as a payment preference.
// It rejects a missing date or an anonymous client before anything else.
func BuildBookingRequest(
	venue *entity.Venue,
	selectedDate *time.Time,
	guestCount int,
	totalPrice float64,
	extras []Extra,
	client *ClientIdentity,
	urls payment.BackURLs,
	orderID string,
) (*payment.PreferenceRequest, error) {
	if selectedDate == nil {
		return nil, ErrDateRequired
	}
	if client == nil || !client.Authenticated {
		return nil, ErrAuthenticationRequired
	}

	var addOns []string
	for _, e := range extras {
		if e.Selected {
			addOns = append(addOns, e.Name)
		}
	}
	description := pluralGuests(guestCount)
	if len(addOns) > 0 {
		description += " + " + strings.Join(addOns, ", ")
	}

	name, surname := splitName(client.FullName)

	return &payment.PreferenceRequest{
		Items: []payment.Item{{
			ID:          venue.ID.String(),
			Title:       venue.Name + " - " + selectedDate.Format(utils.DateLayout),
			Description: description,
			Quantity:    1,
			UnitPrice:   totalPrice,
		}},
		Payer: payment.Payer{
			Name:    name,
			Surname: surname,
			Email:   client.Email,
		},
		BackURLs:          urls,
		AutoReturn:        "approved",
		ExternalReference: orderID,
	}, nil
}

// splitName takes the first word as name and the rest as surname.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func pluralGuests(n int) string {
	if n == 1 {
		return "1 guest"
	}
	return fmt.Sprintf("%d guests", n)
}

// ==================== SUBMISSION STATE ====================

type SubmissionState string

const (
	StateIdle        SubmissionState = "IDLE"
	StateReady       SubmissionState = "READY"
	StateSubmitting  SubmissionState = "SUBMITTING"
	StateRedirecting SubmissionState = "REDIRECTING"
)

var submissionTransitions = map[SubmissionState][]SubmissionState{
	StateIdle:       {StateReady},
	StateReady:      {StateReady, StateSubmitting},
	StateSubmitting: {StateReady, StateRedirecting},
}

// Submission tracks one booking attempt. REDIRECTING is terminal.
type Submission struct {
	mu    sync.Mutex
	state SubmissionState
}

func NewSubmission() *Submission {
	return &Submission{state: StateIdle}
}

func (s *Submission) State() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submission) transition(next SubmissionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, allowed := range submissionTransitions[s.state] {
		if allowed == next {
			s.state = next
			return nil
		}
	}
	return ErrInvalidTransition
}

// Ready is reached once a date and guest count are set, and again after
// a validation or submission failure.
func (s *Submission) Ready() error    { return s.transition(StateReady) }
func (s *Submission) Submit() error   { return s.transition(StateSubmitting) }
func (s *Submission) Fail() error     { return s.transition(StateReady) }
func (s *Submission) Redirect() error { return s.transition(StateRedirecting) }

// ==================== CHECKOUT SERVICE ====================

type CheckoutService interface {
	Submit(ctx context.Context, clientID uuid.UUID, req *request.CheckoutRequest) (*response.CheckoutResponse, error)
}

type CheckoutConfig struct {
	BaseURL               string
	Sandbox               bool
	Timeout               time.Duration
	DefaultPricePerPerson float64
}

type checkoutService struct {
	venues       repository.VenueRepository
	users        repository.UserRepository
	bookings     repository.BookingRepository
	availability AvailabilityService
	gateway      PaymentGateway
	catalog      ExtrasCatalog
	cfg          CheckoutConfig
	clock        Clock
	metrics      *metrics.Metrics
	log          *zap.Logger
}

func NewCheckoutService(
	repo *repository.Repository,
	availability AvailabilityService,
	gateway PaymentGateway,
	catalog ExtrasCatalog,
	cfg CheckoutConfig,
	clock Clock,
	m *metrics.Metrics,
	log *zap.Logger,
) CheckoutService {
	return &checkoutService{
		venues:       repo.Venue,
		users:        repo.User,
		bookings:     repo.Booking,
		availability: availability,
		gateway:      gateway,
		catalog:      catalog,
		cfg:          cfg,
		clock:        clock,
		metrics:      m,
		log:          log.With(zap.String("service", "checkout")),
	}
}

// Submit validates the attempt, recomputes the total and creates one
// payment preference. Nothing is stored locally.
func (s *checkoutService) Submit(ctx context.Context, clientID uuid.UUID, req *request.CheckoutRequest) (*response.CheckoutResponse, error) {
	sub := NewSubmission()

	venue, client, err := s.loadParticipants(ctx, clientID, req.VenueID)
	if err != nil {
		return nil, err
	}

	// both checks run before any availability or booking query
	if req.EventDate == nil || strings.TrimSpace(*req.EventDate) == "" {
		return nil, ErrDateRequired
	}
	if !client.Authenticated {
		return nil, ErrAuthenticationRequired
	}

	if err := sub.Ready(); err != nil {
		return nil, err
	}

	plan, err := s.validate(ctx, venue, clientID, req)
	if err != nil {
		_ = sub.Ready()
		s.log.Warn("Checkout validation failed",
			zap.Error(err),
			zap.String("venue_id", req.VenueID),
			zap.String("state", string(sub.State())),
		)
		return nil, err
	}

	rate := EffectivePricePerPerson(venue, s.cfg.DefaultPricePerPerson)
	total := ComputeTotal(venue.BasePrice, req.GuestCount, venue.MinCapacity, rate, plan.extras)
	orderID := plan.orderID
	if orderID == "" {
		orderID = utils.GenerateOrderID(s.clock.Now())
	}

	pref, err := BuildBookingRequest(venue, &plan.date, req.GuestCount, total, plan.extras, client, ReturnURLs(s.cfg.BaseURL), orderID)
	if err != nil {
		_ = sub.Ready()
		return nil, err
	}

	if err := sub.Submit(); err != nil {
		return nil, err
	}

	created, err := s.createPreference(ctx, pref)
	if err != nil {
		_ = sub.Fail()
		return nil, err
	}

	if err := sub.Redirect(); err != nil {
		return nil, err
	}

	s.log.Info("Checkout started",
		zap.String("order_id", orderID),
		zap.String("preference_id", created.ID),
		zap.String("venue_id", venue.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.Float64("total", total),
	)

	return &response.CheckoutResponse{
		PreferenceID: created.ID,
		CheckoutURL:  created.URL(s.cfg.Sandbox),
		OrderID:      orderID,
		Total:        total,
		State:        string(sub.State()),
	}, nil
}

func (s *checkoutService) loadParticipants(ctx context.Context, clientID uuid.UUID, venueIDStr string) (*entity.Venue, *ClientIdentity, error) {
	venueID, err := uuid.Parse(venueIDStr)
	if err != nil {
		return nil, nil, validationError("invalid venue id")
	}

	venue, err := s.venues.FindByID(ctx, venueID)
	if err != nil {
		s.log.Error("Failed to load venue", zap.Error(err), zap.String("venue_id", venueIDStr))
		return nil, nil, err
	}
	if venue == nil || !venue.Status.IsListed() {
		return nil, nil, notFound("venue")
	}

	identity := &ClientIdentity{UserID: clientID}
	if clientID != uuid.Nil {
		user, err := s.users.FindByID(ctx, clientID)
		if err != nil {
			s.log.Error("Failed to load client", zap.Error(err), zap.String("client_id", clientID.String()))
			return nil, nil, err
		}
		if user != nil && user.IsActive {
			identity.FullName = user.FullName
			identity.Email = user.Email
			identity.Authenticated = true
		}
	}

	return venue, identity, nil
}

// checkoutPlan is what validate hands to the payment step. orderID is set
// when the client is paying for their own pending booking.
type checkoutPlan struct {
	date    time.Time
	extras  []Extra
	orderID string
}

// validate runs every local check that must pass before the payment call.
// The event date is known to be present.
func (s *checkoutService) validate(ctx context.Context, venue *entity.Venue, clientID uuid.UUID, req *request.CheckoutRequest) (*checkoutPlan, error) {
	date, err := utils.ParseDate(*req.EventDate)
	if err != nil {
		return nil, validationError("event_date must be YYYY-MM-DD")
	}

	if req.GuestCount < venue.MinCapacity || req.GuestCount > venue.MaxCapacity {
		return nil, validationError(guestRangeMessage(venue))
	}

	extras, err := s.catalog.Select(req.Extras)
	if err != nil {
		return nil, err
	}

	open, err := s.availability.IsAvailable(ctx, venue.ID, date)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, validationError("the selected date is not available")
	}

	plan := &checkoutPlan{date: date, extras: extras}

	existing, err := s.bookings.FindActiveByVenueAndDate(ctx, venue.ID, date)
	if err != nil {
		s.log.Error("Failed to check existing booking", zap.Error(err), zap.String("venue_id", venue.ID.String()))
		return nil, err
	}
	if existing != nil {
		if existing.ClientID != clientID || existing.Status != entity.BookingStatusPending {
			return nil, newError(ErrConflict, "the venue is already booked on that date")
		}
		// paying for their own request links the payment to that booking
		plan.orderID = existing.OrderID
	}

	return plan, nil
}

func (s *checkoutService) createPreference(ctx context.Context, pref *payment.PreferenceRequest) (*payment.Preference, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	created, err := s.gateway.CreatePreference(callCtx, pref)
	s.metrics.PaymentDuration.Observe(time.Since(start).Seconds())

	if err == nil {
		s.metrics.PaymentPreferences.WithLabelValues(metrics.OutcomeCreated).Inc()
		return created, nil
	}

	var apiErr *payment.APIError
	switch {
	case errors.As(err, &apiErr):
		s.metrics.PaymentPreferences.WithLabelValues(metrics.OutcomeRejected).Inc()
		s.log.Error("Payment provider rejected preference",
			zap.Int("status", apiErr.StatusCode),
			zap.String("message", apiErr.Message),
			zap.String("order_id", pref.ExternalReference),
		)
		return nil, &ExternalError{Message: apiErr.Error(), Err: err}

	case errors.Is(err, payment.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		s.metrics.PaymentPreferences.WithLabelValues(metrics.OutcomeTimeout).Inc()
		s.log.Error("Payment preference timed out",
			zap.Duration("timeout", s.cfg.Timeout),
			zap.String("order_id", pref.ExternalReference),
		)
		return nil, &ExternalError{Message: payment.ErrTimeout.Error(), Err: err}

	default:
		s.metrics.PaymentPreferences.WithLabelValues(metrics.OutcomeError).Inc()
		s.log.Error("Payment preference failed", zap.Error(err), zap.String("order_id", pref.ExternalReference))
		return nil, &ExternalError{Message: "payment provider unavailable", Err: err}
	}
}

func guestRangeMessage(venue *entity.Venue) string {
	return fmt.Sprintf("guest_count must be between %d and %d", venue.MinCapacity, venue.MaxCapacity)
}
