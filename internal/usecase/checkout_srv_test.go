package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/payment"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var signedIn = &ClientIdentity{UserID: uuid.New(), FullName: "Ana Maria Lopez", Email: "ana@example.com", Authenticated: true}

func TestBuildBookingRequest_DateRequired(t *testing.T) {
	gateway := &mockGateway{}
	venue := testVenue(uuid.New())

	pref, err := BuildBookingRequest(venue, nil, 20, 15850, nil, signedIn, ReturnURLs("https://venues.test"), "BOOK-1")

	assert.Nil(t, pref)
	assert.ErrorIs(t, err, ErrDateRequired)
	assert.EqualError(t, err, "date required")
	gateway.AssertNotCalled(t, "CreatePreference", mock.Anything, mock.Anything)
}

func TestBuildBookingRequest_AuthenticationRequired(t *testing.T) {
	venue := testVenue(uuid.New())
	date := day(2026, 5, 2)

	for name, client := range map[string]*ClientIdentity{
		"nil client": nil,
		"anonymous":  {FullName: "Guest"},
	} {
		t.Run(name, func(t *testing.T) {
			pref, err := BuildBookingRequest(venue, &date, 20, 15850, nil, client, ReturnURLs("https://venues.test"), "BOOK-1")
			assert.Nil(t, pref)
			assert.ErrorIs(t, err, ErrAuthenticationRequired)
			assert.True(t, errors.Is(err, ErrUnauthenticated))
		})
	}
}

func TestBuildBookingRequest_Payload(t *testing.T) {
	venue := testVenue(uuid.New())
	date := day(2026, 5, 2)
	extras := selectExtras(t, ExtraSecurity)

	pref, err := BuildBookingRequest(venue, &date, 30, 19200, extras, signedIn, ReturnURLs("https://venues.test/"), "BOOK-20260315-120000-0001")
	require.NoError(t, err)

	require.Len(t, pref.Items, 1)
	item := pref.Items[0]
	assert.Equal(t, "Salon Jardin - 2026-05-02", item.Title)
	assert.Equal(t, "30 guests + Security staff", item.Description)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 19200.0, item.UnitPrice)

	assert.Equal(t, "Ana", pref.Payer.Name)
	assert.Equal(t, "Maria Lopez", pref.Payer.Surname)
	assert.Equal(t, "ana@example.com", pref.Payer.Email)

	assert.Equal(t, "https://venues.test/booking/success", pref.BackURLs.Success)
	assert.Equal(t, "https://venues.test/booking/failure", pref.BackURLs.Failure)
	assert.Equal(t, "https://venues.test/booking/pending", pref.BackURLs.Pending)
	assert.Equal(t, "approved", pref.AutoReturn)
	assert.Equal(t, "BOOK-20260315-120000-0001", pref.ExternalReference)
}

func TestSubmission_Transitions(t *testing.T) {
	s := NewSubmission()
	assert.Equal(t, StateIdle, s.State())

	assert.ErrorIs(t, s.Submit(), ErrInvalidTransition)
	require.NoError(t, s.Ready())
	require.NoError(t, s.Ready())
	require.NoError(t, s.Submit())
	require.NoError(t, s.Fail())
	assert.Equal(t, StateReady, s.State())
	require.NoError(t, s.Submit())
	require.NoError(t, s.Redirect())
	assert.Equal(t, StateRedirecting, s.State())

	assert.ErrorIs(t, s.Ready(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Submit(), ErrInvalidTransition)
}

// ==================== CHECKOUT SERVICE ====================

type checkoutFixture struct {
	env     *testEnv
	venue   *entity.Venue
	client  *entity.User
	gateway *mockGateway
	svc     CheckoutService
	metrics *metrics.Metrics
}

func newCheckoutFixture(t *testing.T, sandbox bool) *checkoutFixture {
	t.Helper()
	venue := testVenue(uuid.New())
	env := newTestEnv(t, venue)
	client := testUser(entity.RoleClient)
	env.users.users[client.ID] = client
	gateway := &mockGateway{}

	svc := NewCheckoutService(env.repo, env.availabilityService(FailOpen), gateway, NewExtrasCatalog(testPricing()), CheckoutConfig{
		BaseURL:               "https://venues.test",
		Sandbox:               sandbox,
		Timeout:               time.Second,
		DefaultPricePerPerson: DefaultPricePerPerson,
	}, env.clock, env.metrics, env.log)

	return &checkoutFixture{env: env, venue: venue, client: client, gateway: gateway, svc: svc, metrics: env.metrics}
}

func strPtr(s string) *string { return &s }

func TestCheckout_MissingDateMakesNoPaymentCall(t *testing.T) {
	f := newCheckoutFixture(t, true)

	_, err := f.svc.Submit(context.Background(), f.client.ID, &request.CheckoutRequest{
		VenueID:    f.venue.ID.String(),
		GuestCount: 20,
	})

	assert.ErrorIs(t, err, ErrDateRequired)
	assert.EqualError(t, err, "date required")
	f.gateway.AssertNumberOfCalls(t, "CreatePreference", 0)
}

func TestCheckout_AnonymousClientMakesNoPaymentCall(t *testing.T) {
	f := newCheckoutFixture(t, true)

	_, err := f.svc.Submit(context.Background(), uuid.Nil, &request.CheckoutRequest{
		VenueID:    f.venue.ID.String(),
		EventDate:  strPtr("2026-05-02"),
		GuestCount: 20,
	})

	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	f.gateway.AssertNumberOfCalls(t, "CreatePreference", 0)
}

func TestCheckout_ValidationBeforePayment(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *checkoutFixture)
		req   request.CheckoutRequest
		class error
	}{
		{
			name:  "too many guests",
			req:   request.CheckoutRequest{EventDate: strPtr("2026-05-02"), GuestCount: 51},
			class: ErrValidation,
		},
		{
			name:  "too few guests",
			req:   request.CheckoutRequest{EventDate: strPtr("2026-05-02"), GuestCount: 5},
			class: ErrValidation,
		},
		{
			name:  "past date",
			req:   request.CheckoutRequest{EventDate: strPtr("2026-03-01"), GuestCount: 20},
			class: ErrValidation,
		},
		{
			name: "closed date",
			setup: func(f *checkoutFixture) {
				f.env.availability.close(f.venue.ID, day(2026, 5, 2))
			},
			req:   request.CheckoutRequest{EventDate: strPtr("2026-05-02"), GuestCount: 20},
			class: ErrValidation,
		},
		{
			name: "already booked",
			setup: func(f *checkoutFixture) {
				f.env.bookings.bookings[uuid.New()] = &entity.Booking{
					VenueID:   f.venue.ID,
					EventDate: day(2026, 5, 2),
					Status:    entity.BookingStatusConfirmed,
				}
			},
			req:   request.CheckoutRequest{EventDate: strPtr("2026-05-02"), GuestCount: 20},
			class: ErrConflict,
		},
		{
			name: "pending request of another client",
			setup: func(f *checkoutFixture) {
				f.env.bookings.bookings[uuid.New()] = &entity.Booking{
					VenueID:   f.venue.ID,
					ClientID:  uuid.New(),
					EventDate: day(2026, 5, 2),
					Status:    entity.BookingStatusPending,
					OrderID:   "BOOK-20260310-101500-0042",
				}
			},
			req:   request.CheckoutRequest{EventDate: strPtr("2026-05-02"), GuestCount: 20},
			class: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t, true)
			if tt.setup != nil {
				tt.setup(f)
			}
			req := tt.req
			req.VenueID = f.venue.ID.String()

			_, err := f.svc.Submit(context.Background(), f.client.ID, &req)

			assert.ErrorIs(t, err, tt.class)
			f.gateway.AssertNumberOfCalls(t, "CreatePreference", 0)
		})
	}
}

func TestCheckout_OwnPendingBookingCanBePaid(t *testing.T) {
	f := newCheckoutFixture(t, true)
	booking := &entity.Booking{
		VenueID:    f.venue.ID,
		ClientID:   f.client.ID,
		EventDate:  day(2026, 5, 2),
		GuestCount: 20,
		Status:     entity.BookingStatusPending,
		OrderID:    "BOOK-20260310-101500-0042",
	}
	f.env.bookings.bookings[uuid.New()] = booking

	var sent *payment.PreferenceRequest
	f.gateway.On("CreatePreference", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*payment.PreferenceRequest) }).
		Return(&payment.Preference{ID: "pref-7", SandboxCheckoutURL: "https://sandbox.pay.test/p/7"}, nil).Once()

	resp, err := f.svc.Submit(context.Background(), f.client.ID, &request.CheckoutRequest{
		VenueID:    f.venue.ID.String(),
		EventDate:  strPtr("2026-05-02"),
		GuestCount: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, booking.OrderID, resp.OrderID)
	assert.Equal(t, booking.OrderID, sent.ExternalReference)
	f.gateway.AssertNumberOfCalls(t, "CreatePreference", 1)
}

func TestCheckout_OwnConfirmedBookingConflicts(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.env.bookings.bookings[uuid.New()] = &entity.Booking{
		VenueID:   f.venue.ID,
		ClientID:  f.client.ID,
		EventDate: day(2026, 5, 2),
		Status:    entity.BookingStatusConfirmed,
		OrderID:   "BOOK-20260310-101500-0042",
	}

	_, err := f.svc.Submit(context.Background(), f.client.ID, &request.CheckoutRequest{
		VenueID:    f.venue.ID.String(),
		EventDate:  strPtr("2026-05-02"),
		GuestCount: 20,
	})

	assert.ErrorIs(t, err, ErrConflict)
	f.gateway.AssertNumberOfCalls(t, "CreatePreference", 0)
}

func TestCheckout_InactiveClientRejectedBeforeQueries(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.env.users.users[f.client.ID].IsActive = false

	_, err := f.svc.Submit(context.Background(), f.client.ID, &request.CheckoutRequest{
		VenueID:    f.venue.ID.String(),
		EventDate:  strPtr("2026-05-02"),
		GuestCount: 20,
	})

	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Zero(t, f.env.availability.calls)
	f.gateway.AssertNumberOfCalls(t, "CreatePreference", 0)
}

func TestCheckout_DateCheckedBeforeAuthentication(t *testing.T) {
	f := newCheckoutFixture(t, true)

	_, err := f.svc.Submit(context.Background(), uuid.Nil, &request.CheckoutRequest{
		VenueID:    f.venue.ID.String(),
		GuestCount: 20,
	})

	assert.ErrorIs(t, err, ErrDateRequired)
	assert.Zero(t, f.env.availability.calls)
}

func TestCheckout_Success(t *testing.T) {
	tests := []struct {
		sandbox bool
		wantURL string
	}{
		{true, "https://sandbox.pay.test/p/1"},
		{false, "https://pay.test/p/1"},
	}

	for _, tt := range tests {
		f := newCheckoutFixture(t, tt.sandbox)
		var sent *payment.PreferenceRequest
		f.gateway.On("CreatePreference", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).(*payment.PreferenceRequest) }).
			Return(&payment.Preference{
				ID:                 "pref-1",
				CheckoutURL:        "https://pay.test/p/1",
				SandboxCheckoutURL: "https://sandbox.pay.test/p/1",
			}, nil).Once()

		resp, err := f.svc.Submit(context.Background(), f.client.ID, &request.CheckoutRequest{
			VenueID:    f.venue.ID.String(),
			EventDate:  strPtr("2026-05-02"),
			GuestCount: 30,
			Extras:     []string{ExtraSecurity, ExtraCleaning},
		})
		require.NoError(t, err)

		assert.Equal(t, "pref-1", resp.PreferenceID)
		assert.Equal(t, tt.wantURL, resp.CheckoutURL)
		assert.Equal(t, 21000.0, resp.Total)
		assert.Equal(t, string(StateRedirecting), resp.State)
		assert.Equal(t, resp.OrderID, sent.ExternalReference)
		assert.Equal(t, 21000.0, sent.Items[0].UnitPrice)

		f.gateway.AssertNumberOfCalls(t, "CreatePreference", 1)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PaymentPreferences.WithLabelValues(metrics.OutcomeCreated)))
		assert.Empty(t, f.env.bookings.bookings, "checkout stores nothing locally")
	}
}

func TestCheckout_ProviderErrorSurfacedVerbatim(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.gateway.On("CreatePreference", mock.Anything, mock.Anything).
		Return(nil, &payment.APIError{StatusCode: 400, Message: "invalid payer email"}).Once()

	_, err := f.svc.Submit(context.Background(), f.client.ID, &request.CheckoutRequest{
		VenueID:    f.venue.ID.String(),
		EventDate:  strPtr("2026-05-02"),
		GuestCount: 20,
	})

	var extErr *ExternalError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "invalid payer email", extErr.Message)
	assert.ErrorIs(t, err, ErrExternal)
	f.gateway.AssertNumberOfCalls(t, "CreatePreference", 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PaymentPreferences.WithLabelValues(metrics.OutcomeRejected)))
}

func TestCheckout_Timeout(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.gateway.On("CreatePreference", mock.Anything, mock.Anything).
		Return(nil, payment.ErrTimeout).Once()

	_, err := f.svc.Submit(context.Background(), f.client.ID, &request.CheckoutRequest{
		VenueID:    f.venue.ID.String(),
		EventDate:  strPtr("2026-05-02"),
		GuestCount: 20,
	})

	assert.ErrorIs(t, err, ErrExternal)
	assert.EqualError(t, err, payment.ErrTimeout.Error())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PaymentPreferences.WithLabelValues(metrics.OutcomeTimeout)))
}

func TestCheckout_UnlistedVenue(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.env.venues.venues[f.venue.ID].Status = entity.VenueStatusPending

	_, err := f.svc.Submit(context.Background(), f.client.ID, &request.CheckoutRequest{
		VenueID:    f.venue.ID.String(),
		EventDate:  strPtr("2026-05-02"),
		GuestCount: 20,
	})

	assert.ErrorIs(t, err, ErrNotFound)
	f.gateway.AssertNumberOfCalls(t, "CreatePreference", 0)
}
