package usecase

import (
	"context"
	"fmt"
	"testing"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/pkg/events"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	env       *testEnv
	venue     *entity.Venue
	client    uuid.UUID
	publisher *recordingPublisher
	svc       BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	venue := testVenue(uuid.New())
	env := newTestEnv(t, venue)
	publisher := &recordingPublisher{}

	svc := NewBookingService(
		env.repo,
		env.availabilityService(FailOpen),
		NewExtrasCatalog(testPricing()),
		DefaultPricePerPerson,
		publisher,
		NewNotificationDispatcher(publisher, env.log),
		env.metrics,
		env.clock,
		env.log,
	)
	return &bookingFixture{env: env, venue: venue, client: uuid.New(), publisher: publisher, svc: svc}
}

func (f *bookingFixture) create(t *testing.T, date string, guests int, extras ...string) (*entity.Booking, error) {
	t.Helper()
	resp, err := f.svc.CreateBooking(context.Background(), f.client, &request.CreateBookingRequest{
		VenueID:    f.venue.ID.String(),
		EventDate:  date,
		GuestCount: guests,
		Extras:     extras,
	})
	if err != nil {
		return nil, err
	}
	b, _ := f.env.bookings.FindByID(context.Background(), uuid.MustParse(resp.ID))
	return b, nil
}

func TestCreateBooking_Success(t *testing.T) {
	f := newBookingFixture(t)

	b, err := f.create(t, "2026-05-02", 30, ExtraSecurity, ExtraCleaning)
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, 21000.0, b.TotalPrice)
	assert.Equal(t, entity.BookingStatusPending, b.Status)
	assert.Equal(t, entity.PaymentStatusPending, b.PaymentStatus)
	assert.Equal(t, f.venue.ProviderID, b.ProviderID)
	assert.True(t, b.HasSecurity)
	assert.True(t, b.HasCleaning)

	assert.Equal(t, []string{events.TypeBookingCreated, events.TypeNotificationToast}, f.publisher.types())
	assert.Equal(t, f.venue.ProviderID.String(), f.publisher.events[1].Key)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.env.metrics.BookingsCreated))
}

func TestCreateBooking_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(f *bookingFixture)
		date   string
		guests int
		class  error
	}{
		{name: "below minimum", date: "2026-05-02", guests: 9, class: ErrValidation},
		{name: "above maximum", date: "2026-05-02", guests: 51, class: ErrValidation},
		{name: "past date", date: "2026-03-14", guests: 20, class: ErrValidation},
		{
			name:   "closed by provider",
			setup:  func(f *bookingFixture) { f.env.availability.close(f.venue.ID, day(2026, 5, 2)) },
			date:   "2026-05-02",
			guests: 20,
			class:  ErrConflict,
		},
		{
			name: "unlisted venue",
			setup: func(f *bookingFixture) {
				f.env.venues.venues[f.venue.ID].Status = entity.VenueStatusInactive
			},
			date:   "2026-05-02",
			guests: 20,
			class:  ErrNotFound,
		},
		{
			name:   "own venue",
			setup:  func(f *bookingFixture) { f.client = f.venue.ProviderID },
			date:   "2026-05-02",
			guests: 20,
			class:  ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.create(t, tt.date, tt.guests)
			assert.ErrorIs(t, err, tt.class)
			assert.Empty(t, f.env.bookings.bookings)
			assert.Empty(t, f.publisher.types())
		})
	}
}

func TestCreateBooking_DoubleBooking(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.create(t, "2026-05-02", 20)
	require.NoError(t, err)

	f.client = uuid.New()
	_, err = f.create(t, "2026-05-02", 20)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateBooking_UniqueIndexRace(t *testing.T) {
	f := newBookingFixture(t)
	f.env.bookings.createErr = fmt.Errorf("create booking: %w", repository.ErrDuplicate)

	_, err := f.create(t, "2026-05-02", 20)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateBooking_PublisherFailureDoesNotFailRequest(t *testing.T) {
	f := newBookingFixture(t)
	f.publisher.err = fmt.Errorf("broker down")

	_, err := f.create(t, "2026-05-02", 20)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.env.metrics.EventsPublished.WithLabelValues(events.TypeBookingCreated, "error")))
}

func TestUpdateStatus(t *testing.T) {
	f := newBookingFixture(t)
	b, err := f.create(t, "2026-05-02", 20)
	require.NoError(t, err)
	ctx := context.Background()
	provider := f.venue.ProviderID

	resp, err := f.svc.UpdateStatus(ctx, provider, b.ID, &request.UpdateBookingStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
	assert.NotNil(t, resp.ConfirmedAt)

	// confirmed cannot go back to pending-only targets
	_, err = f.svc.UpdateStatus(ctx, provider, b.ID, &request.UpdateBookingStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrConflict)

	resp, err = f.svc.UpdateStatus(ctx, provider, b.ID, &request.UpdateBookingStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, resp.Status)

	_, err = f.svc.UpdateStatus(ctx, provider, b.ID, &request.UpdateBookingStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateStatus_OtherProvider(t *testing.T) {
	f := newBookingFixture(t)
	b, err := f.create(t, "2026-05-02", 20)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), uuid.New(), b.ID, &request.UpdateBookingStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelPending(t *testing.T) {
	f := newBookingFixture(t)
	b, err := f.create(t, "2026-05-02", 20)
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.CancelPending(ctx, uuid.New(), b.ID), ErrNotFound)

	require.NoError(t, f.svc.CancelPending(ctx, f.client, b.ID))
	assert.Empty(t, f.env.bookings.bookings)
	assert.Contains(t, f.publisher.types(), events.TypeBookingDeleted)
}

func TestCancelPending_ConfirmedBooking(t *testing.T) {
	f := newBookingFixture(t)
	b, err := f.create(t, "2026-05-02", 20)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = f.svc.UpdateStatus(ctx, f.venue.ProviderID, b.ID, &request.UpdateBookingStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.CancelPending(ctx, f.client, b.ID), ErrConflict)
}

func TestGetBookingByID_Participants(t *testing.T) {
	f := newBookingFixture(t)
	b, err := f.create(t, "2026-05-02", 20)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = f.svc.GetBookingByID(ctx, f.client, b.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetBookingByID(ctx, f.venue.ProviderID, b.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetBookingByID(ctx, uuid.New(), b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingLists(t *testing.T) {
	f := newBookingFixture(t)
	_, err := f.create(t, "2026-05-02", 20)
	require.NoError(t, err)
	ctx := context.Background()

	clientPage, err := f.svc.GetClientBookings(ctx, f.client, &request.BookingListQuery{})
	require.NoError(t, err)
	assert.Len(t, clientPage.Data, 1)

	providerPage, err := f.svc.GetProviderBookings(ctx, f.venue.ProviderID, &request.BookingListQuery{})
	require.NoError(t, err)
	assert.Len(t, providerPage.Data, 1)

	confirmed := "confirmed"
	filtered, err := f.svc.GetClientBookings(ctx, f.client, &request.BookingListQuery{Status: &confirmed})
	require.NoError(t, err)
	assert.Empty(t, filtered.Data)
}
