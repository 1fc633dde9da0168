package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/events"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/payment"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// today is noon so date comparisons never straddle midnight.
var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func testMetrics() *metrics.Metrics {
	return metrics.NewWithRegisterer("test", prometheus.NewRegistry())
}

func testPricing() utils.PricingConfig {
	return utils.PricingConfig{DefaultPricePerPerson: DefaultPricePerPerson, SecurityPrice: 2500, CleaningPrice: 1800}
}

func testConfig() *utils.Config {
	return &utils.Config{
		App:     utils.AppConfig{BaseURL: "https://venues.test"},
		JWT:     utils.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
		OTP:     utils.OTPConfig{ExpiryMinutes: 15, Length: 6},
		Payment: utils.PaymentConfig{Sandbox: true, Timeout: time.Second},
		Pricing: testPricing(),
	}
}

func testVenue(providerID uuid.UUID) *entity.Venue {
	return &entity.Venue{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		ProviderID:     providerID,
		Name:           "Salon Jardin",
		Category:       entity.CategorySalon,
		Address:        "Av. Reforma 100",
		Zone:           "Centro",
		BasePrice:      15000,
		MinCapacity:    10,
		MaxCapacity:    50,
		PaymentMethods: []entity.PaymentMethod{entity.PaymentCard},
		Status:         entity.VenueStatusActive,
	}
}

// ==================== VENUES ====================

type fakeVenueRepo struct {
	mu     sync.Mutex
	venues map[uuid.UUID]*entity.Venue

	views           int
	ratingRefreshes int
	favRefreshes    int
	stats           *repository.VenueStats
}

func newFakeVenueRepo(venues ...*entity.Venue) *fakeVenueRepo {
	r := &fakeVenueRepo{venues: make(map[uuid.UUID]*entity.Venue)}
	for _, v := range venues {
		r.venues[v.ID] = v
	}
	return r
}

func (r *fakeVenueRepo) Create(_ context.Context, v *entity.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.venues[v.ID] = v
	return nil
}

func (r *fakeVenueRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.venues[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVenueRepo) Search(_ context.Context, f repository.VenueFilter) ([]*entity.Venue, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Venue
	for _, v := range r.venues {
		if f.ProviderID != nil && v.ProviderID != *f.ProviderID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, v.Status) {
			continue
		}
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func containsStatus(list []entity.VenueStatus, s entity.VenueStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *fakeVenueRepo) Update(_ context.Context, v *entity.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.venues[v.ID]; !ok {
		return repository.ErrNotAffected
	}
	r.venues[v.ID] = v
	return nil
}

func (r *fakeVenueRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.venues[id]; !ok {
		return repository.ErrNotAffected
	}
	delete(r.venues, id)
	return nil
}

func (r *fakeVenueRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.VenueStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.venues[id]
	if !ok {
		return repository.ErrNotAffected
	}
	v.Status = status
	return nil
}

func (r *fakeVenueRepo) IncrementViewCount(context.Context, uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views++
	return nil
}

func (r *fakeVenueRepo) RefreshRating(context.Context, uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratingRefreshes++
	return nil
}

func (r *fakeVenueRepo) RefreshFavoriteCount(context.Context, uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favRefreshes++
	return nil
}

func (r *fakeVenueRepo) StatsByProvider(context.Context, uuid.UUID) (*repository.VenueStats, error) {
	if r.stats != nil {
		return r.stats, nil
	}
	return &repository.VenueStats{}, nil
}

// ==================== AVAILABILITY ====================

type fakeAvailabilityRepo struct {
	mu        sync.Mutex
	overrides []*entity.VenueAvailability
	err       error
	calls     int
}

func (r *fakeAvailabilityRepo) close(venueID uuid.UUID, date time.Time) {
	r.overrides = append(r.overrides, newOverride(venueID, date, false, nil, testNow))
}

func (r *fakeAvailabilityRepo) FindByVenueAndRange(_ context.Context, venueID uuid.UUID, from, to time.Time) ([]*entity.VenueAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.VenueAvailability
	for _, o := range r.overrides {
		if o.VenueID == venueID && !o.Date.Before(from) && !o.Date.After(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) Upsert(_ context.Context, o *entity.VenueAvailability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.overrides {
		if existing.VenueID == o.VenueID && existing.Date.Equal(o.Date) {
			r.overrides[i] = o
			return nil
		}
	}
	r.overrides = append(r.overrides, o)
	return nil
}

func (r *fakeAvailabilityRepo) Delete(_ context.Context, venueID uuid.UUID, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.overrides {
		if o.VenueID == venueID && o.Date.Equal(date) {
			r.overrides = append(r.overrides[:i], r.overrides[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotAffected
}

// ==================== BOOKINGS ====================

type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*entity.Booking
	createErr error
	stats     *repository.BookingStats
}

func newFakeBookingRepo(bookings ...*entity.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindActiveByVenueAndDate(_ context.Context, venueID uuid.UUID, date time.Time) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		active := b.Status == entity.BookingStatusPending || b.Status == entity.BookingStatusConfirmed
		if b.VenueID == venueID && b.EventDate.Equal(date) && active {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) List(_ context.Context, f repository.BookingFilter) ([]*entity.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if f.ClientID != nil && b.ClientID != *f.ClientID {
			continue
		}
		if f.ProviderID != nil && b.ProviderID != *f.ProviderID {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to entity.BookingStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return repository.ErrNotAffected
	}
	b.Status = to
	b.UpdatedAt = at
	return nil
}

func (r *fakeBookingRepo) DeletePending(_ context.Context, id, clientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.ClientID != clientID || b.Status != entity.BookingStatusPending {
		return repository.ErrNotAffected
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) StatsByProvider(context.Context, uuid.UUID) (*repository.BookingStats, error) {
	if r.stats != nil {
		return r.stats, nil
	}
	return &repository.BookingStats{}, nil
}

// ==================== FAVORITES ====================

type fakeFavoriteRepo struct {
	mu     sync.Mutex
	venues *fakeVenueRepo
	rows   []*entity.Favorite
}

func (r *fakeFavoriteRepo) Add(_ context.Context, f *entity.Favorite) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == f.UserID && row.VenueID == f.VenueID {
			return false, nil
		}
	}
	r.rows = append(r.rows, f)
	return true, nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID, venueID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.UserID == userID && row.VenueID == venueID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotAffected
}

func (r *fakeFavoriteRepo) ListVenues(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Venue, error) {
	r.mu.Lock()
	var ids []uuid.UUID
	for _, row := range r.rows {
		if row.UserID == userID {
			ids = append(ids, row.VenueID)
		}
	}
	r.mu.Unlock()

	var out []*entity.Venue
	for _, id := range ids {
		v, _ := r.venues.FindByID(ctx, id)
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeFavoriteRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ==================== USERS & SESSIONS ====================

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].EmailVerified = true
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].IsActive = false
	return nil
}

func testUser(role entity.UserRole) *entity.User {
	return &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		FullName: "Ana Maria Lopez",
		Email:    "ana@example.com",
		Role:     role,
		IsActive: true,
	}
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Token] = s
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok || s.RevokedAt != nil {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotAffected
	}
	now := testNow
	s.RevokedAt = &now
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := testNow
	for _, s := range r.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(context.Context) (int64, error) { return 0, nil }

type fakeCodeRepo struct {
	mu    sync.Mutex
	codes []*entity.VerificationCode
}

func (r *fakeCodeRepo) Create(_ context.Context, c *entity.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, c)
	return nil
}

func (r *fakeCodeRepo) FindValid(_ context.Context, email, code string, purpose entity.CodePurpose) (*entity.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.Email == email && c.Code == code && c.Purpose == purpose && c.UsedAt == nil {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCodeRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.ID == id && c.UsedAt == nil {
			now := testNow
			c.UsedAt = &now
			return nil
		}
	}
	return repository.ErrNotAffected
}

func (r *fakeCodeRepo) InvalidateAll(_ context.Context, userID uuid.UUID, purpose entity.CodePurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := testNow
	for _, c := range r.codes {
		if c.UserID == userID && c.Purpose == purpose && c.UsedAt == nil {
			c.UsedAt = &now
		}
	}
	return nil
}

// latest returns the newest unused code for email.
func (r *fakeCodeRepo) latest(email string, purpose entity.CodePurpose) *entity.VerificationCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.codes) - 1; i >= 0; i-- {
		c := r.codes[i]
		if c.Email == email && c.Purpose == purpose && c.UsedAt == nil {
			return c
		}
	}
	return nil
}

// ==================== REVIEWS ====================

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*entity.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, rv *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews[rv.ID] = rv
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *rv
	return &cp, nil
}

func (r *fakeReviewRepo) FindByVenueAndClient(_ context.Context, venueID, clientID uuid.UUID) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.VenueID == venueID && rv.ClientID == clientID {
			return rv, nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepo) FindByVenueID(_ context.Context, venueID uuid.UUID, _, _ int) ([]*repository.ReviewWithAuthor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*repository.ReviewWithAuthor
	for _, rv := range r.reviews {
		if rv.VenueID == venueID {
			out = append(out, &repository.ReviewWithAuthor{Review: *rv, AuthorName: "Ana"})
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) CountByVenueID(ctx context.Context, venueID uuid.UUID) (int64, error) {
	list, _ := r.FindByVenueID(ctx, venueID, 0, 0)
	return int64(len(list)), nil
}

func (r *fakeReviewRepo) Update(_ context.Context, rv *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews[rv.ID] = rv
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return repository.ErrNotAffected
	}
	delete(r.reviews, id)
	return nil
}

// ==================== OUTSIDE COLLABORATORS ====================

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreatePreference(ctx context.Context, pref *payment.PreferenceRequest) (*payment.Preference, error) {
	args := m.Called(ctx, pref)
	p, _ := args.Get(0).(*payment.Preference)
	return p, args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+": "+subject)
	return nil
}

// testEnv bundles fakes behind a repository.Repository.
type testEnv struct {
	venues       *fakeVenueRepo
	availability *fakeAvailabilityRepo
	bookings     *fakeBookingRepo
	users        *fakeUserRepo
	sessions     *fakeSessionRepo
	codes        *fakeCodeRepo
	reviews      *fakeReviewRepo
	favorites    *fakeFavoriteRepo
	repo         *repository.Repository
	clock        fixedClock
	metrics      *metrics.Metrics
	log          *zap.Logger
}

func newTestEnv(t *testing.T, venues ...*entity.Venue) *testEnv {
	t.Helper()
	env := &testEnv{
		venues:       newFakeVenueRepo(venues...),
		availability: &fakeAvailabilityRepo{},
		bookings:     newFakeBookingRepo(),
		users:        newFakeUserRepo(),
		sessions:     newFakeSessionRepo(),
		codes:        &fakeCodeRepo{},
		reviews:      newFakeReviewRepo(),
		clock:        fixedClock{now: testNow},
		metrics:      testMetrics(),
		log:          zap.NewNop(),
	}
	env.favorites = &fakeFavoriteRepo{venues: env.venues}
	env.repo = &repository.Repository{
		User:             env.users,
		Session:          env.sessions,
		VerificationCode: env.codes,
		Venue:            env.venues,
		Availability:     env.availability,
		Booking:          env.bookings,
		Review:           env.reviews,
		Favorite:         env.favorites,
	}
	return env
}

func (e *testEnv) availabilityService(policy AvailabilityLookupFailurePolicy) AvailabilityService {
	return NewAvailabilityService(e.availability, e.clock, policy, e.metrics, e.log)
}
