package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock supplies "today" to the resolver.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// AvailabilityLookupFailurePolicy decides what a failed override lookup means.
type AvailabilityLookupFailurePolicy int

const (
	// FailOpen treats a failed lookup as "no overrides".
	FailOpen AvailabilityLookupFailurePolicy = iota
	// FailClosed marks every day unavailable when the lookup fails.
	FailClosed
)

func (p AvailabilityLookupFailurePolicy) String() string {
	if p == FailClosed {
		return "closed"
	}
	return "open"
}

func ParseFailurePolicy(s string) AvailabilityLookupFailurePolicy {
	if strings.EqualFold(strings.TrimSpace(s), "closed") {
		return FailClosed
	}
	return FailOpen
}

// DateAvailability is one day of a resolved month.
type DateAvailability struct {
	Date        time.Time
	IsAvailable bool
}

type AvailabilityService interface {
	// Resolve returns one entry per day of the month, in date order.
	Resolve(ctx context.Context, venueID uuid.UUID, month, year int) ([]DateAvailability, error)
	// IsAvailable applies the same rules to a single date.
	IsAvailable(ctx context.Context, venueID uuid.UUID, date time.Time) (bool, error)
}

type availabilityService struct {
	repo    repository.AvailabilityRepository
	clock   Clock
	policy  AvailabilityLookupFailurePolicy
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	clock Clock,
	policy AvailabilityLookupFailurePolicy,
	m *metrics.Metrics,
	log *zap.Logger,
) AvailabilityService {
	return &availabilityService{
		repo:    repo,
		clock:   clock,
		policy:  policy,
		metrics: m,
		log:     log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) Resolve(ctx context.Context, venueID uuid.UUID, month, year int) ([]DateAvailability, error) {
	if month < 1 || month > 12 {
		return nil, validationError("month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, validationError("year is out of range")
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	closed, err := s.closedDays(ctx, venueID, first, last)
	if err != nil {
		return nil, err
	}

	today := dateKey(s.clock.Now())
	days := make([]DateAvailability, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := dateKey(d)
		days = append(days, DateAvailability{
			Date:        d,
			IsAvailable: key >= today && !closed.contains(key),
		})
	}

	return days, nil
}

func (s *availabilityService) IsAvailable(ctx context.Context, venueID uuid.UUID, date time.Time) (bool, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if dateKey(day) < dateKey(s.clock.Now()) {
		return false, nil
	}

	closed, err := s.closedDays(ctx, venueID, day, day)
	if err != nil {
		return false, err
	}
	return !closed.contains(dateKey(day)), nil
}

// closedSet holds the date keys closed by overrides. all marks every day
// closed after a failed lookup under FailClosed.
type closedSet struct {
	keys map[string]struct{}
	all  bool
}

func (c closedSet) contains(key string) bool {
	if c.all {
		return true
	}
	_, ok := c.keys[key]
	return ok
}

// closedDays loads overrides once for the whole range. Lookup failures are
// absorbed by the policy; only caller cancellation is returned.
func (s *availabilityService) closedDays(ctx context.Context, venueID uuid.UUID, from, to time.Time) (closedSet, error) {
	overrides, err := s.repo.FindByVenueAndRange(ctx, venueID, from, to)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return closedSet{}, ctxErr
		}

		s.log.Error("Availability lookup failed, applying policy",
			zap.Error(err),
			zap.String("venue_id", venueID.String()),
			zap.String("policy", s.policy.String()),
		)
		s.metrics.AvailabilityErrors.WithLabelValues(s.policy.String()).Inc()

		return closedSet{all: s.policy == FailClosed}, nil
	}

	set := closedSet{keys: make(map[string]struct{})}
	for _, o := range overrides {
		if !o.IsAvailable {
			set.keys[dateKey(o.Date)] = struct{}{}
		}
	}
	return set, nil
}

// dateKey compares calendar days by their wall-clock date, whatever the location.
func dateKey(t time.Time) string {
	return t.Format(utils.DateLayout)
}

// ==================== CALENDAR ====================

// MonthView is a resolved month.
type MonthView struct {
	VenueID uuid.UUID
	Month   int
	Year    int
	Days    []DateAvailability
}

// Calendar serialises month navigation: each Show supersedes the previous
// one, cancelling it, and a superseded result is never published.
type Calendar struct {
	resolver AvailabilityService

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current *MonthView
}

func NewCalendar(resolver AvailabilityService) *Calendar {
	return &Calendar{resolver: resolver}
}

func (c *Calendar) Show(ctx context.Context, venueID uuid.UUID, month, year int) (*MonthView, error) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.mu.Unlock()

	days, err := c.resolver.Resolve(ctx, venueID, month, year)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		cancel()
		return nil, fmt.Errorf("%w: %04d-%02d", ErrStaleAvailability, year, month)
	}
	c.cancel = nil
	cancel()

	if err != nil {
		return nil, err
	}

	c.current = &MonthView{VenueID: venueID, Month: month, Year: year, Days: days}
	return c.current, nil
}

// Current returns the latest accepted month, or nil before the first one.
func (c *Calendar) Current() *MonthView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// newOverride builds an override row for the venue service.
func newOverride(venueID uuid.UUID, date time.Time, available bool, note *string, now time.Time) *entity.VenueAvailability {
	return &entity.VenueAvailability{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VenueID:     venueID,
		Date:        date,
		IsAvailable: available,
		Note:        note,
	}
}
