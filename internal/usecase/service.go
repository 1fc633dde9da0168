package usecase

import (
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/events"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Venue        VenueService
	Availability AvailabilityService
	Booking      BookingService
	Checkout     CheckoutService
	Review       ReviewService
	Favorite     FavoriteService
	Dashboard    DashboardService
}

// Dependencies are the outside collaborators the services share.
type Dependencies struct {
	Publisher events.Publisher
	Gateway   PaymentGateway
	Mailer    Mailer
	Metrics   *metrics.Metrics
	Clock     Clock
}

func NewService(repo *repository.Repository, config *utils.Config, deps Dependencies, log *zap.Logger) *Service {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Mailer == nil {
		deps.Mailer = NewLogMailer(log)
	}

	authEvents := NewAuthEvents()
	authEvents.Subscribe(auditAuthChanges(log))

	catalog := NewExtrasCatalog(config.Pricing)
	rate := config.Pricing.DefaultPricePerPerson
	notifier := NewNotificationDispatcher(deps.Publisher, log)
	availability := NewAvailabilityService(
		repo.Availability,
		deps.Clock,
		ParseFailurePolicy(config.Availability.FailurePolicy),
		deps.Metrics,
		log,
	)

	return &Service{
		Auth:         NewAuthService(repo, config, deps.Mailer, authEvents, deps.Clock, log),
		User:         NewUserService(repo, authEvents, deps.Clock, log),
		Venue:        NewVenueService(repo, availability, catalog, rate, deps.Clock, log),
		Availability: availability,
		Booking:      NewBookingService(repo, availability, catalog, rate, deps.Publisher, notifier, deps.Metrics, deps.Clock, log),
		Checkout: NewCheckoutService(repo, availability, deps.Gateway, catalog, CheckoutConfig{
			BaseURL:               config.App.BaseURL,
			Sandbox:               config.Payment.Sandbox,
			Timeout:               config.Payment.Timeout,
			DefaultPricePerPerson: rate,
		}, deps.Clock, deps.Metrics, log),
		Review:    NewReviewService(repo, deps.Clock, log),
		Favorite:  NewFavoriteService(repo, rate, deps.Clock, log),
		Dashboard: NewDashboardService(repo, log),
	}
}

func auditAuthChanges(log *zap.Logger) AuthListener {
	log = log.With(zap.String("service", "auth-audit"))
	return func(change AuthStateChange) {
		log.Info("Auth state changed",
			zap.String("event", string(change.Event)),
			zap.String("user_id", change.UserID.String()),
			zap.Time("at", change.At),
		)
	}
}
