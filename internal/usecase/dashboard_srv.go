package usecase

import (
	"context"
	"fmt"

	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DashboardService interface {
	ProviderStats(ctx context.Context, providerID uuid.UUID) (*response.DashboardResponse, error)
}

type dashboardService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewDashboardService(repo *repository.Repository, log *zap.Logger) DashboardService {
	return &dashboardService{
		repo: repo,
		log:  log.With(zap.String("service", "dashboard")),
	}
}

// ProviderStats sums venue counters and bookings across all of the provider's venues.
// Revenue counts confirmed and completed bookings only.
func (s *dashboardService) ProviderStats(ctx context.Context, providerID uuid.UUID) (*response.DashboardResponse, error) {
	venues, err := s.repo.Venue.StatsByProvider(ctx, providerID)
	if err != nil {
		s.log.Error("Failed to load venue stats", zap.Error(err), zap.String("provider_id", providerID.String()))
		return nil, fmt.Errorf("venue stats: %w", err)
	}

	bookings, err := s.repo.Booking.StatsByProvider(ctx, providerID)
	if err != nil {
		s.log.Error("Failed to load booking stats", zap.Error(err), zap.String("provider_id", providerID.String()))
		return nil, fmt.Errorf("booking stats: %w", err)
	}

	return &response.DashboardResponse{
		Venues:        venues.Venues,
		Views:         venues.Views,
		Favorites:     venues.Favorites,
		AverageRating: venues.AverageRating,
		Bookings: response.BookingCounts{
			Total:     bookings.Total,
			Pending:   bookings.Pending,
			Confirmed: bookings.Confirmed,
			Cancelled: bookings.Cancelled,
			Completed: bookings.Completed,
		},
		Revenue: bookings.Revenue,
	}, nil
}
