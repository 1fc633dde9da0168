package usecase

import (
	"context"
	"errors"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FavoriteService interface {
	Add(ctx context.Context, userID, venueID uuid.UUID) error
	Remove(ctx context.Context, userID, venueID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.VenueResponse], error)
}

type favoriteService struct {
	repo        *repository.Repository
	defaultRate float64
	clock       Clock
	log         *zap.Logger
}

func NewFavoriteService(repo *repository.Repository, defaultRate float64, clock Clock, log *zap.Logger) FavoriteService {
	return &favoriteService{
		repo:        repo,
		defaultRate: defaultRate,
		clock:       clock,
		log:         log.With(zap.String("service", "favorite")),
	}
}

// Add is idempotent.
func (s *favoriteService) Add(ctx context.Context, userID, venueID uuid.UUID) error {
	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		s.log.Error("Failed to find venue", zap.Error(err), zap.String("venue_id", venueID.String()))
		return fmt.Errorf("find venue: %w", err)
	}
	if venue == nil || !venue.Status.IsListed() {
		return notFound("venue")
	}

	added, err := s.repo.Favorite.Add(ctx, &entity.Favorite{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.clock.Now()},
		UserID:     userID,
		VenueID:    venueID,
	})
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	if added {
		s.refreshCount(ctx, venueID)
	}
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, venueID uuid.UUID) error {
	if err := s.repo.Favorite.Remove(ctx, userID, venueID); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return notFound("favorite")
		}
		return fmt.Errorf("remove favorite: %w", err)
	}
	s.refreshCount(ctx, venueID)
	return nil
}

func (s *favoriteService) List(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.VenueResponse], error) {
	page.Normalize()

	venues, err := s.repo.Favorite.ListVenues(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	total, err := s.repo.Favorite.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}

	data := make([]response.VenueResponse, 0, len(venues))
	for _, v := range venues {
		data = append(data, response.VenueToResponse(v, EffectivePricePerPerson(v, s.defaultRate)))
	}
	return response.NewPaginatedResponse(data, page.Page, page.PerPage, total), nil
}

func (s *favoriteService) refreshCount(ctx context.Context, venueID uuid.UUID) {
	if err := s.repo.Venue.RefreshFavoriteCount(ctx, venueID); err != nil {
		s.log.Warn("Failed to refresh favorite count", zap.Error(err), zap.String("venue_id", venueID.String()))
	}
}
