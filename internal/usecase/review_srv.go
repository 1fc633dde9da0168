package usecase

import (
	"context"
	"errors"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, clientID, venueID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetVenueReviews(ctx context.Context, venueID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	UpdateReview(ctx context.Context, clientID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, clientID, reviewID uuid.UUID) error
}

type reviewService struct {
	repo  *repository.Repository
	clock Clock
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, clock Clock, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, clientID, venueID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		s.log.Error("Failed to find venue", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, fmt.Errorf("find venue: %w", err)
	}
	if venue == nil || !venue.Status.IsListed() {
		return nil, notFound("venue")
	}
	if venue.ProviderID == clientID {
		return nil, newError(ErrForbidden, "providers cannot review their own venue")
	}

	existing, err := s.repo.Review.FindByVenueAndClient(ctx, venueID, clientID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, newError(ErrConflict, "you already reviewed this venue")
	}

	now := s.clock.Now()
	review := &entity.Review{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VenueID:  venueID,
		ClientID: clientID,
		Rating:   req.Rating,
		Comment:  trimmed(req.Comment),
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "you already reviewed this venue")
		}
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
			zap.String("venue_id", venueID.String()),
		)
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.refreshRating(ctx, venueID)

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("venue_id", venueID.String()),
		zap.Int("rating", review.Rating),
	)

	resp := response.ReviewToResponse(review, s.authorName(ctx, clientID))
	return &resp, nil
}

func (s *reviewService) GetVenueReviews(ctx context.Context, venueID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	page.Normalize()

	reviews, err := s.repo.Review.FindByVenueID(ctx, venueID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to get venue reviews", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, fmt.Errorf("get venue reviews: %w", err)
	}

	total, err := s.repo.Review.CountByVenueID(ctx, venueID)
	if err != nil {
		s.log.Error("Failed to count venue reviews", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, fmt.Errorf("count venue reviews: %w", err)
	}

	data := make([]response.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		data = append(data, response.ReviewToResponse(&r.Review, r.AuthorName))
	}
	return response.NewPaginatedResponse(data, page.Page, page.PerPage, total), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, clientID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	review, err := s.ownReview(ctx, clientID, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = trimmed(req.Comment)
	}
	review.UpdatedAt = s.clock.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return nil, notFound("review")
		}
		s.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.refreshRating(ctx, review.VenueID)

	resp := response.ReviewToResponse(review, s.authorName(ctx, clientID))
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, clientID, reviewID uuid.UUID) error {
	review, err := s.ownReview(ctx, clientID, reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return notFound("review")
		}
		s.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return fmt.Errorf("delete review: %w", err)
	}

	s.refreshRating(ctx, review.VenueID)
	return nil
}

// ==================== HELPER METHODS ====================

func (s *reviewService) ownReview(ctx context.Context, clientID, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		s.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, notFound("review")
	}
	if review.ClientID != clientID {
		return nil, newError(ErrForbidden, "you can only change your own reviews")
	}
	return review, nil
}

// refreshRating recomputes the venue aggregate. A failure leaves the
// aggregate stale until the next review change.
func (s *reviewService) refreshRating(ctx context.Context, venueID uuid.UUID) {
	if err := s.repo.Venue.RefreshRating(ctx, venueID); err != nil {
		s.log.Warn("Failed to refresh venue rating", zap.Error(err), zap.String("venue_id", venueID.String()))
	}
}

func (s *reviewService) authorName(ctx context.Context, clientID uuid.UUID) string {
	user, err := s.repo.User.FindByID(ctx, clientID)
	if err != nil || user == nil {
		return ""
	}
	return user.FullName
}
