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
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VenueService interface {
	// Public
	Search(ctx context.Context, query *request.VenueSearchQuery) (*response.PaginatedResponse[response.VenueResponse], error)
	GetByID(ctx context.Context, venueID uuid.UUID) (*response.VenueResponse, error)
	GetAvailability(ctx context.Context, venueID uuid.UUID, month, year int) (*response.AvailabilityResponse, error)
	Quote(ctx context.Context, venueID uuid.UUID, req *request.QuoteRequest) (*response.QuoteResponse, error)
	Extras() []response.ExtraResponse

	// Provider
	Create(ctx context.Context, providerID uuid.UUID, req *request.CreateVenueRequest) (*response.VenueResponse, error)
	Update(ctx context.Context, providerID, venueID uuid.UUID, req *request.UpdateVenueRequest) (*response.VenueResponse, error)
	Delete(ctx context.Context, providerID, venueID uuid.UUID) error
	ListByProvider(ctx context.Context, providerID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.VenueResponse], error)
	SetAvailability(ctx context.Context, providerID, venueID uuid.UUID, req *request.AvailabilityOverrideRequest) (*response.AvailabilityOverrideResponse, error)
	ClearAvailability(ctx context.Context, providerID, venueID uuid.UUID, date string) error

	// Admin
	UpdateStatus(ctx context.Context, venueID uuid.UUID, req *request.UpdateVenueStatusRequest) error
}

type venueService struct {
	repo         *repository.Repository
	availability AvailabilityService
	catalog      ExtrasCatalog
	defaultRate  float64
	clock        Clock
	log          *zap.Logger
}

func NewVenueService(
	repo *repository.Repository,
	availability AvailabilityService,
	catalog ExtrasCatalog,
	defaultRate float64,
	clock Clock,
	log *zap.Logger,
) VenueService {
	return &venueService{
		repo:         repo,
		availability: availability,
		catalog:      catalog,
		defaultRate:  defaultRate,
		clock:        clock,
		log:          log.With(zap.String("service", "venue")),
	}
}

var listedStatuses = []entity.VenueStatus{entity.VenueStatusActive, entity.VenueStatusFeatured}

// ==================== PUBLIC ====================

func (s *venueService) Search(ctx context.Context, query *request.VenueSearchQuery) (*response.PaginatedResponse[response.VenueResponse], error) {
	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		s.log.Warn("Venue search validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}
	query.Normalize()

	filter := repository.VenueFilter{
		Statuses: listedStatuses,
		Zone:     query.Zone,
		Search:   query.Search,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		Guests:   query.Guests,
		Sort:     query.Sort,
		Limit:    query.Limit(),
		Offset:   query.Offset(),
	}
	if query.Category != nil {
		category := entity.VenueCategory(*query.Category)
		filter.Category = &category
	}

	venues, total, err := s.repo.Venue.Search(ctx, filter)
	if err != nil {
		s.log.Error("Failed to search venues", zap.Error(err))
		return nil, fmt.Errorf("search venues: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(venues), query.Page, query.PerPage, total), nil
}

// GetByID returns a listed venue and counts the view.
func (s *venueService) GetByID(ctx context.Context, venueID uuid.UUID) (*response.VenueResponse, error) {
	venue, err := s.listedVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Venue.IncrementViewCount(ctx, venueID); err != nil {
		s.log.Warn("Failed to count venue view", zap.Error(err), zap.String("venue_id", venueID.String()))
	} else {
		venue.ViewCount++
	}

	resp := response.VenueToResponse(venue, EffectivePricePerPerson(venue, s.defaultRate))
	return &resp, nil
}

func (s *venueService) GetAvailability(ctx context.Context, venueID uuid.UUID, month, year int) (*response.AvailabilityResponse, error) {
	if _, err := s.listedVenue(ctx, venueID); err != nil {
		return nil, err
	}

	days, err := s.availability.Resolve(ctx, venueID, month, year)
	if err != nil {
		return nil, err
	}

	resp := &response.AvailabilityResponse{
		VenueID: venueID.String(),
		Month:   month,
		Year:    year,
		Days:    make([]response.DateAvailabilityResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, response.DateAvailabilityResponse{
			Date:        d.Date.Format(utils.DateLayout),
			IsAvailable: d.IsAvailable,
		})
	}
	return resp, nil
}

func (s *venueService) Quote(ctx context.Context, venueID uuid.UUID, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Quote validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	venue, err := s.listedVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	if req.GuestCount < venue.MinCapacity || req.GuestCount > venue.MaxCapacity {
		return nil, validationError(guestRangeMessage(venue))
	}

	extras, err := s.catalog.Select(req.Extras)
	if err != nil {
		return nil, err
	}

	q := BuildQuote(venue, req.GuestCount, extras, s.defaultRate)
	return &response.QuoteResponse{
		VenueID:        venue.ID.String(),
		GuestCount:     q.GuestCount,
		BasePrice:      q.BasePrice,
		PricePerPerson: q.PricePerPerson,
		ExtraGuests:    q.ExtraGuests,
		GuestsAmount:   q.GuestsAmount,
		Extras:         extrasToResponse(q.Extras),
		ExtrasAmount:   q.ExtrasAmount,
		Total:          q.Total,
	}, nil
}

func (s *venueService) Extras() []response.ExtraResponse {
	return extrasToResponse(s.catalog)
}

// ==================== PROVIDER ====================

func (s *venueService) Create(ctx context.Context, providerID uuid.UUID, req *request.CreateVenueRequest) (*response.VenueResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create venue validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	now := s.clock.Now()
	venue := &entity.Venue{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProviderID:     providerID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Category:       entity.VenueCategory(req.Category),
		Address:        strings.TrimSpace(req.Address),
		Zone:           strings.TrimSpace(req.Zone),
		BasePrice:      req.BasePrice,
		MinCapacity:    req.MinCapacity,
		MaxCapacity:    req.MaxCapacity,
		PricePerPerson: req.PricePerPerson,
		Images:         req.Images,
		Amenities:      req.Amenities,
		PaymentMethods: toPaymentMethods(req.PaymentMethods),
		Status:         entity.VenueStatusPending,
	}

	if err := s.repo.Venue.Create(ctx, venue); err != nil {
		s.log.Error("Failed to create venue", zap.Error(err), zap.String("provider_id", providerID.String()))
		return nil, fmt.Errorf("create venue: %w", err)
	}

	s.log.Info("Venue created",
		zap.String("venue_id", venue.ID.String()),
		zap.String("provider_id", providerID.String()))

	resp := response.VenueToResponse(venue, EffectivePricePerPerson(venue, s.defaultRate))
	return &resp, nil
}

// Update changes only the fields present in req. Existing bookings are not
// revalidated against new capacity limits.
func (s *venueService) Update(ctx context.Context, providerID, venueID uuid.UUID, req *request.UpdateVenueRequest) (*response.VenueResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update venue validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	venue, err := s.ownedVenue(ctx, providerID, venueID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		venue.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		venue.Description = req.Description
	}
	if req.Category != nil {
		venue.Category = entity.VenueCategory(*req.Category)
	}
	if req.Address != nil {
		venue.Address = strings.TrimSpace(*req.Address)
	}
	if req.Zone != nil {
		venue.Zone = strings.TrimSpace(*req.Zone)
	}
	if req.BasePrice != nil {
		venue.BasePrice = *req.BasePrice
	}
	if req.MinCapacity != nil {
		venue.MinCapacity = *req.MinCapacity
	}
	if req.MaxCapacity != nil {
		venue.MaxCapacity = *req.MaxCapacity
	}
	if req.PricePerPerson != nil {
		venue.PricePerPerson = req.PricePerPerson
	}
	if req.Images != nil {
		venue.Images = *req.Images
	}
	if req.Amenities != nil {
		venue.Amenities = *req.Amenities
	}
	if req.PaymentMethods != nil {
		venue.PaymentMethods = toPaymentMethods(*req.PaymentMethods)
	}

	if venue.MaxCapacity < venue.MinCapacity {
		return nil, validationError("max_capacity must not be lower than min_capacity")
	}
	venue.UpdatedAt = s.clock.Now()

	if err := s.repo.Venue.Update(ctx, venue); err != nil {
		s.log.Error("Failed to update venue", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, fmt.Errorf("update venue: %w", err)
	}

	s.log.Info("Venue updated", zap.String("venue_id", venueID.String()))

	resp := response.VenueToResponse(venue, EffectivePricePerPerson(venue, s.defaultRate))
	return &resp, nil
}

func (s *venueService) Delete(ctx context.Context, providerID, venueID uuid.UUID) error {
	if _, err := s.ownedVenue(ctx, providerID, venueID); err != nil {
		return err
	}

	if err := s.repo.Venue.Delete(ctx, venueID); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return notFound("venue")
		}
		s.log.Error("Failed to delete venue", zap.Error(err), zap.String("venue_id", venueID.String()))
		return fmt.Errorf("delete venue: %w", err)
	}
	return nil
}

func (s *venueService) ListByProvider(ctx context.Context, providerID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.VenueResponse], error) {
	page.Normalize()

	venues, total, err := s.repo.Venue.Search(ctx, repository.VenueFilter{
		ProviderID: &providerID,
		Sort:       "newest",
		Limit:      page.Limit(),
		Offset:     page.Offset(),
	})
	if err != nil {
		s.log.Error("Failed to list provider venues", zap.Error(err), zap.String("provider_id", providerID.String()))
		return nil, fmt.Errorf("list provider venues: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(venues), page.Page, page.PerPage, total), nil
}

func (s *venueService) SetAvailability(ctx context.Context, providerID, venueID uuid.UUID, req *request.AvailabilityOverrideRequest) (*response.AvailabilityOverrideResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Availability override validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	if _, err := s.ownedVenue(ctx, providerID, venueID); err != nil {
		return nil, err
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, validationError("date must be YYYY-MM-DD")
	}

	override := newOverride(venueID, date, *req.IsAvailable, req.Note, s.clock.Now())
	if err := s.repo.Availability.Upsert(ctx, override); err != nil {
		s.log.Error("Failed to save availability override", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, fmt.Errorf("save availability: %w", err)
	}

	return &response.AvailabilityOverrideResponse{
		VenueID:     venueID.String(),
		Date:        req.Date,
		IsAvailable: override.IsAvailable,
		Note:        override.Note,
	}, nil
}

func (s *venueService) ClearAvailability(ctx context.Context, providerID, venueID uuid.UUID, date string) error {
	day, err := utils.ParseDate(date)
	if err != nil {
		return validationError("date must be YYYY-MM-DD")
	}

	if _, err := s.ownedVenue(ctx, providerID, venueID); err != nil {
		return err
	}

	if err := s.repo.Availability.Delete(ctx, venueID, day); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return notFound("availability override")
		}
		s.log.Error("Failed to clear availability override", zap.Error(err), zap.String("venue_id", venueID.String()))
		return fmt.Errorf("clear availability: %w", err)
	}
	return nil
}

// ==================== ADMIN ====================

func (s *venueService) UpdateStatus(ctx context.Context, venueID uuid.UUID, req *request.UpdateVenueStatusRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(utils.FormatValidationErrors(errs))
	}

	status := entity.VenueStatus(req.Status)
	if err := s.repo.Venue.UpdateStatus(ctx, venueID, status); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return notFound("venue")
		}
		s.log.Error("Failed to update venue status", zap.Error(err), zap.String("venue_id", venueID.String()))
		return fmt.Errorf("update venue status: %w", err)
	}

	s.log.Info("Venue status changed",
		zap.String("venue_id", venueID.String()),
		zap.String("status", req.Status))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *venueService) listedVenue(ctx context.Context, venueID uuid.UUID) (*entity.Venue, error) {
	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		s.log.Error("Failed to find venue", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, fmt.Errorf("find venue: %w", err)
	}
	if venue == nil || !venue.Status.IsListed() {
		return nil, notFound("venue")
	}
	return venue, nil
}

func (s *venueService) ownedVenue(ctx context.Context, providerID, venueID uuid.UUID) (*entity.Venue, error) {
	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		s.log.Error("Failed to find venue", zap.Error(err), zap.String("venue_id", venueID.String()))
		return nil, fmt.Errorf("find venue: %w", err)
	}
	if venue == nil {
		return nil, notFound("venue")
	}
	if venue.ProviderID != providerID {
		s.log.Warn("Venue access denied",
			zap.String("venue_id", venueID.String()),
			zap.String("provider_id", providerID.String()))
		return nil, newError(ErrForbidden, "venue belongs to another provider")
	}
	return venue, nil
}

func (s *venueService) toResponses(venues []*entity.Venue) []response.VenueResponse {
	out := make([]response.VenueResponse, 0, len(venues))
	for _, v := range venues {
		out = append(out, response.VenueToResponse(v, EffectivePricePerPerson(v, s.defaultRate)))
	}
	return out
}

func toPaymentMethods(values []string) []entity.PaymentMethod {
	out := make([]entity.PaymentMethod, 0, len(values))
	for _, v := range values {
		out = append(out, entity.PaymentMethod(v))
	}
	return out
}

func extrasToResponse(extras []Extra) []response.ExtraResponse {
	out := make([]response.ExtraResponse, 0, len(extras))
	for _, e := range extras {
		out = append(out, response.ExtraResponse{Key: e.Key, Name: e.Name, Price: e.Price, Selected: e.Selected})
	}
	return out
}
