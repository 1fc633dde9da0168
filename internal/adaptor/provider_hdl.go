package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProviderHandler serves the provider back office. Every route runs behind
// AuthSession and RequireRole(provider).
type ProviderHandler struct {
	venues    usecase.VenueService
	bookings  usecase.BookingService
	dashboard usecase.DashboardService
	log       *zap.Logger
}

func NewProviderHandler(
	venues usecase.VenueService,
	bookings usecase.BookingService,
	dashboard usecase.DashboardService,
	log *zap.Logger,
) *ProviderHandler {
	return &ProviderHandler{
		venues:    venues,
		bookings:  bookings,
		dashboard: dashboard,
		log:       log.With(zap.String("handler", "provider")),
	}
}

// ==================== VENUES ====================

// CreateVenue handles POST /api/provider/venues
func (h *ProviderHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateVenueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	venue, err := h.venues.Create(r.Context(), providerID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create venue")
		return
	}

	utils.ResponseCreated(w, "Venue submitted for review", venue)
}

// ListVenues handles GET /api/provider/venues
func (h *ProviderHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	page := pageFromQuery(r)
	venues, err := h.venues.ListByProvider(r.Context(), providerID, &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list provider venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// UpdateVenue handles PUT /api/provider/venues/{id}
func (h *ProviderHandler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateVenueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	venue, err := h.venues.Update(r.Context(), providerID, venueID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update venue")
		return
	}

	utils.ResponseSuccess(w, "Venue updated", venue)
}

// DeleteVenue handles DELETE /api/provider/venues/{id}
func (h *ProviderHandler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.venues.Delete(r.Context(), providerID, venueID); err != nil {
		handleServiceError(w, h.log, err, "delete venue")
		return
	}

	utils.ResponseSuccess(w, "Venue deleted", nil)
}

// SetAvailability handles PUT /api/provider/venues/{id}/availability
func (h *ProviderHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.AvailabilityOverrideRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	override, err := h.venues.SetAvailability(r.Context(), providerID, venueID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set availability")
		return
	}

	utils.ResponseSuccess(w, "Availability saved", override)
}

// ClearAvailability handles DELETE /api/provider/venues/{id}/availability/{date}
func (h *ProviderHandler) ClearAvailability(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	venueID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.venues.ClearAvailability(r.Context(), providerID, venueID, chi.URLParam(r, "date")); err != nil {
		handleServiceError(w, h.log, err, "clear availability")
		return
	}

	utils.ResponseSuccess(w, "Availability override removed", nil)
}

// ==================== BOOKINGS ====================

// ListBookings handles GET /api/provider/bookings
func (h *ProviderHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := &request.BookingListQuery{
		PaginatedRequest: pageFromQuery(r),
		Status:           utils.ParseStringPtr(r.URL.Query().Get("status")),
	}

	bookings, err := h.bookings.GetProviderBookings(r.Context(), providerID, query)
	if err != nil {
		handleServiceError(w, h.log, err, "list provider bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// UpdateBookingStatus handles PATCH /api/provider/bookings/{id}/status
func (h *ProviderHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), providerID, bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking updated", booking)
}

// Dashboard handles GET /api/provider/dashboard
func (h *ProviderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	providerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.dashboard.ProviderStats(r.Context(), providerID)
	if err != nil {
		handleServiceError(w, h.log, err, "load dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
