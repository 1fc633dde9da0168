package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service  usecase.BookingService
	checkout usecase.CheckoutService
	log      *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, checkout usecase.CheckoutService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:  service,
		checkout: checkout,
		log:      log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	clientID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), clientID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking requested", booking)
}

// Checkout handles POST /api/bookings/checkout. The client is redirected to
// the returned checkout URL; nothing is stored until payment completes.
func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	clientID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.checkout.Submit(r.Context(), clientID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "checkout")
		return
	}

	utils.ResponseCreated(w, "Checkout created", resp)
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	clientID, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := &request.BookingListQuery{
		PaginatedRequest: pageFromQuery(r),
		Status:           utils.ParseStringPtr(r.URL.Query().Get("status")),
	}

	bookings, err := h.service.GetClientBookings(r.Context(), clientID, query)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), userID, bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved", booking)
}

// DeleteBooking handles DELETE /api/bookings/{id}
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	clientID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.CancelPending(r.Context(), clientID, bookingID); err != nil {
		handleServiceError(w, h.log, err, "delete booking")
		return
	}

	utils.ResponseSuccess(w, "Booking withdrawn", nil)
}
