package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	OrderID         string               `json:"order_id"`
	VenueID         string               `json:"venue_id"`
	ClientID        string               `json:"client_id"`
	ProviderID      string               `json:"provider_id"`
	EventDate       string               `json:"event_date"`
	GuestCount      int                  `json:"guest_count"`
	TotalPrice      float64              `json:"total_price"`
	Status          entity.BookingStatus `json:"status"`
	PaymentStatus   entity.PaymentStatus `json:"payment_status"`
	StartTime       *string              `json:"start_time,omitempty"`
	EndTime         *string              `json:"end_time,omitempty"`
	SpecialRequests *string              `json:"special_requests,omitempty"`
	HasSecurity     bool                 `json:"has_security"`
	HasCleaning     bool                 `json:"has_cleaning"`
	CreatedAt       time.Time            `json:"created_at"`
	ConfirmedAt     *time.Time           `json:"confirmed_at,omitempty"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		OrderID:         b.OrderID,
		VenueID:         b.VenueID.String(),
		ClientID:        b.ClientID.String(),
		ProviderID:      b.ProviderID.String(),
		EventDate:       b.EventDate.Format("2006-01-02"),
		GuestCount:      b.GuestCount,
		TotalPrice:      b.TotalPrice,
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		SpecialRequests: b.SpecialRequests,
		HasSecurity:     b.HasSecurity,
		HasCleaning:     b.HasCleaning,
		CreatedAt:       b.CreatedAt,
		ConfirmedAt:     b.ConfirmedAt,
	}
}

type CheckoutResponse struct {
	PreferenceID string  `json:"preference_id"`
	CheckoutURL  string  `json:"checkout_url"`
	OrderID      string  `json:"order_id"`
	Total        float64 `json:"total"`
	State        string  `json:"state"`
}
