package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type VenueResponse struct {
	ID             string                 `json:"id"`
	ProviderID     string                 `json:"provider_id"`
	Name           string                 `json:"name"`
	Description    *string                `json:"description,omitempty"`
	Category       entity.VenueCategory   `json:"category"`
	Address        string                 `json:"address"`
	Zone           string                 `json:"zone"`
	BasePrice      float64                `json:"base_price"`
	MinCapacity    int                    `json:"min_capacity"`
	MaxCapacity    int                    `json:"max_capacity"`
	PricePerPerson float64                `json:"price_per_person"`
	Images         []string               `json:"images"`
	Amenities      []string               `json:"amenities"`
	PaymentMethods []entity.PaymentMethod `json:"payment_methods"`
	Status         entity.VenueStatus     `json:"status"`
	Rating         float64                `json:"rating"`
	ReviewCount    int                    `json:"review_count"`
	ViewCount      int                    `json:"view_count"`
	FavoriteCount  int                    `json:"favorite_count"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// VenueToResponse reports the effective per-person rate, not the stored one.
func VenueToResponse(v *entity.Venue, pricePerPerson float64) VenueResponse {
	return VenueResponse{
		ID:             v.ID.String(),
		ProviderID:     v.ProviderID.String(),
		Name:           v.Name,
		Description:    v.Description,
		Category:       v.Category,
		Address:        v.Address,
		Zone:           v.Zone,
		BasePrice:      v.BasePrice,
		MinCapacity:    v.MinCapacity,
		MaxCapacity:    v.MaxCapacity,
		PricePerPerson: pricePerPerson,
		Images:         v.Images,
		Amenities:      v.Amenities,
		PaymentMethods: v.PaymentMethods,
		Status:         v.Status,
		Rating:         v.Rating,
		ReviewCount:    v.ReviewCount,
		ViewCount:      v.ViewCount,
		FavoriteCount:  v.FavoriteCount,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

type DateAvailabilityResponse struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
}

type AvailabilityResponse struct {
	VenueID string                     `json:"venue_id"`
	Month   int                        `json:"month"`
	Year    int                        `json:"year"`
	Days    []DateAvailabilityResponse `json:"days"`
}

type ExtraResponse struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Selected bool    `json:"selected,omitempty"`
}

type QuoteResponse struct {
	VenueID        string          `json:"venue_id"`
	GuestCount     int             `json:"guest_count"`
	BasePrice      float64         `json:"base_price"`
	PricePerPerson float64         `json:"price_per_person"`
	ExtraGuests    int             `json:"extra_guests"`
	GuestsAmount   float64         `json:"guests_amount"`
	Extras         []ExtraResponse `json:"extras"`
	ExtrasAmount   float64         `json:"extras_amount"`
	Total          float64         `json:"total"`
}

type AvailabilityOverrideResponse struct {
	VenueID     string  `json:"venue_id"`
	Date        string  `json:"date"`
	IsAvailable bool    `json:"is_available"`
	Note        *string `json:"note,omitempty"`
}
