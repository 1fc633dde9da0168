package entity

import (
	"github.com/google/uuid"
)

type VenueCategory string

const (
	CategorySalon      VenueCategory = "salon"
	CategoryGarden     VenueCategory = "garden"
	CategoryTerrace    VenueCategory = "terrace"
	CategoryHacienda   VenueCategory = "hacienda"
	CategoryWarehouse  VenueCategory = "warehouse"
	CategoryRestaurant VenueCategory = "restaurant"
	CategoryHotel      VenueCategory = "hotel"
	CategoryEstate     VenueCategory = "estate"
	CategoryRooftop    VenueCategory = "rooftop"
)

type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
)

type VenueStatus string

const (
	VenueStatusPending  VenueStatus = "pending"
	VenueStatusActive   VenueStatus = "active"
	VenueStatusFeatured VenueStatus = "featured"
	VenueStatusInactive VenueStatus = "inactive"
	VenueStatusBanned   VenueStatus = "banned"
)

// IsListed reports whether clients can see and book the venue.
func (s VenueStatus) IsListed() bool {
	return s == VenueStatusActive || s == VenueStatusFeatured
}

type Venue struct {
	Base
	ProviderID     uuid.UUID       `db:"provider_id"`
	Name           string          `db:"name"`
	Description    *string         `db:"description"`
	Category       VenueCategory   `db:"category"`
	Address        string          `db:"address"`
	Zone           string          `db:"zone"`
	BasePrice      float64         `db:"base_price"`
	MinCapacity    int             `db:"min_capacity"`
	MaxCapacity    int             `db:"max_capacity"`
	PricePerPerson *float64        `db:"price_per_person"`
	Images         []string        `db:"images"`
	Amenities      []string        `db:"amenities"`
	PaymentMethods []PaymentMethod `db:"payment_methods"`
	Status         VenueStatus     `db:"status"`
	Rating         float64         `db:"rating"`
	ReviewCount    int             `db:"review_count"`
	ViewCount      int             `db:"view_count"`
	FavoriteCount  int             `db:"favorite_count"`
}
