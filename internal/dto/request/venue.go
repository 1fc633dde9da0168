package request

type CreateVenueRequest struct {
	Name           string   `json:"name" validate:"required,min=3,max=150"`
	Description    *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category       string   `json:"category" validate:"required,oneof=salon garden terrace hacienda warehouse restaurant hotel estate rooftop"`
	Address        string   `json:"address" validate:"required,max=300"`
	Zone           string   `json:"zone" validate:"required,max=100"`
	BasePrice      float64  `json:"base_price" validate:"gt=0"`
	MinCapacity    int      `json:"min_capacity" validate:"gte=1"`
	MaxCapacity    int      `json:"max_capacity" validate:"gtefield=MinCapacity"`
	PricePerPerson *float64 `json:"price_per_person,omitempty" validate:"omitempty,gte=0"`
	Images         []string `json:"images" validate:"max=20,dive,url"`
	Amenities      []string `json:"amenities" validate:"max=50,dive,min=1,max=60"`
	PaymentMethods []string `json:"payment_methods" validate:"required,min=1,dive,oneof=bank_transfer cash card"`
}

// UpdateVenueRequest only touches fields that are set.
type UpdateVenueRequest struct {
	Name           *string   `json:"name,omitempty" validate:"omitempty,min=3,max=150"`
	Description    *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category       *string   `json:"category,omitempty" validate:"omitempty,oneof=salon garden terrace hacienda warehouse restaurant hotel estate rooftop"`
	Address        *string   `json:"address,omitempty" validate:"omitempty,max=300"`
	Zone           *string   `json:"zone,omitempty" validate:"omitempty,max=100"`
	BasePrice      *float64  `json:"base_price,omitempty" validate:"omitempty,gt=0"`
	MinCapacity    *int      `json:"min_capacity,omitempty" validate:"omitempty,gte=1"`
	MaxCapacity    *int      `json:"max_capacity,omitempty" validate:"omitempty,gte=1"`
	PricePerPerson *float64  `json:"price_per_person,omitempty" validate:"omitempty,gte=0"`
	Images         *[]string `json:"images,omitempty" validate:"omitempty,max=20,dive,url"`
	Amenities      *[]string `json:"amenities,omitempty" validate:"omitempty,max=50,dive,min=1,max=60"`
	PaymentMethods *[]string `json:"payment_methods,omitempty" validate:"omitempty,min=1,dive,oneof=bank_transfer cash card"`
}

// VenueSearchQuery is read from the query string.
type VenueSearchQuery struct {
	PaginatedRequest
	Category *string  `json:"category" validate:"omitempty,oneof=salon garden terrace hacienda warehouse restaurant hotel estate rooftop"`
	Zone     *string  `json:"zone"`
	Search   *string  `json:"q" validate:"omitempty,max=100"`
	MinPrice *float64 `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"max_price" validate:"omitempty,gte=0"`
	Guests   *int     `json:"guests" validate:"omitempty,gte=1"`
	Sort     string   `json:"sort" validate:"omitempty,oneof=price_asc price_desc rating popular newest"`
}

type AvailabilityOverrideRequest struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	IsAvailable *bool   `json:"is_available" validate:"required"`
	Note        *string `json:"note,omitempty" validate:"omitempty,max=200"`
}

type QuoteRequest struct {
	GuestCount int      `json:"guest_count" validate:"gte=1"`
	Extras     []string `json:"extras" validate:"dive,oneof=security cleaning"`
}

type UpdateVenueStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active featured inactive banned"`
}
