package request

type CreateBookingRequest struct {
	VenueID         string   `json:"venue_id" validate:"required,uuid"`
	EventDate       string   `json:"event_date" validate:"required,datetime=2006-01-02"`
	GuestCount      int      `json:"guest_count" validate:"gte=1"`
	StartTime       *string  `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime         *string  `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	SpecialRequests *string  `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Extras          []string `json:"extras" validate:"dive,oneof=security cleaning"`
}

// CheckoutRequest leaves the date optional so a missing date is reported
// as "date required" by the checkout flow itself.
type CheckoutRequest struct {
	VenueID    string   `json:"venue_id" validate:"required,uuid"`
	EventDate  *string  `json:"event_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GuestCount int      `json:"guest_count" validate:"gte=1"`
	Extras     []string `json:"extras" validate:"dive,oneof=security cleaning"`
}

type BookingListQuery struct {
	PaginatedRequest
	Status *string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled completed"`
}
