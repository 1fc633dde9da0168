package response

type DashboardResponse struct {
	Venues        int64   `json:"venues"`
	Views         int64   `json:"views"`
	Favorites     int64   `json:"favorites"`
	AverageRating float64 `json:"average_rating"`

	Bookings BookingCounts `json:"bookings"`
	Revenue  float64       `json:"revenue"`
}

type BookingCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Completed int64 `json:"completed"`
}
