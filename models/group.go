package models

// GroupBookingRequest reserves one provider slot for a party of clients.
type GroupBookingRequest struct {
	LeadClientID   string    `json:"leadClientId"`
	ParticipantIDs []string  `json:"participantIds"`
	ServiceID      string    `json:"serviceId"`
	ProviderID     string    `json:"providerId"`
	Interval       TimeRange `json:"interval"`
}

// GroupSize is the lead plus all participants.
func (r *GroupBookingRequest) GroupSize() int {
	return 1 + len(r.ParticipantIDs)
}

// GroupBookingResult is the outcome of a successful group allocation: one
// lead booking plus participant bookings sharing the same interval.
type GroupBookingResult struct {
	LeadBooking         Booking   `json:"leadBooking"`
	ParticipantBookings []Booking `json:"participantBookings"`
	GroupSize           int       `json:"groupSize"`
	PerPersonPrice      float64   `json:"perPersonPrice"`
	TotalCost           float64   `json:"totalCost"`
	Discount            float64   `json:"discount"`
}
