package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// Blocking reports whether a booking in this status occupies its interval.
// Pending and cancelled bookings never block other requests.
func (s BookingStatus) Blocking() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// GroupRole marks a booking's position inside a group reservation.
type GroupRole string

const (
	GroupRoleLead        GroupRole = "lead"
	GroupRoleParticipant GroupRole = "participant"
)

// GroupInfo links a booking to its group. Participant bookings reference the
// lead booking; the lead references itself implicitly.
type GroupInfo struct {
	Role          GroupRole `bson:"role" json:"role"`
	LeadBookingID string    `bson:"lead_booking_id,omitempty" json:"leadBookingId,omitempty"`
	GroupSize     int       `bson:"group_size" json:"groupSize"`
}

// Booking is a reservation of a provider's time.
type Booking struct {
	ID           string        `bson:"id" json:"id"`
	ProviderID   string        `bson:"provider_id" json:"providerId"`
	ClientID     string        `bson:"client_id" json:"clientId"`
	ServiceID    string        `bson:"service_id" json:"serviceId"`
	Start        time.Time     `bson:"start" json:"start"`
	End          time.Time     `bson:"end" json:"end"`
	Status       BookingStatus `bson:"status" json:"status"`
	TotalAmount  float64       `bson:"total_amount" json:"totalAmount"`
	AppliedRules []string      `bson:"applied_rules,omitempty" json:"appliedRules,omitempty"`
	Group        *GroupInfo    `bson:"group,omitempty" json:"group,omitempty"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
}

// Interval returns the booking's time span as a half-open range.
func (b *Booking) Interval() TimeRange {
	return TimeRange{Start: b.Start, End: b.End}
}

// BookingRequest is the inbound request to reserve a slot.
type BookingRequest struct {
	ProviderID string    `json:"providerId"`
	ClientID   string    `json:"clientId"`
	ServiceID  string    `json:"serviceId"`
	Interval   TimeRange `json:"interval"`
}
