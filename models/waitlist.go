package models

import "time"

// Flexibility indicates how far a waitlisted client is willing to move from
// their preferred intervals.
type Flexibility string

const (
	FlexibilityLow    Flexibility = "low"
	FlexibilityMedium Flexibility = "medium"
	FlexibilityHigh   Flexibility = "high"
)

// WaitlistStatus is the lifecycle state of a waitlist entry.
type WaitlistStatus string

const (
	WaitlistActive    WaitlistStatus = "active"
	WaitlistRebooked  WaitlistStatus = "rebooked"
	WaitlistCancelled WaitlistStatus = "cancelled"
)

// WaitlistEntry is a standing request for a slot that was not available at
// request time. Entries are processed by (priority desc, createdAt asc).
type WaitlistEntry struct {
	ID                 string         `bson:"id" json:"id"`
	ClientID           string         `bson:"client_id" json:"clientId"`
	ProviderID         string         `bson:"provider_id" json:"providerId"`
	PreferredIntervals []TimeRange    `bson:"preferred_intervals" json:"preferredIntervals"`
	Flexibility        Flexibility    `bson:"flexibility" json:"flexibility"`
	Priority           int            `bson:"priority" json:"priority"`
	Status             WaitlistStatus `bson:"status" json:"status"`
	CreatedAt          time.Time      `bson:"created_at" json:"createdAt"`
	LastNotifiedAt     *time.Time     `bson:"last_notified_at,omitempty" json:"lastNotifiedAt,omitempty"`
}
