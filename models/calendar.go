package models

import "time"

// DaySchedule describes a provider's working hours for one weekday.
// Open and Close are minutes from midnight; breaks must fall inside them.
type DaySchedule struct {
	IsOpen bool          `bson:"is_open" json:"isOpen"`
	Open   int           `bson:"open" json:"open"`
	Close  int           `bson:"close" json:"close"`
	Breaks []MinuteRange `bson:"breaks,omitempty" json:"breaks,omitempty"`
}

// ProviderCalendar holds a provider's recurring weekly schedule.
// WeeklySchedule is keyed by lowercase weekday name ("monday" .. "sunday").
type ProviderCalendar struct {
	ProviderID     string                 `bson:"provider_id" json:"providerId"`
	IsActive       bool                   `bson:"is_active" json:"isActive"`
	WeeklySchedule map[string]DaySchedule `bson:"weekly_schedule" json:"weeklySchedule"`
	UpdatedAt      time.Time              `bson:"updated_at" json:"updatedAt"`
}

// DayFor returns the schedule for the weekday of the given instant.
func (c *ProviderCalendar) DayFor(t time.Time) (DaySchedule, bool) {
	day, ok := c.WeeklySchedule[DayKey(t.Weekday())]
	return day, ok
}

// WorkingWindow is the bookable window of a single calendar day.
type WorkingWindow struct {
	Open             int           `json:"open"`
	Close            int           `json:"close"`
	Breaks           []MinuteRange `json:"breaks,omitempty"`
	TotalOpenMinutes int           `json:"totalOpenMinutes"`
}

// ScheduleImpact describes how a proposed schedule change would affect one
// existing booking.
type ScheduleImpact struct {
	Kind      string    `json:"kind"` // "day_closed", "outside_hours", "break_conflict"
	BookingID string    `json:"bookingId"`
	ClientID  string    `json:"clientId"`
	Interval  TimeRange `json:"interval"`
	Detail    string    `json:"detail"`
}
