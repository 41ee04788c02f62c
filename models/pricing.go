package models

import "time"

// RuleKind identifies how a pricing rule's condition is evaluated.
type RuleKind string

const (
	RuleTimeOfDay   RuleKind = "time_of_day"
	RuleDemandBased RuleKind = "demand_based"
	RuleSeasonal    RuleKind = "seasonal"
)

// RuleCondition is a tagged variant: the fields consulted depend on the
// rule's Kind, so rules stay serializable without first-class functions.
type RuleCondition struct {
	// TimeOfDay: clock windows with inclusive bounds, weekend flag, or a
	// last-minute horizon in hours before the appointment.
	PeakWindows   []MinuteRange `json:"peakWindows,omitempty"`
	Weekends      bool          `json:"weekends,omitempty"`
	MaxHoursAhead int           `json:"maxHoursAhead,omitempty"`

	// DemandBased: applies when bookedSlots/dailySlots reaches Threshold.
	Threshold float64 `json:"threshold,omitempty"`

	// Seasonal: applies when the requested month is listed.
	Months []time.Month `json:"months,omitempty"`
}

// PricingRule is a named, conditional price multiplier. Lower Priority
// evaluates first; all matching rules apply.
type PricingRule struct {
	Name       string        `json:"name"`
	Kind       RuleKind      `json:"kind"`
	Multiplier float64       `json:"multiplier"`
	Priority   int           `json:"priority"`
	Condition  RuleCondition `json:"condition"`
}

// AppliedRule records one rule that contributed to a quote, for audit.
type AppliedRule struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

// PriceQuote is the result of pricing a slot: the base price, the final
// price after all matching multipliers (rounded once), and the audit trail.
type PriceQuote struct {
	ServiceID    string        `json:"serviceId"`
	ProviderID   string        `json:"providerId"`
	BasePrice    float64       `json:"basePrice"`
	FinalPrice   float64       `json:"finalPrice"`
	Currency     string        `json:"currency"`
	AppliedRules []AppliedRule `json:"appliedRules"`
}
