package pricing

import (
	"time"

	"turnero/models"
)

// DefaultRules is the built-in rule set, matching the production
// configuration shipped with the platform.
func DefaultRules() []models.PricingRule {
	return []models.PricingRule{
		{
			Name:       "Peak Hours Premium",
			Kind:       models.RuleTimeOfDay,
			Multiplier: 1.2,
			Priority:   1,
			Condition: models.RuleCondition{
				PeakWindows: []models.MinuteRange{
					{Start: 18 * 60, End: 20 * 60},
					{Start: 10 * 60, End: 12 * 60},
				},
			},
		},
		{
			Name:       "High Demand Surge",
			Kind:       models.RuleDemandBased,
			Multiplier: 1.3,
			Priority:   2,
			Condition:  models.RuleCondition{Threshold: 0.8},
		},
		{
			Name:       "Weekend Premium",
			Kind:       models.RuleTimeOfDay,
			Multiplier: 1.15,
			Priority:   3,
			Condition:  models.RuleCondition{Weekends: true},
		},
		{
			Name:       "Last Minute Booking",
			Kind:       models.RuleTimeOfDay,
			Multiplier: 1.25,
			Priority:   4,
			Condition:  models.RuleCondition{MaxHoursAhead: 24},
		},
		{
			Name:       "Holiday Season",
			Kind:       models.RuleSeasonal,
			Multiplier: 1.1,
			Priority:   5,
			Condition: models.RuleCondition{
				// Summer high season: December through February.
				Months: []time.Month{time.December, time.January, time.February},
			},
		},
	}
}
