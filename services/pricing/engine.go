package pricing

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/models"
	"turnero/utils"
)

// Engine quotes prices for a service at a requested time by applying the
// ordered rule set to the service's base price.
type Engine interface {
	// Quote prices the given service for a slot starting at requestedTime.
	// Every matching rule's multiplier is applied in priority order and the
	// result is rounded to the nearest whole unit once at the end.
	Quote(ctx context.Context, serviceID, providerID string, requestedTime time.Time) (models.PriceQuote, error)
	// Reload re-reads the rule set from the configured source.
	Reload() error
}

// DefaultEngine is the production Engine. The rule set is held in memory
// behind a RWMutex so quoting stays lock-cheap while Reload swaps rules.
type DefaultEngine struct {
	Repo       schedulingRepo.Repository
	Source     Source
	DailySlots int
	Now        func() time.Time

	mu    sync.RWMutex
	rules []models.PricingRule
}

// NewDefaultEngine builds an engine and performs the initial rule load.
func NewDefaultEngine(repo schedulingRepo.Repository, source Source, dailySlots int) (*DefaultEngine, error) {
	e := &DefaultEngine{
		Repo:       repo,
		Source:     source,
		DailySlots: dailySlots,
		Now:        time.Now,
	}
	if err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *DefaultEngine) Reload() error {
	rules, err := e.Source.LoadRules()
	if err != nil {
		return fmt.Errorf("failed to load pricing rules: %w", err)
	}
	// Stable sort keeps file order for rules sharing a priority.
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})
	e.mu.Lock()
	e.rules = rules
	e.mu.Unlock()
	utils.GetLogger().Info("Pricing rules loaded", zap.Int("count", len(rules)))
	return nil
}

// Rules returns a snapshot of the active rule set in evaluation order.
func (e *DefaultEngine) Rules() []models.PricingRule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.PricingRule, len(e.rules))
	copy(out, e.rules)
	return out
}

func (e *DefaultEngine) Quote(ctx context.Context, serviceID, providerID string, requestedTime time.Time) (models.PriceQuote, error) {
	svc, err := e.Repo.GetService(ctx, serviceID)
	if err != nil {
		return models.PriceQuote{}, fmt.Errorf("failed to fetch service %s: %w", serviceID, err)
	}

	quote := models.PriceQuote{
		ServiceID:  serviceID,
		ProviderID: providerID,
		BasePrice:  svc.BasePrice,
		Currency:   svc.Currency,
	}

	price := svc.BasePrice
	for _, rule := range e.Rules() {
		matched, err := e.matches(ctx, rule, providerID, requestedTime)
		if err != nil {
			return models.PriceQuote{}, err
		}
		if !matched {
			continue
		}
		price *= rule.Multiplier
		quote.AppliedRules = append(quote.AppliedRules, models.AppliedRule{
			Name:       rule.Name,
			Multiplier: rule.Multiplier,
		})
	}
	// Round once after all multipliers so rule order never changes the result.
	quote.FinalPrice = math.Round(price)
	return quote, nil
}

func (e *DefaultEngine) matches(ctx context.Context, rule models.PricingRule, providerID string, at time.Time) (bool, error) {
	switch rule.Kind {
	case models.RuleTimeOfDay:
		return e.matchesTimeOfDay(rule.Condition, at), nil
	case models.RuleDemandBased:
		return e.matchesDemand(ctx, rule.Condition, providerID, at)
	case models.RuleSeasonal:
		for _, m := range rule.Condition.Months {
			if at.Month() == m {
				return true, nil
			}
		}
		return false, nil
	default:
		// Unknown kinds never match rather than failing every quote.
		utils.GetLogger().Warn("Skipping pricing rule with unknown kind",
			zap.String("rule", rule.Name), zap.String("kind", string(rule.Kind)))
		return false, nil
	}
}

func (e *DefaultEngine) matchesTimeOfDay(cond models.RuleCondition, at time.Time) bool {
	if len(cond.PeakWindows) > 0 {
		minute := models.MinuteOfDay(at)
		for _, w := range cond.PeakWindows {
			// Peak window bounds are inclusive: a 20:00 start still counts
			// as the 18:00-20:00 window.
			if minute >= w.Start && minute <= w.End {
				return true
			}
		}
		return false
	}
	if cond.Weekends {
		wd := at.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}
	if cond.MaxHoursAhead > 0 {
		lead := at.Sub(e.Now())
		return lead >= 0 && lead <= time.Duration(cond.MaxHoursAhead)*time.Hour
	}
	return false
}

func (e *DefaultEngine) matchesDemand(ctx context.Context, cond models.RuleCondition, providerID string, at time.Time) (bool, error) {
	if e.DailySlots <= 0 {
		return false, nil
	}
	booked, err := e.Repo.CountBookingsOnDay(ctx, providerID, at)
	if err != nil {
		return false, fmt.Errorf("failed to count bookings for demand pricing: %w", err)
	}
	ratio := float64(booked) / float64(e.DailySlots)
	return ratio >= cond.Threshold, nil
}
