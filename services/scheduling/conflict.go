package scheduling

import (
	"context"
	"fmt"
	"time"

	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/models"
)

// SearchConfig bounds the alternative-slot scan.
type SearchConfig struct {
	Days          int // how many days forward to scan, requested day included
	StepMinutes   int // scan granularity inside a working window
	MaxCandidates int // stop once this many free slots are found
}

// DefaultSearchConfig mirrors the production tuning: a 7-day window,
// half-hour steps, at most 5 suggestions.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{Days: 7, StepMinutes: 30, MaxCandidates: 5}
}

// ConflictDetector decides whether a candidate interval can be booked and,
// when it cannot, enumerates verified free alternatives.
type ConflictDetector interface {
	DetectConflicts(ctx context.Context, providerID string, interval models.TimeRange, excludeBookingID string) ([]models.Conflict, error)
}

// DefaultConflictDetector is a pure function over intervals plus the storage
// collaborator; it holds no cross-call state.
type DefaultConflictDetector struct {
	Repo   schedulingRepo.Repository
	Search SearchConfig
	Now    func() time.Time
}

// NewDefaultConflictDetector wires a detector with production defaults.
func NewDefaultConflictDetector(repo schedulingRepo.Repository) *DefaultConflictDetector {
	return &DefaultConflictDetector{Repo: repo, Search: DefaultSearchConfig(), Now: time.Now}
}

func (d *DefaultConflictDetector) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// DetectConflicts checks the interval against existing blocking bookings,
// the provider's working hours, and breaks. Overlap and break conflicts are
// High severity, outside-hours Medium, inactive provider Critical (with no
// alternatives, since none would help).
func (d *DefaultConflictDetector) DetectConflicts(ctx context.Context, providerID string, interval models.TimeRange, excludeBookingID string) ([]models.Conflict, error) {
	if providerID == "" {
		return nil, NewValidationError("providerId", "must not be empty")
	}
	if !interval.IsValid() {
		return nil, NewValidationError("interval", "start must precede end")
	}

	cal, err := d.Repo.GetCalendar(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if !cal.IsActive {
		return []models.Conflict{{
			Kind:        models.ConflictProviderInactive,
			Severity:    models.SeverityCritical,
			Description: "provider is not accepting bookings",
		}}, nil
	}

	overlapping, err := d.Repo.FindOverlappingBookings(ctx, providerID, interval, excludeBookingID)
	if err != nil {
		return nil, err
	}

	var conflicts []models.Conflict
	if len(overlapping) > 0 {
		conflicts = append(conflicts, models.Conflict{
			Kind:        models.ConflictOverlap,
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("%d conflicting bookings found", len(overlapping)),
		})
	}
	if !withinWorkingHours(cal, interval) {
		conflicts = append(conflicts, models.Conflict{
			Kind:        models.ConflictOutsideHours,
			Severity:    models.SeverityMedium,
			Description: "requested time is outside provider working hours",
		})
	} else if overlapsBreak(cal, interval) {
		conflicts = append(conflicts, models.Conflict{
			Kind:        models.ConflictBreakOverlap,
			Severity:    models.SeverityHigh,
			Description: "requested time overlaps a scheduled break",
		})
	}

	if len(conflicts) == 0 {
		return nil, nil
	}

	// One scan serves every conflict; each candidate is independently
	// re-verified against current state before it is suggested.
	alternatives, err := d.findAlternatives(ctx, cal, providerID, interval, excludeBookingID)
	if err != nil {
		return nil, err
	}
	for i := range conflicts {
		conflicts[i].SuggestedAlternatives = alternatives
	}
	return conflicts, nil
}

// withinWorkingHours reports whether the interval fits one open day. An
// interval spanning midnight never fits.
func withinWorkingHours(cal *models.ProviderCalendar, interval models.TimeRange) bool {
	if !models.Midnight(interval.Start).Equal(models.Midnight(interval.End.Add(-time.Minute))) {
		return false
	}
	day, ok := cal.DayFor(interval.Start)
	if !ok || !day.IsOpen {
		return false
	}
	startMin := models.MinuteOfDay(interval.Start)
	endMin := startMin + int(interval.Duration().Minutes())
	return startMin >= day.Open && endMin <= day.Close
}

// overlapsBreak reports whether the interval intersects any break of its day.
func overlapsBreak(cal *models.ProviderCalendar, interval models.TimeRange) bool {
	day, ok := cal.DayFor(interval.Start)
	if !ok {
		return false
	}
	startMin := models.MinuteOfDay(interval.Start)
	endMin := startMin + int(interval.Duration().Minutes())
	for _, br := range day.Breaks {
		if startMin < br.End && endMin > br.Start {
			return true
		}
	}
	return false
}
