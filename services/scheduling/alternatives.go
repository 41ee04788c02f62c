package scheduling

import (
	"context"
	"time"

	"turnero/models"
)

// findAlternatives scans forward from the requested day in fixed steps,
// collecting candidate slots of the same duration inside each working
// window. Every candidate is verified conflict-free against current state;
// the scan is deterministic and yields candidates earliest-first.
func (d *DefaultConflictDetector) findAlternatives(ctx context.Context, cal *models.ProviderCalendar, providerID string, interval models.TimeRange, excludeBookingID string) ([]models.TimeRange, error) {
	duration := interval.Duration()
	durMin := int(duration.Minutes())
	if durMin <= 0 {
		return nil, nil
	}

	now := d.now()
	base := models.Midnight(interval.Start)
	var alternatives []models.TimeRange

	for dayOffset := 0; dayOffset < d.Search.Days; dayOffset++ {
		date := base.AddDate(0, 0, dayOffset)
		window, open := WindowFor(cal, date)
		if !open {
			continue
		}

		for m := window.Open; m+durMin <= window.Close; m += d.Search.StepMinutes {
			start := date.Add(time.Duration(m) * time.Minute)
			if start.Before(now) {
				continue
			}
			candidate := models.TimeRange{Start: start, End: start.Add(duration)}

			free, err := d.candidateFree(ctx, cal, providerID, candidate, excludeBookingID)
			if err != nil {
				return nil, err
			}
			if free {
				alternatives = append(alternatives, candidate)
				if len(alternatives) >= d.Search.MaxCandidates {
					return alternatives, nil
				}
			}
		}
	}
	return alternatives, nil
}

// candidateFree runs a full conflict check for one candidate, without
// recursing into alternative generation.
func (d *DefaultConflictDetector) candidateFree(ctx context.Context, cal *models.ProviderCalendar, providerID string, candidate models.TimeRange, excludeBookingID string) (bool, error) {
	if !withinWorkingHours(cal, candidate) || overlapsBreak(cal, candidate) {
		return false, nil
	}
	overlapping, err := d.Repo.FindOverlappingBookings(ctx, providerID, candidate, excludeBookingID)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}
