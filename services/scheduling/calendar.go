package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/models"
)

// weekdays is the canonical ordering for schedule validation output.
var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// CalendarEngine answers "is this instant open for business" queries and
// owns schedule updates.
type CalendarEngine interface {
	IsOpenAt(ctx context.Context, providerID string, at time.Time) (bool, error)
	// WorkingWindow returns the bookable window for the weekday of date.
	// A closed day yields a zero window with TotalOpenMinutes == 0.
	WorkingWindow(ctx context.Context, providerID string, date time.Time) (models.WorkingWindow, error)
	// SetSchedule validates every day of the new schedule and commits it
	// atomically; a single invalid day rejects the whole update.
	SetSchedule(ctx context.Context, providerID string, schedule map[string]models.DaySchedule) (*models.ProviderCalendar, error)
	// ValidateScheduleChange dry-runs a proposed schedule against existing
	// bookings in [from, to) and reports every booking it would strand.
	ValidateScheduleChange(ctx context.Context, providerID string, proposed map[string]models.DaySchedule, from, to time.Time) ([]models.ScheduleImpact, error)
}

// DefaultCalendarEngine is the production implementation.
type DefaultCalendarEngine struct {
	Repo schedulingRepo.Repository
}

// OpenAt reports whether the instant falls inside the calendar's working
// hours and outside every break. Pure over the calendar value.
func OpenAt(cal *models.ProviderCalendar, at time.Time) bool {
	if !cal.IsActive {
		return false
	}
	day, ok := cal.DayFor(at)
	if !ok || !day.IsOpen {
		return false
	}
	m := models.MinuteOfDay(at)
	if m < day.Open || m >= day.Close {
		return false
	}
	for _, br := range day.Breaks {
		if m >= br.Start && m < br.End {
			return false
		}
	}
	return true
}

// WindowFor computes the working window for the weekday of date. The second
// return value is false when the day is closed.
func WindowFor(cal *models.ProviderCalendar, date time.Time) (models.WorkingWindow, bool) {
	day, ok := cal.DayFor(date)
	if !ok || !day.IsOpen {
		return models.WorkingWindow{}, false
	}
	total := day.Close - day.Open
	for _, br := range day.Breaks {
		total -= br.End - br.Start
	}
	return models.WorkingWindow{
		Open:             day.Open,
		Close:            day.Close,
		Breaks:           day.Breaks,
		TotalOpenMinutes: total,
	}, true
}

// ValidateWeeklySchedule checks every day of a schedule and returns all
// violations, not just the first.
func ValidateWeeklySchedule(schedule map[string]models.DaySchedule) []string {
	var violations []string

	valid := map[string]bool{}
	for _, d := range weekdays {
		valid[d] = true
	}
	for key := range schedule {
		if !valid[key] {
			violations = append(violations, fmt.Sprintf("%s: unknown day", key))
		}
	}

	for _, key := range weekdays {
		day, ok := schedule[key]
		if !ok || !day.IsOpen {
			continue
		}
		if day.Open < 0 || day.Close > 24*60 {
			violations = append(violations, fmt.Sprintf("%s: hours outside the day", key))
			continue
		}
		if day.Open >= day.Close {
			violations = append(violations, fmt.Sprintf("%s: close time must be after open time", key))
			continue
		}
		breaks := append([]models.MinuteRange(nil), day.Breaks...)
		sort.Slice(breaks, func(i, j int) bool { return breaks[i].Start < breaks[j].Start })
		for i, br := range breaks {
			if br.Start >= br.End {
				violations = append(violations, fmt.Sprintf("%s: break %d must end after it starts", key, i+1))
				continue
			}
			if br.Start < day.Open || br.End > day.Close {
				violations = append(violations, fmt.Sprintf("%s: break %d must be within working hours", key, i+1))
			}
			if i > 0 && breaks[i-1].End > br.Start {
				violations = append(violations, fmt.Sprintf("%s: break %d overlaps the previous break", key, i+1))
			}
		}
	}
	return violations
}

func (e *DefaultCalendarEngine) IsOpenAt(ctx context.Context, providerID string, at time.Time) (bool, error) {
	cal, err := e.Repo.GetCalendar(ctx, providerID)
	if err != nil {
		return false, err
	}
	return OpenAt(cal, at), nil
}

func (e *DefaultCalendarEngine) WorkingWindow(ctx context.Context, providerID string, date time.Time) (models.WorkingWindow, error) {
	cal, err := e.Repo.GetCalendar(ctx, providerID)
	if err != nil {
		return models.WorkingWindow{}, err
	}
	window, _ := WindowFor(cal, date)
	return window, nil
}

func (e *DefaultCalendarEngine) SetSchedule(ctx context.Context, providerID string, schedule map[string]models.DaySchedule) (*models.ProviderCalendar, error) {
	if providerID == "" {
		return nil, NewValidationError("providerId", "must not be empty")
	}
	if violations := ValidateWeeklySchedule(schedule); len(violations) > 0 {
		return nil, &ScheduleValidationError{Violations: violations}
	}

	cal, err := e.Repo.GetCalendar(ctx, providerID)
	if err != nil {
		// First schedule for this provider: start from an active calendar.
		cal = &models.ProviderCalendar{ProviderID: providerID, IsActive: true}
	}
	cal.WeeklySchedule = schedule
	cal.UpdatedAt = time.Now()

	if err := e.Repo.UpsertCalendar(ctx, cal); err != nil {
		return nil, fmt.Errorf("failed to store schedule for provider %s: %w", providerID, err)
	}
	return cal, nil
}

func (e *DefaultCalendarEngine) ValidateScheduleChange(ctx context.Context, providerID string, proposed map[string]models.DaySchedule, from, to time.Time) ([]models.ScheduleImpact, error) {
	if violations := ValidateWeeklySchedule(proposed); len(violations) > 0 {
		return nil, &ScheduleValidationError{Violations: violations}
	}

	statuses := []models.BookingStatus{models.StatusPending, models.StatusConfirmed, models.StatusInProgress}
	bookings, err := e.Repo.FindBookingsBetween(ctx, providerID, from, to, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for schedule validation: %w", err)
	}

	var impacts []models.ScheduleImpact
	for _, b := range bookings {
		day, ok := proposed[models.DayKey(b.Start.Weekday())]
		if !ok || !day.IsOpen {
			impacts = append(impacts, models.ScheduleImpact{
				Kind:      "day_closed",
				BookingID: b.ID,
				ClientID:  b.ClientID,
				Interval:  b.Interval(),
				Detail:    "booking falls on a day that would be closed",
			})
			continue
		}

		startMin := models.MinuteOfDay(b.Start)
		endMin := models.MinuteOfDay(b.End)
		if startMin < day.Open || endMin > day.Close {
			impacts = append(impacts, models.ScheduleImpact{
				Kind:      "outside_hours",
				BookingID: b.ID,
				ClientID:  b.ClientID,
				Interval:  b.Interval(),
				Detail:    fmt.Sprintf("booking falls outside proposed hours %s-%s", models.FormatClock(day.Open), models.FormatClock(day.Close)),
			})
		}
		for _, br := range day.Breaks {
			if startMin < br.End && endMin > br.Start {
				impacts = append(impacts, models.ScheduleImpact{
					Kind:      "break_conflict",
					BookingID: b.ID,
					ClientID:  b.ClientID,
					Interval:  b.Interval(),
					Detail:    fmt.Sprintf("booking overlaps proposed break %s-%s", models.FormatClock(br.Start), models.FormatClock(br.End)),
				})
			}
		}
	}
	return impacts, nil
}
