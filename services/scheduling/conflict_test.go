package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/models"
)

// fakeRepo implements only the methods the scheduling package touches;
// anything else panics via the embedded nil interface.
type fakeRepo struct {
	schedulingRepo.Repository
	getCalendar     func(ctx context.Context, providerID string) (*models.ProviderCalendar, error)
	findOverlapping func(ctx context.Context, providerID string, interval models.TimeRange, excludeID string) ([]models.Booking, error)
	bookingsBetween func(ctx context.Context, providerID string, from, to time.Time, statuses []models.BookingStatus) ([]models.Booking, error)
	upsertCalendar  func(ctx context.Context, cal *models.ProviderCalendar) error
}

func (f *fakeRepo) GetCalendar(ctx context.Context, providerID string) (*models.ProviderCalendar, error) {
	return f.getCalendar(ctx, providerID)
}

func (f *fakeRepo) FindOverlappingBookings(ctx context.Context, providerID string, interval models.TimeRange, excludeID string) ([]models.Booking, error) {
	return f.findOverlapping(ctx, providerID, interval, excludeID)
}

func (f *fakeRepo) FindBookingsBetween(ctx context.Context, providerID string, from, to time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	return f.bookingsBetween(ctx, providerID, from, to, statuses)
}

func (f *fakeRepo) UpsertCalendar(ctx context.Context, cal *models.ProviderCalendar) error {
	return f.upsertCalendar(ctx, cal)
}

// monday is a fixed reference Monday so tests stay deterministic.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func span(day time.Time, fromHour, fromMin, toHour, toMin int) models.TimeRange {
	return models.TimeRange{Start: at(day, fromHour, fromMin), End: at(day, toHour, toMin)}
}

// nineToSix builds a calendar open every day 09:00-18:00 with a Monday
// lunch break 13:00-14:00.
func nineToSix(active bool) *models.ProviderCalendar {
	schedule := map[string]models.DaySchedule{}
	for _, d := range weekdays {
		schedule[d] = models.DaySchedule{IsOpen: true, Open: 9 * 60, Close: 18 * 60}
	}
	mon := schedule["monday"]
	mon.Breaks = []models.MinuteRange{{Start: 13 * 60, End: 14 * 60}}
	schedule["monday"] = mon
	return &models.ProviderCalendar{
		ProviderID:     "prov-1",
		IsActive:       active,
		WeeklySchedule: schedule,
	}
}

// repoWithBookings answers overlap queries against a fixed booking set,
// applying the same half-open semantics production queries use.
func repoWithBookings(cal *models.ProviderCalendar, booked ...models.TimeRange) *fakeRepo {
	return &fakeRepo{
		getCalendar: func(context.Context, string) (*models.ProviderCalendar, error) {
			return cal, nil
		},
		findOverlapping: func(_ context.Context, _ string, interval models.TimeRange, _ string) ([]models.Booking, error) {
			var hits []models.Booking
			for _, b := range booked {
				if b.Overlaps(interval) {
					hits = append(hits, models.Booking{Start: b.Start, End: b.End, Status: models.StatusConfirmed})
				}
			}
			return hits, nil
		},
	}
}

func newTestDetector(repo schedulingRepo.Repository, now time.Time) *DefaultConflictDetector {
	return &DefaultConflictDetector{
		Repo:   repo,
		Search: DefaultSearchConfig(),
		Now:    func() time.Time { return now },
	}
}

func TestDetectConflictsFreeSlot(t *testing.T) {
	repo := repoWithBookings(nineToSix(true), span(monday, 10, 0, 11, 0))
	d := newTestDetector(repo, at(monday, 8, 0))

	conflicts, err := d.DetectConflicts(context.Background(), "prov-1", span(monday, 11, 0, 12, 0), "")
	require.NoError(t, err)
	assert.Empty(t, conflicts, "a booking ending exactly when another starts must not conflict")
}

func TestDetectConflictsOverlap(t *testing.T) {
	repo := repoWithBookings(nineToSix(true), span(monday, 10, 0, 11, 0))
	d := newTestDetector(repo, at(monday, 8, 0))

	conflicts, err := d.DetectConflicts(context.Background(), "prov-1", span(monday, 10, 30, 11, 30), "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOverlap, conflicts[0].Kind)
	assert.Equal(t, models.SeverityHigh, conflicts[0].Severity)
	assert.NotEmpty(t, conflicts[0].SuggestedAlternatives)
}

func TestDetectConflictsOutsideHours(t *testing.T) {
	repo := repoWithBookings(nineToSix(true))
	d := newTestDetector(repo, at(monday, 6, 0))

	conflicts, err := d.DetectConflicts(context.Background(), "prov-1", span(monday, 7, 0, 8, 0), "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOutsideHours, conflicts[0].Kind)
	assert.Equal(t, models.SeverityMedium, conflicts[0].Severity)
}

func TestDetectConflictsBreakOverlap(t *testing.T) {
	repo := repoWithBookings(nineToSix(true))
	d := newTestDetector(repo, at(monday, 8, 0))

	conflicts, err := d.DetectConflicts(context.Background(), "prov-1", span(monday, 13, 30, 14, 30), "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictBreakOverlap, conflicts[0].Kind)
	assert.Equal(t, models.SeverityHigh, conflicts[0].Severity)
}

func TestDetectConflictsInactiveProvider(t *testing.T) {
	repo := repoWithBookings(nineToSix(false))
	d := newTestDetector(repo, at(monday, 8, 0))

	conflicts, err := d.DetectConflicts(context.Background(), "prov-1", span(monday, 10, 0, 11, 0), "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictProviderInactive, conflicts[0].Kind)
	assert.Equal(t, models.SeverityCritical, conflicts[0].Severity)
	assert.Empty(t, conflicts[0].SuggestedAlternatives, "no alternative helps with an inactive provider")
}

func TestDetectConflictsValidation(t *testing.T) {
	d := newTestDetector(&fakeRepo{}, at(monday, 8, 0))

	_, err := d.DetectConflicts(context.Background(), "", span(monday, 10, 0, 11, 0), "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = d.DetectConflicts(context.Background(), "prov-1", span(monday, 11, 0, 10, 0), "")
	require.ErrorAs(t, err, &verr)
}

func TestAlternativesAreVerifiedAndOrdered(t *testing.T) {
	// The whole Monday morning is booked solid; the first free hour-long
	// slots start at 14:00 (after the lunch break).
	repo := repoWithBookings(nineToSix(true),
		span(monday, 9, 0, 13, 0),
		span(monday, 14, 0, 15, 0),
	)
	d := newTestDetector(repo, at(monday, 8, 0))

	conflicts, err := d.DetectConflicts(context.Background(), "prov-1", span(monday, 10, 0, 11, 0), "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	alts := conflicts[0].SuggestedAlternatives
	require.Len(t, alts, DefaultSearchConfig().MaxCandidates)
	assert.Equal(t, at(monday, 15, 0), alts[0].Start, "earliest free slot first")
	for i, alt := range alts {
		assert.Equal(t, time.Hour, alt.Duration(), "alternatives keep the requested duration")
		if i > 0 {
			assert.True(t, alts[i-1].Start.Before(alt.Start), "alternatives are earliest-first")
		}
		hits, ferr := repo.findOverlapping(context.Background(), "prov-1", alt, "")
		require.NoError(t, ferr)
		assert.Empty(t, hits, "suggested alternative %d must itself be conflict-free", i)
	}
}

func TestAlternativesSkipPastSlots(t *testing.T) {
	repo := repoWithBookings(nineToSix(true), span(monday, 10, 0, 11, 0))
	// It is already Monday 16:00; same-day suggestions before that are
	// useless.
	d := newTestDetector(repo, at(monday, 16, 0))

	conflicts, err := d.DetectConflicts(context.Background(), "prov-1", span(monday, 10, 30, 11, 30), "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	for _, alt := range conflicts[0].SuggestedAlternatives {
		assert.False(t, alt.Start.Before(at(monday, 16, 0)), "no alternatives in the past")
	}
}
