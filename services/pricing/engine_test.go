package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/models"
)

type fakeRepo struct {
	schedulingRepo.Repository
	service     *models.Service
	bookedOnDay int
}

func (f *fakeRepo) GetService(context.Context, string) (*models.Service, error) {
	return f.service, nil
}

func (f *fakeRepo) CountBookingsOnDay(context.Context, string, time.Time) (int, error) {
	return f.bookedOnDay, nil
}

// saturday is a fixed weekend reference outside the holiday months and
// outside both peak windows at 14:00.
var saturday = time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

func clock(day time.Time, hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func newTestEngine(t *testing.T, repo *fakeRepo, rules []models.PricingRule, now time.Time) *DefaultEngine {
	t.Helper()
	e, err := NewDefaultEngine(repo, StaticSource{Rules: rules}, 8)
	require.NoError(t, err)
	e.Now = func() time.Time { return now }
	return e
}

func standardService() *models.Service {
	return &models.Service{
		ID:        "svc-1",
		BasePrice: 1000,
		Currency:  "USD",
	}
}

func TestQuoteNoMatchingRules(t *testing.T) {
	repo := &fakeRepo{service: standardService()}
	// Tuesday 14:00, booked well in advance, low demand, March.
	tuesday := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	e := newTestEngine(t, repo, DefaultRules(), clock(tuesday.AddDate(0, 0, -7), 14, 0))

	quote, err := e.Quote(context.Background(), "svc-1", "prov-1", clock(tuesday, 14, 0))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, quote.BasePrice)
	assert.Equal(t, 1000.0, quote.FinalPrice)
	assert.Empty(t, quote.AppliedRules)
	assert.Equal(t, "USD", quote.Currency)
}

func TestQuoteWeekendLastMinute(t *testing.T) {
	repo := &fakeRepo{service: standardService()}
	// Quoting Saturday 14:00 one hour ahead: weekend and last-minute
	// premiums stack, 1000 * 1.15 * 1.25 = 1437.5, rounded once to 1438.
	e := newTestEngine(t, repo, DefaultRules(), clock(saturday, 13, 0))

	quote, err := e.Quote(context.Background(), "svc-1", "prov-1", clock(saturday, 14, 0))
	require.NoError(t, err)
	assert.Equal(t, 1438.0, quote.FinalPrice)
	require.Len(t, quote.AppliedRules, 2)
	assert.Equal(t, "Weekend Premium", quote.AppliedRules[0].Name)
	assert.Equal(t, "Last Minute Booking", quote.AppliedRules[1].Name)
}

func TestQuoteIndependentOfRuleOrder(t *testing.T) {
	repo := &fakeRepo{service: standardService()}
	rules := DefaultRules()
	// Invert every priority; the final price must not move.
	for i := range rules {
		rules[i].Priority = -rules[i].Priority
	}
	e := newTestEngine(t, repo, rules, clock(saturday, 13, 0))

	quote, err := e.Quote(context.Background(), "svc-1", "prov-1", clock(saturday, 14, 0))
	require.NoError(t, err)
	assert.Equal(t, 1438.0, quote.FinalPrice)
}

func TestQuoteRoundsOnceAtTheEnd(t *testing.T) {
	repo := &fakeRepo{service: &models.Service{ID: "svc-1", BasePrice: 990, Currency: "USD"}}
	weekend := models.RuleCondition{Weekends: true}
	rules := []models.PricingRule{
		{Name: "A", Kind: models.RuleTimeOfDay, Multiplier: 1.15, Priority: 1, Condition: weekend},
		{Name: "B", Kind: models.RuleTimeOfDay, Multiplier: 1.15, Priority: 2, Condition: weekend},
	}
	e := newTestEngine(t, repo, rules, clock(saturday.AddDate(0, 0, -7), 14, 0))

	quote, err := e.Quote(context.Background(), "svc-1", "prov-1", clock(saturday, 14, 0))
	require.NoError(t, err)
	// 990 * 1.15 * 1.15 = 1309.275 -> 1309. Rounding per step would give
	// round(round(1138.5) * 1.15) = 1310.
	assert.Equal(t, 1309.0, quote.FinalPrice)
}

func TestQuotePeakWindowBoundsInclusive(t *testing.T) {
	repo := &fakeRepo{service: standardService()}
	tuesday := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	e := newTestEngine(t, repo, DefaultRules(), clock(tuesday.AddDate(0, 0, -7), 14, 0))

	for _, tc := range []struct {
		hour, min int
		want      float64
	}{
		{18, 0, 1200},  // window start
		{20, 0, 1200},  // window end, still included
		{20, 1, 1000},  // just past
		{10, 30, 1200}, // morning window
		{9, 59, 1000},
	} {
		quote, err := e.Quote(context.Background(), "svc-1", "prov-1", clock(tuesday, tc.hour, tc.min))
		require.NoError(t, err)
		assert.Equal(t, tc.want, quote.FinalPrice, "at %02d:%02d", tc.hour, tc.min)
	}
}

func TestQuoteDemandSurge(t *testing.T) {
	tuesday := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := clock(tuesday.AddDate(0, 0, -7), 14, 0)

	crowded := &fakeRepo{service: standardService(), bookedOnDay: 7}
	e := newTestEngine(t, crowded, DefaultRules(), now)
	quote, err := e.Quote(context.Background(), "svc-1", "prov-1", clock(tuesday, 14, 0))
	require.NoError(t, err)
	assert.Equal(t, 1300.0, quote.FinalPrice, "7/8 booked crosses the 0.8 threshold")

	quiet := &fakeRepo{service: standardService(), bookedOnDay: 6}
	e = newTestEngine(t, quiet, DefaultRules(), now)
	quote, err = e.Quote(context.Background(), "svc-1", "prov-1", clock(tuesday, 14, 0))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, quote.FinalPrice, "6/8 booked stays below the threshold")
}

func TestQuoteHolidaySeason(t *testing.T) {
	repo := &fakeRepo{service: standardService()}
	// A Wednesday mid-December afternoon, booked far ahead.
	december := time.Date(2026, 12, 16, 0, 0, 0, 0, time.UTC)
	e := newTestEngine(t, repo, DefaultRules(), clock(december.AddDate(0, 0, -30), 14, 0))

	quote, err := e.Quote(context.Background(), "svc-1", "prov-1", clock(december, 14, 0))
	require.NoError(t, err)
	assert.Equal(t, 1100.0, quote.FinalPrice)
	require.Len(t, quote.AppliedRules, 1)
	assert.Equal(t, "Holiday Season", quote.AppliedRules[0].Name)
}

func TestReloadSwapsRules(t *testing.T) {
	repo := &fakeRepo{service: standardService()}
	e := newTestEngine(t, repo, nil, clock(saturday, 13, 0))

	quote, err := e.Quote(context.Background(), "svc-1", "prov-1", clock(saturday, 14, 0))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, quote.FinalPrice)

	e.Source = StaticSource{Rules: DefaultRules()}
	require.NoError(t, e.Reload())

	quote, err = e.Quote(context.Background(), "svc-1", "prov-1", clock(saturday, 14, 0))
	require.NoError(t, err)
	assert.Equal(t, 1438.0, quote.FinalPrice)
}
