package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnero/models"
	"turnero/services/scheduling"
)

func groupRequest(participants ...string) models.GroupBookingRequest {
	return models.GroupBookingRequest{
		LeadClientID:   "lead-1",
		ParticipantIDs: participants,
		ServiceID:      "svc-1",
		ProviderID:     "prov-1",
		Interval:       interval,
	}
}

func TestGroupPricingTiers(t *testing.T) {
	for _, tc := range []struct {
		size                       int
		perPerson, total, discount float64
	}{
		{1, 2000, 2000, 0},
		{2, 1800, 3600, 400},
		{3, 1700, 5100, 900},
		{4, 1700, 6800, 1200},
		{5, 1600, 8000, 2000},
		{8, 1600, 12800, 3200},
	} {
		perPerson, total, discount := GroupPricing(2000, tc.size)
		assert.Equal(t, tc.perPerson, perPerson, "per-person for size %d", tc.size)
		assert.Equal(t, tc.total, total, "total for size %d", tc.size)
		assert.Equal(t, tc.discount, discount, "discount for size %d", tc.size)
	}
}

func TestGroupPricingAddsUpExactly(t *testing.T) {
	// Per-person is rounded first and the total derived from it, so what
	// the clients pay always sums to the reported total.
	for size := 1; size <= 10; size++ {
		perPerson, total, discount := GroupPricing(333, size)
		assert.Equal(t, perPerson*float64(size), total, "size %d", size)
		assert.GreaterOrEqual(t, discount, 0.0, "size %d", size)
		assert.LessOrEqual(t, total, 333*float64(size), "a bigger group never pays more per head")
	}
}

func TestRequestGroupBookingAllocatesWholeParty(t *testing.T) {
	repo := &fakeRepo{service: &models.Service{ID: "svc-1", BasePrice: 2000, MaxCapacity: 10}}
	svc, _ := newTestService(repo, stubDetector{}, models.PriceQuote{FinalPrice: 2000})

	result, err := svc.RequestGroupBooking(context.Background(), groupRequest("p1", "p2"))
	require.NoError(t, err)

	assert.Equal(t, 3, result.GroupSize)
	assert.Equal(t, 1700.0, result.PerPersonPrice)
	assert.Equal(t, 5100.0, result.TotalCost)
	assert.Equal(t, 900.0, result.Discount)

	require.Len(t, repo.inserted, 3, "lead and participants insert in one transaction")
	lead := result.LeadBooking
	assert.Equal(t, models.GroupRoleLead, lead.Group.Role)
	assert.Equal(t, 3, lead.Group.GroupSize)
	require.Len(t, result.ParticipantBookings, 2)
	for _, p := range result.ParticipantBookings {
		assert.Equal(t, models.GroupRoleParticipant, p.Group.Role)
		assert.Equal(t, lead.ID, p.Group.LeadBookingID)
		assert.Equal(t, lead.Interval(), p.Interval(), "the party shares one slot")
		assert.Equal(t, 1700.0, p.TotalAmount)
	}
}

func TestRequestGroupBookingDiscountsBasePriceNotQuote(t *testing.T) {
	// A surge-priced quote must not leak into the group tiers: the
	// discount composes with the raw service price.
	repo := &fakeRepo{service: &models.Service{ID: "svc-1", BasePrice: 2000, MaxCapacity: 10}}
	svc, _ := newTestService(repo, stubDetector{}, models.PriceQuote{BasePrice: 2000, FinalPrice: 2500})

	result, err := svc.RequestGroupBooking(context.Background(), groupRequest("p1", "p2"))
	require.NoError(t, err)
	assert.Equal(t, 1700.0, result.PerPersonPrice)
	assert.Equal(t, 5100.0, result.TotalCost)
	assert.Equal(t, 900.0, result.Discount)
}

func TestRequestGroupBookingCapacityExceeded(t *testing.T) {
	repo := &fakeRepo{service: &models.Service{ID: "svc-1", BasePrice: 2000, MaxCapacity: 2}}
	svc, _ := newTestService(repo, stubDetector{}, models.PriceQuote{FinalPrice: 2000})

	_, err := svc.RequestGroupBooking(context.Background(), groupRequest("p1", "p2"))
	var cerr *CapacityExceededError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 3, cerr.GroupSize)
	assert.Equal(t, 2, cerr.MaxCapacity)
	assert.Empty(t, repo.inserted)
}

func TestRequestGroupBookingUndeclaredCapacityFailsClosed(t *testing.T) {
	repo := &fakeRepo{service: &models.Service{ID: "svc-1", BasePrice: 2000}}
	svc, _ := newTestService(repo, stubDetector{}, models.PriceQuote{})

	_, err := svc.RequestGroupBooking(context.Background(), groupRequest("p1"))
	var cerr *CapacityExceededError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, cerr.MaxCapacity, "a service without a declared capacity admits one person")
}

func TestRequestGroupBookingRejectsConflicts(t *testing.T) {
	repo := &fakeRepo{service: &models.Service{ID: "svc-1", BasePrice: 2000, MaxCapacity: 10}}
	detector := stubDetector{conflicts: []models.Conflict{{Kind: models.ConflictOverlap}}}
	svc, _ := newTestService(repo, detector, models.PriceQuote{FinalPrice: 2000})

	_, err := svc.RequestGroupBooking(context.Background(), groupRequest("p1"))
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Empty(t, repo.inserted, "a conflicted slot books nobody, not part of the group")
}

func TestRequestGroupBookingRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(&fakeRepo{}, stubDetector{}, models.PriceQuote{})

	var verr *scheduling.ValidationError
	_, err := svc.RequestGroupBooking(context.Background(), groupRequest("p1", "p1"))
	require.ErrorAs(t, err, &verr)

	_, err = svc.RequestGroupBooking(context.Background(), groupRequest("lead-1"))
	require.ErrorAs(t, err, &verr, "the lead cannot also be a participant")
}
