package booking

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"turnero/models"
	"turnero/services/scheduling"
	"turnero/utils"
)

// GroupPricing computes the per-person price, total cost, and absolute
// discount for a party of the given size. Discount tiers: 20% from 5
// people, 15% from 3, 10% from 2. The per-person price is rounded and the
// total derived from it, so the charged amounts always add up exactly.
func GroupPricing(basePrice float64, groupSize int) (perPerson, total, discount float64) {
	var pct float64
	switch {
	case groupSize >= 5:
		pct = 0.20
	case groupSize >= 3:
		pct = 0.15
	case groupSize >= 2:
		pct = 0.10
	}
	perPerson = math.Round(basePrice * (1 - pct))
	total = perPerson * float64(groupSize)
	discount = basePrice*float64(groupSize) - total
	return perPerson, total, discount
}

// RequestGroupBooking reserves one slot for a lead client plus
// participants. All members share the interval; the whole set inserts in
// one serialized transaction so a group never half-books.
func (s *DefaultService) RequestGroupBooking(ctx context.Context, req models.GroupBookingRequest) (*models.GroupBookingResult, error) {
	if err := validateGroupRequest(req); err != nil {
		return nil, err
	}

	svc, err := s.Repo.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service %s: %w", req.ServiceID, err)
	}
	size := req.GroupSize()
	// A service that never declared a capacity admits one person, not
	// everyone.
	capacity := svc.MaxCapacity
	if capacity <= 0 {
		capacity = 1
	}
	if size > capacity {
		return nil, &CapacityExceededError{GroupSize: size, MaxCapacity: capacity}
	}

	// One conflict check covers the whole group: everyone shares the slot.
	result, err := s.CheckAvailability(ctx, req.ProviderID, req.Interval)
	if err != nil {
		return nil, err
	}
	if result.HasConflicts {
		return nil, conflictOrInactive(req.ProviderID, result)
	}

	// Group tiers compose with the raw service price; dynamic pricing
	// rules do not apply to group allocations.
	perPerson, total, discount := GroupPricing(svc.BasePrice, size)

	lead := s.buildBooking(models.BookingRequest{
		ProviderID: req.ProviderID,
		ClientID:   req.LeadClientID,
		ServiceID:  req.ServiceID,
		Interval:   req.Interval,
	}, perPerson, nil, &models.GroupInfo{
		Role:      models.GroupRoleLead,
		GroupSize: size,
	})

	bookings := make([]*models.Booking, 0, size)
	bookings = append(bookings, lead)
	participants := make([]models.Booking, 0, len(req.ParticipantIDs))
	for _, clientID := range req.ParticipantIDs {
		b := s.buildBooking(models.BookingRequest{
			ProviderID: req.ProviderID,
			ClientID:   clientID,
			ServiceID:  req.ServiceID,
			Interval:   req.Interval,
		}, perPerson, nil, &models.GroupInfo{
			Role:          models.GroupRoleParticipant,
			LeadBookingID: lead.ID,
			GroupSize:     size,
		})
		bookings = append(bookings, b)
	}

	if err := s.Repo.InsertBookingSerialized(ctx, bookings...); err != nil {
		return nil, s.mapInsertError(ctx, req.ProviderID, req.Interval, err)
	}

	for _, b := range bookings[1:] {
		participants = append(participants, *b)
	}
	utils.GetLogger().Info("Group booking confirmed",
		zap.String("leadBookingID", lead.ID),
		zap.String("providerID", req.ProviderID),
		zap.Int("groupSize", size),
		zap.Float64("totalCost", total),
		zap.Float64("discount", discount))

	return &models.GroupBookingResult{
		LeadBooking:         *lead,
		ParticipantBookings: participants,
		GroupSize:           size,
		PerPersonPrice:      perPerson,
		TotalCost:           total,
		Discount:            discount,
	}, nil
}

func validateGroupRequest(req models.GroupBookingRequest) error {
	if req.ProviderID == "" {
		return scheduling.NewValidationError("providerId", "must not be empty")
	}
	if req.LeadClientID == "" {
		return scheduling.NewValidationError("leadClientId", "must not be empty")
	}
	if req.ServiceID == "" {
		return scheduling.NewValidationError("serviceId", "must not be empty")
	}
	if !req.Interval.IsValid() {
		return scheduling.NewValidationError("interval", "start must precede end")
	}
	seen := map[string]bool{req.LeadClientID: true}
	for _, id := range req.ParticipantIDs {
		if id == "" {
			return scheduling.NewValidationError("participantIds", "must not contain empty ids")
		}
		if seen[id] {
			return scheduling.NewValidationError("participantIds",
				fmt.Sprintf("client %s appears more than once", id))
		}
		seen[id] = true
	}
	return nil
}
