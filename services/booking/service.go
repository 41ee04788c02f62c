package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/models"
	"turnero/services/pricing"
	"turnero/services/scheduling"
	"turnero/services/waitlist"
	"turnero/utils"
)

// Service is the booking facade: availability checks, quotes, single and
// group reservations, waitlisting, and cancellation.
type Service interface {
	CheckAvailability(ctx context.Context, providerID string, interval models.TimeRange) (models.ConflictResult, error)
	QuotePrice(ctx context.Context, serviceID, providerID string, requestedTime time.Time) (models.PriceQuote, error)
	RequestBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	RequestGroupBooking(ctx context.Context, req models.GroupBookingRequest) (*models.GroupBookingResult, error)
	EnqueueWaitlist(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// OnBookingCancelled cancels the booking and sweeps the provider's
	// waitlist against the freed interval.
	OnBookingCancelled(ctx context.Context, bookingID string) error
}

// DefaultService is the production Service.
type DefaultService struct {
	Repo         schedulingRepo.Repository
	Detector     scheduling.ConflictDetector
	Pricing      pricing.Engine
	Waitlist     waitlist.Manager
	SweepTimeout time.Duration
	Now          func() time.Time
}

func NewDefaultService(repo schedulingRepo.Repository, detector scheduling.ConflictDetector, engine pricing.Engine, wl waitlist.Manager) *DefaultService {
	return &DefaultService{
		Repo:         repo,
		Detector:     detector,
		Pricing:      engine,
		Waitlist:     wl,
		SweepTimeout: 10 * time.Second,
		Now:          time.Now,
	}
}

func (s *DefaultService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultService) CheckAvailability(ctx context.Context, providerID string, interval models.TimeRange) (models.ConflictResult, error) {
	conflicts, err := s.Detector.DetectConflicts(ctx, providerID, interval, "")
	if err != nil {
		return models.ConflictResult{}, err
	}
	return models.ConflictResult{HasConflicts: len(conflicts) > 0, Conflicts: conflicts}, nil
}

func (s *DefaultService) QuotePrice(ctx context.Context, serviceID, providerID string, requestedTime time.Time) (models.PriceQuote, error) {
	return s.Pricing.Quote(ctx, serviceID, providerID, requestedTime)
}

func (s *DefaultService) RequestBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	result, err := s.CheckAvailability(ctx, req.ProviderID, req.Interval)
	if err != nil {
		return nil, err
	}
	if result.HasConflicts {
		return nil, conflictOrInactive(req.ProviderID, result)
	}

	quote, err := s.Pricing.Quote(ctx, req.ServiceID, req.ProviderID, req.Interval.Start)
	if err != nil {
		return nil, err
	}

	booking := s.buildBooking(req, quote.FinalPrice, appliedRuleNames(quote), nil)
	if err := s.Repo.InsertBookingSerialized(ctx, booking); err != nil {
		return nil, s.mapInsertError(ctx, req.ProviderID, req.Interval, err)
	}

	utils.GetLogger().Info("Booking confirmed",
		zap.String("bookingID", booking.ID),
		zap.String("providerID", booking.ProviderID),
		zap.Float64("totalAmount", booking.TotalAmount))
	return booking, nil
}

func (s *DefaultService) EnqueueWaitlist(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	return s.Waitlist.Enqueue(ctx, entry)
}

func (s *DefaultService) OnBookingCancelled(ctx context.Context, bookingID string) error {
	booking, err := s.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	if booking.Status.Terminal() {
		return scheduling.NewValidationError("bookingId",
			fmt.Sprintf("booking is already %s", booking.Status))
	}

	if err := s.Repo.UpdateBookingStatus(ctx, bookingID, models.StatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", bookingID, err)
	}
	utils.GetLogger().Info("Booking cancelled",
		zap.String("bookingID", bookingID),
		zap.String("providerID", booking.ProviderID))

	// The waitlist sweep is best effort; a failure must not undo the
	// cancellation. It gets its own deadline so a slow sweep cannot hold
	// the caller's request open.
	sweepCtx, cancel := context.WithTimeout(context.Background(), s.SweepTimeout)
	defer cancel()
	if err := s.Waitlist.ProcessProvider(sweepCtx, booking.ProviderID, booking.Interval()); err != nil {
		utils.GetLogger().Warn("Waitlist sweep after cancellation failed",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
	return nil
}

func (s *DefaultService) buildBooking(req models.BookingRequest, amount float64, ruleNames []string, group *models.GroupInfo) *models.Booking {
	return &models.Booking{
		ID:           uuid.New().String(),
		ProviderID:   req.ProviderID,
		ClientID:     req.ClientID,
		ServiceID:    req.ServiceID,
		Start:        req.Interval.Start,
		End:          req.Interval.End,
		Status:       models.StatusConfirmed,
		TotalAmount:  amount,
		AppliedRules: ruleNames,
		Group:        group,
		CreatedAt:    s.now(),
	}
}

// mapInsertError turns a lost-race insert into the same conflict shape a
// normal availability check produces, so callers see one failure mode.
func (s *DefaultService) mapInsertError(ctx context.Context, providerID string, interval models.TimeRange, err error) error {
	if !errors.Is(err, schedulingRepo.ErrSlotTaken) {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	result, derr := s.CheckAvailability(ctx, providerID, interval)
	if derr != nil || !result.HasConflicts {
		// The winning booking may not be visible yet; report the overlap
		// directly rather than claiming the slot is free.
		result = models.ConflictResult{
			HasConflicts: true,
			Conflicts: []models.Conflict{{
				Kind:        models.ConflictOverlap,
				Severity:    models.SeverityHigh,
				Description: "slot was taken by a concurrent booking",
			}},
		}
	}
	return &ConflictError{Result: result}
}

func conflictOrInactive(providerID string, result models.ConflictResult) error {
	for _, c := range result.Conflicts {
		if c.Kind == models.ConflictProviderInactive {
			return &ProviderInactiveError{ProviderID: providerID}
		}
	}
	return &ConflictError{Result: result}
}

func appliedRuleNames(quote models.PriceQuote) []string {
	if len(quote.AppliedRules) == 0 {
		return nil
	}
	names := make([]string, len(quote.AppliedRules))
	for i, r := range quote.AppliedRules {
		names[i] = r.Name
	}
	return names
}

func validateBookingRequest(req models.BookingRequest) error {
	if req.ProviderID == "" {
		return scheduling.NewValidationError("providerId", "must not be empty")
	}
	if req.ClientID == "" {
		return scheduling.NewValidationError("clientId", "must not be empty")
	}
	if req.ServiceID == "" {
		return scheduling.NewValidationError("serviceId", "must not be empty")
	}
	if !req.Interval.IsValid() {
		return scheduling.NewValidationError("interval", "start must precede end")
	}
	return nil
}
