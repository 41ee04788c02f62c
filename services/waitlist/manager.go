package waitlist

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/models"
	"turnero/services/notification"
	"turnero/services/scheduling"
	"turnero/utils"
)

// Manager owns the priority waitlist: enqueueing standing requests and
// matching newly freed slots against waiting clients.
type Manager interface {
	// Enqueue registers a standing request for a provider's slots.
	Enqueue(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// ProcessProvider scans the provider's top waitlist entries against the
	// freed interval and notifies the single best match. Entries stay on the
	// list until the client actually rebooks or cancels.
	ProcessProvider(ctx context.Context, providerID string, freed models.TimeRange) error
	// Cancel removes an entry from consideration without deleting it.
	Cancel(ctx context.Context, entryID string) error
}

// Debouncer suppresses repeat notifications for the same entry within a
// time window.
type Debouncer interface {
	// Allow reports whether a notification for the entry may be sent now,
	// and reserves the window if so.
	Allow(ctx context.Context, entryID string, window time.Duration) (bool, error)
}

// RedisDebouncer reserves windows with SETNX so the guard holds across
// multiple instances of the service.
type RedisDebouncer struct {
	Client *redis.Client
}

func (d RedisDebouncer) Allow(ctx context.Context, entryID string, window time.Duration) (bool, error) {
	key := "waitlist:notify:" + entryID
	ok, err := d.Client.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve notification window for entry %s: %w", entryID, err)
	}
	return ok, nil
}

// DefaultManager is the production Manager.
type DefaultManager struct {
	Repo        schedulingRepo.Repository
	Detector    scheduling.ConflictDetector
	Notifier    notification.Notifier
	Debounce    Debouncer
	TopK        int
	DebounceTTL time.Duration
	Now         func() time.Time
}

func NewDefaultManager(repo schedulingRepo.Repository, detector scheduling.ConflictDetector, notifier notification.Notifier, debounce Debouncer, topK int, debounceTTL time.Duration) *DefaultManager {
	return &DefaultManager{
		Repo:        repo,
		Detector:    detector,
		Notifier:    notifier,
		Debounce:    debounce,
		TopK:        topK,
		DebounceTTL: debounceTTL,
		Now:         time.Now,
	}
}

func (m *DefaultManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *DefaultManager) Enqueue(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if entry.ClientID == "" {
		return nil, scheduling.NewValidationError("clientId", "must not be empty")
	}
	if entry.ProviderID == "" {
		return nil, scheduling.NewValidationError("providerId", "must not be empty")
	}
	if len(entry.PreferredIntervals) == 0 {
		return nil, scheduling.NewValidationError("preferredIntervals", "at least one interval is required")
	}
	for i, iv := range entry.PreferredIntervals {
		if !iv.IsValid() {
			return nil, scheduling.NewValidationError(
				fmt.Sprintf("preferredIntervals[%d]", i), "start must precede end")
		}
	}
	if entry.Priority < 0 {
		return nil, scheduling.NewValidationError("priority", "must not be negative")
	}
	switch entry.Flexibility {
	case models.FlexibilityLow, models.FlexibilityMedium, models.FlexibilityHigh:
	case "":
		entry.Flexibility = models.FlexibilityLow
	default:
		return nil, scheduling.NewValidationError("flexibility", "must be low, medium, or high")
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.Status = models.WaitlistActive
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = m.now()
	}

	if err := m.Repo.InsertWaitlistEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to enqueue waitlist entry: %w", err)
	}
	utils.GetLogger().Info("Waitlist entry enqueued",
		zap.String("entryID", entry.ID),
		zap.String("providerID", entry.ProviderID),
		zap.Int("priority", entry.Priority))
	return entry, nil
}

// ProcessProvider walks the top entries in (priority desc, createdAt asc)
// order and notifies the first that has a conflict-free interval to offer:
// the freed interval when the entry's preferences accept it, otherwise the
// entry's own preferred intervals, each verified against current state.
// Entries with no open interval are passed over; only one client is
// notified per sweep and the rest keep their place.
func (m *DefaultManager) ProcessProvider(ctx context.Context, providerID string, freed models.TimeRange) error {
	logger := utils.GetLogger().With(zap.String("providerID", providerID))

	entries, err := m.Repo.ActiveWaitlistEntries(ctx, providerID, m.TopK)
	if err != nil {
		return fmt.Errorf("failed to load waitlist for provider %s: %w", providerID, err)
	}

	for _, entry := range entries {
		match, ok, err := m.openIntervalFor(ctx, providerID, entry, freed)
		if err != nil {
			return fmt.Errorf("failed to verify slots for entry %s: %w", entry.ID, err)
		}
		if !ok {
			logger.Debug("No open interval for waitlist entry",
				zap.String("entryID", entry.ID))
			continue
		}

		if !m.shouldNotify(ctx, entry) {
			// Best match already pinged recently. Do not fall through to a
			// lower-priority entry; that would jump the queue.
			return nil
		}

		if err := m.notify(ctx, entry, match); err != nil {
			// Delivery failure must not poison the sweep; the entry stays
			// active and the next sweep retries.
			logger.Warn("Failed to notify waitlisted client",
				zap.String("entryID", entry.ID), zap.Error(err))
			return nil
		}

		at := m.now()
		if err := m.Repo.MarkWaitlistNotified(ctx, entry.ID, at); err != nil {
			logger.Warn("Failed to record waitlist notification time",
				zap.String("entryID", entry.ID), zap.Error(err))
		}
		logger.Info("Waitlisted client notified of open slot",
			zap.String("entryID", entry.ID),
			zap.String("clientID", entry.ClientID),
			zap.Time("slotStart", match.Start))
		return nil
	}
	return nil
}

func (m *DefaultManager) Cancel(ctx context.Context, entryID string) error {
	if err := m.Repo.CancelWaitlistEntry(ctx, entryID); err != nil {
		return fmt.Errorf("failed to cancel waitlist entry %s: %w", entryID, err)
	}
	utils.GetLogger().Info("Waitlist entry cancelled", zap.String("entryID", entryID))
	return nil
}

// openIntervalFor finds a conflict-free interval to offer the entry. A
// valid freed interval that the entry's preferences accept is tried first,
// so a cancellation hands its slot straight to the best-placed client.
// Failing that, each preferred interval is verified against current state
// in order. Past intervals are never offered.
func (m *DefaultManager) openIntervalFor(ctx context.Context, providerID string, entry models.WaitlistEntry, freed models.TimeRange) (models.TimeRange, bool, error) {
	if freed.IsValid() && freed.End.After(m.now()) && m.acceptsFreed(entry, freed) {
		free, err := m.intervalFree(ctx, providerID, freed)
		if err != nil {
			return models.TimeRange{}, false, err
		}
		if free {
			return freed, true, nil
		}
	}
	for _, pref := range entry.PreferredIntervals {
		if !pref.End.After(m.now()) {
			continue
		}
		free, err := m.intervalFree(ctx, providerID, pref)
		if err != nil {
			return models.TimeRange{}, false, err
		}
		if free {
			return pref, true, nil
		}
	}
	return models.TimeRange{}, false, nil
}

// acceptsFreed reports whether the freed interval satisfies one of the
// entry's preferences. Higher flexibility widens the acceptable distance
// from the preferred start.
func (m *DefaultManager) acceptsFreed(entry models.WaitlistEntry, freed models.TimeRange) bool {
	slack := flexibilitySlack(entry.Flexibility)
	for _, pref := range entry.PreferredIntervals {
		if pref.Overlaps(freed) {
			return true
		}
		gap := pref.Start.Sub(freed.Start)
		if gap < 0 {
			gap = -gap
		}
		if gap <= slack {
			return true
		}
	}
	return false
}

func (m *DefaultManager) intervalFree(ctx context.Context, providerID string, iv models.TimeRange) (bool, error) {
	conflicts, err := m.Detector.DetectConflicts(ctx, providerID, iv, "")
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

func flexibilitySlack(f models.Flexibility) time.Duration {
	switch f {
	case models.FlexibilityHigh:
		return 24 * time.Hour
	case models.FlexibilityMedium:
		return 4 * time.Hour
	default:
		return 0
	}
}

// shouldNotify applies both guards: the persisted last-notified timestamp
// and the shared Redis reservation. Either one suppressing is final.
func (m *DefaultManager) shouldNotify(ctx context.Context, entry models.WaitlistEntry) bool {
	if entry.LastNotifiedAt != nil && m.now().Sub(*entry.LastNotifiedAt) < m.DebounceTTL {
		return false
	}
	if m.Debounce == nil {
		return true
	}
	ok, err := m.Debounce.Allow(ctx, entry.ID, m.DebounceTTL)
	if err != nil {
		// Fail open: a cache outage should not silence the waitlist. The
		// persisted timestamp still bounds repeats.
		utils.GetLogger().Warn("Debounce check failed, notifying anyway",
			zap.String("entryID", entry.ID), zap.Error(err))
		return true
	}
	return ok
}

func (m *DefaultManager) notify(ctx context.Context, entry models.WaitlistEntry, slot models.TimeRange) error {
	payload := models.NotificationPayload{
		Type:     "waitlist_slot_available",
		ClientID: entry.ClientID,
		Title:    "A slot opened up",
		Body: fmt.Sprintf("A slot on %s is now available. Book soon to claim it.",
			slot.Start.Format("Mon Jan 2 15:04")),
		Data: map[string]string{
			"entryId":    entry.ID,
			"providerId": entry.ProviderID,
			"slotStart":  slot.Start.Format(time.RFC3339),
			"slotEnd":    slot.End.Format(time.RFC3339),
		},
		SentAt: m.now(),
	}
	return m.Notifier.Notify(ctx, payload)
}
