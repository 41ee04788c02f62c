package schedulingRepo

import (
	"context"
	"time"

	"turnero/models"
)

// Repository is the storage collaborator for the scheduling and pricing
// engine. The engine holds no cross-call mutable state; this interface is
// the single source of truth for bookings, calendars, and waitlists.
type Repository interface {
	// GetCalendar retrieves a provider's weekly calendar.
	GetCalendar(ctx context.Context, providerID string) (*models.ProviderCalendar, error)
	// UpsertCalendar stores a validated calendar, replacing any prior one.
	UpsertCalendar(ctx context.Context, cal *models.ProviderCalendar) error

	// GetService retrieves a bookable service definition.
	GetService(ctx context.Context, serviceID string) (*models.Service, error)

	// FindOverlappingBookings returns bookings whose half-open interval
	// intersects the given one. Only Confirmed/InProgress bookings are
	// returned; excludeID (optional) is left out of the result.
	FindOverlappingBookings(ctx context.Context, providerID string, interval models.TimeRange, excludeID string) ([]models.Booking, error)
	// FindBookingsBetween returns bookings starting inside [from, to) with
	// any of the given statuses, ordered by start time.
	FindBookingsBetween(ctx context.Context, providerID string, from, to time.Time, statuses []models.BookingStatus) ([]models.Booking, error)
	// CountBookingsOnDay counts Confirmed/InProgress bookings starting on
	// the calendar day of the given instant.
	CountBookingsOnDay(ctx context.Context, providerID string, day time.Time) (int, error)

	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	InsertBooking(ctx context.Context, booking *models.Booking) error
	// InsertBookingSerialized atomically re-checks the interval for
	// overlapping blocking bookings and inserts all given bookings in one
	// transaction. Returns ErrSlotTaken when a concurrent booking won the
	// slot between the caller's conflict check and the insert.
	InsertBookingSerialized(ctx context.Context, bookings ...*models.Booking) error
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error

	InsertWaitlistEntry(ctx context.Context, entry *models.WaitlistEntry) error
	GetWaitlistEntry(ctx context.Context, id string) (*models.WaitlistEntry, error)
	// ActiveWaitlistEntries returns up to limit active entries for the
	// provider, ordered by (priority desc, createdAt asc).
	ActiveWaitlistEntries(ctx context.Context, providerID string, limit int) ([]models.WaitlistEntry, error)
	// ProvidersWithActiveWaitlist lists provider ids that have at least one
	// active waitlist entry, for the periodic sweep.
	ProvidersWithActiveWaitlist(ctx context.Context) ([]string, error)
	MarkWaitlistNotified(ctx context.Context, id string, at time.Time) error
	CancelWaitlistEntry(ctx context.Context, id string) error
}
