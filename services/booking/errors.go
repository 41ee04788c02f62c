package booking

import (
	"fmt"

	"turnero/models"
)

// ConflictError is returned when a requested slot cannot be booked; the
// embedded result carries the individual conflicts and any verified
// alternatives.
type ConflictError struct {
	Result models.ConflictResult
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested slot has %d conflict(s)", len(e.Result.Conflicts))
}

// CapacityExceededError is returned when a group is larger than the
// service allows.
type CapacityExceededError struct {
	GroupSize   int
	MaxCapacity int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("group size %d exceeds service capacity %d", e.GroupSize, e.MaxCapacity)
}

// ProviderInactiveError is returned when the provider is not accepting
// bookings at all.
type ProviderInactiveError struct {
	ProviderID string
}

func (e *ProviderInactiveError) Error() string {
	return fmt.Sprintf("provider %s is not accepting bookings", e.ProviderID)
}
