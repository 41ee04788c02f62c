package schedulingRepo

import "errors"

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSlotTaken is returned by InsertBookingSerialized when a concurrent
	// booking claimed an overlapping interval first.
	ErrSlotTaken = errors.New("slot already taken")
)
