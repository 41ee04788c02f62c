package models

// ConflictKind classifies why a requested interval cannot be booked as-is.
type ConflictKind string

const (
	ConflictOverlap          ConflictKind = "overlap"
	ConflictOutsideHours     ConflictKind = "outside_hours"
	ConflictBreakOverlap     ConflictKind = "break_overlap"
	ConflictProviderInactive ConflictKind = "provider_inactive"
)

// Severity ranks how actionable a conflict is for the requester.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Conflict is one reason a requested interval is not bookable, optionally
// carrying verified free alternatives.
type Conflict struct {
	Kind                  ConflictKind `json:"kind"`
	Severity              Severity     `json:"severity"`
	Description           string       `json:"description"`
	SuggestedAlternatives []TimeRange  `json:"suggestedAlternatives,omitempty"`
}

// ConflictResult is the outcome of an availability check.
type ConflictResult struct {
	HasConflicts bool       `json:"hasConflicts"`
	Conflicts    []Conflict `json:"conflicts,omitempty"`
}
