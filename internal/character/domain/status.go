package domain

import apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"

// Status is a character's lifecycle state.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusDraft is a character mid-creation, not yet persisted.
	StatusDraft
	// StatusActive is a playable character.
	StatusActive
	// StatusInactive is a temporarily benched character; reversible.
	StatusInactive
	// StatusRetired is terminal and blocks all further economy mutations.
	StatusRetired
)

var statusNames = map[Status]string{
	StatusDraft:    "draft",
	StatusActive:   "active",
	StatusInactive: "inactive",
	StatusRetired:  "retired",
}

// ErrInvalidTransition indicates a disallowed status change.
var ErrInvalidTransition = apperrors.New(apperrors.CodeCharacterInvalidTransition, "status transition is not allowed")

// ErrStatusDisallowsOp indicates an operation blocked by the current status.
var ErrStatusDisallowsOp = apperrors.New(apperrors.CodeCharacterStatusDisallowsOp, "character status does not allow this operation")

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unspecified"
}

// ParseStatus maps a stored status string back to a Status.
func ParseStatus(value string) Status {
	for status, name := range statusNames {
		if name == value {
			return status
		}
	}
	return StatusUnspecified
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
// Draft only activates; Active and Inactive flip freely and both may retire;
// Retired is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusActive
	case StatusActive:
		return next == StatusInactive || next == StatusRetired
	case StatusInactive:
		return next == StatusActive || next == StatusRetired
	default:
		return false
	}
}

// AllowsEconomyChanges reports whether purchases, awards, and RSVPs are
// permitted in this status.
func (s Status) AllowsEconomyChanges() bool {
	return s == StatusActive || s == StatusInactive
}
