package domain

import "errors"

// Domain errors
var (
	ErrEmptyUserID        = errors.New("user ID cannot be empty")
	ErrMissingStartDate   = errors.New("enrollment start date is required")
	ErrInvalidTransition  = errors.New("invalid registration status transition")
	ErrFacilitatorOnly    = errors.New("requires facilitator certification")
	ErrNotSignedOff       = errors.New("milestone has not been signed off")
	ErrAlreadySignedOff   = errors.New("milestone already signed off")
	ErrMilestoneRange     = errors.New("milestone must be between 1 and 5")
	ErrEmptySessionID     = errors.New("session ID cannot be empty")
	ErrEmptyItemID        = errors.New("item ID cannot be empty")
	ErrInvalidPeriodPhase = errors.New("period phase must be one of: prestart, milestone, ascent")
)
