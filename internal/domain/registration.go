package domain

import (
	"fmt"
	"time"
)

// CancelReasonSwitched is recorded when a registration is replaced by a
// booking of a different session for the same item.
const CancelReasonSwitched = "switched_session"

// SessionRegistration is one attempt by a user to attend a session instance.
// Cancelled attempts are kept for audit; re-registering creates a new record.
type SessionRegistration struct {
	ID            string
	UserID        string
	SessionID     string
	ItemID        string
	SessionTitle  string
	SessionTypeID string
	Kind          SessionKind
	Milestone     int
	CoachName     string
	StartsAt      *time.Time
	Status        RegistrationStatus
	CancelReason  string
	CertifiedBy   string
	RegisteredAt  time.Time
	AttendedAt    *time.Time
	CertifiedAt   *time.Time
	CancelledAt   *time.Time
	UpdatedAt     time.Time
}

func (r *SessionRegistration) Validate() error {
	if r.UserID == "" {
		return ErrEmptyUserID
	}
	if r.SessionID == "" {
		return ErrEmptySessionID
	}
	if r.ItemID == "" {
		return ErrEmptyItemID
	}
	return nil
}

// IsActive reports whether the registration still counts as a booking.
func (r *SessionRegistration) IsActive() bool { return r.Status != RegistrationCancelled }

// Cancel moves a registration to cancelled. Only registered bookings can be
// cancelled; attendance is final from the user's side.
func (r *SessionRegistration) Cancel(reason string, now time.Time) error {
	if r.Status != RegistrationRegistered {
		return fmt.Errorf("cannot cancel %s registration: %w", r.Status, ErrInvalidTransition)
	}
	r.Status = RegistrationCancelled
	r.CancelReason = reason
	t := now
	r.CancelledAt = &t
	r.UpdatedAt = now
	return nil
}

// MarkAttended records attendance confirmed by the owning user.
func (r *SessionRegistration) MarkAttended(now time.Time) error {
	switch r.Status {
	case RegistrationAttended, RegistrationCertified:
		return nil
	case RegistrationRegistered:
	default:
		return fmt.Errorf("cannot confirm attendance of %s registration: %w", r.Status, ErrInvalidTransition)
	}
	r.Status = RegistrationAttended
	t := now
	r.AttendedAt = &t
	r.UpdatedAt = now
	return nil
}

// Certify is the facilitator-only attended -> certified transition.
func (r *SessionRegistration) Certify(actor Actor, now time.Time) error {
	if !actor.IsFacilitator() {
		return ErrFacilitatorOnly
	}
	if r.Status == RegistrationCertified {
		return nil
	}
	if r.Status != RegistrationAttended {
		return fmt.Errorf("cannot certify %s registration: %w", r.Status, ErrInvalidTransition)
	}
	r.Status = RegistrationCertified
	r.CertifiedBy = actor.ID
	t := now
	r.CertifiedAt = &t
	r.UpdatedAt = now
	return nil
}

// Rank orders non-cancelled registration states by how far they got.
func (s RegistrationStatus) Rank() int {
	switch s {
	case RegistrationRegistered:
		return 1
	case RegistrationAttended:
		return 2
	case RegistrationCertified:
		return 3
	default:
		return 0
	}
}
