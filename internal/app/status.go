package app

import (
	"time"

	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/domain"
)

type ViewRequest struct {
	UserID string
	// SessionID scopes carry-over memoization. Empty uses a per-request
	// session, which disables memoization.
	SessionID string
	Now       *time.Time
}

func NewViewRequest(userID, sessionID string) ViewRequest {
	return ViewRequest{UserID: userID, SessionID: sessionID}
}

// ItemView is one resolved item as shown to the user.
type ItemView struct {
	ID              string
	Label           string
	Category        domain.Category
	ContentType     string
	Required        bool
	Strategy        domain.CompletionStrategy
	StrategySource  domain.StrategySource
	Status          curriculum.VerdictStatus
	Reason          curriculum.Reason
	MatchedBy       curriculum.MatchedBy
	Session         curriculum.SessionState
	RegistrationID  string
	SessionType     string
	Form            domain.FormKind
	Milestone       int
	DurationMinutes int
	DurationLookup  bool
	// FromPeriod is set on carry-over items.
	FromPeriod string
	// Toggleable is false for items whose completion is owned elsewhere.
	Toggleable bool
}

type CurrentView struct {
	UserID           string
	PhaseLabel       string
	Position         curriculum.Position
	RequiredItems    []ItemView
	OptionalItems    []ItemView
	CarryOverItems   []ItemView
	ProgressFraction float64
	// AllCaughtUp is set once, on the refresh that clears the remembered
	// carry-over set.
	AllCaughtUp bool
	Diagnostics []curriculum.Diagnostic
	Warnings    []string
	GeneratedAt time.Time
}

// ProgressionErrorCode classifies request errors that are the caller's fault.
type ProgressionErrorCode string

const (
	ErrCodeInvalidRequest ProgressionErrorCode = "INVALID_REQUEST"
	ErrCodeNotEnrolled    ProgressionErrorCode = "NOT_ENROLLED"
	ErrCodeNotFound       ProgressionErrorCode = "NOT_FOUND"
)

type ProgressionError struct {
	Code    ProgressionErrorCode
	Message string
}

func (e *ProgressionError) Error() string {
	return string(e.Code) + ": " + e.Message
}
