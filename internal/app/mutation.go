package app

import "github.com/alexanderramin/waypoint/internal/domain"

// RejectionCode explains why a mutation was refused. Rejections are results,
// not errors: the request was well formed but the lifecycle does not allow it.
type RejectionCode string

const (
	RejectNone              RejectionCode = ""
	RejectUnknownItem       RejectionCode = "UNKNOWN_ITEM"
	RejectNotToggleable     RejectionCode = "NOT_TOGGLEABLE"
	RejectLocked            RejectionCode = "LOCKED"
	RejectRequiresCert      RejectionCode = "REQUIRES_CERTIFICATION"
	RejectNotSkippable      RejectionCode = "NOT_SKIPPABLE"
	RejectNotSessionItem    RejectionCode = "NOT_SESSION_ITEM"
	RejectInvalidTransition RejectionCode = "INVALID_TRANSITION"
	RejectNotOwner          RejectionCode = "NOT_OWNER"
	RejectFacilitatorOnly   RejectionCode = "FACILITATOR_ONLY"
	RejectNotSignedOff      RejectionCode = "NOT_SIGNED_OFF"
	RejectAlreadySignedOff  RejectionCode = "ALREADY_SIGNED_OFF"
	RejectOutOfOrder        RejectionCode = "OUT_OF_ORDER"
)

type MutationResult struct {
	Accepted bool
	Code     RejectionCode
	Message  string
	ItemID   string
	// Changed is false for accepted no-ops such as re-confirming attendance.
	Changed      bool
	Record       *domain.ProgressRecord
	Registration *domain.SessionRegistration
	Milestone    *domain.MilestoneProgress
}

func Accepted(itemID string, changed bool) *MutationResult {
	return &MutationResult{Accepted: true, ItemID: itemID, Changed: changed}
}

func Rejected(itemID string, code RejectionCode, message string) *MutationResult {
	return &MutationResult{ItemID: itemID, Code: code, Message: message}
}

type ScheduleRequest struct {
	UserID       string
	ItemID       string
	SessionID    string
	SessionTitle string
	CoachName    string
	StartsAt     string // RFC3339, optional
}

type ImportResult struct {
	PeriodCount      int
	ItemCount        int
	ResourceCount    int
	SessionTypeCount int
	Diagnostics      int
}
