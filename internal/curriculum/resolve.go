package curriculum

import "github.com/alexanderramin/waypoint/internal/domain"

type VerdictStatus string

const (
	StatusComplete VerdictStatus = "complete"
	StatusPending  VerdictStatus = "pending"
	StatusBlocked  VerdictStatus = "blocked"
)

type Reason string

const (
	ReasonCompleted             Reason = "completed"
	ReasonNotCompleted          Reason = "not completed"
	ReasonSkipped               Reason = "skipped"
	ReasonFormSubmitted         Reason = "form submitted"
	ReasonFormNotSubmitted      Reason = "form not submitted"
	ReasonNotScheduled          Reason = "not scheduled"
	ReasonScheduled             Reason = "scheduled"
	ReasonAttended              Reason = "attended"
	ReasonCertified             Reason = "certified"
	ReasonAwaitingCertification Reason = "awaiting certification"
	ReasonCertificateViewed     Reason = "certificate viewed"
	ReasonCertificateNotViewed  Reason = "certificate not viewed"
)

// MatchedBy names the signal that produced a verdict.
type MatchedBy string

const (
	MatchNone         MatchedBy = ""
	MatchID           MatchedBy = "id"
	MatchHandler      MatchedBy = "handler"
	MatchLabel        MatchedBy = "label"
	MatchForm         MatchedBy = "form"
	MatchRegistration MatchedBy = "registration"
	MatchMilestone    MatchedBy = "milestone"
)

// SessionState is the scheduling sub-state surfaced for session items.
type SessionState string

const (
	SessionNone        SessionState = ""
	SessionUnscheduled SessionState = "not scheduled"
	SessionScheduled   SessionState = "scheduled"
	SessionAttended    SessionState = "attended"
	SessionCertified   SessionState = "certified"
)

type Verdict struct {
	ItemID         string
	Status         VerdictStatus
	Reason         Reason
	MatchedBy      MatchedBy
	Session        SessionState
	RegistrationID string
}

func (v Verdict) IsComplete() bool { return v.Status == StatusComplete }

// ResolverFunc resolves one item against an already fetched snapshot.
type ResolverFunc func(domain.ActionItem) Verdict

// Resolver binds Resolve to the snapshot.
func (s *ProgressSnapshot) Resolver() ResolverFunc {
	return func(item domain.ActionItem) Verdict { return Resolve(item, s) }
}

// Resolve computes the completion verdict of an item, dispatching strictly on
// its completion strategy.
func Resolve(item domain.ActionItem, snap *ProgressSnapshot) Verdict {
	v := Verdict{ItemID: item.ID, Status: StatusPending}
	switch item.Strategy {
	case domain.StrategyInteractive:
		return resolveForm(item, snap, v)
	case domain.StrategySessionSchedule:
		return resolveSession(item, snap, v)
	case domain.StrategyCertificationGate:
		return resolveCertification(item, snap, v)
	case domain.StrategyAcknowledgement:
		return resolveCertificate(item, snap, v)
	default:
		return resolveRecord(item, snap, v)
	}
}

// resolveRecord handles simple and resource-view items. A record stored under
// the item id is authoritative; handler and label matches only cover items
// that have no such record.
func resolveRecord(item domain.ActionItem, snap *ProgressSnapshot, v Verdict) Verdict {
	if r, ok := snap.Record(item.ID); ok {
		v.MatchedBy = MatchID
		switch r.Status {
		case domain.ProgressCompleted:
			v.Status, v.Reason = StatusComplete, ReasonCompleted
		case domain.ProgressSkipped:
			v.Reason = ReasonSkipped
		default:
			v.Reason = ReasonNotCompleted
		}
		return v
	}
	if _, ok := snap.completedByHandler(item.HandlerTag); ok {
		v.Status, v.Reason, v.MatchedBy = StatusComplete, ReasonCompleted, MatchHandler
		return v
	}
	if _, ok := snap.completedByLabel(item.Origin.Phase, item.Label); ok {
		v.Status, v.Reason, v.MatchedBy = StatusComplete, ReasonCompleted, MatchLabel
		return v
	}
	v.Reason = ReasonNotCompleted
	return v
}

func resolveForm(item domain.ActionItem, snap *ProgressSnapshot, v Verdict) Verdict {
	v.MatchedBy = MatchForm
	if snap.Forms[item.Form] {
		v.Status, v.Reason = StatusComplete, ReasonFormSubmitted
		return v
	}
	v.Reason = ReasonFormNotSubmitted
	return v
}

func resolveSession(item domain.ActionItem, snap *ProgressSnapshot, v Verdict) Verdict {
	reg, ok := snap.registrationFor(item)
	if !ok {
		v.Reason, v.Session = ReasonNotScheduled, SessionUnscheduled
		return v
	}
	v.MatchedBy, v.RegistrationID = MatchRegistration, reg.ID
	switch reg.Status {
	case domain.RegistrationCertified:
		v.Status, v.Reason, v.Session = StatusComplete, ReasonCertified, SessionCertified
	case domain.RegistrationAttended:
		v.Status, v.Reason, v.Session = StatusComplete, ReasonAttended, SessionAttended
	default:
		v.Reason, v.Session = ReasonScheduled, SessionScheduled
	}
	return v
}

// resolveCertification only accepts a certified registration. Attendance
// alone leaves the item blocked on the facilitator.
func resolveCertification(item domain.ActionItem, snap *ProgressSnapshot, v Verdict) Verdict {
	reg, ok := snap.registrationFor(item)
	if !ok {
		v.Reason, v.Session = ReasonNotScheduled, SessionUnscheduled
		return v
	}
	v.MatchedBy, v.RegistrationID = MatchRegistration, reg.ID
	switch reg.Status {
	case domain.RegistrationCertified:
		v.Status, v.Reason, v.Session = StatusComplete, ReasonCertified, SessionCertified
	case domain.RegistrationAttended:
		v.Status, v.Reason, v.Session = StatusBlocked, ReasonAwaitingCertification, SessionAttended
	default:
		v.Reason, v.Session = ReasonScheduled, SessionScheduled
	}
	return v
}

func resolveCertificate(item domain.ActionItem, snap *ProgressSnapshot, v Verdict) Verdict {
	v.MatchedBy = MatchMilestone
	if snap.Milestone(item.Milestone).CertificateViewed {
		v.Status, v.Reason = StatusComplete, ReasonCertificateViewed
		return v
	}
	v.Reason = ReasonCertificateNotViewed
	return v
}

// ProgressFraction is the share of complete verdicts. Scheduled sessions and
// sessions awaiting certification do not count.
func ProgressFraction(verdicts []Verdict) float64 {
	if len(verdicts) == 0 {
		return 0
	}
	done := 0
	for _, v := range verdicts {
		if v.IsComplete() {
			done++
		}
	}
	return float64(done) / float64(len(verdicts))
}
