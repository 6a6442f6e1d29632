package domain

type PhaseKind string

const (
	PhasePreStart  PhaseKind = "prestart"
	PhaseMilestone PhaseKind = "milestone"
	PhaseAscent    PhaseKind = "ascent"
)

// Rank orders phases within the curriculum.
func (k PhaseKind) Rank() int {
	switch k {
	case PhasePreStart:
		return 0
	case PhaseMilestone:
		return 1
	case PhaseAscent:
		return 2
	default:
		return -1
	}
}

// Section names a PreStart sub-section. Milestone and Ascent periods leave it empty.
type Section string

const (
	SectionNone       Section = ""
	SectionOnboarding Section = "onboarding"
	SectionSession1   Section = "session1"
	SectionExplore    Section = "explore"
)

// ValidSections is the canonical set of accepted PreStart section strings.
var ValidSections = map[string]bool{
	"onboarding": true, "session1": true, "explore": true,
}

func (s Section) rank() int {
	switch s {
	case SectionOnboarding:
		return 1
	case SectionSession1:
		return 2
	case SectionExplore:
		return 3
	default:
		return 0
	}
}

type CompletionStrategy string

const (
	StrategySimple            CompletionStrategy = "simple"
	StrategyInteractive       CompletionStrategy = "interactive"
	StrategyResourceView      CompletionStrategy = "resource-view"
	StrategySessionSchedule   CompletionStrategy = "session-schedule"
	StrategyCertificationGate CompletionStrategy = "certification-gate"

	// StrategyAcknowledgement is never configured by admins. It backs the
	// certificate items synthesized after a milestone sign-off.
	StrategyAcknowledgement CompletionStrategy = "acknowledgement"
)

// ValidStrategies is the set of strategy tags accepted in period configuration.
var ValidStrategies = map[string]bool{
	"simple": true, "interactive": true, "resource-view": true,
	"session-schedule": true, "certification-gate": true,
}

// StrategySource records which signal decided an item's completion strategy.
type StrategySource string

const (
	SourceExplicit StrategySource = "explicit"
	SourceResource StrategySource = "resource"
	SourceKeyword  StrategySource = "keyword"
	SourceDefault  StrategySource = "default"
	SourceFallback StrategySource = "fallback"
)

type Category string

const (
	CategoryContent     Category = "content"
	CategoryCoaching    Category = "coaching"
	CategoryCommunity   Category = "community"
	CategoryForm        Category = "form"
	CategoryCertificate Category = "certificate"
)

type ProgressStatus string

const (
	ProgressPending   ProgressStatus = "pending"
	ProgressCompleted ProgressStatus = "completed"
	ProgressSkipped   ProgressStatus = "skipped"
)

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationAttended   RegistrationStatus = "attended"
	RegistrationCertified  RegistrationStatus = "certified"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

type SessionKind string

const (
	SessionCoaching  SessionKind = "coaching"
	SessionCommunity SessionKind = "community"
)

// ValidSessionKinds is the canonical set of accepted session kind strings.
var ValidSessionKinds = map[string]bool{
	"coaching": true, "community": true,
}

type FormKind string

const (
	FormLeaderProfile        FormKind = "leader-profile"
	FormBaselineAssessment   FormKind = "baseline-assessment"
	FormNotificationSetup    FormKind = "notification-setup"
	FormFoundationCommitment FormKind = "foundation-commitment"
	FormConditioningTutorial FormKind = "conditioning-tutorial"
	FormVideoSeries          FormKind = "video-series"
)

// FormKinds lists every interactive flow in display order.
var FormKinds = []FormKind{
	FormLeaderProfile,
	FormBaselineAssessment,
	FormNotificationSetup,
	FormFoundationCommitment,
	FormConditioningTutorial,
	FormVideoSeries,
}

// ValidFormKind reports whether s names a known interactive flow.
func ValidFormKind(s string) bool {
	for _, k := range FormKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleUser        Role = "user"
	RoleFacilitator Role = "facilitator"
)
