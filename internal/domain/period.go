package domain

import "time"

// PeriodConfig is the admin-authored definition of one period: a PreStart
// sub-section, a milestone, an Ascent week, or a single day inside one of them.
type PeriodConfig struct {
	ID      string
	Phase   PhaseKind
	Number  int // milestone number or ascent week; 0 for PreStart
	Section Section
	Day     int
	Title   string

	Actions      []ActionDefinition
	WeeklySlots  []WeeklySlot
	SessionSlots []SessionSlot
	FormSlots    []FormSlot

	UpdatedAt time.Time
}

// Ref returns the period reference items of this config are tagged with.
func (c *PeriodConfig) Ref() PeriodRef {
	return PeriodRef{
		Phase:    Phase{Kind: c.Phase, Number: c.Number},
		PeriodID: c.ID,
		Section:  c.Section,
		Day:      c.Day,
	}
}

func (c *PeriodConfig) Validate() error {
	if c.Phase.Rank() < 0 {
		return ErrInvalidPeriodPhase
	}
	return nil
}

// ActionDefinition is one raw day action as authored in the CMS.
type ActionDefinition struct {
	ID           string
	Label        string
	ContentType  string // video, reading, workout, daily_rep, ...
	Optional     bool
	ResourceID   string
	ResourceType string
	Strategy     string // optional explicit CompletionStrategy tag
	SlotKey      string // content-independent key that survives label edits
	HandlerTag   string // legacy progress key used before the id scheme change
	Form         string // FormKind for interactive actions
	SessionType  string
}

// WeeklySlot is a coaching or community slot defined once per period that
// applies to every day inside it.
type WeeklySlot struct {
	ID          string
	Kind        SessionKind
	Label       string
	SessionType string
	ResourceID  string
	Optional    bool
}

// SessionSlot references a coaching/community session type for a milestone.
// A certifying slot can only be completed by facilitator certification.
type SessionSlot struct {
	ID          string
	Kind        SessionKind
	Label       string
	SessionType string
	Certifies   bool
	Optional    bool
}

// FormSlot places an interactive collaborator form in a period.
type FormSlot struct {
	ID       string
	Label    string
	Form     FormKind
	Optional bool
}

// ActionItem is the canonical unit of required or optional work.
type ActionItem struct {
	ID              string
	Label           string
	Category        Category
	ContentType     string
	Required        bool
	Strategy        CompletionStrategy
	StrategySource  StrategySource
	Origin          PeriodRef
	ResourceID      string
	SessionType     string
	Form            FormKind
	HandlerTag      string
	DurationLookup  bool
	DurationMinutes int
	Milestone       int // owning or acknowledged milestone, 0 outside milestones
}

// ResourceMetadata describes a piece of collaborator content.
type ResourceMetadata struct {
	ID              string
	Type            string
	Title           string
	DurationMinutes int
}

// SessionType is a collaborator-defined coaching or community session format.
type SessionType struct {
	ID    string
	Kind  SessionKind
	Title string
}
