package domain

import (
	"fmt"
	"time"
)

// MilestoneCount is the number of facilitator-gated milestones in the program.
const MilestoneCount = 5

var milestoneNames = map[int]string{
	1: "Foundation",
	2: "Feedback",
	3: "Boundaries",
	4: "Delegation",
	5: "Mastery",
}

// MilestoneName returns the display name for milestone n, or "" if n is out of range.
func MilestoneName(n int) string {
	return milestoneNames[n]
}

// Phase is a position in the curriculum: PreStart, Milestone(1..5) or Ascent(week).
type Phase struct {
	Kind   PhaseKind
	Number int
}

func PreStart() Phase { return Phase{Kind: PhasePreStart} }

func Milestone(n int) Phase { return Phase{Kind: PhaseMilestone, Number: n} }

func AscentWeek(week int) Phase { return Phase{Kind: PhaseAscent, Number: week} }

func (p Phase) IsZero() bool { return p.Kind == "" }

func (p Phase) Equal(o Phase) bool { return p.Kind == o.Kind && p.Number == o.Number }

// Compare orders phases in curriculum order. It returns -1, 0 or 1.
func (p Phase) Compare(o Phase) int {
	if r, or := p.Kind.Rank(), o.Kind.Rank(); r != or {
		return cmpInt(r, or)
	}
	return cmpInt(p.Number, o.Number)
}

func (p Phase) Before(o Phase) bool { return p.Compare(o) < 0 }

func (p Phase) String() string {
	switch p.Kind {
	case PhasePreStart:
		return "PreStart"
	case PhaseMilestone:
		return fmt.Sprintf("Milestone(%d)", p.Number)
	case PhaseAscent:
		return fmt.Sprintf("Ascent(week %d)", p.Number)
	default:
		return "Unknown"
	}
}

// Label is the human-facing phase label shown by the presentation layer.
func (p Phase) Label() string {
	switch p.Kind {
	case PhasePreStart:
		return "Pre-Start"
	case PhaseMilestone:
		if name := MilestoneName(p.Number); name != "" {
			return fmt.Sprintf("Milestone %d: %s", p.Number, name)
		}
		return fmt.Sprintf("Milestone %d", p.Number)
	case PhaseAscent:
		return fmt.Sprintf("Ascent - Week %d", p.Number)
	default:
		return "Unknown"
	}
}

// PeriodRef identifies the period an item originates from.
type PeriodRef struct {
	Phase    Phase
	PeriodID string
	Section  Section
	Day      int // absolute program day, 0 when the period is not day-based
}

// Compare orders periods chronologically: phase, then day, then PreStart section.
func (r PeriodRef) Compare(o PeriodRef) int {
	if c := r.Phase.Compare(o.Phase); c != 0 {
		return c
	}
	if r.Day != o.Day {
		return cmpInt(r.Day, o.Day)
	}
	return cmpInt(r.Section.rank(), o.Section.rank())
}

func (r PeriodRef) Label() string {
	if r.Section != SectionNone {
		return fmt.Sprintf("%s / %s", r.Phase.Label(), r.Section)
	}
	if r.Day != 0 {
		return fmt.Sprintf("%s / Day %d", r.Phase.Label(), r.Day)
	}
	return r.Phase.Label()
}

// Enrollment carries the per-user dates the gate needs besides sign-offs.
type Enrollment struct {
	UserID      string
	StartDate   time.Time
	AscentStart *time.Time // overrides the milestone 5 sign-off time when set
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e *Enrollment) Validate() error {
	if e.UserID == "" {
		return ErrEmptyUserID
	}
	if e.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
