package curriculum

import (
	"math"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
)

type GateInput struct {
	Now time.Time
	// Location decides where a program day starts; nil means UTC.
	Location   *time.Location
	Enrollment *domain.Enrollment
	Milestones []domain.MilestoneProgress
	// PreStartItems are the normalized PreStart items; only required
	// onboarding and session1 entries take part in the gate.
	PreStartItems []domain.ActionItem
	Resolve       ResolverFunc
}

// Position is where the gate places a user. It is recomputed from facts on
// every evaluation and holds no state of its own.
type Position struct {
	Phase              domain.Phase
	Graduated          bool
	ExploreUnlocked    bool
	OnboardingComplete bool
	Session1Complete   bool
	SignedOff          int
	AscentStart        *time.Time
	Day                int // program day, 0 without an enrollment
	// Period narrows Phase to the day period in progress. Day stays 0 for
	// PreStart and for phases without day periods.
	Period domain.PeriodRef
}

// CarryOverBoundary is the phase whose predecessors feed carry-over. A
// graduated user waiting for Ascent has every milestone behind them.
func (p Position) CarryOverBoundary() domain.Phase {
	if p.Graduated && p.Phase.Kind == domain.PhaseMilestone {
		return domain.Phase{Kind: domain.PhaseAscent, Number: 0}
	}
	return p.Phase
}

// Passed reports whether ref lies strictly before the current period: an
// earlier phase, or an earlier day of a day-based current phase.
func (p Position) Passed(ref domain.PeriodRef) bool {
	boundary := p.CarryOverBoundary()
	if ref.Phase.Before(boundary) {
		return true
	}
	return ref.Phase.Equal(boundary) && p.Period.Day > 0 && ref.Day > 0 && ref.Day < p.Period.Day
}

// Unreached reports whether ref lies after the current period.
func (p Position) Unreached(ref domain.PeriodRef) bool {
	if p.Phase.Before(ref.Phase) {
		return true
	}
	return ref.Phase.Equal(p.Phase) && p.Period.Day > 0 && ref.Day > p.Period.Day
}

func (p Position) Label() string {
	if p.Graduated && p.Phase.Kind == domain.PhaseMilestone {
		return "Graduated"
	}
	return p.Phase.Label()
}

// EvaluateGate places the user in the curriculum.
func EvaluateGate(in GateInput) Position {
	pos := Position{
		SignedOff:          domain.SignedOffCount(in.Milestones),
		OnboardingComplete: SectionComplete(in.PreStartItems, domain.SectionOnboarding, in.Resolve),
		Session1Complete:   SectionComplete(in.PreStartItems, domain.SectionSession1, in.Resolve),
	}
	if in.Enrollment != nil {
		pos.Day = DayNumber(in.Enrollment.StartDate, in.Now, in.Location)
	}

	gatePassed := pos.OnboardingComplete && pos.Session1Complete
	// A milestone 1 sign-off is authoritative even when PreStart is incomplete.
	pos.ExploreUnlocked = gatePassed || pos.SignedOff > 0
	if !pos.ExploreUnlocked {
		pos.Phase = domain.PreStart()
		return pos
	}

	if pos.SignedOff < domain.MilestoneCount {
		pos.Phase = domain.Milestone(pos.SignedOff + 1)
		return pos
	}

	pos.Graduated = true
	pos.Phase = domain.Milestone(domain.MilestoneCount)
	pos.AscentStart = ascentStart(in.Enrollment, in.Milestones)
	if pos.AscentStart != nil && !in.Now.Before(*pos.AscentStart) {
		pos.Phase = domain.AscentWeek(AscentWeek(*pos.AscentStart, in.Now))
	}
	return pos
}

// CurrentPeriod picks the day period in progress inside pos.Phase: the
// latest day not after the program day, or the first day when the program
// day precedes them all.
func CurrentPeriod(pos Position, items []domain.ActionItem) domain.PeriodRef {
	ref := domain.PeriodRef{Phase: pos.Phase}
	if pos.Phase.Kind == domain.PhasePreStart || (pos.Graduated && pos.Phase.Kind == domain.PhaseMilestone) {
		return ref
	}
	first, latest := 0, 0
	for _, item := range items {
		d := item.Origin.Day
		if d <= 0 || !item.Origin.Phase.Equal(pos.Phase) {
			continue
		}
		if first == 0 || d < first {
			first = d
		}
		if pos.Day > 0 && d <= pos.Day && d > latest {
			latest = d
		}
	}
	if latest == 0 {
		latest = first
	}
	ref.Day = latest
	return ref
}

// SectionComplete reports whether every required item of a PreStart section
// resolves complete. A section with no required items is complete.
func SectionComplete(items []domain.ActionItem, section domain.Section, resolve ResolverFunc) bool {
	for _, item := range items {
		if item.Origin.Phase.Kind != domain.PhasePreStart || item.Origin.Section != section || !item.Required {
			continue
		}
		if !resolve(item).IsComplete() {
			return false
		}
	}
	return true
}

func ascentStart(e *domain.Enrollment, milestones []domain.MilestoneProgress) *time.Time {
	if e != nil && e.AscentStart != nil {
		return e.AscentStart
	}
	final := domain.MilestoneIndex(milestones)[domain.MilestoneCount]
	return final.SignedOffAt
}

// AscentWeek is ceil(days since start / 7), never below 1.
func AscentWeek(start, now time.Time) int {
	days := now.Sub(start).Hours() / 24
	return max(1, int(math.Ceil(days/7)))
}

// DayNumber counts program days from the start date. There is no day 0: the
// start date is day 1 and the day before it is day -1. The start is a
// calendar date; now is read on the wall clock of loc.
func DayNumber(start, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(math.Round(n.Sub(s).Hours() / 24))
	if days >= 0 {
		return days + 1
	}
	return days
}
