package curriculum

import (
	"fmt"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
)

type ViewInput struct {
	Now        time.Time
	Location   *time.Location
	Configs    []domain.PeriodConfig
	Catalog    Catalog
	Snapshot   *ProgressSnapshot
	Enrollment *domain.Enrollment
}

type ItemVerdict struct {
	Item    domain.ActionItem
	Verdict Verdict
}

// View is the assembled state for the presentation layer before session
// memoization is applied to the carry-over set.
type View struct {
	Position         Position
	PhaseLabel       string
	Required         []ItemVerdict
	Optional         []ItemVerdict
	Past             []CarryOverItem
	CarryOver        []CarryOverItem
	ProgressFraction float64
	Diagnostics      []Diagnostic
	// Resolve is bound to the snapshot the view was built from.
	Resolve ResolverFunc
}

// BuildView runs the whole pipeline: gate, normalize, resolve, carry-over.
func BuildView(in ViewInput) View {
	snap := in.Snapshot
	if snap == nil {
		snap = NewSnapshot(nil, nil, nil, nil)
	}

	normalized := NormalizeAll(in.Configs, in.Catalog)
	items := enrichDurations(normalized.Items, in.Catalog)
	snap = snap.ScopeLegacy(currentIDs(items))
	resolve := snap.Resolver()

	var preStart []domain.ActionItem
	for _, item := range items {
		if item.Origin.Phase.Kind == domain.PhasePreStart {
			preStart = append(preStart, item)
		}
	}

	pos := EvaluateGate(GateInput{
		Now:           in.Now,
		Location:      in.Location,
		Enrollment:    in.Enrollment,
		Milestones:    snap.Milestones,
		PreStartItems: preStart,
		Resolve:       resolve,
	})
	pos.Period = CurrentPeriod(pos, items)

	v := View{
		Position:    pos,
		PhaseLabel:  pos.Label(),
		Diagnostics: normalized.Diagnostics,
		Resolve:     resolve,
	}

	current := append(currentItems(pos, items), certificateItems(pos, snap)...)
	var requiredVerdicts []Verdict
	for _, item := range current {
		iv := ItemVerdict{Item: item, Verdict: resolve(item)}
		if item.Required {
			v.Required = append(v.Required, iv)
			requiredVerdicts = append(requiredVerdicts, iv.Verdict)
		} else {
			v.Optional = append(v.Optional, iv)
		}
	}
	v.ProgressFraction = ProgressFraction(requiredVerdicts)

	v.Past = PastRequired(pos, items, resolve)
	for _, c := range v.Past {
		if !c.Verdict.IsComplete() {
			v.CarryOver = append(v.CarryOver, c)
		}
	}
	return v
}

// currentItems selects the items of the period active at pos. Inside a
// day-based phase only the current day and phase-wide entries show.
func currentItems(pos Position, items []domain.ActionItem) []domain.ActionItem {
	if pos.Graduated && pos.Phase.Kind == domain.PhaseMilestone {
		return nil
	}
	// Explore content unlocks with the PreStart gate, which also moves the
	// user into milestone 1, so it is offered alongside milestone 1.
	showExplore := pos.ExploreUnlocked && pos.Phase.Equal(domain.Milestone(1))
	var out []domain.ActionItem
	for _, item := range items {
		if item.Origin.Section == domain.SectionExplore {
			if !showExplore {
				continue
			}
			item.Required = false
			out = append(out, item)
			continue
		}
		if !item.Origin.Phase.Equal(pos.Phase) {
			continue
		}
		if pos.Period.Day > 0 && item.Origin.Day > 0 && item.Origin.Day != pos.Period.Day {
			continue
		}
		out = append(out, item)
	}
	return out
}

// currentIDs lists every id an item can carry today, certificate items
// included.
func currentIDs(items []domain.ActionItem) []string {
	ids := make([]string, 0, len(items)+domain.MilestoneCount)
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	for n := 1; n <= domain.MilestoneCount; n++ {
		ids = append(ids, CertificateItemID(n))
	}
	return ids
}

// certificateItems synthesizes acknowledgement items. The previous milestone
// certificate is optional; the graduation certificate is required and stays
// until acknowledged.
func certificateItems(pos Position, snap *ProgressSnapshot) []domain.ActionItem {
	var out []domain.ActionItem
	if !pos.Graduated && pos.Phase.Kind == domain.PhaseMilestone && pos.Phase.Number > 1 {
		prev := pos.Phase.Number - 1
		if m := snap.Milestone(prev); m.SignedOff && !m.CertificateViewed {
			out = append(out, CertificateItem(prev, false))
		}
	}
	if m := snap.Milestone(domain.MilestoneCount); m.SignedOff && !m.CertificateViewed {
		out = append(out, CertificateItem(domain.MilestoneCount, true))
	}
	return out
}

// CertificateItem builds the acknowledgement item for milestone n.
func CertificateItem(n int, required bool) domain.ActionItem {
	label := fmt.Sprintf("View your %s certificate", domain.Milestone(n).Label())
	if n == domain.MilestoneCount {
		label = "View your graduation certificate"
	}
	return domain.ActionItem{
		ID:             CertificateItemID(n),
		Label:          label,
		Category:       domain.CategoryCertificate,
		ContentType:    "certificate",
		Required:       required,
		Strategy:       domain.StrategyAcknowledgement,
		StrategySource: domain.SourceDefault,
		Origin:         domain.PeriodRef{Phase: domain.Milestone(n)},
		Milestone:      n,
	}
}

func CertificateItemID(n int) string {
	return fmt.Sprintf("certificate-m%d", n)
}

// enrichDurations copies resource durations onto items for display.
func enrichDurations(items []domain.ActionItem, catalog Catalog) []domain.ActionItem {
	for i := range items {
		if items[i].ResourceID == "" {
			continue
		}
		if res, ok := catalog.Resources[items[i].ResourceID]; ok {
			items[i].DurationMinutes = res.DurationMinutes
		}
	}
	return items
}

// FindItem locates an item by id across the normalized curriculum and the
// certificate items currently offered.
func FindItem(in ViewInput, itemID string) (domain.ActionItem, bool) {
	for _, item := range NormalizeAll(in.Configs, in.Catalog).Items {
		if item.ID == itemID {
			return item, true
		}
	}
	for n := 1; n <= domain.MilestoneCount; n++ {
		if itemID == CertificateItemID(n) {
			return CertificateItem(n, n == domain.MilestoneCount), true
		}
	}
	return domain.ActionItem{}, false
}
