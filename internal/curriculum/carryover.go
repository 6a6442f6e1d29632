package curriculum

import (
	"sort"

	"github.com/alexanderramin/waypoint/internal/domain"
)

// CarryOverItem is a required item from an earlier period, tagged with where
// it came from.
type CarryOverItem struct {
	Item       domain.ActionItem
	FromPeriod domain.PeriodRef
	Verdict    Verdict
}

// PastRequired resolves every required item whose period lies strictly
// before the current one, oldest first, keeping the first occurrence of
// each id.
func PastRequired(pos Position, items []domain.ActionItem, resolve ResolverFunc) []CarryOverItem {
	var past []CarryOverItem
	for _, item := range items {
		if !item.Required || !pos.Passed(item.Origin) {
			continue
		}
		if item.Origin.Section == domain.SectionExplore {
			continue
		}
		past = append(past, CarryOverItem{Item: item, FromPeriod: item.Origin})
	}
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].FromPeriod.Compare(past[j].FromPeriod) < 0
	})

	seen := make(map[string]bool, len(past))
	out := past[:0]
	for _, c := range past {
		if seen[c.Item.ID] {
			continue
		}
		seen[c.Item.ID] = true
		c.Verdict = resolve(c.Item)
		out = append(out, c)
	}
	return out
}

// ComputeCarryOver returns the past required items that are not complete.
func ComputeCarryOver(pos Position, items []domain.ActionItem, resolve ResolverFunc) []CarryOverItem {
	var out []CarryOverItem
	for _, c := range PastRequired(pos, items, resolve) {
		if !c.Verdict.IsComplete() {
			out = append(out, c)
		}
	}
	return out
}

type MergeResult struct {
	Items []CarryOverItem
	// Surfaced is the id set to remember for the rest of the session.
	Surfaced []string
	// AllCaughtUp is set on the refresh that clears a previously shown set.
	AllCaughtUp bool
}

// MergeCarryOver applies session memoization. An item already surfaced stays
// in the set after it is completed, until nothing in the set is outstanding.
// Items whose defining entry was removed drop out because they are absent
// from past.
func MergeCarryOver(surfaced []string, past []CarryOverItem) MergeResult {
	shown := make(map[string]bool, len(surfaced))
	for _, id := range surfaced {
		shown[id] = true
	}

	var res MergeResult
	outstanding := 0
	for _, c := range past {
		complete := c.Verdict.IsComplete()
		if !complete {
			outstanding++
		}
		if complete && !shown[c.Item.ID] {
			continue
		}
		res.Items = append(res.Items, c)
		res.Surfaced = append(res.Surfaced, c.Item.ID)
	}

	if outstanding == 0 {
		return MergeResult{AllCaughtUp: len(surfaced) > 0}
	}
	return res
}
