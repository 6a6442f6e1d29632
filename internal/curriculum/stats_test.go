package curriculum

import (
	"testing"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/stretchr/testify/assert"
)

func doneAt(id string, at time.Time, cat domain.Category, carried bool) domain.ProgressRecord {
	t := at
	return domain.ProgressRecord{ItemID: id, Status: domain.ProgressCompleted, CompletedAt: &t, Category: cat, CarriedOver: carried}
}

func badgeIDs(bs []Badge) []string {
	var out []string
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil, testNow, time.UTC)
	assert.Zero(t, s.Points)
	assert.Empty(t, s.Badges)
}

func TestComputeStats_Points(t *testing.T) {
	morning := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 14, 19, 0, 0, 0, time.UTC)
	records := []domain.ProgressRecord{
		doneAt("a", morning, domain.CategoryContent, false),
		doneAt("b", evening, domain.CategoryCoaching, true),
		{ItemID: "c", Status: domain.ProgressSkipped},
		{ItemID: "d", Status: domain.ProgressPending},
	}
	s := ComputeStats(records, testNow, time.UTC)

	assert.Equal(t, 2, s.TotalCompleted)
	assert.Equal(t, 1, s.TotalSkipped)
	assert.Equal(t, 1, s.CarriedOverCompleted)
	assert.Equal(t, 1, s.EarlyCompletions)
	assert.Equal(t, 2, s.CurrentStreak)
	// a: 10+5+3, b: 10+15, streak: 2*2
	assert.Equal(t, 18+25+4, s.Points)
	assert.Equal(t, []string{"first_action", "early_bird", "comeback_kid"}, badgeIDs(s.Badges))
}

func TestStreaks(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 6, d, 20, 0, 0, 0, time.UTC) }
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	current, longest := streaks([]time.Time{day(14), day(13), day(10), day(9), day(8), day(7)}, now)
	assert.Equal(t, 2, current)
	assert.Equal(t, 4, longest)

	current, longest = streaks([]time.Time{day(10), day(9)}, now)
	assert.Equal(t, 0, current, "a streak ending before yesterday is broken")
	assert.Equal(t, 2, longest)

	current, _ = streaks([]time.Time{day(15), day(15), day(14)}, now)
	assert.Equal(t, 2, current, "same-day completions count once")
}

func TestComputeStats_PerfectWeek(t *testing.T) {
	r1 := doneAt("a", testNow, domain.CategoryContent, false)
	r1.OriginWeek = 1
	r2 := doneAt("b", testNow, domain.CategoryContent, false)
	r2.OriginWeek = 1
	r3 := domain.ProgressRecord{ItemID: "c", Status: domain.ProgressPending, OriginWeek: 2}
	s := ComputeStats([]domain.ProgressRecord{r1, r2, r3}, testNow, time.UTC)
	assert.Equal(t, 1, s.PerfectWeeks)
	assert.Contains(t, badgeIDs(s.Badges), "week_champion")
}
