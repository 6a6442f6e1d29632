package curriculum

import (
	"sort"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
)

const (
	PointsComplete     = 10
	PointsOnTime       = 5
	PointsCarryOver    = 15
	PointsBeforeNoon   = 3
	PointsPerStreakDay = 2
	PointsPerfectWeek  = 50

	categoryBadgeThreshold = 10
)

type Badge struct {
	ID          string
	Name        string
	Description string
}

var (
	BadgeFirstAction      = Badge{"first_action", "First Steps", "Complete your first action item"}
	BadgeWeekChampion     = Badge{"week_champion", "Week Champion", "Complete all items in a single week"}
	BadgeStreak3          = Badge{"streak_3", "On Fire", "Complete items 3 days in a row"}
	BadgeStreak7          = Badge{"streak_7", "Unstoppable", "Complete items 7 days in a row"}
	BadgeEarlyBird        = Badge{"early_bird", "Early Bird", "Complete an action before noon"}
	BadgeContentMaster    = Badge{"content_master", "Content Master", "Complete 10 content items"}
	BadgeCommunityBuilder = Badge{"community_builder", "Community Builder", "Complete 10 community items"}
	BadgeCoachingChampion = Badge{"coaching_champion", "Coaching Champion", "Complete 10 coaching items"}
	BadgePerfectMonth     = Badge{"perfect_month", "Perfect Month", "Complete 4 weeks with all items done"}
	BadgeComebackKid      = Badge{"comeback_kid", "Comeback Kid", "Complete a carried-over item"}
)

type Stats struct {
	TotalCompleted       int
	TotalSkipped         int
	TotalCarriedOver     int
	CarriedOverCompleted int
	ContentCompleted     int
	CommunityCompleted   int
	CoachingCompleted    int
	EarlyCompletions     int
	PerfectWeeks         int
	CurrentStreak        int
	LongestStreak        int
	Points               int
	Badges               []Badge
}

// ComputeStats derives gamification statistics from progress records.
// Day boundaries are taken in loc.
func ComputeStats(records []domain.ProgressRecord, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.UTC
	}
	var s Stats
	var days []time.Time
	weeks := map[int][2]int{}

	for _, r := range records {
		if r.CarriedOver {
			s.TotalCarriedOver++
		}
		if r.OriginWeek > 0 {
			w := weeks[r.OriginWeek]
			w[0]++
			if r.IsCompleted() {
				w[1]++
			}
			weeks[r.OriginWeek] = w
		}
		switch r.Status {
		case domain.ProgressSkipped:
			s.TotalSkipped++
			continue
		case domain.ProgressCompleted:
		default:
			continue
		}

		s.TotalCompleted++
		s.Points += PointsComplete
		if r.CarriedOver {
			s.CarriedOverCompleted++
			s.Points += PointsCarryOver
		} else {
			s.Points += PointsOnTime
		}
		switch r.Category {
		case domain.CategoryContent:
			s.ContentCompleted++
		case domain.CategoryCommunity:
			s.CommunityCompleted++
		case domain.CategoryCoaching:
			s.CoachingCompleted++
		}
		if r.CompletedAt != nil {
			local := r.CompletedAt.In(loc)
			if local.Hour() < 12 {
				s.EarlyCompletions++
				s.Points += PointsBeforeNoon
			}
			days = append(days, local)
		}
	}

	for _, w := range weeks {
		if w[0] > 0 && w[0] == w[1] {
			s.PerfectWeeks++
		}
	}
	s.Points += s.PerfectWeeks * PointsPerfectWeek

	s.CurrentStreak, s.LongestStreak = streaks(days, now.In(loc))
	s.Points += s.CurrentStreak * PointsPerStreakDay
	s.Badges = earnedBadges(s)
	return s
}

// streaks counts consecutive calendar days with a completion. The current
// streak must reach today or yesterday.
func streaks(completions []time.Time, now time.Time) (current, longest int) {
	if len(completions) == 0 {
		return 0, 0
	}
	seen := map[time.Time]bool{}
	var days []time.Time
	for _, t := range completions {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	run := 1
	longest = 1
	first := 0 // length of the run containing the most recent day
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) == 24*time.Hour {
			run++
		} else {
			if first == 0 {
				first = run
			}
			run = 1
		}
		longest = max(longest, run)
	}
	if first == 0 {
		first = run
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if days[0].Equal(today) || days[0].Equal(today.AddDate(0, 0, -1)) {
		current = first
	}
	return current, longest
}

func earnedBadges(s Stats) []Badge {
	var out []Badge
	add := func(ok bool, b Badge) {
		if ok {
			out = append(out, b)
		}
	}
	add(s.TotalCompleted >= 1, BadgeFirstAction)
	add(s.PerfectWeeks >= 1, BadgeWeekChampion)
	add(s.LongestStreak >= 3, BadgeStreak3)
	add(s.LongestStreak >= 7, BadgeStreak7)
	add(s.EarlyCompletions >= 1, BadgeEarlyBird)
	add(s.ContentCompleted >= categoryBadgeThreshold, BadgeContentMaster)
	add(s.CommunityCompleted >= categoryBadgeThreshold, BadgeCommunityBuilder)
	add(s.CoachingCompleted >= categoryBadgeThreshold, BadgeCoachingChampion)
	add(s.PerfectWeeks >= 4, BadgePerfectMonth)
	add(s.CarriedOverCompleted >= 1, BadgeComebackKid)
	return out
}
