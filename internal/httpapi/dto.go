package httpapi

import (
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/domain"
)

type itemDTO struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Category        string `json:"category"`
	ContentType     string `json:"content_type,omitempty"`
	Required        bool   `json:"required"`
	Strategy        string `json:"strategy"`
	StrategySource  string `json:"strategy_source"`
	Status          string `json:"status"`
	Reason          string `json:"reason"`
	MatchedBy       string `json:"matched_by,omitempty"`
	Session         string `json:"session,omitempty"`
	RegistrationID  string `json:"registration_id,omitempty"`
	Form            string `json:"form,omitempty"`
	Milestone       int    `json:"milestone,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	FromPeriod      string `json:"from_period,omitempty"`
	Toggleable      bool   `json:"toggleable"`
}

type positionDTO struct {
	Phase              string     `json:"phase"`
	Number             int        `json:"number,omitempty"`
	Graduated          bool       `json:"graduated"`
	ExploreUnlocked    bool       `json:"explore_unlocked"`
	OnboardingComplete bool       `json:"onboarding_complete"`
	Session1Complete   bool       `json:"session1_complete"`
	SignedOff          int        `json:"signed_off"`
	AscentStart        *time.Time `json:"ascent_start,omitempty"`
	Day                int        `json:"day,omitempty"`
}

type viewDTO struct {
	PhaseLabel       string      `json:"phase_label"`
	Position         positionDTO `json:"position"`
	Required         []itemDTO   `json:"required"`
	Optional         []itemDTO   `json:"optional"`
	CarryOver        []itemDTO   `json:"carry_over"`
	ProgressFraction float64     `json:"progress_fraction"`
	AllCaughtUp      bool        `json:"all_caught_up"`
	Warnings         []string    `json:"warnings,omitempty"`
	Diagnostics      []string    `json:"diagnostics,omitempty"`
	GeneratedAt      time.Time   `json:"generated_at"`
}

type registrationDTO struct {
	ID           string     `json:"id"`
	ItemID       string     `json:"item_id"`
	SessionID    string     `json:"session_id"`
	SessionTitle string     `json:"session_title"`
	Kind         string     `json:"kind"`
	Milestone    int        `json:"milestone,omitempty"`
	CoachName    string     `json:"coach_name,omitempty"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	Status       string     `json:"status"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CertifiedBy  string     `json:"certified_by,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
}

type mutationDTO struct {
	ItemID       string           `json:"item_id,omitempty"`
	Changed      bool             `json:"changed"`
	Status       string           `json:"status,omitempty"`
	Registration *registrationDTO `json:"registration,omitempty"`
	Milestone    int              `json:"milestone,omitempty"`
}

type badgeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type statsDTO struct {
	TotalCompleted       int        `json:"total_completed"`
	TotalSkipped         int        `json:"total_skipped"`
	CarriedOverCompleted int        `json:"carried_over_completed"`
	CurrentStreak        int        `json:"current_streak"`
	LongestStreak        int        `json:"longest_streak"`
	PerfectWeeks         int        `json:"perfect_weeks"`
	Points               int        `json:"points"`
	Badges               []badgeDTO `json:"badges"`
}

func toItemDTOs(items []app.ItemView) []itemDTO {
	out := make([]itemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, itemDTO{
			ID:              it.ID,
			Label:           it.Label,
			Category:        string(it.Category),
			ContentType:     it.ContentType,
			Required:        it.Required,
			Strategy:        string(it.Strategy),
			StrategySource:  string(it.StrategySource),
			Status:          string(it.Status),
			Reason:          string(it.Reason),
			MatchedBy:       string(it.MatchedBy),
			Session:         string(it.Session),
			RegistrationID:  it.RegistrationID,
			Form:            string(it.Form),
			Milestone:       it.Milestone,
			DurationMinutes: it.DurationMinutes,
			FromPeriod:      it.FromPeriod,
			Toggleable:      it.Toggleable,
		})
	}
	return out
}

func toPositionDTO(p curriculum.Position) positionDTO {
	return positionDTO{
		Phase:              string(p.Phase.Kind),
		Number:             p.Phase.Number,
		Graduated:          p.Graduated,
		ExploreUnlocked:    p.ExploreUnlocked,
		OnboardingComplete: p.OnboardingComplete,
		Session1Complete:   p.Session1Complete,
		SignedOff:          p.SignedOff,
		AscentStart:        p.AscentStart,
		Day:                p.Day,
	}
}

func toViewDTO(v *app.CurrentView) viewDTO {
	out := viewDTO{
		PhaseLabel:       v.PhaseLabel,
		Position:         toPositionDTO(v.Position),
		Required:         toItemDTOs(v.RequiredItems),
		Optional:         toItemDTOs(v.OptionalItems),
		CarryOver:        toItemDTOs(v.CarryOverItems),
		ProgressFraction: v.ProgressFraction,
		AllCaughtUp:      v.AllCaughtUp,
		Warnings:         v.Warnings,
		GeneratedAt:      v.GeneratedAt,
	}
	for _, d := range v.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, d.String())
	}
	return out
}

func toRegistrationDTO(r *domain.SessionRegistration) *registrationDTO {
	if r == nil {
		return nil
	}
	return &registrationDTO{
		ID:           r.ID,
		ItemID:       r.ItemID,
		SessionID:    r.SessionID,
		SessionTitle: r.SessionTitle,
		Kind:         string(r.Kind),
		Milestone:    r.Milestone,
		CoachName:    r.CoachName,
		StartsAt:     r.StartsAt,
		Status:       string(r.Status),
		CancelReason: r.CancelReason,
		CertifiedBy:  r.CertifiedBy,
		RegisteredAt: r.RegisteredAt,
	}
}

func toMutationDTO(res *app.MutationResult) mutationDTO {
	out := mutationDTO{
		ItemID:       res.ItemID,
		Changed:      res.Changed,
		Registration: toRegistrationDTO(res.Registration),
	}
	if res.Record != nil {
		out.Status = string(res.Record.Status)
	}
	if res.Milestone != nil {
		out.Milestone = res.Milestone.Milestone
	}
	return out
}

func toStatsDTO(s *curriculum.Stats) statsDTO {
	out := statsDTO{
		TotalCompleted:       s.TotalCompleted,
		TotalSkipped:         s.TotalSkipped,
		CarriedOverCompleted: s.CarriedOverCompleted,
		CurrentStreak:        s.CurrentStreak,
		LongestStreak:        s.LongestStreak,
		PerfectWeeks:         s.PerfectWeeks,
		Points:               s.Points,
		Badges:               []badgeDTO{},
	}
	for _, b := range s.Badges {
		out.Badges = append(out.Badges, badgeDTO{ID: b.ID, Name: b.Name})
	}
	return out
}
