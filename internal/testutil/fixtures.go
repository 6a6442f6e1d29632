package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/google/uuid"
)

// FixtureNow is the reference instant used by fixtures.
var FixtureNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

var testSessionCounter atomic.Int64

// Enrollment options
type EnrollmentOption func(*domain.Enrollment)

func WithStartDate(d time.Time) EnrollmentOption {
	return func(e *domain.Enrollment) {
		e.StartDate = d
	}
}

func WithAscentStart(d time.Time) EnrollmentOption {
	return func(e *domain.Enrollment) {
		e.AscentStart = &d
	}
}

func NewTestEnrollment(userID string, opts ...EnrollmentOption) *domain.Enrollment {
	e := &domain.Enrollment{
		UserID:    userID,
		StartDate: FixtureNow.AddDate(0, 0, -14),
		CreatedAt: FixtureNow,
		UpdatedAt: FixtureNow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Period options
type PeriodOption func(*domain.PeriodConfig)

func WithSection(s domain.Section, day int) PeriodOption {
	return func(p *domain.PeriodConfig) {
		p.Section = s
		p.Day = day
	}
}

// WithDay makes the period a single program day.
func WithDay(day int) PeriodOption {
	return func(p *domain.PeriodConfig) {
		p.Day = day
	}
}

func WithActions(actions ...domain.ActionDefinition) PeriodOption {
	return func(p *domain.PeriodConfig) {
		p.Actions = append(p.Actions, actions...)
	}
}

func WithSessionSlots(slots ...domain.SessionSlot) PeriodOption {
	return func(p *domain.PeriodConfig) {
		p.SessionSlots = append(p.SessionSlots, slots...)
	}
}

func WithWeeklySlots(slots ...domain.WeeklySlot) PeriodOption {
	return func(p *domain.PeriodConfig) {
		p.WeeklySlots = append(p.WeeklySlots, slots...)
	}
}

func WithFormSlots(slots ...domain.FormSlot) PeriodOption {
	return func(p *domain.PeriodConfig) {
		p.FormSlots = append(p.FormSlots, slots...)
	}
}

func WithTitle(title string) PeriodOption {
	return func(p *domain.PeriodConfig) {
		p.Title = title
	}
}

// NewTestPeriod builds a period config. PreStart periods default to the
// onboarding section on day 1.
func NewTestPeriod(id string, phase domain.PhaseKind, number int, opts ...PeriodOption) *domain.PeriodConfig {
	p := &domain.PeriodConfig{
		ID:        id,
		Phase:     phase,
		Number:    number,
		Title:     id,
		UpdatedAt: FixtureNow,
	}
	if phase == domain.PhasePreStart {
		p.Section = domain.SectionOnboarding
		p.Day = 1
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registration options
type RegistrationOption func(*domain.SessionRegistration)

func WithRegistrationStatus(s domain.RegistrationStatus) RegistrationOption {
	return func(r *domain.SessionRegistration) {
		r.Status = s
		t := r.RegisteredAt.Add(time.Hour)
		switch s {
		case domain.RegistrationAttended:
			r.AttendedAt = &t
		case domain.RegistrationCertified:
			r.AttendedAt = &t
			r.CertifiedAt = &t
			r.CertifiedBy = "facilitator-1"
		case domain.RegistrationCancelled:
			r.CancelledAt = &t
		}
	}
}

func WithSessionType(typeID string, milestone int) RegistrationOption {
	return func(r *domain.SessionRegistration) {
		r.SessionTypeID = typeID
		r.Milestone = milestone
	}
}

func WithSessionID(id string) RegistrationOption {
	return func(r *domain.SessionRegistration) {
		r.SessionID = id
	}
}

func WithRegisteredAt(t time.Time) RegistrationOption {
	return func(r *domain.SessionRegistration) {
		r.RegisteredAt = t
		r.UpdatedAt = t
	}
}

func NewTestRegistration(userID, itemID string, opts ...RegistrationOption) *domain.SessionRegistration {
	n := testSessionCounter.Add(1)
	r := &domain.SessionRegistration{
		ID:           uuid.New().String(),
		UserID:       userID,
		SessionID:    fmt.Sprintf("session-%03d", n),
		ItemID:       itemID,
		SessionTitle: "Coaching session",
		Kind:         domain.SessionCoaching,
		Status:       domain.RegistrationRegistered,
		RegisteredAt: FixtureNow,
		UpdatedAt:    FixtureNow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ProgressRecord options
type ProgressOption func(*domain.ProgressRecord)

func WithProgressStatus(s domain.ProgressStatus) ProgressOption {
	return func(p *domain.ProgressRecord) {
		p.Status = s
		if s == domain.ProgressCompleted {
			t := p.UpdatedAt
			p.CompletedAt = &t
		} else {
			p.CompletedAt = nil
		}
	}
}

func WithCompletedAt(t time.Time) ProgressOption {
	return func(p *domain.ProgressRecord) {
		p.Status = domain.ProgressCompleted
		p.CompletedAt = &t
	}
}

func WithOrigin(phase domain.Phase, week int) ProgressOption {
	return func(p *domain.ProgressRecord) {
		p.OriginPhase = phase
		p.OriginWeek = week
	}
}

func WithHandlerTag(tag string) ProgressOption {
	return func(p *domain.ProgressRecord) {
		p.HandlerTag = tag
	}
}

func WithLabel(label string) ProgressOption {
	return func(p *domain.ProgressRecord) {
		p.Label = label
	}
}

func WithCarriedOver() ProgressOption {
	return func(p *domain.ProgressRecord) {
		p.CarriedOver = true
	}
}

func WithCategory(c domain.Category) ProgressOption {
	return func(p *domain.ProgressRecord) {
		p.Category = c
	}
}

// NewTestProgressRecord builds a completed record for the item.
func NewTestProgressRecord(userID, itemID string, opts ...ProgressOption) *domain.ProgressRecord {
	done := FixtureNow
	p := &domain.ProgressRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		ItemID:      itemID,
		Status:      domain.ProgressCompleted,
		Category:    domain.CategoryContent,
		CompletedAt: &done,
		CreatedAt:   FixtureNow,
		UpdatedAt:   FixtureNow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewSignedOffMilestone returns milestone progress signed off at the given time.
func NewSignedOffMilestone(userID string, n int, at time.Time) *domain.MilestoneProgress {
	return &domain.MilestoneProgress{
		UserID:      userID,
		Milestone:   n,
		SignedOff:   true,
		SignedOffAt: &at,
		SignedOffBy: "facilitator-1",
		UpdatedAt:   at,
	}
}
