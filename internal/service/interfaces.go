package service

import (
	"context"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/importer"
)

// ProgressionService is the user-facing engine: the assembled view and the
// item-level mutations.
type ProgressionService interface {
	GetCurrentView(ctx context.Context, req app.ViewRequest) (*app.CurrentView, error)
	ToggleItem(ctx context.Context, userID, itemID string) (*app.MutationResult, error)
	SkipItem(ctx context.Context, userID, itemID string) (*app.MutationResult, error)
	AcknowledgeCertificate(ctx context.Context, userID string, milestone int) (*app.MutationResult, error)
	GetStats(ctx context.Context, userID string) (*curriculum.Stats, error)
}

// RegistrationService covers the transitions the owning user may trigger.
type RegistrationService interface {
	ScheduleSession(ctx context.Context, req app.ScheduleRequest) (*app.MutationResult, error)
	CancelSession(ctx context.Context, userID, registrationID string) (*app.MutationResult, error)
	ConfirmAttendance(ctx context.Context, userID, registrationID string) (*app.MutationResult, error)
	ListRegistrations(ctx context.Context, userID string) ([]domain.SessionRegistration, error)
}

// FacilitatorService holds the transitions owned by a facilitator actor.
type FacilitatorService interface {
	SignOffMilestone(ctx context.Context, actor domain.Actor, userID string, milestone int) (*app.MutationResult, error)
	CertifyRegistration(ctx context.Context, actor domain.Actor, registrationID string) (*app.MutationResult, error)
	ResetUser(ctx context.Context, actor domain.Actor, userID string) (*app.MutationResult, error)
}

type CurriculumService interface {
	ImportCurriculum(ctx context.Context, path string) (*app.ImportResult, error)
	ImportCurriculumSchema(ctx context.Context, schema *importer.CurriculumSchema) (*app.ImportResult, error)
	ListPeriods(ctx context.Context) ([]domain.PeriodConfig, error)
	Preview(ctx context.Context) (*curriculum.NormalizeResult, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, userID string, start time.Time, ascentStart *time.Time) (*domain.Enrollment, error)
	Get(ctx context.Context, userID string) (*domain.Enrollment, error)
	List(ctx context.Context) ([]domain.Enrollment, error)
	SetFormStatus(ctx context.Context, userID string, kind domain.FormKind, submitted bool) error
	FormStatus(ctx context.Context, userID string) (map[domain.FormKind]bool, error)
}
