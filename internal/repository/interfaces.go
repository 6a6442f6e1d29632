package repository

import (
	"context"

	"github.com/alexanderramin/waypoint/internal/domain"
)

// PeriodConfigRepo stores admin-authored period definitions.
type PeriodConfigRepo interface {
	// Replace writes the config and all of its definition lists, dropping
	// entries that are no longer present.
	Replace(ctx context.Context, cfg *domain.PeriodConfig) error
	GetByID(ctx context.Context, id string) (*domain.PeriodConfig, error)
	List(ctx context.Context) ([]domain.PeriodConfig, error)
	Delete(ctx context.Context, id string) error
}

// CatalogRepo holds collaborator content metadata and session types.
type CatalogRepo interface {
	UpsertResource(ctx context.Context, r *domain.ResourceMetadata) error
	GetResource(ctx context.Context, id string) (*domain.ResourceMetadata, error)
	ListResources(ctx context.Context) ([]domain.ResourceMetadata, error)
	UpsertSessionType(ctx context.Context, st *domain.SessionType) error
	ListSessionTypes(ctx context.Context) ([]domain.SessionType, error)
}

type ProgressRepo interface {
	Get(ctx context.Context, userID, itemID string) (*domain.ProgressRecord, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ProgressRecord, error)
	Upsert(ctx context.Context, r *domain.ProgressRecord) error
	DeleteByUser(ctx context.Context, userID string) error
}

// RegistrationRepo never deletes: cancelled attempts stay for audit.
type RegistrationRepo interface {
	Create(ctx context.Context, r *domain.SessionRegistration) error
	GetByID(ctx context.Context, id string) (*domain.SessionRegistration, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SessionRegistration, error)
	ListActiveByItem(ctx context.Context, userID, itemID string) ([]domain.SessionRegistration, error)
	Update(ctx context.Context, r *domain.SessionRegistration) error
}

type MilestoneRepo interface {
	Get(ctx context.Context, userID string, milestone int) (*domain.MilestoneProgress, error)
	ListByUser(ctx context.Context, userID string) ([]domain.MilestoneProgress, error)
	Upsert(ctx context.Context, m *domain.MilestoneProgress) error
	DeleteByUser(ctx context.Context, userID string) error
}

// FormStatusRepo is the interactive forms' own submission signal.
type FormStatusRepo interface {
	IsSubmitted(ctx context.Context, userID string, kind domain.FormKind) (bool, error)
	ListByUser(ctx context.Context, userID string) (map[domain.FormKind]bool, error)
	Set(ctx context.Context, userID string, kind domain.FormKind, submitted bool) error
}

type EnrollmentRepo interface {
	Get(ctx context.Context, userID string) (*domain.Enrollment, error)
	List(ctx context.Context) ([]domain.Enrollment, error)
	Upsert(ctx context.Context, e *domain.Enrollment) error
}

// CarryOverMemoRepo remembers, per user and view session, which carry-over
// items have already been shown.
type CarryOverMemoRepo interface {
	Get(ctx context.Context, userID, sessionID string) ([]string, error)
	Replace(ctx context.Context, userID, sessionID string, itemIDs []string) error
	Clear(ctx context.Context, userID, sessionID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
