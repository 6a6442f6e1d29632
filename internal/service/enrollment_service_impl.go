package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/repository"
)

type enrollmentService struct {
	repos    Repos
	observer UseCaseObserver
	now      func() time.Time
}

func NewEnrollmentService(repos Repos, observers ...UseCaseObserver) EnrollmentService {
	return &enrollmentService{
		repos:    repos,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Enroll creates or updates the enrollment. Re-enrolling keeps the original
// creation time.
func (s *enrollmentService) Enroll(ctx context.Context, userID string, start time.Time, ascentStart *time.Time) (e *domain.Enrollment, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID}
	defer observe(ctx, s.observer, "enroll", startedAt, fields, &err)

	if err = requireUser(userID); err != nil {
		return nil, err
	}
	now := s.now()
	e = &domain.Enrollment{
		UserID:      userID,
		StartDate:   start,
		AscentStart: ascentStart,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = e.Validate(); err != nil {
		return nil, &app.ProgressionError{Code: app.ErrCodeInvalidRequest, Message: err.Error()}
	}
	existing, err := s.repos.Enrollments.Get(ctx, userID)
	switch {
	case err == nil:
		e.CreatedAt = existing.CreatedAt
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	if err = s.repos.Enrollments.Upsert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *enrollmentService) Get(ctx context.Context, userID string) (*domain.Enrollment, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	e, err := s.repos.Enrollments.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &app.ProgressionError{Code: app.ErrCodeNotEnrolled, Message: fmt.Sprintf("user %q is not enrolled", userID)}
	}
	return e, err
}

func (s *enrollmentService) List(ctx context.Context) ([]domain.Enrollment, error) {
	return s.repos.Enrollments.List(ctx)
}

func (s *enrollmentService) SetFormStatus(ctx context.Context, userID string, kind domain.FormKind, submitted bool) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "form": string(kind), "submitted": submitted}
	defer observe(ctx, s.observer, "set-form-status", startedAt, fields, &err)

	if err = requireUser(userID); err != nil {
		return err
	}
	if !domain.ValidFormKind(string(kind)) {
		return &app.ProgressionError{Code: app.ErrCodeInvalidRequest, Message: fmt.Sprintf("unknown form %q", kind)}
	}
	return s.repos.Forms.Set(ctx, userID, kind, submitted)
}

func (s *enrollmentService) FormStatus(ctx context.Context, userID string) (map[domain.FormKind]bool, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repos.Forms.ListByUser(ctx, userID)
}
