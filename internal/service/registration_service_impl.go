package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/repository"
)

type registrationService struct {
	repos    Repos
	uow      db.UnitOfWork
	loc      *time.Location
	observer UseCaseObserver
	now      func() time.Time
}

func NewRegistrationService(repos Repos, uow db.UnitOfWork, loc *time.Location, observers ...UseCaseObserver) RegistrationService {
	if loc == nil {
		loc = time.UTC
	}
	return &registrationService{
		repos:    repos,
		uow:      uow,
		loc:      loc,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func isSessionItem(item domain.ActionItem) bool {
	return item.Strategy == domain.StrategySessionSchedule || item.Strategy == domain.StrategyCertificationGate
}

func sessionKindFor(item domain.ActionItem) domain.SessionKind {
	if item.Category == domain.CategoryCommunity {
		return domain.SessionCommunity
	}
	return domain.SessionCoaching
}

// ScheduleSession books a session instance for a session item. Booking a
// different instance while a registered booking exists cancels the old one
// in the same transaction. Coaching is one-to-one, so a registered coaching
// booking for any other item is switched the same way.
func (s *registrationService) ScheduleSession(ctx context.Context, req app.ScheduleRequest) (res *app.MutationResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": req.UserID, "item_id": req.ItemID, "session_id": req.SessionID}
	defer observe(ctx, s.observer, "schedule-session", startedAt, fields, &err)

	if err = requireUser(req.UserID); err != nil {
		return nil, err
	}
	if req.SessionID == "" {
		return nil, &app.ProgressionError{Code: app.ErrCodeInvalidRequest, Message: domain.ErrEmptySessionID.Error()}
	}
	var startsAt *time.Time
	if req.StartsAt != "" {
		t, perr := time.Parse(time.RFC3339, req.StartsAt)
		if perr != nil {
			return nil, &app.ProgressionError{Code: app.ErrCodeInvalidRequest, Message: "starts_at must be RFC3339: " + perr.Error()}
		}
		startsAt = &t
	}

	st, err := loadUserState(ctx, s.repos, req.UserID, loadOptions{strict: true})
	if err != nil {
		return nil, err
	}
	now := s.now()
	in := st.viewInput(now, s.loc)
	item, ok := curriculum.FindItem(in, req.ItemID)
	if !ok {
		return app.Rejected(req.ItemID, app.RejectUnknownItem, "no such item in the curriculum"), nil
	}
	if !isSessionItem(item) {
		return app.Rejected(req.ItemID, app.RejectNotSessionItem, "item is not completed by a session"), nil
	}
	if locked(item, curriculum.BuildView(in).Position) {
		fields["rejected"] = string(app.RejectLocked)
		return app.Rejected(req.ItemID, app.RejectLocked, fmt.Sprintf("%s is not unlocked yet", item.Origin.Label())), nil
	}
	kind := sessionKindFor(item)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		regs := repository.NewSQLiteRegistrationRepo(tx)
		active, err := regs.ListActiveByItem(ctx, req.UserID, req.ItemID)
		if err != nil {
			return err
		}
		for i := range active {
			if active[i].SessionID == req.SessionID {
				res = app.Accepted(req.ItemID, false)
				res.Registration = &active[i]
				return nil
			}
			if active[i].Status != domain.RegistrationRegistered {
				res = app.Rejected(req.ItemID, app.RejectInvalidTransition,
					"session already "+string(active[i].Status)+"; it cannot be switched")
				return nil
			}
		}
		if kind == domain.SessionCoaching {
			others, err := otherCoachingBookings(ctx, regs, req.UserID, req.ItemID)
			if err != nil {
				return err
			}
			active = append(active, others...)
		}
		for i := range active {
			if err := active[i].Cancel(domain.CancelReasonSwitched, now); err != nil {
				return err
			}
			if err := regs.Update(ctx, &active[i]); err != nil {
				return err
			}
		}

		title := req.SessionTitle
		if title == "" {
			title = item.Label
		}
		reg := &domain.SessionRegistration{
			ID:            newID(),
			UserID:        req.UserID,
			SessionID:     req.SessionID,
			ItemID:        req.ItemID,
			SessionTitle:  title,
			SessionTypeID: item.SessionType,
			Kind:          kind,
			Milestone:     item.Milestone,
			CoachName:     req.CoachName,
			StartsAt:      startsAt,
			Status:        domain.RegistrationRegistered,
			RegisteredAt:  now,
			UpdatedAt:     now,
		}
		if err := regs.Create(ctx, reg); err != nil {
			return err
		}
		fields["switched"] = len(active)
		res = app.Accepted(req.ItemID, true)
		res.Registration = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// otherCoachingBookings lists the user's registered coaching bookings for
// items other than itemID. Attended bookings are history and stay put.
func otherCoachingBookings(ctx context.Context, regs repository.RegistrationRepo, userID, itemID string) ([]domain.SessionRegistration, error) {
	all, err := regs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []domain.SessionRegistration
	for _, r := range all {
		if r.ItemID != itemID && r.Kind == domain.SessionCoaching && r.Status == domain.RegistrationRegistered {
			out = append(out, r)
		}
	}
	return out, nil
}

// ownedRegistration loads a registration inside tx and checks the owner.
func ownedRegistration(ctx context.Context, regs repository.RegistrationRepo, userID, regID string) (*domain.SessionRegistration, *app.MutationResult, error) {
	reg, err := regs.GetByID(ctx, regID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, notFound("registration", regID)
		}
		return nil, nil, err
	}
	if reg.UserID != userID {
		return nil, app.Rejected(reg.ItemID, app.RejectNotOwner, "registration belongs to another user"), nil
	}
	return reg, nil, nil
}

func transitionRejection(reg *domain.SessionRegistration, err error) (*app.MutationResult, error) {
	if errors.Is(err, domain.ErrInvalidTransition) {
		return app.Rejected(reg.ItemID, app.RejectInvalidTransition, err.Error()), nil
	}
	return nil, err
}

func (s *registrationService) CancelSession(ctx context.Context, userID, registrationID string) (res *app.MutationResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "registration_id": registrationID}
	defer observe(ctx, s.observer, "cancel-session", startedAt, fields, &err)

	if err = requireUser(userID); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		regs := repository.NewSQLiteRegistrationRepo(tx)
		reg, rejected, err := ownedRegistration(ctx, regs, userID, registrationID)
		if err != nil || rejected != nil {
			res = rejected
			return err
		}
		if err := reg.Cancel("", s.now()); err != nil {
			res, err = transitionRejection(reg, err)
			return err
		}
		if err := regs.Update(ctx, reg); err != nil {
			return err
		}
		res = app.Accepted(reg.ItemID, true)
		res.Registration = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ConfirmAttendance is the user-side registered -> attended transition.
// Confirming twice is an accepted no-op.
func (s *registrationService) ConfirmAttendance(ctx context.Context, userID, registrationID string) (res *app.MutationResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "registration_id": registrationID}
	defer observe(ctx, s.observer, "confirm-attendance", startedAt, fields, &err)

	if err = requireUser(userID); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		regs := repository.NewSQLiteRegistrationRepo(tx)
		reg, rejected, err := ownedRegistration(ctx, regs, userID, registrationID)
		if err != nil || rejected != nil {
			res = rejected
			return err
		}
		before := reg.Status
		if err := reg.MarkAttended(s.now()); err != nil {
			res, err = transitionRejection(reg, err)
			return err
		}
		changed := reg.Status != before
		if changed {
			if err := regs.Update(ctx, reg); err != nil {
				return err
			}
		}
		res = app.Accepted(reg.ItemID, changed)
		res.Registration = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *registrationService) ListRegistrations(ctx context.Context, userID string) (regs []domain.SessionRegistration, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID}
	defer observe(ctx, s.observer, "list-registrations", startedAt, fields, &err)

	if err = requireUser(userID); err != nil {
		return nil, err
	}
	return s.repos.Registrations.ListByUser(ctx, userID)
}
