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
	"github.com/alexanderramin/waypoint/internal/logger"
	"github.com/alexanderramin/waypoint/internal/repository"
)

type facilitatorService struct {
	repos    Repos
	uow      db.UnitOfWork
	log      *logger.Logger
	observer UseCaseObserver
	now      func() time.Time
}

func NewFacilitatorService(repos Repos, uow db.UnitOfWork, log *logger.Logger, observers ...UseCaseObserver) FacilitatorService {
	if log == nil {
		log = logger.Nop()
	}
	return &facilitatorService{
		repos:    repos,
		uow:      uow,
		log:      log,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func facilitatorOnly(itemID string) *app.MutationResult {
	return app.Rejected(itemID, app.RejectFacilitatorOnly, "only a facilitator may do this")
}

// SignOffMilestone records the facilitator sign-off that advances the user to
// the next milestone. Milestones are signed off in order and only once.
func (s *facilitatorService) SignOffMilestone(ctx context.Context, actor domain.Actor, userID string, milestone int) (res *app.MutationResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"facilitator_id": actor.ID, "user_id": userID, "milestone": milestone}
	defer observe(ctx, s.observer, "sign-off-milestone", startedAt, fields, &err)

	if err = requireUser(userID); err != nil {
		return nil, err
	}
	itemID := curriculum.CertificateItemID(milestone)
	if !actor.IsFacilitator() {
		return facilitatorOnly(itemID), nil
	}
	if milestone < 1 || milestone > domain.MilestoneCount {
		return nil, &app.ProgressionError{Code: app.ErrCodeInvalidRequest, Message: domain.ErrMilestoneRange.Error()}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		milestones := repository.NewSQLiteMilestoneRepo(tx)
		all, err := milestones.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		idx := domain.MilestoneIndex(all)
		if milestone > 1 && !idx[milestone-1].SignedOff {
			res = app.Rejected(itemID, app.RejectOutOfOrder,
				fmt.Sprintf("milestone %d must be signed off first", milestone-1))
			return nil
		}
		m, ok := idx[milestone]
		if !ok {
			m = domain.MilestoneProgress{UserID: userID, Milestone: milestone}
		}
		if err := m.SignOff(actor, s.now()); err != nil {
			if errors.Is(err, domain.ErrAlreadySignedOff) {
				res = app.Rejected(itemID, app.RejectAlreadySignedOff, err.Error())
				return nil
			}
			return err
		}
		if err := milestones.Upsert(ctx, &m); err != nil {
			return err
		}
		res = app.Accepted(itemID, true)
		res.Milestone = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Accepted {
		s.log.Info("milestone signed off", "user_id", userID, "facilitator_id", actor.ID, "milestone", milestone)
	}
	return res, nil
}

// CertifyRegistration moves an attended registration to certified, which is
// the only way a certification-gate item completes.
func (s *facilitatorService) CertifyRegistration(ctx context.Context, actor domain.Actor, registrationID string) (res *app.MutationResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"facilitator_id": actor.ID, "registration_id": registrationID}
	defer observe(ctx, s.observer, "certify-registration", startedAt, fields, &err)

	if !actor.IsFacilitator() {
		return facilitatorOnly(""), nil
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		regs := repository.NewSQLiteRegistrationRepo(tx)
		reg, err := regs.GetByID(ctx, registrationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("registration", registrationID)
			}
			return err
		}
		before := reg.Status
		if err := reg.Certify(actor, s.now()); err != nil {
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

// ResetUser clears a user's progress, milestones and carry-over memos.
// Registrations are kept as the attendance audit trail.
func (s *facilitatorService) ResetUser(ctx context.Context, actor domain.Actor, userID string) (res *app.MutationResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"facilitator_id": actor.ID, "user_id": userID}
	defer observe(ctx, s.observer, "reset-user", startedAt, fields, &err)

	if err = requireUser(userID); err != nil {
		return nil, err
	}
	if !actor.IsFacilitator() {
		return facilitatorOnly(""), nil
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRepos := NewSQLiteRepos(tx)
		if err := txRepos.Progress.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := txRepos.Milestones.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return txRepos.Memos.DeleteByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Warn("user progress reset", "user_id", userID, "facilitator_id", actor.ID)
	return app.Accepted("", true), nil
}
