package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/logger"
	"github.com/alexanderramin/waypoint/internal/repository"
	"github.com/google/uuid"
)

func newID() string { return uuid.New().String() }

type progressionService struct {
	repos    Repos
	uow      db.UnitOfWork
	log      *logger.Logger
	loc      *time.Location
	observer UseCaseObserver
	now      func() time.Time
}

func NewProgressionService(repos Repos, uow db.UnitOfWork, log *logger.Logger, loc *time.Location, observers ...UseCaseObserver) ProgressionService {
	if log == nil {
		log = logger.Nop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &progressionService{
		repos:    repos,
		uow:      uow,
		log:      log,
		loc:      loc,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *progressionService) GetCurrentView(ctx context.Context, req app.ViewRequest) (view *app.CurrentView, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": req.UserID}
	defer observe(ctx, s.observer, "get-current-view", startedAt, fields, &err)

	if err = requireUser(req.UserID); err != nil {
		return nil, err
	}
	now := s.now()
	if req.Now != nil {
		now = *req.Now
	}

	st, err := loadUserState(ctx, s.repos, req.UserID, loadOptions{sessionID: req.SessionID})
	if err != nil {
		return nil, err
	}
	built := curriculum.BuildView(st.viewInput(now, s.loc))
	s.logDiagnostics(req.UserID, built.Diagnostics)

	view = &app.CurrentView{
		UserID:           req.UserID,
		PhaseLabel:       built.PhaseLabel,
		Position:         built.Position,
		RequiredItems:    toItemViews(built.Required),
		OptionalItems:    toItemViews(built.Optional),
		ProgressFraction: built.ProgressFraction,
		Diagnostics:      built.Diagnostics,
		Warnings:         st.warnings,
		GeneratedAt:      now,
	}

	carry := built.CarryOver
	if st.memoLoaded {
		merged := curriculum.MergeCarryOver(st.surfaced, built.Past)
		carry = merged.Items
		view.AllCaughtUp = merged.AllCaughtUp
		// A degraded snapshot must not rewrite what the session has seen.
		if !st.degraded() {
			err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLiteCarryOverMemoRepo(tx).Replace(ctx, req.UserID, req.SessionID, merged.Surfaced)
			})
			if err != nil {
				return nil, err
			}
		}
	}
	view.CarryOverItems = carryOverViews(carry)

	fields["phase"] = built.Position.Phase.String()
	fields["required"] = len(view.RequiredItems)
	fields["carry_over"] = len(view.CarryOverItems)
	fields["warnings"] = len(view.Warnings)
	for _, w := range st.warnings {
		s.log.Warn("view fetch degraded", "user_id", req.UserID, "warning", w)
	}
	return view, nil
}

func (s *progressionService) logDiagnostics(userID string, diags []curriculum.Diagnostic) {
	for _, d := range diags {
		s.log.Warn("curriculum diagnostic",
			"user_id", userID,
			"kind", string(d.Kind),
			"period_id", d.PeriodID,
			"item_id", d.ItemID,
			"detail", d.Detail,
		)
	}
}

// mutationContext resolves the item and the user's position from a strict
// load, so decisions are never made on partial data.
type mutationContext struct {
	item domain.ActionItem
	view curriculum.View
	now  time.Time
}

func (s *progressionService) prepareMutation(ctx context.Context, userID, itemID string) (*mutationContext, *app.MutationResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, nil, err
	}
	if itemID == "" {
		return nil, nil, &app.ProgressionError{Code: app.ErrCodeInvalidRequest, Message: domain.ErrEmptyItemID.Error()}
	}
	st, err := loadUserState(ctx, s.repos, userID, loadOptions{strict: true})
	if err != nil {
		return nil, nil, err
	}
	now := s.now()
	in := st.viewInput(now, s.loc)
	item, ok := curriculum.FindItem(in, itemID)
	if !ok {
		return nil, app.Rejected(itemID, app.RejectUnknownItem, "no such item in the curriculum"), nil
	}
	return &mutationContext{item: item, view: curriculum.BuildView(in), now: now}, nil, nil
}

// ToggleItem flips a simple or resource-view item between complete and
// pending. The flip follows the resolved verdict, so an item completed
// through a legacy match is unchecked by writing a pending id record.
func (s *progressionService) ToggleItem(ctx context.Context, userID, itemID string) (res *app.MutationResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "item_id": itemID}
	defer observe(ctx, s.observer, "toggle-item", startedAt, fields, &err)

	mc, rejected, err := s.prepareMutation(ctx, userID, itemID)
	if err != nil || rejected != nil {
		return rejected, err
	}
	if rej := toggleRejection(mc.item, mc.view.Position); rej != nil {
		fields["rejected"] = string(rej.Code)
		return rej, nil
	}

	existing, err := s.repos.Progress.Get(ctx, userID, itemID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	rec := recordFor(existing, userID, mc.item, mc.view.Position, mc.now)
	if mc.view.Resolve(mc.item).IsComplete() {
		rec.Uncomplete(mc.now)
	} else {
		rec.Complete(mc.now)
	}
	if err = s.repos.Progress.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	fields["status"] = string(rec.Status)
	res = app.Accepted(itemID, true)
	res.Record = rec
	return res, nil
}

// SkipItem marks an optional item as skipped. Required items cannot be
// skipped, so skipping never hides work from carry-over.
func (s *progressionService) SkipItem(ctx context.Context, userID, itemID string) (res *app.MutationResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "item_id": itemID}
	defer observe(ctx, s.observer, "skip-item", startedAt, fields, &err)

	mc, rejected, err := s.prepareMutation(ctx, userID, itemID)
	if err != nil || rejected != nil {
		return rejected, err
	}
	if !toggleable(mc.item) || mc.item.Required || mc.view.Position.Unreached(mc.item.Origin) {
		fields["rejected"] = string(app.RejectNotSkippable)
		return app.Rejected(itemID, app.RejectNotSkippable, "only optional checklist items can be skipped"), nil
	}

	existing, err := s.repos.Progress.Get(ctx, userID, itemID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status == domain.ProgressSkipped {
		res = app.Accepted(itemID, false)
		res.Record = existing
		return res, nil
	}
	rec := recordFor(existing, userID, mc.item, mc.view.Position, mc.now)
	rec.Skip(mc.now)
	if err = s.repos.Progress.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	res = app.Accepted(itemID, true)
	res.Record = rec
	return res, nil
}

func (s *progressionService) AcknowledgeCertificate(ctx context.Context, userID string, milestone int) (res *app.MutationResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID, "milestone": milestone}
	defer observe(ctx, s.observer, "acknowledge-certificate", startedAt, fields, &err)

	if err = requireUser(userID); err != nil {
		return nil, err
	}
	itemID := curriculum.CertificateItemID(milestone)
	if milestone < 1 || milestone > domain.MilestoneCount {
		return nil, &app.ProgressionError{Code: app.ErrCodeInvalidRequest, Message: domain.ErrMilestoneRange.Error()}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		milestones := repository.NewSQLiteMilestoneRepo(tx)
		m, err := milestones.Get(ctx, userID, milestone)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				res = app.Rejected(itemID, app.RejectNotSignedOff, domain.ErrNotSignedOff.Error())
				return nil
			}
			return err
		}
		if !m.SignedOff {
			res = app.Rejected(itemID, app.RejectNotSignedOff, domain.ErrNotSignedOff.Error())
			return nil
		}
		changed := !m.CertificateViewed
		if err := m.AcknowledgeCertificate(s.now()); err != nil {
			return err
		}
		if changed {
			if err := milestones.Upsert(ctx, m); err != nil {
				return err
			}
		}
		res = app.Accepted(itemID, changed)
		res.Milestone = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *progressionService) GetStats(ctx context.Context, userID string) (stats *curriculum.Stats, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID}
	defer observe(ctx, s.observer, "get-stats", startedAt, fields, &err)

	if err = requireUser(userID); err != nil {
		return nil, err
	}
	records, err := s.repos.Progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	computed := curriculum.ComputeStats(records, s.now(), s.loc)
	fields["points"] = computed.Points
	return &computed, nil
}
