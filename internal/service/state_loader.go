package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/repository"
	"golang.org/x/sync/errgroup"
)

// userState is everything fetched for one user before any resolution runs.
type userState struct {
	configs      []domain.PeriodConfig
	resources    []domain.ResourceMetadata
	sessionTypes []domain.SessionType
	enrollment   *domain.Enrollment
	records      []domain.ProgressRecord
	regs         []domain.SessionRegistration
	milestones   []domain.MilestoneProgress
	forms        map[domain.FormKind]bool
	surfaced     []string

	memoLoaded bool
	warnings   []string
}

// degraded reports whether any auxiliary fetch failed.
func (st *userState) degraded() bool { return len(st.warnings) > 0 }

func (st *userState) snapshot() *curriculum.ProgressSnapshot {
	return curriculum.NewSnapshot(st.records, st.regs, st.forms, st.milestones)
}

func (st *userState) viewInput(now time.Time, loc *time.Location) curriculum.ViewInput {
	return curriculum.ViewInput{
		Now:        now,
		Location:   loc,
		Configs:    st.configs,
		Catalog:    curriculum.NewCatalog(st.resources, st.sessionTypes),
		Snapshot:   st.snapshot(),
		Enrollment: st.enrollment,
	}
}

type loadOptions struct {
	sessionID string
	// strict turns auxiliary fetch failures into errors. Mutations need it,
	// since they decide on the fetched state.
	strict bool
}

// loadUserState fetches every collaborator source in parallel. Period
// configs are essential; any other failed fetch is treated as no data yet
// and reported as a warning unless strict is set.
func loadUserState(ctx context.Context, repos Repos, userID string, opts loadOptions) (*userState, error) {
	st := &userState{}
	var mu sync.Mutex
	degrade := func(what string, err error) error {
		if opts.strict {
			return fmt.Errorf("loading %s: %w", what, err)
		}
		mu.Lock()
		st.warnings = append(st.warnings, fmt.Sprintf("%s unavailable: %v", what, err))
		mu.Unlock()
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		configs, err := repos.Periods.List(gctx)
		if err != nil {
			return fmt.Errorf("loading period configs: %w", err)
		}
		st.configs = configs
		return nil
	})
	g.Go(func() error {
		resources, err := repos.Catalog.ListResources(gctx)
		if err != nil {
			return degrade("resource metadata", err)
		}
		st.resources = resources
		return nil
	})
	g.Go(func() error {
		types, err := repos.Catalog.ListSessionTypes(gctx)
		if err != nil {
			return degrade("session types", err)
		}
		st.sessionTypes = types
		return nil
	})
	g.Go(func() error {
		e, err := repos.Enrollments.Get(gctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return degrade("enrollment", err)
		}
		st.enrollment = e
		return nil
	})
	g.Go(func() error {
		records, err := repos.Progress.ListByUser(gctx, userID)
		if err != nil {
			return degrade("progress records", err)
		}
		st.records = records
		return nil
	})
	g.Go(func() error {
		regs, err := repos.Registrations.ListByUser(gctx, userID)
		if err != nil {
			return degrade("registrations", err)
		}
		st.regs = regs
		return nil
	})
	g.Go(func() error {
		milestones, err := repos.Milestones.ListByUser(gctx, userID)
		if err != nil {
			return degrade("milestone progress", err)
		}
		st.milestones = milestones
		return nil
	})
	g.Go(func() error {
		forms, err := repos.Forms.ListByUser(gctx, userID)
		if err != nil {
			return degrade("form status", err)
		}
		st.forms = forms
		return nil
	})
	if opts.sessionID != "" && repos.Memos != nil {
		g.Go(func() error {
			ids, err := repos.Memos.Get(gctx, userID, opts.sessionID)
			if err != nil {
				return degrade("carry-over memo", err)
			}
			st.surfaced = ids
			st.memoLoaded = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return st, nil
}
