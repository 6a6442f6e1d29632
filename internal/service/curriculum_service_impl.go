package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/importer"
	"github.com/alexanderramin/waypoint/internal/logger"
)

type curriculumService struct {
	repos    Repos
	uow      db.UnitOfWork
	log      *logger.Logger
	observer UseCaseObserver
	now      func() time.Time
}

func NewCurriculumService(repos Repos, uow db.UnitOfWork, log *logger.Logger, observers ...UseCaseObserver) CurriculumService {
	if log == nil {
		log = logger.Nop()
	}
	return &curriculumService{
		repos:    repos,
		uow:      uow,
		log:      log,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *curriculumService) ImportCurriculum(ctx context.Context, path string) (*app.ImportResult, error) {
	schema, err := importer.LoadCurriculum(path)
	if err != nil {
		return nil, fmt.Errorf("loading curriculum file: %w", err)
	}
	return s.ImportCurriculumSchema(ctx, schema)
}

// ImportCurriculumSchema validates the whole document and writes it in one
// transaction, so a failing period leaves the stored curriculum untouched.
func (s *curriculumService) ImportCurriculumSchema(ctx context.Context, schema *importer.CurriculumSchema) (result *app.ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import-curriculum", startedAt, fields, &err)

	if errs := importer.ValidateCurriculum(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	cur := importer.Convert(schema, s.now())

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRepos := NewSQLiteRepos(tx)
		for i := range cur.Resources {
			if err := txRepos.Catalog.UpsertResource(ctx, &cur.Resources[i]); err != nil {
				return fmt.Errorf("importing resource %q: %w", cur.Resources[i].ID, err)
			}
		}
		for i := range cur.SessionTypes {
			if err := txRepos.Catalog.UpsertSessionType(ctx, &cur.SessionTypes[i]); err != nil {
				return fmt.Errorf("importing session type %q: %w", cur.SessionTypes[i].ID, err)
			}
		}
		for i := range cur.Periods {
			if err := txRepos.Periods.Replace(ctx, &cur.Periods[i]); err != nil {
				return fmt.Errorf("importing period %q: %w", cur.Periods[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	normalized := curriculum.NormalizeAll(cur.Periods, curriculum.NewCatalog(cur.Resources, cur.SessionTypes))
	for _, d := range normalized.Diagnostics {
		s.log.Warn("curriculum diagnostic", "kind", string(d.Kind), "period_id", d.PeriodID, "item_id", d.ItemID, "detail", d.Detail)
	}
	result = &app.ImportResult{
		PeriodCount:      len(cur.Periods),
		ItemCount:        len(normalized.Items),
		ResourceCount:    len(cur.Resources),
		SessionTypeCount: len(cur.SessionTypes),
		Diagnostics:      len(normalized.Diagnostics),
	}
	fields["periods"] = result.PeriodCount
	fields["items"] = result.ItemCount
	return result, nil
}

func (s *curriculumService) ListPeriods(ctx context.Context) ([]domain.PeriodConfig, error) {
	return s.repos.Periods.List(ctx)
}

// Preview normalizes the stored curriculum without any user state, which is
// how authors check strategy inference and configuration diagnostics.
func (s *curriculumService) Preview(ctx context.Context) (*curriculum.NormalizeResult, error) {
	configs, err := s.repos.Periods.List(ctx)
	if err != nil {
		return nil, err
	}
	resources, err := s.repos.Catalog.ListResources(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.repos.Catalog.ListSessionTypes(ctx)
	if err != nil {
		return nil, err
	}
	res := curriculum.NormalizeAll(configs, curriculum.NewCatalog(resources, types))
	return &res, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("curriculum validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return &app.ProgressionError{Code: app.ErrCodeInvalidRequest, Message: msg}
}
