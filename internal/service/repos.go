package service

import (
	"github.com/alexanderramin/waypoint/internal/db"
	"github.com/alexanderramin/waypoint/internal/repository"
)

// Repos bundles the stores the services read from. Transactional writes
// build tx-scoped repositories with NewSQLiteRepos instead.
type Repos struct {
	Periods       repository.PeriodConfigRepo
	Catalog       repository.CatalogRepo
	Progress      repository.ProgressRepo
	Registrations repository.RegistrationRepo
	Milestones    repository.MilestoneRepo
	Forms         repository.FormStatusRepo
	Enrollments   repository.EnrollmentRepo
	Memos         repository.CarryOverMemoRepo
}

func NewSQLiteRepos(conn db.DBTX) Repos {
	return Repos{
		Periods:       repository.NewSQLitePeriodConfigRepo(conn),
		Catalog:       repository.NewSQLiteCatalogRepo(conn),
		Progress:      repository.NewSQLiteProgressRepo(conn),
		Registrations: repository.NewSQLiteRegistrationRepo(conn),
		Milestones:    repository.NewSQLiteMilestoneRepo(conn),
		Forms:         repository.NewSQLiteFormStatusRepo(conn),
		Enrollments:   repository.NewSQLiteEnrollmentRepo(conn),
		Memos:         repository.NewSQLiteCarryOverMemoRepo(conn),
	}
}
