package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository so services can share one handle.
type Repository struct {
	db *gorm.DB

	AcademicYear        AcademicYearRepository
	Cycle               CycleRepository
	Group               GroupRepository
	Module              ModuleRepository
	WorkUnit            WorkUnitRepository
	Teacher             TeacherRepository
	TeachingAssignment  TeachingAssignmentRepository
	ProgressReport      ProgressReportRepository
	ReminderEmailConfig ReminderEmailConfigRepository
	EmailSettings       EmailSettingsRepository
}

// NewRepository builds the aggregate on top of db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                  db,
		AcademicYear:        NewAcademicYearRepo(db),
		Cycle:               NewCycleRepo(db),
		Group:               NewGroupRepo(db),
		Module:              NewModuleRepo(db),
		WorkUnit:            NewWorkUnitRepo(db),
		Teacher:             NewTeacherRepo(db),
		TeachingAssignment:  NewTeachingAssignmentRepo(db),
		ProgressReport:      NewProgressReportRepo(db),
		ReminderEmailConfig: NewReminderEmailConfigRepo(db),
		EmailSettings:       NewEmailSettingsRepo(db),
	}
}

// WithTx returns an aggregate whose repositories all run on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn inside one database transaction. The aggregate passed
// to fn is bound to that transaction; returning an error rolls it back.
//
// An aggregate assembled by hand (no db) runs fn directly on itself.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// DB exposes the underlying handle for health checks.
func (r *Repository) DB() *gorm.DB {
	return r.db
}
