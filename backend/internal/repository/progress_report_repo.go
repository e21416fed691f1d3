package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seguimientos/backend/internal/model"
)

// ReportFilter narrows report listings. Zero values mean "any".
type ReportFilter struct {
	// VisibleTo limits results to reports on (group, module) pairs the teacher teaches.
	VisibleTo uint
	Year      string
	Month     int
}

// ProgressReportRepository progress report data access
type ProgressReportRepository interface {
	Create(ctx context.Context, report *model.ProgressReport) error
	GetByID(ctx context.Context, id uint) (*model.ProgressReport, error)
	List(ctx context.Context, filter ReportFilter) ([]model.ProgressReport, error)
	Update(ctx context.Context, report *model.ProgressReport) error
	Delete(ctx context.Context, id uint) error
	// ExistsForPair reports whether a report other than excludeID covers the pair in month.
	ExistsForPair(ctx context.Context, pair model.GroupModule, month int, excludeID uint) (bool, error)
	ReplaceCompletedUnits(ctx context.Context, reportID uint, unitIDs []uint) error
}

type progressReportRepo struct {
	db *gorm.DB
}

// NewProgressReportRepo creates a ProgressReportRepository
func NewProgressReportRepo(db *gorm.DB) ProgressReportRepository {
	return &progressReportRepo{db: db}
}

func (r *progressReportRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Assignment.Teacher").
		Preload("Assignment.Group").
		Preload("Assignment.Module").Preload("Assignment.Module.Cycle").
		Preload("CurrentUnit").
		Preload("CompletedUnits", func(db *gorm.DB) *gorm.DB {
			return db.Order("work_units.unit_number ASC")
		})
}

func (r *progressReportRepo) Create(ctx context.Context, report *model.ProgressReport) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error
}

func (r *progressReportRepo) GetByID(ctx context.Context, id uint) (*model.ProgressReport, error) {
	var report model.ProgressReport
	if err := r.preloaded(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *progressReportRepo) List(ctx context.Context, filter ReportFilter) ([]model.ProgressReport, error) {
	var reports []model.ProgressReport
	db := r.preloaded(ctx)

	if filter.VisibleTo != 0 {
		pairs := r.db.WithContext(ctx).
			Model(&model.TeachingAssignment{}).
			Select("group_id, module_id").
			Where("teacher_id = ?", filter.VisibleTo)
		db = db.Where("(progress_reports.group_id, progress_reports.module_id) IN (?)", pairs)
	}
	if filter.Year != "" {
		db = db.Joins("JOIN modules ON modules.id = progress_reports.module_id").
			Joins("JOIN cycles ON cycles.id = modules.cycle_id").
			Where("cycles.academic_year = ?", filter.Year)
	}
	if filter.Month != 0 {
		db = db.Where("progress_reports.month = ?", filter.Month)
	}

	err := db.Order("progress_reports.month ASC, progress_reports.id ASC").Find(&reports).Error
	return reports, err
}

// Update saves the editable columns; identity columns never change.
func (r *progressReportRepo) Update(ctx context.Context, report *model.ProgressReport) error {
	return r.db.WithContext(ctx).
		Model(report).
		Select(
			"current_unit_id", "last_content_taught", "status", "status_justification",
			"compliance", "noncompliance_justification", "noncompliance_reason",
			"evaluation", "updated_by", "updated_at",
		).
		Updates(report).Error
}

func (r *progressReportRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.ProgressReport](ctx, r.db, id)
}

func (r *progressReportRepo) ExistsForPair(ctx context.Context, pair model.GroupModule, month int, excludeID uint) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).
		Model(&model.ProgressReport{}).
		Where("group_id = ? AND module_id = ? AND month = ?", pair.GroupID, pair.ModuleID, month)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Count(&n).Error
	return n > 0, err
}

func (r *progressReportRepo) ReplaceCompletedUnits(ctx context.Context, reportID uint, unitIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("progress_report_id = ?", reportID).
		Delete(&model.ProgressReportCompletedUnit{}).Error; err != nil {
		return err
	}
	if len(unitIDs) == 0 {
		return nil
	}
	rows := make([]model.ProgressReportCompletedUnit, 0, len(unitIDs))
	for _, id := range unitIDs {
		rows = append(rows, model.ProgressReportCompletedUnit{ProgressReportID: reportID, WorkUnitID: id})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
