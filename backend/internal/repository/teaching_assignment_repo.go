package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seguimientos/backend/internal/model"
)

// AssignmentFilter narrows assignment listings. Zero values mean "any".
type AssignmentFilter struct {
	TeacherID uint
	Year      string
}

// TeachingAssignmentRepository teaching assignment data access
type TeachingAssignmentRepository interface {
	Create(ctx context.Context, a *model.TeachingAssignment) error
	GetByID(ctx context.Context, id uint) (*model.TeachingAssignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]model.TeachingAssignment, error)
	// ListByIDs returns the assignments that exist among ids; missing ids are skipped.
	ListByIDs(ctx context.Context, ids []uint) ([]model.TeachingAssignment, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, teacherID, groupID, moduleID uint) (bool, error)
	// TeachesPair reports whether the teacher holds any assignment on the pair.
	TeachesPair(ctx context.Context, teacherID uint, pair model.GroupModule) (bool, error)
	// LockPair takes row locks on every assignment of the pair until the transaction ends.
	LockPair(ctx context.Context, pair model.GroupModule) error
}

type teachingAssignmentRepo struct {
	db *gorm.DB
}

// NewTeachingAssignmentRepo creates a TeachingAssignmentRepository
func NewTeachingAssignmentRepo(db *gorm.DB) TeachingAssignmentRepository {
	return &teachingAssignmentRepo{db: db}
}

func (r *teachingAssignmentRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Group").
		Preload("Module").Preload("Module.Cycle")
}

func (r *teachingAssignmentRepo) Create(ctx context.Context, a *model.TeachingAssignment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *teachingAssignmentRepo) GetByID(ctx context.Context, id uint) (*model.TeachingAssignment, error) {
	var a model.TeachingAssignment
	if err := r.preloaded(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *teachingAssignmentRepo) List(ctx context.Context, filter AssignmentFilter) ([]model.TeachingAssignment, error) {
	var list []model.TeachingAssignment
	db := r.preloaded(ctx)
	if filter.TeacherID != 0 {
		db = db.Where("teaching_assignments.teacher_id = ?", filter.TeacherID)
	}
	if filter.Year != "" {
		db = db.Joins("JOIN modules ON modules.id = teaching_assignments.module_id").
			Joins("JOIN cycles ON cycles.id = modules.cycle_id").
			Where("cycles.academic_year = ?", filter.Year)
	}
	err := db.Order("teaching_assignments.id ASC").Find(&list).Error
	return list, err
}

func (r *teachingAssignmentRepo) ListByIDs(ctx context.Context, ids []uint) ([]model.TeachingAssignment, error) {
	var list []model.TeachingAssignment
	if len(ids) == 0 {
		return list, nil
	}
	err := r.preloaded(ctx).
		Where("teaching_assignments.id IN ?", ids).
		Order("teaching_assignments.id ASC").
		Find(&list).Error
	return list, err
}

func (r *teachingAssignmentRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.TeachingAssignment](ctx, r.db, id)
}

func (r *teachingAssignmentRepo) Exists(ctx context.Context, teacherID, groupID, moduleID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.TeachingAssignment{}).
		Where("teacher_id = ? AND group_id = ? AND module_id = ?", teacherID, groupID, moduleID).
		Count(&n).Error
	return n > 0, err
}

func (r *teachingAssignmentRepo) TeachesPair(ctx context.Context, teacherID uint, pair model.GroupModule) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.TeachingAssignment{}).
		Where("teacher_id = ? AND group_id = ? AND module_id = ?", teacherID, pair.GroupID, pair.ModuleID).
		Count(&n).Error
	return n > 0, err
}

func (r *teachingAssignmentRepo) LockPair(ctx context.Context, pair model.GroupModule) error {
	var ids []uint
	return r.db.WithContext(ctx).
		Model(&model.TeachingAssignment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("group_id = ? AND module_id = ?", pair.GroupID, pair.ModuleID).
		Order("id ASC").
		Pluck("id", &ids).Error
}
