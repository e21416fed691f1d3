package repository

import (
	"context"

	"gorm.io/gorm"

	"seguimientos/backend/internal/model"
)

// deleteByID deletes one row of T and reports gorm.ErrRecordNotFound when nothing matched.
func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) error {
	var zero T
	res := db.WithContext(ctx).Delete(&zero, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── Cycle ──

// CycleRepository cycle data access
type CycleRepository interface {
	Create(ctx context.Context, cycle *model.Cycle) error
	GetByID(ctx context.Context, id uint) (*model.Cycle, error)
	// List returns every cycle, or only those of year when it is not empty.
	List(ctx context.Context, year string) ([]model.Cycle, error)
	Update(ctx context.Context, cycle *model.Cycle) error
	Delete(ctx context.Context, id uint) error
}

type cycleRepo struct {
	db *gorm.DB
}

// NewCycleRepo creates a CycleRepository
func NewCycleRepo(db *gorm.DB) CycleRepository {
	return &cycleRepo{db: db}
}

func (r *cycleRepo) Create(ctx context.Context, cycle *model.Cycle) error {
	return r.db.WithContext(ctx).Create(cycle).Error
}

func (r *cycleRepo) GetByID(ctx context.Context, id uint) (*model.Cycle, error) {
	var cycle model.Cycle
	if err := r.db.WithContext(ctx).First(&cycle, id).Error; err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (r *cycleRepo) List(ctx context.Context, year string) ([]model.Cycle, error) {
	var cycles []model.Cycle
	db := r.db.WithContext(ctx)
	if year != "" {
		db = db.Where("academic_year = ?", year)
	}
	err := db.Order("academic_year DESC, name ASC").Find(&cycles).Error
	return cycles, err
}

func (r *cycleRepo) Update(ctx context.Context, cycle *model.Cycle) error {
	return r.db.WithContext(ctx).Save(cycle).Error
}

func (r *cycleRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Cycle](ctx, r.db, id)
}

// ── Group ──

// CurriculumFilter narrows group and module listings.
type CurriculumFilter struct {
	CycleID uint
	Year    string
}

// GroupRepository group data access
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id uint) (*model.Group, error)
	List(ctx context.Context, filter CurriculumFilter) ([]model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id uint) error
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo creates a GroupRepository
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).Preload("Cycle").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context, filter CurriculumFilter) ([]model.Group, error) {
	var groups []model.Group
	db := r.db.WithContext(ctx).Preload("Cycle")
	if filter.CycleID != 0 {
		db = db.Where("groups.cycle_id = ?", filter.CycleID)
	}
	if filter.Year != "" {
		db = db.Joins("JOIN cycles ON cycles.id = groups.cycle_id").
			Where("cycles.academic_year = ?", filter.Year)
	}
	err := db.Order("groups.course ASC, groups.name ASC").Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Update(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Omit("Cycle").Save(group).Error
}

func (r *groupRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Group](ctx, r.db, id)
}

// ── Module ──

// ModuleRepository module data access
type ModuleRepository interface {
	Create(ctx context.Context, module *model.Module) error
	GetByID(ctx context.Context, id uint) (*model.Module, error)
	List(ctx context.Context, filter CurriculumFilter) ([]model.Module, error)
	Update(ctx context.Context, module *model.Module) error
	Delete(ctx context.Context, id uint) error
}

type moduleRepo struct {
	db *gorm.DB
}

// NewModuleRepo creates a ModuleRepository
func NewModuleRepo(db *gorm.DB) ModuleRepository {
	return &moduleRepo{db: db}
}

func (r *moduleRepo) Create(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepo) GetByID(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	if err := r.db.WithContext(ctx).Preload("Cycle").First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepo) List(ctx context.Context, filter CurriculumFilter) ([]model.Module, error) {
	var modules []model.Module
	db := r.db.WithContext(ctx).Preload("Cycle")
	if filter.CycleID != 0 {
		db = db.Where("modules.cycle_id = ?", filter.CycleID)
	}
	if filter.Year != "" {
		db = db.Joins("JOIN cycles ON cycles.id = modules.cycle_id").
			Where("cycles.academic_year = ?", filter.Year)
	}
	err := db.Order("modules.course ASC, modules.name ASC").Find(&modules).Error
	return modules, err
}

func (r *moduleRepo) Update(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Omit("Cycle").Save(module).Error
}

func (r *moduleRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Module](ctx, r.db, id)
}

// ── WorkUnit ──

// WorkUnitRepository work unit data access
type WorkUnitRepository interface {
	Create(ctx context.Context, unit *model.WorkUnit) error
	GetByID(ctx context.Context, id uint) (*model.WorkUnit, error)
	// ListByModule returns the module's units ordered by unit number.
	ListByModule(ctx context.Context, moduleID uint) ([]model.WorkUnit, error)
	ListByIDs(ctx context.Context, ids []uint) ([]model.WorkUnit, error)
	Update(ctx context.Context, unit *model.WorkUnit) error
	Delete(ctx context.Context, id uint) error
	// ResetCoverage marks units numbered <= upTo covered and every other unit of the module not covered.
	ResetCoverage(ctx context.Context, moduleID uint, upTo int) error
}

type workUnitRepo struct {
	db *gorm.DB
}

// NewWorkUnitRepo creates a WorkUnitRepository
func NewWorkUnitRepo(db *gorm.DB) WorkUnitRepository {
	return &workUnitRepo{db: db}
}

func (r *workUnitRepo) Create(ctx context.Context, unit *model.WorkUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *workUnitRepo) GetByID(ctx context.Context, id uint) (*model.WorkUnit, error) {
	var unit model.WorkUnit
	if err := r.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *workUnitRepo) ListByModule(ctx context.Context, moduleID uint) ([]model.WorkUnit, error) {
	var units []model.WorkUnit
	err := r.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("unit_number ASC").
		Find(&units).Error
	return units, err
}

func (r *workUnitRepo) ListByIDs(ctx context.Context, ids []uint) ([]model.WorkUnit, error) {
	var units []model.WorkUnit
	if len(ids) == 0 {
		return units, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("unit_number ASC").
		Find(&units).Error
	return units, err
}

func (r *workUnitRepo) Update(ctx context.Context, unit *model.WorkUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *workUnitRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.WorkUnit](ctx, r.db, id)
}

func (r *workUnitRepo) ResetCoverage(ctx context.Context, moduleID uint, upTo int) error {
	return r.db.WithContext(ctx).
		Model(&model.WorkUnit{}).
		Where("module_id = ?", moduleID).
		Updates(map[string]interface{}{
			"covered":    gorm.Expr("unit_number <= ?", upTo),
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}
