package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
	pkgerrors "seguimientos/backend/pkg/errors"
)

// ── Curriculum errors ──

var (
	ErrCycleNotFound     = errors.New("cycle not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrModuleNotFound    = errors.New("module not found")
	ErrWorkUnitNotFound  = errors.New("work unit not found")
	ErrWorkUnitDuplicate = errors.New("a work unit with this number already exists in the module")
	ErrWorkUnitInUse     = errors.New("work unit is referenced by a progress report")
	ErrNoWorkUnits       = errors.New("no work units exist for this module")
)

// CurriculumService manages cycles, groups, modules and their work units.
type CurriculumService interface {
	CreateCycle(ctx context.Context, req *dto.CreateCycleRequest) (*dto.CycleResponse, error)
	GetCycle(ctx context.Context, id uint) (*dto.CycleResponse, error)
	ListCycles(ctx context.Context, year string) ([]dto.CycleResponse, error)
	UpdateCycle(ctx context.Context, id uint, req *dto.UpdateCycleRequest) (*dto.CycleResponse, error)
	DeleteCycle(ctx context.Context, id uint) error

	CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetGroup(ctx context.Context, id uint) (*dto.GroupResponse, error)
	ListGroups(ctx context.Context, q *dto.CurriculumListQuery) ([]dto.GroupResponse, error)
	UpdateGroup(ctx context.Context, id uint, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error)
	DeleteGroup(ctx context.Context, id uint) error

	CreateModule(ctx context.Context, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error)
	GetModule(ctx context.Context, id uint) (*dto.ModuleResponse, error)
	ListModules(ctx context.Context, q *dto.CurriculumListQuery) ([]dto.ModuleResponse, error)
	UpdateModule(ctx context.Context, id uint, req *dto.UpdateModuleRequest) (*dto.ModuleResponse, error)
	DeleteModule(ctx context.Context, id uint) error
	// ListWorkUnits returns ErrNoWorkUnits when the module exists but has none.
	ListWorkUnits(ctx context.Context, moduleID uint) ([]dto.WorkUnitResponse, error)

	CreateWorkUnit(ctx context.Context, req *dto.CreateWorkUnitRequest) (*dto.WorkUnitResponse, error)
	GetWorkUnit(ctx context.Context, id uint) (*dto.WorkUnitResponse, error)
	UpdateWorkUnit(ctx context.Context, id uint, req *dto.UpdateWorkUnitRequest) (*dto.WorkUnitResponse, error)
	DeleteWorkUnit(ctx context.Context, id uint) error
}

type curriculumService struct {
	repo   *repository.Repository
	years  AcademicYearService
	logger *zap.Logger
}

// NewCurriculumService creates a CurriculumService. Cycle and module writes
// invalidate the current-year cache through years.
func NewCurriculumService(repo *repository.Repository, years AcademicYearService, logger *zap.Logger) CurriculumService {
	return &curriculumService{repo: repo, years: years, logger: logger}
}

// ── Cycle ──

func (s *curriculumService) CreateCycle(ctx context.Context, req *dto.CreateCycleRequest) (*dto.CycleResponse, error) {
	if err := s.requireYear(ctx, req.AcademicYear); err != nil {
		return nil, err
	}

	cycle := &model.Cycle{Name: req.Name, AcademicYear: req.AcademicYear}
	if err := s.repo.Cycle.Create(ctx, cycle); err != nil {
		s.logger.Error("create cycle failed", zap.Error(err))
		return nil, err
	}

	s.years.InvalidateCache(ctx)
	return toCycleResponse(cycle), nil
}

func (s *curriculumService) GetCycle(ctx context.Context, id uint) (*dto.CycleResponse, error) {
	cycle, err := s.findCycle(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCycleResponse(cycle), nil
}

func (s *curriculumService) ListCycles(ctx context.Context, year string) ([]dto.CycleResponse, error) {
	cycles, err := s.repo.Cycle.List(ctx, year)
	if err != nil {
		s.logger.Error("list cycles failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CycleResponse, 0, len(cycles))
	for i := range cycles {
		result = append(result, *toCycleResponse(&cycles[i]))
	}
	return result, nil
}

func (s *curriculumService) UpdateCycle(ctx context.Context, id uint, req *dto.UpdateCycleRequest) (*dto.CycleResponse, error) {
	cycle, err := s.findCycle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cycle.Name = *req.Name
	}
	if req.AcademicYear != nil && *req.AcademicYear != cycle.AcademicYear {
		if err := s.requireYear(ctx, *req.AcademicYear); err != nil {
			return nil, err
		}
		cycle.AcademicYear = *req.AcademicYear
	}

	if err := s.repo.Cycle.Update(ctx, cycle); err != nil {
		s.logger.Error("update cycle failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	s.years.InvalidateCache(ctx)
	return toCycleResponse(cycle), nil
}

func (s *curriculumService) DeleteCycle(ctx context.Context, id uint) error {
	if err := s.repo.Cycle.Delete(ctx, id); err != nil {
		return s.deleteError("cycle", id, err, ErrCycleNotFound)
	}
	s.years.InvalidateCache(ctx)
	return nil
}

// ── Group ──

func (s *curriculumService) CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	cycle, err := s.findCycle(ctx, req.CycleID)
	if err != nil {
		return nil, err
	}

	group := &model.Group{Name: req.Name, CycleID: cycle.ID, Course: req.Course}
	if err := s.repo.Group.Create(ctx, group); err != nil {
		s.logger.Error("create group failed", zap.Error(err))
		return nil, err
	}
	group.Cycle = cycle
	return toGroupResponse(group), nil
}

func (s *curriculumService) GetGroup(ctx context.Context, id uint) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound("group", id, err, ErrGroupNotFound)
	}
	return toGroupResponse(group), nil
}

func (s *curriculumService) ListGroups(ctx context.Context, q *dto.CurriculumListQuery) ([]dto.GroupResponse, error) {
	groups, err := s.repo.Group.List(ctx, repository.CurriculumFilter{CycleID: q.CycleID, Year: q.Year})
	if err != nil {
		s.logger.Error("list groups failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		result = append(result, *toGroupResponse(&groups[i]))
	}
	return result, nil
}

func (s *curriculumService) UpdateGroup(ctx context.Context, id uint, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound("group", id, err, ErrGroupNotFound)
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Course != nil {
		group.Course = *req.Course
	}
	if req.CycleID != nil && *req.CycleID != group.CycleID {
		cycle, err := s.findCycle(ctx, *req.CycleID)
		if err != nil {
			return nil, err
		}
		group.CycleID = cycle.ID
		group.Cycle = cycle
	}

	if err := s.repo.Group.Update(ctx, group); err != nil {
		s.logger.Error("update group failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toGroupResponse(group), nil
}

func (s *curriculumService) DeleteGroup(ctx context.Context, id uint) error {
	if err := s.repo.Group.Delete(ctx, id); err != nil {
		return s.deleteError("group", id, err, ErrGroupNotFound)
	}
	return nil
}

// ── Module ──

func (s *curriculumService) CreateModule(ctx context.Context, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error) {
	cycle, err := s.findCycle(ctx, req.CycleID)
	if err != nil {
		return nil, err
	}

	module := &model.Module{Name: req.Name, Course: req.Course, CycleID: cycle.ID}
	if err := s.repo.Module.Create(ctx, module); err != nil {
		s.logger.Error("create module failed", zap.Error(err))
		return nil, err
	}

	s.years.InvalidateCache(ctx)
	module.Cycle = cycle
	return toModuleResponse(module), nil
}

func (s *curriculumService) GetModule(ctx context.Context, id uint) (*dto.ModuleResponse, error) {
	module, err := s.repo.Module.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound("module", id, err, ErrModuleNotFound)
	}
	return toModuleResponse(module), nil
}

func (s *curriculumService) ListModules(ctx context.Context, q *dto.CurriculumListQuery) ([]dto.ModuleResponse, error) {
	modules, err := s.repo.Module.List(ctx, repository.CurriculumFilter{CycleID: q.CycleID, Year: q.Year})
	if err != nil {
		s.logger.Error("list modules failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ModuleResponse, 0, len(modules))
	for i := range modules {
		result = append(result, *toModuleResponse(&modules[i]))
	}
	return result, nil
}

func (s *curriculumService) UpdateModule(ctx context.Context, id uint, req *dto.UpdateModuleRequest) (*dto.ModuleResponse, error) {
	module, err := s.repo.Module.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound("module", id, err, ErrModuleNotFound)
	}

	if req.Name != nil {
		module.Name = *req.Name
	}
	if req.Course != nil {
		module.Course = *req.Course
	}
	if req.CycleID != nil && *req.CycleID != module.CycleID {
		cycle, err := s.findCycle(ctx, *req.CycleID)
		if err != nil {
			return nil, err
		}
		module.CycleID = cycle.ID
		module.Cycle = cycle
	}

	if err := s.repo.Module.Update(ctx, module); err != nil {
		s.logger.Error("update module failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	s.years.InvalidateCache(ctx)
	return toModuleResponse(module), nil
}

func (s *curriculumService) DeleteModule(ctx context.Context, id uint) error {
	if err := s.repo.Module.Delete(ctx, id); err != nil {
		return s.deleteError("module", id, err, ErrModuleNotFound)
	}
	s.years.InvalidateCache(ctx)
	return nil
}

func (s *curriculumService) ListWorkUnits(ctx context.Context, moduleID uint) ([]dto.WorkUnitResponse, error) {
	if _, err := s.repo.Module.GetByID(ctx, moduleID); err != nil {
		return nil, s.notFound("module", moduleID, err, ErrModuleNotFound)
	}

	units, err := s.repo.WorkUnit.ListByModule(ctx, moduleID)
	if err != nil {
		s.logger.Error("list work units failed", zap.Uint("module_id", moduleID), zap.Error(err))
		return nil, err
	}
	if len(units) == 0 {
		return nil, ErrNoWorkUnits
	}

	result := make([]dto.WorkUnitResponse, 0, len(units))
	for i := range units {
		result = append(result, toWorkUnitResponse(&units[i]))
	}
	return result, nil
}

// ── Work unit ──

func (s *curriculumService) CreateWorkUnit(ctx context.Context, req *dto.CreateWorkUnitRequest) (*dto.WorkUnitResponse, error) {
	if _, err := s.repo.Module.GetByID(ctx, req.ModuleID); err != nil {
		return nil, s.notFound("module", req.ModuleID, err, ErrModuleNotFound)
	}

	unit := &model.WorkUnit{ModuleID: req.ModuleID, UnitNumber: req.UnitNumber, Title: req.Title}
	if err := s.repo.WorkUnit.Create(ctx, unit); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrWorkUnitDuplicate
		}
		s.logger.Error("create work unit failed", zap.Error(err))
		return nil, err
	}

	resp := toWorkUnitResponse(unit)
	return &resp, nil
}

func (s *curriculumService) GetWorkUnit(ctx context.Context, id uint) (*dto.WorkUnitResponse, error) {
	unit, err := s.repo.WorkUnit.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound("work unit", id, err, ErrWorkUnitNotFound)
	}
	resp := toWorkUnitResponse(unit)
	return &resp, nil
}

func (s *curriculumService) UpdateWorkUnit(ctx context.Context, id uint, req *dto.UpdateWorkUnitRequest) (*dto.WorkUnitResponse, error) {
	unit, err := s.repo.WorkUnit.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound("work unit", id, err, ErrWorkUnitNotFound)
	}

	if req.UnitNumber != nil {
		unit.UnitNumber = *req.UnitNumber
	}
	if req.Title != nil {
		unit.Title = *req.Title
	}

	if err := s.repo.WorkUnit.Update(ctx, unit); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrWorkUnitDuplicate
		}
		s.logger.Error("update work unit failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	resp := toWorkUnitResponse(unit)
	return &resp, nil
}

func (s *curriculumService) DeleteWorkUnit(ctx context.Context, id uint) error {
	if err := s.repo.WorkUnit.Delete(ctx, id); err != nil {
		return s.deleteError("work unit", id, err, ErrWorkUnitNotFound)
	}
	return nil
}

// ── helpers ──

func (s *curriculumService) requireYear(ctx context.Context, year string) error {
	if _, err := s.repo.AcademicYear.GetByYear(ctx, year); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAcademicYearNotFound
		}
		s.logger.Error("get academic year failed", zap.String("year", year), zap.Error(err))
		return err
	}
	return nil
}

func (s *curriculumService) findCycle(ctx context.Context, id uint) (*model.Cycle, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound("cycle", id, err, ErrCycleNotFound)
	}
	return cycle, nil
}

// notFound maps gorm.ErrRecordNotFound to sentinel and logs anything else.
func (s *curriculumService) notFound(entity string, id uint, err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	s.logger.Error("get "+entity+" failed", zap.Uint("id", id), zap.Error(err))
	return err
}

// deleteError also covers cascades that reach a work unit still pointed at by a report.
func (s *curriculumService) deleteError(entity string, id uint, err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	if pkgerrors.IsForeignKeyViolation(err) {
		return ErrWorkUnitInUse
	}
	s.logger.Error("delete "+entity+" failed", zap.Uint("id", id), zap.Error(err))
	return err
}
