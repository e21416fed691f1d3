package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
	"seguimientos/backend/pkg/academicyear"
	pkgerrors "seguimientos/backend/pkg/errors"
)

var ErrCloneScope = errors.New("scope must be cycles, modules or assignments")

// CloneService copies a year's structure into a new academic year.
//
//   - cycles: the new year and a copy of each cycle
//   - modules: also modules with their work units (coverage reset) and groups
//   - assignments: also teaching assignments pointed at the copied groups and modules
//
// Everything runs in one transaction and the new year is never made current.
type CloneService interface {
	Clone(ctx context.Context, sourceYear string, req *dto.CloneYearRequest) (*dto.CloneYearResponse, error)
}

type cloneService struct {
	repo   *repository.Repository
	years  AcademicYearService
	logger *zap.Logger
}

// NewCloneService creates a CloneService
func NewCloneService(repo *repository.Repository, years AcademicYearService, logger *zap.Logger) CloneService {
	return &cloneService{repo: repo, years: years, logger: logger}
}

func (s *cloneService) Clone(ctx context.Context, sourceYear string, req *dto.CloneYearRequest) (*dto.CloneYearResponse, error) {
	if err := academicyear.Validate(req.TargetYear); err != nil {
		return nil, ErrAcademicYearFormat
	}
	withModules := req.Scope == dto.CloneScopeModules || req.Scope == dto.CloneScopeAssignments
	withAssignments := req.Scope == dto.CloneScopeAssignments
	if !withModules && req.Scope != dto.CloneScopeCycles {
		return nil, ErrCloneScope
	}

	resp := &dto.CloneYearResponse{SourceYear: sourceYear, TargetYear: req.TargetYear}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.AcademicYear.GetByYear(ctx, sourceYear); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAcademicYearNotFound
			}
			return err
		}
		if _, err := tx.AcademicYear.GetByYear(ctx, req.TargetYear); err == nil {
			return ErrAcademicYearExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.AcademicYear.Create(ctx, &model.AcademicYear{Year: req.TargetYear}); err != nil {
			return err
		}

		cycleIDs, err := s.cloneCycles(ctx, tx, sourceYear, req.TargetYear, resp)
		if err != nil || !withModules {
			return err
		}

		groupIDs, err := s.cloneGroups(ctx, tx, sourceYear, cycleIDs, resp)
		if err != nil {
			return err
		}
		moduleIDs, err := s.cloneModules(ctx, tx, sourceYear, cycleIDs, resp)
		if err != nil || !withAssignments {
			return err
		}

		return s.cloneAssignments(ctx, tx, sourceYear, groupIDs, moduleIDs, resp)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAcademicYearNotFound), errors.Is(err, ErrAcademicYearExists):
			return nil, err
		case pkgerrors.IsUniqueViolation(err):
			return nil, ErrAcademicYearExists
		}
		s.logger.Error("clone academic year failed",
			zap.String("source", sourceYear), zap.String("target", req.TargetYear), zap.Error(err))
		return nil, err
	}

	s.years.InvalidateCache(ctx)
	s.logger.Info("academic year cloned",
		zap.String("source", sourceYear),
		zap.String("target", req.TargetYear),
		zap.String("scope", req.Scope),
		zap.Int("cycles", resp.Cycles),
		zap.Int("modules", resp.Modules),
		zap.Int("assignments", resp.Assignments),
	)
	return resp, nil
}

// idMap maps source row ids to their copies.
type idMap map[uint]uint

func (s *cloneService) cloneCycles(ctx context.Context, tx *repository.Repository, source, target string, resp *dto.CloneYearResponse) (idMap, error) {
	cycles, err := tx.Cycle.List(ctx, source)
	if err != nil {
		return nil, err
	}
	ids := make(idMap, len(cycles))
	for _, c := range cycles {
		copyCycle := &model.Cycle{Name: c.Name, AcademicYear: target}
		if err := tx.Cycle.Create(ctx, copyCycle); err != nil {
			return nil, err
		}
		ids[c.ID] = copyCycle.ID
	}
	resp.Cycles = len(ids)
	return ids, nil
}

func (s *cloneService) cloneGroups(ctx context.Context, tx *repository.Repository, source string, cycles idMap, resp *dto.CloneYearResponse) (idMap, error) {
	groups, err := tx.Group.List(ctx, repository.CurriculumFilter{Year: source})
	if err != nil {
		return nil, err
	}
	ids := make(idMap, len(groups))
	for _, g := range groups {
		copyGroup := &model.Group{Name: g.Name, CycleID: cycles[g.CycleID], Course: g.Course}
		if err := tx.Group.Create(ctx, copyGroup); err != nil {
			return nil, err
		}
		ids[g.ID] = copyGroup.ID
	}
	resp.Groups = len(ids)
	return ids, nil
}

func (s *cloneService) cloneModules(ctx context.Context, tx *repository.Repository, source string, cycles idMap, resp *dto.CloneYearResponse) (idMap, error) {
	modules, err := tx.Module.List(ctx, repository.CurriculumFilter{Year: source})
	if err != nil {
		return nil, err
	}
	ids := make(idMap, len(modules))
	for _, m := range modules {
		copyModule := &model.Module{Name: m.Name, Course: m.Course, CycleID: cycles[m.CycleID]}
		if err := tx.Module.Create(ctx, copyModule); err != nil {
			return nil, err
		}
		ids[m.ID] = copyModule.ID

		units, err := tx.WorkUnit.ListByModule(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		for _, u := range units {
			copyUnit := &model.WorkUnit{UnitNumber: u.UnitNumber, Title: u.Title, ModuleID: copyModule.ID}
			if err := tx.WorkUnit.Create(ctx, copyUnit); err != nil {
				return nil, err
			}
			resp.WorkUnits++
		}
	}
	resp.Modules = len(ids)
	return ids, nil
}

func (s *cloneService) cloneAssignments(ctx context.Context, tx *repository.Repository, source string, groups, modules idMap, resp *dto.CloneYearResponse) error {
	list, err := tx.TeachingAssignment.List(ctx, repository.AssignmentFilter{Year: source})
	if err != nil {
		return err
	}
	for _, a := range list {
		groupID, okG := groups[a.GroupID]
		moduleID, okM := modules[a.ModuleID]
		if !okG || !okM {
			// group from another year; nothing to point the copy at
			continue
		}
		copyAssignment := &model.TeachingAssignment{TeacherID: a.TeacherID, GroupID: groupID, ModuleID: moduleID}
		if err := tx.TeachingAssignment.Create(ctx, copyAssignment); err != nil {
			return err
		}
		resp.Assignments++
	}
	return nil
}
