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

// ── Teaching assignment errors ──

var (
	ErrAssignmentNotFound     = errors.New("teaching assignment not found")
	ErrAssignmentDuplicate    = errors.New("teacher is already assigned to this group and module")
	ErrAssignmentYearMismatch = errors.New("group and module belong to different academic years")
)

// AssignmentService teaching assignment index
type AssignmentService interface {
	Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.AssignmentResponse, error)
	List(ctx context.Context, q *dto.AssignmentListQuery) ([]dto.AssignmentResponse, error)
	// ListForTeacher returns the teacher's assignments in year, defaulting to the current year.
	ListForTeacher(ctx context.Context, teacherID uint, year string) ([]dto.AssignmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type assignmentService struct {
	repo   *repository.Repository
	years  AcademicYearService
	logger *zap.Logger
}

// NewAssignmentService creates an AssignmentService
func NewAssignmentService(repo *repository.Repository, years AcademicYearService, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, years: years, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, req.TeacherID)
	if err != nil {
		return nil, s.lookupError("teacher", req.TeacherID, err, ErrTeacherNotFound)
	}
	group, err := s.repo.Group.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, s.lookupError("group", req.GroupID, err, ErrGroupNotFound)
	}
	module, err := s.repo.Module.GetByID(ctx, req.ModuleID)
	if err != nil {
		return nil, s.lookupError("module", req.ModuleID, err, ErrModuleNotFound)
	}
	if group.Cycle != nil && module.Cycle != nil && group.Cycle.AcademicYear != module.Cycle.AcademicYear {
		return nil, ErrAssignmentYearMismatch
	}

	exists, err := s.repo.TeachingAssignment.Exists(ctx, req.TeacherID, req.GroupID, req.ModuleID)
	if err != nil {
		s.logger.Error("check assignment failed", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrAssignmentDuplicate
	}

	a := &model.TeachingAssignment{TeacherID: teacher.ID, GroupID: group.ID, ModuleID: module.ID}
	if err := s.repo.TeachingAssignment.Create(ctx, a); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrAssignmentDuplicate
		}
		s.logger.Error("create assignment failed", zap.Error(err))
		return nil, err
	}

	a.Teacher, a.Group, a.Module = teacher, group, module
	resp := toAssignmentResponse(a)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *assignmentService) GetByID(ctx context.Context, id uint) (*dto.AssignmentResponse, error) {
	a, err := s.repo.TeachingAssignment.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError("assignment", id, err, ErrAssignmentNotFound)
	}
	resp := toAssignmentResponse(a)
	return &resp, nil
}

func (s *assignmentService) List(ctx context.Context, q *dto.AssignmentListQuery) ([]dto.AssignmentResponse, error) {
	return s.list(ctx, repository.AssignmentFilter{TeacherID: q.TeacherID, Year: q.Year})
}

func (s *assignmentService) ListForTeacher(ctx context.Context, teacherID uint, year string) ([]dto.AssignmentResponse, error) {
	if year == "" {
		current, err := s.years.CurrentYear(ctx)
		if err != nil {
			return nil, err
		}
		year = current
	}
	return s.list(ctx, repository.AssignmentFilter{TeacherID: teacherID, Year: year})
}

func (s *assignmentService) list(ctx context.Context, filter repository.AssignmentFilter) ([]dto.AssignmentResponse, error) {
	list, err := s.repo.TeachingAssignment.List(ctx, filter)
	if err != nil {
		s.logger.Error("list assignments failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, toAssignmentResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *assignmentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.TeachingAssignment.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("delete assignment failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *assignmentService) lookupError(entity string, id uint, err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	s.logger.Error("get "+entity+" failed", zap.Uint("id", id), zap.Error(err))
	return err
}
