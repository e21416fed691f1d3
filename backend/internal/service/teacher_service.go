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

// ── Teacher errors ──

var (
	ErrTeacherNotFound   = errors.New("teacher not found")
	ErrTeacherEmailTaken = errors.New("a teacher with this email already exists")
)

// TeacherService teacher administration
type TeacherService interface {
	Create(ctx context.Context, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.TeacherResponse, error)
	GetByEmail(ctx context.Context, email string) (*dto.TeacherResponse, error)
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.TeacherResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateTeacherRequest) (*dto.TeacherResponse, error)
	SetPassword(ctx context.Context, id uint, password string) error
	Delete(ctx context.Context, id uint) error
}

type teacherService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeacherService creates a TeacherService
func NewTeacherService(repo *repository.Repository, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, logger: logger}
}

func (s *teacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error) {
	if err := s.ensureEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	teacher := &model.Teacher{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Active:   true,
		IsAdmin:  req.IsAdmin,
	}
	if req.Active != nil {
		teacher.Active = *req.Active
	}

	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrTeacherEmailTaken
		}
		s.logger.Error("create teacher failed", zap.Error(err))
		return nil, err
	}

	resp := toTeacherResponse(teacher)
	return &resp, nil
}

func (s *teacherService) GetByID(ctx context.Context, id uint) (*dto.TeacherResponse, error) {
	teacher, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTeacherResponse(teacher)
	return &resp, nil
}

func (s *teacherService) GetByEmail(ctx context.Context, email string) (*dto.TeacherResponse, error) {
	teacher, err := s.repo.Teacher.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("get teacher by email failed", zap.Error(err))
		return nil, err
	}
	resp := toTeacherResponse(teacher)
	return &resp, nil
}

func (s *teacherService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.TeacherResponse, int64, error) {
	teachers, total, err := s.repo.Teacher.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list teachers failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		result = append(result, toTeacherResponse(&teachers[i]))
	}
	return result, total, nil
}

func (s *teacherService) Update(ctx context.Context, id uint, req *dto.UpdateTeacherRequest) (*dto.TeacherResponse, error) {
	teacher, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != teacher.Email {
		if err := s.ensureEmailFree(ctx, *req.Email, id); err != nil {
			return nil, err
		}
		teacher.Email = *req.Email
	}
	if req.Name != nil {
		teacher.Name = *req.Name
	}
	if req.Active != nil {
		teacher.Active = *req.Active
	}
	if req.IsAdmin != nil {
		teacher.IsAdmin = *req.IsAdmin
	}

	if err := s.repo.Teacher.Update(ctx, teacher); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrTeacherEmailTaken
		}
		s.logger.Error("update teacher failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	resp := toTeacherResponse(teacher)
	return &resp, nil
}

func (s *teacherService) SetPassword(ctx context.Context, id uint, password string) error {
	if err := s.repo.Teacher.UpdatePassword(ctx, id, password); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		s.logger.Error("set teacher password failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *teacherService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Teacher.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		s.logger.Error("delete teacher failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *teacherService) find(ctx context.Context, id uint) (*model.Teacher, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("get teacher failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

// ensureEmailFree fails when another teacher (not self) already uses email.
func (s *teacherService) ensureEmailFree(ctx context.Context, email string, self uint) error {
	existing, err := s.repo.Teacher.GetByEmail(ctx, email)
	if err == nil && existing.ID != self {
		return ErrTeacherEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("get teacher by email failed", zap.Error(err))
		return err
	}
	return nil
}
