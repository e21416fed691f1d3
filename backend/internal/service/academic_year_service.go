package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
	"seguimientos/backend/pkg/academicyear"
	pkgerrors "seguimientos/backend/pkg/errors"
)

// ── Academic year errors ──

var (
	ErrAcademicYearNotFound = errors.New("academic year not found")
	ErrAcademicYearFormat   = academicyear.ErrFormat
	ErrAcademicYearExists   = errors.New("academic year already exists")
)

// CurrentYearCacheKey is the cache entry holding the resolved current year.
const CurrentYearCacheKey = "current_academic_year"

// AcademicYearService keeps exactly one academic year flagged current.
type AcademicYearService interface {
	Create(ctx context.Context, req *dto.CreateAcademicYearRequest) (*dto.AcademicYearResponse, error)
	Get(ctx context.Context, year string) (*dto.AcademicYearResponse, error)
	List(ctx context.Context) ([]dto.AcademicYearResponse, error)
	SetCurrent(ctx context.Context, year string) error
	// CurrentYear returns the flagged year, or the calendar default when none is flagged.
	CurrentYear(ctx context.Context) (string, error)
	Delete(ctx context.Context, year string) error
	InvalidateCache(ctx context.Context)
}

type academicYearService struct {
	repo   *repository.Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewAcademicYearService creates an AcademicYearService
func NewAcademicYearService(repo *repository.Repository, cache Cache, ttl time.Duration, logger *zap.Logger) AcademicYearService {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &academicYearService{repo: repo, cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *academicYearService) Create(ctx context.Context, req *dto.CreateAcademicYearRequest) (*dto.AcademicYearResponse, error) {
	if err := academicyear.Validate(req.Year); err != nil {
		return nil, ErrAcademicYearFormat
	}

	ay := &model.AcademicYear{Year: req.Year, Current: req.Current}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.AcademicYear.GetByYear(ctx, req.Year); err == nil {
			return ErrAcademicYearExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		n, err := tx.AcademicYear.Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			ay.Current = true
		}
		if ay.Current {
			if err := tx.AcademicYear.ClearCurrent(ctx); err != nil {
				return err
			}
		}
		return tx.AcademicYear.Create(ctx, ay)
	})
	if err != nil {
		if errors.Is(err, ErrAcademicYearExists) || pkgerrors.IsUniqueViolation(err) {
			return nil, ErrAcademicYearExists
		}
		s.logger.Error("create academic year failed", zap.String("year", req.Year), zap.Error(err))
		return nil, err
	}

	s.InvalidateCache(ctx)
	return toAcademicYearResponse(ay), nil
}

// ────────────────────── Get / List ──────────────────────

func (s *academicYearService) Get(ctx context.Context, year string) (*dto.AcademicYearResponse, error) {
	ay, err := s.repo.AcademicYear.GetByYear(ctx, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("get academic year failed", zap.String("year", year), zap.Error(err))
		return nil, err
	}
	return toAcademicYearResponse(ay), nil
}

func (s *academicYearService) List(ctx context.Context) ([]dto.AcademicYearResponse, error) {
	years, err := s.repo.AcademicYear.List(ctx)
	if err != nil {
		s.logger.Error("list academic years failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AcademicYearResponse, 0, len(years))
	for i := range years {
		result = append(result, *toAcademicYearResponse(&years[i]))
	}
	return result, nil
}

// ────────────────────── SetCurrent ──────────────────────

func (s *academicYearService) SetCurrent(ctx context.Context, year string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.AcademicYear.GetByYear(ctx, year); err != nil {
			return err
		}
		if err := tx.AcademicYear.ClearCurrent(ctx); err != nil {
			return err
		}
		return tx.AcademicYear.SetCurrent(ctx, year)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAcademicYearNotFound
		}
		s.logger.Error("set current academic year failed", zap.String("year", year), zap.Error(err))
		return err
	}

	s.InvalidateCache(ctx)
	s.logger.Info("current academic year changed", zap.String("year", year))
	return nil
}

// ────────────────────── CurrentYear ──────────────────────

func (s *academicYearService) CurrentYear(ctx context.Context) (string, error) {
	if year, err := s.cache.Get(ctx, CurrentYearCacheKey); err == nil && year != "" {
		return year, nil
	}

	var year string
	ay, err := s.repo.AcademicYear.GetCurrent(ctx)
	switch {
	case err == nil:
		year = ay.Year
	case errors.Is(err, gorm.ErrRecordNotFound):
		year = academicyear.Default(s.now())
	default:
		s.logger.Error("get current academic year failed", zap.Error(err))
		return "", err
	}

	if err := s.cache.Set(ctx, CurrentYearCacheKey, year, s.ttl); err != nil {
		s.logger.Warn("cache current academic year failed", zap.Error(err))
	}
	return year, nil
}

// ────────────────────── Delete ──────────────────────

func (s *academicYearService) Delete(ctx context.Context, year string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ay, err := tx.AcademicYear.GetByYear(ctx, year)
		if err != nil {
			return err
		}
		if err := tx.AcademicYear.Delete(ctx, year); err != nil {
			return err
		}
		if !ay.Current {
			return nil
		}

		latest, err := tx.AcademicYear.GetLatest(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // last year removed, nothing to promote
		}
		if err != nil {
			return err
		}
		return tx.AcademicYear.SetCurrent(ctx, latest.Year)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAcademicYearNotFound
		}
		if pkgerrors.IsForeignKeyViolation(err) {
			return ErrWorkUnitInUse
		}
		s.logger.Error("delete academic year failed", zap.String("year", year), zap.Error(err))
		return err
	}

	s.InvalidateCache(ctx)
	return nil
}

// InvalidateCache drops the cached current year. Failures only cost a stale read.
func (s *academicYearService) InvalidateCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, CurrentYearCacheKey); err != nil {
		s.logger.Warn("invalidate current year cache failed", zap.Error(err))
	}
}

func toAcademicYearResponse(ay *model.AcademicYear) *dto.AcademicYearResponse {
	return &dto.AcademicYearResponse{
		Year:      ay.Year,
		Current:   ay.Current,
		CreatedAt: dto.FormatTime(ay.CreatedAt),
	}
}
