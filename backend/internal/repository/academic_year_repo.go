package repository

import (
	"context"

	"gorm.io/gorm"

	"seguimientos/backend/internal/model"
)

// AcademicYearRepository academic year data access
type AcademicYearRepository interface {
	Create(ctx context.Context, year *model.AcademicYear) error
	GetByYear(ctx context.Context, year string) (*model.AcademicYear, error)
	GetCurrent(ctx context.Context) (*model.AcademicYear, error)
	// GetLatest returns the highest year label.
	GetLatest(ctx context.Context) (*model.AcademicYear, error)
	List(ctx context.Context) ([]model.AcademicYear, error)
	Count(ctx context.Context) (int64, error)
	ClearCurrent(ctx context.Context) error
	SetCurrent(ctx context.Context, year string) error
	Delete(ctx context.Context, year string) error
}

type academicYearRepo struct {
	db *gorm.DB
}

// NewAcademicYearRepo creates an AcademicYearRepository
func NewAcademicYearRepo(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepo{db: db}
}

func (r *academicYearRepo) Create(ctx context.Context, year *model.AcademicYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

func (r *academicYearRepo) GetByYear(ctx context.Context, year string) (*model.AcademicYear, error) {
	var ay model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		First(&ay).Error
	if err != nil {
		return nil, err
	}
	return &ay, nil
}

func (r *academicYearRepo) GetCurrent(ctx context.Context) (*model.AcademicYear, error) {
	var ay model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("current = ?", true).
		First(&ay).Error
	if err != nil {
		return nil, err
	}
	return &ay, nil
}

func (r *academicYearRepo) GetLatest(ctx context.Context) (*model.AcademicYear, error) {
	var ay model.AcademicYear
	err := r.db.WithContext(ctx).
		Order("year DESC").
		First(&ay).Error
	if err != nil {
		return nil, err
	}
	return &ay, nil
}

func (r *academicYearRepo) List(ctx context.Context) ([]model.AcademicYear, error) {
	var years []model.AcademicYear
	err := r.db.WithContext(ctx).
		Order("year DESC").
		Find(&years).Error
	return years, err
}

func (r *academicYearRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AcademicYear{}).Count(&n).Error
	return n, err
}

// ClearCurrent un-flags every current year.
func (r *academicYearRepo) ClearCurrent(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Where("current = ?", true).
		Updates(map[string]interface{}{"current": false, "updated_at": gorm.Expr("NOW()")}).Error
}

// SetCurrent flags one year. Returns gorm.ErrRecordNotFound when it does not exist.
func (r *academicYearRepo) SetCurrent(ctx context.Context, year string) error {
	res := r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Where("year = ?", year).
		Updates(map[string]interface{}{"current": true, "updated_at": gorm.Expr("NOW()")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *academicYearRepo) Delete(ctx context.Context, year string) error {
	res := r.db.WithContext(ctx).
		Where("year = ?", year).
		Delete(&model.AcademicYear{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
