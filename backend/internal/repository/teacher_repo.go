package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"seguimientos/backend/internal/model"
)

// TeacherRepository teacher data access
type TeacherRepository interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByID(ctx context.Context, id uint) (*model.Teacher, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.Teacher, error)
	List(ctx context.Context, offset, limit int) ([]model.Teacher, int64, error)
	Update(ctx context.Context, teacher *model.Teacher) error
	UpdatePassword(ctx context.Context, id uint, password string) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
}

type teacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo creates a TeacherRepository
func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) Create(ctx context.Context, teacher *model.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepo) GetByID(ctx context.Context, id uint) (*model.Teacher, error) {
	var teacher model.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepo) GetByEmail(ctx context.Context, email string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepo) List(ctx context.Context, offset, limit int) ([]model.Teacher, int64, error) {
	var teachers []model.Teacher
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Teacher{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&teachers).Error; err != nil {
		return nil, 0, err
	}

	return teachers, total, nil
}

// Update saves profile fields. The password column is left alone.
func (r *teacherRepo) Update(ctx context.Context, teacher *model.Teacher) error {
	return r.db.WithContext(ctx).
		Model(teacher).
		Select("email", "name", "active", "is_admin", "updated_at").
		Updates(teacher).Error
}

// UpdatePassword stores a new password; the model hook hashes it.
func (r *teacherRepo) UpdatePassword(ctx context.Context, id uint, password string) error {
	teacher := &model.Teacher{ID: id, Password: password}
	if err := teacher.BeforeSave(nil); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&model.Teacher{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"password": teacher.Password, "updated_at": gorm.Expr("NOW()")})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *teacherRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Teacher{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}

func (r *teacherRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID[model.Teacher](ctx, r.db, id)
}
