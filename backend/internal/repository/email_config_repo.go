package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seguimientos/backend/internal/model"
)

// Both tables hold at most one row keyed by singleton = true. Get returns
// gorm.ErrRecordNotFound until the row is first saved.

// ReminderEmailConfigRepository reminder template data access
type ReminderEmailConfigRepository interface {
	Get(ctx context.Context) (*model.ReminderEmailConfig, error)
	Save(ctx context.Context, cfg *model.ReminderEmailConfig) error
}

type reminderEmailConfigRepo struct {
	db *gorm.DB
}

// NewReminderEmailConfigRepo creates a ReminderEmailConfigRepository
func NewReminderEmailConfigRepo(db *gorm.DB) ReminderEmailConfigRepository {
	return &reminderEmailConfigRepo{db: db}
}

func (r *reminderEmailConfigRepo) Get(ctx context.Context) (*model.ReminderEmailConfig, error) {
	var cfg model.ReminderEmailConfig
	if err := r.db.WithContext(ctx).Where("singleton = ?", true).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *reminderEmailConfigRepo) Save(ctx context.Context, cfg *model.ReminderEmailConfig) error {
	cfg.Singleton = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton"}},
			UpdateAll: true,
		}).
		Create(cfg).Error
}

// EmailSettingsRepository mail transport settings data access
type EmailSettingsRepository interface {
	Get(ctx context.Context) (*model.EmailSettings, error)
	Save(ctx context.Context, s *model.EmailSettings) error
}

type emailSettingsRepo struct {
	db *gorm.DB
}

// NewEmailSettingsRepo creates an EmailSettingsRepository
func NewEmailSettingsRepo(db *gorm.DB) EmailSettingsRepository {
	return &emailSettingsRepo{db: db}
}

func (r *emailSettingsRepo) Get(ctx context.Context) (*model.EmailSettings, error) {
	var s model.EmailSettings
	if err := r.db.WithContext(ctx).Where("singleton = ?", true).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *emailSettingsRepo) Save(ctx context.Context, s *model.EmailSettings) error {
	s.Singleton = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton"}},
			UpdateAll: true,
		}).
		Create(s).Error
}
