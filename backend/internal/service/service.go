package service

import (
	"go.uber.org/zap"

	"seguimientos/backend/config"
	"seguimientos/backend/internal/repository"
	"seguimientos/backend/pkg/jwt"
	"seguimientos/backend/pkg/mailer"
)

// Deps are the infrastructure pieces the services share.
type Deps struct {
	Cache     Cache
	Blacklist TokenBlacklist // nil disables server-side logout
	NewMailer mailer.Factory
}

// Service aggregates every service.
type Service struct {
	AcademicYear   AcademicYearService
	Curriculum     CurriculumService
	Auth           AuthService
	Teacher        TeacherService
	Assignment     AssignmentService
	ProgressReport ProgressReportService
	MissingReport  MissingReportService
	EmailConfig    EmailConfigService
	Reminder       ReminderService
	Clone          CloneService
	Export         ExportService
}

// NewService wires the services together.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	deps Deps,
	logger *zap.Logger,
) *Service {
	cache := deps.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}
	newMailer := deps.NewMailer
	if newMailer == nil {
		newMailer = mailer.NewFactory(logger)
	}

	years := NewAcademicYearService(repo, cache, cfg.Cache.CurrentYearTTL, logger)

	return &Service{
		AcademicYear:   years,
		Curriculum:     NewCurriculumService(repo, years, logger),
		Auth:           NewAuthService(repo, jwtMgr, deps.Blacklist, logger),
		Teacher:        NewTeacherService(repo, logger),
		Assignment:     NewAssignmentService(repo, years, logger),
		ProgressReport: NewProgressReportService(repo, years, logger),
		MissingReport:  NewMissingReportService(repo, logger),
		EmailConfig:    NewEmailConfigService(repo, logger),
		Reminder:       NewReminderService(repo, newMailer, cfg.Mail, cfg.Server.FrontendURL, logger),
		Clone:          NewCloneService(repo, years, logger),
		Export:         NewExportService(repo, years, logger),
	}
}
