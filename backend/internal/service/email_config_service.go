package service

import (
	"context"
	"errors"
	"fmt"
	"text/template"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
)

var (
	ErrTemplateInvalid    = errors.New("invalid reminder template")
	ErrEmailTLSAndSSL     = errors.New("use_tls and use_ssl cannot both be enabled")
	ErrEmailNotConfigured = errors.New("email transport is not fully configured")
)

// Default reminder wording, used until an admin saves a template.
const (
	DefaultReminderSubject = "Recordatorio de seguimiento pendiente - {{ .Month }}"
	DefaultReminderBody    = `Estimado/a {{ .TeacherName }},

Le recordamos que tiene pendiente realizar el seguimiento del mes de {{ .Month }} para las siguientes docencias:

{{ .Assignments }}

Puede completar los seguimientos pendientes haciendo clic en el siguiente enlace:
{{ .FrontendURL }}

Gracias por su colaboración.

Este es un correo automático, por favor no responda a esta dirección.`
)

// EmailConfigService edits the reminder template and transport settings rows.
type EmailConfigService interface {
	GetTemplate(ctx context.Context) (*dto.ReminderTemplateResponse, error)
	UpdateTemplate(ctx context.Context, callerID uint, req *dto.ReminderTemplateRequest) (*dto.ReminderTemplateResponse, error)
	GetSettings(ctx context.Context) (*dto.EmailSettingsResponse, error)
	UpdateSettings(ctx context.Context, callerID uint, req *dto.UpdateEmailSettingsRequest) (*dto.EmailSettingsResponse, error)
}

type emailConfigService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmailConfigService creates an EmailConfigService
func NewEmailConfigService(repo *repository.Repository, logger *zap.Logger) EmailConfigService {
	return &emailConfigService{repo: repo, logger: logger}
}

// ── Template ──

func (s *emailConfigService) GetTemplate(ctx context.Context) (*dto.ReminderTemplateResponse, error) {
	cfg, err := loadReminderTemplate(ctx, s.repo)
	if err != nil {
		s.logger.Error("get reminder template failed", zap.Error(err))
		return nil, err
	}
	return toTemplateResponse(cfg), nil
}

func (s *emailConfigService) UpdateTemplate(ctx context.Context, callerID uint, req *dto.ReminderTemplateRequest) (*dto.ReminderTemplateResponse, error) {
	if _, err := parseReminderTemplates(req.Subject, req.Body); err != nil {
		return nil, err
	}

	cfg := &model.ReminderEmailConfig{
		Subject:   req.Subject,
		Body:      req.Body,
		UpdatedBy: &callerID,
	}
	if err := s.repo.ReminderEmailConfig.Save(ctx, cfg); err != nil {
		s.logger.Error("save reminder template failed", zap.Error(err))
		return nil, err
	}
	return toTemplateResponse(cfg), nil
}

// ── Transport settings ──

func (s *emailConfigService) GetSettings(ctx context.Context) (*dto.EmailSettingsResponse, error) {
	settings, err := loadEmailSettings(ctx, s.repo)
	if err != nil {
		s.logger.Error("get email settings failed", zap.Error(err))
		return nil, err
	}
	return toEmailSettingsResponse(settings), nil
}

func (s *emailConfigService) UpdateSettings(ctx context.Context, callerID uint, req *dto.UpdateEmailSettingsRequest) (*dto.EmailSettingsResponse, error) {
	settings, err := loadEmailSettings(ctx, s.repo)
	if err != nil {
		s.logger.Error("get email settings failed", zap.Error(err))
		return nil, err
	}

	if req.Provider != nil {
		settings.Provider = *req.Provider
	}
	if req.Host != nil {
		settings.Host = *req.Host
	}
	if req.Port != nil {
		settings.Port = *req.Port
	}
	if req.Username != nil {
		settings.Username = *req.Username
	}
	if req.Password != nil {
		settings.Password = *req.Password
	}
	if req.UseTLS != nil {
		settings.UseTLS = *req.UseTLS
	}
	if req.UseSSL != nil {
		settings.UseSSL = *req.UseSSL
	}
	if req.FailSilently != nil {
		settings.FailSilently = *req.FailSilently
	}
	if req.TimeoutSeconds != nil {
		settings.TimeoutSeconds = *req.TimeoutSeconds
	}
	if req.SendGridAPIKey != nil {
		settings.SendGridAPIKey = *req.SendGridAPIKey
	}

	if settings.UseTLS && settings.UseSSL {
		return nil, ErrEmailTLSAndSSL
	}
	settings.UpdatedBy = &callerID

	if err := s.repo.EmailSettings.Save(ctx, settings); err != nil {
		s.logger.Error("save email settings failed", zap.Error(err))
		return nil, err
	}
	return toEmailSettingsResponse(settings), nil
}

// ── shared loaders ──

// loadReminderTemplate returns the stored template or the built-in default.
func loadReminderTemplate(ctx context.Context, repo *repository.Repository) (*model.ReminderEmailConfig, error) {
	cfg, err := repo.ReminderEmailConfig.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.ReminderEmailConfig{Singleton: true, Subject: DefaultReminderSubject, Body: DefaultReminderBody}, nil
	}
	return cfg, err
}

// loadEmailSettings returns the stored settings or the defaults.
func loadEmailSettings(ctx context.Context, repo *repository.Repository) (*model.EmailSettings, error) {
	settings, err := repo.EmailSettings.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d := model.DefaultEmailSettings()
		return &d, nil
	}
	return settings, err
}

type reminderTemplates struct {
	subject *template.Template
	body    *template.Template
}

func parseReminderTemplates(subject, body string) (*reminderTemplates, error) {
	st, err := template.New("subject").Option("missingkey=error").Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %v", ErrTemplateInvalid, err)
	}
	bt, err := template.New("body").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrTemplateInvalid, err)
	}
	// a dry run catches references to fields that do not exist
	if err := st.Execute(discard{}, reminderData{}); err != nil {
		return nil, fmt.Errorf("%w: subject: %v", ErrTemplateInvalid, err)
	}
	if err := bt.Execute(discard{}, reminderData{}); err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrTemplateInvalid, err)
	}
	return &reminderTemplates{subject: st, body: bt}, nil
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func toTemplateResponse(cfg *model.ReminderEmailConfig) *dto.ReminderTemplateResponse {
	return &dto.ReminderTemplateResponse{
		Subject:   cfg.Subject,
		Body:      cfg.Body,
		UpdatedAt: dto.FormatTime(cfg.UpdatedAt),
	}
}

func toEmailSettingsResponse(s *model.EmailSettings) *dto.EmailSettingsResponse {
	return &dto.EmailSettingsResponse{
		Provider:          s.Provider,
		Host:              s.Host,
		Port:              s.Port,
		Username:          s.Username,
		PasswordSet:       s.Password != "",
		UseTLS:            s.UseTLS,
		UseSSL:            s.UseSSL,
		FailSilently:      s.FailSilently,
		TimeoutSeconds:    s.TimeoutSeconds,
		SendGridAPIKeySet: s.SendGridAPIKey != "",
		UpdatedAt:         dto.FormatTime(s.UpdatedAt),
	}
}
