package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"seguimientos/backend/config"
	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
	"seguimientos/backend/pkg/academicyear"
	"seguimientos/backend/pkg/mailer"
)

// reminderData is what reminder templates can reference.
type reminderData struct {
	TeacherName string
	Month       string
	Assignments string
	FrontendURL string
}

// ReminderService emails teachers about reports they still owe.
type ReminderService interface {
	// Send groups the assignments by teacher and sends one email per active teacher.
	// Ids that do not exist are reported, not treated as errors.
	Send(ctx context.Context, req *dto.SendRemindersRequest) (*dto.SendRemindersResponse, error)
}

type reminderService struct {
	repo        *repository.Repository
	newMailer   mailer.Factory
	mail        config.MailConfig
	frontendURL string
	logger      *zap.Logger
}

// NewReminderService creates a ReminderService
func NewReminderService(
	repo *repository.Repository,
	newMailer mailer.Factory,
	mail config.MailConfig,
	frontendURL string,
	logger *zap.Logger,
) ReminderService {
	return &reminderService{
		repo:        repo,
		newMailer:   newMailer,
		mail:        mail,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

type teacherReminder struct {
	teacher     *model.Teacher
	assignments []model.TeachingAssignment
}

func (s *reminderService) Send(ctx context.Context, req *dto.SendRemindersRequest) (*dto.SendRemindersResponse, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, ErrInvalidMonth
	}

	ids := uniqueIDs(req.AssignmentIDs)
	found, err := s.repo.TeachingAssignment.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("list assignments failed", zap.Error(err))
		return nil, err
	}

	resp := &dto.SendRemindersResponse{
		Status:              "success",
		InactiveTeachers:    []string{},
		AssignmentsNotFound: notFoundIDs(ids, found),
	}

	groups := groupByTeacher(found)
	resp.TotalTeachers = len(groups)

	// both rows are read per send so edits apply without a restart
	cfg, err := loadReminderTemplate(ctx, s.repo)
	if err != nil {
		s.logger.Error("load reminder template failed", zap.Error(err))
		return nil, err
	}
	tmpl, err := parseReminderTemplates(cfg.Subject, cfg.Body)
	if err != nil {
		s.logger.Error("stored reminder template is invalid", zap.Error(err))
		return nil, err
	}
	settings, err := loadEmailSettings(ctx, s.repo)
	if err != nil {
		s.logger.Error("load email settings failed", zap.Error(err))
		return nil, err
	}

	var m mailer.Mailer
	if len(groups) > 0 {
		m, err = s.newMailer(s.mailerSettings(settings))
		if err != nil {
			s.logger.Error("build mailer failed", zap.String("provider", settings.Provider), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrEmailNotConfigured, err)
		}
	}

	monthName := academicyear.MonthName(req.Month)
	for _, g := range groups {
		if !g.teacher.Active {
			resp.InactiveTeachers = append(resp.InactiveTeachers, g.teacher.Email)
			continue
		}

		msg, err := s.render(tmpl, g, monthName)
		if err != nil {
			s.logger.Error("render reminder failed", zap.Uint("teacher_id", g.teacher.ID), zap.Error(err))
			resp.EmailsFailed++
			continue
		}

		if err := m.Send(ctx, msg); err != nil {
			if settings.FailSilently {
				s.logger.Debug("reminder not sent", zap.String("to", msg.To), zap.Error(err))
			} else {
				s.logger.Error("send reminder failed", zap.String("to", msg.To), zap.Error(err))
				resp.EmailsFailed++
			}
			continue
		}
		resp.EmailsSent++
	}

	resp.Detail = fmt.Sprintf("sent %d reminder emails", resp.EmailsSent)
	s.logger.Info("reminders dispatched",
		zap.Int("month", req.Month),
		zap.Int("sent", resp.EmailsSent),
		zap.Int("failed", resp.EmailsFailed),
		zap.Int("inactive", len(resp.InactiveTeachers)),
		zap.Int("not_found", len(resp.AssignmentsNotFound)),
	)
	return resp, nil
}

func (s *reminderService) render(tmpl *reminderTemplates, g teacherReminder, monthName string) (mailer.Message, error) {
	var listing strings.Builder
	for _, a := range g.assignments {
		fmt.Fprintf(&listing, "- %s para el grupo %s\n", moduleName(a), groupName(a))
	}

	data := reminderData{
		TeacherName: g.teacher.Name,
		Month:       monthName,
		Assignments: strings.TrimRight(listing.String(), "\n"),
		FrontendURL: s.frontendURL,
	}

	var subject, body strings.Builder
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return mailer.Message{}, err
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return mailer.Message{}, err
	}

	return mailer.Message{
		To:      g.teacher.Email,
		ToName:  g.teacher.Name,
		Subject: strings.TrimSpace(subject.String()),
		Body:    body.String(),
	}, nil
}

func (s *reminderService) mailerSettings(e *model.EmailSettings) mailer.Settings {
	return mailer.Settings{
		Provider:       e.Provider,
		Host:           e.Host,
		Port:           e.Port,
		Username:       e.Username,
		Password:       e.Password,
		UseTLS:         e.UseTLS,
		UseSSL:         e.UseSSL,
		Timeout:        time.Duration(e.TimeoutSeconds) * time.Second,
		SendGridAPIKey: e.SendGridAPIKey,
		From:           s.mail.From,
		FromName:       s.mail.FromName,
	}
}

// groupByTeacher keeps the order in which teachers first appear.
func groupByTeacher(list []model.TeachingAssignment) []teacherReminder {
	index := make(map[uint]int)
	var groups []teacherReminder
	for _, a := range list {
		if a.Teacher == nil {
			continue
		}
		i, ok := index[a.TeacherID]
		if !ok {
			i = len(groups)
			index[a.TeacherID] = i
			groups = append(groups, teacherReminder{teacher: a.Teacher})
		}
		groups[i].assignments = append(groups[i].assignments, a)
	}
	return groups
}

func notFoundIDs(requested []uint, found []model.TeachingAssignment) []uint {
	have := make(map[uint]struct{}, len(found))
	for _, a := range found {
		have[a.ID] = struct{}{}
	}
	missing := []uint{}
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
