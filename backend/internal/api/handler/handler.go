package handler

import "seguimientos/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth           *AuthHandler
	AcademicYear   *AcademicYearHandler
	Curriculum     *CurriculumHandler
	Teacher        *TeacherHandler
	Assignment     *AssignmentHandler
	ProgressReport *ProgressReportHandler
	MissingReport  *MissingReportHandler
	Reminder       *ReminderHandler
	EmailConfig    *EmailConfigHandler
	Export         *ExportHandler
}

// NewHandler wires one handler per service.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth),
		AcademicYear:   NewAcademicYearHandler(svc.AcademicYear, svc.Clone),
		Curriculum:     NewCurriculumHandler(svc.Curriculum),
		Teacher:        NewTeacherHandler(svc.Teacher),
		Assignment:     NewAssignmentHandler(svc.Assignment),
		ProgressReport: NewProgressReportHandler(svc.ProgressReport),
		MissingReport:  NewMissingReportHandler(svc.MissingReport),
		Reminder:       NewReminderHandler(svc.Reminder),
		EmailConfig:    NewEmailConfigHandler(svc.EmailConfig),
		Export:         NewExportHandler(svc.Export),
	}
}
