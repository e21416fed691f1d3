package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/response"
)

// EmailConfigHandler serves the reminder template and transport settings.
type EmailConfigHandler struct {
	emailSvc service.EmailConfigService
}

// NewEmailConfigHandler creates an EmailConfigHandler.
func NewEmailConfigHandler(emailSvc service.EmailConfigService) *EmailConfigHandler {
	return &EmailConfigHandler{emailSvc: emailSvc}
}

// GetTemplate
// GET /api/v1/admin/email/reminder-template
func (h *EmailConfigHandler) GetTemplate(c *gin.Context) {
	result, err := h.emailSvc.GetTemplate(c.Request.Context())
	if err != nil {
		h.handleEmailError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateTemplate parses both templates before storing them.
// PUT /api/v1/admin/email/reminder-template
func (h *EmailConfigHandler) UpdateTemplate(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.ReminderTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.emailSvc.UpdateTemplate(c.Request.Context(), caller.TeacherID, &req)
	if err != nil {
		h.handleEmailError(c, err)
		return
	}
	response.OK(c, result)
}

// GetSettings never returns the stored secrets.
// GET /api/v1/admin/email/settings
func (h *EmailConfigHandler) GetSettings(c *gin.Context) {
	result, err := h.emailSvc.GetSettings(c.Request.Context())
	if err != nil {
		h.handleEmailError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateSettings
// PUT /api/v1/admin/email/settings
func (h *EmailConfigHandler) UpdateSettings(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.UpdateEmailSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.emailSvc.UpdateSettings(c.Request.Context(), caller.TeacherID, &req)
	if err != nil {
		h.handleEmailError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *EmailConfigHandler) handleEmailError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateInvalid):
		response.FieldErrors(c, 17002, map[string]string{"body": err.Error()})
	case errors.Is(err, service.ErrEmailTLSAndSSL):
		response.FieldErrors(c, 17003, map[string]string{"use_ssl": err.Error()})
	default:
		response.InternalError(c)
	}
}
