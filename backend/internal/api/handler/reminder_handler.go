package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/response"
)

// ReminderHandler sends the missing report reminders.
type ReminderHandler struct {
	reminderSvc service.ReminderService
}

// NewReminderHandler creates a ReminderHandler.
func NewReminderHandler(reminderSvc service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderSvc: reminderSvc}
}

// SendReminders emails each teacher once for all their listed assignments.
// Per-teacher send failures are counted in the result, not returned as errors.
// POST /api/v1/send-reminders
func (h *ReminderHandler) SendReminders(c *gin.Context) {
	var req dto.SendRemindersRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.reminderSvc.Send(c.Request.Context(), &req)
	if err != nil {
		h.handleReminderError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *ReminderHandler) handleReminderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMonth):
		response.FieldErrors(c, 17001, map[string]string{"month": err.Error()})
	case errors.Is(err, service.ErrTemplateInvalid):
		response.Error(c, http.StatusInternalServerError, 17002, err.Error())
	case errors.Is(err, service.ErrEmailNotConfigured):
		response.ServiceUnavailable(c, 17004, err.Error())
	default:
		response.InternalError(c)
	}
}
