package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/response"
)

// MissingReportHandler serves the missing report lookups.
type MissingReportHandler struct {
	missingSvc service.MissingReportService
}

// NewMissingReportHandler creates a MissingReportHandler.
func NewMissingReportHandler(missingSvc service.MissingReportService) *MissingReportHandler {
	return &MissingReportHandler{missingSvc: missingSvc}
}

// Missing lists assignments without a report for the month. Admins pass
// ?all to see every teacher.
// GET /api/v1/missing-reports/:year/:month
func (h *MissingReportHandler) Missing(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		response.FieldErrors(c, response.CodeValidation, map[string]string{"month": service.ErrInvalidMonth.Error()})
		return
	}

	list, err := h.missingSvc.Missing(c.Request.Context(), caller, c.Param("year"), month, allFlag(c))
	if err != nil {
		h.handleMissingError(c, err)
		return
	}
	response.OK(c, list)
}

// Annual maps month to missing assignment ids.
// GET /api/v1/missing-reports-annual/:year
func (h *MissingReportHandler) Annual(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.missingSvc.Annual(c.Request.Context(), caller, c.Param("year"), allFlag(c))
	if err != nil {
		h.handleMissingError(c, err)
		return
	}
	response.OK(c, result)
}

// allFlag is set by the presence of ?all; its value is ignored.
func allFlag(c *gin.Context) bool {
	_, ok := c.GetQuery("all")
	return ok
}

func (h *MissingReportHandler) handleMissingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAcademicYearFormat):
		response.FieldErrors(c, 12002, map[string]string{"year": err.Error()})
	case errors.Is(err, service.ErrInvalidMonth):
		response.FieldErrors(c, 17001, map[string]string{"month": err.Error()})
	default:
		response.InternalError(c)
	}
}
