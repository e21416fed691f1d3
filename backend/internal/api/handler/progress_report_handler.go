package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	pkgerrors "seguimientos/backend/pkg/errors"
	"seguimientos/backend/pkg/response"
)

// ProgressReportHandler serves the monthly progress reports.
// Every operation is scoped to the caller's (group, module) pairs.
type ProgressReportHandler struct {
	reportSvc service.ProgressReportService
}

// NewProgressReportHandler creates a ProgressReportHandler.
func NewProgressReportHandler(reportSvc service.ProgressReportService) *ProgressReportHandler {
	return &ProgressReportHandler{reportSvc: reportSvc}
}

// ListReports
// GET /api/v1/progress-reports?year=&month=
func (h *ProgressReportHandler) ListReports(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var q dto.ReportListQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.reportSvc.List(c.Request.Context(), caller, &q)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, list)
}

// GetReport
// GET /api/v1/progress-reports/:id
func (h *ProgressReportHandler) GetReport(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.reportSvc.Get(c.Request.Context(), caller, id)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateReport
// POST /api/v1/progress-reports
func (h *ProgressReportHandler) CreateReport(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.CreateProgressReportRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.reportSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateReport accepts PUT and PATCH; absent fields keep their value.
// PUT /api/v1/progress-reports/:id
func (h *ProgressReportHandler) UpdateReport(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProgressReportRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.reportSvc.Update(c.Request.Context(), caller, id, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteReport
// DELETE /api/v1/progress-reports/:id
func (h *ProgressReportHandler) DeleteReport(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.reportSvc.Delete(c.Request.Context(), caller, id); err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *ProgressReportHandler) handleReportError(c *gin.Context, err error) {
	var fields pkgerrors.FieldErrors
	if errors.As(err, &fields) {
		response.FieldErrors(c, 16006, fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrReportNotFound):
		response.NotFound(c, 16001, "progress report not found")
	case errors.Is(err, service.ErrReportForbidden):
		response.Forbidden(c, 16002, err.Error())
	case errors.Is(err, service.ErrReportDuplicate):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16003, err.Error(),
			map[string]string{"month": err.Error()})
	case errors.Is(err, service.ErrReportImmutableField):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16004, err.Error(),
			map[string]string{"month": err.Error(), "assignment_id": err.Error()})
	case errors.Is(err, service.ErrReportUnitMismatch):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16005, err.Error(),
			map[string]string{"current_unit_id": err.Error()})
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15001, "teaching assignment not found")
	case errors.Is(err, service.ErrWorkUnitNotFound):
		response.NotFound(c, 13004, "work unit not found")
	case errors.Is(err, service.ErrAcademicYearFormat):
		response.FieldErrors(c, 12002, map[string]string{"year": err.Error()})
	default:
		response.InternalError(c)
	}
}
