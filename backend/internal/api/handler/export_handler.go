package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/response"
)

// ExportHandler serves progress report downloads.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportReports
// GET /api/v1/admin/progress-reports/export?year=&month=&format=xlsx|csv
func (h *ExportHandler) ExportReports(c *gin.Context) {
	var q dto.ExportQuery
	if !bindQuery(c, &q) {
		return
	}

	file, err := h.exportSvc.ExportReports(c.Request.Context(), &q)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoReports):
		response.NotFound(c, 18002, "no progress reports match the filters")
	case errors.Is(err, service.ErrAcademicYearFormat):
		response.FieldErrors(c, 12002, map[string]string{"year": err.Error()})
	default:
		response.InternalError(c)
	}
}
