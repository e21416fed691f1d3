package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/response"
)

// AcademicYearHandler serves the academic year registry and year cloning.
type AcademicYearHandler struct {
	yearSvc  service.AcademicYearService
	cloneSvc service.CloneService
}

// NewAcademicYearHandler creates an AcademicYearHandler.
func NewAcademicYearHandler(yearSvc service.AcademicYearService, cloneSvc service.CloneService) *AcademicYearHandler {
	return &AcademicYearHandler{yearSvc: yearSvc, cloneSvc: cloneSvc}
}

// CurrentYear
// GET /api/v1/current-year
func (h *AcademicYearHandler) CurrentYear(c *gin.Context) {
	year, err := h.yearSvc.CurrentYear(c.Request.Context())
	if err != nil {
		h.handleYearError(c, err)
		return
	}
	response.OK(c, dto.CurrentYearResponse{CurrentAcademicYear: year})
}

// ListYears
// GET /api/v1/admin/academic-years
func (h *AcademicYearHandler) ListYears(c *gin.Context) {
	list, err := h.yearSvc.List(c.Request.Context())
	if err != nil {
		h.handleYearError(c, err)
		return
	}
	response.OK(c, list)
}

// GetYear
// GET /api/v1/admin/academic-years/:year
func (h *AcademicYearHandler) GetYear(c *gin.Context) {
	result, err := h.yearSvc.Get(c.Request.Context(), c.Param("year"))
	if err != nil {
		h.handleYearError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateYear
// POST /api/v1/admin/academic-years
func (h *AcademicYearHandler) CreateYear(c *gin.Context) {
	var req dto.CreateAcademicYearRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.yearSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleYearError(c, err)
		return
	}
	response.Created(c, result)
}

// SetCurrent flags the year as current and clears every other year.
// PUT /api/v1/admin/academic-years/:year/set-current
func (h *AcademicYearHandler) SetCurrent(c *gin.Context) {
	year := c.Param("year")
	if err := h.yearSvc.SetCurrent(c.Request.Context(), year); err != nil {
		h.handleYearError(c, err)
		return
	}
	response.OK(c, dto.CurrentYearResponse{CurrentAcademicYear: year})
}

// DeleteYear
// DELETE /api/v1/admin/academic-years/:year
func (h *AcademicYearHandler) DeleteYear(c *gin.Context) {
	if err := h.yearSvc.Delete(c.Request.Context(), c.Param("year")); err != nil {
		h.handleYearError(c, err)
		return
	}
	response.OK(c, nil)
}

// CloneYear copies the structure of :year into a new year.
// POST /api/v1/admin/academic-years/:year/clone
func (h *AcademicYearHandler) CloneYear(c *gin.Context) {
	var req dto.CloneYearRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.cloneSvc.Clone(c.Request.Context(), c.Param("year"), &req)
	if err != nil {
		h.handleYearError(c, err)
		return
	}
	response.Created(c, result)
}

func (h *AcademicYearHandler) handleYearError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.NotFound(c, 12001, "academic year not found")
	case errors.Is(err, service.ErrAcademicYearFormat):
		response.FieldErrors(c, 12002, map[string]string{"year": err.Error()})
	case errors.Is(err, service.ErrAcademicYearExists):
		response.Conflict(c, 12003, "academic year already exists")
	case errors.Is(err, service.ErrWorkUnitInUse):
		response.Conflict(c, 13006, "the year has work units referenced by progress reports")
	case errors.Is(err, service.ErrCloneScope):
		response.FieldErrors(c, 18001, map[string]string{"scope": err.Error()})
	default:
		response.InternalError(c)
	}
}
