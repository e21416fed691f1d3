package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/response"
)

// CurriculumHandler serves cycles, groups, modules and work units.
type CurriculumHandler struct {
	currSvc service.CurriculumService
}

// NewCurriculumHandler creates a CurriculumHandler.
func NewCurriculumHandler(currSvc service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{currSvc: currSvc}
}

// ────────────────────── Cycles ──────────────────────

// ListCycles
// GET /api/v1/admin/cycles?year=
func (h *CurriculumHandler) ListCycles(c *gin.Context) {
	var q dto.CurriculumListQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.currSvc.ListCycles(c.Request.Context(), q.Year)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, list)
}

// GetCycle
// GET /api/v1/admin/cycles/:id
func (h *CurriculumHandler) GetCycle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.currSvc.GetCycle(c.Request.Context(), id)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateCycle
// POST /api/v1/admin/cycles
func (h *CurriculumHandler) CreateCycle(c *gin.Context) {
	var req dto.CreateCycleRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.currSvc.CreateCycle(c.Request.Context(), &req)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateCycle
// PUT /api/v1/admin/cycles/:id
func (h *CurriculumHandler) UpdateCycle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCycleRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.currSvc.UpdateCycle(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteCycle
// DELETE /api/v1/admin/cycles/:id
func (h *CurriculumHandler) DeleteCycle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.currSvc.DeleteCycle(c.Request.Context(), id); err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── Groups ──────────────────────

// ListGroups
// GET /api/v1/admin/groups?cycle_id=&year=
func (h *CurriculumHandler) ListGroups(c *gin.Context) {
	var q dto.CurriculumListQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.currSvc.ListGroups(c.Request.Context(), &q)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, list)
}

// GetGroup
// GET /api/v1/admin/groups/:id
func (h *CurriculumHandler) GetGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.currSvc.GetGroup(c.Request.Context(), id)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateGroup
// POST /api/v1/admin/groups
func (h *CurriculumHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.currSvc.CreateGroup(c.Request.Context(), &req)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateGroup
// PUT /api/v1/admin/groups/:id
func (h *CurriculumHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.currSvc.UpdateGroup(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteGroup
// DELETE /api/v1/admin/groups/:id
func (h *CurriculumHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.currSvc.DeleteGroup(c.Request.Context(), id); err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── Modules ──────────────────────

// ListModules is readable by every teacher.
// GET /api/v1/modules?cycle_id=&year=
func (h *CurriculumHandler) ListModules(c *gin.Context) {
	var q dto.CurriculumListQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.currSvc.ListModules(c.Request.Context(), &q)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, list)
}

// GetModule
// GET /api/v1/modules/:id
func (h *CurriculumHandler) GetModule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.currSvc.GetModule(c.Request.Context(), id)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, result)
}

// ListWorkUnits returns the module's units ordered by number.
// GET /api/v1/modules/:id/work-units
func (h *CurriculumHandler) ListWorkUnits(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.currSvc.ListWorkUnits(c.Request.Context(), id)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, list)
}

// CreateModule
// POST /api/v1/admin/modules
func (h *CurriculumHandler) CreateModule(c *gin.Context) {
	var req dto.CreateModuleRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.currSvc.CreateModule(c.Request.Context(), &req)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateModule
// PUT /api/v1/admin/modules/:id
func (h *CurriculumHandler) UpdateModule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateModuleRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.currSvc.UpdateModule(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteModule
// DELETE /api/v1/admin/modules/:id
func (h *CurriculumHandler) DeleteModule(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.currSvc.DeleteModule(c.Request.Context(), id); err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── Work units ──────────────────────

// GetWorkUnit
// GET /api/v1/admin/work-units/:id
func (h *CurriculumHandler) GetWorkUnit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.currSvc.GetWorkUnit(c.Request.Context(), id)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateWorkUnit
// POST /api/v1/admin/work-units
func (h *CurriculumHandler) CreateWorkUnit(c *gin.Context) {
	var req dto.CreateWorkUnitRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.currSvc.CreateWorkUnit(c.Request.Context(), &req)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateWorkUnit
// PUT /api/v1/admin/work-units/:id
func (h *CurriculumHandler) UpdateWorkUnit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateWorkUnitRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.currSvc.UpdateWorkUnit(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteWorkUnit refuses units still referenced by a report.
// DELETE /api/v1/admin/work-units/:id
func (h *CurriculumHandler) DeleteWorkUnit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.currSvc.DeleteWorkUnit(c.Request.Context(), id); err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *CurriculumHandler) handleCurriculumError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.NotFound(c, 12001, "academic year not found")
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 13001, "cycle not found")
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 13002, "group not found")
	case errors.Is(err, service.ErrModuleNotFound):
		response.NotFound(c, 13003, "module not found")
	case errors.Is(err, service.ErrWorkUnitNotFound):
		response.NotFound(c, 13004, "work unit not found")
	case errors.Is(err, service.ErrWorkUnitDuplicate):
		response.ErrorWithDetails(c, http.StatusBadRequest, 13005, err.Error(), map[string]string{"unit_number": err.Error()})
	case errors.Is(err, service.ErrWorkUnitInUse):
		response.Conflict(c, 13006, "work unit is referenced by a progress report")
	case errors.Is(err, service.ErrNoWorkUnits):
		response.NotFound(c, 13007, "No work units exist for this module")
	default:
		response.InternalError(c)
	}
}
