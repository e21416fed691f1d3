package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/response"
)

// AssignmentHandler serves teaching assignments.
type AssignmentHandler struct {
	assignSvc service.AssignmentService
}

// NewAssignmentHandler creates an AssignmentHandler.
func NewAssignmentHandler(assignSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignSvc: assignSvc}
}

// ListMine returns the caller's assignments for ?year=, defaulting to the current year.
// GET /api/v1/teaching-assignments
func (h *AssignmentHandler) ListMine(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var q dto.AssignmentListQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.assignSvc.ListForTeacher(c.Request.Context(), caller.TeacherID, q.Year)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, list)
}

// ListAssignments
// GET /api/v1/admin/teaching-assignments?teacher_id=&year=
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	var q dto.AssignmentListQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.assignSvc.List(c.Request.Context(), &q)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, list)
}

// GetAssignment
// GET /api/v1/admin/teaching-assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.assignSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateAssignment
// POST /api/v1/admin/teaching-assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.assignSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.Created(c, result)
}

// DeleteAssignment removes the assignment together with its reports.
// DELETE /api/v1/admin/teaching-assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.assignSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15001, "teaching assignment not found")
	case errors.Is(err, service.ErrAssignmentDuplicate):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15002, err.Error(),
			map[string]string{"module_id": err.Error()})
	case errors.Is(err, service.ErrAssignmentYearMismatch):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15003, err.Error(),
			map[string]string{"group_id": err.Error()})
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 14001, "teacher not found")
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 13002, "group not found")
	case errors.Is(err, service.ErrModuleNotFound):
		response.NotFound(c, 13003, "module not found")
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.NotFound(c, 12001, "academic year not found")
	default:
		response.InternalError(c)
	}
}
