package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/response"
)

// TeacherHandler serves teacher administration.
type TeacherHandler struct {
	teacherSvc service.TeacherService
}

// NewTeacherHandler creates a TeacherHandler.
func NewTeacherHandler(teacherSvc service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherSvc: teacherSvc}
}

// ListTeachers
// GET /api/v1/admin/teachers?page=&page_size=
func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	var req dto.PaginationRequest
	if !bindQuery(c, &req) {
		return
	}
	list, total, err := h.teacherSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetTeacher
// GET /api/v1/admin/teachers/:id
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.teacherSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateTeacher
// POST /api/v1/admin/teachers
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.teacherSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateTeacher
// PUT /api/v1/admin/teachers/:id
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTeacherRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.teacherSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.OK(c, result)
}

// SetPassword
// PUT /api/v1/admin/teachers/:id/password
func (h *TeacherHandler) SetPassword(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.teacherSvc.SetPassword(c.Request.Context(), id, req.Password); err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.OK(c, nil)
}

// DeleteTeacher
// DELETE /api/v1/admin/teachers/:id
func (h *TeacherHandler) DeleteTeacher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.teacherSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *TeacherHandler) handleTeacherError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 14001, "teacher not found")
	case errors.Is(err, service.ErrTeacherEmailTaken):
		response.Conflict(c, 14002, "a teacher with this email already exists")
	default:
		response.InternalError(c)
	}
}
