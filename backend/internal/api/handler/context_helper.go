package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/jwt"
	"seguimientos/backend/pkg/response"
)

// Context keys written by middleware.JWTAuth.
const (
	ClaimsKey    = "claims"
	TeacherIDKey = "teacher_id"
	IsAdminKey   = "is_admin"
)

// MustGetClaims returns the verified token claims. When the JWT middleware did
// not run it writes a 401 and returns false; callers should return at once.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil || claims.TeacherID == 0 {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return claims, true
}

// MustGetCaller returns the teacher the request acts for.
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{TeacherID: claims.TeacherID, IsAdmin: claims.IsAdmin}, true
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, response.CodeValidation, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds the body into req and writes a field-keyed 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c)
			return false
		}
		response.FieldErrors(c, response.CodeValidation, dto.ValidationMessages(err))
		return false
	}
	return true
}

// bindQuery is bindJSON for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.FieldErrors(c, response.CodeValidation, dto.QueryValidationMessages(err, c.Request.URL.Query()))
		return false
	}
	return true
}
