// Package response writes the JSON envelope shared by every endpoint:
//
//	{"code": 0, "message": "success", "data": ...}
//	{"code": 16003, "message": "...", "details": {"month": "..."}}
//
// code 0 means success; any other value is a business error code.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Codes shared by every module. Module-specific codes live with their handlers.
const (
	CodeSuccess         = 0
	CodeValidation      = 10001
	CodeBodyTooLarge    = 10005
	CodeInternal        = 50000
	msgSuccess          = "success"
	msgValidationFailed = "validation failed"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Page is the data payload of paginated listings.
type Page struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// ── Success ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Message: msgSuccess, Data: data})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: CodeSuccess, Message: msgSuccess, Data: data})
}

// OKPage 200 with one page of items.
func OKPage(c *gin.Context, items interface{}, total int64, page, pageSize int) {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	OK(c, Page{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: pages})
}

// ── Errors ──

func fail(c *gin.Context, status, code int, message string, details interface{}) {
	c.JSON(status, Response{Code: code, Message: message, Details: details})
}

// Error writes status with a business code and message.
func Error(c *gin.Context, status int, code int, message string) {
	fail(c, status, code, message, nil)
}

// ErrorWithDetails is Error plus a details payload, usually the offending field.
func ErrorWithDetails(c *gin.Context, status int, code int, message string, details interface{}) {
	fail(c, status, code, message, details)
}

// FieldErrors 400 with a field -> message map in details.
func FieldErrors(c *gin.Context, code int, fields map[string]string) {
	fail(c, http.StatusBadRequest, code, msgValidationFailed, fields)
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	fail(c, http.StatusBadRequest, code, message, nil)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	fail(c, http.StatusUnauthorized, code, message, nil)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	fail(c, http.StatusForbidden, code, message, nil)
}

// NotFound 404. Also used for objects the caller may not see.
func NotFound(c *gin.Context, code int, message string) {
	fail(c, http.StatusNotFound, code, message, nil)
}

// Conflict 409
func Conflict(c *gin.Context, code int, message string) {
	fail(c, http.StatusConflict, code, message, nil)
}

// PayloadTooLarge 413
func PayloadTooLarge(c *gin.Context) {
	fail(c, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "request body too large", nil)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context, code int, message string) {
	fail(c, http.StatusTooManyRequests, code, message, nil)
}

// InternalError 500. The cause is logged by the service, never echoed.
func InternalError(c *gin.Context) {
	fail(c, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
}

// ServiceUnavailable 503
func ServiceUnavailable(c *gin.Context, code int, message string) {
	fail(c, http.StatusServiceUnavailable, code, message, nil)
}
