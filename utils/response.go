package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Stable machine-readable error codes returned in the "error" field.
const (
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeRateLimited        = "rate_limited"
	CodeServiceUnavailable = "service_unavailable"
	CodeInternal           = "internal_error"
)

// ErrorBody is the uniform error response: a stable code, a human-readable
// message, optional field-level details and, for server errors, a timestamp.
type ErrorBody struct {
	Error     string      `json:"error"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// Fail writes a standard error response.
func Fail(ctx *gin.Context, status int, code, message string) {
	FailWithDetails(ctx, status, code, message, nil)
}

// FailWithDetails writes an error response carrying field-level detail.
func FailWithDetails(ctx *gin.Context, status int, code, message string, details interface{}) {
	body := ErrorBody{Error: code, Message: message, Details: details}
	if status >= http.StatusInternalServerError {
		body.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	ctx.JSON(status, body)
}

// JSON writes a success payload as-is.
func JSON(ctx *gin.Context, status int, payload interface{}) {
	ctx.JSON(status, payload)
}
