// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the uniform response envelope used by every endpoint.
// All responses, success or failure, share one JSON shape so clients can
// branch on `success` and read `message` without caring which endpoint they
// called.
//
// Conventions:
//   - `ok()` and `fail()` are the only two writers; a handler calls exactly
//     one of them per request.
//   - `invalid()` is the validation-gate failure path: a 400 with one entry
//     per failing field under `errors`.
//   - 5xx responses are logged through the request-scoped logger so server
//     faults always leave a trace with the correlation ID.
//
// Example success response:
//
//	HTTP/1.1 201 Created
//	{ "success": true, "message": "Task created successfully", "data": {...} }
//
// Example failure response:
//
//	HTTP/1.1 404 Not Found
//	{ "success": false, "message": "Task not found" }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-task-backend/internal/http/middleware"
	"github.com/tbourn/go-task-backend/internal/http/validate"
)

// Envelope is the uniform response body returned by all endpoints.
//
// Fields:
//   - Success: true on the success path, false on any failure.
//   - Message: human-readable outcome description, safe to display.
//   - Data: the resource or list on success; omitted on failure.
//   - Errors: per-field details, present only on validation failures.
//   - RequestID: correlation ID echoed from X-Request-ID, used to match
//     server logs with client-side errors.
type Envelope struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message" example:"Task created successfully"`
	Data      any                   `json:"data,omitempty"`
	Errors    []validate.FieldError `json:"errors,omitempty"`
	RequestID string                `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// ok writes a success envelope with the given status, message, and payload.
func ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// fail aborts the request with a failure envelope. Server errors (>=500) are
// logged with the request-scoped logger before the response is written.
func fail(c *gin.Context, status int, message string) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("message", message).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Message:   message,
		RequestID: requestID(c),
	})
}

// invalid aborts the request with the validation-gate failure envelope:
// HTTP 400 and one entry per failing field.
func invalid(c *gin.Context, errs []validate.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Success:   false,
		Message:   "Validation failed",
		Errors:    errs,
		RequestID: requestID(c),
	})
}

// Fail is the exported variant of fail(). External packages (e.g. router
// fallbacks) use it to return the same envelope without depending on
// unexported helpers.
func Fail(c *gin.Context, status int, message string) { fail(c, status, message) }

// requestID reads the correlation ID the middleware stamped on the response.
func requestID(c *gin.Context) string {
	return c.Writer.Header().Get("X-Request-ID")
}
