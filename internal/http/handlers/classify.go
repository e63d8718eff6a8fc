// Error classification.
//
// Classify is the single point where an arbitrary error value coming out of
// the service/store stack is reduced to a user-facing (message, HTTP status)
// pair. The store adapter has already collapsed raw driver faults into the
// closed storeerr variant set, so classification is an ordered errors.As
// match rather than duck-typed shape probing. Order matters: more specific
// variants are tested before the generic application error.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-task-backend/internal/storeerr"
)

// fallbackMessage is returned for values that carry no usable message.
const fallbackMessage = "An unexpected error occurred"

// StatusError is an application error that carries its own HTTP status.
// Services or handlers may return one when a condition maps directly to a
// specific status without being a store fault.
type StatusError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string { return e.Message }

// Classify maps err to a client-facing message and HTTP status code.
//
// It is a pure function: no logging, no retries, never panics. First match
// wins, in this order:
//
//  1. storeerr.DuplicateKey  -> 409, "<Field> already exists"
//  2. storeerr.SchemaInvalid -> 400, joined per-field messages
//  3. storeerr.CastInvalid   -> 400, "Invalid data format"
//  4. *StatusError           -> carried code (500 when unset), own message
//  5. any other error        -> 500, its own message
//  6. nil                    -> 500, fixed fallback message
func Classify(err error) (message string, status int) {
	var (
		dup    *storeerr.DuplicateKey
		schema *storeerr.SchemaInvalid
		cast   *storeerr.CastInvalid
		app    *StatusError
	)

	switch {
	case errors.As(err, &dup):
		field := "Record"
		if dup.Field != "" {
			// A cases.Caser is stateful, so it must be per call, never
			// shared across request goroutines.
			field = cases.Title(language.English, cases.NoLower).String(dup.Field)
		}
		return field + " already exists", http.StatusConflict

	case errors.As(err, &schema):
		if len(schema.Messages) == 0 {
			return "Validation failed", http.StatusBadRequest
		}
		return strings.Join(schema.Messages, ", "), http.StatusBadRequest

	case errors.As(err, &cast):
		return "Invalid data format", http.StatusBadRequest

	case errors.As(err, &app):
		status = app.Code
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := app.Message
		if msg == "" {
			msg = fallbackMessage
		}
		return msg, status

	case err != nil:
		return err.Error(), http.StatusInternalServerError
	}

	return fallbackMessage, http.StatusInternalServerError
}

// classified routes err through Classify and writes the failure envelope.
// Handlers call it for any fault that is not the not-found sentinel.
func classified(c *gin.Context, err error) {
	msg, status := Classify(err)
	fail(c, status, msg)
}
