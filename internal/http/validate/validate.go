// Package validate implements the validation gate that runs before any
// handler business logic. It binds a request's JSON body into a typed
// request struct, applies the struct's normalizing transforms, and evaluates
// the declarative `validate` tag rules with go-playground/validator.
//
// Outcomes:
//   - success: the request struct holds normalized values and the handler
//     proceeds;
//   - validation failure: a list of per-field errors (dotted lower-case
//     paths with human-readable messages) for a 400 response;
//   - internal fault (misconfigured rules, non-struct target): an error the
//     caller must surface as a plain 500, never as a raw message.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError describes a single failed field: its dotted path within the
// request body and a message safe to show to clients.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// v is the shared validator instance. Field names in error paths come from
// the json tag so clients see the wire name, not the Go identifier.
var v = func() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return val
}()

// Normalizer is implemented by request types that transform their fields
// (trim, lowercase) before validation. Transforms are applied in place, so
// handlers read the normalized values from the same struct.
type Normalizer interface {
	Normalize()
}

// Body binds the request body into req, normalizes it, and validates it.
//
// The first return value lists validation failures (nil when the body is
// valid). A non-nil second return value signals an internal fault in the
// validation process itself; it is never a client error.
func Body(c *gin.Context, req any) ([]FieldError, error) {
	if err := c.ShouldBindJSON(req); err != nil {
		return []FieldError{{Field: "body", Message: "must be valid JSON"}}, nil
	}
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	return check(req)
}

// check evaluates the validate tags on req.
func check(req any) ([]FieldError, error) {
	err := v.Struct(req)
	if err == nil {
		return nil, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// e.g. *validator.InvalidValidationError: a programming error,
		// not a bad request.
		return nil, err
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return out, nil
}

// fieldPath strips the root struct name from the namespace, leaving the
// dotted json-tag path of the failing field (e.g. "email", "owner.name").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// message renders a field-specific message for the failed rule.
func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the %q rule", field, fe.Tag())
	}
}
