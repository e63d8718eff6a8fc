// Package storeerr defines the closed set of error variants produced by the
// persistence layer. Raw GORM/driver errors are wrapped into one of these
// variants immediately after the store call, so downstream classification is
// an exhaustive errors.As match instead of repeated string probing spread
// across the codebase.
package storeerr

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// DuplicateKey reports a unique-constraint violation. Field names the
// offending column when it could be extracted from the driver message,
// otherwise it is empty.
type DuplicateKey struct {
	Field string
}

func (e *DuplicateKey) Error() string {
	if e.Field == "" {
		return "duplicate key"
	}
	return "duplicate key on field " + e.Field
}

// SchemaInvalid reports that a write violated store-level schema constraints
// (check constraints, NOT NULL, invalid data). Messages holds one entry per
// failed constraint when available.
type SchemaInvalid struct {
	Messages []string
}

func (e *SchemaInvalid) Error() string {
	if len(e.Messages) == 0 {
		return "schema constraint violated"
	}
	return strings.Join(e.Messages, ", ")
}

// CastInvalid reports a malformed identifier or value that could not be
// converted to the store's expected type (e.g. a non-UUID path id).
type CastInvalid struct{}

func (*CastInvalid) Error() string { return "invalid data format" }

// uniqueColRE matches the column reference in SQLite's duplicate-key message,
// e.g. "UNIQUE constraint failed: users.email".
var uniqueColRE = regexp.MustCompile(`(?i)unique constraint (?:failed: )?['"]?\w+['"]?\.(\w+)`)

// checkRE matches SQLite check-constraint failures,
// e.g. "CHECK constraint failed: completed IN (0,1)".
var checkRE = regexp.MustCompile(`(?i)check constraint failed: (.+)`)

// Wrap converts a raw store error into one of the closed variants above.
// Errors that do not correspond to a known variant (connectivity faults,
// not-found sentinels, context cancellation) pass through unmodified so
// callers can still use errors.Is on them. A nil error stays nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	// Not-found is a normal-path outcome, never a store fault.
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(lower, "unique constraint"),
		strings.Contains(lower, "duplicate key"):
		return &DuplicateKey{Field: extractField(msg)}

	case errors.Is(err, gorm.ErrInvalidData),
		strings.Contains(lower, "check constraint"),
		strings.Contains(lower, "not null constraint"):
		return &SchemaInvalid{Messages: extractConstraints(msg)}

	case errors.Is(err, gorm.ErrInvalidValue),
		strings.Contains(lower, "cannot convert"),
		strings.Contains(lower, "unsupported data type"):
		return &CastInvalid{}
	}
	return err
}

// extractField pulls the column name out of a duplicate-key message.
// SQLite reports "UNIQUE constraint failed: <table>.<column>"; Postgres-style
// messages name the constraint instead, for which no field is recoverable.
func extractField(msg string) string {
	if m := uniqueColRE.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return ""
}

// extractConstraints collects per-constraint detail lines from a schema error.
func extractConstraints(msg string) []string {
	if m := checkRE.FindStringSubmatch(msg); m != nil {
		return []string{strings.TrimSpace(m[1])}
	}
	return nil
}
