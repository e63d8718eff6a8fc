package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/tbourn/go-task-backend/internal/storeerr"
)

func TestClassify_DuplicateKey(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"field extracted", &storeerr.DuplicateKey{Field: "email"}, "Email already exists"},
		{"field preserved case", &storeerr.DuplicateKey{Field: "userName"}, "UserName already exists"},
		{"no field", &storeerr.DuplicateKey{}, "Record already exists"},
		{"wrapped", fmt.Errorf("create user: %w", &storeerr.DuplicateKey{Field: "email"}), "Email already exists"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, status := Classify(tc.err)
			if status != http.StatusConflict {
				t.Fatalf("status = %d; want 409", status)
			}
			if msg != tc.wantMsg {
				t.Fatalf("msg = %q; want %q", msg, tc.wantMsg)
			}
			if !strings.HasSuffix(msg, "already exists") {
				t.Fatalf("duplicate-key messages must end in %q", "already exists")
			}
		})
	}
}

func TestClassify_SchemaInvalid(t *testing.T) {
	msg, status := Classify(&storeerr.SchemaInvalid{
		Messages: []string{"title must not be null", "completed must be boolean"},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", status)
	}
	if msg != "title must not be null, completed must be boolean" {
		t.Fatalf("msg = %q; want joined field messages", msg)
	}

	// no extractable detail -> fixed fallback
	msg, status = Classify(&storeerr.SchemaInvalid{})
	if status != http.StatusBadRequest || msg != "Validation failed" {
		t.Fatalf("empty schema error: msg=%q status=%d", msg, status)
	}
}

func TestClassify_CastInvalid(t *testing.T) {
	msg, status := Classify(&storeerr.CastInvalid{})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", status)
	}
	if msg != "Invalid data format" {
		t.Fatalf("msg = %q", msg)
	}
}

func TestClassify_StatusError(t *testing.T) {
	msg, status := Classify(&StatusError{Code: http.StatusTeapot, Message: "short and stout"})
	if status != http.StatusTeapot || msg != "short and stout" {
		t.Fatalf("msg=%q status=%d", msg, status)
	}

	// a zero code falls back to 500
	msg, status = Classify(&StatusError{Message: "no code set"})
	if status != http.StatusInternalServerError || msg != "no code set" {
		t.Fatalf("msg=%q status=%d", msg, status)
	}

	// an empty message falls back to the fixed string
	msg, status = Classify(&StatusError{Code: http.StatusBadGateway})
	if status != http.StatusBadGateway || msg != fallbackMessage {
		t.Fatalf("msg=%q status=%d", msg, status)
	}
}

func TestClassify_GenericError(t *testing.T) {
	msg, status := Classify(errors.New("disk exploded"))
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", status)
	}
	if msg != "disk exploded" {
		t.Fatalf("msg = %q; want the error's own text", msg)
	}
}

func TestClassify_Nil(t *testing.T) {
	msg, status := Classify(nil)
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", status)
	}
	if msg != fallbackMessage {
		t.Fatalf("msg = %q; want fixed fallback", msg)
	}
}

func TestClassify_ConcurrentDuplicateKey(t *testing.T) {
	// Classify must stay pure under parallel requests: every call sees the
	// same capitalized field, with no cross-goroutine state.
	err := &storeerr.DuplicateKey{Field: "email"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				msg, status := Classify(err)
				if msg != "Email already exists" || status != http.StatusConflict {
					t.Errorf("got %q %d; want %q 409", msg, status, "Email already exists")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestClassify_OrderDuplicateBeforeGeneric(t *testing.T) {
	// A duplicate-key variant is still an error with a message; the specific
	// branch must win over the generic 500 mapping.
	err := &storeerr.DuplicateKey{Field: "email"}
	msg, status := Classify(err)
	if status == http.StatusInternalServerError {
		t.Fatalf("specific variant classified as generic: %q %d", msg, status)
	}
}
