package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTableNames(t *testing.T) {
	if got := (Task{}).TableName(); got != "tasks" {
		t.Fatalf("Task table = %q", got)
	}
	if got := (User{}).TableName(); got != "users" {
		t.Fatalf("User table = %q", got)
	}
}

func TestTaskJSONHidesDeletionMarker(t *testing.T) {
	b, err := json.Marshal(Task{ID: "t1", Title: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "DeletedAt") || strings.Contains(s, "deleted_at") {
		t.Fatalf("soft-delete marker leaked into JSON: %s", s)
	}
	for _, field := range []string{`"id"`, `"title"`, `"description"`, `"completed"`, `"created_at"`, `"updated_at"`} {
		if !strings.Contains(s, field) {
			t.Fatalf("missing %s in %s", field, s)
		}
	}
}

func TestUserJSONShape(t *testing.T) {
	b, err := json.Marshal(User{ID: "u1", Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, field := range []string{`"id"`, `"name"`, `"email"`, `"created_at"`, `"updated_at"`} {
		if !strings.Contains(s, field) {
			t.Fatalf("missing %s in %s", field, s)
		}
	}
}
