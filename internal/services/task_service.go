// Package services – TaskService
//
// This file implements the TaskService, which manages the task lifecycle:
// listing (newest first), creation, point reads, partial updates, deletion,
// and completion toggling. Store faults arrive here already reduced to the
// storeerr variant set by the repository and propagate unmodified to the
// handler layer for classification; absence is translated into the
// ErrTaskNotFound sentinel.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/repo"
)

// TaskRepo defines the repository contract required by TaskService.
// Implementations are responsible for persistence of task records.
type TaskRepo interface {
	// CreateTask inserts a new task row.
	CreateTask(ctx context.Context, db *gorm.DB, title, description string, completed bool) (*domain.Task, error)

	// ListTasks returns all tasks, most recent first.
	ListTasks(ctx context.Context, db *gorm.DB) ([]domain.Task, error)

	// GetTask fetches a task by ID.
	GetTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error)

	// UpdateTask applies a partial column merge and returns the fresh row.
	UpdateTask(ctx context.Context, db *gorm.DB, id string, fields map[string]any) (*domain.Task, error)

	// DeleteTask removes a task and returns the deleted row.
	DeleteTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error)

	// ToggleTask flips the Completed flag store-side and returns the fresh row.
	ToggleTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error)
}

// TaskUpdate carries the optional fields of a partial task update. Nil
// pointers mean "leave unchanged"; only non-nil fields are written.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskService provides task-level CRUD operations. It borrows records from
// the store for the duration of one call and never caches them.
type TaskService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the task repository used by this service.
	Repo TaskRepo
}

// NewTaskService constructs a TaskService bound to the given handle and repo.
func NewTaskService(db *gorm.DB, r TaskRepo) *TaskService {
	return &TaskService{DB: db, Repo: r}
}

// List returns all tasks, newest first.
func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.Repo.ListTasks(ctx, s.DB)
}

// Create inserts a new task. The title arrives trimmed and non-empty from
// the validation gate; no further shaping happens here.
func (s *TaskService) Create(ctx context.Context, title, description string, completed bool) (*domain.Task, error) {
	return s.Repo.CreateTask(ctx, s.DB, title, description, completed)
}

// Get fetches a task by ID, returning ErrTaskNotFound when absent.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.Repo.GetTask(ctx, s.DB, id)
	if err != nil {
		return nil, asTaskErr(err)
	}
	return t, nil
}

// Update applies a partial merge of the provided fields and returns the
// updated record. An update with no fields set degenerates to a read.
func (s *TaskService) Update(ctx context.Context, id string, upd TaskUpdate) (*domain.Task, error) {
	fields := map[string]any{}
	if upd.Title != nil {
		fields["title"] = *upd.Title
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Completed != nil {
		fields["completed"] = *upd.Completed
	}

	t, err := s.Repo.UpdateTask(ctx, s.DB, id, fields)
	if err != nil {
		return nil, asTaskErr(err)
	}
	return t, nil
}

// Delete removes a task and returns the deleted record. Deleting the same
// ID again yields ErrTaskNotFound.
func (s *TaskService) Delete(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.Repo.DeleteTask(ctx, s.DB, id)
	if err != nil {
		return nil, asTaskErr(err)
	}
	return t, nil
}

// Toggle flips the Completed flag of a task and returns the updated record.
// The flip happens in one store statement, so concurrent toggles cannot lose
// writes.
func (s *TaskService) Toggle(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.Repo.ToggleTask(ctx, s.DB, id)
	if err != nil {
		return nil, asTaskErr(err)
	}
	return t, nil
}

// asTaskErr maps repo-level absence onto the service sentinel and lets every
// other error (including the storeerr variants) through unmodified.
func asTaskErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
