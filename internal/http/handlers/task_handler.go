// Task HTTP handlers.
//
// This file exposes REST endpoints for task resources:
//   - GET    /tasks             (list, newest first, ETag support)
//   - POST   /tasks             (create)
//   - GET    /tasks/{id}        (fetch)
//   - PUT    /tasks/{id}        (partial update)
//   - DELETE /tasks/{id}        (delete, returns the removed record)
//   - PATCH  /tasks/{id}/toggle (flip completion)
//
// Handlers are transport-thin: the validation gate checks and normalizes
// input, the service performs the operation, and the outcome is written as
// the uniform envelope. Absence maps to a fixed 404; every other fault goes
// through Classify.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/http/validate"
	"github.com/tbourn/go-task-backend/internal/repo"
	"github.com/tbourn/go-task-backend/internal/services"
	"github.com/tbourn/go-task-backend/internal/storeerr"
)

//
// Service contracts (context-aware)
//

// TaskService defines the task operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type TaskService interface {
	// List returns all tasks, most recent first.
	List(ctx context.Context) ([]domain.Task, error)
	// Create inserts a new task from normalized fields.
	Create(ctx context.Context, title, description string, completed bool) (*domain.Task, error)
	// Get fetches a task by ID.
	Get(ctx context.Context, id string) (*domain.Task, error)
	// Update applies a partial merge and returns the fresh record.
	Update(ctx context.Context, id string, upd services.TaskUpdate) (*domain.Task, error)
	// Delete removes a task and returns the deleted record.
	Delete(ctx context.Context, id string) (*domain.Task, error)
	// Toggle flips the completion flag and returns the fresh record.
	Toggle(ctx context.Context, id string) (*domain.Task, error)
}

// UserService defines the user operations consumed by HTTP handlers.
type UserService interface {
	// List returns all users, most recent first.
	List(ctx context.Context) ([]domain.User, error)
	// Create registers a new user from normalized fields.
	Create(ctx context.Context, name, email string) (*domain.User, error)
	// Get fetches a user by ID.
	Get(ctx context.Context, id string) (*domain.User, error)
	// Update applies a partial merge and returns the fresh record.
	Update(ctx context.Context, id string, upd services.UserUpdate) (*domain.User, error)
	// Delete removes a user and returns the deleted record.
	Delete(ctx context.Context, id string) (*domain.User, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for tasks and users. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	taskSvc TaskService
	userSvc UserService
}

// New constructs a Handlers instance bound to the given services.
func New(taskSvc TaskService, userSvc UserService) *Handlers {
	return &Handlers{taskSvc: taskSvc, userSvc: userSvc}
}

//
// DTOs
//

// CreateTaskRequest is the JSON payload for creating a task.
type CreateTaskRequest struct {
	// Title is the task summary (required, non-blank after trimming).
	Title string `json:"title" validate:"required,max=255" example:"Ship release notes"`
	// Description optionally elaborates on the task.
	Description string `json:"description" validate:"max=2000" example:"Cover the v2 endpoints"`
	// Completed optionally marks the task done on creation.
	Completed bool `json:"completed"`
}

// Normalize trims the text fields in place before validation, so a
// whitespace-only title fails the required rule.
func (r *CreateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

// UpdateTaskRequest is the JSON payload for a partial task update. Absent
// fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

// Normalize trims the provided text fields in place.
func (r *UpdateTaskRequest) Normalize() {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
}

//
// Helpers
//

// gate runs the validation gate for req. It writes the appropriate failure
// response and returns false when the handler must not proceed.
func gate(c *gin.Context, req any) bool {
	errs, err := validate.Body(c, req)
	if err != nil {
		fail(c, http.StatusInternalServerError, fallbackMessage)
		return false
	}
	if len(errs) > 0 {
		invalid(c, errs)
		return false
	}
	return true
}

// pathID validates the :id path parameter. A malformed identifier is the
// cast fault of the store adapter, classified as 400 "Invalid data format".
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		classified(c, &storeerr.CastInvalid{})
		return "", false
	}
	return id, true
}

// listETag emits a weak ETag derived from (count, max updated_at) and
// reports whether the client's If-None-Match already matches, in which case
// a 304 has been written. Best effort: stats errors skip the ETag entirely.
func listETag(c *gin.Context, resource string,
	stats func(context.Context, *gorm.DB) (int64, *time.Time, error), db *gorm.DB) bool {
	if db == nil {
		return false
	}
	count, maxTS, err := stats(c.Request.Context(), db)
	if err != nil {
		return false
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.Unix()
	}
	etag := fmt.Sprintf(`W/"%s:%d:%d"`, resource, count, ts)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

//
// Handlers
//

// ListTasks godoc
// @ID          listTasks
// @Summary     List tasks
// @Description Returns all tasks, most recent first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Tasks
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.Envelope
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.Envelope "Internal error"
// @Router      /tasks [get]
func (h *Handlers) ListTasks(c *gin.Context) {
	if svc, ok := h.taskSvc.(*services.TaskService); ok {
		if listETag(c, "tasks", repo.TasksStats, svc.DB) {
			return
		}
	}

	tasks, err := h.taskSvc.List(c.Request.Context())
	if err != nil {
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "Tasks retrieved successfully", tasks)
}

// CreateTask godoc
// @ID          createTask
// @Summary     Create a task
// @Description Validates the payload and persists a new task.
// @Tags        Tasks
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateTaskRequest  true  "Create task payload"
//
// @Success     201  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope "Validation failed"
// @Failure     500  {object}  handlers.Envelope "Internal error"
// @Router      /tasks [post]
func (h *Handlers) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if !gate(c, &req) {
		return
	}

	t, err := h.taskSvc.Create(c.Request.Context(), req.Title, req.Description, req.Completed)
	if err != nil {
		classified(c, err)
		return
	}
	ok(c, http.StatusCreated, "Task created successfully", t)
}

// GetTask godoc
// @ID          getTask
// @Summary     Fetch a task
// @Tags        Tasks
// @Produce     json
//
// @Param       id  path  string  true  "Task ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope "Invalid id format"
// @Failure     404  {object}  handlers.Envelope "Task not found"
// @Router      /tasks/{id} [get]
func (h *Handlers) GetTask(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	t, err := h.taskSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "Task retrieved successfully", t)
}

// UpdateTask godoc
// @ID          updateTask
// @Summary     Update a task
// @Description Applies a partial merge of the provided fields.
// @Tags        Tasks
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Task ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateTaskRequest  true  "Fields to update"
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope "Validation failed / invalid id"
// @Failure     404  {object}  handlers.Envelope "Task not found"
// @Router      /tasks/{id} [put]
func (h *Handlers) UpdateTask(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	var req UpdateTaskRequest
	if !gate(c, &req) {
		return
	}

	t, err := h.taskSvc.Update(c.Request.Context(), id, services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "Task updated successfully", t)
}

// DeleteTask godoc
// @ID          deleteTask
// @Summary     Delete a task
// @Description Removes a task and returns the deleted record.
// @Tags        Tasks
// @Produce     json
//
// @Param       id  path  string  true  "Task ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope "Invalid id format"
// @Failure     404  {object}  handlers.Envelope "Task not found"
// @Router      /tasks/{id} [delete]
func (h *Handlers) DeleteTask(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	t, err := h.taskSvc.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "Task deleted successfully", t)
}

// ToggleTask godoc
// @ID          toggleTask
// @Summary     Toggle task completion
// @Description Flips the Completed flag in a single store statement.
// @Tags        Tasks
// @Produce     json
//
// @Param       id  path  string  true  "Task ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope "Invalid id format"
// @Failure     404  {object}  handlers.Envelope "Task not found"
// @Router      /tasks/{id}/toggle [patch]
func (h *Handlers) ToggleTask(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	t, err := h.taskSvc.Toggle(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "Task status toggled successfully", t)
}
