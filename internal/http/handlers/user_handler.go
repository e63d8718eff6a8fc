// User HTTP handlers.
//
// This file exposes REST endpoints for user resources:
//   - GET    /users       (list, newest first, ETag support)
//   - POST   /users       (register)
//   - GET    /users/{id}  (fetch)
//   - PUT    /users/{id}  (partial update)
//   - DELETE /users/{id}  (delete, returns the removed record)
//
// Email uniqueness is never pre-checked here: a duplicate registration comes
// back from the store as a duplicate-key fault and Classify turns it into a
// 409 with "<Field> already exists".
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-task-backend/internal/repo"
	"github.com/tbourn/go-task-backend/internal/services"
)

//
// DTOs
//

// CreateUserRequest is the JSON payload for registering a user.
type CreateUserRequest struct {
	// Name is the display name (2–100 characters after trimming).
	Name string `json:"name" validate:"required,min=2,max=100" example:"Ada Lovelace"`
	// Email is the unique address, stored trimmed and lowercased.
	Email string `json:"email" validate:"required,email" example:"ada@example.com"`
}

// Normalize trims the name and canonicalizes the email in place before
// validation, so the handler and service only ever see normalized values.
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// UpdateUserRequest is the JSON payload for a partial user update. Absent
// fields are left unchanged.
type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// Normalize trims and canonicalizes the provided fields in place.
func (r *UpdateUserRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &e
	}
}

//
// Handlers
//

// ListUsers godoc
// @ID          listUsers
// @Summary     List users
// @Description Returns all users, most recent first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Users
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.Envelope
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.Envelope "Internal error"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	if svc, okSvc := h.userSvc.(*services.UserService); okSvc {
		if listETag(c, "users", repo.UsersStats, svc.DB) {
			return
		}
	}

	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "Users retrieved successfully", users)
}

// CreateUser godoc
// @ID          createUser
// @Summary     Register a user
// @Description Validates the payload and persists a new user. A duplicate email yields 409.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateUserRequest  true  "Create user payload"
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope "Validation failed"
// @Failure     409  {object}  handlers.Envelope "Email already exists"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !gate(c, &req) {
		return
	}

	u, err := h.userSvc.Create(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "User created successfully", u)
}

// GetUser godoc
// @ID          getUser
// @Summary     Fetch a user
// @Tags        Users
// @Produce     json
//
// @Param       id  path  string  true  "User ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope "Invalid id format"
// @Failure     404  {object}  handlers.Envelope "User not found"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	u, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "User retrieved successfully", u)
}

// UpdateUser godoc
// @ID          updateUser
// @Summary     Update a user
// @Description Applies a partial merge; a conflicting email yields 409.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "User ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateUserRequest  true  "Fields to update"
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope "Validation failed / invalid id"
// @Failure     404  {object}  handlers.Envelope "User not found"
// @Failure     409  {object}  handlers.Envelope "Email already exists"
// @Router      /users/{id} [put]
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	var req UpdateUserRequest
	if !gate(c, &req) {
		return
	}

	u, err := h.userSvc.Update(c.Request.Context(), id, services.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "User updated successfully", u)
}

// DeleteUser godoc
// @ID          deleteUser
// @Summary     Delete a user
// @Description Removes a user and returns the deleted record.
// @Tags        Users
// @Produce     json
//
// @Param       id  path  string  true  "User ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.Envelope
// @Failure     400  {object}  handlers.Envelope "Invalid id format"
// @Failure     404  {object}  handlers.Envelope "User not found"
// @Router      /users/{id} [delete]
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}

	u, err := h.userSvc.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		classified(c, err)
		return
	}
	ok(c, http.StatusOK, "User deleted successfully", u)
}
