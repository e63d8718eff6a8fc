// Package services – UserService
//
// This file implements the UserService, covering user registration, listing,
// point reads, partial updates, and deletion. Email normalization (trim +
// lowercase) happens at the validation gate; the service re-applies it as a
// cheap idempotent step so that callers bypassing HTTP (tests, future RPC)
// still store canonical addresses. Uniqueness is never pre-checked here:
// the store's unique index is the single arbiter and a violation comes back
// as a *storeerr.DuplicateKey for the handler layer to classify as 409.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/repo"
)

// UserRepo defines the repository contract required by UserService.
type UserRepo interface {
	// CreateUser inserts a new user row.
	CreateUser(ctx context.Context, db *gorm.DB, name, email string) (*domain.User, error)

	// ListUsers returns all users, most recent first.
	ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error)

	// GetUser fetches a user by ID.
	GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)

	// UpdateUser applies a partial column merge and returns the fresh row.
	UpdateUser(ctx context.Context, db *gorm.DB, id string, fields map[string]any) (*domain.User, error)

	// DeleteUser removes a user and returns the deleted row.
	DeleteUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)
}

// UserUpdate carries the optional fields of a partial user update. Nil
// pointers mean "leave unchanged".
type UserUpdate struct {
	Name  *string
	Email *string
}

// UserService provides user-level CRUD operations.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo
}

// NewUserService constructs a UserService bound to the given handle and repo.
func NewUserService(db *gorm.DB, r UserRepo) *UserService {
	return &UserService{DB: db, Repo: r}
}

// List returns all users, newest first.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Repo.ListUsers(ctx, s.DB)
}

// Create registers a new user. The email is stored in canonical form
// (trimmed, lowercased); a duplicate surfaces as storeerr.DuplicateKey.
func (s *UserService) Create(ctx context.Context, name, email string) (*domain.User, error) {
	return s.Repo.CreateUser(ctx, s.DB, strings.TrimSpace(name), normalizeEmail(email))
}

// Get fetches a user by ID, returning ErrUserNotFound when absent.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Repo.GetUser(ctx, s.DB, id)
	if err != nil {
		return nil, asUserErr(err)
	}
	return u, nil
}

// Update applies a partial merge of the provided fields and returns the
// updated record. A changed email goes through the same normalization and
// the same store-enforced uniqueness as on create.
func (s *UserService) Update(ctx context.Context, id string, upd UserUpdate) (*domain.User, error) {
	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		fields["email"] = normalizeEmail(*upd.Email)
	}

	u, err := s.Repo.UpdateUser(ctx, s.DB, id, fields)
	if err != nil {
		return nil, asUserErr(err)
	}
	return u, nil
}

// Delete removes a user and returns the deleted record.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Repo.DeleteUser(ctx, s.DB, id)
	if err != nil {
		return nil, asUserErr(err)
	}
	return u, nil
}

// normalizeEmail puts an address into its canonical stored form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// asUserErr maps repo-level absence onto the service sentinel and lets every
// other error through unmodified.
func asUserErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
