// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// Error semantics mirror task_repo.go: missing records return ErrNotFound,
// everything else passes through storeerr.Wrap. In particular a duplicate
// email insert surfaces as *storeerr.DuplicateKey{Field: "email"} — the
// unique index is the only uniqueness check in the system.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/storeerr"
)

// CreateUser inserts a new User row with the given (already normalized)
// name and email. On a duplicate email the wrapped DuplicateKey variant is
// returned; the row is never written.
func CreateUser(ctx context.Context, db *gorm.DB, name, email string) (*domain.User, error) {
	u := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, storeerr.Wrap(err)
	}
	return u, nil
}

// ListUsers returns all users ordered by creation time descending.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, storeerr.Wrap(err)
}

// GetUser fetches a single user by ID, returning ErrNotFound when absent.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, storeerr.Wrap(err)
	}
	return &u, nil
}

// UpdateUser applies a partial merge of fields onto the user identified by
// id and returns the refreshed record. A conflicting email update surfaces
// as DuplicateKey; a missing user as ErrNotFound.
func UpdateUser(ctx context.Context, db *gorm.DB, id string, fields map[string]any) (*domain.User, error) {
	if len(fields) > 0 {
		res := db.WithContext(ctx).
			Model(&domain.User{}).
			Where("id = ?", id).
			Updates(fields)
		if res.Error != nil {
			return nil, storeerr.Wrap(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return GetUser(ctx, db, id)
}

// DeleteUser removes the user identified by id and returns the deleted
// record. Users are hard-deleted so the email becomes available again.
func DeleteUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	u, err := GetUser(ctx, db, id)
	if err != nil {
		return nil, err
	}
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.User{})
	if res.Error != nil {
		return nil, storeerr.Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return u, nil
}
