// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Task model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a task is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - Every other store fault is passed through storeerr.Wrap at this
//     boundary, so callers only ever see the closed variant set
//     (DuplicateKey, SchemaInvalid, CastInvalid) or the raw error when no
//     variant applies.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/storeerr"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateTask inserts a new Task row. The task ID is a randomly generated
// UUID string and CreatedAt is set to UTC. On success it returns the
// persisted Task; on failure, a wrapped store error.
func CreateTask(ctx context.Context, db *gorm.DB, title, description string, completed bool) (*domain.Task, error) {
	t := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, storeerr.Wrap(err)
	}
	return t, nil
}

// ListTasks returns all tasks ordered by creation time descending (most
// recent first). It returns an empty slice when the table is empty.
func ListTasks(ctx context.Context, db *gorm.DB) ([]domain.Task, error) {
	var out []domain.Task
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, storeerr.Wrap(err)
}

// GetTask fetches a single task by ID. If the record does not exist it
// returns ErrNotFound; other store faults are wrapped.
func GetTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error) {
	var t domain.Task
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, storeerr.Wrap(err)
	}
	return &t, nil
}

// UpdateTask applies a partial merge of fields onto the task identified by
// id and returns the refreshed record. Only the provided columns are
// written; GORM bumps updated_at on the same statement. Returns ErrNotFound
// when the task does not exist.
func UpdateTask(ctx context.Context, db *gorm.DB, id string, fields map[string]any) (*domain.Task, error) {
	if len(fields) > 0 {
		res := db.WithContext(ctx).
			Model(&domain.Task{}).
			Where("id = ?", id).
			Updates(fields)
		if res.Error != nil {
			return nil, storeerr.Wrap(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return GetTask(ctx, db, id)
}

// DeleteTask soft-deletes the task identified by id and returns the removed
// record. Returns ErrNotFound when the task does not exist (including when
// it was already deleted), making a repeated delete observable as absence.
func DeleteTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error) {
	t, err := GetTask(ctx, db, id)
	if err != nil {
		return nil, err
	}
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Task{})
	if res.Error != nil {
		return nil, storeerr.Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return t, nil
}

// ToggleTask flips the Completed flag of the task identified by id in a
// single store-side statement (no read-modify-write window) and returns the
// refreshed record. Returns ErrNotFound when the task does not exist.
func ToggleTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error) {
	res := db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(map[string]any{"completed": gorm.Expr("NOT completed")})
	if res.Error != nil {
		return nil, storeerr.Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetTask(ctx, db, id)
}
