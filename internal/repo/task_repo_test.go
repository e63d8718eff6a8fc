package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-task-backend/internal/domain"
)

func newTaskDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:taskrepo_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateTask_InsertsRow(t *testing.T) {
	db := newTaskDB(t)
	ctx := context.Background()

	got, err := CreateTask(ctx, db, "write docs", "cover the API", false)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected generated UUID id")
	}
	if got.Title != "write docs" || got.Description != "cover the API" || got.Completed {
		t.Fatalf("unexpected record: %+v", got)
	}

	var count int64
	db.Model(&domain.Task{}).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d; want 1", count)
	}
}

func TestListTasks_NewestFirst(t *testing.T) {
	db := newTaskDB(t)
	ctx := context.Background()

	old := &domain.Task{ID: "t-old", Title: "old", CreatedAt: time.Now().UTC().Add(-time.Hour)}
	recent := &domain.Task{ID: "t-new", Title: "new", CreatedAt: time.Now().UTC()}
	for _, task := range []*domain.Task{old, recent} {
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := ListTasks(ctx, db)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	if got[0].ID != "t-new" || got[1].ID != "t-old" {
		t.Fatalf("order wrong: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	db := newTaskDB(t)
	if _, err := GetTask(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestUpdateTask_PartialMerge(t *testing.T) {
	db := newTaskDB(t)
	ctx := context.Background()

	seed, err := CreateTask(ctx, db, "original", "desc", false)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := UpdateTask(ctx, db, seed.ID, map[string]any{"title": "renamed"})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Title != "renamed" {
		t.Fatalf("Title = %q; want renamed", got.Title)
	}
	// untouched columns survive the merge
	if got.Description != "desc" || got.Completed {
		t.Fatalf("merge clobbered other fields: %+v", got)
	}
}

func TestUpdateTask_NoFields_DegeneratesToRead(t *testing.T) {
	db := newTaskDB(t)
	ctx := context.Background()

	seed, _ := CreateTask(ctx, db, "keep", "", false)
	got, err := UpdateTask(ctx, db, seed.ID, map[string]any{})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Title != "keep" {
		t.Fatalf("Title = %q", got.Title)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	db := newTaskDB(t)
	_, err := UpdateTask(context.Background(), db, "missing", map[string]any{"title": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestDeleteTask_ReturnsRecord_ThenNotFound(t *testing.T) {
	db := newTaskDB(t)
	ctx := context.Background()

	seed, _ := CreateTask(ctx, db, "doomed", "", false)

	got, err := DeleteTask(ctx, db, seed.ID)
	if err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if got.ID != seed.ID || got.Title != "doomed" {
		t.Fatalf("deleted record mismatch: %+v", got)
	}

	// second delete on the same id observes absence
	if _, err := DeleteTask(ctx, db, seed.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v; want ErrNotFound", err)
	}
	// and reads no longer see the row
	if _, err := GetTask(ctx, db, seed.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete err = %v; want ErrNotFound", err)
	}
}

func TestToggleTask_FlipsFlag(t *testing.T) {
	db := newTaskDB(t)
	ctx := context.Background()

	seed, _ := CreateTask(ctx, db, "flip me", "", false)

	got, err := ToggleTask(ctx, db, seed.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !got.Completed {
		t.Fatalf("Completed = false; want true after first toggle")
	}

	got, err = ToggleTask(ctx, db, seed.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if got.Completed {
		t.Fatalf("Completed = true; want false after second toggle")
	}
}

func TestToggleTask_NotFound(t *testing.T) {
	db := newTaskDB(t)
	if _, err := ToggleTask(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestTasksStats(t *testing.T) {
	db := newTaskDB(t)
	ctx := context.Background()

	count, maxTS, err := TasksStats(ctx, db)
	if err != nil {
		t.Fatalf("empty stats: %v", err)
	}
	if count != 0 || maxTS != nil {
		t.Fatalf("empty table: count=%d maxTS=%v", count, maxTS)
	}

	if _, err := CreateTask(ctx, db, "one", "", false); err != nil {
		t.Fatalf("seed: %v", err)
	}
	count, maxTS, err = TasksStats(ctx, db)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 1 || maxTS == nil {
		t.Fatalf("count=%d maxTS=%v", count, maxTS)
	}
}
