package repo

import (
	"context"
	"errors"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-task-backend/internal/domain"
	"github.com/tbourn/go-task-backend/internal/storeerr"
)

func newUserDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:userrepo_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateUser_InsertsRow(t *testing.T) {
	db := newUserDB(t)

	got, err := CreateUser(context.Background(), db, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got.ID == "" || got.Name != "Ada" || got.Email != "ada@example.com" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestCreateUser_DuplicateEmail_IsDuplicateKey(t *testing.T) {
	db := newUserDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, db, "Ada", "ada@example.com"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := CreateUser(ctx, db, "Imposter", "ada@example.com")
	var dup *storeerr.DuplicateKey
	if !errors.As(err, &dup) {
		t.Fatalf("err = %T (%v); want *storeerr.DuplicateKey", err, err)
	}
	if dup.Field != "email" {
		t.Fatalf("Field = %q; want email", dup.Field)
	}

	// the conflicting row was never written
	var count int64
	db.Model(&domain.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d; want 1", count)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := newUserDB(t)
	if _, err := GetUser(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestUpdateUser_PartialMerge(t *testing.T) {
	db := newUserDB(t)
	ctx := context.Background()

	seed, _ := CreateUser(ctx, db, "Ada", "ada@example.com")

	got, err := UpdateUser(ctx, db, seed.ID, map[string]any{"name": "Ada L."})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if got.Name != "Ada L." || got.Email != "ada@example.com" {
		t.Fatalf("merge wrong: %+v", got)
	}
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	db := newUserDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, db, "Ada", "ada@example.com"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	other, _ := CreateUser(ctx, db, "Grace", "grace@example.com")

	_, err := UpdateUser(ctx, db, other.ID, map[string]any{"email": "ada@example.com"})
	var dup *storeerr.DuplicateKey
	if !errors.As(err, &dup) {
		t.Fatalf("err = %T (%v); want *storeerr.DuplicateKey", err, err)
	}
}

func TestDeleteUser_FreesEmail(t *testing.T) {
	db := newUserDB(t)
	ctx := context.Background()

	seed, _ := CreateUser(ctx, db, "Ada", "ada@example.com")

	got, err := DeleteUser(ctx, db, seed.ID)
	if err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Fatalf("deleted record mismatch: %+v", got)
	}
	if _, err := DeleteUser(ctx, db, seed.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v; want ErrNotFound", err)
	}

	// hard delete releases the unique email for re-registration
	if _, err := CreateUser(ctx, db, "Ada again", "ada@example.com"); err != nil {
		t.Fatalf("re-register after delete: %v", err)
	}
}

func TestUsersStats(t *testing.T) {
	db := newUserDB(t)
	ctx := context.Background()

	count, maxTS, err := UsersStats(ctx, db)
	if err != nil || count != 0 || maxTS != nil {
		t.Fatalf("empty stats: count=%d maxTS=%v err=%v", count, maxTS, err)
	}

	if _, err := CreateUser(ctx, db, "Ada", "ada@example.com"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	count, maxTS, err = UsersStats(ctx, db)
	if err != nil || count != 1 || maxTS == nil {
		t.Fatalf("stats: count=%d maxTS=%v err=%v", count, maxTS, err)
	}
}
