// Package domain defines the persistence models for tasks and users. These
// types are mapped with GORM and form the core data layer of the application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Task represents a single to-do item. Titles are validated and trimmed at
// the HTTP layer, so a persisted task never carries an empty title.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Title: short human-readable summary; required, never blank.
//   - Description: optional free-form text.
//   - Completed: completion flag, defaults to false.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (deleted rows disappear from queries).
type Task struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string         `json:"title"       gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Completed   bool           `json:"completed"   gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Task.
func (Task) TableName() string { return "tasks" }

// User represents a registered account. Email uniqueness is enforced solely
// by the unique index below: the application never performs a check-then-act
// lookup; the store is the single arbiter and a violation surfaces as a
// duplicate-key error.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Name: display name, 2–100 runes after trimming (validated upstream).
//   - Email: normalized (trimmed, lowercased) address, globally unique.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//
// Users are hard-deleted: a soft-delete marker would leave the row in the
// unique email index and block the address from ever being registered again.
type User struct {
	ID        string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"  gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }
