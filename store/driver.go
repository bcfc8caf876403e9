package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	Migrate(ctx context.Context) error

	// Task model related methods.
	CreateTask(ctx context.Context, create *Task) (*Task, error)
	ListTasks(ctx context.Context, find *FindTask) ([]*Task, error)
	CountTasks(ctx context.Context, find *FindTask) (int64, error)
	CountTasksByStatus(ctx context.Context, creatorID int32) ([]*GroupCount, error)
	CountTasksByPriority(ctx context.Context, creatorID int32) ([]*GroupCount, error)
	UpdateTask(ctx context.Context, update *UpdateTask) error
	DeleteTask(ctx context.Context, delete *DeleteTask) error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) error

	// Streak model related methods.
	GetStreak(ctx context.Context, find *FindStreak) (*Streak, error)
	UpsertStreakCompletion(ctx context.Context, upsert *UpsertStreakCompletion) (*Streak, error)
}
