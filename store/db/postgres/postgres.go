package postgres

import (
	"context"
	"database/sql"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/taskvine/taskvine/internal/profile"
	"github.com/taskvine/taskvine/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// Connection pool sized for a single-user personal application.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{db: db, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS "user" (
	id SERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	timezone TEXT
);

CREATE TABLE IF NOT EXISTS task (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	creator_id INTEGER NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'PENDING',
	priority TEXT,
	due_ts BIGINT,
	completed_ts BIGINT,
	recurrence TEXT
);

CREATE INDEX IF NOT EXISTS idx_task_creator_id ON task (creator_id);
CREATE INDEX IF NOT EXISTS idx_task_due_ts ON task (due_ts);
CREATE INDEX IF NOT EXISTS idx_task_completed_ts ON task (completed_ts);

CREATE TABLE IF NOT EXISTS streak (
	user_id INTEGER PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 0,
	longest INTEGER NOT NULL DEFAULT 0,
	last_completed_ts BIGINT,
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);
`

// Migrate applies the latest schema. Every statement is idempotent so the
// call is safe on each startup.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	return nil
}
