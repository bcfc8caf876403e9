package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/taskvine/taskvine/internal/profile"
	"github.com/taskvine/taskvine/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a database specified by its database driver name and a
// driver-specific data source name, typically consisting of at least a
// database name and connection information.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	dsn := buildDSN(profile.DSN)
	sqliteDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}

	driver := DB{db: sqliteDB, profile: profile}
	return &driver, nil
}

// buildDSN appends the connection pragmas to a user-supplied DSN,
// keeping any query string it already carries.
//
// The busy timeout keeps concurrent aggregation reads from failing with
// SQLITE_BUSY while a streak upsert holds the write lock.
func buildDSN(dsn string) string {
	const pragmas = "_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragmas
	}
	return dsn + "?" + pragmas
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS user (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	timezone TEXT
);

CREATE TABLE IF NOT EXISTS task (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	creator_id INTEGER NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
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
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
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
