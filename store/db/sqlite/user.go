package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/taskvine/taskvine/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	stmt := `INSERT INTO user (username, timezone)
		VALUES (?, ?)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, create.Username, create.Timezone).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return create, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "user.id = ?"), append(args, *v)
	}
	if v := find.Username; v != nil {
		where, args = append(where, "user.username = ?"), append(args, *v)
	}

	query := `
		SELECT id, username, created_ts, updated_ts, timezone
		FROM user
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY user.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	list := make([]*store.User, 0)
	for rows.Next() {
		var user store.User
		var timezone sql.NullString
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.CreatedTs,
			&user.UpdatedTs,
			&timezone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if timezone.Valid {
			user.Timezone = &timezone.String
		}
		list = append(list, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateUser(ctx context.Context, update *store.UpdateUser) error {
	set, args := []string{}, []any{}

	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = ?"), append(args, *v)
	}
	if v := update.Username; v != nil {
		set, args = append(set, "username = ?"), append(args, *v)
	}
	if v := update.Timezone; v != nil {
		set, args = append(set, "timezone = ?"), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	stmt := `UPDATE user SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	args = append(args, update.ID)

	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
