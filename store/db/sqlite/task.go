package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taskvine/taskvine/store"
)

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	fields := []string{"uid", "creator_id", "title", "description", "status", "priority", "due_ts", "completed_ts", "recurrence"}
	recurrence, err := marshalRecurrence(create.Recurrence)
	if err != nil {
		return nil, err
	}
	placeholderValues := []any{
		create.UID, create.CreatorID, create.Title, create.Description,
		create.Status, create.Priority, create.DueTs, create.CompletedTs, recurrence,
	}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields = append(fields, "updated_ts")
		placeholderValues = append(placeholderValues, create.UpdatedTs)
	}

	stmt := `INSERT INTO task (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return create, nil
}

func (d *DB) ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error) {
	where, args := taskWhere(find)

	query := `
		SELECT
			id, uid, creator_id, created_ts, updated_ts,
			title, description, status, priority,
			due_ts, completed_ts, recurrence
		FROM task
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY task.created_ts DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Task, 0)
	for rows.Next() {
		var task store.Task
		var priority sql.NullString
		var dueTs, completedTs sql.NullInt64
		var recurrence sql.NullString

		if err := rows.Scan(
			&task.ID,
			&task.UID,
			&task.CreatorID,
			&task.CreatedTs,
			&task.UpdatedTs,
			&task.Title,
			&task.Description,
			&task.Status,
			&priority,
			&dueTs,
			&completedTs,
			&recurrence,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		if priority.Valid {
			p := store.TaskPriority(priority.String)
			task.Priority = &p
		}
		if dueTs.Valid {
			task.DueTs = &dueTs.Int64
		}
		if completedTs.Valid {
			task.CompletedTs = &completedTs.Int64
		}
		if recurrence.Valid && recurrence.String != "" {
			r := &store.Recurrence{}
			if err := json.Unmarshal([]byte(recurrence.String), r); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recurrence: %w", err)
			}
			task.Recurrence = r
		}

		list = append(list, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return list, nil
}

func (d *DB) CountTasks(ctx context.Context, find *store.FindTask) (int64, error) {
	where, args := taskWhere(find)

	query := `SELECT COUNT(*) FROM task WHERE ` + strings.Join(where, " AND ")

	var count int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (d *DB) CountTasksByStatus(ctx context.Context, creatorID int32) ([]*store.GroupCount, error) {
	query := `SELECT status, COUNT(*) FROM task WHERE creator_id = ? GROUP BY status`
	return d.queryGroupCounts(ctx, query, creatorID)
}

func (d *DB) CountTasksByPriority(ctx context.Context, creatorID int32) ([]*store.GroupCount, error) {
	query := `SELECT priority, COUNT(*) FROM task WHERE creator_id = ? AND priority IS NOT NULL GROUP BY priority`
	return d.queryGroupCounts(ctx, query, creatorID)
}

func (d *DB) queryGroupCounts(ctx context.Context, query string, creatorID int32) ([]*store.GroupCount, error) {
	rows, err := d.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group counts: %w", err)
	}
	defer rows.Close()

	list := make([]*store.GroupCount, 0)
	for rows.Next() {
		var gc store.GroupCount
		if err := rows.Scan(&gc.Key, &gc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan group count: %w", err)
		}
		list = append(list, &gc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group counts: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateTask(ctx context.Context, update *store.UpdateTask) error {
	set, args := []string{}, []any{}

	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = ?"), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = ?"), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = ?"), append(args, *v)
	}
	if v := update.Priority; v != nil {
		set, args = append(set, "priority = ?"), append(args, *v)
	}
	if v := update.DueTs; v != nil {
		set, args = append(set, "due_ts = ?"), append(args, *v)
	}
	if v := update.CompletedTs; v != nil {
		set, args = append(set, "completed_ts = ?"), append(args, *v)
	}
	if v := update.Recurrence; v != nil {
		recurrence, err := marshalRecurrence(v)
		if err != nil {
			return err
		}
		set, args = append(set, "recurrence = ?"), append(args, recurrence)
	}
	if len(set) == 0 {
		return nil
	}

	stmt := `UPDATE task SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	args = append(args, update.ID)

	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (d *DB) DeleteTask(ctx context.Context, delete *store.DeleteTask) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM task WHERE id = ?`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// taskWhere builds the shared WHERE clause for list and count queries.
func taskWhere(find *store.FindTask) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "task.id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "task.uid = ?"), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "task.creator_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "task.status = ?"), append(args, *v)
	}
	if v := find.StatusList; len(v) > 0 {
		list := make([]any, 0, len(v))
		for _, status := range v {
			list = append(list, status)
		}
		where, args = append(where, "task.status IN ("+placeholders(len(list))+")"), append(args, list...)
	}
	if v := find.ExcludeStatus; v != nil {
		where, args = append(where, "task.status != ?"), append(args, *v)
	}
	if v := find.Priority; v != nil {
		where, args = append(where, "task.priority = ?"), append(args, *v)
	}
	if v := find.DueAfter; v != nil {
		where, args = append(where, "task.due_ts >= ?"), append(args, *v)
	}
	if v := find.DueBefore; v != nil {
		where, args = append(where, "task.due_ts < ?"), append(args, *v)
	}
	if v := find.CompletedAfter; v != nil {
		where, args = append(where, "task.completed_ts >= ?"), append(args, *v)
	}
	if v := find.CompletedBefore; v != nil {
		where, args = append(where, "task.completed_ts < ?"), append(args, *v)
	}
	if v := find.CreatedAfter; v != nil {
		where, args = append(where, "task.created_ts >= ?"), append(args, *v)
	}
	if v := find.CreatedBefore; v != nil {
		where, args = append(where, "task.created_ts < ?"), append(args, *v)
	}
	if v := find.Recurring; v != nil {
		if *v {
			where = append(where, "task.recurrence IS NOT NULL")
		} else {
			where = append(where, "task.recurrence IS NULL")
		}
	}

	return where, args
}

func marshalRecurrence(r *store.Recurrence) (any, error) {
	if r == nil {
		return nil, nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recurrence: %w", err)
	}
	return string(raw), nil
}
