package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taskvine/taskvine/store"
)

func (d *DB) GetStreak(ctx context.Context, find *store.FindStreak) (*store.Streak, error) {
	if find.UserID == nil {
		return nil, fmt.Errorf("user id is required to find a streak")
	}

	query := `SELECT user_id, count, longest, last_completed_ts, updated_ts FROM streak WHERE user_id = $1`

	var streak store.Streak
	var lastCompletedTs sql.NullInt64
	if err := d.db.QueryRowContext(ctx, query, *find.UserID).Scan(
		&streak.UserID,
		&streak.Count,
		&streak.Longest,
		&lastCompletedTs,
		&streak.UpdatedTs,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	if lastCompletedTs.Valid {
		streak.LastCompletedTs = &lastCompletedTs.Int64
	}

	return &streak, nil
}

// UpsertStreakCompletion applies the satisfied-day rule in one statement.
// The CASE leaves the row untouched when today is already counted,
// increments across a one-day gap, and resets otherwise. A NULL
// last_completed_ts falls through every comparison into the reset branch.
func (d *DB) UpsertStreakCompletion(ctx context.Context, upsert *store.UpsertStreakCompletion) (*store.Streak, error) {
	stmt := `
		INSERT INTO streak (user_id, count, longest, last_completed_ts, updated_ts)
		VALUES ($1, 1, 1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			count = CASE
				WHEN streak.last_completed_ts >= EXCLUDED.last_completed_ts THEN streak.count
				WHEN streak.last_completed_ts >= $4 THEN streak.count + 1
				ELSE 1
			END,
			longest = GREATEST(streak.longest, CASE
				WHEN streak.last_completed_ts >= EXCLUDED.last_completed_ts THEN streak.count
				WHEN streak.last_completed_ts >= $4 THEN streak.count + 1
				ELSE 1
			END),
			last_completed_ts = GREATEST(COALESCE(streak.last_completed_ts, 0), EXCLUDED.last_completed_ts),
			updated_ts = EXCLUDED.updated_ts
		RETURNING user_id, count, longest, last_completed_ts, updated_ts`

	args := []any{
		upsert.UserID,
		upsert.TodayStartTs,
		time.Now().Unix(),
		upsert.PrevDayStartTs,
	}

	var streak store.Streak
	var lastCompletedTs sql.NullInt64
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&streak.UserID,
		&streak.Count,
		&streak.Longest,
		&lastCompletedTs,
		&streak.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert streak: %w", err)
	}
	if lastCompletedTs.Valid {
		streak.LastCompletedTs = &lastCompletedTs.Int64
	}

	return &streak, nil
}
