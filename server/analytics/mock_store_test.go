package analytics

import (
	"context"
	"sync"

	"github.com/taskvine/taskvine/store"
)

// mockStore is an in-memory implementation of the Store interface for
// testing. Filter semantics mirror the SQL drivers: timestamp ranges are
// half-open [After, Before) and rows with a NULL column never match a
// range filter on that column.
type mockStore struct {
	mu      sync.Mutex
	users   []*store.User
	tasks   []*store.Task
	streaks map[int32]*store.Streak
}

func newMockStore() *mockStore {
	return &mockStore{streaks: map[int32]*store.Streak{}}
}

func (m *mockStore) GetUser(_ context.Context, find *store.FindUser) (*store.User, error) {
	for _, u := range m.users {
		if find.ID != nil && u.ID != *find.ID {
			continue
		}
		if find.Username != nil && u.Username != *find.Username {
			continue
		}
		return u, nil
	}
	return nil, nil
}

func (m *mockStore) ListTasks(_ context.Context, find *store.FindTask) ([]*store.Task, error) {
	result := make([]*store.Task, 0)
	for _, t := range m.tasks {
		if matchTask(t, find) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockStore) CountTasks(ctx context.Context, find *store.FindTask) (int64, error) {
	list, err := m.ListTasks(ctx, find)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (m *mockStore) CountTasksByStatus(_ context.Context, creatorID int32) ([]*store.GroupCount, error) {
	counts := map[string]int64{}
	for _, t := range m.tasks {
		if t.CreatorID == creatorID {
			counts[string(t.Status)]++
		}
	}
	return toGroupCounts(counts), nil
}

func (m *mockStore) CountTasksByPriority(_ context.Context, creatorID int32) ([]*store.GroupCount, error) {
	counts := map[string]int64{}
	for _, t := range m.tasks {
		if t.CreatorID == creatorID && t.Priority != nil {
			counts[string(*t.Priority)]++
		}
	}
	return toGroupCounts(counts), nil
}

func (m *mockStore) GetStreak(_ context.Context, find *store.FindStreak) (*store.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if find.UserID == nil {
		return nil, nil
	}
	return m.streaks[*find.UserID], nil
}

// UpsertStreakCompletion applies the same conditional rule as the SQL
// drivers: no change when today is already counted, increment across a
// one-day gap, reset otherwise.
func (m *mockStore) UpsertStreakCompletion(_ context.Context, upsert *store.UpsertStreakCompletion) (*store.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.streaks[upsert.UserID]
	if rec == nil {
		ts := upsert.TodayStartTs
		rec = &store.Streak{UserID: upsert.UserID, Count: 1, Longest: 1, LastCompletedTs: &ts}
		m.streaks[upsert.UserID] = rec
		return copyStreak(rec), nil
	}

	switch {
	case rec.LastCompletedTs != nil && *rec.LastCompletedTs >= upsert.TodayStartTs:
		// Today already counted.
	case rec.LastCompletedTs != nil && *rec.LastCompletedTs >= upsert.PrevDayStartTs:
		rec.Count++
	default:
		rec.Count = 1
	}
	if rec.Count > rec.Longest {
		rec.Longest = rec.Count
	}
	if rec.LastCompletedTs == nil || *rec.LastCompletedTs < upsert.TodayStartTs {
		ts := upsert.TodayStartTs
		rec.LastCompletedTs = &ts
	}
	return copyStreak(rec), nil
}

func copyStreak(rec *store.Streak) *store.Streak {
	out := *rec
	if rec.LastCompletedTs != nil {
		ts := *rec.LastCompletedTs
		out.LastCompletedTs = &ts
	}
	return &out
}

func toGroupCounts(counts map[string]int64) []*store.GroupCount {
	list := make([]*store.GroupCount, 0, len(counts))
	for key, count := range counts {
		list = append(list, &store.GroupCount{Key: key, Count: count})
	}
	return list
}

func matchTask(t *store.Task, find *store.FindTask) bool {
	if find.ID != nil && t.ID != *find.ID {
		return false
	}
	if find.UID != nil && t.UID != *find.UID {
		return false
	}
	if find.CreatorID != nil && t.CreatorID != *find.CreatorID {
		return false
	}
	if find.Status != nil && t.Status != *find.Status {
		return false
	}
	if len(find.StatusList) > 0 {
		found := false
		for _, status := range find.StatusList {
			if t.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if find.ExcludeStatus != nil && t.Status == *find.ExcludeStatus {
		return false
	}
	if find.Priority != nil && (t.Priority == nil || *t.Priority != *find.Priority) {
		return false
	}
	if find.DueAfter != nil && (t.DueTs == nil || *t.DueTs < *find.DueAfter) {
		return false
	}
	if find.DueBefore != nil && (t.DueTs == nil || *t.DueTs >= *find.DueBefore) {
		return false
	}
	if find.CompletedAfter != nil && (t.CompletedTs == nil || *t.CompletedTs < *find.CompletedAfter) {
		return false
	}
	if find.CompletedBefore != nil && (t.CompletedTs == nil || *t.CompletedTs >= *find.CompletedBefore) {
		return false
	}
	if find.CreatedAfter != nil && t.CreatedTs < *find.CreatedAfter {
		return false
	}
	if find.CreatedBefore != nil && t.CreatedTs >= *find.CreatedBefore {
		return false
	}
	if find.Recurring != nil && *find.Recurring != (t.Recurrence != nil) {
		return false
	}
	return true
}
