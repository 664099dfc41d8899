package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lifeboard/internal/database"
	"lifeboard/internal/models"
)

// LifeDataStore exposes the per-domain read operations the aggregator fans
// out over. Relational domains (profile, tasks, habits, entries, metrics)
// come from SQL; AI-memory and notes come from MongoDB when configured.
type LifeDataStore struct {
	db       *database.DB
	memories *MemoryStore // nil when MongoDB is not configured
}

// NewLifeDataStore creates a new life data store.
func NewLifeDataStore(db *database.DB, memories *MemoryStore) *LifeDataStore {
	return &LifeDataStore{
		db:       db,
		memories: memories,
	}
}

// GetProfile returns the user's profile row. A missing profile is not an
// error; it returns the zero profile with the user id filled in.
func (s *LifeDataStore) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, display_name, email, timezone, created_at
		FROM profiles WHERE user_id = ?`, userID)

	var p models.Profile
	var createdAt any
	err := row.Scan(&p.UserID, &p.DisplayName, &p.Email, &p.Timezone, &createdAt)
	if err == sql.ErrNoRows {
		return models.Profile{UserID: userID}, nil
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	p.CreatedAt = asTime(createdAt)
	return p, nil
}

// GetTasks returns the user's most recent tasks, newest first.
func (s *LifeDataStore) GetTasks(ctx context.Context, userID string, limit int) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, status, priority, due_date, completed_at, created_at
		FROM tasks WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var due, completed, created any
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Status, &t.Priority, &due, &completed, &created); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.DueDate = asTimePtr(due)
		t.CompletedAt = asTimePtr(completed)
		t.CreatedAt = asTime(created)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetActiveHabits returns the user's active habit definitions.
func (s *LifeDataStore) GetActiveHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, is_active, created_at
		FROM habits WHERE user_id = ? AND is_active = 1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		var created any
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.IsActive, &created); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		h.CreatedAt = asTime(created)
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// GetHabitEntries returns the most recent logged days for one habit, newest
// first, capped at limit.
func (s *LifeDataStore) GetHabitEntries(ctx context.Context, userID, habitID string, limit int) ([]models.HabitEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, user_id, logged_date, value, note, created_at
		FROM habit_entries WHERE user_id = ? AND habit_id = ?
		ORDER BY logged_date DESC, created_at DESC LIMIT ?`, userID, habitID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query habit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.HabitEntry
	for rows.Next() {
		var e models.HabitEntry
		var logged, created any
		var value int
		if err := rows.Scan(&e.ID, &e.HabitID, &e.UserID, &logged, &value, &e.Note, &created); err != nil {
			return nil, fmt.Errorf("failed to scan habit entry: %w", err)
		}
		e.LoggedDate = asTime(logged)
		e.Value = models.DayOutcome(value)
		e.CreatedAt = asTime(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetHealthMetrics returns health metrics recorded on or after since.
func (s *LifeDataStore) GetHealthMetrics(ctx context.Context, userID string, since time.Time) ([]models.HealthMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kind, recorded_date, value
		FROM health_metrics WHERE user_id = ? AND recorded_date >= ?
		ORDER BY recorded_date DESC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query health metrics: %w", err)
	}
	defer rows.Close()

	var metrics []models.HealthMetric
	for rows.Next() {
		var m models.HealthMetric
		var recorded any
		if err := rows.Scan(&m.ID, &m.UserID, &m.Kind, &recorded, &m.Value); err != nil {
			return nil, fmt.Errorf("failed to scan health metric: %w", err)
		}
		m.RecordedDate = asTime(recorded)
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// GetFinanceMetrics returns finance metrics recorded on or after since.
func (s *LifeDataStore) GetFinanceMetrics(ctx context.Context, userID string, since time.Time) ([]models.FinanceMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kind, category, recorded_date, amount
		FROM finance_metrics WHERE user_id = ? AND recorded_date >= ?
		ORDER BY recorded_date DESC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query finance metrics: %w", err)
	}
	defer rows.Close()

	var metrics []models.FinanceMetric
	for rows.Next() {
		var m models.FinanceMetric
		var recorded any
		if err := rows.Scan(&m.ID, &m.UserID, &m.Kind, &m.Category, &recorded, &m.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan finance metric: %w", err)
		}
		m.RecordedDate = asTime(recorded)
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// GetRecentUserIDs returns users with habit activity since the cutoff. Used
// by the warmup job to pre-build contexts for users likely to ask for them.
func (s *LifeDataStore) GetRecentUserIDs(ctx context.Context, since time.Time, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT user_id FROM habit_entries
		WHERE created_at >= ? LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent users: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

// GetMemoryRecords returns recent AI-memory records, newest first.
// Returns empty when MongoDB is not configured (memory domain disabled).
func (s *LifeDataStore) GetMemoryRecords(ctx context.Context, userID string, limit int) ([]models.MemoryRecord, error) {
	if s.memories == nil {
		return nil, nil
	}
	return s.memories.GetRecent(ctx, userID, limit)
}

// GetNotes returns recent free-form notes, newest first.
// Returns empty when MongoDB is not configured.
func (s *LifeDataStore) GetNotes(ctx context.Context, userID string, limit int) ([]models.ContentNote, error) {
	if s.memories == nil {
		return nil, nil
	}
	return s.memories.GetNotes(ctx, userID, limit)
}

// asTime converts a scanned SQL value to time.Time across drivers: the MySQL
// driver (parseTime=true) hands back time.Time, the SQLite driver hands back
// the stored text.
func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case []byte:
		return parseSQLTime(string(t))
	case string:
		return parseSQLTime(t)
	case nil:
		return time.Time{}
	}
	return time.Time{}
}

// asTimePtr is asTime for nullable columns.
func asTimePtr(v any) *time.Time {
	if v == nil {
		return nil
	}
	t := asTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

var sqlTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseSQLTime(s string) time.Time {
	for _, layout := range sqlTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
