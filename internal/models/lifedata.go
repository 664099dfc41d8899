package models

import "time"

// DayOutcome is the tri-state result of a habit on a single day.
// The numeric codes match what mobile/web clients log into habit_entries.value.
type DayOutcome int

const (
	OutcomeFail    DayOutcome = 0 // explicit miss, breaks a streak
	OutcomeSuccess DayOutcome = 1
	OutcomeSkip    DayOutcome = 2 // rest day, neutral: never breaks a streak
	OutcomePartial DayOutcome = 3 // partial completion, counts as success
)

// CountsAsSuccess reports whether the outcome extends a streak on its own.
func (o DayOutcome) CountsAsSuccess() bool {
	return o == OutcomeSuccess || o == OutcomePartial
}

// String returns the human-readable outcome label.
func (o DayOutcome) String() string {
	switch o {
	case OutcomeFail:
		return "fail"
	case OutcomeSuccess:
		return "success"
	case OutcomeSkip:
		return "skip"
	case OutcomePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Habit is a tracked habit definition.
type Habit struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitEntry is one logged day for one habit.
type HabitEntry struct {
	ID         string     `json:"id"`
	HabitID    string     `json:"habit_id"`
	UserID     string     `json:"user_id"`
	LoggedDate time.Time  `json:"logged_date"` // calendar date, time component ignored
	Value      DayOutcome `json:"value"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Task statuses as stored in the tasks table.
const (
	TaskStatusActive    = "active"
	TaskStatusCompleted = "completed"
)

// Task is a to-do item.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"` // 1 (low) .. 3 (high)
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsHighPriority reports whether the task is at the top priority tier.
func (t Task) IsHighPriority() bool { return t.Priority >= 3 }

// IsOverdue reports whether an active task is past its due date.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Status == TaskStatusActive && t.DueDate != nil && t.DueDate.Before(now)
}

// Health metric kinds stored in health_metrics.kind.
const (
	MetricSleep  = "sleep"  // hours
	MetricMood   = "mood"   // 1-5
	MetricEnergy = "energy" // 1-5
	MetricStress = "stress" // 0-10
)

// HealthMetric is one recorded health signal for one day.
type HealthMetric struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Kind         string    `json:"kind"`
	RecordedDate time.Time `json:"recorded_date"`
	Value        float64   `json:"value"`
}

// Finance metric kinds stored in finance_metrics.kind.
const (
	FinanceExpense = "expense"
	FinanceIncome  = "income"
)

// FinanceMetric is one recorded money movement.
type FinanceMetric struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Kind         string    `json:"kind"`
	Category     string    `json:"category,omitempty"`
	RecordedDate time.Time `json:"recorded_date"`
	Amount       float64   `json:"amount"`
}

// LifeDataPoint is one day's consolidated life-metrics record for a user.
// Missing signals are imputed with neutral defaults by the normalizer so every
// date in a contiguous window carries a complete point.
type LifeDataPoint struct {
	Date         time.Time          `json:"date"`
	Habits       map[string]float64 `json:"habits"` // habit name -> logged value
	Mood         float64            `json:"mood"`
	Energy       float64            `json:"energy"`
	SleepHours   float64            `json:"sleep_hours"`
	Expenses     float64            `json:"expenses"`
	Productivity float64            `json:"productivity"` // derived, 0-5
	Stress       float64            `json:"stress"`
}

// StreakResult holds the two streak figures for one habit.
// BestStreak is always >= CurrentStreak.
type StreakResult struct {
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
}
