package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the user profile row from the relational store.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Timezone    string    `json:"timezone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MemoryRecord is an AI-memory document (conversation summary, extracted
// insight, or suggested action) stored in MongoDB.
type MemoryRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"`
	Kind      string             `bson:"kind" json:"kind"` // "conversation", "insight", "action"
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}

// Memory record kinds stored in the memories collection.
const (
	MemoryConversation = "conversation"
	MemoryInsight      = "insight"
	MemoryAction       = "action"
)

// ContentNote is a free-form note document stored in MongoDB.
type ContentNote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Body      string             `bson:"body" json:"body"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}

// TaskSummary is the task slice of a unified context.
type TaskSummary struct {
	Active         []Task  `json:"active"`
	Completed      []Task  `json:"completed"`
	HighPriority   []Task  `json:"high_priority"`
	Overdue        []Task  `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"` // 0-1 over the fetch window
}

// HabitSummary is the habit slice of a unified context.
type HabitSummary struct {
	Active         []Habit                 `json:"active"`
	RecentEntries  map[string][]HabitEntry `json:"recent_entries"` // habit ID -> entries, newest first
	Streaks        map[string]StreakResult `json:"streaks"`        // habit ID -> streaks
	CompletionRate float64                 `json:"completion_rate"`
}

// HealthSummary is the health slice of a unified context.
type HealthSummary struct {
	Recent        []HealthMetric `json:"recent"`
	AvgSleepHours float64        `json:"avg_sleep_hours"`
	AvgMood       float64        `json:"avg_mood"`
	AvgEnergy     float64        `json:"avg_energy"`
	AvgStress     float64        `json:"avg_stress"`
}

// FinanceSummary is the finance slice of a unified context.
type FinanceSummary struct {
	RecentExpenses []FinanceMetric `json:"recent_expenses"`
	RecentIncome   []FinanceMetric `json:"recent_income"`
	TotalSpend30d  float64         `json:"total_spend_30d"`
}

// MemorySummary is the AI-memory slice of a unified context.
type MemorySummary struct {
	Conversations []MemoryRecord `json:"conversations"`
	Insights      []MemoryRecord `json:"insights"`
	Actions       []MemoryRecord `json:"actions"`
}

// Activity level tiers reported in PerformanceStats.
const (
	ActivityHigh     = "high"
	ActivityModerate = "moderate"
	ActivityLow      = "low"
)

// PerformanceStats are derived figures computed once per aggregation pass,
// always from the same fetch batch as the rest of the context.
type PerformanceStats struct {
	DataCompleteness float64 `json:"data_completeness"` // 0-100, share of domains with data
	ActivityLevel    string  `json:"activity_level"`
	ConsistencyScore float64 `json:"consistency_score"` // 0-100
}

// UnifiedUserContext is a per-user aggregate snapshot assembled from every
// data domain in a single fan-out pass. It lives in the context cache for the
// configured TTL and is discarded on expiry or explicit invalidation.
type UnifiedUserContext struct {
	UserID      string    `json:"user_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Profile Profile        `json:"profile"`
	Tasks   TaskSummary    `json:"tasks"`
	Habits  HabitSummary   `json:"habits"`
	Health  HealthSummary  `json:"health"`
	Finance FinanceSummary `json:"finance"`
	Memory  MemorySummary  `json:"memory"`
	Notes   []ContentNote  `json:"notes"`

	Performance PerformanceStats `json:"performance_stats"`

	// DegradedDomains lists domains whose read failed and fell back to the
	// empty default shape during this aggregation pass.
	DegradedDomains []string `json:"degraded_domains,omitempty"`
}
