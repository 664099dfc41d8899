package services

import (
	"testing"
	"time"

	"lifeboard/internal/models"
)

func TestBuildLifeDataPointsWindowAndDefaults(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	uctx := &models.UnifiedUserContext{UserID: "u1"}

	points := buildLifeDataPointsAt(uctx, 30, now)
	if len(points) != 30 {
		t.Fatalf("got %d points, want 30", len(points))
	}

	first := points[0]
	last := points[len(points)-1]
	if !first.Date.Equal(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first date = %v, want 2026-02-14", first.Date)
	}
	if !last.Date.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last date = %v, want 2026-03-15", last.Date)
	}

	// Every unlogged day carries the neutral defaults
	for _, p := range points {
		if p.Mood != defaultMood || p.Energy != defaultEnergy ||
			p.SleepHours != defaultSleepHours || p.Stress != defaultStress {
			t.Fatalf("day %v missing neutral defaults: %+v", p.Date, p)
		}
		if p.Expenses != 0 {
			t.Fatalf("day %v has expenses %v, want 0", p.Date, p.Expenses)
		}
	}
}

func TestBuildLifeDataPointsMergesSignals(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	completed := day.Add(14 * time.Hour)

	uctx := &models.UnifiedUserContext{
		UserID: "u1",
		Tasks: models.TaskSummary{
			Completed: []models.Task{
				{ID: "t1", Status: models.TaskStatusCompleted, CompletedAt: &completed},
			},
		},
		Habits: models.HabitSummary{
			Active: []models.Habit{{ID: "h1", Name: "run"}},
			RecentEntries: map[string][]models.HabitEntry{
				"h1": {
					{HabitID: "h1", LoggedDate: day, Value: models.OutcomeSuccess, CreatedAt: day},
				},
			},
		},
		Health: models.HealthSummary{
			Recent: []models.HealthMetric{
				{Kind: models.MetricSleep, RecordedDate: day, Value: 6.5},
				{Kind: models.MetricMood, RecordedDate: day, Value: 4},
				{Kind: models.MetricStress, RecordedDate: day, Value: 8},
			},
		},
		Finance: models.FinanceSummary{
			RecentExpenses: []models.FinanceMetric{
				{Kind: models.FinanceExpense, RecordedDate: day, Amount: 30},
				{Kind: models.FinanceExpense, RecordedDate: day.Add(2 * time.Hour), Amount: 12.5},
			},
		},
	}

	points := buildLifeDataPointsAt(uctx, 10, now)

	var got *models.LifeDataPoint
	for i := range points {
		if points[i].Date.Equal(day) {
			got = &points[i]
		}
	}
	if got == nil {
		t.Fatal("logged day missing from window")
	}

	if got.SleepHours != 6.5 {
		t.Errorf("SleepHours = %v, want 6.5", got.SleepHours)
	}
	if got.Mood != 4 {
		t.Errorf("Mood = %v, want 4", got.Mood)
	}
	if got.Stress != 8 {
		t.Errorf("Stress = %v, want 8", got.Stress)
	}
	if got.Energy != defaultEnergy {
		t.Errorf("Energy = %v, want default %v", got.Energy, defaultEnergy)
	}
	if got.Expenses != 42.5 {
		t.Errorf("Expenses = %v, want 42.5 (summed per day)", got.Expenses)
	}
	if got.Habits["run"] != 1 {
		t.Errorf("Habits[run] = %v, want 1", got.Habits["run"])
	}

	// One completed task plus mood 4, energy 3: 1.5 + (4+3)/4 = 3.25
	if got.Productivity != 3.25 {
		t.Errorf("Productivity = %v, want 3.25", got.Productivity)
	}
}

func TestBuildLifeDataPointsIgnoresUnknownHabits(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	uctx := &models.UnifiedUserContext{
		UserID: "u1",
		Habits: models.HabitSummary{
			// Entries for a habit that is no longer active: no name to map to
			RecentEntries: map[string][]models.HabitEntry{
				"ghost": {
					{HabitID: "ghost", LoggedDate: day, Value: models.OutcomeSuccess, CreatedAt: day},
				},
			},
		},
	}

	points := buildLifeDataPointsAt(uctx, 5, now)
	for _, p := range points {
		if len(p.Habits) != 0 {
			t.Fatalf("day %v carries habit values for an unknown habit: %v", p.Date, p.Habits)
		}
	}
}

func TestDeriveProductivityClamped(t *testing.T) {
	tests := []struct {
		completed    int
		mood, energy float64
		want         float64
	}{
		{0, 3, 3, 1.5},
		{1, 3, 3, 3},
		{10, 5, 5, 5}, // clamped at 5
		{0, 1, 1, 0.5},
	}
	for _, tt := range tests {
		got := deriveProductivity(tt.completed, tt.mood, tt.energy)
		if got != tt.want {
			t.Errorf("deriveProductivity(%d, %v, %v) = %v, want %v",
				tt.completed, tt.mood, tt.energy, got, tt.want)
		}
	}
}

func TestBuildLifeDataPointsNilContext(t *testing.T) {
	if points := BuildLifeDataPoints(nil, 30); points != nil {
		t.Errorf("got %d points for nil context, want none", len(points))
	}
}
