package services

import (
	"testing"
	"time"

	"lifeboard/internal/models"
)

var streakNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

// entry builds a habit entry logged daysAgo days before streakNow.
func entry(daysAgo int, outcome models.DayOutcome) models.HabitEntry {
	logged := streakNow.AddDate(0, 0, -daysAgo)
	return models.HabitEntry{
		ID:         "e",
		HabitID:    "h1",
		UserID:     "u1",
		LoggedDate: logged,
		Value:      outcome,
		CreatedAt:  logged,
	}
}

func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name        string
		entries     []models.HabitEntry
		wantCurrent int
		wantBest    int
	}{
		{
			name:        "no entries",
			entries:     nil,
			wantCurrent: 0,
			wantBest:    0,
		},
		{
			name: "fail breaks current streak",
			entries: []models.HabitEntry{
				entry(0, models.OutcomeSuccess),
				entry(1, models.OutcomeSuccess),
				entry(2, models.OutcomeFail),
				entry(3, models.OutcomeSuccess),
			},
			wantCurrent: 2,
			wantBest:    2,
		},
		{
			name: "skip does not break a streak",
			entries: []models.HabitEntry{
				entry(0, models.OutcomeSuccess),
				entry(1, models.OutcomeSkip),
				entry(2, models.OutcomeSuccess),
				entry(3, models.OutcomeSuccess),
			},
			wantCurrent: 4,
			wantBest:    4,
		},
		{
			name: "partial counts as success",
			entries: []models.HabitEntry{
				entry(0, models.OutcomePartial),
				entry(1, models.OutcomePartial),
			},
			wantCurrent: 2,
			wantBest:    2,
		},
		{
			name: "fail today zeroes current",
			entries: []models.HabitEntry{
				entry(0, models.OutcomeFail),
				entry(1, models.OutcomeSuccess),
				entry(2, models.OutcomeSuccess),
			},
			wantCurrent: 0,
			wantBest:    2,
		},
		{
			name: "leading unlogged gap is ignored",
			entries: []models.HabitEntry{
				entry(3, models.OutcomeSuccess),
				entry(4, models.OutcomeSuccess),
			},
			wantCurrent: 2,
			wantBest:    2,
		},
		{
			name: "gap inside an active streak breaks it",
			entries: []models.HabitEntry{
				entry(0, models.OutcomeSuccess),
				entry(1, models.OutcomeSuccess),
				entry(3, models.OutcomeSuccess),
				entry(4, models.OutcomeSuccess),
				entry(5, models.OutcomeSuccess),
			},
			wantCurrent: 2,
			wantBest:    3,
		},
		{
			name: "best streak found in history",
			entries: []models.HabitEntry{
				entry(0, models.OutcomeSuccess),
				entry(2, models.OutcomeSuccess),
				entry(3, models.OutcomeSuccess),
				entry(4, models.OutcomeSuccess),
				entry(5, models.OutcomeSuccess),
			},
			wantCurrent: 1,
			wantBest:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateStreakAt(tt.entries, streakNow)
			if got.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tt.wantCurrent)
			}
			if got.BestStreak != tt.wantBest {
				t.Errorf("BestStreak = %d, want %d", got.BestStreak, tt.wantBest)
			}
		})
	}
}

func TestCalculateStreakDuplicateDates(t *testing.T) {
	first := entry(0, models.OutcomeSuccess)
	first.CreatedAt = streakNow.Add(-2 * time.Hour)

	// Correction logged later the same day flips the outcome to fail
	second := entry(0, models.OutcomeFail)
	second.CreatedAt = streakNow.Add(-1 * time.Hour)

	got := calculateStreakAt([]models.HabitEntry{first, second}, streakNow)
	if got.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0 (latest write should win)", got.CurrentStreak)
	}

	// Same timestamps: the later slice position wins
	second.CreatedAt = first.CreatedAt
	got = calculateStreakAt([]models.HabitEntry{first, second}, streakNow)
	if got.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0 (later position should win on tie)", got.CurrentStreak)
	}
}

func TestCalculateStreakBestNeverBelowCurrent(t *testing.T) {
	entries := []models.HabitEntry{
		entry(0, models.OutcomeSuccess),
		entry(1, models.OutcomeSkip),
		entry(2, models.OutcomeSuccess),
	}
	got := calculateStreakAt(entries, streakNow)
	if got.BestStreak < got.CurrentStreak {
		t.Errorf("BestStreak %d < CurrentStreak %d", got.BestStreak, got.CurrentStreak)
	}
}
