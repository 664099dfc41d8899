package services

import (
	"sort"
	"time"

	"lifeboard/internal/models"
)

// streakHorizonDays bounds the backward scan for the current streak. Best
// streak scans the full history.
const streakHorizonDays = 100

// CalculateStreak computes the current and best consecutive-success runs for
// one habit from its logged entries (any order).
//
// Day semantics: success and partial extend a streak; skip never breaks one
// and counts toward the run once a streak is active (or on day zero); fail
// ends the current streak; a missing day ends only an already-active streak,
// so a leading gap of unlogged days before the first entry is ignored.
// Duplicate entries for the same date resolve last-write-wins.
func CalculateStreak(entries []models.HabitEntry) models.StreakResult {
	return calculateStreakAt(entries, time.Now())
}

func calculateStreakAt(entries []models.HabitEntry, now time.Time) models.StreakResult {
	if len(entries) == 0 {
		return models.StreakResult{}
	}

	byDay := dedupeByDay(entries)
	today := dateOnly(now)

	current := 0
	active := false
scan:
	for i := 0; i < streakHorizonDays; i++ {
		day := today.AddDate(0, 0, -i)
		outcome, logged := byDay[day]
		if !logged {
			if active {
				break
			}
			continue // leading gap, no streak started yet
		}

		switch {
		case outcome.CountsAsSuccess():
			current++
			active = true
		case outcome == models.OutcomeSkip:
			if active || i == 0 {
				current++
				active = true
			}
		default: // fail
			break scan
		}
	}

	best := bestRun(byDay)
	if best < current {
		best = current
	}

	return models.StreakResult{CurrentStreak: current, BestStreak: best}
}

// bestRun finds the longest run of consecutive success/skip days anywhere in
// the logged history. A calendar gap between logged days breaks a run.
func bestRun(byDay map[time.Time]models.DayOutcome) int {
	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sortDays(days)

	best, run := 0, 0
	var prev time.Time
	for _, day := range days {
		outcome := byDay[day]
		if outcome == models.OutcomeFail {
			run = 0
			prev = day
			continue
		}
		if run > 0 && day.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		prev = day
		if run > best {
			best = run
		}
	}
	return best
}

// dedupeByDay collapses entries to one outcome per calendar date.
// Last write wins: the entry with the latest CreatedAt, falling back to the
// later position in the input when timestamps tie.
func dedupeByDay(entries []models.HabitEntry) map[time.Time]models.DayOutcome {
	type pick struct {
		createdAt time.Time
		idx       int
	}

	byDay := make(map[time.Time]models.DayOutcome, len(entries))
	picks := make(map[time.Time]pick, len(entries))

	for i, e := range entries {
		day := dateOnly(e.LoggedDate)
		p, seen := picks[day]
		if seen && (e.CreatedAt.Before(p.createdAt) || (e.CreatedAt.Equal(p.createdAt) && i < p.idx)) {
			continue
		}
		picks[day] = pick{createdAt: e.CreatedAt, idx: i}
		byDay[day] = e.Value
	}
	return byDay
}

// dateOnly normalizes a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sortDays(days []time.Time) {
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
}
