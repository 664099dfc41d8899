package services

import (
	"time"

	"lifeboard/internal/models"
)

// Imputation defaults for days with no logged signal. These are deliberate
// neutral values, not absence markers: every date in the window gets a
// complete point.
const (
	defaultMood       = 3.0 // midpoint of 1-5
	defaultEnergy     = 3.0
	defaultSleepHours = 7.0
	defaultStress     = 3.0
)

// BuildLifeDataPoints reshapes a unified context into one LifeDataPoint per
// calendar date over the trailing window, oldest first. Missing signals are
// backfilled with the neutral defaults above.
func BuildLifeDataPoints(uctx *models.UnifiedUserContext, days int) []models.LifeDataPoint {
	return buildLifeDataPointsAt(uctx, days, time.Now())
}

func buildLifeDataPointsAt(uctx *models.UnifiedUserContext, days int, now time.Time) []models.LifeDataPoint {
	if uctx == nil || days <= 0 {
		return nil
	}

	today := dateOnly(now)
	start := today.AddDate(0, 0, -(days - 1))

	habitNames := make(map[string]string, len(uctx.Habits.Active))
	for _, h := range uctx.Habits.Active {
		habitNames[h.ID] = h.Name
	}

	// habit name -> date -> value, last write wins per date
	habitValues := make(map[string]map[time.Time]float64)
	for habitID, entries := range uctx.Habits.RecentEntries {
		name, ok := habitNames[habitID]
		if !ok {
			continue
		}
		byDay := dedupeByDay(entries)
		values := make(map[time.Time]float64, len(byDay))
		for day, outcome := range byDay {
			values[day] = float64(outcome)
		}
		habitValues[name] = values
	}

	type healthDay struct {
		mood, energy, sleep, stress *float64
	}
	health := make(map[time.Time]*healthDay)
	healthFor := func(day time.Time) *healthDay {
		hd, ok := health[day]
		if !ok {
			hd = &healthDay{}
			health[day] = hd
		}
		return hd
	}
	for _, m := range uctx.Health.Recent {
		day := dateOnly(m.RecordedDate)
		v := m.Value
		switch m.Kind {
		case models.MetricMood:
			healthFor(day).mood = &v
		case models.MetricEnergy:
			healthFor(day).energy = &v
		case models.MetricSleep:
			healthFor(day).sleep = &v
		case models.MetricStress:
			healthFor(day).stress = &v
		}
	}

	expenses := make(map[time.Time]float64)
	for _, m := range uctx.Finance.RecentExpenses {
		if m.Kind == models.FinanceExpense {
			expenses[dateOnly(m.RecordedDate)] += m.Amount
		}
	}

	completions := make(map[time.Time]int)
	for _, t := range uctx.Tasks.Completed {
		if t.CompletedAt != nil {
			completions[dateOnly(*t.CompletedAt)]++
		}
	}

	points := make([]models.LifeDataPoint, 0, days)
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		point := models.LifeDataPoint{
			Date:       day,
			Habits:     make(map[string]float64),
			Mood:       defaultMood,
			Energy:     defaultEnergy,
			SleepHours: defaultSleepHours,
			Stress:     defaultStress,
			Expenses:   expenses[day],
		}

		if hd, ok := health[day]; ok {
			if hd.mood != nil {
				point.Mood = *hd.mood
			}
			if hd.energy != nil {
				point.Energy = *hd.energy
			}
			if hd.sleep != nil {
				point.SleepHours = *hd.sleep
			}
			if hd.stress != nil {
				point.Stress = *hd.stress
			}
		}

		for name, values := range habitValues {
			if v, ok := values[day]; ok {
				point.Habits[name] = v
			}
		}

		point.Productivity = deriveProductivity(completions[day], point.Mood, point.Energy)
		points = append(points, point)
	}

	return points
}

// deriveProductivity folds task throughput and self-reported state into a
// single 0-5 score: each completed task is worth 1.5, shifted by how far
// mood/energy sit from their midpoints.
func deriveProductivity(completedTasks int, mood, energy float64) float64 {
	score := 1.5*float64(completedTasks) + (mood+energy)/4
	if score < 0 {
		return 0
	}
	if score > 5 {
		return 5
	}
	return score
}
