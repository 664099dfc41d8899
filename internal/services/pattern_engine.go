package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"lifeboard/internal/models"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// Analysis policy constants. Thresholds are product policy, not derived.
const (
	// MinPointsForAnalysis is the hard precondition for any pattern work.
	MinPointsForAnalysis = 14

	// Pearson correlation needs at least this many samples.
	minSamplesForCorrelation = 3

	sleepProductivityThreshold = 0.3
	stressSpendingThreshold    = 0.4
	habitChainThreshold        = 0.6

	weekdayMinSamples   = 3
	weekdayGapThreshold = 0.5

	trendWindowDays       = 14
	trendMinSamples       = 7
	sleepDeclineThreshold = 0.5 // hours

	lowSleepThreshold       = 6.0 // hours
	highStressThreshold     = 6.0 // 0-10 scale
	stressLookbackDays      = 7
	spendingSpikeMultiplier = 1.4

	lowSleepConfidence   = 0.85
	highStressConfidence = 0.72

	// Sleep patterns stronger than this get a sleep-target optimization with
	// an uplift estimate of strength*30 percent.
	sleepOptimizationStrength = 0.5
	productivityUpliftFactor  = 30.0
)

// insightNamespace seeds deterministic insight ids, so identical input
// series produce byte-identical analysis output.
var insightNamespace = uuid.MustParse("8f3c1a4e-52d7-4b0a-9a6e-7d4f2c91b5e3")

func insightID(kind, seed string) string {
	return uuid.NewSHA1(insightNamespace, []byte(kind+"/"+seed)).String()
}

// AnalyzeLifePatterns runs the full statistical pass over a daily point
// series (oldest first): pairwise correlations, weekday rhythm, habit
// chains, rolling trend deltas and threshold predictions. It is a pure
// function of its input; nothing is cached or mutated across calls.
func AnalyzeLifePatterns(points []models.LifeDataPoint) *models.AnalysisResult {
	result := &models.AnalysisResult{
		Patterns:      []models.Pattern{},
		Predictions:   []models.Prediction{},
		Optimizations: []models.Optimization{},
		RiskyTrends:   []models.RiskyTrend{},
		PointCount:    len(points),
		GeneratedAt:   time.Now().UTC(),
	}

	if len(points) < MinPointsForAnalysis {
		shortfall := MinPointsForAnalysis - len(points)
		result.Optimizations = append(result.Optimizations, models.Optimization{
			ID:   insightID(models.OptimizationNeedMoreData, fmt.Sprintf("%d", shortfall)),
			Type: models.OptimizationNeedMoreData,
			Insight: fmt.Sprintf(
				"Not enough history to analyze patterns yet: log %d more days of data to unlock insights.",
				shortfall),
			Priority:       3,
			Recommendation: "Keep logging habits, sleep and mood daily.",
		})
		return result
	}

	result.Patterns = append(result.Patterns, correlationPatterns(points)...)
	if weekly := weeklyPattern(points); weekly != nil {
		result.Patterns = append(result.Patterns, *weekly)
	}
	result.Patterns = append(result.Patterns, habitChainPatterns(points)...)

	result.RiskyTrends = sleepTrend(points)
	result.Predictions = heuristicPredictions(points)
	result.Optimizations = composeOptimizations(result.Patterns, points)

	return result
}

// pearson computes the Pearson correlation coefficient over two equal-length
// series. Degenerate inputs (fewer than three samples, mismatched lengths,
// zero variance) yield exactly 0 rather than an error.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < minSamplesForCorrelation {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	fn := float64(n)
	denom := math.Sqrt((fn*sumX2 - sumX*sumX) * (fn*sumY2 - sumY*sumY))
	if denom == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / denom
}

func mean(xs []float64) float64 {
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}

// correlationPatterns checks the two fixed signal pairs: sleep vs
// productivity and stress vs spending.
func correlationPatterns(points []models.LifeDataPoint) []models.Pattern {
	sleep := make([]float64, len(points))
	productivity := make([]float64, len(points))
	stress := make([]float64, len(points))
	expenses := make([]float64, len(points))
	for i, p := range points {
		sleep[i] = p.SleepHours
		productivity[i] = p.Productivity
		stress[i] = p.Stress
		expenses[i] = p.Expenses
	}

	var patterns []models.Pattern

	if r := pearson(sleep, productivity); math.Abs(r) > sleepProductivityThreshold {
		direction := "more"
		if r < 0 {
			direction = "less"
		}
		patterns = append(patterns, models.Pattern{
			ID:             insightID(models.PatternSleepProductivity, fmt.Sprintf("%.4f", r)),
			Type:           models.PatternSleepProductivity,
			Insight:        fmt.Sprintf("On days you sleep more you tend to be %s productive (r=%.2f).", direction, r),
			Strength:       math.Abs(r),
			Confidence:     math.Abs(r),
			Recommendation: "Protect your sleep window on nights before demanding days.",
		})
	}

	if r := pearson(stress, expenses); math.Abs(r) > stressSpendingThreshold {
		direction := "rises"
		if r < 0 {
			direction = "drops"
		}
		patterns = append(patterns, models.Pattern{
			ID:             insightID(models.PatternStressSpending, fmt.Sprintf("%.4f", r)),
			Type:           models.PatternStressSpending,
			Insight:        fmt.Sprintf("Your spending %s with stress (r=%.2f).", direction, r),
			Strength:       math.Abs(r),
			Confidence:     math.Abs(r),
			Recommendation: "Add a cooling-off step before purchases on high-stress days.",
		})
	}

	return patterns
}

// weeklyPattern buckets productivity by weekday and reports the single best
// vs worst day when the gap is meaningful. Buckets with fewer than three
// samples are skipped; ties are not reported.
func weeklyPattern(points []models.LifeDataPoint) *models.Pattern {
	buckets := make(map[time.Weekday][]float64)
	for _, p := range points {
		wd := p.Date.Weekday()
		buckets[wd] = append(buckets[wd], p.Productivity)
	}

	type weekdayAvg struct {
		day time.Weekday
		avg float64
	}
	var averages []weekdayAvg
	for wd, values := range buckets {
		if len(values) < weekdayMinSamples {
			continue
		}
		averages = append(averages, weekdayAvg{day: wd, avg: mean(values)})
	}
	if len(averages) < 2 {
		return nil
	}

	sort.Slice(averages, func(i, j int) bool {
		if averages[i].avg != averages[j].avg {
			return averages[i].avg > averages[j].avg
		}
		return averages[i].day < averages[j].day
	})

	best := averages[0]
	worst := averages[len(averages)-1]
	if best.avg-worst.avg <= weekdayGapThreshold {
		return nil
	}

	return &models.Pattern{
		ID:   insightID(models.PatternWeeklyRhythm, best.day.String()+"/"+worst.day.String()),
		Type: models.PatternWeeklyRhythm,
		Insight: fmt.Sprintf("%ss are your most productive days (%.1f/5); %ss are the hardest (%.1f/5).",
			best.day, best.avg, worst.day, worst.avg),
		Strength:       best.avg - worst.avg,
		Confidence:     0.6,
		Recommendation: fmt.Sprintf("Schedule demanding work on %ss and keep %ss light.", best.day, worst.day),
	}
}

// habitChainPatterns correlates every unordered pair of tracked habits.
// Chains are reported as directionless associations: the math supports
// co-occurrence, not precedence.
func habitChainPatterns(points []models.LifeDataPoint) []models.Pattern {
	nameSet := make(map[string]bool)
	for _, p := range points {
		for name := range p.Habits {
			nameSet[name] = true
		}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	series := make(map[string][]float64, len(names))
	for _, name := range names {
		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Habits[name] // absent days stay 0
		}
		series[name] = values
	}

	var patterns []models.Pattern
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			r := pearson(series[a], series[b])
			if r <= habitChainThreshold {
				continue
			}
			patterns = append(patterns, models.Pattern{
				ID:             insightID(models.PatternHabitChain, a+"/"+b),
				Type:           models.PatternHabitChain,
				Insight:        fmt.Sprintf("%q and %q tend to happen on the same days (r=%.2f).", a, b, r),
				Strength:       r,
				Confidence:     r,
				Recommendation: fmt.Sprintf("Stack %q and %q into one routine to reinforce both.", a, b),
			})
		}
	}
	return patterns
}

// sleepTrend compares the most recent 14-day sleep window against the
// preceding one. Both windows need at least seven points.
func sleepTrend(points []models.LifeDataPoint) []models.RiskyTrend {
	n := len(points)
	if n < trendWindowDays+trendMinSamples {
		return []models.RiskyTrend{}
	}

	recentStart := n - trendWindowDays
	prevStart := n - 2*trendWindowDays
	if prevStart < 0 {
		prevStart = 0
	}

	recent := make([]float64, 0, trendWindowDays)
	for _, p := range points[recentStart:] {
		recent = append(recent, p.SleepHours)
	}
	previous := make([]float64, 0, trendWindowDays)
	for _, p := range points[prevStart:recentStart] {
		previous = append(previous, p.SleepHours)
	}

	if len(recent) < trendMinSamples || len(previous) < trendMinSamples {
		return []models.RiskyTrend{}
	}

	recentMean := mean(recent)
	prevMean := mean(previous)
	delta := recentMean - prevMean
	if prevMean-recentMean <= sleepDeclineThreshold {
		return []models.RiskyTrend{}
	}

	return []models.RiskyTrend{{
		ID:   insightID(models.TrendDecliningSleep, fmt.Sprintf("%.4f", delta)),
		Type: models.TrendDecliningSleep,
		Insight: fmt.Sprintf("Your average sleep dropped from %.1fh to %.1fh over the last two weeks.",
			prevMean, recentMean),
		Delta:          delta,
		Confidence:     0.7,
		Recommendation: "Set a wind-down alarm and hold a consistent bedtime this week.",
	}}
}

// heuristicPredictions applies the fixed threshold rules over the most
// recent window. These are deterministic rules, not model fits.
func heuristicPredictions(points []models.LifeDataPoint) []models.Prediction {
	predictions := []models.Prediction{}
	latest := points[len(points)-1]

	if latest.SleepHours < lowSleepThreshold {
		predictions = append(predictions, models.Prediction{
			ID:   insightID(models.PredictionProductivityDip, fmt.Sprintf("%.2f", latest.SleepHours)),
			Type: models.PredictionProductivityDip,
			Insight: fmt.Sprintf("You slept %.1fh last night; expect lower productivity tomorrow.",
				latest.SleepHours),
			Confidence:     lowSleepConfidence,
			Recommendation: "Front-load light tasks tomorrow and avoid booking deep work.",
		})
	}

	lookback := stressLookbackDays
	if lookback > len(points) {
		lookback = len(points)
	}
	recentStress := make([]float64, 0, lookback)
	for _, p := range points[len(points)-lookback:] {
		recentStress = append(recentStress, p.Stress)
	}
	if avg := mean(recentStress); avg > highStressThreshold {
		predictions = append(predictions, models.Prediction{
			ID:   insightID(models.PredictionSpendingSpike, fmt.Sprintf("%.4f", avg)),
			Type: models.PredictionSpendingSpike,
			Insight: fmt.Sprintf(
				"Stress has averaged %.1f this week; your next purchase is likely to run about %.1fx your usual spend.",
				avg, spendingSpikeMultiplier),
			Confidence:     highStressConfidence,
			Recommendation: "Pause non-essential purchases until stress settles.",
		})
	}

	return predictions
}

// composeOptimizations folds the pattern list into prioritized suggestions.
// This step is purely derivative: it performs no statistics of its own.
func composeOptimizations(patterns []models.Pattern, points []models.LifeDataPoint) []models.Optimization {
	optimizations := []models.Optimization{}

	for _, p := range patterns {
		switch p.Type {
		case models.PatternSleepProductivity:
			if p.Strength <= sleepOptimizationStrength {
				continue
			}
			lookback := stressLookbackDays
			if lookback > len(points) {
				lookback = len(points)
			}
			recentSleep := make([]float64, 0, lookback)
			for _, pt := range points[len(points)-lookback:] {
				recentSleep = append(recentSleep, pt.SleepHours)
			}
			avgSleep := mean(recentSleep)
			uplift := p.Strength * productivityUpliftFactor
			optimizations = append(optimizations, models.Optimization{
				ID:   insightID(models.OptimizationSleepTarget, fmt.Sprintf("%.4f", p.Strength)),
				Type: models.OptimizationSleepTarget,
				Insight: fmt.Sprintf(
					"You average %.1fh of sleep over the last week; reaching 8h could lift productivity by roughly %.0f%%.",
					avgSleep, uplift),
				Priority:       3,
				EstimatedGain:  uplift,
				Recommendation: "Target an 8-hour sleep window for the next two weeks.",
			})

		case models.PatternWeeklyRhythm:
			optimizations = append(optimizations, models.Optimization{
				ID:             insightID("weekly_planning", p.ID),
				Type:           models.PatternWeeklyRhythm,
				Insight:        p.Insight,
				Priority:       2,
				Recommendation: p.Recommendation,
			})

		case models.PatternHabitChain:
			optimizations = append(optimizations, models.Optimization{
				ID:             insightID("habit_stacking", p.ID),
				Type:           models.PatternHabitChain,
				Insight:        p.Insight,
				Priority:       1,
				Recommendation: p.Recommendation,
			})
		}
	}

	return optimizations
}
