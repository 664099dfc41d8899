package models

import "time"

// Insight type labels shared by patterns, predictions and trends.
const (
	PatternSleepProductivity = "sleep_productivity"
	PatternStressSpending    = "stress_spending"
	PatternWeeklyRhythm      = "weekly_rhythm"
	PatternHabitChain        = "habit_chain"

	PredictionProductivityDip = "productivity_dip"
	PredictionSpendingSpike   = "spending_spike"

	TrendDecliningSleep = "declining_sleep"

	OptimizationNeedMoreData = "need_more_data"
	OptimizationSleepTarget  = "sleep_target"
)

// Pattern is a detected statistical relationship between two life signals.
type Pattern struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Insight        string  `json:"insight"`
	Strength       float64 `json:"strength"`   // |r| or score delta backing the claim
	Confidence     float64 `json:"confidence"` // 0-1
	Recommendation string  `json:"recommendation,omitempty"`
}

// Prediction is a forward-looking, low-confidence heuristic output.
type Prediction struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Insight        string  `json:"insight"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// Optimization is a prioritized, human-readable suggestion composed from the
// pattern list. It carries no independent statistics.
type Optimization struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Insight        string  `json:"insight"`
	Priority       int     `json:"priority"` // 1 (low) .. 3 (high)
	EstimatedGain  float64 `json:"estimated_gain,omitempty"` // percent
	Recommendation string  `json:"recommendation,omitempty"`
}

// RiskyTrend is a detected multi-week decline in a tracked signal.
type RiskyTrend struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Insight        string  `json:"insight"`
	Delta          float64 `json:"delta"` // recent window mean minus previous window mean
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// AnalysisResult is the transient output of one analysis pass. It is never
// persisted; every call recomputes it from the point series.
type AnalysisResult struct {
	Patterns      []Pattern      `json:"patterns"`
	Predictions   []Prediction   `json:"predictions"`
	Optimizations []Optimization `json:"optimizations"`
	RiskyTrends   []RiskyTrend   `json:"risky_trends"`

	PointCount  int       `json:"point_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Empty reports whether the analysis produced no findings at all.
func (r *AnalysisResult) Empty() bool {
	return len(r.Patterns) == 0 && len(r.Predictions) == 0 &&
		len(r.Optimizations) == 0 && len(r.RiskyTrends) == 0
}
