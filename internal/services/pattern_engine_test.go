package services

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"lifeboard/internal/models"
)

// makePoints builds an n-day series ending today with neutral defaults, then
// lets the caller adjust each day.
func makePoints(n int, adjust func(i int, p *models.LifeDataPoint)) []models.LifeDataPoint {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.LifeDataPoint, n)
	for i := range points {
		points[i] = models.LifeDataPoint{
			Date:         start.AddDate(0, 0, i),
			Habits:       map[string]float64{},
			Mood:         3,
			Energy:       3,
			SleepHours:   7,
			Stress:       3,
			Productivity: 2,
		}
		if adjust != nil {
			adjust(i, &points[i])
		}
	}
	return points
}

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}, 1},
		{"perfect negative", []float64{1, 2, 3, 4}, []float64{8, 6, 4, 2}, -1},
		{"too few samples", []float64{1, 2}, []float64{2, 4}, 0},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}, 0},
		{"zero variance", []float64{5, 5, 5, 5}, []float64{1, 2, 3, 4}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pearson(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("pearson = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyzeLifePatternsInsufficientData(t *testing.T) {
	points := makePoints(9, nil)
	result := AnalyzeLifePatterns(points)

	if len(result.Patterns) != 0 || len(result.Predictions) != 0 || len(result.RiskyTrends) != 0 {
		t.Error("no patterns, predictions or trends should be produced below the minimum")
	}
	if len(result.Optimizations) != 1 {
		t.Fatalf("got %d optimizations, want exactly 1", len(result.Optimizations))
	}

	opt := result.Optimizations[0]
	if opt.Type != models.OptimizationNeedMoreData {
		t.Errorf("optimization type = %q, want %q", opt.Type, models.OptimizationNeedMoreData)
	}
	// 14 required, 9 given: the message must name the exact shortfall
	if !strings.Contains(opt.Insight, "5 more days") {
		t.Errorf("insight should name the 5-day shortfall, got %q", opt.Insight)
	}
	if result.PointCount != 9 {
		t.Errorf("PointCount = %d, want 9", result.PointCount)
	}
}

func TestAnalyzeLifePatternsEmptyInput(t *testing.T) {
	result := AnalyzeLifePatterns(nil)
	if result.PointCount != 0 {
		t.Errorf("PointCount = %d, want 0", result.PointCount)
	}
	if len(result.Optimizations) != 1 {
		t.Fatalf("got %d optimizations, want 1", len(result.Optimizations))
	}
	if !strings.Contains(result.Optimizations[0].Insight, "14 more days") {
		t.Errorf("insight should ask for 14 more days, got %q", result.Optimizations[0].Insight)
	}
}

func TestSleepProductivityCorrelation(t *testing.T) {
	// Sleep and productivity move in lockstep; every weekday bucket sees the
	// same mix so no weekly rhythm fires.
	points := makePoints(28, func(i int, p *models.LifeDataPoint) {
		p.SleepHours = 6 + float64(i%2)*2
		p.Productivity = 1 + float64(i%2)*2
	})

	result := AnalyzeLifePatterns(points)

	var found *models.Pattern
	for i := range result.Patterns {
		if result.Patterns[i].Type == models.PatternSleepProductivity {
			found = &result.Patterns[i]
		}
		if result.Patterns[i].Type == models.PatternWeeklyRhythm {
			t.Error("uniform weekday mix should not produce a weekly rhythm pattern")
		}
	}
	if found == nil {
		t.Fatal("expected a sleep/productivity pattern")
	}
	if found.Strength < sleepProductivityThreshold {
		t.Errorf("Strength = %v, want above %v", found.Strength, sleepProductivityThreshold)
	}
}

func TestWeakCorrelationIgnored(t *testing.T) {
	// Constant series on every axis: all correlations are exactly 0
	points := makePoints(28, nil)
	result := AnalyzeLifePatterns(points)
	for _, p := range result.Patterns {
		if p.Type == models.PatternSleepProductivity || p.Type == models.PatternStressSpending {
			t.Errorf("unexpected correlation pattern %q on flat data", p.Type)
		}
	}
}

func TestHabitChainPattern(t *testing.T) {
	points := makePoints(28, func(i int, p *models.LifeDataPoint) {
		if i%2 == 0 {
			p.Habits["meditate"] = 1
			p.Habits["journal"] = 1
		}
	})

	result := AnalyzeLifePatterns(points)

	var chain *models.Pattern
	for i := range result.Patterns {
		if result.Patterns[i].Type == models.PatternHabitChain {
			chain = &result.Patterns[i]
		}
	}
	if chain == nil {
		t.Fatal("expected a habit chain pattern for perfectly co-occurring habits")
	}
	if chain.Strength <= habitChainThreshold {
		t.Errorf("Strength = %v, want above %v", chain.Strength, habitChainThreshold)
	}
	// The association is directionless: both habit names appear
	if !strings.Contains(chain.Insight, "meditate") || !strings.Contains(chain.Insight, "journal") {
		t.Errorf("insight should mention both habits, got %q", chain.Insight)
	}
}

func TestSleepTrendDecline(t *testing.T) {
	// Previous window averages 8h, recent window 7h: a 1h decline
	points := makePoints(28, func(i int, p *models.LifeDataPoint) {
		if i < 14 {
			p.SleepHours = 8
		} else {
			p.SleepHours = 7
		}
	})

	result := AnalyzeLifePatterns(points)
	if len(result.RiskyTrends) != 1 {
		t.Fatalf("got %d risky trends, want 1", len(result.RiskyTrends))
	}

	trend := result.RiskyTrends[0]
	if trend.Type != models.TrendDecliningSleep {
		t.Errorf("trend type = %q, want %q", trend.Type, models.TrendDecliningSleep)
	}
	if math.Abs(trend.Delta-(-1)) > 1e-9 {
		t.Errorf("Delta = %v, want -1", trend.Delta)
	}
}

func TestSleepTrendBelowThresholdIgnored(t *testing.T) {
	// A 0.4h decline stays under the 0.5h threshold
	points := makePoints(28, func(i int, p *models.LifeDataPoint) {
		if i < 14 {
			p.SleepHours = 7.4
		} else {
			p.SleepHours = 7
		}
	})
	result := AnalyzeLifePatterns(points)
	if len(result.RiskyTrends) != 0 {
		t.Errorf("got %d risky trends, want 0", len(result.RiskyTrends))
	}
}

func TestSleepTrendNeedsFullWindows(t *testing.T) {
	// 20 points: recent window has 14 but previous only 6 (< 7 minimum)
	points := makePoints(20, func(i int, p *models.LifeDataPoint) {
		if i < 6 {
			p.SleepHours = 9
		} else {
			p.SleepHours = 6
		}
	})
	result := AnalyzeLifePatterns(points)
	if len(result.RiskyTrends) != 0 {
		t.Errorf("got %d risky trends, want 0 with a short previous window", len(result.RiskyTrends))
	}
}

func TestLowSleepPrediction(t *testing.T) {
	points := makePoints(14, func(i int, p *models.LifeDataPoint) {
		if i == 13 {
			p.SleepHours = 5
		}
	})

	result := AnalyzeLifePatterns(points)

	var dip *models.Prediction
	for i := range result.Predictions {
		if result.Predictions[i].Type == models.PredictionProductivityDip {
			dip = &result.Predictions[i]
		}
	}
	if dip == nil {
		t.Fatal("expected a productivity dip prediction for 5h sleep")
	}
	if dip.Confidence != lowSleepConfidence {
		t.Errorf("Confidence = %v, want %v", dip.Confidence, lowSleepConfidence)
	}
}

func TestHighStressSpendingPrediction(t *testing.T) {
	points := makePoints(14, func(i int, p *models.LifeDataPoint) {
		if i >= 7 {
			p.Stress = 7
		}
	})

	result := AnalyzeLifePatterns(points)

	var spike *models.Prediction
	for i := range result.Predictions {
		if result.Predictions[i].Type == models.PredictionSpendingSpike {
			spike = &result.Predictions[i]
		}
	}
	if spike == nil {
		t.Fatal("expected a spending spike prediction for sustained high stress")
	}
	if spike.Confidence != highStressConfidence {
		t.Errorf("Confidence = %v, want %v", spike.Confidence, highStressConfidence)
	}
	if !strings.Contains(spike.Insight, "1.4x") {
		t.Errorf("insight should mention the 1.4x multiplier, got %q", spike.Insight)
	}
}

func TestSleepOptimizationFromStrongPattern(t *testing.T) {
	points := makePoints(28, func(i int, p *models.LifeDataPoint) {
		p.SleepHours = 6 + float64(i%2)*2
		p.Productivity = 1 + float64(i%2)*2
	})

	result := AnalyzeLifePatterns(points)

	var opt *models.Optimization
	for i := range result.Optimizations {
		if result.Optimizations[i].Type == models.OptimizationSleepTarget {
			opt = &result.Optimizations[i]
		}
	}
	if opt == nil {
		t.Fatal("expected a sleep target optimization for a strong sleep pattern")
	}
	if opt.Priority != 3 {
		t.Errorf("Priority = %d, want 3", opt.Priority)
	}
	// r=1 so the estimated gain is strength * 30
	if math.Abs(opt.EstimatedGain-30) > 1e-6 {
		t.Errorf("EstimatedGain = %v, want 30", opt.EstimatedGain)
	}
}

func TestAnalyzeLifePatternsIsDeterministic(t *testing.T) {
	points := makePoints(28, func(i int, p *models.LifeDataPoint) {
		p.SleepHours = 5 + float64(i%3)
		p.Productivity = float64(i % 4)
		p.Stress = float64(i % 8)
		p.Expenses = float64(i%5) * 20
		if i%2 == 0 {
			p.Habits["run"] = 1
			p.Habits["stretch"] = 1
		}
	})

	first := AnalyzeLifePatterns(points)
	second := AnalyzeLifePatterns(points)

	if !reflect.DeepEqual(first.Patterns, second.Patterns) {
		t.Error("patterns differ between identical runs")
	}
	if !reflect.DeepEqual(first.Predictions, second.Predictions) {
		t.Error("predictions differ between identical runs")
	}
	if !reflect.DeepEqual(first.Optimizations, second.Optimizations) {
		t.Error("optimizations differ between identical runs")
	}
	if !reflect.DeepEqual(first.RiskyTrends, second.RiskyTrends) {
		t.Error("risky trends differ between identical runs")
	}
}
