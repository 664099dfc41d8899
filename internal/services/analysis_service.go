package services

import (
	"context"
	"fmt"
	"time"

	"lifeboard/internal/models"

	"github.com/sirupsen/logrus"
)

// analysisWindowDays is the trailing window reshaped into daily points
// before pattern analysis.
const analysisWindowDays = 60

// AnalysisService runs the statistical pattern engine over a user's unified
// context. It owns no state beyond its collaborators; every call re-reads
// through the aggregator so analysis always sees cache-fresh data.
type AnalysisService struct {
	aggregator *ContextAggregator
	metrics    *Metrics
	log        *logrus.Entry
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(aggregator *ContextAggregator, metrics *Metrics) *AnalysisService {
	return &AnalysisService{
		aggregator: aggregator,
		metrics:    metrics,
		log:        logrus.WithField("component", "analysis"),
	}
}

// AnalyzeUser builds the daily point series for a user and runs the full
// pattern analysis over it.
func (s *AnalysisService) AnalyzeUser(ctx context.Context, userID string) (*models.AnalysisResult, error) {
	started := time.Now()

	uctx, err := s.aggregator.GetContext(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load context for analysis: %w", err)
	}

	points := BuildLifeDataPoints(uctx, analysisWindowDays)
	result := AnalyzeLifePatterns(points)

	s.metrics.RecordAnalysis(time.Since(started).Seconds())
	s.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"points":       result.PointCount,
		"patterns":     len(result.Patterns),
		"predictions":  len(result.Predictions),
		"risky_trends": len(result.RiskyTrends),
	}).Info("analysis completed")

	return result, nil
}

// StreaksForUser returns the streak state for one habit, computed from the
// cached context's recent entries.
func (s *AnalysisService) StreaksForUser(ctx context.Context, userID, habitID string) (models.StreakResult, error) {
	uctx, err := s.aggregator.GetContext(ctx, userID, false)
	if err != nil {
		return models.StreakResult{}, fmt.Errorf("failed to load context for streaks: %w", err)
	}

	if streak, ok := uctx.Habits.Streaks[habitID]; ok {
		return streak, nil
	}
	return models.StreakResult{}, fmt.Errorf("habit %s not found for user %s", habitID, userID)
}
