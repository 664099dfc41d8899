package services

import (
	"bytes"
	"context"
	"fmt"

	"lifeboard/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExportService renders a user's aggregated data as an xlsx workbook with
// one sheet per domain plus the daily point series used by analysis.
type ExportService struct {
	aggregator *ContextAggregator
}

// NewExportService creates a new export service.
func NewExportService(aggregator *ContextAggregator) *ExportService {
	return &ExportService{aggregator: aggregator}
}

// BuildWorkbook assembles the export workbook for a user and returns the
// serialized xlsx bytes.
func (s *ExportService) BuildWorkbook(ctx context.Context, userID string) ([]byte, error) {
	uctx, err := s.aggregator.GetContext(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load context for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeOverview(f, uctx); err != nil {
		return nil, err
	}
	if err := s.writeHabits(f, uctx); err != nil {
		return nil, err
	}
	if err := s.writeHealth(f, uctx); err != nil {
		return nil, err
	}
	if err := s.writeFinance(f, uctx); err != nil {
		return nil, err
	}
	if err := s.writeDailyPoints(f, uctx); err != nil {
		return nil, err
	}

	// Drop the default sheet so Overview is first
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to finalize workbook: %w", err)
	}
	if idx, err := f.GetSheetIndex("Overview"); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func (s *ExportService) writeOverview(f *excelize.File, uctx *models.UnifiedUserContext) error {
	const sheet = "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"User ID", uctx.UserID},
		{"Generated At", uctx.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Data Completeness %", uctx.Performance.DataCompleteness},
		{"Activity Level", uctx.Performance.ActivityLevel},
		{"Consistency Score", uctx.Performance.ConsistencyScore},
		{"Active Tasks", len(uctx.Tasks.Active)},
		{"Completed Tasks", len(uctx.Tasks.Completed)},
		{"Task Completion Rate", uctx.Tasks.CompletionRate},
		{"Active Habits", len(uctx.Habits.Active)},
		{"Habit Completion Rate", uctx.Habits.CompletionRate},
		{"Avg Sleep Hours", uctx.Health.AvgSleepHours},
		{"Avg Mood", uctx.Health.AvgMood},
		{"Avg Stress", uctx.Health.AvgStress},
		{"Spend Last 30d", uctx.Finance.TotalSpend30d},
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeHabits(f *excelize.File, uctx *models.UnifiedUserContext) error {
	const sheet = "Habits"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := writeRow(f, sheet, 1, []interface{}{"Habit", "Date", "Outcome", "Current Streak", "Best Streak"}); err != nil {
		return err
	}

	row := 2
	for _, habit := range uctx.Habits.Active {
		streak := uctx.Habits.Streaks[habit.ID]
		for _, entry := range uctx.Habits.RecentEntries[habit.ID] {
			err := writeRow(f, sheet, row, []interface{}{
				habit.Name,
				entry.LoggedDate.Format("2006-01-02"),
				entry.Value.String(),
				streak.CurrentStreak,
				streak.BestStreak,
			})
			if err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (s *ExportService) writeHealth(f *excelize.File, uctx *models.UnifiedUserContext) error {
	const sheet = "Health"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := writeRow(f, sheet, 1, []interface{}{"Date", "Metric", "Value"}); err != nil {
		return err
	}
	for i, m := range uctx.Health.Recent {
		err := writeRow(f, sheet, i+2, []interface{}{
			m.RecordedDate.Format("2006-01-02"),
			m.Kind,
			m.Value,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeFinance(f *excelize.File, uctx *models.UnifiedUserContext) error {
	const sheet = "Finance"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := writeRow(f, sheet, 1, []interface{}{"Date", "Kind", "Category", "Amount"}); err != nil {
		return err
	}
	row := 2
	for _, m := range append(uctx.Finance.RecentExpenses, uctx.Finance.RecentIncome...) {
		err := writeRow(f, sheet, row, []interface{}{
			m.RecordedDate.Format("2006-01-02"),
			m.Kind,
			m.Category,
			m.Amount,
		})
		if err != nil {
			return err
		}
		row++
	}
	return nil
}

func (s *ExportService) writeDailyPoints(f *excelize.File, uctx *models.UnifiedUserContext) error {
	const sheet = "Daily Points"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := writeRow(f, sheet, 1, []interface{}{"Date", "Sleep", "Mood", "Energy", "Stress", "Productivity", "Expenses"}); err != nil {
		return err
	}
	points := BuildLifeDataPoints(uctx, analysisWindowDays)
	for i, p := range points {
		err := writeRow(f, sheet, i+2, []interface{}{
			p.Date.Format("2006-01-02"),
			p.SleepHours,
			p.Mood,
			p.Energy,
			p.Stress,
			p.Productivity,
			p.Expenses,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
