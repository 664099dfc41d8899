package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"lifeboard/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Fetch windows and limits for one aggregation pass.
const (
	habitEntryFetchLimit = 30 // most recent entries per habit
	taskFetchLimit       = 100
	memoryFetchLimit     = 20
	notesFetchLimit      = 20
	metricsLookbackDays  = 60

	// Per-habit entry reads run through a bounded gather: at most
	// maxHabitFanout in flight, paced by the entry rate limiter, so users
	// with hundreds of habits cannot burst the store.
	maxHabitFanout      = 5
	entryFetchRateLimit = 50 // reads per second
)

// Domain names used for degradation tracking and metrics labels.
const (
	domainProfile = "profile"
	domainTasks   = "tasks"
	domainHabits  = "habits"
	domainHealth  = "health"
	domainFinance = "finance"
	domainMemory  = "memory"
	domainNotes   = "notes"
)

// ErrStoreUnavailable is returned when every domain read failed in one pass,
// so callers can tell "no data yet" apart from "could not reach storage".
// The best-effort (empty) context is still returned alongside it.
var ErrStoreUnavailable = errors.New("life data store unreachable")

// LifeStore is the per-domain read surface the aggregator fans out over.
// Production uses LifeDataStore; tests inject fakes.
type LifeStore interface {
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	GetTasks(ctx context.Context, userID string, limit int) ([]models.Task, error)
	GetActiveHabits(ctx context.Context, userID string) ([]models.Habit, error)
	GetHabitEntries(ctx context.Context, userID, habitID string, limit int) ([]models.HabitEntry, error)
	GetHealthMetrics(ctx context.Context, userID string, since time.Time) ([]models.HealthMetric, error)
	GetFinanceMetrics(ctx context.Context, userID string, since time.Time) ([]models.FinanceMetric, error)
	GetMemoryRecords(ctx context.Context, userID string, limit int) ([]models.MemoryRecord, error)
	GetNotes(ctx context.Context, userID string, limit int) ([]models.ContentNote, error)
}

// ContextAggregator assembles UnifiedUserContext snapshots from the life
// data store and serves them through a TTL+LRU cache. Concurrent misses for
// the same user are collapsed into one aggregation pass via singleflight.
type ContextAggregator struct {
	store   LifeStore
	cache   *ContextCache
	metrics *Metrics
	log     *logrus.Entry

	flights      singleflight.Group
	entryLimiter *rate.Limiter
}

// NewContextAggregator creates a new aggregator. The cache is owned by the
// aggregator; metrics may be nil (disabled).
func NewContextAggregator(store LifeStore, cache *ContextCache, metrics *Metrics) *ContextAggregator {
	return &ContextAggregator{
		store:        store,
		cache:        cache,
		metrics:      metrics,
		log:          logrus.WithField("component", "aggregator"),
		entryLimiter: rate.NewLimiter(rate.Limit(entryFetchRateLimit), entryFetchRateLimit),
	}
}

// GetContext returns the unified snapshot for a user. A fresh cache entry is
// returned directly unless forceRefresh is set; otherwise all domains are
// re-read concurrently and the new snapshot is cached before returning.
func (a *ContextAggregator) GetContext(ctx context.Context, userID string, forceRefresh bool) (*models.UnifiedUserContext, error) {
	if !forceRefresh {
		if cached, ok := a.cache.Get(userID); ok {
			a.metrics.RecordCacheHit()
			return cached, nil
		}
	}
	a.metrics.RecordCacheMiss()

	// Collapse concurrent rebuilds for the same user into one pass.
	result, err, _ := a.flights.Do(userID, func() (interface{}, error) {
		return a.buildContext(ctx, userID)
	})
	uctx, _ := result.(*models.UnifiedUserContext)
	return uctx, err
}

// InvalidateUser removes one user's cached snapshot.
func (a *ContextAggregator) InvalidateUser(userID string) {
	a.cache.Delete(userID)
	a.log.WithField("user_id", userID).Debug("context invalidated")
}

// InvalidateAll clears the whole cache. Collaborators call this after writes
// that would make any cached snapshot stale.
func (a *ContextAggregator) InvalidateAll() {
	a.cache.Clear()
	a.log.Debug("context cache cleared")
}

// CacheStats returns the cache diagnostic snapshot.
func (a *ContextAggregator) CacheStats() CacheStats {
	return a.cache.Stats()
}

// domainResults carries the raw reads of one aggregation pass.
type domainResults struct {
	profile models.Profile
	tasks   []models.Task
	habits  []models.Habit
	health  []models.HealthMetric
	finance []models.FinanceMetric
	memory  []models.MemoryRecord
	notes   []models.ContentNote

	degraded []string
}

// buildContext performs one full aggregation pass: six concurrent domain
// reads, a bounded per-habit entry fan-out, then derived stats over the
// fully assembled batch. A failing domain degrades to its empty default; the
// pass only errors when every domain failed.
func (a *ContextAggregator) buildContext(ctx context.Context, userID string) (*models.UnifiedUserContext, error) {
	started := time.Now()
	since := started.AddDate(0, 0, -metricsLookbackDays)

	var results domainResults
	degradedCh := make(chan string, 7)

	degrade := func(domain string, err error) {
		a.log.WithFields(logrus.Fields{
			"user_id": userID,
			"domain":  domain,
		}).WithError(err).Warn("domain fetch failed, using empty default")
		a.metrics.RecordDomainFailure(domain)
		degradedCh <- domain
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := a.store.GetProfile(gctx, userID)
		if err != nil {
			degrade(domainProfile, err)
			results.profile = models.Profile{UserID: userID}
			return nil
		}
		results.profile = profile
		return nil
	})
	g.Go(func() error {
		tasks, err := a.store.GetTasks(gctx, userID, taskFetchLimit)
		if err != nil {
			degrade(domainTasks, err)
			return nil
		}
		results.tasks = tasks
		return nil
	})
	g.Go(func() error {
		habits, err := a.store.GetActiveHabits(gctx, userID)
		if err != nil {
			degrade(domainHabits, err)
			return nil
		}
		results.habits = habits
		return nil
	})
	g.Go(func() error {
		health, err := a.store.GetHealthMetrics(gctx, userID, since)
		if err != nil {
			degrade(domainHealth, err)
			return nil
		}
		results.health = health
		return nil
	})
	g.Go(func() error {
		finance, err := a.store.GetFinanceMetrics(gctx, userID, since)
		if err != nil {
			degrade(domainFinance, err)
			return nil
		}
		results.finance = finance
		return nil
	})
	g.Go(func() error {
		memory, err := a.store.GetMemoryRecords(gctx, userID, memoryFetchLimit)
		if err != nil {
			degrade(domainMemory, err)
			return nil
		}
		results.memory = memory
		return nil
	})
	g.Go(func() error {
		notes, err := a.store.GetNotes(gctx, userID, notesFetchLimit)
		if err != nil {
			degrade(domainNotes, err)
			return nil
		}
		results.notes = notes
		return nil
	})

	_ = g.Wait() // domain errors never propagate; they degrade
	close(degradedCh)
	for domain := range degradedCh {
		results.degraded = append(results.degraded, domain)
	}

	// Second fan-out: recent entries per active habit, bounded.
	entries := a.fetchHabitEntries(ctx, userID, results.habits)

	uctx := a.assemble(userID, &results, entries)

	a.metrics.RecordAggregation(time.Since(started).Seconds())

	// Six or more degraded domains means the relational store is down, with
	// at most the optional document reads left standing. Do not cache that.
	if len(results.degraded) >= 6 {
		a.log.WithField("user_id", userID).Error("all domain reads failed; store unreachable")
		return uctx, ErrStoreUnavailable
	}

	a.cache.Set(userID, uctx)
	return uctx, nil
}

// fetchHabitEntries gathers recent entries for each habit with a bounded
// worker group and rate pacing.
func (a *ContextAggregator) fetchHabitEntries(ctx context.Context, userID string, habits []models.Habit) map[string][]models.HabitEntry {
	entries := make(map[string][]models.HabitEntry, len(habits))
	if len(habits) == 0 {
		return entries
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxHabitFanout)

	for _, habit := range habits {
		habit := habit
		g.Go(func() error {
			if err := a.entryLimiter.Wait(gctx); err != nil {
				return nil
			}
			habitEntries, err := a.store.GetHabitEntries(gctx, userID, habit.ID, habitEntryFetchLimit)
			if err != nil {
				a.log.WithFields(logrus.Fields{
					"user_id":  userID,
					"habit_id": habit.ID,
				}).WithError(err).Warn("habit entry fetch failed")
				a.metrics.RecordDomainFailure(domainHabits)
				return nil
			}
			mu.Lock()
			entries[habit.ID] = habitEntries
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return entries
}

// assemble composes the final snapshot. Every derived figure here is
// computed from the single batch fetched above, never incrementally.
func (a *ContextAggregator) assemble(userID string, r *domainResults, entries map[string][]models.HabitEntry) *models.UnifiedUserContext {
	now := time.Now()

	uctx := &models.UnifiedUserContext{
		UserID:          userID,
		GeneratedAt:     now,
		Profile:         r.profile,
		Notes:           r.notes,
		DegradedDomains: r.degraded,
	}

	// Tasks
	tasks := models.TaskSummary{
		Active:       []models.Task{},
		Completed:    []models.Task{},
		HighPriority: []models.Task{},
		Overdue:      []models.Task{},
	}
	for _, t := range r.tasks {
		switch t.Status {
		case models.TaskStatusCompleted:
			tasks.Completed = append(tasks.Completed, t)
		default:
			tasks.Active = append(tasks.Active, t)
		}
		if t.IsHighPriority() {
			tasks.HighPriority = append(tasks.HighPriority, t)
		}
		if t.IsOverdue(now) {
			tasks.Overdue = append(tasks.Overdue, t)
		}
	}
	if total := len(tasks.Active) + len(tasks.Completed); total > 0 {
		tasks.CompletionRate = float64(len(tasks.Completed)) / float64(total)
	}
	uctx.Tasks = tasks

	// Habits
	habits := models.HabitSummary{
		Active:        r.habits,
		RecentEntries: entries,
		Streaks:       make(map[string]models.StreakResult, len(r.habits)),
	}
	successDays, loggedDays := 0, 0
	for _, h := range r.habits {
		habitEntries := entries[h.ID]
		habits.Streaks[h.ID] = CalculateStreak(habitEntries)
		for _, e := range habitEntries {
			loggedDays++
			if e.Value.CountsAsSuccess() {
				successDays++
			}
		}
	}
	if loggedDays > 0 {
		habits.CompletionRate = float64(successDays) / float64(loggedDays)
	}
	uctx.Habits = habits

	// Health
	health := models.HealthSummary{Recent: r.health}
	byKind := make(map[string][]float64)
	for _, m := range r.health {
		byKind[m.Kind] = append(byKind[m.Kind], m.Value)
	}
	health.AvgSleepHours = mean(byKind[models.MetricSleep])
	health.AvgMood = mean(byKind[models.MetricMood])
	health.AvgEnergy = mean(byKind[models.MetricEnergy])
	health.AvgStress = mean(byKind[models.MetricStress])
	uctx.Health = health

	// Finance
	finance := models.FinanceSummary{
		RecentExpenses: []models.FinanceMetric{},
		RecentIncome:   []models.FinanceMetric{},
	}
	spendCutoff := now.AddDate(0, 0, -30)
	for _, m := range r.finance {
		switch m.Kind {
		case models.FinanceIncome:
			finance.RecentIncome = append(finance.RecentIncome, m)
		default:
			finance.RecentExpenses = append(finance.RecentExpenses, m)
			if m.RecordedDate.After(spendCutoff) {
				finance.TotalSpend30d += m.Amount
			}
		}
	}
	uctx.Finance = finance

	// AI memory
	memory := models.MemorySummary{
		Conversations: []models.MemoryRecord{},
		Insights:      []models.MemoryRecord{},
		Actions:       []models.MemoryRecord{},
	}
	for _, m := range r.memory {
		switch m.Kind {
		case models.MemoryInsight:
			memory.Insights = append(memory.Insights, m)
		case models.MemoryAction:
			memory.Actions = append(memory.Actions, m)
		default:
			memory.Conversations = append(memory.Conversations, m)
		}
	}
	uctx.Memory = memory

	uctx.Performance = derivePerformanceStats(uctx)

	return uctx
}

// derivePerformanceStats computes the cross-domain derived figures from the
// assembled snapshot.
func derivePerformanceStats(uctx *models.UnifiedUserContext) models.PerformanceStats {
	domainsWithData := 0
	if uctx.Profile.DisplayName != "" || uctx.Profile.Email != "" {
		domainsWithData++
	}
	if len(uctx.Tasks.Active)+len(uctx.Tasks.Completed) > 0 {
		domainsWithData++
	}
	if len(uctx.Habits.Active) > 0 {
		domainsWithData++
	}
	if len(uctx.Health.Recent) > 0 {
		domainsWithData++
	}
	if len(uctx.Finance.RecentExpenses)+len(uctx.Finance.RecentIncome) > 0 {
		domainsWithData++
	}
	if len(uctx.Memory.Conversations)+len(uctx.Memory.Insights)+len(uctx.Memory.Actions)+len(uctx.Notes) > 0 {
		domainsWithData++
	}

	stats := models.PerformanceStats{
		DataCompleteness: float64(domainsWithData) / 6.0 * 100,
		ConsistencyScore: uctx.Habits.CompletionRate * 100,
	}

	activityPoints := len(uctx.Tasks.Completed) + totalEntryCount(uctx.Habits.RecentEntries)
	switch {
	case activityPoints >= 40:
		stats.ActivityLevel = models.ActivityHigh
	case activityPoints >= 10:
		stats.ActivityLevel = models.ActivityModerate
	default:
		stats.ActivityLevel = models.ActivityLow
	}

	return stats
}

func totalEntryCount(entries map[string][]models.HabitEntry) int {
	total := 0
	for _, e := range entries {
		total += len(e)
	}
	return total
}
