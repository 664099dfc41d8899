package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
)

// Scheduler wraps gocron and owns the background jobs of the service.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates the scheduler in UTC.
func NewScheduler() (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{scheduler: scheduler}, nil
}

// Every registers a fixed-interval job.
func (s *Scheduler) Every(name string, interval time.Duration, task func()) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}
	log.Printf("📅 [SCHEDULER] Registered job %s (every %s)", name, interval)
	return nil
}

// Cron registers a cron-expression job. The expression is validated before
// handing it to gocron so a bad config fails startup instead of silently
// never firing.
func (s *Scheduler) Cron(name, expression string, task func()) error {
	if err := ValidateCronExpression(expression); err != nil {
		return fmt.Errorf("invalid cron expression for job %s: %w", name, err)
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(expression, false),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}
	log.Printf("📅 [SCHEDULER] Registered job %s (cron: %s)", name, expression)
	return nil
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
	log.Println("✅ [SCHEDULER] Job scheduler started")
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	log.Println("🛑 [SCHEDULER] Stopping job scheduler...")
	return s.scheduler.Shutdown()
}

// ValidateCronExpression checks a standard 5-field cron expression.
func ValidateCronExpression(expression string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(expression)
	return err
}
