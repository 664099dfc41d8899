package jobs

import (
	"context"
	"log"
	"time"

	"lifeboard/internal/services"

	"github.com/google/uuid"
)

const (
	// warmupLookback selects users with habit activity in this window.
	warmupLookback = 48 * time.Hour
	warmupMaxUsers = 50

	warmupLockKey = "lifeboard:warmup:lock"
	warmupLockTTL = 10 * time.Minute
)

// RegisterContextWarmup wires the cache warmup job. It pre-aggregates
// contexts for recently active users so their first morning request hits a
// warm cache. When Redis is available a distributed lock keeps one instance
// per cluster doing the work.
func RegisterContextWarmup(
	s *Scheduler,
	cronExpression string,
	store *services.LifeDataStore,
	aggregator *services.ContextAggregator,
	redis *services.RedisService,
) error {
	return s.Cron("context-warmup", cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmupLockTTL)
		defer cancel()

		if redis != nil {
			lockValue := uuid.New().String()
			acquired, err := redis.AcquireLock(ctx, warmupLockKey, lockValue, warmupLockTTL)
			if err != nil {
				log.Printf("⚠️  [WARMUP] Lock check failed, running anyway: %v", err)
			} else if !acquired {
				log.Println("⏭️  [WARMUP] Another instance holds the lock, skipping")
				return
			} else {
				defer redis.ReleaseLock(ctx, warmupLockKey, lockValue)
			}
		}

		warmContexts(ctx, store, aggregator)
	})
}

func warmContexts(ctx context.Context, store *services.LifeDataStore, aggregator *services.ContextAggregator) {
	since := time.Now().Add(-warmupLookback)
	userIDs, err := store.GetRecentUserIDs(ctx, since, warmupMaxUsers)
	if err != nil {
		log.Printf("❌ [WARMUP] Failed to list recent users: %v", err)
		return
	}

	warmed := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			break
		}
		if _, err := aggregator.GetContext(ctx, userID, true); err != nil {
			log.Printf("⚠️  [WARMUP] Failed to warm context for %s: %v", userID, err)
			continue
		}
		warmed++
	}
	log.Printf("🔥 [WARMUP] Warmed %d/%d user contexts", warmed, len(userIDs))
}
