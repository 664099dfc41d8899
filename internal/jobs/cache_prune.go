package jobs

import (
	"log"
	"time"

	"lifeboard/internal/services"
)

// CachePruneInterval is how often expired context entries are swept out.
// Entries are also dropped lazily on access; the sweep keeps the cache from
// holding dead snapshots for users nobody is reading.
const CachePruneInterval = time.Minute

// RegisterCachePrune wires the periodic cache sweep into the scheduler.
func RegisterCachePrune(s *Scheduler, cache *services.ContextCache, metrics *services.Metrics) error {
	return s.Every("cache-prune", CachePruneInterval, func() {
		pruned := cache.PruneExpired()
		if pruned > 0 {
			metrics.RecordEvictions(pruned)
			log.Printf("🧹 [CACHE] Pruned %d expired context entries", pruned)
		}
	})
}
