package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/bobby-s-dev/flood-monitor/internal/observability"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type CacheState string

const (
	StateStale    CacheState = "stale"
	StateFetching CacheState = "fetching"
	StateFresh    CacheState = "fresh"
)

const snapshotKey = "snapshot"

// Runner produces a complete snapshot. *Aggregator is the production Runner.
type Runner interface {
	Run(ctx context.Context) *models.AggregatedSnapshot
}

// SnapshotCache memoizes the latest snapshot for a fixed TTL. At most one
// aggregation cycle runs at a time; callers arriving during a cycle wait for
// its result.
type SnapshotCache struct {
	runner  Runner
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *zap.Logger

	group singleflight.Group

	mu         sync.RWMutex
	snapshot   *models.AggregatedSnapshot
	expiresAt  time.Time
	generation uint64

	inFlight      atomic.Int32
	hits          atomic.Int64
	misses        atomic.Int64
	cycles        atomic.Int64
	invalidations atomic.Int64
}

func NewSnapshotCache(runner Runner, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *zap.Logger) *SnapshotCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SnapshotCache{
		runner:  runner,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// cycle is what a single-flight call hands its waiters: the snapshot and the
// cache generation the cycle started under.
type cycle struct {
	snapshot   *models.AggregatedSnapshot
	generation uint64
}

// Get returns the cached snapshot while it is fresh and otherwise runs, or
// joins, an aggregation cycle. The cycle is detached from ctx; ctx only bounds
// how long this caller waits for it. The snapshot is shared by every caller
// and must not be modified.
//
// A caller that saw an invalidation never accepts a cycle that started before
// it. It waits for that cycle to finish and then starts, or joins, the next
// one, so cycles never overlap.
func (c *SnapshotCache) Get(ctx context.Context) (*models.AggregatedSnapshot, error) {
	if snap, ok := c.fresh(); ok {
		c.hits.Add(1)
		c.countRequest("hit")
		return snap, nil
	}

	c.misses.Add(1)
	c.countRequest("miss")
	c.logger.Debug("Snapshot cache miss")

	detached := context.WithoutCancel(ctx)
	for {
		c.mu.RLock()
		seen := c.generation
		c.mu.RUnlock()

		ch := c.group.DoChan(snapshotKey, func() (interface{}, error) {
			// A caller that raced the previous cycle's store lands here.
			if snap, generation, ok := c.freshWithGeneration(); ok {
				return cycle{snapshot: snap, generation: generation}, nil
			}
			return c.refresh(detached), nil
		})

		select {
		case res := <-ch:
			result := res.Val.(cycle)
			if result.generation >= seen {
				return result.snapshot, nil
			}
			c.logger.Debug("Joined a cycle older than the last invalidation, fetching again")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *SnapshotCache) refresh(ctx context.Context) cycle {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	c.mu.RLock()
	generation := c.generation
	c.mu.RUnlock()

	snap := c.runner.Run(ctx)
	c.cycles.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		c.logger.Info("Snapshot invalidated during aggregation, not caching result")
		return cycle{snapshot: snap, generation: generation}
	}
	c.snapshot = snap
	c.expiresAt = c.clock.Now().Add(c.ttl)

	c.logger.Debug("Snapshot cached", zap.Time("expires_at", c.expiresAt))
	return cycle{snapshot: snap, generation: generation}
}

// Invalidate drops the cached snapshot. A cycle already in flight still
// answers the callers that joined it before the invalidation, but its result
// is not cached. Later callers wait for it and then start a new cycle.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.snapshot = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()

	c.invalidations.Add(1)
	if c.metrics != nil {
		c.metrics.Invalidations.Inc()
	}
	c.logger.Info("Snapshot cache invalidated")
}

// Peek returns the last cached snapshot without triggering a cycle. It may
// be expired, and is nil before the first cycle or after an invalidation.
// Like Get, it returns the shared instance; callers must not modify it.
func (c *SnapshotCache) Peek() *models.AggregatedSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *SnapshotCache) State() CacheState {
	if c.inFlight.Load() > 0 {
		return StateFetching
	}
	if _, ok := c.fresh(); ok {
		return StateFresh
	}
	return StateStale
}

func (c *SnapshotCache) fresh() (*models.AggregatedSnapshot, bool) {
	snap, _, ok := c.freshWithGeneration()
	return snap, ok
}

func (c *SnapshotCache) freshWithGeneration() (*models.AggregatedSnapshot, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil || !c.clock.Now().Before(c.expiresAt) {
		return nil, 0, false
	}
	return c.snapshot, c.generation, true
}

func (c *SnapshotCache) countRequest(result string) {
	if c.metrics != nil {
		c.metrics.CacheRequests.WithLabelValues(result).Inc()
	}
}

func (c *SnapshotCache) GetStats() map[string]interface{} {
	c.mu.RLock()
	expiresAt := c.expiresAt
	var generatedAt time.Time
	if c.snapshot != nil {
		generatedAt = c.snapshot.GeneratedAt
	}
	c.mu.RUnlock()

	return map[string]interface{}{
		"state":         c.State(),
		"ttl":           c.ttl.String(),
		"hits":          c.hits.Load(),
		"misses":        c.misses.Load(),
		"cycles":        c.cycles.Load(),
		"invalidations": c.invalidations.Load(),
		"generated_at":  generatedAt,
		"expires_at":    expiresAt,
	}
}
