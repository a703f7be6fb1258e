package api

import (
	"context"
	"time"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/bobby-s-dev/flood-monitor/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SnapshotCache is the read/invalidate surface of services.SnapshotCache.
type SnapshotCache interface {
	Get(ctx context.Context) (*models.AggregatedSnapshot, error)
	Invalidate()
	Peek() *models.AggregatedSnapshot
	State() services.CacheState
	GetStats() map[string]interface{}
}

type AggregatorStats interface {
	GetLastCycleTime() time.Time
	GetStats() map[string]interface{}
}

// Scheduler is the cache warmer. ForceRun invalidates and re-warms in the
// background.
type Scheduler interface {
	GetStatus() map[string]interface{}
	ForceRun()
}

type Handler struct {
	cache      SnapshotCache
	aggregator AggregatorStats
	scheduler  Scheduler
	areas      []models.Area
	logger     *zap.Logger
	startTime  time.Time
}

// NewHandler wires the HTTP handlers. scheduler may be nil when warming is
// disabled.
func NewHandler(cache SnapshotCache, aggregator AggregatorStats, scheduler Scheduler, areas []models.Area, logger *zap.Logger) *Handler {
	return &Handler{
		cache:      cache,
		aggregator: aggregator,
		scheduler:  scheduler,
		areas:      areas,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// GetSnapshot handles GET /api/v1/snapshot
func (h *Handler) GetSnapshot(c *fiber.Ctx) error {
	snap, err := h.cache.Get(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to get snapshot", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "Snapshot not available",
			"details": err.Error(),
		})
	}
	return c.JSON(snap)
}

// Refresh handles POST /api/v1/refresh. With ?wait=true the response carries
// the snapshot of the new cycle; otherwise the cycle runs in the background,
// through the scheduler when one is configured.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	if c.QueryBool("wait") {
		h.cache.Invalidate()
		return h.GetSnapshot(c)
	}

	if h.scheduler != nil {
		h.scheduler.ForceRun()
	} else {
		h.cache.Invalidate()
		go func() {
			if _, err := h.cache.Get(context.Background()); err != nil {
				h.logger.Error("Background refresh failed", zap.Error(err))
			}
		}()
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "refresh scheduled",
	})
}

// GetAreas handles GET /api/v1/areas
func (h *Handler) GetAreas(c *fiber.Ctx) error {
	counts := make(map[models.Severity]int)
	for _, a := range h.areas {
		counts[a.Severity]++
	}

	mentions := map[string]models.LocationMention{}
	if snap := h.cache.Peek(); snap != nil && snap.Locations != nil {
		mentions = snap.Locations
	}

	return c.JSON(fiber.Map{
		"areas":           h.areas,
		"severity_counts": counts,
		"mentions":        mentions,
	})
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	status := "healthy"
	sourcesOnline := 0
	snap := h.cache.Peek()
	switch {
	case snap == nil:
		status = "warming"
	case snap.Degraded():
		status = "degraded"
		sourcesOnline = snap.SourcesOnline
	default:
		sourcesOnline = snap.SourcesOnline
	}

	return c.JSON(fiber.Map{
		"status":         status,
		"timestamp":      time.Now(),
		"uptime":         time.Since(h.startTime).String(),
		"cache_state":    h.cache.State(),
		"last_cycle":     h.aggregator.GetLastCycleTime(),
		"sources_online": sourcesOnline,
	})
}

// GetStats handles GET /api/v1/stats
func (h *Handler) GetStats(c *fiber.Ctx) error {
	stats := fiber.Map{
		"cache":      h.cache.GetStats(),
		"aggregator": h.aggregator.GetStats(),
		"timestamp":  time.Now(),
	}
	if h.scheduler != nil {
		stats["scheduler"] = h.scheduler.GetStatus()
	}
	return c.JSON(stats)
}
