package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const warmTimeout = 60 * time.Second

// Warmer is the part of the snapshot cache the scheduler drives.
type Warmer interface {
	Get(ctx context.Context) (*models.AggregatedSnapshot, error)
	Invalidate()
}

// Scheduler keeps the snapshot cache warm on a cron schedule. Warming goes
// through the cache, so it only causes a cycle once the snapshot is stale.
type Scheduler struct {
	warmer   Warmer
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron
	entryID  cron.EntryID

	mu      sync.Mutex
	running bool
	lastRun time.Time
	runs    int
	wg      sync.WaitGroup
}

func NewScheduler(warmer Warmer, schedule string, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		warmer:   warmer,
		logger:   logger,
		schedule: schedule,
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		), cron.WithLogger(cl)),
	}
}

// Start registers the warm job and warms once immediately.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	id, err := s.cron.AddFunc(s.schedule, s.warm)
	if err != nil {
		return fmt.Errorf("invalid warm schedule %q: %w", s.schedule, err)
	}
	s.entryID = id
	s.cron.Start()
	s.running = true

	s.logger.Info("Scheduler started",
		zap.String("schedule", s.schedule),
		zap.Time("next_run", s.cron.Entry(id).Next))

	s.goWarm()
	return nil
}

// Stop halts the schedule and waits for any running warm-up to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// ForceRun drops the cached snapshot and starts a fresh cycle in the background.
func (s *Scheduler) ForceRun() {
	s.logger.Info("Manually triggering snapshot refresh")
	s.warmer.Invalidate()
	s.goWarm()
}

func (s *Scheduler) goWarm() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.warm()
	}()
}

func (s *Scheduler) warm() {
	startTime := time.Now()
	s.mu.Lock()
	s.lastRun = startTime
	s.runs++
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	snap, err := s.warmer.Get(ctx)
	if err != nil {
		s.logger.Error("Snapshot warm-up failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)))
		return
	}
	s.logger.Debug("Snapshot warm-up completed",
		zap.Time("generated_at", snap.GeneratedAt),
		zap.Int("sources_online", snap.SourcesOnline),
		zap.Duration("duration", time.Since(startTime)))
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":  s.running,
		"schedule": s.schedule,
		"last_run": s.lastRun,
		"runs":     s.runs,
	}
	if s.running {
		status["next_run"] = s.cron.Entry(s.entryID).Next
	}
	return status
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
