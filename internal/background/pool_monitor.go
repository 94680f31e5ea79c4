package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/orderdesk/internal/database"
)

// PoolSource is implemented by *database.DB
type PoolSource interface {
	HealthCheck(ctx context.Context) error
	Stats() database.PoolStats
}

// PoolMonitor periodically pings the database and logs connection pool usage
type PoolMonitor struct {
	db       PoolSource
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPoolMonitor creates a new pool monitor
func NewPoolMonitor(db PoolSource, logger *slog.Logger, interval time.Duration) *PoolMonitor {
	return &PoolMonitor{
		db:       db,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the monitor until Stop is called or ctx is cancelled
func (pm *PoolMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	pm.report(ctx)

	for {
		select {
		case <-ticker.C:
			pm.report(ctx)
		case <-pm.stopCh:
			pm.logger.Info("pool monitor stopped")
			return
		case <-ctx.Done():
			pm.logger.Info("pool monitor context cancelled")
			return
		}
	}
}

func (pm *PoolMonitor) report(ctx context.Context) {
	s := pm.db.Stats()
	attrs := []any{
		slog.Int("total_conns", int(s.TotalConns)),
		slog.Int("acquired_conns", int(s.AcquiredConns)),
		slog.Int("idle_conns", int(s.IdleConns)),
		slog.Int("max_conns", int(s.MaxConns)),
		slog.Int64("acquire_count", s.AcquireCount),
		slog.Int64("empty_acquire_count", s.EmptyAcquireCount),
		slog.Duration("acquire_duration", s.AcquireDuration),
	}

	if err := pm.db.HealthCheck(ctx); err != nil {
		pm.logger.Error("database unreachable", append(attrs, slog.Any("error", err))...)
		return
	}

	// Every connection busy means listings are queueing for the pool
	if s.MaxConns > 0 && s.AcquiredConns >= s.MaxConns {
		pm.logger.Warn("connection pool saturated", attrs...)
		return
	}
	pm.logger.Info("connection pool stats", attrs...)
}

// Stop signals the monitor to stop. It is safe to call more than once.
func (pm *PoolMonitor) Stop() {
	pm.stopOnce.Do(func() { close(pm.stopCh) })
}
