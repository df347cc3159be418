package videos

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reelvault/backend/internal/logging"
)

// AutoPrivateSweeper flips videos past their view limit to private.
type AutoPrivateSweeper interface {
	SweepAutoPrivate(ctx context.Context) ([]string, error)
}

// PrivacySweeper periodically enforces auto-private view limits. It backs up
// the per-view check so limits are honored even when counters move outside
// the record-view path (bulk imports, admin edits).
type PrivacySweeper struct {
	videos   AutoPrivateSweeper
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewPrivacySweeper constructs a sweeper running at the provided interval.
func NewPrivacySweeper(videos AutoPrivateSweeper, interval time.Duration, logger *slog.Logger) *PrivacySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PrivacySweeper{
		videos:   videos,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. The first sweep runs after one interval.
func (s *PrivacySweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce performs a single sweep.
func (s *PrivacySweeper) RunOnce(ctx context.Context) {
	if s.videos == nil {
		return
	}

	ctx, span := logging.StartSpan(ctx, "privacy.sweep")
	defer span.End()

	sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	ids, err := s.videos.SweepAutoPrivate(sweepCtx)
	if err != nil {
		s.logger.Error("privacy sweep failed", "error", err)
		return
	}

	if len(ids) > 0 {
		s.logger.Info("videos made private by view limit", "count", len(ids), "ids", ids)
	}
}

// Shutdown stops the loop and waits for it to exit.
func (s *PrivacySweeper) Shutdown(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.once.Do(s.cancel)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return nil
	}
}
