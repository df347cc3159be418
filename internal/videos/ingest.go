package videos

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ObjectChecker reports whether an object landed in the asset store.
type ObjectChecker interface {
	Stat(ctx context.Context, key string) (int64, error)
	PublicURL(key string) string
}

// RecordingUpdater persists the outcome of an upload verification.
type RecordingUpdater interface {
	MarkCompleted(ctx context.Context, id, recordingURL string, size int64) error
	MarkFailed(ctx context.Context, id string) error
}

// WebcamIngestorConfig controls the verification worker pool.
type WebcamIngestorConfig struct {
	QueueSize     int
	Workers       int
	CheckAttempts int
	CheckInterval time.Duration
}

// WebcamIngestor verifies that clients completed their presigned webcam
// uploads and records the result. Uploads happen browser-to-bucket, so the
// worker polls the object store until the object appears or attempts run out.
type WebcamIngestor struct {
	store   ObjectChecker
	updater RecordingUpdater
	logger  *slog.Logger

	attempts int
	interval time.Duration

	jobs   chan ingestJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

type ingestJob struct {
	recordingID string
	key         string
}

var errIngestorClosed = errors.New("webcam ingestor closed")

// NewWebcamIngestor constructs a background worker pool verifying uploads.
func NewWebcamIngestor(store ObjectChecker, updater RecordingUpdater, cfg WebcamIngestorConfig, logger *slog.Logger) *WebcamIngestor {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.CheckAttempts <= 0 {
		cfg.CheckAttempts = 10
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	ing := &WebcamIngestor{
		store:    store,
		updater:  updater,
		logger:   logger,
		attempts: cfg.CheckAttempts,
		interval: cfg.CheckInterval,
		jobs:     make(chan ingestJob, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	ing.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go ing.worker()
	}

	return ing
}

// Enqueue schedules verification for the supplied recording and object key.
func (i *WebcamIngestor) Enqueue(ctx context.Context, recordingID, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-i.ctx.Done():
		return errIngestorClosed
	default:
	}

	job := ingestJob{recordingID: recordingID, key: key}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-i.ctx.Done():
		return errIngestorClosed
	case i.jobs <- job:
		return nil
	}
}

// Shutdown waits for the worker pool to drain outstanding jobs.
func (i *WebcamIngestor) Shutdown(ctx context.Context) error {
	i.once.Do(func() {
		i.cancel()
		close(i.jobs)
	})

	done := make(chan struct{})
	go func() {
		i.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (i *WebcamIngestor) worker() {
	defer i.wg.Done()

	for {
		select {
		case <-i.ctx.Done():
			return
		case job, ok := <-i.jobs:
			if !ok {
				return
			}
			i.handleJob(job)
		}
	}
}

func (i *WebcamIngestor) handleJob(job ingestJob) {
	if i.store == nil || i.updater == nil {
		i.logger.Error("webcam ingestor missing dependencies", "hasStore", i.store != nil, "hasUpdater", i.updater != nil)
		return
	}

	for attempt := 0; attempt < i.attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(i.interval)
			select {
			case <-i.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		statCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		size, err := i.store.Stat(statCtx, job.key)
		cancel()
		if err != nil {
			continue
		}

		if err := i.recordSuccess(job.recordingID, i.store.PublicURL(job.key), size); err != nil {
			i.logger.Error("mark recording completed", "recordingId", job.recordingID, "error", err)
			i.recordFailure(job.recordingID)
		}
		return
	}

	i.logger.Error("webcam upload never arrived", "recordingId", job.recordingID, "key", job.key)
	i.recordFailure(job.recordingID)
}

func (i *WebcamIngestor) recordFailure(recordingID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := i.updater.MarkFailed(ctx, recordingID); err != nil {
		i.logger.Error("record upload failure", "recordingId", recordingID, "error", err)
	}
}

func (i *WebcamIngestor) recordSuccess(recordingID, location string, size int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return i.updater.MarkCompleted(ctx, recordingID, location, size)
}
