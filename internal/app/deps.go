package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/reelvault/backend/internal/auth"
	"github.com/reelvault/backend/internal/config"
	"github.com/reelvault/backend/internal/dashboard"
	"github.com/reelvault/backend/internal/db"
	"github.com/reelvault/backend/internal/handlers"
	"github.com/reelvault/backend/internal/middleware"
	"github.com/reelvault/backend/internal/repositories"
	"github.com/reelvault/backend/internal/storage"
	"github.com/reelvault/backend/internal/videos"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned cleanup function stops the background workers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, func(context.Context) error, error) {
	userRepo := repositories.NewPostgresUserRepository(pool)
	videoRepo := repositories.NewPostgresVideoRepository(pool)
	engagementRepo := repositories.NewPostgresEngagementRepository(pool)
	shareRepo := repositories.NewPostgresShareRepository(pool)
	profileRepo := repositories.NewPostgresProfileRepository(pool)
	webcamRepo := repositories.NewPostgresWebcamRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	sessions := auth.NewManager(cfg.AccessTokenTTL, cfg.RefreshTokenTTL, sessionStore)

	objectStore, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	ffprobe := videos.NewFFProbeProvider(cfg.FFProbePath, cfg.FFProbeTimeout)
	metadata := videos.NewCachingProvider(ffprobe, cfg.MetadataCacheTTL)

	ingestor := videos.NewWebcamIngestor(objectStore, webcamRepo, videos.WebcamIngestorConfig{
		QueueSize:     cfg.Ingest.QueueSize,
		Workers:       cfg.Ingest.Workers,
		CheckAttempts: cfg.Ingest.CheckAttempts,
		CheckInterval: cfg.Ingest.CheckInterval,
	}, slog.Default())

	sweeper := videos.NewPrivacySweeper(videoRepo, cfg.PrivacySweepInterval, slog.Default())
	sweeper.Start()

	cleanup := func(ctx context.Context) error {
		sweepErr := sweeper.Shutdown(ctx)
		if err := ingestor.Shutdown(ctx); err != nil {
			return err
		}
		return sweepErr
	}

	deps := handlers.Dependencies{
		Users:      userRepo,
		Sessions:   sessions,
		Videos:     videoRepo,
		Engagement: engagementRepo,
		Shares:     shareRepo,
		Profiles:   profileRepo,
		Webcams:    webcamRepo,
		Dashboard:  dashboard.NewService(videoRepo, cfg.FeedLimit),
		Storage:    objectStore,
		Ingest:     ingestor,
		Metadata:   metadata,

		Gate: auth.Gate{
			Sessions:  sessions,
			Users:     userRepo,
			LoginPath: cfg.LoginPath,
		},
		AuthLimiter: middleware.NewIPRateLimiter(cfg.AuthRateRequests, cfg.AuthRateWindow, cfg.AuthRateBurst, 10*time.Minute),

		FrontendURL:          cfg.FrontendURL,
		FeedLimit:            cfg.FeedLimit,
		WebcamUploadPoints:   cfg.WebcamUploadPoints,
		PointsConversionRate: cfg.PointsConversionRate,
	}

	return deps, cleanup, nil
}
