package repositories

import (
	"context"

	"github.com/reelvault/backend/internal/models"
)

// VideoStats aggregates platform-wide counters for the admin dashboard.
type VideoStats struct {
	TotalVideos    int64 `json:"total_videos"`
	TotalViews     int64 `json:"total_views"`
	TotalLikes     int64 `json:"total_likes"`
	PublicVideos   int64 `json:"public_videos"`
	PrivateVideos  int64 `json:"private_videos"`
	UnlistedVideos int64 `json:"unlisted_videos"`
}

// VideoRepository exposes data access for uploaded videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	ListFeed(ctx context.Context, limit int) ([]models.Video, error)
	ListAll(ctx context.Context, limit int) ([]models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (VideoStats, error)
	SweepAutoPrivate(ctx context.Context) ([]string, error)
}
