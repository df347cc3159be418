package repositories

import (
	"context"

	"github.com/reelvault/backend/internal/models"
)

// EngagementRepository records views and likes against videos.
type EngagementRepository interface {
	// RecordView increments the video's view counter, stores the view row,
	// and flips the video private when its auto-private view limit is hit.
	// Returns the new view count and whether the privacy change happened.
	RecordView(ctx context.Context, videoID, viewerID string) (views int64, madePrivate bool, err error)

	// ToggleLike likes an unliked video and unlikes a liked one, keeping the
	// denormalized counter in step. Returns the resulting state and count.
	ToggleLike(ctx context.Context, videoID, userID string) (liked bool, likes int64, err error)

	// History lists the distinct videos a user has viewed, most recent first.
	History(ctx context.Context, userID string, limit int) ([]models.Video, error)
}
