package handlers

import (
	"context"

	"github.com/reelvault/backend/internal/dashboard"
	"github.com/reelvault/backend/internal/models"
	"github.com/reelvault/backend/internal/repositories"
	"github.com/reelvault/backend/internal/videos"
)

// UserStore captures the persistence operations required by the auth and admin handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
	Promote(ctx context.Context, id, role string) error
}

// SessionManager issues and refreshes authentication tokens for users.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, refreshToken string)
}

// VideoStore captures persistence for uploaded videos.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	ListFeed(ctx context.Context, limit int) ([]models.Video, error)
	ListAll(ctx context.Context, limit int) ([]models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (repositories.VideoStats, error)
}

// EngagementStore records views and likes.
type EngagementStore interface {
	RecordView(ctx context.Context, videoID, viewerID string) (int64, bool, error)
	ToggleLike(ctx context.Context, videoID, userID string) (bool, int64, error)
	History(ctx context.Context, userID string, limit int) ([]models.Video, error)
}

// ShareStore manages tokenized share links.
type ShareStore interface {
	Create(ctx context.Context, share models.VideoShare) error
	FindActiveByToken(ctx context.Context, token string) (models.VideoShare, error)
	IncrementAccess(ctx context.Context, token string) error
}

// ProfileStore manages viewer profiles and points.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (models.ViewerProfile, error)
	Apply(ctx context.Context, userID string, update repositories.ProfileUpdate) (models.ViewerProfile, error)
	AwardPoints(ctx context.Context, userID string, points int64) (int64, error)
}

// WebcamStore persists webcam recording state.
type WebcamStore interface {
	Create(ctx context.Context, recording models.WebcamRecording) error
	List(ctx context.Context, status string, limit int) ([]models.WebcamRecording, error)
}

// MetadataProvider inspects uploaded assets for duration and dimensions.
type MetadataProvider interface {
	Lookup(ctx context.Context, location string) (videos.Metadata, error)
}

// StatsProvider derives per-user dashboard statistics.
type StatsProvider interface {
	Stats(ctx context.Context, email string) (dashboard.Stats, error)
}

// UploadSigner issues object keys and presigned URLs for direct uploads.
type UploadSigner interface {
	VideoKey(videoID, filename string) string
	ThumbnailKey(videoID, filename string) string
	WebcamKey(recordingID, filename string) string
	PresignUpload(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
	PublicURL(key string) string
}

// WebcamQueue schedules background verification of webcam uploads.
type WebcamQueue interface {
	Enqueue(ctx context.Context, recordingID, key string) error
}
