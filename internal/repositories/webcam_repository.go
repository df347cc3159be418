package repositories

import (
	"context"

	"github.com/reelvault/backend/internal/models"
)

// WebcamRepository persists webcam recording lifecycle state.
type WebcamRepository interface {
	Create(ctx context.Context, recording models.WebcamRecording) error
	MarkCompleted(ctx context.Context, id, recordingURL string, size int64) error
	MarkFailed(ctx context.Context, id string) error
	// List returns recordings newest first, optionally filtered by status.
	List(ctx context.Context, status string, limit int) ([]models.WebcamRecording, error)
}
