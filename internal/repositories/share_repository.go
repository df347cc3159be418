package repositories

import (
	"context"

	"github.com/reelvault/backend/internal/models"
)

// ShareRepository manages share links for videos.
type ShareRepository interface {
	Create(ctx context.Context, share models.VideoShare) error
	// FindActiveByToken returns the share for the token. Inactive or unknown
	// tokens map to ErrNotFound.
	FindActiveByToken(ctx context.Context, token string) (models.VideoShare, error)
	IncrementAccess(ctx context.Context, token string) error
}
