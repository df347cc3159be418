package repositories

import (
	"context"

	"github.com/reelvault/backend/internal/models"
)

// ProfileUpdate carries a partial viewer-profile update. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Birthday           *string
	Gender             *string
	Country            *string
	City               *string
	EducationLevel     *string
	Occupation         *string
	ContentPreferences []string
}

// ProfileRepository manages viewer profiles and their points balances.
type ProfileRepository interface {
	// Get returns the profile, creating an empty one if none exists yet.
	Get(ctx context.Context, userID string) (models.ViewerProfile, error)
	// Apply merges the update into the profile and marks onboarding complete.
	Apply(ctx context.Context, userID string, update ProfileUpdate) (models.ViewerProfile, error)
	// AwardPoints adds points to the balance and the lifetime earned total,
	// returning the new balance.
	AwardPoints(ctx context.Context, userID string, points int64) (int64, error)
}
