package dashboard

import (
	"context"
	"fmt"

	"github.com/reelvault/backend/internal/models"
)

// FeedProvider returns the publicly visible video feed.
type FeedProvider interface {
	ListFeed(ctx context.Context, limit int) ([]models.Video, error)
}

// Service derives per-user dashboard statistics from the public feed.
type Service struct {
	feed  FeedProvider
	limit int
}

// NewService constructs a Service reading at most limit feed entries per request.
func NewService(feed FeedProvider, limit int) *Service {
	if limit <= 0 {
		limit = 100
	}
	return &Service{feed: feed, limit: limit}
}

// Stats fetches the feed and computes the user's statistics. When the fetch
// fails the zero-value stats are returned alongside the error so callers can
// surface the message while still rendering an empty dashboard.
func (s *Service) Stats(ctx context.Context, email string) (Stats, error) {
	if s == nil || s.feed == nil {
		return Compute(nil, email), fmt.Errorf("dashboard: feed provider unavailable")
	}

	feed, err := s.feed.ListFeed(ctx, s.limit)
	if err != nil {
		return Compute(nil, email), fmt.Errorf("fetch video feed: %w", err)
	}

	return Compute(feed, email), nil
}
