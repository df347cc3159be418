package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reelvault/backend/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeAggregatesOwnVideosCaseInsensitively(t *testing.T) {
	feed := []models.Video{
		{UploaderEmail: "A@x.com", Views: 5, Likes: 1, UploadDate: date("2024-01-01")},
		{UploaderEmail: "a@x.com", Views: 10, Likes: 2, UploadDate: date("2024-02-01")},
		{UploaderEmail: "other@x.com", Views: 99, Likes: 99, UploadDate: date("2024-03-01")},
	}

	stats := Compute(feed, "a@x.com")

	if stats.TotalVideos != 2 {
		t.Fatalf("expected 2 videos got %d", stats.TotalVideos)
	}
	if stats.TotalViews != 15 {
		t.Fatalf("expected 15 views got %d", stats.TotalViews)
	}
	if stats.TotalLikes != 3 {
		t.Fatalf("expected 3 likes got %d", stats.TotalLikes)
	}

	if len(stats.RecentVideos) != 2 {
		t.Fatalf("expected 2 recent videos got %d", len(stats.RecentVideos))
	}
	if !stats.RecentVideos[0].UploadDate.Equal(date("2024-02-01")) {
		t.Fatalf("expected February upload first, got %v", stats.RecentVideos[0].UploadDate)
	}

	if len(stats.PopularVideos) != 2 {
		t.Fatalf("expected 2 popular videos got %d", len(stats.PopularVideos))
	}
	if stats.PopularVideos[0].Views != 10 || stats.PopularVideos[1].Views != 5 {
		t.Fatalf("expected popular videos ordered by views, got %d then %d",
			stats.PopularVideos[0].Views, stats.PopularVideos[1].Views)
	}
}

func TestComputeBoundsRecentAndPopular(t *testing.T) {
	var feed []models.Video
	for i := 0; i < 10; i++ {
		feed = append(feed, models.Video{
			UploaderEmail: "me@x.com",
			Views:         int64(i),
			UploadDate:    date("2024-01-01").AddDate(0, 0, i),
		})
	}

	stats := Compute(feed, "me@x.com")

	if len(stats.RecentVideos) != 3 {
		t.Fatalf("expected 3 recent videos got %d", len(stats.RecentVideos))
	}
	if len(stats.PopularVideos) != 2 {
		t.Fatalf("expected 2 popular videos got %d", len(stats.PopularVideos))
	}

	for i := 1; i < len(stats.RecentVideos); i++ {
		if stats.RecentVideos[i].UploadDate.After(stats.RecentVideos[i-1].UploadDate) {
			t.Fatal("recent videos are not sorted by upload date descending")
		}
	}
	for i := 1; i < len(stats.PopularVideos); i++ {
		if stats.PopularVideos[i].Views > stats.PopularVideos[i-1].Views {
			t.Fatal("popular videos are not sorted by views descending")
		}
	}
}

func TestComputeMissingDatesSortOldest(t *testing.T) {
	feed := []models.Video{
		{ID: "undated", UploaderEmail: "me@x.com"},
		{ID: "dated", UploaderEmail: "me@x.com", UploadDate: date("2024-05-01")},
	}

	stats := Compute(feed, "me@x.com")

	if stats.RecentVideos[0].ID != "dated" {
		t.Fatalf("expected dated video first, got %q", stats.RecentVideos[0].ID)
	}
	if stats.RecentVideos[1].ID != "undated" {
		t.Fatalf("expected undated video last, got %q", stats.RecentVideos[1].ID)
	}
}

func TestComputeNilFeed(t *testing.T) {
	stats := Compute(nil, "me@x.com")

	if stats.TotalVideos != 0 || stats.TotalViews != 0 || stats.TotalLikes != 0 || stats.StorageUsed != 0 {
		t.Fatalf("expected zero totals, got %+v", stats)
	}
	if len(stats.RecentVideos) != 0 || len(stats.PopularVideos) != 0 {
		t.Fatalf("expected empty lists, got %+v", stats)
	}
	if stats.RecentVideos == nil || stats.PopularVideos == nil {
		t.Fatal("expected non-nil empty slices for JSON rendering")
	}
}

type stubFeed struct {
	videos []models.Video
	err    error
}

func (s stubFeed) ListFeed(context.Context, int) ([]models.Video, error) {
	return s.videos, s.err
}

func TestServiceStats(t *testing.T) {
	svc := NewService(stubFeed{videos: []models.Video{
		{UploaderEmail: "me@x.com", Views: 7, Likes: 2},
	}}, 50)

	stats, err := svc.Stats(context.Background(), "me@x.com")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalVideos != 1 || stats.TotalViews != 7 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestServiceStatsFetchFailure(t *testing.T) {
	svc := NewService(stubFeed{err: errors.New("connection refused")}, 50)

	stats, err := svc.Stats(context.Background(), "me@x.com")
	if err == nil {
		t.Fatal("expected error")
	}
	if stats.TotalVideos != 0 || stats.TotalViews != 0 || stats.TotalLikes != 0 {
		t.Fatalf("expected zero stats on failure, got %+v", stats)
	}
	if len(stats.RecentVideos) != 0 || len(stats.PopularVideos) != 0 {
		t.Fatalf("expected empty lists on failure, got %+v", stats)
	}
}
