package dashboard

import (
	"sort"
	"strings"

	"github.com/reelvault/backend/internal/models"
)

const (
	recentVideoCount  = 3
	popularVideoCount = 2
)

// Stats aggregates a user's own videos into the figures shown on the dashboard
// home. Derived data only: recomputed from the feed on every request.
type Stats struct {
	TotalVideos   int            `json:"totalVideos"`
	TotalViews    int64          `json:"totalViews"`
	TotalLikes    int64          `json:"totalLikes"`
	StorageUsed   int64          `json:"storageUsed"`
	RecentVideos  []models.Video `json:"recentVideos"`
	PopularVideos []models.Video `json:"popularVideos"`
}

// Compute filters the feed to videos uploaded by the given email
// (case-insensitive) and derives the dashboard statistics. A nil feed
// yields zero-value stats. Videos without an upload date sort as oldest;
// view counts default to zero.
func Compute(feed []models.Video, email string) Stats {
	stats := Stats{
		RecentVideos:  []models.Video{},
		PopularVideos: []models.Video{},
	}

	var mine []models.Video
	for _, v := range feed {
		if strings.EqualFold(v.UploaderEmail, email) {
			mine = append(mine, v)
		}
	}

	stats.TotalVideos = len(mine)
	for _, v := range mine {
		stats.TotalViews += v.Views
		stats.TotalLikes += v.Likes
		stats.StorageUsed += v.AssetSize
	}

	recent := make([]models.Video, len(mine))
	copy(recent, mine)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UploadDate.After(recent[j].UploadDate)
	})
	stats.RecentVideos = prefix(recent, recentVideoCount)

	popular := make([]models.Video, len(mine))
	copy(popular, mine)
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].Views > popular[j].Views
	})
	stats.PopularVideos = prefix(popular, popularVideoCount)

	return stats
}

func prefix(videos []models.Video, n int) []models.Video {
	if len(videos) > n {
		videos = videos[:n]
	}
	out := make([]models.Video, len(videos))
	copy(out, videos)
	return out
}
