package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reelvault/backend/internal/db"
	"github.com/reelvault/backend/internal/models"
)

const videoColumns = `
        v.id, v.uploader_id, u.email, v.title, v.description, v.category,
        v.visibility, v.video_url, v.thumbnail_url, v.duration, v.views,
        v.likes, v.upload_date, v.view_limit, v.auto_private, v.asset_size`

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	visibility := video.Visibility
	if strings.TrimSpace(visibility) == "" {
		visibility = models.VisibilityPublic
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, uploader_id, title, description, category, visibility,
                            video_url, thumbnail_url, duration, views, likes, upload_date,
                            view_limit, auto_private, asset_size)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
    `, video.ID, video.UploaderID, video.Title, video.Description, video.Category, visibility,
		video.VideoURL, video.ThumbnailURL, video.Duration, video.Views, video.Likes, video.UploadDate,
		video.ViewLimit, video.AutoPrivate, video.AssetSize)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a single video along with its uploader's email.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+videoColumns+`
        FROM videos v
        JOIN users u ON u.id = v.uploader_id
        WHERE v.id = $1
    `, id)

	return scanVideo(row)
}

// ListFeed returns the publicly visible feed, newest uploads first.
func (r *PostgresVideoRepository) ListFeed(ctx context.Context, limit int) ([]models.Video, error) {
	return r.list(ctx, `
        SELECT `+videoColumns+`
        FROM videos v
        JOIN users u ON u.id = v.uploader_id
        WHERE v.visibility = 'public'
        ORDER BY v.upload_date DESC
        LIMIT $1
    `, limit)
}

// ListAll returns videos of any visibility for moderation, newest first.
func (r *PostgresVideoRepository) ListAll(ctx context.Context, limit int) ([]models.Video, error) {
	return r.list(ctx, `
        SELECT `+videoColumns+`
        FROM videos v
        JOIN users u ON u.id = v.uploader_id
        ORDER BY v.upload_date DESC
        LIMIT $1
    `, limit)
}

func (r *PostgresVideoRepository) list(ctx context.Context, query string, limit int) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if limit <= 0 {
		limit = 100
	}

	rows, err := conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

// Update modifies video metadata and visibility.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = $2, description = $3, category = $4, visibility = $5,
            thumbnail_url = $6, duration = $7, view_limit = $8, auto_private = $9
        WHERE id = $1
    `, video.ID, video.Title, video.Description, video.Category, video.Visibility,
		video.ThumbnailURL, video.Duration, video.ViewLimit, video.AutoPrivate)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video and its dependent engagement rows.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Stats aggregates counters across all videos.
func (r *PostgresVideoRepository) Stats(ctx context.Context) (VideoStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return VideoStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT COUNT(*),
               COALESCE(SUM(views), 0),
               COALESCE(SUM(likes), 0),
               COUNT(*) FILTER (WHERE visibility = 'public'),
               COUNT(*) FILTER (WHERE visibility = 'private'),
               COUNT(*) FILTER (WHERE visibility = 'unlisted')
        FROM videos
    `)

	var stats VideoStats
	if err := row.Scan(&stats.TotalVideos, &stats.TotalViews, &stats.TotalLikes,
		&stats.PublicVideos, &stats.PrivateVideos, &stats.UnlistedVideos); err != nil {
		return VideoStats{}, fmt.Errorf("scan video stats: %w", err)
	}

	return stats, nil
}

// SweepAutoPrivate flips public videos past their view limit to private and
// returns the affected ids.
func (r *PostgresVideoRepository) SweepAutoPrivate(ctx context.Context) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        UPDATE videos
        SET visibility = 'private'
        WHERE auto_private
          AND view_limit > 0
          AND views >= view_limit
          AND visibility = 'public'
        RETURNING id
    `)
	if err != nil {
		return nil, fmt.Errorf("sweep auto-private videos: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swept video id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swept videos: %w", err)
	}

	return ids, nil
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var video models.Video
	if err := row.Scan(&video.ID, &video.UploaderID, &video.UploaderEmail, &video.Title,
		&video.Description, &video.Category, &video.Visibility, &video.VideoURL,
		&video.ThumbnailURL, &video.Duration, &video.Views, &video.Likes,
		&video.UploadDate, &video.ViewLimit, &video.AutoPrivate, &video.AssetSize); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("scan video: %w", err)
	}
	return video, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
