package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reelvault/backend/internal/db"
	"github.com/reelvault/backend/internal/models"
)

// PostgresEngagementRepository persists views and likes in PostgreSQL.
type PostgresEngagementRepository struct {
	pool db.Pool
}

// NewPostgresEngagementRepository constructs an engagement repository backed by PostgreSQL.
func NewPostgresEngagementRepository(pool db.Pool) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{pool: pool}
}

// RecordView increments the view counter, stores the view row, and flips the
// video private when its auto-private view limit is reached.
func (r *PostgresEngagementRepository) RecordView(ctx context.Context, videoID, viewerID string) (int64, bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, false, fmt.Errorf("begin view transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
        UPDATE videos
        SET views = views + 1
        WHERE id = $1
        RETURNING views, view_limit, auto_private, visibility
    `, videoID)

	var (
		views       int64
		viewLimit   int64
		autoPrivate bool
		visibility  string
	)
	if err := row.Scan(&views, &viewLimit, &autoPrivate, &visibility); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, ErrNotFound
		}
		return 0, false, fmt.Errorf("increment views: %w", err)
	}

	var viewer any
	if viewerID != "" {
		viewer = viewerID
	}
	if _, err := tx.Exec(ctx, `
        INSERT INTO video_views (id, video_id, viewer_id, viewed_at)
        VALUES ($1, $2, $3, $4)
    `, uuid.NewString(), videoID, viewer, time.Now().UTC()); err != nil {
		return 0, false, fmt.Errorf("insert video view: %w", err)
	}

	madePrivate := false
	if autoPrivate && viewLimit > 0 && views >= viewLimit && visibility == models.VisibilityPublic {
		if _, err := tx.Exec(ctx, `
            UPDATE videos SET visibility = 'private' WHERE id = $1
        `, videoID); err != nil {
			return 0, false, fmt.Errorf("auto-private video: %w", err)
		}
		madePrivate = true
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, fmt.Errorf("commit view transaction: %w", err)
	}

	return views, madePrivate, nil
}

// ToggleLike flips the like state for (video, user) and keeps the counter in step.
func (r *PostgresEngagementRepository) ToggleLike(ctx context.Context, videoID, userID string) (bool, int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, 0, fmt.Errorf("begin like transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
        DELETE FROM video_likes WHERE video_id = $1 AND user_id = $2
    `, videoID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("delete like: %w", err)
	}

	liked := tag.RowsAffected() == 0
	delta := int64(-1)
	if liked {
		if _, err := tx.Exec(ctx, `
            INSERT INTO video_likes (video_id, user_id, liked_at)
            VALUES ($1, $2, $3)
        `, videoID, userID, time.Now().UTC()); err != nil {
			return false, 0, fmt.Errorf("insert like: %w", err)
		}
		delta = 1
	}

	row := tx.QueryRow(ctx, `
        UPDATE videos
        SET likes = GREATEST(likes + $2, 0)
        WHERE id = $1
        RETURNING likes
    `, videoID, delta)

	var likes int64
	if err := row.Scan(&likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, ErrNotFound
		}
		return false, 0, fmt.Errorf("update like counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("commit like transaction: %w", err)
	}

	return liked, likes, nil
}

// History lists the distinct videos the user viewed, most recent first.
func (r *PostgresEngagementRepository) History(ctx context.Context, userID string, limit int) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if limit <= 0 {
		limit = 100
	}

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`
        FROM videos v
        JOIN users u ON u.id = v.uploader_id
        JOIN (
            SELECT video_id, MAX(viewed_at) AS last_viewed
            FROM video_views
            WHERE viewer_id = $1
            GROUP BY video_id
        ) h ON h.video_id = v.id
        ORDER BY h.last_viewed DESC
        LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query view history: %w", err)
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
		return nil, fmt.Errorf("iterate view history: %w", err)
	}

	return videos, nil
}

var _ EngagementRepository = (*PostgresEngagementRepository)(nil)
