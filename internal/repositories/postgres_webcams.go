package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reelvault/backend/internal/db"
	"github.com/reelvault/backend/internal/models"
)

// PostgresWebcamRepository provides PostgreSQL-backed persistence for webcam recordings.
type PostgresWebcamRepository struct {
	pool db.Pool
}

// NewPostgresWebcamRepository constructs a webcam repository backed by PostgreSQL.
func NewPostgresWebcamRepository(pool db.Pool) *PostgresWebcamRepository {
	return &PostgresWebcamRepository{pool: pool}
}

// Create stores a new pending recording.
func (r *PostgresWebcamRepository) Create(ctx context.Context, recording models.WebcamRecording) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	status := recording.Status
	if status == "" {
		status = models.RecordingStatusPending
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO webcam_recordings (id, video_id, recorder_id, filename, status,
                                       recording_url, size_bytes, recording_date, upload_completed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, recording.ID, recording.VideoID, recording.RecorderID, recording.Filename, status,
		recording.RecordingURL, recording.Size, recording.RecordingDate, recording.UploadCompletedAt)
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
		return fmt.Errorf("insert webcam recording: %w", err)
	}

	return nil
}

// MarkCompleted records a confirmed upload.
func (r *PostgresWebcamRepository) MarkCompleted(ctx context.Context, id, recordingURL string, size int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE webcam_recordings
        SET status = $2, recording_url = $3, size_bytes = $4, upload_completed_at = $5
        WHERE id = $1
    `, id, models.RecordingStatusCompleted, recordingURL, size, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark recording completed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// MarkFailed records a failed upload.
func (r *PostgresWebcamRepository) MarkFailed(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE webcam_recordings
        SET status = $2
        WHERE id = $1
    `, id, models.RecordingStatusFailed)
	if err != nil {
		return fmt.Errorf("mark recording failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns recordings newest first, optionally filtered by status.
func (r *PostgresWebcamRepository) List(ctx context.Context, status string, limit int) ([]models.WebcamRecording, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if limit <= 0 {
		limit = 100
	}

	rows, err := conn.Query(ctx, `
        SELECT id, video_id, recorder_id, filename, status, recording_url,
               size_bytes, recording_date, upload_completed_at
        FROM webcam_recordings
        WHERE ($1 = '' OR status = $1)
        ORDER BY recording_date DESC
        LIMIT $2
    `, status, limit)
	if err != nil {
		return nil, fmt.Errorf("query webcam recordings: %w", err)
	}
	defer rows.Close()

	var recordings []models.WebcamRecording
	for rows.Next() {
		var (
			rec         models.WebcamRecording
			completedAt sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.VideoID, &rec.RecorderID, &rec.Filename, &rec.Status,
			&rec.RecordingURL, &rec.Size, &rec.RecordingDate, &completedAt); err != nil {
			return nil, fmt.Errorf("scan webcam recording: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time.UTC()
			rec.UploadCompletedAt = &t
		}
		recordings = append(recordings, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webcam recordings: %w", err)
	}

	return recordings, nil
}

var _ WebcamRepository = (*PostgresWebcamRepository)(nil)
