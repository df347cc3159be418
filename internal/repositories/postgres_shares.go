package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reelvault/backend/internal/db"
	"github.com/reelvault/backend/internal/models"
)

// PostgresShareRepository provides PostgreSQL-backed persistence for share links.
type PostgresShareRepository struct {
	pool db.Pool
}

// NewPostgresShareRepository constructs a share repository backed by PostgreSQL.
func NewPostgresShareRepository(pool db.Pool) *PostgresShareRepository {
	return &PostgresShareRepository{pool: pool}
}

// Create stores a new share link.
func (r *PostgresShareRepository) Create(ctx context.Context, share models.VideoShare) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO video_shares (token, video_id, created_by, active, access_count, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, share.Token, share.VideoID, share.CreatedBy, share.Active, share.AccessCount, share.CreatedAt)
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
		return fmt.Errorf("insert video share: %w", err)
	}

	return nil
}

// FindActiveByToken returns the active share for the token.
func (r *PostgresShareRepository) FindActiveByToken(ctx context.Context, token string) (models.VideoShare, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoShare{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT token, video_id, created_by, active, access_count, created_at
        FROM video_shares
        WHERE token = $1 AND active
    `, token)

	var share models.VideoShare
	if err := row.Scan(&share.Token, &share.VideoID, &share.CreatedBy, &share.Active, &share.AccessCount, &share.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VideoShare{}, ErrNotFound
		}
		return models.VideoShare{}, fmt.Errorf("select video share: %w", err)
	}

	return share, nil
}

// IncrementAccess bumps the share's access counter.
func (r *PostgresShareRepository) IncrementAccess(ctx context.Context, token string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE video_shares
        SET access_count = access_count + 1
        WHERE token = $1
    `, token)
	if err != nil {
		return fmt.Errorf("increment share access: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

var _ ShareRepository = (*PostgresShareRepository)(nil)
