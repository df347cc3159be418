package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reelvault/backend/internal/db"
	"github.com/reelvault/backend/internal/models"
)

// PostgresProfileRepository provides PostgreSQL-backed persistence for viewer profiles.
type PostgresProfileRepository struct {
	pool db.Pool
}

// NewPostgresProfileRepository constructs a profile repository backed by PostgreSQL.
func NewPostgresProfileRepository(pool db.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Get returns the profile, creating an empty one if none exists yet.
func (r *PostgresProfileRepository) Get(ctx context.Context, userID string) (models.ViewerProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ViewerProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        INSERT INTO viewer_profiles (user_id, updated_at)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO NOTHING
    `, userID, time.Now().UTC()); err != nil {
		return models.ViewerProfile{}, fmt.Errorf("ensure viewer profile: %w", err)
	}

	row := conn.QueryRow(ctx, `
        SELECT user_id, birthday, gender, country, city, education_level, occupation,
               content_preferences, points, points_earned, points_redeemed,
               onboarding_completed, updated_at
        FROM viewer_profiles
        WHERE user_id = $1
    `, userID)

	return scanProfile(row)
}

// Apply merges the update into the profile and marks onboarding complete.
func (r *PostgresProfileRepository) Apply(ctx context.Context, userID string, update ProfileUpdate) (models.ViewerProfile, error) {
	if _, err := r.Get(ctx, userID); err != nil {
		return models.ViewerProfile{}, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ViewerProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var birthday any
	if update.Birthday != nil {
		parsed, err := time.Parse("2006-01-02", *update.Birthday)
		if err != nil {
			return models.ViewerProfile{}, fmt.Errorf("parse birthday: %w", err)
		}
		birthday = parsed
	}

	row := conn.QueryRow(ctx, `
        UPDATE viewer_profiles
        SET birthday = COALESCE($2, birthday),
            gender = COALESCE($3, gender),
            country = COALESCE($4, country),
            city = COALESCE($5, city),
            education_level = COALESCE($6, education_level),
            occupation = COALESCE($7, occupation),
            content_preferences = COALESCE($8, content_preferences),
            onboarding_completed = TRUE,
            updated_at = $9
        WHERE user_id = $1
        RETURNING user_id, birthday, gender, country, city, education_level, occupation,
                  content_preferences, points, points_earned, points_redeemed,
                  onboarding_completed, updated_at
    `, userID, birthday, update.Gender, update.Country, update.City,
		update.EducationLevel, update.Occupation, update.ContentPreferences, time.Now().UTC())

	return scanProfile(row)
}

// AwardPoints adds points to the balance and the lifetime earned total.
func (r *PostgresProfileRepository) AwardPoints(ctx context.Context, userID string, points int64) (int64, error) {
	if _, err := r.Get(ctx, userID); err != nil {
		return 0, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE viewer_profiles
        SET points = points + $2,
            points_earned = points_earned + $2,
            updated_at = $3
        WHERE user_id = $1
        RETURNING points
    `, userID, points, time.Now().UTC())

	var balance int64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("award points: %w", err)
	}

	return balance, nil
}

func scanProfile(row pgx.Row) (models.ViewerProfile, error) {
	var (
		profile  models.ViewerProfile
		birthday sql.NullTime
	)
	if err := row.Scan(&profile.UserID, &birthday, &profile.Gender, &profile.Country,
		&profile.City, &profile.EducationLevel, &profile.Occupation, &profile.ContentPreferences,
		&profile.Points, &profile.PointsEarned, &profile.PointsRedeemed,
		&profile.OnboardingCompleted, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ViewerProfile{}, ErrNotFound
		}
		return models.ViewerProfile{}, fmt.Errorf("scan viewer profile: %w", err)
	}

	if birthday.Valid {
		t := birthday.Time.UTC()
		profile.Birthday = &t
	}

	return profile, nil
}

var _ ProfileRepository = (*PostgresProfileRepository)(nil)
