package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

var _ domain.ReadingRepository = (*PostgresReadingRepository)(nil)

type PostgresReadingRepository struct {
	db *sqlx.DB
}

func NewPostgresReadingRepository(db *sqlx.DB) *PostgresReadingRepository {
	return &PostgresReadingRepository{db: db}
}

func (r *PostgresReadingRepository) Upsert(ctx context.Context, reading *domain.BiometricReading) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if reading.ID == "" {
		reading.ID = uuid.NewString()
	}

	query := `
		INSERT INTO biometric_readings (
			id, user_id, date, hrv_ms, resting_hr,
			recovery_score, source, created_at, updated_at
		) VALUES (
			:id, :user_id, :date, :hrv_ms, :resting_hr,
			:recovery_score, :source, :created_at, :updated_at
		)
		ON CONFLICT (user_id, date) DO UPDATE SET
			hrv_ms = EXCLUDED.hrv_ms,
			resting_hr = EXCLUDED.resting_hr,
			recovery_score = EXCLUDED.recovery_score,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, reading); err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: upsert reading failed: %w", err)
	}
	return nil
}

func (r *PostgresReadingRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.BiometricReading, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var reading domain.BiometricReading
	query := `SELECT * FROM biometric_readings WHERE user_id = $1 AND date = $2`

	if err := r.db.GetContext(ctx, &reading, query, userID, domain.Day(date)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReadingNotFound
		}
		return nil, fmt.Errorf("repository: get reading failed: %w", err)
	}

	reading.Date = domain.Day(reading.Date)
	return &reading, nil
}

func (r *PostgresReadingRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.BiometricReading, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	readings := []domain.BiometricReading{}
	query := `
		SELECT * FROM biometric_readings
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC`

	if err := r.db.SelectContext(ctx, &readings, query, userID, domain.Day(from), domain.Day(to)); err != nil {
		return nil, fmt.Errorf("repository: list readings failed: %w", err)
	}

	for i := range readings {
		readings[i].Date = domain.Day(readings[i].Date)
	}
	return readings, nil
}
