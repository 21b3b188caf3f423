package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

var _ domain.HabitLogRepository = (*PostgresHabitLogRepository)(nil)

const habitLogColumns = `id, user_id, date, sleep, exercise, alcohol, meditation,
	stress_level, cold_exposure, notes, created_at, updated_at`

// PostgresHabitLogRepository stores the nested sub-records of a day's log
// as JSONB columns. Unlogged sleep, exercise and stress are NULL.
type PostgresHabitLogRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitLogRepository(db *sqlx.DB) *PostgresHabitLogRepository {
	return &PostgresHabitLogRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresHabitLogRepository) scanRow(row scannable) (*domain.HabitEntry, error) {
	var e domain.HabitEntry
	var sleepJSON, exerciseJSON, alcoholJSON, meditationJSON []byte

	err := row.Scan(
		&e.ID, &e.UserID, &e.Date,
		&sleepJSON, &exerciseJSON, &alcoholJSON, &meditationJSON,
		&e.StressLevel, &e.ColdExposure, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if isJSONValue(sleepJSON) {
		e.Sleep = &domain.SleepLog{}
		if err := json.Unmarshal(sleepJSON, e.Sleep); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sleep: %w", err)
		}
	}
	if isJSONValue(exerciseJSON) {
		e.Exercise = &domain.ExerciseLog{}
		if err := json.Unmarshal(exerciseJSON, e.Exercise); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exercise: %w", err)
		}
	}
	if err := json.Unmarshal(alcoholJSON, &e.Alcohol); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alcohol: %w", err)
	}
	if err := json.Unmarshal(meditationJSON, &e.Meditation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meditation: %w", err)
	}

	e.Date = domain.Day(e.Date)
	return &e, nil
}

func (r *PostgresHabitLogRepository) Upsert(ctx context.Context, entry *domain.HabitEntry) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	sleepJSON, err := nullableJSON(entry.Sleep)
	if err != nil {
		return fmt.Errorf("failed to marshal sleep: %w", err)
	}
	exerciseJSON, err := nullableJSON(entry.Exercise)
	if err != nil {
		return fmt.Errorf("failed to marshal exercise: %w", err)
	}
	alcoholJSON, err := json.Marshal(entry.Alcohol)
	if err != nil {
		return fmt.Errorf("failed to marshal alcohol: %w", err)
	}
	meditationJSON, err := json.Marshal(entry.Meditation)
	if err != nil {
		return fmt.Errorf("failed to marshal meditation: %w", err)
	}

	query := `
		INSERT INTO habit_logs (` + habitLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, date) DO UPDATE SET
			sleep = EXCLUDED.sleep,
			exercise = EXCLUDED.exercise,
			alcohol = EXCLUDED.alcohol,
			meditation = EXCLUDED.meditation,
			stress_level = EXCLUDED.stress_level,
			cold_exposure = EXCLUDED.cold_exposure,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, domain.Day(entry.Date),
		sleepJSON, exerciseJSON, string(alcoholJSON), string(meditationJSON),
		entry.StressLevel, entry.ColdExposure, entry.Notes,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: upsert habit log failed: %w", err)
	}
	return nil
}

func (r *PostgresHabitLogRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.HabitEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + habitLogColumns + ` FROM habit_logs WHERE user_id = $1 AND date = $2`

	entry, err := r.scanRow(r.db.QueryRowxContext(ctx, query, userID, domain.Day(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("repository: get habit log failed: %w", err)
	}
	return entry, nil
}

func (r *PostgresHabitLogRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.HabitEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + habitLogColumns + ` FROM habit_logs
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC`

	rows, err := r.db.QueryxContext(ctx, query, userID, domain.Day(from), domain.Day(to))
	if err != nil {
		return nil, fmt.Errorf("repository: list habit logs failed: %w", err)
	}
	defer rows.Close()

	entries := []domain.HabitEntry{}
	for rows.Next() {
		entry, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: scan habit log failed: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: list habit logs failed: %w", err)
	}
	return entries, nil
}

// nullableJSON encodes v, mapping a nil pointer to SQL NULL.
func nullableJSON[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func isJSONValue(raw []byte) bool {
	return len(raw) > 0 && string(raw) != "null"
}
