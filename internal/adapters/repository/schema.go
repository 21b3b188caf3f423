package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS biometric_readings (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date           DATE NOT NULL,
		hrv_ms         DOUBLE PRECISION NOT NULL CHECK (hrv_ms > 0),
		resting_hr     DOUBLE PRECISION NOT NULL DEFAULT 0,
		recovery_score DOUBLE PRECISION CHECK (recovery_score BETWEEN 0 AND 100),
		source         TEXT NOT NULL DEFAULT 'manual',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS habit_logs (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date          DATE NOT NULL,
		sleep         JSONB,
		exercise      JSONB,
		alcohol       JSONB NOT NULL,
		meditation    JSONB NOT NULL,
		stress_level  SMALLINT CHECK (stress_level BETWEEN 1 AND 5),
		cold_exposure BOOLEAN NOT NULL DEFAULT FALSE,
		notes         TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, date)
	)`,
	`ALTER TABLE habit_logs ALTER COLUMN sleep DROP NOT NULL`,
	`ALTER TABLE habit_logs ALTER COLUMN stress_level DROP NOT NULL`,
	`CREATE TABLE IF NOT EXISTS health_profiles (
		user_id        TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		age            INTEGER NOT NULL DEFAULT 0,
		gender         TEXT NOT NULL DEFAULT '',
		target_hrv     DOUBLE PRECISION,
		primary_goal   TEXT NOT NULL DEFAULT '',
		activity_level TEXT NOT NULL DEFAULT '',
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS plan_adherence (
		user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date              DATE NOT NULL,
		completed_actions INTEGER NOT NULL,
		total_actions     INTEGER NOT NULL,
		day_quality       INTEGER,
		notes             TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, date)
	)`,
}

// EnsureSchema creates the tables used by the Postgres repositories. It is
// idempotent.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin schema tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("repository: apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: commit schema: %w", err)
	}
	return nil
}

// pgErrorCode extracts the SQLSTATE from errors raised by either the pgx or
// the lib/pq driver.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
