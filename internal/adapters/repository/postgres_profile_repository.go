package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

var (
	_ domain.ProfileRepository = (*PostgresProfileRepository)(nil)
	_ domain.PlanRepository    = (*PostgresPlanRepository)(nil)
)

type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Get(ctx context.Context, userID string) (*domain.HealthProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var profile domain.HealthProfile
	query := `SELECT * FROM health_profiles WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("repository: get profile failed: %w", err)
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) Save(ctx context.Context, profile *domain.HealthProfile) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO health_profiles (
			user_id, age, gender, target_hrv, primary_goal, activity_level, updated_at
		) VALUES (
			:user_id, :age, :gender, :target_hrv, :primary_goal, :activity_level, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			target_hrv = EXCLUDED.target_hrv,
			primary_goal = EXCLUDED.primary_goal,
			activity_level = EXCLUDED.activity_level,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: save profile failed: %w", err)
	}
	return nil
}

type PostgresPlanRepository struct {
	db *sqlx.DB
}

func NewPostgresPlanRepository(db *sqlx.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{db: db}
}

func (r *PostgresPlanRepository) GetAdherence(ctx context.Context, userID string, date time.Time) (*domain.PlanAdherence, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var adherence domain.PlanAdherence
	query := `SELECT * FROM plan_adherence WHERE user_id = $1 AND date = $2`

	if err := r.db.GetContext(ctx, &adherence, query, userID, domain.Day(date)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAdherenceNotFound
		}
		return nil, fmt.Errorf("repository: get adherence failed: %w", err)
	}

	adherence.Date = domain.Day(adherence.Date)
	return &adherence, nil
}

func (r *PostgresPlanRepository) SaveAdherence(ctx context.Context, adherence *domain.PlanAdherence) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO plan_adherence (
			user_id, date, completed_actions, total_actions, day_quality, notes
		) VALUES (
			:user_id, :date, :completed_actions, :total_actions, :day_quality, :notes
		)
		ON CONFLICT (user_id, date) DO UPDATE SET
			completed_actions = EXCLUDED.completed_actions,
			total_actions = EXCLUDED.total_actions,
			day_quality = EXCLUDED.day_quality,
			notes = EXCLUDED.notes`

	if _, err := r.db.NamedExecContext(ctx, query, adherence); err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: save adherence failed: %w", err)
	}
	return nil
}
