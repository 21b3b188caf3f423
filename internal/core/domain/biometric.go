package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrReadingNotFound      = errors.New("biometric reading not found")
	ErrInvalidHRV           = errors.New("hrv must be greater than zero")
	ErrInvalidRestingHR     = errors.New("resting heart rate cannot be negative")
	ErrInvalidRecoveryScore = errors.New("recovery score must be between 0 and 100")
)

const DefaultReadingSource = "manual"

// BiometricReading is one morning measurement. A user has at most one
// reading per calendar day; a later write for the same day replaces it.
type BiometricReading struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"userId" db:"user_id"`
	Date          time.Time `json:"date" db:"date"`
	HRVMs         float64   `json:"hrvMs" db:"hrv_ms"`
	RestingHR     float64   `json:"restingHR" db:"resting_hr"`
	RecoveryScore *float64  `json:"recoveryScore,omitempty" db:"recovery_score"`
	Source        string    `json:"source" db:"source"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func NewBiometricReading(userID string, date time.Time, hrv, restingHR float64, recovery *float64, source string) (*BiometricReading, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUserID
	}

	r := &BiometricReading{
		UserID:        userID,
		Date:          Day(date),
		HRVMs:         hrv,
		RestingHR:     restingHR,
		RecoveryScore: recovery,
		Source:        strings.TrimSpace(source),
	}
	if r.Source == "" {
		r.Source = DefaultReadingSource
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	return r, nil
}

func (r *BiometricReading) Validate() error {
	if r.HRVMs <= 0 {
		return ErrInvalidHRV
	}
	if r.RestingHR < 0 {
		return ErrInvalidRestingHR
	}
	if r.RecoveryScore != nil && (*r.RecoveryScore < 0 || *r.RecoveryScore > 100) {
		return ErrInvalidRecoveryScore
	}
	return nil
}
