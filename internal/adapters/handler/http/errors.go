package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

var badRequestErrors = []error{
	errInvalidQuery,
	domain.ErrInvalidDateRange,
	domain.ErrInvalidUserID,
	domain.ErrInvalidHRV,
	domain.ErrInvalidRestingHR,
	domain.ErrInvalidRecoveryScore,
	domain.ErrInvalidSleepHours,
	domain.ErrInvalidSleepQuality,
	domain.ErrInvalidStressLevel,
	domain.ErrInvalidDuration,
	domain.ErrInvalidAlcoholUnits,
	domain.ErrInvalidIntensity,
	domain.ErrEntryMissingDate,
	domain.ErrExerciseTypeRequired,
	domain.ErrInvalidAge,
	domain.ErrInvalidGender,
	domain.ErrInvalidTargetHRV,
	domain.ErrInvalidActionCounts,
	domain.ErrInvalidDayQuality,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
}

var notFoundErrors = []error{
	domain.ErrReadingNotFound,
	domain.ErrEntryNotFound,
	domain.ErrProfileNotFound,
	domain.ErrAdherenceNotFound,
	domain.ErrUserNotFound,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError maps domain errors to status codes. Anything unknown is a 500
// with the cause attached to the gin context for the logger.
func respondError(c *gin.Context, err error) {
	switch {
	case isAny(err, badRequestErrors):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case isAny(err, notFoundErrors):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
