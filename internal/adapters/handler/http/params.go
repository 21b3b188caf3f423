package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

const (
	maxDaysRange     = 366
	defaultRangeDays = 30
)

var errInvalidQuery = errors.New("invalid query parameter")

// Clock returns the current time; handlers use it to resolve "today".
type Clock func() time.Time

func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}

// parseDay parses a YYYY-MM-DD query value, falling back to today when absent.
func parseDay(c *gin.Context, key string, today time.Time) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return domain.Day(today), nil
	}
	day, err := domain.ParseDay(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", errInvalidQuery, key)
	}
	return day, nil
}

// parseRange reads from/to; to defaults to today and from to 30 days before.
func parseRange(c *gin.Context, today time.Time) (time.Time, time.Time, error) {
	to, err := parseDay(c, "to", today)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := parseDay(c, "from", to.AddDate(0, 0, -(defaultRangeDays-1)))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	if to.Sub(from).Hours()/24 > maxDaysRange {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date range too large, max 1 year allowed", errInvalidQuery)
	}
	return from, to, nil
}

func parseBoolQuery(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", errInvalidQuery, key)
	}
	return v, nil
}

func parseIntQuery(c *gin.Context, key string, fallback, lo, hi int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s must be an integer between %d and %d", errInvalidQuery, key, lo, hi)
	}
	return v, nil
}
