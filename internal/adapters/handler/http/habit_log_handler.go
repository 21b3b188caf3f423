package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/services"
)

type HabitLogHandler struct {
	svc *services.HabitLogService
	now Clock
}

func NewHabitLogHandler(svc *services.HabitLogService, now Clock) *HabitLogHandler {
	if now == nil {
		now = time.Now
	}
	return &HabitLogHandler{svc: svc, now: now}
}

// logHabitsRequest is a partial log: omitted sections keep their stored
// value. noExercise clears a previously logged workout.
type logHabitsRequest struct {
	Date         string                `json:"date"`
	Sleep        *domain.SleepLog      `json:"sleep"`
	Exercise     *domain.ExerciseLog   `json:"exercise"`
	NoExercise   bool                  `json:"noExercise"`
	Alcohol      *domain.AlcoholLog    `json:"alcohol"`
	Meditation   *domain.MeditationLog `json:"meditation"`
	StressLevel  *int                  `json:"stressLevel"`
	ColdExposure *bool                 `json:"coldExposure"`
	Notes        *string               `json:"notes"`
}

func (h *HabitLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/habits/log")
	{
		logs.PUT("", h.Log)
		logs.GET("", h.List)
		logs.GET("/:date", h.GetByDate)
	}
}

// Log godoc
// @Summary  Create or patch the habit log of a day
// @Tags     habits
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body logHabitsRequest true "Partial habit log; date defaults to today"
// @Success  200 {object} domain.HabitEntry
// @Failure  400 {object} map[string]string
// @Router   /habits/log [put]
func (h *HabitLogHandler) Log(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req logHabitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := domain.Day(h.now().UTC())
	if req.Date != "" {
		parsed, err := domain.ParseDay(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	entry, err := h.svc.Log(c.Request.Context(), services.LogHabitsInput{
		UserID: userID,
		Date:   date,
		Patch: domain.HabitEntryPatch{
			Sleep:        req.Sleep,
			Exercise:     req.Exercise,
			NoExercise:   req.NoExercise,
			Alcohol:      req.Alcohol,
			Meditation:   req.Meditation,
			StressLevel:  req.StressLevel,
			ColdExposure: req.ColdExposure,
			Notes:        req.Notes,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetByDate godoc
// @Summary  Get the habit log of one day
// @Tags     habits
// @Produce  json
// @Security BearerAuth
// @Param    date path string true "YYYY-MM-DD"
// @Success  200 {object} domain.HabitEntry
// @Failure  404 {object} map[string]string
// @Router   /habits/log/{date} [get]
func (h *HabitLogHandler) GetByDate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	date, err := domain.ParseDay(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	entry, err := h.svc.GetByDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// List godoc
// @Summary  List habit logs in a date range
// @Tags     habits
// @Produce  json
// @Security BearerAuth
// @Param    from query string false "YYYY-MM-DD, default 30 days before to"
// @Param    to   query string false "YYYY-MM-DD, default today"
// @Success  200 {array} domain.HabitEntry
// @Router   /habits/log [get]
func (h *HabitLogHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	from, to, err := parseRange(c, h.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.svc.List(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
