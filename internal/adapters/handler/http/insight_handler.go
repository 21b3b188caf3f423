package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/insights"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/services"
)

const (
	defaultTopHabits = 3
	maxTopHabits     = 20
)

type InsightHandler struct {
	svc *services.InsightService
	now Clock
}

func NewInsightHandler(svc *services.InsightService, now Clock) *InsightHandler {
	if now == nil {
		now = time.Now
	}
	return &InsightHandler{svc: svc, now: now}
}

func (h *InsightHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/insights")
	{
		group.GET("/correlations", h.Correlations)
		group.GET("/top", h.TopHabits)
		group.GET("/recommendations", h.Recommendations)
		group.GET("/focus", h.TodaysFocus)
	}
}

// Correlations godoc
// @Summary  Habit/HRV correlation report
// @Tags     insights
// @Produce  json
// @Security BearerAuth
// @Param    date query string false "As-of day, default today"
// @Param    lag  query bool   false "Pair each habit day with the next day's HRV"
// @Success  200 {object} domain.InsightReport
// @Router   /insights/correlations [get]
func (h *InsightHandler) Correlations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	asOf, err := parseDay(c, "date", h.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	useLag, err := parseBoolQuery(c, "lag")
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.svc.Report(c.Request.Context(), userID, asOf, useLag)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// TopHabits godoc
// @Summary  Habits with the largest absolute impact on HRV
// @Tags     insights
// @Produce  json
// @Security BearerAuth
// @Param    date  query string false "As-of day, default today"
// @Param    limit query int    false "1-20, default 3"
// @Success  200 {array} domain.Correlation
// @Router   /insights/top [get]
func (h *InsightHandler) TopHabits(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	asOf, err := parseDay(c, "date", h.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := parseIntQuery(c, "limit", defaultTopHabits, 1, maxTopHabits)
	if err != nil {
		respondError(c, err)
		return
	}

	top, err := h.svc.TopHabits(c.Request.Context(), userID, asOf, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, top)
}

// Recommendations godoc
// @Summary  Ranked habit recommendations
// @Tags     insights
// @Produce  json
// @Security BearerAuth
// @Param    date query string false "As-of day, default today"
// @Param    max  query int    false "1-20, default 5"
// @Success  200 {array} domain.Recommendation
// @Router   /insights/recommendations [get]
func (h *InsightHandler) Recommendations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	asOf, err := parseDay(c, "date", h.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	maxCount, err := parseIntQuery(c, "max", insights.DefaultMaxRecommendations, 1, maxTopHabits)
	if err != nil {
		respondError(c, err)
		return
	}

	recs, err := h.svc.Recommendations(c.Request.Context(), userID, asOf, maxCount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recs)
}

// TodaysFocus godoc
// @Summary  The one recommendation to act on today
// @Tags     insights
// @Produce  json
// @Security BearerAuth
// @Param    date query string false "Day, default today"
// @Success  200 {object} domain.Recommendation
// @Success  204
// @Router   /insights/focus [get]
func (h *InsightHandler) TodaysFocus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	today, err := parseDay(c, "date", h.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	focus, err := h.svc.TodaysFocus(c.Request.Context(), userID, today)
	if err != nil {
		respondError(c, err)
		return
	}
	if focus == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, focus)
}
