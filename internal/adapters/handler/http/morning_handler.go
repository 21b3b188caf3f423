package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/services"
)

type MorningHandler struct {
	svc *services.MorningService
	now Clock
}

func NewMorningHandler(svc *services.MorningService, now Clock) *MorningHandler {
	if now == nil {
		now = time.Now
	}
	return &MorningHandler{svc: svc, now: now}
}

type yesterdayPlanRequest struct {
	CompletedActions int    `json:"completedActions"`
	TotalActions     int    `json:"totalActions"`
	DayQuality       *int   `json:"dayQuality"`
	Notes            string `json:"notes"`
}

type morningRequest struct {
	Date          string                `json:"date"`
	YesterdayPlan *yesterdayPlanRequest `json:"yesterdayPlan"`
}

func (h *MorningHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/morning/analysis", h.Analyze)
}

// Analyze godoc
// @Summary  Build today's morning analysis and plan
// @Description Requires today's reading. yesterdayPlan, when given, is stored as the previous day's adherence.
// @Tags     morning
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body morningRequest false "Optional date and yesterday's adherence"
// @Success  200 {object} domain.DailyAnalysis
// @Failure  404 {object} map[string]string
// @Router   /morning/analysis [post]
func (h *MorningHandler) Analyze(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req morningRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
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

	input := services.MorningInput{UserID: userID, Date: date}
	if p := req.YesterdayPlan; p != nil {
		input.YesterdayPlan = &domain.PlanAdherence{
			CompletedActions: p.CompletedActions,
			TotalActions:     p.TotalActions,
			DayQuality:       p.DayQuality,
			Notes:            p.Notes,
		}
	}

	analysis, err := h.svc.Analyze(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}
