package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/services"
)

type ReadingHandler struct {
	svc *services.ReadingService
	now Clock
}

func NewReadingHandler(svc *services.ReadingService, now Clock) *ReadingHandler {
	if now == nil {
		now = time.Now
	}
	return &ReadingHandler{svc: svc, now: now}
}

type recordReadingRequest struct {
	Date          string   `json:"date"`
	HRVMs         float64  `json:"hrvMs" binding:"required"`
	RestingHR     float64  `json:"restingHR"`
	RecoveryScore *float64 `json:"recoveryScore"`
	Source        string   `json:"source"`
}

func (h *ReadingHandler) RegisterRoutes(router *gin.RouterGroup) {
	readings := router.Group("/readings")
	{
		readings.PUT("", h.Record)
		readings.GET("", h.List)
	}
}

// Record godoc
// @Summary  Store the morning reading for a day (last write wins)
// @Tags     readings
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body recordReadingRequest true "Reading; date defaults to today"
// @Success  200 {object} domain.BiometricReading
// @Failure  400 {object} map[string]string
// @Router   /readings [put]
func (h *ReadingHandler) Record(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req recordReadingRequest
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

	reading, err := h.svc.Record(c.Request.Context(), services.RecordReadingInput{
		UserID:        userID,
		Date:          date,
		HRVMs:         req.HRVMs,
		RestingHR:     req.RestingHR,
		RecoveryScore: req.RecoveryScore,
		Source:        req.Source,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reading)
}

// List godoc
// @Summary  List readings in a date range
// @Tags     readings
// @Produce  json
// @Security BearerAuth
// @Param    from query string false "YYYY-MM-DD, default 30 days before to"
// @Param    to   query string false "YYYY-MM-DD, default today"
// @Success  200 {array} domain.BiometricReading
// @Router   /readings [get]
func (h *ReadingHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	from, to, err := parseRange(c, h.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	readings, err := h.svc.List(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, readings)
}
