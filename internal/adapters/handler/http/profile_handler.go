package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/services"
)

type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type profileRequest struct {
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
	TargetHRV     *float64 `json:"targetHRV"`
	PrimaryGoal   string   `json:"primaryGoal"`
	ActivityLevel string   `json:"activityLevel"`
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.PUT("", h.Save)
		profile.GET("", h.Get)
	}
}

// Save godoc
// @Summary  Replace the caller's health profile
// @Tags     profile
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body profileRequest true "Profile"
// @Success  200 {object} domain.HealthProfile
// @Failure  400 {object} map[string]string
// @Router   /profile [put]
func (h *ProfileHandler) Save(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.Save(c.Request.Context(), services.SaveProfileInput{
		UserID:        userID,
		Age:           req.Age,
		Gender:        req.Gender,
		TargetHRV:     req.TargetHRV,
		PrimaryGoal:   req.PrimaryGoal,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Get godoc
// @Summary  Get the caller's health profile
// @Tags     profile
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} domain.HealthProfile
// @Failure  404 {object} map[string]string
// @Router   /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
