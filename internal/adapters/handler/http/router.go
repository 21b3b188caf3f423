package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/adapters/handler/http/middleware"
)

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	ReadingHandler  *ReadingHandler
	HabitLogHandler *HabitLogHandler
	InsightHandler  *InsightHandler
	MorningHandler  *MorningHandler
	ProfileHandler  *ProfileHandler
	TokenValidator  middleware.TokenValidator
	DB              *sqlx.DB
	Redis           *redis.Client
	RateLimit       int
	RateWindow      time.Duration
	StartTime       time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"POST", "GET", "OPTIONS", "PUT", "DELETE"},
		AllowHeaders:  []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}))

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateWindow))
	}

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if deps.DB == nil || deps.DB.PingContext(c.Request.Context()) != nil {
			dbStatus = "unreachable"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(c.Request.Context()).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.TokenValidator))
	{
		deps.ReadingHandler.RegisterRoutes(protected)
		deps.HabitLogHandler.RegisterRoutes(protected)
		deps.InsightHandler.RegisterRoutes(protected)
		deps.MorningHandler.RegisterRoutes(protected)
		deps.ProfileHandler.RegisterRoutes(protected)
	}

	return router
}
