package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	_ "github.com/comitanigiacomo/kanso-hrv-engine/docs"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-hrv-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/config"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/services"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/workers"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/logging"
)

// @title                      Kanso HRV Engine API
// @version                    1.0
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logging.Init(false)
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logging.Init(cfg.Verbose)
	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("host", cfg.DB.Host).Msg("Connecting to database...")

	db, err := sqlx.Connect("pgx", cfg.DB.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DB.MaxConns)
	db.SetMaxIdleConns(cfg.DB.MaxConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := repository.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}
	log.Info().Msg("Database connected successfully")

	var (
		rdb           *redis.Client
		analysisCache domain.AnalysisCache
		refreshQueue  services.RefreshQueue
	)

	readingRepo := repository.NewPostgresReadingRepository(db)
	habitRepo := repository.NewPostgresHabitLogRepository(db)
	planRepo := repository.NewPostgresPlanRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)
	var profileRepo domain.ProfileRepository = repository.NewPostgresProfileRepository(db)

	rdb, err = cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache and rate limiting")
	} else {
		defer rdb.Close()

		redisCache := cache.NewRedisAnalysisCache(rdb, cfg.Analysis.CacheTTL)
		analysisCache = redisCache
		profileRepo = repository.NewCachedProfileRepository(profileRepo, rdb)

		worker := workers.NewInsightWorker(readingRepo, habitRepo, redisCache, cfg.Analysis.WindowDays)
		worker.Start(ctx)
		refreshQueue = worker
	}

	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, userRepo)
	authService := services.NewAuthService(userRepo, tokenService)
	readingService := services.NewReadingService(readingRepo, analysisCache, refreshQueue)
	habitLogService := services.NewHabitLogService(habitRepo, analysisCache, refreshQueue)
	insightService := services.NewInsightService(readingRepo, habitRepo, analysisCache, cfg.Analysis.WindowDays)
	morningService := services.NewMorningService(readingRepo, habitRepo, profileRepo, planRepo, insightService)
	profileService := services.NewProfileService(profileRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService),
		ReadingHandler:  adapterHTTP.NewReadingHandler(readingService, time.Now),
		HabitLogHandler: adapterHTTP.NewHabitLogHandler(habitLogService, time.Now),
		InsightHandler:  adapterHTTP.NewInsightHandler(insightService, time.Now),
		MorningHandler:  adapterHTTP.NewMorningHandler(morningService, time.Now),
		ProfileHandler:  adapterHTTP.NewProfileHandler(profileService),
		TokenValidator:  tokenService,
		DB:              db,
		Redis:           rdb,
		RateLimit:       cfg.Analysis.RateLimit,
		RateWindow:      cfg.Analysis.RateWindow,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Msgf("Kanso HRV Engine running on http://localhost:%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
		os.Exit(1)
	}

	log.Info().Msg("Server stopped gracefully")
}
