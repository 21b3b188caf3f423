package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-hrv-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/config"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/services"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dbCfg := config.DBConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "kanso_user"),
		Password: getEnv("DB_PASSWORD", "secret"),
		Name:     getEnv("DB_NAME", "kanso_db"),
		SSLMode:  "disable",
	}

	db, err := sqlx.Connect("pgx", dbCfg.DSN())
	if err != nil {
		t.Skipf("Skipping e2e test (Postgres down): %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, repository.EnsureSchema(ctx, db))
	_, err = db.ExecContext(ctx, "TRUNCATE TABLE users CASCADE")
	require.NoError(t, err, "Failed to truncate users table")
	return db
}

func newE2ERouter(db *sqlx.DB) *gin.Engine {
	readingRepo := repository.NewPostgresReadingRepository(db)
	habitRepo := repository.NewPostgresHabitLogRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)
	planRepo := repository.NewPostgresPlanRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	tokens := services.NewTokenService("e2e-secret", "kanso-hrv-engine", time.Hour, userRepo)
	insightService := services.NewInsightService(readingRepo, habitRepo, nil, 90)

	return adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(services.NewAuthService(userRepo, tokens)),
		ReadingHandler:  adapterHTTP.NewReadingHandler(services.NewReadingService(readingRepo, nil, nil), nil),
		HabitLogHandler: adapterHTTP.NewHabitLogHandler(services.NewHabitLogService(habitRepo, nil, nil), nil),
		InsightHandler:  adapterHTTP.NewInsightHandler(insightService, nil),
		MorningHandler:  adapterHTTP.NewMorningHandler(services.NewMorningService(readingRepo, habitRepo, profileRepo, planRepo, insightService), nil),
		ProfileHandler:  adapterHTTP.NewProfileHandler(services.NewProfileService(profileRepo)),
		TokenValidator:  tokens,
		DB:              db,
		StartTime:       time.Now(),
	})
}

func call(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEndToEnd_MorningLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	router := newE2ERouter(db)
	today := domain.Day(time.Now().UTC())

	var token string

	t.Run("1. Register and login", func(t *testing.T) {
		creds := map[string]string{"email": "e2e@kanso.app", "password": "PasswordSuperSegreta1!"}

		w := call(t, router, http.MethodPost, "/api/v1/auth/register", "", creds)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = call(t, router, http.MethodPost, "/api/v1/auth/login", "", creds)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)
		token = resp.Token
	})

	t.Run("2. Log three weeks of data", func(t *testing.T) {
		require.NotEmpty(t, token)

		for i := 20; i >= 0; i-- {
			day := domain.DayKey(today.AddDate(0, 0, -i))
			hrv := 50.0
			habits := map[string]any{"date": day, "sleep": map[string]any{"hours": 7, "quality": 3}}
			if i%2 == 0 {
				hrv += 6
				habits["meditation"] = map[string]any{"practiced": true, "durationMins": 15}
			}

			w := call(t, router, http.MethodPut, "/api/v1/readings", token, map[string]any{"date": day, "hrvMs": hrv, "restingHR": 55})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = call(t, router, http.MethodPut, "/api/v1/habits/log", token, habits)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
	})

	t.Run("3. Correlations find meditation", func(t *testing.T) {
		w := call(t, router, http.MethodGet, "/api/v1/insights/top?limit=1", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var top []domain.Correlation
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &top))
		require.Len(t, top, 1)
		assert.True(t, strings.HasPrefix(top[0].HabitKey, "meditation"), top[0].HabitKey)
		assert.Greater(t, top[0].Coefficient, 0.0)
	})

	t.Run("4. Profile and morning analysis", func(t *testing.T) {
		w := call(t, router, http.MethodPut, "/api/v1/profile", token, map[string]any{"age": 34, "gender": "male", "targetHRV": 65})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = call(t, router, http.MethodPost, "/api/v1/morning/analysis", token, map[string]any{
			"yesterdayPlan": map[string]any{"completedActions": 3, "totalActions": 4},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var analysis domain.DailyAnalysis
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
		assert.NotEmpty(t, analysis.FocusArea)
		require.NotNil(t, analysis.GoalProgress)
		assert.Equal(t, 65.0, analysis.GoalProgress.TargetHRV)
	})

	t.Run("5. Missing or forged tokens are rejected", func(t *testing.T) {
		w := call(t, router, http.MethodGet, "/api/v1/readings", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = call(t, router, http.MethodGet, fmt.Sprintf("/api/v1/habits/log/%s", domain.DayKey(today)), "forged."+token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
