package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = prev })

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ok", func(c *gin.Context) {
		c.Set(ContextUserIDKey, "user-1")
		c.Status(http.StatusOK)
	})
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db exploded"))
		c.Status(http.StatusInternalServerError)
	})

	t.Run("Success is logged at debug with the user", func(t *testing.T) {
		buf.Reset()
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

		out := buf.String()
		assert.Contains(t, out, `"level":"debug"`)
		assert.Contains(t, out, `"status":200`)
		assert.Contains(t, out, `"user_id":"user-1"`)
	})

	t.Run("Server errors carry the cause", func(t *testing.T) {
		buf.Reset()
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

		out := buf.String()
		assert.Contains(t, out, `"level":"error"`)
		assert.Contains(t, out, "db exploded")
	})
}
