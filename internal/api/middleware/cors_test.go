package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/denisAlshanov/ytmp3/internal/config"
)

func newCORSEngine(cfg *config.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware(cfg))
	engine.Any("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return engine
}

func TestCORSAllowListEchoesOrigin(t *testing.T) {
	engine := newCORSEngine(&config.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"https://ui.example.test"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"content-type"},
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://ui.example.test")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "https://ui.example.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.test")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	engine := newCORSEngine(&config.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"content-type"},
		MaxAge:         600,
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Allow"))
}

func TestCORSDisabled(t *testing.T) {
	engine := newCORSEngine(&config.CORSConfig{Enabled: false, AllowedOrigins: []string{"*"}})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
