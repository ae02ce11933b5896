package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisAlshanov/ytmp3/internal/config"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Name() string { return "github" }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func validConfig() *config.Config {
	return &config.Config{
		Download:  config.DownloadConfig{MinAudioBytes: 50000},
		Providers: config.ProvidersConfig{RapidAPIKey: "k", Enabled: []string{"youtube-mp36"}},
		Title:     config.TitleConfig{Strategy: config.TitleStrategyPage},
		Storage:   config.StorageConfig{Backend: config.StorageBackendGitHub, Branches: []string{"main"}},
		GitHub:    config.GitHubConfig{Token: "t", Owner: "o", Repo: "r"},
	}
}

func newHealthEngine(h *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Readiness)
	engine.GET("/live", h.Liveness)
	return engine
}

func TestHealthReportsStore(t *testing.T) {
	engine := newHealthEngine(NewHealthHandler(validConfig(), stubPinger{}))

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Services["github"].Status)
	assert.Equal(t, "healthy", resp.Services["config"].Status)
}

func TestHealthUnhealthyWhenStoreUnreachable(t *testing.T) {
	engine := newHealthEngine(NewHealthHandler(validConfig(), stubPinger{err: errors.New("GitHub unreachable")}))

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "GitHub unreachable", resp.Services["github"].Error)
}

func TestReadinessFailsWithoutCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.GitHub.Token = ""
	engine := newHealthEngine(NewHealthHandler(cfg, nil))

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "GITHUB_TOKEN")
}

func TestLiveness(t *testing.T) {
	engine := newHealthEngine(NewHealthHandler(validConfig(), nil))

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alive":true`)
}
