package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/utils"
)

const healthCheckTimeout = 5 * time.Second

// Pinger is implemented by content stores that can verify their backend.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	config *config.Config
	store  Pinger
}

type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Version   string                   `json:"version"`
	Services  map[string]ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// NewHealthHandler accepts a nil store; the storage check is then skipped.
func NewHealthHandler(cfg *config.Config, store Pinger) *HealthHandler {
	return &HealthHandler{
		config: cfg,
		store:  store,
	}
}

// Health godoc
// @Summary Health check endpoint
// @Description Check the health of the service and its content store
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Success 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   "1.0.0",
		Services:  make(map[string]ServiceHealth),
	}

	response.Services["config"] = h.checkConfig()
	if h.store != nil {
		response.Services[h.store.Name()] = h.checkStore(ctx)
	}

	for _, service := range response.Services {
		if service.Status != "healthy" {
			response.Status = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
	}

	c.JSON(http.StatusOK, response)
}

// Readiness godoc
// @Summary Readiness check endpoint
// @Description Check if the service has the configuration it needs to convert
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Success 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ready := true
	checks := make(map[string]interface{})

	if err := h.config.Validate(); err != nil {
		ready = false
		checks["config"] = map[string]interface{}{
			"ready": false,
			"error": err.Error(),
		}
	} else {
		checks["config"] = map[string]interface{}{
			"ready": true,
		}
	}

	response := map[string]interface{}{
		"ready":     ready,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	if ready {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// Liveness godoc
// @Summary Liveness check endpoint
// @Description Check if the service is alive
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /live [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) checkConfig() ServiceHealth {
	if err := h.config.Validate(); err != nil {
		return ServiceHealth{
			Status: "unhealthy",
			Error:  err.Error(),
		}
	}
	return ServiceHealth{Status: "healthy"}
}

func (h *HealthHandler) checkStore(ctx context.Context) ServiceHealth {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	err := h.store.Ping(checkCtx)
	responseTime := time.Since(start).String()

	if err != nil {
		utils.LogError(ctx, "Content store health check failed", err, utils.Fields{
			"backend": h.store.Name(),
		})
		return ServiceHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return ServiceHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
