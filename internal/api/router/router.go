package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/denisAlshanov/ytmp3/internal/api/handlers"
	"github.com/denisAlshanov/ytmp3/internal/api/middleware"
	"github.com/denisAlshanov/ytmp3/internal/config"
)

type Router struct {
	engine *gin.Engine
	config *config.Config
	server *http.Server
}

func NewRouter(cfg *config.Config, convertHandler *handlers.ConvertHandler, healthHandler *handlers.HealthHandler) *Router {
	// Set Gin mode
	if cfg.Server.Host == "0.0.0.0" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware
	engine.Use(gin.Recovery())
	engine.Use(middleware.CorrelationIDMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))

	// Health endpoints
	health := engine.Group("/")
	{
		health.GET("/health", healthHandler.Health)
		health.GET("/ready", healthHandler.Readiness)
		health.GET("/live", healthHandler.Liveness)
	}

	// Prometheus metrics
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// Swagger documentation
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// The browser UI, the API consumer and the legacy PHP-style endpoint all
	// share one handler and one response envelope.
	for _, path := range []string{"/convert", "/api/v1/convert", "/convert.php"} {
		engine.GET(path, convertHandler.Convert)
		engine.POST(path, convertHandler.Convert)
		engine.OPTIONS(path, convertHandler.Preflight)
	}

	// Link embedded in the path: /convert/https://youtu.be/<id>
	engine.GET("/convert/*link", convertHandler.ConvertPath)
	engine.OPTIONS("/convert/*link", convertHandler.Preflight)

	return &Router{
		engine: engine,
		config: cfg,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (r *Router) Start() error {
	r.server = &http.Server{
		Addr:    r.config.Server.Host + ":" + r.config.Server.Port,
		Handler: r.engine,
	}
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown waits for in-flight conversions until ctx expires.
func (r *Router) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
