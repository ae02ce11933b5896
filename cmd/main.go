// Package main provides the entry point for the YouTube to MP3 converter service.
// @title YouTube to MP3 Converter API
// @version 1.0
// @description Converts YouTube videos to MP3 through third-party providers and publishes the result to a content store.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	_ "github.com/denisAlshanov/ytmp3/docs" // Import for swagger docs
	"github.com/denisAlshanov/ytmp3/internal/api/handlers"
	"github.com/denisAlshanov/ytmp3/internal/api/router"
	"github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/services/converter"
	"github.com/denisAlshanov/ytmp3/internal/services/downloader"
	"github.com/denisAlshanov/ytmp3/internal/services/storage"
	"github.com/denisAlshanov/ytmp3/internal/services/youtube"
	"github.com/denisAlshanov/ytmp3/internal/utils"
)

func main() {
	logger := utils.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error_kind": "configuration",
			"error":      err.Error(),
		}).Fatal("Failed to load configuration")
	}

	logger.Info("Starting YouTube to MP3 converter service")

	// Shared by providers, title lookups and the content store.
	httpClient := &http.Client{Timeout: cfg.Download.HTTPTimeout}

	// Initialize URL and title resolvers
	resolver := youtube.NewResolver()

	var titles youtube.TitleResolver
	switch cfg.Title.Strategy {
	case config.TitleStrategyMetadata:
		titles = youtube.NewMetadataTitleResolver(httpClient)
	default:
		titles = youtube.NewPageTitleResolver(httpClient, cfg.Title.WatchURL, cfg.Title.UserAgent)
	}

	// Initialize audio providers
	audioDownloader, err := downloader.NewFromConfig(cfg, httpClient)
	if err != nil {
		logger.WithField("error_kind", "configuration").Fatalf("Failed to initialize downloader: %v", err)
	}

	// Initialize content store
	store, err := storage.NewStorage(cfg, httpClient)
	if err != nil {
		logger.WithField("error_kind", "configuration").Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize publisher with the same size threshold as the downloader
	publisher, err := storage.NewPublisher(store, cfg.Storage.Branches, audioDownloader.MinAudioBytes())
	if err != nil {
		logger.WithField("error_kind", "configuration").Fatalf("Failed to initialize publisher: %v", err)
	}

	// Initialize conversion pipeline
	conversionService := converter.NewConverter(resolver, titles, audioDownloader, publisher)

	var pinger handlers.Pinger
	if p, ok := store.(handlers.Pinger); ok {
		pinger = p
	}

	// Initialize handlers
	convertHandler := handlers.NewConvertHandler(conversionService)
	healthHandler := handlers.NewHealthHandler(cfg, pinger)

	// Initialize router
	r := router.NewRouter(cfg, convertHandler, healthHandler)

	// Start server
	go func() {
		logger.Infof("Starting server on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := r.Start(); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Let in-flight conversions finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.Shutdown(ctx); err != nil {
		logger.Errorf("Failed to shut down server gracefully: %v", err)
	}

	logger.Info("Server shutdown complete")
}
