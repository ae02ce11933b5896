package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/models"
	"github.com/denisAlshanov/ytmp3/internal/services/downloader"
	"github.com/denisAlshanov/ytmp3/internal/services/storage"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	fmt.Println("Converter Configuration Check")
	fmt.Println("=============================")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration invalid: %v", err)
	}

	fmt.Printf("Storage backend: %s\n", cfg.Storage.Backend)
	fmt.Printf("Branches: %v\n", cfg.Storage.Branches)
	fmt.Printf("Providers: %v\n", cfg.Providers.Enabled)
	fmt.Printf("Minimum audio size: %d bytes\n", cfg.Download.MinAudioBytes)
	fmt.Println()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	if _, err := downloader.NewFromConfig(cfg, httpClient); err != nil {
		log.Fatalf("Provider setup failed: %v", err)
	}
	fmt.Println("Provider catalogue OK")

	store, err := storage.NewStorage(cfg, httpClient)
	if err != nil {
		log.Fatalf("Storage setup failed: %v", err)
	}

	fmt.Printf("Checking %s access...\n", store.Name())
	if p, ok := store.(pinger); ok {
		if err := p.Ping(context.Background()); err != nil {
			log.Fatalf("Storage check failed: %v", err)
		}
	}
	fmt.Println("Storage reachable!")

	path := models.ObjectPath("example.mp3")
	for _, branch := range cfg.Storage.Branches {
		fmt.Printf("Public URL on %s: %s\n", branch, store.PublicURL(branch, path))
	}
}
