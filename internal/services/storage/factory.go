package storage

import (
	"fmt"
	"net/http"

	"github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/utils"
)

// NewStorage creates the content store selected by STORAGE_BACKEND.
func NewStorage(cfg *config.Config, httpClient *http.Client) (ContentStore, error) {
	logger := utils.GetLogger()

	switch cfg.Storage.Backend {
	case config.StorageBackendGitHub:
		logger.Infof("Creating GitHub storage (%s/%s)", cfg.GitHub.Owner, cfg.GitHub.Repo)
		store, err := NewGitHubStorage(&cfg.GitHub, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub storage: %w", err)
		}
		return store, nil
	case config.StorageBackendS3:
		logger.Infof("Creating S3 storage (bucket: %s, endpoint: %s)", cfg.S3.BucketName, cfg.S3.EndpointURL)
		store, err := NewS3Storage(&cfg.S3, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrConfiguration, cfg.Storage.Backend)
	}
}
