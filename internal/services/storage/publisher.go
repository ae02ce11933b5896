package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/metrics"
	"github.com/denisAlshanov/ytmp3/internal/models"
	"github.com/denisAlshanov/ytmp3/internal/utils"
)

// Publisher writes validated audio to a ContentStore, trying each branch in
// priority order until one accepts the write.
type Publisher struct {
	store    ContentStore
	branches []string
	minBytes int
}

func NewPublisher(store ContentStore, branches []string, minBytes int) (*Publisher, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: no content store", config.ErrConfiguration)
	}
	if len(branches) == 0 {
		return nil, fmt.Errorf("%w: no target branches", config.ErrConfiguration)
	}
	if minBytes <= 0 {
		return nil, fmt.Errorf("%w: minimum audio size must be positive", config.ErrConfiguration)
	}
	return &Publisher{
		store:    store,
		branches: append([]string(nil), branches...),
		minBytes: minBytes,
	}, nil
}

// Publish stores the artifact at mp3/<fileName> and returns its public URL.
// Each branch gets one read of the current revision marker and one write;
// there are no retries beyond moving on to the next branch.
func (p *Publisher) Publish(ctx context.Context, fileName string, artifact *models.AudioArtifact) (string, error) {
	if artifact == nil || artifact.SizeBytes < p.minBytes || len(artifact.Data) < p.minBytes {
		size := 0
		if artifact != nil {
			size = len(artifact.Data)
		}
		return "", fmt.Errorf("%w: audio is %d bytes, below the %d byte minimum", ErrPublishFailed, size, p.minBytes)
	}

	path := models.ObjectPath(fileName)
	backend := p.store.Name()
	lastErr := "Unknown error"

	for _, branch := range p.branches {
		obj := models.StoredObject{Path: path, Branch: branch}

		existing, err := p.store.Stat(ctx, branch, path)
		switch {
		case err == nil:
			obj.RevisionMarker = existing.RevisionMarker
		case errors.Is(err, ErrObjectNotFound):
		default:
			utils.LogWarn(ctx, "Could not read existing object, writing without revision marker", utils.Fields{
				"backend": backend,
				"branch":  branch,
				"path":    path,
				"error":   err.Error(),
			})
		}

		message := fmt.Sprintf("Add MP3 file: %s", fileName)
		if obj.IsUpdate() {
			message = fmt.Sprintf("Update MP3 file: %s", fileName)
		}

		utils.LogInfo(ctx, "Publishing audio", utils.Fields{
			"backend":    backend,
			"branch":     branch,
			"path":       path,
			"update":     obj.IsUpdate(),
			"size_bytes": artifact.SizeBytes,
		})

		if err := p.store.Put(ctx, obj, artifact.Data, message); err != nil {
			metrics.RecordPublishAttempt(backend, branch, metrics.ResultFailure)
			lastErr = err.Error()
			utils.LogError(ctx, "Publish failed on branch", err, utils.Fields{
				"backend": backend,
				"branch":  branch,
				"path":    path,
			})
			if ctx.Err() != nil {
				break
			}
			continue
		}

		metrics.RecordPublishAttempt(backend, branch, metrics.ResultSuccess)
		return p.store.PublicURL(branch, path), nil
	}

	return "", fmt.Errorf("%w: %s", ErrPublishFailed, lastErr)
}
