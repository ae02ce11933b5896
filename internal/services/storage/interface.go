package storage

import (
	"context"
	"errors"

	"github.com/denisAlshanov/ytmp3/internal/models"
)

var (
	// ErrObjectNotFound is the expected answer when a path has never been
	// written on a branch.
	ErrObjectNotFound = errors.New("object not found")

	// ErrPublishFailed means no branch accepted the write.
	ErrPublishFailed = errors.New("publish failed")
)

// ContentStore is a versioned file host addressed by branch and path.
type ContentStore interface {
	// Name identifies the backend in logs and metrics
	Name() string

	// Stat returns the current revision marker, or ErrObjectNotFound
	Stat(ctx context.Context, branch, path string) (*models.StoredObject, error)

	// Put creates the object, or replaces it when obj.RevisionMarker is set
	Put(ctx context.Context, obj models.StoredObject, content []byte, message string) error

	// PublicURL is the stable, redirect-free fetch URL for branch and path
	PublicURL(branch, path string) string
}
