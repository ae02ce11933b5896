package youtube

import (
	"context"
	"errors"

	"github.com/denisAlshanov/ytmp3/internal/models"
)

// ErrInvalidURL is returned when the input does not belong to the YouTube
// host family at all.
var ErrInvalidURL = errors.New("not a YouTube URL")

// URLResolver turns user input into a video reference.
type URLResolver interface {
	// IsYouTubeURL checks that the input belongs to the YouTube host family
	IsYouTubeURL(rawURL string) bool

	// Resolve extracts the video ID, substituting a synthetic one when the
	// URL is YouTube-shaped but carries none
	Resolve(rawURL string) (models.VideoRef, error)
}

// TitleResolver looks up a display title. Implementations never fail; they
// return FallbackTitle instead.
type TitleResolver interface {
	ResolveTitle(ctx context.Context, ref models.VideoRef) string
}

// FallbackTitle is used whenever no real title could be obtained.
func FallbackTitle(ref models.VideoRef) string {
	return ref.ID + " - Converted Audio"
}
