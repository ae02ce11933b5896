package converter

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/metrics"
	"github.com/denisAlshanov/ytmp3/internal/models"
	"github.com/denisAlshanov/ytmp3/internal/services/downloader"
	"github.com/denisAlshanov/ytmp3/internal/services/storage"
	"github.com/denisAlshanov/ytmp3/internal/services/youtube"
	"github.com/denisAlshanov/ytmp3/internal/utils"
)

const (
	OutcomeSucceeded         = "succeeded"
	OutcomeRejected          = "rejected"
	OutcomeAcquisitionFailed = "acquisition_failed"
	OutcomePublishFailed     = "publish_failed"
	OutcomeConfiguration     = "configuration_error"
	OutcomeError             = "error"
)

// AudioAcquirer fetches audio bytes for a video.
type AudioAcquirer interface {
	Acquire(ctx context.Context, ref models.VideoRef) (*models.AudioArtifact, error)
}

// AudioPublisher stores audio and returns its public URL.
type AudioPublisher interface {
	Publish(ctx context.Context, fileName string, artifact *models.AudioArtifact) (string, error)
}

// Converter resolves, acquires and publishes audio for one request. It
// holds no per-request state, so one instance serves concurrent requests.
type Converter struct {
	resolver  youtube.URLResolver
	titles    youtube.TitleResolver
	acquirer  AudioAcquirer
	publisher AudioPublisher
}

func NewConverter(resolver youtube.URLResolver, titles youtube.TitleResolver, acquirer AudioAcquirer, publisher AudioPublisher) *Converter {
	return &Converter{
		resolver:  resolver,
		titles:    titles,
		acquirer:  acquirer,
		publisher: publisher,
	}
}

// Convert returns either a result or an *utils.AppError; raw stage errors
// never escape.
func (c *Converter) Convert(ctx context.Context, req models.ConversionRequest) (result *models.ConversionResult, err error) {
	start := time.Now()
	outcome := OutcomeError
	defer func() {
		metrics.ObserveConversion(outcome, time.Since(start))
	}()

	sourceURL := strings.TrimSpace(req.SourceURL)
	if sourceURL == "" {
		outcome = OutcomeRejected
		return nil, utils.NewMissingURLError()
	}
	if !c.resolver.IsYouTubeURL(sourceURL) {
		outcome = OutcomeRejected
		utils.LogInfo(ctx, "Rejected non-YouTube URL", utils.Fields{"source_url": sourceURL})
		return nil, utils.NewInvalidLinkError(sourceURL)
	}

	ref, err := c.resolver.Resolve(sourceURL)
	if err != nil {
		outcome = OutcomeRejected
		return nil, utils.NewInvalidLinkError(sourceURL)
	}
	if ref.Synthetic {
		utils.LogWarn(ctx, "No video ID in URL, using synthetic identifier", utils.Fields{
			"source_url": sourceURL,
			"video_id":   ref.ID,
		})
	} else if !youtube.MatchesPreferredShape(sourceURL) {
		utils.LogDebug(ctx, "Accepted non-canonical YouTube URL", utils.Fields{"source_url": sourceURL})
	}

	fileName := BuildFileName(req.RequestedFileName, ref)
	utils.LogInfo(ctx, "Conversion started", utils.Fields{
		"video_id":  ref.ID,
		"file_name": fileName,
	})

	// Title lookup overlaps with acquisition; it cannot fail, so only the
	// acquisition error decides the group result.
	var (
		title    string
		artifact *models.AudioArtifact
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		title = c.titles.ResolveTitle(gctx, ref)
		return nil
	})
	g.Go(func() error {
		var acquireErr error
		artifact, acquireErr = c.acquirer.Acquire(gctx, ref)
		return acquireErr
	})
	if err := g.Wait(); err != nil {
		appErr, kind := classify(err)
		outcome = kind
		logFailure(ctx, "Audio acquisition failed", err, kind, ref)
		return nil, appErr
	}

	publicURL, err := c.publisher.Publish(ctx, fileName, artifact)
	if err != nil {
		appErr, kind := classify(err)
		outcome = kind
		logFailure(ctx, "Publishing failed", err, kind, ref)
		return nil, appErr
	}

	outcome = OutcomeSucceeded
	utils.LogInfo(ctx, "Conversion completed", utils.Fields{
		"video_id":   ref.ID,
		"file_name":  fileName,
		"public_url": publicURL,
		"duration":   time.Since(start).String(),
	})

	return &models.ConversionResult{
		PublicURL: publicURL,
		Title:     title,
		FileName:  fileName,
	}, nil
}

func classify(err error) (*utils.AppError, string) {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr, OutcomeError
	case errors.Is(err, config.ErrConfiguration):
		return utils.NewConfigurationError(err), OutcomeConfiguration
	case errors.Is(err, downloader.ErrAcquisitionFailed):
		return utils.NewAcquisitionError(err), OutcomeAcquisitionFailed
	case errors.Is(err, storage.ErrPublishFailed):
		return utils.NewPublishError(err), OutcomePublishFailed
	default:
		return utils.NewInternalError(err), OutcomeError
	}
}

func logFailure(ctx context.Context, message string, err error, kind string, ref models.VideoRef) {
	fields := utils.Fields{
		"video_id":   ref.ID,
		"error_kind": kind,
	}
	if kind == OutcomeConfiguration {
		fields["error_kind"] = "configuration"
		message = "Service misconfigured: " + message
	}
	utils.LogError(ctx, message, err, fields)
}

// BuildFileName derives the stored file name. A requested name is reduced
// to its base name and [A-Za-z0-9_.-]; without one the video ID is used.
// The result always ends in .mp3.
func BuildFileName(requested string, ref models.VideoRef) string {
	name := strings.TrimSpace(strings.ReplaceAll(requested, `\`, "/"))
	if name != "" {
		name = path.Base(name)
	}
	if strings.HasSuffix(strings.ToLower(name), ".mp3") {
		name = name[:len(name)-len(".mp3")]
	}

	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_' || r == '-' || r == '.':
			return r
		}
		return '_'
	}, name)
	name = strings.Trim(name, ".")

	if name == "" || strings.Trim(name, "_") == "" {
		name = ref.ID
	}
	return name + ".mp3"
}
