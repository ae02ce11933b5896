package downloader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/metrics"
	"github.com/denisAlshanov/ytmp3/internal/models"
	"github.com/denisAlshanov/ytmp3/internal/utils"
)

// ErrAcquisitionFailed means no provider produced audio that passed
// validation. The wrapped message lists the reason for every provider.
var ErrAcquisitionFailed = errors.New("audio acquisition failed")

var errTooSmall = errors.New("payload below minimum size")

const maxProviderResponseBytes = 1 << 20

type Options struct {
	APIKey        string
	Providers     []ProviderConfig
	MinAudioBytes int
	MaxAudioBytes int64
	UserAgent     string
	HTTPClient    *http.Client
}

// Downloader obtains audio bytes by walking an ordered provider list.
type Downloader struct {
	apiKey     string
	providers  []ProviderConfig
	minBytes   int
	maxBytes   int64
	userAgent  string
	httpClient *http.Client
}

// New validates credentials up front so a misconfigured service fails at
// startup instead of on the first request.
func New(opts Options) (*Downloader, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: provider API key is not set", config.ErrConfiguration)
	}
	if len(opts.Providers) == 0 {
		return nil, fmt.Errorf("%w: no audio providers configured", config.ErrConfiguration)
	}
	for _, p := range opts.Providers {
		if p.Endpoint == "" || p.Host == "" {
			return nil, fmt.Errorf("%w: provider %q needs an endpoint and host", config.ErrConfiguration, p.Name)
		}
	}
	if opts.MinAudioBytes <= 0 {
		return nil, fmt.Errorf("%w: minimum audio size must be positive", config.ErrConfiguration)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "YouTube-MP3-Converter"
	}

	return &Downloader{
		apiKey:     opts.APIKey,
		providers:  opts.Providers,
		minBytes:   opts.MinAudioBytes,
		maxBytes:   opts.MaxAudioBytes,
		userAgent:  userAgent,
		httpClient: httpClient,
	}, nil
}

func NewFromConfig(cfg *config.Config, httpClient *http.Client) (*Downloader, error) {
	providers, err := ProvidersFromConfig(&cfg.Providers)
	if err != nil {
		return nil, err
	}
	return New(Options{
		APIKey:        cfg.Providers.RapidAPIKey,
		Providers:     providers,
		MinAudioBytes: cfg.Download.MinAudioBytes,
		MaxAudioBytes: cfg.Download.MaxAudioBytes,
		UserAgent:     cfg.Title.UserAgent,
		HTTPClient:    httpClient,
	})
}

func (d *Downloader) MinAudioBytes() int {
	return d.minBytes
}

// Acquire returns the first artifact that clears the size threshold. No
// provider after the successful one is contacted, and there is no placeholder
// audio when every provider fails.
func (d *Downloader) Acquire(ctx context.Context, ref models.VideoRef) (*models.AudioArtifact, error) {
	failures := make([]string, 0, len(d.providers))

	for _, provider := range d.providers {
		artifact, err := d.tryProvider(ctx, provider, ref)
		if err == nil {
			metrics.RecordProviderAttempt(provider.Name, metrics.ResultSuccess)
			utils.LogInfo(ctx, "Audio acquired", utils.Fields{
				"provider":   provider.Name,
				"video_id":   ref.ID,
				"size_bytes": artifact.SizeBytes,
			})
			return artifact, nil
		}

		result := metrics.ResultFailure
		if errors.Is(err, errTooSmall) {
			result = metrics.ResultTooSmall
		}
		metrics.RecordProviderAttempt(provider.Name, result)

		utils.LogWarn(ctx, "Audio provider failed", utils.Fields{
			"provider": provider.Name,
			"video_id": ref.ID,
			"error":    err.Error(),
		})
		failures = append(failures, fmt.Sprintf("%s: %v", provider.Name, err))

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("%w for %s (%s)", ErrAcquisitionFailed, ref.ID, strings.Join(failures, "; "))
}

func (d *Downloader) tryProvider(ctx context.Context, provider ProviderConfig, ref models.VideoRef) (*models.AudioArtifact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.requestURL(ref.ID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", d.apiKey)
	req.Header.Set("X-RapidAPI-Host", provider.Host)
	req.Header.Set("Accept", "application/json, audio/mpeg")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	// Some providers stream the audio directly instead of returning a link.
	if isAudioContentType(resp.Header.Get("Content-Type")) {
		return d.readArtifact(resp, provider.Name)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	link, err := provider.extractLink(payload)
	if err != nil {
		return nil, err
	}

	return d.fetchLink(ctx, provider.Name, link)
}

// fetchLink downloads the pointer returned by a provider. Provider
// credentials are not forwarded to the download host.
func (d *Downloader) fetchLink(ctx context.Context, providerName, link string) (*models.AudioArtifact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid download link: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	if isErrorPageContentType(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("download returned %s instead of audio", resp.Header.Get("Content-Type"))
	}

	return d.readArtifact(resp, providerName)
}

func (d *Downloader) readArtifact(resp *http.Response, providerName string) (*models.AudioArtifact, error) {
	reader := io.Reader(resp.Body)
	if d.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, d.maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	if d.maxBytes > 0 && int64(len(data)) > d.maxBytes {
		return nil, fmt.Errorf("audio exceeds maximum size of %d bytes", d.maxBytes)
	}
	if len(data) < d.minBytes {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", errTooSmall, len(data), d.minBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	return &models.AudioArtifact{
		Data:        data,
		SizeBytes:   len(data),
		Provider:    providerName,
		ContentType: contentType,
	}, nil
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func isAudioContentType(contentType string) bool {
	mt := mediaType(contentType)
	return strings.HasPrefix(mt, "audio/") || mt == "application/octet-stream"
}

func isErrorPageContentType(contentType string) bool {
	mt := mediaType(contentType)
	return strings.HasPrefix(mt, "text/") || mt == "application/json"
}
