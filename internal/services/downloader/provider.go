package downloader

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/denisAlshanov/ytmp3/internal/config"
)

// ProviderConfig describes one extraction service. Endpoint may contain the
// placeholders {id} (video ID) and {url} (canonical watch URL).
type ProviderConfig struct {
	Name       string
	Endpoint   string
	Host       string
	LinkFields []string
}

var defaultLinkFields = []string{"link", "url", "file", "downloadUrl", "download_url", "dlink", "linkDownload"}

// Catalogue lists the providers that can be enabled by name via PROVIDERS.
var Catalogue = map[string]ProviderConfig{
	"youtube-mp36": {
		Name:       "youtube-mp36",
		Endpoint:   "https://youtube-mp36.p.rapidapi.com/dl?id={id}",
		Host:       "youtube-mp36.p.rapidapi.com",
		LinkFields: []string{"link"},
	},
	"youtube-mp3-2025": {
		Name:       "youtube-mp3-2025",
		Endpoint:   "https://youtube-mp3-2025.p.rapidapi.com/v1/social/youtube/audio?id={id}",
		Host:       "youtube-mp3-2025.p.rapidapi.com",
		LinkFields: []string{"linkDownload", "url"},
	},
	"youtube-mp310": {
		Name:       "youtube-mp310",
		Endpoint:   "https://youtube-mp310.p.rapidapi.com/download/mp3?url={url}",
		Host:       "youtube-mp310.p.rapidapi.com",
		LinkFields: []string{"downloadUrl"},
	},
}

// ProvidersFromConfig resolves enabled provider names in order.
func ProvidersFromConfig(cfg *config.ProvidersConfig) ([]ProviderConfig, error) {
	providers := make([]ProviderConfig, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		p, ok := Catalogue[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown provider %q", config.ErrConfiguration, name)
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: no audio providers enabled", config.ErrConfiguration)
	}
	return providers, nil
}

func (p ProviderConfig) requestURL(videoID string) string {
	watchURL := "https://www.youtube.com/watch?v=" + videoID
	r := strings.NewReplacer(
		"{id}", url.QueryEscape(videoID),
		"{url}", url.QueryEscape(watchURL),
	)
	return r.Replace(p.Endpoint)
}

func (p ProviderConfig) linkFields() []string {
	if len(p.LinkFields) > 0 {
		return p.LinkFields
	}
	return defaultLinkFields
}

// extractLink returns the first non-empty link field, looking at the top level
// and then inside a "data" object. A status field reporting failure or an
// unfinished job yields an error.
func (p ProviderConfig) extractLink(payload map[string]any) (string, error) {
	if status, ok := payload["status"].(string); ok {
		switch strings.ToLower(status) {
		case "fail", "failed", "error", "processing", "queued":
			msg, _ := payload["msg"].(string)
			if msg == "" {
				msg, _ = payload["message"].(string)
			}
			return "", fmt.Errorf("provider reported status %q: %s", status, msg)
		}
	}

	scopes := []map[string]any{payload}
	if nested, ok := payload["data"].(map[string]any); ok {
		scopes = append(scopes, nested)
	}

	for _, scope := range scopes {
		for _, field := range p.linkFields() {
			if link, ok := scope[field].(string); ok && strings.TrimSpace(link) != "" {
				return strings.TrimSpace(link), nil
			}
		}
	}

	return "", fmt.Errorf("provider response has no download link")
}
