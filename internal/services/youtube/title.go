package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/kkdai/youtube/v2"

	"github.com/denisAlshanov/ytmp3/internal/models"
	"github.com/denisAlshanov/ytmp3/internal/utils"
)

const (
	MaxTitleLength = 100
	titleSuffix    = " - YouTube"
)

// SanitizeTitle drops characters that are unsafe in file names, collapses
// whitespace and caps the result at MaxTitleLength runes.
func SanitizeTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, title)

	cleaned = strings.Join(strings.Fields(cleaned), " ")

	runes := []rune(cleaned)
	if len(runes) > MaxTitleLength {
		cleaned = strings.TrimSpace(string(runes[:MaxTitleLength]))
	}
	return cleaned
}

// finalizeTitle applies sanitizing and falls back when nothing usable is left.
func finalizeTitle(ref models.VideoRef, raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, titleSuffix)
	if title := SanitizeTitle(raw); title != "" && title != "YouTube" {
		return title
	}
	return FallbackTitle(ref)
}

// PageTitleResolver scrapes the <title> of the public watch page.
type PageTitleResolver struct {
	httpClient *http.Client
	watchURL   string
	userAgent  string
}

func NewPageTitleResolver(httpClient *http.Client, watchURL, userAgent string) *PageTitleResolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PageTitleResolver{
		httpClient: httpClient,
		watchURL:   watchURL,
		userAgent:  userAgent,
	}
}

func (p *PageTitleResolver) ResolveTitle(ctx context.Context, ref models.VideoRef) string {
	if ref.Synthetic || ref.ID == "" {
		return FallbackTitle(ref)
	}

	title, err := p.fetchTitle(ctx, ref.ID)
	if err != nil {
		utils.LogDebug(ctx, "Title lookup failed, using fallback", utils.Fields{
			"video_id": ref.ID,
			"error":    err.Error(),
		})
		return FallbackTitle(ref)
	}

	return finalizeTitle(ref, title)
}

func (p *PageTitleResolver) fetchTitle(ctx context.Context, videoID string) (string, error) {
	pageURL := p.watchURL + "?v=" + url.QueryEscape(videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("watch page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse watch page: %w", err)
	}

	title := doc.Find("title").First().Text()
	if strings.TrimSpace(title) == "" {
		title, _ = doc.Find(`meta[property="og:title"]`).First().Attr("content")
	}
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("watch page has no title")
	}

	return title, nil
}

type videoFetcher interface {
	GetVideoContext(ctx context.Context, id string) (*youtube.Video, error)
}

// MetadataTitleResolver reads the title from the player metadata instead of
// the HTML page.
type MetadataTitleResolver struct {
	client videoFetcher
}

func NewMetadataTitleResolver(httpClient *http.Client) *MetadataTitleResolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MetadataTitleResolver{
		client: &youtube.Client{HTTPClient: httpClient},
	}
}

func (m *MetadataTitleResolver) ResolveTitle(ctx context.Context, ref models.VideoRef) string {
	if ref.Synthetic || ref.ID == "" {
		return FallbackTitle(ref)
	}

	video, err := m.client.GetVideoContext(ctx, ref.ID)
	if err != nil {
		utils.LogDebug(ctx, "Video metadata lookup failed, using fallback", utils.Fields{
			"video_id": ref.ID,
			"error":    err.Error(),
		})
		return FallbackTitle(ref)
	}

	return finalizeTitle(ref, video.Title)
}
