package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/denisAlshanov/ytmp3/internal/models"
)

var (
	schemePattern  = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://`)
	videoIDPattern = regexp.MustCompile(`^[\w-]+$`)

	// Accepted shapes, most preferred first.
	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^https?://((www|m|music)\.)?youtube\.com/watch\?(.*&)?v=[\w-]+`),
		regexp.MustCompile(`(?i)^https?://youtu\.be/[\w-]+`),
		regexp.MustCompile(`(?i)^https?://((www|m)\.)?youtube\.com/embed/[\w-]+`),
		regexp.MustCompile(`(?i)^https?://((www|m)\.)?youtube\.com/shorts/[\w-]+`),
	}
)

// Resolver parses YouTube links. Now is injectable so the synthetic ID is
// deterministic under test.
type Resolver struct {
	Now func() time.Time
}

func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

// normalizeURL trims the input and assumes https:// when no scheme is given.
// Scheme-relative input ("//youtu.be/x") is handled the same way.
func normalizeURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	u = strings.TrimPrefix(u, "//")
	if !schemePattern.MatchString(u) {
		u = "https://" + u
	}
	return u
}

func isYouTubeHost(host string) bool {
	switch strings.ToLower(host) {
	case "youtu.be", "www.youtu.be":
		return true
	case "youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com":
		return true
	}
	return false
}

// MatchesPreferredShape reports whether the input matches one of the
// canonical watch/short/embed shapes, not merely the host family.
func MatchesPreferredShape(rawURL string) bool {
	u := normalizeURL(rawURL)
	for _, p := range urlPatterns {
		if p.MatchString(u) {
			return true
		}
	}
	return false
}

func (r *Resolver) IsYouTubeURL(rawURL string) bool {
	if strings.TrimSpace(rawURL) == "" {
		return false
	}
	parsed, err := url.Parse(normalizeURL(rawURL))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return isYouTubeHost(parsed.Hostname())
}

func (r *Resolver) Resolve(rawURL string) (models.VideoRef, error) {
	if !r.IsYouTubeURL(rawURL) {
		return models.VideoRef{}, fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	parsed, err := url.Parse(normalizeURL(rawURL))
	if err != nil {
		return models.VideoRef{}, fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	if id := extractID(parsed); id != "" {
		return models.VideoRef{ID: id}, nil
	}

	return r.syntheticRef(), nil
}

func extractID(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	if strings.HasSuffix(host, "youtu.be") {
		id = segments[0]
	} else {
		id = u.Query().Get("v")
		if id == "" && len(segments) >= 2 {
			switch segments[0] {
			case "embed", "shorts", "v", "live":
				id = segments[1]
			}
		}
	}

	if !videoIDPattern.MatchString(id) {
		return ""
	}
	return id
}

func (r *Resolver) syntheticRef() models.VideoRef {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return models.VideoRef{
		ID:        fmt.Sprintf("audio-%d", now().UnixMilli()),
		Synthetic: true,
	}
}
