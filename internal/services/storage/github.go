package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	appconfig "github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/models"
)

const (
	// Returns metadata with the blob sha for files up to 100 MB; the default
	// media type refuses anything over 1 MB.
	githubObjectMediaType = "application/vnd.github.object+json"
	githubUserAgent       = "YouTube-MP3-Converter"
)

// GitHubStorage stores files through the repository contents API. The blob
// sha acts as the revision marker.
type GitHubStorage struct {
	client    *github.Client
	owner     string
	repo      string
	rawHost   string
	chunkSize int
}

// githubPutRequest carries content already base64-encoded in chunks;
// github.RepositoryContentFileOptions would encode the whole buffer at once.
type githubPutRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

func NewGitHubStorage(cfg *appconfig.GitHubConfig, httpClient *http.Client) (*GitHubStorage, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: GitHub token not configured", appconfig.ErrConfiguration)
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("%w: GitHub owner and repo are required", appconfig.ErrConfiguration)
	}

	client := github.NewClient(httpClient).WithAuthToken(cfg.Token)
	client.UserAgent = githubUserAgent

	// Custom API URL for GitHub Enterprise or tests
	if apiURL := strings.TrimRight(cfg.APIURL, "/"); apiURL != "" {
		baseURL, err := url.Parse(apiURL + "/")
		if err != nil {
			return nil, fmt.Errorf("%w: invalid GitHub API URL: %v", appconfig.ErrConfiguration, err)
		}
		client.BaseURL = baseURL
	}

	rawHost := cfg.RawHost
	if rawHost == "" {
		rawHost = "raw.githubusercontent.com"
	}

	return &GitHubStorage{
		client:    client,
		owner:     cfg.Owner,
		repo:      cfg.Repo,
		rawHost:   rawHost,
		chunkSize: DefaultEncodeChunkSize,
	}, nil
}

func (g *GitHubStorage) Name() string {
	return appconfig.StorageBackendGitHub
}

func (g *GitHubStorage) contentsPath(path string) string {
	return fmt.Sprintf("repos/%s/%s/contents/%s",
		url.PathEscape(g.owner), url.PathEscape(g.repo), escapePath(path))
}

func (g *GitHubStorage) Stat(ctx context.Context, branch, path string) (*models.StoredObject, error) {
	target := g.contentsPath(path) + "?ref=" + url.QueryEscape(branch)
	req, err := g.client.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GitHub request: %w", err)
	}
	req.Header.Set("Accept", githubObjectMediaType)

	var content github.RepositoryContent
	if _, err := g.client.Do(ctx, req, &content); err != nil {
		if isGitHubNotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read from GitHub: %w", err)
	}

	if content.GetType() != "" && content.GetType() != "file" {
		return nil, fmt.Errorf("GitHub path %s is a %s, not a file", path, content.GetType())
	}
	if content.GetSHA() == "" {
		return nil, fmt.Errorf("GitHub response for %s carries no sha", path)
	}

	return &models.StoredObject{
		Path:           path,
		Branch:         branch,
		RevisionMarker: content.GetSHA(),
	}, nil
}

func (g *GitHubStorage) Put(ctx context.Context, obj models.StoredObject, content []byte, message string) error {
	payload := &githubPutRequest{
		Message: message,
		Content: EncodeBase64Chunked(content, g.chunkSize),
		Branch:  obj.Branch,
		SHA:     obj.RevisionMarker,
	}

	req, err := g.client.NewRequest(http.MethodPut, g.contentsPath(obj.Path), payload)
	if err != nil {
		return fmt.Errorf("failed to build GitHub request: %w", err)
	}

	var result github.RepositoryContentResponse
	if _, err := g.client.Do(ctx, req, &result); err != nil {
		return fmt.Errorf("failed to upload to GitHub: %w", err)
	}

	return nil
}

// PublicURL points at the raw host rather than the blob?raw=1 form, which
// answers with a redirect some embedded clients cannot follow.
func (g *GitHubStorage) PublicURL(branch, path string) string {
	return fmt.Sprintf("https://%s/%s/%s/%s/%s", g.rawHost, g.owner, g.repo, branch, escapePath(path))
}

func (g *GitHubStorage) Ping(ctx context.Context) error {
	if _, _, err := g.client.Repositories.Get(ctx, g.owner, g.repo); err != nil {
		return fmt.Errorf("GitHub repository check failed: %w", err)
	}
	return nil
}

func isGitHubNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}

func escapePath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
