package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfiguration marks a missing or malformed setting. It is returned before
// any network call is attempted.
var ErrConfiguration = errors.New("configuration error")

const (
	StorageBackendGitHub = "github"
	StorageBackendS3     = "s3"

	TitleStrategyPage     = "page"
	TitleStrategyMetadata = "metadata"
)

type Config struct {
	Server    ServerConfig
	Download  DownloadConfig
	Providers ProvidersConfig
	Title     TitleConfig
	Storage   StorageConfig
	GitHub    GitHubConfig
	S3        S3Config
	CORS      CORSConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DownloadConfig struct {
	// HTTPTimeout of zero leaves outbound calls without a deadline.
	HTTPTimeout   time.Duration
	MinAudioBytes int
	MaxAudioBytes int64
}

type ProvidersConfig struct {
	RapidAPIKey string
	Enabled     []string
}

type TitleConfig struct {
	Strategy  string
	WatchURL  string
	UserAgent string
}

type StorageConfig struct {
	Backend  string
	Branches []string
}

type GitHubConfig struct {
	Token   string
	Owner   string
	Repo    string
	APIURL  string
	RawHost string
}

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	EndpointURL     string
	PublicBaseURL   string
}

type CORSConfig struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")

	// Download configuration
	httpTimeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid HTTP_TIMEOUT: %v", ErrConfiguration, err)
	}
	cfg.Download.HTTPTimeout = httpTimeout
	cfg.Download.MinAudioBytes = getEnvInt("MIN_AUDIO_BYTES", 50000)
	cfg.Download.MaxAudioBytes = getEnvInt64("MAX_AUDIO_BYTES", 100*1024*1024) // GitHub rejects blobs over 100MB

	// Provider configuration
	cfg.Providers.RapidAPIKey = getEnv("RAPIDAPI_KEY", "")
	cfg.Providers.Enabled = getEnvStringSlice("PROVIDERS", []string{"youtube-mp36", "youtube-mp3-2025"})

	// Title configuration
	cfg.Title.Strategy = getEnv("TITLE_STRATEGY", TitleStrategyPage)
	cfg.Title.WatchURL = getEnv("YOUTUBE_WATCH_URL", "https://www.youtube.com/watch")
	cfg.Title.UserAgent = getEnv("TITLE_USER_AGENT",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")

	// Storage configuration
	cfg.Storage.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendGitHub))
	cfg.Storage.Branches = getEnvStringSlice("GITHUB_BRANCHES", []string{"main", "master"})

	// GitHub configuration
	cfg.GitHub.Token = getEnv("GITHUB_TOKEN", "")
	cfg.GitHub.Owner = getEnv("GITHUB_OWNER", "BEASTIAN11")
	cfg.GitHub.Repo = getEnv("GITHUB_REPO", "youtubeconverter")
	cfg.GitHub.APIURL = strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/")
	cfg.GitHub.RawHost = getEnv("GITHUB_RAW_HOST", "raw.githubusercontent.com")

	// S3 configuration
	cfg.S3.Region = getEnv("AWS_REGION", "us-east-1")
	cfg.S3.BucketName = getEnv("S3_BUCKET_NAME", "")
	cfg.S3.EndpointURL = getEnv("AWS_ENDPOINT_URL", "") // Optional for LocalStack
	cfg.S3.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.S3.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.S3.PublicBaseURL = strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/")

	// CORS configuration
	cfg.CORS = loadCORSConfig()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every missing credential in one error so an operator can
// fix the environment in a single pass.
func (c *Config) Validate() error {
	var missing []string

	if c.Providers.RapidAPIKey == "" {
		missing = append(missing, "RAPIDAPI_KEY")
	}
	if len(c.Providers.Enabled) == 0 {
		missing = append(missing, "PROVIDERS")
	}
	if len(c.Storage.Branches) == 0 {
		missing = append(missing, "GITHUB_BRANCHES")
	}

	switch c.Storage.Backend {
	case StorageBackendGitHub:
		if c.GitHub.Token == "" {
			missing = append(missing, "GITHUB_TOKEN")
		}
		if c.GitHub.Owner == "" {
			missing = append(missing, "GITHUB_OWNER")
		}
		if c.GitHub.Repo == "" {
			missing = append(missing, "GITHUB_REPO")
		}
	case StorageBackendS3:
		if c.S3.BucketName == "" {
			missing = append(missing, "S3_BUCKET_NAME")
		}
		if c.S3.AccessKeyID == "" {
			missing = append(missing, "AWS_ACCESS_KEY_ID")
		}
		if c.S3.SecretAccessKey == "" {
			missing = append(missing, "AWS_SECRET_ACCESS_KEY")
		}
	default:
		return fmt.Errorf("%w: unknown STORAGE_BACKEND %q", ErrConfiguration, c.Storage.Backend)
	}

	switch c.Title.Strategy {
	case TitleStrategyPage, TitleStrategyMetadata:
	default:
		return fmt.Errorf("%w: unknown TITLE_STRATEGY %q", ErrConfiguration, c.Title.Strategy)
	}

	if c.Download.MinAudioBytes <= 0 {
		return fmt.Errorf("%w: MIN_AUDIO_BYTES must be positive", ErrConfiguration)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: required environment variables not set: %s",
			ErrConfiguration, strings.Join(missing, ", "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadCORSConfig returns the permissive policy the API consumer and the
// browser UI both depend on. Individual values can still be overridden.
func loadCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:        getEnvBool("CORS_ENABLED", true),
		AllowedOrigins: getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AllowedMethods: getEnvStringSlice("CORS_ALLOWED_METHODS", []string{
			"GET", "POST", "OPTIONS",
		}),
		AllowedHeaders: getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{
			"authorization", "x-client-info", "apikey", "content-type",
		}),
		MaxAge: getEnvInt("CORS_MAX_AGE", 86400),
	}
}
