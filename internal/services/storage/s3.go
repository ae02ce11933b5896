package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	appconfig "github.com/denisAlshanov/ytmp3/internal/config"
	"github.com/denisAlshanov/ytmp3/internal/models"
)

// S3Storage maps branches onto key prefixes inside one bucket and uses the
// object ETag as the revision marker.
type S3Storage struct {
	client        *s3.Client
	bucketName    string
	region        string
	endpointURL   string
	publicBaseURL string
}

func NewS3Storage(cfg *appconfig.S3Config, httpClient *http.Client) (*S3Storage, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("%w: S3 bucket name not configured", appconfig.ErrConfiguration)
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("%w: S3 credentials not configured", appconfig.ErrConfiguration)
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	}
	if httpClient != nil {
		opts = append(opts, config.WithHTTPClient(httpClient))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client

	// Check if we're using LocalStack or another S3-compatible endpoint
	if cfg.EndpointURL != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Storage{
		client:        client,
		bucketName:    cfg.BucketName,
		region:        cfg.Region,
		endpointURL:   strings.TrimRight(cfg.EndpointURL, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3Storage) Name() string {
	return appconfig.StorageBackendS3
}

func objectKey(branch, path string) string {
	return strings.Trim(branch, "/") + "/" + strings.TrimPrefix(path, "/")
}

func (s *S3Storage) Stat(ctx context.Context, branch, path string) (*models.StoredObject, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey(branch, path)),
	}

	result, err := s.client.HeadObject(ctx, input)
	if err != nil {
		if isNotFoundError(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to check object: %w", err)
	}

	return &models.StoredObject{
		Path:           path,
		Branch:         branch,
		RevisionMarker: aws.ToString(result.ETag),
	}, nil
}

// Put uses conditional writes: If-Match for updates, If-None-Match: * for
// creates, so a concurrent writer surfaces as a failed precondition.
func (s *S3Storage) Put(ctx context.Context, obj models.StoredObject, content []byte, message string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(objectKey(obj.Branch, obj.Path)),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String("audio/mpeg"),
		ContentLength: aws.Int64(int64(len(content))),
		Metadata: map[string]string{
			"change": asciiOnly(message),
		},
	}
	if obj.IsUpdate() {
		input.IfMatch = aws.String(obj.RevisionMarker)
	} else {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

func (s *S3Storage) PublicURL(branch, path string) string {
	key := escapePath(objectKey(branch, path))
	switch {
	case s.publicBaseURL != "":
		return s.publicBaseURL + "/" + key
	case s.endpointURL != "":
		return s.endpointURL + "/" + s.bucketName + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key)
	}
}

func (s *S3Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucketName)})
	if err != nil {
		return fmt.Errorf("failed to reach S3 bucket: %w", err)
	}
	return nil
}

func isNotFoundError(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

// asciiOnly keeps user metadata within the characters S3 accepts in headers.
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '_'
		}
		return r
	}, s)
}
