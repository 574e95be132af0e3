// Package media uploads staged files to an S3-compatible media host.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	platformhttp "videotube_backend/internal/platform/http"
	"videotube_backend/internal/shared/ratelimiter"
)

// ErrEmptyPath is returned when Upload is called without a local file.
var ErrEmptyPath = errors.New("local file path is empty")

// Config holds media host settings.
type Config struct {
	Bucket           string
	Region           string
	Endpoint         string // S3-compatible endpoint such as MinIO; empty means AWS
	AccessKey        string
	SecretKey        string
	PublicBaseURL    string // prefix of the returned object URLs
	Timeout          time.Duration
	UploadsPerMinute int
}

// LoadConfigFromEnv reads S3_* and MEDIA_UPLOADS_PER_MINUTE.
func LoadConfigFromEnv() Config {
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = "us-east-1"
	}
	timeout, err := time.ParseDuration(os.Getenv("S3_TIMEOUT"))
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	perMinute, err := strconv.Atoi(os.Getenv("MEDIA_UPLOADS_PER_MINUTE"))
	if err != nil {
		perMinute = 60
	}
	return Config{
		Bucket:           os.Getenv("S3_BUCKET"),
		Region:           region,
		Endpoint:         os.Getenv("S3_ENDPOINT"),
		AccessKey:        os.Getenv("S3_ACCESS_KEY"),
		SecretKey:        os.Getenv("S3_SECRET_KEY"),
		PublicBaseURL:    strings.TrimSuffix(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		Timeout:          timeout,
		UploadsPerMinute: perMinute,
	}
}

// ObjectPutter is the subset of the S3 client used by the uploader.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores files in a bucket and returns their public URL.
type S3Uploader struct {
	client  ObjectPutter
	bucket  string
	baseURL string
	limiter ratelimiter.Limiter
	now     func() time.Time
}

// NewS3Uploader builds an S3 client from cfg.
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3_BUCKET is not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(platformhttp.NewHTTPClient(cfg.Timeout)),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewUploader(client, cfg.Bucket, publicBaseURL(cfg), ratelimiter.NewRateLimiter(cfg.UploadsPerMinute, time.Minute)), nil
}

// NewUploader creates an uploader over an existing client. limiter may be nil.
func NewUploader(client ObjectPutter, bucket, baseURL string, limiter ratelimiter.Limiter) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		limiter: limiter,
		now:     time.Now,
	}
}

func publicBaseURL(cfg Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Upload stores the file at localPath and returns its URL.
// The local file is removed whether the upload succeeds or fails.
func (u *S3Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", ErrEmptyPath
	}
	defer os.Remove(localPath)

	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("upload rate limit: %w", err)
		}
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat staged file: %w", err)
	}

	contentType, err := detectContentType(f)
	if err != nil {
		return "", err
	}

	key := u.objectKey(filepath.Ext(localPath))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return u.baseURL + "/" + key, nil
}

func (u *S3Uploader) objectKey(ext string) string {
	d := u.now().UTC()
	return fmt.Sprintf("media/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(ext))
}

// detectContentType sniffs the first bytes of f and rewinds it.
func detectContentType(f io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read staged file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind staged file: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}
