package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/reelvault/backend/internal/config"
)

// ErrUnavailable indicates no object store was configured.
var ErrUnavailable = errors.New("object storage unavailable")

// S3Storage stores video assets in an S3-compatible service and issues
// presigned URLs for browser-direct uploads.
type S3Storage struct {
	client     *s3.Client
	uploader   *manager.Uploader
	presign    *s3.PresignClient
	bucket     string
	baseURL    string
	presignTTL time.Duration

	videoPrefix     string
	thumbnailPrefix string
	webcamPrefix    string
}

// NewS3Storage configures a client targeting the provided object store.
func NewS3Storage(ctx context.Context, cfg config.ObjectStoreConfig) (*S3Storage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Storage{
		client:          client,
		uploader:        uploader,
		presign:         s3.NewPresignClient(client),
		bucket:          cfg.Bucket,
		baseURL:         strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		presignTTL:      ttl,
		videoPrefix:     cfg.VideoPrefix,
		thumbnailPrefix: cfg.ThumbnailPrefix,
		webcamPrefix:    cfg.WebcamPrefix,
	}, nil
}

// VideoKey builds the object key for a video asset.
func (s *S3Storage) VideoKey(videoID, filename string) string {
	return path.Join(s.videoPrefix, videoID, path.Base(filename))
}

// ThumbnailKey builds the object key for a thumbnail asset.
func (s *S3Storage) ThumbnailKey(videoID, filename string) string {
	return path.Join(s.thumbnailPrefix, videoID, path.Base(filename))
}

// WebcamKey builds the object key for a webcam recording.
func (s *S3Storage) WebcamKey(recordingID, filename string) string {
	return path.Join(s.webcamPrefix, recordingID, path.Base(filename))
}

// Save uploads the provided content to the configured bucket and returns a public location.
func (s *S3Storage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	key := strings.TrimLeft(name, "/")
	if key == "" {
		return "", fmt.Errorf("s3 storage: empty key")
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   manager.ReadSeekCloser(r),
		ACL:    s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 storage upload %s: %w", key, err)
	}

	return s.PublicURL(key), nil
}

// PresignUpload issues a presigned PUT URL for a browser-direct upload.
func (s *S3Storage) PresignUpload(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign upload %s: %w", key, err)
	}
	return req.URL, nil
}

// PresignGet issues a presigned GET URL, used for private playback.
func (s *S3Storage) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}

// Stat returns the size of the object at key, or an error if it does not exist.
func (s *S3Storage) Stat(ctx context.Context, key string) (int64, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("head object %s: %w", key, err)
	}
	if head.ContentLength == nil {
		return 0, nil
	}
	return *head.ContentLength, nil
}

// PublicURL maps a key onto the public base URL, falling back to the key itself.
func (s *S3Storage) PublicURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.baseURL == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}
