package utils

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/quillpost/quill/config"
)

// ErrForeignImage is returned for image URLs that do not point into the configured bucket.
var ErrForeignImage = errors.New("image url is not managed by this store")

// ImageStore removes post images that are no longer referenced.
type ImageStore interface {
	DeleteImage(ctx context.Context, imageURL string) error
}

// NopImageStore is used when no bucket is configured.
type NopImageStore struct{}

func (NopImageStore) DeleteImage(context.Context, string) error { return nil }

// S3ImageStore deletes images from an S3 compatible bucket.
type S3ImageStore struct {
	client        s3iface.S3API
	bucket        string
	publicBaseURL string
}

// NewImageStore returns an S3 backed store, or a NopImageStore when storage is disabled.
func NewImageStore(cfg config.StorageSection) (ImageStore, error) {
	if cfg.Bucket == "" {
		return NopImageStore{}, nil
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	// MinIO and other S3 compatible endpoints
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewS3ImageStore(s3.New(sess), cfg.Bucket, cfg.PublicBaseURL), nil
}

func NewS3ImageStore(client s3iface.S3API, bucket, publicBaseURL string) *S3ImageStore {
	return &S3ImageStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// DeleteImage removes the object behind imageURL. Empty URLs are a no-op.
func (s *S3ImageStore) DeleteImage(ctx context.Context, imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return nil
	}
	key, ok := ExtractObjectKey(imageURL, s.publicBaseURL, s.bucket)
	if !ok {
		return ErrForeignImage
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}
	return nil
}

// ExtractObjectKey derives the object key from a public image URL.
// Supported shapes: <publicBaseURL>/<key>, https://<bucket>.<host>/<key> and https://<host>/<bucket>/<key>.
func ExtractObjectKey(imageURL, publicBaseURL, bucket string) (string, bool) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return "", false
	}

	if publicBaseURL != "" {
		rest, found := strings.CutPrefix(imageURL, strings.TrimRight(publicBaseURL, "/")+"/")
		if !found {
			return "", false
		}
		if i := strings.IndexAny(rest, "?#"); i >= 0 {
			rest = rest[:i]
		}
		key, err := url.PathUnescape(rest)
		if err != nil || key == "" {
			return "", false
		}
		return key, true
	}

	u, err := url.Parse(imageURL)
	if err != nil || u.Host == "" || bucket == "" {
		return "", false
	}
	path := strings.TrimPrefix(u.Path, "/")
	var key string
	switch {
	case strings.HasPrefix(u.Hostname(), bucket+"."):
		key = path
	case strings.HasPrefix(path, bucket+"/"):
		key = strings.TrimPrefix(path, bucket+"/")
	}
	return key, key != ""
}
