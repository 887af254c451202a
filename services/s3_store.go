package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/HSouheill/yoga_blog_backend/models"
)

// S3Store puts media into an S3-compatible bucket served from a public base URL
type S3Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
	maxBytes  int64
}

func NewS3Store(endpoint, access, secret, bucket string, secure bool, publicURL string, maxBytes int64) (*S3Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return &S3Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
	}, nil
}

func (s *S3Store) Name() string { return "s3" }

func (s *S3Store) Upload(ctx context.Context, upload MediaUpload) (models.MediaItem, error) {
	if err := checkUpload(upload, s.maxBytes); err != nil {
		return models.MediaItem{}, err
	}

	mediaType := upload.Type()
	key := objectKey(mediaType, upload.Filename)

	size := upload.Size
	if size <= 0 {
		size = -1
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, limitReader(upload.Reader, s.maxBytes), size, minio.PutObjectOptions{
		ContentType: upload.ContentType,
	}); err != nil {
		return models.MediaItem{}, fmt.Errorf("s3 put %s: %w", key, err)
	}

	return models.MediaItem{
		URL:      s.publicURL + "/" + key,
		Type:     mediaType,
		PublicID: key,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, item models.MediaItem) error {
	if item.PublicID == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, item.PublicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("s3 remove %s: %w", item.PublicID, err)
	}
	return nil
}
