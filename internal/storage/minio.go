package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// operationTimeout bounds every call against the object store on top of
// whatever deadline the request context already carries.
const operationTimeout = 30 * time.Second

// UploadResult is what the store hands back for a stored object: the public
// URL clients render and the opaque key used to delete the object later.
type UploadResult struct {
	URL      string
	PublicID string
}

// ObjectStorage abstracts the external blob store holding image binaries.
type ObjectStorage interface {
	Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (*UploadResult, error)
	Remove(ctx context.Context, publicID string) error
}

// minioAPI is the subset of the minio client the store uses; narrowed for mocking.
type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// MinioStorage stores image binaries in a MinIO (S3-compatible) bucket.
type MinioStorage struct {
	client    minioAPI
	bucket    string
	publicURL string
}

// NewMinioStorage creates a MinIO-backed object storage client. publicURL is
// the base under which bucket objects are reachable; empty derives it from the
// endpoint and SSL flag.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, publicURL string) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, endpoint)
	}

	return &MinioStorage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores the object under a fresh uuid-based key that keeps the
// original file extension, and returns its public URL and key.
func (s *MinioStorage) Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (*UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	objectName := uuid.New().String() + strings.ToLower(path.Ext(filename))
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", objectName, err)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName),
		PublicID: objectName,
	}, nil
}

// Remove deletes the object addressed by publicID. Removing an object that is
// already gone is not an error.
func (s *MinioStorage) Remove(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", publicID, err)
	}
	return nil
}
