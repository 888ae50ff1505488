package gcsuploader

import (
	"context"
	"io"

	"github.com/dvloznov/payments-engine/internal/gcs"
	"google.golang.org/api/option"
)

// Re-export interface from shared package so callers need one import.
type StorageService = gcs.StorageService

// GCSStorageService is the concrete implementation of StorageService
// that interacts with Google Cloud Storage.
type GCSStorageService struct {
	opts []option.ClientOption
}

// NewGCSStorageService creates a new instance of GCSStorageService. Options
// are passed to every storage client it creates.
func NewGCSStorageService(opts ...option.ClientOption) *GCSStorageService {
	return &GCSStorageService{opts: opts}
}

// UploadFile delegates to UploadFile.
func (s *GCSStorageService) UploadFile(ctx context.Context, bucketName, objectName, filePath string) error {
	return UploadFile(ctx, bucketName, objectName, filePath, s.opts...)
}

// Open delegates to OpenObject.
func (s *GCSStorageService) Open(ctx context.Context, gcsURI string) (io.ReadCloser, error) {
	return OpenObject(ctx, gcsURI, s.opts...)
}
