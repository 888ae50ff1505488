package gcs

import (
	"context"
	"io"
)

// StorageService provides an interface for cloud storage operations.
// This interface enables mocking and testing of storage functionality.
type StorageService interface {
	// UploadFile uploads a local file to a storage bucket under the given object name.
	UploadFile(ctx context.Context, bucketName, objectName, filePath string) error

	// Open streams the object behind a gs:// URI. The caller closes the reader.
	Open(ctx context.Context, gcsURI string) (io.ReadCloser, error)
}
