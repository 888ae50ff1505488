package gcsuploader

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/dvloznov/payments-engine/internal/gcs"
	"google.golang.org/api/option"
)

// objectReader closes the storage client together with the object reader.
type objectReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *objectReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenObject streams the object behind a gs:// URI without buffering it in
// memory. The caller must close the returned reader.
func OpenObject(ctx context.Context, gcsURI string, opts ...option.ClientOption) (io.ReadCloser, error) {
	bucketName, objectPath, err := gcs.ParseURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("OpenObject: creating storage client: %w", err)
	}

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("OpenObject: reading object %s/%s: %w", bucketName, objectPath, err)
	}

	return &objectReader{Reader: rc, client: client}, nil
}
