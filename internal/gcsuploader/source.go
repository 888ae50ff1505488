package gcsuploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dvloznov/payments-engine/internal/gcs"
)

// ErrNoStorage is returned by OpenSource for a gs:// input when no storage
// service is configured.
var ErrNoStorage = errors.New("gcsuploader: no storage service for gs:// input")

// OpenSource opens the replay input named by arg: a gs:// URI through svc,
// anything else as a local file.
func OpenSource(ctx context.Context, svc StorageService, arg string) (io.ReadCloser, error) {
	if gcs.IsURI(arg) {
		if svc == nil {
			return nil, ErrNoStorage
		}
		rc, err := svc.Open(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("OpenSource: %w", err)
		}
		return rc, nil
	}

	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("OpenSource: %w", err)
	}
	return f, nil
}
