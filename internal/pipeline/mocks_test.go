package pipeline_test

import (
	"context"
	"errors"
	"io"
	"strings"

	infra "github.com/dvloznov/payments-engine/internal/infra/bigquery"
	"github.com/dvloznov/payments-engine/internal/pipeline"
)

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing.
type MockSnapshotRepository struct {
	StartReplayRunFunc         func(ctx context.Context, inputURI string) (string, error)
	MarkReplayRunFailedFunc    func(ctx context.Context, runID string, runErr error)
	MarkReplayRunSucceededFunc func(ctx context.Context, runID string, summary infra.RunSummary) error
	InsertSnapshotsFunc        func(ctx context.Context, rows []*infra.AccountSnapshotRow) error
	ListSnapshotsByRunFunc     func(ctx context.Context, runID string) ([]*infra.AccountSnapshotRow, error)
	ListRecentRunsFunc         func(ctx context.Context, limit int) ([]*infra.ReplayRunRow, error)
	DeleteRunFunc              func(ctx context.Context, runID string) error
}

var _ pipeline.SnapshotRepository = (*MockSnapshotRepository)(nil)

func (m *MockSnapshotRepository) StartReplayRun(ctx context.Context, inputURI string) (string, error) {
	if m.StartReplayRunFunc != nil {
		return m.StartReplayRunFunc(ctx, inputURI)
	}
	return "test-run-id", nil
}

func (m *MockSnapshotRepository) MarkReplayRunFailed(ctx context.Context, runID string, runErr error) {
	if m.MarkReplayRunFailedFunc != nil {
		m.MarkReplayRunFailedFunc(ctx, runID, runErr)
	}
}

func (m *MockSnapshotRepository) MarkReplayRunSucceeded(ctx context.Context, runID string, summary infra.RunSummary) error {
	if m.MarkReplayRunSucceededFunc != nil {
		return m.MarkReplayRunSucceededFunc(ctx, runID, summary)
	}
	return nil
}

func (m *MockSnapshotRepository) InsertSnapshots(ctx context.Context, rows []*infra.AccountSnapshotRow) error {
	if m.InsertSnapshotsFunc != nil {
		return m.InsertSnapshotsFunc(ctx, rows)
	}
	return nil
}

func (m *MockSnapshotRepository) ListSnapshotsByRun(ctx context.Context, runID string) ([]*infra.AccountSnapshotRow, error) {
	if m.ListSnapshotsByRunFunc != nil {
		return m.ListSnapshotsByRunFunc(ctx, runID)
	}
	return nil, nil
}

func (m *MockSnapshotRepository) ListRecentRuns(ctx context.Context, limit int) ([]*infra.ReplayRunRow, error) {
	if m.ListRecentRunsFunc != nil {
		return m.ListRecentRunsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockSnapshotRepository) DeleteRun(ctx context.Context, runID string) error {
	if m.DeleteRunFunc != nil {
		return m.DeleteRunFunc(ctx, runID)
	}
	return nil
}

// MockStorageService is a mock implementation of StorageService for testing.
type MockStorageService struct {
	UploadFileFunc func(ctx context.Context, bucketName, objectName, filePath string) error
	OpenFunc       func(ctx context.Context, gcsURI string) (io.ReadCloser, error)
}

var _ pipeline.StorageService = (*MockStorageService)(nil)

func (m *MockStorageService) UploadFile(ctx context.Context, bucketName, objectName, filePath string) error {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, bucketName, objectName, filePath)
	}
	return nil
}

func (m *MockStorageService) Open(ctx context.Context, gcsURI string) (io.ReadCloser, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, gcsURI)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

// failingWriter fails every write, standing in for a closed stdout.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}
