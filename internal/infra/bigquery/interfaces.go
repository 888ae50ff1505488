package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"
)

// SnapshotRepository provides an interface for replay export operations.
type SnapshotRepository interface {
	// StartReplayRun inserts a new run with status=RUNNING and returns the run_id.
	StartReplayRun(ctx context.Context, inputURI string) (string, error)

	// MarkReplayRunFailed sets status=FAILED, finished_ts and error_message for a run.
	MarkReplayRunFailed(ctx context.Context, runID string, runErr error)

	// MarkReplayRunSucceeded sets status=SUCCESS, finished_ts and counters for a run.
	MarkReplayRunSucceeded(ctx context.Context, runID string, summary RunSummary) error

	// InsertSnapshots inserts a batch of AccountSnapshotRow.
	InsertSnapshots(ctx context.Context, rows []*AccountSnapshotRow) error

	// ListSnapshotsByRun retrieves the snapshots exported by a run.
	ListSnapshotsByRun(ctx context.Context, runID string) ([]*AccountSnapshotRow, error)

	// ListRecentRuns retrieves up to limit runs, newest first.
	ListRecentRuns(ctx context.Context, limit int) ([]*ReplayRunRow, error)

	// DeleteRun deletes a run and its snapshots.
	DeleteRun(ctx context.Context, runID string) error
}

// BigQuerySnapshotRepository is the concrete implementation of SnapshotRepository
// that interacts with BigQuery. It holds a shared BigQuery client to avoid
// creating a new connection for each operation.
type BigQuerySnapshotRepository struct {
	client *bigquery.Client
	tables Tables
}

// NewBigQuerySnapshotRepository creates a new instance of BigQuerySnapshotRepository
// with a shared BigQuery client.
func NewBigQuerySnapshotRepository(ctx context.Context, tables Tables, opts ...option.ClientOption) (*BigQuerySnapshotRepository, error) {
	client, err := bigquery.NewClient(ctx, tables.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewBigQuerySnapshotRepository: creating client: %w", err)
	}
	return &BigQuerySnapshotRepository{
		client: client,
		tables: tables,
	}, nil
}

// Close closes the BigQuery client connection. This should be called when
// the repository is no longer needed to release resources.
func (r *BigQuerySnapshotRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// EnsureTables creates the dataset and tables when missing.
func (r *BigQuerySnapshotRepository) EnsureTables(ctx context.Context) error {
	return EnsureTablesWithClient(ctx, r.client, r.tables)
}

// StartReplayRun delegates to StartReplayRunWithClient with the shared client.
func (r *BigQuerySnapshotRepository) StartReplayRun(ctx context.Context, inputURI string) (string, error) {
	return StartReplayRunWithClient(ctx, r.client, r.tables, inputURI)
}

// MarkReplayRunFailed delegates to MarkReplayRunFailedWithClient with the shared client.
func (r *BigQuerySnapshotRepository) MarkReplayRunFailed(ctx context.Context, runID string, runErr error) {
	MarkReplayRunFailedWithClient(ctx, r.client, r.tables, runID, runErr)
}

// MarkReplayRunSucceeded delegates to MarkReplayRunSucceededWithClient with the shared client.
func (r *BigQuerySnapshotRepository) MarkReplayRunSucceeded(ctx context.Context, runID string, summary RunSummary) error {
	return MarkReplayRunSucceededWithClient(ctx, r.client, r.tables, runID, summary)
}

// InsertSnapshots delegates to InsertSnapshotsWithClient with the shared client.
func (r *BigQuerySnapshotRepository) InsertSnapshots(ctx context.Context, rows []*AccountSnapshotRow) error {
	return InsertSnapshotsWithClient(ctx, r.client, r.tables, rows)
}

// ListSnapshotsByRun delegates to ListSnapshotsByRunWithClient with the shared client.
func (r *BigQuerySnapshotRepository) ListSnapshotsByRun(ctx context.Context, runID string) ([]*AccountSnapshotRow, error) {
	return ListSnapshotsByRunWithClient(ctx, r.client, r.tables, runID)
}

// ListRecentRuns delegates to ListRecentRunsWithClient with the shared client.
func (r *BigQuerySnapshotRepository) ListRecentRuns(ctx context.Context, limit int) ([]*ReplayRunRow, error) {
	return ListRecentRunsWithClient(ctx, r.client, r.tables, limit)
}

// DeleteRun delegates to DeleteRunWithClient with the shared client.
func (r *BigQuerySnapshotRepository) DeleteRun(ctx context.Context, runID string) error {
	return DeleteRunWithClient(ctx, r.client, r.tables, runID)
}
