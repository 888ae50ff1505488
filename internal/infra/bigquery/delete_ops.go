package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// DeleteRunWithClient deletes a replay run and its exported snapshots.
// Rows still in the streaming buffer cannot be deleted yet; BigQuery reports
// that as a job error.
func DeleteRunWithClient(ctx context.Context, client *bigquery.Client, t Tables, runID string) error {
	// Snapshots first so a partial failure never leaves orphaned rows.
	if err := deleteByRunID(ctx, client, t.snapshotsRef(), runID); err != nil {
		return fmt.Errorf("DeleteRun: deleting snapshots: %w", err)
	}
	if err := deleteByRunID(ctx, client, t.runsRef(), runID); err != nil {
		return fmt.Errorf("DeleteRun: deleting run: %w", err)
	}
	return nil
}

func deleteByRunID(ctx context.Context, client *bigquery.Client, table, runID string) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE run_id = @run_id
	`, table))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
	}
	return runAndWait(ctx, q)
}
