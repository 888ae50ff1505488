package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// insertBatchSize caps rows per streaming insert request.
const insertBatchSize = 500

// InsertSnapshotsWithClient streams snapshot rows into the snapshots table
// using the provided BigQuery client.
func InsertSnapshotsWithClient(ctx context.Context, client *bigquery.Client, t Tables, rows []*AccountSnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := client.DatasetInProject(t.ProjectID, t.Dataset).Table(t.Snapshots).Inserter()
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		if err := inserter.Put(ctx, rows[start:end]); err != nil {
			return fmt.Errorf("InsertSnapshots: inserting rows %d-%d: %w", start, end, err)
		}
	}

	return nil
}

// ListSnapshotsByRunWithClient returns the snapshot rows of one run ordered
// by client id.
func ListSnapshotsByRunWithClient(ctx context.Context, client *bigquery.Client, t Tables, runID string) ([]*AccountSnapshotRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			run_id,
			client_id,
			available,
			held,
			total,
			locked,
			snapshot_date,
			created_ts
		FROM %s
		WHERE run_id = @run_id
		ORDER BY client_id
	`, t.snapshotsRef()))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListSnapshotsByRun: reading query: %w", err)
	}

	var rows []*AccountSnapshotRow
	for {
		var row AccountSnapshotRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListSnapshotsByRun: iterating: %w", err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}
