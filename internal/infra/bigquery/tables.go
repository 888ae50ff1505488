package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// Tables locates the dataset and tables the replay export writes to.
type Tables struct {
	ProjectID string
	Dataset   string
	Snapshots string
	Runs      string
}

// snapshotsRef returns the backquoted, fully qualified snapshots table name.
func (t Tables) snapshotsRef() string {
	return fmt.Sprintf("`%s.%s.%s`", t.ProjectID, t.Dataset, t.Snapshots)
}

func (t Tables) runsRef() string {
	return fmt.Sprintf("`%s.%s.%s`", t.ProjectID, t.Dataset, t.Runs)
}

// runAndWait runs a DML query and waits for it to finish.
func runAndWait(ctx context.Context, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}

	return nil
}
