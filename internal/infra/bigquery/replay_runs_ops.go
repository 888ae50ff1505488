package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/payments-engine/internal/logger"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

const maxErrorMessageLen = 2000

// StartReplayRunWithClient inserts a new row into the runs table with
// status=RUNNING and returns the generated run_id.
func StartReplayRunWithClient(ctx context.Context, client *bigquery.Client, t Tables, inputURI string) (string, error) {
	runID := uuid.NewString()

	q := client.Query(fmt.Sprintf(`
		INSERT %s (
			run_id,
			input_uri,
			started_ts,
			status
		)
		VALUES (
			@run_id,
			@input_uri,
			@started_ts,
			@status
		)
	`, t.runsRef()))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
		{Name: "input_uri", Value: inputURI},
		{Name: "started_ts", Value: time.Now()},
		{Name: "status", Value: RunStatusRunning},
	}

	if err := runAndWait(ctx, q); err != nil {
		return "", fmt.Errorf("StartReplayRun: %w", err)
	}

	return runID, nil
}

// MarkReplayRunFailedWithClient sets status=FAILED, finished_ts and
// error_message. Failures are logged, not returned: the run is already
// failing and the original error is the one that matters.
func MarkReplayRunFailedWithClient(ctx context.Context, client *bigquery.Client, t Tables, runID string, runErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		if len(errMsg) > maxErrorMessageLen {
			errMsg = errMsg[:maxErrorMessageLen]
		}
	}

	q := client.Query(fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, t.runsRef()))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: RunStatusFailed},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "run_id", Value: runID},
	}

	if err := runAndWait(ctx, q); err != nil {
		log.Error().
			Err(err).
			Str("run_id", runID).
			Msg("MarkReplayRunFailed: update failed")
	}
}

// MarkReplayRunSucceededWithClient sets status=SUCCESS, finished_ts and the
// run counters.
func MarkReplayRunSucceededWithClient(ctx context.Context, client *bigquery.Client, t Tables, runID string, summary RunSummary) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = NULL,
		    records_applied = @records_applied,
		    records_skipped = @records_skipped,
		    rows_malformed = @rows_malformed
		WHERE run_id = @run_id
	`, t.runsRef()))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: RunStatusSuccess},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "records_applied", Value: int64(summary.Applied)},
		{Name: "records_skipped", Value: int64(summary.Skipped)},
		{Name: "rows_malformed", Value: int64(summary.Malformed)},
		{Name: "run_id", Value: runID},
	}

	if err := runAndWait(ctx, q); err != nil {
		return fmt.Errorf("MarkReplayRunSucceeded: %w", err)
	}

	return nil
}

// ListRecentRunsWithClient returns up to limit runs, newest first.
func ListRecentRunsWithClient(ctx context.Context, client *bigquery.Client, t Tables, limit int) ([]*ReplayRunRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			run_id,
			input_uri,
			started_ts,
			finished_ts,
			status,
			error_message,
			records_applied,
			records_skipped,
			rows_malformed
		FROM %s
		ORDER BY started_ts DESC
		LIMIT @limit
	`, t.runsRef()))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: int64(limit)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecentRuns: reading query: %w", err)
	}

	var runs []*ReplayRunRow
	for {
		var row ReplayRunRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecentRuns: iterating: %w", err)
		}
		runs = append(runs, &row)
	}

	return runs, nil
}
