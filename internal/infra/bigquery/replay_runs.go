package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// Replay run statuses.
const (
	RunStatusRunning = "RUNNING"
	RunStatusSuccess = "SUCCESS"
	RunStatusFailed  = "FAILED"
)

// ReplayRunRow is one row of the replay runs table, tracking a run from RUNNING to SUCCESS or FAILED.
type ReplayRunRow struct {
	RunID    string `bigquery:"run_id"`    // REQUIRED
	InputURI string `bigquery:"input_uri"` // REQUIRED

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE

	Status       string              `bigquery:"status"`
	ErrorMessage bigquery.NullString `bigquery:"error_message"` // NULLABLE

	RecordsApplied bigquery.NullInt64 `bigquery:"records_applied"` // NULLABLE until finished
	RecordsSkipped bigquery.NullInt64 `bigquery:"records_skipped"`
	RowsMalformed  bigquery.NullInt64 `bigquery:"rows_malformed"`
}

// RunSummary holds the counters recorded when a run succeeds.
type RunSummary struct {
	Applied   int
	Skipped   int
	Malformed int
}
