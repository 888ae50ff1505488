package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
)

// EnsureTablesWithClient creates the dataset and both tables when missing.
// Schemas are inferred from the row structs; snapshots are partitioned by
// snapshot_date.
func EnsureTablesWithClient(ctx context.Context, client *bigquery.Client, t Tables) error {
	ds := client.DatasetInProject(t.ProjectID, t.Dataset)
	if err := ds.Create(ctx, &bigquery.DatasetMetadata{}); err != nil && !isAlreadyExists(err) {
		return fmt.Errorf("EnsureTables: creating dataset %s: %w", t.Dataset, err)
	}

	snapshotSchema, err := bigquery.InferSchema(AccountSnapshotRow{})
	if err != nil {
		return fmt.Errorf("EnsureTables: inferring snapshot schema: %w", err)
	}
	runSchema, err := bigquery.InferSchema(ReplayRunRow{})
	if err != nil {
		return fmt.Errorf("EnsureTables: inferring run schema: %w", err)
	}

	tables := []struct {
		name string
		meta *bigquery.TableMetadata
	}{
		{
			name: t.Snapshots,
			meta: &bigquery.TableMetadata{
				Schema: snapshotSchema,
				TimePartitioning: &bigquery.TimePartitioning{
					Type:  bigquery.DayPartitioningType,
					Field: "snapshot_date",
				},
			},
		},
		{
			name: t.Runs,
			meta: &bigquery.TableMetadata{Schema: runSchema},
		},
	}

	for _, tbl := range tables {
		if err := ds.Table(tbl.name).Create(ctx, tbl.meta); err != nil && !isAlreadyExists(err) {
			return fmt.Errorf("EnsureTables: creating table %s: %w", tbl.name, err)
		}
	}

	return nil
}

func isAlreadyExists(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusConflict
}
