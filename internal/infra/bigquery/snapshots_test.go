package bigquery

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/payments-engine/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(client uint16, available, held string, locked bool) ledger.AccountSnapshot {
	a := decimal.RequireFromString(available)
	h := decimal.RequireFromString(held)
	return ledger.AccountSnapshot{ClientID: client, Available: a, Held: h, Total: a.Add(h), Locked: locked}
}

func TestToSnapshotRows(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	rows := ToSnapshotRows("run-1", []ledger.AccountSnapshot{
		snap(1, "1.5", "0.25", false),
		snap(2, "0", "0", true),
	}, now)

	require.Len(t, rows, 2)
	assert.Equal(t, "run-1", rows[0].RunID)
	assert.Equal(t, int64(1), rows[0].ClientID)
	assert.Equal(t, 0, rows[0].Available.Cmp(big.NewRat(3, 2)))
	assert.Equal(t, 0, rows[0].Held.Cmp(big.NewRat(1, 4)))
	assert.Equal(t, 0, rows[0].Total.Cmp(big.NewRat(7, 4)))
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 9}, rows[0].SnapshotDate)
	assert.True(t, rows[1].Locked)
}

func TestAccountSnapshotRow_RoundTrip(t *testing.T) {
	want := []ledger.AccountSnapshot{
		snap(7, "10.1234", "3", false),
		snap(65535, "0.0001", "0", true),
	}

	for i, row := range ToSnapshotRows("r", want, time.Now()) {
		got, err := row.Snapshot()
		require.NoError(t, err)
		assert.True(t, want[i].Equal(got), "want %+v, got %+v", want[i], got)
	}
}

func TestAccountSnapshotRow_Rejects(t *testing.T) {
	_, err := (&AccountSnapshotRow{ClientID: 70000}).Snapshot()
	assert.Error(t, err)

	got, err := (&AccountSnapshotRow{ClientID: 3}).Snapshot()
	require.NoError(t, err)
	assert.True(t, got.Total.IsZero())
}

func TestInferSchema(t *testing.T) {
	schema, err := bigquery.InferSchema(AccountSnapshotRow{})
	require.NoError(t, err)

	types := map[string]bigquery.FieldType{}
	for _, f := range schema {
		types[f.Name] = f.Type
	}
	assert.Equal(t, bigquery.NumericFieldType, types["available"])
	assert.Equal(t, bigquery.NumericFieldType, types["total"])
	assert.Equal(t, bigquery.DateFieldType, types["snapshot_date"])
	assert.Equal(t, bigquery.BooleanFieldType, types["locked"])

	runSchema, err := bigquery.InferSchema(ReplayRunRow{})
	require.NoError(t, err)
	assert.Len(t, runSchema, 9)
}

func TestTablesRefs(t *testing.T) {
	tables := Tables{ProjectID: "p", Dataset: "d", Snapshots: "s", Runs: "r"}
	assert.Equal(t, "`p.d.s`", tables.snapshotsRef())
	assert.Equal(t, "`p.d.r`", tables.runsRef())
}
