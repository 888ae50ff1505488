package bigquery

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/payments-engine/internal/domain"
	"github.com/dvloznov/payments-engine/internal/ledger"
	"github.com/shopspring/decimal"
)

// AccountSnapshotRow is one exported account state. Amounts are NUMERIC.
type AccountSnapshotRow struct {
	RunID    string `bigquery:"run_id"`    // REQUIRED
	ClientID int64  `bigquery:"client_id"` // REQUIRED

	Available *big.Rat `bigquery:"available"` // NUMERIC
	Held      *big.Rat `bigquery:"held"`      // NUMERIC
	Total     *big.Rat `bigquery:"total"`     // NUMERIC
	Locked    bool     `bigquery:"locked"`

	SnapshotDate civil.Date `bigquery:"snapshot_date"` // DATE, partition key
	CreatedTS    time.Time  `bigquery:"created_ts"`
}

// ToSnapshotRows maps ledger snapshots to rows for runID, stamped with now.
func ToSnapshotRows(runID string, snaps []ledger.AccountSnapshot, now time.Time) []*AccountSnapshotRow {
	rows := make([]*AccountSnapshotRow, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, &AccountSnapshotRow{
			RunID:        runID,
			ClientID:     int64(s.ClientID),
			Available:    s.Available.Rat(),
			Held:         s.Held.Rat(),
			Total:        s.Total.Rat(),
			Locked:       s.Locked,
			SnapshotDate: civil.DateOf(now),
			CreatedTS:    now,
		})
	}
	return rows
}

// Snapshot converts the row back into a ledger snapshot.
func (r *AccountSnapshotRow) Snapshot() (ledger.AccountSnapshot, error) {
	if r.ClientID < 0 || r.ClientID > 0xFFFF {
		return ledger.AccountSnapshot{}, fmt.Errorf("Snapshot: client_id %d out of range", r.ClientID)
	}
	available, err := ratToDecimal(r.Available)
	if err != nil {
		return ledger.AccountSnapshot{}, fmt.Errorf("Snapshot: available: %w", err)
	}
	held, err := ratToDecimal(r.Held)
	if err != nil {
		return ledger.AccountSnapshot{}, fmt.Errorf("Snapshot: held: %w", err)
	}
	total, err := ratToDecimal(r.Total)
	if err != nil {
		return ledger.AccountSnapshot{}, fmt.Errorf("Snapshot: total: %w", err)
	}
	return ledger.AccountSnapshot{
		ClientID:  uint16(r.ClientID),
		Available: available,
		Held:      held,
		Total:     total,
		Locked:    r.Locked,
	}, nil
}

func ratToDecimal(r *big.Rat) (decimal.Decimal, error) {
	if r == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(r.FloatString(int(domain.AmountScale)))
}
