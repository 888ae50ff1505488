package pipeline

import (
	"maps"
	"slices"

	infra "github.com/dvloznov/payments-engine/internal/infra/bigquery"
	"github.com/dvloznov/payments-engine/internal/ledger"
	"github.com/rs/zerolog"
)

// ReplayStats summarises one replay.
type ReplayStats struct {
	// Rows counts parsed rows handed to the ledger.
	Rows int
	// Malformed counts rows the reader could not parse.
	Malformed int
	// Ledger holds applied and skipped counts per kind.
	Ledger ledger.Stats
	// Accounts is the number of accounts in the final snapshot.
	Accounts int
}

// Summary maps the stats onto the run record counters.
func (s ReplayStats) Summary() infra.RunSummary {
	return infra.RunSummary{
		Applied:   s.Ledger.TotalApplied(),
		Skipped:   s.Ledger.TotalSkipped(),
		Malformed: s.Malformed,
	}
}

// MarshalZerologObject lets the stats be logged with Object("stats", s).
func (s ReplayStats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("rows", s.Rows).
		Int("malformed", s.Malformed).
		Int("applied", s.Ledger.TotalApplied()).
		Int("skipped", s.Ledger.TotalSkipped()).
		Int("accounts", s.Accounts)

	if len(s.Ledger.Reasons) > 0 {
		reasons := zerolog.Dict()
		for _, reason := range slices.Sorted(maps.Keys(s.Ledger.Reasons)) {
			reasons.Int(reason, s.Ledger.Reasons[reason])
		}
		e.Dict("skip_reasons", reasons)
	}
}
