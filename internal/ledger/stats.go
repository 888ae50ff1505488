package ledger

import (
	"maps"

	"github.com/dvloznov/payments-engine/internal/domain"
)

// Stats counts what happened to the records passed to Apply.
// Skip reasons are keyed by Reason labels.
type Stats struct {
	Applied map[domain.Kind]int
	Skipped map[domain.Kind]int
	Reasons map[string]int
}

func newStats() Stats {
	return Stats{
		Applied: make(map[domain.Kind]int),
		Skipped: make(map[domain.Kind]int),
		Reasons: make(map[string]int),
	}
}

func (s *Stats) record(kind domain.Kind, err error) {
	if err == nil {
		s.Applied[kind]++
		return
	}
	s.Skipped[kind]++
	s.Reasons[Reason(err)]++
}

func (s Stats) clone() Stats {
	return Stats{
		Applied: maps.Clone(s.Applied),
		Skipped: maps.Clone(s.Skipped),
		Reasons: maps.Clone(s.Reasons),
	}
}

// TotalApplied is the number of records that changed the ledger.
func (s Stats) TotalApplied() int {
	return sum(s.Applied)
}

// TotalSkipped is the number of records Apply rejected.
func (s Stats) TotalSkipped() int {
	return sum(s.Skipped)
}

func sum(m map[domain.Kind]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
