package ledger

import (
	"fmt"

	"github.com/dvloznov/payments-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountSnapshot is the exported view of one account, rounded to
// domain.AmountScale places.
type AccountSnapshot struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Equal compares two snapshots by value.
func (s AccountSnapshot) Equal(o AccountSnapshot) bool {
	return s.ClientID == o.ClientID &&
		s.Locked == o.Locked &&
		s.Available.Equal(o.Available) &&
		s.Held.Equal(o.Held) &&
		s.Total.Equal(o.Total)
}

func snapshotOf(a Account) AccountSnapshot {
	return AccountSnapshot{
		ClientID:  a.ClientID,
		Available: a.Available.Round(domain.AmountScale),
		Held:      a.Held.Round(domain.AmountScale),
		Total:     a.Total().Round(domain.AmountScale),
		Locked:    a.Frozen,
	}
}

// Snapshot returns every account ordered by ascending client id.
// The result is deterministic for a given ledger state.
func (l *Ledger) Snapshot() []AccountSnapshot {
	accounts := l.Accounts()
	out := make([]AccountSnapshot, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, snapshotOf(a))
	}
	return out
}

// Restore builds a ledger holding exactly the given account states, with no
// transaction or dispute history. Restore(s).Snapshot() reproduces s.
func Restore(snaps []AccountSnapshot) (*Ledger, error) {
	l := New()
	for _, s := range snaps {
		if _, dup := l.accounts[s.ClientID]; dup {
			return nil, fmt.Errorf("Restore: duplicate client %d", s.ClientID)
		}
		if s.Available.IsNegative() || s.Held.IsNegative() {
			return nil, fmt.Errorf("Restore: client %d: negative balance: %w", s.ClientID, ErrInvariantViolation)
		}
		if !s.Available.Add(s.Held).Equal(s.Total) {
			return nil, fmt.Errorf("Restore: client %d: total %s != available %s + held %s: %w",
				s.ClientID, s.Total, s.Available, s.Held, ErrInvariantViolation)
		}
		l.accounts[s.ClientID] = &Account{
			ClientID:  s.ClientID,
			Available: s.Available,
			Held:      s.Held,
			Frozen:    s.Locked,
		}
	}
	return l, nil
}
