package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DisputeState is the lifecycle position of a disputed transaction.
type DisputeState string

const (
	// NoDispute is reported for transactions that were never disputed.
	NoDispute          DisputeState = ""
	DisputeOpen        DisputeState = "open"
	DisputeResolved    DisputeState = "resolved"
	DisputeChargedBack DisputeState = "charged_back"
)

// IsSettled reports whether the state is terminal.
func (s DisputeState) IsSettled() bool {
	return s == DisputeResolved || s == DisputeChargedBack
}

// Dispute is the tracker entry for one disputed transaction.
type Dispute struct {
	TxID     uint32
	ClientID uint16
	Amount   decimal.Decimal
	State    DisputeState
}

// DisputeTracker follows every dispute by transaction id.
//
//	NoDispute -> Open -> Resolved | ChargedBack
//
// Entries are never removed, so a settled transaction can not be disputed again.
type DisputeTracker struct {
	disputes map[uint32]*Dispute
}

func NewDisputeTracker() *DisputeTracker {
	return &DisputeTracker{disputes: make(map[uint32]*Dispute)}
}

// State returns the current state for txID, NoDispute if it was never opened.
func (t *DisputeTracker) State(txID uint32) DisputeState {
	if d, ok := t.disputes[txID]; ok {
		return d.State
	}
	return NoDispute
}

// Get returns a copy of the entry for txID.
func (t *DisputeTracker) Get(txID uint32) (Dispute, bool) {
	d, ok := t.disputes[txID]
	if !ok {
		return Dispute{}, false
	}
	return *d, true
}

// Open starts a dispute. Only transactions with no dispute history can be opened.
func (t *DisputeTracker) Open(txID uint32, clientID uint16, amount decimal.Decimal) error {
	if d, ok := t.disputes[txID]; ok {
		if d.State.IsSettled() {
			return fmt.Errorf("tx %d is %s: %w", txID, d.State, ErrDisputeSettled)
		}
		return fmt.Errorf("tx %d: %w", txID, ErrAlreadyDisputed)
	}
	t.disputes[txID] = &Dispute{
		TxID:     txID,
		ClientID: clientID,
		Amount:   amount,
		State:    DisputeOpen,
	}
	return nil
}

// Resolve settles an open dispute in the client's favour.
func (t *DisputeTracker) Resolve(txID uint32) error {
	return t.settle(txID, DisputeResolved)
}

// ChargeBack settles an open dispute against the client.
func (t *DisputeTracker) ChargeBack(txID uint32) error {
	return t.settle(txID, DisputeChargedBack)
}

func (t *DisputeTracker) settle(txID uint32, to DisputeState) error {
	d, ok := t.disputes[txID]
	if !ok {
		return fmt.Errorf("tx %d: %w", txID, ErrNotDisputed)
	}
	if d.State != DisputeOpen {
		return fmt.Errorf("tx %d is %s: %w", txID, d.State, ErrDisputeSettled)
	}
	d.State = to
	return nil
}

// Len returns the number of transactions that were ever disputed.
func (t *DisputeTracker) Len() int {
	return len(t.disputes)
}
