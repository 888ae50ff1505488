package ledger

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dvloznov/payments-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// recordedTx is what the ledger remembers about an applied deposit or
// withdrawal so later disputes can reference it.
type recordedTx struct {
	ClientID uint16
	Kind     domain.Kind
	Amount   decimal.Decimal
}

// Ledger replays transaction records against client accounts.
//
// Records must be applied in arrival order; later records may depend on
// earlier ones. A Ledger is not safe for concurrent use.
type Ledger struct {
	accounts map[uint16]*Account
	txs      map[uint32]recordedTx
	disputes *DisputeTracker
	stats    Stats
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[uint16]*Account),
		txs:      make(map[uint32]recordedTx),
		disputes: NewDisputeTracker(),
		stats:    newStats(),
	}
}

// Apply applies one record.
//
// A nil error means the record changed the ledger. Any other result is a skip
// (errors.Is(err, ErrSkipped) holds) and leaves every balance untouched; the
// replay should carry on with the next record. The referenced client's account
// is created on first sight either way. Amounts are rounded to
// domain.AmountScale places before they touch a balance.
func (l *Ledger) Apply(tx domain.Transaction) error {
	acc := l.account(tx.ClientID)
	if tx.Kind.CarriesAmount() && tx.Amount.Valid {
		tx.Amount = domain.NormalizeAmount(tx.Amount.Decimal)
	}

	var err error
	switch tx.Kind {
	case domain.KindDeposit:
		err = l.deposit(acc, tx)
	case domain.KindWithdrawal:
		err = l.withdraw(acc, tx)
	case domain.KindDispute:
		err = l.dispute(acc, tx)
	case domain.KindResolve:
		err = l.resolve(acc, tx)
	case domain.KindChargeback:
		err = l.chargeback(acc, tx)
	default:
		err = skip(ErrUnknownKind, "kind %q", tx.Kind)
	}

	l.stats.record(tx.Kind, err)
	return err
}

func (l *Ledger) deposit(acc *Account, tx domain.Transaction) error {
	if err := l.checkNewTransaction(tx); err != nil {
		return err
	}
	if err := acc.Deposit(tx.Amount.Decimal); err != nil {
		return skip(err, "deposit tx %d", tx.TxID)
	}
	l.remember(tx)
	return nil
}

func (l *Ledger) withdraw(acc *Account, tx domain.Transaction) error {
	if err := l.checkNewTransaction(tx); err != nil {
		return err
	}
	if err := acc.Withdraw(tx.Amount.Decimal); err != nil {
		return skip(err, "withdrawal tx %d", tx.TxID)
	}
	l.remember(tx)
	return nil
}

func (l *Ledger) dispute(acc *Account, tx domain.Transaction) error {
	orig, err := l.lookup(tx)
	if err != nil {
		return err
	}
	if state := l.disputes.State(tx.TxID); state != NoDispute {
		if state.IsSettled() {
			return skip(ErrDisputeSettled, "dispute tx %d is %s", tx.TxID, state)
		}
		return skip(ErrAlreadyDisputed, "dispute tx %d", tx.TxID)
	}
	if err := acc.Hold(orig.Amount); err != nil {
		return skip(err, "dispute tx %d", tx.TxID)
	}
	if err := l.disputes.Open(tx.TxID, tx.ClientID, orig.Amount); err != nil {
		return skip(err, "dispute tx %d", tx.TxID)
	}
	return nil
}

func (l *Ledger) resolve(acc *Account, tx domain.Transaction) error {
	orig, err := l.openDispute(tx)
	if err != nil {
		return err
	}
	if err := acc.Release(orig.Amount); err != nil {
		return skip(err, "resolve tx %d", tx.TxID)
	}
	if err := l.disputes.Resolve(tx.TxID); err != nil {
		return skip(err, "resolve tx %d", tx.TxID)
	}
	return nil
}

func (l *Ledger) chargeback(acc *Account, tx domain.Transaction) error {
	orig, err := l.openDispute(tx)
	if err != nil {
		return err
	}
	if err := acc.Chargeback(orig.Amount); err != nil {
		return skip(err, "chargeback tx %d", tx.TxID)
	}
	if err := l.disputes.ChargeBack(tx.TxID); err != nil {
		return skip(err, "chargeback tx %d", tx.TxID)
	}
	return nil
}

// checkNewTransaction validates a deposit or withdrawal before it touches the account.
func (l *Ledger) checkNewTransaction(tx domain.Transaction) error {
	if !tx.Amount.Valid {
		return skip(ErrMissingAmount, "%s tx %d", tx.Kind, tx.TxID)
	}
	if tx.Amount.Decimal.IsNegative() {
		return skip(ErrInvalidAmount, "%s tx %d amount %s", tx.Kind, tx.TxID, tx.Amount.Decimal)
	}
	if _, seen := l.txs[tx.TxID]; seen {
		return skip(ErrDuplicateTransaction, "%s tx %d", tx.Kind, tx.TxID)
	}
	return nil
}

// lookup finds the referenced transaction and checks it belongs to the same client.
func (l *Ledger) lookup(tx domain.Transaction) (recordedTx, error) {
	orig, ok := l.txs[tx.TxID]
	if !ok {
		return recordedTx{}, skip(ErrUnknownTransaction, "%s tx %d", tx.Kind, tx.TxID)
	}
	if orig.ClientID != tx.ClientID {
		return recordedTx{}, skip(ErrClientMismatch, "%s tx %d by client %d, owner %d",
			tx.Kind, tx.TxID, tx.ClientID, orig.ClientID)
	}
	return orig, nil
}

// openDispute is lookup plus the requirement that the dispute is currently open.
func (l *Ledger) openDispute(tx domain.Transaction) (recordedTx, error) {
	orig, err := l.lookup(tx)
	if err != nil {
		return recordedTx{}, err
	}
	switch state := l.disputes.State(tx.TxID); state {
	case DisputeOpen:
		return orig, nil
	case NoDispute:
		return recordedTx{}, skip(ErrNotDisputed, "%s tx %d", tx.Kind, tx.TxID)
	default:
		return recordedTx{}, skip(ErrDisputeSettled, "%s tx %d is %s", tx.Kind, tx.TxID, state)
	}
}

func (l *Ledger) remember(tx domain.Transaction) {
	l.txs[tx.TxID] = recordedTx{
		ClientID: tx.ClientID,
		Kind:     tx.Kind,
		Amount:   tx.Amount.Decimal,
	}
}

func (l *Ledger) account(clientID uint16) *Account {
	acc, ok := l.accounts[clientID]
	if !ok {
		acc = NewAccount(clientID)
		l.accounts[clientID] = acc
	}
	return acc
}

// Account returns a copy of the account for clientID.
func (l *Ledger) Account(clientID uint16) (Account, bool) {
	acc, ok := l.accounts[clientID]
	if !ok {
		return Account{}, false
	}
	return *acc, true
}

// Accounts returns copies of all accounts ordered by client id.
func (l *Ledger) Accounts() []Account {
	ids := slices.Sorted(maps.Keys(l.accounts))
	out := make([]Account, 0, len(ids))
	for _, id := range ids {
		out = append(out, *l.accounts[id])
	}
	return out
}

// DisputeState returns the dispute state of a transaction id.
func (l *Ledger) DisputeState(txID uint32) DisputeState {
	return l.disputes.State(txID)
}

// Stats returns a copy of the apply counters.
func (l *Ledger) Stats() Stats {
	return l.stats.clone()
}

// Len returns the number of known accounts.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

func (l *Ledger) String() string {
	return fmt.Sprintf("ledger{accounts=%d transactions=%d disputes=%d}",
		len(l.accounts), len(l.txs), l.disputes.Len())
}
