package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account holds one client's balances.
//
// Total is not stored: it is always Available + Held. Once Frozen is set by a
// chargeback it is never cleared and every further balance change fails with
// ErrAccountFrozen.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Frozen    bool
}

// NewAccount returns an empty, unfrozen account.
func NewAccount(clientID uint16) *Account {
	return &Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns Available + Held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// IsFrozen reports whether a chargeback has locked the account.
func (a *Account) IsFrozen() bool {
	return a.Frozen
}

// Deposit adds amount to the available funds.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}
	return a.mutate(func() {
		a.Available = a.Available.Add(amount)
	})
}

// Withdraw removes amount from the available funds.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}
	if amount.GreaterThan(a.Available) {
		return fmt.Errorf("withdraw %s from available %s: %w", amount, a.Available, ErrInsufficientFunds)
	}
	return a.mutate(func() {
		a.Available = a.Available.Sub(amount)
	})
}

// Hold moves amount from available to held. Total is unchanged.
func (a *Account) Hold(amount decimal.Decimal) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}
	if amount.GreaterThan(a.Available) {
		return fmt.Errorf("hold %s from available %s: %w", amount, a.Available, ErrInsufficientFunds)
	}
	return a.mutate(func() {
		a.Available = a.Available.Sub(amount)
		a.Held = a.Held.Add(amount)
	})
}

// Release moves amount from held back to available. Total is unchanged.
func (a *Account) Release(amount decimal.Decimal) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}
	if amount.GreaterThan(a.Held) {
		return fmt.Errorf("release %s from held %s: %w", amount, a.Held, ErrInsufficientHeld)
	}
	return a.mutate(func() {
		a.Held = a.Held.Sub(amount)
		a.Available = a.Available.Add(amount)
	})
}

// Chargeback removes amount from held (and so from total) and freezes the account.
func (a *Account) Chargeback(amount decimal.Decimal) error {
	if err := a.checkMutable(amount); err != nil {
		return err
	}
	if amount.GreaterThan(a.Held) {
		return fmt.Errorf("chargeback %s from held %s: %w", amount, a.Held, ErrInsufficientHeld)
	}
	return a.mutate(func() {
		a.Held = a.Held.Sub(amount)
		a.Frozen = true
	})
}

func (a *Account) checkMutable(amount decimal.Decimal) error {
	if a.Frozen {
		return fmt.Errorf("client %d: %w", a.ClientID, ErrAccountFrozen)
	}
	if amount.IsNegative() {
		return fmt.Errorf("amount %s: %w", amount, ErrInvalidAmount)
	}
	return nil
}

// mutate applies fn and rolls it back if the balances break an invariant.
func (a *Account) mutate(fn func()) error {
	before := *a
	fn()
	if err := a.checkInvariants(); err != nil {
		*a = before
		return err
	}
	return nil
}

func (a *Account) checkInvariants() error {
	if a.Available.IsNegative() || a.Held.IsNegative() {
		return fmt.Errorf("client %d available=%s held=%s: %w",
			a.ClientID, a.Available, a.Held, ErrInvariantViolation)
	}
	return nil
}
