package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits kept for every amount.
const AmountScale int32 = 4

// MaxAmountIntegerDigits bounds the integer part of a parsed amount.
// It matches the precision of a BigQuery NUMERIC column.
const MaxAmountIntegerDigits = 29

// plainAmount accepts unsigned decimal notation only: no sign, no exponent.
var plainAmount = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Kind identifies what a transaction record does to an account.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// Kinds lists every known kind in a stable order.
var Kinds = []Kind{KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback}

// ParseKind maps a wire name such as "deposit" to its Kind.
// Matching ignores case and surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// CarriesAmount reports whether records of this kind bring their own amount.
// Dispute, resolve and chargeback reuse the amount of the referenced transaction.
func (k Kind) CarriesAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

func (k Kind) String() string {
	return string(k)
}

// Transaction is one record of the input log.
// Amount is only valid for deposits and withdrawals.
type Transaction struct {
	Kind     Kind
	ClientID uint16
	TxID     uint32
	Amount   decimal.NullDecimal
}

// NewDeposit builds a deposit record. The amount is rounded to AmountScale places.
func NewDeposit(clientID uint16, txID uint32, amount decimal.Decimal) Transaction {
	return Transaction{Kind: KindDeposit, ClientID: clientID, TxID: txID, Amount: NormalizeAmount(amount)}
}

// NewWithdrawal builds a withdrawal record. The amount is rounded to AmountScale places.
func NewWithdrawal(clientID uint16, txID uint32, amount decimal.Decimal) Transaction {
	return Transaction{Kind: KindWithdrawal, ClientID: clientID, TxID: txID, Amount: NormalizeAmount(amount)}
}

// NewDispute builds a dispute referencing txID.
func NewDispute(clientID uint16, txID uint32) Transaction {
	return Transaction{Kind: KindDispute, ClientID: clientID, TxID: txID}
}

// NewResolve builds a resolve referencing txID.
func NewResolve(clientID uint16, txID uint32) Transaction {
	return Transaction{Kind: KindResolve, ClientID: clientID, TxID: txID}
}

// NewChargeback builds a chargeback referencing txID.
func NewChargeback(clientID uint16, txID uint32) Transaction {
	return Transaction{Kind: KindChargeback, ClientID: clientID, TxID: txID}
}

// NormalizeAmount rounds an amount to AmountScale fractional digits
// (half away from zero) and wraps it as a present value.
func NormalizeAmount(amount decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(amount.Round(AmountScale))
}

// ParseAmount parses a plain decimal string such as "2.5" or "1.0000".
// Signs, exponents and integer parts longer than MaxAmountIntegerDigits are
// rejected; extra fractional digits are rounded away.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, fmt.Errorf("negative amount %q", s)
	}
	if !plainAmount.MatchString(s) {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	intPart, _, _ := strings.Cut(s, ".")
	if len(strings.TrimLeft(intPart, "0")) > MaxAmountIntegerDigits {
		return decimal.Zero, fmt.Errorf("amount %q exceeds %d integer digits", s, MaxAmountIntegerDigits)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.Round(AmountScale), nil
}

func (t Transaction) String() string {
	if t.Amount.Valid {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", t.Kind, t.ClientID, t.TxID, t.Amount.Decimal.StringFixed(AmountScale))
	}
	return fmt.Sprintf("%s client=%d tx=%d", t.Kind, t.ClientID, t.TxID)
}
