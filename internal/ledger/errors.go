package ledger

import (
	"errors"
	"fmt"
)

// ErrSkipped marks every error returned by Ledger.Apply: the record was not
// applied and no state changed. Use errors.Is(err, ErrSkipped) to tell skips
// apart from anything else.
var ErrSkipped = errors.New("ledger: record skipped")

var (
	ErrAccountFrozen      = errors.New("ledger: account frozen")
	ErrInsufficientFunds  = errors.New("ledger: insufficient available funds")
	ErrInsufficientHeld   = errors.New("ledger: insufficient held funds")
	ErrInvalidAmount      = errors.New("ledger: invalid amount")
	ErrInvariantViolation = errors.New("ledger: balance invariant violated")

	ErrAlreadyDisputed = errors.New("ledger: transaction already disputed")
	ErrDisputeSettled  = errors.New("ledger: dispute already settled")
	ErrNotDisputed     = errors.New("ledger: transaction not under dispute")

	ErrUnknownTransaction   = errors.New("ledger: unknown transaction")
	ErrClientMismatch       = errors.New("ledger: transaction belongs to another client")
	ErrDuplicateTransaction = errors.New("ledger: duplicate transaction id")
	ErrMissingAmount        = errors.New("ledger: missing amount")
	ErrUnknownKind          = errors.New("ledger: unknown transaction kind")
)

// skipError carries the reason a record was skipped while matching both
// ErrSkipped and the underlying reason under errors.Is.
type skipError struct {
	reason error
	detail string
}

func (e *skipError) Error() string {
	if e.detail == "" {
		return e.reason.Error()
	}
	return fmt.Sprintf("%s: %s", e.detail, e.reason)
}

func (e *skipError) Unwrap() []error {
	return []error{ErrSkipped, e.reason}
}

func skip(reason error, format string, args ...any) error {
	return &skipError{reason: reason, detail: fmt.Sprintf(format, args...)}
}

// Reason returns a short machine-friendly label for a skip error, suitable
// for a log field or a counter key.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAccountFrozen):
		return "account_frozen"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInsufficientHeld):
		return "insufficient_held"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	case errors.Is(err, ErrAlreadyDisputed):
		return "already_disputed"
	case errors.Is(err, ErrDisputeSettled):
		return "dispute_settled"
	case errors.Is(err, ErrNotDisputed):
		return "not_disputed"
	case errors.Is(err, ErrUnknownTransaction):
		return "unknown_transaction"
	case errors.Is(err, ErrClientMismatch):
		return "client_mismatch"
	case errors.Is(err, ErrDuplicateTransaction):
		return "duplicate_transaction"
	case errors.Is(err, ErrMissingAmount):
		return "missing_amount"
	case errors.Is(err, ErrUnknownKind):
		return "unknown_kind"
	default:
		return "other"
	}
}
